package art

import (
	"fmt"
)

// ConfigurationError reports invalid caller-supplied metadata. It is raised
// before any pixel processing starts.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid encode configuration: %s", e.Reason)
}

// UnsupportedContainerError reports source bytes whose signature matches no
// recognized legacy container. Signature carries the bytes that failed the
// check when a specific container was expected.
type UnsupportedContainerError struct {
	Kind      ContainerKind
	Signature string
}

func (e *UnsupportedContainerError) Error() string {
	if e.Signature != "" {
		return fmt.Sprintf("unsupported container: signature %q does not match kind %q", e.Signature, e.Kind)
	}
	return fmt.Sprintf("unsupported container kind %q", e.Kind)
}

// MalformedContainerError reports a recognized container whose header is
// truncated or carries invalid fields.
type MalformedContainerError struct {
	Kind   ContainerKind
	Reason string
}

func (e *MalformedContainerError) Error() string {
	return fmt.Sprintf("malformed %s container: %s", e.Kind, e.Reason)
}

// SizeLimitExceededError reports that the encode loop ran out of shrink
// budget: the payload is still over the ceiling but the raster cannot go
// below the minimum dimension floor.
type SizeLimitExceededError struct {
	Size  int
	Limit int
	Floor int
}

func (e *SizeLimitExceededError) Error() string {
	return fmt.Sprintf("encoded size %d exceeds limit %d and dimensions cannot shrink below %dpx", e.Size, e.Limit, e.Floor)
}

// EncodingFailureError wraps an error reported by the underlying GIF
// construction library. It is propagated, never retried.
type EncodingFailureError struct {
	Err error
}

func (e *EncodingFailureError) Error() string {
	return fmt.Sprintf("gif construction failed: %v", e.Err)
}

func (e *EncodingFailureError) Unwrap() error {
	return e.Err
}
