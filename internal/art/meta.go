package art

import (
	"fmt"

	"github.com/iconidentify/dialtone-sub002/internal/quant"
)

// Classification flag values inferred from archived transmissions. The
// category byte has a hard platform requirement: the renderer only accepts
// the legacy category, so the alternate value is silently mapped back.
const (
	FlagCategoryLegacy    = 0x80
	FlagCategoryAlternate = 0x81

	FlagTypeDefault     = 0xFD
	FlagTypeTransparent = 0xFC
	FlagTypeLarge       = 0xFE

	// Side length above which an asset counts as large for flag purposes.
	largeDimension = 320
)

// Metadata is the caller-supplied encode configuration for one asset. Flag1
// and Flag2 override the computed classification flag bytes when in 0..255;
// leave them at -1 (UnsetFlag) to use the calculator.
type Metadata struct {
	Transparency       bool
	Width              int
	Height             int
	Flag1              int
	Flag2              int
	Dithering          bool
	Posterization      bool
	PosterizationLevel int
}

// UnsetFlag marks a classification flag byte as not overridden.
const UnsetFlag = -1

// DefaultMetadata returns a metadata value carrying the documented defaults
// for a maxW x maxH bounding box.
func DefaultMetadata(maxW, maxH int) Metadata {
	return Metadata{
		Width:              maxW,
		Height:             maxH,
		Flag1:              UnsetFlag,
		Flag2:              UnsetFlag,
		Dithering:          true,
		Posterization:      false,
		PosterizationLevel: 32,
	}
}

// Validate rejects configurations the pipeline must never see.
func (m *Metadata) Validate() error {
	if m.Width <= 0 || m.Height <= 0 {
		return &ConfigurationError{Reason: fmt.Sprintf("non-positive target dimensions %dx%d", m.Width, m.Height)}
	}
	if m.Width > 0xFFFF || m.Height > 0xFFFF {
		return &ConfigurationError{Reason: fmt.Sprintf("target dimensions %dx%d exceed 16-bit range", m.Width, m.Height)}
	}
	if m.Posterization &&
		(m.PosterizationLevel < quant.MinPosterizeLevel || m.PosterizationLevel > quant.MaxPosterizeLevel) {
		return &ConfigurationError{Reason: fmt.Sprintf("posterization level %d outside [%d,%d]",
			m.PosterizationLevel, quant.MinPosterizeLevel, quant.MaxPosterizeLevel)}
	}
	if m.Flag1 != UnsetFlag && (m.Flag1 < 0 || m.Flag1 > 0xFF) {
		return &ConfigurationError{Reason: fmt.Sprintf("flag byte 1 value %d outside 0..255", m.Flag1)}
	}
	if m.Flag2 != UnsetFlag && (m.Flag2 < 0 || m.Flag2 > 0xFF) {
		return &ConfigurationError{Reason: fmt.Sprintf("flag byte 2 value %d outside 0..255", m.Flag2)}
	}
	return nil
}

// DefaultFlags derives the two classification flag bytes from the
// transparency intent and the rendered dimensions. Pure function, no state.
func DefaultFlags(transparent bool, width, height int) (byte, byte) {
	category := byte(FlagCategoryLegacy)
	kind := byte(FlagTypeDefault)
	switch {
	case transparent:
		kind = FlagTypeTransparent
	case width > largeDimension || height > largeDimension:
		kind = FlagTypeLarge
	}
	return category, kind
}

// resolveFlags applies metadata overrides on top of the calculator.
func resolveFlags(m Metadata, width, height int) (byte, byte) {
	f1, f2 := DefaultFlags(m.Transparency, width, height)
	if m.Flag1 != UnsetFlag {
		f1 = byte(m.Flag1)
	}
	if m.Flag2 != UnsetFlag {
		f2 = byte(m.Flag2)
	}
	return f1, f2
}
