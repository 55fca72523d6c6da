package art

import (
	"fmt"

	"github.com/iconidentify/dialtone-sub002/internal/logging"
)

// InspectStream re-derives every structural invariant the legacy client
// depends on and returns one finding per violation. It never mutates the
// stream and never fails an encode; it exists to catch regressions against
// the reverse-engineered contract.
func InspectStream(b []byte) []string {
	var findings []string
	report := func(format string, args ...interface{}) {
		findings = append(findings, fmt.Sprintf(format, args...))
	}

	if len(b) < gifHeaderLen {
		report("stream truncated at %d bytes, no room for header", len(b))
		return findings
	}
	if string(b[:6]) != "GIF87a" {
		report("version marker %q, want GIF87a", string(b[:6]))
	}
	if b[10] != screenPackedGlobal256 {
		report("screen descriptor packed byte 0x%02X, want 0x%02X", b[10], screenPackedGlobal256)
	}
	if b[11] != 0x00 {
		report("background color index %d, want 0", b[11])
	}

	for i := 0; i+graphicControlLen <= len(b); i++ {
		if b[i] == gifExtensionIntroducer &&
			b[i+1] == gifGraphicControlLabel &&
			b[i+2] == 0x04 &&
			b[i+7] == 0x00 {
			report("graphic control extension present at offset %d", i)
		}
	}

	if len(b) < gifHeaderLen+globalPaletteLen {
		report("stream too short for a 768-byte global palette")
		return findings
	}

	pos := findImageDescriptor(b, globalPaletteLen)
	if pos < 0 {
		report("image descriptor not found after global palette")
		return findings
	}
	if pos+10 > len(b) {
		report("image descriptor truncated at offset %d", pos)
		return findings
	}
	if packed := b[pos+9]; packed != 0x00 {
		report("image descriptor packed byte 0x%02X, want 0x00", packed)
	}

	pos += 10
	if pos >= len(b) {
		report("missing LZW minimum code size byte")
		return findings
	}
	if b[pos] != lzwMinCodeSize256 {
		report("LZW minimum code size %d, want %d", b[pos], lzwMinCodeSize256)
	}
	pos++

	// Walk the LZW sub-block chain to its zero-length terminator.
	for {
		if pos >= len(b) {
			report("sub-block chain runs past end of stream")
			return findings
		}
		n := int(b[pos])
		pos++
		if n == 0 {
			break
		}
		pos += n
	}

	if pos >= len(b) {
		report("missing trailer byte after sub-block terminator")
		return findings
	}
	if b[pos] != gifTrailer {
		report("byte after image data is 0x%02X, want trailer 0x%02X", b[pos], gifTrailer)
	}
	if pos != len(b)-1 {
		report("%d trailing bytes after the trailer", len(b)-1-pos)
	}
	return findings
}

// logFindings reports validator findings as diagnostics. They never abort an
// otherwise successful encode.
func logFindings(findings []string) {
	for _, f := range findings {
		logging.Warn("gif validator: %s", f)
	}
}
