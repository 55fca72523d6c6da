package art

import (
	"bytes"
	"image"
	"image/gif"
)

// GIF structural constants the rewriter and validator share.
const (
	gifHeaderLen = 13 // signature + logical screen descriptor

	// Screen descriptor packed byte the legacy client expects:
	// global palette present, 8-bit color resolution, unsorted, 256 entries.
	screenPackedGlobal256 = 0xF7

	// 256 RGB entries.
	globalPaletteLen = 768

	gifExtensionIntroducer = 0x21
	gifGraphicControlLabel = 0xF9
	gifImageSeparator      = 0x2C
	gifTrailer             = 0x3B

	// A graphic control extension block is always 8 bytes:
	// introducer, label, length 4, four payload bytes, terminator.
	graphicControlLen = 8

	// LZW minimum code size for an 8-bit palette.
	lzwMinCodeSize256 = 8
)

// BuildGIF encodes the indexed raster with the stdlib GIF writer and then
// rewrites the byte stream into the exact structure the legacy client
// requires, independent of the writer's own habits.
func BuildGIF(pm *image.Paletted) ([]byte, error) {
	var buf bytes.Buffer
	if err := gif.Encode(&buf, pm, &gif.Options{NumColors: 256}); err != nil {
		return nil, &EncodingFailureError{Err: err}
	}
	return RewriteStream(buf.Bytes()), nil
}

// RewriteStream applies the four corrective passes, in order: version fix,
// control-extension strip, screen-descriptor force, local-to-global palette
// promotion. The input slice is owned by the caller and may be mutated.
func RewriteStream(b []byte) []byte {
	b = ForceVersion87a(b)
	b = StripGraphicControls(b)

	// Whether a global table follows the screen descriptor must be read
	// before the descriptor byte is forced to claim one.
	globalLen := globalTableLen(b)
	b = ForceScreenDescriptor(b)
	b = PromoteLocalPalette(b, globalLen)
	return b
}

// ForceVersion87a rewrites a GIF89a version marker to GIF87a. Only byte 4
// differs between the two markers.
func ForceVersion87a(b []byte) []byte {
	if len(b) >= 6 && string(b[:6]) == "GIF89a" {
		b[4] = '7'
	}
	return b
}

// StripGraphicControls removes every 8-byte graphic-control-extension block
// from the stream, compacting it. The scan is purely byte-pattern based.
func StripGraphicControls(b []byte) []byte {
	out := b[:0]
	i := 0
	for i < len(b) {
		if i+graphicControlLen <= len(b) &&
			b[i] == gifExtensionIntroducer &&
			b[i+1] == gifGraphicControlLabel &&
			b[i+2] == 0x04 &&
			b[i+7] == 0x00 {
			i += graphicControlLen
			continue
		}
		out = append(out, b[i])
		i++
	}
	return out
}

// ForceScreenDescriptor sets the logical-screen-descriptor packed byte to the
// canonical global-256-color pattern and zeroes the background color index.
func ForceScreenDescriptor(b []byte) []byte {
	if len(b) >= gifHeaderLen {
		b[10] = screenPackedGlobal256
		b[11] = 0x00
	}
	return b
}

// globalTableLen returns the byte length of the global color table declared
// by the screen descriptor, or 0 when none is present.
func globalTableLen(b []byte) int {
	if len(b) < gifHeaderLen {
		return 0
	}
	packed := b[10]
	if packed&0x80 == 0 {
		return 0
	}
	return 3 * (1 << ((packed & 0x07) + 1))
}

// findImageDescriptor walks block markers starting after the screen
// descriptor and any global table, skipping extensions, and returns the
// offset of the image separator, or -1.
func findImageDescriptor(b []byte, globalLen int) int {
	pos := gifHeaderLen + globalLen
	for pos < len(b) {
		switch b[pos] {
		case gifImageSeparator:
			return pos
		case gifExtensionIntroducer:
			pos += 2 // introducer + label
			for pos < len(b) && b[pos] != 0 {
				pos += int(b[pos]) + 1
			}
			pos++ // sub-block terminator
		default:
			return -1
		}
	}
	return -1
}

// PromoteLocalPalette moves a per-frame color table into the global position
// directly after the screen descriptor and clears the image descriptor's
// packed byte (local palette, interlace and sort flags all zero). globalLen
// is the length of any table already in the global slot; when the sizes
// match, the stream's total length is unchanged.
func PromoteLocalPalette(b []byte, globalLen int) []byte {
	pos := findImageDescriptor(b, globalLen)
	if pos < 0 || pos+10 > len(b) {
		return b
	}
	packed := b[pos+9]
	if packed&0x80 == 0 {
		// No local table; still clear interlace/sort bits.
		b[pos+9] = 0x00
		return b
	}
	localLen := 3 * (1 << ((packed & 0x07) + 1))
	if pos+10+localLen > len(b) {
		return b
	}
	table := b[pos+10 : pos+10+localLen]

	out := make([]byte, 0, len(b))
	out = append(out, b[:gifHeaderLen]...)
	out = append(out, table...)
	out = append(out, b[gifHeaderLen+globalLen:pos+9]...)
	out = append(out, 0x00) // cleared descriptor packed byte
	out = append(out, b[pos+10+localLen:]...)
	return out
}
