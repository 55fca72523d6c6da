package art

import (
	"encoding/binary"
	"fmt"

	"github.com/iconidentify/dialtone-sub002/internal/logging"
)

// HeaderSize is the fixed length of the protocol header preceding the
// payload bytes.
const HeaderSize = 40

// Format magic constants at header offset 14, identifying the payload class.
const (
	FormatGIF       = 0x1101 // GIF-class payloads, including BMP pass-through
	FormatNativeArt = 0x1102 // native legacy-art pass-through payloads
)

// Size field contract: the two size fields are linked by fixed arithmetic.
// sizeB = dataSize + paddingSize; sizeA = sizeB + sizeFieldDelta; and the
// total payload length is sizeA + 4.
const (
	sizeFieldDelta = 36

	// sizeB is an unsigned 16-bit wire field.
	sizeFieldMax = 0xFFFF
	// Some consumers mis-read the field as signed; worth a caution.
	signedSizeCaution = 0x7FFF
	// Practical ceiling the encode loop enforces, with margin below 65535.
	SizeCeiling = 60000
)

// BuildHeader synthesizes the 40-byte little-endian protocol header. Width
// and height are the rendered pixel dimensions, dataSize the byte count of
// the payload body, paddingSize the trailing zero padding (normally 0).
//
// The category flag byte is platform-enforced: the alternate category is
// silently rewritten to the legacy category the client requires.
func BuildHeader(width, height, dataSize, paddingSize int, flag1, flag2 byte, magic uint16) ([]byte, error) {
	if width <= 0 || height <= 0 || width > 0xFFFF || height > 0xFFFF {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("header dimensions %dx%d out of range", width, height)}
	}
	if dataSize < 0 || paddingSize < 0 {
		return nil, &ConfigurationError{Reason: "negative size field"}
	}

	sizeB := dataSize + paddingSize
	// Both size fields are unsigned 16-bit, so the derived field caps sizeB
	// at sizeFieldMax - sizeFieldDelta.
	if sizeB+sizeFieldDelta > sizeFieldMax {
		return nil, fmt.Errorf("payload size %d cannot be represented in the unsigned 16-bit size fields (max %d)", sizeB, sizeFieldMax-sizeFieldDelta)
	}
	if sizeB > SizeCeiling {
		logging.Warn("payload size %d is above the %d-byte safety ceiling", sizeB, SizeCeiling)
	}
	if sizeB > signedSizeCaution {
		logging.Warn("payload size %d exceeds the signed 16-bit range; some consumers may mis-read it", sizeB)
	}
	sizeA := sizeB + sizeFieldDelta

	if flag1 == FlagCategoryAlternate {
		// Hard platform requirement; the alternate category does not render.
		flag1 = FlagCategoryLegacy
	}

	h := make([]byte, HeaderSize)
	binary.LittleEndian.PutUint16(h[0:2], 0x0001)  // version marker pt.1
	binary.LittleEndian.PutUint16(h[2:4], 0x0001)  // version marker pt.2
	binary.LittleEndian.PutUint16(h[4:6], 0x0001)  // flag field
	binary.LittleEndian.PutUint16(h[6:8], uint16(sizeA))
	h[8] = 0x00 // fixed pattern 00 00 01 00
	h[9] = 0x00
	h[10] = 0x01
	h[11] = 0x00
	// h[12:14] reserved, zero
	binary.LittleEndian.PutUint16(h[14:16], magic)
	binary.LittleEndian.PutUint16(h[16:18], uint16(width))
	binary.LittleEndian.PutUint16(h[18:20], uint16(height))
	// h[20:22] zero padding
	binary.LittleEndian.PutUint16(h[22:24], uint16(sizeB))
	// h[24:26] zero padding
	h[26] = 0x24 // marker byte, followed by nine zero bytes
	h[36] = flag1
	h[37] = flag2
	// h[38:40] reserved, zero
	return h, nil
}

// assemblePayload concatenates header, body bytes and optional zero padding.
func assemblePayload(header, body []byte, paddingSize int) []byte {
	out := make([]byte, 0, len(header)+len(body)+paddingSize)
	out = append(out, header...)
	out = append(out, body...)
	if paddingSize > 0 {
		out = append(out, make([]byte, paddingSize)...)
	}
	return out
}
