package art

import (
	"encoding/binary"
)

// ContainerKind names the legacy-native containers the pass-through wrapper
// accepts without re-encoding.
type ContainerKind string

const (
	ContainerGIF       ContainerKind = "gif"
	ContainerBMP       ContainerKind = "bmp"
	ContainerNativeArt ContainerKind = "art"
)

// Native-art container layout: 2-byte signature, then little-endian 16-bit
// width and height at fixed offsets.
const (
	nativeArtSigByte0  = 'J'
	nativeArtSigByte1  = 'G'
	nativeArtWidthOff  = 6
	nativeArtHeightOff = 8
	nativeArtMinLen    = 10
)

// BMP header layout: "BM" signature, int32 little-endian width at offset 18
// and height at 22 (sign discarded; negative means top-down row order).
const (
	bmpWidthOff  = 18
	bmpHeightOff = 22
	bmpMinLen    = 26
)

// GIF header layout: 6-byte signature, then little-endian 16-bit screen
// width and height.
const (
	gifWidthOff  = 6
	gifHeightOff = 8
	gifMinLen    = 10
)

// PassThrough wraps an asset already stored in a legacy-compatible container
// with the 40-byte protocol header, leaving the original bytes untouched.
// Only the container's own header is read, just enough to extract the
// dimensions; the quantization pipeline never runs.
func PassThrough(raw []byte, kind ContainerKind) ([]byte, error) {
	width, height, err := ProbeContainerDimensions(raw, kind)
	if err != nil {
		return nil, err
	}

	magic := uint16(FormatGIF)
	if kind == ContainerNativeArt {
		magic = FormatNativeArt
	}
	flag1, flag2 := DefaultFlags(false, width, height)
	header, err := BuildHeader(width, height, len(raw), 0, flag1, flag2, magic)
	if err != nil {
		return nil, err
	}
	return assemblePayload(header, raw, 0), nil
}

// ProbeContainerDimensions extracts width and height from a legacy
// container's own header fields.
func ProbeContainerDimensions(raw []byte, kind ContainerKind) (int, int, error) {
	switch kind {
	case ContainerGIF:
		return gifDimensions(raw)
	case ContainerBMP:
		return bmpDimensions(raw)
	case ContainerNativeArt:
		return nativeArtDimensions(raw)
	}
	return 0, 0, &UnsupportedContainerError{Kind: kind}
}

func gifDimensions(raw []byte) (int, int, error) {
	if len(raw) < gifMinLen {
		return 0, 0, &MalformedContainerError{Kind: ContainerGIF, Reason: "truncated header"}
	}
	sig := string(raw[:6])
	if sig != "GIF87a" && sig != "GIF89a" {
		return 0, 0, &UnsupportedContainerError{Kind: ContainerGIF, Signature: sig}
	}
	w := int(binary.LittleEndian.Uint16(raw[gifWidthOff:]))
	h := int(binary.LittleEndian.Uint16(raw[gifHeightOff:]))
	if w == 0 || h == 0 {
		return 0, 0, &MalformedContainerError{Kind: ContainerGIF, Reason: "zero dimensions"}
	}
	return w, h, nil
}

func bmpDimensions(raw []byte) (int, int, error) {
	if len(raw) < bmpMinLen {
		return 0, 0, &MalformedContainerError{Kind: ContainerBMP, Reason: "truncated header"}
	}
	if raw[0] != 'B' || raw[1] != 'M' {
		return 0, 0, &UnsupportedContainerError{Kind: ContainerBMP, Signature: string(raw[:2])}
	}
	w := int(int32(binary.LittleEndian.Uint32(raw[bmpWidthOff:])))
	h := int(int32(binary.LittleEndian.Uint32(raw[bmpHeightOff:])))
	if h < 0 {
		h = -h // top-down bitmaps store a negative height
	}
	if w <= 0 || h == 0 {
		return 0, 0, &MalformedContainerError{Kind: ContainerBMP, Reason: "bad dimensions"}
	}
	return w, h, nil
}

func nativeArtDimensions(raw []byte) (int, int, error) {
	if len(raw) < nativeArtMinLen {
		return 0, 0, &MalformedContainerError{Kind: ContainerNativeArt, Reason: "truncated header"}
	}
	if raw[0] != nativeArtSigByte0 || raw[1] != nativeArtSigByte1 {
		return 0, 0, &UnsupportedContainerError{Kind: ContainerNativeArt, Signature: string(raw[:2])}
	}
	w := int(binary.LittleEndian.Uint16(raw[nativeArtWidthOff:]))
	h := int(binary.LittleEndian.Uint16(raw[nativeArtHeightOff:]))
	if w == 0 || h == 0 {
		return 0, 0, &MalformedContainerError{Kind: ContainerNativeArt, Reason: "zero dimensions"}
	}
	return w, h, nil
}
