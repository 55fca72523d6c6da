package art

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"testing"
)

// Synthetic stream pieces for exercising the rewrite passes against byte
// layouts the stdlib writer never produces.

func synthLSD(version string, packed byte) []byte {
	b := []byte(version)
	b = append(b, 4, 0, 4, 0) // 4x4 screen
	b = append(b, packed, 0, 0)
	return b
}

func synthPalette() []byte {
	p := make([]byte, globalPaletteLen)
	for i := range p {
		p[i] = byte(i)
	}
	return p
}

func synthDescriptor(packed byte) []byte {
	return []byte{gifImageSeparator, 0, 0, 0, 0, 4, 0, 4, 0, packed}
}

func synthImageData() []byte {
	return []byte{lzwMinCodeSize256, 2, 0xAA, 0xBB, 0x00}
}

func synthGCE() []byte {
	return []byte{gifExtensionIntroducer, gifGraphicControlLabel, 0x04, 0x00, 0x00, 0x00, 0x00, 0x00}
}

func TestForceVersion87a(t *testing.T) {
	b := []byte("GIF89a rest")
	out := ForceVersion87a(b)
	if string(out[:6]) != "GIF87a" {
		t.Errorf("version marker = %q, want GIF87a", out[:6])
	}
	if string(out[6:]) != " rest" {
		t.Errorf("bytes beyond the marker changed")
	}
	already := []byte("GIF87a")
	if string(ForceVersion87a(already)) != "GIF87a" {
		t.Errorf("87a marker must pass through untouched")
	}
}

func TestStripGraphicControls(t *testing.T) {
	var b []byte
	b = append(b, synthLSD("GIF87a", screenPackedGlobal256)...)
	b = append(b, synthPalette()...)
	b = append(b, synthGCE()...)
	b = append(b, synthDescriptor(0x00)...)
	b = append(b, synthImageData()...)
	b = append(b, gifTrailer)

	withLen := len(b)
	out := StripGraphicControls(b)
	if len(out) != withLen-graphicControlLen {
		t.Fatalf("stream length %d after strip, want %d", len(out), withLen-graphicControlLen)
	}
	for i := 0; i+graphicControlLen <= len(out); i++ {
		if out[i] == gifExtensionIntroducer && out[i+1] == gifGraphicControlLabel && out[i+2] == 0x04 && out[i+7] == 0x00 {
			t.Fatalf("control extension survived at offset %d", i)
		}
	}
}

func TestStripGraphicControlsMultiple(t *testing.T) {
	b := append([]byte("GIF87a"), synthGCE()...)
	b = append(b, synthGCE()...)
	b = append(b, 0x99)
	out := StripGraphicControls(b)
	want := append([]byte("GIF87a"), 0x99)
	if !bytes.Equal(out, want) {
		t.Errorf("got % X, want % X", out, want)
	}
}

func TestForceScreenDescriptor(t *testing.T) {
	b := synthLSD("GIF87a", 0x22)
	b[11] = 5 // nonzero background index
	out := ForceScreenDescriptor(b)
	if out[10] != screenPackedGlobal256 {
		t.Errorf("packed byte = 0x%02X, want 0x%02X", out[10], screenPackedGlobal256)
	}
	if out[11] != 0 {
		t.Errorf("background index = %d, want 0", out[11])
	}
}

func TestPromoteLocalPalette(t *testing.T) {
	table := synthPalette()
	var b []byte
	b = append(b, synthLSD("GIF87a", 0x00)...) // no global table
	b = append(b, synthDescriptor(0x87)...)    // local 256-entry table follows
	b = append(b, table...)
	b = append(b, synthImageData()...)
	b = append(b, gifTrailer)

	before := len(b)
	out := PromoteLocalPalette(b, 0)
	if len(out) != before {
		t.Fatalf("net stream length changed: %d -> %d", before, len(out))
	}
	if !bytes.Equal(out[gifHeaderLen:gifHeaderLen+globalPaletteLen], table) {
		t.Errorf("palette not promoted to the global slot")
	}
	descPos := gifHeaderLen + globalPaletteLen
	if out[descPos] != gifImageSeparator {
		t.Fatalf("image descriptor not found after promoted palette")
	}
	if out[descPos+9] != 0x00 {
		t.Errorf("descriptor packed byte = 0x%02X, want 0", out[descPos+9])
	}
	if out[descPos+10] != lzwMinCodeSize256 {
		t.Errorf("image data shifted incorrectly")
	}
}

func TestPromoteLocalPaletteClearsFlagsWithoutTable(t *testing.T) {
	var b []byte
	b = append(b, synthLSD("GIF87a", screenPackedGlobal256)...)
	b = append(b, synthPalette()...)
	b = append(b, synthDescriptor(0x40)...) // interlace flag set, no local table
	b = append(b, synthImageData()...)
	b = append(b, gifTrailer)

	out := PromoteLocalPalette(b, globalPaletteLen)
	descPos := gifHeaderLen + globalPaletteLen
	if out[descPos+9] != 0x00 {
		t.Errorf("interlace/sort flags not cleared: 0x%02X", out[descPos+9])
	}
}

func TestRewriteStreamSynthetic89a(t *testing.T) {
	// A worst-case library product: 89a marker, control extension, palette
	// attached locally, odd screen descriptor.
	var b []byte
	b = append(b, synthLSD("GIF89a", 0x00)...)
	b[11] = 3
	b = append(b, synthGCE()...)
	b = append(b, synthDescriptor(0x87)...)
	b = append(b, synthPalette()...)
	b = append(b, synthImageData()...)
	b = append(b, gifTrailer)

	out := RewriteStream(b)
	if findings := InspectStream(out); len(findings) != 0 {
		t.Errorf("rewritten stream still violates the contract: %v", findings)
	}
}

func TestBuildGIFMeetsContract(t *testing.T) {
	pm := testIndexed(8, 8)
	b, err := BuildGIF(pm)
	if err != nil {
		t.Fatalf("BuildGIF failed: %v", err)
	}
	if findings := InspectStream(b); len(findings) != 0 {
		t.Errorf("library-produced stream violates the contract after rewrite: %v", findings)
	}
	if string(b[:6]) != "GIF87a" {
		t.Errorf("version marker = %q", b[:6])
	}
}

func TestBuildGIFDecodable(t *testing.T) {
	pm := testIndexed(8, 8)
	b, err := BuildGIF(pm)
	if err != nil {
		t.Fatalf("BuildGIF failed: %v", err)
	}
	img, err := gif.Decode(bytes.NewReader(b))
	if err != nil {
		t.Fatalf("rewritten stream no longer decodes: %v", err)
	}
	if img.Bounds().Dx() != 8 || img.Bounds().Dy() != 8 {
		t.Errorf("decoded bounds %v, want 8x8", img.Bounds())
	}
}

// testIndexed builds a small 256-color paletted raster.
func testIndexed(w, h int) *image.Paletted {
	pal := make(color.Palette, 256)
	for i := range pal {
		pal[i] = color.RGBA{R: uint8(i), G: uint8(i / 2), B: uint8(255 - i), A: 0xFF}
	}
	pm := image.NewPaletted(image.Rect(0, 0, w, h), pal)
	for i := range pm.Pix {
		pm.Pix[i] = uint8(i * 7)
	}
	return pm
}
