package quant

import (
	"image"
)

// IndexImage builds an 8-bit indexed raster from img against p. When the
// raster was dithered first, every pixel already carries an exact palette
// color, so the lookup is a distance-free exact match; otherwise each pixel
// goes through the same nearest-color search the ditherer uses, just without
// error diffusion.
func IndexImage(img *image.NRGBA, p *Palette, dithered bool) *image.Paletted {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewPaletted(image.Rect(0, 0, w, h), p.ColorPalette())

	var exact map[uint32]uint8
	if dithered {
		// First index wins, so duplicate entries resolve to the lowest index.
		exact = make(map[uint32]uint8, PaletteSize)
		for i := PaletteSize - 1; i >= 0; i-- {
			c := p[i]
			key := uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
			exact[key] = uint8(i)
		}
	}

	for y := 0; y < h; y++ {
		srcRow := y * img.Stride
		dstRow := y * out.Stride
		for x := 0; x < w; x++ {
			i := srcRow + x*4
			r, g, bl := img.Pix[i], img.Pix[i+1], img.Pix[i+2]
			var idx uint8
			if dithered {
				key := uint32(r)<<16 | uint32(g)<<8 | uint32(bl)
				if v, ok := exact[key]; ok {
					idx = v
				} else {
					// Should not happen after dithering; fall back to search.
					idx = uint8(p.Nearest(r, g, bl))
				}
			} else {
				idx = uint8(p.Nearest(r, g, bl))
			}
			out.Pix[dstRow+x] = idx
		}
	}
	return out
}
