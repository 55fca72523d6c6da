package quant

import (
	"image"
)

// Floyd-Steinberg error weights, in sixteenths.
const (
	weightRight     = 7
	weightBelowLeft = 3
	weightBelow     = 5
	weightBelowRt   = 1
)

// Dither maps every pixel of img onto the nearest palette entry while
// diffusing the quantization error to unprocessed neighbors. The raster is
// mutated in place and the same handle is returned: error diffusion requires
// sequential in-place updates, so pixels are processed in strict row-major
// order. Do not parallelize across rows.
func Dither(img *image.NRGBA, p *Palette) *image.NRGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	// Per-pixel accumulated error, one float per channel.
	errR := make([]float64, w*h)
	errG := make([]float64, w*h)
	errB := make([]float64, w*h)

	diffuse := func(x, y int, dr, dg, db float64, weight float64) {
		if x < 0 || x >= w || y < 0 || y >= h {
			return
		}
		i := y*w + x
		errR[i] += dr * weight / 16.0
		errG[i] += dg * weight / 16.0
		errB[i] += db * weight / 16.0
	}

	for y := 0; y < h; y++ {
		row := y * img.Stride
		for x := 0; x < w; x++ {
			i := row + x*4
			e := y*w + x

			// Adjusted channel values: source plus diffused error, unclamped.
			ar := float64(img.Pix[i+0]) + errR[e]
			ag := float64(img.Pix[i+1]) + errG[e]
			ab := float64(img.Pix[i+2]) + errB[e]

			idx := p.Nearest(clampByte(ar), clampByte(ag), clampByte(ab))
			c := p[idx]
			img.Pix[i+0] = c.R
			img.Pix[i+1] = c.G
			img.Pix[i+2] = c.B

			// Residual from the pre-clamp adjusted value.
			dr := ar - float64(c.R)
			dg := ag - float64(c.G)
			db := ab - float64(c.B)

			diffuse(x+1, y, dr, dg, db, weightRight)
			diffuse(x-1, y+1, dr, dg, db, weightBelowLeft)
			diffuse(x, y+1, dr, dg, db, weightBelow)
			diffuse(x+1, y+1, dr, dg, db, weightBelowRt)
		}
	}
	return img
}

func clampByte(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
