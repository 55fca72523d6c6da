package quant

import (
	"fmt"
	"image"
	"math"
)

// Posterize levels must stay within this range; anything else is a caller
// configuration error.
const (
	MinPosterizeLevel = 2
	MaxPosterizeLevel = 256
)

// Posterize reduces each channel to level quantization steps and returns a
// fresh raster. Alpha is carried over untouched.
func Posterize(img *image.NRGBA, level int) (*image.NRGBA, error) {
	if level < MinPosterizeLevel || level > MaxPosterizeLevel {
		return nil, fmt.Errorf("posterization level %d outside [%d,%d]", level, MinPosterizeLevel, MaxPosterizeLevel)
	}

	factor := 256.0 / float64(level)
	var lut [256]uint8
	for v := 0; v < 256; v++ {
		q := math.Floor(float64(v)/factor) * factor
		if q > 255 {
			q = 255
		}
		lut[v] = uint8(q)
	}

	b := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		srcRow := y * img.Stride
		dstRow := y * out.Stride
		for x := 0; x < b.Dx(); x++ {
			s := srcRow + x*4
			d := dstRow + x*4
			out.Pix[d+0] = lut[img.Pix[s+0]]
			out.Pix[d+1] = lut[img.Pix[s+1]]
			out.Pix[d+2] = lut[img.Pix[s+2]]
			out.Pix[d+3] = img.Pix[s+3]
		}
	}
	return out, nil
}
