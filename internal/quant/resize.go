package quant

import (
	"image"
	"image/draw"
	"math"

	"github.com/nfnt/resize"
)

// FitBounds computes the dimensions of src scaled to fit within maxW x maxH
// with the aspect ratio preserved. The smaller axis scale wins, so the result
// never exceeds the bounding box.
func FitBounds(srcW, srcH, maxW, maxH int) (int, int) {
	if srcW <= 0 || srcH <= 0 {
		return 0, 0
	}
	scale := math.Min(float64(maxW)/float64(srcW), float64(maxH)/float64(srcH))
	w := int(math.Round(float64(srcW) * scale))
	h := int(math.Round(float64(srcH) * scale))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}

// Fit scales img to fit within maxW x maxH, preserving aspect ratio, and
// returns the result as a fresh NRGBA raster.
func Fit(img image.Image, maxW, maxH int) *image.NRGBA {
	b := img.Bounds()
	w, h := FitBounds(b.Dx(), b.Dy(), maxW, maxH)
	scaled := resize.Resize(uint(w), uint(h), img, resize.Bilinear)
	return ToNRGBA(scaled)
}

// ToNRGBA converts img to an NRGBA raster anchored at the origin. A fresh
// copy is returned even if img is already NRGBA, so callers own the result.
func ToNRGBA(img image.Image) *image.NRGBA {
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}
