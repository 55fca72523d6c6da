package art

import (
	"image"
	"math"

	"github.com/iconidentify/dialtone-sub002/internal/logging"
	"github.com/iconidentify/dialtone-sub002/internal/quant"
)

// Encode loop constants: payloads over the ceiling shrink the raster by the
// fixed factor and retry, never below the floor.
const (
	shrinkFactor = 0.75
	minDimension = 32
)

// Encode runs the full pipeline once at the metadata's bounding box:
// resize, optional posterize, adaptive palette, optional dither, indexed
// raster, GIF construction and rewrite, header synthesis. The returned
// payload is header + GIF bytes; no padding is appended.
func Encode(src image.Image, meta Metadata) ([]byte, error) {
	if err := meta.Validate(); err != nil {
		return nil, err
	}
	gifBytes, width, height, err := renderGIF(src, meta, meta.Width, meta.Height)
	if err != nil {
		return nil, err
	}
	return wrapGIF(meta, gifBytes, width, height)
}

// EncodeWithSizeLimit wraps Encode with the size-constrained retry loop:
// while the GIF byte count exceeds the safety ceiling, both bounding-box
// dimensions shrink to 75% (rounded) and the pipeline reruns from the resize
// stage. Shrinking stops at the minimum dimension floor. The header is only
// built once an attempt fits, so oversized intermediates never trip the
// 16-bit size field.
func EncodeWithSizeLimit(src image.Image, meta Metadata) ([]byte, error) {
	if err := meta.Validate(); err != nil {
		return nil, err
	}

	maxW, maxH := meta.Width, meta.Height
	attempt := 1
	for {
		gifBytes, width, height, err := renderGIF(src, meta, maxW, maxH)
		if err != nil {
			return nil, err
		}
		if len(gifBytes) <= SizeCeiling {
			if attempt > 1 {
				logging.Info("encode fit %d bytes within limit after %d attempts", len(gifBytes), attempt)
			}
			return wrapGIF(meta, gifBytes, width, height)
		}

		nextW := int(math.Round(float64(maxW) * shrinkFactor))
		nextH := int(math.Round(float64(maxH) * shrinkFactor))
		if nextW < minDimension || nextH < minDimension {
			return nil, &SizeLimitExceededError{Size: len(gifBytes), Limit: SizeCeiling, Floor: minDimension}
		}
		logging.Info("encode attempt %d produced %d bytes (limit %d), retrying at %dx%d",
			attempt, len(gifBytes), SizeCeiling, nextW, nextH)
		maxW, maxH = nextW, nextH
		attempt++
	}
}

// renderGIF runs the pixel pipeline for one bounding box and returns the
// rewritten GIF stream plus the rendered dimensions.
func renderGIF(src image.Image, meta Metadata, maxW, maxH int) ([]byte, int, int, error) {
	raster := quant.Fit(src, maxW, maxH)
	b := raster.Bounds()
	width, height := b.Dx(), b.Dy()

	if meta.Posterization {
		p, err := quant.Posterize(raster, meta.PosterizationLevel)
		if err != nil {
			return nil, 0, 0, &ConfigurationError{Reason: err.Error()}
		}
		raster = p
	}

	palette := quant.NewAdaptivePalette(raster)
	if meta.Dithering {
		raster = quant.Dither(raster, palette)
	}
	indexed := quant.IndexImage(raster, palette, meta.Dithering)

	gifBytes, err := BuildGIF(indexed)
	if err != nil {
		return nil, 0, 0, err
	}
	logFindings(InspectStream(gifBytes))
	return gifBytes, width, height, nil
}

// wrapGIF prefixes a finished stream with the protocol header.
func wrapGIF(meta Metadata, gifBytes []byte, width, height int) ([]byte, error) {
	flag1, flag2 := resolveFlags(meta, width, height)
	header, err := BuildHeader(width, height, len(gifBytes), 0, flag1, flag2, FormatGIF)
	if err != nil {
		return nil, err
	}
	return assemblePayload(header, gifBytes, 0), nil
}

// ProbeDimensions reports the rendered width and height an encode of src
// under meta would produce, without running the pixel pipeline. The size
// loop's shrink retries are not modeled; this mirrors a plain Encode.
func ProbeDimensions(src image.Image, meta Metadata) (int, int, error) {
	if err := meta.Validate(); err != nil {
		return 0, 0, err
	}
	b := src.Bounds()
	w, h := quant.FitBounds(b.Dx(), b.Dy(), meta.Width, meta.Height)
	return w, h, nil
}
