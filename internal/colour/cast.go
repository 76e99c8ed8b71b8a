package colour

import (
	"image"

	"golang.org/x/image/draw"
)

// Thresholds for turning the raw warm index into a cast estimate. An index
// above warmIndexThreshold counts as a warm cast; severity saturates at
// warmIndexThreshold + warmIndexRange.
const (
	warmIndexThreshold = 0.08
	warmIndexRange     = 0.18

	castThumbnailSize = 64
)

// Cast describes a whole-image warm/cool lighting bias. It is estimated
// independently of face detection and only ever adjusts confidence, never
// the detected colour itself.
type Cast struct {
	WarmIndex float64 `json:"warm_index"`
	IsWarm    bool    `json:"is_warm"`
	Severity  float64 `json:"severity"`
}

// EstimateCast computes a global lighting bias estimate from the whole
// image. The image is reduced to a coarse thumbnail first; the estimate only
// needs the average scene colour, not detail.
func EstimateCast(img image.Image) Cast {
	thumb := thumbnail(img, castThumbnailSize)
	bounds := thumb.Bounds()

	var sumR, sumG, sumB, n float64
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			i := thumb.PixOffset(x, y)
			sumR += float64(thumb.Pix[i])
			sumG += float64(thumb.Pix[i+1])
			sumB += float64(thumb.Pix[i+2])
			n++
		}
	}
	if n == 0 {
		return Cast{}
	}

	meanR := sumR / n
	meanG := sumG / n
	meanB := sumB / n

	warmIndex := ((meanR+meanG)/2 - meanB) / 255.0

	return Cast{
		WarmIndex: warmIndex,
		IsWarm:    warmIndex > warmIndexThreshold,
		Severity:  clamp01((warmIndex - warmIndexThreshold) / warmIndexRange),
	}
}

// thumbnail scales the image down so that neither dimension exceeds size,
// preserving aspect ratio. Images already small enough are copied as-is.
func thumbnail(img image.Image, size int) *image.RGBA {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	if width > size || height > size {
		if width >= height {
			height = max(height*size/width, 1)
			width = size
		} else {
			width = max(width*size/height, 1)
			height = size
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, bounds, draw.Src, nil)
	return dst
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
