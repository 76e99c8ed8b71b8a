package face

import (
	"image"

	"golang.org/x/image/draw"
)

// The face crop is resized to a fixed working resolution so the sampling
// zones land on the same pixels regardless of source size.
const (
	workingSize = 160
	sampleGrid  = 14
)

// Sampling zones as fractions of the working crop: both cheeks and the
// mid-forehead, the areas least likely to include hair, eyes or background.
var samplingZones = []zone{
	{name: "left-cheek", x0: 0.18, y0: 0.45, x1: 0.40, y1: 0.72},
	{name: "right-cheek", x0: 0.60, y0: 0.45, x1: 0.82, y1: 0.72},
	{name: "forehead", x0: 0.33, y0: 0.12, x1: 0.67, y1: 0.32},
}

// Sample is a single sampled pixel. Samples are created by the sampler,
// consumed by aggregation and then discarded.
type Sample struct {
	R, G, B uint8
}

// SampleSet holds the pixels drawn from the face crop. Skin is the subset
// passing the RGB heuristic; All retains every grid point for the
// detection-confidence gate.
type SampleSet struct {
	Skin []Sample
	All  []Sample
}

// SkinRatio returns the fraction of sampled points classified as skin.
func (s SampleSet) SkinRatio() float64 {
	if len(s.All) == 0 {
		return 0
	}
	return float64(len(s.Skin)) / float64(len(s.All))
}

// SampleRegion crops the face box out of the image, resizes it to the
// working resolution and samples the cheek and forehead zones on a fixed
// grid.
func SampleRegion(img image.Image, box Box) SampleSet {
	crop := image.NewRGBA(image.Rect(0, 0, workingSize, workingSize))
	srcRect := image.Rect(box.X, box.Y, box.X+box.Width, box.Y+box.Height).Add(img.Bounds().Min)
	draw.ApproxBiLinear.Scale(crop, crop.Bounds(), img, srcRect, draw.Src, nil)

	set := SampleSet{
		Skin: make([]Sample, 0, len(samplingZones)*sampleGrid*sampleGrid),
		All:  make([]Sample, 0, len(samplingZones)*sampleGrid*sampleGrid),
	}

	for _, z := range samplingZones {
		x0 := int(z.x0 * workingSize)
		y0 := int(z.y0 * workingSize)
		x1 := int(z.x1 * workingSize)
		y1 := int(z.y1 * workingSize)

		for gy := 0; gy < sampleGrid; gy++ {
			py := y0 + gy*(y1-y0)/sampleGrid
			for gx := 0; gx < sampleGrid; gx++ {
				px := x0 + gx*(x1-x0)/sampleGrid

				i := crop.PixOffset(px, py)
				s := Sample{R: crop.Pix[i], G: crop.Pix[i+1], B: crop.Pix[i+2]}
				set.All = append(set.All, s)
				if IsSkinRGB(s.R, s.G, s.B) {
					set.Skin = append(set.Skin, s)
				}
			}
		}
	}

	return set
}
