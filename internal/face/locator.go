package face

import (
	"fmt"
	"image"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/image/draw"
)

// Locator tuning constants. The scan runs on a downsampled copy so grid
// density and pixel counts are independent of source resolution.
const (
	locatorMaxSide = 500
	scanGrid       = 30

	minZoneSkinRatio = 0.35
	minZoneSkinCount = 50
	minBoxAspect     = 0.5
	maxBoxAspect     = 1.5

	boxMarginFraction = 0.15
	boxExpandFraction = 0.30

	minFaceSide = 40
)

// Box is a face region in source-image pixel coordinates.
type Box struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Valid reports whether the box is geometrically usable: non-negative
// origin and positive size. Caller-supplied boxes that pass this check are
// trusted verbatim (after clamping to image bounds).
func (b Box) Valid() bool {
	return b.X >= 0 && b.Y >= 0 && b.Width > 0 && b.Height > 0
}

// ClampTo restricts the box to an image of the given dimensions.
func (b Box) ClampTo(width, height int) Box {
	if b.X < 0 {
		b.Width += b.X
		b.X = 0
	}
	if b.Y < 0 {
		b.Height += b.Y
		b.Y = 0
	}
	if b.X+b.Width > width {
		b.Width = width - b.X
	}
	if b.Y+b.Height > height {
		b.Height = height - b.Y
	}
	if b.Width < 0 {
		b.Width = 0
	}
	if b.Height < 0 {
		b.Height = 0
	}
	return b
}

func (b Box) String() string {
	return fmt.Sprintf("%dx%d+%d+%d", b.Width, b.Height, b.X, b.Y)
}

// zone is a candidate scan area expressed as fractional image bounds.
// All three sit within the upper ~70% of the frame, where a portrait
// subject's face is expected.
type zone struct {
	name           string
	x0, y0, x1, y1 float64
}

var candidateZones = []zone{
	{name: "center", x0: 0.25, y0: 0.15, x1: 0.75, y1: 0.70},
	{name: "upper", x0: 0.20, y0: 0.05, x1: 0.80, y1: 0.50},
	{name: "middle", x0: 0.30, y0: 0.25, x1: 0.70, y1: 0.70},
}

// ScanStats records what the locator measured, for diagnostics. When no
// face is found it carries the best ratio and count seen, so callers can
// report how close the scan came.
type ScanStats struct {
	Zone       string  `json:"zone,omitempty"`
	SkinRatio  float64 `json:"skin_ratio"`
	SkinPixels int     `json:"skin_pixels"`
}

// Locator finds a skin-coloured face region by scanning candidate zones of
// a downsampled image. It is a deliberately crude heuristic: the accuracy
// floor is a known limitation of the approach, traded against the cost of a
// learned detector.
type Locator struct {
	logger hclog.Logger
}

// NewLocator creates a Locator. A nil logger disables logging.
func NewLocator(logger hclog.Logger) *Locator {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Locator{logger: logger.Named("locator")}
}

// Locate scans the image for a face region. The returned bool reports
// whether a qualifying region was found; the ScanStats are populated either
// way.
func (l *Locator) Locate(img image.Image) (Box, ScanStats, bool) {
	srcBounds := img.Bounds()
	srcW := srcBounds.Dx()
	srcH := srcBounds.Dy()
	if srcW < 1 || srcH < 1 {
		return Box{}, ScanStats{}, false
	}

	scaled, scale := downsample(img, locatorMaxSide)
	w := scaled.Bounds().Dx()
	h := scaled.Bounds().Dy()

	var (
		found     bool
		bestScore float64
		bestBox   image.Rectangle
		stats     ScanStats
	)

	for _, z := range candidateZones {
		result := l.scanZone(scaled, z, w, h)

		// Even a failed zone contributes to diagnostics.
		if !found && result.ratio > stats.SkinRatio {
			stats = ScanStats{Zone: z.name, SkinRatio: result.ratio, SkinPixels: result.count}
		}

		if !result.qualifies() {
			continue
		}

		score := result.ratio * float64(result.count)
		l.logger.Debug("zone qualified", "zone", z.name, "ratio", result.ratio, "pixels", result.count, "score", score)
		if !found || score > bestScore {
			found = true
			bestScore = score
			bestBox = result.bounds
			stats = ScanStats{Zone: z.name, SkinRatio: result.ratio, SkinPixels: result.count}
		}
	}

	if !found {
		l.logger.Debug("no qualifying zone", "best_ratio", stats.SkinRatio, "best_pixels", stats.SkinPixels)
		return Box{}, stats, false
	}

	box := expandBox(bestBox, scale, srcW, srcH)
	if box.Width < minFaceSide || box.Height < minFaceSide {
		l.logger.Debug("face box below minimum size", "box", box)
		return Box{}, stats, false
	}

	l.logger.Debug("face located", "box", box, "zone", stats.Zone)
	return box, stats, true
}

// zoneResult holds the outcome of scanning one candidate zone.
type zoneResult struct {
	count  int
	ratio  float64
	bounds image.Rectangle
}

// qualifies applies the ratio, count and aspect gates.
func (r zoneResult) qualifies() bool {
	if r.ratio < minZoneSkinRatio || r.count < minZoneSkinCount {
		return false
	}
	bw := r.bounds.Dx()
	bh := r.bounds.Dy()
	if bw < 1 || bh < 1 {
		return false
	}
	aspect := float64(bw) / float64(bh)
	return aspect >= minBoxAspect && aspect <= maxBoxAspect
}

// scanZone samples the zone on a scanGrid x scanGrid lattice, classifying
// each point with the RGB skin heuristic and tracking the tight bounding
// box of the matches.
func (l *Locator) scanZone(img *image.RGBA, z zone, w, h int) zoneResult {
	x0 := int(z.x0 * float64(w))
	y0 := int(z.y0 * float64(h))
	x1 := int(z.x1 * float64(w))
	y1 := int(z.y1 * float64(h))
	if x1 <= x0 || y1 <= y0 {
		return zoneResult{}
	}

	var (
		count                  int
		minX, minY, maxX, maxY int
	)
	minX, minY = x1, y1

	for gy := 0; gy < scanGrid; gy++ {
		py := y0 + gy*(y1-y0)/scanGrid
		for gx := 0; gx < scanGrid; gx++ {
			px := x0 + gx*(x1-x0)/scanGrid

			i := img.PixOffset(px, py)
			if !IsSkinRGB(img.Pix[i], img.Pix[i+1], img.Pix[i+2]) {
				continue
			}

			count++
			minX = min(minX, px)
			minY = min(minY, py)
			maxX = max(maxX, px)
			maxY = max(maxY, py)
		}
	}

	total := scanGrid * scanGrid
	result := zoneResult{
		count: count,
		ratio: float64(count) / float64(total),
	}
	if count > 0 {
		result.bounds = image.Rect(minX, minY, maxX+1, maxY+1)
	}
	return result
}

// expandBox widens the tight bounding box by a margin on each side, then by
// an extra fraction per dimension, and maps it back to source resolution.
func expandBox(tight image.Rectangle, scale float64, srcW, srcH int) Box {
	x := float64(tight.Min.X)
	y := float64(tight.Min.Y)
	w := float64(tight.Dx())
	h := float64(tight.Dy())

	// 15% margin on every side.
	x -= w * boxMarginFraction
	y -= h * boxMarginFraction
	w += 2 * w * boxMarginFraction
	h += 2 * h * boxMarginFraction

	// A further 30% growth per dimension, centred, so the crop takes in the
	// forehead and jawline that the skin scan tends to miss.
	x -= w * boxExpandFraction / 2
	y -= h * boxExpandFraction / 2
	w *= 1 + boxExpandFraction
	h *= 1 + boxExpandFraction

	box := Box{
		X:      int(x / scale),
		Y:      int(y / scale),
		Width:  int(w / scale),
		Height: int(h / scale),
	}
	return box.ClampTo(srcW, srcH)
}

// downsample scales the image so its longest side is at most maxSide,
// preserving aspect ratio, and returns the scale factor applied.
func downsample(img image.Image, maxSide int) (*image.RGBA, float64) {
	bounds := img.Bounds()
	srcW := bounds.Dx()
	srcH := bounds.Dy()

	scale := 1.0
	w, h := srcW, srcH
	if srcW > maxSide || srcH > maxSide {
		if srcW >= srcH {
			scale = float64(maxSide) / float64(srcW)
		} else {
			scale = float64(maxSide) / float64(srcH)
		}
		w = max(int(float64(srcW)*scale), 1)
		h = max(int(float64(srcH)*scale), 1)
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, bounds, draw.Src, nil)
	return dst, scale
}
