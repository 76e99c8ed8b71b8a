// Package face locates and samples skin-coloured face regions in an image.
package face

import (
	"github.com/tonalab/seasonal/internal/colour"
)

// RGB heuristic bounds. These are deliberately loose: the classifier is used
// for coarse scanning, and the Lab gamut filter tightens the selection after
// lighting correction.
const (
	minBrightnessSum = 60
	minNormBright    = 0.12
	maxNormBright    = 0.90
	minRedBlueGap    = 5
	minSaturation    = 0.04
	maxSaturation    = 0.65
)

// IsSkinRGB reports whether a pixel plausibly belongs to skin, using a chain
// of cheap RGB rejection tests.
func IsSkinRGB(r, g, b uint8) bool {
	ri, gi, bi := int(r), int(g), int(b)
	sum := ri + gi + bi

	if sum < minBrightnessSum {
		return false
	}

	v := float64(sum) / 765.0
	if v < minNormBright || v > maxNormBright {
		return false
	}

	// Skin is always redder than it is blue.
	if ri-bi < minRedBlueGap {
		return false
	}

	_, s, _ := colour.RGBToHSV(r, g, b)
	if s < minSaturation || s > maxSaturation {
		return false
	}

	// Near-pure red is lips, clothing or noise, never skin.
	if ri > 220 && gi < 80 && bi < 80 {
		return false
	}

	// Green dominating red rules out vegetation-like hues.
	if ri < gi-10 {
		return false
	}

	if abs(gi-bi) > 2*abs(ri-gi) {
		return false
	}

	return true
}

// InSkinGamut reports whether a Lab colour falls inside the plausible range
// for human skin. Applied after lighting correction, where the tighter
// bounds are trustworthy.
func InSkinGamut(c colour.Lab) bool {
	return c.L >= 18 && c.L <= 92 &&
		c.A >= -5 && c.A <= 28 &&
		c.B >= 0 && c.B <= 38
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
