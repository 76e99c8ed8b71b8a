// Package colour provides colour-space conversion and whole-image cast
// estimation used by the season analysis pipeline.
package colour

import (
	"fmt"
	"math"
)

// D65 reference white used for the XYZ to Lab conversion.
const (
	refWhiteX = 0.95047
	refWhiteY = 1.0
	refWhiteZ = 1.08883
)

// Lab represents a colour in the CIE Lab colour space.
// L is lightness in [0, 100]; A and B are the green-red and blue-yellow
// axes, roughly in [-128, 127].
type Lab struct {
	L float64 `json:"l"`
	A float64 `json:"a"`
	B float64 `json:"b"`
}

// Chroma returns the colourfulness magnitude sqrt(a^2 + b^2).
func (c Lab) Chroma() float64 {
	return math.Hypot(c.A, c.B)
}

// Rounded returns the colour with each channel rounded to one decimal place,
// the precision reported to callers.
func (c Lab) Rounded() Lab {
	return Lab{
		L: math.Round(c.L*10) / 10,
		A: math.Round(c.A*10) / 10,
		B: math.Round(c.B*10) / 10,
	}
}

// String returns the colour as a string in the format "lab(l, a, b)".
func (c Lab) String() string {
	return fmt.Sprintf("lab(%.1f, %.1f, %.1f)", c.L, c.A, c.B)
}

// RGB represents an 8-bit sRGB colour.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// Hex returns the colour as a hex string (e.g., "#d4a088").
func (rgb RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", rgb.R, rgb.G, rgb.B)
}

// String returns the colour as a string in the format "rgb(r, g, b)".
func (rgb RGB) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", rgb.R, rgb.G, rgb.B)
}

// SRGBToLab converts an 8-bit sRGB colour to CIE Lab using the D65 white
// point. The conversion goes sRGB -> linear RGB -> XYZ -> Lab.
func SRGBToLab(r, g, b uint8) Lab {
	rl := srgbToLinear(float64(r) / 255.0)
	gl := srgbToLinear(float64(g) / 255.0)
	bl := srgbToLinear(float64(b) / 255.0)

	// Linear RGB to XYZ (sRGB primaries, D65).
	x := 0.4124564*rl + 0.3575761*gl + 0.1804375*bl
	y := 0.2126729*rl + 0.7151522*gl + 0.0721750*bl
	z := 0.0193339*rl + 0.1191920*gl + 0.9503041*bl

	fx := labF(x / refWhiteX)
	fy := labF(y / refWhiteY)
	fz := labF(z / refWhiteZ)

	return Lab{
		L: 116*fy - 16,
		A: 500 * (fx - fy),
		B: 200 * (fy - fz),
	}
}

// srgbToLinear removes the sRGB gamma encoding from a channel in [0, 1].
func srgbToLinear(v float64) float64 {
	if v <= 0.04045 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}

// labF is the nonlinear compression function of the XYZ to Lab conversion.
func labF(t float64) float64 {
	const (
		delta  = 6.0 / 29.0
		delta3 = delta * delta * delta
	)
	if t > delta3 {
		return math.Cbrt(t)
	}
	return t/(3*delta*delta) + 4.0/29.0
}

// RGBToHSV converts an 8-bit sRGB colour to HSV via the standard hexagonal
// formula. Hue is in degrees [0, 360); saturation and value are in [0, 1].
func RGBToHSV(r, g, b uint8) (h, s, v float64) {
	rf := float64(r) / 255.0
	gf := float64(g) / 255.0
	bf := float64(b) / 255.0

	maxVal := math.Max(rf, math.Max(gf, bf))
	minVal := math.Min(rf, math.Min(gf, bf))
	delta := maxVal - minVal

	v = maxVal

	if maxVal > 0 {
		s = delta / maxVal
	}

	if delta == 0 {
		return 0, s, v
	}

	switch maxVal {
	case rf:
		h = 60 * math.Mod((gf-bf)/delta, 6)
	case gf:
		h = 60 * ((bf-rf)/delta + 2)
	default:
		h = 60 * ((rf-gf)/delta + 4)
	}
	if h < 0 {
		h += 360
	}

	return h, s, v
}
