// Package analysis turns sampled skin pixels into a colour-season
// classification: lighting correction, robust aggregation, attribute
// classifiers and the season decision engine.
package analysis

import (
	"sort"

	"github.com/tonalab/seasonal/internal/face"
)

// Gray-world correction limits. Gains are clamped so a strong colour cast
// can never be "corrected" into a different skin tone entirely; a channel
// mean below minChannelMean means the samples are too dark to trust the
// estimate at all.
const (
	minGain        = 0.75
	maxGain        = 1.35
	minChannelMean = 10.0
	trimFraction   = 0.10
)

// Gains is a per-channel gray-world gain estimate.
type Gains struct {
	R       float64 `json:"r"`
	G       float64 `json:"g"`
	B       float64 `json:"b"`
	Clamped bool    `json:"clamped"`
}

// EstimateGains computes gray-world gains from the skin samples using a
// 10%-trimmed mean per channel as the illuminant estimate.
func EstimateGains(samples []face.Sample) Gains {
	neutral := Gains{R: 1, G: 1, B: 1}
	if len(samples) == 0 {
		return neutral
	}

	meanR := trimmedMean(channel(samples, func(s face.Sample) uint8 { return s.R }), trimFraction)
	meanG := trimmedMean(channel(samples, func(s face.Sample) uint8 { return s.G }), trimFraction)
	meanB := trimmedMean(channel(samples, func(s face.Sample) uint8 { return s.B }), trimFraction)

	if meanR < minChannelMean || meanG < minChannelMean || meanB < minChannelMean {
		return neutral
	}

	target := (meanR + meanG + meanB) / 3

	g := Gains{R: target / meanR, G: target / meanG, B: target / meanB}
	g.R, g.Clamped = clampGain(g.R, g.Clamped)
	g.G, g.Clamped = clampGain(g.G, g.Clamped)
	g.B, g.Clamped = clampGain(g.B, g.Clamped)
	return g
}

// Apply returns a corrected copy of the samples with each channel scaled by
// its gain and clamped to [0, 255].
func (g Gains) Apply(samples []face.Sample) []face.Sample {
	corrected := make([]face.Sample, len(samples))
	for i, s := range samples {
		corrected[i] = face.Sample{
			R: clampChannel(float64(s.R) * g.R),
			G: clampChannel(float64(s.G) * g.G),
			B: clampChannel(float64(s.B) * g.B),
		}
	}
	return corrected
}

func clampGain(v float64, alreadyClamped bool) (float64, bool) {
	if v < minGain {
		return minGain, true
	}
	if v > maxGain {
		return maxGain, true
	}
	return v, alreadyClamped
}

func clampChannel(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}

func channel(samples []face.Sample, get func(face.Sample) uint8) []float64 {
	values := make([]float64, len(samples))
	for i, s := range samples {
		values[i] = float64(get(s))
	}
	return values
}

// trimmedMean computes the mean after discarding the given fraction of
// values from each tail. The input slice is sorted in place.
func trimmedMean(values []float64, fraction float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sort.Float64s(values)

	trim := int(float64(len(values)) * fraction)
	kept := values[trim : len(values)-trim]
	if len(kept) == 0 {
		kept = values
	}

	var sum float64
	for _, v := range kept {
		sum += v
	}
	return sum / float64(len(kept))
}
