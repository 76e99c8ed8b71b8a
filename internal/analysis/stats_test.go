package analysis

import (
	"math"
	"testing"

	"github.com/tonalab/seasonal/internal/face"
)

func TestMedian(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{name: "odd", values: []float64{3, 1, 2}, want: 2},
		{name: "even", values: []float64{4, 1, 3, 2}, want: 2.5},
		{name: "single", values: []float64{7}, want: 7},
		{name: "empty", values: nil, want: 0},
		{name: "outlier resistant", values: []float64{10, 11, 12, 11, 300}, want: 11},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := median(tt.values); got != tt.want {
				t.Errorf("median = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMAD(t *testing.T) {
	values := []float64{1, 2, 3, 4, 100}
	centre := median(append([]float64(nil), values...))
	if centre != 3 {
		t.Fatalf("median = %v, want 3", centre)
	}

	// Deviations are 2, 1, 0, 1, 97: their median is 1.
	if got := mad(values, centre); got != 1 {
		t.Errorf("mad = %v, want 1", got)
	}
}

func TestAggregateSamplesUniform(t *testing.T) {
	samples := repeatSample(face.Sample{R: 205, G: 150, B: 120}, 60)

	agg := AggregateSamples(samples)

	// Reference Lab for sRGB (205, 150, 120).
	if math.Abs(agg.Lab.L-66.6) > 0.5 || math.Abs(agg.Lab.A-16.6) > 0.5 || math.Abs(agg.Lab.B-24.0) > 0.5 {
		t.Errorf("Lab = %+v, want ~(66.6, 16.6, 24.0)", agg.Lab)
	}
	if agg.MADL != 0 || agg.MADB != 0 {
		t.Errorf("MADs = %v, %v, want 0 for identical samples", agg.MADL, agg.MADB)
	}
	if agg.Noisy {
		t.Error("Noisy = true for identical samples")
	}
	if agg.UsedFallback {
		t.Error("UsedFallback = true, want gamut filter to keep all samples")
	}
	if agg.GamutCount != 60 {
		t.Errorf("GamutCount = %d, want 60", agg.GamutCount)
	}
}

func TestAggregateSamplesGamutFallback(t *testing.T) {
	// Blue pixels sit far outside the skin gamut; with none surviving the
	// filter the aggregator must fall back to the full set rather than
	// failing.
	samples := repeatSample(face.Sample{R: 80, G: 120, B: 220}, 40)

	agg := AggregateSamples(samples)

	if !agg.UsedFallback {
		t.Error("UsedFallback = false, want fallback when <30 samples pass the gamut filter")
	}
	if agg.GamutCount != 0 {
		t.Errorf("GamutCount = %d, want 0", agg.GamutCount)
	}
	if agg.Lab.B >= 0 {
		t.Errorf("Lab.B = %v, want negative for a blue input", agg.Lab.B)
	}
}

func TestAggregateSamplesNoiseFlag(t *testing.T) {
	// Two skin tones ~26 L apart: the L spread pushes MAD_L past its
	// threshold.
	samples := append(
		repeatSample(face.Sample{R: 205, G: 150, B: 120}, 20),
		repeatSample(face.Sample{R: 120, G: 85, B: 70}, 20)...,
	)

	agg := AggregateSamples(samples)

	if agg.MADL <= noisyMADL {
		t.Errorf("MADL = %v, want > %v for a bimodal sample set", agg.MADL, noisyMADL)
	}
	if !agg.Noisy {
		t.Error("Noisy = false, want true")
	}
}

func TestAggregateSamplesEmpty(t *testing.T) {
	agg := AggregateSamples(nil)
	if agg.Noisy || agg.GamutCount != 0 {
		t.Errorf("got %+v, want zero aggregate for no samples", agg)
	}
}
