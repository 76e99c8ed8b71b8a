package analysis

import (
	"math"
	"testing"

	"github.com/tonalab/seasonal/internal/face"
)

func repeatSample(s face.Sample, n int) []face.Sample {
	samples := make([]face.Sample, n)
	for i := range samples {
		samples[i] = s
	}
	return samples
}

func TestEstimateGainsBalancedInput(t *testing.T) {
	samples := repeatSample(face.Sample{R: 120, G: 120, B: 120}, 100)

	g := EstimateGains(samples)

	for name, gain := range map[string]float64{"r": g.R, "g": g.G, "b": g.B} {
		if math.Abs(gain-1) > 1e-9 {
			t.Errorf("gain %s = %v, want 1", name, gain)
		}
	}
	if g.Clamped {
		t.Error("Clamped = true for balanced input")
	}
}

func TestEstimateGainsWarmCast(t *testing.T) {
	// Mean (200, 150, 100): raw gains would be (0.75, 1.0, 1.5); the blue
	// gain exceeds the ceiling and must be clamped.
	samples := repeatSample(face.Sample{R: 200, G: 150, B: 100}, 100)

	g := EstimateGains(samples)

	if math.Abs(g.R-0.75) > 1e-9 {
		t.Errorf("gain r = %v, want 0.75", g.R)
	}
	if math.Abs(g.G-1.0) > 1e-9 {
		t.Errorf("gain g = %v, want 1.0", g.G)
	}
	if g.B != 1.35 {
		t.Errorf("gain b = %v, want clamped to 1.35", g.B)
	}
	if !g.Clamped {
		t.Error("Clamped = false, want true after hitting the gain ceiling")
	}
}

func TestEstimateGainsTooDark(t *testing.T) {
	samples := repeatSample(face.Sample{R: 8, G: 8, B: 8}, 100)

	g := EstimateGains(samples)

	if g.R != 1 || g.G != 1 || g.B != 1 || g.Clamped {
		t.Errorf("got %+v, want neutral gains when channel means are too dark to trust", g)
	}
}

func TestEstimateGainsEmpty(t *testing.T) {
	g := EstimateGains(nil)
	if g.R != 1 || g.G != 1 || g.B != 1 {
		t.Errorf("got %+v, want neutral gains for no samples", g)
	}
}

func TestGainsAlwaysWithinBounds(t *testing.T) {
	inputs := [][]face.Sample{
		repeatSample(face.Sample{R: 255, G: 30, B: 30}, 50),
		repeatSample(face.Sample{R: 30, G: 30, B: 255}, 50),
		repeatSample(face.Sample{R: 250, G: 120, B: 15}, 50),
	}

	for _, samples := range inputs {
		g := EstimateGains(samples)
		for _, gain := range []float64{g.R, g.G, g.B} {
			if gain < minGain || gain > maxGain {
				t.Errorf("gain %v outside [%v, %v] for input %+v", gain, minGain, maxGain, samples[0])
			}
		}
	}
}

func TestGainsApplyClampsChannels(t *testing.T) {
	g := Gains{R: 1.35, G: 1, B: 0.75}
	corrected := g.Apply([]face.Sample{{R: 220, G: 128, B: 100}})

	if len(corrected) != 1 {
		t.Fatalf("len(corrected) = %d, want 1", len(corrected))
	}
	got := corrected[0]
	if got.R != 255 {
		t.Errorf("r = %d, want 255 (clamped from 297)", got.R)
	}
	if got.G != 128 {
		t.Errorf("g = %d, want 128", got.G)
	}
	if got.B != 75 {
		t.Errorf("b = %d, want 75", got.B)
	}
}

func TestTrimmedMeanDiscardsOutliers(t *testing.T) {
	// Ten values, 10% trim: one dropped from each tail, so the single
	// outlier at 255 cannot move the estimate.
	values := []float64{100, 100, 100, 100, 100, 100, 100, 100, 100, 255}

	got := trimmedMean(values, 0.10)
	if got != 100 {
		t.Errorf("trimmedMean = %v, want 100", got)
	}
}

func TestTrimmedMeanSmallInput(t *testing.T) {
	if got := trimmedMean([]float64{42}, 0.10); got != 42 {
		t.Errorf("trimmedMean = %v, want 42", got)
	}
}
