package colour

import (
	"image"
	"image/color"
	"math"
	"testing"
)

// uniformImage returns a solid-colour image of the given size.
func uniformImage(width, height int, c color.RGBA) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestEstimateCast(t *testing.T) {
	tests := []struct {
		name         string
		fill         color.RGBA
		wantWarm     bool
		wantSeverity float64
	}{
		{
			name:     "neutral gray has no cast",
			fill:     color.RGBA{R: 128, G: 128, B: 128, A: 255},
			wantWarm: false,
		},
		{
			name:     "cool blue cast",
			fill:     color.RGBA{R: 80, G: 90, B: 200, A: 255},
			wantWarm: false,
		},
		{
			name: "strong warm cast saturates severity",
			// (r+g)/2 - b = 185 over 255, far past the index range.
			fill:         color.RGBA{R: 220, G: 180, B: 15, A: 255},
			wantWarm:     true,
			wantSeverity: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cast := EstimateCast(uniformImage(320, 240, tt.fill))

			if cast.IsWarm != tt.wantWarm {
				t.Errorf("IsWarm = %v, want %v (warmIndex=%.3f)", cast.IsWarm, tt.wantWarm, cast.WarmIndex)
			}
			if !tt.wantWarm && cast.Severity != 0 {
				t.Errorf("Severity = %.3f, want 0 for non-warm cast", cast.Severity)
			}
			if tt.wantWarm && math.Abs(cast.Severity-tt.wantSeverity) > 0.05 {
				t.Errorf("Severity = %.3f, want %.3f", cast.Severity, tt.wantSeverity)
			}
		})
	}
}

func TestEstimateCastWarmIndexValue(t *testing.T) {
	// (200+150)/2 - 100 = 75; 75/255 ~ 0.294.
	cast := EstimateCast(uniformImage(100, 100, color.RGBA{R: 200, G: 150, B: 100, A: 255}))

	if math.Abs(cast.WarmIndex-0.294) > 0.01 {
		t.Errorf("WarmIndex = %.3f, want ~0.294", cast.WarmIndex)
	}
	if !cast.IsWarm {
		t.Error("expected warm cast")
	}
	if cast.Severity <= 0 || cast.Severity > 1 {
		t.Errorf("Severity = %.3f, want in (0, 1]", cast.Severity)
	}
}
