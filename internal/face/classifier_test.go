package face

import (
	"testing"

	"github.com/tonalab/seasonal/internal/colour"
)

func TestIsSkinRGB(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b uint8
		want    bool
	}{
		{name: "light skin tone", r: 205, g: 150, b: 120, want: true},
		{name: "medium skin tone", r: 180, g: 130, b: 100, want: true},
		{name: "deep skin tone", r: 110, g: 75, b: 60, want: true},
		{name: "near black", r: 10, g: 10, b: 10, want: false},
		{name: "below brightness floor", r: 40, g: 25, b: 20, want: false},
		{name: "above brightness ceiling", r: 250, g: 240, b: 210, want: false},
		{name: "gray has no red-blue gap", r: 128, g: 128, b: 128, want: false},
		{name: "washed out low saturation", r: 230, g: 226, b: 224, want: false},
		{name: "oversaturated orange", r: 200, g: 80, b: 40, want: false},
		{name: "near-pure red", r: 225, g: 79, b: 79, want: false},
		{name: "green dominant", r: 100, g: 140, b: 80, want: false},
		{name: "green-blue imbalance", r: 150, g: 140, b: 90, want: false},
		{name: "sky blue", r: 80, g: 120, b: 220, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsSkinRGB(tt.r, tt.g, tt.b); got != tt.want {
				t.Errorf("IsSkinRGB(%d, %d, %d) = %v, want %v", tt.r, tt.g, tt.b, got, tt.want)
			}
		})
	}
}

func TestInSkinGamut(t *testing.T) {
	tests := []struct {
		name string
		lab  colour.Lab
		want bool
	}{
		{name: "typical skin", lab: colour.Lab{L: 65, A: 12, B: 18}, want: true},
		{name: "lower corner", lab: colour.Lab{L: 18, A: -5, B: 0}, want: true},
		{name: "upper corner", lab: colour.Lab{L: 92, A: 28, B: 38}, want: true},
		{name: "too dark", lab: colour.Lab{L: 15, A: 10, B: 10}, want: false},
		{name: "too light", lab: colour.Lab{L: 95, A: 10, B: 10}, want: false},
		{name: "too green", lab: colour.Lab{L: 60, A: -10, B: 10}, want: false},
		{name: "too red", lab: colour.Lab{L: 60, A: 35, B: 10}, want: false},
		{name: "blue side of b axis", lab: colour.Lab{L: 60, A: 10, B: -3}, want: false},
		{name: "too yellow", lab: colour.Lab{L: 60, A: 10, B: 45}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InSkinGamut(tt.lab); got != tt.want {
				t.Errorf("InSkinGamut(%+v) = %v, want %v", tt.lab, got, tt.want)
			}
		})
	}
}
