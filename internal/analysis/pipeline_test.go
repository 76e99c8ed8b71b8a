package analysis

import (
	"image"
	"image/color"
	"testing"

	"github.com/tonalab/seasonal/internal/face"
)

// syntheticPortrait draws a skin-coloured rectangle over a blue background.
func syntheticPortrait(width, height int, faceRect image.Rectangle) image.Image {
	skin := color.RGBA{R: 205, G: 150, B: 120, A: 255}
	background := color.RGBA{R: 80, G: 120, B: 220, A: 255}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if image.Pt(x, y).In(faceRect) {
				img.SetRGBA(x, y, skin)
			} else {
				img.SetRGBA(x, y, background)
			}
		}
	}
	return img
}

func assertClassified(t *testing.T, r Result) {
	t.Helper()

	if !r.Detected() {
		t.Fatalf("Outcome = %s, want classified (diagnostics: %+v)", r.Outcome, r.Diagnostics)
	}
	if !allSeasons[r.Season] {
		t.Errorf("Season = %q, want one of the four seasons", r.Season)
	}
	if r.SeasonConfidence < 0 || r.SeasonConfidence > 0.95 {
		t.Errorf("SeasonConfidence = %v outside [0, 0.95]", r.SeasonConfidence)
	}
	if r.OverallConfidence < 0 || r.OverallConfidence > 0.95 {
		t.Errorf("OverallConfidence = %v outside [0, 0.95]", r.OverallConfidence)
	}
	if r.Undertone.Undertone == UndertoneNeutral && !r.NeedsConfirmation {
		t.Error("NeedsConfirmation = false for a neutral undertone")
	}
	if r.Diagnostics.Reason == "" {
		t.Error("Diagnostics.Reason is empty")
	}
}

func TestAnalyzePortrait(t *testing.T) {
	img := syntheticPortrait(400, 400, image.Rect(120, 60, 280, 240))

	result := New(nil).Analyze(img, nil)
	assertClassified(t, result)

	if !result.FaceBox.Valid() {
		t.Errorf("FaceBox = %v, want a valid box", result.FaceBox)
	}
	if result.Diagnostics.SampleCount == 0 || result.Diagnostics.SkinSampleCount == 0 {
		t.Errorf("diagnostics missing sample counts: %+v", result.Diagnostics)
	}
	if result.Diagnostics.SkinRatio < minimumSkinRatio {
		t.Errorf("SkinRatio = %v below the acceptance minimum", result.Diagnostics.SkinRatio)
	}
}

func TestAnalyzeCallerSuppliedBox(t *testing.T) {
	img := syntheticPortrait(400, 400, image.Rect(120, 60, 280, 240))
	box := face.Box{X: 120, Y: 60, Width: 160, Height: 180}

	result := New(nil).Analyze(img, &box)
	assertClassified(t, result)

	if result.FaceBox != box {
		t.Errorf("FaceBox = %v, want the caller-supplied %v used verbatim", result.FaceBox, box)
	}
	if result.Diagnostics.ScanZone != "" {
		t.Errorf("ScanZone = %q, want empty when the locator is skipped", result.Diagnostics.ScanZone)
	}
}

func TestAnalyzeInvalidCallerBoxFallsBackToLocator(t *testing.T) {
	img := syntheticPortrait(400, 400, image.Rect(120, 60, 280, 240))
	box := face.Box{X: -10, Y: 0, Width: 0, Height: 50}

	result := New(nil).Analyze(img, &box)
	assertClassified(t, result)

	if result.Diagnostics.ScanZone == "" {
		t.Error("ScanZone is empty, want the locator to run for an invalid caller box")
	}
}

func TestAnalyzeNoFace(t *testing.T) {
	img := syntheticPortrait(400, 400, image.Rectangle{}) // all background

	result := New(nil).Analyze(img, nil)

	if result.Detected() {
		t.Fatal("Detected() = true for an image with no skin pixels")
	}
	if result.Outcome != OutcomeFaceNotDetected {
		t.Errorf("Outcome = %s, want %s", result.Outcome, OutcomeFaceNotDetected)
	}
	if result.Season != "" {
		t.Errorf("Season = %q, want empty for the not-detected outcome", result.Season)
	}
}

func TestAnalyzeInsufficientSkinInCallerBox(t *testing.T) {
	// A valid caller box aimed at pure background: sampling runs but the
	// sufficiency gate rejects it, with measured counts in diagnostics.
	img := syntheticPortrait(400, 400, image.Rect(0, 0, 80, 80))
	box := face.Box{X: 200, Y: 200, Width: 150, Height: 150}

	result := New(nil).Analyze(img, &box)

	if result.Detected() {
		t.Fatal("Detected() = true, want rejection for insufficient skin samples")
	}
	if result.Diagnostics.SampleCount == 0 {
		t.Error("SampleCount = 0, want the measured sample count in diagnostics")
	}
	if result.Diagnostics.SkinRatio >= minimumSkinRatio {
		t.Errorf("SkinRatio = %v, want below %v", result.Diagnostics.SkinRatio, minimumSkinRatio)
	}
}

func TestAnalyzeRecoversFromInternalFault(t *testing.T) {
	// A nil image makes the pipeline fault immediately; the boundary must
	// convert that into the fixed fallback classification, never a panic.
	result := New(nil).Analyze(nil, nil)

	if !result.Detected() {
		t.Fatal("fallback result must still carry the classified outcome")
	}
	if result.Season != SeasonAutumn {
		t.Errorf("Season = %s, want autumn fallback", result.Season)
	}
	if result.Undertone.Undertone != UndertoneNeutral ||
		result.Depth.Depth != DepthMedium ||
		result.Clarity.Clarity != ClarityMuted {
		t.Errorf("fallback attributes = %s/%s/%s, want neutral/medium/muted",
			result.Undertone.Undertone, result.Depth.Depth, result.Clarity.Clarity)
	}
	if result.SeasonConfidence != 0 || result.OverallConfidence != 0 {
		t.Errorf("fallback confidences = %v, %v, want 0", result.SeasonConfidence, result.OverallConfidence)
	}
	if !result.NeedsConfirmation {
		t.Error("NeedsConfirmation = false on the fallback result")
	}
	if !result.Diagnostics.Fallback {
		t.Error("Diagnostics.Fallback = false, want true")
	}
}

func TestSufficientSamples(t *testing.T) {
	build := func(skin, total int) face.SampleSet {
		s := face.SampleSet{
			Skin: make([]face.Sample, skin),
			All:  make([]face.Sample, total),
		}
		return s
	}

	tests := []struct {
		name        string
		skin, total int
		want        bool
	}{
		{name: "plenty", skin: 300, total: 588, want: true},
		{name: "count threshold met", skin: 55, total: 200, want: true},
		{name: "ratio threshold met", skin: 45, total: 140, want: true},
		{name: "below absolute count", skin: 39, total: 100, want: false},
		{name: "below absolute ratio", skin: 50, total: 250, want: false},
		{name: "nothing", skin: 0, total: 588, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sufficientSamples(build(tt.skin, tt.total)); got != tt.want {
				t.Errorf("sufficientSamples(%d/%d) = %v, want %v", tt.skin, tt.total, got, tt.want)
			}
		})
	}
}
