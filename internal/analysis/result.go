package analysis

import (
	"github.com/tonalab/seasonal/internal/colour"
	"github.com/tonalab/seasonal/internal/face"
)

// Outcome distinguishes a classification from the one non-exceptional
// failure path: not finding a usable face region.
type Outcome string

const (
	OutcomeClassified      Outcome = "classified"
	OutcomeFaceNotDetected Outcome = "face_not_detected"
)

// Diagnostics is the observability payload attached to every result. It is
// for reporting only; nothing downstream makes decisions from it.
type Diagnostics struct {
	SampleCount     int     `json:"sample_count"`
	SkinSampleCount int     `json:"skin_sample_count"`
	SkinRatio       float64 `json:"skin_ratio"`

	ScanZone       string  `json:"scan_zone,omitempty"`
	ScanSkinRatio  float64 `json:"scan_skin_ratio"`
	ScanSkinPixels int     `json:"scan_skin_pixels"`

	Gains        Gains   `json:"gains"`
	MADL         float64 `json:"mad_l"`
	MADB         float64 `json:"mad_b"`
	Noisy        bool    `json:"noisy"`
	GamutSamples int     `json:"gamut_samples"`
	UsedFallback bool    `json:"used_gamut_fallback"`

	Reason string `json:"reason,omitempty"`

	// Fallback marks a result produced by the internal-fault safety net
	// rather than by the pipeline proper.
	Fallback bool `json:"fallback,omitempty"`
}

// Result is the complete output of one pipeline invocation.
type Result struct {
	Outcome Outcome  `json:"outcome"`
	FaceBox face.Box `json:"face_box,omitempty"`

	DisplayRGB colour.RGB `json:"display_rgb"`
	Lab        colour.Lab `json:"lab"`

	Undertone UndertoneResult `json:"undertone"`
	Depth     DepthResult     `json:"depth"`
	Clarity   ClarityResult   `json:"clarity"`

	Season            Season  `json:"season,omitempty"`
	SeasonConfidence  float64 `json:"season_confidence"`
	OverallConfidence float64 `json:"overall_confidence"`
	NeedsConfirmation bool    `json:"needs_confirmation"`

	Diagnostics Diagnostics `json:"diagnostics"`
}

// Detected reports whether the pipeline accepted a face region and produced
// a season.
func (r Result) Detected() bool {
	return r.Outcome == OutcomeClassified
}
