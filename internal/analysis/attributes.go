package analysis

import (
	"math"

	"github.com/tonalab/seasonal/internal/colour"
)

// Undertone is the warm/cool/neutral axis of skin colour.
type Undertone string

const (
	UndertoneWarm    Undertone = "warm"
	UndertoneCool    Undertone = "cool"
	UndertoneNeutral Undertone = "neutral"
)

// Lean is the directional hint attached to a neutral undertone.
type Lean string

const (
	LeanWarm Lean = "warm"
	LeanCool Lean = "cool"
	LeanNone Lean = "none"
)

// Depth is the light/medium/deep axis.
type Depth string

const (
	DepthLight  Depth = "light"
	DepthMedium Depth = "medium"
	DepthDeep   Depth = "deep"
)

// Clarity is the muted/clear/vivid axis, measured on Lab chroma.
type Clarity string

const (
	ClarityMuted Clarity = "muted"
	ClarityClear Clarity = "clear"
	ClarityVivid Clarity = "vivid"
)

// Undertone classifier thresholds. The neutral band widens under a strong
// warm lighting cast, since a cast pushes b towards yellow.
const (
	neutralBandNormal   = 6.0
	neutralBandWidened  = 8.0
	severityForWideBand = 0.35
	undertoneDecisive   = 8.0
)

// UndertoneResult carries the undertone value with its lean and confidence.
type UndertoneResult struct {
	Undertone  Undertone `json:"undertone"`
	Lean       Lean      `json:"lean"`
	Confidence float64   `json:"confidence"`
}

// DepthResult carries the depth value and its confidence.
type DepthResult struct {
	Depth      Depth   `json:"depth"`
	Confidence float64 `json:"confidence"`
}

// ClarityResult carries the clarity value and its confidence.
type ClarityResult struct {
	Clarity    Clarity `json:"clarity"`
	Confidence float64 `json:"confidence"`
}

// ClassifyUndertone classifies the warm/cool/neutral undertone from the
// aggregated Lab colour. The b axis drives the decision; castSeverity (from
// the whole-image lighting estimate) widens the neutral band and dents the
// confidence when the scene lighting is suspect.
func ClassifyUndertone(lab colour.Lab, castSeverity float64) UndertoneResult {
	b := lab.B
	absB := math.Abs(b)

	band := neutralBandNormal
	if castSeverity > severityForWideBand {
		band = neutralBandWidened
	}

	lean := LeanNone
	switch {
	case b > 0:
		lean = LeanWarm
	case b < 0:
		lean = LeanCool
	}

	var (
		undertone Undertone
		inBand    bool
	)
	switch {
	case absB < band:
		undertone = UndertoneNeutral
		inBand = true
	case b >= undertoneDecisive:
		undertone = UndertoneWarm
	case b <= -undertoneDecisive:
		undertone = UndertoneCool
	default:
		// Outside the band but short of decisive: neutral with a lean.
		undertone = UndertoneNeutral
	}

	confidence := 0.5 + 0.4*clamp(absB/12, 0, 1)
	if inBand && confidence > 0.6 {
		confidence = 0.6
	}
	if castSeverity > severityForWideBand {
		confidence -= 0.1
	}

	return UndertoneResult{
		Undertone:  undertone,
		Lean:       lean,
		Confidence: clamp(confidence, 0, 1),
	}
}

// Depth classifier thresholds. Note the strict > on the light boundary;
// the decision engine's value grouping uses >= instead, and the two are
// intentionally kept separate.
const (
	depthLightAbove    = 65.0
	depthDeepAtOrBelow = 45.0
)

// ClassifyDepth classifies light/medium/deep from median L. The confidence
// grows with distance from the nearer boundary; a high L spread (madL)
// costs a fixed penalty.
func ClassifyDepth(lab colour.Lab, madL float64) DepthResult {
	l := lab.L

	var depth Depth
	switch {
	case l > depthLightAbove:
		depth = DepthLight
	case l <= depthDeepAtOrBelow:
		depth = DepthDeep
	default:
		depth = DepthMedium
	}

	dist := math.Min(math.Abs(l-depthLightAbove), math.Abs(l-depthDeepAtOrBelow))
	confidence := clamp(0.62+dist/28, 0.55, 0.92)
	if madL > noisyMADL {
		confidence -= 0.06
	}

	return DepthResult{Depth: depth, Confidence: confidence}
}

// Clarity classifier thresholds, on Lab chroma rather than HSV saturation.
const (
	clarityMutedBelow = 10.0
	clarityClearBelow = 18.0
)

// ClassifyClarity classifies muted/clear/vivid from Lab chroma.
func ClassifyClarity(chroma, madB float64) ClarityResult {
	var clarity Clarity
	switch {
	case chroma < clarityMutedBelow:
		clarity = ClarityMuted
	case chroma < clarityClearBelow:
		clarity = ClarityClear
	default:
		clarity = ClarityVivid
	}

	d := math.Min(math.Abs(chroma-clarityMutedBelow), math.Abs(chroma-clarityClearBelow))
	confidence := clamp(0.55+d/10, 0.55, 0.9)
	if madB > noisyMADB {
		confidence -= 0.06
	}

	return ClarityResult{Clarity: clarity, Confidence: confidence}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
