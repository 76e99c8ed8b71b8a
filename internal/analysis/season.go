package analysis

import (
	"fmt"
	"math"

	"github.com/tonalab/seasonal/internal/colour"
)

// Season is one of the four fashion colour archetypes.
type Season string

const (
	SeasonSpring Season = "spring"
	SeasonSummer Season = "summer"
	SeasonAutumn Season = "autumn"
	SeasonWinter Season = "winter"
)

// ValueGroup buckets median L for the decision engine. The boundaries use
// >= / <= where the Depth classifier uses > / <=; the asymmetry is kept on
// purpose (see DESIGN.md).
type ValueGroup string

const (
	ValueLight  ValueGroup = "light"
	ValueMedium ValueGroup = "medium"
	ValueDeep   ValueGroup = "deep"
)

// ChromaGroup buckets Lab chroma for the decision engine.
type ChromaGroup string

const (
	ChromaMuted ChromaGroup = "muted"
	ChromaClear ChromaGroup = "clear"
	ChromaVivid ChromaGroup = "vivid"
)

// ValueGroupOf buckets median L. L exactly 65 counts as light here, unlike
// in ClassifyDepth.
func ValueGroupOf(l float64) ValueGroup {
	switch {
	case l >= 65:
		return ValueLight
	case l <= 45:
		return ValueDeep
	default:
		return ValueMedium
	}
}

// ChromaGroupOf buckets Lab chroma with the same thresholds as the clarity
// classifier.
func ChromaGroupOf(chroma float64) ChromaGroup {
	switch {
	case chroma < clarityMutedBelow:
		return ChromaMuted
	case chroma < clarityClearBelow:
		return ChromaClear
	default:
		return ChromaVivid
	}
}

// Decision is the final season outcome.
type Decision struct {
	Season            Season  `json:"season"`
	Confidence        float64 `json:"confidence"`
	NeedsConfirmation bool    `json:"needs_confirmation"`
	Reason            string  `json:"reason"`
}

// decisionKey addresses the season lookup table. Keys are canonicalised
// before lookup: warm and cool undertones ignore the lean, and a neutral
// undertone with no measurable lean is treated as leaning warm, so the
// table stays total over the product space.
type decisionKey struct {
	undertone Undertone
	value     ValueGroup
	chroma    ChromaGroup
	lean      Lean
}

// seasonTable enumerates every canonical combination. Two asymmetries are
// deliberate and must survive refactoring: cool+muted always maps to
// summer regardless of value group, while warm has no matching
// always-autumn-on-muted short-circuit (warm reaches autumn only by
// falling through the spring conditions); and a muted neutral never maps
// to spring or winter.
var seasonTable = map[decisionKey]Season{
	// Warm: spring only for light and not muted, otherwise autumn.
	{UndertoneWarm, ValueLight, ChromaMuted, LeanNone}:   SeasonAutumn,
	{UndertoneWarm, ValueLight, ChromaClear, LeanNone}:   SeasonSpring,
	{UndertoneWarm, ValueLight, ChromaVivid, LeanNone}:   SeasonSpring,
	{UndertoneWarm, ValueMedium, ChromaMuted, LeanNone}:  SeasonAutumn,
	{UndertoneWarm, ValueMedium, ChromaClear, LeanNone}:  SeasonAutumn,
	{UndertoneWarm, ValueMedium, ChromaVivid, LeanNone}:  SeasonAutumn,
	{UndertoneWarm, ValueDeep, ChromaMuted, LeanNone}:    SeasonAutumn,
	{UndertoneWarm, ValueDeep, ChromaClear, LeanNone}:    SeasonAutumn,
	{UndertoneWarm, ValueDeep, ChromaVivid, LeanNone}:    SeasonAutumn,

	// Cool: muted always prefers summer, everything else is winter.
	{UndertoneCool, ValueLight, ChromaMuted, LeanNone}:   SeasonSummer,
	{UndertoneCool, ValueLight, ChromaClear, LeanNone}:   SeasonWinter,
	{UndertoneCool, ValueLight, ChromaVivid, LeanNone}:   SeasonWinter,
	{UndertoneCool, ValueMedium, ChromaMuted, LeanNone}:  SeasonSummer,
	{UndertoneCool, ValueMedium, ChromaClear, LeanNone}:  SeasonWinter,
	{UndertoneCool, ValueMedium, ChromaVivid, LeanNone}:  SeasonWinter,
	{UndertoneCool, ValueDeep, ChromaMuted, LeanNone}:    SeasonSummer,
	{UndertoneCool, ValueDeep, ChromaClear, LeanNone}:    SeasonWinter,
	{UndertoneCool, ValueDeep, ChromaVivid, LeanNone}:    SeasonWinter,

	// Neutral, muted chroma: the lean picks the softer season on its side,
	// never spring or winter.
	{UndertoneNeutral, ValueLight, ChromaMuted, LeanWarm}:  SeasonAutumn,
	{UndertoneNeutral, ValueLight, ChromaMuted, LeanCool}:  SeasonSummer,
	{UndertoneNeutral, ValueMedium, ChromaMuted, LeanWarm}: SeasonAutumn,
	{UndertoneNeutral, ValueMedium, ChromaMuted, LeanCool}: SeasonSummer,
	{UndertoneNeutral, ValueDeep, ChromaMuted, LeanWarm}:   SeasonAutumn,
	{UndertoneNeutral, ValueDeep, ChromaMuted, LeanCool}:   SeasonSummer,

	// Neutral, clear or vivid chroma: value group decides, lean breaks the
	// warm/cool tie; the medium row maps to the safe middle pair.
	{UndertoneNeutral, ValueLight, ChromaClear, LeanWarm}:  SeasonSpring,
	{UndertoneNeutral, ValueLight, ChromaClear, LeanCool}:  SeasonSummer,
	{UndertoneNeutral, ValueLight, ChromaVivid, LeanWarm}:  SeasonSpring,
	{UndertoneNeutral, ValueLight, ChromaVivid, LeanCool}:  SeasonSummer,
	{UndertoneNeutral, ValueMedium, ChromaClear, LeanWarm}: SeasonAutumn,
	{UndertoneNeutral, ValueMedium, ChromaClear, LeanCool}: SeasonSummer,
	{UndertoneNeutral, ValueMedium, ChromaVivid, LeanWarm}: SeasonAutumn,
	{UndertoneNeutral, ValueMedium, ChromaVivid, LeanCool}: SeasonSummer,
	{UndertoneNeutral, ValueDeep, ChromaClear, LeanWarm}:   SeasonAutumn,
	{UndertoneNeutral, ValueDeep, ChromaClear, LeanCool}:   SeasonWinter,
	{UndertoneNeutral, ValueDeep, ChromaVivid, LeanWarm}:   SeasonAutumn,
	{UndertoneNeutral, ValueDeep, ChromaVivid, LeanCool}:   SeasonWinter,
}

// canonical maps a measured combination onto a table key.
func canonical(u Undertone, v ValueGroup, c ChromaGroup, lean Lean) decisionKey {
	if u != UndertoneNeutral {
		lean = LeanNone
	} else if lean == LeanNone {
		lean = LeanWarm
	}
	return decisionKey{undertone: u, value: v, chroma: c, lean: lean}
}

// Confidence ceilings per branch. The system never claims full certainty.
const (
	ceilingNormal      = 0.95
	ceilingNeutral     = 0.55
	ceilingVeryNeutral = 0.45

	noisePenalty = 0.08
	clampPenalty = 0.06

	confirmBelow          = 0.72
	confirmUndertoneBelow = 0.70
)

// DecideSeason combines the undertone result, the aggregated colour and the
// correction state into the final season decision. It is a total function:
// every input combination maps to one of the four seasons.
func DecideSeason(u UndertoneResult, lab colour.Lab, agg Aggregate, gains Gains) Decision {
	chroma := lab.Chroma()
	value := ValueGroupOf(lab.L)
	chromaGroup := ChromaGroupOf(chroma)

	season := seasonTable[canonical(u.Undertone, value, chromaGroup, u.Lean)]

	var (
		confidence float64
		ceiling    float64
	)
	if u.Undertone == UndertoneNeutral {
		ceiling = ceilingNeutral
		confidence = math.Min(clamp(u.Confidence*0.7, 0, ceilingNeutral), ceilingNeutral)

		// A truly colourless reading gets the hardest cap.
		if chromaGroup == ChromaMuted && math.Abs(lab.B) < 2 {
			ceiling = ceilingVeryNeutral
		} else if chromaGroup != ChromaMuted && chroma < 6 && math.Abs(lab.B) < 3 {
			ceiling = ceilingVeryNeutral
		}
	} else {
		ceiling = ceilingNormal
		confidence = clamp(u.Confidence*0.9, 0, ceilingNormal)
	}

	if agg.Noisy {
		confidence -= noisePenalty
	}
	if gains.Clamped {
		confidence -= clampPenalty
	}
	confidence = clamp(confidence, 0, ceiling)

	needsConfirmation := u.Undertone == UndertoneNeutral ||
		u.Confidence < confirmUndertoneBelow ||
		confidence < confirmBelow

	return Decision{
		Season:            season,
		Confidence:        confidence,
		NeedsConfirmation: needsConfirmation,
		Reason:            reason(u, value, chromaGroup, season),
	}
}

// reason builds the human-readable explanation carried in diagnostics.
func reason(u UndertoneResult, value ValueGroup, chroma ChromaGroup, season Season) string {
	if u.Undertone == UndertoneNeutral && u.Lean != LeanNone {
		return fmt.Sprintf("neutral undertone leaning %s with %s, %s colouring suggests %s",
			u.Lean, value, chroma, season)
	}
	return fmt.Sprintf("%s undertone with %s, %s colouring suggests %s",
		u.Undertone, value, chroma, season)
}

// OverallConfidence blends the three attribute confidences, weighted by how
// much each attribute drives the season, and applies the same quality
// penalties as the season decision. Capped at 0.95.
func OverallConfidence(u UndertoneResult, d DepthResult, c ClarityResult, agg Aggregate, gains Gains) float64 {
	overall := 0.45*u.Confidence + 0.30*d.Confidence + 0.25*c.Confidence
	if agg.Noisy {
		overall -= noisePenalty
	}
	if gains.Clamped {
		overall -= clampPenalty
	}
	return clamp(overall, 0, ceilingNormal)
}
