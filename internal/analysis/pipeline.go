package analysis

import (
	"image"
	"sort"

	"github.com/hashicorp/go-hclog"

	"github.com/tonalab/seasonal/internal/colour"
	"github.com/tonalab/seasonal/internal/face"
)

// Sample sufficiency gates applied after sampling. Either of the primary
// thresholds is enough, but the absolute minimums must hold regardless.
const (
	sufficientSkinSamples = 50
	sufficientSkinRatio   = 0.30
	minimumSkinSamples    = 40
	minimumSkinRatio      = 0.25
)

// Analyzer runs the full classification pipeline on a single image. It is
// stateless across invocations and safe for concurrent use.
type Analyzer struct {
	locator *face.Locator
	logger  hclog.Logger
}

// New creates an Analyzer. A nil logger disables logging.
func New(logger hclog.Logger) *Analyzer {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Analyzer{
		locator: face.NewLocator(logger),
		logger:  logger.Named("pipeline"),
	}
}

// Analyze classifies the skin colour of the face in img into a colour
// season. If callerBox is non-nil and geometrically valid it is used
// verbatim (clamped to image bounds) and the locator is skipped.
//
// Once a face region is accepted the function is total: it always returns
// a season. An unexpected internal fault is caught at this boundary and
// mapped to a fixed fallback classification rather than an error, so the
// caller can rely on the always-answer contract.
func (a *Analyzer) Analyze(img image.Image, callerBox *face.Box) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("pipeline fault, returning fallback classification", "panic", r)
			result = fallbackResult()
		}
	}()

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	// The global cast estimate is independent of face detection; it only
	// reads the same immutable pixels.
	cast := colour.EstimateCast(img)
	a.logger.Debug("global lighting cast", "warm_index", cast.WarmIndex, "severity", cast.Severity)

	var (
		box   face.Box
		stats face.ScanStats
	)
	if callerBox != nil && callerBox.Valid() {
		box = callerBox.ClampTo(width, height)
		a.logger.Debug("using caller-supplied face box", "box", box)
		if box.Width == 0 || box.Height == 0 {
			return notDetectedResult(stats, face.SampleSet{})
		}
	} else {
		var ok bool
		box, stats, ok = a.locator.Locate(img)
		if !ok {
			return notDetectedResult(stats, face.SampleSet{})
		}
	}

	samples := face.SampleRegion(img, box)
	if !sufficientSamples(samples) {
		a.logger.Debug("insufficient skin samples",
			"skin", len(samples.Skin), "total", len(samples.All), "ratio", samples.SkinRatio())
		r := notDetectedResult(stats, samples)
		r.FaceBox = box
		return r
	}

	gains := EstimateGains(samples.Skin)
	corrected := gains.Apply(samples.Skin)
	agg := AggregateSamples(corrected)

	undertone := ClassifyUndertone(agg.Lab, cast.Severity)
	depth := ClassifyDepth(agg.Lab, agg.MADL)
	clarity := ClassifyClarity(agg.Lab.Chroma(), agg.MADB)
	decision := DecideSeason(undertone, agg.Lab, agg, gains)

	a.logger.Debug("season decided",
		"season", decision.Season,
		"confidence", decision.Confidence,
		"undertone", undertone.Undertone,
		"depth", depth.Depth,
		"clarity", clarity.Clarity)

	return Result{
		Outcome:           OutcomeClassified,
		FaceBox:           box,
		DisplayRGB:        displayRGB(corrected),
		Lab:               agg.Lab.Rounded(),
		Undertone:         undertone,
		Depth:             depth,
		Clarity:           clarity,
		Season:            decision.Season,
		SeasonConfidence:  decision.Confidence,
		OverallConfidence: OverallConfidence(undertone, depth, clarity, agg, gains),
		NeedsConfirmation: decision.NeedsConfirmation,
		Diagnostics: Diagnostics{
			SampleCount:     len(samples.All),
			SkinSampleCount: len(samples.Skin),
			SkinRatio:       samples.SkinRatio(),
			ScanZone:        stats.Zone,
			ScanSkinRatio:   stats.SkinRatio,
			ScanSkinPixels:  stats.SkinPixels,
			Gains:           gains,
			MADL:            agg.MADL,
			MADB:            agg.MADB,
			Noisy:           agg.Noisy,
			GamutSamples:    agg.GamutCount,
			UsedFallback:    agg.UsedFallback,
			Reason:          decision.Reason,
		},
	}
}

// sufficientSamples applies the two-tier sample gate.
func sufficientSamples(s face.SampleSet) bool {
	skin := len(s.Skin)
	ratio := s.SkinRatio()

	if skin < minimumSkinSamples || ratio < minimumSkinRatio {
		return false
	}
	return skin >= sufficientSkinSamples || ratio >= sufficientSkinRatio
}

// displayRGB derives the representative swatch colour from the corrected
// samples: the per-channel median.
func displayRGB(corrected []face.Sample) colour.RGB {
	if len(corrected) == 0 {
		return colour.RGB{}
	}
	return colour.RGB{
		R: medianChannel(corrected, func(s face.Sample) uint8 { return s.R }),
		G: medianChannel(corrected, func(s face.Sample) uint8 { return s.G }),
		B: medianChannel(corrected, func(s face.Sample) uint8 { return s.B }),
	}
}

func medianChannel(samples []face.Sample, get func(face.Sample) uint8) uint8 {
	values := make([]int, len(samples))
	for i, s := range samples {
		values[i] = int(get(s))
	}
	sort.Ints(values)
	return uint8(values[len(values)/2])
}

// notDetectedResult reports the terminal face-not-detected outcome with
// whatever the scan and sampler measured.
func notDetectedResult(stats face.ScanStats, samples face.SampleSet) Result {
	return Result{
		Outcome: OutcomeFaceNotDetected,
		Diagnostics: Diagnostics{
			SampleCount:     len(samples.All),
			SkinSampleCount: len(samples.Skin),
			SkinRatio:       samples.SkinRatio(),
			ScanZone:        stats.Zone,
			ScanSkinRatio:   stats.SkinRatio,
			ScanSkinPixels:  stats.SkinPixels,
			Reason:          "no qualifying face region",
		},
	}
}

// fallbackResult is the fixed classification returned when the pipeline
// hits an unexpected internal fault. Neutral/medium/muted/autumn at zero
// confidence keeps the always-answer contract honest about certainty.
func fallbackResult() Result {
	return Result{
		Outcome:           OutcomeClassified,
		Undertone:         UndertoneResult{Undertone: UndertoneNeutral, Lean: LeanNone},
		Depth:             DepthResult{Depth: DepthMedium},
		Clarity:           ClarityResult{Clarity: ClarityMuted},
		Season:            SeasonAutumn,
		NeedsConfirmation: true,
		Diagnostics: Diagnostics{
			Reason:   "internal fault; fixed fallback classification",
			Fallback: true,
		},
	}
}
