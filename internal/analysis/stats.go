package analysis

import (
	"sort"

	"github.com/tonalab/seasonal/internal/colour"
	"github.com/tonalab/seasonal/internal/face"
)

// Aggregation thresholds. Medians and MADs are used instead of means so a
// handful of stray non-skin pixels cannot drag the estimate.
const (
	minGamutSamples = 30

	noisyMADB = 4.5
	noisyMADL = 10.0
)

// Aggregate holds the robust colour statistics of the corrected samples.
type Aggregate struct {
	Lab colour.Lab

	MADL float64
	MADA float64
	MADB float64

	Noisy bool

	// GamutCount is how many samples survived the Lab gamut filter;
	// UsedFallback records that too few did and the full set was used.
	GamutCount   int
	UsedFallback bool
}

// AggregateSamples converts the corrected samples to Lab, keeps the ones
// inside the skin gamut and computes per-channel median and MAD. If fewer
// than minGamutSamples survive the filter, the full corrected set is used
// instead of failing.
func AggregateSamples(corrected []face.Sample) Aggregate {
	all := make([]colour.Lab, len(corrected))
	inGamut := make([]colour.Lab, 0, len(corrected))
	for i, s := range corrected {
		lab := colour.SRGBToLab(s.R, s.G, s.B)
		all[i] = lab
		if face.InSkinGamut(lab) {
			inGamut = append(inGamut, lab)
		}
	}

	agg := Aggregate{GamutCount: len(inGamut)}

	kept := inGamut
	if len(kept) < minGamutSamples {
		kept = all
		agg.UsedFallback = true
	}
	if len(kept) == 0 {
		return agg
	}

	ls := make([]float64, len(kept))
	as := make([]float64, len(kept))
	bs := make([]float64, len(kept))
	for i, lab := range kept {
		ls[i] = lab.L
		as[i] = lab.A
		bs[i] = lab.B
	}

	agg.Lab = colour.Lab{L: median(ls), A: median(as), B: median(bs)}
	agg.MADL = mad(ls, agg.Lab.L)
	agg.MADA = mad(as, agg.Lab.A)
	agg.MADB = mad(bs, agg.Lab.B)
	agg.Noisy = agg.MADB > noisyMADB || agg.MADL > noisyMADL

	return agg
}

// median computes the median, sorting the slice in place.
func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sort.Float64s(values)
	mid := len(values) / 2
	if len(values)%2 == 0 {
		return (values[mid-1] + values[mid]) / 2
	}
	return values[mid]
}

// mad computes the median absolute deviation around the given centre.
func mad(values []float64, centre float64) float64 {
	if len(values) == 0 {
		return 0
	}
	deviations := make([]float64, len(values))
	for i, v := range values {
		d := v - centre
		if d < 0 {
			d = -d
		}
		deviations[i] = d
	}
	return median(deviations)
}
