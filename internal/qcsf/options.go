package qcsf

import (
	"fmt"

	"github.com/cwbudde/quickcsf/internal/numutil"
)

// Psychometric slopes used by the built-in stimulus families.
const (
	SlopeGrating = 3.5  // Gabor and tumbling-E
	SlopeSloan   = 4.05 // 10-letter identification
)

// maxParamPoints caps the parameter grid size.
const maxParamPoints = 5000

// Options configures an Engine. Zero values for the optional weights
// leave them disabled.
type Options struct {
	// NumAFC selects the guess-rate policy: 1/NumAFC for forced choice
	// (NumAFC >= 2), FalseAlarmRate for yes-no detection (NumAFC == 1).
	NumAFC         int
	Slope          float64 // psychometric slope alpha
	Lapse          float64
	FalseAlarmRate float64

	// Parameter grid value lists (Cartesian product forms the grid).
	PeakGains   []float64
	PeakFreqs   []float64
	Bandwidths  []float64
	Truncations []float64

	// Stimulus grid value lists.
	StimFreqs        []float64
	StimLogContrasts []float64

	// RobustLikelihoodMix blends each trial likelihood toward 0.5,
	// bounding the influence of any single response. Clamped to [0, 0.1].
	RobustLikelihoodMix float64

	// BoundarySigmaLogC, when positive, enables the threshold-boundary
	// weight on expected entropy. LowMidFreqBoost, when positive,
	// multiplies the scores of stimuli between 1 and 5 cpd.
	BoundarySigmaLogC float64
	LowMidFreqBoost   float64

	// HighCutoffPrune removes prior mass from parameter points whose
	// sensitivity is still positive at 60 cpd.
	HighCutoffPrune bool

	// Seed drives the top-k tie-breaking; a fixed seed makes stimulus
	// selection reproducible.
	Seed int64
}

// DefaultOptions returns the standard grids: 10x10x5x5 parameter points
// and a 12x30 stimulus lattice.
func DefaultOptions(numAFC int, slope float64) Options {
	return Options{
		NumAFC:              numAFC,
		Slope:               slope,
		Lapse:               0.04,
		FalseAlarmRate:      0.01,
		PeakGains:           numutil.Linspace(0.5, 2.8, 10),
		PeakFreqs:           numutil.Logspace(0.5, 18, 10),
		Bandwidths:          numutil.Logspace(0.8, 6, 5),
		Truncations:         numutil.Linspace(0, 2.6, 5),
		StimFreqs:           numutil.Logspace(0.5, 24, 12),
		StimLogContrasts:    numutil.Linspace(-3, 0, 30),
		RobustLikelihoodMix: 0.03,
		Seed:                1,
	}
}

// GuessRate returns the psychometric lower asymptote implied by the
// forced-choice configuration.
func (o Options) GuessRate() float64 {
	if o.NumAFC >= 2 {
		return 1 / float64(o.NumAFC)
	}
	return o.FalseAlarmRate
}

func (o Options) validate() error {
	if o.NumAFC < 1 {
		return fmt.Errorf("qcsf: numAFC %d must be >= 1", o.NumAFC)
	}
	if o.Slope <= 0 {
		return fmt.Errorf("qcsf: psychometric slope %g must be positive", o.Slope)
	}
	if o.Lapse < 0 || o.Lapse >= 0.5 {
		return fmt.Errorf("qcsf: lapse rate %g out of range", o.Lapse)
	}
	if o.NumAFC == 1 && (o.FalseAlarmRate <= 0 || o.FalseAlarmRate >= 0.5) {
		return fmt.Errorf("qcsf: false-alarm rate %g out of range", o.FalseAlarmRate)
	}
	for name, grid := range map[string][]float64{
		"peakGains":        o.PeakGains,
		"peakFreqs":        o.PeakFreqs,
		"bandwidths":       o.Bandwidths,
		"truncations":      o.Truncations,
		"stimFreqs":        o.StimFreqs,
		"stimLogContrasts": o.StimLogContrasts,
	} {
		if len(grid) == 0 {
			return fmt.Errorf("qcsf: %s grid is empty", name)
		}
	}
	points := len(o.PeakGains) * len(o.PeakFreqs) * len(o.Bandwidths) * len(o.Truncations)
	if points > maxParamPoints {
		return fmt.Errorf("qcsf: parameter grid has %d points, cap is %d", points, maxParamPoints)
	}
	return nil
}
