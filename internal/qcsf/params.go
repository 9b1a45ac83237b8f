// Package qcsf implements the quick-CSF Bayesian adaptive procedure:
// parameter and stimulus grids, a precomputed psychometric likelihood
// matrix, expected-entropy stimulus selection, posterior updates, and
// posterior summaries.
package qcsf

import (
	"math"

	"github.com/cwbudde/quickcsf/internal/numutil"
)

// Params is one point Θ of the 4-parameter CSF model.
type Params struct {
	Gain       float64 // peak log10 sensitivity
	Freq       float64 // peak spatial frequency, cpd
	Bandwidth  float64 // octave bandwidth control
	Truncation float64 // low-frequency truncation depth
}

// minFreqArg floors frequencies before taking logarithms.
const minFreqArg = 0.05

var log10Two = math.Log10(2)

// EvaluateCSF returns log10 contrast sensitivity at freq (cpd) for the
// truncated log-parabola model: a parabola in log-log space with peak
// (Freq, Gain), width set by Bandwidth, and a plateau at Gain-Truncation
// on the low-frequency side.
func EvaluateCSF(freq float64, p Params) float64 {
	lf := numutil.Log10Safe(freq, minFreqArg)
	lp := numutil.Log10Safe(p.Freq, minFreqArg)
	halfBeta := p.Bandwidth * log10Two / 2
	dev := (lf - lp) / halfBeta
	logS := p.Gain - log10Two*dev*dev

	if freq <= p.Freq {
		if floor := p.Gain - p.Truncation; logS < floor {
			logS = floor
		}
	}
	return logS
}

// Stimulus is one frequency-contrast pair of the stimulus grid.
type Stimulus struct {
	Index       int
	Freq        float64 // cpd
	LogContrast float64 // log10 Michelson contrast
	Contrast    float64
}

// Trial records one presented stimulus and the observer's response.
type Trial struct {
	Trial     int  `json:"trial"`
	StimIndex int  `json:"stimIndex"`
	Correct   bool `json:"correct"`
}

// Warning is a structured non-fatal diagnostic emitted by the engine.
type Warning struct {
	Trial   int    `json:"trial"`
	Message string `json:"message"`
}

// CurvePoint is one sample of the estimated CSF curve.
type CurvePoint struct {
	Freq float64 `json:"freq"`
	LogS float64 `json:"logS"`
}
