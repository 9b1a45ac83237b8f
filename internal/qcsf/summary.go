package qcsf

import (
	"math"

	"gonum.org/v1/gonum/integrate"

	"github.com/cwbudde/quickcsf/internal/numutil"
)

// AULCSF integration range and resolution: log10 frequency from 0.5 to
// 36 cpd in 500 trapezoid panels.
const (
	aulcsfLoFreq = 0.5
	aulcsfHiFreq = 36.0
	aulcsfPanels = 500
)

// CSF curve sampling for downstream plotting.
const (
	curvePoints = 120
	curveLoExp  = -0.3
	curveHiExp  = 1.7
)

// Estimate returns the posterior mode (MAP) of Θ.
func (e *Engine) Estimate() Params {
	best := 0
	for h, mass := range e.posterior {
		if mass > e.posterior[best] {
			best = h
		}
	}
	return e.params[best]
}

// ExpectedEstimate returns the posterior mean of Θ, averaging the peak
// frequency in log10 space.
func (e *Engine) ExpectedEstimate() Params {
	var gain, logFreq, bandwidth, truncation float64
	for h, mass := range e.posterior {
		p := e.params[h]
		gain += mass * p.Gain
		logFreq += mass * numutil.Log10Safe(p.Freq, minFreqArg)
		bandwidth += mass * p.Bandwidth
		truncation += mass * p.Truncation
	}
	return Params{
		Gain:       gain,
		Freq:       math.Pow(10, logFreq),
		Bandwidth:  bandwidth,
		Truncation: truncation,
	}
}

// ParamBounds returns the bounding box of the parameter grid, used by
// the continuous refinement step.
func (e *Engine) ParamBounds() (lower, upper Params) {
	lower = Params{
		Gain:       floatsMin(e.opts.PeakGains),
		Freq:       floatsMin(e.opts.PeakFreqs),
		Bandwidth:  floatsMin(e.opts.Bandwidths),
		Truncation: floatsMin(e.opts.Truncations),
	}
	upper = Params{
		Gain:       floatsMax(e.opts.PeakGains),
		Freq:       floatsMax(e.opts.PeakFreqs),
		Bandwidth:  floatsMax(e.opts.Bandwidths),
		Truncation: floatsMax(e.opts.Truncations),
	}
	return lower, upper
}

// AULCSF integrates max(0, logS) over log10 frequency between 0.5 and
// 36 cpd with the trapezoid rule.
func AULCSF(p Params) float64 {
	xs := numutil.Linspace(math.Log10(aulcsfLoFreq), math.Log10(aulcsfHiFreq), aulcsfPanels+1)
	ys := make([]float64, len(xs))
	for i, lx := range xs {
		ys[i] = math.Max(0, EvaluateCSF(math.Pow(10, lx), p))
	}
	return integrate.Trapezoidal(xs, ys)
}

// CSFCurve samples the model on a log-spaced frequency axis from
// 10^-0.3 to 10^1.7 cpd for plotting collaborators.
func CSFCurve(p Params) []CurvePoint {
	freqs := numutil.Logspace(math.Pow(10, curveLoExp), math.Pow(10, curveHiExp), curvePoints)
	curve := make([]CurvePoint, len(freqs))
	for i, f := range freqs {
		curve[i] = CurvePoint{Freq: f, LogS: EvaluateCSF(f, p)}
	}
	return curve
}

func floatsMin(vals []float64) float64 {
	m := vals[0]
	for _, v := range vals[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func floatsMax(vals []float64) float64 {
	m := vals[0]
	for _, v := range vals[1:] {
		if v > m {
			m = v
		}
	}
	return m
}
