// Package result turns a completed qCSF run into the reportable
// clinical summary: plausibility-guarded parameters, AULCSF and its
// rank, a predicted Snellen acuity, and per-landmark pass/fail.
package result

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/cwbudde/quickcsf/internal/numutil"
	"github.com/cwbudde/quickcsf/internal/qcsf"
)

// Rank buckets over AULCSF.
const (
	RankSuperior     = "SUPERIOR"
	RankAboveAverage = "ABOVE AVERAGE"
	RankNormal       = "NORMAL"
	RankBelowAverage = "BELOW AVERAGE"
	RankImpaired     = "IMPAIRED"
	RankError        = "ERROR"
)

// snellenCutoffCap is the empirical human foveal ceiling in cpd.
const snellenCutoffCap = 60.0

// Landmark is a named frequency with the minimum linear sensitivity a
// healthy observer reaches there.
type Landmark struct {
	Name     string  `json:"name"`
	Freq     float64 `json:"freq"`
	Required float64 `json:"required"`
}

// Landmarks is the static evaluation table: the five standard
// functional-contrast frequencies with population-norm requirements.
var Landmarks = []Landmark{
	{Name: "1.5 cpd", Freq: 1.5, Required: 55},
	{Name: "3 cpd", Freq: 3, Required: 100},
	{Name: "6 cpd", Freq: 6, Required: 110},
	{Name: "12 cpd", Freq: 12, Required: 45},
	{Name: "18 cpd", Freq: 18, Required: 15},
}

// LandmarkResult is one evaluated landmark.
type LandmarkResult struct {
	Landmark
	Yours float64 `json:"yours"`
	Pass  bool    `json:"pass"`
}

// Options controls result derivation. The plausibility guard and the
// continuous refinement are product decisions and default to off.
type Options struct {
	ApplyPlausibilityGuard bool

	// Refine polishes the grid estimate with a continuous
	// maximum-likelihood fit over the trial history.
	Refine     bool
	RefineSeed int64
}

// Report is the completed-session output handed to external
// collaborators.
type Report struct {
	Params    qcsf.Params       `json:"params"`
	RawParams qcsf.Params       `json:"rawParams"`
	Refined   *qcsf.Params      `json:"refined,omitempty"`
	AULCSF    float64           `json:"aulcsf"`
	Rank      string            `json:"rank"`
	CutoffCPD float64           `json:"cutoffCpd"`
	Snellen   string            `json:"snellen"`
	Landmarks []LandmarkResult  `json:"landmarks"`
	Guards    []string          `json:"guards,omitempty"`
	Curve     []qcsf.CurvePoint `json:"curve"`
	History   []qcsf.Trial      `json:"history"`
	Warnings  []qcsf.Warning    `json:"warnings,omitempty"`
}

// Derive builds the report from a completed engine using the
// posterior-mean estimate.
func Derive(e *qcsf.Engine, opts Options) Report {
	raw := e.ExpectedEstimate()
	params := raw

	var guards []string
	if opts.ApplyPlausibilityGuard {
		params, guards = applyGuards(params, lowFreqTrials(e))
	}

	report := Report{
		Params:    params,
		RawParams: raw,
		Guards:    guards,
		History:   e.History(),
		Warnings:  e.Warnings(),
	}

	if opts.Refine {
		if refined, err := Refine(e, params, opts.RefineSeed); err == nil {
			report.Refined = &refined
		} else {
			slog.Warn("Refinement failed, keeping grid estimate", "error", err)
		}
	}

	aulcsf := qcsf.AULCSF(params)
	if math.IsNaN(aulcsf) || math.IsInf(aulcsf, 0) {
		report.AULCSF = 0
		report.Rank = RankError
		return report
	}

	report.AULCSF = aulcsf
	report.Rank = rankOf(aulcsf)
	report.Curve = qcsf.CSFCurve(params)
	report.CutoffCPD = cutoffFrequency(report.Curve)
	report.Snellen = snellenString(report.CutoffCPD)
	report.Landmarks = evaluateLandmarks(params)
	return report
}

// lowFreqTrials counts history entries that sampled 0.5 to 5 cpd.
func lowFreqTrials(e *qcsf.Engine) int {
	count := 0
	for _, trial := range e.History() {
		st, err := e.StimulusAt(trial.StimIndex)
		if err != nil {
			continue
		}
		if st.Freq >= 0.5 && st.Freq <= 5 {
			count++
		}
	}
	return count
}

// applyGuards biases implausible estimates toward population norms.
// Every adjustment is named in the returned guard list.
func applyGuards(p qcsf.Params, lowFreqCount int) (qcsf.Params, []string) {
	var guards []string

	if lowFreqCount < 2 {
		if p.Freq > 4.5 {
			p.Freq = 4.5
			guards = append(guards, "low-frequency coverage: peak frequency capped at 4.5 cpd")
		}
		if p.Bandwidth < 1.35 {
			p.Bandwidth = 1.35
			guards = append(guards, "low-frequency coverage: bandwidth raised to 1.35")
		}
		if p.Truncation < 1.8 {
			p.Truncation = 1.8
			guards = append(guards, "low-frequency coverage: truncation raised to 1.8")
		}
	}

	if p.Freq > 10 {
		p.Freq = 10
		guards = append(guards, "peak frequency clamped to 10 cpd")
	}
	if p.Bandwidth < 1.15 {
		p.Bandwidth = 1.15
		guards = append(guards, "bandwidth floored at 1.15")
	}
	if p.Truncation < 1.4 {
		p.Truncation = 1.4
		guards = append(guards, "truncation floored at 1.4")
	}

	for i := 0; i < 5 && estimatedCutoff(p) > 42; i++ {
		p.Freq = math.Max(2.2, 0.9*p.Freq)
		p.Bandwidth = math.Min(2.8, p.Bandwidth+0.12)
		p.Truncation = math.Min(3.2, p.Truncation+0.15)
		guards = append(guards, fmt.Sprintf("cutoff shrink pass %d", i+1))
	}

	return p, guards
}

// estimatedCutoff returns the frequency where the model crosses zero
// sensitivity.
func estimatedCutoff(p qcsf.Params) float64 {
	return cutoffFrequency(qcsf.CSFCurve(p))
}

// cutoffFrequency finds the lowest frequency where the sampled curve
// crosses logS = 0, interpolating linearly in log-frequency, clamped to
// the foveal ceiling.
func cutoffFrequency(curve []qcsf.CurvePoint) float64 {
	for i := 0; i+1 < len(curve); i++ {
		a, b := curve[i], curve[i+1]
		if a.LogS > 0 && b.LogS <= 0 {
			la := math.Log10(a.Freq)
			lb := math.Log10(b.Freq)
			t := a.LogS / (a.LogS - b.LogS)
			return numutil.Clamp(math.Pow(10, la+t*(lb-la)), 0, snellenCutoffCap)
		}
	}

	// No downward crossing: either sensitivity holds past the sampled
	// range or never rises above zero.
	if len(curve) > 0 && curve[len(curve)-1].LogS > 0 {
		return snellenCutoffCap
	}
	for _, pt := range curve {
		if pt.LogS > 0 {
			return numutil.Clamp(pt.Freq, 0, snellenCutoffCap)
		}
	}
	if len(curve) > 0 {
		return curve[0].Freq
	}
	return snellenCutoffCap
}

// snellenString converts a cutoff frequency to the predicted Snellen
// fraction; 30 cpd corresponds to 20/20.
func snellenString(cutoff float64) string {
	if cutoff <= 0 {
		return "20/???"
	}
	return fmt.Sprintf("20/%d", int(math.Round(20*30/cutoff)))
}

func evaluateLandmarks(p qcsf.Params) []LandmarkResult {
	results := make([]LandmarkResult, len(Landmarks))
	for i, lm := range Landmarks {
		yours := math.Pow(10, qcsf.EvaluateCSF(lm.Freq, p))
		results[i] = LandmarkResult{Landmark: lm, Yours: yours, Pass: yours >= lm.Required}
	}
	return results
}

func rankOf(aulcsf float64) string {
	switch {
	case aulcsf > 2.0:
		return RankSuperior
	case aulcsf > 1.6:
		return RankAboveAverage
	case aulcsf > 1.2:
		return RankNormal
	case aulcsf > 0.8:
		return RankBelowAverage
	default:
		return RankImpaired
	}
}
