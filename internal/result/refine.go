package result

import (
	"fmt"
	"math"

	"github.com/cwbudde/quickcsf/internal/numutil"
	"github.com/cwbudde/quickcsf/internal/opt"
	"github.com/cwbudde/quickcsf/internal/qcsf"
)

// Mayfly budget for the refinement fit. The likelihood surface is
// 4-dimensional and smooth; a small swarm converges quickly.
const (
	refineIters = 150
	refinePop   = 30
)

// Refine runs a continuous maximum-likelihood fit of the CSF parameters
// over the engine's trial history, searching the parameter grid's
// bounding box. It polishes the grid posterior estimate free of grid
// quantization; the adaptive estimate itself stays untouched.
func Refine(e *qcsf.Engine, start qcsf.Params, seed int64) (qcsf.Params, error) {
	history := e.History()
	if len(history) == 0 {
		return start, fmt.Errorf("refine: empty trial history")
	}

	type obs struct {
		freq        float64
		logContrast float64
		correct     bool
	}
	observations := make([]obs, 0, len(history))
	for _, trial := range history {
		st, err := e.StimulusAt(trial.StimIndex)
		if err != nil {
			return start, fmt.Errorf("refine: %w", err)
		}
		observations = append(observations, obs{freq: st.Freq, logContrast: st.LogContrast, correct: trial.Correct})
	}

	opts := e.Options()
	gamma := opts.GuessRate()
	lapse := opts.Lapse
	negLogLik := func(x []float64) float64 {
		p := qcsf.Params{Gain: x[0], Freq: x[1], Bandwidth: x[2], Truncation: x[3]}
		var nll float64
		for _, o := range observations {
			psi := 1 / (1 + math.Exp(-opts.Slope*(qcsf.EvaluateCSF(o.freq, p)+o.logContrast)))
			prob := numutil.Clamp(gamma+(1-gamma-lapse)*psi, 0.001, 0.999)
			if !o.correct {
				prob = 1 - prob
			}
			nll -= math.Log(prob)
		}
		return nll
	}

	lower, upper := e.ParamBounds()
	optimizer := opt.NewMayfly(refineIters, refinePop, seed)
	best, cost := optimizer.Run(negLogLik,
		[]float64{lower.Gain, lower.Freq, lower.Bandwidth, lower.Truncation},
		[]float64{upper.Gain, upper.Freq, upper.Bandwidth, upper.Truncation},
		4)

	if math.IsNaN(cost) || math.IsInf(cost, 0) {
		return start, fmt.Errorf("refine: optimizer returned non-finite likelihood")
	}

	refined := qcsf.Params{Gain: best[0], Freq: best[1], Bandwidth: best[2], Truncation: best[3]}

	// Keep the start point when the swarm did not actually beat it.
	if negLogLik([]float64{start.Gain, start.Freq, start.Bandwidth, start.Truncation}) < cost {
		return start, nil
	}
	return refined, nil
}
