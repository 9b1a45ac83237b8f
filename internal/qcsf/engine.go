package qcsf

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/cwbudde/quickcsf/internal/numutil"
)

// Likelihood clamp bounds; no cell of the matrix leaves this range.
const (
	likFloor = 0.001
	likCeil  = 0.999
)

// entropyEps guards the entropy sums against log(0).
const entropyEps = 1e-30

// Top-k tie-breaking policy: fixed width during warm-up, top decile of
// the stimulus grid afterwards.
const (
	warmupTrials = 8
	warmupTopK   = 5
)

// Engine runs the quick-CSF adaptive procedure. It is a single-threaded
// state machine: SelectStimulus and Update must alternate, driven by the
// embedder. The grids and likelihood matrix are immutable after New;
// the posterior and history belong exclusively to this instance.
type Engine struct {
	opts   Options
	params []Params
	stims  []Stimulus
	lik    [][]float64 // lik[h][s] = Pr(correct | params[h], stims[s])

	posterior []float64
	history   []Trial
	warnings  []Warning
	trials    int
	rng       *rand.Rand

	// Per-trial scratch, allocated once.
	expected   []float64
	rankIdx    []int
	pbar       []float64
	postUpdate []float64
}

// New validates the configuration, builds the grids, precomputes the
// likelihood matrix, and initializes a uniform posterior.
func New(opts Options) (*Engine, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		opts: opts,
		rng:  rand.New(rand.NewSource(opts.Seed)),
	}

	e.params = make([]Params, 0, len(opts.PeakGains)*len(opts.PeakFreqs)*len(opts.Bandwidths)*len(opts.Truncations))
	for _, g := range opts.PeakGains {
		for _, f := range opts.PeakFreqs {
			for _, b := range opts.Bandwidths {
				for _, d := range opts.Truncations {
					e.params = append(e.params, Params{Gain: g, Freq: f, Bandwidth: b, Truncation: d})
				}
			}
		}
	}

	e.stims = make([]Stimulus, 0, len(opts.StimFreqs)*len(opts.StimLogContrasts))
	for _, f := range opts.StimFreqs {
		for _, lc := range opts.StimLogContrasts {
			e.stims = append(e.stims, Stimulus{
				Index:       len(e.stims),
				Freq:        f,
				LogContrast: lc,
				Contrast:    math.Pow(10, lc),
			})
		}
	}

	gamma := opts.GuessRate()
	lapse := opts.Lapse
	e.lik = make([][]float64, len(e.params))
	for h, p := range e.params {
		row := make([]float64, len(e.stims))
		for s, st := range e.stims {
			x := EvaluateCSF(st.Freq, p) + st.LogContrast
			psi := 1 / (1 + math.Exp(-opts.Slope*x))
			row[s] = numutil.Clamp(gamma+(1-gamma-lapse)*psi, likFloor, likCeil)
		}
		e.lik[h] = row
	}

	e.posterior = make([]float64, len(e.params))
	uniform := 1 / float64(len(e.params))
	for h := range e.posterior {
		e.posterior[h] = uniform
	}
	if opts.HighCutoffPrune {
		e.pruneHighCutoff()
	}

	e.expected = make([]float64, len(e.stims))
	e.rankIdx = make([]int, len(e.stims))
	e.pbar = make([]float64, len(e.stims))
	e.postUpdate = make([]float64, len(e.params))

	return e, nil
}

// pruneHighCutoff zeroes prior mass on parameter points whose CSF is
// still above threshold at 60 cpd, beyond the human foveal limit. If
// that would empty the prior the grid is left uniform.
func (e *Engine) pruneHighCutoff() {
	pruned := 0
	for h, p := range e.params {
		if EvaluateCSF(60, p) > 0 {
			e.posterior[h] = 0
			pruned++
		}
	}
	total := floats.Sum(e.posterior)
	if total <= 0 {
		uniform := 1 / float64(len(e.posterior))
		for h := range e.posterior {
			e.posterior[h] = uniform
		}
		e.warn("high-cutoff prune removed every parameter point; prior left uniform")
		return
	}
	floats.Scale(1/total, e.posterior)
	if pruned > 0 {
		slog.Debug("Pruned implausible parameter points", "pruned", pruned, "remaining", len(e.posterior)-pruned)
	}
}

// TrialCount returns the number of completed updates.
func (e *Engine) TrialCount() int { return e.trials }

// NumStimuli returns the stimulus grid size.
func (e *Engine) NumStimuli() int { return len(e.stims) }

// NumParams returns the parameter grid size.
func (e *Engine) NumParams() int { return len(e.params) }

// StimulusAt returns the grid stimulus for an index.
func (e *Engine) StimulusAt(index int) (Stimulus, error) {
	if index < 0 || index >= len(e.stims) {
		return Stimulus{}, fmt.Errorf("qcsf: stimulus index %d out of range [0, %d)", index, len(e.stims))
	}
	return e.stims[index], nil
}

// History returns a copy of the trial history.
func (e *Engine) History() []Trial {
	return append([]Trial(nil), e.history...)
}

// Warnings returns the structured warnings accumulated so far.
func (e *Engine) Warnings() []Warning {
	return append([]Warning(nil), e.warnings...)
}

// Options returns the engine configuration.
func (e *Engine) Options() Options { return e.opts }

// Posterior returns a copy of the current posterior mass vector.
func (e *Engine) Posterior() []float64 {
	return append([]float64(nil), e.posterior...)
}

func (e *Engine) warn(format string, args ...any) {
	w := Warning{Trial: e.trials, Message: fmt.Sprintf(format, args...)}
	e.warnings = append(e.warnings, w)
	slog.Warn("qCSF engine warning", "trial", w.Trial, "message", w.Message)
}

// SelectStimulus picks the stimulus expected to most reduce posterior
// entropy after one trial, breaking ties uniformly among the best k
// candidates (k = 5 during warm-up, top decile afterwards).
func (e *Engine) SelectStimulus() Stimulus {
	finite := 0
	for s := range e.stims {
		e.expected[s], e.pbar[s] = e.expectedEntropy(s)
		if !math.IsInf(e.expected[s], 0) && !math.IsNaN(e.expected[s]) {
			finite++
		}
	}

	if finite == 0 {
		// Degenerate posterior: fall back to the most detectable stimulus.
		best := 0
		for s := range e.pbar {
			if e.pbar[s] > e.pbar[best] {
				best = s
			}
		}
		e.warn("all expected entropies non-finite; selecting max detectability stimulus %d", best)
		return e.stims[best]
	}

	if e.opts.BoundarySigmaLogC > 0 || e.opts.LowMidFreqBoost > 0 {
		e.applySelectionWeights()
	}

	for s := range e.rankIdx {
		e.rankIdx[s] = s
	}
	sort.SliceStable(e.rankIdx, func(a, b int) bool {
		ea, eb := e.expected[e.rankIdx[a]], e.expected[e.rankIdx[b]]
		if math.IsNaN(ea) {
			return false
		}
		if math.IsNaN(eb) {
			return true
		}
		return ea < eb
	})

	k := warmupTopK
	if e.trials >= warmupTrials {
		k = int(math.Ceil(0.1 * float64(len(e.stims))))
	}
	if k < 1 {
		k = 1
	}
	if k > finite {
		k = finite
	}
	return e.stims[e.rankIdx[e.rng.Intn(k)]]
}

// expectedEntropy computes the one-step-ahead expected posterior
// entropy for stimulus s and the predictive probability of a correct
// response. Terms with numerators below entropyEps are skipped.
func (e *Engine) expectedEntropy(s int) (expected, pbar float64) {
	for h, mass := range e.posterior {
		pbar += mass * e.lik[h][s]
	}

	var hc, hi float64
	qbar := 1 - pbar
	for h, mass := range e.posterior {
		m := e.lik[h][s]
		if num := mass * m; num > entropyEps && pbar > entropyEps {
			p := num / pbar
			hc -= p * math.Log2(p)
		}
		if num := mass * (1 - m); num > entropyEps && qbar > entropyEps {
			p := num / qbar
			hi -= p * math.Log2(p)
		}
	}
	return pbar*hc + qbar*hi, pbar
}

// applySelectionWeights rescales the expected-entropy scores with the
// optional threshold-boundary and low/mid-frequency weights before
// ranking.
func (e *Engine) applySelectionWeights() {
	est := e.ExpectedEstimate()
	for s, st := range e.stims {
		w := 1.0
		if sigma := e.opts.BoundarySigmaLogC; sigma > 0 {
			boundary := -EvaluateCSF(st.Freq, est)
			z := (st.LogContrast - boundary) / sigma
			w *= 1 + math.Exp(-0.5*z*z)
		}
		if boost := e.opts.LowMidFreqBoost; boost > 0 && st.Freq >= 1 && st.Freq <= 5 {
			w *= boost
		}
		e.expected[s] *= w
	}
}

// Update folds one observed response into the posterior. stimIndex must
// come from the latest SelectStimulus call.
func (e *Engine) Update(stimIndex int, correct bool) error {
	if stimIndex < 0 || stimIndex >= len(e.stims) {
		return fmt.Errorf("qcsf: update with stimulus index %d out of range [0, %d)", stimIndex, len(e.stims))
	}

	rho := numutil.Clamp(e.opts.RobustLikelihoodMix, 0, 0.1)
	var total float64
	for h, mass := range e.posterior {
		raw := e.lik[h][stimIndex]
		if !correct {
			raw = 1 - raw
		}
		obs := (1-rho)*raw + rho*0.5
		e.postUpdate[h] = mass * obs
		total += e.postUpdate[h]
	}

	if total > 0 {
		floats.Scale(1/total, e.postUpdate)
		copy(e.posterior, e.postUpdate)
	} else {
		e.warn("posterior mass vanished on update; keeping previous posterior")
	}

	e.history = append(e.history, Trial{Trial: e.trials + 1, StimIndex: stimIndex, Correct: correct})
	e.trials++
	return nil
}

// PosteriorEntropy returns the Shannon entropy of the posterior in bits.
func (e *Engine) PosteriorEntropy() float64 {
	return stat.Entropy(e.posterior) / math.Ln2
}
