package session

import (
	"math"
	"math/rand"

	"github.com/cwbudde/quickcsf/internal/mode"
	"github.com/cwbudde/quickcsf/internal/qcsf"
)

// SimulatedObserver answers trials according to the psychometric
// function of a known true CSF. Used by the simulate command and the
// end-to-end tests.
type SimulatedObserver struct {
	Truth qcsf.Params

	slope  float64
	guess  float64
	lapse  float64
	labels []string
	rng    *rand.Rand
}

// NewSimulatedObserver builds an observer matched to a mode's
// psychometric configuration.
func NewSimulatedObserver(truth qcsf.Params, m mode.Mode, opts qcsf.Options, seed int64) *SimulatedObserver {
	return &SimulatedObserver{
		Truth:  truth,
		slope:  opts.Slope,
		guess:  opts.GuessRate(),
		lapse:  opts.Lapse,
		labels: m.Labels(),
		rng:    rand.New(rand.NewSource(seed)),
	}
}

// Respond returns the key the observer presses for a trial whose
// ground truth is truthLabel: the correct key with the psychometric
// probability, otherwise a uniformly drawn wrong key.
func (o *SimulatedObserver) Respond(info TrialInfo, truthLabel string) string {
	x := qcsf.EvaluateCSF(info.Freq, o.Truth) + info.LogContrast
	psi := 1 / (1 + math.Exp(-o.slope*x))
	p := o.guess + (1-o.guess-o.lapse)*psi

	if o.rng.Float64() < p {
		return truthLabel
	}
	wrong := make([]string, 0, len(o.labels))
	for _, l := range o.labels {
		if l != truthLabel {
			wrong = append(wrong, l)
		}
	}
	if len(wrong) == 0 {
		return truthLabel
	}
	return wrong[o.rng.Intn(len(wrong))]
}
