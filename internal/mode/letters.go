package mode

import (
	"fmt"
	"math/rand"

	"github.com/cwbudde/quickcsf/internal/numutil"
	"github.com/cwbudde/quickcsf/internal/optotype"
	"github.com/cwbudde/quickcsf/internal/qcsf"
	"github.com/cwbudde/quickcsf/internal/render"
)

// letterMode drives the template-based families (tumbling E, Sloan).
// Templates are built once in Prepare and read-only afterwards.
type letterMode struct {
	name   string
	numAFC int
	slope  float64
	rng    *rand.Rand

	build func() (*optotype.Set, error)
	set   *optotype.Set

	truth    string
	rendered bool
}

func newTumblingE(rng *rand.Rand) *letterMode {
	return &letterMode{
		name:   "tumblingE",
		numAFC: 4,
		slope:  qcsf.SlopeGrating,
		rng:    rng,
		build: func() (*optotype.Set, error) {
			return optotype.NewTumblingESet(optotype.DefaultResolution, optotype.DefaultCenterFreq, optotype.DefaultOctaves)
		},
	}
}

func newSloan(rng *rand.Rand) *letterMode {
	return &letterMode{
		name:   "sloan",
		numAFC: 10,
		slope:  qcsf.SlopeSloan,
		rng:    rng,
		build: func() (*optotype.Set, error) {
			return optotype.NewSloanSet(optotype.DefaultResolution, optotype.DefaultCenterFreq, optotype.DefaultOctaves)
		},
	}
}

func (m *letterMode) Name() string   { return m.name }
func (m *letterMode) NumAFC() int    { return m.numAFC }
func (m *letterMode) Slope() float64 { return m.slope }

func (m *letterMode) Labels() []string {
	if m.set == nil {
		return nil
	}
	return append([]string(nil), m.set.Labels()...)
}

// Prepare synthesizes and filters the template set.
func (m *letterMode) Prepare() error {
	if m.set != nil {
		return nil
	}
	set, err := m.build()
	if err != nil {
		return fmt.Errorf("mode %s: %w", m.name, err)
	}
	m.set = set
	return nil
}

func (m *letterMode) Render(f *render.Frame, st qcsf.Stimulus, cal render.Calibration) (string, error) {
	if m.set == nil {
		return "", fmt.Errorf("mode %s: Render before Prepare", m.name)
	}

	labels := m.set.Labels()
	pick := labels[m.rng.Intn(len(labels))]

	contrast := numutil.Clamp(st.Contrast, 1e-4, 1)
	cpd := st.Freq
	if cpd <= 0 {
		cpd = 0.5
	}
	render.DrawTemplate(f, m.set.Template(pick), m.set.CenterFreq, cpd, contrast, cal)

	m.truth = pick
	m.rendered = true
	return pick, nil
}

func (m *letterMode) Check(response string) bool {
	if !m.rendered {
		return false
	}
	return response == m.truth
}
