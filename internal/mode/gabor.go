package mode

import (
	"math/rand"
	"strconv"

	"github.com/cwbudde/quickcsf/internal/numutil"
	"github.com/cwbudde/quickcsf/internal/qcsf"
	"github.com/cwbudde/quickcsf/internal/render"
)

// gaborAngles are the grating orientations in degrees; the response
// labels are their decimal forms.
var gaborAngles = []float64{0, 45, 90, 135}

// noTargetLabel is the extra yes-no response key. A target is always
// present, so choosing it is always wrong.
const noTargetLabel = "none"

type gaborMode struct {
	name   string
	numAFC int
	labels []string
	rng    *rand.Rand

	truth    string
	rendered bool
}

func newGabor4AFC(rng *rand.Rand) *gaborMode {
	return &gaborMode{
		name:   "gabor4afc",
		numAFC: 4,
		labels: angleLabels(),
		rng:    rng,
	}
}

func newGaborYesNo(rng *rand.Rand) *gaborMode {
	return &gaborMode{
		name:   "gaborYesNo",
		numAFC: 1,
		labels: append(angleLabels(), noTargetLabel),
		rng:    rng,
	}
}

func angleLabels() []string {
	labels := make([]string, len(gaborAngles))
	for i, a := range gaborAngles {
		labels[i] = strconv.Itoa(int(a))
	}
	return labels
}

func (m *gaborMode) Name() string     { return m.name }
func (m *gaborMode) NumAFC() int      { return m.numAFC }
func (m *gaborMode) Slope() float64   { return qcsf.SlopeGrating }
func (m *gaborMode) Labels() []string { return append([]string(nil), m.labels...) }

// Prepare is a no-op: Gabor patches are synthesized per trial.
func (m *gaborMode) Prepare() error { return nil }

func (m *gaborMode) Render(f *render.Frame, st qcsf.Stimulus, cal render.Calibration) (string, error) {
	pick := m.rng.Intn(len(gaborAngles))
	angle := gaborAngles[pick]

	contrast := numutil.Clamp(st.Contrast, 1e-4, 1)
	cpd := st.Freq
	if cpd <= 0 {
		cpd = 0.5
	}
	render.DrawGabor(f, cpd, contrast, angle, cal)

	m.truth = m.labels[pick]
	m.rendered = true
	return m.truth, nil
}

func (m *gaborMode) Check(response string) bool {
	if !m.rendered {
		return false
	}
	return response == m.truth
}
