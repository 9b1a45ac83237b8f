// Package mode binds a stimulus family (Gabor gratings, tumbling E,
// Sloan letters) to the adaptive engine: it renders each selected
// stimulus, remembers the ground-truth label, and checks responses.
package mode

import (
	"fmt"
	"math/rand"

	"github.com/cwbudde/quickcsf/internal/qcsf"
	"github.com/cwbudde/quickcsf/internal/render"
)

// Mode is the capability set a stimulus family exposes to the session.
// Implementations own their template data and the current trial's
// ground truth; they are not safe for concurrent use.
type Mode interface {
	// Name identifies the mode (gabor4afc, gaborYesNo, tumblingE, sloan).
	Name() string

	// NumAFC is the number of forced-choice alternatives (1 for yes-no).
	NumAFC() int

	// Slope is the psychometric slope the engine should assume.
	Slope() float64

	// Labels lists the accepted response keys.
	Labels() []string

	// Prepare generates template data once per session. A no-op for
	// Gabor modes.
	Prepare() error

	// Render draws the stimulus into the frame, samples a fresh ground
	// truth, and returns its label.
	Render(f *render.Frame, st qcsf.Stimulus, cal render.Calibration) (string, error)

	// Check compares a response against the last rendered ground truth.
	Check(response string) bool
}

// New constructs a registered mode by name with a seeded ground-truth
// sampler.
func New(name string, seed int64) (Mode, error) {
	rng := rand.New(rand.NewSource(seed))
	switch name {
	case "gabor4afc":
		return newGabor4AFC(rng), nil
	case "gaborYesNo":
		return newGaborYesNo(rng), nil
	case "tumblingE":
		return newTumblingE(rng), nil
	case "sloan":
		return newSloan(rng), nil
	default:
		return nil, fmt.Errorf("mode: unknown mode %q", name)
	}
}

// Names lists the registered mode names.
func Names() []string {
	return []string{"gabor4afc", "gaborYesNo", "tumblingE", "sloan"}
}
