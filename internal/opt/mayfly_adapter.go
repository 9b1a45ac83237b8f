package opt

import (
	"math/rand"

	"github.com/cwbudde/mayfly"
)

// MayflyAdapter wraps the external Mayfly library to conform to our
// Optimizer interface. The library only accepts scalar bounds, so the
// adapter searches the unit box and rescales each candidate into the
// caller's per-dimension bounds inside the objective.
type MayflyAdapter struct {
	maxIters int
	popSize  int
	seed     int64
}

// NewMayfly creates a new Mayfly optimizer adapter.
func NewMayfly(maxIters, popSize int, seed int64) Optimizer {
	return &MayflyAdapter{
		maxIters: maxIters,
		popSize:  popSize,
		seed:     seed,
	}
}

// Run executes the Mayfly optimization in normalized coordinates.
func (m *MayflyAdapter) Run(eval func([]float64) float64, lower, upper []float64, dim int) ([]float64, float64) {
	rescale := func(unit []float64) []float64 {
		scaled := make([]float64, dim)
		for i := 0; i < dim; i++ {
			u := unit[i]
			if u < 0 {
				u = 0
			}
			if u > 1 {
				u = 1
			}
			scaled[i] = lower[i] + u*(upper[i]-lower[i])
		}
		return scaled
	}

	config := mayfly.NewDefaultConfig()
	config.ObjectiveFunc = func(unit []float64) float64 {
		return eval(rescale(unit))
	}
	config.ProblemSize = dim
	config.MaxIterations = m.maxIters
	config.NPop = m.popSize
	config.LowerBound = 0
	config.UpperBound = 1
	config.Rand = rand.New(rand.NewSource(m.seed))

	result, err := mayfly.Optimize(config)
	if err != nil {
		// Fall back to the box midpoint if optimization fails.
		mid := make([]float64, dim)
		for i := range mid {
			mid[i] = 0.5
		}
		return rescale(mid), eval(rescale(mid))
	}

	best := rescale(result.GlobalBest.Position)
	return best, result.GlobalBest.Cost
}
