package opt

import (
	"testing"
)

// Shifted sphere: minimum at (2, 0.5, -1), asymmetric per-dimension
// bounds exercise the unit-box rescaling.
func shiftedSphere(x []float64) float64 {
	target := []float64{2, 0.5, -1}
	var sum float64
	for i, v := range x {
		d := v - target[i]
		sum += d * d
	}
	return sum
}

func TestMayflyAdapterOnShiftedSphere(t *testing.T) {
	optimizer := NewMayfly(100, 20, 42) // maxIters, popSize, seed

	lower := []float64{0, 0, -3}
	upper := []float64{5, 1, 0}
	dim := 3

	best, cost := optimizer.Run(shiftedSphere, lower, upper, dim)

	if len(best) != dim {
		t.Fatalf("Expected %d parameters, got %d", dim, len(best))
	}
	if cost > 0.1 {
		t.Errorf("Expected cost near 0, got %f", cost)
	}
	for i, v := range best {
		if v < lower[i] || v > upper[i] {
			t.Errorf("Parameter %d = %f escaped bounds [%f, %f]", i, v, lower[i], upper[i])
		}
	}
}

func TestMayflyAdapterDeterministic(t *testing.T) {
	lower := []float64{0, 0, -3}
	upper := []float64{5, 1, 0}
	dim := 3

	// popSize must be >= 20 for mayfly v0.1.0
	optimizer1 := NewMayfly(50, 20, 123)
	_, cost1 := optimizer1.Run(shiftedSphere, lower, upper, dim)

	optimizer2 := NewMayfly(50, 20, 123)
	_, cost2 := optimizer2.Run(shiftedSphere, lower, upper, dim)

	if cost1 != cost2 {
		t.Errorf("Non-deterministic: cost1=%f, cost2=%f", cost1, cost2)
	}
}
