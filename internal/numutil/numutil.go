// Package numutil provides shared numeric helpers for grid construction
// and log-space arithmetic.
package numutil

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Linspace returns n evenly spaced values from lo to hi inclusive.
// n must be >= 2.
func Linspace(lo, hi float64, n int) []float64 {
	return floats.Span(make([]float64, n), lo, hi)
}

// Logspace returns n log10-spaced values from lo to hi inclusive.
// lo and hi are the linear endpoints, not their logarithms.
func Logspace(lo, hi float64, n int) []float64 {
	dst := floats.Span(make([]float64, n), math.Log10(lo), math.Log10(hi))
	for i, v := range dst {
		dst[i] = math.Pow(10, v)
	}
	return dst
}

// Clamp limits val to [lo, hi].
func Clamp(val, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, val))
}

// ClampInt limits val to [lo, hi].
func ClampInt(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}

// Log10Safe returns log10(v) after flooring v at minArg, which must be
// positive. Keeps CSF evaluation defined for degenerate frequencies.
func Log10Safe(v, minArg float64) float64 {
	if v < minArg {
		v = minArg
	}
	return math.Log10(v)
}
