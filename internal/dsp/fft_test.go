package dsp

import (
	"math"
	"math/rand"
	"testing"
)

func TestFFT2DRejectsBadSizes(t *testing.T) {
	re := make([]float64, 9)
	im := make([]float64, 9)
	if err := FFT2D(re, im, 3, false); err == nil {
		t.Error("Expected error for non-power-of-two size")
	}
	if err := FFT2D(re, im, 4, false); err == nil {
		t.Error("Expected error for mismatched plane length")
	}
}

func TestFFT2DImpulse(t *testing.T) {
	// A unit impulse transforms to an all-ones spectrum.
	const n = 8
	re := make([]float64, n*n)
	im := make([]float64, n*n)
	re[0] = 1

	if err := FFT2D(re, im, n, false); err != nil {
		t.Fatalf("Forward FFT failed: %v", err)
	}
	for i := range re {
		if math.Abs(re[i]-1) > 1e-12 || math.Abs(im[i]) > 1e-12 {
			t.Fatalf("Spectrum bin %d = (%g, %g), want (1, 0)", i, re[i], im[i])
		}
	}
}

func TestFFT2DRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for _, n := range []int{4, 16, 64, 256, 512} {
		re := make([]float64, n*n)
		im := make([]float64, n*n)
		orig := make([]float64, n*n)
		for i := range re {
			re[i] = rng.Float64()*2 - 1
			orig[i] = re[i]
		}

		if err := FFT2D(re, im, n, false); err != nil {
			t.Fatalf("n=%d forward: %v", n, err)
		}
		if err := FFT2D(re, im, n, true); err != nil {
			t.Fatalf("n=%d inverse: %v", n, err)
		}

		maxErr := 0.0
		for i := range re {
			if e := math.Abs(re[i] - orig[i]); e > maxErr {
				maxErr = e
			}
			if e := math.Abs(im[i]); e > maxErr {
				maxErr = e
			}
		}
		if maxErr > 1e-9 {
			t.Errorf("n=%d round-trip max error %g exceeds 1e-9", n, maxErr)
		}
	}
}

func TestFFT2DParseval(t *testing.T) {
	// Total energy in space equals total energy in frequency over n^2.
	const n = 32
	rng := rand.New(rand.NewSource(11))
	re := make([]float64, n*n)
	im := make([]float64, n*n)
	var spatial float64
	for i := range re {
		re[i] = rng.NormFloat64()
		spatial += re[i] * re[i]
	}

	if err := FFT2D(re, im, n, false); err != nil {
		t.Fatal(err)
	}
	var spectral float64
	for i := range re {
		spectral += re[i]*re[i] + im[i]*im[i]
	}
	spectral /= float64(n * n)

	if math.Abs(spatial-spectral)/spatial > 1e-10 {
		t.Errorf("Parseval mismatch: spatial %g vs spectral %g", spatial, spectral)
	}
}
