package dsp

import (
	"math"
	"testing"
)

func TestNewBandpassRejectsBadConfig(t *testing.T) {
	if _, err := NewBandpass(63, 4, 1); err == nil {
		t.Error("Expected error for non-power-of-two size")
	}
	if _, err := NewBandpass(64, 0, 1); err == nil {
		t.Error("Expected error for zero center frequency")
	}
	if _, err := NewBandpass(64, 4, 0); err == nil {
		t.Error("Expected error for zero bandwidth")
	}
}

func TestBandpassPassesCenterSinusoid(t *testing.T) {
	// A cosine exactly at the passband center survives unattenuated and
	// peak-normalizes to amplitude 1.
	const n = 64
	const k = 4.0
	x := make([]float64, n*n)
	for y := 0; y < n; y++ {
		for xx := 0; xx < n; xx++ {
			x[y*n+xx] = math.Cos(2 * math.Pi * k * float64(xx) / n)
		}
	}

	bp, err := NewBandpass(n, k, 1)
	if err != nil {
		t.Fatal(err)
	}
	if err := bp.Apply(x); err != nil {
		t.Fatal(err)
	}

	maxAbs := 0.0
	for _, v := range x {
		if a := math.Abs(v); a > maxAbs {
			maxAbs = a
		}
	}
	if math.Abs(maxAbs-1) > 1e-9 {
		t.Errorf("Peak amplitude %g, want 1", maxAbs)
	}

	// Content must still be the same cosine, now at unit amplitude.
	for y := 0; y < n; y++ {
		for xx := 0; xx < n; xx++ {
			want := math.Cos(2 * math.Pi * k * float64(xx) / n)
			if diff := math.Abs(x[y*n+xx] - want); diff > 1e-6 {
				t.Fatalf("Pixel (%d,%d) = %g, want %g", xx, y, x[y*n+xx], want)
			}
		}
	}
}

func TestBandpassRemovesDC(t *testing.T) {
	const n = 32
	x := make([]float64, n*n)
	for i := range x {
		x[i] = 0.5 // pure DC
	}

	bp, err := NewBandpass(n, 4, 1)
	if err != nil {
		t.Fatal(err)
	}
	if err := bp.Apply(x); err != nil {
		t.Fatal(err)
	}

	var sum float64
	for _, v := range x {
		sum += v
	}
	if math.Abs(sum)/float64(n*n) > 1e-9 {
		t.Errorf("Filtered mean %g, want ~0", sum/float64(n*n))
	}
}

func TestBandpassMeanZeroOnLetterlikeInput(t *testing.T) {
	// Block pattern with strong DC and edges; output mean must vanish.
	const n = 64
	x := make([]float64, n*n)
	for y := 0; y < n; y++ {
		for xx := 0; xx < n; xx++ {
			if xx > 16 && xx < 48 && y > 16 && y < 48 {
				x[y*n+xx] = -0.5
			} else {
				x[y*n+xx] = 0.5
			}
		}
	}

	bp, err := NewBandpass(n, 4, 1)
	if err != nil {
		t.Fatal(err)
	}
	if err := bp.Apply(x); err != nil {
		t.Fatal(err)
	}

	var sum float64
	maxAbs := 0.0
	for _, v := range x {
		sum += v
		if a := math.Abs(v); a > maxAbs {
			maxAbs = a
		}
	}
	if math.Abs(sum)/float64(n*n) > 1e-9 {
		t.Errorf("Filtered mean %g, want ~0", sum/float64(n*n))
	}
	if maxAbs > 1+1e-9 {
		t.Errorf("Peak %g exceeds 1", maxAbs)
	}
	if math.Abs(maxAbs-1) > 1e-9 {
		t.Errorf("Peak %g, want exactly 1 for passing content", maxAbs)
	}
}
