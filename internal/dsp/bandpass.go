package dsp

import (
	"fmt"
	"math"
)

// Bandpass applies a raised-cosine annular filter in 2D frequency space.
// Center frequency is expressed in cycles per object (the object being
// the content drawn across the full n-by-n image) and the full passband
// width in octaves, so the mask reaches zero half that width either
// side of the center. The mask is precomputed once per configuration
// and reused across Apply calls.
type Bandpass struct {
	n          int
	centerFreq float64
	octaves    float64
	mask       []float64
	im         []float64 // scratch imaginary plane, reused per Apply
}

// NewBandpass builds the filter mask for an n-by-n image. n must be a
// power of two; centerFreq and octaves must be positive.
func NewBandpass(n int, centerFreq, octaves float64) (*Bandpass, error) {
	if n < 2 || n&(n-1) != 0 {
		return nil, fmt.Errorf("bandpass: size %d is not a power of two", n)
	}
	if centerFreq <= 0 || octaves <= 0 {
		return nil, fmt.Errorf("bandpass: center %g cyc/obj, width %g oct out of range", centerFreq, octaves)
	}

	b := &Bandpass{
		n:          n,
		centerFreq: centerFreq,
		octaves:    octaves,
		mask:       make([]float64, n*n),
		im:         make([]float64, n*n),
	}

	halfWidth := octaves / 2
	for v := 0; v < n; v++ {
		fy := float64(v)
		if v > n/2 {
			fy = float64(v - n)
		}
		for u := 0; u < n; u++ {
			fx := float64(u)
			if u > n/2 {
				fx = float64(u - n)
			}
			rho := math.Hypot(fx, fy)
			if rho == 0 {
				continue // DC stays zero
			}
			delta := math.Abs(math.Log2(rho / centerFreq))
			if delta <= halfWidth {
				b.mask[v*n+u] = 0.5 * (1 + math.Cos(math.Pi*delta/halfWidth))
			}
		}
	}
	return b, nil
}

// Size returns the filter's image resolution.
func (b *Bandpass) Size() int { return b.n }

// CenterFreq returns the passband center in cycles per object.
func (b *Bandpass) CenterFreq() float64 { return b.centerFreq }

// Apply filters x (length n*n, roughly zero-mean) in place and
// peak-normalizes the result so max|x| is 1 whenever any non-DC energy
// passes the filter. The imaginary residue of the inverse transform is
// discarded.
func (b *Bandpass) Apply(x []float64) error {
	if len(x) != b.n*b.n {
		return fmt.Errorf("bandpass: image length %d, want %d", len(x), b.n*b.n)
	}
	for i := range b.im {
		b.im[i] = 0
	}

	if err := FFT2D(x, b.im, b.n, false); err != nil {
		return err
	}
	for i, h := range b.mask {
		x[i] *= h
		b.im[i] *= h
	}
	if err := FFT2D(x, b.im, b.n, true); err != nil {
		return err
	}

	peak := 0.0
	for _, v := range x {
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}
	if peak > 0 {
		inv := 1 / peak
		for i := range x {
			x[i] *= inv
		}
	}
	return nil
}
