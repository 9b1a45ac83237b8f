package optotype

import (
	"fmt"

	"github.com/cwbudde/quickcsf/internal/dsp"
)

// Default filter configuration for template synthesis.
const (
	DefaultResolution = 128 // raster side, power of two
	DefaultCenterFreq = 4.0 // cycles per letter
	DefaultOctaves    = 1.0
)

// Template is a bandpass-filtered optotype, contrast-normalized to
// [-1, 1]. Data is row-major, N*N samples.
type Template struct {
	Label string
	N     int
	Data  []float64
}

// Sample returns the template value at fractional coordinates (x, y)
// using bilinear interpolation. Coordinates outside [0, N-1] clamp to
// the border, which is background after filtering.
func (t *Template) Sample(x, y float64) float64 {
	n := t.N
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	maxC := float64(n - 1)
	if x > maxC {
		x = maxC
	}
	if y > maxC {
		y = maxC
	}

	x0 := int(x)
	y0 := int(y)
	x1 := x0 + 1
	y1 := y0 + 1
	if x1 > n-1 {
		x1 = n - 1
	}
	if y1 > n-1 {
		y1 = n - 1
	}
	fx := x - float64(x0)
	fy := y - float64(y0)

	top := t.Data[y0*n+x0]*(1-fx) + t.Data[y0*n+x1]*fx
	bot := t.Data[y1*n+x0]*(1-fx) + t.Data[y1*n+x1]*fx
	return top*(1-fy) + bot*fy
}

// Set holds the filtered templates of one optotype family, keyed by
// response label.
type Set struct {
	CenterFreq float64
	N          int
	labels     []string
	templates  map[string]*Template
}

// Labels returns the family's response labels in presentation order.
func (s *Set) Labels() []string { return s.labels }

// Template returns the filtered template for a label, or nil when the
// label is not part of the family.
func (s *Set) Template(label string) *Template { return s.templates[label] }

// NewSloanSet rasterizes and filters the ten Sloan letters.
func NewSloanSet(n int, centerFreq, octaves float64) (*Set, error) {
	bp, err := dsp.NewBandpass(n, centerFreq, octaves)
	if err != nil {
		return nil, fmt.Errorf("sloan templates: %w", err)
	}

	set := &Set{
		CenterFreq: centerFreq,
		N:          n,
		labels:     append([]string(nil), SloanLetters...),
		templates:  make(map[string]*Template, len(SloanLetters)),
	}
	for _, letter := range SloanLetters {
		data := rasterize(sloanPainters[letter], n)
		if err := bp.Apply(data); err != nil {
			return nil, fmt.Errorf("sloan templates: filter %s: %w", letter, err)
		}
		set.templates[letter] = &Template{Label: letter, N: n, Data: data}
	}
	return set, nil
}

// NewTumblingESet rasterizes the canonical E once, filters it, and
// derives the four orientations by quarter-turn rotation so all
// directions share identical spectral content.
func NewTumblingESet(n int, centerFreq, octaves float64) (*Set, error) {
	bp, err := dsp.NewBandpass(n, centerFreq, octaves)
	if err != nil {
		return nil, fmt.Errorf("tumbling-e templates: %w", err)
	}

	base := rasterize(paintE, n)
	if err := bp.Apply(base); err != nil {
		return nil, fmt.Errorf("tumbling-e templates: filter: %w", err)
	}

	set := &Set{
		CenterFreq: centerFreq,
		N:          n,
		labels:     append([]string(nil), EDirections...),
		templates:  make(map[string]*Template, len(EDirections)),
	}
	for i, dir := range EDirections {
		set.templates[dir] = &Template{Label: dir, N: n, Data: rotateQuarters(base, n, i)}
	}
	return set, nil
}
