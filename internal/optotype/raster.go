// Package optotype rasterizes acuity optotypes (Sloan letters and the
// tumbling E) and turns them into bandpass-filtered, contrast-normalized
// templates for the letter renderer.
package optotype

import "math"

// A painter reports whether a point lies on the letter's ink. Points are
// in Sloan stroke coordinates: the letter occupies [0,5]x[0,5] with y
// growing downward and every stroke one unit wide.
type painter func(x, y float64) bool

// letterSpan is the fraction of the raster the letter occupies.
const letterSpan = 0.75

// rasterize samples a painter onto an n-by-n signed image. Ink maps to
// -0.5 and background to +0.5, so the result is roughly zero-mean input
// for the bandpass filter.
func rasterize(p painter, n int) []float64 {
	img := make([]float64, n*n)
	side := letterSpan * float64(n)
	offset := (float64(n) - side) / 2
	scale := 5 / side

	for py := 0; py < n; py++ {
		y := (float64(py) + 0.5 - offset) * scale
		for px := 0; px < n; px++ {
			x := (float64(px) + 0.5 - offset) * scale
			v := 0.5
			if x >= 0 && x <= 5 && y >= 0 && y <= 5 && p(x, y) {
				v = -0.5
			}
			img[py*n+px] = v
		}
	}
	return img
}

// rotateQuarters rotates a square image clockwise by q quarter turns.
func rotateQuarters(src []float64, n, q int) []float64 {
	q = ((q % 4) + 4) % 4
	if q == 0 {
		out := make([]float64, len(src))
		copy(out, src)
		return out
	}
	dst := make([]float64, len(src))
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			var sx, sy int
			switch q {
			case 1: // 90 degrees clockwise
				sx, sy = y, n-1-x
			case 2:
				sx, sy = n-1-x, n-1-y
			case 3:
				sx, sy = n-1-y, x
			}
			dst[y*n+x] = src[sy*n+sx]
		}
	}
	return dst
}

func inRect(x, y, x0, y0, x1, y1 float64) bool {
	return x >= x0 && x <= x1 && y >= y0 && y <= y1
}

// inRing tests membership in an annulus centered at (cx, cy).
func inRing(x, y, cx, cy, rOut, rIn float64) bool {
	d := math.Hypot(x-cx, y-cy)
	return d <= rOut && d >= rIn
}

// nearSegment tests whether (x, y) lies within half a stroke width of
// the segment (x0,y0)-(x1,y1).
func nearSegment(x, y, x0, y0, x1, y1 float64) bool {
	const halfStroke = 0.5
	dx, dy := x1-x0, y1-y0
	lenSq := dx*dx + dy*dy
	t := 0.0
	if lenSq > 0 {
		t = ((x-x0)*dx + (y-y0)*dy) / lenSq
		t = math.Max(0, math.Min(1, t))
	}
	px, py := x0+t*dx, y0+t*dy
	return math.Hypot(x-px, y-py) <= halfStroke
}
