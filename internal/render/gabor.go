package render

import "math"

// DrawGabor renders a Gaussian-windowed sinusoidal grating centered on
// the frame. cpd is the grating frequency in cycles per degree,
// contrast in (0, 1], angleDeg the grating orientation. Callers clamp
// their inputs to those ranges.
func DrawGabor(f *Frame, cpd, contrast, angleDeg float64, cal Calibration) {
	mid := float64(cal.MidPoint)
	cpp := 2 * math.Pi * cpd / cal.PixPerDeg()
	sigma := float64(f.W) / 7
	twoSigmaSq := 2 * sigma * sigma
	theta := angleDeg * math.Pi / 180
	cosT, sinT := math.Cos(theta), math.Sin(theta)
	cx, cy := float64(f.W)/2, float64(f.H)/2

	for y := 0; y < f.H; y++ {
		dy := float64(y) - cy
		for x := 0; x < f.W; x++ {
			dx := float64(x) - cx
			carrier := math.Sin((dx*cosT + dy*sinT) * cpp)
			envelope := math.Exp(-(dx*dx + dy*dy) / twoSigmaSq)
			lum := mid + mid*contrast*carrier*envelope
			f.setGrey(x, y, clampLum(lum))
		}
	}

	if cal.Mirror {
		f.mirrorHorizontal()
	}
}
