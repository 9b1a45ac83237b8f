package render

import (
	"math"

	"github.com/cwbudde/quickcsf/internal/optotype"
)

// maxLetterFrac caps the rendered letter at 90% of the smaller frame
// dimension so very low frequencies never overflow the display.
const maxLetterFrac = 0.9

// DrawTemplate renders a filtered optotype template at the calibrated
// size for the requested spatial frequency. The template's filter
// center frequency (cycles per letter) divided by cpd gives the letter
// size in degrees; contrast scales the template around mid-grey.
func DrawTemplate(f *Frame, t *optotype.Template, centerFreq, cpd, contrast float64, cal Calibration) {
	mid := float64(cal.MidPoint)
	f.Clear(cal.MidPoint)

	letterDeg := centerFreq / cpd
	letterPx := letterDeg * cal.PixPerDeg()
	maxPx := maxLetterFrac * float64(min(f.W, f.H))
	if letterPx > maxPx {
		letterPx = maxPx
	}
	if letterPx < 1 {
		letterPx = 1
	}

	x0 := (float64(f.W) - letterPx) / 2
	y0 := (float64(f.H) - letterPx) / 2
	scale := float64(t.N-1) / letterPx

	minX := int(math.Floor(x0))
	minY := int(math.Floor(y0))
	maxX := int(math.Ceil(x0 + letterPx))
	maxY := int(math.Ceil(y0 + letterPx))
	if minX < 0 {
		minX = 0
	}
	if minY < 0 {
		minY = 0
	}
	if maxX > f.W-1 {
		maxX = f.W - 1
	}
	if maxY > f.H-1 {
		maxY = f.H - 1
	}

	for y := minY; y <= maxY; y++ {
		ty := (float64(y) - y0) * scale
		if ty < 0 || ty > float64(t.N-1) {
			continue
		}
		for x := minX; x <= maxX; x++ {
			tx := (float64(x) - x0) * scale
			if tx < 0 || tx > float64(t.N-1) {
				continue
			}
			lum := mid + mid*contrast*t.Sample(tx, ty)
			f.setGrey(x, y, clampLum(lum))
		}
	}

	if cal.Mirror {
		f.mirrorHorizontal()
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
