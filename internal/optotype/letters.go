package optotype

// SloanLetters lists the ten standardized high-legibility acuity
// letters, in the conventional order.
var SloanLetters = []string{"C", "D", "H", "K", "N", "O", "R", "S", "V", "Z"}

// EDirections lists the tumbling-E opening directions in rotation order:
// the canonical E opens right; each step is a further quarter turn
// clockwise.
var EDirections = []string{"right", "down", "left", "up"}

// sloanPainters maps each Sloan letter to its stroke geometry on the
// 5x5 grid. Curved letters use annular strokes, diagonals a unit-width
// band around their axis. The shapes are stroke-faithful rather than
// typographic; the bandpass filter dominates the final appearance.
var sloanPainters = map[string]painter{
	"C": func(x, y float64) bool {
		return inRing(x, y, 2.5, 2.5, 2.5, 1.5) && !(x > 2.5 && y > 2.0 && y < 3.0)
	},
	"D": func(x, y float64) bool {
		return inRect(x, y, 0, 0, 1, 5) ||
			inRect(x, y, 0, 0, 2.5, 1) ||
			inRect(x, y, 0, 4, 2.5, 5) ||
			(x >= 2.5 && inRing(x, y, 2.5, 2.5, 2.5, 1.5))
	},
	"H": func(x, y float64) bool {
		return inRect(x, y, 0, 0, 1, 5) ||
			inRect(x, y, 4, 0, 5, 5) ||
			inRect(x, y, 1, 2, 4, 3)
	},
	"K": func(x, y float64) bool {
		return inRect(x, y, 0, 0, 1, 5) ||
			nearSegment(x, y, 1, 2.5, 4.5, 0.5) ||
			nearSegment(x, y, 1, 2.5, 4.5, 4.5)
	},
	"N": func(x, y float64) bool {
		return inRect(x, y, 0, 0, 1, 5) ||
			inRect(x, y, 4, 0, 5, 5) ||
			nearSegment(x, y, 0.5, 0.5, 4.5, 4.5)
	},
	"O": func(x, y float64) bool {
		return inRing(x, y, 2.5, 2.5, 2.5, 1.5)
	},
	"R": func(x, y float64) bool {
		return inRect(x, y, 0, 0, 1, 5) ||
			inRect(x, y, 0, 0, 3, 1) ||
			inRect(x, y, 0, 2, 3, 3) ||
			(x >= 3 && inRing(x, y, 3, 1.5, 1.5, 0.5)) ||
			nearSegment(x, y, 2.8, 3, 4.5, 4.6)
	},
	"S": func(x, y float64) bool {
		return inRect(x, y, 0, 0, 5, 1) ||
			inRect(x, y, 0, 2, 5, 3) ||
			inRect(x, y, 0, 4, 5, 5) ||
			inRect(x, y, 0, 1, 1, 2) ||
			inRect(x, y, 4, 3, 5, 4)
	},
	"V": func(x, y float64) bool {
		return nearSegment(x, y, 0.5, 0.3, 2.5, 4.6) ||
			nearSegment(x, y, 4.5, 0.3, 2.5, 4.6)
	},
	"Z": func(x, y float64) bool {
		return inRect(x, y, 0, 0, 5, 1) ||
			inRect(x, y, 0, 4, 5, 5) ||
			nearSegment(x, y, 4.5, 1, 0.5, 4)
	},
}

// paintE draws the canonical right-opening E: left vertical spine plus
// three full-width horizontal arms.
func paintE(x, y float64) bool {
	return inRect(x, y, 0, 0, 1, 5) ||
		inRect(x, y, 0, 0, 5, 1) ||
		inRect(x, y, 0, 2, 5, 3) ||
		inRect(x, y, 0, 4, 5, 5)
}
