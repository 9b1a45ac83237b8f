package optotype

import (
	"math"
	"testing"
)

func TestRasterizeSpan(t *testing.T) {
	// The O covers the full 5x5 cell, so ink must appear near 12.5% and
	// 87.5% of the raster but not outside the 75% span.
	const n = 64
	img := rasterize(sloanPainters["O"], n)

	hasInk := false
	for _, v := range img {
		if v == -0.5 {
			hasInk = true
			break
		}
	}
	if !hasInk {
		t.Fatal("Rasterized O contains no ink")
	}

	// Everything outside the central 75% square is background.
	nf := float64(n)
	lo := int(nf * 0.115)
	hi := int(nf * 0.885)
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			if x >= lo && x <= hi && y >= lo && y <= hi {
				continue
			}
			if img[y*n+x] != 0.5 {
				t.Fatalf("Ink outside letter span at (%d,%d)", x, y)
			}
		}
	}
}

func TestRotateQuarters(t *testing.T) {
	// 2x2 image, one marked corner.
	src := []float64{1, 0, 0, 0}

	r1 := rotateQuarters(src, 2, 1)
	if r1[1] != 1 { // top-left moves to top-right after 90 degrees CW
		t.Errorf("Quarter turn: got %v", r1)
	}
	r2 := rotateQuarters(src, 2, 2)
	if r2[3] != 1 {
		t.Errorf("Half turn: got %v", r2)
	}
	r4 := rotateQuarters(src, 2, 4)
	for i := range src {
		if r4[i] != src[i] {
			t.Errorf("Full turn should be identity, got %v", r4)
		}
	}
}

func TestNewSloanSet(t *testing.T) {
	set, err := NewSloanSet(64, DefaultCenterFreq, DefaultOctaves)
	if err != nil {
		t.Fatal(err)
	}
	if len(set.Labels()) != 10 {
		t.Fatalf("Expected 10 labels, got %d", len(set.Labels()))
	}

	for _, label := range set.Labels() {
		tmpl := set.Template(label)
		if tmpl == nil {
			t.Fatalf("Missing template %s", label)
		}

		var sum float64
		maxAbs := 0.0
		for _, v := range tmpl.Data {
			sum += v
			if a := math.Abs(v); a > maxAbs {
				maxAbs = a
			}
		}
		if math.Abs(sum)/float64(len(tmpl.Data)) > 1e-9 {
			t.Errorf("Template %s mean %g, want ~0", label, sum/float64(len(tmpl.Data)))
		}
		if math.Abs(maxAbs-1) > 1e-9 {
			t.Errorf("Template %s peak %g, want 1", label, maxAbs)
		}
	}

	if set.Template("A") != nil {
		t.Error("Non-Sloan letter should have no template")
	}
}

func TestNewTumblingESetOrientations(t *testing.T) {
	set, err := NewTumblingESet(64, DefaultCenterFreq, DefaultOctaves)
	if err != nil {
		t.Fatal(err)
	}
	if len(set.Labels()) != 4 {
		t.Fatalf("Expected 4 directions, got %d", len(set.Labels()))
	}

	right := set.Template("right")
	down := set.Template("down")
	if right == nil || down == nil {
		t.Fatal("Missing orientation template")
	}

	// down is right rotated a quarter turn; energies match exactly.
	var eRight, eDown float64
	for i := range right.Data {
		eRight += right.Data[i] * right.Data[i]
		eDown += down.Data[i] * down.Data[i]
	}
	if math.Abs(eRight-eDown) > 1e-9 {
		t.Errorf("Orientation energies differ: %g vs %g", eRight, eDown)
	}

	// And they genuinely differ pixel-wise.
	same := true
	for i := range right.Data {
		if right.Data[i] != down.Data[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("right and down templates are identical")
	}
}

func TestTemplateSampleBilinear(t *testing.T) {
	tmpl := &Template{N: 2, Data: []float64{0, 1, 0, 1}}
	if got := tmpl.Sample(0.5, 0.5); math.Abs(got-0.5) > 1e-12 {
		t.Errorf("Center sample = %g, want 0.5", got)
	}
	if got := tmpl.Sample(0, 0); got != 0 {
		t.Errorf("Corner sample = %g, want 0", got)
	}
	if got := tmpl.Sample(-3, 5); got != 0 {
		t.Errorf("Clamped sample = %g, want 0", got)
	}
}
