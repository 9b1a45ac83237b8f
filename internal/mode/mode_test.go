package mode

import (
	"testing"

	"github.com/cwbudde/quickcsf/internal/qcsf"
	"github.com/cwbudde/quickcsf/internal/render"
)

func testCal() render.Calibration {
	return render.Calibration{PxPerMm: 5, DistMm: 1000, MidPoint: 128}
}

func testStim() qcsf.Stimulus {
	return qcsf.Stimulus{Index: 0, Freq: 4, LogContrast: -0.5, Contrast: 0.316}
}

func TestNewRejectsUnknownMode(t *testing.T) {
	if _, err := New("bogus", 1); err == nil {
		t.Error("Expected error for unknown mode")
	}
}

func TestModeMetadata(t *testing.T) {
	cases := []struct {
		name   string
		numAFC int
		slope  float64
		labels int
	}{
		{"gabor4afc", 4, qcsf.SlopeGrating, 4},
		{"gaborYesNo", 1, qcsf.SlopeGrating, 5},
		{"tumblingE", 4, qcsf.SlopeGrating, 4},
		{"sloan", 10, qcsf.SlopeSloan, 10},
	}

	for _, tc := range cases {
		m, err := New(tc.name, 1)
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if err := m.Prepare(); err != nil {
			t.Fatalf("%s: prepare: %v", tc.name, err)
		}
		if m.NumAFC() != tc.numAFC {
			t.Errorf("%s: NumAFC = %d, want %d", tc.name, m.NumAFC(), tc.numAFC)
		}
		if m.Slope() != tc.slope {
			t.Errorf("%s: Slope = %g, want %g", tc.name, m.Slope(), tc.slope)
		}
		if len(m.Labels()) != tc.labels {
			t.Errorf("%s: %d labels, want %d", tc.name, len(m.Labels()), tc.labels)
		}
	}
}

func TestCheckMatchesOnlyGroundTruth(t *testing.T) {
	for _, name := range Names() {
		m, err := New(name, 7)
		if err != nil {
			t.Fatal(err)
		}
		if err := m.Prepare(); err != nil {
			t.Fatal(err)
		}

		f := render.NewFrame(128, 128)
		for trial := 0; trial < 10; trial++ {
			truth, err := m.Render(f, testStim(), testCal())
			if err != nil {
				t.Fatalf("%s: render: %v", name, err)
			}
			if !m.Check(truth) {
				t.Errorf("%s: ground truth %q rejected", name, truth)
			}
			for _, label := range m.Labels() {
				if label != truth && m.Check(label) {
					t.Errorf("%s: wrong label %q accepted (truth %q)", name, label, truth)
				}
			}
		}
	}
}

func TestYesNoNoneKeyAlwaysWrong(t *testing.T) {
	m, err := New("gaborYesNo", 3)
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Prepare(); err != nil {
		t.Fatal(err)
	}

	f := render.NewFrame(64, 64)
	for trial := 0; trial < 20; trial++ {
		if _, err := m.Render(f, testStim(), testCal()); err != nil {
			t.Fatal(err)
		}
		if m.Check("none") {
			t.Fatal(`"none" accepted although a target is always present`)
		}
	}
}

func TestCheckBeforeRenderIsFalse(t *testing.T) {
	for _, name := range Names() {
		m, err := New(name, 1)
		if err != nil {
			t.Fatal(err)
		}
		if err := m.Prepare(); err != nil {
			t.Fatal(err)
		}
		for _, label := range m.Labels() {
			if m.Check(label) {
				t.Errorf("%s: Check(%q) true before any Render", name, label)
			}
		}
	}
}

func TestLetterModeRequiresPrepare(t *testing.T) {
	m, err := New("sloan", 1)
	if err != nil {
		t.Fatal(err)
	}
	f := render.NewFrame(64, 64)
	if _, err := m.Render(f, testStim(), testCal()); err == nil {
		t.Error("Render before Prepare should fail for template modes")
	}
}
