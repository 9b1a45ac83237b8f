package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/quickcsf/internal/qcsf"
	"github.com/cwbudde/quickcsf/internal/render"
	"github.com/cwbudde/quickcsf/internal/result"
)

func testConfig() Config {
	return Config{
		ModeName:    "tumblingE",
		Calibration: render.Calibration{PxPerMm: 5, DistMm: 1000, MidPoint: 128},
		MaxTrials:   12,
		Seed:        21,
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Calibration.PxPerMm = 0
	_, err := New(cfg)
	require.Error(t, err, "invalid calibration must be fatal at construction")

	cfg = testConfig()
	cfg.ModeName = "nope"
	_, err = New(cfg)
	require.Error(t, err)
}

func TestNewRecordsValidityWarnings(t *testing.T) {
	cfg := testConfig()
	cfg.Calibration.DistMm = 120 // closer than supported
	s, err := New(cfg)
	require.NoError(t, err, "out-of-bounds distance degrades validity but is not fatal")
	assert.NotEmpty(t, s.Warnings())
}

func TestSessionOrdering(t *testing.T) {
	s, err := New(testConfig())
	require.NoError(t, err)

	_, err = s.Submit("right")
	require.Error(t, err, "Submit before NextTrial must fail")

	f := render.NewFrame(128, 128)
	_, err = s.NextTrial(f)
	require.NoError(t, err)

	_, err = s.NextTrial(f)
	require.Error(t, err, "second NextTrial without a response must fail")

	_, err = s.Submit(s.PendingTruth())
	require.NoError(t, err)
}

func TestSessionRunsToBudget(t *testing.T) {
	s, err := New(testConfig())
	require.NoError(t, err)
	require.NotEmpty(t, s.ID)

	truth := qcsf.Params{Gain: 2.0, Freq: 4.0, Bandwidth: 1.3, Truncation: 1.8}
	obs := NewSimulatedObserver(truth, s.Mode, s.Engine.Options(), 99)

	f := render.NewFrame(128, 128)
	for !s.Done() {
		info, err := s.NextTrial(f)
		require.NoError(t, err)
		require.Greater(t, info.Freq, 0.0)
		require.LessOrEqual(t, info.Contrast, 1.0)

		_, err = s.Submit(obs.Respond(info, s.PendingTruth()))
		require.NoError(t, err)
	}

	assert.Equal(t, 12, s.Engine.TrialCount())
	_, err = s.NextTrial(f)
	require.Error(t, err, "budget exhausted")

	report := s.Finish(result.Options{})
	assert.Len(t, report.History, 12)
	assert.NotEqual(t, result.RankError, report.Rank)
}

func TestSimulatedObserverIsFaithful(t *testing.T) {
	// Very easy trials are answered correctly almost always; impossible
	// ones collapse to guessing.
	cfg := testConfig()
	s, err := New(cfg)
	require.NoError(t, err)

	truth := qcsf.Params{Gain: 2.5, Freq: 4.0, Bandwidth: 2.0, Truncation: 1.0}
	obs := NewSimulatedObserver(truth, s.Mode, s.Engine.Options(), 5)

	// easy sits 2.5 log units above threshold; hard is far below it.
	easy := TrialInfo{Freq: 4, LogContrast: 0}
	hard := TrialInfo{Freq: 40, LogContrast: -3}

	correctEasy, correctHard := 0, 0
	const n = 400
	for i := 0; i < n; i++ {
		if obs.Respond(easy, "right") == "right" {
			correctEasy++
		}
		if obs.Respond(hard, "right") == "right" {
			correctHard++
		}
	}
	assert.Greater(t, correctEasy, int(0.9*n))
	assert.Less(t, correctHard, int(0.45*n))
}
