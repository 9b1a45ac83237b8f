// Package session ties an adaptive engine, a stimulus mode, and a
// display calibration into one observer measurement run. The embedder
// drives the loop: NextTrial renders into its frame, Submit feeds the
// response back, Finish derives the report.
package session

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/cwbudde/quickcsf/internal/mode"
	"github.com/cwbudde/quickcsf/internal/qcsf"
	"github.com/cwbudde/quickcsf/internal/render"
	"github.com/cwbudde/quickcsf/internal/result"
)

// DefaultMaxTrials is the standard trial budget. The budget is enforced
// here, by the embedder side, never inside the engine.
const DefaultMaxTrials = 50

// Config assembles a session.
type Config struct {
	ModeName    string
	Calibration render.Calibration

	// Engine overrides; nil selects the mode's defaults (numAFC, slope)
	// and the standard grids. A non-nil value is used as given, apart
	// from Seed, which is always taken from Config.Seed; its zero-valued
	// fields are not filled in from the defaults.
	EngineOptions *qcsf.Options

	MaxTrials int
	Seed      int64
}

// TrialInfo describes the stimulus presented on one trial.
type TrialInfo struct {
	Trial       int     `json:"trial"`
	StimIndex   int     `json:"stimIndex"`
	Freq        float64 `json:"freq"`
	Contrast    float64 `json:"contrast"`
	LogContrast float64 `json:"logContrast"`
}

// Session is a single observer run. It is single-threaded; calls must
// alternate NextTrial and Submit.
type Session struct {
	ID          string
	Mode        mode.Mode
	Engine      *qcsf.Engine
	Calibration render.Calibration

	maxTrials int
	warnings  []string

	pending      bool
	pendingStim  qcsf.Stimulus
	pendingTruth string
}

// New validates the calibration, prepares the mode's templates, and
// constructs the engine.
func New(cfg Config) (*Session, error) {
	if err := cfg.Calibration.Validate(); err != nil {
		return nil, err
	}

	m, err := mode.New(cfg.ModeName, cfg.Seed)
	if err != nil {
		return nil, err
	}
	if err := m.Prepare(); err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}

	opts := qcsf.DefaultOptions(m.NumAFC(), m.Slope())
	if cfg.EngineOptions != nil {
		opts = *cfg.EngineOptions
	}
	opts.Seed = cfg.Seed
	engine, err := qcsf.New(opts)
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}

	maxTrials := cfg.MaxTrials
	if maxTrials <= 0 {
		maxTrials = DefaultMaxTrials
	}

	s := &Session{
		ID:          uuid.New().String(),
		Mode:        m,
		Engine:      engine,
		Calibration: cfg.Calibration,
		maxTrials:   maxTrials,
		warnings:    cfg.Calibration.ValidityWarnings(),
	}

	for _, w := range s.warnings {
		slog.Warn("Calibration validity finding", "session_id", s.ID, "finding", w)
	}
	slog.Info("Session created",
		"session_id", s.ID,
		"mode", m.Name(),
		"max_trials", maxTrials,
		"pix_per_deg", cfg.Calibration.PixPerDeg(),
	)
	return s, nil
}

// Done reports whether the trial budget is exhausted.
func (s *Session) Done() bool {
	return s.Engine.TrialCount() >= s.maxTrials
}

// NextTrial selects the next stimulus and renders it into the frame.
// The ground-truth label stays inside the mode; callers only see the
// stimulus parameters.
func (s *Session) NextTrial(f *render.Frame) (TrialInfo, error) {
	if s.Done() {
		return TrialInfo{}, fmt.Errorf("session %s: trial budget of %d exhausted", s.ID, s.maxTrials)
	}
	if s.pending {
		return TrialInfo{}, fmt.Errorf("session %s: trial %d still awaits a response", s.ID, s.Engine.TrialCount()+1)
	}

	st := s.Engine.SelectStimulus()
	truth, err := s.Mode.Render(f, st, s.Calibration)
	if err != nil {
		return TrialInfo{}, fmt.Errorf("session %s: %w", s.ID, err)
	}

	s.pending = true
	s.pendingStim = st
	s.pendingTruth = truth
	return TrialInfo{
		Trial:       s.Engine.TrialCount() + 1,
		StimIndex:   st.Index,
		Freq:        st.Freq,
		Contrast:    st.Contrast,
		LogContrast: st.LogContrast,
	}, nil
}

// Submit checks the observer's response against the pending trial and
// updates the posterior. A response timeout should be submitted as a
// key that matches no label.
func (s *Session) Submit(response string) (bool, error) {
	if !s.pending {
		return false, fmt.Errorf("session %s: no trial awaiting a response", s.ID)
	}

	correct := s.Mode.Check(response)
	if err := s.Engine.Update(s.pendingStim.Index, correct); err != nil {
		return false, fmt.Errorf("session %s: %w", s.ID, err)
	}
	s.pending = false

	slog.Debug("Trial recorded",
		"session_id", s.ID,
		"trial", s.Engine.TrialCount(),
		"freq", s.pendingStim.Freq,
		"log_contrast", s.pendingStim.LogContrast,
		"correct", correct,
	)
	return correct, nil
}

// PendingTruth exposes the current trial's ground-truth label for
// simulated observers. Display embedders have no use for it.
func (s *Session) PendingTruth() string {
	if !s.pending {
		return ""
	}
	return s.pendingTruth
}

// Warnings returns calibration validity findings recorded at start.
func (s *Session) Warnings() []string {
	return append([]string(nil), s.warnings...)
}

// Finish derives the final report and attaches session-level findings.
func (s *Session) Finish(opts result.Options) result.Report {
	report := result.Derive(s.Engine, opts)
	for _, w := range s.warnings {
		report.Warnings = append(report.Warnings, qcsf.Warning{Trial: 0, Message: w})
	}
	slog.Info("Session finished",
		"session_id", s.ID,
		"trials", s.Engine.TrialCount(),
		"aulcsf", report.AULCSF,
		"rank", report.Rank,
		"snellen", report.Snellen,
	)
	return report
}
