package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/cwbudde/quickcsf/internal/qcsf"
	"github.com/cwbudde/quickcsf/internal/render"
	"github.com/cwbudde/quickcsf/internal/result"
	"github.com/cwbudde/quickcsf/internal/session"
)

var (
	simModeName  string
	simTrials    int
	simSeed      int64
	simOutPath   string
	simGain      float64
	simFreq      float64
	simBandwidth float64
	simTrunc     float64
	simPxPerMm   float64
	simDistMm    float64
	simMidPoint  uint8
	simGuard     bool
	simRefine    bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a full qCSF session against a simulated observer",
	Long: `Runs the adaptive procedure end to end with an ideal observer whose true
CSF parameters are given on the command line, then writes the derived
report as JSON. Useful for validating grids, trial budgets and guard
settings without a human in the loop.`,
	RunE: runSimulation,
}

func init() {
	simulateCmd.Flags().StringVar(&simModeName, "mode", "tumblingE", "Stimulus mode: gabor4afc, gaborYesNo, tumblingE, sloan")
	simulateCmd.Flags().IntVar(&simTrials, "trials", session.DefaultMaxTrials, "Trial budget")
	simulateCmd.Flags().Int64Var(&simSeed, "seed", 42, "Random seed")
	simulateCmd.Flags().StringVar(&simOutPath, "out", "report.json", "Output report path")
	simulateCmd.Flags().Float64Var(&simGain, "gain", 2.0, "True peak log10 sensitivity")
	simulateCmd.Flags().Float64Var(&simFreq, "freq", 4.0, "True peak frequency (cpd)")
	simulateCmd.Flags().Float64Var(&simBandwidth, "bandwidth", 1.3, "True bandwidth parameter")
	simulateCmd.Flags().Float64Var(&simTrunc, "truncation", 1.8, "True truncation parameter")
	simulateCmd.Flags().Float64Var(&simPxPerMm, "px-per-mm", 5.0, "Display pixels per millimeter")
	simulateCmd.Flags().Float64Var(&simDistMm, "dist-mm", 1000, "Viewing distance in millimeters")
	simulateCmd.Flags().Uint8Var(&simMidPoint, "mid-point", 128, "Gamma-corrected mid-grey level")
	simulateCmd.Flags().BoolVar(&simGuard, "guard", false, "Apply the plausibility guard to the estimate")
	simulateCmd.Flags().BoolVar(&simRefine, "refine", false, "Polish the estimate with a continuous ML fit")

	rootCmd.AddCommand(simulateCmd)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	truth := qcsf.Params{Gain: simGain, Freq: simFreq, Bandwidth: simBandwidth, Truncation: simTrunc}
	slog.Info("Starting simulated session",
		"mode", simModeName, "trials", simTrials, "seed", simSeed, "truth", truth)

	s, err := session.New(session.Config{
		ModeName: simModeName,
		Calibration: render.Calibration{
			PxPerMm:  simPxPerMm,
			DistMm:   simDistMm,
			MidPoint: simMidPoint,
		},
		MaxTrials: simTrials,
		Seed:      simSeed,
	})
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	observer := session.NewSimulatedObserver(truth, s.Mode, s.Engine.Options(), simSeed+1)
	frame := render.NewFrame(512, 512)

	start := time.Now()
	correctCount := 0
	for !s.Done() {
		info, err := s.NextTrial(frame)
		if err != nil {
			return fmt.Errorf("trial %d: %w", s.Engine.TrialCount()+1, err)
		}

		correct, err := s.Submit(observer.Respond(info, s.PendingTruth()))
		if err != nil {
			return fmt.Errorf("trial %d: %w", info.Trial, err)
		}
		if correct {
			correctCount++
		}

		if info.Trial%10 == 0 {
			slog.Info("Progress",
				"trial", info.Trial,
				"posterior_entropy_bits", fmt.Sprintf("%.2f", s.Engine.PosteriorEntropy()),
			)
		}
	}
	elapsed := time.Since(start)

	report := s.Finish(result.Options{
		ApplyPlausibilityGuard: simGuard,
		Refine:                 simRefine,
		RefineSeed:             simSeed,
	})

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	if err := os.WriteFile(simOutPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	slog.Info("Simulation complete",
		"elapsed", elapsed,
		"trials", s.Engine.TrialCount(),
		"correct", correctCount,
		"estimate", report.Params,
		"aulcsf", report.AULCSF,
	)

	fmt.Printf("Wrote %s (AULCSF %.3f, rank %s, predicted %s, %d/%d correct)\n",
		simOutPath, report.AULCSF, report.Rank, report.Snellen, correctCount, s.Engine.TrialCount())
	return nil
}
