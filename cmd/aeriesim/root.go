package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	planPath    string
	oldPlanPath string
	stopTime    int64
	hasStopTime bool
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "aeriesim",
	Short: "Run a discrete-event simulation plan against the reference model.",
	Long: `aeriesim runs a JSON plan of activities against the bundled reference
model, printing the resulting timeline of spans and the event history.

Passing --old-plan alongside --plan runs the old plan first, then replays
the new plan incrementally against the payload that run produced, all in
one process — Payloads are never written to disk.`,
	SilenceUsage: true,
	RunE:         runSimulate,
}

func init() {
	rootCmd.Flags().StringVar(&planPath, "plan", "", "path to the plan JSON file to simulate (required)")
	rootCmd.Flags().StringVar(&oldPlanPath, "old-plan", "", "path to a prior plan JSON file; when set, runs incrementally against it")
	rootCmd.Flags().Int64Var(&stopTime, "stop-time", 0, "halt before processing any batch at or after this simulation time (single-plan runs only; not applied with --old-plan)")
	rootCmd.Flags().BoolVar(&verbose, "verbose", false, "enable debug-level tick logging")
	_ = rootCmd.MarkFlagRequired("plan")

	rootCmd.PreRun = func(cmd *cobra.Command, args []string) {
		hasStopTime = cmd.Flags().Changed("stop-time")
		level := zerolog.InfoLevel
		if verbose {
			level = zerolog.DebugLevel
		}
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level)
	}
}
