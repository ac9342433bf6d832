package cmd

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for curvesplit
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "curvesplit",
		Short: "Split curve-tracing event logs into model files",
		Long: `Curvesplit reads the behavioral event log of every run in a recording
session and writes one model file per behavioral category.

Each run's event times are rebased on the first MRI trigger the stimulus
software received, the events are classified trial by trial, and the
intervals are written to <run>/model/<Category>.txt for downstream analysis.`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
	}

	cmd.AddCommand(NewRunCommand())
	cmd.AddCommand(NewValidateCommand())
	cmd.AddCommand(NewHistoryCommand())

	return cmd
}
