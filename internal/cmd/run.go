package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harrison/curvesplit/internal/history"
	"github.com/harrison/curvesplit/internal/logger"
	"github.com/harrison/curvesplit/internal/session"
)

// NewRunCommand creates the run command
func NewRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [session] [behavior-path...]",
		Short: "Write model files for the runs of a session",
		Long: `Process every run of a recording session and write one model file per
category to <run>/model.

The first argument is the session directory when it contains run000..run099
directories. Further arguments name individual behavior directories; when
they are given only those runs are processed. Without arguments the current
directory must be a session.

A run that fails is reported and skipped; the other runs are still processed
and the command exits non-zero.

Configuration is loaded from .curvesplit/config.yaml if present.
CLI flags override configuration file settings.

Examples:
  # Every run of a session
  curvesplit run /data/M1/20170101

  # Two runs only
  curvesplit run /data/M1/20170101 /data/M1/20170101/run003/behavior /data/M1/20170101/run004/behavior

  # From inside the session, four runs at a time
  curvesplit run --max-concurrency 4`,
		RunE: runCommand,
	}

	addPipelineFlags(cmd)
	cmd.Flags().String("log-dir", "", "Directory for log files")
	cmd.Flags().Bool("dry-run", false, "Classify runs without writing model files")
	cmd.Flags().Bool("no-history", false, "Do not record runs in the history ledger")

	return cmd
}

// runCommand implements the run command logic
func runCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	runs, err := collectRuns(cmd.OutOrStdout(), args)
	if err != nil {
		return err
	}

	consoleLog := logger.NewConsoleLogger(cmd.OutOrStdout(), cfg.LogLevel)
	consoleLog.SetTotal(len(runs))

	fileLog, err := logger.NewFileLoggerWithDirAndLevel(cfg.LogDir, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	defer fileLog.Close()

	multiLog := logger.NewMultiLogger(consoleLog, fileLog)

	var recorder session.Recorder
	if cfg.History.Enabled && !cfg.DryRun {
		dbPath, err := cfg.HistoryDBPath()
		if err != nil {
			return fmt.Errorf("failed to locate history ledger: %w", err)
		}
		store, err := history.NewStore(dbPath)
		if err != nil {
			// History is a convenience; processing goes on without it.
			multiLog.LogWarn(fmt.Sprintf("history disabled: %v", err))
		} else {
			defer store.Close()
			recorder = store
		}
	}

	ctx, stop := interruptContext(cmd)
	defer stop()

	proc := session.NewProcessor(processorOptions(cfg), multiLog, recorder)
	batch, err := proc.ProcessAll(ctx, runs)
	if err != nil {
		var batchErr *session.BatchError
		if errors.As(err, &batchErr) {
			return fmt.Errorf("%d of %d runs failed", batchErr.FailedRuns, batchErr.TotalRuns)
		}
		return fmt.Errorf("processing failed: %w", err)
	}

	if !cfg.DryRun {
		fmt.Fprintf(cmd.OutOrStdout(), "\nWrote model files for %d runs.\n", batch.Processed)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Logs written to: %s\n", fileLog.Path())
	return nil
}
