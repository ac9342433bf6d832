package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/harrison/curvesplit/internal/config"
	"github.com/harrison/curvesplit/internal/display"
	"github.com/harrison/curvesplit/internal/eventlog"
	"github.com/harrison/curvesplit/internal/models"
	"github.com/harrison/curvesplit/internal/session"
)

// addPipelineFlags registers the flags shared by run and validate.
func addPipelineFlags(cmd *cobra.Command) {
	cmd.Flags().String("config", "", "Path to config file (default: .curvesplit/config.yaml)")
	cmd.Flags().String("log-level", "", "Log level: trace, debug, info, warn, error")
	cmd.Flags().Int("max-concurrency", 0, "Maximum number of runs processed at once")
	cmd.Flags().String("output-dir", "", "Model directory relative to each run (default: model)")
}

// loadConfig loads the config file and applies every flag the user set.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")
	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
		}
	} else {
		cfg, err = config.LoadConfigFromDir(".")
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	var flags config.Flags
	if f := cmd.Flags().Lookup("max-concurrency"); f != nil && f.Changed {
		v, _ := cmd.Flags().GetInt("max-concurrency")
		flags.MaxConcurrency = &v
	}
	flags.LogLevel = changedString(cmd, "log-level")
	flags.LogDir = changedString(cmd, "log-dir")
	flags.OutputDir = changedString(cmd, "output-dir")
	flags.DryRun = changedBool(cmd, "dry-run")
	flags.NoHistory = changedBool(cmd, "no-history")
	cfg.MergeWithFlags(flags)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func changedString(cmd *cobra.Command, name string) *string {
	f := cmd.Flags().Lookup(name)
	if f == nil || !f.Changed {
		return nil
	}
	v := f.Value.String()
	return &v
}

func changedBool(cmd *cobra.Command, name string) *bool {
	f := cmd.Flags().Lookup(name)
	if f == nil || !f.Changed {
		return nil
	}
	v, _ := cmd.Flags().GetBool(name)
	return &v
}

// processorOptions maps the configuration onto the session pipeline.
func processorOptions(cfg *config.Config) session.Options {
	return session.Options{
		OutputDir:      cfg.OutputDir,
		DryRun:         cfg.DryRun,
		MaxConcurrency: cfg.MaxConcurrency,
		Read: eventlog.ReadOptions{
			Tasks:  models.NewTaskSet(cfg.ExtraTasks...),
			Strict: cfg.StrictTasks,
		},
	}
}

// collectRuns resolves the positional arguments to runs. The first argument
// is the session directory when it contains run directories; every other
// argument is a behavior directory. With no arguments the working directory
// must be a session.
func collectRuns(out io.Writer, args []string) ([]models.Run, error) {
	sessionDir := ""
	paths := args
	switch {
	case len(args) == 0:
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
		if !session.IsSessionDir(cwd) {
			return nil, fmt.Errorf("%s is not a session directory; pass a session or behavior paths", cwd)
		}
		sessionDir = cwd
	case session.IsSessionDir(args[0]):
		sessionDir = args[0]
		paths = args[1:]
	}

	runs, missing, err := session.ResolveRuns(sessionDir, paths)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve runs: %w", err)
	}
	if len(missing) > 0 {
		display.WarnMissingBehavior(missing).Display(out)
	}
	if len(runs) == 0 {
		if sessionDir != "" && len(paths) == 0 {
			display.WarnNoRuns(sessionDir).Display(out)
		}
		return nil, fmt.Errorf("no runs to process")
	}

	if len(runs) == 1 {
		display.DisplaySingleRun(out, runs[0].Name)
		return runs, nil
	}
	names := make([]string, len(runs))
	for i, r := range runs {
		names[i] = r.Name
	}
	display.DisplayRuns(out, names)
	return runs, nil
}

// interruptContext derives the batch context from the command's context.
// SIGINT or SIGTERM cancels it, which stops runs that have not started.
func interruptContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
