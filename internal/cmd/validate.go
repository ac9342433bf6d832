package cmd

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/harrison/curvesplit/internal/logger"
	"github.com/harrison/curvesplit/internal/models"
	"github.com/harrison/curvesplit/internal/session"
)

// NewValidateCommand creates the validate command
func NewValidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [session] [behavior-path...]",
		Short: "Classify runs and report category counts without writing",
		Long: `Run the full pipeline on a session without writing model files or
recording history, then print how many events each category received.

Arguments are resolved the same way as for the run command.`,
		RunE: validateCommand,
	}

	addPipelineFlags(cmd)
	return cmd
}

func validateCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	cfg.DryRun = true

	out := cmd.OutOrStdout()
	runs, err := collectRuns(out, args)
	if err != nil {
		return err
	}

	consoleLog := logger.NewConsoleLogger(out, cfg.LogLevel)
	ctx, stop := interruptContext(cmd)
	defer stop()

	proc := session.NewProcessor(processorOptions(cfg), consoleLog, nil)
	batch, procErr := proc.ProcessAll(ctx, runs)

	fmt.Fprintln(out)
	printCategoryCounts(out, batch.Results)

	if procErr != nil {
		var batchErr *session.BatchError
		if errors.As(procErr, &batchErr) {
			return fmt.Errorf("%d of %d runs failed validation", batchErr.FailedRuns, batchErr.TotalRuns)
		}
		return fmt.Errorf("validation failed: %w", procErr)
	}
	return nil
}

// printCategoryCounts renders one column per run and one row per category.
// Failed runs show "-" in every row.
func printCategoryCounts(w io.Writer, results []models.RunResult) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	defer tw.Flush()

	fmt.Fprint(tw, "Category\t")
	for _, r := range results {
		fmt.Fprintf(tw, "%s\t", r.Run.Name)
	}
	fmt.Fprintln(tw)

	for _, c := range models.Categories() {
		fmt.Fprintf(tw, "%s\t", c)
		for _, r := range results {
			if r.Table == nil {
				fmt.Fprint(tw, "-\t")
				continue
			}
			fmt.Fprintf(tw, "%d\t", r.Table.Len(c))
		}
		fmt.Fprintln(tw)
	}
}
