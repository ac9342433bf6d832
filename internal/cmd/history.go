package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/harrison/curvesplit/internal/history"
	"github.com/harrison/curvesplit/internal/models"
)

// NewHistoryCommand creates the history command
func NewHistoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List processed runs from the history ledger",
		Long: `Show the runs recorded by previous invocations of the run command,
newest first.`,
		Args: cobra.NoArgs,
		RunE: historyCommand,
	}

	cmd.Flags().String("config", "", "Path to config file (default: .curvesplit/config.yaml)")
	cmd.Flags().Int("limit", 20, "Maximum number of entries (0 = all)")
	cmd.Flags().String("session", "", "Only show runs of this session directory")

	return cmd
}

func historyCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	limit, _ := cmd.Flags().GetInt("limit")
	if limit < 0 {
		return fmt.Errorf("--limit must be >= 0, got %d", limit)
	}
	sessionDir, _ := cmd.Flags().GetString("session")
	if sessionDir != "" {
		if sessionDir, err = filepath.Abs(sessionDir); err != nil {
			return fmt.Errorf("resolve session path: %w", err)
		}
	}

	dbPath, err := cfg.HistoryDBPath()
	if err != nil {
		return fmt.Errorf("failed to locate history ledger: %w", err)
	}
	store, err := history.NewStore(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open history ledger: %w", err)
	}
	defer store.Close()

	records, err := store.ListRuns(cmd.Context(), history.ListOptions{Session: sessionDir, Limit: limit})
	if err != nil {
		return fmt.Errorf("failed to list history: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(records) == 0 {
		fmt.Fprintln(out, "No runs recorded.")
		return nil
	}
	printHistory(out, records, useColor(out))
	return nil
}

func useColor(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok || color.NoColor {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func printHistory(w io.Writer, records []*history.RunRecord, colored bool) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintln(tw, "PROCESSED\tRUN\tSTATUS\tEVENTS\tDURATION\tSESSION")
	for _, r := range records {
		status := r.Status
		if colored {
			status = historyStatusColor(r.Status).Sprint(r.Status)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\n",
			r.ProcessedAt.Local().Format("2006-01-02 15:04:05"),
			r.RunName,
			status,
			r.EventCount,
			r.Duration.Round(time.Millisecond),
			r.SessionPath,
		)
		if r.ErrorMessage != "" {
			fmt.Fprintf(tw, "\t\terror: %s\t\t\t\n", r.ErrorMessage)
		}
	}
}

func historyStatusColor(status string) *color.Color {
	switch status {
	case models.StatusProcessed:
		return color.New(color.FgGreen)
	case models.StatusFailed:
		return color.New(color.FgRed)
	default:
		return color.New(color.FgYellow)
	}
}
