package display

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// DisplayRuns lists the runs found for a batch before processing starts.
func DisplayRuns(w io.Writer, names []string) {
	fmt.Fprintf(w, "Discovered runs:\n")
	for _, name := range names {
		fmt.Fprintln(w, color.CyanString("  - %s", name))
	}
	noun := "runs"
	if len(names) == 1 {
		noun = "run"
	}
	fmt.Fprintf(w, "%s Found %d %s\n", color.GreenString("✓"), len(names), noun)
}

// DisplaySingleRun shows a one-line message when only one run is processed
func DisplaySingleRun(w io.Writer, name string) {
	fmt.Fprintf(w, "Processing single run %s...\n", name)
}
