package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// Warning represents a user-facing warning message
type Warning struct {
	Title      string   // Main warning title
	Message    string   // Detailed explanation (optional)
	Paths      []string // Related files or directories (optional)
	Suggestion string   // Action to take (optional)
}

// Display shows a formatted warning in yellow
func (w Warning) Display(out io.Writer) {
	var b strings.Builder

	b.WriteString("Warning: ")
	b.WriteString(w.Title)
	b.WriteString("\n")

	if w.Message != "" {
		b.WriteString("    ")
		b.WriteString(w.Message)
		b.WriteString("\n")
	}

	if len(w.Paths) > 0 {
		if len(w.Paths) == 1 {
			b.WriteString("    Affected path:\n")
		} else {
			b.WriteString("    Affected paths:\n")
		}
		for i, p := range w.Paths {
			fmt.Fprintf(&b, "      %d. %s\n", i+1, p)
		}
	}

	if w.Suggestion != "" {
		b.WriteString("    Suggestion:\n")
		b.WriteString("    ")
		b.WriteString(w.Suggestion)
		b.WriteString("\n")
	}

	fmt.Fprint(out, color.YellowString("%s", b.String()))
}

// WarnMissingBehavior reports behavior directories that were named explicitly
// but do not exist. Those runs are skipped.
func WarnMissingBehavior(paths []string) Warning {
	return Warning{
		Title:      "Behavior directory not found",
		Message:    "These runs are skipped.",
		Paths:      paths,
		Suggestion: "Check the paths or pass the session directory instead.",
	}
}

// WarnNoRuns reports a session directory that holds no run directories.
func WarnNoRuns(sessionDir string) Warning {
	return Warning{
		Title:   "No runs found",
		Message: "Run directories are named run000 to run099 and contain a behavior directory.",
		Paths:   []string{sessionDir},
	}
}
