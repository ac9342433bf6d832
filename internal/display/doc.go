// Package display formats user-facing terminal messages that are not part
// of the run log: the discovered-run listing and warnings about a session.
//
// # Discovered Runs
//
//	display.DisplayRuns(os.Stdout, []string{"run000", "run001"})
//
// # Warnings
//
//	w := display.WarnMissingBehavior(missing)
//	w.Display(os.Stderr)
//
// Colors come from fatih/color, so they are dropped automatically when the
// output is not a terminal or NO_COLOR is set. All functions write to an
// io.Writer.
package display
