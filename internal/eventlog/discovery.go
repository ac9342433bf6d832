package eventlog

import (
	"errors"
	"fmt"

	"github.com/harrison/curvesplit/internal/fileutil"
)

// EventLogPattern matches the base name of the overall event log of a task
// group. Per-task logs such as Log_S01_20170101T120000_Fixation.csv do not match.
const EventLogPattern = `^Log_.*_\d+T\d+(?:_eventlog)?$`

// FindEventLog returns the single event log in a task-group directory.
func FindEventLog(taskGroupDir string) (string, error) {
	path, err := fileutil.FindOne(taskGroupDir, fileutil.ScanOptions{
		Pattern:    EventLogPattern,
		Extensions: []string{".csv"},
		MaxDepth:   1,
	})
	switch {
	case err == nil:
		return path, nil
	case errors.Is(err, fileutil.ErrNoMatch):
		return "", &Error{Kind: ErrNoEventLog, Path: taskGroupDir}
	case errors.Is(err, fileutil.ErrMultipleMatches):
		return "", &Error{Kind: ErrMultipleEventLogs, Path: taskGroupDir, Msg: err.Error()}
	default:
		return "", fmt.Errorf("failed to search for event log: %w", err)
	}
}
