package models

import "time"

// Run processing status constants
const (
	StatusProcessed = "PROCESSED" // Model files written
	StatusValidated = "VALIDATED" // Classified without writing (dry run)
	StatusFailed    = "FAILED"    // Run aborted with an error
)

// Run identifies one run directory of a session.
type Run struct {
	Name        string // e.g. "run003"
	Path        string // <session>/run003
	BehaviorDir string // <session>/run003/behavior
}

// RunResult represents the outcome of processing a single run
type RunResult struct {
	ID        string         // Unique id of this processing attempt
	Run       Run            // The run that was processed
	Status    string         // PROCESSED, VALIDATED or FAILED
	TaskGroup string         // Task-group directory the events came from
	EventLog  string         // Event log file that was classified
	Table     *CategoryTable // Classified intervals, nil on failure
	Files     []string       // Model files written
	Error     error          // Error if processing failed
	Duration  time.Duration  // Time taken to process the run
}

// BatchResult represents the aggregate result of processing several runs
type BatchResult struct {
	TotalRuns  int           // Total number of runs
	Processed  int           // Number of runs that succeeded
	Failed     int           // Number of runs that failed
	Duration   time.Duration // Total processing time
	Results    []RunResult   // Per-run results in input order
	FailedRuns []RunResult   // Details of failed runs
}
