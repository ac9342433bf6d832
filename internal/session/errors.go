package session

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Layout errors found while resolving a run's inputs.
var (
	ErrBehaviorNotFound   = errors.New("behavior directory not found")
	ErrNoTaskGroups       = errors.New("behavior directory has no task-group subdirectory")
	ErrMultipleTaskGroups = errors.New("behavior directory has more than one task group; events must be merged first")
)

// Phase is the processing step in which a run failed.
type Phase int

const (
	// PhasePending means the run never started, usually because the batch was canceled.
	PhasePending Phase = iota
	// PhaseDiscover covers task-group and event-log discovery.
	PhaseDiscover
	// PhaseLoad covers reading the event log and stimulus parameters.
	PhaseLoad
	// PhaseNormalize covers rebasing times onto the trigger.
	PhaseNormalize
	// PhaseClassify covers the trial state machine.
	PhaseClassify
	// PhaseWrite covers writing model files.
	PhaseWrite
)

// String returns the string representation of Phase.
func (p Phase) String() string {
	switch p {
	case PhasePending:
		return "pending"
	case PhaseDiscover:
		return "discover"
	case PhaseLoad:
		return "load"
	case PhaseNormalize:
		return "normalize"
	case PhaseClassify:
		return "classify"
	case PhaseWrite:
		return "write"
	default:
		return "unknown"
	}
}

// RunError is the failure of a single run.
type RunError struct {
	Run       string    // Run name, e.g. run003
	Phase     Phase     // Step that failed
	Err       error     // Underlying error
	Timestamp time.Time // When the error occurred
}

// NewRunError creates a new RunError with the current timestamp.
func NewRunError(run string, phase Phase, err error) *RunError {
	return &RunError{
		Run:       run,
		Phase:     phase,
		Err:       err,
		Timestamp: time.Now(),
	}
}

// Error implements the error interface for RunError.
func (e *RunError) Error() string {
	return fmt.Sprintf("%s: %s failed: %v", e.Run, e.Phase, e.Err)
}

// Unwrap returns the underlying error for error wrapping support.
func (e *RunError) Unwrap() error {
	return e.Err
}

// BatchError aggregates the run errors of one batch. Runs that succeeded are
// not represented.
type BatchError struct {
	RunErrors  []*RunError
	TotalRuns  int
	FailedRuns int
}

// NewBatchError creates an empty BatchError for a batch of total runs.
func NewBatchError(total int) *BatchError {
	return &BatchError{TotalRuns: total, RunErrors: []*RunError{}}
}

// AddRun records a failed run.
func (e *BatchError) AddRun(runErr *RunError) {
	e.RunErrors = append(e.RunErrors, runErr)
	e.FailedRuns++
}

// Error implements the error interface for BatchError.
func (e *BatchError) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d/%d runs failed", e.FailedRuns, e.TotalRuns))
	if len(e.RunErrors) > 0 {
		sb.WriteString(":")
		for _, runErr := range e.RunErrors {
			sb.WriteString(fmt.Sprintf("\n  - %s", runErr.Error()))
		}
	}
	return sb.String()
}

// Unwrap returns the run errors so errors.Is and errors.As see every run.
func (e *BatchError) Unwrap() []error {
	if len(e.RunErrors) == 0 {
		return nil
	}
	errs := make([]error, len(e.RunErrors))
	for i, runErr := range e.RunErrors {
		errs[i] = runErr
	}
	return errs
}

// IsRunError checks if the error is or wraps a RunError.
func IsRunError(err error) bool {
	if err == nil {
		return false
	}
	var re *RunError
	return errors.As(err, &re)
}
