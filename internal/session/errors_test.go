package session

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestPhaseString(t *testing.T) {
	tests := []struct {
		phase Phase
		want  string
	}{
		{PhasePending, "pending"},
		{PhaseDiscover, "discover"},
		{PhaseLoad, "load"},
		{PhaseNormalize, "normalize"},
		{PhaseClassify, "classify"},
		{PhaseWrite, "write"},
		{Phase(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.phase.String(); got != tt.want {
			t.Errorf("Phase(%d).String() = %q, want %q", tt.phase, got, tt.want)
		}
	}
}

func TestRunError(t *testing.T) {
	underlying := errors.New("no event log")
	err := NewRunError("run003", PhaseDiscover, underlying)

	if got, want := err.Error(), "run003: discover failed: no event log"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, underlying) {
		t.Error("RunError should unwrap to the underlying error")
	}
	if err.Timestamp.IsZero() {
		t.Error("Timestamp should be set")
	}
	if !IsRunError(fmt.Errorf("wrapped: %w", err)) {
		t.Error("IsRunError should see through wrapping")
	}
	if IsRunError(nil) || IsRunError(underlying) {
		t.Error("IsRunError should be false for non-run errors")
	}
}

func TestBatchError(t *testing.T) {
	batch := NewBatchError(3)
	if batch.Unwrap() != nil {
		t.Error("empty batch should unwrap to nil")
	}

	first := errors.New("first")
	second := errors.New("second")
	batch.AddRun(NewRunError("run001", PhaseLoad, first))
	batch.AddRun(NewRunError("run002", PhaseClassify, second))

	if batch.FailedRuns != 2 {
		t.Errorf("FailedRuns = %d, want 2", batch.FailedRuns)
	}
	msg := batch.Error()
	if !strings.HasPrefix(msg, "2/3 runs failed:") {
		t.Errorf("unexpected message: %q", msg)
	}
	if !strings.Contains(msg, "run002: classify failed: second") {
		t.Errorf("message should list every run: %q", msg)
	}
	if !errors.Is(batch, first) || !errors.Is(batch, second) {
		t.Error("BatchError should unwrap to every run error")
	}
}
