package classifier

import (
	"errors"
	"fmt"
	"strings"

	"github.com/harrison/curvesplit/internal/models"
)

// Protocol violations. Each one aborts classification of the whole log.
var (
	ErrUnrecognizedFixationInfo = errors.New("unrecognized fixation info")
	ErrMissingTargetLocation    = errors.New("pre-switch before target location")
	ErrUnexpectedTask           = errors.New("unexpected task for post-switch")
	ErrMissingStimulusOnset     = errors.New("post-switch before stimulus onset")
	ErrUnhandledResponse        = errors.New("unhandled response")
	ErrDuplicateManualReward    = errors.New("duplicate manual reward encoding")
	ErrMissingFixationTaskOnset = errors.New("post-fixation before fixation period")
	ErrUnrecognizedHand         = errors.New("unrecognized response hand")
	ErrInvalidRewardDuration    = errors.New("invalid reward duration")
	ErrUnknownTargetLocation    = errors.New("unknown target location")
)

// Error reports the row that violated the protocol.
type Error struct {
	Kind   error
	Line   int
	Time   float64
	Task   models.Task
	Event  string
	Info   string
	Detail string
}

func newError(kind error, ev models.LogEvent, format string, args ...any) *Error {
	return &Error{
		Kind:   kind,
		Line:   ev.Line,
		Time:   ev.Time,
		Task:   ev.Task,
		Event:  ev.Event,
		Info:   ev.Info,
		Detail: fmt.Sprintf(format, args...),
	}
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	var sb strings.Builder
	if e.Line > 0 {
		sb.WriteString(fmt.Sprintf("line %d ", e.Line))
	}
	sb.WriteString(fmt.Sprintf("(t=%.6f %s/%s", e.Time, e.Event, e.Info))
	if e.Task != models.TaskNone {
		sb.WriteString(fmt.Sprintf(" task %q", e.Task))
	}
	sb.WriteString("): ")
	sb.WriteString(e.Kind.Error())
	if e.Detail != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Detail)
	}
	return sb.String()
}

func (e *Error) Unwrap() error { return e.Kind }
