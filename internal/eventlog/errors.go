package eventlog

import (
	"errors"
	"fmt"
)

// Load errors. Malformed logs are rejected outright, never repaired.
var (
	ErrMissingColumn     = errors.New("missing required column")
	ErrInvalidTime       = errors.New("invalid time value")
	ErrUnknownTask       = errors.New("unknown task")
	ErrMalformedCSV      = errors.New("malformed csv")
	ErrNoEventLog        = errors.New("no event log")
	ErrMultipleEventLogs = errors.New("more than one event log")
)

// Error describes a load failure in a specific file, and line when known.
type Error struct {
	Kind error
	Path string
	Line int
	Msg  string
}

func (e *Error) Error() string {
	loc := e.Path
	if e.Line > 0 {
		loc = fmt.Sprintf("%s:%d", e.Path, e.Line)
	}
	if e.Msg == "" {
		return fmt.Sprintf("%s: %v", loc, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %s", loc, e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Kind }
