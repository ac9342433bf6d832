// Package eventlog loads the CSV files a curve-tracing session leaves behind:
// the per-run event log and the per-task stimulus parameter tables.
package eventlog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/harrison/curvesplit/internal/models"
)

// Column names in the event log header.
const (
	ColTime       = "time_s"
	ColRecordTime = "record_time_s"
	ColTask       = "task"
	ColEvent      = "event"
	ColInfo       = "info"
	ColID         = "id"
)

var requiredColumns = []string{ColTime, ColTask, ColEvent, ColInfo}

// ReadOptions controls task validation while reading.
type ReadOptions struct {
	// Tasks is the set of accepted task names.
	Tasks models.TaskSet
	// Strict rejects rows whose task is not in Tasks.
	Strict bool
}

// DefaultReadOptions accepts the built-in tasks only.
func DefaultReadOptions() ReadOptions {
	return ReadOptions{Tasks: models.NewTaskSet(), Strict: true}
}

// ReadFile reads the event log at path.
func ReadFile(path string, opts ReadOptions) (*models.EventLog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open event log: %w", err)
	}
	defer f.Close()

	return Read(f, path, opts)
}

// Read parses an event log from r. Columns are located by header name, so
// column order does not matter and unknown columns are ignored. path is only
// used in error messages.
func Read(r io.Reader, path string, opts ReadOptions) (*models.EventLog, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err == io.EOF {
		return nil, &Error{Kind: ErrMissingColumn, Path: path, Msg: "file has no header row"}
	}
	if err != nil {
		return nil, csvError(path, err)
	}

	cols := indexColumns(header)
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, &Error{Kind: ErrMissingColumn, Path: path, Line: 1, Msg: strconv.Quote(name)}
		}
	}
	recIdx, hasRecordTime := cols[ColRecordTime]
	idIdx, hasID := cols[ColID]

	log := &models.EventLog{Path: path, HasRecordTime: hasRecordTime}
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, csvError(path, err)
		}
		line, _ := cr.FieldPos(0)

		ev := models.LogEvent{
			RecordTime: math.NaN(),
			Task:       models.Task(strings.TrimSpace(rec[cols[ColTask]])),
			Event:      strings.TrimSpace(rec[cols[ColEvent]]),
			Info:       strings.TrimSpace(rec[cols[ColInfo]]),
			Line:       line,
		}

		ev.Time, err = parseTime(rec[cols[ColTime]])
		if err != nil {
			return nil, &Error{Kind: ErrInvalidTime, Path: path, Line: line, Msg: fmt.Sprintf("%s %q", ColTime, rec[cols[ColTime]])}
		}
		if hasRecordTime && strings.TrimSpace(rec[recIdx]) != "" {
			ev.RecordTime, err = parseTime(rec[recIdx])
			if err != nil {
				return nil, &Error{Kind: ErrInvalidTime, Path: path, Line: line, Msg: fmt.Sprintf("%s %q", ColRecordTime, rec[recIdx])}
			}
		}
		if hasID {
			ev.ID = strings.TrimSpace(rec[idIdx])
		}

		if opts.Strict && !opts.Tasks.Contains(ev.Task) {
			return nil, &Error{Kind: ErrUnknownTask, Path: path, Line: line, Msg: strconv.Quote(string(ev.Task))}
		}

		log.Events = append(log.Events, ev)
	}

	return log, nil
}

// indexColumns maps trimmed header names to their column index. The first
// occurrence of a duplicated name wins.
func indexColumns(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		name = strings.TrimSpace(name)
		if _, dup := cols[name]; !dup {
			cols[name] = i
		}
	}
	return cols
}

// parseTime accepts finite decimal seconds only.
func parseTime(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("non-finite time %q", s)
	}
	return v, nil
}

func csvError(path string, err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &Error{Kind: ErrMalformedCSV, Path: path, Line: pe.Line, Msg: pe.Err.Error()}
	}
	return fmt.Errorf("failed to read %s: %w", path, err)
}
