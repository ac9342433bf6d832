// Package normalizer rebases event log timestamps onto the scanner trigger.
//
// Every onset written to a model file is relative to the first MRI trigger the
// stimulus software received, so normalization runs before classification.
package normalizer

import (
	"errors"
	"fmt"

	"github.com/harrison/curvesplit/internal/models"
)

// ErrMissingReferenceEvent is returned when a log has no trigger-received row.
var ErrMissingReferenceEvent = errors.New("missing reference event")

// IsReference reports whether ev is a trigger-received row.
func IsReference(ev models.LogEvent) bool {
	return ev.Event == models.EventMRITrigger && ev.Info == models.InfoTriggerReceived
}

// ReferenceTime returns the time of the first trigger-received row.
func ReferenceTime(events []models.LogEvent) (float64, error) {
	for _, ev := range events {
		if IsReference(ev) {
			return ev.Time, nil
		}
	}
	return 0, fmt.Errorf("%w: no %s/%s row", ErrMissingReferenceEvent,
		models.EventMRITrigger, models.InfoTriggerReceived)
}

// Normalize returns a copy of log with Time and RecordTime shifted so that the
// first trigger-received row sits at zero. The input log is left untouched.
func Normalize(log *models.EventLog) (*models.EventLog, error) {
	ref, err := ReferenceTime(log.Events)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", log.Path, err)
	}

	events := make([]models.LogEvent, len(log.Events))
	for i, ev := range log.Events {
		ev.Time -= ref
		ev.RecordTime -= ref
		events[i] = ev
	}

	return &models.EventLog{
		Path:          log.Path,
		Events:        events,
		HasRecordTime: log.HasRecordTime,
	}, nil
}
