package logger

import "github.com/harrison/curvesplit/internal/models"

// RunLogger is the set of events a batch reports.
type RunLogger interface {
	LogRunStart(run models.Run)
	LogRunComplete(result models.RunResult)
	LogSummary(result models.BatchResult)
	LogWarn(message string)
}

// MultiLogger fans every event out to several loggers in order.
type MultiLogger struct {
	loggers []RunLogger
}

// NewMultiLogger combines loggers; nil entries are dropped.
func NewMultiLogger(loggers ...RunLogger) *MultiLogger {
	m := &MultiLogger{}
	for _, l := range loggers {
		if l != nil {
			m.loggers = append(m.loggers, l)
		}
	}
	return m
}

// LogRunStart forwards to every logger.
func (m *MultiLogger) LogRunStart(run models.Run) {
	for _, l := range m.loggers {
		l.LogRunStart(run)
	}
}

// LogRunComplete forwards to every logger.
func (m *MultiLogger) LogRunComplete(result models.RunResult) {
	for _, l := range m.loggers {
		l.LogRunComplete(result)
	}
}

// LogSummary forwards to every logger.
func (m *MultiLogger) LogSummary(result models.BatchResult) {
	for _, l := range m.loggers {
		l.LogSummary(result)
	}
}

// LogWarn forwards to every logger.
func (m *MultiLogger) LogWarn(message string) {
	for _, l := range m.loggers {
		l.LogWarn(message)
	}
}
