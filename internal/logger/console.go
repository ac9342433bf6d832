// Package logger reports batch progress for curvesplit.
//
// Loggers receive run-level events (start, completion, batch summary) and
// plain leveled messages. Implementations are thread-safe, so runs processed
// concurrently may share one logger.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/harrison/curvesplit/internal/models"
)

// Log level constants for filtering
const (
	levelTrace int = 0
	levelDebug int = 1
	levelInfo  int = 2
	levelWarn  int = 3
	levelError int = 4
)

// ConsoleLogger writes [HH:MM:SS]-prefixed progress lines to a writer.
// Color is enabled only when the writer is a terminal.
type ConsoleLogger struct {
	writer      io.Writer
	logLevel    string
	mutex       sync.Mutex
	colorOutput bool
	progress    *ProgressBar
}

// NewConsoleLogger creates a ConsoleLogger that writes to the provided io.Writer.
// If writer is nil, messages are silently discarded.
// Valid levels: trace, debug, info, warn, error (case-insensitive); anything
// else means "info".
func NewConsoleLogger(writer io.Writer, logLevel string) *ConsoleLogger {
	return &ConsoleLogger{
		writer:      writer,
		logLevel:    normalizeLogLevel(logLevel),
		colorOutput: isTerminal(writer),
	}
}

// isTerminal reports whether w is a TTY and color has not been disabled
// (NO_COLOR, TERM=dumb).
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok || f == nil {
		return false
	}
	if color.NoColor {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// normalizeLogLevel lowercases level and falls back to "info".
func normalizeLogLevel(level string) string {
	normalized := strings.ToLower(strings.TrimSpace(level))

	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if validLevels[normalized] {
		return normalized
	}
	return "info"
}

// IsValidLevel reports whether level names a known log level.
func IsValidLevel(level string) bool {
	l := strings.ToLower(strings.TrimSpace(level))
	return normalizeLogLevel(l) == l
}

func (cl *ConsoleLogger) shouldLog(messageLevel string) bool {
	return logLevelToInt(messageLevel) >= logLevelToInt(cl.logLevel)
}

// logLevelToInt converts a log level string to its numeric value.
func logLevelToInt(level string) int {
	switch level {
	case "trace":
		return levelTrace
	case "debug":
		return levelDebug
	case "info":
		return levelInfo
	case "warn":
		return levelWarn
	case "error":
		return levelError
	default:
		return levelInfo
	}
}

// LogTrace logs a trace-level message.
func (cl *ConsoleLogger) LogTrace(message string) {
	cl.logWithLevel("TRACE", message)
}

// LogDebug logs a debug-level message.
func (cl *ConsoleLogger) LogDebug(message string) {
	cl.logWithLevel("DEBUG", message)
}

// LogInfo logs an info-level message.
func (cl *ConsoleLogger) LogInfo(message string) {
	cl.logWithLevel("INFO", message)
}

// LogWarn logs a warning-level message.
func (cl *ConsoleLogger) LogWarn(message string) {
	cl.logWithLevel("WARN", message)
}

// LogError logs an error-level message.
func (cl *ConsoleLogger) LogError(message string) {
	cl.logWithLevel("ERROR", message)
}

// logWithLevel writes "[HH:MM:SS] [LEVEL] message" if the level passes the filter.
func (cl *ConsoleLogger) logWithLevel(level string, message string) {
	if cl.writer == nil || !cl.shouldLog(strings.ToLower(level)) {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	ts := timestamp()
	if cl.colorOutput {
		cl.writer.Write([]byte(cl.formatWithColor(ts, level, message)))
		return
	}
	fmt.Fprintf(cl.writer, "[%s] [%s] %s\n", ts, level, message)
}

func (cl *ConsoleLogger) formatWithColor(ts, level, message string) string {
	var coloredLevel string

	switch strings.ToUpper(level) {
	case "TRACE":
		coloredLevel = color.New(color.FgHiBlack).Sprint(level)
	case "DEBUG":
		coloredLevel = color.New(color.FgCyan).Sprint(level)
	case "INFO":
		coloredLevel = color.New(color.FgBlue).Sprint(level)
	case "WARN":
		coloredLevel = color.New(color.FgYellow).Sprint(level)
	case "ERROR":
		coloredLevel = color.New(color.FgRed).Sprint(level)
	default:
		coloredLevel = level
	}

	return fmt.Sprintf("[%s] [%s] %s\n", ts, coloredLevel, message)
}

// SetTotal enables a progress line after every completed run of a batch of
// total runs. Batches of one run print no progress.
func (cl *ConsoleLogger) SetTotal(total int) {
	cl.mutex.Lock()
	defer cl.mutex.Unlock()
	if total > 1 {
		cl.progress = NewProgressBar(total, 20, cl.colorOutput)
		cl.progress.SetPrefix("Progress: ")
	} else {
		cl.progress = nil
	}
}

// LogRunStart logs the start of a run at INFO level.
// Format: "[HH:MM:SS] Processing <run> (<behavior dir>)"
func (cl *ConsoleLogger) LogRunStart(run models.Run) {
	if cl.writer == nil || !cl.shouldLog("info") {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	name := run.Name
	if cl.colorOutput {
		name = color.New(color.Bold).Sprint(run.Name)
	}
	fmt.Fprintf(cl.writer, "[%s] Processing %s (%s)\n", timestamp(), name, run.BehaviorDir)
}

// LogRunComplete logs a run's outcome at INFO level, followed by its
// per-category counts at DEBUG level and a progress line when enabled.
// Failed runs are logged at ERROR level with the cause.
func (cl *ConsoleLogger) LogRunComplete(result models.RunResult) {
	if cl.writer == nil {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	ts := timestamp()
	var out strings.Builder

	status := result.Status
	if cl.colorOutput {
		status = statusColor(result.Status).Sprint(result.Status)
	}

	if result.Status == models.StatusFailed {
		if cl.shouldLog("error") {
			fmt.Fprintf(&out, "[%s] %s %s: %v\n", ts, result.Run.Name, status, result.Error)
		}
	} else if cl.shouldLog("info") {
		events := 0
		if result.Table != nil {
			events = result.Table.Total()
		}
		fmt.Fprintf(&out, "[%s] %s %s: %d events, %d files (%s)\n",
			ts, result.Run.Name, status, events, len(result.Files), formatDuration(result.Duration))
		if result.Table != nil && cl.shouldLog("debug") {
			fmt.Fprintf(&out, "[%s]   %s\n", ts, formatCategoryCounts(result.Table, cl.colorOutput))
		}
	}

	if cl.progress != nil {
		cl.progress.Increment()
		if cl.shouldLog("info") {
			fmt.Fprintf(&out, "[%s] %s\n", ts, cl.progress.Render())
		}
	}

	cl.writer.Write([]byte(out.String()))
}

// LogSummary logs the batch summary at INFO level.
func (cl *ConsoleLogger) LogSummary(result models.BatchResult) {
	if cl.writer == nil || !cl.shouldLog("info") {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	ts := timestamp()
	durationStr := formatDuration(result.Duration)

	var output string
	if cl.colorOutput {
		header := color.New(color.Bold).Sprint("=== Session Summary ===")
		output = fmt.Sprintf("[%s] %s\n", ts, header)
		output += fmt.Sprintf("[%s] Total runs: %d\n", ts, result.TotalRuns)
		output += fmt.Sprintf("[%s] %s\n", ts, color.New(color.FgGreen).Sprintf("Processed: %d", result.Processed))
		if result.Failed > 0 {
			output += fmt.Sprintf("[%s] %s\n", ts, color.New(color.FgRed).Sprintf("Failed: %d", result.Failed))
		} else {
			output += fmt.Sprintf("[%s] Failed: %d\n", ts, result.Failed)
		}
		output += fmt.Sprintf("[%s] Duration: %s\n", ts, durationStr)

		if len(result.FailedRuns) > 0 {
			output += fmt.Sprintf("[%s] %s\n", ts, color.New(color.FgRed).Sprint("Failed runs:"))
			for _, failed := range result.FailedRuns {
				name := color.New(color.FgRed).Sprint(failed.Run.Name)
				output += fmt.Sprintf("[%s]   - %s: %v\n", ts, name, failed.Error)
			}
		}
	} else {
		output = fmt.Sprintf("[%s] === Session Summary ===\n", ts)
		output += fmt.Sprintf("[%s] Total runs: %d\n", ts, result.TotalRuns)
		output += fmt.Sprintf("[%s] Processed: %d\n", ts, result.Processed)
		output += fmt.Sprintf("[%s] Failed: %d\n", ts, result.Failed)
		output += fmt.Sprintf("[%s] Duration: %s\n", ts, durationStr)

		if len(result.FailedRuns) > 0 {
			output += fmt.Sprintf("[%s] Failed runs:\n", ts)
			for _, failed := range result.FailedRuns {
				output += fmt.Sprintf("[%s]   - %s: %v\n", ts, failed.Run.Name, failed.Error)
			}
		}
	}

	cl.writer.Write([]byte(output))
}

// timestamp returns the current time formatted as "15:04:05" (HH:MM:SS).
func timestamp() string {
	return time.Now().Format("15:04:05")
}

// formatDuration converts a time.Duration to a human-readable string.
// Examples: "250ms", "5s", "1m30s", "2h15m"
func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Hour:
		hours := d / time.Hour
		remainder := d % time.Hour
		if remainder == 0 {
			return fmt.Sprintf("%dh", hours)
		}
		minutes := remainder / time.Minute
		remainder = remainder % time.Minute
		if remainder == 0 {
			return fmt.Sprintf("%dh%dm", hours, minutes)
		}
		seconds := remainder / time.Second
		return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
	case d >= time.Minute:
		minutes := d / time.Minute
		remainder := d % time.Minute
		if remainder == 0 {
			return fmt.Sprintf("%dm", minutes)
		}
		seconds := remainder / time.Second
		return fmt.Sprintf("%dm%ds", minutes, seconds)
	case d >= time.Second:
		return fmt.Sprintf("%ds", int64(d.Seconds()))
	default:
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
}

// NoOpLogger discards everything.
type NoOpLogger struct{}

// NewNoOpLogger creates a NoOpLogger instance.
func NewNoOpLogger() *NoOpLogger {
	return &NoOpLogger{}
}

// LogRunStart is a no-op implementation.
func (n *NoOpLogger) LogRunStart(run models.Run) {}

// LogRunComplete is a no-op implementation.
func (n *NoOpLogger) LogRunComplete(result models.RunResult) {}

// LogSummary is a no-op implementation.
func (n *NoOpLogger) LogSummary(result models.BatchResult) {}

// LogWarn is a no-op implementation.
func (n *NoOpLogger) LogWarn(message string) {}
