package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/harrison/curvesplit/internal/models"
)

// DefaultLogDir is where NewFileLogger writes, relative to the working directory.
const DefaultLogDir = ".curvesplit/logs"

// FileLogger writes a timestamped log per invocation to its log directory,
// one detail file per processed run under runs/, and keeps latest.log
// pointing at the newest invocation log.
type FileLogger struct {
	logDir   string
	runLog   *os.File
	runFile  string
	runsDir  string
	logLevel string
	mu       sync.Mutex
}

// NewFileLogger creates a FileLogger in DefaultLogDir at info level.
func NewFileLogger() (*FileLogger, error) {
	return NewFileLoggerWithDirAndLevel(filepath.FromSlash(DefaultLogDir), "info")
}

// NewFileLoggerWithDir creates a FileLogger in logDir at info level.
func NewFileLoggerWithDir(logDir string) (*FileLogger, error) {
	return NewFileLoggerWithDirAndLevel(logDir, "info")
}

// NewFileLoggerWithDirAndLevel creates a FileLogger with a custom log directory and level.
func NewFileLoggerWithDirAndLevel(logDir string, logLevel string) (*FileLogger, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	runsDir := filepath.Join(logDir, "runs")
	if err := os.MkdirAll(runsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create runs directory: %w", err)
	}

	// run-YYYYMMDD-HHMMSS.log
	ts := time.Now().Format("20060102-150405")
	runFile := filepath.Join(logDir, fmt.Sprintf("run-%s.log", ts))

	file, err := os.OpenFile(runFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create run log file: %w", err)
	}

	symlinkPath := filepath.Join(logDir, "latest.log")
	if _, err := os.Lstat(symlinkPath); err == nil {
		if err := os.Remove(symlinkPath); err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to remove old symlink: %w", err)
		}
	}
	if err := os.Symlink(filepath.Base(runFile), symlinkPath); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to create symlink: %w", err)
	}

	logger := &FileLogger{
		logDir:   logDir,
		runLog:   file,
		runFile:  runFile,
		runsDir:  runsDir,
		logLevel: normalizeLogLevel(logLevel),
	}

	logger.writeRunLog("=== curvesplit Log ===\n")
	logger.writeRunLog(fmt.Sprintf("Started at: %s\n\n", time.Now().Format(time.RFC3339)))

	return logger, nil
}

// Path returns the path of the invocation log.
func (fl *FileLogger) Path() string {
	return fl.runFile
}

func (fl *FileLogger) shouldLog(messageLevel string) bool {
	return logLevelToInt(messageLevel) >= logLevelToInt(fl.logLevel)
}

// LogTrace logs a trace-level message (most verbose).
func (fl *FileLogger) LogTrace(message string) {
	fl.logWithLevel("TRACE", message)
}

// LogDebug logs a debug-level message.
func (fl *FileLogger) LogDebug(message string) {
	fl.logWithLevel("DEBUG", message)
}

// LogInfo logs an info-level message.
func (fl *FileLogger) LogInfo(message string) {
	fl.logWithLevel("INFO", message)
}

// LogWarn logs a warning-level message.
func (fl *FileLogger) LogWarn(message string) {
	fl.logWithLevel("WARN", message)
}

// LogError logs an error-level message.
func (fl *FileLogger) LogError(message string) {
	fl.logWithLevel("ERROR", message)
}

func (fl *FileLogger) logWithLevel(level string, message string) {
	if !fl.shouldLog(strings.ToLower(level)) {
		return
	}
	fl.writeRunLog(fmt.Sprintf("[%s] [%s] %s\n", time.Now().Format("15:04:05"), level, message))
}

// LogRunStart logs the start of a run at INFO level.
func (fl *FileLogger) LogRunStart(run models.Run) {
	if !fl.shouldLog("info") {
		return
	}
	fl.writeRunLog(fmt.Sprintf("[%s] Starting %s (behavior: %s)\n",
		time.Now().Format("15:04:05"), run.Name, run.BehaviorDir))
}

// LogRunComplete logs the outcome of a run and writes its detail file,
// runs/<run>.log, with inputs, category counts, output files and any error.
func (fl *FileLogger) LogRunComplete(result models.RunResult) {
	level := "info"
	if result.Status == models.StatusFailed {
		level = "error"
	}
	if fl.shouldLog(level) {
		line := fmt.Sprintf("[%s] %s %s (%.1fs)", time.Now().Format("15:04:05"),
			result.Run.Name, result.Status, result.Duration.Seconds())
		if result.Error != nil {
			line += fmt.Sprintf(": %v", result.Error)
		}
		fl.writeRunLog(line + "\n")
	}

	if err := fl.writeRunDetail(result); err != nil {
		fl.logWithLevel("WARN", err.Error())
	}
}

func (fl *FileLogger) writeRunDetail(result models.RunResult) error {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	path := filepath.Join(fl.runsDir, fmt.Sprintf("%s.log", result.Run.Name))
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to create run detail log: %w", err)
	}
	defer file.Close()

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("=== %s ===\n", result.Run.Name))
	sb.WriteString(fmt.Sprintf("ID: %s\n", result.ID))
	sb.WriteString(fmt.Sprintf("Status: %s\n", result.Status))
	sb.WriteString(fmt.Sprintf("Duration: %.3fs\n", result.Duration.Seconds()))
	sb.WriteString(fmt.Sprintf("Behavior: %s\n", result.Run.BehaviorDir))
	if result.TaskGroup != "" {
		sb.WriteString(fmt.Sprintf("Task group: %s\n", result.TaskGroup))
	}
	if result.EventLog != "" {
		sb.WriteString(fmt.Sprintf("Event log: %s\n", result.EventLog))
	}

	if result.Table != nil {
		sb.WriteString("\nCategories:\n")
		for _, c := range models.Categories() {
			sb.WriteString(fmt.Sprintf("  %-20s %d\n", c, result.Table.Len(c)))
		}
	}
	if len(result.Files) > 0 {
		sb.WriteString("\nFiles:\n")
		for _, f := range result.Files {
			sb.WriteString(fmt.Sprintf("  %s\n", f))
		}
	}
	if result.Error != nil {
		sb.WriteString(fmt.Sprintf("\nError:\n%v\n", result.Error))
	}
	sb.WriteString(fmt.Sprintf("\nCompleted at: %s\n", time.Now().Format(time.RFC3339)))

	if _, err := file.WriteString(sb.String()); err != nil {
		return fmt.Errorf("failed to write run detail log: %w", err)
	}
	return nil
}

// LogSummary logs the batch summary at INFO level.
func (fl *FileLogger) LogSummary(result models.BatchResult) {
	if !fl.shouldLog("info") {
		return
	}

	ts := time.Now().Format("15:04:05")

	status := "SUCCESS"
	if result.Failed > 0 {
		if result.Processed == 0 {
			status = "FAILED"
		} else {
			status = "PARTIAL"
		}
	}

	message := fmt.Sprintf(
		"\n[%s] === SESSION SUMMARY ===\n"+
			"[%s] Total runs:   %d\n"+
			"[%s] Processed:    %d\n"+
			"[%s] Failed:       %d\n"+
			"[%s] Total time:   %.1fs\n"+
			"[%s] Status:       %s (%d/%d runs processed)\n"+
			"[%s] Completed at: %s\n",
		ts,
		ts, result.TotalRuns,
		ts, result.Processed,
		ts, result.Failed,
		ts, result.Duration.Seconds(),
		ts, status, result.Processed, result.TotalRuns,
		ts, time.Now().Format(time.RFC3339),
	)
	fl.writeRunLog(message)
}

// Close flushes and closes the invocation log. Closing twice is safe.
func (fl *FileLogger) Close() error {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	if fl.runLog != nil {
		if err := fl.runLog.Sync(); err != nil {
			return fmt.Errorf("failed to sync run log: %w", err)
		}
		if err := fl.runLog.Close(); err != nil {
			return fmt.Errorf("failed to close run log: %w", err)
		}
		fl.runLog = nil
	}
	return nil
}

// writeRunLog is a thread-safe helper to write to the invocation log.
func (fl *FileLogger) writeRunLog(message string) {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	if fl.runLog != nil {
		fl.runLog.WriteString(message)
		fl.runLog.Sync()
	}
}
