package logger

import (
	"bytes"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/curvesplit/internal/models"
)

var levelOrder = []string{"trace", "debug", "info", "warn", "error"}

type leveled interface {
	LogTrace(string)
	LogDebug(string)
	LogInfo(string)
	LogWarn(string)
	LogError(string)
}

// logEveryLevel writes "<level> message" once per level.
func logEveryLevel(l leveled) {
	l.LogTrace("trace message")
	l.LogDebug("debug message")
	l.LogInfo("info message")
	l.LogWarn("warn message")
	l.LogError("error message")
}

// assertThreshold checks that exactly the levels at or above min appear.
func assertThreshold(t *testing.T, output, min string) {
	t.Helper()
	visible := false
	for _, level := range levelOrder {
		if level == min {
			visible = true
		}
		msg := level + " message"
		if visible {
			assert.Contains(t, output, msg, "at %s level", min)
		} else {
			assert.NotContains(t, output, msg, "at %s level", min)
		}
	}
}

func TestConsoleLoggerLevelThreshold(t *testing.T) {
	for _, level := range levelOrder {
		t.Run(level, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logEveryLevel(NewConsoleLogger(buf, level))
			assertThreshold(t, buf.String(), level)
		})
	}
}

func TestFileLoggerLevelThreshold(t *testing.T) {
	for _, level := range []string{"debug", "warn"} {
		t.Run(level, func(t *testing.T) {
			fl, err := NewFileLoggerWithDirAndLevel(t.TempDir(), level)
			require.NoError(t, err)
			defer fl.Close()

			logEveryLevel(fl)
			assertThreshold(t, readFileLoggerOutput(t, fl), level)
		})
	}
}

func TestNewFileLoggerUsesDefaultLevel(t *testing.T) {
	fl, err := NewFileLoggerWithDir(t.TempDir())
	require.NoError(t, err)
	defer fl.Close()

	logEveryLevel(fl)
	assertThreshold(t, readFileLoggerOutput(t, fl), "info")
}

func TestRunEventsRespectLogLevel(t *testing.T) {
	tests := []struct {
		logLevel     string
		shouldAppear bool
	}{
		{"trace", true},
		{"debug", true},
		{"info", true},
		{"warn", false},
		{"error", false},
	}

	for _, tt := range tests {
		t.Run(tt.logLevel, func(t *testing.T) {
			buf := &bytes.Buffer{}
			cl := NewConsoleLogger(buf, tt.logLevel)

			run := models.Run{Name: "run001", BehaviorDir: "/data/S01/run001/behavior"}
			cl.LogRunStart(run)
			cl.LogRunComplete(models.RunResult{Run: run, Status: models.StatusProcessed, Duration: 5 * time.Second})
			cl.LogSummary(models.BatchResult{TotalRuns: 1, Processed: 1, Duration: 5 * time.Second})

			assert.Equal(t, tt.shouldAppear, strings.Contains(buf.String(), "run001"), buf.String())
		})
	}
}

func TestFailedRunVisibleAtErrorLevel(t *testing.T) {
	buf := &bytes.Buffer{}
	cl := NewConsoleLogger(buf, "error")

	run := models.Run{Name: "run004"}
	cl.LogRunComplete(models.RunResult{Run: run, Status: models.StatusFailed, Error: os.ErrNotExist})

	assert.Contains(t, buf.String(), "run004 FAILED")
}

func TestLogLevelNormalization(t *testing.T) {
	tests := []struct {
		given string
		want  string
	}{
		{"", "info"},
		{"unknown", "info"},
		{"DEBUG", "debug"},
		{"WaRn", "warn"},
	}

	for _, tt := range tests {
		t.Run(tt.given, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logEveryLevel(NewConsoleLogger(buf, tt.given))
			assertThreshold(t, buf.String(), tt.want)
		})
	}
}

// readFileLoggerOutput flushes and returns the invocation log.
func readFileLoggerOutput(t *testing.T, fl *FileLogger) string {
	t.Helper()
	require.NoError(t, fl.runLog.Sync())
	content, err := os.ReadFile(fl.runFile)
	require.NoError(t, err)
	return string(content)
}
