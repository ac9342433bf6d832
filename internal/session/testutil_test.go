package session

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/harrison/curvesplit/internal/models"
)

// scenarioALog is a single correct trial targeting UL, trigger at t=5.
const scenarioALog = `time_s,task,event,info
5.0,,MRI_Trigger,Received
6.0,Curve tracing,NewStimulus,0
6.5,Curve tracing,TargetLoc,UL
7.0,Curve tracing,NewState,PRESWITCH
8.0,Curve tracing,NewState,SWITCHED
8.5,Curve tracing,ResponseGiven,CORRECT
9.0,Curve tracing,NewState,POSTSWITCH
9.5,Curve tracing,NewState,TRIAL_END
`

// noTriggerLog has no trigger-received row.
const noTriggerLog = `time_s,task,event,info
7.0,Curve tracing,TargetLoc,UL
7.0,Curve tracing,NewState,PRESWITCH
`

// writeRun lays out <session>/<run>/behavior/<group>/ with an event log.
func writeRun(t *testing.T, sessionDir, run, eventLog string) models.Run {
	t.Helper()
	group := filepath.Join(sessionDir, run, BehaviorDirName, "CurveTracing")
	require.NoError(t, os.MkdirAll(group, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(group, "Log_S01_20170101T120000_eventlog.csv"), []byte(eventLog), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(group, "Curve_tracing.stimulus-params.csv"), []byte("TargetLoc\nUL\n"), 0644))

	r, err := RunFromBehavior(filepath.Join(sessionDir, run, BehaviorDirName))
	require.NoError(t, err)
	return r
}

type recordingLogger struct {
	mu        sync.Mutex
	started   []string
	completed []models.RunResult
	summaries []models.BatchResult
	warnings  []string
}

func (l *recordingLogger) LogRunStart(run models.Run) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.started = append(l.started, run.Name)
}

func (l *recordingLogger) LogRunComplete(result models.RunResult) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.completed = append(l.completed, result)
}

func (l *recordingLogger) LogSummary(result models.BatchResult) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.summaries = append(l.summaries, result)
}

func (l *recordingLogger) LogWarn(message string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warnings = append(l.warnings, message)
}

type stubRecorder struct {
	mu      sync.Mutex
	results []models.RunResult
	err     error
}

func (r *stubRecorder) RecordRun(ctx context.Context, result models.RunResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, result)
	return r.err
}
