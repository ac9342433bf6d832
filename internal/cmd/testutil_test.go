package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"
)

// correctTrialLog is one correct trial targeting UL, trigger at t=5.
const correctTrialLog = `time_s,task,event,info
5.0,,MRI_Trigger,Received
6.0,Curve tracing,NewStimulus,0
6.5,Curve tracing,TargetLoc,UL
7.0,Curve tracing,NewState,PRESWITCH
8.0,Curve tracing,NewState,SWITCHED
8.5,Curve tracing,ResponseGiven,CORRECT
9.0,Curve tracing,NewState,POSTSWITCH
9.5,Curve tracing,NewState,TRIAL_END
`

// noTriggerLog fails normalization.
const noTriggerLog = `time_s,task,event,info
7.0,Curve tracing,TargetLoc,UL
7.0,Curve tracing,NewState,PRESWITCH
`

// setupWorkspace moves the test into an empty working directory with its own
// data home, so logs and the ledger stay inside t.TempDir.
func setupWorkspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("CURVESPLIT_HOME", filepath.Join(dir, ".curvesplit"))

	saved := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = saved })
	return dir
}

// writeRun lays out <session>/<run>/behavior/CurveTracing with an event log.
func writeRun(t *testing.T, sessionDir, run, eventLog string) string {
	t.Helper()
	group := filepath.Join(sessionDir, run, "behavior", "CurveTracing")
	require.NoError(t, os.MkdirAll(group, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(group, "Log_S01_20170101T120000_eventlog.csv"), []byte(eventLog), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(group, "Curve_tracing.stimulus-params.csv"), []byte("TargetLoc\nUL\n"), 0644))
	return filepath.Join(sessionDir, run, "behavior")
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return executeContext(t, context.Background(), args...)
}

func executeContext(t *testing.T, ctx context.Context, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand()
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	return buf.String(), err
}
