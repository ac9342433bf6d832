package history

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/curvesplit/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), ".curvesplit", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func processedResult(session, run string) models.RunResult {
	table := models.NewCategoryTable()
	table.Append(models.CurveUL, models.Interval(2, 4))
	table.Append(models.Fixating, models.Interval(1, 3))
	return models.RunResult{
		ID: "0b8e1c2a-" + filepath.Base(session) + "-" + run,
		Run: models.Run{
			Name:        run,
			Path:        filepath.Join(session, run),
			BehaviorDir: filepath.Join(session, run, "behavior"),
		},
		Status:    models.StatusProcessed,
		TaskGroup: filepath.Join(session, run, "behavior", "CurveTracing"),
		EventLog:  filepath.Join(session, run, "behavior", "CurveTracing", "Log_S01_20170101T120000.csv"),
		Table:     table,
		Duration:  1500 * time.Millisecond,
	}
}

func TestNewStore_AppliesMigrations(t *testing.T) {
	store := newTestStore(t)

	version, err := store.GetLatestVersion()
	require.NoError(t, err)
	assert.Equal(t, len(migrations), version)

	versions, err := store.GetAppliedVersions()
	require.NoError(t, err)
	assert.Len(t, versions, len(migrations))
}

func TestNewStore_ReopenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	first, err := NewStore(path)
	require.NoError(t, err)
	require.NoError(t, first.RecordRun(context.Background(), processedResult("/data/S01", "run001")))
	require.NoError(t, first.Close())

	second, err := NewStore(path)
	require.NoError(t, err)
	defer second.Close()

	records, err := second.ListRuns(context.Background(), ListOptions{})
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestRecordAndListRuns(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.RecordRun(ctx, processedResult("/data/S01", "run001")))

	failed := models.RunResult{
		Run:    models.Run{Name: "run002", Path: "/data/S01/run002"},
		Status: models.StatusFailed,
		Error:  errors.New("missing reference event"),
	}
	require.NoError(t, store.RecordRun(ctx, failed))
	require.NoError(t, store.RecordRun(ctx, processedResult("/data/S02", "run001")))

	all, err := store.ListRuns(ctx, ListOptions{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "/data/S02", all[0].SessionPath, "most recent first")

	s01, err := store.ListRuns(ctx, ListOptions{Session: "/data/S01"})
	require.NoError(t, err)
	require.Len(t, s01, 2)

	failedRec := s01[0]
	assert.Equal(t, "run002", failedRec.RunName)
	assert.Equal(t, models.StatusFailed, failedRec.Status)
	assert.Equal(t, "missing reference event", failedRec.ErrorMessage)
	assert.NotEmpty(t, failedRec.ID, "an id is generated when the result has none")
	assert.Empty(t, failedRec.CategoryCounts)

	ok := s01[1]
	assert.Equal(t, "0b8e1c2a-S01-run001", ok.ID)
	assert.Equal(t, "/data/S01/run001", ok.RunPath)
	assert.Equal(t, 2, ok.EventCount)
	assert.Equal(t, 1, ok.CategoryCounts["CurveUL"])
	assert.Equal(t, 0, ok.CategoryCounts["Reward"])
	assert.Len(t, ok.CategoryCounts, len(models.Categories()))
	assert.Equal(t, 1500*time.Millisecond, ok.Duration)
	assert.False(t, ok.ProcessedAt.IsZero())

	limited, err := store.ListRuns(ctx, ListOptions{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestRecordRun_SameRunNameInTwoSessions(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first := processedResult("/data/S01", "run001")
	second := processedResult("/data/S02", "run001")
	require.NotEqual(t, first.ID, second.ID)
	require.NoError(t, store.RecordRun(ctx, first))
	require.NoError(t, store.RecordRun(ctx, second))

	for _, session := range []string{"/data/S01", "/data/S02"} {
		records, err := store.ListRuns(ctx, ListOptions{Session: session})
		require.NoError(t, err)
		require.Len(t, records, 1, session)
		assert.Equal(t, "run001", records[0].RunName)
		assert.Equal(t, filepath.Join(session, "run001"), records[0].RunPath)
	}
}

func TestInMemoryStore(t *testing.T) {
	store, err := NewStore(":memory:")
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.RecordRun(context.Background(), processedResult("/data/S01", "run001")))
	records, err := store.ListRuns(context.Background(), ListOptions{})
	require.NoError(t, err)
	assert.Len(t, records, 1)
}
