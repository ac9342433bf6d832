// Package history keeps a SQLite ledger of processed runs, so a session can
// be audited after the fact: which event log produced which model files, and
// which runs failed and why.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/harrison/curvesplit/internal/models"
)

// RunRecord is one ledger row.
type RunRecord struct {
	ID             string
	SessionPath    string
	RunName        string
	RunPath        string
	TaskGroup      string
	EventLog       string
	Status         string
	ErrorMessage   string
	EventCount     int
	CategoryCounts map[string]int
	Duration       time.Duration
	ProcessedAt    time.Time
}

// ListOptions filters ListRuns.
type ListOptions struct {
	// Session restricts results to one session directory.
	Session string
	// Limit caps the number of records (0 = no limit).
	Limit int
}

// Store manages the SQLite ledger.
type Store struct {
	db     *sql.DB
	dbPath string
}

// NewStore opens the ledger at dbPath, creating it and its directory if needed.
func NewStore(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}
	return openAndInitStore(dbPath)
}

func openAndInitStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if dbPath == ":memory:" {
		// every connection would otherwise see its own empty database
		db.SetMaxOpenConns(1)
	}

	pragmas := []string{
		"PRAGMA busy_timeout=5000", // Must be first
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
	}
	for _, pragma := range pragmas {
		if err := execWithRetry(db, pragma, 5, 10*time.Millisecond); err != nil {
			db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	store := &Store{db: db, dbPath: dbPath}
	if err := store.ApplyMigrations(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return store, nil
}

// execWithRetry executes a statement with exponential backoff on lock errors.
func execWithRetry(db *sql.DB, stmt string, maxRetries int, baseDelay time.Duration) error {
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		_, err := db.Exec(stmt)
		if err == nil {
			return nil
		}
		if !strings.Contains(err.Error(), "database is locked") {
			return err
		}
		lastErr = err
		time.Sleep(baseDelay * time.Duration(1<<attempt))
	}
	return lastErr
}

// Path returns the database path.
func (s *Store) Path() string {
	return s.dbPath
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// RecordRun appends a run result to the ledger. The session is the parent of
// the run directory.
func (s *Store) RecordRun(ctx context.Context, result models.RunResult) error {
	id := result.ID
	if id == "" {
		id = uuid.NewString()
	}

	var errMsg string
	if result.Error != nil {
		errMsg = result.Error.Error()
	}

	var eventCount int
	countsJSON := "{}"
	if result.Table != nil {
		eventCount = result.Table.Total()
		counts := make(map[string]int)
		for c, n := range result.Table.Counts() {
			counts[string(c)] = n
		}
		data, err := json.Marshal(counts)
		if err != nil {
			return fmt.Errorf("marshal category counts: %w", err)
		}
		countsJSON = string(data)
	}

	query := `INSERT INTO processed_runs
		(id, session_path, run_name, run_path, task_group, event_log, status, error_message, event_count, category_counts, duration_ms, processed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		id,
		filepath.Dir(result.Run.Path),
		result.Run.Name,
		result.Run.Path,
		result.TaskGroup,
		result.EventLog,
		result.Status,
		errMsg,
		eventCount,
		countsJSON,
		result.Duration.Milliseconds(),
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert processed run: %w", err)
	}
	return nil
}

// ListRuns returns ledger records, most recent first.
func (s *Store) ListRuns(ctx context.Context, opts ListOptions) ([]*RunRecord, error) {
	query := `SELECT id, session_path, run_name, run_path, task_group, event_log, status, error_message, event_count, category_counts, duration_ms, processed_at
		FROM processed_runs`
	var args []interface{}
	if opts.Session != "" {
		query += ` WHERE session_path = ?`
		args = append(args, opts.Session)
	}
	query += ` ORDER BY processed_at DESC, rowid DESC`
	if opts.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, opts.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query processed runs: %w", err)
	}
	defer rows.Close()

	var records []*RunRecord
	for rows.Next() {
		rec := &RunRecord{}
		var taskGroup, eventLog, errorMessage, counts sql.NullString
		var eventCount, durationMs sql.NullInt64
		err := rows.Scan(
			&rec.ID,
			&rec.SessionPath,
			&rec.RunName,
			&rec.RunPath,
			&taskGroup,
			&eventLog,
			&rec.Status,
			&errorMessage,
			&eventCount,
			&counts,
			&durationMs,
			&rec.ProcessedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan processed run: %w", err)
		}
		rec.TaskGroup = taskGroup.String
		rec.EventLog = eventLog.String
		rec.ErrorMessage = errorMessage.String
		rec.EventCount = int(eventCount.Int64)
		rec.Duration = time.Duration(durationMs.Int64) * time.Millisecond
		if counts.Valid && counts.String != "" {
			if err := json.Unmarshal([]byte(counts.String), &rec.CategoryCounts); err != nil {
				return nil, fmt.Errorf("unmarshal category counts: %w", err)
			}
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate processed runs: %w", err)
	}
	return records, nil
}
