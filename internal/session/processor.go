// Package session processes the runs of a curve-tracing session: it finds
// each run's event log, classifies it and writes the model files.
//
// Runs are independent. A run that fails is reported and skipped, and its
// model directory is left untouched; the other runs of the batch still
// complete.
package session

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/harrison/curvesplit/internal/classifier"
	"github.com/harrison/curvesplit/internal/eventlog"
	"github.com/harrison/curvesplit/internal/models"
	"github.com/harrison/curvesplit/internal/modelwriter"
	"github.com/harrison/curvesplit/internal/normalizer"
)

// Logger receives progress events. Implementations must be safe for
// concurrent use when MaxConcurrency is above one.
type Logger interface {
	LogRunStart(run models.Run)
	LogRunComplete(result models.RunResult)
	LogSummary(result models.BatchResult)
	LogWarn(message string)
}

// Recorder persists run results, typically to the history ledger.
type Recorder interface {
	RecordRun(ctx context.Context, result models.RunResult) error
}

// Options configures a Processor.
type Options struct {
	// OutputDir is the model directory, relative to the run directory.
	OutputDir string
	// DryRun classifies without writing model files.
	DryRun bool
	// MaxConcurrency bounds parallel runs (0 = one goroutine per run).
	MaxConcurrency int
	// Read controls event log validation.
	Read eventlog.ReadOptions
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		OutputDir:      modelwriter.DefaultDir,
		MaxConcurrency: 1,
		Read:           eventlog.DefaultReadOptions(),
	}
}

// Processor runs the load, normalize, classify and write pipeline per run.
type Processor struct {
	opts     Options
	logger   Logger
	recorder Recorder
}

// NewProcessor creates a Processor. logger and recorder may be nil.
func NewProcessor(opts Options, logger Logger, recorder Recorder) *Processor {
	if opts.OutputDir == "" {
		opts.OutputDir = modelwriter.DefaultDir
	}
	return &Processor{opts: opts, logger: logger, recorder: recorder}
}

// ProcessRun processes a single run. Failures are reported in the result,
// never as a panic, and no model file is written for a failed run.
func (p *Processor) ProcessRun(ctx context.Context, run models.Run) models.RunResult {
	start := time.Now()
	result := models.RunResult{ID: uuid.NewString(), Run: run}

	if p.logger != nil {
		p.logger.LogRunStart(run)
	}

	if err := p.process(run, &result); err != nil {
		result.Status = models.StatusFailed
		result.Error = err
		result.Table = nil
	} else if p.opts.DryRun {
		result.Status = models.StatusValidated
	} else {
		result.Status = models.StatusProcessed
	}
	result.Duration = time.Since(start)

	if p.recorder != nil {
		if err := p.recorder.RecordRun(ctx, result); err != nil && p.logger != nil {
			p.logger.LogWarn(fmt.Sprintf("failed to record %s in history: %v", run.Name, err))
		}
	}
	if p.logger != nil {
		p.logger.LogRunComplete(result)
	}
	return result
}

func (p *Processor) process(run models.Run, result *models.RunResult) error {
	taskGroup, err := FindTaskGroup(run.BehaviorDir)
	if err != nil {
		return NewRunError(run.Name, PhaseDiscover, err)
	}
	result.TaskGroup = taskGroup

	logPath, err := eventlog.FindEventLog(taskGroup)
	if err != nil {
		return NewRunError(run.Name, PhaseDiscover, err)
	}
	result.EventLog = logPath

	params, err := eventlog.LoadStimulusParameters(taskGroup)
	if err != nil {
		return NewRunError(run.Name, PhaseLoad, err)
	}
	raw, err := eventlog.ReadFile(logPath, p.opts.Read)
	if err != nil {
		return NewRunError(run.Name, PhaseLoad, err)
	}

	log, err := normalizer.Normalize(raw)
	if err != nil {
		return NewRunError(run.Name, PhaseNormalize, err)
	}

	table, err := classifier.Classify(log.Events, params)
	if err != nil {
		return NewRunError(run.Name, PhaseClassify, fmt.Errorf("%s: %w", logPath, err))
	}
	result.Table = table

	if p.opts.DryRun {
		return nil
	}

	files, err := modelwriter.Write(filepath.Join(run.Path, p.opts.OutputDir), table)
	if err != nil {
		return NewRunError(run.Name, PhaseWrite, err)
	}
	result.Files = files
	return nil
}

// ProcessAll processes runs with at most MaxConcurrency in flight and returns
// the results in input order. The error is a *BatchError when any run failed.
// Canceling ctx stops runs that have not started yet; a started run always
// finishes.
func (p *Processor) ProcessAll(ctx context.Context, runs []models.Run) (*models.BatchResult, error) {
	start := time.Now()
	results := make([]models.RunResult, len(runs))

	limit := p.opts.MaxConcurrency
	if limit <= 0 || limit > len(runs) {
		limit = len(runs)
	}

	// Runs never cancel each other, so the group carries no context.
	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, run := range runs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = models.RunResult{
					ID:     uuid.NewString(),
					Run:    run,
					Status: models.StatusFailed,
					Error:  NewRunError(run.Name, PhasePending, err),
				}
				return nil
			}
			results[i] = p.ProcessRun(ctx, run)
			return nil
		})
	}
	_ = g.Wait()

	batch := aggregateResults(results, time.Since(start))
	if p.logger != nil {
		p.logger.LogSummary(*batch)
	}

	if batch.Failed == 0 {
		return batch, nil
	}
	batchErr := NewBatchError(batch.TotalRuns)
	for _, r := range batch.FailedRuns {
		runErr, ok := r.Error.(*RunError)
		if !ok {
			runErr = NewRunError(r.Run.Name, PhasePending, r.Error)
		}
		batchErr.AddRun(runErr)
	}
	return batch, batchErr
}

// aggregateResults builds the batch summary from per-run results.
func aggregateResults(results []models.RunResult, duration time.Duration) *models.BatchResult {
	batch := &models.BatchResult{
		TotalRuns:  len(results),
		Duration:   duration,
		Results:    results,
		FailedRuns: []models.RunResult{},
	}
	for _, r := range results {
		if r.Status == models.StatusFailed || r.Error != nil {
			batch.Failed++
			batch.FailedRuns = append(batch.FailedRuns, r)
		} else {
			batch.Processed++
		}
	}
	return batch
}
