// Package scheduler implements the incremental build orchestrator: it
// decides which jobs of a plan must run, drives them through the task
// executor, reacts to completions by reloading dependency information, and
// derives the run's exit code and next build record.
package scheduler

import (
	"context"
	"os"

	"go.trai.ch/mill/internal/core/domain"
	"go.trai.ch/mill/internal/core/ports"
	"go.trai.ch/zerr"
)

// JobStatus represents the status of a job during and after a run.
type JobStatus string

const (
	// StatusPending indicates the job is committed and waiting for the
	// executor.
	StatusPending JobStatus = "Pending"
	// StatusBlocked indicates the job waits on an unfinished input.
	StatusBlocked JobStatus = "Blocked"
	// StatusRunning indicates the job was handed to the executor.
	StatusRunning JobStatus = "Running"
	// StatusCompleted indicates the job finished successfully.
	StatusCompleted JobStatus = "Completed"
	// StatusFailed indicates the job exited non-zero or abnormally.
	StatusFailed JobStatus = "Failed"
	// StatusSkipped indicates the incremental decision never ran the job.
	StatusSkipped JobStatus = "Skipped"
	// StatusCancelled indicates a batch constituent that produced no
	// diagnostics of its own when its containing batch failed.
	StatusCancelled JobStatus = "Cancelled"
)

// Terminal reports whether the status is final for a run.
func (s JobStatus) Terminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusSkipped, StatusCancelled:
		return true
	default:
		return false
	}
}

// Config carries the knobs the scheduler consumes.
type Config struct {
	// Incremental enables deferral of up-to-date jobs.
	Incremental bool

	// BatchMode merges combinable pending jobs into batch invocations.
	// Requires ContinueAfterErrors.
	BatchMode bool

	// BatchCount fixes the partition count explicitly; 0 derives it.
	BatchCount int

	// BatchSizeLimit caps constituents per batch; 0 means the default.
	BatchSizeLimit int

	// BatchSeed deterministically shuffles batch assignment; 0 disables.
	BatchSeed int64

	// ContinueAfterErrors keeps submitting work after a job failure.
	ContinueAfterErrors bool

	// Parallelism is the executor's process limit.
	Parallelism int
}

// Result is the outcome of one run.
type Result struct {
	// ExitCode is 0 on success, the first failing job's exit code otherwise,
	// or SignalExitCode if any job was signalled.
	ExitCode int

	// AbnormalExit is set when a job was signalled or could not be launched.
	// It suppresses cleanup of temp outputs marked preserve-on-signal.
	AbnormalExit bool

	// Statuses holds the terminal (or last observed) status per job.
	Statuses map[domain.JobID]JobStatus

	// InputStatuses is the per-primary-input state to persist in the next
	// build record.
	InputStatuses map[string]domain.InputStatus
}

// Scheduler owns the scheduling state for a plan and performs one run.
type Scheduler struct {
	plan     *domain.Plan
	graph    ports.DependencyGraph
	executor ports.TaskExecutor
	progress ports.ProgressSink
	logger   ports.Logger
	cfg      Config

	// record is the previous run's build record, nil on a clean build.
	record *domain.BuildRecord

	// diagnosticsNonEmpty decides batch failure attribution. Injectable for
	// tests; defaults to a file-size check.
	diagnosticsNonEmpty func(path string) bool
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithDiagnosticsCheck overrides how constituent diagnostics files are
// probed during batch failure attribution.
func WithDiagnosticsCheck(fn func(path string) bool) Option {
	return func(s *Scheduler) {
		s.diagnosticsNonEmpty = fn
	}
}

// New creates a Scheduler. It validates the plan and rejects configurations
// that enable batching without continue-after-errors: a batch's single exit
// code cannot be attributed to one constituent, so the run must be able to
// continue past a failing batch.
func New(
	plan *domain.Plan,
	graph ports.DependencyGraph,
	executor ports.TaskExecutor,
	progress ports.ProgressSink,
	logger ports.Logger,
	record *domain.BuildRecord,
	cfg Config,
	opts ...Option,
) (*Scheduler, error) {
	if cfg.BatchMode && !cfg.ContinueAfterErrors {
		return nil, domain.ErrBatchRequiresContinue
	}
	if cfg.Parallelism <= 0 {
		cfg.Parallelism = 1
	}
	if err := plan.Validate(); err != nil {
		return nil, zerr.Wrap(err, "invalid build plan")
	}

	s := &Scheduler{
		plan:                plan,
		graph:               graph,
		executor:            executor,
		progress:            progress,
		logger:              logger,
		record:              record,
		cfg:                 cfg,
		diagnosticsNonEmpty: fileNonEmpty,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func fileNonEmpty(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Size() > 0
}

// PerformJobs runs the plan to completion and returns the result. All
// scheduling and graph mutation happens on the calling goroutine, driven by
// the executor's event channel; the executor alone runs work concurrently.
func (s *Scheduler) PerformJobs(ctx context.Context) *Result {
	state := s.newRunState(ctx)
	state.seedGraph()
	state.checkExternalDependencies()
	state.computeInitialJobs()
	state.run()
	return state.finalize()
}
