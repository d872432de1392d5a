// Package app implements the application layer for mill: it ties the plan
// loader, the build record, the dependency graph, and the scheduler into one
// build run.
package app

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/mill/internal/adapters/exec"
	"go.trai.ch/mill/internal/build"
	"go.trai.ch/mill/internal/core/domain"
	"go.trai.ch/mill/internal/core/ports"
	"go.trai.ch/mill/internal/engine/depgraph"
	"go.trai.ch/mill/internal/engine/scheduler"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	recordStore  ports.BuildRecordStore
	depsLoader   ports.DependencyLoader
	progress     ports.ProgressSink
	logger       ports.Logger
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	store ports.BuildRecordStore,
	depsLoader ports.DependencyLoader,
	progress ports.ProgressSink,
	log ports.Logger,
) *App {
	return &App{
		configLoader: loader,
		recordStore:  store,
		depsLoader:   depsLoader,
		progress:     progress,
		logger:       log,
	}
}

// RunOptions carries the per-run knobs exposed on the CLI.
type RunOptions struct {
	Incremental         bool
	BatchMode           bool
	BatchCount          int
	BatchSizeLimit      int
	BatchSeed           int64
	ContinueAfterErrors bool
	Parallelism         int
}

// Run performs one build and returns its exit code: 0 on success, the first
// failing job's exit code, or domain.SignalExitCode for an abnormal exit.
func (a *App) Run(ctx context.Context, opts RunOptions) (int, error) {
	if opts.Parallelism <= 0 {
		opts.Parallelism = runtime.NumCPU()
	}

	plan, err := a.configLoader.Load(".")
	if err != nil {
		return 1, zerr.Wrap(err, "failed to load build plan")
	}

	prev, err := a.recordStore.Load()
	if err != nil {
		// An unreadable record is not fatal: build from scratch.
		a.logger.Error(zerr.Wrap(err, "ignoring unreadable build record"))
		prev = nil
	}

	optionsHash := hashOptions(opts)
	start := time.Now()

	scheduler.AssignConditions(plan, prev, build.Version, optionsHash, statModTime)

	graph := depgraph.New(a.depsLoader)
	executor := exec.New(opts.Parallelism, a.logger)

	sched, err := scheduler.New(plan, graph, executor, a.progress, a.logger, prev, scheduler.Config{
		Incremental:         opts.Incremental,
		BatchMode:           opts.BatchMode,
		BatchCount:          opts.BatchCount,
		BatchSizeLimit:      opts.BatchSizeLimit,
		BatchSeed:           opts.BatchSeed,
		ContinueAfterErrors: opts.ContinueAfterErrors,
		Parallelism:         opts.Parallelism,
	})
	if err != nil {
		return 1, err
	}

	result := sched.PerformJobs(ctx)

	a.cleanupTempOutputs(plan, result)

	if err := a.saveRecord(result, optionsHash, start); err != nil {
		a.logger.Error(zerr.Wrap(err, "failed to persist build record"))
	}

	if result.ExitCode != 0 {
		return result.ExitCode, zerr.With(domain.ErrBuildFailed, "exit_code", result.ExitCode)
	}
	return 0, nil
}

// Clean removes the build record and every declared output of the plan.
func (a *App) Clean(_ context.Context) error {
	plan, err := a.configLoader.Load(".")
	if err != nil {
		return zerr.Wrap(err, "failed to load build plan")
	}

	for job := range plan.Walk() {
		for _, out := range job.Outputs {
			if err := os.Remove(out); err != nil && !os.IsNotExist(err) {
				return zerr.With(zerr.Wrap(err, "failed to remove output"), "path", out)
			}
		}
	}

	return a.recordStore.Remove()
}

// cleanupTempOutputs removes scratch outputs of the run. After an abnormal
// exit, outputs marked preserve-on-signal are kept for post-mortem use.
func (a *App) cleanupTempOutputs(plan *domain.Plan, result *scheduler.Result) {
	for job := range plan.Walk() {
		path, ok := job.Outputs[domain.OutputTemp]
		if !ok {
			continue
		}
		if result.AbnormalExit && job.PreserveOnSignal {
			continue
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			a.logger.Error(zerr.With(zerr.Wrap(err, "failed to remove temp output"), "path", path))
		}
	}
}

// saveRecord writes the record the next incremental build resumes from.
func (a *App) saveRecord(result *scheduler.Result, optionsHash string, start time.Time) error {
	rec := domain.NewBuildRecord(build.Version, optionsHash, start)
	for input, status := range result.InputStatuses {
		modTime, err := statModTime(input)
		if err != nil {
			modTime = time.Time{}
		}
		rec.Inputs[input] = domain.InputInfo{
			PreviousModTime: modTime,
			Status:          status,
		}
	}
	return a.recordStore.Save(rec)
}

func statModTime(path string) (time.Time, error) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, err
	}
	return info.ModTime(), nil
}

// hashOptions fingerprints the scheduler-relevant options. A change forces a
// full rebuild on the next run.
func hashOptions(opts RunOptions) string {
	h := xxhash.New()
	_, _ = fmt.Fprintf(h, "incremental=%t;batch=%t;count=%d;limit=%d;seed=%d",
		opts.Incremental, opts.BatchMode, opts.BatchCount, opts.BatchSizeLimit, opts.BatchSeed)
	return fmt.Sprintf("%016x", h.Sum64())
}
