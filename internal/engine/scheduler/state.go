package scheduler

import (
	"context"
	"slices"
	"time"

	"go.trai.ch/mill/internal/core/domain"
	"go.trai.ch/mill/internal/engine/batch"
	"go.trai.ch/zerr"
)

// runState owns all mutable scheduling state for one run. It is mutated
// only from the goroutine driving the event loop.
type runState struct {
	s   *Scheduler
	ctx context.Context

	// scheduled is write-once: a job enters it when it is committed to the
	// pending queue and never leaves.
	scheduled map[domain.JobID]struct{}

	// pending holds committed jobs awaiting submission, in commit order.
	pending []domain.JobID

	// blocked maps a blocking job to the jobs waiting on it. A waiter sits
	// in exactly one list at a time: its first unfinished input's.
	blocked map[domain.JobID][]domain.JobID

	finished map[domain.JobID]struct{}
	deferred map[domain.JobID]struct{}
	status   map[domain.JobID]JobStatus

	policy      ConditionPolicy
	partitioner *batch.Partitioner

	inFlight            int
	stopped             bool
	incrementalDisabled bool
	exitCode            int
	abnormal            bool
}

func (s *Scheduler) newRunState(ctx context.Context) *runState {
	return &runState{
		s:         s,
		ctx:       ctx,
		scheduled: make(map[domain.JobID]struct{}),
		blocked:   make(map[domain.JobID][]domain.JobID),
		finished:  make(map[domain.JobID]struct{}),
		deferred:  make(map[domain.JobID]struct{}),
		status:    make(map[domain.JobID]JobStatus),
		policy:    NewGraphPolicy(s.graph),
		partitioner: batch.NewPartitioner(batch.Options{
			Parallelism: s.cfg.Parallelism,
			Count:       s.cfg.BatchCount,
			SizeLimit:   s.cfg.BatchSizeLimit,
			Seed:        s.cfg.BatchSeed,
		}),
	}
}

func (st *runState) incrementalEnabled() bool {
	return st.s.cfg.Incremental && st.s.record != nil && !st.incrementalDisabled
}

// seedGraph loads the previous run's dependency descriptors for jobs whose
// condition consults the graph. A descriptor that cannot be loaded poisons
// the graph, so incremental mode is disabled for the whole run.
func (st *runState) seedGraph() {
	if !st.incrementalEnabled() {
		return
	}

	for job := range st.s.plan.Walk() {
		if job.Condition != domain.ConditionCheckDependencies &&
			job.Condition != domain.ConditionRunWithoutCascading {
			continue
		}
		path := job.DepsPath()
		if path == "" {
			continue
		}
		if st.s.graph.LoadFromPath(job.ID, path) == domain.LoadHadError {
			st.incrementalDisabled = true
			st.s.logger.Error(zerr.With(zerr.With(
				zerr.New("unreadable dependency descriptor, disabling incremental build"),
				"job", job.Name.String(),
			), "path", path))
			return
		}
	}
}

// checkExternalDependencies marks every job directly depending on an
// external path that changed since the last successful build started. The
// change counts as AffectsDownstream for those jobs, so the mark cascades.
func (st *runState) checkExternalDependencies() {
	if !st.incrementalEnabled() {
		return
	}

	since := st.s.record.BuildStartTime
	st.s.graph.ForEachExternalDependency(func(path string, modTime time.Time, dependents []domain.JobID) {
		// A zero mod-time marks a vanished external; treat it as stale.
		if !modTime.IsZero() && !modTime.After(since) {
			return
		}
		for _, id := range dependents {
			st.s.graph.MarkTransitive(id)
		}
	})
}

// computeInitialJobs derives the initial run/defer decision for every job in
// the plan. Outside incremental mode every job is treated as Always.
func (st *runState) computeInitialJobs() {
	incr := st.incrementalEnabled()
	for job := range st.s.plan.Walk() {
		if !incr {
			st.prepareUnconditional(job)
			continue
		}
		if st.policy.Decide(job) == DecisionSchedule {
			st.scheduleIfPossible(job.ID)
		} else {
			st.deferred[job.ID] = struct{}{}
		}
	}
}

// prepareUnconditional schedules a job as if its condition were Always:
// preemptively marked so a later crash still leaves the cascade assumed.
func (st *runState) prepareUnconditional(job *domain.Job) {
	if job.DepsPath() != "" {
		st.s.graph.MarkIntransitive(job.ID)
	}
	st.scheduleIfPossible(job.ID)
}

// scheduleIfPossible commits a job to the pending queue, or parks it under
// its first unfinished input. Already-committed jobs are a no-op.
func (st *runState) scheduleIfPossible(id domain.JobID) {
	if _, ok := st.scheduled[id]; ok {
		return
	}
	if blocker := st.firstUnfinishedInput(id); blocker != domain.InvalidJobID {
		st.blocked[blocker] = append(st.blocked[blocker], id)
		st.status[id] = StatusBlocked
		return
	}
	st.scheduled[id] = struct{}{}
	st.pending = append(st.pending, id)
	st.status[id] = StatusPending
}

func (st *runState) firstUnfinishedInput(id domain.JobID) domain.JobID {
	for _, in := range st.s.plan.Job(id).Inputs {
		if _, done := st.finished[in]; !done {
			return in
		}
	}
	return domain.InvalidJobID
}

// run drives the event loop: submit what is pending, wait for the next
// executor event, handle it, repeat. When no work remains, whatever is
// still deferred is skipped; if skipping unblocks jobs the loop resumes.
func (st *runState) run() {
	for {
		if !st.stopped {
			st.submitPending()
		}

		if st.inFlight == 0 {
			if st.stopped || len(st.pending) > 0 {
				// pending non-empty only when stopped; those jobs never run.
				break
			}
			if !st.skipDeferred() {
				break
			}
			continue
		}

		ev := <-st.s.executor.Events()
		if st.handleEvent(ev) == domain.StopExecution {
			st.stopped = true
		}
	}

	// Let already-running work drain, consuming its events so every
	// submitted job still reaches a terminal state.
	for st.inFlight > 0 {
		st.handleEvent(<-st.s.executor.Events())
	}
	st.s.executor.Drain()
}

// submitPending drains the pending queue through the partitioner (when
// batching) and hands the resulting invocations to the executor.
func (st *runState) submitPending() {
	if len(st.pending) == 0 {
		return
	}

	jobs := make([]*domain.Job, len(st.pending))
	for i, id := range st.pending {
		jobs[i] = st.s.plan.Job(id)
	}
	st.pending = st.pending[:0]

	var invocations []*domain.Invocation
	if st.s.cfg.BatchMode {
		invocations = st.partitioner.Partition(jobs)
	} else {
		for _, job := range jobs {
			invocations = append(invocations, &domain.Invocation{
				Jobs:    []domain.JobID{job.ID},
				Command: job.Command,
				Env:     job.Env,
			})
		}
	}

	for _, inv := range invocations {
		for _, id := range inv.Jobs {
			st.status[id] = StatusRunning
		}
		st.inFlight++
		st.s.executor.Submit(st.ctx, inv)
	}
}

// skipDeferred moves every remaining deferred job directly to Finished as
// skipped, no dependency reload. It reports whether skipping unblocked new
// pending work.
func (st *runState) skipDeferred() bool {
	if len(st.deferred) == 0 {
		return false
	}

	ids := make([]domain.JobID, 0, len(st.deferred))
	for id := range st.deferred {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	for _, id := range ids {
		delete(st.deferred, id)
		st.scheduled[id] = struct{}{}
		st.status[id] = StatusSkipped
		st.s.progress.JobSkipped(st.s.plan.Job(id).Name.String())
		st.moveToFinished(id, true)
	}

	return len(st.pending) > 0
}

// scheduleAllDeferred flushes the deferred set into the schedule. Used when
// incremental state can no longer be trusted.
func (st *runState) scheduleAllDeferred() {
	ids := make([]domain.JobID, 0, len(st.deferred))
	for id := range st.deferred {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	for _, id := range ids {
		delete(st.deferred, id)
		st.scheduleIfPossible(id)
	}
}

// moveToFinished records a terminal job and, when unblock is set, retries
// every job that was waiting on it.
func (st *runState) moveToFinished(id domain.JobID, unblock bool) {
	st.finished[id] = struct{}{}
	if !unblock {
		return
	}
	waiters := st.blocked[id]
	delete(st.blocked, id)
	for _, w := range waiters {
		st.scheduleIfPossible(w)
	}
}

// handleEvent processes one executor callback. All scheduling state mutation
// funnels through here, on a single goroutine.
func (st *runState) handleEvent(ev domain.Event) domain.Response {
	switch ev.Kind {
	case domain.EventBegan:
		st.handleBegan(ev)
		return domain.ContinueExecution
	case domain.EventFinished:
		st.inFlight--
		return st.handleFinished(ev)
	case domain.EventSignalled:
		st.inFlight--
		return st.handleSignalled(ev)
	default:
		return domain.ContinueExecution
	}
}

// handleBegan is purely observational.
func (st *runState) handleBegan(ev domain.Event) {
	for i, id := range ev.Invocation.Jobs {
		pid := ev.Invocation.QuasiPID(i, ev.PID)
		st.s.progress.JobStarted(pid, st.s.plan.Job(id).Name.String())
	}
}

// handleFinished processes a normal process exit. Batches are decomposed
// into per-constituent handling in original order; the first non-continue
// response wins.
func (st *runState) handleFinished(ev domain.Event) domain.Response {
	inv := ev.Invocation
	if !inv.IsBatch() {
		return st.jobFinished(inv.Primary(), ev.PID, ev.ExitCode)
	}

	resp := domain.ContinueExecution
	attributed := false
	for i, id := range inv.Jobs {
		pid := inv.QuasiPID(i, ev.PID)

		var r domain.Response
		switch {
		case ev.ExitCode == 0:
			r = st.jobFinished(id, pid, 0)
		case st.s.diagnosticsNonEmpty(st.s.plan.Job(id).DiagnosticsPath()):
			attributed = true
			r = st.jobFinished(id, pid, ev.ExitCode)
		default:
			// No diagnostics of its own: the constituent was cancelled by a
			// sibling's failure, not failed. It still counts as finished.
			st.cancelJob(id, pid)
			r = domain.ContinueExecution
		}

		if resp == domain.ContinueExecution && r != domain.ContinueExecution {
			resp = r
		}
	}

	// A failing batch none of whose constituents owned up still fails the
	// build with the batch's exit code.
	if ev.ExitCode != 0 && !attributed && st.exitCode == 0 {
		st.exitCode = ev.ExitCode
	}
	return resp
}

// jobFinished handles a single job's normal exit: failures are recorded with
// first-failure-wins; successes reload the dependency graph and wake
// dependents and invalidated deferred jobs.
func (st *runState) jobFinished(id domain.JobID, pid, exitCode int) domain.Response {
	job := st.s.plan.Job(id)

	if exitCode != 0 {
		if st.exitCode == 0 {
			st.exitCode = exitCode
		}
		st.status[id] = StatusFailed
		st.moveToFinished(id, false)
		st.s.progress.JobFinished(pid, job.Name.String(), zerr.With(
			zerr.New("job failed"), "exit_code", exitCode,
		))
		if st.s.cfg.ContinueAfterErrors {
			return domain.ContinueExecution
		}
		return domain.StopExecution
	}

	st.reloadDependencies(id, job)

	st.status[id] = StatusCompleted
	st.moveToFinished(id, true)
	st.s.progress.JobFinished(pid, job.Name.String(), nil)
	return domain.ContinueExecution
}

// reloadDependencies integrates the job's fresh dependency descriptor and
// propagates invalidation. A job that was already marked keeps cascading
// even when its descriptor reports no change.
func (st *runState) reloadDependencies(id domain.JobID, job *domain.Job) {
	path := job.DepsPath()
	if path == "" {
		return
	}

	result := st.s.graph.LoadFromPath(id, path)
	switch {
	case result == domain.LoadHadError:
		if !st.incrementalDisabled {
			st.incrementalDisabled = true
			st.s.logger.Error(zerr.With(zerr.With(
				zerr.New("malformed dependency descriptor, disabling incremental build"),
				"job", job.Name.String(),
			), "path", path))
		}
		st.scheduleAllDeferred()
	case result == domain.LoadAffectsDownstream || st.s.graph.IsMarked(id):
		for _, dep := range st.s.graph.MarkTransitive(id) {
			if _, ok := st.deferred[dep]; ok {
				delete(st.deferred, dep)
				st.scheduleIfPossible(dep)
			}
		}
	}
}

// cancelJob finishes a batch constituent without attributing failure to it.
func (st *runState) cancelJob(id domain.JobID, pid int) {
	job := st.s.plan.Job(id)
	st.status[id] = StatusCancelled
	st.moveToFinished(id, false)
	st.s.progress.JobFinished(pid, job.Name.String(), zerr.New("cancelled"))
}

// handleSignalled treats a signal, crash, or launch failure as fatal: the
// run stops regardless of continue-after-errors and temp cleanup is
// suppressed for preserve-on-signal outputs.
func (st *runState) handleSignalled(ev domain.Event) domain.Response {
	st.abnormal = true
	st.exitCode = domain.SignalExitCode

	reason := zerr.New("abnormal exit")
	if ev.Signal != "" {
		reason = zerr.With(reason, "signal", ev.Signal)
	}
	if ev.LaunchErr != nil {
		reason = zerr.Wrap(ev.LaunchErr, "unable to launch job")
	}

	for i, id := range ev.Invocation.Jobs {
		pid := ev.Invocation.QuasiPID(i, ev.PID)
		st.status[id] = StatusFailed
		st.moveToFinished(id, false)
		st.s.progress.JobFinished(pid, st.s.plan.Job(id).Name.String(), reason)
	}
	st.s.logger.Error(reason)
	return domain.StopExecution
}

// finalize derives the run result and the per-input state for the next
// build record.
func (st *runState) finalize() *Result {
	res := &Result{
		ExitCode:      st.exitCode,
		AbnormalExit:  st.abnormal,
		Statuses:      st.status,
		InputStatuses: make(map[string]domain.InputStatus),
	}

	for job := range st.s.plan.Walk() {
		input := job.PrimaryInput.String()
		if input == "" {
			continue
		}
		res.InputStatuses[input] = st.inputStatus(job)
	}
	return res
}

// inputStatus classifies what the next build must do with a primary input:
// finished clean or deliberately skipped means up to date; anything that
// failed, was cancelled, or never ran needs rebuilding, cascading when the
// graph already marked it.
func (st *runState) inputStatus(job *domain.Job) domain.InputStatus {
	switch st.status[job.ID] {
	case StatusCompleted, StatusSkipped:
		return domain.InputUpToDate
	default:
		if st.s.graph.IsMarked(job.ID) {
			return domain.InputNeedsCascadingBuild
		}
		return domain.InputNeedsNonCascadingBuild
	}
}
