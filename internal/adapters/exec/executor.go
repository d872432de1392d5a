// Package exec provides the local process executor: the only component that
// actually spawns OS processes. It reports everything it observes as events
// on a single channel so the scheduler's handling stays serialized.
package exec

import (
	"bytes"
	"context"
	"errors"
	"os"
	osexec "os/exec"
	"strings"
	"sync"
	"syscall"

	"go.trai.ch/mill/internal/core/domain"
	"go.trai.ch/mill/internal/core/ports"
	"golang.org/x/sync/semaphore"
)

// Executor implements ports.TaskExecutor using os/exec, bounding process
// concurrency with a weighted semaphore.
type Executor struct {
	logger ports.Logger
	sem    *semaphore.Weighted
	events chan domain.Event
	wg     sync.WaitGroup
}

var _ ports.TaskExecutor = (*Executor)(nil)

// New creates an Executor running at most parallelism processes at once.
func New(parallelism int, logger ports.Logger) *Executor {
	if parallelism <= 0 {
		parallelism = 1
	}
	return &Executor{
		logger: logger,
		sem:    semaphore.NewWeighted(int64(parallelism)),
		events: make(chan domain.Event, 2*parallelism),
	}
}

// Events returns the event delivery channel.
func (e *Executor) Events() <-chan domain.Event {
	return e.events
}

// Submit enqueues an invocation. The call returns immediately; the process
// runs once a slot frees up and its events follow on Events.
func (e *Executor) Submit(ctx context.Context, inv *domain.Invocation) {
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		e.run(ctx, inv)
	}()
}

// Drain waits until every submitted invocation has been fully reported.
func (e *Executor) Drain() {
	e.wg.Wait()
}

func (e *Executor) run(ctx context.Context, inv *domain.Invocation) {
	if err := e.sem.Acquire(ctx, 1); err != nil {
		e.events <- domain.Event{
			Kind:       domain.EventSignalled,
			Invocation: inv,
			LaunchErr:  err,
		}
		return
	}
	defer e.sem.Release(1)

	if len(inv.Command) == 0 {
		// Nothing to spawn; report an immediate clean finish.
		e.events <- domain.Event{Kind: domain.EventFinished, Invocation: inv}
		return
	}

	cmd := osexec.CommandContext(ctx, inv.Command[0], inv.Command[1:]...) //nolint:gosec // plan-provided command
	cmd.Env = mergedEnv(inv.Env)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		e.events <- domain.Event{
			Kind:       domain.EventSignalled,
			Invocation: inv,
			LaunchErr:  err,
			Stderr:     stderr.String(),
		}
		return
	}

	pid := cmd.Process.Pid
	e.events <- domain.Event{Kind: domain.EventBegan, PID: pid, Invocation: inv}

	err := cmd.Wait()
	if err == nil {
		e.events <- domain.Event{
			Kind:       domain.EventFinished,
			PID:        pid,
			Invocation: inv,
			Stdout:     stdout.String(),
			Stderr:     stderr.String(),
		}
		return
	}

	var exitErr *osexec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() >= 0 {
		e.events <- domain.Event{
			Kind:       domain.EventFinished,
			PID:        pid,
			Invocation: inv,
			ExitCode:   exitErr.ExitCode(),
			Stdout:     stdout.String(),
			Stderr:     stderr.String(),
		}
		return
	}

	e.events <- domain.Event{
		Kind:       domain.EventSignalled,
		PID:        pid,
		Invocation: inv,
		Signal:     signalName(err),
		Stdout:     stdout.String(),
		Stderr:     stderr.String(),
	}
}

// signalName extracts the terminating signal's name when the platform
// exposes it.
func signalName(err error) string {
	var exitErr *osexec.ExitError
	if !errors.As(err, &exitErr) {
		return ""
	}
	if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
		return status.Signal().String()
	}
	return ""
}

// mergedEnv layers invocation overrides over the process environment.
func mergedEnv(overrides map[string]string) []string {
	if len(overrides) == 0 {
		return os.Environ()
	}

	envMap := make(map[string]string)
	for _, entry := range os.Environ() {
		if k, v, ok := strings.Cut(entry, "="); ok {
			envMap[k] = v
		}
	}
	for k, v := range overrides {
		envMap[k] = v
	}

	result := make([]string, 0, len(envMap))
	for k, v := range envMap {
		result = append(result, k+"="+v)
	}
	return result
}
