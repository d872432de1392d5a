// Package ports defines the core interfaces of the orchestrator.
package ports

import (
	"context"

	"go.trai.ch/mill/internal/core/domain"
)

// TaskExecutor is the external boundary that runs invocations out of
// process. It is the only component with real concurrency: up to the
// configured parallelism limit of processes run at once. Everything it
// observes is reported back as events on a single channel, so the
// scheduler's event handling stays single-threaded.
//
//go:generate go run go.uber.org/mock/mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type TaskExecutor interface {
	// Submit enqueues an invocation. It never blocks on process completion;
	// an event for the invocation is eventually delivered on Events.
	Submit(ctx context.Context, inv *domain.Invocation)

	// Events returns the channel completion and lifecycle events are
	// delivered on, in the order the executor observes them.
	Events() <-chan domain.Event

	// Drain waits until every submitted invocation has been fully reported.
	Drain()
}
