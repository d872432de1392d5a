package ports

import (
	"time"

	"go.trai.ch/mill/internal/core/domain"
)

// DependencyGraph tracks what each job provides and depends on, plus a
// monotonic per-job dirty mark. The scheduler is its single writer; a second
// implementation (e.g. a finer-grained graph) can be swapped in behind this
// interface without touching the scheduler.
//
//go:generate go run go.uber.org/mock/mockgen -source=depgraph.go -destination=mocks/mock_depgraph.go -package=mocks
type DependencyGraph interface {
	// LoadFromPath merges the descriptor at path into the graph on behalf of
	// job and classifies the edit.
	LoadFromPath(job domain.JobID, path string) domain.LoadResult

	// MarkTransitive flags job and, recursively, every job depending on
	// anything it provides. It returns the jobs newly marked by this call,
	// excluding job itself.
	MarkTransitive(job domain.JobID) []domain.JobID

	// MarkIntransitive flags job only. It reports whether the job was
	// previously unmarked.
	MarkIntransitive(job domain.JobID) bool

	// IsMarked reports whether job is flagged dirty. Marks are monotonic:
	// once set they persist for the remainder of the run.
	IsMarked(job domain.JobID) bool

	// ForEachExternalDependency yields every external (out-of-graph)
	// dependency path with its last known modification time, together with
	// the jobs directly depending on it.
	ForEachExternalDependency(fn func(path string, modTime time.Time, dependents []domain.JobID))
}
