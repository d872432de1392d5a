// Package depgraph implements the mutable dependency graph the scheduler
// consults for incremental decisions: provide/depend relations between jobs,
// monotonic dirty marks, and external (out-of-graph) dependencies.
package depgraph

import (
	"os"
	"slices"
	"time"

	"go.trai.ch/mill/internal/core/domain"
	"go.trai.ch/mill/internal/core/ports"
)

// StatFunc resolves a path to its modification time. Injectable for tests.
type StatFunc func(path string) (time.Time, error)

func osStat(path string) (time.Time, error) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, err
	}
	return info.ModTime(), nil
}

type externalDep struct {
	modTime    time.Time
	dependents map[domain.JobID]struct{}
}

// ModuleGraph is the standard DependencyGraph implementation, keyed at
// module granularity: one provides/depends set per job.
type ModuleGraph struct {
	loader ports.DependencyLoader
	stat   StatFunc

	provides   map[domain.JobID]map[domain.InternedString]struct{}
	depends    map[domain.JobID]map[domain.InternedString]struct{}
	dependents map[domain.InternedString]map[domain.JobID]struct{}
	marked     map[domain.JobID]struct{}
	external   map[string]*externalDep
}

var _ ports.DependencyGraph = (*ModuleGraph)(nil)

// Option configures a ModuleGraph.
type Option func(*ModuleGraph)

// WithStat overrides how external dependency mod-times are resolved.
func WithStat(stat StatFunc) Option {
	return func(g *ModuleGraph) {
		g.stat = stat
	}
}

// New creates an empty ModuleGraph backed by the given descriptor loader.
func New(loader ports.DependencyLoader, opts ...Option) *ModuleGraph {
	g := &ModuleGraph{
		loader:     loader,
		stat:       osStat,
		provides:   make(map[domain.JobID]map[domain.InternedString]struct{}),
		depends:    make(map[domain.JobID]map[domain.InternedString]struct{}),
		dependents: make(map[domain.InternedString]map[domain.JobID]struct{}),
		marked:     make(map[domain.JobID]struct{}),
		external:   make(map[string]*externalDep),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// LoadFromPath merges the descriptor at path into the graph on behalf of job
// and classifies the edit. New or changed provided entities yield
// AffectsDownstream; a parse or read failure yields HadError.
func (g *ModuleGraph) LoadFromPath(job domain.JobID, path string) domain.LoadResult {
	info, err := g.loader.Load(path)
	if err != nil {
		return domain.LoadHadError
	}
	return g.integrate(job, info)
}

func (g *ModuleGraph) integrate(job domain.JobID, info *ports.DepInfo) domain.LoadResult {
	changed := false

	if g.provides[job] == nil {
		g.provides[job] = make(map[domain.InternedString]struct{})
	}
	for _, ent := range info.Provides {
		if _, ok := g.provides[job][ent]; !ok {
			g.provides[job][ent] = struct{}{}
			changed = true
		}
	}

	if g.depends[job] == nil {
		g.depends[job] = make(map[domain.InternedString]struct{})
	}
	for _, ent := range info.Depends {
		g.depends[job][ent] = struct{}{}
		if g.dependents[ent] == nil {
			g.dependents[ent] = make(map[domain.JobID]struct{})
		}
		g.dependents[ent][job] = struct{}{}
	}

	for _, path := range info.External {
		g.addExternal(path, job)
	}

	if changed {
		return domain.LoadAffectsDownstream
	}
	return domain.LoadUpToDate
}

func (g *ModuleGraph) addExternal(path string, job domain.JobID) {
	dep, ok := g.external[path]
	if !ok {
		modTime, err := g.stat(path)
		if err != nil {
			// A vanished external dependency counts as maximally stale.
			modTime = time.Time{}
		}
		dep = &externalDep{
			modTime:    modTime,
			dependents: make(map[domain.JobID]struct{}),
		}
		g.external[path] = dep
	}
	dep.dependents[job] = struct{}{}
}

// MarkTransitive flags job and, recursively, every job depending on anything
// it provides. Newly marked dependents are returned in ascending job order;
// job itself is excluded.
func (g *ModuleGraph) MarkTransitive(job domain.JobID) []domain.JobID {
	var newly []domain.JobID
	queue := []domain.JobID{job}
	g.marked[job] = struct{}{}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for ent := range g.provides[current] {
			for dep := range g.dependents[ent] {
				if _, done := g.marked[dep]; done {
					continue
				}
				g.marked[dep] = struct{}{}
				newly = append(newly, dep)
				queue = append(queue, dep)
			}
		}
	}

	slices.Sort(newly)
	return newly
}

// MarkIntransitive flags job only. It reports whether the job was previously
// unmarked.
func (g *ModuleGraph) MarkIntransitive(job domain.JobID) bool {
	if _, done := g.marked[job]; done {
		return false
	}
	g.marked[job] = struct{}{}
	return true
}

// IsMarked reports whether job is flagged dirty.
func (g *ModuleGraph) IsMarked(job domain.JobID) bool {
	_, ok := g.marked[job]
	return ok
}

// ForEachExternalDependency yields external dependencies in ascending path
// order with their dependents in ascending job order.
func (g *ModuleGraph) ForEachExternalDependency(fn func(path string, modTime time.Time, dependents []domain.JobID)) {
	paths := make([]string, 0, len(g.external))
	for path := range g.external {
		paths = append(paths, path)
	}
	slices.Sort(paths)

	for _, path := range paths {
		dep := g.external[path]
		dependents := make([]domain.JobID, 0, len(dep.dependents))
		for id := range dep.dependents {
			dependents = append(dependents, id)
		}
		slices.Sort(dependents)
		fn(path, dep.modTime, dependents)
	}
}
