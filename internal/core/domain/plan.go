package domain

import (
	"iter"

	"go.trai.ch/zerr"
)

// Plan is the static build graph for one run: an arena of Jobs addressed by
// JobID. Scheduling state lives elsewhere; the plan itself is immutable once
// validated.
type Plan struct {
	jobs   []Job
	byName map[InternedString]JobID

	// order is a topological order over jobs, populated by Validate.
	order []JobID
}

// NewPlan creates a new empty Plan.
func NewPlan() *Plan {
	return &Plan{
		byName: make(map[InternedString]JobID),
	}
}

// AddJob adds a job to the plan, assigning its JobID. Input references by
// name must be resolved to JobIDs by the caller before Validate.
// It returns an error if a job with the same name already exists.
func (p *Plan) AddJob(j Job) (JobID, error) {
	if _, exists := p.byName[j.Name]; exists {
		return InvalidJobID, zerr.With(ErrJobAlreadyExists, "job", j.Name.String())
	}
	id := JobID(len(p.jobs))
	j.ID = id
	p.jobs = append(p.jobs, j)
	p.byName[j.Name] = id
	return id, nil
}

// Job returns the job for the given id.
func (p *Plan) Job(id JobID) *Job {
	return &p.jobs[id]
}

// JobCount returns the number of jobs in the plan.
func (p *Plan) JobCount() int {
	return len(p.jobs)
}

// Lookup resolves a job name to its id.
func (p *Plan) Lookup(name InternedString) (JobID, bool) {
	id, ok := p.byName[name]
	return id, ok
}

// Validate checks the input relation for dangling references and cycles
// using a depth-first topological sort, and records the execution order.
func (p *Plan) Validate() error {
	p.order = make([]JobID, 0, len(p.jobs))
	visited := make([]int, len(p.jobs)) // 0: unvisited, 1: visiting, 2: visited
	var path []JobID

	var visit func(u JobID) error
	visit = func(u JobID) error {
		visited[u] = 1
		path = append(path, u)

		for _, in := range p.jobs[u].Inputs {
			if in < 0 || int(in) >= len(p.jobs) {
				return zerr.With(ErrMissingInput, "job", p.jobs[u].Name.String())
			}
			if visited[in] == 1 {
				return p.buildCycleError(path, in)
			}
			if visited[in] == 0 {
				if err := visit(in); err != nil {
					return err
				}
			}
		}

		visited[u] = 2
		path = path[:len(path)-1]
		p.order = append(p.order, u)
		return nil
	}

	for id := range p.jobs {
		if visited[id] == 0 {
			if err := visit(JobID(id)); err != nil {
				return err
			}
		}
	}

	return nil
}

// buildCycleError constructs an error carrying the cycle path.
func (p *Plan) buildCycleError(path []JobID, in JobID) error {
	cyclePath := ""
	startIdx := -1
	for i, node := range path {
		if node == in {
			startIdx = i
			break
		}
	}
	for i := startIdx; i < len(path); i++ {
		cyclePath += p.jobs[path[i]].Name.String() + " -> "
	}
	cyclePath += p.jobs[in].Name.String()
	return zerr.With(ErrCycleDetected, "cycle", cyclePath)
}

// Walk returns an iterator yielding jobs in topological order (inputs before
// dependents). It assumes Validate() has been called and returned nil.
func (p *Plan) Walk() iter.Seq[*Job] {
	return func(yield func(*Job) bool) {
		for _, id := range p.order {
			if !yield(&p.jobs[id]) {
				return
			}
		}
	}
}
