package scheduler

import (
	"time"

	"go.trai.ch/mill/internal/core/domain"
	"go.trai.ch/mill/internal/core/ports"
)

// Decision is a policy's initial verdict for one job.
type Decision int

const (
	// DecisionSchedule commits the job to run this round.
	DecisionSchedule Decision = iota
	// DecisionDefer parks the job; it runs only if invalidated later.
	DecisionDefer
)

// ConditionPolicy maps a job's condition plus dependency-graph state to an
// initial run/defer decision. Alternate incremental strategies plug in
// behind this interface without touching the scheduler.
type ConditionPolicy interface {
	Decide(job *domain.Job) Decision
}

// GraphPolicy is the standard dependency-graph based policy.
type GraphPolicy struct {
	graph ports.DependencyGraph
}

// NewGraphPolicy creates the standard policy over the given graph.
func NewGraphPolicy(graph ports.DependencyGraph) *GraphPolicy {
	return &GraphPolicy{graph: graph}
}

// Decide implements ConditionPolicy.
//
// Always and NewlyAdded jobs are scheduled and, when they carry a dependency
// descriptor, preemptively marked: if the job later crashes, its effect on
// downstream jobs is already assumed cascading. RunWithoutCascading jobs are
// scheduled unmarked; their own post-run descriptor decides retroactively.
// CheckDependencies jobs run only if something they depend on is known to
// have changed.
func (p *GraphPolicy) Decide(job *domain.Job) Decision {
	switch job.Condition {
	case domain.ConditionAlways, domain.ConditionNewlyAdded:
		if job.DepsPath() != "" {
			p.graph.MarkIntransitive(job.ID)
		}
		return DecisionSchedule
	case domain.ConditionRunWithoutCascading:
		return DecisionSchedule
	case domain.ConditionCheckDependencies:
		if p.graph.IsMarked(job.ID) {
			return DecisionSchedule
		}
		return DecisionDefer
	default:
		return DecisionSchedule
	}
}

// AssignConditions fills in each job's condition from the previous build
// record before the run starts. Explicit conditions from the plan definition
// are kept. With no usable record (first build, tool or options changed)
// everything becomes Always.
func AssignConditions(
	plan *domain.Plan,
	record *domain.BuildRecord,
	toolVersion, optionsHash string,
	stat func(path string) (time.Time, error),
) {
	usable := record != nil && record.Matches(toolVersion, optionsHash)

	for job := range plan.Walk() {
		if job.Condition != "" {
			continue
		}

		input := job.PrimaryInput.String()
		if !usable || input == "" {
			job.Condition = domain.ConditionAlways
			continue
		}

		info, known := record.Input(input)
		if !known {
			job.Condition = domain.ConditionNewlyAdded
			continue
		}

		switch info.Status {
		case domain.InputNeedsCascadingBuild:
			job.Condition = domain.ConditionAlways
		case domain.InputNeedsNonCascadingBuild:
			job.Condition = domain.ConditionRunWithoutCascading
		case domain.InputUpToDate:
			if modTime, err := stat(input); err != nil || modTime.After(info.PreviousModTime) {
				job.Condition = domain.ConditionAlways
			} else {
				job.Condition = domain.ConditionCheckDependencies
			}
		default:
			job.Condition = domain.ConditionAlways
		}
	}
}
