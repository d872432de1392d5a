// Package domain contains the core domain models for the incremental
// compilation plan: jobs, invocations, executor events, and the persisted
// build record.
package domain

// JobID is a stable handle into a Plan's job arena. All scheduler-side sets
// of jobs are sets of JobIDs.
type JobID int

// InvalidJobID marks the absence of a job.
const InvalidJobID JobID = -1

// JobKind classifies what a job invokes.
type JobKind string

const (
	// KindCompile compiles a single primary input. Compile jobs are the only
	// batchable kind.
	KindCompile JobKind = "compile"
	// KindBackend runs a backend/codegen step over a compiled intermediate.
	KindBackend JobKind = "backend"
	// KindMerge merges per-file artifacts into one.
	KindMerge JobKind = "merge"
	// KindLink links final products.
	KindLink JobKind = "link"
	// KindGenerate produces supplementary outputs (headers, interfaces).
	KindGenerate JobKind = "generate"
)

// Batchable reports whether jobs of this kind may be merged into a batch.
func (k JobKind) Batchable() bool {
	return k == KindCompile
}

// OutputKind keys a job's declared output artifacts.
type OutputKind string

const (
	// OutputObject is the principal build product of a job.
	OutputObject OutputKind = "object"
	// OutputDiagnostics is the per-job diagnostics file. Batch constituents
	// are attributed failures through it.
	OutputDiagnostics OutputKind = "diagnostics"
	// OutputDeps is the per-job dependency descriptor emitted by the
	// compiler, consumed by the dependency graph after the job finishes.
	OutputDeps OutputKind = "deps"
	// OutputTemp marks scratch outputs removed after the run.
	OutputTemp OutputKind = "temp"
)

// Condition is a job's static incremental-eligibility category.
type Condition string

const (
	// ConditionAlways schedules the job unconditionally.
	ConditionAlways Condition = "always"
	// ConditionNewlyAdded schedules the job unconditionally; the job's
	// primary input was not present in the previous build record.
	ConditionNewlyAdded Condition = "newly-added"
	// ConditionRunWithoutCascading schedules the job but defers the cascade
	// decision to its own post-run dependency descriptor.
	ConditionRunWithoutCascading Condition = "run-without-cascading"
	// ConditionCheckDependencies schedules the job only if the dependency
	// graph or an external dependency says it is out of date.
	ConditionCheckDependencies Condition = "check-dependencies"
)

// Job is one unit of external work: a single compiler/linker invocation with
// declared inputs and outputs. Jobs are constructed once when the plan is
// loaded and are immutable afterwards.
type Job struct {
	ID   JobID
	Name InternedString
	Kind JobKind

	// Inputs lists jobs that must reach Finished before this job may run.
	// The plan guarantees the relation is acyclic.
	Inputs []JobID

	// Outputs maps artifact kinds to paths.
	Outputs map[OutputKind]string

	Condition Condition

	// PrimaryInput is the source file this job compiles, if any. It ties the
	// job to its entry in the build record.
	PrimaryInput InternedString

	Command []string
	Env     map[string]string

	// PreserveOnSignal exempts this job's temp outputs from cleanup when the
	// run ends abnormally.
	PreserveOnSignal bool
}

// DepsPath returns the path of the job's dependency descriptor, or "" if the
// job declares none.
func (j *Job) DepsPath() string {
	return j.Outputs[OutputDeps]
}

// DiagnosticsPath returns the path of the job's diagnostics output, or "".
func (j *Job) DiagnosticsPath() string {
	return j.Outputs[OutputDiagnostics]
}
