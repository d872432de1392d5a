package domain

import "go.trai.ch/zerr"

var (
	// ErrJobAlreadyExists is returned when adding a job under a name that is
	// already present in the plan.
	ErrJobAlreadyExists = zerr.New("job already exists")

	// ErrMissingInput is returned when a job references an input job that is
	// not part of the plan.
	ErrMissingInput = zerr.New("missing input job")

	// ErrCycleDetected is returned when the job input relation contains a
	// cycle.
	ErrCycleDetected = zerr.New("cycle detected")

	// ErrJobNotFound is returned when a requested job is not in the plan.
	ErrJobNotFound = zerr.New("job not found")

	// ErrBuildFailed is returned by the application layer when one or more
	// jobs failed; the concrete exit code travels alongside it.
	ErrBuildFailed = zerr.New("build failed")

	// ErrBatchRequiresContinue is returned when batch mode is enabled without
	// continue-after-errors: a batch's single exit code cannot be attributed
	// to one constituent, so the run must be allowed to continue past it.
	ErrBatchRequiresContinue = zerr.New("batch mode requires continue-after-errors")
)
