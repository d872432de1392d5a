package domain

// Invocation is what gets handed to the task executor: either a single job
// or a batch of combinable jobs merged into one process. Invocations are
// formed per scheduling round and never persist across rounds.
type Invocation struct {
	// Jobs lists the constituent job ids. Length one for a plain job. For a
	// batch, the constituents preserve their relative order from the pending
	// set they were drawn from.
	Jobs []JobID

	// QuasiPIDs assigns each constituent a synthetic negative identity so
	// observers can report per-constituent progress without colliding with
	// real process ids. Empty for a plain job.
	QuasiPIDs []int

	Command []string
	Env     map[string]string
}

// IsBatch reports whether the invocation wraps more than one job.
func (inv *Invocation) IsBatch() bool {
	return len(inv.Jobs) > 1
}

// Primary returns the single job of a non-batch invocation.
func (inv *Invocation) Primary() JobID {
	return inv.Jobs[0]
}

// QuasiPID returns the reporting identity for constituent i: the assigned
// quasi-pid for a batch, or fallback for a plain job.
func (inv *Invocation) QuasiPID(i, fallback int) int {
	if len(inv.QuasiPIDs) > i {
		return inv.QuasiPIDs[i]
	}
	return fallback
}
