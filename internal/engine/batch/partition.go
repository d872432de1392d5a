// Package batch groups compatible pending compile jobs into synthetic batch
// invocations to cut process-spawn overhead.
package batch

import (
	"math/rand"
	"strings"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/mill/internal/core/domain"
)

// DefaultSizeLimit caps how many constituents one batch may carry.
const DefaultSizeLimit = 25

// Options configures partitioning for one scheduling round.
type Options struct {
	// Parallelism is the executor's process limit.
	Parallelism int

	// Count, when non-zero, fixes the partition count explicitly.
	Count int

	// SizeLimit bounds per-batch constituent count. Zero means
	// DefaultSizeLimit.
	SizeLimit int

	// Seed, when non-zero, deterministically shuffles the partition index
	// assignment. Order within each partition stays a subsequence of the
	// input.
	Seed int64
}

// Partitioner forms invocations from a round's pending jobs. It owns the
// quasi-pid counter so constituent identities stay unique across rounds.
type Partitioner struct {
	opts         Options
	nextQuasiPID int
}

// NewPartitioner creates a Partitioner with the given options.
func NewPartitioner(opts Options) *Partitioner {
	if opts.SizeLimit <= 0 {
		opts.SizeLimit = DefaultSizeLimit
	}
	if opts.Parallelism <= 0 {
		opts.Parallelism = 1
	}
	return &Partitioner{
		opts:         opts,
		nextQuasiPID: -1,
	}
}

// Partition splits the pending jobs into batchable and non-batchable,
// distributes the batchable ones over partitions whose sizes differ by at
// most one, and merges each partition's mutually combinable run into one
// batch invocation. Non-batchable jobs pass through unchanged, first.
func (p *Partitioner) Partition(pending []*domain.Job) []*domain.Invocation {
	var invocations []*domain.Invocation
	var batchable []*domain.Job

	for _, job := range pending {
		if job.Kind.Batchable() {
			batchable = append(batchable, job)
			continue
		}
		invocations = append(invocations, singleInvocation(job))
	}

	for _, partition := range p.assign(batchable) {
		invocations = append(invocations, p.form(partition))
	}

	return invocations
}

// partitionCount computes K = max(parallelism, ceil(n / sizeLimit)) unless
// an explicit count is configured.
func (p *Partitioner) partitionCount(n int) int {
	if p.opts.Count > 0 {
		return p.opts.Count
	}
	k := max(p.opts.Parallelism, (n+p.opts.SizeLimit-1)/p.opts.SizeLimit)
	return max(k, 1)
}

// assign distributes the batchable jobs over partitions. Sizes differ by at
// most one, the remainder going to the first partitions; with a seed the
// index assignment is shuffled but each partition remains an order-preserving
// subsequence of the input, and within a partition only mutually combinable
// jobs stay together, an incompatible job opening a new trailing partition.
func (p *Partitioner) assign(batchable []*domain.Job) [][]*domain.Job {
	n := len(batchable)
	if n == 0 {
		return nil
	}

	k := p.partitionCount(n)
	if k > n {
		k = n
	}

	assignment := make([]int, 0, n)
	base, remainder := n/k, n%k
	for i := 0; i < k; i++ {
		size := base
		if i < remainder {
			size++
		}
		for j := 0; j < size; j++ {
			assignment = append(assignment, i)
		}
	}

	if p.opts.Seed != 0 {
		rng := rand.New(rand.NewSource(p.opts.Seed)) //nolint:gosec // reproducible shuffle, not crypto
		rng.Shuffle(n, func(i, j int) {
			assignment[i], assignment[j] = assignment[j], assignment[i]
		})
	}

	partitions := make([][]*domain.Job, k)
	for i, job := range batchable {
		idx := assignment[i]
		partitions[idx] = append(partitions[idx], job)
	}

	// Split out constituents that cannot combine with the head of their
	// partition; each run of leftovers opens a new trailing partition.
	var result [][]*domain.Job
	for len(partitions) > 0 {
		partition := partitions[0]
		partitions = partitions[1:]
		if len(partition) == 0 {
			continue
		}

		head := combineFingerprint(partition[0])
		var kept, rest []*domain.Job
		for _, job := range partition {
			if combineFingerprint(job) == head {
				kept = append(kept, job)
			} else {
				rest = append(rest, job)
			}
		}
		result = append(result, kept)
		if len(rest) > 0 {
			partitions = append(partitions, rest)
		}
	}

	return result
}

// form turns one partition into an invocation. Singleton partitions stay
// plain jobs; larger ones become a batch with per-constituent quasi-pids.
func (p *Partitioner) form(partition []*domain.Job) *domain.Invocation {
	if len(partition) == 1 {
		return singleInvocation(partition[0])
	}

	ids := make([]domain.JobID, len(partition))
	quasiPIDs := make([]int, len(partition))
	for i, job := range partition {
		ids[i] = job.ID
		quasiPIDs[i] = p.nextQuasiPID
		p.nextQuasiPID--
	}

	return &domain.Invocation{
		Jobs:      ids,
		QuasiPIDs: quasiPIDs,
		Command:   batchCommand(partition),
		Env:       partition[0].Env,
	}
}

func singleInvocation(job *domain.Job) *domain.Invocation {
	return &domain.Invocation{
		Jobs:    []domain.JobID{job.ID},
		Command: job.Command,
		Env:     job.Env,
	}
}

// batchCommand synthesizes one command line for the batch: the shared flags
// of the first constituent followed by every constituent's primary input.
func batchCommand(partition []*domain.Job) []string {
	first := partition[0]
	primary := first.PrimaryInput.String()

	var cmd []string
	for _, arg := range first.Command {
		if arg == primary && primary != "" {
			continue
		}
		cmd = append(cmd, arg)
	}
	for _, job := range partition {
		if in := job.PrimaryInput.String(); in != "" {
			cmd = append(cmd, in)
		}
	}
	return cmd
}

// combineFingerprint hashes what must match for two jobs to share a batch:
// the kind plus the command with the job's own primary input and declared
// outputs removed.
func combineFingerprint(job *domain.Job) uint64 {
	skip := make(map[string]struct{}, len(job.Outputs)+1)
	if in := job.PrimaryInput.String(); in != "" {
		skip[in] = struct{}{}
	}
	for _, out := range job.Outputs {
		skip[out] = struct{}{}
	}

	h := xxhash.New()
	_, _ = h.WriteString(string(job.Kind))
	_, _ = h.WriteString("\x00")
	var flags []string
	for _, arg := range job.Command {
		if _, ok := skip[arg]; ok {
			continue
		}
		flags = append(flags, arg)
	}
	_, _ = h.WriteString(strings.Join(flags, "\x00"))
	return h.Sum64()
}
