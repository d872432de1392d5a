package batch_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/mill/internal/core/domain"
	"go.trai.ch/mill/internal/engine/batch"
)

func compileJob(id int, flags ...string) *domain.Job {
	primary := fmt.Sprintf("file%d.src", id)
	cmd := append([]string{"cc", "-c"}, flags...)
	cmd = append(cmd, primary, "-o", fmt.Sprintf("file%d.o", id))
	return &domain.Job{
		ID:           domain.JobID(id),
		Name:         domain.NewInternedString(primary),
		Kind:         domain.KindCompile,
		PrimaryInput: domain.NewInternedString(primary),
		Outputs:      map[domain.OutputKind]string{domain.OutputObject: fmt.Sprintf("file%d.o", id)},
		Command:      cmd,
	}
}

func compileJobs(n int, flags ...string) []*domain.Job {
	jobs := make([]*domain.Job, n)
	for i := range jobs {
		jobs[i] = compileJob(i, flags...)
	}
	return jobs
}

func constituentCounts(invocations []*domain.Invocation) []int {
	counts := make([]int, len(invocations))
	for i, inv := range invocations {
		counts[i] = len(inv.Jobs)
	}
	return counts
}

func TestPartition_BalancedSizes(t *testing.T) {
	// 10 jobs over parallelism 4 with a generous size limit: ceil(10/25) is
	// 1, so parallelism wins and K is 4 with sizes differing by at most one.
	p := batch.NewPartitioner(batch.Options{Parallelism: 4})
	invocations := p.Partition(compileJobs(10))

	require.Len(t, invocations, 4)
	assert.Equal(t, []int{3, 3, 2, 2}, constituentCounts(invocations))

	seen := make(map[domain.JobID]bool)
	for _, inv := range invocations {
		for _, id := range inv.Jobs {
			assert.False(t, seen[id], "job %d assigned twice", id)
			seen[id] = true
		}
	}
	assert.Len(t, seen, 10)
}

func TestPartition_SizeLimitRaisesCount(t *testing.T) {
	// 10 jobs with a size limit of 3: ceil(10/3) = 4 beats parallelism 2.
	p := batch.NewPartitioner(batch.Options{Parallelism: 2, SizeLimit: 3})
	invocations := p.Partition(compileJobs(10))

	require.Len(t, invocations, 4)
	for _, inv := range invocations {
		assert.LessOrEqual(t, len(inv.Jobs), 3)
	}
}

func TestPartition_ExplicitCount(t *testing.T) {
	p := batch.NewPartitioner(batch.Options{Parallelism: 8, Count: 2})
	invocations := p.Partition(compileJobs(10))

	require.Len(t, invocations, 2)
	assert.Equal(t, []int{5, 5}, constituentCounts(invocations))
}

func TestPartition_CountClampedToJobs(t *testing.T) {
	p := batch.NewPartitioner(batch.Options{Parallelism: 8})
	invocations := p.Partition(compileJobs(3))

	// Never more partitions than jobs; singletons stay plain invocations.
	require.Len(t, invocations, 3)
	for _, inv := range invocations {
		assert.False(t, inv.IsBatch())
		assert.Empty(t, inv.QuasiPIDs)
	}
}

func TestPartition_PreservesRelativeOrder(t *testing.T) {
	jobs := compileJobs(20)
	p := batch.NewPartitioner(batch.Options{Parallelism: 4, Seed: 42})
	invocations := p.Partition(jobs)

	// Each partition must remain an order-preserving subsequence of the
	// input, shuffled assignment or not.
	for _, inv := range invocations {
		for i := 1; i < len(inv.Jobs); i++ {
			assert.Less(t, inv.Jobs[i-1], inv.Jobs[i])
		}
	}
}

func TestPartition_SeedIsDeterministic(t *testing.T) {
	first := batch.NewPartitioner(batch.Options{Parallelism: 4, Seed: 42}).Partition(compileJobs(20))
	second := batch.NewPartitioner(batch.Options{Parallelism: 4, Seed: 42}).Partition(compileJobs(20))

	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].Jobs, second[i].Jobs)
	}
}

func TestPartition_NonBatchableJobsPassThrough(t *testing.T) {
	link := &domain.Job{
		ID:      domain.JobID(100),
		Name:    domain.NewInternedString("link"),
		Kind:    domain.KindLink,
		Command: []string{"ld", "-o", "out"},
	}
	jobs := append([]*domain.Job{link}, compileJobs(4)...)

	p := batch.NewPartitioner(batch.Options{Parallelism: 1})
	invocations := p.Partition(jobs)

	require.Len(t, invocations, 2)
	assert.Equal(t, []domain.JobID{100}, invocations[0].Jobs)
	assert.Equal(t, []string{"ld", "-o", "out"}, invocations[0].Command)
	assert.Len(t, invocations[1].Jobs, 4)
}

func TestPartition_IncompatibleJobsSplit(t *testing.T) {
	jobs := compileJobs(4, "-O2")
	jobs = append(jobs, compileJob(4, "-O0"), compileJob(5, "-O0"))

	p := batch.NewPartitioner(batch.Options{Parallelism: 1})
	invocations := p.Partition(jobs)

	// Differing flags cannot share a batch: the -O0 jobs open a trailing
	// partition of their own.
	require.Len(t, invocations, 2)
	assert.Equal(t, []domain.JobID{0, 1, 2, 3}, invocations[0].Jobs)
	assert.Equal(t, []domain.JobID{4, 5}, invocations[1].Jobs)
}

func TestPartition_BatchCommandCollectsPrimaries(t *testing.T) {
	p := batch.NewPartitioner(batch.Options{Parallelism: 1})
	invocations := p.Partition(compileJobs(3, "-O2"))

	require.Len(t, invocations, 1)
	cmd := invocations[0].Command
	assert.Equal(t, []string{"cc", "-c", "-O2", "-o", "file0.o", "file0.src", "file1.src", "file2.src"}, cmd)
}

func TestPartition_QuasiPIDsAreUniqueAcrossRounds(t *testing.T) {
	p := batch.NewPartitioner(batch.Options{Parallelism: 1})

	seen := make(map[int]bool)
	for round := 0; round < 3; round++ {
		invocations := p.Partition(compileJobs(4))
		require.Len(t, invocations, 1)
		for _, pid := range invocations[0].QuasiPIDs {
			assert.Negative(t, pid)
			assert.False(t, seen[pid], "quasi-pid %d reused", pid)
			seen[pid] = true
		}
	}
	assert.Len(t, seen, 12)
}
