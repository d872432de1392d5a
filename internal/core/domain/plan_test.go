package domain_test

import (
	"errors"
	"testing"
	"time"

	"go.trai.ch/mill/internal/core/domain"
)

func addJob(t *testing.T, p *domain.Plan, name string, inputs ...domain.JobID) domain.JobID {
	t.Helper()
	id, err := p.AddJob(domain.Job{
		Name:   domain.NewInternedString(name),
		Kind:   domain.KindCompile,
		Inputs: inputs,
	})
	if err != nil {
		t.Fatalf("AddJob(%q) failed: %v", name, err)
	}
	return id
}

func TestPlan_AddJob_DuplicateName(t *testing.T) {
	p := domain.NewPlan()
	addJob(t, p, "compile")

	_, err := p.AddJob(domain.Job{Name: domain.NewInternedString("compile")})
	if !errors.Is(err, domain.ErrJobAlreadyExists) {
		t.Fatalf("expected ErrJobAlreadyExists, got %v", err)
	}
}

func TestPlan_Lookup(t *testing.T) {
	p := domain.NewPlan()
	id := addJob(t, p, "compile")

	got, ok := p.Lookup(domain.NewInternedString("compile"))
	if !ok || got != id {
		t.Fatalf("Lookup returned (%v, %v), want (%v, true)", got, ok, id)
	}
	if _, ok := p.Lookup(domain.NewInternedString("missing")); ok {
		t.Fatal("Lookup found a job that was never added")
	}
}

func TestPlan_Validate_MissingInput(t *testing.T) {
	p := domain.NewPlan()
	addJob(t, p, "compile", domain.JobID(42))

	if err := p.Validate(); !errors.Is(err, domain.ErrMissingInput) {
		t.Fatalf("expected ErrMissingInput, got %v", err)
	}
}

func TestPlan_Validate_Cycle(t *testing.T) {
	p := domain.NewPlan()
	a := addJob(t, p, "A")
	b := addJob(t, p, "B", a)
	p.Job(a).Inputs = append(p.Job(a).Inputs, b)

	if err := p.Validate(); !errors.Is(err, domain.ErrCycleDetected) {
		t.Fatalf("expected ErrCycleDetected, got %v", err)
	}
}

func TestPlan_Walk_TopologicalOrder(t *testing.T) {
	p := domain.NewPlan()

	// Deliberately added out of dependency order.
	a := addJob(t, p, "compileA")
	b := addJob(t, p, "compileB")
	l := addJob(t, p, "link", a, b)
	m := addJob(t, p, "merge", l)

	if err := p.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	position := make(map[domain.JobID]int)
	i := 0
	for job := range p.Walk() {
		position[job.ID] = i
		i++
	}
	if i != p.JobCount() {
		t.Fatalf("Walk visited %d jobs, want %d", i, p.JobCount())
	}

	for job := range p.Walk() {
		for _, in := range job.Inputs {
			if position[in] >= position[job.ID] {
				t.Errorf("input %d visited after dependent %d", in, job.ID)
			}
		}
	}
	if position[m] != p.JobCount()-1 {
		t.Errorf("merge should come last, was at %d", position[m])
	}
}

func TestInvocation_QuasiPID(t *testing.T) {
	single := &domain.Invocation{Jobs: []domain.JobID{1}}
	if single.IsBatch() {
		t.Error("single invocation reported as batch")
	}
	if got := single.QuasiPID(0, 1234); got != 1234 {
		t.Errorf("QuasiPID fallback = %d, want 1234", got)
	}

	batch := &domain.Invocation{
		Jobs:      []domain.JobID{1, 2},
		QuasiPIDs: []int{-1, -2},
	}
	if !batch.IsBatch() {
		t.Error("batch invocation not reported as batch")
	}
	if got := batch.QuasiPID(1, 1234); got != -2 {
		t.Errorf("QuasiPID(1) = %d, want -2", got)
	}
}

func TestBuildRecord_Matches(t *testing.T) {
	rec := domain.NewBuildRecord("1.0", "abc", time.Now())

	if !rec.Matches("1.0", "abc") {
		t.Error("record should match its own identity")
	}
	if rec.Matches("1.1", "abc") {
		t.Error("record matched a different tool version")
	}
	if rec.Matches("1.0", "def") {
		t.Error("record matched a different options hash")
	}
}
