package scheduler_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/mill/internal/core/domain"
	"go.trai.ch/mill/internal/core/ports/mocks"
	"go.trai.ch/mill/internal/engine/scheduler"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

func TestGraphPolicy_Decide(t *testing.T) {
	deps := map[domain.OutputKind]string{domain.OutputDeps: "x.deps"}

	tests := []struct {
		name      string
		condition domain.Condition
		outputs   map[domain.OutputKind]string
		marked    bool
		expectDec scheduler.Decision
		// expectMark is set when the policy must preemptively flag the job.
		expectMark bool
	}{
		{
			name:       "always with descriptor is scheduled and marked",
			condition:  domain.ConditionAlways,
			outputs:    deps,
			expectDec:  scheduler.DecisionSchedule,
			expectMark: true,
		},
		{
			name:      "always without descriptor is scheduled unmarked",
			condition: domain.ConditionAlways,
			expectDec: scheduler.DecisionSchedule,
		},
		{
			name:       "newly added behaves like always",
			condition:  domain.ConditionNewlyAdded,
			outputs:    deps,
			expectDec:  scheduler.DecisionSchedule,
			expectMark: true,
		},
		{
			name:      "run without cascading is scheduled unmarked",
			condition: domain.ConditionRunWithoutCascading,
			outputs:   deps,
			expectDec: scheduler.DecisionSchedule,
		},
		{
			name:      "check dependencies unmarked is deferred",
			condition: domain.ConditionCheckDependencies,
			outputs:   deps,
			expectDec: scheduler.DecisionDefer,
		},
		{
			name:      "check dependencies marked is scheduled",
			condition: domain.ConditionCheckDependencies,
			outputs:   deps,
			marked:    true,
			expectDec: scheduler.DecisionSchedule,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			graph := mocks.NewMockDependencyGraph(ctrl)
			job := &domain.Job{ID: 7, Condition: tt.condition, Outputs: tt.outputs}

			if tt.expectMark {
				graph.EXPECT().MarkIntransitive(domain.JobID(7)).Return(true)
			}
			if tt.condition == domain.ConditionCheckDependencies {
				graph.EXPECT().IsMarked(domain.JobID(7)).Return(tt.marked)
			}

			policy := scheduler.NewGraphPolicy(graph)
			assert.Equal(t, tt.expectDec, policy.Decide(job))
		})
	}
}

func conditionPlan(t *testing.T, primaries ...string) *domain.Plan {
	t.Helper()
	plan := domain.NewPlan()
	for _, p := range primaries {
		_, err := plan.AddJob(domain.Job{
			Name:         domain.NewInternedString("compile " + p),
			Kind:         domain.KindCompile,
			PrimaryInput: domain.NewInternedString(p),
		})
		require.NoError(t, err)
	}
	require.NoError(t, plan.Validate())
	return plan
}

func conditionOf(t *testing.T, plan *domain.Plan, primary string) domain.Condition {
	t.Helper()
	id, ok := plan.Lookup(domain.NewInternedString("compile " + primary))
	require.True(t, ok)
	return plan.Job(id).Condition
}

func TestAssignConditions_NoRecordMeansAlways(t *testing.T) {
	plan := conditionPlan(t, "a.src")
	stat := func(string) (time.Time, error) { return time.Time{}, zerr.New("not stat'd") }

	scheduler.AssignConditions(plan, nil, "dev", "opts", stat)

	assert.Equal(t, domain.ConditionAlways, conditionOf(t, plan, "a.src"))
}

func TestAssignConditions_StaleRecordMeansAlways(t *testing.T) {
	plan := conditionPlan(t, "a.src")
	record := domain.NewBuildRecord("dev", "other-options", time.Now())
	record.Inputs["a.src"] = domain.InputInfo{Status: domain.InputUpToDate}
	stat := func(string) (time.Time, error) { return time.Time{}, nil }

	scheduler.AssignConditions(plan, record, "dev", "opts", stat)

	assert.Equal(t, domain.ConditionAlways, conditionOf(t, plan, "a.src"))
}

func TestAssignConditions_FromRecord(t *testing.T) {
	recorded := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	record := domain.NewBuildRecord("dev", "opts", recorded)
	record.Inputs["uptodate.src"] = domain.InputInfo{PreviousModTime: recorded, Status: domain.InputUpToDate}
	record.Inputs["touched.src"] = domain.InputInfo{PreviousModTime: recorded, Status: domain.InputUpToDate}
	record.Inputs["cascade.src"] = domain.InputInfo{Status: domain.InputNeedsCascadingBuild}
	record.Inputs["noncascade.src"] = domain.InputInfo{Status: domain.InputNeedsNonCascadingBuild}

	plan := conditionPlan(t, "uptodate.src", "touched.src", "cascade.src", "noncascade.src", "new.src")

	stat := func(path string) (time.Time, error) {
		if path == "touched.src" {
			return recorded.Add(time.Minute), nil
		}
		return recorded, nil
	}

	scheduler.AssignConditions(plan, record, "dev", "opts", stat)

	assert.Equal(t, domain.ConditionCheckDependencies, conditionOf(t, plan, "uptodate.src"))
	assert.Equal(t, domain.ConditionAlways, conditionOf(t, plan, "touched.src"))
	assert.Equal(t, domain.ConditionAlways, conditionOf(t, plan, "cascade.src"))
	assert.Equal(t, domain.ConditionRunWithoutCascading, conditionOf(t, plan, "noncascade.src"))
	assert.Equal(t, domain.ConditionNewlyAdded, conditionOf(t, plan, "new.src"))
}

func TestAssignConditions_KeepsExplicitCondition(t *testing.T) {
	plan := domain.NewPlan()
	_, err := plan.AddJob(domain.Job{
		Name:         domain.NewInternedString("generate"),
		Kind:         domain.KindGenerate,
		Condition:    domain.ConditionRunWithoutCascading,
		PrimaryInput: domain.NewInternedString("gen.src"),
	})
	require.NoError(t, err)
	require.NoError(t, plan.Validate())

	scheduler.AssignConditions(plan, nil, "dev", "opts", func(string) (time.Time, error) {
		return time.Time{}, nil
	})

	id, _ := plan.Lookup(domain.NewInternedString("generate"))
	assert.Equal(t, domain.ConditionRunWithoutCascading, plan.Job(id).Condition)
}

func TestAssignConditions_VanishedInputMeansAlways(t *testing.T) {
	recorded := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	record := domain.NewBuildRecord("dev", "opts", recorded)
	record.Inputs["gone.src"] = domain.InputInfo{PreviousModTime: recorded, Status: domain.InputUpToDate}

	plan := conditionPlan(t, "gone.src")

	scheduler.AssignConditions(plan, record, "dev", "opts", func(string) (time.Time, error) {
		return time.Time{}, zerr.New("no such file")
	})

	assert.Equal(t, domain.ConditionAlways, conditionOf(t, plan, "gone.src"))
}
