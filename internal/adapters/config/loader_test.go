package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/mill/internal/adapters/config"
	"go.trai.ch/mill/internal/core/domain"
)

func writePlan(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.DefaultFilename), []byte(content), 0o600))
	return dir
}

func TestLoad_FullPlan(t *testing.T) {
	dir := writePlan(t, `
version: "1"
jobs:
  compileA:
    kind: compile
    primary: a.src
    cmd: ["cc", "-c", "a.src", "-o", "a.o"]
    outputs:
      object: a.o
      deps: a.deps
      diagnostics: a.dia
  compileB:
    kind: compile
    primary: b.src
    cmd: ["cc", "-c", "b.src", "-o", "b.o"]
    env:
      LANG: C
  link:
    kind: link
    cmd: ["ld", "a.o", "b.o", "-o", "bin"]
    inputs: [compileA, compileB]
    outputs:
      temp: link.tmp
    preserveOnSignal: true
`)

	plan, err := config.NewLoader().Load(dir)
	require.NoError(t, err)
	require.Equal(t, 3, plan.JobCount())

	aID, ok := plan.Lookup(domain.NewInternedString("compileA"))
	require.True(t, ok)
	a := plan.Job(aID)
	assert.Equal(t, domain.KindCompile, a.Kind)
	assert.Equal(t, "a.src", a.PrimaryInput.String())
	assert.Equal(t, "a.deps", a.DepsPath())
	assert.Equal(t, "a.dia", a.DiagnosticsPath())
	assert.Empty(t, a.Inputs)

	bID, ok := plan.Lookup(domain.NewInternedString("compileB"))
	require.True(t, ok)
	assert.Equal(t, map[string]string{"LANG": "C"}, plan.Job(bID).Env)

	linkID, ok := plan.Lookup(domain.NewInternedString("link"))
	require.True(t, ok)
	link := plan.Job(linkID)
	assert.Equal(t, domain.KindLink, link.Kind)
	assert.ElementsMatch(t, []domain.JobID{aID, bID}, link.Inputs)
	assert.True(t, link.PreserveOnSignal)
	assert.Equal(t, "link.tmp", link.Outputs[domain.OutputTemp])

	// The link job must come after both compiles in execution order.
	last := domain.InvalidJobID
	for job := range plan.Walk() {
		last = job.ID
	}
	assert.Equal(t, linkID, last)
}

func TestLoad_ExplicitCondition(t *testing.T) {
	dir := writePlan(t, `
jobs:
  generate:
    kind: generate
    cmd: ["gen"]
    condition: run-without-cascading
`)

	plan, err := config.NewLoader().Load(dir)
	require.NoError(t, err)

	id, _ := plan.Lookup(domain.NewInternedString("generate"))
	assert.Equal(t, domain.ConditionRunWithoutCascading, plan.Job(id).Condition)
}

func TestLoad_UnknownKind(t *testing.T) {
	dir := writePlan(t, `
jobs:
  weird:
    kind: transmogrify
    cmd: ["x"]
`)

	_, err := config.NewLoader().Load(dir)
	assert.ErrorContains(t, err, "unknown job kind")
}

func TestLoad_UnknownCondition(t *testing.T) {
	dir := writePlan(t, `
jobs:
  weird:
    kind: compile
    cmd: ["x"]
    condition: sometimes
`)

	_, err := config.NewLoader().Load(dir)
	assert.ErrorContains(t, err, "unknown job condition")
}

func TestLoad_UnresolvedInput(t *testing.T) {
	dir := writePlan(t, `
jobs:
  link:
    kind: link
    cmd: ["ld"]
    inputs: [missing]
`)

	_, err := config.NewLoader().Load(dir)
	assert.True(t, errors.Is(err, domain.ErrMissingInput), "got %v", err)
}

func TestLoad_Cycle(t *testing.T) {
	dir := writePlan(t, `
jobs:
  a:
    kind: compile
    cmd: ["x"]
    inputs: [b]
  b:
    kind: compile
    cmd: ["x"]
    inputs: [a]
`)

	_, err := config.NewLoader().Load(dir)
	assert.True(t, errors.Is(err, domain.ErrCycleDetected), "got %v", err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.NewLoader().Load(t.TempDir())
	assert.Error(t, err)
}

func TestLoad_Malformed(t *testing.T) {
	dir := writePlan(t, "jobs: [not, a, map")
	_, err := config.NewLoader().Load(dir)
	assert.Error(t, err)
}
