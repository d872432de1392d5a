// Package config provides the build plan loader for mill.
package config

import (
	"os"
	"path/filepath"
	"slices"

	"go.trai.ch/mill/internal/core/domain"
	"go.trai.ch/mill/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// DefaultFilename is the plan definition file looked up in the working
// directory.
const DefaultFilename = "mill.yaml"

// FileConfigLoader implements ports.ConfigLoader using a YAML file.
type FileConfigLoader struct {
	Filename string
}

var _ ports.ConfigLoader = (*FileConfigLoader)(nil)

// NewLoader creates a loader for the default filename.
func NewLoader() *FileConfigLoader {
	return &FileConfigLoader{Filename: DefaultFilename}
}

// Load reads the plan definition from the given working directory.
func (l *FileConfigLoader) Load(cwd string) (*domain.Plan, error) {
	return Load(filepath.Join(cwd, l.Filename))
}

var validKinds = map[string]domain.JobKind{
	string(domain.KindCompile):  domain.KindCompile,
	string(domain.KindBackend):  domain.KindBackend,
	string(domain.KindMerge):    domain.KindMerge,
	string(domain.KindLink):     domain.KindLink,
	string(domain.KindGenerate): domain.KindGenerate,
}

var validConditions = map[string]domain.Condition{
	"":                                 "",
	string(domain.ConditionAlways):     domain.ConditionAlways,
	string(domain.ConditionNewlyAdded): domain.ConditionNewlyAdded,
	string(domain.ConditionRunWithoutCascading): domain.ConditionRunWithoutCascading,
	string(domain.ConditionCheckDependencies):   domain.ConditionCheckDependencies,
}

// Load reads a plan definition from the given path and returns a validated
// domain.Plan.
func Load(path string) (*domain.Plan, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		return nil, zerr.Wrap(err, "failed to read plan file")
	}

	var millfile Millfile
	if err := yaml.Unmarshal(data, &millfile); err != nil {
		return nil, zerr.Wrap(err, "failed to parse plan file")
	}

	// Deterministic job ids: sorted by name.
	names := make([]string, 0, len(millfile.Jobs))
	for name := range millfile.Jobs {
		names = append(names, name)
	}
	slices.Sort(names)

	plan := domain.NewPlan()
	ids := make(map[string]domain.JobID, len(names))

	for _, name := range names {
		dto := millfile.Jobs[name]

		kind, ok := validKinds[dto.Kind]
		if !ok {
			return nil, zerr.With(zerr.With(zerr.New("unknown job kind"), "job", name), "kind", dto.Kind)
		}
		condition, ok := validConditions[dto.Condition]
		if !ok {
			return nil, zerr.With(zerr.With(zerr.New("unknown job condition"), "job", name), "condition", dto.Condition)
		}

		outputs := make(map[domain.OutputKind]string, len(dto.Outputs))
		for k, v := range dto.Outputs {
			outputs[domain.OutputKind(k)] = v
		}

		id, err := plan.AddJob(domain.Job{
			Name:             domain.NewInternedString(name),
			Kind:             kind,
			Outputs:          outputs,
			Condition:        condition,
			PrimaryInput:     domain.NewInternedString(dto.Primary),
			Command:          dto.Cmd,
			Env:              dto.Env,
			PreserveOnSignal: dto.PreserveOnSignal,
		})
		if err != nil {
			return nil, err
		}
		ids[name] = id
	}

	// Second pass: resolve input references now that every id exists.
	for _, name := range names {
		dto := millfile.Jobs[name]
		job := plan.Job(ids[name])
		for _, in := range dto.Inputs {
			inID, ok := ids[in]
			if !ok {
				return nil, zerr.With(zerr.With(domain.ErrMissingInput, "job", name), "input", in)
			}
			job.Inputs = append(job.Inputs, inID)
		}
	}

	if err := plan.Validate(); err != nil {
		return nil, err
	}
	return plan, nil
}
