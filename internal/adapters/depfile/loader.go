// Package depfile parses per-job dependency descriptors. The format is a
// small YAML document listing the entities a job provides and depends on,
// plus external paths outside the build graph.
package depfile

import (
	"os"

	"go.trai.ch/mill/internal/core/domain"
	"go.trai.ch/mill/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Loader implements ports.DependencyLoader over YAML descriptor files.
type Loader struct{}

var _ ports.DependencyLoader = (*Loader)(nil)

// NewLoader creates a Loader.
func NewLoader() *Loader {
	return &Loader{}
}

type descriptor struct {
	Provides []string `yaml:"provides"`
	Depends  []string `yaml:"depends"`
	External []string `yaml:"external"`
}

// Load reads and parses the descriptor at path.
func (l *Loader) Load(path string) (*ports.DepInfo, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the build plan
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to read dependency descriptor"), "path", path)
	}

	var desc descriptor
	if err := yaml.Unmarshal(data, &desc); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "malformed dependency descriptor"), "path", path)
	}

	return &ports.DepInfo{
		Provides: internStrings(desc.Provides),
		Depends:  internStrings(desc.Depends),
		External: desc.External,
	}, nil
}

func internStrings(strs []string) []domain.InternedString {
	if len(strs) == 0 {
		return nil
	}
	res := make([]domain.InternedString, len(strs))
	for i, s := range strs {
		res[i] = domain.NewInternedString(s)
	}
	return res
}
