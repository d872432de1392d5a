package ports

import "go.trai.ch/mill/internal/core/domain"

// DepInfo is the extracted content of one dependency descriptor: the
// entities a job provides, the entities it depends on, and external
// (out-of-graph) paths it depends on. The on-disk grammar is an adapter
// concern; the graph consumes only this outcome.
type DepInfo struct {
	Provides []domain.InternedString
	Depends  []domain.InternedString
	External []string
}

// DependencyLoader parses a job's dependency descriptor.
//
//go:generate go run go.uber.org/mock/mockgen -source=deps_loader.go -destination=mocks/mock_deps_loader.go -package=mocks
type DependencyLoader interface {
	// Load reads and parses the descriptor at path. A read or parse failure
	// is returned as an error; the dependency graph classifies it as
	// HadError and the scheduler disables incremental mode.
	Load(path string) (*DepInfo, error)
}
