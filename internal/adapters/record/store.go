// Package record persists the incremental build record as a flat JSON file.
package record

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/mill/internal/core/domain"
	"go.trai.ch/mill/internal/core/ports"
	"go.trai.ch/zerr"
)

// DefaultPath is where the record lives relative to the working directory.
const DefaultPath = ".mill/record.json"

// Store implements ports.BuildRecordStore using a JSON file.
type Store struct {
	path string
}

var _ ports.BuildRecordStore = (*Store)(nil)

// NewStore creates a Store backed by the file at the given path.
func NewStore(path string) *Store {
	return &Store{path: filepath.Clean(path)}
}

// Load reads the record from the previous run. Returns nil, nil if no
// record exists yet.
func (s *Store) Load() (*domain.BuildRecord, error) {
	//nolint:gosec // Path is cleaned and provided by trusted caller
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.Wrap(err, "failed to read build record")
	}

	var rec domain.BuildRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, zerr.Wrap(err, "failed to unmarshal build record")
	}
	return &rec, nil
}

// Save writes the record for the next run, replacing any existing one.
func (s *Store) Save(rec *domain.BuildRecord) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return zerr.Wrap(err, "failed to marshal build record")
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return zerr.Wrap(err, "failed to create directory for build record")
	}

	//nolint:gosec // Path is cleaned and provided by trusted caller
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return zerr.Wrap(err, "failed to write build record")
	}
	return nil
}

// Remove deletes the persisted record.
func (s *Store) Remove() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return zerr.Wrap(err, "failed to remove build record")
	}
	return nil
}
