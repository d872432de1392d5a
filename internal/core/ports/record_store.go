package ports

import "go.trai.ch/mill/internal/core/domain"

// BuildRecordStore persists the incremental build record across runs.
//
//go:generate go run go.uber.org/mock/mockgen -source=record_store.go -destination=mocks/mock_record_store.go -package=mocks
type BuildRecordStore interface {
	// Load reads the record from the previous run.
	// Returns nil, nil if no record exists yet.
	Load() (*domain.BuildRecord, error)

	// Save writes the record for the next run, replacing any existing one.
	Save(record *domain.BuildRecord) error

	// Remove deletes the persisted record, forcing the next build to run
	// from scratch.
	Remove() error
}
