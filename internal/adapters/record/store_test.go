package record_test

import (
	"path/filepath"
	"testing"
	"time"

	"go.trai.ch/mill/internal/adapters/record"
	"go.trai.ch/mill/internal/core/domain"
)

func TestStore_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".mill", "record.json")
	store := record.NewStore(path)

	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rec := domain.NewBuildRecord("1.0", "abc123", start)
	rec.Inputs["a.src"] = domain.InputInfo{
		PreviousModTime: start.Add(-time.Hour),
		Status:          domain.InputUpToDate,
	}
	rec.Inputs["b.src"] = domain.InputInfo{
		Status: domain.InputNeedsCascadingBuild,
	}

	if err := store.Save(rec); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got == nil {
		t.Fatal("Load returned nil for an existing record")
	}

	if !got.Matches("1.0", "abc123") {
		t.Errorf("loaded record identity mismatch: %+v", got)
	}
	if !got.BuildStartTime.Equal(start) {
		t.Errorf("BuildStartTime = %v, want %v", got.BuildStartTime, start)
	}

	info, ok := got.Input("a.src")
	if !ok {
		t.Fatal("a.src missing from loaded record")
	}
	if info.Status != domain.InputUpToDate {
		t.Errorf("a.src status = %q, want up-to-date", info.Status)
	}
	if !info.PreviousModTime.Equal(start.Add(-time.Hour)) {
		t.Errorf("a.src mod time = %v", info.PreviousModTime)
	}
}

func TestStore_LoadMissing(t *testing.T) {
	store := record.NewStore(filepath.Join(t.TempDir(), "record.json"))

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load of a missing record should not fail: %v", err)
	}
	if got != nil {
		t.Fatalf("Load of a missing record should return nil, got %+v", got)
	}
}

func TestStore_Remove(t *testing.T) {
	path := filepath.Join(t.TempDir(), "record.json")
	store := record.NewStore(path)

	if err := store.Save(domain.NewBuildRecord("1.0", "abc", time.Now())); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Remove(); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	got, err := store.Load()
	if err != nil || got != nil {
		t.Fatalf("record still present after Remove: %+v, %v", got, err)
	}

	// Removing again is not an error.
	if err := store.Remove(); err != nil {
		t.Fatalf("second Remove failed: %v", err)
	}
}

func TestStore_SaveOverwrites(t *testing.T) {
	store := record.NewStore(filepath.Join(t.TempDir(), "record.json"))

	if err := store.Save(domain.NewBuildRecord("1.0", "old", time.Now())); err != nil {
		t.Fatalf("first Save failed: %v", err)
	}
	if err := store.Save(domain.NewBuildRecord("1.0", "new", time.Now())); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got.OptionsHash != "new" {
		t.Errorf("OptionsHash = %q, want %q", got.OptionsHash, "new")
	}
}
