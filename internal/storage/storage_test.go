package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestLoad_NoSnapshot(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	snap, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if snap != nil {
		t.Errorf("Load() = %+v, want nil", snap)
	}
}

func TestSaveAndLoad(t *testing.T) {
	store, err := New(filepath.Join(t.TempDir(), "nested", "data"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	observed := time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)
	want := &Snapshot{
		URL:            "https://www.gofundme.com/f/x/widget/large",
		Goal:           decimal.NewFromInt(7000),
		Raised:         decimal.RequireFromString("3250.50"),
		CurrencySymbol: "$",
		UpdatedAt:      observed,
	}
	if err := store.Save(want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got == nil {
		t.Fatal("Load() returned nil after Save")
	}
	if !got.Goal.Equal(want.Goal) || !got.Raised.Equal(want.Raised) {
		t.Errorf("Load() amounts = %s/%s, want %s/%s", got.Goal, got.Raised, want.Goal, want.Raised)
	}
	if got.CurrencySymbol != "$" || got.URL != want.URL {
		t.Errorf("Load() = %+v, want %+v", got, want)
	}
	if !got.UpdatedAt.Equal(observed) {
		t.Errorf("UpdatedAt = %v, want %v", got.UpdatedAt, observed)
	}

	entries, err := os.ReadDir(filepath.Dir(store.Path()))
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("data dir has %d entries, want only the snapshot", len(entries))
	}
}

func TestSave_SetsUpdatedAt(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	snap := &Snapshot{Goal: decimal.NewFromInt(1), Raised: decimal.NewFromInt(1)}
	if err := store.Save(snap); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if snap.UpdatedAt.IsZero() {
		t.Error("Save() should stamp UpdatedAt")
	}
}

func TestLoad_Corrupt(t *testing.T) {
	dir := t.TempDir()
	store, err := New(dir)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := os.WriteFile(store.Path(), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := store.Load(); err == nil {
		t.Error("Load() expected error for corrupt snapshot")
	}
}
