package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

const snapshotFile = "totals.json"

// Snapshot is the last known totals for one widget URL
type Snapshot struct {
	URL            string          `json:"url"`
	Goal           decimal.Decimal `json:"goal"`
	Raised         decimal.Decimal `json:"raised"`
	CurrencySymbol string          `json:"currency_symbol"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// Storage handles persistence of totals snapshots
type Storage struct {
	mu      sync.Mutex
	dataDir string
}

// New creates a Storage rooted at dataDir, creating the directory if needed
func New(dataDir string) (*Storage, error) {
	if strings.HasPrefix(dataDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, dataDir[2:])
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Storage{dataDir: dataDir}, nil
}

// Path returns the snapshot file location
func (s *Storage) Path() string {
	return filepath.Join(s.dataDir, snapshotFile)
}

// Load returns the stored snapshot, or nil when none has been saved yet
func (s *Storage) Load() (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parsing snapshot: %w", err)
	}
	return &snap, nil
}

// Save writes snap atomically by renaming a temporary file over the old one
func (s *Storage) Save(snap *Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if snap.UpdatedAt.IsZero() {
		snap.UpdatedAt = time.Now().UTC()
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	tmp, err := os.CreateTemp(s.dataDir, snapshotFile+".*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) // nolint:errcheck

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.Path()); err != nil {
		return fmt.Errorf("replacing snapshot: %w", err)
	}
	return nil
}
