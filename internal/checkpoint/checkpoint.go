package checkpoint

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"leadgen-engine/internal/domain"
)

// Snapshot is the durable run state. The three fields are always written
// together so a reload reconstructs a ledger consistent with the lead list.
// Unknown or missing keys on load are treated as empty, not as errors.
type Snapshot struct {
	Leads        []domain.Lead `json:"leads"`
	SeenPlaceIDs []string      `json:"seen_place_ids"`
	SeenDomains  []string      `json:"seen_domains"`
}

// Store persists snapshots to a single JSON file. Writes go through a temp
// file + rename and take a flock, so two processes sharing a data dir cannot
// interleave partial snapshots.
type Store struct {
	path string
	lock *flock.Flock
}

func NewStore(path string) *Store {
	return &Store{
		path: path,
		lock: flock.New(path + ".lock"),
	}
}

func (s *Store) Path() string { return s.path }

// Load reads the snapshot. Missing, unreadable or corrupt files start an
// empty run; corruption is never fatal.
func (s *Store) Load() Snapshot {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return Snapshot{}
	}
	if err != nil {
		log.Printf("[checkpoint] read %s: %v (starting empty)", s.path, err)
		return Snapshot{}
	}

	var snap Snapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		log.Printf("[checkpoint] corrupt %s: %v (starting empty)", s.path, err)
		return Snapshot{}
	}

	log.Printf("[checkpoint] loaded %d leads, %d place ids, %d domains",
		len(snap.Leads), len(snap.SeenPlaceIDs), len(snap.SeenDomains))
	return snap
}

// Save writes the full snapshot. Unlike Load, a failure here propagates:
// losing write ability breaks the resumability guarantee.
func (s *Store) Save(snap Snapshot) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("checkpoint dir: %w", err)
	}

	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("checkpoint lock: %w", err)
	}
	defer func() { _ = s.lock.Unlock() }()

	b, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode checkpoint: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("write checkpoint: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace checkpoint: %w", err)
	}

	log.Printf("[checkpoint] saved %d leads", len(snap.Leads))
	return nil
}

// Clear deletes the snapshot file. Idempotent.
func (s *Store) Clear() error {
	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("checkpoint lock: %w", err)
	}
	defer func() { _ = s.lock.Unlock() }()

	err := os.Remove(s.path)
	if err == nil || errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("clear checkpoint: %w", err)
}
