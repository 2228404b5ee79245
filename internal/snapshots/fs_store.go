package snapshots

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// ErrNoSnapshot is returned when nothing has been saved yet.
var ErrNoSnapshot = errors.New("no dashboard snapshot")

// Store defines how snapshots are loaded.
type Store interface {
	Load(date string) (Snapshot, error)
	LoadLatest() (Snapshot, error)
}

// FSStore loads snapshots from the filesystem.
type FSStore struct {
	basePath string
}

// NewFSStore constructs an FS-backed snapshot store rooted at basePath.
func NewFSStore(basePath string) *FSStore {
	return &FSStore{basePath: basePath}
}

// Load reads the snapshot for one date (YYYY-MM-DD).
func (s *FSStore) Load(date string) (Snapshot, error) {
	if s == nil {
		return Snapshot{}, errors.New("snapshot store not configured")
	}
	if date == "" {
		return Snapshot{}, errors.New("snapshot date required")
	}
	var snap Snapshot
	if err := decodeFile(DashboardSnapshotPath(s.basePath, date), &snap); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Snapshot{}, fmt.Errorf("%w for %s", ErrNoSnapshot, date)
		}
		return Snapshot{}, err
	}
	return snap, nil
}

// LoadLatest reads the newest snapshot, preferring the manifest and falling
// back to a directory listing when the manifest is missing or stale.
func (s *FSStore) LoadLatest() (Snapshot, error) {
	if s == nil {
		return Snapshot{}, errors.New("snapshot store not configured")
	}
	if m, err := readManifest(ManifestPath(s.basePath), 0); err == nil {
		if date, ok := m.Latest(); ok {
			if snap, err := s.Load(date); err == nil {
				return snap, nil
			}
		}
	}
	dates, err := listDates(s.basePath)
	if err != nil {
		return Snapshot{}, err
	}
	if len(dates) == 0 {
		return Snapshot{}, ErrNoSnapshot
	}
	return s.Load(dates[len(dates)-1])
}

func decodeFile(path string, payload any) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewDecoder(f).Decode(payload)
}
