package snapshots

import (
	"encoding/json"
	"os"
	"time"
)

// Manifest tracks snapshot metadata.
type Manifest struct {
	Version     int           `json:"version"`
	GeneratedAt time.Time     `json:"generatedAt"`
	Retention   Retention     `json:"retention"`
	Dashboard   DashboardMeta `json:"dashboard"`
}

type Retention struct {
	Days int `json:"days"`
}

type DashboardMeta struct {
	Dates       []string  `json:"dates"`
	LastTickID  string    `json:"lastTickId,omitempty"`
	LastWritten time.Time `json:"lastWritten"`
}

// Latest returns the newest recorded date.
func (m Manifest) Latest() (string, bool) {
	if len(m.Dashboard.Dates) == 0 {
		return "", false
	}
	return m.Dashboard.Dates[len(m.Dashboard.Dates)-1], true
}

func defaultManifest(retentionDays int) Manifest {
	return Manifest{
		Version:     1,
		GeneratedAt: time.Now().UTC(),
		Retention: Retention{
			Days: retentionDays,
		},
		Dashboard: DashboardMeta{
			Dates: []string{},
		},
	}
}

func readManifest(path string, retentionDays int) (Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return defaultManifest(retentionDays), err
	}
	defer f.Close()
	var m Manifest
	if err := json.NewDecoder(f).Decode(&m); err != nil {
		return defaultManifest(retentionDays), err
	}
	return m, nil
}

func writeManifest(basePath string, m Manifest) error {
	m.GeneratedAt = time.Now().UTC()
	path := ManifestPath(basePath)
	tmp := path + ".tmp"
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
