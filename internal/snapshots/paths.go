package snapshots

import (
	"fmt"
	"path/filepath"
)

const dashboardDir = "dashboard"

// DashboardSnapshotPath builds the path to a dashboard snapshot for a given date.
func DashboardSnapshotPath(basePath, date string) string {
	return filepath.Join(basePath, dashboardDir, fmt.Sprintf("%s.json", date))
}

// ManifestPath is where the snapshot manifest lives.
func ManifestPath(basePath string) string {
	return filepath.Join(basePath, "manifest.json")
}
