package snapshots

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/Kaylacoelho/chalkboard-app/internal/dashboard"
	"github.com/Kaylacoelho/chalkboard-app/internal/logging"
	"github.com/Kaylacoelho/chalkboard-app/internal/timeutil"
)

const defaultRetentionDays = 7

// Writer persists one dashboard snapshot per day and prunes old days.
type Writer struct {
	basePath      string
	retentionDays int
	logger        *slog.Logger
	now           func() time.Time
}

// NewWriter constructs a writer rooted at basePath with a rolling window retention.
func NewWriter(basePath string, retentionDays int, logger *slog.Logger) *Writer {
	if retentionDays <= 0 {
		retentionDays = defaultRetentionDays
	}
	return &Writer{
		basePath:      basePath,
		retentionDays: retentionDays,
		logger:        logger,
		now:           time.Now,
	}
}

// BasePath exposes the writer root path (primarily for testing).
func (w *Writer) BasePath() string {
	if w == nil {
		return ""
	}
	return w.basePath
}

// Name identifies the writer as a dashboard sink.
func (w *Writer) Name() string { return "snapshot" }

// Publish saves the state behind a published view. Views from ticks where every
// league failed carry no new data and are not written.
func (w *Writer) Publish(ctx context.Context, view dashboard.View) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if view.Unavailable {
		return nil
	}
	snap := FromView(view)
	if err := w.Write(snap); err != nil {
		return err
	}
	logging.Debug(w.logger, "dashboard snapshot written",
		logging.FieldSink, w.Name(),
		logging.FieldTickID, snap.TickID,
		logging.FieldCount, snap.GameCount(),
	)
	return nil
}

// Write stores snap under the UTC date it was taken, replacing that day's file.
func (w *Writer) Write(snap Snapshot) error {
	if w == nil {
		return fmt.Errorf("snapshot writer not configured")
	}
	if snap.WrittenAt.IsZero() {
		snap.WrittenAt = w.now()
	}
	date := timeutil.UTCDate(snap.WrittenAt)

	target := DashboardSnapshotPath(w.basePath, date)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, target); err != nil {
		return err
	}
	return w.updateManifest(date, snap)
}

func (w *Writer) updateManifest(date string, snap Snapshot) error {
	m, _ := readManifest(ManifestPath(w.basePath), w.retentionDays)

	dates, err := listDates(w.basePath)
	if err != nil {
		return err
	}
	if !containsDate(dates, date) {
		dates = append(dates, date)
		sort.Strings(dates)
	}

	m.Dashboard.Dates = w.pruneOldSnapshots(dates)
	m.Dashboard.LastTickID = snap.TickID
	m.Dashboard.LastWritten = snap.WrittenAt.UTC()
	m.Retention.Days = w.retentionDays
	return writeManifest(w.basePath, m)
}

func containsDate(dates []string, date string) bool {
	for _, d := range dates {
		if d == date {
			return true
		}
	}
	return false
}

func listDates(basePath string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(basePath, dashboardDir))
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}
	dates := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || filepath.Ext(name) != ".json" {
			continue
		}
		dates = append(dates, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(dates)
	return dates, nil
}

func (w *Writer) pruneOldSnapshots(dates []string) []string {
	cutoff := timeutil.RetentionCutoff(w.now(), w.retentionDays)
	keep := make([]string, 0, len(dates))
	for _, d := range dates {
		parsed, err := timeutil.ParseDate(d)
		if err == nil && parsed.Before(cutoff) {
			_ = os.Remove(DashboardSnapshotPath(w.basePath, d))
			continue
		}
		keep = append(keep, d)
	}
	return keep
}
