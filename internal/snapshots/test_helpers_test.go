package snapshots

import (
	"os"
	"testing"
	"time"

	"github.com/Kaylacoelho/chalkboard-app/internal/domain/games"
)

func simpleSnapshot(at time.Time, id string) Snapshot {
	return Snapshot{
		TickID:    "tick-" + id,
		WrittenAt: at,
		Leagues: []games.LeagueGames{{League: "nba", Games: []games.GameRecord{
			{ID: id, League: "nba", Home: "H", Away: "A", Status: games.StatusInProgress, Score: games.Score{"H": 3, "A": 1}},
		}}},
		History: map[string][]games.ScoreSnapshot{id: {{Home: 1, Away: 1}, {Home: 3, Away: 1}}},
	}
}

func newTestWriter(t *testing.T, now time.Time) *Writer {
	t.Helper()
	w := NewWriter(t.TempDir(), 3, nil)
	w.now = func() time.Time { return now }
	return w
}

func writeSnapshot(t *testing.T, w *Writer, snap Snapshot) {
	t.Helper()
	if err := w.Write(snap); err != nil {
		t.Fatalf("failed to write snapshot %s: %v", snap.TickID, err)
	}
}

func requireSnapshotExists(t *testing.T, w *Writer, date string) {
	t.Helper()
	if _, err := os.Stat(DashboardSnapshotPath(w.BasePath(), date)); err != nil {
		t.Fatalf("expected snapshot for %s to be written: %v", date, err)
	}
}

func assertDatesEqual(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("dates length mismatch: got %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("dates mismatch at %d: got %v, want %v", i, got, want)
		}
	}
}
