package snapshots

import (
	"time"

	"github.com/Kaylacoelho/chalkboard-app/internal/dashboard"
	"github.com/Kaylacoelho/chalkboard-app/internal/domain/games"
)

// Snapshot is the last-known league state persisted between restarts.
type Snapshot struct {
	TickID    string                           `json:"tickId,omitempty"`
	WrittenAt time.Time                        `json:"writtenAt"`
	Leagues   []games.LeagueGames              `json:"leagues"`
	History   map[string][]games.ScoreSnapshot `json:"history,omitempty"`
}

// FromView extracts the raw game sets and score history behind a view.
func FromView(view dashboard.View) Snapshot {
	snap := Snapshot{
		TickID:    view.TickID,
		WrittenAt: view.GeneratedAt,
		Leagues:   make([]games.LeagueGames, 0, len(view.Leagues)),
		History:   make(map[string][]games.ScoreSnapshot),
	}
	for _, lv := range view.Leagues {
		set := games.LeagueGames{League: lv.League, Games: make([]games.GameRecord, 0, len(lv.Games))}
		for _, g := range lv.Games {
			set.Games = append(set.Games, g.Game.Clone())
			if len(g.History) > 0 {
				ring := make([]games.ScoreSnapshot, len(g.History))
				copy(ring, g.History)
				snap.History[g.Game.ID] = ring
			}
		}
		snap.Leagues = append(snap.Leagues, set)
	}
	return snap
}

// GameCount totals games across leagues.
func (s Snapshot) GameCount() int {
	n := 0
	for _, set := range s.Leagues {
		n += len(set.Games)
	}
	return n
}
