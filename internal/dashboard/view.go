package dashboard

import (
	"time"

	"github.com/Kaylacoelho/chalkboard-app/internal/domain/games"
	"github.com/Kaylacoelho/chalkboard-app/internal/leagues"
	"github.com/Kaylacoelho/chalkboard-app/internal/rankers"
	"github.com/Kaylacoelho/chalkboard-app/internal/recap"
	"github.com/Kaylacoelho/chalkboard-app/internal/signals"
)

// GameSignals is every derived indicator for one game at one tick.
type GameSignals struct {
	Game                games.GameRecord      `json:"game"`
	League              games.League          `json:"league"`
	Momentum            string                `json:"momentum,omitempty"`
	ScoreDelta          map[string]int        `json:"scoreDelta,omitempty"`
	UpsetAlert          bool                  `json:"upsetAlert"`
	Tension             bool                  `json:"tension"`
	EntertainmentRating *float64              `json:"entertainmentRating,omitempty"`
	Recap               string                `json:"recap,omitempty"`
	History             []games.ScoreSnapshot `json:"history"`
}

// LeagueView groups one league's games in feed order.
type LeagueView struct {
	League      games.League  `json:"league"`
	DisplayName string        `json:"displayName"`
	Games       []GameSignals `json:"games"`
	Error       string        `json:"error,omitempty"`
}

// View is the immutable result of one derive phase.
type View struct {
	TickID       string            `json:"tickId,omitempty"`
	GeneratedAt  time.Time         `json:"generatedAt"`
	Unavailable  bool              `json:"unavailable"`
	LeagueErrors map[string]string `json:"leagueErrors,omitempty"`
	Leagues      []LeagueView      `json:"leagues"`
	BestBet      *rankers.BetPick  `json:"bestBet"`
	BestLive     *rankers.LivePick `json:"bestLive"`
}

// Game finds a game's signals by id.
func (v View) Game(id string) (GameSignals, bool) {
	for _, lv := range v.Leagues {
		for _, g := range lv.Games {
			if g.Game.ID == id {
				return g, true
			}
		}
	}
	return GameSignals{}, false
}

// League returns one league's games.
func (v View) League(key games.League) (LeagueView, bool) {
	for _, lv := range v.Leagues {
		if lv.League == key {
			return lv, true
		}
	}
	return LeagueView{}, false
}

// AllGames flattens every league in order.
func (v View) AllGames() []GameSignals {
	out := make([]GameSignals, 0)
	for _, lv := range v.Leagues {
		out = append(out, lv.Games...)
	}
	return out
}

// LiveCount returns the number of in-progress games.
func (v View) LiveCount() int {
	n := 0
	for _, lv := range v.Leagues {
		for _, g := range lv.Games {
			if g.Game.Status.IsLive() {
				n++
			}
		}
	}
	return n
}

// finalSignals are the parts of a finished game that never change once final.
type finalSignals struct {
	Rating *float64
	Recap  string
}

// finalsMemo caches final-game signals between ticks.
type finalsMemo interface {
	Get(key string) (finalSignals, bool)
	Set(key string, v finalSignals)
}

// Build derives a View from one consistent snapshot of league game sets and
// history rings. It does not mutate its inputs.
func Build(sets []games.LeagueGames, rings map[string][]games.ScoreSnapshot, registry *leagues.Registry, builtAt time.Time) View {
	return build(sets, rings, registry, builtAt, nil)
}

func build(sets []games.LeagueGames, rings map[string][]games.ScoreSnapshot, registry *leagues.Registry, builtAt time.Time, memo finalsMemo) View {
	view := View{
		GeneratedAt: builtAt,
		Leagues:     make([]LeagueView, 0, len(sets)),
		BestBet:     rankers.BestBet(sets),
		BestLive:    rankers.BestLive(sets, rings, registry),
	}

	for _, set := range sets {
		cfg := registry.Lookup(set.League)
		lv := LeagueView{
			League:      set.League,
			DisplayName: cfg.DisplayName,
			Games:       make([]GameSignals, 0, len(set.Games)),
		}
		for _, g := range set.Games {
			lv.Games = append(lv.Games, gameSignals(g, set.League, rings[g.ID], cfg, memo))
		}
		view.Leagues = append(view.Leagues, lv)
	}
	return view
}

func gameSignals(g games.GameRecord, league games.League, ring []games.ScoreSnapshot, cfg leagues.Config, memo finalsMemo) GameSignals {
	history := make([]games.ScoreSnapshot, len(ring))
	copy(history, ring)

	gs := GameSignals{
		Game:       g.Clone(),
		League:     league,
		Momentum:   signals.Momentum(ring, g.Home, g.Away),
		ScoreDelta: signals.ScoreDelta(ring, g.Home, g.Away),
		UpsetAlert: signals.UpsetAlert(g.WinProbability, g.Home, g.Away),
		Tension:    signals.Tension(g, cfg),
		History:    history,
	}
	if !g.Status.IsFinal() {
		return gs
	}

	key := memoKey(g, ring)
	if memo != nil {
		if cached, ok := memo.Get(key); ok {
			gs.EntertainmentRating, gs.Recap = cached.Rating, cached.Recap
			return gs
		}
	}
	fs := finalSignals{
		Rating: signals.EntertainmentRating(g, ring, cfg),
		Recap:  recap.Generate(g, cfg),
	}
	if memo != nil {
		memo.Set(key, fs)
	}
	gs.EntertainmentRating, gs.Recap = fs.Rating, fs.Recap
	return gs
}
