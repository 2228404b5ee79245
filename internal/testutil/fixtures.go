package testutil

import (
	"github.com/Kaylacoelho/chalkboard-app/internal/domain/games"
	"github.com/Kaylacoelho/chalkboard-app/internal/leagues"
)

// LiveGame builds an in-progress game with the given score and clock.
func LiveGame(id, league, home, away string, homeScore, awayScore int, clock string) games.GameRecord {
	return games.GameRecord{
		ID:       id,
		League:   games.League(league),
		Home:     home,
		Away:     away,
		Status:   games.StatusInProgress,
		Score:    games.Score{home: homeScore, away: awayScore},
		Clock:    clock,
		Provider: "stub",
	}
}

// ScheduledGame builds a scheduled game with an optional win probability.
func ScheduledGame(id, league, home, away string, homePct, awayPct float64) games.GameRecord {
	g := games.GameRecord{
		ID:       id,
		League:   games.League(league),
		Home:     home,
		Away:     away,
		Status:   games.StatusScheduled,
		Provider: "stub",
	}
	if homePct > 0 || awayPct > 0 {
		g.WinProbability = games.WinProbability{home: homePct, away: awayPct}
	}
	return g
}

// Registry builds a registry with only the named default leagues enabled, in
// the given order.
func Registry(keys ...string) *leagues.Registry {
	defaults := make(map[games.League]leagues.Config)
	for _, cfg := range leagues.Defaults() {
		defaults[cfg.Key] = cfg
	}
	cfgs := make([]leagues.Config, 0, len(keys))
	for _, k := range keys {
		cfg, ok := defaults[games.League(k)]
		if !ok {
			cfg = leagues.Fallback(games.League(k))
		}
		cfg.Enabled = true
		cfgs = append(cfgs, cfg)
	}
	reg, err := leagues.NewRegistry(cfgs)
	if err != nil {
		panic(err)
	}
	return reg
}
