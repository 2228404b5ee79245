// Package signals derives per-game indicators from a game record and its
// score history. Every function is pure: it reads only its arguments and
// never fails, substituting documented defaults for missing data.
package signals

import (
	"math"

	"github.com/Kaylacoelho/chalkboard-app/internal/domain/games"
	"github.com/Kaylacoelho/chalkboard-app/internal/leagues"
)

// UpsetThreshold is the largest win probability gap still flagged as an upset risk.
const UpsetThreshold = 15.0

// Momentum names the only side whose score rose between the last two
// snapshots. It returns "" when fewer than two snapshots exist or when both
// or neither side scored.
func Momentum(ring []games.ScoreSnapshot, home, away string) string {
	if len(ring) < 2 {
		return ""
	}
	prev, last := ring[len(ring)-2], ring[len(ring)-1]
	homeScored := last.Home > prev.Home
	awayScored := last.Away > prev.Away
	switch {
	case homeScored && !awayScored:
		return home
	case awayScored && !homeScored:
		return away
	}
	return ""
}

// ScoreDelta returns the nonzero per-team change between the last two
// snapshots, or nil when there is none.
func ScoreDelta(ring []games.ScoreSnapshot, home, away string) map[string]int {
	if len(ring) < 2 {
		return nil
	}
	prev, last := ring[len(ring)-2], ring[len(ring)-1]
	dh, da := last.Home-prev.Home, last.Away-prev.Away
	if dh == 0 && da == 0 {
		return nil
	}
	out := make(map[string]int, 2)
	if dh != 0 {
		out[home] = dh
	}
	if da != 0 {
		out[away] = da
	}
	return out
}

// UpsetAlert flags a near toss-up. A nil probability is never an alert.
// A side missing from a present probability map counts as 50, so a model that
// only reports one team at 40..60 reads as a toss-up.
func UpsetAlert(wp games.WinProbability, home, away string) bool {
	if wp == nil {
		return false
	}
	return math.Abs(wp.Of(home)-wp.Of(away)) <= UpsetThreshold
}

// Tension flags a live game that is both late and within the league's close margin.
func Tension(game games.GameRecord, league leagues.Config) bool {
	if !game.Status.IsLive() || !game.Score.Present() {
		return false
	}
	if game.Margin() > league.CloseMargin() {
		return false
	}
	return league.Family.IsLate(game.Clock)
}
