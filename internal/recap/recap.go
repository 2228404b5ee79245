package recap

import (
	"fmt"
	"strings"

	"github.com/Kaylacoelho/chalkboard-app/internal/domain/games"
	"github.com/Kaylacoelho/chalkboard-app/internal/leagues"
)

// ScorerMarginLimit is the widest soccer margin that still names the last scorer.
const ScorerMarginLimit = 2

var extraClauses = map[leagues.Extra]string{
	leagues.ExtraOvertime:  " in overtime",
	leagues.ExtraTime:      " after extra time",
	leagues.ExtraPenalties: " on penalties",
	leagues.ExtraShootout:  " in a shootout",
}

// Generate returns a one-sentence summary of a finished game, or "" when the
// game is not final. A 0-0 final is treated as missing data and also yields "".
func Generate(game games.GameRecord, league leagues.Config) string {
	if !game.Status.IsFinal() {
		return ""
	}
	home, away := game.Score.Of(game.Home), game.Score.Of(game.Away)
	if home == 0 && away == 0 {
		return ""
	}

	winner, loser := game.Home, game.Away
	ws, ls := home, away
	if away > home {
		winner, loser = game.Away, game.Home
		ws, ls = away, home
	}
	margin := ws - ls

	var b strings.Builder
	if margin == 0 {
		fmt.Fprintf(&b, "%s drew with %s %d-%d", winner, loser, ws, ls)
	} else {
		fmt.Fprintf(&b, "%s %s %s %d-%d", winner, verb(margin, league.CloseMargin()), loser, ws, ls)
	}
	b.WriteString(extraClauses[leagues.ExtraPeriod(game.Clock)])

	if league.Family == leagues.FamilySoccer && margin > 0 && margin <= ScorerMarginLimit {
		if player := lastScorer(game.Events, winner == game.Home); player != "" {
			fmt.Fprintf(&b, ", with %s scoring the last goal", player)
		}
	}
	b.WriteString(".")
	return b.String()
}

func verb(margin, close int) string {
	switch {
	case margin <= close:
		return "edged"
	case margin <= 3*close:
		return "beat"
	}
	return "defeated"
}

// lastScorer finds the winning side's final goal, skipping own goals. An
// unattributed final goal yields "".
func lastScorer(events []games.Event, homeWon bool) string {
	for i := len(events) - 1; i >= 0; i-- {
		e := events[i]
		if e.IsHome != homeWon || !e.Type.IsGoal() {
			continue
		}
		return e.Player
	}
	return ""
}
