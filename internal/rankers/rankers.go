// Package rankers selects single games across every tracked league. Iteration
// follows the order of the supplied league sets, and ties keep the first game
// encountered, so selections stay stable between ticks.
package rankers

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/Kaylacoelho/chalkboard-app/internal/domain/games"
	"github.com/Kaylacoelho/chalkboard-app/internal/leagues"
	"github.com/Kaylacoelho/chalkboard-app/internal/signals"
)

// Tier identifies which fallback produced a best bet.
type Tier int

const (
	TierProbability Tier = 1
	TierSpread      Tier = 2
	TierFirst       Tier = 3
)

// BetPick is the selected pre-game pick. A nil FavoritePercentage means no
// quantitative confidence is available.
type BetPick struct {
	Game               games.GameRecord `json:"game"`
	League             games.League     `json:"league"`
	FavoritePercentage *float64         `json:"favoritePercentage"`
	Favorite           string           `json:"favorite,omitempty"`
	Tier               Tier             `json:"tier"`
}

// spreadNumber matches a standalone decimal, so digits inside a team
// abbreviation such as "A2" or "76ERS" are not read as the line. A signed
// number may follow the abbreviation directly ("BOS-4.5").
var spreadNumber = regexp.MustCompile(`(?:^|[^A-Za-z0-9.])([-+]?\d+(?:\.\d+)?)(?:$|[^A-Za-z0-9.])|([-+]\d+(?:\.\d+)?)(?:$|[^A-Za-z0-9.])`)

// SpreadMagnitude returns the absolute value of the first standalone decimal
// number in a spread favorite string. Unparsable text yields 0.
func SpreadMagnitude(favorite string) float64 {
	v, _ := parseSpread(favorite)
	return v
}

// parseSpread reports whether a line was found, so a pick'em written as
// "PHI 0" still counts as parsed.
func parseSpread(favorite string) (float64, bool) {
	m := spreadNumber.FindStringSubmatch(favorite)
	if m == nil {
		return 0, false
	}
	num := m[1]
	if num == "" {
		num = m[2]
	}
	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, false
	}
	return math.Abs(v), true
}

// BestBet picks the scheduled game with the most lopsided win probability,
// then the largest parsable spread, then simply the first scheduled game.
// It returns nil when nothing is scheduled.
func BestBet(sets []games.LeagueGames) *BetPick {
	var (
		probPick, spreadPick, firstPick *BetPick
		bestSkew, bestSpread            float64
	)

	for _, set := range sets {
		for _, g := range set.Games {
			if g.Status != games.StatusScheduled {
				continue
			}
			league := leagueOf(set, g)
			if firstPick == nil {
				firstPick = &BetPick{Game: g, League: league, Tier: TierFirst}
			}

			if g.WinProbability != nil {
				home, away := g.WinProbability.Of(g.Home), g.WinProbability.Of(g.Away)
				skew := math.Abs(home - away)
				if probPick == nil || skew > bestSkew {
					pct, fav := home, g.Home
					if away > home {
						pct, fav = away, g.Away
					}
					bestSkew = skew
					probPick = &BetPick{Game: g, League: league, FavoritePercentage: &pct, Favorite: fav, Tier: TierProbability}
				}
				continue
			}

			if probPick != nil || g.Spread == nil {
				continue
			}
			mag, ok := parseSpread(g.Spread.Favorite)
			if !ok {
				continue
			}
			if spreadPick == nil || mag > bestSpread {
				bestSpread = mag
				spreadPick = &BetPick{Game: g, League: league, Favorite: spreadFavorite(g), Tier: TierSpread}
			}
		}
	}

	switch {
	case probPick != nil:
		return probPick
	case spreadPick != nil:
		return spreadPick
	}
	return firstPick
}

func spreadFavorite(g games.GameRecord) string {
	tokens := strings.FieldsFunc(g.Spread.Favorite, func(r rune) bool {
		return unicode.IsSpace(r) || r == '+' || r == '-'
	})
	for _, tok := range tokens {
		switch strings.ToUpper(tok) {
		case strings.ToUpper(g.Home):
			return g.Home
		case strings.ToUpper(g.Away):
			return g.Away
		}
	}
	return ""
}

// LiveWeights are the tunable constants of the excitement score.
type LiveWeights struct {
	MarginBase    float64
	MarginPenalty float64
	TensionBonus  float64
	HistoryCap    int
}

// DefaultLiveWeights reward close, tense games with recent scoring.
var DefaultLiveWeights = LiveWeights{
	MarginBase:    15,
	MarginPenalty: 1.5,
	TensionBonus:  8,
	HistoryCap:    5,
}

// LivePick is the selected in-progress game.
type LivePick struct {
	Game       games.GameRecord `json:"game"`
	League     games.League     `json:"league"`
	Excitement float64          `json:"excitement"`
}

// Excitement scores one live game.
func (w LiveWeights) Excitement(game games.GameRecord, ringLen int, league leagues.Config) float64 {
	score := math.Max(0, w.MarginBase-float64(game.Margin())*w.MarginPenalty)
	if signals.Tension(game, league) {
		score += w.TensionBonus
	}
	if ringLen > w.HistoryCap {
		ringLen = w.HistoryCap
	}
	return score + float64(ringLen)
}

// BestLive picks the most exciting in-progress game using DefaultLiveWeights.
func BestLive(sets []games.LeagueGames, rings map[string][]games.ScoreSnapshot, registry *leagues.Registry) *LivePick {
	return DefaultLiveWeights.BestLive(sets, rings, registry)
}

// BestLive picks the in-progress game with the strictly highest excitement.
// It returns nil when no game is live.
func (w LiveWeights) BestLive(sets []games.LeagueGames, rings map[string][]games.ScoreSnapshot, registry *leagues.Registry) *LivePick {
	var best *LivePick
	for _, set := range sets {
		for _, g := range set.Games {
			if !g.Status.IsLive() {
				continue
			}
			league := leagueOf(set, g)
			score := w.Excitement(g, len(rings[g.ID]), registry.Lookup(league))
			if best == nil || score > best.Excitement {
				best = &LivePick{Game: g, League: league, Excitement: score}
			}
		}
	}
	return best
}

func leagueOf(set games.LeagueGames, g games.GameRecord) games.League {
	if set.League != "" {
		return set.League
	}
	return g.League
}
