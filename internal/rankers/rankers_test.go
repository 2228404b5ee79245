package rankers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kaylacoelho/chalkboard-app/internal/domain/games"
	"github.com/Kaylacoelho/chalkboard-app/internal/leagues"
)

func scheduled(id string) games.GameRecord {
	return games.GameRecord{ID: id, Home: "H" + id, Away: "A" + id, Status: games.StatusScheduled}
}

func TestBestBetNilWithoutScheduledGames(t *testing.T) {
	live := games.GameRecord{ID: "1", Status: games.StatusInProgress}
	assert.Nil(t, BestBet(nil))
	assert.Nil(t, BestBet([]games.LeagueGames{{League: "nba", Games: []games.GameRecord{live}}}))
}

func TestBestBetProbabilityBeatsSpread(t *testing.T) {
	prob := games.GameRecord{ID: "p", Home: "A", Away: "B", Status: games.StatusScheduled,
		WinProbability: games.WinProbability{"A": 70, "B": 30}}
	spread := games.GameRecord{ID: "s", Home: "A", Away: "C", Status: games.StatusScheduled,
		Spread: &games.Spread{Favorite: "A -14"}}

	pick := BestBet([]games.LeagueGames{
		{League: "nfl", Games: []games.GameRecord{spread}},
		{League: "nba", Games: []games.GameRecord{prob}},
	})
	require.NotNil(t, pick)
	assert.Equal(t, "p", pick.Game.ID)
	assert.Equal(t, games.League("nba"), pick.League)
	require.NotNil(t, pick.FavoritePercentage)
	assert.Equal(t, 70.0, *pick.FavoritePercentage)
	assert.Equal(t, "A", pick.Favorite)
	assert.Equal(t, TierProbability, pick.Tier)
}

func TestBestBetProbabilityTiesKeepFirst(t *testing.T) {
	a := scheduled("1")
	a.WinProbability = games.WinProbability{"H1": 30, "A1": 70}
	b := scheduled("2")
	b.WinProbability = games.WinProbability{"H2": 70, "A2": 30}
	c := scheduled("3")
	c.WinProbability = games.WinProbability{"H3": 55}

	pick := BestBet([]games.LeagueGames{{League: "nba", Games: []games.GameRecord{c, a, b}}})
	require.NotNil(t, pick)
	assert.Equal(t, "1", pick.Game.ID)
	assert.Equal(t, "A1", pick.Favorite)
	assert.Equal(t, 70.0, *pick.FavoritePercentage)
}

func TestBestBetSpreadTier(t *testing.T) {
	small := scheduled("1")
	small.Spread = &games.Spread{Favorite: "H1 -3.5"}
	big := scheduled("2")
	big.Spread = &games.Spread{Favorite: "A2 -7"}
	junk := scheduled("3")
	junk.Spread = &games.Spread{Favorite: "EVEN"}
	tie := scheduled("4")
	tie.Spread = &games.Spread{Favorite: "+7"}

	pick := BestBet([]games.LeagueGames{{League: "nfl", Games: []games.GameRecord{junk, small, big, tie}}})
	require.NotNil(t, pick)
	assert.Equal(t, "2", pick.Game.ID)
	assert.Nil(t, pick.FavoritePercentage)
	assert.Equal(t, "A2", pick.Favorite)
	assert.Equal(t, TierSpread, pick.Tier)
}

func TestBestBetFallsBackToFirstScheduled(t *testing.T) {
	junk := scheduled("1")
	junk.Spread = &games.Spread{Favorite: "pick'em"}
	other := scheduled("2")

	pick := BestBet([]games.LeagueGames{
		{League: "nhl"},
		{League: "mlb", Games: []games.GameRecord{{ID: "live", Status: games.StatusInProgress}, junk, other}},
	})
	require.NotNil(t, pick)
	assert.Equal(t, "1", pick.Game.ID)
	assert.Equal(t, games.League("mlb"), pick.League)
	assert.Nil(t, pick.FavoritePercentage)
	assert.Equal(t, TierFirst, pick.Tier)
}

func TestSpreadMagnitude(t *testing.T) {
	assert.Equal(t, 14.0, SpreadMagnitude("A -14"))
	assert.Equal(t, 3.5, SpreadMagnitude("+3.5 BOS"))
	assert.Equal(t, 0.0, SpreadMagnitude("EVEN"))
	assert.Equal(t, 0.0, SpreadMagnitude(""))
	assert.Equal(t, 7.0, SpreadMagnitude("A2 -7"))
	assert.Equal(t, 6.5, SpreadMagnitude("76ERS -6.5"))
	assert.Equal(t, 0.0, SpreadMagnitude("PHI 0"))
	assert.Equal(t, 4.5, SpreadMagnitude("BOS-4.5"))
}

func TestBestBetPickEmSpreadQualifies(t *testing.T) {
	pickEm := games.GameRecord{ID: "pk", Home: "PHI", Away: "NYK", Status: games.StatusScheduled,
		Spread: &games.Spread{Favorite: "PHI 0"}}
	bare := games.GameRecord{ID: "bare", Home: "BOS", Away: "MIA", Status: games.StatusScheduled}

	pick := BestBet([]games.LeagueGames{{League: "nba", Games: []games.GameRecord{bare, pickEm}}})
	require.NotNil(t, pick)
	assert.Equal(t, "pk", pick.Game.ID)
	assert.Equal(t, TierSpread, pick.Tier)
	assert.Equal(t, "PHI", pick.Favorite)
}

func TestBestBetCompactSpreadNamesFavorite(t *testing.T) {
	g := games.GameRecord{ID: "c", Home: "BOS", Away: "LAL", Status: games.StatusScheduled,
		Spread: &games.Spread{Favorite: "BOS-4.5"}}

	pick := BestBet([]games.LeagueGames{{League: "nba", Games: []games.GameRecord{g}}})
	require.NotNil(t, pick)
	assert.Equal(t, TierSpread, pick.Tier)
	assert.Equal(t, "BOS", pick.Favorite)
}

func TestBestBetLargerSpreadBeatsPickEm(t *testing.T) {
	pickEm := scheduled("1")
	pickEm.Spread = &games.Spread{Favorite: "H1 0"}
	lined := scheduled("2")
	lined.Spread = &games.Spread{Favorite: "H2 -1.5"}

	pick := BestBet([]games.LeagueGames{{League: "nba", Games: []games.GameRecord{pickEm, lined}}})
	require.NotNil(t, pick)
	assert.Equal(t, "2", pick.Game.ID)
}

func TestBestLivePrefersCloseTenseGames(t *testing.T) {
	reg := leagues.DefaultRegistry()
	blowout := games.GameRecord{ID: "b", Home: "H", Away: "A", Status: games.StatusInProgress,
		Score: games.Score{"H": 80, "A": 60}, Clock: "Q4 3:00"}
	tight := games.GameRecord{ID: "c", Home: "H", Away: "A", Status: games.StatusInProgress,
		Score: games.Score{"H": 80, "A": 78}, Clock: "Q4 3:00"}
	final := games.GameRecord{ID: "f", Home: "H", Away: "A", Status: games.StatusFinal,
		Score: games.Score{"H": 80, "A": 80}}
	rings := map[string][]games.ScoreSnapshot{
		"b": make([]games.ScoreSnapshot, 9),
		"c": make([]games.ScoreSnapshot, 2),
	}

	pick := BestLive([]games.LeagueGames{{League: "nba", Games: []games.GameRecord{blowout, final, tight}}}, rings, reg)
	require.NotNil(t, pick)
	assert.Equal(t, "c", pick.Game.ID)
	assert.Equal(t, 12.0+8+2, pick.Excitement)
}

func TestBestLiveTiesKeepFirstLeague(t *testing.T) {
	reg := leagues.DefaultRegistry()
	a := games.GameRecord{ID: "a", Home: "H", Away: "A", Status: games.StatusInProgress, Score: games.Score{"H": 1}, Clock: "P1"}
	b := games.GameRecord{ID: "b", Home: "H", Away: "A", Status: games.StatusInProgress, Score: games.Score{"H": 1}, Clock: "P1"}

	pick := BestLive([]games.LeagueGames{
		{League: "nhl", Games: []games.GameRecord{a}},
		{League: "nhl", Games: []games.GameRecord{b}},
	}, nil, reg)
	require.NotNil(t, pick)
	assert.Equal(t, "a", pick.Game.ID)
}

func TestBestLiveNilWhenNothingLive(t *testing.T) {
	assert.Nil(t, BestLive(nil, nil, nil))
}

func TestExcitementNeverNegativeOnMargin(t *testing.T) {
	g := games.GameRecord{Home: "H", Away: "A", Status: games.StatusInProgress, Score: games.Score{"H": 50}}
	assert.Equal(t, 5.0, DefaultLiveWeights.Excitement(g, 7, leagues.Fallback("x")))
}
