package signals

import (
	"github.com/shopspring/decimal"

	"github.com/Kaylacoelho/chalkboard-app/internal/domain/games"
	"github.com/Kaylacoelho/chalkboard-app/internal/leagues"
)

var (
	ratingBaseline      = decimal.NewFromInt(5)
	ratingMin           = decimal.NewFromInt(1)
	ratingMax           = decimal.NewFromInt(10)
	leadChangeStep      = decimal.RequireFromString("0.5")
	leadChangeBonusCap  = decimal.NewFromInt(2)
	extraPeriodBonus    = decimal.NewFromInt(1)
	ratingDecimalPlaces = int32(1)
)

// EntertainmentRating scores a finished game from 1 to 10, rounded to one
// decimal. It returns nil for games that are not final.
func EntertainmentRating(game games.GameRecord, ring []games.ScoreSnapshot, league leagues.Config) *float64 {
	if !game.Status.IsFinal() {
		return nil
	}

	rating := ratingBaseline.Add(decimal.NewFromInt(int64(marginBand(game.Margin(), league.CloseMargin()))))

	bonus := leadChangeStep.Mul(decimal.NewFromInt(int64(LeadChanges(ring))))
	if bonus.GreaterThan(leadChangeBonusCap) {
		bonus = leadChangeBonusCap
	}
	rating = rating.Add(bonus)

	if leagues.ExtraPeriod(game.Clock) != leagues.ExtraNone {
		rating = rating.Add(extraPeriodBonus)
	}

	if rating.LessThan(ratingMin) {
		rating = ratingMin
	}
	if rating.GreaterThan(ratingMax) {
		rating = ratingMax
	}
	out := rating.Round(ratingDecimalPlaces).InexactFloat64()
	return &out
}

func marginBand(margin, close int) int {
	switch {
	case margin == 0:
		return 3
	case margin <= close:
		return 2
	case margin <= 2*close:
		return 1
	case margin >= 4*close:
		return -2
	}
	return 0
}

// LeadChanges counts transitions of the leading side across the ring. Ties do
// not reset the previous leader.
func LeadChanges(ring []games.ScoreSnapshot) int {
	changes := 0
	leader := 0
	for _, s := range ring {
		current := 0
		switch {
		case s.Home > s.Away:
			current = 1
		case s.Away > s.Home:
			current = -1
		}
		if current == 0 {
			continue
		}
		if leader != 0 && current != leader {
			changes++
		}
		leader = current
	}
	return changes
}
