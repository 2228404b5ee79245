package espn

import (
	"math"
	"strconv"
	"strings"

	"github.com/Kaylacoelho/chalkboard-app/internal/domain/games"
	"github.com/Kaylacoelho/chalkboard-app/internal/leagues"
)

func mapEvent(e event, league leagues.Config) (games.GameRecord, bool) {
	if len(e.Competitions) == 0 {
		return games.GameRecord{}, false
	}
	comp := e.Competitions[0]

	var home, away *competitor
	for i := range comp.Competitors {
		switch comp.Competitors[i].HomeAway {
		case "home":
			home = &comp.Competitors[i]
		case "away":
			away = &comp.Competitors[i]
		}
	}
	if home == nil || away == nil || home.Team.Abbreviation == "" || away.Team.Abbreviation == "" {
		return games.GameRecord{}, false
	}

	st := e.Status
	if comp.Status != nil {
		st = *comp.Status
	}
	gameStatus := mapStatus(st)

	start := comp.Date
	if start == "" {
		start = e.Date
	}

	rec := games.GameRecord{
		ID:        e.ID,
		League:    league.Key,
		Home:      home.Team.Abbreviation,
		Away:      away.Team.Abbreviation,
		HomeName:  home.Team.DisplayName,
		AwayName:  away.Team.DisplayName,
		Status:    gameStatus,
		StartTime: start,
		Provider:  providerName,
	}

	if gameStatus != games.StatusScheduled {
		rec.Clock = st.Type.ShortDetail
		rec.Score = games.Score{}
		if v, ok := parseScore(home.Score); ok {
			rec.Score[rec.Home] = v
		}
		if v, ok := parseScore(away.Score); ok {
			rec.Score[rec.Away] = v
		}
		if len(rec.Score) == 0 {
			rec.Score = nil
		}
	}

	rec.WinProbability = mapProbability(comp, rec.Home, rec.Away)
	if len(comp.Odds) > 0 && comp.Odds[0].Details != "" {
		rec.Spread = &games.Spread{Favorite: comp.Odds[0].Details}
		if comp.Odds[0].OverUnder > 0 {
			rec.Spread.OverUnder = strconv.FormatFloat(comp.Odds[0].OverUnder, 'f', -1, 64)
		}
	}
	if league.Family == leagues.FamilySoccer {
		rec.Events = mapDetails(comp.Details, home.Team.ID)
	}
	return rec, true
}

func mapStatus(st status) games.Status {
	switch strings.ToLower(st.Type.State) {
	case "in":
		return games.StatusInProgress
	case "post":
		if st.Type.Completed {
			return games.StatusFinal
		}
		// postponed or canceled games are reported as post without completion
		return games.StatusScheduled
	case "pre":
		return games.StatusScheduled
	}
	return games.ParseStatus(st.Type.Name)
}

func parseScore(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}

// mapProbability prefers the live win probability and falls back to the
// implied probability of the first moneyline.
func mapProbability(comp competition, home, away string) games.WinProbability {
	if comp.Situation != nil && comp.Situation.LastPlay != nil && comp.Situation.LastPlay.Probability != nil {
		p := comp.Situation.LastPlay.Probability
		wp := games.WinProbability{
			home: roundPct(p.HomeWinPercentage * 100),
			away: roundPct(p.AwayWinPercentage * 100),
		}
		if p.TiePercentage > 0 {
			wp[games.DrawKey] = roundPct(p.TiePercentage * 100)
		}
		return wp
	}
	for _, o := range comp.Odds {
		h, a := impliedProbability(o.HomeTeamOdds.MoneyLine), impliedProbability(o.AwayTeamOdds.MoneyLine)
		if h > 0 && a > 0 {
			return games.WinProbability{home: h, away: a}
		}
	}
	return nil
}

// impliedProbability converts an American moneyline to a percentage.
func impliedProbability(moneyline int) float64 {
	switch {
	case moneyline < 0:
		m := float64(-moneyline)
		return roundPct(m / (m + 100) * 100)
	case moneyline > 0:
		return roundPct(100 / (float64(moneyline) + 100) * 100)
	}
	return 0
}

func roundPct(v float64) float64 {
	return math.Round(v*10) / 10
}

func mapDetails(details []detail, homeTeamID string) []games.Event {
	if len(details) == 0 {
		return nil
	}
	out := make([]games.Event, 0, len(details))
	for _, d := range details {
		ev := games.Event{
			IsHome: d.Team.ID != "" && d.Team.ID == homeTeamID,
			Type:   detailType(d),
			Clock:  d.Clock.DisplayValue,
		}
		if len(d.AthletesInvolved) > 0 {
			ev.Player = d.AthletesInvolved[0].DisplayName
		}
		out = append(out, ev)
	}
	return out
}

func detailType(d detail) games.EventType {
	switch {
	case d.OwnGoal:
		return games.EventOwnGoal
	case d.ScoringPlay && d.PenaltyKick:
		return games.EventPenalty
	case d.ScoringPlay:
		return games.EventGoal
	case d.RedCard:
		return games.EventRedCard
	case d.YellowCard:
		return games.EventYellowCard
	case strings.Contains(strings.ToLower(d.Type.Text), "substitution"):
		return games.EventSub
	}
	return games.EventOther
}
