package games

import "strings"

// Status mirrors the lifecycle states reported by league feeds.
type Status string

const (
	StatusScheduled  Status = "scheduled"
	StatusInProgress Status = "in_progress"
	StatusFinal      Status = "final"
	StatusClosed     Status = "closed"
)

// IsFinal reports whether the game is finished. Closed is an alias of final.
func (s Status) IsFinal() bool {
	return s == StatusFinal || s == StatusClosed
}

// IsLive reports whether the game is in progress.
func (s Status) IsLive() bool {
	return s == StatusInProgress
}

// ParseStatus normalizes free-form feed statuses. Unknown values map to scheduled.
func ParseStatus(raw string) Status {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "in_progress", "in progress", "inprogress", "live", "halftime", "status_in_progress", "status_halftime", "status_end_period":
		return StatusInProgress
	case "final", "status_final", "full_time", "status_full_time", "post", "completed":
		return StatusFinal
	case "closed":
		return StatusClosed
	default:
		return StatusScheduled
	}
}

// League identifies a competition, e.g. "nba" or "epl".
type League string

// Score maps a team abbreviation to its points. Nil or partial before start.
type Score map[string]int

// Of returns the team's score, treating a missing entry as zero.
func (s Score) Of(team string) int {
	if s == nil {
		return 0
	}
	return s[team]
}

// Present reports whether any score has been reported.
func (s Score) Present() bool {
	return len(s) > 0
}

// DrawKey is the optional win probability entry for a draw.
const DrawKey = "draw"

// WinProbability maps team abbreviation (plus optional draw) to a percentage in [0,100].
type WinProbability map[string]float64

// Of returns the side's percentage, defaulting a missing side to 50.
func (wp WinProbability) Of(team string) float64 {
	if v, ok := wp[team]; ok {
		return v
	}
	return 50
}

// Spread is a free-text betting line.
type Spread struct {
	Favorite  string `json:"favorite"`
	OverUnder string `json:"overUnder,omitempty"`
}

// EventType classifies in-game events.
type EventType string

const (
	EventGoal       EventType = "goal"
	EventOwnGoal    EventType = "own_goal"
	EventPenalty    EventType = "penalty_goal"
	EventYellowCard EventType = "yellow_card"
	EventRedCard    EventType = "red_card"
	EventSub        EventType = "substitution"
	EventOther      EventType = "other"
)

// IsGoal reports whether the event counts for the side it is attributed to.
func (t EventType) IsGoal() bool {
	return t == EventGoal || t == EventPenalty
}

// Event is one discrete in-game occurrence.
type Event struct {
	IsHome bool      `json:"isHome"`
	Type   EventType `json:"type"`
	Clock  string    `json:"clock,omitempty"`
	Player string    `json:"player,omitempty"`
}

// GameRecord is one observed state of a game at a tick.
type GameRecord struct {
	ID             string         `json:"id"`
	League         League         `json:"league"`
	Home           string         `json:"home"`
	Away           string         `json:"away"`
	HomeName       string         `json:"homeName,omitempty"`
	AwayName       string         `json:"awayName,omitempty"`
	Status         Status         `json:"status"`
	Score          Score          `json:"score,omitempty"`
	Clock          string         `json:"clock,omitempty"`
	WinProbability WinProbability `json:"winProbability,omitempty"`
	Spread         *Spread        `json:"spread,omitempty"`
	Events         []Event        `json:"events,omitempty"`
	StartTime      string         `json:"startTime,omitempty"`
	Provider       string         `json:"provider,omitempty"`
}

// Margin is the absolute home/away score difference, missing scores as zero.
func (g GameRecord) Margin() int {
	d := g.Score.Of(g.Home) - g.Score.Of(g.Away)
	if d < 0 {
		return -d
	}
	return d
}

// Clone returns a deep copy so derived views never alias feed data.
func (g GameRecord) Clone() GameRecord {
	out := g
	if g.Score != nil {
		out.Score = make(Score, len(g.Score))
		for k, v := range g.Score {
			out.Score[k] = v
		}
	}
	if g.WinProbability != nil {
		out.WinProbability = make(WinProbability, len(g.WinProbability))
		for k, v := range g.WinProbability {
			out.WinProbability[k] = v
		}
	}
	if g.Spread != nil {
		sp := *g.Spread
		out.Spread = &sp
	}
	if g.Events != nil {
		out.Events = append([]Event(nil), g.Events...)
	}
	return out
}

// ScoreSnapshot is one accepted history entry.
type ScoreSnapshot struct {
	Home  int    `json:"home"`
	Away  int    `json:"away"`
	Clock string `json:"clock,omitempty"`
}

// LeagueGames is the game set a single league reported for a tick.
type LeagueGames struct {
	League League       `json:"league"`
	Games  []GameRecord `json:"games"`
}
