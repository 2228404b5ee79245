package espn

type scoreboardResponse struct {
	Events []event `json:"events"`
}

type event struct {
	ID           string        `json:"id"`
	Date         string        `json:"date"`
	Name         string        `json:"name"`
	ShortName    string        `json:"shortName"`
	Competitions []competition `json:"competitions"`
	Status       status        `json:"status"`
}

type competition struct {
	ID          string       `json:"id"`
	Date        string       `json:"date"`
	Competitors []competitor `json:"competitors"`
	Status      *status      `json:"status"`
	Odds        []odds       `json:"odds"`
	Situation   *situation   `json:"situation"`
	Details     []detail     `json:"details"`
}

type status struct {
	DisplayClock string `json:"displayClock"`
	Period       int    `json:"period"`
	Type         struct {
		Name        string `json:"name"`
		State       string `json:"state"`
		Completed   bool   `json:"completed"`
		Detail      string `json:"detail"`
		ShortDetail string `json:"shortDetail"`
	} `json:"type"`
}

type competitor struct {
	ID       string `json:"id"`
	HomeAway string `json:"homeAway"`
	Score    string `json:"score"`
	Team     team   `json:"team"`
}

type team struct {
	ID           string `json:"id"`
	Abbreviation string `json:"abbreviation"`
	DisplayName  string `json:"displayName"`
}

type odds struct {
	Provider struct {
		Name string `json:"name"`
	} `json:"provider"`
	Details      string   `json:"details"`
	OverUnder    float64  `json:"overUnder"`
	HomeTeamOdds teamOdds `json:"homeTeamOdds"`
	AwayTeamOdds teamOdds `json:"awayTeamOdds"`
}

type teamOdds struct {
	Favorite  bool `json:"favorite"`
	MoneyLine int  `json:"moneyLine"`
}

type situation struct {
	LastPlay *struct {
		Probability *probability `json:"probability"`
	} `json:"lastPlay"`
}

type probability struct {
	HomeWinPercentage float64 `json:"homeWinPercentage"`
	AwayWinPercentage float64 `json:"awayWinPercentage"`
	TiePercentage     float64 `json:"tiePercentage"`
}

type detail struct {
	Type struct {
		ID   string `json:"id"`
		Text string `json:"text"`
	} `json:"type"`
	Clock struct {
		DisplayValue string `json:"displayValue"`
	} `json:"clock"`
	Team struct {
		ID string `json:"id"`
	} `json:"team"`
	ScoringPlay      bool      `json:"scoringPlay"`
	OwnGoal          bool      `json:"ownGoal"`
	PenaltyKick      bool      `json:"penaltyKick"`
	YellowCard       bool      `json:"yellowCard"`
	RedCard          bool      `json:"redCard"`
	AthletesInvolved []athlete `json:"athletesInvolved"`
}

type athlete struct {
	DisplayName string `json:"displayName"`
}
