package leagues

import (
	"fmt"
	"strings"

	"github.com/Kaylacoelho/chalkboard-app/internal/domain/games"
)

// DefaultTensionMargin applies to leagues without a configured margin.
const DefaultTensionMargin = 5

// SoccerTensionMargin is the close-game margin for soccer-family leagues.
const SoccerTensionMargin = 1

// Config describes one tracked league.
type Config struct {
	Key           games.League `json:"key" mapstructure:"key" validate:"required"`
	DisplayName   string       `json:"displayName" mapstructure:"display_name"`
	Family        Family       `json:"family" mapstructure:"family" validate:"omitempty,oneof=basketball football hockey baseball soccer generic"`
	ESPNPath      string       `json:"espnPath,omitempty" mapstructure:"espn_path"`
	TensionMargin int          `json:"tensionMargin" mapstructure:"tension_margin" validate:"gte=0"`
	Enabled       bool         `json:"enabled" mapstructure:"enabled"`
}

// CloseMargin is the score margin under which a game counts as close.
// Zero falls back to the family default.
func (c Config) CloseMargin() int {
	if c.TensionMargin > 0 {
		return c.TensionMargin
	}
	if c.Family == FamilySoccer {
		return SoccerTensionMargin
	}
	return DefaultTensionMargin
}

// Fallback is the configuration used for leagues the registry does not know.
func Fallback(key games.League) Config {
	return Config{
		Key:           key,
		DisplayName:   strings.ToUpper(string(key)),
		Family:        FamilyGeneric,
		TensionMargin: DefaultTensionMargin,
		Enabled:       false,
	}
}

// Defaults returns the built-in leagues in enumeration order.
func Defaults() []Config {
	return []Config{
		{Key: "nfl", DisplayName: "NFL", Family: FamilyFootball, ESPNPath: "football/nfl", TensionMargin: 8, Enabled: true},
		{Key: "nba", DisplayName: "NBA", Family: FamilyBasketball, ESPNPath: "basketball/nba", TensionMargin: 6, Enabled: true},
		{Key: "mlb", DisplayName: "MLB", Family: FamilyBaseball, ESPNPath: "baseball/mlb", TensionMargin: 2, Enabled: true},
		{Key: "nhl", DisplayName: "NHL", Family: FamilyHockey, ESPNPath: "hockey/nhl", TensionMargin: 1, Enabled: true},
		{Key: "ncaaf", DisplayName: "NCAAF", Family: FamilyFootball, ESPNPath: "football/college-football", TensionMargin: 8, Enabled: true},
		{Key: "ncaab", DisplayName: "NCAAB", Family: FamilyBasketball, ESPNPath: "basketball/mens-college-basketball", TensionMargin: 6, Enabled: true},
		{Key: "wnba", DisplayName: "WNBA", Family: FamilyBasketball, ESPNPath: "basketball/wnba", TensionMargin: 6, Enabled: true},
		{Key: "mls", DisplayName: "MLS", Family: FamilySoccer, ESPNPath: "soccer/usa.1", TensionMargin: SoccerTensionMargin, Enabled: true},
		{Key: "epl", DisplayName: "Premier League", Family: FamilySoccer, ESPNPath: "soccer/eng.1", TensionMargin: SoccerTensionMargin, Enabled: true},
		{Key: "laliga", DisplayName: "La Liga", Family: FamilySoccer, ESPNPath: "soccer/esp.1", TensionMargin: SoccerTensionMargin, Enabled: true},
		{Key: "ucl", DisplayName: "Champions League", Family: FamilySoccer, ESPNPath: "soccer/uefa.champions", TensionMargin: SoccerTensionMargin, Enabled: true},
	}
}

// Registry is an ordered set of league configurations. The slice order is the
// enumeration order used for tie-breaks everywhere downstream.
type Registry struct {
	order []Config
	byKey map[games.League]int
}

// NewRegistry builds a registry, rejecting empty and duplicate keys.
func NewRegistry(cfgs []Config) (*Registry, error) {
	r := &Registry{
		order: make([]Config, 0, len(cfgs)),
		byKey: make(map[games.League]int, len(cfgs)),
	}
	for _, c := range cfgs {
		key := games.League(strings.ToLower(strings.TrimSpace(string(c.Key))))
		if key == "" {
			return nil, fmt.Errorf("league key is required")
		}
		if _, dup := r.byKey[key]; dup {
			return nil, fmt.Errorf("duplicate league %q", key)
		}
		c.Key = key
		if c.Family == "" {
			c.Family = FamilyGeneric
		}
		if c.DisplayName == "" {
			c.DisplayName = strings.ToUpper(string(key))
		}
		r.byKey[key] = len(r.order)
		r.order = append(r.order, c)
	}
	return r, nil
}

// DefaultRegistry returns a registry of Defaults.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(Defaults())
	if err != nil {
		panic(err)
	}
	return r
}

// Get returns the configured league, if any.
func (r *Registry) Get(key games.League) (Config, bool) {
	if r == nil {
		return Config{}, false
	}
	i, ok := r.byKey[key]
	if !ok {
		return Config{}, false
	}
	return r.order[i], true
}

// Lookup returns the configured league or the Fallback for unknown keys.
func (r *Registry) Lookup(key games.League) Config {
	if c, ok := r.Get(key); ok {
		return c
	}
	return Fallback(key)
}

// All returns every configured league in order.
func (r *Registry) All() []Config {
	if r == nil {
		return nil
	}
	return append([]Config(nil), r.order...)
}

// Enabled returns the enabled leagues in order.
func (r *Registry) Enabled() []Config {
	if r == nil {
		return nil
	}
	out := make([]Config, 0, len(r.order))
	for _, c := range r.order {
		if c.Enabled {
			out = append(out, c)
		}
	}
	return out
}

// Order returns the league keys in enumeration order.
func (r *Registry) Order() []games.League {
	if r == nil {
		return nil
	}
	out := make([]games.League, len(r.order))
	for i, c := range r.order {
		out[i] = c.Key
	}
	return out
}

// Rank returns a league's position in the enumeration order. Unknown leagues
// sort after every configured one.
func (r *Registry) Rank(key games.League) int {
	if r != nil {
		if i, ok := r.byKey[key]; ok {
			return i
		}
	}
	return len(r.orderOrNil())
}

func (r *Registry) orderOrNil() []Config {
	if r == nil {
		return nil
	}
	return r.order
}
