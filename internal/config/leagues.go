package config

import (
	"fmt"
	"strings"

	"github.com/Kaylacoelho/chalkboard-app/internal/domain/games"
	"github.com/Kaylacoelho/chalkboard-app/internal/leagues"
)

// LeagueOverride adjusts a built-in league or declares a new one. Nil fields
// keep the built-in value.
type LeagueOverride struct {
	Key           string `mapstructure:"key" validate:"required"`
	DisplayName   string `mapstructure:"display_name"`
	Family        string `mapstructure:"family" validate:"omitempty,oneof=basketball football hockey baseball soccer generic"`
	ESPNPath      string `mapstructure:"espn_path"`
	TensionMargin *int   `mapstructure:"tension_margin" validate:"omitempty,gte=0"`
	Enabled       *bool  `mapstructure:"enabled"`
}

// Registry builds the league registry: built-in defaults, then YAML overrides,
// then the LEAGUES allow-list, which also fixes enumeration order.
func (c Config) Registry() (*leagues.Registry, error) {
	cfgs := leagues.Defaults()
	index := make(map[games.League]int, len(cfgs))
	for i, lc := range cfgs {
		index[lc.Key] = i
	}

	for _, o := range c.Leagues {
		key := games.League(strings.ToLower(strings.TrimSpace(o.Key)))
		i, ok := index[key]
		if !ok {
			fb := leagues.Fallback(key)
			fb.Enabled = true
			cfgs = append(cfgs, fb)
			i = len(cfgs) - 1
			index[key] = i
		}
		cfgs[i] = o.apply(cfgs[i])
	}

	if len(c.EnabledLeagues) > 0 {
		ordered := make([]leagues.Config, 0, len(cfgs))
		picked := make(map[games.League]bool, len(c.EnabledLeagues))
		for _, raw := range c.EnabledLeagues {
			key := games.League(strings.ToLower(strings.TrimSpace(raw)))
			i, ok := index[key]
			if !ok {
				return nil, fmt.Errorf("unknown league %q in %s", key, envLeagues)
			}
			if picked[key] {
				continue
			}
			picked[key] = true
			lc := cfgs[i]
			lc.Enabled = true
			ordered = append(ordered, lc)
		}
		for _, lc := range cfgs {
			if !picked[lc.Key] {
				lc.Enabled = false
				ordered = append(ordered, lc)
			}
		}
		cfgs = ordered
	}

	return leagues.NewRegistry(cfgs)
}

func (o LeagueOverride) apply(lc leagues.Config) leagues.Config {
	if o.DisplayName != "" {
		lc.DisplayName = o.DisplayName
	}
	if o.Family != "" {
		lc.Family = leagues.Family(o.Family)
	}
	if o.ESPNPath != "" {
		lc.ESPNPath = o.ESPNPath
	}
	if o.TensionMargin != nil {
		lc.TensionMargin = *o.TensionMargin
	}
	if o.Enabled != nil {
		lc.Enabled = *o.Enabled
	}
	return lc
}
