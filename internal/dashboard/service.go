package dashboard

import (
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/Kaylacoelho/chalkboard-app/internal/domain/games"
	"github.com/Kaylacoelho/chalkboard-app/internal/leagues"
	"github.com/Kaylacoelho/chalkboard-app/internal/logging"
)

const (
	finalsTTL     = 6 * time.Hour
	finalsCleanup = 30 * time.Minute
)

// Input is one tick's consistent state handed to Publish.
type Input struct {
	TickID       string
	Sets         []games.LeagueGames
	Rings        map[string][]games.ScoreSnapshot
	LeagueErrors map[string]string
	Unavailable  bool
	BuiltAt      time.Time
}

// Service owns the latest published View. Readers always see a complete view.
type Service struct {
	registry *leagues.Registry
	finals   *cacheMemo
	current  atomic.Pointer[View]
	logger   *slog.Logger
}

// NewService constructs a Service with an empty view.
func NewService(registry *leagues.Registry, logger *slog.Logger) *Service {
	s := &Service{
		registry: registry,
		finals:   &cacheMemo{c: cache.New(finalsTTL, finalsCleanup)},
		logger:   logger,
	}
	empty := View{Leagues: []LeagueView{}}
	s.current.Store(&empty)
	return s
}

// Publish derives a view from in and makes it the current one.
func (s *Service) Publish(in Input) View {
	view := build(in.Sets, in.Rings, s.registry, in.BuiltAt, s.finals)
	view.TickID = in.TickID
	view.Unavailable = in.Unavailable
	if len(in.LeagueErrors) > 0 {
		view.LeagueErrors = make(map[string]string, len(in.LeagueErrors))
		for k, v := range in.LeagueErrors {
			view.LeagueErrors[k] = v
		}
		for i := range view.Leagues {
			view.Leagues[i].Error = view.LeagueErrors[string(view.Leagues[i].League)]
		}
	}
	s.current.Store(&view)

	logging.Debug(s.logger, "dashboard published",
		logging.FieldTickID, in.TickID,
		logging.FieldCount, len(view.AllGames()),
		logging.FieldUnavailable, in.Unavailable,
	)
	return view
}

// View returns the most recently published view.
func (s *Service) View() View {
	return *s.current.Load()
}

// Registry exposes the league configuration the service derives with.
func (s *Service) Registry() *leagues.Registry {
	return s.registry
}

// cacheMemo keeps final-game signals in a TTL cache.
type cacheMemo struct {
	c *cache.Cache
}

func (m *cacheMemo) Get(key string) (finalSignals, bool) {
	v, ok := m.c.Get(key)
	if !ok {
		return finalSignals{}, false
	}
	fs, ok := v.(finalSignals)
	return fs, ok
}

func (m *cacheMemo) Set(key string, v finalSignals) {
	m.c.Set(key, v, cache.DefaultExpiration)
}

// memoKey covers every input of a final's recap and rating, including event
// contents, so a corrected scorer invalidates the cached recap.
func memoKey(g games.GameRecord, ring []games.ScoreSnapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s|%s|%d-%d|%s|%d",
		g.League, g.ID, g.Score.Of(g.Home), g.Score.Of(g.Away), g.Clock, len(ring))
	for _, e := range g.Events {
		fmt.Fprintf(&b, "|%s:%t:%s:%s", e.Type, e.IsHome, e.Clock, e.Player)
	}
	return b.String()
}
