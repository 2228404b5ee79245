package testutil

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/Kaylacoelho/chalkboard-app/internal/domain/games"
	"github.com/Kaylacoelho/chalkboard-app/internal/leagues"
)

// StubFeed is a test double for feeds.LeagueFeed. Each league plays back its
// scripted responses in order and repeats the last one once exhausted.
type StubFeed struct {
	mu      sync.Mutex
	scripts map[string][]StubResponse
	served  map[string]int

	Calls  atomic.Int32
	Notify chan struct{}
	// Block, when set, holds every fetch until it is closed or the context ends.
	Block chan struct{}
}

// StubResponse is one scripted reply for a league.
type StubResponse struct {
	Games []games.GameRecord
	Err   error
}

// NewStubFeed builds an empty StubFeed; unscripted leagues return no games.
func NewStubFeed() *StubFeed {
	return &StubFeed{
		scripts: make(map[string][]StubResponse),
		served:  make(map[string]int),
	}
}

// Name implements feeds.Named.
func (s *StubFeed) Name() string { return "stub" }

// Script appends responses for a league.
func (s *StubFeed) Script(league string, responses ...StubResponse) *StubFeed {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scripts[league] = append(s.scripts[league], responses...)
	return s
}

// Served reports how many fetches a league has received.
func (s *StubFeed) Served(league string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.served[league]
}

// FetchLeague returns the next scripted response for the league.
func (s *StubFeed) FetchLeague(ctx context.Context, league leagues.Config) ([]games.GameRecord, error) {
	s.Calls.Add(1)
	if s.Notify != nil {
		select {
		case s.Notify <- struct{}{}:
		default:
		}
	}
	if s.Block != nil {
		select {
		case <-s.Block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	script := s.scripts[string(league.Key)]
	n := s.served[string(league.Key)]
	s.served[string(league.Key)] = n + 1
	if len(script) == 0 {
		return nil, nil
	}
	if n >= len(script) {
		n = len(script) - 1
	}
	resp := script[n]
	out := make([]games.GameRecord, len(resp.Games))
	for i, g := range resp.Games {
		out[i] = g.Clone()
	}
	return out, resp.Err
}
