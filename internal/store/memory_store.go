package store

import (
	"sync"
	"time"

	"github.com/Kaylacoelho/chalkboard-app/internal/domain/games"
)

// MemoryStore keeps the last successfully fetched game set per league.
type MemoryStore struct {
	mu      sync.RWMutex
	sets    map[games.League][]games.GameRecord
	updated map[games.League]time.Time
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sets:    make(map[games.League][]games.GameRecord),
		updated: make(map[games.League]time.Time),
	}
}

// SetLeague replaces one league's games with a new snapshot.
func (s *MemoryStore) SetLeague(league games.League, records []games.GameRecord, at time.Time) {
	cp := make([]games.GameRecord, len(records))
	for i, r := range records {
		cp[i] = r.Clone()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sets[league] = cp
	s.updated[league] = at
}

// League returns a copy of one league's games.
func (s *MemoryStore) League(league games.League) ([]games.GameRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records, ok := s.sets[league]
	if !ok {
		return nil, false
	}
	return cloneAll(records), true
}

// UpdatedAt reports when a league was last refreshed.
func (s *MemoryStore) UpdatedAt(league games.League) (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	at, ok := s.updated[league]
	return at, ok
}

// Sets returns copies of the stored leagues in the given order. Leagues with no
// data yet are included with an empty game list.
func (s *MemoryStore) Sets(order []games.League) []games.LeagueGames {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]games.LeagueGames, 0, len(order))
	for _, league := range order {
		out = append(out, games.LeagueGames{League: league, Games: cloneAll(s.sets[league])})
	}
	return out
}

// GetGame retrieves a game by ID across leagues.
func (s *MemoryStore) GetGame(id string) (games.GameRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, records := range s.sets {
		for _, r := range records {
			if r.ID == id {
				return r.Clone(), true
			}
		}
	}
	return games.GameRecord{}, false
}

// Replace swaps in a full set of leagues, e.g. from a boot snapshot.
func (s *MemoryStore) Replace(sets []games.LeagueGames, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sets = make(map[games.League][]games.GameRecord, len(sets))
	s.updated = make(map[games.League]time.Time, len(sets))
	for _, set := range sets {
		s.sets[set.League] = cloneAll(set.Games)
		s.updated[set.League] = at
	}
}

func cloneAll(records []games.GameRecord) []games.GameRecord {
	out := make([]games.GameRecord, len(records))
	for i, r := range records {
		out[i] = r.Clone()
	}
	return out
}
