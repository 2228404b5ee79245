package history

import (
	"sync"

	"github.com/Kaylacoelho/chalkboard-app/internal/domain/games"
)

// Capacity is the maximum number of snapshots kept per game.
const Capacity = 10

// Store keeps a bounded, deduplicated score history per game id.
// Writes come from the poller; readers may run on any goroutine.
type Store struct {
	mu     sync.RWMutex
	rings  map[string][]games.ScoreSnapshot
	missed map[string]int
}

// NewStore constructs an empty Store.
func NewStore() *Store {
	return &Store{
		rings:  make(map[string][]games.ScoreSnapshot),
		missed: make(map[string]int),
	}
}

// Append records the game's current score unless it matches the last stored
// snapshot. Clock-only changes are ignored. The ring keeps the newest entries.
// It reports whether a snapshot was stored.
func (s *Store) Append(gameID string, score games.Score, home, away, clock string) bool {
	snap := games.ScoreSnapshot{
		Home:  score.Of(home),
		Away:  score.Of(away),
		Clock: clock,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ring := s.rings[gameID]
	if n := len(ring); n > 0 && ring[n-1].Home == snap.Home && ring[n-1].Away == snap.Away {
		return false
	}
	ring = append(ring, snap)
	if len(ring) > Capacity {
		trimmed := make([]games.ScoreSnapshot, Capacity)
		copy(trimmed, ring[len(ring)-Capacity:])
		ring = trimmed
	}
	s.rings[gameID] = ring
	return true
}

// Last returns the most recent snapshot for a game.
func (s *Store) Last(gameID string) (games.ScoreSnapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ring := s.rings[gameID]
	if len(ring) == 0 {
		return games.ScoreSnapshot{}, false
	}
	return ring[len(ring)-1], true
}

// Get returns a copy of the game's ring, oldest first. Unknown ids yield an
// empty slice.
func (s *Store) Get(gameID string) []games.ScoreSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ring := s.rings[gameID]
	out := make([]games.ScoreSnapshot, len(ring))
	copy(out, ring)
	return out
}

// Len returns the number of snapshots held for a game.
func (s *Store) Len(gameID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rings[gameID])
}

// Snapshot deep-copies every ring.
func (s *Store) Snapshot() map[string][]games.ScoreSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string][]games.ScoreSnapshot, len(s.rings))
	for id, ring := range s.rings {
		cp := make([]games.ScoreSnapshot, len(ring))
		copy(cp, ring)
		out[id] = cp
	}
	return out
}

// Prune drops rings for games absent from more than maxMissed consecutive
// calls. seen holds the ids reported this tick. maxMissed <= 0 disables
// pruning. It returns the number of rings removed.
func (s *Store) Prune(seen map[string]struct{}, maxMissed int) int {
	if maxMissed <= 0 {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id := range s.rings {
		if _, ok := seen[id]; ok {
			delete(s.missed, id)
			continue
		}
		s.missed[id]++
		if s.missed[id] > maxMissed {
			delete(s.rings, id)
			delete(s.missed, id)
			removed++
		}
	}
	return removed
}

// Restore seeds rings from a saved snapshot, keeping the newest Capacity
// entries per game. Existing rings for the same ids are replaced.
func (s *Store) Restore(rings map[string][]games.ScoreSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, ring := range rings {
		if len(ring) == 0 {
			continue
		}
		if len(ring) > Capacity {
			ring = ring[len(ring)-Capacity:]
		}
		cp := make([]games.ScoreSnapshot, len(ring))
		copy(cp, ring)
		s.rings[id] = cp
		delete(s.missed, id)
	}
}
