package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

type feedStats struct {
	calls           int
	errors          int
	rateLimitHits   int
	lastRetryAfter  time.Duration
	lastCallLatency time.Duration
}

// Recorder captures lightweight, in-memory metrics about feed calls and poll
// ticks, mirroring them to OpenTelemetry instruments when configured.
type Recorder struct {
	mu    sync.Mutex
	stats map[string]*feedStats
	http  map[httpKey]int
	otel  *otelInstruments

	ticks        atomic.Int64
	tickErrors   atomic.Int64
	skippedTicks atomic.Int64
	liveGames    atomic.Int64
}

func NewRecorder() *Recorder {
	return newRecorder(nil)
}

func newRecorder(otel *otelInstruments) *Recorder {
	return &Recorder{
		stats: make(map[string]*feedStats),
		http:  make(map[httpKey]int),
		otel:  otel,
	}
}

// RecordFeedAttempt counts one league fetch and stores the last observed latency.
func (r *Recorder) RecordFeedAttempt(feed, league string, duration time.Duration, err error) {
	if r == nil {
		return
	}

	r.update(league, func(s *feedStats) {
		s.calls++
		s.lastCallLatency = duration
		if err != nil {
			s.errors++
		}
	})
	if r.otel != nil {
		r.otel.recordFeedAttempt(feed, league, duration, err)
	}
}

// RecordRateLimit tracks a rate limited league fetch and stores the last Retry-After.
func (r *Recorder) RecordRateLimit(feed, league string, retryAfter time.Duration) {
	if r == nil {
		return
	}

	r.update(league, func(s *feedStats) {
		s.rateLimitHits++
		if retryAfter > 0 {
			s.lastRetryAfter = retryAfter
		}
	})
	if r.otel != nil {
		r.otel.recordRateLimit(feed, league, retryAfter)
	}
}

// FeedCalls returns the total attempts recorded for a league.
func (r *Recorder) FeedCalls(league string) int {
	return r.Snapshot(league).Calls
}

// FeedErrors returns the total failed attempts recorded for a league.
func (r *Recorder) FeedErrors(league string) int {
	return r.Snapshot(league).Errors
}

// RateLimitHits returns the number of rate limit events seen for a league.
func (r *Recorder) RateLimitHits(league string) int {
	return r.Snapshot(league).RateLimitHits
}

// LastRetryAfter returns the most recent Retry-After recorded for a league.
func (r *Recorder) LastRetryAfter(league string) time.Duration {
	return r.Snapshot(league).LastRetryAfter
}

// LastCallLatency returns the last recorded latency for a league fetch.
func (r *Recorder) LastCallLatency(league string) time.Duration {
	return r.Snapshot(league).LastCallLatency
}

// Snapshot returns a copy of the current stats for a league.
type Snapshot struct {
	Calls           int
	Errors          int
	RateLimitHits   int
	LastRetryAfter  time.Duration
	LastCallLatency time.Duration
}

func (r *Recorder) Snapshot(league string) Snapshot {
	if r == nil {
		return Snapshot{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	stats, ok := r.stats[league]
	if !ok || stats == nil {
		return Snapshot{}
	}
	return Snapshot{
		Calls:           stats.calls,
		Errors:          stats.errors,
		RateLimitHits:   stats.rateLimitHits,
		LastRetryAfter:  stats.lastRetryAfter,
		LastCallLatency: stats.lastCallLatency,
	}
}

type httpKey struct {
	method string
	path   string
	status int
}

// RecordHTTPRequest tracks basic HTTP metrics.
func (r *Recorder) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.http[httpKey{method: method, path: path, status: status}]++
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordHTTPRequest(method, path, status, duration)
	}
}

// HTTPRequests returns how many requests matched method, route and status.
func (r *Recorder) HTTPRequests(method, path string, status int) int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.http[httpKey{method: method, path: path, status: status}]
}

// RecordTick tracks a completed poll tick and whether it failed outright.
func (r *Recorder) RecordTick(duration time.Duration, err error) {
	if r == nil {
		return
	}
	r.ticks.Add(1)
	if err != nil {
		r.tickErrors.Add(1)
	}
	if r.otel != nil {
		r.otel.recordTick(duration, err)
	}
}

// RecordSkippedTick counts a tick dropped because the previous one was still running.
func (r *Recorder) RecordSkippedTick() {
	if r == nil {
		return
	}
	r.skippedTicks.Add(1)
	if r.otel != nil {
		r.otel.recordSkippedTick()
	}
}

// SetLiveGames stores the number of in-progress games in the latest view.
func (r *Recorder) SetLiveGames(n int) {
	if r == nil {
		return
	}
	r.liveGames.Store(int64(n))
}

// Ticks returns the number of completed ticks.
func (r *Recorder) Ticks() int64 {
	if r == nil {
		return 0
	}
	return r.ticks.Load()
}

// TickErrors returns the number of ticks where every league failed.
func (r *Recorder) TickErrors() int64 {
	if r == nil {
		return 0
	}
	return r.tickErrors.Load()
}

// SkippedTicks returns the number of coalesced ticks.
func (r *Recorder) SkippedTicks() int64 {
	if r == nil {
		return 0
	}
	return r.skippedTicks.Load()
}

// LiveGames returns the last reported live game count.
func (r *Recorder) LiveGames() int64 {
	if r == nil {
		return 0
	}
	return r.liveGames.Load()
}

func (r *Recorder) update(league string, fn func(*feedStats)) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats, ok := r.stats[league]
	if !ok {
		stats = &feedStats{}
		r.stats[league] = stats
	}
	fn(stats)
}
