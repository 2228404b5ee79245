package poller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"github.com/Kaylacoelho/chalkboard-app/internal/dashboard"
	"github.com/Kaylacoelho/chalkboard-app/internal/domain/games"
	"github.com/Kaylacoelho/chalkboard-app/internal/feeds"
	"github.com/Kaylacoelho/chalkboard-app/internal/history"
	"github.com/Kaylacoelho/chalkboard-app/internal/leagues"
	"github.com/Kaylacoelho/chalkboard-app/internal/logging"
	"github.com/Kaylacoelho/chalkboard-app/internal/metrics"
	"github.com/Kaylacoelho/chalkboard-app/internal/store"
)

const (
	defaultInterval     = 30 * time.Second
	defaultFetchTimeout = 10 * time.Second
)

var (
	// ErrAllLeaguesFailed is returned by Tick when no enabled league could be fetched.
	ErrAllLeaguesFailed = errors.New("all league fetches failed")
	// ErrTickInProgress is returned when a tick is requested while another runs.
	ErrTickInProgress = errors.New("tick already in progress")
)

// Sink receives every published view after a tick.
type Sink interface {
	Publish(ctx context.Context, view dashboard.View) error
}

// Options tunes a Poller. Zero values pick defaults.
type Options struct {
	Interval     time.Duration
	FetchTimeout time.Duration
	// PruneAfter drops history for games missing from this many consecutive
	// ticks. Zero keeps history until restart.
	PruneAfter int
	Sinks      []Sink
	Logger     *slog.Logger
	Metrics    *metrics.Recorder
}

// Poller refreshes every enabled league on a schedule and publishes the
// derived dashboard view.
type Poller struct {
	feed      feeds.LeagueFeed
	registry  *leagues.Registry
	history   *history.Store
	store     *store.MemoryStore
	dashboard *dashboard.Service
	sinks     []Sink
	logger    *slog.Logger
	metrics   *metrics.Recorder

	interval     time.Duration
	fetchTimeout time.Duration
	pruneAfter   int
	now          func() time.Time
	newID        func() string

	running atomic.Bool
	warm    sync.WaitGroup

	cron     *cron.Cron
	done     chan struct{}
	stopOnce sync.Once
	startMu  sync.Mutex
	started  bool

	statusMu sync.RWMutex
	status   Status
}

// Status describes the recent health of the poller loop.
type Status struct {
	ConsecutiveFailures int       `json:"consecutiveFailures"`
	LastError           string    `json:"lastError,omitempty"`
	LastAttempt         time.Time `json:"lastAttempt"`
	LastSuccess         time.Time `json:"lastSuccess"`
	SkippedTicks        int       `json:"skippedTicks"`
	Unavailable         bool      `json:"unavailable"`
}

// IsReady reports whether the poller has had a recent success and is not failing repeatedly.
func (s Status) IsReady() bool {
	if s.LastSuccess.IsZero() {
		return false
	}
	return s.ConsecutiveFailures < 3
}

type leagueResult struct {
	cfg     leagues.Config
	records []games.GameRecord
	err     error
}

// New constructs a Poller with sane defaults.
func New(feed feeds.LeagueFeed, registry *leagues.Registry, hist *history.Store, st *store.MemoryStore, dash *dashboard.Service, opts Options) *Poller {
	if opts.Interval <= 0 {
		opts.Interval = defaultInterval
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = defaultFetchTimeout
	}
	if hist == nil {
		hist = history.NewStore()
	}
	if st == nil {
		st = store.NewMemoryStore()
	}
	if dash == nil {
		dash = dashboard.NewService(registry, opts.Logger)
	}
	return &Poller{
		feed:         feed,
		registry:     registry,
		history:      hist,
		store:        st,
		dashboard:    dash,
		sinks:        opts.Sinks,
		logger:       opts.Logger,
		metrics:      opts.Metrics,
		interval:     opts.Interval,
		fetchTimeout: opts.FetchTimeout,
		pruneAfter:   opts.PruneAfter,
		now:          time.Now,
		newID:        uuid.NewString,
		done:         make(chan struct{}),
	}
}

// Start warms the dashboard with an immediate tick and then schedules one every
// interval until the context is cancelled or Stop is called.
func (p *Poller) Start(ctx context.Context) error {
	p.startMu.Lock()
	defer p.startMu.Unlock()
	if p.started {
		return nil
	}

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cronLogger{p: p})))
	if _, err := c.AddFunc(fmt.Sprintf("@every %s", p.interval), func() { p.run(ctx) }); err != nil {
		return fmt.Errorf("schedule poller: %w", err)
	}
	p.cron = c
	p.started = true

	logging.Info(p.logger, "poller started", logging.FieldDurationMS, p.interval.Milliseconds())
	p.warm.Add(1)
	go func() {
		defer p.warm.Done()
		p.run(ctx)
	}()
	c.Start()

	go func() {
		select {
		case <-ctx.Done():
		case <-p.done:
		}
		<-c.Stop().Done()
		logging.Info(p.logger, "poller stopped")
	}()
	return nil
}

// Stop halts scheduling and waits for a running tick to finish or ctx to end.
func (p *Poller) Stop(ctx context.Context) error {
	p.stopOnce.Do(func() { close(p.done) })

	p.startMu.Lock()
	c := p.cron
	p.startMu.Unlock()
	if c == nil {
		return nil
	}
	idle := make(chan struct{})
	go func() {
		<-c.Stop().Done()
		p.warm.Wait()
		close(idle)
	}()
	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Poller) run(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	_, _ = p.Tick(ctx)
}

// Tick runs one fetch, update and publish cycle. A tick requested while another
// is running is dropped and reported with ErrTickInProgress.
func (p *Poller) Tick(ctx context.Context) (dashboard.View, error) {
	if !p.running.CompareAndSwap(false, true) {
		p.recordSkip()
		return p.dashboard.View(), ErrTickInProgress
	}
	defer p.running.Store(false)
	return p.tick(ctx)
}

func (p *Poller) tick(ctx context.Context) (dashboard.View, error) {
	start := p.now()
	p.recordAttempt(start)

	results := p.fetchAll(ctx)

	leagueErrors := make(map[string]string)
	seen := make(map[string]struct{})
	failed := 0
	for _, res := range results {
		league := res.cfg.Key
		if res.err != nil {
			failed++
			leagueErrors[string(league)] = res.err.Error()
			logging.Warn(p.logger, "league fetch failed",
				logging.FieldLeague, league,
				"error", res.err,
			)
			if prev, ok := p.store.League(league); ok {
				for _, g := range prev {
					seen[g.ID] = struct{}{}
				}
			}
			continue
		}
		p.applyLeague(league, res.records, seen, start)
	}

	var err error
	allFailed := len(results) > 0 && failed == len(results)
	if allFailed {
		err = ErrAllLeaguesFailed
	}
	if removed := p.history.Prune(seen, p.pruneAfter); removed > 0 {
		logging.Debug(p.logger, "pruned game history", logging.FieldCount, removed)
	}

	view := p.dashboard.Publish(dashboard.Input{
		TickID:       p.newID(),
		Sets:         p.store.Sets(enabledKeys(results)),
		Rings:        p.history.Snapshot(),
		LeagueErrors: leagueErrors,
		Unavailable:  allFailed,
		BuiltAt:      p.now(),
	})

	for _, sink := range p.sinks {
		if sinkErr := sink.Publish(ctx, view); sinkErr != nil {
			logging.Warn(p.logger, "dashboard sink failed", logging.FieldTickID, view.TickID, "error", sinkErr)
		}
	}

	elapsed := time.Since(start)
	p.metrics.SetLiveGames(view.LiveCount())
	p.metrics.RecordTick(elapsed, err)
	if err != nil {
		p.recordFailure(err, allFailed)
		logging.Error(p.logger, "poller tick failed", err,
			logging.FieldTickID, view.TickID,
			logging.FieldFailed, failed,
			logging.FieldDurationMS, elapsed.Milliseconds(),
		)
		return view, err
	}

	p.recordSuccess(start)
	logging.Info(p.logger, "poller refreshed games",
		logging.FieldTickID, view.TickID,
		logging.FieldCount, len(view.AllGames()),
		logging.FieldFailed, failed,
		logging.FieldDurationMS, elapsed.Milliseconds(),
	)
	return view, nil
}

// fetchAll queries every enabled league concurrently. A failing league never
// cancels its siblings; results keep registry order.
func (p *Poller) fetchAll(ctx context.Context) []leagueResult {
	enabled := p.registry.Enabled()
	results := make([]leagueResult, len(enabled))

	var g errgroup.Group
	for i, cfg := range enabled {
		i, cfg := i, cfg
		g.Go(func() error {
			fctx, cancel := context.WithTimeout(ctx, p.fetchTimeout)
			defer cancel()
			records, err := p.fetch(fctx, cfg)
			results[i] = leagueResult{cfg: cfg, records: records, err: err}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (p *Poller) fetch(ctx context.Context, cfg leagues.Config) ([]games.GameRecord, error) {
	if p.feed == nil {
		return nil, feeds.ErrFeedUnavailable
	}
	return p.feed.FetchLeague(ctx, cfg)
}

// applyLeague records score history for one league's games and makes them the
// league's last-known set.
func (p *Poller) applyLeague(league games.League, records []games.GameRecord, seen map[string]struct{}, at time.Time) {
	for i := range records {
		rec := &records[i]
		if rec.League == "" {
			rec.League = league
		}
		seen[rec.ID] = struct{}{}
		if !rec.Score.Present() {
			continue
		}
		home, away := rec.Score.Of(rec.Home), rec.Score.Of(rec.Away)
		if last, ok := p.history.Last(rec.ID); ok && (home < last.Home || away < last.Away) {
			logging.Warn(p.logger, "score went backwards",
				logging.FieldLeague, league,
				logging.FieldGameID, rec.ID,
				"previous", fmt.Sprintf("%d-%d", last.Home, last.Away),
				"current", fmt.Sprintf("%d-%d", home, away),
			)
		}
		p.history.Append(rec.ID, rec.Score, rec.Home, rec.Away, rec.Clock)
	}
	p.store.SetLeague(league, records, at)
}

func enabledKeys(results []leagueResult) []games.League {
	out := make([]games.League, len(results))
	for i, r := range results {
		out[i] = r.cfg.Key
	}
	return out
}

func (p *Poller) recordSkip() {
	p.metrics.RecordSkippedTick()
	p.statusMu.Lock()
	p.status.SkippedTicks++
	p.statusMu.Unlock()
	logging.Warn(p.logger, "poller tick skipped; previous tick still running")
}

func (p *Poller) recordAttempt(at time.Time) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.LastAttempt = at
}

func (p *Poller) recordSuccess(at time.Time) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.ConsecutiveFailures = 0
	p.status.LastError = ""
	p.status.LastSuccess = at
	p.status.Unavailable = false
}

func (p *Poller) recordFailure(err error, unavailable bool) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.ConsecutiveFailures++
	if err != nil {
		p.status.LastError = err.Error()
	}
	p.status.Unavailable = unavailable
}

// Status returns a snapshot of the poller's recent health.
func (p *Poller) Status() Status {
	p.statusMu.RLock()
	defer p.statusMu.RUnlock()
	return p.status
}

// Feed exposes the underlying feed.
func (p *Poller) Feed() feeds.LeagueFeed {
	return p.feed
}

// cronLogger routes scheduler messages to slog and counts coalesced ticks.
type cronLogger struct {
	p *Poller
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	if msg == "skip" {
		l.p.recordSkip()
		return
	}
	logging.Debug(l.p.logger, "cron "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	logging.Error(l.p.logger, "cron "+msg, err, keysAndValues...)
}
