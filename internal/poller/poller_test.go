package poller

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Kaylacoelho/chalkboard-app/internal/domain/games"
	"github.com/Kaylacoelho/chalkboard-app/internal/history"
	"github.com/Kaylacoelho/chalkboard-app/internal/metrics"
	"github.com/Kaylacoelho/chalkboard-app/internal/store"
	"github.com/Kaylacoelho/chalkboard-app/internal/testutil"
)

func newTestPoller(feed *testutil.StubFeed, keys []string, opts Options) (*Poller, *history.Store, *store.MemoryStore) {
	hist := history.NewStore()
	st := store.NewMemoryStore()
	p := New(feed, testutil.Registry(keys...), hist, st, nil, opts)
	return p, hist, st
}

func TestTickTwoTicksEndToEnd(t *testing.T) {
	feed := testutil.NewStubFeed().Script("nba",
		testutil.StubResponse{Games: []games.GameRecord{testutil.LiveGame("G1", "nba", "H", "A", 10, 8, "Q3 5:00")}},
		testutil.StubResponse{Games: []games.GameRecord{testutil.LiveGame("G1", "nba", "H", "A", 12, 8, "Q3 2:00")}},
	)
	p, _, _ := newTestPoller(feed, []string{"nba"}, Options{})

	if _, err := p.Tick(context.Background()); err != nil {
		t.Fatalf("first tick: %v", err)
	}
	view, err := p.Tick(context.Background())
	if err != nil {
		t.Fatalf("second tick: %v", err)
	}

	g, ok := view.Game("G1")
	if !ok {
		t.Fatalf("expected G1 in view")
	}
	if len(g.History) != 2 {
		t.Fatalf("expected 2 history entries, got %d", len(g.History))
	}
	if g.Momentum != "H" {
		t.Fatalf("expected momentum H, got %q", g.Momentum)
	}
	if len(g.ScoreDelta) != 1 || g.ScoreDelta["H"] != 2 {
		t.Fatalf("expected score delta {H:2}, got %v", g.ScoreDelta)
	}
	if view.TickID == "" {
		t.Fatalf("expected tick id")
	}
	if p.dashboard.View().TickID != view.TickID {
		t.Fatalf("expected returned view to be the published one")
	}
}

func TestTickDeduplicatesAndSkipsScorelessGames(t *testing.T) {
	feed := testutil.NewStubFeed().Script("nba", testutil.StubResponse{Games: []games.GameRecord{
		testutil.LiveGame("live", "nba", "H", "A", 3, 1, "Q1 9:00"),
		testutil.ScheduledGame("later", "nba", "X", "Y", 60, 40),
	}})
	p, hist, _ := newTestPoller(feed, []string{"nba"}, Options{})

	for i := 0; i < 3; i++ {
		if _, err := p.Tick(context.Background()); err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
	}
	if n := hist.Len("live"); n != 1 {
		t.Fatalf("expected unchanged score stored once, got %d", n)
	}
	if n := hist.Len("later"); n != 0 {
		t.Fatalf("expected no history for scoreless game, got %d", n)
	}
}

func TestTickPartialFailureKeepsPreviousSet(t *testing.T) {
	feed := testutil.NewStubFeed().
		Script("nba", testutil.StubResponse{Games: []games.GameRecord{testutil.LiveGame("n1", "nba", "H", "A", 1, 0, "Q1 1:00")}}).
		Script("epl",
			testutil.StubResponse{Games: []games.GameRecord{testutil.LiveGame("e1", "epl", "ARS", "CHE", 1, 0, "30'")}},
			testutil.StubResponse{Err: errors.New("upstream down")},
		)
	rec := metrics.NewRecorder()
	p, _, st := newTestPoller(feed, []string{"nba", "epl"}, Options{Metrics: rec})

	if _, err := p.Tick(context.Background()); err != nil {
		t.Fatalf("first tick: %v", err)
	}
	view, err := p.Tick(context.Background())
	if err != nil {
		t.Fatalf("partial failure should not fail the tick: %v", err)
	}
	if view.Unavailable {
		t.Fatalf("expected view to stay available")
	}
	if view.LeagueErrors["epl"] == "" {
		t.Fatalf("expected epl error recorded")
	}
	if _, ok := view.Game("e1"); !ok {
		t.Fatalf("expected failed league to keep its previous games")
	}
	if _, ok := st.GetGame("e1"); !ok {
		t.Fatalf("expected store to keep previous epl set")
	}
	if lv, _ := view.League("epl"); lv.Error == "" {
		t.Fatalf("expected league view to carry the error")
	}
	if rec.Ticks() != 2 || rec.TickErrors() != 0 {
		t.Fatalf("unexpected tick metrics %d/%d", rec.Ticks(), rec.TickErrors())
	}
	if status := p.Status(); status.ConsecutiveFailures != 0 || !status.IsReady() {
		t.Fatalf("expected healthy status, got %+v", status)
	}
}

func TestTickAllFailedMarksUnavailable(t *testing.T) {
	feed := testutil.NewStubFeed().Script("nba",
		testutil.StubResponse{Games: []games.GameRecord{testutil.LiveGame("n1", "nba", "H", "A", 4, 2, "Q2 3:00")}},
		testutil.StubResponse{Err: errors.New("timeout")},
	)
	rec := metrics.NewRecorder()
	p, hist, _ := newTestPoller(feed, []string{"nba"}, Options{Metrics: rec, PruneAfter: 1})

	if _, err := p.Tick(context.Background()); err != nil {
		t.Fatalf("first tick: %v", err)
	}
	view, err := p.Tick(context.Background())
	if !errors.Is(err, ErrAllLeaguesFailed) {
		t.Fatalf("expected ErrAllLeaguesFailed, got %v", err)
	}
	if !view.Unavailable {
		t.Fatalf("expected unavailable view")
	}
	if _, ok := view.Game("n1"); !ok {
		t.Fatalf("expected previous state to be kept")
	}
	if hist.Len("n1") != 1 {
		t.Fatalf("expected history of failed league to survive pruning")
	}

	status := p.Status()
	if status.ConsecutiveFailures != 1 || !status.Unavailable || status.LastError == "" {
		t.Fatalf("unexpected status %+v", status)
	}
	if rec.TickErrors() != 1 {
		t.Fatalf("expected tick error recorded")
	}
}

func TestTickWithoutFeedFails(t *testing.T) {
	p := New(nil, testutil.Registry("nba"), nil, nil, nil, Options{})
	if _, err := p.Tick(context.Background()); !errors.Is(err, ErrAllLeaguesFailed) {
		t.Fatalf("expected ErrAllLeaguesFailed, got %v", err)
	}
	if p.Status().IsReady() {
		t.Fatalf("expected not ready before any success")
	}
}

func TestTickPrunesGamesThatDisappear(t *testing.T) {
	feed := testutil.NewStubFeed().Script("nba",
		testutil.StubResponse{Games: []games.GameRecord{testutil.LiveGame("gone", "nba", "H", "A", 2, 0, "Q1 5:00")}},
		testutil.StubResponse{},
	)
	p, hist, _ := newTestPoller(feed, []string{"nba"}, Options{PruneAfter: 1})

	for i := 0; i < 2; i++ {
		if _, err := p.Tick(context.Background()); err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
	}
	if hist.Len("gone") != 1 {
		t.Fatalf("expected history kept after one missed tick")
	}
	if _, err := p.Tick(context.Background()); err != nil {
		t.Fatalf("tick: %v", err)
	}
	if hist.Len("gone") != 0 {
		t.Fatalf("expected history pruned after two missed ticks")
	}
}

func TestTickPublishesToSinks(t *testing.T) {
	feed := testutil.NewStubFeed().Script("nba", testutil.StubResponse{Games: []games.GameRecord{testutil.LiveGame("g", "nba", "H", "A", 1, 1, "Q1 1:00")}})
	ok := &testutil.StubSink{}
	broken := &testutil.StubSink{Err: errors.New("sink down")}
	logger, buf := testutil.NewBufferLogger()
	p, _, _ := newTestPoller(feed, []string{"nba"}, Options{Sinks: []Sink{broken, ok}, Logger: logger})
	p.newID = func() string { return "tick-fixed" }

	if _, err := p.Tick(context.Background()); err != nil {
		t.Fatalf("sink errors must not fail the tick: %v", err)
	}
	if ok.Count() != 1 || broken.Count() != 1 {
		t.Fatalf("expected every sink called once")
	}
	if ok.Views[0].TickID != "tick-fixed" {
		t.Fatalf("unexpected tick id %q", ok.Views[0].TickID)
	}
	if buf.Len() == 0 {
		t.Fatalf("expected sink failure to be logged")
	}
}

func TestTickCoalescesOverlappingRuns(t *testing.T) {
	feed := testutil.NewStubFeed()
	feed.Notify = make(chan struct{}, 1)
	feed.Block = make(chan struct{})
	rec := metrics.NewRecorder()
	p, _, _ := newTestPoller(feed, []string{"nba"}, Options{Metrics: rec})

	done := make(chan error, 1)
	go func() {
		_, err := p.Tick(context.Background())
		done <- err
	}()

	select {
	case <-feed.Notify:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for first fetch")
	}

	if _, err := p.Tick(context.Background()); !errors.Is(err, ErrTickInProgress) {
		t.Fatalf("expected overlapping tick to be dropped, got %v", err)
	}
	close(feed.Block)
	if err := <-done; err != nil {
		t.Fatalf("first tick: %v", err)
	}
	if feed.Calls.Load() != 1 {
		t.Fatalf("expected one fetch, got %d", feed.Calls.Load())
	}
	if rec.SkippedTicks() != 1 || p.Status().SkippedTicks != 1 {
		t.Fatalf("expected one skipped tick recorded")
	}
}

func TestCronLoggerCountsSkips(t *testing.T) {
	rec := metrics.NewRecorder()
	p, _, _ := newTestPoller(testutil.NewStubFeed(), []string{"nba"}, Options{Metrics: rec})
	l := cronLogger{p: p}

	l.Info("skip")
	l.Info("wake", "now", time.Now())
	l.Error(errors.New("boom"), "panic")

	if rec.SkippedTicks() != 1 {
		t.Fatalf("expected only skip messages counted, got %d", rec.SkippedTicks())
	}
}

func TestStartWarmsAndStops(t *testing.T) {
	feed := testutil.NewStubFeed().Script("nba", testutil.StubResponse{Games: []games.GameRecord{testutil.LiveGame("g", "nba", "H", "A", 1, 0, "Q1 1:00")}})
	feed.Notify = make(chan struct{}, 1)
	p, _, _ := newTestPoller(feed, []string{"nba"}, Options{Interval: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := p.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := p.Start(ctx); err != nil {
		t.Fatalf("second start should be a no-op: %v", err)
	}

	select {
	case <-feed.Notify:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for warm-up fetch")
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), time.Second)
	defer stopCancel()
	if err := p.Stop(stopCtx); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if p.Status().LastAttempt.IsZero() {
		t.Fatalf("expected warm-up attempt recorded")
	}
	if _, ok := p.dashboard.View().Game("g"); !ok {
		t.Fatalf("expected warm-up tick to publish")
	}
	if err := p.Stop(stopCtx); err != nil {
		t.Fatalf("second stop: %v", err)
	}
}

func TestStopBeforeStart(t *testing.T) {
	p := New(testutil.NewStubFeed(), testutil.Registry("nba"), nil, nil, nil, Options{})
	if err := p.Stop(context.Background()); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestStatusIsReady(t *testing.T) {
	if (Status{}).IsReady() {
		t.Fatalf("expected not ready without success")
	}
	s := Status{LastSuccess: time.Now(), ConsecutiveFailures: 2}
	if !s.IsReady() {
		t.Fatalf("expected ready with recent success")
	}
	s.ConsecutiveFailures = 3
	if s.IsReady() {
		t.Fatalf("expected not ready after repeated failures")
	}
}
