package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Kaylacoelho/chalkboard-app/internal/dashboard"
	"github.com/Kaylacoelho/chalkboard-app/internal/logging"
)

// Key layout and TTLs.
const (
	LatestKey     = "dashboard:latest"
	UpdatesStream = "dashboard.updates"

	LatestTTL    = 10 * time.Minute
	LiveGameTTL  = 2 * time.Hour
	FinalGameTTL = 6 * time.Hour

	defaultStreamMaxLen = 1000
)

// GameKey is where one game's signals are cached.
func GameKey(id string) string {
	return fmt.Sprintf("game:%s:signals", id)
}

// Options tunes a RedisSink. Zero values pick defaults.
type Options struct {
	LatestTTL    time.Duration
	StreamMaxLen int64
	Logger       *slog.Logger
}

// RedisSink mirrors each published dashboard view into Redis: the full view
// under LatestKey, each game's signals under GameKey, and a compact tick entry
// on UpdatesStream.
type RedisSink struct {
	client    *redis.Client
	latestTTL time.Duration
	maxLen    int64
	logger    *slog.Logger
}

// NewRedisSink creates a sink on an existing client.
func NewRedisSink(client *redis.Client, opts Options) *RedisSink {
	if opts.LatestTTL <= 0 {
		opts.LatestTTL = LatestTTL
	}
	if opts.StreamMaxLen <= 0 {
		opts.StreamMaxLen = defaultStreamMaxLen
	}
	return &RedisSink{
		client:    client,
		latestTTL: opts.LatestTTL,
		maxLen:    opts.StreamMaxLen,
		logger:    opts.Logger,
	}
}

// Connect parses a redis:// URL and verifies the server answers.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// Name identifies the sink in logs.
func (s *RedisSink) Name() string { return "redis" }

// Publish writes the view in a single pipeline.
func (s *RedisSink) Publish(ctx context.Context, view dashboard.View) error {
	data, err := json.Marshal(view)
	if err != nil {
		return fmt.Errorf("marshaling dashboard view: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, LatestKey, data, s.latestTTL)

	for _, g := range view.AllGames() {
		payload, err := json.Marshal(g)
		if err != nil {
			return fmt.Errorf("marshaling game %s: %w", g.Game.ID, err)
		}
		ttl := LiveGameTTL
		if g.Game.Status.IsFinal() {
			ttl = FinalGameTTL
		}
		pipe.Set(ctx, GameKey(g.Game.ID), payload, ttl)
	}

	values := map[string]interface{}{
		"tick_id":      view.TickID,
		"generated_at": view.GeneratedAt.UTC().Format(time.RFC3339),
		"games":        len(view.AllGames()),
		"live":         view.LiveCount(),
		"unavailable":  view.Unavailable,
	}
	if view.BestBet != nil {
		values["best_bet"] = view.BestBet.Game.ID
	}
	if view.BestLive != nil {
		values["best_live"] = view.BestLive.Game.ID
	}
	pipe.XAdd(ctx, &redis.XAddArgs{
		Stream: UpdatesStream,
		MaxLen: s.maxLen,
		Values: values,
	})

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis publish: %w", err)
	}
	logging.Debug(s.logger, "dashboard mirrored to redis",
		logging.FieldSink, s.Name(),
		logging.FieldTickID, view.TickID,
	)
	return nil
}

// Latest reads the most recently mirrored view.
func (s *RedisSink) Latest(ctx context.Context) (dashboard.View, bool, error) {
	raw, err := s.client.Get(ctx, LatestKey).Bytes()
	if err == redis.Nil {
		return dashboard.View{}, false, nil
	}
	if err != nil {
		return dashboard.View{}, false, fmt.Errorf("redis get latest: %w", err)
	}
	var view dashboard.View
	if err := json.Unmarshal(raw, &view); err != nil {
		return dashboard.View{}, false, fmt.Errorf("decoding latest view: %w", err)
	}
	return view, true, nil
}
