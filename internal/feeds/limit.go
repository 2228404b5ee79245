package feeds

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/Kaylacoelho/chalkboard-app/internal/domain/games"
	"github.com/Kaylacoelho/chalkboard-app/internal/leagues"
)

// rateLimitedFeed wraps a LeagueFeed and caps the request rate across all leagues.
type rateLimitedFeed struct {
	next    LeagueFeed
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewRateLimitedFeed returns a LeagueFeed allowing one call per interval with the given burst.
// Calls block until a token is available or the context ends.
func NewRateLimitedFeed(next LeagueFeed, interval time.Duration, burst int, logger *slog.Logger) LeagueFeed {
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	if burst <= 0 {
		burst = 1
	}
	return &rateLimitedFeed{
		next:    next,
		limiter: rate.NewLimiter(rate.Every(interval), burst),
		logger:  logger,
	}
}

func (p *rateLimitedFeed) Name() string {
	if p.next == nil {
		return "rate-limited"
	}
	return NameOf(p.next)
}

func (p *rateLimitedFeed) FetchLeague(ctx context.Context, league leagues.Config) ([]games.GameRecord, error) {
	if p == nil || p.next == nil {
		if p != nil {
			logWithFeed(ctx, p.logger, slog.LevelWarn, "rate-limited", string(league.Key), "feed unavailable")
		}
		return nil, ErrFeedUnavailable
	}
	if err := p.limiter.Wait(ctx); err != nil {
		logWithFeed(ctx, p.logger, slog.LevelWarn, p.Name(), string(league.Key), "rate-limited fetch canceled", "err", err)
		return nil, err
	}
	return p.next.FetchLeague(ctx, league)
}
