package server

import (
	"log/slog"
	"strings"

	"github.com/Kaylacoelho/chalkboard-app/internal/config"
	"github.com/Kaylacoelho/chalkboard-app/internal/feeds"
	"github.com/Kaylacoelho/chalkboard-app/internal/feeds/espn"
	"github.com/Kaylacoelho/chalkboard-app/internal/feeds/fixture"
	"github.com/Kaylacoelho/chalkboard-app/internal/logging"
	"github.com/Kaylacoelho/chalkboard-app/internal/metrics"
)

func selectFeed(cfg config.Config, logger *slog.Logger) feeds.LeagueFeed {
	switch strings.ToLower(cfg.Feed) {
	case config.FeedFixture, "":
		return fixture.New()
	case config.FeedESPN:
		return espn.NewClient(espn.Config{
			BaseURL:   cfg.ESPN.BaseURL,
			Timeout:   cfg.FetchTimeout,
			UserAgent: cfg.ESPN.UserAgent,
			Logger:    logger,
		})
	default:
		logging.Warn(logger, "unknown feed, falling back to fixture", slog.String("feed", cfg.Feed))
		return fixture.New()
	}
}

// feedFactory assembles the feed with shared wrappers (rate limit + retry).
type feedFactory struct {
	logger  *slog.Logger
	metrics *metrics.Recorder
}

func newFeedFactory(logger *slog.Logger, metrics *metrics.Recorder) feedFactory {
	return feedFactory{logger: logger, metrics: metrics}
}

func (f feedFactory) build(cfg config.Config) feeds.LeagueFeed {
	return f.wrap(cfg, selectFeed(cfg, f.logger))
}

// wrap spaces upstream calls across all leagues, then retries each league.
func (f feedFactory) wrap(cfg config.Config, base feeds.LeagueFeed) feeds.LeagueFeed {
	next := base
	if cfg.ESPN.RequestInterval > 0 && strings.EqualFold(cfg.Feed, config.FeedESPN) {
		next = feeds.NewRateLimitedFeed(base, cfg.ESPN.RequestInterval, 1, f.logger)
	}
	return feeds.NewRetryingFeed(next, f.logger, f.metrics, cfg.Retry.Attempts, cfg.Retry.Backoff)
}
