package feeds

import (
	"context"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/Kaylacoelho/chalkboard-app/internal/domain/games"
	"github.com/Kaylacoelho/chalkboard-app/internal/leagues"
	"github.com/Kaylacoelho/chalkboard-app/internal/logging"
	"github.com/Kaylacoelho/chalkboard-app/internal/metrics"
)

const (
	defaultRetryAttempts = 3
	defaultBackoff       = 200 * time.Millisecond
)

type backoffFunc func(attempt int) time.Duration

// retryingFeed wraps a LeagueFeed with retry/backoff behavior and records every attempt.
type retryingFeed struct {
	inner       LeagueFeed
	logger      *slog.Logger
	metrics     *metrics.Recorder
	feedName    string
	maxAttempts int
	backoffFn   backoffFunc

	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewRetryingFeed wraps the given feed with retries. If maxAttempts/backoff are <= 0, defaults are used.
func NewRetryingFeed(inner LeagueFeed, logger *slog.Logger, rec *metrics.Recorder, maxAttempts int, backoff time.Duration) LeagueFeed {
	return NewRetryingFeedWithRNG(inner, logger, rec, nil, maxAttempts, backoff)
}

// NewRetryingFeedWithRNG is NewRetryingFeed with an injectable jitter source.
func NewRetryingFeedWithRNG(inner LeagueFeed, logger *slog.Logger, rec *metrics.Recorder, rng *rand.Rand, maxAttempts int, backoff time.Duration) LeagueFeed {
	if maxAttempts <= 0 {
		maxAttempts = defaultRetryAttempts
	}
	if backoff <= 0 {
		backoff = defaultBackoff
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	name := "feed"
	if inner != nil {
		name = NameOf(inner)
	}
	return &retryingFeed{
		inner:       inner,
		logger:      logger,
		metrics:     rec,
		feedName:    name,
		maxAttempts: maxAttempts,
		backoffFn: func(attempt int) time.Duration {
			return time.Duration(attempt) * backoff
		},
		rng: rng,
	}
}

func (r *retryingFeed) Name() string {
	return r.feedName
}

func (r *retryingFeed) FetchLeague(ctx context.Context, league leagues.Config) ([]games.GameRecord, error) {
	if r.inner == nil {
		return nil, ErrFeedUnavailable
	}
	key := string(league.Key)
	var lastErr error

	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		start := time.Now()
		records, err := r.inner.FetchLeague(ctx, league)
		r.metrics.RecordFeedAttempt(r.feedName, key, time.Since(start), err)
		if err == nil {
			return records, nil
		}
		lastErr = err

		if rlErr, ok := AsRateLimitError(err); ok {
			r.metrics.RecordRateLimit(r.feedName, key, rlErr.RetryAfter)
		}

		if attempt == r.maxAttempts || ctx.Err() != nil {
			break
		}

		delay := r.computeDelay(err, attempt)
		logWithFeed(ctx, r.logger, slog.LevelWarn, r.feedName, key, "feed fetch retry",
			logging.FieldAttempt, attempt,
			"max_attempts", r.maxAttempts,
			"delay_ms", delay.Milliseconds(),
			"err", err,
		)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	logWithFeed(ctx, r.logger, slog.LevelWarn, r.feedName, key, "feed fetch failed", "attempts", r.maxAttempts, "err", lastErr)
	return nil, lastErr
}

// computeDelay honours Retry-After for rate limits and otherwise applies the
// backoff with jitter in [base/2, base].
func (r *retryingFeed) computeDelay(err error, attempt int) time.Duration {
	if rlErr, ok := AsRateLimitError(err); ok && rlErr.RetryAfter > 0 {
		return rlErr.RetryAfter
	}
	base := r.backoffFn(attempt)
	if base <= 0 {
		return 0
	}
	half := base / 2
	r.rngMu.Lock()
	jitter := time.Duration(r.rng.Int63n(int64(half) + 1))
	r.rngMu.Unlock()
	return half + jitter
}
