package espn

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/Kaylacoelho/chalkboard-app/internal/domain/games"
	"github.com/Kaylacoelho/chalkboard-app/internal/feeds"
	"github.com/Kaylacoelho/chalkboard-app/internal/leagues"
)

const (
	providerName        = "espn"
	defaultBaseURL      = "https://site.api.espn.com/apis/site/v2/sports"
	defaultHTTPTimeout  = 10 * time.Second
	defaultMaxRetries   = 2
	defaultRetryWaitMin = 200 * time.Millisecond
	defaultRetryWaitMax = 2 * time.Second
	defaultUserAgent    = "chalkboard/1.0"
	maxErrorBody        = 512
)

// Config controls how the ESPN client reaches the scoreboard API.
type Config struct {
	BaseURL      string
	Timeout      time.Duration
	MaxRetries   int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
	UserAgent    string
	Logger       *slog.Logger
}

// Client fetches league scoreboards from ESPN and maps them to game records.
type Client struct {
	baseURL   string
	userAgent string
	http      *retryablehttp.Client
}

// NewClient constructs an ESPN client. Zero config values use defaults.
func NewClient(cfg Config) *Client {
	rc := retryablehttp.NewClient()
	rc.HTTPClient.Timeout = orDuration(cfg.Timeout, defaultHTTPTimeout)
	rc.RetryMax = defaultMaxRetries
	if cfg.MaxRetries > 0 {
		rc.RetryMax = cfg.MaxRetries
	}
	rc.RetryWaitMin = orDuration(cfg.RetryWaitMin, defaultRetryWaitMin)
	rc.RetryWaitMax = orDuration(cfg.RetryWaitMax, defaultRetryWaitMax)
	rc.CheckRetry = retryPolicy
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	rc.Logger = nil
	if cfg.Logger != nil {
		rc.Logger = cfg.Logger
	}

	base := cfg.BaseURL
	if base == "" {
		base = defaultBaseURL
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	return &Client{
		baseURL:   strings.TrimSuffix(base, "/"),
		userAgent: ua,
		http:      rc,
	}
}

// Name identifies the feed in logs and metrics.
func (c *Client) Name() string {
	return providerName
}

// FetchLeague retrieves the current scoreboard for one league.
func (c *Client) FetchLeague(ctx context.Context, league leagues.Config) ([]games.GameRecord, error) {
	if league.ESPNPath == "" {
		return nil, fmt.Errorf("espn %s: no scoreboard path configured", league.Key)
	}

	url := fmt.Sprintf("%s/%s/scoreboard", c.baseURL, strings.Trim(league.ESPNPath, "/"))
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("espn %s: building request: %w", league.Key, err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("espn %s: %w", league.Key, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, &feeds.RateLimitError{
			Feed:       providerName,
			League:     string(league.Key),
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			Message:    "espn rate limited",
		}
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("espn %s: unexpected status %d: %s", league.Key, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload scoreboardResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("espn %s: decoding scoreboard: %w", league.Key, err)
	}

	out := make([]games.GameRecord, 0, len(payload.Events))
	for _, e := range payload.Events {
		if rec, ok := mapEvent(e, league); ok {
			out = append(out, rec)
		}
	}
	return out, nil
}

// retryPolicy retries network failures and 5xx responses. 429 is surfaced so
// the caller can honour Retry-After.
func retryPolicy(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	if err != nil {
		return true, nil
	}
	switch resp.StatusCode {
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true, nil
	}
	return false, nil
}

func parseRetryAfter(raw string) time.Duration {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(raw); err == nil {
		if d := time.Until(at); d > 0 {
			return d
		}
	}
	return 0
}

func orDuration(v, fallback time.Duration) time.Duration {
	if v > 0 {
		return v
	}
	return fallback
}
