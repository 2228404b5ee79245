package config

import "time"

const (
	envConfigFile    = "CONFIG_FILE"
	envPort          = "PORT"
	envPollInterval  = "POLL_INTERVAL"
	envFetchTimeout  = "FETCH_TIMEOUT"
	envFeed          = "FEED"
	envLeagues       = "LEAGUES"
	envPruneAfter    = "HISTORY_PRUNE_AFTER"
	envESPNBaseURL   = "ESPN_BASE_URL"
	envESPNInterval  = "ESPN_REQUEST_INTERVAL"
	envRetryAttempts = "FEED_RETRY_ATTEMPTS"
	envRetryBackoff  = "FEED_RETRY_BACKOFF"
	envLogLevel      = "LOG_LEVEL"
	envLogFormat     = "LOG_FORMAT"
	envMetricsPort   = "METRICS_PORT"
	envMetricsOn     = "METRICS_ENABLED"
	envOtelEndpoint  = "OTEL_EXPORTER_OTLP_ENDPOINT"
	envOtelService   = "OTEL_SERVICE_NAME"
	envOtelInsecure  = "OTEL_EXPORTER_OTLP_INSECURE"
	envRedisURL      = "REDIS_URL"
	envRedisTTL      = "REDIS_TTL"
	envSnapshotDir   = "SNAPSHOT_DIR"
	envSnapshotDays  = "SNAPSHOT_RETENTION_DAYS"
	envCORSOrigins   = "CORS_ALLOWED_ORIGINS"
	envAdminToken    = "ADMIN_TOKEN"

	defaultPort         = "4000"
	defaultPollInterval = 30 * time.Second
	defaultFetchTimeout = 10 * time.Second
	defaultFeed         = "fixture"
	defaultESPNBaseURL  = "https://site.api.espn.com/apis/site/v2/sports"
	// Spacing between ESPN requests across all leagues.
	defaultESPNInterval  = 250 * time.Millisecond
	defaultRetryAttempts = 3
	defaultRetryBackoff  = 200 * time.Millisecond
	defaultLogLevel      = "info"
	defaultLogFormat     = "text"
	defaultMetricsPort   = "9090"
	defaultServiceName   = "chalkboard"
	defaultRedisTTL      = 10 * time.Minute
	defaultSnapshotDays  = 7
)

// Feed names accepted by FEED.
const (
	FeedESPN    = "espn"
	FeedFixture = "fixture"
)
