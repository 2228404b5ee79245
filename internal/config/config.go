package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds runtime configuration for the server.
type Config struct {
	Port         string        `mapstructure:"port" validate:"required,numeric"`
	PollInterval time.Duration `mapstructure:"poll_interval" validate:"gte=1s"`
	FetchTimeout time.Duration `mapstructure:"fetch_timeout" validate:"gt=0"`
	Feed         string        `mapstructure:"feed" validate:"oneof=espn fixture"`
	PruneAfter   int           `mapstructure:"history_prune_after" validate:"gte=0"`
	// AdminToken guards POST /admin/refresh. Empty disables the route.
	AdminToken string `mapstructure:"admin_token"`

	ESPN  ESPNConfig  `mapstructure:"espn"`
	Retry RetryConfig `mapstructure:"retry"`
	Log   LogConfig   `mapstructure:"log"`

	Metrics   MetricsConfig  `mapstructure:"metrics"`
	Redis     RedisConfig    `mapstructure:"redis"`
	Snapshots SnapshotConfig `mapstructure:"snapshots"`
	CORS      CORSConfig     `mapstructure:"cors"`

	// EnabledLeagues, when set, restricts polling to these keys in this order.
	EnabledLeagues []string         `mapstructure:"enabled_leagues"`
	Leagues        []LeagueOverride `mapstructure:"leagues" validate:"dive"`
}

// ESPNConfig controls the ESPN scoreboard feed.
type ESPNConfig struct {
	BaseURL         string        `mapstructure:"base_url" validate:"required,url"`
	RequestInterval time.Duration `mapstructure:"request_interval" validate:"gte=0"`
	UserAgent       string        `mapstructure:"user_agent"`
}

// RetryConfig controls the retrying feed wrapper.
type RetryConfig struct {
	Attempts int           `mapstructure:"attempts" validate:"gte=1,lte=10"`
	Backoff  time.Duration `mapstructure:"backoff" validate:"gte=0"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"loglevel"`
	Format string `mapstructure:"format" validate:"oneof=text json"`
}

// CORSConfig lists browser origins allowed to call the API.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

var envBindings = map[string]string{
	"port":                     envPort,
	"poll_interval":            envPollInterval,
	"fetch_timeout":            envFetchTimeout,
	"feed":                     envFeed,
	"history_prune_after":      envPruneAfter,
	"enabled_leagues":          envLeagues,
	"espn.base_url":            envESPNBaseURL,
	"espn.request_interval":    envESPNInterval,
	"retry.attempts":           envRetryAttempts,
	"retry.backoff":            envRetryBackoff,
	"log.level":                envLogLevel,
	"log.format":               envLogFormat,
	"metrics.enabled":          envMetricsOn,
	"metrics.port":             envMetricsPort,
	"metrics.otlp_endpoint":    envOtelEndpoint,
	"metrics.service_name":     envOtelService,
	"metrics.otlp_insecure":    envOtelInsecure,
	"redis.url":                envRedisURL,
	"redis.ttl":                envRedisTTL,
	"snapshots.dir":            envSnapshotDir,
	"snapshots.retention_days": envSnapshotDays,
	"cors.allowed_origins":     envCORSOrigins,
	"admin_token":              envAdminToken,
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", defaultPort)
	v.SetDefault("poll_interval", defaultPollInterval)
	v.SetDefault("fetch_timeout", defaultFetchTimeout)
	v.SetDefault("feed", defaultFeed)
	v.SetDefault("history_prune_after", 0)
	v.SetDefault("espn.base_url", defaultESPNBaseURL)
	v.SetDefault("espn.request_interval", defaultESPNInterval)
	v.SetDefault("espn.user_agent", "")
	v.SetDefault("retry.attempts", defaultRetryAttempts)
	v.SetDefault("retry.backoff", defaultRetryBackoff)
	v.SetDefault("log.level", defaultLogLevel)
	v.SetDefault("log.format", defaultLogFormat)
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.port", defaultMetricsPort)
	v.SetDefault("metrics.otlp_endpoint", "")
	v.SetDefault("metrics.service_name", defaultServiceName)
	v.SetDefault("metrics.otlp_insecure", true)
	v.SetDefault("redis.url", "")
	v.SetDefault("redis.ttl", defaultRedisTTL)
	v.SetDefault("snapshots.dir", "")
	v.SetDefault("snapshots.retention_days", defaultSnapshotDays)
	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("enabled_leagues", []string{})
	v.SetDefault("admin_token", "")
}

// Load reads configuration from defaults, an optional YAML file and
// environment variables, in increasing precedence, and validates the result.
// An empty path falls back to CONFIG_FILE.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return Config{}, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	if path == "" {
		path = os.Getenv(envConfigFile)
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	cfg.normalize()

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// MustLoad is Load for tests and tools that cannot continue without config.
func MustLoad(path string) Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}
	return cfg
}

func (c *Config) normalize() {
	c.Feed = strings.ToLower(strings.TrimSpace(c.Feed))
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	c.Log.Format = strings.ToLower(strings.TrimSpace(c.Log.Format))
	c.EnabledLeagues = splitList(c.EnabledLeagues)
	c.CORS.AllowedOrigins = splitList(c.CORS.AllowedOrigins)
}

// splitList trims entries and drops empties. Env values such
// as "nba, epl" arrive as a single element.
func splitList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, raw := range in {
		for _, part := range strings.Split(raw, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid configuration")
