package config

import "time"

// SnapshotConfig controls the filesystem boot snapshot. An empty Dir disables it.
type SnapshotConfig struct {
	Dir           string `mapstructure:"dir"`
	RetentionDays int    `mapstructure:"retention_days" validate:"gte=0"`
}

// Enabled reports whether snapshots are written and loaded.
func (s SnapshotConfig) Enabled() bool {
	return s.Dir != ""
}

// RedisConfig controls the Redis mirror. An empty URL disables it.
type RedisConfig struct {
	URL string        `mapstructure:"url" validate:"omitempty,url"`
	TTL time.Duration `mapstructure:"ttl" validate:"gte=0"`
}

// Enabled reports whether a Redis sink should be wired.
func (r RedisConfig) Enabled() bool {
	return r.URL != ""
}
