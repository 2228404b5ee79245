package logging

import "log/slog"

// Common structured log field keys to keep logs searchable/consistent.
const (
	FieldService     = "service"
	FieldVersion     = "version"
	FieldFeed        = "feed"
	FieldLeague      = "league"
	FieldGameID      = "game_id"
	FieldTickID      = "tick_id"
	FieldRequestID   = "request_id"
	FieldPath        = "path"
	FieldMethod      = "method"
	FieldStatusCode  = "status_code"
	FieldCount       = "count"
	FieldFailed      = "failed"
	FieldUnavailable = "unavailable"
	FieldAttempt     = "attempt"
	FieldSink        = "sink"
	FieldDurationMS  = "duration_ms"
)

// WithCommon appends service/version fields when provided.
func WithCommon(attrs []slog.Attr, service, version string) []slog.Attr {
	if service != "" {
		attrs = append(attrs, slog.String(FieldService, service))
	}
	if version != "" {
		attrs = append(attrs, slog.String(FieldVersion, version))
	}
	return attrs
}
