package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestNewLoggerNotNil(t *testing.T) {
	logger := NewLogger(Config{})
	if logger == nil {
		t.Fatal("expected logger to be non-nil")
	}
}

func TestNewLoggerUsesTextHandlerWithInfoLevel(t *testing.T) {
	logger := NewLogger(Config{Format: "text", Level: "info"})

	if enabled := logger.Enabled(context.Background(), slog.LevelInfo); !enabled {
		t.Fatal("expected info level to be enabled")
	}

	if enabled := logger.Enabled(context.Background(), slog.LevelDebug); enabled {
		t.Fatal("expected debug level to be disabled")
	}
}

func TestNewLoggerJSONIncludesServiceFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{Format: "json", Level: "debug", Service: "chalkboard", Version: "dev", Output: &buf})
	logger.Debug("hello", FieldLeague, "nba")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected json output, got %q: %v", buf.String(), err)
	}
	if entry[FieldService] != "chalkboard" || entry[FieldVersion] != "dev" || entry[FieldLeague] != "nba" {
		t.Fatalf("unexpected entry %+v", entry)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestHelpersTolerateNilLogger(t *testing.T) {
	Debug(nil, "x")
	Info(nil, "x")
	Warn(nil, "x")
	Error(nil, "x", errors.New("boom"))
}

func TestErrorAppendsErrorField(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{Output: &buf})
	Error(logger, "failed", errors.New("boom"), FieldLeague, "epl")
	if !strings.Contains(buf.String(), "error=boom") || !strings.Contains(buf.String(), "league=epl") {
		t.Fatalf("expected error and league fields, got %q", buf.String())
	}
}

func TestContextLogger(t *testing.T) {
	fallback := NewLogger(Config{})
	scoped := fallback.With(FieldRequestID, "abc")

	if got := FromContext(context.Background(), fallback); got != fallback {
		t.Fatal("expected fallback when context has no logger")
	}
	ctx := WithLogger(context.Background(), scoped)
	if got := FromContext(ctx, fallback); got != scoped {
		t.Fatal("expected scoped logger from context")
	}
	if got := WithLogger(ctx, nil); got != ctx {
		t.Fatal("expected nil logger to leave context unchanged")
	}
}
