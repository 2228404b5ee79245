package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Kaylacoelho/chalkboard-app/internal/dashboard"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestVersionSkipsConfig(t *testing.T) {
	t.Setenv("POLL_INTERVAL", "not-a-duration")
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(out, "chalkboard dev") {
		t.Fatalf("unexpected version output %q", out)
	}
}

func TestTickPrintsDashboard(t *testing.T) {
	t.Setenv("FEED", "fixture")
	t.Setenv("LEAGUES", "nba,epl")
	t.Setenv("METRICS_ENABLED", "false")

	out, err := execute(t, "tick", "--env-file", "")
	if err != nil {
		t.Fatalf("tick: %v", err)
	}
	var view dashboard.View
	if err := json.Unmarshal([]byte(out), &view); err != nil {
		t.Fatalf("decode view: %v\n%s", err, out)
	}
	if len(view.Leagues) != 2 || view.Leagues[0].League != "nba" {
		t.Fatalf("expected nba then epl, got %+v", view.Leagues)
	}
	if view.TickID == "" || view.LiveCount() == 0 {
		t.Fatalf("expected a tick id and live fixture games")
	}
}

func TestEnvFileIsLoaded(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	if err := os.WriteFile(envFile, []byte("LEAGUES=nhl\nMETRICS_ENABLED=false\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("LEAGUES", "")
	os.Unsetenv("LEAGUES")
	t.Setenv("METRICS_ENABLED", "")
	os.Unsetenv("METRICS_ENABLED")

	out, err := execute(t, "tick", "--env-file", envFile)
	if err != nil {
		t.Fatalf("tick: %v", err)
	}
	var view dashboard.View
	if err := json.Unmarshal([]byte(out), &view); err != nil {
		t.Fatalf("decode view: %v", err)
	}
	if len(view.Leagues) != 1 || view.Leagues[0].League != "nhl" {
		t.Fatalf("expected env file league allow-list, got %+v", view.Leagues)
	}
}

func TestInvalidConfigFails(t *testing.T) {
	t.Setenv("POLL_INTERVAL", "not-a-duration")
	if _, err := execute(t, "tick", "--env-file", ""); err == nil {
		t.Fatalf("expected config error")
	}
}
