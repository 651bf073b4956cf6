package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"visitlog/internal/platform/config"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	cfg, err := config.Load(dir, "")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DBPath != filepath.Join(dir, "visitlog.db") {
		t.Fatalf("unexpected db path %s", cfg.DBPath)
	}
	if cfg.Presence.OperationTimeout != 2*time.Second || cfg.Presence.DeactivateConcurrency != 4 {
		t.Fatalf("unexpected presence defaults: %+v", cfg.Presence)
	}
	if cfg.Report.ExportTimeout != 30*time.Second {
		t.Fatalf("expected 30s export timeout, got %s", cfg.Report.ExportTimeout)
	}
	if cfg.Location() != time.UTC {
		t.Fatalf("expected UTC location, got %s", cfg.Location())
	}
	if err := cfg.RequireServe(); err == nil {
		t.Fatalf("serve must require a jwt secret")
	}
}

func TestLoadFileThenEnvOverride(t *testing.T) {
	dir := t.TempDir()
	raw := `
timezone: Africa/Accra
http:
  addr: ":9090"
auth:
  jwt_secret: "0123456789abcdef0123"
presence:
  operation_timeout: 500ms
  deactivate_concurrency: 2
log:
  level: debug
`
	if err := os.WriteFile(filepath.Join(dir, config.FileName), []byte(raw), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("VISITLOG_HTTP_ADDR", ":7070")
	t.Setenv("VISITLOG_PRESENCE_DEACTIVATE_CONCURRENCY", "8")
	t.Setenv("VISITLOG_REPORT_EXPORT_TIMEOUT", "45s")

	cfg, err := config.Load(dir, "")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTP.Addr != ":7070" {
		t.Fatalf("expected env to override addr, got %s", cfg.HTTP.Addr)
	}
	if cfg.Presence.DeactivateConcurrency != 8 {
		t.Fatalf("expected env concurrency 8, got %d", cfg.Presence.DeactivateConcurrency)
	}
	if cfg.Presence.OperationTimeout != 500*time.Millisecond {
		t.Fatalf("expected file timeout 500ms, got %s", cfg.Presence.OperationTimeout)
	}
	if cfg.Report.ExportTimeout != 45*time.Second {
		t.Fatalf("expected env export timeout 45s, got %s", cfg.Report.ExportTimeout)
	}
	if cfg.Location().String() != "Africa/Accra" {
		t.Fatalf("expected Africa/Accra, got %s", cfg.Location())
	}
	if err := cfg.RequireServe(); err != nil {
		t.Fatalf("serve settings should be valid: %v", err)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	if err := os.WriteFile(path, []byte("timezone: Mars/Olympus\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := config.Load(dir, path); err == nil {
		t.Fatalf("expected invalid timezone to fail")
	}
	zero := filepath.Join(dir, "zero.yaml")
	if err := os.WriteFile(zero, []byte("report:\n  export_timeout: 0s\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := config.Load(dir, zero); err == nil {
		t.Fatalf("expected zero export timeout to fail")
	}
	if _, err := config.Load(dir, filepath.Join(dir, "missing.yaml")); err == nil {
		t.Fatalf("explicit missing config file must fail")
	}
	if _, err := config.Load("", ""); err == nil {
		t.Fatalf("empty data dir must fail")
	}
}
