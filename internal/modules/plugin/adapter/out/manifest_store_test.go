package out_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	pluginout "visitlog/internal/modules/plugin/adapter/out"
)

func TestFileManifestStoreLoadMissingReturnsEmpty(t *testing.T) {
	t.Parallel()
	store := pluginout.NewFileManifestStore(t.TempDir())
	manifests, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load manifests: %v", err)
	}
	if len(manifests) != 0 {
		t.Fatalf("expected empty manifests, got %d", len(manifests))
	}
}

func TestFileManifestStoreResolvesRelativeBinary(t *testing.T) {
	t.Parallel()
	pluginsDir := t.TempDir()
	raw := `[
  {
    "name": "reportexport",
    "version": "1.0.0",
    "binary": "bin/reportexport",
    "sha256": "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
    "enabled": true,
    "formats": ["csv", "xlsx"]
  }
]`
	if err := os.WriteFile(filepath.Join(pluginsDir, "plugins.json"), []byte(raw), 0o644); err != nil {
		t.Fatalf("write plugins.json: %v", err)
	}
	manifests, err := pluginout.NewFileManifestStore(pluginsDir).Load(context.Background())
	if err != nil {
		t.Fatalf("load manifests: %v", err)
	}
	if len(manifests) != 1 {
		t.Fatalf("expected one manifest, got %d", len(manifests))
	}
	if want := filepath.Join(pluginsDir, "bin", "reportexport"); manifests[0].Binary != want {
		t.Fatalf("expected binary %s, got %s", want, manifests[0].Binary)
	}
	if len(manifests[0].Formats) != 2 {
		t.Fatalf("expected formats to decode, got %v", manifests[0].Formats)
	}
}

func TestFileManifestStoreRejectsUnknownField(t *testing.T) {
	t.Parallel()
	pluginsDir := t.TempDir()
	raw := `[
  {
    "name": "reportexport",
    "version": "1.0.0",
    "binary": "/tmp/reportexport",
    "sha256": "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
    "enabled": true,
    "capabilities": ["command"]
  }
]`
	if err := os.WriteFile(filepath.Join(pluginsDir, "plugins.json"), []byte(raw), 0o644); err != nil {
		t.Fatalf("write plugins.json: %v", err)
	}
	if _, err := pluginout.NewFileManifestStore(pluginsDir).Load(context.Background()); err == nil {
		t.Fatalf("expected unknown field error")
	}
}
