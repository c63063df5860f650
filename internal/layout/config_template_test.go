package layout

import (
	"os"
	"path/filepath"
	"testing"
)

func TestEnsureDefaultGlobalConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "peakydash", "config.yml")
	if err := EnsureDefaultGlobalConfig(path); err != nil {
		t.Fatalf("EnsureDefaultGlobalConfig() error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	if string(data) != DefaultGlobalConfigContent() {
		t.Fatalf("unexpected config content")
	}
	if info, err := os.Stat(filepath.Join(dir, "peakydash", "templates")); err != nil || !info.IsDir() {
		t.Fatalf("templates dir missing: %v", err)
	}

	// the commented template must parse to the defaults
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if cfg.Editor.DragThreshold != 5 {
		t.Fatalf("unexpected editor config: %#v", cfg.Editor)
	}

	if err := os.WriteFile(path, []byte("editor:\n  locale: de\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := EnsureDefaultGlobalConfig(path); err != nil {
		t.Fatalf("second EnsureDefaultGlobalConfig() error: %v", err)
	}
	if cfg, _ := LoadConfig(path); cfg.Editor.Locale != "de" {
		t.Fatalf("existing config overwritten")
	}
}

func TestEnsureDefaultGlobalConfigRejectsDirectory(t *testing.T) {
	if err := EnsureDefaultGlobalConfig(t.TempDir()); err == nil {
		t.Fatalf("expected directory error")
	}
	if err := EnsureDefaultGlobalConfig(" "); err == nil {
		t.Fatalf("expected empty path error")
	}
}
