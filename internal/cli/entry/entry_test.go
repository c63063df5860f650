package entry

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/regenrek/peakydash/internal/cli/root"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("PEAKYDASH_CONFIG_DIR", dir)
	t.Setenv("PEAKYDASH_LOG_SINK", "none")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	t.Setenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT", "")
	return dir
}

func testDeps(out *bytes.Buffer) root.Dependencies {
	deps := root.DefaultDependencies("test")
	deps.Stdout = out
	deps.Stderr = out
	return deps
}

func TestRunVersionCommandWrites(t *testing.T) {
	dir := isolate(t)
	var out bytes.Buffer
	if exit := run(context.Background(), []string{"peakydash", "version"}, testDeps(&out)); exit != 0 {
		t.Fatalf("exit=%d out=%q", exit, out.String())
	}
	if !strings.Contains(out.String(), "peakydash test") {
		t.Fatalf("stdout=%q", out.String())
	}
	if _, err := os.Stat(filepath.Join(dir, "config.yml")); err != nil {
		t.Fatalf("default config not created: %v", err)
	}
}

func TestRunReportsBadConfig(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "bad.yml")
	if err := os.WriteFile(path, []byte("editor:\n  selection_modifier: hyper\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	var out bytes.Buffer
	exit := run(context.Background(), []string{"peakydash", "--config", path, "version"}, testDeps(&out))
	if exit != 1 || !strings.Contains(out.String(), "load config") {
		t.Fatalf("exit=%d out=%q", exit, out.String())
	}
}

func TestRunJSONFailureExitCode(t *testing.T) {
	isolate(t)
	var out bytes.Buffer
	exit := run(context.Background(), []string{"peakydash", "--json", "validate", "missing.yml"}, testDeps(&out))
	if exit != 1 {
		t.Fatalf("exit=%d", exit)
	}
	if !strings.Contains(out.String(), `"ok": false`) {
		t.Fatalf("expected error envelope, got %q", out.String())
	}
}

func TestRunUnknownCommandFails(t *testing.T) {
	isolate(t)
	var out bytes.Buffer
	if exit := run(context.Background(), []string{"peakydash", "explode"}, testDeps(&out)); exit == 0 {
		t.Fatalf("expected non-zero exit, out=%q", out.String())
	}
}
