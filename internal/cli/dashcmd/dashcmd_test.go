package dashcmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/regenrek/peakydash/internal/cli/output"
	"github.com/regenrek/peakydash/internal/cli/root"
	"github.com/regenrek/peakydash/internal/controller"
	"github.com/regenrek/peakydash/internal/dashboard"
	"github.com/regenrek/peakydash/internal/gridwidget"
	"github.com/regenrek/peakydash/internal/tui/gridview"
)

type nopClipboard struct{}

func (nopClipboard) WriteAll(string) error { return nil }

type harness struct {
	t      *testing.T
	dir    string
	out    bytes.Buffer
	deps   root.Dependencies
	edited *gridview.Options
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{t: t, dir: t.TempDir()}
	deps := root.DefaultDependencies("test")
	deps.Stdout = &h.out
	deps.Stderr = &h.out
	deps.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	deps.ConfigPath = filepath.Join(h.dir, "config.yml")
	deps.Clipboard = nopClipboard{}
	deps.RunEditor = func(_ context.Context, ctrl *controller.Controller, opts gridview.Options) error {
		if ctrl == nil {
			return errors.New("nil controller")
		}
		h.edited = &opts
		return nil
	}
	h.deps = deps
	return h
}

// run executes one CLI invocation on a freshly built command tree.
func (h *harness) run(args ...string) (string, error) {
	h.t.Helper()
	h.out.Reset()
	reg := root.NewRegistry()
	require.NoError(h.t, Register(reg))
	runner, err := root.NewRunner(h.deps, reg)
	require.NoError(h.t, err)
	err = runner.Run(context.Background(), append([]string{"peakydash"}, args...))
	return h.out.String(), err
}

func (h *harness) mustRun(args ...string) string {
	h.t.Helper()
	out, err := h.run(args...)
	require.NoError(h.t, err, out)
	return out
}

// overview creates a dashboard file from the overview template.
func (h *harness) overview() string {
	h.t.Helper()
	path := filepath.Join(h.dir, "dash.yml")
	h.mustRun("new", "--template", "overview", path)
	return path
}

func (h *harness) load(path string) *dashboard.Document {
	h.t.Helper()
	doc, err := dashboard.LoadDocument(path)
	require.NoError(h.t, err)
	return doc
}

func decode[T any](t *testing.T, raw string) T {
	t.Helper()
	var env struct {
		Ok   bool `json:"ok"`
		Data T    `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &env), raw)
	require.True(t, env.Ok, raw)
	return env.Data
}

func TestNewRefusesOverwrite(t *testing.T) {
	h := newHarness(t)
	path := h.overview()

	_, err := h.run("new", path)
	require.ErrorContains(t, err, "already exists")

	h.mustRun("new", "--force", "--title", "Empty", path)
	doc := h.load(path)
	assert.Equal(t, "Empty", doc.Title)
	assert.Empty(t, doc.Layout.Panels)
}

func TestWidgetsJSON(t *testing.T) {
	h := newHarness(t)
	path := h.overview()

	widgets := decode[[]gridwidget.Widget](t, h.mustRun("--json", "widgets", path))
	ids := make([]string, 0, len(widgets))
	for _, w := range widgets {
		ids = append(ids, w.ID)
	}
	assert.Equal(t, []string{"requests", "latency", "errors", "notes", "infra"}, ids)
	assert.Len(t, widgets[4].Children, 2)

	text := h.mustRun("widgets", path)
	assert.Contains(t, text, `section infra "Infrastructure"`)
}

func TestArrangeSide(t *testing.T) {
	h := newHarness(t)
	path := h.overview()

	res := decode[output.ActionResult](t, h.mustRun("--json", "arrange", path, "side", "requests", "latency", "errors"))
	assert.True(t, res.Changed)
	assert.True(t, res.Saved)

	panels := h.load(path).Layout.Panels
	assert.Equal(t, 24, panels["requests"].Grid.W)
	assert.Equal(t, 10, panels["requests"].Grid.H)
	assert.Equal(t, 5, panels["errors"].Grid.Y)
}

func TestArrangeSuggestsMode(t *testing.T) {
	h := newHarness(t)
	path := h.overview()
	_, err := h.run("arrange", path, "gird", "requests")
	var usage *root.UsageError
	require.ErrorAs(t, err, &usage)
	assert.Contains(t, err.Error(), `did you mean "grid"`)
}

func TestDryRunAndOut(t *testing.T) {
	h := newHarness(t)
	path := h.overview()
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	out := h.mustRun("arrange", "--dry-run", path, "side", "requests", "latency")
	assert.NotContains(t, out, "saved")
	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	other := filepath.Join(h.dir, "copy.yml")
	h.mustRun("arrange", "--out", other, path, "side", "requests", "latency")
	assert.Equal(t, 24, h.load(other).Layout.Panels["requests"].Grid.W)
	assert.Equal(t, 16, h.load(path).Layout.Panels["requests"].Grid.W)
}

func TestGroupDuplicateRemove(t *testing.T) {
	h := newHarness(t)
	path := h.overview()

	res := decode[output.ActionResult](t, h.mustRun("--json", "group", "--title", "Core", path, "requests", "latency"))
	require.NotEmpty(t, res.Section)
	l := h.load(path).Layout
	assert.Equal(t, "Core", l.Sections[res.Section].Title)
	assert.Equal(t, res.Section, l.Panels["latency"].Grid.SectionID)

	_, err := h.run("group", path, "errors", "errors")
	require.Error(t, err)

	dup := decode[output.ActionResult](t, h.mustRun("--json", "duplicate", path, "errors"))
	require.Len(t, dup.Created, 1)
	doc := h.load(path)
	assert.Contains(t, doc.Layout.Panels, dup.Created[0])
	assert.Equal(t, "Errors", doc.Panels[dup.Created[0]].Attributes.Title)

	h.mustRun("rm", path, "notes")
	assert.NotContains(t, h.load(path).Layout.Panels, "notes")
}

func TestUnknownPanelEnvelope(t *testing.T) {
	h := newHarness(t)
	path := h.overview()

	out, err := h.run("--json", "remove", path, "nope")
	var exit cli.ExitCoder
	require.ErrorAs(t, err, &exit)
	assert.Equal(t, 1, exit.ExitCode())

	var env output.ErrorEnvelope
	require.NoError(t, json.Unmarshal([]byte(out), &env))
	assert.Equal(t, output.CodeUnknownPanel, env.Error.Code)
	assert.Contains(t, env.Error.Message, "nope")
}

func TestShareColorsAndBreakdown(t *testing.T) {
	h := newHarness(t)
	path := h.overview()

	res := decode[output.ActionResult](t, h.mustRun("--json", "share-colors", path, "requests", "latency", "hosts"))
	assert.ElementsMatch(t, []string{"latency", "hosts"}, res.Affected)
	doc := h.load(path)
	require.NotNil(t, doc.Panels["hosts"].Attributes.ColorMapping)
	assert.Equal(t, "eui", doc.Panels["hosts"].Attributes.ColorMapping.Palette)

	_, err := h.run("share-colors", path, "notes", "latency")
	require.Error(t, err)

	res = decode[output.ActionResult](t, h.mustRun("--json", "breakdown", path, "http.status", "requests", "latency", "hosts"))
	assert.ElementsMatch(t, []string{"requests", "latency"}, res.Affected)
	doc = h.load(path)
	assert.Equal(t, "http.status", doc.Panels["latency"].Attributes.Layers[0].Columns["split"].SourceField)
	assert.Equal(t, "host.name", doc.Panels["hosts"].Attributes.Layers[0].Columns["split"].SourceField)
}

func TestFields(t *testing.T) {
	h := newHarness(t)
	path := h.overview()

	opts := decode[[]map[string]string](t, h.mustRun("--json", "fields", path, "requests"))
	values := make([]string, 0, len(opts))
	for _, o := range opts {
		values = append(values, o["value"])
	}
	assert.Equal(t, []string{"duration", "host.name", "http.status"}, values)

	assert.Contains(t, h.mustRun("fields", path, "notes"), "notes has no breakdown fields")
}

func TestValidate(t *testing.T) {
	h := newHarness(t)
	path := h.overview()
	assert.Contains(t, h.mustRun("validate", path), "is valid")

	bad := filepath.Join(h.dir, "bad.yml")
	require.NoError(t, os.WriteFile(bad, []byte("layout:\n  panels:\n    a: {type: lens, grid: {x: 40, y: 0, w: 16, h: 4}}\n"), 0o600))
	_, err := h.run("validate", bad)
	require.ErrorContains(t, err, "exceeds 48 columns")

	res := decode[validateResult](t, h.mustRun("--json", "validate", bad))
	assert.False(t, res.Valid)
	assert.NotEmpty(t, res.Problems)
}

func TestTemplatesListsUserOverrides(t *testing.T) {
	h := newHarness(t)
	userDir := filepath.Join(h.dir, "templates")
	require.NoError(t, os.MkdirAll(userDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(userDir, "overview.yml"), []byte("title: Mine\nlayout:\n  panels: {}\n"), 0o600))

	infos := decode[[]dashboard.TemplateInfo](t, h.mustRun("--json", "templates"))
	byName := map[string]dashboard.TemplateInfo{}
	for _, info := range infos {
		byName[info.Name] = info
	}
	assert.Equal(t, "builtin", byName["blank"].Source)
	assert.Equal(t, "user", byName["overview"].Source)
	assert.Equal(t, "Mine", byName["overview"].Title)
}

func TestEdit(t *testing.T) {
	h := newHarness(t)
	_, err := h.run("edit", filepath.Join(h.dir, "absent.yml"))
	require.ErrorContains(t, err, "does not exist")

	path := h.overview()
	h.mustRun("edit", "--edit-mode", path)
	require.NotNil(t, h.edited)
	assert.Equal(t, path, h.edited.SavePath)
	assert.True(t, h.edited.StartInEditMode)
}
