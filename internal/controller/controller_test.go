package controller

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/regenrek/peakydash/internal/dashboard"
	"github.com/regenrek/peakydash/internal/gridwidget"
	"github.com/regenrek/peakydash/internal/layout"
	"github.com/regenrek/peakydash/internal/panel"
	"github.com/regenrek/peakydash/internal/selection"
)

type fakeClipboard struct {
	text string
	err  error
}

func (f *fakeClipboard) WriteAll(text string) error {
	f.text = text
	return f.err
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func threePanelDashboard(t *testing.T) *dashboard.Dashboard {
	t.Helper()
	l := layout.New()
	l.Panels["p1"] = layout.Panel{Type: "lens", Grid: layout.GridData{X: 0, Y: 0, W: 16, H: 10}}
	l.Panels["p2"] = layout.Panel{Type: "lens", Grid: layout.GridData{X: 16, Y: 0, W: 16, H: 10}}
	l.Panels["p3"] = layout.Panel{Type: "lens", Grid: layout.GridData{X: 0, Y: 10, W: 16, H: 10}}
	n := 0
	d, err := dashboard.New(&dashboard.Document{Layout: l}, dashboard.Options{
		Logger: quietLogger(),
		NewID: func() string {
			n++
			return fmt.Sprintf("new-%d", n)
		},
	})
	require.NoError(t, err)
	return d
}

func renderedGeometry() map[string]selection.Rect {
	return map[string]selection.Rect{
		"p1": {X: 0, Y: 0, W: 16, H: 10},
		"p2": {X: 16, Y: 0, W: 16, H: 10},
		"p3": {X: 0, Y: 10, W: 16, H: 10},
	}
}

func newController(t *testing.T) (*Controller, *fakeClipboard) {
	t.Helper()
	clip := &fakeClipboard{}
	c, err := New(threePanelDashboard(t), Options{Clipboard: clip, Logger: quietLogger()})
	require.NoError(t, err)
	t.Cleanup(c.Close)
	c.SetGeometry(renderedGeometry())
	c.SetEditMode(true)
	return c, clip
}

func TestDragMatchingPanelBoundsSelectsIt(t *testing.T) {
	c, _ := newController(t)

	c.PointerDown(selection.Point{X: 16, Y: 0}, true)
	require.True(t, c.PointerMove(selection.Point{X: 31, Y: 9}))
	assert.Equal(t, []string{"p2"}, c.Preview().IDs())
	c.PointerUp(selection.Point{X: 31, Y: 9})
	c.Click(selection.Point{X: 31, Y: 9}, false)

	assert.Equal(t, []string{"p2"}, c.Selected().IDs())
	assert.Nil(t, c.Preview())
}

func TestDragOverEmptySpaceAndClickSuppression(t *testing.T) {
	c, _ := newController(t)
	c.SetSelected("p1")

	c.PointerDown(selection.Point{X: 40, Y: 25}, true)
	c.PointerMove(selection.Point{X: 47, Y: 31})
	assert.True(t, c.Preview().Empty())
	c.PointerUp(selection.Point{X: 47, Y: 31})
	c.Click(selection.Point{X: 47, Y: 31}, false)
	assert.Equal(t, []string{"p1"}, c.Selected().IDs(), "click ending a drag must not clear")

	c.PointerDown(selection.Point{X: 47, Y: 31}, false)
	c.PointerUp(selection.Point{X: 47, Y: 31})
	c.Click(selection.Point{X: 47, Y: 31}, false)
	assert.True(t, c.Selected().Empty(), "plain click on empty grid clears")
}

func TestDragRequiresModifierAndEditMode(t *testing.T) {
	c, _ := newController(t)
	c.PointerDown(selection.Point{X: 0, Y: 0}, false)
	assert.False(t, c.PointerMove(selection.Point{X: 30, Y: 15}))

	c.SetEditMode(false)
	c.PointerDown(selection.Point{X: 0, Y: 0}, true)
	assert.False(t, c.PointerMove(selection.Point{X: 30, Y: 15}))
}

func TestClickOnEmptyGridRespectsEditMode(t *testing.T) {
	c, _ := newController(t)
	c.SetSelected("p1", "p2")
	c.Click(selection.Point{X: 40, Y: 40}, false)
	assert.True(t, c.Selected().Empty())

	c.SetSelected("p1")
	c.SetEditMode(false)
	assert.True(t, c.Selected().Empty(), "leaving edit mode clears selection")

	c.SetSelected("p2")
	c.Click(selection.Point{X: 40, Y: 40}, false)
	assert.Equal(t, []string{"p2"}, c.Selected().IDs(), "clicks outside edit mode do nothing")
}

func TestClickWithModifierTogglesPanel(t *testing.T) {
	c, _ := newController(t)
	c.Click(selection.Point{X: 2, Y: 12}, true)
	assert.Equal(t, []string{"p3"}, c.Selected().IDs())
	c.Click(selection.Point{X: 2, Y: 12}, true)
	assert.True(t, c.Selected().Empty())
}

func TestHandleMouseDragSelect(t *testing.T) {
	c, _ := newController(t)
	press := tea.MouseMsg{X: 1, Y: 1, Ctrl: true, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
	motion := tea.MouseMsg{X: 20, Y: 12, Ctrl: true, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft}
	release := tea.MouseMsg{X: 20, Y: 12, Ctrl: true, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft}

	assert.False(t, c.HandleMouse(press))
	assert.True(t, c.HandleMouse(motion))
	assert.True(t, c.HandleMouse(release))
	assert.Equal(t, []string{"p1", "p2", "p3"}, c.Selected().IDs())
}

func TestEffectiveIDs(t *testing.T) {
	c, _ := newController(t)
	assert.Nil(t, c.EffectiveIDs(""))
	c.SetSelected("p2", "p1", "ghost")
	assert.Equal(t, []string{"p1", "p2"}, c.EffectiveIDs("p1"))
	assert.Equal(t, []string{"p3"}, c.EffectiveIDs("p3"))
}

func TestArrangeSelectedSideAndUndo(t *testing.T) {
	c, _ := newController(t)
	ctx := context.Background()
	c.SetSelected("p3", "p1")

	res, err := c.ArrangeSelected(ctx, layout.BulkSide)
	require.NoError(t, err)
	require.True(t, res.Changed)
	l := c.Dashboard().Layout()
	assert.Equal(t, layout.GridData{X: 0, Y: 0, W: 24, H: 10}, l.Panels["p1"].Grid)
	assert.Equal(t, layout.GridData{X: 24, Y: 0, W: 24, H: 5}, l.Panels["p3"].Grid)
	assert.True(t, c.CanUndo())

	require.NoError(t, c.Undo(ctx))
	assert.Equal(t, layout.GridData{X: 0, Y: 10, W: 16, H: 10}, c.Dashboard().Layout().Panels["p3"].Grid)
	assert.False(t, c.CanUndo())
}

type flakyOps struct{ fail map[string]bool }

func (f flakyOps) DuplicatePanel(context.Context, string) (string, error) { return "", nil }

func (f flakyOps) RemovePanel(_ context.Context, id string, _ panel.RemoveOptions) error {
	if f.fail[id] {
		return errors.New("locked")
	}
	return nil
}

func TestRemoveClearsActedOnIDsEvenOnFailure(t *testing.T) {
	c, _ := newController(t)
	c.batch = panel.Batch(flakyOps{fail: map[string]bool{"p1": true}}, quietLogger())
	c.SetSelected("p1", "p2")

	res, err := c.Remove(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, res.Failed, 1)
	assert.True(t, c.Selected().Empty())
}

func TestRemoveUsesDashboardBatchWithUndo(t *testing.T) {
	c, _ := newController(t)
	ctx := context.Background()
	c.SetSelected("p1", "p3")

	_, err := c.Remove(ctx, "p2")
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p3"}, c.Dashboard().Layout().PanelIDs())
	assert.Equal(t, []string{"p1", "p3"}, c.Selected().IDs(), "clicked panel outside selection is the only target")

	require.NoError(t, c.Undo(ctx))
	assert.Len(t, c.Dashboard().Layout().Panels, 3)
}

func TestGroupNeedsTwoPanels(t *testing.T) {
	c, _ := newController(t)
	ctx := context.Background()

	_, err := c.Group(ctx, "p1", "solo")
	require.ErrorIs(t, err, layout.ErrGroupTooSmall)

	c.SetSelected("p1", "p3")
	sectionID, err := c.Group(ctx, "", "Pair")
	require.NoError(t, err)
	l := c.Dashboard().Layout()
	assert.Equal(t, "Pair", l.Sections[sectionID].Title)
	assert.Equal(t, sectionID, l.Panels["p3"].Grid.SectionID)
}

func TestCopyPasteSelectsCopies(t *testing.T) {
	c, clip := newController(t)
	ctx := context.Background()
	c.SetSelected("p2", "p1")

	assert.Equal(t, []string{"p1", "p2"}, c.Copy())
	assert.Equal(t, "p1\np2", clip.text)

	res, err := c.Paste(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"new-1", "new-2"}, res.Created)
	assert.Equal(t, []string{"new-1", "new-2"}, c.Selected().IDs())
}

func TestCopyLogsClipboardFailure(t *testing.T) {
	c, clip := newController(t)
	clip.err = errors.New("no clipboard")
	c.SetSelected("p1")
	assert.Equal(t, []string{"p1"}, c.Copy())
	_, err := c.Paste(context.Background())
	require.NoError(t, err)
}

func TestUndoPrunesSelection(t *testing.T) {
	c, _ := newController(t)
	ctx := context.Background()
	c.SetSelected("p1")
	c.Copy()
	_, err := c.Paste(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"new-1"}, c.Selected().IDs())

	require.NoError(t, c.Undo(ctx))
	assert.True(t, c.Selected().Empty())
}

func TestApplyGridLayoutReconciles(t *testing.T) {
	c, _ := newController(t)
	ctx := context.Background()
	widgets := c.Widgets()
	for i := range widgets {
		if widgets[i].ID == "p3" {
			widgets[i].X, widgets[i].Y = 32, 0
		}
	}
	res, err := c.ApplyGridLayout(ctx, widgets)
	require.NoError(t, err)
	require.True(t, res.Changed)
	assert.Equal(t, layout.GridData{X: 32, Y: 0, W: 16, H: 10}, c.Dashboard().Layout().Panels["p3"].Grid)

	res, err = c.ApplyGridLayout(ctx, gridwidget.FromLayout(c.Dashboard().Layout()))
	require.NoError(t, err)
	assert.False(t, res.Changed, "unchanged grid output is a no-op")

	require.NoError(t, c.Undo(ctx))
	assert.Equal(t, 10, c.Dashboard().Layout().Panels["p3"].Grid.Y)
}

func TestToggleSection(t *testing.T) {
	c, _ := newController(t)
	ctx := context.Background()
	c.SetSelected("p1", "p2")
	sectionID, err := c.Group(ctx, "", "Top")
	require.NoError(t, err)

	_, err = c.ToggleSection(ctx, sectionID)
	require.NoError(t, err)
	assert.True(t, c.Dashboard().Layout().Sections[sectionID].Collapsed)

	_, err = c.ToggleSection(ctx, "ghost")
	require.Error(t, err)
}

func TestBulkOpsRecordSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	c, err := New(threePanelDashboard(t), Options{
		Clipboard: &fakeClipboard{},
		Logger:    quietLogger(),
		Tracer:    provider.Tracer("test"),
	})
	require.NoError(t, err)
	c.SetEditMode(true)

	_, err = c.Group(context.Background(), "p1", "")
	require.Error(t, err)
	_, err = c.Prettify(context.Background())
	require.NoError(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "controller.Group", spans[0].Name())
	assert.Equal(t, "Error", spans[0].Status().Code.String())
	assert.Equal(t, "controller.Prettify", spans[1].Name())
}
