package controller

import (
	"context"
	"log/slog"
	"maps"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/regenrek/peakydash/internal/selection"
)

// SetGeometry records where panels were last rendered. Drag-select and click
// hit tests run against these rectangles.
func (c *Controller) SetGeometry(rendered map[string]selection.Rect) {
	c.rendered = maps.Clone(rendered)
	if c.rendered == nil {
		c.rendered = map[string]selection.Rect{}
	}
}

// PointerDown arms a drag-select when the selection modifier is held in edit mode.
func (c *Controller) PointerDown(p selection.Point, modifier bool) {
	c.suppress = false
	if !c.EditMode() || !modifier {
		return
	}
	c.tracker.Down(p)
}

// PointerMove updates a gesture in progress. It reports whether the preview changed.
func (c *Controller) PointerMove(p selection.Point) bool {
	changed := c.tracker.Move(p, c.rendered)
	if changed {
		c.throttle.Log(context.Background(), c.logger, "drag-preview", slog.LevelDebug, "controller: drag preview",
			slog.Int("x", p.X), slog.Int("y", p.Y), slog.Int("panels", c.tracker.Preview().Len()))
	}
	return changed
}

// PointerUp finishes a gesture. A completed drag merges the preview into the
// selection and suppresses the click that follows it.
func (c *Controller) PointerUp(selection.Point) {
	committed, dragged := c.tracker.Up()
	if !dragged {
		return
	}
	c.suppress = true
	c.setSelection(c.selected.Get().Union(committed))
	c.logger.Debug("controller: drag select committed", slog.Int("panels", committed.Len()))
}

// Click handles a click at p. With the modifier held a panel's selection is
// toggled; a click on empty grid clears the selection.
func (c *Controller) Click(p selection.Point, modifier bool) {
	if c.suppress {
		c.suppress = false
		return
	}
	if !c.EditMode() {
		return
	}
	id, hit := selection.HitTest(p, c.rendered)
	switch {
	case hit && modifier:
		c.ToggleSelected(id)
	case !hit:
		c.ClearSelection()
	}
}

// HandleMouse adapts terminal mouse events to the pointer contract. It reports
// whether the event changed what should be drawn.
func (c *Controller) HandleMouse(msg tea.MouseMsg) bool {
	p := selection.Point{X: msg.X, Y: msg.Y}
	switch {
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		c.PointerDown(p, c.modifierHeld(msg))
		return false
	case msg.Action == tea.MouseActionMotion:
		return c.PointerMove(p)
	case msg.Action == tea.MouseActionRelease:
		before := c.selected.Get()
		dragging := c.tracker.State() == selection.StateDragging
		c.PointerUp(p)
		c.Click(p, c.modifierHeld(msg))
		return dragging || !before.Equal(c.selected.Get())
	default:
		return false
	}
}

func (c *Controller) modifierHeld(msg tea.MouseMsg) bool {
	switch c.modifier {
	case ModAlt:
		return msg.Alt
	case ModShift:
		return msg.Shift
	default:
		return msg.Ctrl
	}
}
