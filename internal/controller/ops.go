package controller

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/regenrek/peakydash/internal/breakdown"
	"github.com/regenrek/peakydash/internal/colormap"
	"github.com/regenrek/peakydash/internal/gridwidget"
	"github.com/regenrek/peakydash/internal/layout"
	"github.com/regenrek/peakydash/internal/panel"
	"github.com/regenrek/peakydash/internal/selection"
)

func (c *Controller) startSpan(ctx context.Context, name string, ids []string) (context.Context, trace.Span) {
	return c.tracer.Start(ctx, "controller."+name, trace.WithAttributes(attribute.Int("panels", len(ids))))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// ArrangeSelected reflows the selected panels into mode.
func (c *Controller) ArrangeSelected(ctx context.Context, mode layout.BulkMode) (res layout.ApplyResult, err error) {
	ids := c.selected.Get().IDs()
	ctx, span := c.startSpan(ctx, "ArrangeSelected", ids)
	span.SetAttributes(attribute.String("mode", string(mode)))
	defer func() { endSpan(span, err) }()
	return c.dash.Engine().Apply(ctx, layout.BulkOp{IDs: ids, Mode: mode})
}

// Prettify reflows the whole dashboard.
func (c *Controller) Prettify(ctx context.Context) (res layout.ApplyResult, err error) {
	ctx, span := c.startSpan(ctx, "Prettify", nil)
	defer func() { endSpan(span, err) }()
	return c.dash.Engine().Apply(ctx, layout.PrettifyOp{})
}

// Duplicate copies the effective panels. Per-panel failures in a multi-panel
// fallback are reported in the result, not as an error.
func (c *Controller) Duplicate(ctx context.Context, clickedID string) (res panel.Result, err error) {
	ids := c.EffectiveIDs(clickedID)
	ctx, span := c.startSpan(ctx, "Duplicate", ids)
	defer func() { endSpan(span, err) }()
	res, err = c.batch.Duplicate(ctx, ids)
	c.logFailures("duplicate", res)
	return res, err
}

// Remove deletes the effective panels with undo captured. The acted-on IDs
// leave the selection whether or not every removal succeeded.
func (c *Controller) Remove(ctx context.Context, clickedID string) (res panel.Result, err error) {
	ids := c.EffectiveIDs(clickedID)
	ctx, span := c.startSpan(ctx, "Remove", ids)
	defer func() { endSpan(span, err) }()
	defer func() { c.setSelection(c.selected.Get().Without(ids...)) }()
	res, err = c.batch.Remove(ctx, ids, panel.RemoveOptions{CaptureUndo: true})
	c.logFailures("remove", res)
	return res, err
}

// Group moves the effective panels into a new section and returns its ID.
func (c *Controller) Group(ctx context.Context, clickedID, title string) (sectionID string, err error) {
	ids := c.EffectiveIDs(clickedID)
	ctx, span := c.startSpan(ctx, "Group", ids)
	defer func() { endSpan(span, err) }()
	if len(ids) < 2 {
		return "", layout.ErrGroupTooSmall
	}
	return c.dash.Group(ctx, ids, title)
}

// Undo reverts the most recent layout change.
func (c *Controller) Undo(ctx context.Context) (err error) {
	ctx, span := c.startSpan(ctx, "Undo", nil)
	defer func() { endSpan(span, err) }()
	return c.dash.History().Run(ctx)
}

// CanUndo reports whether Undo has anything to revert.
func (c *Controller) CanUndo() bool { return c.dash.History().CanUndo() }

// ToggleSection collapses or expands a section.
func (c *Controller) ToggleSection(ctx context.Context, sectionID string) (layout.ApplyResult, error) {
	s, ok := c.dash.Layout().Sections[sectionID]
	if !ok {
		return layout.ApplyResult{}, fmt.Errorf("controller: unknown section %q", sectionID)
	}
	return c.dash.Engine().Apply(ctx, layout.CollapseSectionOp{SectionID: sectionID, Collapsed: !s.Collapsed})
}

// Widgets projects the canonical layout for the rendering grid.
func (c *Controller) Widgets() []gridwidget.Widget {
	return gridwidget.FromLayout(c.dash.Layout())
}

// ApplyGridLayout takes the full layout emitted by the rendering grid after a
// drag or resize and makes it canonical.
func (c *Controller) ApplyGridLayout(ctx context.Context, widgets []gridwidget.Widget) (res layout.ApplyResult, err error) {
	ctx, span := c.startSpan(ctx, "ApplyGridLayout", nil)
	defer func() { endSpan(span, err) }()
	next := gridwidget.ToLayout(widgets, c.dash.Layout().PinnedPanels)
	return c.dash.Engine().Apply(ctx, layout.ReplaceOp{Layout: next})
}

// ShareColorMapping copies sourceID's color mapping to the other selected panels.
func (c *Controller) ShareColorMapping(ctx context.Context, sourceID string) (updated []string, err error) {
	targets := c.selected.Get().IDs()
	ctx, span := c.startSpan(ctx, "ShareColorMapping", targets)
	defer func() { endSpan(span, err) }()
	return colormap.Apply(ctx, c.dash, sourceID, targets)
}

// BreakdownFieldOptions lists breakdown fields for a panel; nil when the panel
// has no resolvable breakdown.
func (c *Controller) BreakdownFieldOptions(ctx context.Context, id string) []breakdown.Option {
	caps, ok := c.dash.Capabilities(id)
	if !ok || !caps.Has(panel.CapBreakdownField) {
		return nil
	}
	attrs, err := c.dash.Attributes(ctx, id)
	if err != nil {
		return nil
	}
	return breakdown.FieldOptions(attrs, c.dash.DataViews(), c.locale)
}

// SetBreakdownField changes the breakdown field of the effective panels.
func (c *Controller) SetBreakdownField(ctx context.Context, clickedID, field string) []string {
	ids := c.EffectiveIDs(clickedID)
	ctx, span := c.startSpan(ctx, "SetBreakdownField", ids)
	defer span.End()
	return breakdown.Apply(ctx, c.dash, c.dash.DataViews(), ids, field)
}

// Copy remembers the selection for Paste and mirrors the IDs to the system
// clipboard. Clipboard failures are logged only.
func (c *Controller) Copy() []string {
	ids := c.EffectiveIDs("")
	if len(ids) == 0 {
		return nil
	}
	c.copied = ids
	if err := c.clipboard.WriteAll(strings.Join(ids, "\n")); err != nil {
		c.logger.Warn("controller: clipboard write failed", slog.Any("err", err))
	}
	return ids
}

// Paste duplicates the copied panels that still exist and selects the copies.
func (c *Controller) Paste(ctx context.Context) (res panel.Result, err error) {
	ids := c.dash.Layout().FilterIDs(c.copied)
	if len(ids) == 0 {
		return panel.Result{}, nil
	}
	ctx, span := c.startSpan(ctx, "Paste", ids)
	defer func() { endSpan(span, err) }()
	res, err = c.batch.Duplicate(ctx, ids)
	if err != nil {
		return res, err
	}
	c.logFailures("paste", res)
	c.setSelection(selection.NewSet(res.Created...))
	return res, nil
}

func (c *Controller) logFailures(op string, res panel.Result) {
	for _, f := range res.Failed {
		c.logger.Warn("controller: "+op+" skipped panel", slog.String("panel_id", f.ID), slog.Any("err", f.Err))
	}
}
