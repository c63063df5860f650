package dashboard

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/regenrek/peakydash/internal/layout"
	"github.com/regenrek/peakydash/internal/panel"
)

var (
	_ panel.Ops             = (*Dashboard)(nil)
	_ panel.BatchDuplicator = (*Dashboard)(nil)
	_ panel.BatchRemover    = (*Dashboard)(nil)
	_ panel.AttributeStore  = (*Dashboard)(nil)
)

func (d *Dashboard) DuplicatePanel(ctx context.Context, id string) (string, error) {
	created, err := d.DuplicatePanels(ctx, []string{id})
	if err != nil {
		return "", err
	}
	return created[0], nil
}

// DuplicatePanels copies every panel as one undoable step. Each copy lands
// below the current content of its source's section. Unknown or
// non-duplicable panels fail the whole batch.
func (d *Dashboard) DuplicatePanels(ctx context.Context, ids []string) ([]string, error) {
	cur := d.engine.Layout()
	if err := d.require(cur, ids, panel.CapDuplicate); err != nil {
		return nil, err
	}
	for _, id := range ids {
		if _, ok := cur.Panels[id]; !ok {
			return nil, fmt.Errorf("dashboard: pinned panel %q: %w", id, panel.ErrUnsupported)
		}
	}
	bottoms := map[string]int{}
	added := make(map[string]layout.Panel, len(ids))
	created := make([]string, 0, len(ids))
	instances := make([]*Instance, 0, len(ids))

	d.mu.RLock()
	for _, id := range ids {
		src := cur.Panels[id]
		sid := src.Grid.SectionID
		bottom, ok := bottoms[sid]
		if !ok {
			bottom = cur.SectionBottom(sid)
		}
		copyID := d.newID()
		g := src.Grid
		g.Y = bottom
		added[copyID] = layout.Panel{Type: src.Type, Grid: g}
		bottoms[sid] = bottom + g.H

		inst := *d.instances[id]
		inst.ID = copyID
		inst.Attributes = inst.Attributes.Clone()
		instances = append(instances, &inst)
		created = append(created, copyID)
	}
	d.mu.RUnlock()

	d.mu.Lock()
	for _, inst := range instances {
		d.instances[inst.ID] = inst
	}
	d.mu.Unlock()

	if _, err := d.engine.Apply(ctx, layout.AddPanelsOp{Panels: added}); err != nil {
		return nil, err
	}
	d.logger.Debug("dashboard: duplicated panels", slog.Any("source", ids), slog.Any("created", created))
	return created, nil
}

func (d *Dashboard) RemovePanel(ctx context.Context, id string, opts panel.RemoveOptions) error {
	return d.RemovePanels(ctx, []string{id}, opts)
}

// RemovePanels drops every panel in one step. With CaptureUndo the removal is
// recorded on the undo stack.
func (d *Dashboard) RemovePanels(ctx context.Context, ids []string, opts panel.RemoveOptions) error {
	cur := d.engine.Layout()
	if err := d.require(cur, ids, panel.CapRemove); err != nil {
		return err
	}
	var applyOpts []layout.ApplyOption
	if !opts.CaptureUndo {
		applyOpts = append(applyOpts, layout.WithoutUndo())
	}
	_, err := d.engine.Apply(ctx, layout.RemovePanelsOp{IDs: ids}, applyOpts...)
	return err
}

func (d *Dashboard) Capabilities(id string) (panel.Capabilities, bool) {
	inst, ok := d.Instance(id)
	if !ok {
		return 0, false
	}
	return inst.Caps, true
}

// Attributes returns a copy of the panel's attributes.
func (d *Dashboard) Attributes(_ context.Context, id string) (*panel.Attributes, error) {
	inst, ok := d.Instance(id)
	if !ok {
		return nil, fmt.Errorf("dashboard: %w %q", panel.ErrUnknownPanel, id)
	}
	if !inst.Caps.Has(panel.CapAttributes) {
		return nil, fmt.Errorf("dashboard: panel %q attributes: %w", id, panel.ErrUnsupported)
	}
	return inst.Attributes.Clone(), nil
}

// UpdateAttributes replaces the panel's attributes. Last write wins.
func (d *Dashboard) UpdateAttributes(ctx context.Context, id string, attrs *panel.Attributes) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !d.onDashboard(id) {
		return fmt.Errorf("dashboard: %w %q", panel.ErrUnknownPanel, id)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	inst := d.instances[id]
	if !inst.Caps.Has(panel.CapAttributes) {
		return fmt.Errorf("dashboard: panel %q attributes: %w", id, panel.ErrUnsupported)
	}
	inst.Attributes = attrs.Clone()
	return nil
}

func (d *Dashboard) require(cur *layout.Layout, ids []string, capability panel.Capability) error {
	if len(ids) == 0 {
		return fmt.Errorf("dashboard: no panels given")
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, id := range ids {
		inst, ok := d.instances[id]
		if !ok || !d.inLayout(cur, id) {
			return fmt.Errorf("dashboard: %w %q", panel.ErrUnknownPanel, id)
		}
		if !inst.Caps.Has(capability) {
			return fmt.Errorf("dashboard: panel %q: %w", id, panel.ErrUnsupported)
		}
	}
	return nil
}
