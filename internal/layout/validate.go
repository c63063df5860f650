package layout

import (
	"errors"
	"fmt"
	"sort"
)

// Validate reports every broken invariant of a layout read from outside.
func (l *Layout) Validate() error {
	if l == nil {
		return errors.New("layout: layout is nil")
	}
	var errs []error
	ids := make([]string, 0, len(l.Panels))
	for id := range l.Panels {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		p := l.Panels[id]
		if id == "" {
			errs = append(errs, errors.New("layout: panel with empty id"))
			continue
		}
		g := p.Grid
		if g.X < 0 || g.Y < 0 {
			errs = append(errs, fmt.Errorf("layout: panel %q has negative position (%d,%d)", id, g.X, g.Y))
		}
		if g.Empty() {
			errs = append(errs, fmt.Errorf("layout: panel %q has non-positive size %dx%d", id, g.W, g.H))
		}
		if g.Right() > GridColumns {
			errs = append(errs, fmt.Errorf("layout: panel %q exceeds %d columns", id, GridColumns))
		}
		if g.SectionID != "" && !l.HasSection(g.SectionID) {
			errs = append(errs, fmt.Errorf("layout: panel %q references missing section %q", id, g.SectionID))
		}
	}
	for id := range l.PinnedPanels {
		if _, ok := l.Panels[id]; ok {
			errs = append(errs, fmt.Errorf("layout: panel %q is both pinned and on the grid", id))
		}
	}
	return errors.Join(errs...)
}

// Sanitize returns a copy that satisfies the layout invariants: dangling
// section references move to the root section, coordinates are clamped and
// sizes are forced positive.
func (l *Layout) Sanitize() *Layout {
	if l == nil {
		return New()
	}
	out := l.Clone()
	for id, p := range out.Panels {
		if id == "" {
			delete(out.Panels, id)
			continue
		}
		g := p.Grid
		if g.SectionID != "" && !out.HasSection(g.SectionID) {
			g.SectionID = ""
		}
		g.W = clampInt(g.W, 1, GridColumns)
		g.H = max(g.H, 1)
		g.X = clampInt(g.X, 0, GridColumns-g.W)
		g.Y = max(g.Y, 0)
		p.Grid = g
		out.Panels[id] = p
	}
	for id := range out.PinnedPanels {
		delete(out.Panels, id)
	}
	return out
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
