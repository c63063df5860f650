package layout

import (
	"maps"
	"sort"
)

// Clone returns a deep copy of the layout.
func (l *Layout) Clone() *Layout {
	if l == nil {
		return nil
	}
	clone := &Layout{
		Panels:       make(map[string]Panel, len(l.Panels)),
		Sections:     make(map[string]Section, len(l.Sections)),
		PinnedPanels: make(map[string]PinnedPanel, len(l.PinnedPanels)),
	}
	maps.Copy(clone.Panels, l.Panels)
	maps.Copy(clone.Sections, l.Sections)
	maps.Copy(clone.PinnedPanels, l.PinnedPanels)
	return clone
}

// withPanels returns a layout sharing sections and pinned panels with l but
// owning a fresh copy of the panel map.
func (l *Layout) withPanels() *Layout {
	out := &Layout{
		Panels:       make(map[string]Panel, len(l.Panels)),
		Sections:     l.Sections,
		PinnedPanels: l.PinnedPanels,
	}
	maps.Copy(out.Panels, l.Panels)
	return out
}

// Equal reports whether two layouts hold the same panels, sections and pinned panels.
func Equal(a, b *Layout) bool {
	if a == nil || b == nil {
		return a == b
	}
	return maps.Equal(a.Panels, b.Panels) &&
		maps.Equal(a.Sections, b.Sections) &&
		maps.Equal(a.PinnedPanels, b.PinnedPanels)
}

// PanelIDs returns every panel id in reading order.
func (l *Layout) PanelIDs() []string {
	if l == nil || len(l.Panels) == 0 {
		return nil
	}
	ids := make([]string, 0, len(l.Panels))
	for id := range l.Panels {
		ids = append(ids, id)
	}
	l.sortByPosition(ids)
	return ids
}

// SectionIDs returns section ids ordered by their row.
func (l *Layout) SectionIDs() []string {
	if l == nil || len(l.Sections) == 0 {
		return nil
	}
	ids := make([]string, 0, len(l.Sections))
	for id := range l.Sections {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := l.Sections[ids[i]], l.Sections[ids[j]]
		if a.Grid.Y != b.Grid.Y {
			return a.Grid.Y < b.Grid.Y
		}
		return ids[i] < ids[j]
	})
	return ids
}

// FilterIDs keeps ids that name reflowable panels, dropping unknown, pinned and
// duplicate entries, and returns them in reading order.
func (l *Layout) FilterIDs(ids []string) []string {
	if l == nil || len(ids) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		if _, ok := l.Panels[id]; !ok || l.IsPinned(id) {
			continue
		}
		out = append(out, id)
	}
	l.sortByPosition(out)
	return out
}

// sortByPosition orders ids top-to-bottom, then left-to-right.
func (l *Layout) sortByPosition(ids []string) {
	sort.SliceStable(ids, func(i, j int) bool {
		a, b := l.Panels[ids[i]].Grid, l.Panels[ids[j]].Grid
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		if a.X != b.X {
			return a.X < b.X
		}
		return ids[i] < ids[j]
	})
}

// SectionBottom returns the lowest occupied row of a section ("" is root).
func (l *Layout) SectionBottom(sectionID string) int {
	bottom := 0
	if l == nil {
		return bottom
	}
	for _, p := range l.Panels {
		if p.Grid.SectionID != sectionID {
			continue
		}
		if b := p.Grid.Bottom(); b > bottom {
			bottom = b
		}
	}
	return bottom
}
