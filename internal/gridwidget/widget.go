// Package gridwidget converts between the canonical layout and the flat widget
// list consumed and emitted by the rendering grid.
package gridwidget

import (
	"cmp"
	"maps"
	"slices"

	"github.com/regenrek/peakydash/internal/layout"
)

type Kind string

const (
	KindPanel   Kind = "panel"
	KindSection Kind = "section"
)

// Widget is one positioned item of the rendering grid. Section widgets hold
// their panels in Children, positioned relative to the section.
type Widget struct {
	ID        string   `json:"id" yaml:"id"`
	Kind      Kind     `json:"kind" yaml:"kind"`
	Type      string   `json:"type,omitempty" yaml:"type,omitempty"`
	X         int      `json:"x" yaml:"x"`
	Y         int      `json:"y" yaml:"y"`
	W         int      `json:"w" yaml:"w"`
	H         int      `json:"h" yaml:"h"`
	Title     string   `json:"title,omitempty" yaml:"title,omitempty"`
	Collapsed bool     `json:"collapsed,omitempty" yaml:"collapsed,omitempty"`
	Children  []Widget `json:"children,omitempty" yaml:"children,omitempty"`
}

// FromLayout projects l into widgets ordered by (y, x, id). Pinned panels are
// not part of the grid and are left out.
func FromLayout(l *layout.Layout) []Widget {
	if l == nil {
		return nil
	}
	children := make(map[string][]Widget, len(l.Sections))
	out := make([]Widget, 0, len(l.Panels)+len(l.Sections))
	for id, p := range l.Panels {
		if l.IsPinned(id) {
			continue
		}
		w := panelWidget(id, p)
		if sid := p.Grid.SectionID; sid != "" && l.HasSection(sid) {
			children[sid] = append(children[sid], w)
			continue
		}
		out = append(out, w)
	}
	for id, s := range l.Sections {
		kids := children[id]
		sortWidgets(kids)
		height := 0
		for _, k := range kids {
			height = max(height, k.Y+k.H)
		}
		out = append(out, Widget{
			ID:        id,
			Kind:      KindSection,
			Y:         s.Grid.Y,
			W:         layout.GridColumns,
			H:         height,
			Title:     s.Title,
			Collapsed: s.Collapsed,
			Children:  kids,
		})
	}
	sortWidgets(out)
	return out
}

// ToLayout rebuilds a layout from widgets. Pinned panels are carried over from
// pinned since the grid never renders them. Unknown kinds and nested sections
// are ignored; the first widget with a given ID wins.
func ToLayout(widgets []Widget, pinned map[string]layout.PinnedPanel) *layout.Layout {
	out := layout.New()
	maps.Copy(out.PinnedPanels, pinned)
	seen := make(map[string]struct{}, len(widgets))
	claim := func(id string) bool {
		if id == "" {
			return false
		}
		if _, dup := seen[id]; dup {
			return false
		}
		seen[id] = struct{}{}
		return true
	}
	addPanel := func(w Widget, sectionID string) {
		if out.IsPinned(w.ID) || !claim(w.ID) {
			return
		}
		out.Panels[w.ID] = layout.Panel{
			Type: w.Type,
			Grid: layout.GridData{X: w.X, Y: w.Y, W: w.W, H: w.H, SectionID: sectionID},
		}
	}
	for _, w := range widgets {
		switch w.Kind {
		case KindPanel:
			addPanel(w, "")
		case KindSection:
			if !claim(w.ID) {
				continue
			}
			out.Sections[w.ID] = layout.Section{
				Title:     w.Title,
				Collapsed: w.Collapsed,
				Grid:      layout.SectionGrid{Y: w.Y},
			}
			for _, child := range w.Children {
				if child.Kind == KindPanel {
					addPanel(child, w.ID)
				}
			}
		}
	}
	return out
}

// Flatten places widgets on absolute rows for rendering. Root panels keep
// their rows; sections stack below them in order, each taking a one-row header
// followed by its children unless collapsed. Headers are returned with H=1.
func Flatten(widgets []Widget) (panels []Widget, headers []Widget) {
	cursor := 0
	var sections []Widget
	for _, w := range widgets {
		switch w.Kind {
		case KindPanel:
			panels = append(panels, w)
			cursor = max(cursor, w.Y+w.H)
		case KindSection:
			sections = append(sections, w)
		}
	}
	sortWidgets(sections)
	for _, s := range sections {
		header := s
		header.Children = nil
		header.X, header.Y, header.W, header.H = 0, cursor, layout.GridColumns, 1
		headers = append(headers, header)
		cursor++
		if s.Collapsed {
			continue
		}
		bottom := 0
		for _, child := range s.Children {
			bottom = max(bottom, child.Y+child.H)
			child.Y += cursor
			panels = append(panels, child)
		}
		cursor += bottom
	}
	return panels, headers
}

func panelWidget(id string, p layout.Panel) Widget {
	return Widget{ID: id, Kind: KindPanel, Type: p.Type, X: p.Grid.X, Y: p.Grid.Y, W: p.Grid.W, H: p.Grid.H}
}

func sortWidgets(ws []Widget) {
	slices.SortFunc(ws, func(a, b Widget) int {
		return cmp.Or(cmp.Compare(a.Y, b.Y), cmp.Compare(a.X, b.X), cmp.Compare(a.ID, b.ID))
	})
}
