package gridview

import (
	"github.com/regenrek/peakydash/internal/gridwidget"
	"github.com/regenrek/peakydash/internal/layout"
	"github.com/regenrek/peakydash/internal/selection"
)

// geometry maps grid units to screen cells for the current window.
type geometry struct {
	colW   int
	top    int
	scroll int
}

func (g geometry) rect(w gridwidget.Widget) selection.Rect {
	return selection.Rect{
		X: w.X * g.colW,
		Y: g.top + w.Y - g.scroll,
		W: w.W * g.colW,
		H: w.H,
	}
}

func (m *Model) geometry() geometry {
	return geometry{colW: max(1, m.width/layout.GridColumns), top: headerLines, scroll: m.scroll}
}

// refreshGeometry recomputes the on-screen rectangles and hands them to the
// controller for hit testing.
func (m *Model) refreshGeometry() (panels, headers []gridwidget.Widget) {
	panels, headers = gridwidget.Flatten(m.ctrl.Widgets())
	g := m.geometry()
	rendered := make(map[string]selection.Rect, len(panels))
	for _, p := range panels {
		rendered[p.ID] = g.rect(p)
	}
	m.ctrl.SetGeometry(rendered)
	m.headers = m.headers[:0]
	for _, h := range headers {
		r := g.rect(h)
		r.W = max(r.W, m.width)
		m.headers = append(m.headers, headerHit{id: h.ID, rect: r})
	}
	return panels, headers
}

func (m *Model) renderGrid() string {
	panels, headers := m.refreshGeometry()
	g := m.geometry()
	bodyH := m.bodyHeight()
	cv := newCanvas(m.width, bodyH)
	// canvas rows start at the first body line
	shift := func(r selection.Rect) selection.Rect {
		r.Y -= g.top
		return r
	}

	for _, h := range headers {
		r := shift(g.rect(h))
		marker := "▾ "
		if h.Collapsed {
			marker = "▸ "
		}
		title := h.Title
		if title == "" {
			title = h.ID
		}
		cv.fillRow(r.Y, 0, m.width, '─', styleSection)
		cv.text(0, r.Y, m.width, marker+title+" ", styleSection)
	}

	selected := m.ctrl.Selected()
	preview := m.ctrl.Preview()
	for _, p := range panels {
		r := shift(g.rect(p))
		st := styleBorder
		switch {
		case selected.Has(p.ID):
			st = styleSelected
		case preview.Has(p.ID):
			st = stylePreview
		}
		cv.box(r, st)
		inner := r.W - 2
		title := p.ID
		if inst, ok := m.ctrl.Dashboard().Instance(p.ID); ok && inst.Attributes != nil && inst.Attributes.Title != "" {
			title = inst.Attributes.Title
		}
		cv.text(r.X+1, r.Y+1, inner, title, styleTitle)
		if r.H > 3 {
			cv.text(r.X+1, r.Y+2, inner, p.Type, styleType)
		}
	}

	if dr, ok := m.ctrl.DragRect(); ok {
		dr.Y -= g.top
		cv.dashed(dr, styleDrag)
	}
	return cv.String()
}
