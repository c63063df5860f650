package layout

import (
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
)

// BulkMode selects how a set of panels is reflowed.
type BulkMode string

const (
	BulkHeader BulkMode = "header"
	BulkGrid   BulkMode = "grid"
	BulkSide   BulkMode = "side"
)

const (
	headerRowHeight = 5
	bodyRowHeight   = 10
	gridColumns     = 3
	gridCellWidth   = GridColumns / gridColumns
	gridCellHeight  = 10
	sideWidth       = GridColumns / 2
	sideMainHeight  = 10
	sideStackHeight = 5
)

// BulkModes lists the supported modes in display order.
func BulkModes() []BulkMode {
	return []BulkMode{BulkHeader, BulkGrid, BulkSide}
}

// ParseBulkMode converts user input into a BulkMode.
func ParseBulkMode(raw string) (BulkMode, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	for _, mode := range BulkModes() {
		if value == string(mode) {
			return mode, nil
		}
	}
	if suggestion := closestMode(value); suggestion != "" {
		return "", fmt.Errorf("layout: unknown bulk mode %q (did you mean %q?)", raw, suggestion)
	}
	return "", fmt.Errorf("layout: unknown bulk mode %q (expected header, grid or side)", raw)
}

func closestMode(value string) BulkMode {
	if value == "" {
		return ""
	}
	best := BulkMode("")
	bestDist := 3
	for _, mode := range BulkModes() {
		if dist := levenshtein.ComputeDistance(value, string(mode)); dist < bestDist {
			best = mode
			bestDist = dist
		}
	}
	return best
}

// ApplyBulkLayout reflows the panels named by ids into mode. Unknown and pinned
// ids are dropped; when nothing remains the input layout is returned as is.
// Every rearranged panel moves into the section of the topmost-leftmost one.
func ApplyBulkLayout(l *Layout, ids []string, mode BulkMode) *Layout {
	if l == nil {
		return nil
	}
	sorted := l.FilterIDs(ids)
	if len(sorted) == 0 {
		return l
	}
	rects := bulkRects(mode, len(sorted))
	if rects == nil {
		return l
	}
	target := l.Panels[sorted[0]].Grid.SectionID
	out := l.withPanels()
	for i, id := range sorted {
		p := out.Panels[id]
		grid := rects[i]
		grid.SectionID = target
		p.Grid = grid
		out.Panels[id] = p
	}
	return out
}

// Prettify reflows every non-pinned panel into the 3-per-row grid. Unlike a
// single pass over the whole dashboard, each section is reflowed on its own in
// (y, x) order starting at its top row, because panel y is relative to the
// section; panels keep their section membership.
func Prettify(l *Layout) *Layout {
	if l == nil {
		return nil
	}
	bySection := make(map[string][]string)
	for id, p := range l.Panels {
		if l.IsPinned(id) {
			continue
		}
		bySection[p.Grid.SectionID] = append(bySection[p.Grid.SectionID], id)
	}
	if len(bySection) == 0 {
		return l
	}
	out := l.withPanels()
	for sectionID, ids := range bySection {
		l.sortByPosition(ids)
		for i, id := range ids {
			p := out.Panels[id]
			grid := gridCell(i)
			grid.SectionID = sectionID
			p.Grid = grid
			out.Panels[id] = p
		}
	}
	return out
}

func bulkRects(mode BulkMode, count int) []GridData {
	if count <= 0 {
		return nil
	}
	switch mode {
	case BulkHeader:
		return headerRects(count)
	case BulkGrid:
		out := make([]GridData, count)
		for i := range out {
			out[i] = gridCell(i)
		}
		return out
	case BulkSide:
		return sideRects(count)
	default:
		return nil
	}
}

func headerRects(count int) []GridData {
	out := make([]GridData, 0, count)
	out = append(out, GridData{X: 0, Y: 0, W: GridColumns, H: headerRowHeight})
	rest := count - 1
	if rest == 0 {
		return out
	}
	// More panels than columns wrap onto further rows of GridColumns cells.
	perRow := min(rest, GridColumns)
	width := GridColumns / perRow
	for i := 0; i < rest; i++ {
		col, row := i%perRow, i/perRow
		x := col * width
		w := width
		if col == perRow-1 || i == rest-1 {
			w = GridColumns - x
		}
		out = append(out, GridData{X: x, Y: headerRowHeight + row*bodyRowHeight, W: w, H: bodyRowHeight})
	}
	return out
}

func sideRects(count int) []GridData {
	out := make([]GridData, 0, count)
	out = append(out, GridData{X: 0, Y: 0, W: sideWidth, H: sideMainHeight})
	for i := 0; i < count-1; i++ {
		out = append(out, GridData{X: sideWidth, Y: i * sideStackHeight, W: sideWidth, H: sideStackHeight})
	}
	return out
}

func gridCell(index int) GridData {
	return GridData{
		X: (index % gridColumns) * gridCellWidth,
		Y: (index / gridColumns) * gridCellHeight,
		W: gridCellWidth,
		H: gridCellHeight,
	}
}
