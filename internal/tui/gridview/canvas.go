package gridview

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/regenrek/peakydash/internal/selection"
	"github.com/regenrek/peakydash/internal/tui/theme"
)

type styleID uint8

const (
	stylePlain styleID = iota
	styleBorder
	styleSelected
	stylePreview
	styleTitle
	styleType
	styleSection
	styleDrag
)

var cellStyles = [...]lipgloss.Style{
	stylePlain:    lipgloss.NewStyle(),
	styleBorder:   theme.PanelBorder,
	styleSelected: theme.PanelSelected,
	stylePreview:  theme.PanelPreview,
	styleTitle:    theme.PanelTitle,
	styleType:     theme.PanelType,
	styleSection:  theme.SectionHeader,
	styleDrag:     theme.DragRectangle,
}

type cell struct {
	r     rune
	style styleID
	// wide marks the trailing half of a double-width rune.
	wide bool
}

// canvas is a fixed-size character grid flushed to styled lines.
type canvas struct {
	w, h  int
	cells []cell
}

func newCanvas(w, h int) *canvas {
	c := &canvas{w: max(w, 0), h: max(h, 0)}
	c.cells = make([]cell, c.w*c.h)
	for i := range c.cells {
		c.cells[i] = cell{r: ' '}
	}
	return c
}

func (c *canvas) set(x, y int, r rune, st styleID) {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return
	}
	c.cells[y*c.w+x] = cell{r: r, style: st}
}

// text writes s from (x, y), truncated to maxW display cells.
func (c *canvas) text(x, y, maxW int, s string, st styleID) {
	if maxW <= 0 {
		return
	}
	s = runewidth.Truncate(s, maxW, "…")
	for _, r := range s {
		rw := runewidth.RuneWidth(r)
		if rw == 0 {
			continue
		}
		c.set(x, y, r, st)
		if rw == 2 && x+1 < c.w && y >= 0 && y < c.h && x+1 >= 0 {
			c.cells[y*c.w+x+1] = cell{style: st, wide: true}
		}
		x += rw
	}
}

func (c *canvas) fillRow(y int, from, to int, r rune, st styleID) {
	for x := from; x < to; x++ {
		c.set(x, y, r, st)
	}
}

// box draws the outline of r.
func (c *canvas) box(r selection.Rect, st styleID) {
	if r.W < 2 || r.H < 2 {
		c.fillRow(r.Y, r.X, r.X+r.W, '▪', st)
		return
	}
	right, bottom := r.X+r.W-1, r.Y+r.H-1
	for x := r.X + 1; x < right; x++ {
		c.set(x, r.Y, '─', st)
		c.set(x, bottom, '─', st)
	}
	for y := r.Y + 1; y < bottom; y++ {
		c.set(r.X, y, '│', st)
		c.set(right, y, '│', st)
	}
	c.set(r.X, r.Y, '┌', st)
	c.set(right, r.Y, '┐', st)
	c.set(r.X, bottom, '└', st)
	c.set(right, bottom, '┘', st)
}

// dashed draws a lighter outline used for the drag rectangle.
func (c *canvas) dashed(r selection.Rect, st styleID) {
	right, bottom := r.X+r.W-1, r.Y+r.H-1
	for x := r.X; x <= right; x++ {
		c.set(x, r.Y, '┄', st)
		c.set(x, bottom, '┄', st)
	}
	for y := r.Y; y <= bottom; y++ {
		c.set(r.X, y, '┆', st)
		c.set(right, y, '┆', st)
	}
}

func (c *canvas) String() string {
	var b strings.Builder
	var run strings.Builder
	for y := 0; y < c.h; y++ {
		if y > 0 {
			b.WriteByte('\n')
		}
		cur := stylePlain
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if cur == stylePlain {
				b.WriteString(run.String())
			} else {
				b.WriteString(cellStyles[cur].Render(run.String()))
			}
			run.Reset()
		}
		for x := 0; x < c.w; x++ {
			cl := c.cells[y*c.w+x]
			if cl.wide {
				continue
			}
			if cl.style != cur {
				flush()
				cur = cl.style
			}
			run.WriteRune(cl.r)
		}
		flush()
	}
	return b.String()
}
