package layout

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"strings"
	"sync"

	"github.com/regenrek/peakydash/internal/observable"
	"github.com/regenrek/peakydash/internal/undo"
)

// ErrGroupTooSmall is returned when fewer than two panels are grouped.
var ErrGroupTooSmall = errors.New("layout: grouping requires at least two panels")

type OpKind string

const (
	OpBulk     OpKind = "bulk"
	OpPrettify OpKind = "prettify"
	OpReplace  OpKind = "replace"
	OpCollapse OpKind = "collapse"
	OpGroup    OpKind = "group"
	OpAdd      OpKind = "add"
	OpRemove   OpKind = "remove"
)

type Op interface {
	Kind() OpKind
}

type BulkOp struct {
	IDs  []string
	Mode BulkMode
}

func (BulkOp) Kind() OpKind { return OpBulk }

type PrettifyOp struct{}

func (PrettifyOp) Kind() OpKind { return OpPrettify }

// ReplaceOp swaps in a layout produced by the rendering grid after a drag or resize.
type ReplaceOp struct {
	Layout *Layout
}

func (ReplaceOp) Kind() OpKind { return OpReplace }

type CollapseSectionOp struct {
	SectionID string
	Collapsed bool
}

func (CollapseSectionOp) Kind() OpKind { return OpCollapse }

// GroupOp moves panels into a newly created section.
type GroupOp struct {
	IDs       []string
	SectionID string
	Title     string
}

func (GroupOp) Kind() OpKind { return OpGroup }

type AddPanelsOp struct {
	Panels map[string]Panel
}

func (AddPanelsOp) Kind() OpKind { return OpAdd }

type RemovePanelsOp struct {
	IDs []string
}

func (RemovePanelsOp) Kind() OpKind { return OpRemove }

type ApplyResult struct {
	Changed  bool
	Affected []string
}

type applyConfig struct {
	skipUndo bool
}

// ApplyOption tunes a single Apply call.
type ApplyOption func(*applyConfig)

// WithoutUndo applies an op without recording a reversal action.
func WithoutUndo() ApplyOption {
	return func(c *applyConfig) { c.skipUndo = true }
}

// Engine owns the canonical layout. Every change goes through Apply, which
// records the pre-change snapshot on the undo stack before publishing.
type Engine struct {
	mu      sync.Mutex
	current *observable.Cell[*Layout]
	history *undo.Manager
}

func NewEngine(initial *Layout, history *undo.Manager) *Engine {
	if initial == nil {
		initial = New()
	}
	if history == nil {
		history = undo.New(undo.DefaultLimit)
	}
	return &Engine{current: observable.NewCell(initial), history: history}
}

// Layout returns the current layout. Callers must treat it as read-only.
func (e *Engine) Layout() *Layout {
	return e.current.Get()
}

// History exposes the undo stack shared with the controller.
func (e *Engine) History() *undo.Manager {
	return e.history
}

// Subscribe observes layout replacements; the current layout is replayed.
func (e *Engine) Subscribe(fn func(*Layout)) func() {
	return e.current.Subscribe(fn)
}

// Reset installs a layout without recording undo and drops existing history.
func (e *Engine) Reset(l *Layout) {
	if l == nil {
		l = New()
	}
	e.history.Clear()
	e.current.Set(l)
}

func (e *Engine) Apply(ctx context.Context, op Op, opts ...ApplyOption) (ApplyResult, error) {
	if e == nil {
		return ApplyResult{}, errors.New("layout: engine is nil")
	}
	if op == nil {
		return ApplyResult{}, errors.New("layout: op is nil")
	}
	if err := ctx.Err(); err != nil {
		return ApplyResult{}, err
	}
	cfg := applyConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	cur := e.current.Get()
	next, affected, err := applyOp(cur, op)
	if err != nil {
		return ApplyResult{}, err
	}
	if next == nil || Equal(cur, next) {
		return ApplyResult{}, nil
	}
	if !cfg.skipUndo {
		snapshot := cur.Clone()
		e.history.Push(func(context.Context) error {
			e.restore(snapshot)
			return nil
		})
	}
	e.current.Set(next)
	return ApplyResult{Changed: true, Affected: affected}, nil
}

func (e *Engine) restore(snapshot *Layout) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.current.Set(snapshot.Clone())
}

func applyOp(cur *Layout, op Op) (*Layout, []string, error) {
	switch v := op.(type) {
	case BulkOp:
		return ApplyBulkLayout(cur, v.IDs, v.Mode), cur.FilterIDs(v.IDs), nil
	case PrettifyOp:
		return Prettify(cur), cur.PanelIDs(), nil
	case ReplaceOp:
		if v.Layout == nil {
			return nil, nil, errors.New("layout: replace requires a layout")
		}
		next := v.Layout.Clone()
		if len(next.PinnedPanels) == 0 && len(cur.PinnedPanels) > 0 {
			next.PinnedPanels = maps.Clone(cur.PinnedPanels)
		}
		return next.Sanitize(), next.PanelIDs(), nil
	case CollapseSectionOp:
		return collapseSection(cur, v), nil, nil
	case GroupOp:
		return groupPanels(cur, v)
	case AddPanelsOp:
		return addPanels(cur, v)
	case RemovePanelsOp:
		return removePanels(cur, v)
	default:
		return nil, nil, fmt.Errorf("layout: unknown op %T", op)
	}
}

func collapseSection(cur *Layout, op CollapseSectionOp) *Layout {
	section, ok := cur.Sections[op.SectionID]
	if !ok || section.Collapsed == op.Collapsed {
		return cur
	}
	out := cur.Clone()
	section.Collapsed = op.Collapsed
	out.Sections[op.SectionID] = section
	return out
}

func groupPanels(cur *Layout, op GroupOp) (*Layout, []string, error) {
	ids := cur.FilterIDs(op.IDs)
	if len(ids) < 2 {
		return nil, nil, ErrGroupTooSmall
	}
	sectionID := strings.TrimSpace(op.SectionID)
	if sectionID == "" {
		return nil, nil, errors.New("layout: group requires a section id")
	}
	if cur.HasSection(sectionID) {
		return nil, nil, fmt.Errorf("layout: section %q already exists", sectionID)
	}
	out := cur.Clone()
	x, y, rowHeight := 0, 0, 0
	for _, id := range ids {
		p := out.Panels[id]
		w := clampInt(p.Grid.W, 1, GridColumns)
		h := max(p.Grid.H, 1)
		if x+w > GridColumns {
			x = 0
			y += rowHeight
			rowHeight = 0
		}
		p.Grid = GridData{X: x, Y: y, W: w, H: h, SectionID: sectionID}
		out.Panels[id] = p
		x += w
		rowHeight = max(rowHeight, h)
	}
	out.Sections[sectionID] = Section{Title: op.Title, Grid: SectionGrid{Y: nextSectionRow(out)}}
	return out, ids, nil
}

// nextSectionRow places a new section below the root panels and every
// existing section.
func nextSectionRow(l *Layout) int {
	row := l.SectionBottom("")
	for _, s := range l.Sections {
		row = max(row, s.Grid.Y+1)
	}
	return row
}

func addPanels(cur *Layout, op AddPanelsOp) (*Layout, []string, error) {
	if len(op.Panels) == 0 {
		return cur, nil, nil
	}
	out := cur.Clone()
	added := make([]string, 0, len(op.Panels))
	for id, p := range op.Panels {
		if strings.TrimSpace(id) == "" {
			return nil, nil, errors.New("layout: panel id is required")
		}
		if _, exists := out.Panels[id]; exists {
			return nil, nil, fmt.Errorf("layout: panel %q already exists", id)
		}
		if p.Grid.SectionID != "" && !out.HasSection(p.Grid.SectionID) {
			p.Grid.SectionID = ""
		}
		out.Panels[id] = p
		added = append(added, id)
	}
	out.sortByPosition(added)
	return out, added, nil
}

func removePanels(cur *Layout, op RemovePanelsOp) (*Layout, []string, error) {
	out := cur.Clone()
	removed := make([]string, 0, len(op.IDs))
	for _, id := range op.IDs {
		if _, ok := out.Panels[id]; ok {
			delete(out.Panels, id)
			removed = append(removed, id)
			continue
		}
		if _, ok := out.PinnedPanels[id]; ok {
			delete(out.PinnedPanels, id)
			removed = append(removed, id)
		}
	}
	if len(removed) == 0 {
		return cur, nil, nil
	}
	return out, removed, nil
}
