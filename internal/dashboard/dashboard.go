// Package dashboard holds an editable dashboard: the layout engine, the panel
// instances placed on it and the data views those panels query.
package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/regenrek/peakydash/internal/breakdown"
	"github.com/regenrek/peakydash/internal/layout"
	"github.com/regenrek/peakydash/internal/panel"
	"github.com/regenrek/peakydash/internal/undo"
)

const (
	defaultPanelW = 16
	defaultPanelH = 10
)

// Instance is a panel placed on the dashboard.
type Instance struct {
	ID         string
	Type       string
	Caps       panel.Capabilities
	Attributes *panel.Attributes
}

type Options struct {
	UndoLimit int
	Logger    *slog.Logger
	// NewID generates panel and section IDs; uuid.NewString when nil.
	NewID func() string
}

// Dashboard owns the canonical layout. Instances outlive their layout entries
// so undoing a removal brings the panel back with its state.
type Dashboard struct {
	mu        sync.RWMutex
	title     string
	engine    *layout.Engine
	instances map[string]*Instance
	views     *breakdown.Registry
	newID     func() string
	logger    *slog.Logger
}

// New builds a dashboard from doc. Invalid layouts are repaired and the
// problems logged.
func New(doc *Document, opts Options) (*Dashboard, error) {
	if doc == nil {
		doc = &Document{Version: DocumentVersion, Layout: layout.New()}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	l := doc.Layout
	if l == nil {
		l = layout.New()
	}
	fillMaps(l)
	if err := l.Validate(); err != nil {
		opts.Logger.Warn("dashboard: repairing layout", slog.Any("err", err))
		l = l.Sanitize()
	}
	d := &Dashboard{
		title:     doc.Title,
		engine:    layout.NewEngine(l, undo.New(opts.UndoLimit)),
		instances: make(map[string]*Instance, len(l.Panels)+len(l.PinnedPanels)),
		views:     breakdown.NewRegistry(doc.DataViews...),
		newID:     opts.NewID,
		logger:    opts.Logger,
	}
	for id, p := range l.Panels {
		inst, err := newInstance(id, p.Type, doc.Panels[id])
		if err != nil {
			return nil, err
		}
		d.instances[id] = inst
	}
	for id, p := range l.PinnedPanels {
		inst, err := newInstance(id, p.Type, doc.Panels[id])
		if err != nil {
			return nil, err
		}
		d.instances[id] = inst
	}
	return d, nil
}

func newInstance(id, panelType string, st PanelState) (*Instance, error) {
	caps := panel.DefaultCapabilities(panelType)
	if len(st.Capabilities) > 0 {
		caps = 0
		for _, name := range st.Capabilities {
			c, ok := panel.ParseCapability(name)
			if !ok {
				return nil, fmt.Errorf("dashboard: panel %q: unknown capability %q", id, name)
			}
			caps = caps.With(c)
		}
	}
	return &Instance{ID: id, Type: panelType, Caps: caps, Attributes: st.Attributes.Clone()}, nil
}

// Load reads and builds a dashboard from a document file.
func Load(path string, opts Options) (*Dashboard, error) {
	doc, err := LoadDocument(path)
	if err != nil {
		return nil, err
	}
	return New(doc, opts)
}

// Save writes the current state to path.
func (d *Dashboard) Save(path string) error {
	return SaveDocument(path, d.Document())
}

func (d *Dashboard) Title() string { return d.title }

func (d *Dashboard) Engine() *layout.Engine { return d.engine }

func (d *Dashboard) Layout() *layout.Layout { return d.engine.Layout() }

func (d *Dashboard) History() *undo.Manager { return d.engine.History() }

func (d *Dashboard) DataViews() *breakdown.Registry { return d.views }

// Instance returns a panel that is currently on the dashboard.
func (d *Dashboard) Instance(id string) (Instance, bool) {
	if !d.onDashboard(id) {
		return Instance{}, false
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	inst, ok := d.instances[id]
	if !ok {
		return Instance{}, false
	}
	return *inst, true
}

// Document snapshots the dashboard for persistence.
func (d *Dashboard) Document() *Document {
	l := d.engine.Layout().Clone()
	doc := &Document{
		Version: DocumentVersion,
		Title:   d.title,
		Layout:  l,
		Panels:  map[string]PanelState{},
	}
	d.mu.RLock()
	for id, inst := range d.instances {
		if !d.inLayout(l, id) {
			continue
		}
		st := PanelState{Attributes: inst.Attributes.Clone()}
		if inst.Caps != panel.DefaultCapabilities(inst.Type) {
			st.Capabilities = strings.Split(inst.Caps.String(), ",")
		}
		if st.Attributes != nil || len(st.Capabilities) > 0 {
			doc.Panels[id] = st
		}
	}
	d.mu.RUnlock()
	views := d.views.All()
	slices.SortFunc(views, func(a, b *breakdown.DataView) int { return strings.Compare(a.ID, b.ID) })
	doc.DataViews = views
	return doc
}

// Group moves ids into a new section.
func (d *Dashboard) Group(ctx context.Context, ids []string, title string) (string, error) {
	sectionID := d.newID()
	if strings.TrimSpace(title) == "" {
		title = fmt.Sprintf("Group %d", len(d.engine.Layout().Sections)+1)
	}
	if _, err := d.engine.Apply(ctx, layout.GroupOp{IDs: ids, SectionID: sectionID, Title: title}); err != nil {
		return "", err
	}
	return sectionID, nil
}

// AddPanel places a new panel of panelType below its section's content.
func (d *Dashboard) AddPanel(ctx context.Context, panelType, sectionID string, w, h int, attrs *panel.Attributes) (string, error) {
	panelType = strings.TrimSpace(panelType)
	if panelType == "" {
		return "", fmt.Errorf("dashboard: panel type is required")
	}
	cur := d.engine.Layout()
	if sectionID != "" && !cur.HasSection(sectionID) {
		return "", fmt.Errorf("dashboard: unknown section %q", sectionID)
	}
	if w <= 0 {
		w = defaultPanelW
	}
	if h <= 0 {
		h = defaultPanelH
	}
	w = min(w, layout.GridColumns)
	id := d.newID()
	p := layout.Panel{Type: panelType, Grid: layout.GridData{X: 0, Y: cur.SectionBottom(sectionID), W: w, H: h, SectionID: sectionID}}
	d.mu.Lock()
	d.instances[id] = &Instance{ID: id, Type: panelType, Caps: panel.DefaultCapabilities(panelType), Attributes: attrs.Clone()}
	d.mu.Unlock()
	if _, err := d.engine.Apply(ctx, layout.AddPanelsOp{Panels: map[string]layout.Panel{id: p}}); err != nil {
		return "", err
	}
	return id, nil
}

func (d *Dashboard) onDashboard(id string) bool {
	return d.inLayout(d.engine.Layout(), id)
}

func (d *Dashboard) inLayout(l *layout.Layout, id string) bool {
	_, ok := l.Panel(id)
	return ok || l.IsPinned(id)
}
