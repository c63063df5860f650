// Package controller turns pointer and keyboard events into selection changes
// and layout operations on a dashboard.
package controller

import (
	"log/slog"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/language"

	"github.com/regenrek/peakydash/internal/breakdown"
	"github.com/regenrek/peakydash/internal/dashboard"
	"github.com/regenrek/peakydash/internal/layout"
	"github.com/regenrek/peakydash/internal/logging"
	"github.com/regenrek/peakydash/internal/observable"
	"github.com/regenrek/peakydash/internal/panel"
	"github.com/regenrek/peakydash/internal/selection"
)

const tracerName = "github.com/regenrek/peakydash/internal/controller"

// Modifier is the key that turns a press into a drag-select.
type Modifier string

const (
	ModCtrl  Modifier = "ctrl"
	ModAlt   Modifier = "alt"
	ModShift Modifier = "shift"
)

// Focus describes where keyboard input is going.
type Focus uint8

const (
	FocusGrid Focus = iota
	// FocusEditable is a text input or other editable element; shortcuts are ignored.
	FocusEditable
)

// Clipboard receives copied panel IDs.
type Clipboard interface {
	WriteAll(text string) error
}

type systemClipboard struct{}

func (systemClipboard) WriteAll(text string) error { return clipboard.WriteAll(text) }

type Options struct {
	DragThreshold int
	Modifier      Modifier
	Keymap        *Keymap
	Locale        language.Tag
	Clipboard     Clipboard
	Logger        *slog.Logger
	Tracer        trace.Tracer
}

// OptionsFromConfig maps editor config to controller options.
func OptionsFromConfig(cfg *layout.Config) (Options, error) {
	km, err := BuildKeymap(cfg.Keymap)
	if err != nil {
		return Options{}, err
	}
	return Options{
		DragThreshold: cfg.Editor.DragThreshold,
		Modifier:      Modifier(cfg.Editor.SelectionModifier),
		Keymap:        km,
		Locale:        breakdown.ParseLocale(cfg.Editor.Locale),
	}, nil
}

// Controller owns the selection of one dashboard view. It is driven from a
// single event loop and is not safe for concurrent use.
type Controller struct {
	dash      *dashboard.Dashboard
	batch     panel.BatchOps
	selected  *observable.Cell[selection.Set]
	editMode  *observable.Cell[bool]
	tracker   *selection.Tracker
	rendered  map[string]selection.Rect
	suppress  bool
	copied    []string
	modifier  Modifier
	keymap    *Keymap
	locale    language.Tag
	clipboard Clipboard
	logger    *slog.Logger
	throttle  *logging.Throttle
	tracer    trace.Tracer
	unsub     func()
}

func New(dash *dashboard.Dashboard, opts Options) (*Controller, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Keymap == nil {
		km, err := BuildKeymap(layout.KeymapConfig{})
		if err != nil {
			return nil, err
		}
		opts.Keymap = km
	}
	switch Modifier(strings.ToLower(string(opts.Modifier))) {
	case ModCtrl, ModAlt, ModShift:
		opts.Modifier = Modifier(strings.ToLower(string(opts.Modifier)))
	default:
		opts.Modifier = ModCtrl
	}
	if opts.Locale == (language.Tag{}) {
		opts.Locale = language.English
	}
	if opts.Clipboard == nil {
		opts.Clipboard = systemClipboard{}
	}
	if opts.Tracer == nil {
		opts.Tracer = otel.Tracer(tracerName)
	}
	c := &Controller{
		dash:      dash,
		batch:     panel.Batch(dash, opts.Logger),
		selected:  observable.NewCell(selection.Set{}),
		editMode:  observable.NewCell(false),
		tracker:   selection.NewTracker(opts.DragThreshold),
		rendered:  map[string]selection.Rect{},
		modifier:  opts.Modifier,
		keymap:    opts.Keymap,
		locale:    opts.Locale,
		clipboard: opts.Clipboard,
		logger:    opts.Logger,
		throttle:  logging.NewThrottle(250 * time.Millisecond),
		tracer:    opts.Tracer,
	}
	c.unsub = dash.Engine().Subscribe(c.pruneSelection)
	return c, nil
}

// Close detaches the controller from the dashboard.
func (c *Controller) Close() {
	if c.unsub != nil {
		c.unsub()
		c.unsub = nil
	}
}

func (c *Controller) Dashboard() *dashboard.Dashboard { return c.dash }

func (c *Controller) Keymap() *Keymap { return c.keymap }

func (c *Controller) Modifier() Modifier { return c.modifier }

// EditMode reports whether the grid is editable.
func (c *Controller) EditMode() bool { return c.editMode.Get() }

// SetEditMode switches edit mode. Leaving it drops the selection and any
// gesture in progress.
func (c *Controller) SetEditMode(on bool) {
	if c.editMode.Get() == on {
		return
	}
	if !on {
		c.tracker.Cancel()
		c.suppress = false
		c.setSelection(selection.Set{})
	}
	c.editMode.Set(on)
}

func (c *Controller) SubscribeEditMode(fn func(bool)) func() {
	return c.editMode.Subscribe(fn)
}

// Selected returns the persisted selection.
func (c *Controller) Selected() selection.Set { return c.selected.Get() }

// SubscribeSelection observes selection changes; the current set is replayed.
func (c *Controller) SubscribeSelection(fn func(selection.Set)) func() {
	return c.selected.Subscribe(fn)
}

// Preview returns the live drag-select preview, nil outside a drag.
func (c *Controller) Preview() selection.Set { return c.tracker.Preview() }

// DragRect returns the live drag rectangle.
func (c *Controller) DragRect() (selection.Rect, bool) { return c.tracker.Rect() }

func (c *Controller) ToggleSelected(id string) {
	if _, ok := c.dash.Layout().Panel(id); !ok {
		return
	}
	c.setSelection(c.selected.Get().Toggle(id))
}

// SetSelected replaces the selection, ignoring unknown panels.
func (c *Controller) SetSelected(ids ...string) {
	l := c.dash.Layout()
	c.setSelection(selection.NewSet(l.FilterIDs(ids)...))
}

func (c *Controller) SelectAll() {
	c.setSelection(selection.NewSet(c.dash.Layout().PanelIDs()...))
}

func (c *Controller) ClearSelection() {
	if c.selected.Get().Empty() {
		return
	}
	c.setSelection(selection.Set{})
}

// EffectiveIDs is the panel set an action targets: the clicked panel when it
// is not selected, otherwise the whole selection.
func (c *Controller) EffectiveIDs(clickedID string) []string {
	sel := c.selected.Get()
	if clickedID != "" && !sel.Has(clickedID) {
		return []string{clickedID}
	}
	return c.dash.Layout().FilterIDs(sel.IDs())
}

func (c *Controller) setSelection(s selection.Set) {
	if s.Equal(c.selected.Get()) {
		return
	}
	c.selected.Set(s)
}

// pruneSelection drops IDs that left the layout, e.g. after an undo.
func (c *Controller) pruneSelection(l *layout.Layout) {
	sel := c.selected.Get()
	var gone []string
	for id := range sel {
		if _, ok := l.Panel(id); !ok {
			gone = append(gone, id)
		}
	}
	if len(gone) > 0 {
		c.selected.Set(sel.Without(gone...))
	}
}
