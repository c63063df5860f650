// Package gridview is the terminal editor for a dashboard grid.
package gridview

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/regenrek/peakydash/internal/controller"
	"github.com/regenrek/peakydash/internal/gridwidget"
	"github.com/regenrek/peakydash/internal/layout"
	"github.com/regenrek/peakydash/internal/selection"
	"github.com/regenrek/peakydash/internal/tui/theme"
)

const (
	headerLines = 1
	footerLines = 2
)

type Options struct {
	// SavePath is written on save and, when there are unsaved changes, on quit.
	SavePath string
	// StartInEditMode turns edit mode on at launch.
	StartInEditMode bool
}

// Model renders the dashboard and forwards input to the controller.
type Model struct {
	ctx       context.Context
	ctrl      *controller.Controller
	opts      Options
	width     int
	height    int
	scroll    int
	dirty     bool
	status    string
	statusOK  bool
	help      help.Model
	prompt    textinput.Model
	prompting bool
	headers   []headerHit
	canUndo   bool
	unsubs    []func()
}

type headerHit struct {
	id   string
	rect selection.Rect
}

func New(ctx context.Context, ctrl *controller.Controller, opts Options) *Model {
	ti := textinput.New()
	ti.Placeholder = "Section title"
	ti.CharLimit = 80
	m := &Model{
		ctx:      ctx,
		ctrl:     ctrl,
		opts:     opts,
		help:     help.New(),
		prompt:   ti,
		statusOK: true,
	}
	first := true
	m.unsubs = append(m.unsubs,
		ctrl.Dashboard().Engine().Subscribe(func(*layout.Layout) {
			if first {
				first = false
				return
			}
			m.dirty = true
		}),
		ctrl.Dashboard().History().Subscribe(func(can bool) { m.canUndo = can }),
	)
	if opts.StartInEditMode {
		ctrl.SetEditMode(true)
	}
	return m
}

// Run starts the editor and blocks until it exits.
func Run(ctx context.Context, ctrl *controller.Controller, opts Options) error {
	m := New(ctx, ctrl, opts)
	defer m.Close()
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(*Model); ok && !fm.statusOK {
		return fmt.Errorf("gridview: %s", fm.status)
	}
	return nil
}

// Close releases the layout and undo subscriptions.
func (m *Model) Close() {
	for _, unsub := range m.unsubs {
		unsub()
	}
	m.unsubs = nil
}

func (m *Model) Init() tea.Cmd { return nil }

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.prompt.Width = max(msg.Width-20, 10)
		return m, nil
	case tea.KeyMsg:
		return m.updateKey(msg)
	case tea.MouseMsg:
		m.updateMouse(msg)
		return m, nil
	}
	return m, nil
}

func (m *Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.prompting {
		switch msg.Type {
		case tea.KeyEnter:
			m.prompting = false
			m.prompt.Blur()
			title := strings.TrimSpace(m.prompt.Value())
			m.prompt.SetValue("")
			sectionID, err := m.ctrl.Group(m.ctx, "", title)
			m.report(err, "grouped into "+sectionID)
			return m, nil
		case tea.KeyEsc:
			m.prompting = false
			m.prompt.Blur()
			m.prompt.SetValue("")
			return m, nil
		}
		var cmd tea.Cmd
		m.prompt, cmd = m.prompt.Update(msg)
		return m, cmd
	}

	if m.ctrl.EditMode() && m.ctrl.Keymap().Resolve(msg) == controller.ActionGroup && len(m.ctrl.EffectiveIDs("")) >= 2 {
		m.prompting = true
		return m, m.prompt.Focus()
	}
	if m.ctrl.EditMode() && m.nudge(msg) {
		return m, nil
	}
	switch msg.Type {
	case tea.KeyPgUp:
		m.scroll = max(m.scroll-m.bodyHeight()/2, 0)
		return m, nil
	case tea.KeyPgDown:
		m.scroll += m.bodyHeight() / 2
		return m, nil
	}

	action, err := m.ctrl.HandleKey(m.ctx, msg, controller.FocusGrid)
	switch action {
	case controller.ActionQuit:
		if m.dirty && m.opts.SavePath != "" {
			m.save()
		}
		return m, tea.Quit
	case controller.ActionSave:
		m.save()
	case controller.ActionNone:
	default:
		m.report(err, string(action))
	}
	return m, nil
}

// nudge moves (arrows) or resizes (shift+arrows) the selected panels and hands
// the resulting widget list back as a full layout.
func (m *Model) nudge(msg tea.KeyMsg) bool {
	var dx, dy, dw, dh int
	switch msg.Type {
	case tea.KeyLeft:
		dx = -1
	case tea.KeyRight:
		dx = 1
	case tea.KeyUp:
		dy = -1
	case tea.KeyDown:
		dy = 1
	case tea.KeyShiftLeft:
		dw = -1
	case tea.KeyShiftRight:
		dw = 1
	case tea.KeyShiftUp:
		dh = -1
	case tea.KeyShiftDown:
		dh = 1
	default:
		return false
	}
	sel := m.ctrl.Selected()
	if sel.Empty() {
		return false
	}
	widgets := m.ctrl.Widgets()
	adjust := func(w *gridwidget.Widget) {
		if w.Kind != gridwidget.KindPanel || !sel.Has(w.ID) {
			return
		}
		w.W = min(max(w.W+dw, 1), layout.GridColumns)
		w.H = max(w.H+dh, 1)
		w.X = min(max(w.X+dx, 0), layout.GridColumns-w.W)
		w.Y = max(w.Y+dy, 0)
	}
	for i := range widgets {
		adjust(&widgets[i])
		for j := range widgets[i].Children {
			adjust(&widgets[i].Children[j])
		}
	}
	_, err := m.ctrl.ApplyGridLayout(m.ctx, widgets)
	if err != nil {
		m.report(err, "")
	}
	return true
}

func (m *Model) updateMouse(msg tea.MouseMsg) {
	m.refreshGeometry()
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.scroll = max(m.scroll-1, 0)
		return
	case tea.MouseButtonWheelDown:
		m.scroll++
		return
	}
	if msg.Action == tea.MouseActionRelease {
		if _, dragging := m.ctrl.DragRect(); !dragging {
			p := selection.Point{X: msg.X, Y: msg.Y}
			for _, h := range m.headers {
				if h.rect.Contains(p) {
					m.ctrl.PointerUp(p)
					_, err := m.ctrl.ToggleSection(m.ctx, h.id)
					m.report(err, "")
					return
				}
			}
		}
	}
	m.ctrl.HandleMouse(msg)
}

func (m *Model) save() {
	if m.opts.SavePath == "" {
		m.report(fmt.Errorf("no file to save to"), "")
		return
	}
	if err := m.ctrl.Dashboard().Save(m.opts.SavePath); err != nil {
		m.report(err, "")
		return
	}
	m.dirty = false
	m.report(nil, "saved "+m.opts.SavePath)
}

func (m *Model) report(err error, ok string) {
	if err != nil {
		slog.Warn("gridview: action failed", slog.Any("err", err))
		m.status, m.statusOK = err.Error(), false
		return
	}
	if ok != "" {
		m.status, m.statusOK = ok, true
	}
}

func (m *Model) bodyHeight() int {
	return max(m.height-headerLines-footerLines, 1)
}

func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	body := m.renderGrid()
	return lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(), body, m.renderStatus(), m.renderFooter())
}

func (m *Model) renderHeader() string {
	parts := []string{theme.Title.Render(m.ctrl.Dashboard().Title())}
	if m.ctrl.EditMode() {
		parts = append(parts, theme.EditBadge.Render("EDIT"))
	}
	if n := m.ctrl.Selected().Len(); n > 0 {
		parts = append(parts, theme.StatusMessage.Render(fmt.Sprintf("%d selected", n)))
	}
	if m.dirty {
		parts = append(parts, theme.StatusWarning.Render("modified"))
	}
	if m.canUndo {
		parts = append(parts, theme.StatusMessage.Render("undo available"))
	}
	return lipgloss.NewStyle().MaxWidth(m.width).Render(strings.Join(parts, "  "))
}

func (m *Model) renderStatus() string {
	if m.prompting {
		return "Group title: " + m.prompt.View()
	}
	style := theme.StatusMessage
	if !m.statusOK {
		style = theme.StatusError
	}
	return lipgloss.NewStyle().MaxWidth(m.width).Render(style.Render(m.status))
}

func (m *Model) renderFooter() string {
	return m.help.View(m.ctrl.Keymap())
}
