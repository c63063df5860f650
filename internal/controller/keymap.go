package controller

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/regenrek/peakydash/internal/layout"
)

// Action is a keyboard command resolved from the keymap.
type Action string

const (
	ActionNone           Action = ""
	ActionCopy           Action = "copy"
	ActionPaste          Action = "paste"
	ActionUndo           Action = "undo"
	ActionSelectAll      Action = "select_all"
	ActionClearSelection Action = "clear_selection"
	ActionDuplicate      Action = "duplicate"
	ActionRemove         Action = "remove"
	ActionGroup          Action = "group"
	ActionPrettify       Action = "prettify"
	ActionArrangeHeader  Action = "arrange_header"
	ActionArrangeGrid    Action = "arrange_grid"
	ActionArrangeSide    Action = "arrange_side"
	ActionSave           Action = "save"
	ActionToggleEdit     Action = "toggle_edit"
	ActionQuit           Action = "quit"
)

// Keymap holds the editor bindings in resolution order.
type Keymap struct {
	bindings []actionBinding
}

type actionBinding struct {
	action  Action
	binding key.Binding
}

type keymapAction struct {
	action   Action
	desc     string
	defaults []string
	override []string
}

// BuildKeymap resolves configured keys over the defaults. A key may be bound
// to one action only.
func BuildKeymap(cfg layout.KeymapConfig) (*Keymap, error) {
	actions := []keymapAction{
		{ActionCopy, "copy", []string{"ctrl+c", "y"}, cfg.Copy},
		{ActionPaste, "paste", []string{"ctrl+v", "p"}, cfg.Paste},
		{ActionUndo, "undo", []string{"ctrl+z", "u"}, cfg.Undo},
		{ActionSelectAll, "select all", []string{"ctrl+a"}, cfg.SelectAll},
		{ActionClearSelection, "clear", []string{"esc"}, cfg.ClearSelection},
		{ActionDuplicate, "duplicate", []string{"ctrl+d"}, cfg.Duplicate},
		{ActionRemove, "remove", []string{"delete", "x"}, cfg.Remove},
		{ActionGroup, "group", []string{"ctrl+g"}, cfg.Group},
		{ActionPrettify, "prettify", []string{"="}, cfg.Prettify},
		{ActionArrangeHeader, "header", []string{"1"}, cfg.ArrangeHeader},
		{ActionArrangeGrid, "grid", []string{"2"}, cfg.ArrangeGrid},
		{ActionArrangeSide, "side", []string{"3"}, cfg.ArrangeSide},
		{ActionSave, "save", []string{"ctrl+s"}, cfg.Save},
		{ActionToggleEdit, "edit mode", []string{"ctrl+e", "e"}, cfg.ToggleEdit},
		{ActionQuit, "quit", []string{"q", "ctrl+q"}, cfg.Quit},
	}
	km := &Keymap{bindings: make([]actionBinding, 0, len(actions))}
	used := make(map[string]Action)
	for _, a := range actions {
		keys, err := resolveKeyList(string(a.action), a.override, a.defaults)
		if err != nil {
			return nil, err
		}
		for _, k := range keys {
			if prev, ok := used[k]; ok {
				return nil, fmt.Errorf("keymap.%s: key %q already bound to keymap.%s", a.action, k, prev)
			}
			used[k] = a.action
		}
		km.bindings = append(km.bindings, actionBinding{
			action:  a.action,
			binding: key.NewBinding(key.WithKeys(keys...), key.WithHelp(strings.Join(keys, "/"), a.desc)),
		})
	}
	return km, nil
}

// Resolve maps a key press to its action.
func (km *Keymap) Resolve(msg tea.KeyMsg) Action {
	if km == nil {
		return ActionNone
	}
	for _, b := range km.bindings {
		if key.Matches(msg, b.binding) {
			return b.action
		}
	}
	return ActionNone
}

// Binding returns the binding of an action.
func (km *Keymap) Binding(action Action) key.Binding {
	for _, b := range km.bindings {
		if b.action == action {
			return b.binding
		}
	}
	return key.Binding{}
}

// ShortHelp lists the bindings shown in the footer.
func (km *Keymap) ShortHelp() []key.Binding {
	return []key.Binding{
		km.Binding(ActionToggleEdit),
		km.Binding(ActionUndo),
		km.Binding(ActionPrettify),
		km.Binding(ActionQuit),
	}
}

// FullHelp lists every binding grouped by purpose.
func (km *Keymap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{km.Binding(ActionSelectAll), km.Binding(ActionClearSelection), km.Binding(ActionCopy), km.Binding(ActionPaste)},
		{km.Binding(ActionDuplicate), km.Binding(ActionRemove), km.Binding(ActionGroup), km.Binding(ActionPrettify)},
		{km.Binding(ActionArrangeHeader), km.Binding(ActionArrangeGrid), km.Binding(ActionArrangeSide)},
		{km.Binding(ActionUndo), km.Binding(ActionSave), km.Binding(ActionToggleEdit), km.Binding(ActionQuit)},
	}
}

func resolveKeyList(field string, override, defaults []string) ([]string, error) {
	keys := override
	if len(keys) == 0 {
		keys = defaults
	}
	seen := make(map[string]struct{}, len(keys))
	out := make([]string, 0, len(keys))
	for _, raw := range keys {
		normalized, err := normalizeKey(raw)
		if err != nil {
			return nil, fmt.Errorf("keymap.%s: %w", field, err)
		}
		if _, ok := seen[normalized]; ok {
			continue
		}
		seen[normalized] = struct{}{}
		out = append(out, normalized)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("keymap.%s: no keys configured", field)
	}
	return out, nil
}

// normalizeKey canonicalizes a key to the string bubbletea reports for it.
// Single characters keep their case since the terminal reports "P", not "shift+p".
func normalizeKey(raw string) (string, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return "", fmt.Errorf("invalid key %q (empty)", raw)
	}
	if utf8.RuneCountInString(value) == 1 {
		return value, nil
	}
	parts := strings.Split(value, "+")
	base := strings.ToLower(strings.TrimSpace(parts[len(parts)-1]))
	if base == "" {
		return "", fmt.Errorf("invalid key %q (missing base key)", raw)
	}
	var mods []string
	for _, m := range parts[:len(parts)-1] {
		switch strings.ToLower(strings.TrimSpace(m)) {
		case "ctrl", "control":
			mods = append(mods, "ctrl")
		case "alt", "option":
			mods = append(mods, "alt")
		case "shift":
			mods = append(mods, "shift")
		default:
			return "", invalidKeyError(raw)
		}
	}
	if base == "space" {
		base = " "
	}
	if utf8.RuneCountInString(base) != 1 {
		if _, ok := namedKeys[base]; !ok {
			return "", invalidKeyError(raw)
		}
	}
	return strings.Join(append(mods, base), "+"), nil
}

func invalidKeyError(raw string) error {
	return fmt.Errorf("invalid key %q (use a character like \"y\", combos like \"ctrl+z\", or named keys like \"esc\", \"delete\", \"enter\")", raw)
}

var namedKeys = map[string]struct{}{
	"tab": {}, "enter": {}, "esc": {}, "backspace": {}, "delete": {}, "insert": {},
	"home": {}, "end": {}, "pgup": {}, "pgdown": {},
	"up": {}, "down": {}, "left": {}, "right": {},
	"f1": {}, "f2": {}, "f3": {}, "f4": {}, "f5": {}, "f6": {},
	"f7": {}, "f8": {}, "f9": {}, "f10": {}, "f11": {}, "f12": {},
}
