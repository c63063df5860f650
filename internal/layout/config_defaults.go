package layout

import (
	"strings"

	"github.com/regenrek/peakydash/internal/undo"
)

const (
	defaultDragThreshold     = 5
	defaultSelectionModifier = "ctrl"
	defaultLocale            = "en"
)

// ApplyDefaults fills in editor defaults.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}
	applyEditorDefaults(&cfg.Editor)
}

func applyEditorDefaults(cfg *EditorConfig) {
	if cfg == nil {
		return
	}
	if cfg.UndoLimit == 0 {
		cfg.UndoLimit = undo.DefaultLimit
	}
	if cfg.DragThreshold == 0 {
		cfg.DragThreshold = defaultDragThreshold
	}
	cfg.SelectionModifier = strings.ToLower(strings.TrimSpace(cfg.SelectionModifier))
	if cfg.SelectionModifier == "" {
		cfg.SelectionModifier = defaultSelectionModifier
	}
	if strings.TrimSpace(cfg.Locale) == "" {
		cfg.Locale = defaultLocale
	}
}
