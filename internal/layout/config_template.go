package layout

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/regenrek/peakydash/internal/atomicfile"
	"github.com/regenrek/peakydash/internal/identity"
)

const defaultGlobalConfigContent = `# peakydash - Global Configuration
# Dashboard templates placed in ./templates/*.yml show up in "peakydash templates".

# editor:
#   undo_limit: 50
#   drag_threshold: 5          # cells the pointer must travel before a drag-select starts
#   selection_modifier: ctrl   # ctrl | alt | shift
#   locale: en                 # sorts breakdown field names

# keymap:
#   copy: ["ctrl+c", "y"]
#   paste: ["ctrl+v", "p"]
#   undo: ["ctrl+z", "u"]
#   select_all: ["ctrl+a"]
#   clear_selection: ["esc"]
#   duplicate: ["ctrl+d"]
#   remove: ["delete", "x"]
#   group: ["ctrl+g"]
#   prettify: ["="]
#   arrange_header: ["1"]
#   arrange_grid: ["2"]
#   arrange_side: ["3"]
#   save: ["ctrl+s"]
#   toggle_edit: ["ctrl+e", "e"]
#   quit: ["q", "ctrl+q"]

# logging:
#   level: info        # debug | info | warn | error
#   format: text       # text | json
#   sink: file         # stderr | file | none
#   file: ~/.cache/peakydash/peakydash.log
#   max_size_mb: 10
#   max_backups: 3
#   max_age_days: 14
#   compress: true
`

// DefaultGlobalConfigContent returns the default global config template text.
func DefaultGlobalConfigContent() string {
	return defaultGlobalConfigContent
}

// EnsureDefaultGlobalConfig creates the default global config and the user
// template directory if the config is missing.
func EnsureDefaultGlobalConfig(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("config path is empty")
	}
	info, err := os.Stat(path)
	if err == nil {
		if info.IsDir() {
			return fmt.Errorf("config path %q is a directory", path)
		}
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config %q: %w", path, err)
	}
	templatesDir := filepath.Join(filepath.Dir(path), identity.TemplatesDir)
	if err := os.MkdirAll(templatesDir, 0o755); err != nil {
		return fmt.Errorf("create templates dir: %w", err)
	}
	if err := atomicfile.Save(path, []byte(defaultGlobalConfigContent), 0o644); err != nil {
		return fmt.Errorf("write config %q: %w", path, err)
	}
	return nil
}
