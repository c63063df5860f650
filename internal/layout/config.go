package layout

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/regenrek/peakydash/internal/atomicfile"
	"github.com/regenrek/peakydash/internal/identity"
	"github.com/regenrek/peakydash/internal/logging"
)

// EnvConfigDir overrides the directory holding config.yml.
const EnvConfigDir = "PEAKYDASH_CONFIG_DIR"

// EditorConfig tunes the grid editor.
type EditorConfig struct {
	UndoLimit         int    `yaml:"undo_limit,omitempty"`
	DragThreshold     int    `yaml:"drag_threshold,omitempty"`
	SelectionModifier string `yaml:"selection_modifier,omitempty"` // ctrl | alt | shift
	Locale            string `yaml:"locale,omitempty"`             // BCP 47 tag used to sort field options
}

// KeymapConfig defines editor key bindings. Empty lists fall back to defaults.
type KeymapConfig struct {
	Copy           []string `yaml:"copy,omitempty"`
	Paste          []string `yaml:"paste,omitempty"`
	Undo           []string `yaml:"undo,omitempty"`
	SelectAll      []string `yaml:"select_all,omitempty"`
	ClearSelection []string `yaml:"clear_selection,omitempty"`
	Duplicate      []string `yaml:"duplicate,omitempty"`
	Remove         []string `yaml:"remove,omitempty"`
	Group          []string `yaml:"group,omitempty"`
	ArrangeHeader  []string `yaml:"arrange_header,omitempty"`
	ArrangeGrid    []string `yaml:"arrange_grid,omitempty"`
	ArrangeSide    []string `yaml:"arrange_side,omitempty"`
	Save           []string `yaml:"save,omitempty"`
	Prettify       []string `yaml:"prettify,omitempty"`
	ToggleEdit     []string `yaml:"toggle_edit,omitempty"`
	Quit           []string `yaml:"quit,omitempty"`
}

// Config is the root configuration structure for peakydash.
type Config struct {
	Logging logging.Config `yaml:"logging,omitempty"`
	Editor  EditorConfig   `yaml:"editor,omitempty"`
	Keymap  KeymapConfig   `yaml:"keymap,omitempty"`
}

// LoadConfig reads and parses a YAML config file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %q: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %q: %w", path, err)
	}
	ApplyDefaults(&cfg)
	if err := cfg.Editor.Validate(); err != nil {
		return nil, fmt.Errorf("config %q: %w", path, err)
	}
	return &cfg, nil
}

// LoadConfigOrDefault behaves like LoadConfig but treats a missing file as an
// empty config.
func LoadConfigOrDefault(path string) (*Config, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return DefaultConfig(), nil
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return nil, err
	}
	return cfg, nil
}

// DefaultConfig returns a config with every default applied.
func DefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// SaveConfig writes configuration to a YAML file.
func SaveConfig(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := atomicfile.Save(path, data, 0o644); err != nil {
		return fmt.Errorf("write config %q: %w", path, err)
	}
	return nil
}

// Validate checks enumerated editor settings.
func (c EditorConfig) Validate() error {
	switch strings.ToLower(strings.TrimSpace(c.SelectionModifier)) {
	case "", "ctrl", "alt", "shift":
	default:
		return fmt.Errorf("editor.selection_modifier: invalid %q (expected ctrl, alt or shift)", c.SelectionModifier)
	}
	if c.UndoLimit < 0 {
		return fmt.Errorf("editor.undo_limit: must not be negative (got %d)", c.UndoLimit)
	}
	if c.DragThreshold < 0 {
		return fmt.Errorf("editor.drag_threshold: must not be negative (got %d)", c.DragThreshold)
	}
	return nil
}

// DefaultConfigPath returns the default global config path.
func DefaultConfigPath() (string, error) {
	if dir := strings.TrimSpace(os.Getenv(EnvConfigDir)); dir != "" {
		return filepath.Join(dir, identity.GlobalConfigFile), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", identity.AppSlug, identity.GlobalConfigFile), nil
}
