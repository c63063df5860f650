package logging

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

type Sink string

const (
	SinkStderr Sink = "stderr"
	SinkFile   Sink = "file"
	SinkNone   Sink = "none"
)

const (
	EnvLogLevel      = "PEAKYDASH_LOG_LEVEL"
	EnvLogFormat     = "PEAKYDASH_LOG_FORMAT"
	EnvLogSink       = "PEAKYDASH_LOG_SINK"
	EnvLogFile       = "PEAKYDASH_LOG_FILE"
	EnvLogAddSource  = "PEAKYDASH_LOG_ADD_SOURCE"
	EnvLogMaxSizeMB  = "PEAKYDASH_LOG_MAX_SIZE_MB"
	EnvLogMaxBackups = "PEAKYDASH_LOG_MAX_BACKUPS"
	EnvLogMaxAgeDays = "PEAKYDASH_LOG_MAX_AGE_DAYS"
	EnvLogCompress   = "PEAKYDASH_LOG_COMPRESS"
)

// Config is the `logging` block of config.yml. Zero values mean "use the
// default for the current mode".
type Config struct {
	Level     string `yaml:"level,omitempty"`
	Format    string `yaml:"format,omitempty"`
	Sink      string `yaml:"sink,omitempty"`
	File      string `yaml:"file,omitempty"`
	AddSource bool   `yaml:"add_source,omitempty"`

	MaxSizeMB  int   `yaml:"max_size_mb,omitempty"`
	MaxBackups int   `yaml:"max_backups,omitempty"`
	MaxAgeDays int   `yaml:"max_age_days,omitempty"`
	Compress   *bool `yaml:"compress,omitempty"`
}

// Rotation mirrors the lumberjack knobs used by the file sink.
type Rotation struct {
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// Settings is a fully resolved logging setup.
type Settings struct {
	Level     slog.Level
	Format    Format
	Sink      Sink
	File      string
	AddSource bool
	Rotation  Rotation
}

// Defaults returns the settings used when nothing is configured. The editor
// owns the screen, so it logs JSON to a file instead of stderr.
func Defaults(mode Mode) Settings {
	s := Settings{
		Level:    slog.LevelWarn,
		Format:   FormatText,
		Sink:     SinkStderr,
		Rotation: Rotation{MaxSizeMB: 10, MaxBackups: 3, MaxAgeDays: 14, Compress: true},
	}
	if mode == ModeTUI {
		s.Level = slog.LevelInfo
		s.Format = FormatJSON
		s.Sink = SinkFile
	}
	return s
}

type envOverride struct {
	name  string
	apply func(cfg *Config, raw string)
}

var envOverrides = []envOverride{
	{EnvLogLevel, func(c *Config, v string) { c.Level = v }},
	{EnvLogFormat, func(c *Config, v string) { c.Format = v }},
	{EnvLogSink, func(c *Config, v string) { c.Sink = v }},
	{EnvLogFile, func(c *Config, v string) { c.File = v }},
	{EnvLogAddSource, func(c *Config, v string) { c.AddSource = !isDisabledString(v) }},
	{EnvLogMaxSizeMB, func(c *Config, v string) { setInt(&c.MaxSizeMB, v) }},
	{EnvLogMaxBackups, func(c *Config, v string) { setInt(&c.MaxBackups, v) }},
	{EnvLogMaxAgeDays, func(c *Config, v string) { setInt(&c.MaxAgeDays, v) }},
	{EnvLogCompress, func(c *Config, v string) {
		on := !isDisabledString(v)
		c.Compress = &on
	}},
}

// WithEnv returns a copy of c with PEAKYDASH_LOG_* variables applied.
// Unparseable numbers are ignored.
func (c Config) WithEnv() Config {
	for _, o := range envOverrides {
		if raw := strings.TrimSpace(os.Getenv(o.name)); raw != "" {
			o.apply(&c, raw)
		}
	}
	return c
}

// Resolve layers c over the defaults for mode and validates the result.
func (c Config) Resolve(mode Mode) (Settings, error) {
	s := Defaults(mode)
	if v := normalize(c.Level); v != "" {
		level, err := parseLevel(v)
		if err != nil {
			return Settings{}, err
		}
		s.Level = level
	}
	if v := normalize(c.Format); v != "" {
		switch Format(v) {
		case FormatText, FormatJSON:
			s.Format = Format(v)
		default:
			return Settings{}, fmt.Errorf("logging.format: invalid %q", c.Format)
		}
	}
	if v := normalize(c.Sink); v != "" {
		switch Sink(v) {
		case SinkStderr, SinkFile, SinkNone:
			s.Sink = Sink(v)
		default:
			return Settings{}, fmt.Errorf("logging.sink: invalid %q", c.Sink)
		}
	}
	s.File = strings.TrimSpace(c.File)
	s.AddSource = c.AddSource
	if c.MaxSizeMB != 0 {
		s.Rotation.MaxSizeMB = max(c.MaxSizeMB, 0)
	}
	if c.MaxBackups != 0 {
		s.Rotation.MaxBackups = max(c.MaxBackups, 0)
	}
	if c.MaxAgeDays != 0 {
		s.Rotation.MaxAgeDays = max(c.MaxAgeDays, 0)
	}
	if c.Compress != nil {
		s.Rotation.Compress = *c.Compress
	}
	return s, nil
}

func parseLevel(v string) (slog.Level, error) {
	switch v {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("logging.level: invalid %q", v)
	}
}

func normalize(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

func setInt(dst *int, raw string) {
	if n, err := strconv.Atoi(raw); err == nil {
		*dst = n
	}
}

func isDisabledString(value string) bool {
	switch normalize(value) {
	case "0", "false", "no", "off":
		return true
	default:
		return false
	}
}
