package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/regenrek/peakydash/internal/identity"
	"github.com/regenrek/peakydash/internal/userpath"
)

type InitOptions struct {
	App     string
	Version string
	Mode    Mode
}

// Init installs the process-wide slog logger and returns a closer for the sink.
func Init(cfg Config, opts InitOptions) (func() error, error) {
	if opts.App == "" {
		opts.App = identity.AppSlug
	}
	if opts.Mode == 0 {
		opts.Mode = ModeCLI
	}
	settings, err := cfg.WithEnv().Resolve(opts.Mode)
	if err != nil {
		return nil, err
	}
	logger, closeFn, err := NewLogger(settings, opts)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)
	return closeFn, nil
}

// NewLogger builds a logger without touching the slog default.
func NewLogger(s Settings, opts InitOptions) (*slog.Logger, func() error, error) {
	w, closeFn, err := openSink(s)
	if err != nil {
		return nil, nil, err
	}
	handlerOpts := &slog.HandlerOptions{Level: s.Level, AddSource: s.AddSource}
	var handler slog.Handler
	if s.Format == FormatJSON {
		handler = slog.NewJSONHandler(w, handlerOpts)
	} else {
		handler = slog.NewTextHandler(w, handlerOpts)
	}
	logger := slog.New(handler).With(
		slog.String("app", opts.App),
		slog.String("version", opts.Version),
		slog.String("mode", opts.Mode.String()),
	)
	return logger, closeFn, nil
}

// DefaultLogPath is the rotated file used by the file sink when no path is set.
func DefaultLogPath() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("logging: resolve cache dir: %w", err)
	}
	return filepath.Join(dir, identity.AppSlug, identity.LogFileName), nil
}

func nopClose() error { return nil }

func openSink(s Settings) (io.Writer, func() error, error) {
	switch s.Sink {
	case SinkNone:
		return io.Discard, nopClose, nil
	case SinkStderr, "":
		return os.Stderr, nopClose, nil
	case SinkFile:
		path := userpath.ExpandUser(s.File)
		if path == "" {
			p, err := DefaultLogPath()
			if err != nil {
				return nil, nil, err
			}
			path = p
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, nil, fmt.Errorf("logging: create log dir: %w", err)
		}
		rot := &lumberjack.Logger{
			Filename:   path,
			MaxSize:    s.Rotation.MaxSizeMB,
			MaxBackups: s.Rotation.MaxBackups,
			MaxAge:     s.Rotation.MaxAgeDays,
			Compress:   s.Rotation.Compress,
		}
		return rot, rot.Close, nil
	default:
		return nil, nil, fmt.Errorf("logging: unknown sink %q", s.Sink)
	}
}
