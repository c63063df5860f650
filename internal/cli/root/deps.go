package root

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/regenrek/peakydash/internal/controller"
	"github.com/regenrek/peakydash/internal/identity"
	"github.com/regenrek/peakydash/internal/layout"
	"github.com/regenrek/peakydash/internal/tui/gridview"
)

// EditorFunc runs the interactive editor until the user quits.
type EditorFunc func(ctx context.Context, ctrl *controller.Controller, opts gridview.Options) error

// Dependencies provides external services for CLI handlers.
type Dependencies struct {
	Version    string
	AppName    string
	Config     *layout.Config
	ConfigPath string

	Stdout io.Writer
	Stderr io.Writer
	Stdin  io.Reader
	Logger *slog.Logger

	RunEditor EditorFunc
	// Clipboard overrides the system clipboard; nil uses the system one.
	Clipboard controller.Clipboard
}

// DefaultDependencies returns dependencies wired to production services.
func DefaultDependencies(version string) Dependencies {
	return Dependencies{
		Version:   version,
		AppName:   identity.CLIName,
		Config:    layout.DefaultConfig(),
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
		Stdin:     os.Stdin,
		RunEditor: gridview.Run,
	}
}

func (d Dependencies) logger() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return slog.Default()
}
