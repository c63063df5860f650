package root

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/regenrek/peakydash/internal/cli/output"
)

// CommandContext wraps a command invocation.
type CommandContext struct {
	Context context.Context
	Args    []string
	Def     Command
	Cmd     *cli.Command
	Deps    Dependencies
	JSON    bool
	Out     io.Writer
	ErrOut  io.Writer
	Start   time.Time
}

// Logger returns the logger handlers should use.
func (c CommandContext) Logger() *slog.Logger {
	return c.Deps.logger().With(slog.String("command", c.Def.ID))
}

// Emit writes data as a JSON success envelope with --json, otherwise through text.
func (c CommandContext) Emit(data any, text func(w io.Writer) error) error {
	if c.JSON {
		meta := output.WithDuration(output.NewMeta(c.Def.ID, c.Deps.Version), c.Start)
		return output.WriteSuccess(c.Out, meta, data)
	}
	if text == nil {
		return nil
	}
	return text(c.Out)
}
