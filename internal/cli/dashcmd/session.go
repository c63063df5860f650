// Package dashcmd implements the commands that read and edit dashboard files.
package dashcmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/regenrek/peakydash/internal/cli/output"
	"github.com/regenrek/peakydash/internal/cli/root"
	"github.com/regenrek/peakydash/internal/controller"
	"github.com/regenrek/peakydash/internal/dashboard"
	"github.com/regenrek/peakydash/internal/identity"
	"github.com/regenrek/peakydash/internal/layout"
	"github.com/regenrek/peakydash/internal/panel"
	"github.com/regenrek/peakydash/internal/userpath"
)

const (
	flagOut    = "out"
	flagDryRun = "dry-run"
)

// writeFlags are shared by every command that edits a file.
func writeFlags(extra ...cli.Flag) []cli.Flag {
	return append([]cli.Flag{
		&cli.StringFlag{Name: flagOut, Aliases: []string{"o"}, Usage: "write the result here instead of in place"},
		&cli.BoolFlag{Name: flagDryRun, Usage: "apply without saving"},
	}, extra...)
}

// session is one dashboard file opened for a command.
type session struct {
	path   string
	dash   *dashboard.Dashboard
	ctrl   *controller.Controller
	logger *slog.Logger
}

func config(ctx root.CommandContext) *layout.Config {
	if ctx.Deps.Config != nil {
		return ctx.Deps.Config
	}
	return layout.DefaultConfig()
}

func open(ctx root.CommandContext, path string) (*session, error) {
	path = userpath.ExpandUser(path)
	cfg := config(ctx)
	logger := ctx.Logger()
	dash, err := dashboard.Load(path, dashboard.Options{UndoLimit: cfg.Editor.UndoLimit, Logger: logger})
	if err != nil {
		return nil, err
	}
	opts, err := controller.OptionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	opts.Logger = logger
	opts.Clipboard = ctx.Deps.Clipboard
	ctrl, err := controller.New(dash, opts)
	if err != nil {
		return nil, err
	}
	return &session{path: path, dash: dash, ctrl: ctrl, logger: logger}, nil
}

func (s *session) close() { s.ctrl.Close() }

// selectIDs makes ids the selection. Every id must be on the dashboard.
func (s *session) selectIDs(ids []string) error {
	l := s.dash.Layout()
	var missing []string
	for _, id := range ids {
		if _, ok := l.Panels[id]; !ok && !l.IsPinned(id) {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", panel.ErrUnknownPanel, strings.Join(missing, ", "))
	}
	s.ctrl.SetSelected(ids...)
	return nil
}

// commit saves the dashboard unless --dry-run is set and fills in res.
func (s *session) commit(ctx root.CommandContext, res *output.ActionResult) error {
	res.File = s.path
	if out := userpath.ExpandUser(ctx.Cmd.String(flagOut)); out != "" {
		res.File = out
	}
	if ctx.Cmd.Bool(flagDryRun) {
		return nil
	}
	if !res.Changed && res.File == s.path {
		return nil
	}
	if err := s.dash.Save(res.File); err != nil {
		return err
	}
	res.Saved = true
	s.logger.Info("dashcmd: saved", slog.String("file", res.File), slog.String("action", res.Action))
	return nil
}

func failures(fs []panel.Failure) []output.FailedPanel {
	if len(fs) == 0 {
		return nil
	}
	out := make([]output.FailedPanel, 0, len(fs))
	for _, f := range fs {
		out = append(out, output.FailedPanel{ID: f.ID, Message: f.Err.Error()})
	}
	return out
}

func emitAction(ctx root.CommandContext, res output.ActionResult) error {
	return ctx.Emit(res, func(w io.Writer) error {
		return writeAction(w, res)
	})
}

func writeAction(w io.Writer, res output.ActionResult) error {
	var b strings.Builder
	switch {
	case !res.Changed:
		fmt.Fprintf(&b, "%s: nothing to change\n", res.Action)
	case len(res.Created) > 0:
		fmt.Fprintf(&b, "%s: created %s\n", res.Action, strings.Join(res.Created, ", "))
	case res.Section != "":
		fmt.Fprintf(&b, "%s: section %s holds %s\n", res.Action, res.Section, strings.Join(res.Affected, ", "))
	default:
		fmt.Fprintf(&b, "%s: %d panel(s) changed\n", res.Action, len(res.Affected))
	}
	for _, f := range res.Failed {
		fmt.Fprintf(&b, "  skipped %s: %s\n", f.ID, f.Message)
	}
	if res.Saved {
		fmt.Fprintf(&b, "saved %s\n", userpath.ShortenUser(res.File))
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// templateDir is where user templates live, next to config.yml.
func templateDir(ctx root.CommandContext) string {
	path := ctx.Deps.ConfigPath
	if path == "" {
		var err error
		if path, err = layout.DefaultConfigPath(); err != nil {
			return ""
		}
	}
	return filepath.Join(filepath.Dir(path), identity.TemplatesDir)
}

func exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}
