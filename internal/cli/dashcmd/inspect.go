package dashcmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/regenrek/peakydash/internal/breakdown"
	"github.com/regenrek/peakydash/internal/cli/root"
	"github.com/regenrek/peakydash/internal/dashboard"
	"github.com/regenrek/peakydash/internal/gridwidget"
	"github.com/regenrek/peakydash/internal/tui/gridview"
	"github.com/regenrek/peakydash/internal/userpath"
)

type validateResult struct {
	File     string   `json:"file"`
	Valid    bool     `json:"valid"`
	Problems []string `json:"problems,omitempty"`
}

func runValidate(ctx root.CommandContext) error {
	file := userpath.ExpandUser(ctx.Args[0])
	doc, err := dashboard.LoadDocument(file)
	if err != nil {
		return err
	}
	res := validateResult{File: file, Valid: true}
	if err := doc.Validate(); err != nil {
		res.Valid = false
		res.Problems = strings.Split(err.Error(), "\n")
	}
	if !res.Valid && !ctx.JSON {
		return fmt.Errorf("%s is invalid:\n  %s", file, strings.Join(res.Problems, "\n  "))
	}
	return ctx.Emit(res, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "%s is valid\n", file)
		return err
	})
}

func runWidgets(ctx root.CommandContext) error {
	s, err := open(ctx, ctx.Args[0])
	if err != nil {
		return err
	}
	defer s.close()
	widgets := s.ctrl.Widgets()
	return ctx.Emit(widgets, func(w io.Writer) error {
		return writeWidgets(w, widgets, "")
	})
}

func writeWidgets(w io.Writer, widgets []gridwidget.Widget, indent string) error {
	for _, wd := range widgets {
		var err error
		switch wd.Kind {
		case gridwidget.KindSection:
			state := ""
			if wd.Collapsed {
				state = " (collapsed)"
			}
			_, err = fmt.Fprintf(w, "%ssection %s %q y=%d%s\n", indent, wd.ID, wd.Title, wd.Y, state)
			if err == nil {
				err = writeWidgets(w, wd.Children, indent+"  ")
			}
		default:
			_, err = fmt.Fprintf(w, "%s%-12s %-10s x=%-2d y=%-3d %dx%d\n", indent, wd.ID, wd.Type, wd.X, wd.Y, wd.W, wd.H)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func runFields(ctx root.CommandContext) error {
	s, err := open(ctx, ctx.Args[0])
	if err != nil {
		return err
	}
	defer s.close()
	id := ctx.Args[1]
	if err := s.selectIDs([]string{id}); err != nil {
		return err
	}
	opts := s.ctrl.BreakdownFieldOptions(ctx.Context, id)
	if opts == nil {
		opts = []breakdown.Option{}
	}
	return ctx.Emit(opts, func(w io.Writer) error {
		if len(opts) == 0 {
			_, err := fmt.Fprintf(w, "%s has no breakdown fields\n", id)
			return err
		}
		for _, o := range opts {
			if _, err := fmt.Fprintf(w, "%-24s %s\n", o.Value, o.Label); err != nil {
				return err
			}
		}
		return nil
	})
}

func runTemplates(ctx root.CommandContext) error {
	infos, err := dashboard.Templates(templateDir(ctx))
	if err != nil {
		return err
	}
	return ctx.Emit(infos, func(w io.Writer) error {
		for _, info := range infos {
			if _, err := fmt.Fprintf(w, "%-16s %-8s %s\n", info.Name, info.Source, info.Title); err != nil {
				return err
			}
		}
		return nil
	})
}

type newResult struct {
	File     string `json:"file"`
	Template string `json:"template"`
	Title    string `json:"title"`
}

func runNew(ctx root.CommandContext) error {
	file := userpath.ExpandUser(ctx.Args[0])
	found, err := exists(file)
	if err != nil {
		return err
	}
	if found && !ctx.Cmd.Bool("force") {
		return fmt.Errorf("%s already exists (use --force to overwrite)", file)
	}
	name := ctx.Cmd.String("template")
	doc, err := dashboard.LoadTemplate(name, templateDir(ctx))
	if err != nil {
		return err
	}
	if title := strings.TrimSpace(ctx.Cmd.String("title")); title != "" {
		doc.Title = title
	}
	if err := doc.Validate(); err != nil {
		return fmt.Errorf("template %s: %w", name, err)
	}
	if err := dashboard.SaveDocument(file, doc); err != nil {
		return err
	}
	res := newResult{File: file, Template: name, Title: doc.Title}
	return ctx.Emit(res, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "created %s from template %s\n", file, name)
		return err
	})
}

var errNoEditor = errors.New("no terminal editor configured")

func runEdit(ctx root.CommandContext) error {
	file := userpath.ExpandUser(ctx.Args[0])
	found, err := exists(file)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%s does not exist (create it with new)", file)
	}
	if ctx.Deps.RunEditor == nil {
		return errNoEditor
	}
	s, err := open(ctx, file)
	if err != nil {
		return err
	}
	defer s.close()
	return ctx.Deps.RunEditor(ctx.Context, s.ctrl, gridview.Options{
		SavePath:        file,
		StartInEditMode: ctx.Cmd.Bool("edit-mode"),
	})
}
