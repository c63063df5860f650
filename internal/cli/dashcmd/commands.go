package dashcmd

import (
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/regenrek/peakydash/internal/cli/output"
	"github.com/regenrek/peakydash/internal/cli/root"
	"github.com/regenrek/peakydash/internal/layout"
)

// Register adds the dashboard commands to reg.
func Register(reg *root.Registry) error {
	commands := []root.Command{
		{
			ID: "arrange", Usage: "reflow panels into header, grid or side mode",
			ArgsUsage: "FILE MODE ID...", MinArgs: 3, MaxArgs: -1, JSON: true,
			Flags: writeFlags(), Handler: runArrange,
		},
		{
			ID: "prettify", Usage: "tidy every section into rows",
			ArgsUsage: "FILE", MinArgs: 1, MaxArgs: 1, JSON: true,
			Flags: writeFlags(), Handler: runPrettify,
		},
		{
			ID: "group", Usage: "move panels into a new section",
			ArgsUsage: "FILE ID ID...", MinArgs: 3, MaxArgs: -1, JSON: true,
			Flags:   writeFlags(&cli.StringFlag{Name: "title", Usage: "section title"}),
			Handler: runGroup,
		},
		{
			ID: "duplicate", Usage: "copy panels below their section",
			ArgsUsage: "FILE ID...", MinArgs: 2, MaxArgs: -1, JSON: true,
			Flags: writeFlags(), Handler: runDuplicate,
		},
		{
			ID: "remove", Aliases: []string{"rm"}, Usage: "delete panels",
			ArgsUsage: "FILE ID...", MinArgs: 2, MaxArgs: -1, JSON: true,
			Flags: writeFlags(), Handler: runRemove,
		},
		{
			ID: "share-colors", Usage: "copy one panel's color mapping to others",
			ArgsUsage: "FILE SOURCE TARGET...", MinArgs: 3, MaxArgs: -1, JSON: true,
			Flags: writeFlags(), Handler: runShareColors,
		},
		{
			ID: "breakdown", Usage: "set the breakdown field of panels",
			ArgsUsage: "FILE FIELD ID...", MinArgs: 3, MaxArgs: -1, JSON: true,
			Flags: writeFlags(), Handler: runBreakdown,
		},
		{
			ID: "fields", Usage: "list breakdown fields available to a panel",
			ArgsUsage: "FILE ID", MinArgs: 2, MaxArgs: 2, JSON: true,
			Handler: runFields,
		},
		{
			ID: "validate", Usage: "check a dashboard file",
			ArgsUsage: "FILE", MinArgs: 1, MaxArgs: 1, JSON: true,
			Handler: runValidate,
		},
		{
			ID: "widgets", Usage: "print the grid as the renderer sees it",
			ArgsUsage: "FILE", MinArgs: 1, MaxArgs: 1, JSON: true,
			Handler: runWidgets,
		},
		{
			ID: "templates", Usage: "list dashboard templates",
			MaxArgs: 0, JSON: true, Handler: runTemplates,
		},
		{
			ID: "new", Usage: "create a dashboard file from a template",
			ArgsUsage: "FILE", MinArgs: 1, MaxArgs: 1, JSON: true,
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "template", Aliases: []string{"t"}, Value: "blank", Usage: "template name"},
				&cli.StringFlag{Name: "title", Usage: "dashboard title"},
				&cli.BoolFlag{Name: "force", Usage: "overwrite an existing file"},
			},
			Handler: runNew,
		},
		{
			ID: "edit", Usage: "open a dashboard in the terminal editor",
			ArgsUsage: "FILE", MinArgs: 1, MaxArgs: 1,
			Flags: []cli.Flag{
				&cli.BoolFlag{Name: "edit-mode", Usage: "start with edit mode on"},
			},
			Handler: runEdit,
		},
	}
	for _, cmd := range commands {
		if err := reg.Register(cmd); err != nil {
			return fmt.Errorf("register %s: %w", cmd.ID, err)
		}
	}
	return nil
}

func runArrange(ctx root.CommandContext) error {
	file, modeArg, ids := ctx.Args[0], ctx.Args[1], ctx.Args[2:]
	mode, err := layout.ParseBulkMode(modeArg)
	if err != nil {
		return root.Usagef(ctx.Def.Name, "%v", err)
	}
	s, err := open(ctx, file)
	if err != nil {
		return err
	}
	defer s.close()
	if err := s.selectIDs(ids); err != nil {
		return err
	}
	applied, err := s.ctrl.ArrangeSelected(ctx.Context, mode)
	if err != nil {
		return err
	}
	res := output.ActionResult{Action: "arrange", Changed: applied.Changed, Affected: applied.Affected}
	if err := s.commit(ctx, &res); err != nil {
		return err
	}
	return emitAction(ctx, res)
}

func runPrettify(ctx root.CommandContext) error {
	s, err := open(ctx, ctx.Args[0])
	if err != nil {
		return err
	}
	defer s.close()
	applied, err := s.ctrl.Prettify(ctx.Context)
	if err != nil {
		return err
	}
	res := output.ActionResult{Action: "prettify", Changed: applied.Changed, Affected: applied.Affected}
	if err := s.commit(ctx, &res); err != nil {
		return err
	}
	return emitAction(ctx, res)
}

func runGroup(ctx root.CommandContext) error {
	s, err := open(ctx, ctx.Args[0])
	if err != nil {
		return err
	}
	defer s.close()
	ids := ctx.Args[1:]
	if err := s.selectIDs(ids); err != nil {
		return err
	}
	sectionID, err := s.ctrl.Group(ctx.Context, "", ctx.Cmd.String("title"))
	if err != nil {
		return err
	}
	res := output.ActionResult{Action: "group", Changed: true, Section: sectionID, Affected: ids}
	if err := s.commit(ctx, &res); err != nil {
		return err
	}
	return emitAction(ctx, res)
}

func runDuplicate(ctx root.CommandContext) error {
	s, err := open(ctx, ctx.Args[0])
	if err != nil {
		return err
	}
	defer s.close()
	if err := s.selectIDs(ctx.Args[1:]); err != nil {
		return err
	}
	result, err := s.ctrl.Duplicate(ctx.Context, "")
	if err != nil {
		return err
	}
	res := output.ActionResult{
		Action:  "duplicate",
		Changed: len(result.Created) > 0,
		Created: result.Created,
		Failed:  failures(result.Failed),
	}
	if err := s.commit(ctx, &res); err != nil {
		return err
	}
	return emitAction(ctx, res)
}

func runRemove(ctx root.CommandContext) error {
	s, err := open(ctx, ctx.Args[0])
	if err != nil {
		return err
	}
	defer s.close()
	ids := ctx.Args[1:]
	if err := s.selectIDs(ids); err != nil {
		return err
	}
	result, err := s.ctrl.Remove(ctx.Context, "")
	if err != nil {
		return err
	}
	res := output.ActionResult{Action: "remove", Changed: true, Affected: ids, Failed: failures(result.Failed)}
	if err := s.commit(ctx, &res); err != nil {
		return err
	}
	return emitAction(ctx, res)
}

func runShareColors(ctx root.CommandContext) error {
	s, err := open(ctx, ctx.Args[0])
	if err != nil {
		return err
	}
	defer s.close()
	source, targets := ctx.Args[1], ctx.Args[2:]
	if err := s.selectIDs(append([]string{source}, targets...)); err != nil {
		return err
	}
	updated, err := s.ctrl.ShareColorMapping(ctx.Context, source)
	if err != nil {
		return err
	}
	res := output.ActionResult{Action: "share-colors", Changed: len(updated) > 0, Affected: updated}
	if err := s.commit(ctx, &res); err != nil {
		return err
	}
	return emitAction(ctx, res)
}

func runBreakdown(ctx root.CommandContext) error {
	s, err := open(ctx, ctx.Args[0])
	if err != nil {
		return err
	}
	defer s.close()
	field, ids := ctx.Args[1], ctx.Args[2:]
	if err := s.selectIDs(ids); err != nil {
		return err
	}
	updated := s.ctrl.SetBreakdownField(ctx.Context, "", field)
	res := output.ActionResult{Action: "breakdown", Changed: len(updated) > 0, Affected: updated}
	if err := s.commit(ctx, &res); err != nil {
		return err
	}
	return emitAction(ctx, res)
}
