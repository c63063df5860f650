package root

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/regenrek/peakydash/internal/cli/output"
)

const (
	FlagJSON   = "json"
	FlagConfig = "config"
)

// BuildApp constructs the CLI app from the registry.
func BuildApp(deps Dependencies, reg *Registry) (*cli.Command, error) {
	if reg == nil {
		return nil, fmt.Errorf("registry is nil")
	}
	app := &cli.Command{
		Name:      deps.AppName,
		Usage:     "arrange, select and group dashboard panels",
		Writer:    deps.Stdout,
		ErrWriter: deps.Stderr,
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: FlagJSON, Usage: "write a JSON envelope instead of text"},
			&cli.StringFlag{Name: FlagConfig, Usage: "path to config.yml"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Present() {
				return Usagef(cmd.Name, "unknown command %q", cmd.Args().First())
			}
			return cli.ShowAppHelp(cmd)
		},
		// exit codes are returned to the caller so deferred cleanup still runs
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
	}
	for _, def := range reg.Commands() {
		app.Commands = append(app.Commands, buildCommand(def, deps))
	}
	return app, nil
}

func buildCommand(def Command, deps Dependencies) *cli.Command {
	return &cli.Command{
		Name:      def.Name,
		Aliases:   def.Aliases,
		Usage:     def.Usage,
		ArgsUsage: def.ArgsUsage,
		Flags:     def.Flags,
		Action: func(ctx context.Context, cliCmd *cli.Command) error {
			return runHandler(ctx, cliCmd, def, deps)
		},
	}
}

func runHandler(ctx context.Context, cliCmd *cli.Command, def Command, deps Dependencies) error {
	args := []string{}
	if parsed := cliCmd.Args(); parsed != nil {
		args = parsed.Slice()
	}
	commandCtx := CommandContext{
		Context: ctx,
		Args:    args,
		Def:     def,
		Cmd:     cliCmd,
		Deps:    deps,
		JSON:    cliCmd.Bool(FlagJSON),
		Out:     deps.Stdout,
		ErrOut:  deps.Stderr,
		Start:   time.Now(),
	}
	err := validateArgs(def, args)
	if err == nil && commandCtx.JSON && !def.JSON {
		err = Usagef(def.Name, "--json is not supported")
	}
	if err == nil {
		err = def.Handler(commandCtx)
	}
	if err == nil {
		return nil
	}
	if !commandCtx.JSON {
		return err
	}
	meta := output.WithDuration(output.NewMeta(def.ID, deps.Version), commandCtx.Start)
	_ = output.WriteError(commandCtx.Out, meta, errorCode(err), err.Error(), nil)
	return cli.Exit("", 1)
}

func validateArgs(def Command, args []string) error {
	if len(args) < def.MinArgs {
		return Usagef(def.Name, "expected at least %d argument(s), got %d", def.MinArgs, len(args))
	}
	if def.MaxArgs >= 0 && len(args) > def.MaxArgs {
		return Usagef(def.Name, "expected at most %d argument(s), got %d", def.MaxArgs, len(args))
	}
	return nil
}
