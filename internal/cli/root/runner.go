package root

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/regenrek/peakydash/internal/identity"
	"github.com/regenrek/peakydash/internal/userpath"
)

// Runner executes the CLI.
type Runner struct {
	deps Dependencies
	app  *cli.Command
}

// NewRunner builds the CLI runner.
func NewRunner(deps Dependencies, reg *Registry) (*Runner, error) {
	app, err := BuildApp(deps, reg)
	if err != nil {
		return nil, err
	}
	return &Runner{deps: deps, app: app}, nil
}

// Run executes the CLI with the given arguments.
func (r *Runner) Run(ctx context.Context, args []string) error {
	if r == nil || r.app == nil {
		return fmt.Errorf("runner is not initialized")
	}
	r.app.Name = identity.ResolveBinaryName(args)
	return r.app.Run(ctx, args)
}

// ConfigPathFromArgs returns the value of --config if present. The config is
// needed before the command tree runs, so the flag is read ahead of parsing.
func ConfigPathFromArgs(args []string) string {
	for i := 1; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			return ""
		}
		for _, prefix := range []string{"--" + FlagConfig, "-" + FlagConfig} {
			if arg == prefix && i+1 < len(args) {
				return userpath.ExpandUser(args[i+1])
			}
			if v, ok := strings.CutPrefix(arg, prefix+"="); ok {
				return userpath.ExpandUser(v)
			}
		}
	}
	return ""
}
