package version

import (
	"fmt"
	"io"

	"github.com/regenrek/peakydash/internal/cli/root"
)

type info struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Register registers the version command.
func Register(reg *root.Registry) error {
	return reg.Register(root.Command{
		ID:      "version",
		Usage:   "print the version",
		JSON:    true,
		Handler: runVersion,
	})
}

func runVersion(ctx root.CommandContext) error {
	v := info{Name: ctx.Deps.AppName, Version: ctx.Deps.Version}
	return ctx.Emit(v, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "%s %s\n", v.Name, v.Version)
		return err
	})
}
