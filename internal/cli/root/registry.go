package root

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"
)

// Handler executes a command.
type Handler func(ctx CommandContext) error

// Command describes one leaf command.
type Command struct {
	ID        string
	Name      string
	Aliases   []string
	Usage     string
	ArgsUsage string
	// MinArgs and MaxArgs bound the positional arguments; MaxArgs < 0 is unbounded.
	MinArgs int
	MaxArgs int
	// JSON marks commands that support --json.
	JSON    bool
	Flags   []cli.Flag
	Handler Handler
}

// Registry holds commands in registration order.
type Registry struct {
	commands []Command
	byID     map[string]int
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]int)}
}

// Register adds a command. IDs must be unique and every command needs a handler.
func (r *Registry) Register(cmd Command) error {
	if r == nil {
		return fmt.Errorf("registry is nil")
	}
	cmd.ID = strings.TrimSpace(cmd.ID)
	if cmd.ID == "" {
		return fmt.Errorf("command id is required")
	}
	if cmd.Handler == nil {
		return missingHandlerError(cmd.ID)
	}
	if _, exists := r.byID[cmd.ID]; exists {
		return fmt.Errorf("command %q registered twice", cmd.ID)
	}
	if cmd.Name == "" {
		cmd.Name = cmd.ID
	}
	r.byID[cmd.ID] = len(r.commands)
	r.commands = append(r.commands, cmd)
	return nil
}

// Lookup returns the command registered under id.
func (r *Registry) Lookup(id string) (Command, bool) {
	if r == nil {
		return Command{}, false
	}
	i, ok := r.byID[id]
	if !ok {
		return Command{}, false
	}
	return r.commands[i], true
}

// Commands returns the registered commands in order.
func (r *Registry) Commands() []Command {
	if r == nil {
		return nil
	}
	return append([]Command(nil), r.commands...)
}
