package logging

import "strings"

type Mode uint8

const (
	ModeCLI Mode = iota + 1
	ModeTUI
)

// ModeFromArgs picks the TUI mode when the interactive editor is launched.
func ModeFromArgs(args []string) Mode {
	for _, arg := range args[min(1, len(args)):] {
		arg = strings.ToLower(strings.TrimSpace(arg))
		if arg == "" || strings.HasPrefix(arg, "-") {
			continue
		}
		if arg == "edit" {
			return ModeTUI
		}
		return ModeCLI
	}
	return ModeCLI
}

func (m Mode) String() string {
	switch m {
	case ModeTUI:
		return "tui"
	default:
		return "cli"
	}
}
