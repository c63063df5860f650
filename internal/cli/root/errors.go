package root

import (
	"errors"
	"fmt"

	"github.com/regenrek/peakydash/internal/cli/output"
)

type missingHandlerError string

func (e missingHandlerError) Error() string {
	return fmt.Sprintf("missing CLI handler for %s", string(e))
}

// UsageError reports bad arguments or flags.
type UsageError struct {
	Command string
	Msg     string
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("%s: %s", e.Command, e.Msg)
}

// Usagef builds a UsageError.
func Usagef(command, format string, args ...any) error {
	return &UsageError{Command: command, Msg: fmt.Sprintf(format, args...)}
}

func errorCode(err error) string {
	var usage *UsageError
	if errors.As(err, &usage) {
		return output.CodeInvalidArgs
	}
	return output.ErrorCode(err)
}
