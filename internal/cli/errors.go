package cli

import (
	"errors"
	"fmt"

	"taskflow/internal/board"
	"taskflow/internal/store"
)

var errNoBoard = errors.New("no current board; create one with `taskflow boards create <name>` or pass --board")

type confirmRequiredError struct {
	action string
}

func (e confirmRequiredError) Error() string {
	return fmt.Sprintf("refusing to %s without --yes", e.action)
}

func errNeedsYes(format string, args ...any) error {
	return confirmRequiredError{action: fmt.Sprintf(format, args...)}
}

// describe turns store errors into one-line messages for stderr.
func describe(err error) string {
	var dup board.DuplicateNameError
	var corrupt *store.CorruptError
	switch {
	case errors.As(err, &dup):
		return fmt.Sprintf("a %s named %q already exists", dup.Kind, dup.Name)
	case errors.As(err, &corrupt):
		if corrupt.Quarantined != "" {
			return fmt.Sprintf("board document %s was unreadable and has been moved to %s", corrupt.Path, corrupt.Quarantined)
		}
		return err.Error()
	default:
		return err.Error()
	}
}

func errBadIndex(s string) error {
	return fmt.Errorf("invalid index %q: want a whole number", s)
}
