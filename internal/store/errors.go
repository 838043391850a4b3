package store

import (
	"errors"
	"fmt"
)

var ErrCorrupt = errors.New("corrupt board document")

// ErrOverwriteRefused is returned by Save after a Load that could neither read the stored
// document nor move it aside. Saving then would replace a document that may still be intact.
var ErrOverwriteRefused = errors.New("refusing to overwrite a board document that could not be loaded")

func refuseOverwrite(path string, cause error) error {
	return fmt.Errorf("%w: %s: %v", ErrOverwriteRefused, path, cause)
}

// CorruptError reports a document that could not be loaded. Quarantined is where the bad copy
// was moved, if anywhere.
type CorruptError struct {
	Path        string
	Quarantined string
	Err         error
}

func (e *CorruptError) Error() string {
	if e.Quarantined != "" {
		return fmt.Sprintf("corrupt board document %s (moved to %s): %v", e.Path, e.Quarantined, e.Err)
	}
	return fmt.Sprintf("corrupt board document %s: %v", e.Path, e.Err)
}

func (e *CorruptError) Unwrap() error { return e.Err }

func (e *CorruptError) Is(target error) bool { return target == ErrCorrupt }
