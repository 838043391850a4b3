package board

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrDuplicateName = errors.New("duplicate name")
	ErrInvalidName   = errors.New("invalid name")
)

// NotFoundError reports a missing board, list or card. Index is -1 unless a card position was
// involved.
type NotFoundError struct {
	Kind  string
	Name  string
	Index int
}

func (e NotFoundError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("%s not found: %s[%d]", e.Kind, e.Name, e.Index)
	}
	return fmt.Sprintf("%s not found: %s", e.Kind, e.Name)
}

func (e NotFoundError) Is(target error) bool { return target == ErrNotFound }

type DuplicateNameError struct {
	Kind string
	Name string
}

func (e DuplicateNameError) Error() string {
	return fmt.Sprintf("%s already exists: %s", e.Kind, e.Name)
}

func (e DuplicateNameError) Is(target error) bool { return target == ErrDuplicateName }

type InvalidNameError struct {
	Kind string
}

func (e InvalidNameError) Error() string {
	return fmt.Sprintf("%s name is empty", e.Kind)
}

func (e InvalidNameError) Is(target error) bool { return target == ErrInvalidName }

func errBoardNotFound(name string) error {
	return NotFoundError{Kind: "board", Name: name, Index: -1}
}

func errListNotFound(name string) error {
	return NotFoundError{Kind: "list", Name: name, Index: -1}
}

func errCardNotFound(list string, idx int) error {
	return NotFoundError{Kind: "card", Name: list, Index: idx}
}
