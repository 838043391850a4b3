package board

import (
	"fmt"
	"strings"

	"taskflow/internal/model"
)

// Lists returns the list names of a board in display order.
func (s *Store) Lists(boardName string) ([]string, error) {
	b, err := s.board(boardName)
	if err != nil {
		return nil, err
	}
	return b.Lists.Keys(), nil
}

func (s *Store) List(boardName, listName string) (*model.List, error) {
	b, err := s.board(boardName)
	if err != nil {
		return nil, err
	}
	l, ok := b.Lists.Get(listName)
	if !ok {
		return nil, errListNotFound(listName)
	}
	return l, nil
}

func (s *Store) CreateList(boardName, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return InvalidNameError{Kind: "list"}
	}
	b, err := s.board(boardName)
	if err != nil {
		return err
	}
	if b.Lists.Has(name) {
		return DuplicateNameError{Kind: "list", Name: name}
	}
	b.Lists.Set(name, &model.List{})
	return nil
}

func (s *Store) DeleteList(boardName, name string, confirmed bool) (bool, error) {
	b, err := s.board(boardName)
	if err != nil {
		return false, err
	}
	if !b.Lists.Has(name) {
		return false, errListNotFound(name)
	}
	if !confirmed {
		return false, nil
	}
	b.Lists.Delete(name)
	return true, nil
}

func (s *Store) RenameList(boardName, oldName, newName string) error {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return InvalidNameError{Kind: "list"}
	}
	b, err := s.board(boardName)
	if err != nil {
		return err
	}
	if !b.Lists.Has(oldName) {
		return errListNotFound(oldName)
	}
	if oldName == newName {
		return nil
	}
	if b.Lists.Has(newName) {
		return DuplicateNameError{Kind: "list", Name: newName}
	}
	if err := b.Lists.Rename(oldName, newName); err != nil {
		return fmt.Errorf("rename list %q: %w", oldName, err)
	}
	return nil
}

// UniqueListName returns base, or base with the first free " (n)" suffix within the board.
func (s *Store) UniqueListName(boardName, base string) string {
	b, err := s.board(boardName)
	if err != nil {
		return base
	}
	return uniqueName(base, b.Lists.Has)
}

// DetachList removes a list from its board and returns it with the position it held. The
// caller owns the list until it is handed back through InsertList.
func (s *Store) DetachList(boardName, name string) (*model.List, int, error) {
	b, err := s.board(boardName)
	if err != nil {
		return nil, -1, err
	}
	l, idx, ok := b.Lists.Delete(name)
	if !ok {
		return nil, -1, errListNotFound(name)
	}
	return l, idx, nil
}

// InsertList places a list at index (0 <= index <= number of lists).
func (s *Store) InsertList(boardName string, index int, name string, l *model.List) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return InvalidNameError{Kind: "list"}
	}
	b, err := s.board(boardName)
	if err != nil {
		return err
	}
	if b.Lists.Has(name) {
		return DuplicateNameError{Kind: "list", Name: name}
	}
	if index < 0 || index > b.Lists.Len() {
		return NotFoundError{Kind: "list position", Name: boardName, Index: index}
	}
	if l == nil {
		l = &model.List{}
	}
	return b.Lists.InsertAt(index, name, l)
}

// MoveList relocates a list to index, measured against the board without the moved list.
func (s *Store) MoveList(boardName, name string, index int) error {
	l, from, err := s.DetachList(boardName, name)
	if err != nil {
		return err
	}
	if err := s.InsertList(boardName, index, name, l); err != nil {
		if rerr := s.InsertList(boardName, from, name, l); rerr != nil {
			return fmt.Errorf("move list %q: %w (restore failed: %v)", name, err, rerr)
		}
		return err
	}
	return nil
}
