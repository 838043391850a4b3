// Package board is the in-memory board store: boards hold ordered lists, lists hold ordered
// cards. It is the single source of truth for rendering; persistence mirrors it.
//
// The store is not safe for concurrent use. Every caller runs on the UI event goroutine or a
// single CLI command.
package board

import (
	"fmt"
	"strings"
	"time"

	"taskflow/internal/model"
	"taskflow/internal/ordered"
)

type Store struct {
	boards  *ordered.Map[*model.Board]
	current string

	now func() time.Time
}

func New() *Store {
	return &Store{boards: ordered.New[*model.Board]()}
}

// NewFrom builds a store from decoded boards. A current name that does not exist is repaired
// to the first board (or none).
func NewFrom(boards *ordered.Map[*model.Board], current string) *Store {
	if boards == nil {
		boards = ordered.New[*model.Board]()
	}
	s := &Store{boards: boards, current: current}
	s.settleCurrent()
	return s
}

// SetClock overrides the time source used for card creation timestamps.
func (s *Store) SetClock(now func() time.Time) {
	s.now = now
}

func (s *Store) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}

// settleCurrent restores the invariant: current is empty iff there are no boards, and
// otherwise names an existing board.
func (s *Store) settleCurrent() {
	if s.current != "" && s.boards.Has(s.current) {
		return
	}
	s.current = ""
	if name, _, ok := s.boards.At(0); ok {
		s.current = name
	}
}

func (s *Store) Boards() []string {
	return s.boards.Keys()
}

func (s *Store) Len() int {
	return s.boards.Len()
}

func (s *Store) Board(name string) (*model.Board, bool) {
	return s.boards.Get(name)
}

// Each visits boards in display order.
func (s *Store) Each(fn func(name string, b *model.Board) bool) {
	s.boards.Each(fn)
}

func (s *Store) Current() string {
	return s.current
}

func (s *Store) CurrentBoard() (*model.Board, bool) {
	if s.current == "" {
		return nil, false
	}
	return s.boards.Get(s.current)
}

func (s *Store) SetCurrent(name string) error {
	if !s.boards.Has(name) {
		return errBoardNotFound(name)
	}
	s.current = name
	return nil
}

// Bootstrap creates a first board when the store is empty. It reports whether it did.
func (s *Store) Bootstrap(name string) bool {
	if s.boards.Len() > 0 {
		return false
	}
	return s.CreateBoard(name) == nil
}

// CreateBoard adds an empty board at the end and makes it current. An existing name is left
// untouched and reported as DuplicateNameError.
func (s *Store) CreateBoard(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return InvalidNameError{Kind: "board"}
	}
	if s.boards.Has(name) {
		return DuplicateNameError{Kind: "board", Name: name}
	}
	s.boards.Set(name, model.NewBoard())
	s.current = name
	return nil
}

// DeleteBoard removes a board with all its lists and cards. Without confirmation nothing
// happens.
func (s *Store) DeleteBoard(name string, confirmed bool) (bool, error) {
	if !s.boards.Has(name) {
		return false, errBoardNotFound(name)
	}
	if !confirmed {
		return false, nil
	}
	s.boards.Delete(name)
	s.settleCurrent()
	return true, nil
}

func (s *Store) RenameBoard(oldName, newName string) error {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return InvalidNameError{Kind: "board"}
	}
	if !s.boards.Has(oldName) {
		return errBoardNotFound(oldName)
	}
	if oldName == newName {
		return nil
	}
	if s.boards.Has(newName) {
		return DuplicateNameError{Kind: "board", Name: newName}
	}
	if err := s.boards.Rename(oldName, newName); err != nil {
		return fmt.Errorf("rename board %q: %w", oldName, err)
	}
	if s.current == oldName {
		s.current = newName
	}
	return nil
}

// UniqueBoardName returns base, or base with the first free " (n)" suffix.
func (s *Store) UniqueBoardName(base string) string {
	return uniqueName(base, s.boards.Has)
}

func uniqueName(base string, taken func(string) bool) string {
	if !taken(base) {
		return base
	}
	for n := 2; ; n++ {
		cand := fmt.Sprintf("%s (%d)", base, n)
		if !taken(cand) {
			return cand
		}
	}
}

func (s *Store) board(name string) (*model.Board, error) {
	b, ok := s.boards.Get(name)
	if !ok {
		return nil, errBoardNotFound(name)
	}
	return b, nil
}

// Clone returns a deep copy; the clock is shared.
func (s *Store) Clone() *Store {
	out := New()
	out.now = s.now
	s.boards.Each(func(name string, b *model.Board) bool {
		out.boards.Set(name, b.Clone())
		return true
	})
	out.current = s.current
	return out
}

// CardTitles returns every card title across the store, in display order.
func (s *Store) CardTitles() []string {
	var out []string
	s.boards.Each(func(_ string, b *model.Board) bool {
		b.Lists.Each(func(_ string, l *model.List) bool {
			for _, c := range l.Cards {
				out = append(out, c.Title)
			}
			return true
		})
		return true
	})
	return out
}
