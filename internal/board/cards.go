package board

import (
	"fmt"
	"strings"

	"taskflow/internal/model"
)

// CreateCard appends a card to a list and returns its index.
func (s *Store) CreateCard(boardName, listName, title string) (int, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return -1, InvalidNameError{Kind: "card"}
	}
	l, err := s.List(boardName, listName)
	if err != nil {
		return -1, err
	}
	l.Cards = append(l.Cards, model.NewCard(title, s.clock()))
	return len(l.Cards) - 1, nil
}

func (s *Store) Card(boardName, listName string, index int) (model.Card, error) {
	l, err := s.List(boardName, listName)
	if err != nil {
		return model.Card{}, err
	}
	if index < 0 || index >= len(l.Cards) {
		return model.Card{}, errCardNotFound(listName, index)
	}
	return l.Cards[index], nil
}

func (s *Store) cardRef(boardName, listName string, index int) (*model.Card, error) {
	l, err := s.List(boardName, listName)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(l.Cards) {
		return nil, errCardNotFound(listName, index)
	}
	return &l.Cards[index], nil
}

func (s *Store) DeleteCard(boardName, listName string, index int, confirmed bool) (bool, error) {
	if _, err := s.cardRef(boardName, listName, index); err != nil {
		return false, err
	}
	if !confirmed {
		return false, nil
	}
	_, err := s.DetachCard(boardName, listName, index)
	return err == nil, err
}

func (s *Store) UpdateCardTitle(boardName, listName string, index int, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return InvalidNameError{Kind: "card"}
	}
	c, err := s.cardRef(boardName, listName, index)
	if err != nil {
		return err
	}
	c.Title = title
	return nil
}

// ResizeCard stores a custom size, clamped to the minimum card dimensions.
func (s *Store) ResizeCard(boardName, listName string, index int, width, height float64) error {
	c, err := s.cardRef(boardName, listName, index)
	if err != nil {
		return err
	}
	w := max(width, model.MinCardWidth)
	h := max(height, model.MinCardHeight)
	c.Width = &w
	c.Height = &h
	return nil
}

// ResetCardSize returns a card to automatic sizing.
func (s *Store) ResetCardSize(boardName, listName string, index int) error {
	c, err := s.cardRef(boardName, listName, index)
	if err != nil {
		return err
	}
	c.Width = nil
	c.Height = nil
	return nil
}

// DetachCard removes and returns the card at index. The caller must hand it back through
// InsertCard exactly once.
func (s *Store) DetachCard(boardName, listName string, index int) (model.Card, error) {
	l, err := s.List(boardName, listName)
	if err != nil {
		return model.Card{}, err
	}
	if index < 0 || index >= len(l.Cards) {
		return model.Card{}, errCardNotFound(listName, index)
	}
	c := l.Cards[index]
	l.Cards = append(l.Cards[:index], l.Cards[index+1:]...)
	return c, nil
}

// InsertCard places a card at index (0 <= index <= number of cards).
func (s *Store) InsertCard(boardName, listName string, index int, c model.Card) error {
	l, err := s.List(boardName, listName)
	if err != nil {
		return err
	}
	if index < 0 || index > len(l.Cards) {
		return errCardNotFound(listName, index)
	}
	l.Cards = append(l.Cards, model.Card{})
	copy(l.Cards[index+1:], l.Cards[index:])
	l.Cards[index] = c
	return nil
}

// MoveCard moves a card between or within lists of one board. toIndex is measured against
// the target list after the card was removed from its source.
func (s *Store) MoveCard(boardName, fromList string, fromIndex int, toList string, toIndex int) error {
	if _, err := s.List(boardName, toList); err != nil {
		return err
	}
	c, err := s.DetachCard(boardName, fromList, fromIndex)
	if err != nil {
		return err
	}
	if err := s.InsertCard(boardName, toList, toIndex, c); err != nil {
		if rerr := s.InsertCard(boardName, fromList, fromIndex, c); rerr != nil {
			return fmt.Errorf("move card %s[%d]: %w (restore failed: %v)", fromList, fromIndex, err, rerr)
		}
		return err
	}
	return nil
}
