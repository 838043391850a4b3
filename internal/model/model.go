package model

import (
	"time"

	"taskflow/internal/ordered"
)

// CreatedLayout is the persisted format of Card.CreatedAt (minute precision, local time).
const CreatedLayout = "2006-01-02 15:04"

// Card size limits. A nil Width/Height means the presentation layer sizes the card itself.
const (
	DefaultCardWidth = 260
	MinCardWidth     = 150
	MinCardHeight    = 70
)

type Card struct {
	Title     string
	CreatedAt time.Time
	Width     *float64
	Height    *float64
}

func NewCard(title string, now time.Time) Card {
	return Card{
		Title:     title,
		CreatedAt: TruncateCreated(now),
	}
}

// TruncateCreated drops everything the persisted format cannot represent.
func TruncateCreated(t time.Time) time.Time {
	t = t.Round(0)
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, t.Location())
}

func (c Card) Created() string {
	return c.CreatedAt.Format(CreatedLayout)
}

// HasCustomSize reports whether the user resized the card.
func (c Card) HasCustomSize() bool {
	return c.Width != nil || c.Height != nil
}

func (c Card) Clone() Card {
	out := c
	if c.Width != nil {
		w := *c.Width
		out.Width = &w
	}
	if c.Height != nil {
		h := *c.Height
		out.Height = &h
	}
	return out
}

type List struct {
	Cards []Card
}

func (l *List) Len() int {
	if l == nil {
		return 0
	}
	return len(l.Cards)
}

func (l *List) Clone() *List {
	if l == nil {
		return nil
	}
	out := &List{Cards: make([]Card, 0, len(l.Cards))}
	for _, c := range l.Cards {
		out.Cards = append(out.Cards, c.Clone())
	}
	return out
}

// Board holds its lists keyed by name; key order is display order.
type Board struct {
	Lists *ordered.Map[*List]
}

func NewBoard() *Board {
	return &Board{Lists: ordered.New[*List]()}
}

func (b *Board) Clone() *Board {
	out := NewBoard()
	if b == nil {
		return out
	}
	b.Lists.Each(func(name string, l *List) bool {
		out.Lists.Set(name, l.Clone())
		return true
	})
	return out
}

// CardCount is the number of cards across all lists of the board.
func (b *Board) CardCount() int {
	n := 0
	if b == nil {
		return 0
	}
	b.Lists.Each(func(_ string, l *List) bool {
		n += l.Len()
		return true
	})
	return n
}
