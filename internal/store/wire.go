package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"taskflow/internal/board"
	"taskflow/internal/model"
	"taskflow/internal/ordered"
)

// Wire format of the board document. Map key order in boards and lists is display order.
type wireDoc struct {
	Boards       *ordered.Map[*wireBoard] `json:"boards"`
	CurrentBoard *string                  `json:"current_board"`
}

type wireBoard struct {
	Lists *ordered.Map[*wireList] `json:"lists"`
}

type wireList struct {
	Cards []wireCard `json:"cards"`
}

type wireCard struct {
	Title   string   `json:"title"`
	Created string   `json:"created"`
	Width   *float64 `json:"width,omitempty"`
	Height  *float64 `json:"height,omitempty"`
}

// Encode renders the whole store as the persisted document.
func Encode(st *board.Store) ([]byte, error) {
	doc := wireDoc{Boards: ordered.New[*wireBoard]()}
	st.Each(func(name string, b *model.Board) bool {
		wb := &wireBoard{Lists: ordered.New[*wireList]()}
		b.Lists.Each(func(listName string, l *model.List) bool {
			wl := &wireList{Cards: make([]wireCard, 0, l.Len())}
			for _, c := range l.Cards {
				wl.Cards = append(wl.Cards, wireCard{
					Title:   c.Title,
					Created: c.Created(),
					Width:   c.Width,
					Height:  c.Height,
				})
			}
			wb.Lists.Set(listName, wl)
			return true
		})
		doc.Boards.Set(name, wb)
		return true
	})
	if cur := st.Current(); cur != "" {
		doc.CurrentBoard = &cur
	}

	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode board document: %w", err)
	}
	return append(b, '\n'), nil
}

// Decode parses and validates a document. Any failure means the document is unusable as a
// whole; callers decide how to recover.
func Decode(b []byte) (*board.Store, error) {
	if len(bytes.TrimSpace(b)) == 0 {
		return nil, fmt.Errorf("empty document")
	}
	if err := validateDocument(b); err != nil {
		return nil, err
	}

	var doc wireDoc
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	boards := ordered.New[*model.Board]()
	var decodeErr error
	doc.Boards.Each(func(name string, wb *wireBoard) bool {
		mb := model.NewBoard()
		if wb != nil {
			wb.Lists.Each(func(listName string, wl *wireList) bool {
				ml := &model.List{}
				if wl != nil {
					ml.Cards = make([]model.Card, 0, len(wl.Cards))
					for i, wc := range wl.Cards {
						created, err := parseCreated(wc.Created)
						if err != nil {
							decodeErr = fmt.Errorf("board %q list %q card %d: %w", name, listName, i, err)
							return false
						}
						ml.Cards = append(ml.Cards, model.Card{
							Title:     wc.Title,
							CreatedAt: created,
							Width:     wc.Width,
							Height:    wc.Height,
						})
					}
				}
				mb.Lists.Set(listName, ml)
				return true
			})
		}
		boards.Set(name, mb)
		return decodeErr == nil
	})
	if decodeErr != nil {
		return nil, decodeErr
	}

	current := ""
	if doc.CurrentBoard != nil {
		current = *doc.CurrentBoard
	}
	return board.NewFrom(boards, current), nil
}

func parseCreated(s string) (time.Time, error) {
	t, err := time.ParseInLocation(model.CreatedLayout, strings.TrimSpace(s), time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid created timestamp %q: %w", s, err)
	}
	return t, nil
}
