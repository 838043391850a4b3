package cli

import (
	"strconv"

	"taskflow/internal/board"
	"taskflow/internal/model"
)

type boardSummary struct {
	Name    string `json:"name"`
	Current bool   `json:"current"`
	Lists   int    `json:"lists"`
	Cards   int    `json:"cards"`
}

type boardsView struct {
	Current *string        `json:"current"`
	Boards  []boardSummary `json:"boards"`
}

func (v boardsView) Table() ([]string, [][]string) {
	rows := make([][]string, 0, len(v.Boards))
	for _, b := range v.Boards {
		mark := ""
		if b.Current {
			mark = "*"
		}
		rows = append(rows, []string{mark, b.Name, strconv.Itoa(b.Lists), strconv.Itoa(b.Cards)})
	}
	return []string{"", "BOARD", "LISTS", "CARDS"}, rows
}

func summarize(st *board.Store) boardsView {
	v := boardsView{Boards: []boardSummary{}}
	if cur := st.Current(); cur != "" {
		v.Current = &cur
	}
	st.Each(func(name string, b *model.Board) bool {
		v.Boards = append(v.Boards, boardSummary{
			Name:    name,
			Current: name == st.Current(),
			Lists:   b.Lists.Len(),
			Cards:   b.CardCount(),
		})
		return true
	})
	return v
}

type cardView struct {
	List    string   `json:"list"`
	Index   int      `json:"index"`
	Title   string   `json:"title"`
	Created string   `json:"created"`
	Width   *float64 `json:"width,omitempty"`
	Height  *float64 `json:"height,omitempty"`
}

func (c cardView) Table() ([]string, [][]string) {
	return cardHeaders, [][]string{c.row()}
}

var cardHeaders = []string{"LIST", "#", "TITLE", "CREATED", "SIZE"}

func (c cardView) row() []string {
	size := ""
	if c.Width != nil || c.Height != nil {
		w, h := "auto", "auto"
		if c.Width != nil {
			w = strconv.FormatFloat(*c.Width, 'f', -1, 64)
		}
		if c.Height != nil {
			h = strconv.FormatFloat(*c.Height, 'f', -1, 64)
		}
		size = w + "×" + h
	}
	return []string{c.List, strconv.Itoa(c.Index), c.Title, c.Created, size}
}

func newCardView(list string, index int, c model.Card) cardView {
	return cardView{
		List:    list,
		Index:   index,
		Title:   c.Title,
		Created: c.Created(),
		Width:   c.Width,
		Height:  c.Height,
	}
}

type listView struct {
	Name  string     `json:"name"`
	Cards []cardView `json:"cards"`
}

type boardView struct {
	Name    string     `json:"name"`
	Current bool       `json:"current"`
	Lists   []listView `json:"lists"`
}

func (v boardView) Table() ([]string, [][]string) {
	rows := [][]string{}
	for _, l := range v.Lists {
		if len(l.Cards) == 0 {
			rows = append(rows, []string{l.Name, "", "", "", ""})
			continue
		}
		for _, c := range l.Cards {
			rows = append(rows, c.row())
		}
	}
	return cardHeaders, rows
}

func viewBoard(st *board.Store, name string) (boardView, error) {
	b, ok := st.Board(name)
	if !ok {
		return boardView{}, board.NotFoundError{Kind: "board", Name: name, Index: -1}
	}
	v := boardView{Name: name, Current: name == st.Current(), Lists: []listView{}}
	for _, listName := range b.Lists.Keys() {
		lv, err := viewList(st, name, listName)
		if err != nil {
			return boardView{}, err
		}
		v.Lists = append(v.Lists, lv)
	}
	return v, nil
}

type namesView []string

func (v namesView) Table() ([]string, [][]string) {
	rows := make([][]string, 0, len(v))
	for i, n := range v {
		rows = append(rows, []string{strconv.Itoa(i), n})
	}
	return []string{"#", "LIST"}, rows
}
