package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Left, Right, Up, Down key.Binding

	MoveListLeft, MoveListRight key.Binding
	MoveCardUp, MoveCardDown    key.Binding
	MoveCardPrev, MoveCardNext  key.Binding

	NextBoard, PrevBoard key.Binding
	NewBoard             key.Binding
	RenameBoard          key.Binding
	DeleteBoard          key.Binding

	NewList    key.Binding
	RenameList key.Binding
	DeleteList key.Binding

	NewCard    key.Binding
	EditCard   key.Binding
	DeleteCard key.Binding
	Grow       key.Binding
	Shrink     key.Binding
	ResetSize  key.Binding

	Help key.Binding
	Quit key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Left:  key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "list")),
		Right: key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "list")),
		Up:    key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "card")),
		Down:  key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "card")),

		MoveListLeft:  key.NewBinding(key.WithKeys("shift+left", "H"), key.WithHelp("H", "move list left")),
		MoveListRight: key.NewBinding(key.WithKeys("shift+right", "L"), key.WithHelp("L", "move list right")),
		MoveCardUp:    key.NewBinding(key.WithKeys("shift+up", "K"), key.WithHelp("K", "move card up")),
		MoveCardDown:  key.NewBinding(key.WithKeys("shift+down", "J"), key.WithHelp("J", "move card down")),
		MoveCardPrev:  key.NewBinding(key.WithKeys("<"), key.WithHelp("<", "card to previous list")),
		MoveCardNext:  key.NewBinding(key.WithKeys(">"), key.WithHelp(">", "card to next list")),

		NextBoard:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next board")),
		PrevBoard:   key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous board")),
		NewBoard:    key.NewBinding(key.WithKeys("B"), key.WithHelp("B", "new board")),
		RenameBoard: key.NewBinding(key.WithKeys("E"), key.WithHelp("E", "rename board")),
		DeleteBoard: key.NewBinding(key.WithKeys("X"), key.WithHelp("X", "delete board")),

		NewList:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new list")),
		RenameList: key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "rename list")),
		DeleteList: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "delete list")),

		NewCard:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add card")),
		EditCard:   key.NewBinding(key.WithKeys("enter", "t"), key.WithHelp("enter", "edit title")),
		DeleteCard: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete card")),
		Grow:       key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "grow card")),
		Shrink:     key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "shrink card")),
		ResetSize:  key.NewBinding(key.WithKeys("0"), key.WithHelp("0", "reset size")),

		Help: key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit: key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NewCard, k.NewList, k.NextBoard, k.EditCard, k.DeleteCard, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Up, k.Down},
		{k.MoveListLeft, k.MoveListRight, k.MoveCardUp, k.MoveCardDown, k.MoveCardPrev, k.MoveCardNext},
		{k.NextBoard, k.PrevBoard, k.NewBoard, k.RenameBoard, k.DeleteBoard},
		{k.NewList, k.RenameList, k.DeleteList},
		{k.NewCard, k.EditCard, k.DeleteCard, k.Grow, k.Shrink, k.ResetSize},
		{k.Help, k.Quit},
	}
}
