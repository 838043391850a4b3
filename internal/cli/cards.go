package cli

import (
	"errors"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"taskflow/internal/board"
	"taskflow/internal/model"
)

func newCardsCmd(app *App) *cobra.Command {
	var boardName string

	cmd := &cobra.Command{
		Use:     "cards",
		Aliases: []string{"card"},
		Short:   "Manage cards (positions are 0-based)",
	}
	cmd.PersistentFlags().StringVar(&boardName, "board", "", "Board (default: current board)")

	open := func() (*board.Store, string, error) {
		st := app.loadStore()
		b, err := boardArg(st, boardName)
		return st, b, err
	}
	finish := func(cmd *cobra.Command, st *board.Store, out any) error {
		if err := app.save(st); err != nil {
			return writeErr(cmd, err)
		}
		return writeOut(cmd, app, out)
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <list> <title>",
		Short: "Append a card to a list",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, b, err := open()
			if err != nil {
				return writeErr(cmd, err)
			}
			title := strings.Join(args[1:], " ")
			idx, err := st.CreateCard(b, args[0], title)
			if err != nil {
				return writeErr(cmd, err)
			}
			c, _ := st.Card(b, args[0], idx)
			return finish(cmd, st, newCardView(args[0], idx, c))
		},
	})

	var yes bool
	deleteCmd := &cobra.Command{
		Use:   "delete <list> <index>",
		Short: "Delete a card",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := parseIndex(args[1])
			if err != nil {
				return writeErr(cmd, err)
			}
			st, b, err := open()
			if err != nil {
				return writeErr(cmd, err)
			}
			deleted, err := st.DeleteCard(b, args[0], idx, yes)
			if err != nil {
				return writeErr(cmd, err)
			}
			if !deleted {
				return writeErr(cmd, errNeedsYes("delete card %d of %q", idx, args[0]))
			}
			lv, err := viewList(st, b, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return finish(cmd, st, lv)
		},
	}
	deleteCmd.Flags().BoolVar(&yes, "yes", false, "Confirm deletion")
	cmd.AddCommand(deleteCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "title <list> <index> <title>",
		Short: "Change a card's title",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := parseIndex(args[1])
			if err != nil {
				return writeErr(cmd, err)
			}
			st, b, err := open()
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := st.UpdateCardTitle(b, args[0], idx, strings.Join(args[2:], " ")); err != nil {
				return writeErr(cmd, err)
			}
			c, _ := st.Card(b, args[0], idx)
			return finish(cmd, st, newCardView(args[0], idx, c))
		},
	})

	var width, height float64
	var reset bool
	resizeCmd := &cobra.Command{
		Use:   "resize <list> <index>",
		Short: "Set a card's size (clamped to the minimum) or reset it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := parseIndex(args[1])
			if err != nil {
				return writeErr(cmd, err)
			}
			st, b, err := open()
			if err != nil {
				return writeErr(cmd, err)
			}
			c, err := st.Card(b, args[0], idx)
			if err != nil {
				return writeErr(cmd, err)
			}
			switch {
			case reset:
				err = st.ResetCardSize(b, args[0], idx)
			case !cmd.Flags().Changed("width") && !cmd.Flags().Changed("height"):
				err = errors.New("pass --width and/or --height, or --reset")
			default:
				w, h := float64(model.DefaultCardWidth), float64(model.MinCardHeight)
				if c.Width != nil {
					w = *c.Width
				}
				if c.Height != nil {
					h = *c.Height
				}
				if cmd.Flags().Changed("width") {
					w = width
				}
				if cmd.Flags().Changed("height") {
					h = height
				}
				err = st.ResizeCard(b, args[0], idx, w, h)
			}
			if err != nil {
				return writeErr(cmd, err)
			}
			c, _ = st.Card(b, args[0], idx)
			return finish(cmd, st, newCardView(args[0], idx, c))
		},
	}
	resizeCmd.Flags().Float64Var(&width, "width", 0, "Card width")
	resizeCmd.Flags().Float64Var(&height, "height", 0, "Card height")
	resizeCmd.Flags().BoolVar(&reset, "reset", false, "Drop the custom size")
	cmd.AddCommand(resizeCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "move <list> <index> <to-list> <to-index>",
		Short: "Move a card; within one list the target index counts without the moved card",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := parseIndex(args[1])
			if err != nil {
				return writeErr(cmd, err)
			}
			to, err := parseIndex(args[3])
			if err != nil {
				return writeErr(cmd, err)
			}
			st, b, err := open()
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := st.MoveCard(b, args[0], from, args[2], to); err != nil {
				return writeErr(cmd, err)
			}
			names := []string{args[0]}
			if args[2] != args[0] {
				names = append(names, args[2])
			}
			out := make(listsView, 0, len(names))
			for _, name := range names {
				lv, err := viewList(st, b, name)
				if err != nil {
					return writeErr(cmd, err)
				}
				out = append(out, lv)
			}
			return finish(cmd, st, out)
		},
	})

	return cmd
}

func parseIndex(s string) (int, error) {
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, errBadIndex(s)
	}
	return i, nil
}

func viewList(st *board.Store, boardName, listName string) (listView, error) {
	l, err := st.List(boardName, listName)
	if err != nil {
		return listView{}, err
	}
	lv := listView{Name: listName, Cards: make([]cardView, 0, l.Len())}
	for i, c := range l.Cards {
		lv.Cards = append(lv.Cards, newCardView(listName, i, c))
	}
	return lv, nil
}

type listsView []listView

func (v listsView) Table() ([]string, [][]string) {
	return boardView{Lists: v}.Table()
}

func (l listView) Table() ([]string, [][]string) {
	return boardView{Lists: []listView{l}}.Table()
}
