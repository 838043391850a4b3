package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"taskflow/internal/board"
)

func newListsCmd(app *App) *cobra.Command {
	var boardName string

	cmd := &cobra.Command{
		Use:     "lists",
		Aliases: []string{"list"},
		Short:   "Manage the lists of a board",
	}
	cmd.PersistentFlags().StringVar(&boardName, "board", "", "Board (default: current board)")

	// mutate loads, resolves the board, runs fn, saves and prints the board's list names.
	mutate := func(cmd *cobra.Command, fn func(string, *board.Store) error) error {
		st := app.loadStore()
		b, err := boardArg(st, boardName)
		if err != nil {
			return writeErr(cmd, err)
		}
		if err := fn(b, st); err != nil {
			return writeErr(cmd, err)
		}
		if err := app.save(st); err != nil {
			return writeErr(cmd, err)
		}
		names, err := st.Lists(b)
		if err != nil {
			return writeErr(cmd, err)
		}
		return writeOut(cmd, app, namesView(names))
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List a board's lists in display order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st := app.loadStore()
			b, err := boardArg(st, boardName)
			if err != nil {
				return writeErr(cmd, err)
			}
			names, err := st.Lists(b)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, namesView(names))
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "create <name>",
		Short: "Append a list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutate(cmd, func(b string, s *board.Store) error {
				return s.CreateList(b, args[0])
			})
		},
	})

	var yes bool
	deleteCmd := &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a list with its cards",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutate(cmd, func(b string, s *board.Store) error {
				deleted, err := s.DeleteList(b, args[0], yes)
				if err != nil {
					return err
				}
				if !deleted {
					return errNeedsYes("delete list %q", args[0])
				}
				return nil
			})
		},
	}
	deleteCmd.Flags().BoolVar(&yes, "yes", false, "Confirm deletion")
	cmd.AddCommand(deleteCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "rename <old> <new>",
		Short: "Rename a list, keeping its position",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutate(cmd, func(b string, s *board.Store) error {
				return s.RenameList(b, args[0], args[1])
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "move <name> <position>",
		Short: "Move a list to a 0-based position",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pos, err := strconv.Atoi(args[1])
			if err != nil {
				return writeErr(cmd, errBadIndex(args[1]))
			}
			return mutate(cmd, func(b string, s *board.Store) error {
				return s.MoveList(b, args[0], pos)
			})
		},
	})

	return cmd
}
