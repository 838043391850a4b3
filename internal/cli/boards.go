package cli

import (
	"github.com/spf13/cobra"
)

func newBoardsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "boards",
		Aliases: []string{"board"},
		Short:   "Manage boards",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List boards in display order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st := app.loadStore()
			return writeOut(cmd, app, summarize(st))
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "create <name>",
		Short: "Create a board and make it current",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st := app.loadStore()
			if err := st.CreateBoard(args[0]); err != nil {
				return writeErr(cmd, err)
			}
			if err := app.save(st); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, summarize(st), "taskflow lists create <name>")
		},
	})

	var yes bool
	deleteCmd := &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a board with all its lists and cards",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st := app.loadStore()
			deleted, err := st.DeleteBoard(args[0], yes)
			if err != nil {
				return writeErr(cmd, err)
			}
			if !deleted {
				return writeErr(cmd, errNeedsYes("delete board %q", args[0]))
			}
			if err := app.save(st); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, summarize(st))
		},
	}
	deleteCmd.Flags().BoolVar(&yes, "yes", false, "Confirm deletion")
	cmd.AddCommand(deleteCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "rename <old> <new>",
		Short: "Rename a board, keeping its position",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			st := app.loadStore()
			if err := st.RenameBoard(args[0], args[1]); err != nil {
				return writeErr(cmd, err)
			}
			if err := app.save(st); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, summarize(st))
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "use <name>",
		Short: "Make a board current",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st := app.loadStore()
			if err := st.SetCurrent(args[0]); err != nil {
				return writeErr(cmd, err)
			}
			if err := app.save(st); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, summarize(st))
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show [name]",
		Short: "Show a board's lists and cards (default: current board)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st := app.loadStore()
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			name, err := boardArg(st, name)
			if err != nil {
				return writeErr(cmd, err)
			}
			v, err := viewBoard(st, name)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, v)
		},
	})

	return cmd
}
