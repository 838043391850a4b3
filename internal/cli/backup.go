package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"taskflow/internal/store"
)

type backupsView []store.BackupInfo

func (v backupsView) Table() ([]string, [][]string) {
	rows := make([][]string, 0, len(v))
	for _, b := range v {
		rows = append(rows, []string{b.Name, b.CreatedAt.Format("2006-01-02 15:04:05"), strconv.FormatInt(b.Size, 10)})
	}
	return []string{"NAME", "CREATED", "BYTES"}, rows
}

func newBackupCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "backup",
		Aliases: []string{"backups"},
		Short:   "Snapshot and restore the board document",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "create",
		Short: "Write a compressed snapshot to backup.dir",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st := app.loadStore()
			info, err := app.backups().Create(st)
			if err != nil {
				return writeErr(cmd, err)
			}
			app.log.Debug("backup created", "path", info.Path, "bytes", info.Size)
			return writeOut(cmd, app, backupsView{info}, "taskflow backup restore "+info.Name+" --yes")
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List snapshots, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			all, err := app.backups().List()
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, backupsView(all))
		},
	})

	var yes bool
	restoreCmd := &cobra.Command{
		Use:   "restore <name|latest>",
		Short: "Replace the board document with a snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return writeErr(cmd, errNeedsYes("restore backup %q over %s", args[0], app.gw.Describe()))
			}
			st, err := app.backups().Restore(args[0], app.gw)
			if err != nil {
				return writeErr(cmd, err)
			}
			app.log.Info("backup restored", "name", args[0], "to", app.gw.Describe())
			return writeOut(cmd, app, summarize(st))
		},
	}
	restoreCmd.Flags().BoolVar(&yes, "yes", false, "Confirm overwriting the current document")
	cmd.AddCommand(restoreCmd)

	return cmd
}
