package cli

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"taskflow/internal/model"
	"taskflow/internal/store"
)

type doctorReport struct {
	Backend      string  `json:"backend"`
	Source       string  `json:"source"`
	Exists       bool    `json:"exists"`
	Valid        bool    `json:"valid"`
	Error        string  `json:"error,omitempty"`
	Boards       int     `json:"boards"`
	Lists        int     `json:"lists"`
	Cards        int     `json:"cards"`
	Current      *string `json:"current"`
	Backups      int     `json:"backups"`
	LatestBackup string  `json:"latestBackup,omitempty"`
}

func (r doctorReport) Table() ([]string, [][]string) {
	current := ""
	if r.Current != nil {
		current = *r.Current
	}
	rows := [][]string{
		{"backend", r.Backend},
		{"source", r.Source},
		{"exists", strconv.FormatBool(r.Exists)},
		{"valid", strconv.FormatBool(r.Valid)},
		{"boards", strconv.Itoa(r.Boards)},
		{"lists", strconv.Itoa(r.Lists)},
		{"cards", strconv.Itoa(r.Cards)},
		{"current", current},
		{"backups", strconv.Itoa(r.Backups)},
	}
	if r.LatestBackup != "" {
		rows = append(rows, []string{"latest backup", r.LatestBackup})
	}
	if r.Error != "" {
		rows = append(rows, []string{"error", r.Error})
	}
	return []string{"CHECK", "VALUE"}, rows
}

var errUnhealthy = errors.New("board document is not valid")

func newDoctorCmd(app *App) *cobra.Command {
	var fail bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the board document without modifying it",
		Long: "Reads the stored document and validates it. Unlike every other command, an unreadable\n" +
			"document is reported but never quarantined.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rep := doctorReport{
				Backend: app.cfg.Storage.Backend,
				Source:  app.gw.Describe(),
			}

			raw, err := app.gw.Raw()
			switch {
			case errors.Is(err, os.ErrNotExist):
				// Nothing saved yet is healthy.
				rep.Valid = true
			case err != nil:
				return writeErr(cmd, fmt.Errorf("read %s: %w", rep.Source, err))
			default:
				rep.Exists = true
				st, err := store.Decode(raw)
				if err != nil {
					rep.Error = err.Error()
					break
				}
				rep.Valid = true
				if cur := st.Current(); cur != "" {
					rep.Current = &cur
				}
				st.Each(func(_ string, b *model.Board) bool {
					rep.Boards++
					rep.Lists += b.Lists.Len()
					rep.Cards += b.CardCount()
					return true
				})
			}

			if all, err := app.backups().List(); err != nil {
				app.log.Warn("list backups failed", "dir", app.cfg.Backup.Dir, "err", err)
			} else {
				rep.Backups = len(all)
				if len(all) > 0 {
					rep.LatestBackup = all[0].Name
				}
			}

			if err := writeOut(cmd, app, rep); err != nil {
				return err
			}
			if fail && !rep.Valid {
				return writeErr(cmd, errUnhealthy)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&fail, "fail", false, "Exit non-zero when the document is invalid")
	return cmd
}
