package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"taskflow/internal/docs"
	"taskflow/internal/publish"
)

type topicsView []docs.Topic

func (v topicsView) Table() ([]string, [][]string) {
	rows := make([][]string, 0, len(v))
	for _, tp := range v {
		rows = append(rows, []string{tp.Name, tp.Title})
	}
	return []string{"TOPIC", "TITLE"}, rows
}

func newDocsCmd(app *App) *cobra.Command {
	var render bool
	var width int

	cmd := &cobra.Command{
		Use:   "docs [topic]",
		Short: "Show built-in documentation",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return writeOut(cmd, app, topicsView(docs.Topics()))
			}
			md, ok := docs.Get(args[0])
			if !ok {
				names := make([]string, 0)
				for _, tp := range docs.Topics() {
					names = append(names, tp.Name)
				}
				return writeErr(cmd, fmt.Errorf("unknown topic %q (available: %s)", args[0], strings.Join(names, ", ")))
			}
			if render {
				md = publish.RenderTerminal(md, width, publish.TerminalStyle(false)) + "\n"
			}
			_, err := cmd.OutOrStdout().Write([]byte(md))
			return err
		},
	}
	cmd.Flags().BoolVar(&render, "render", false, "Render Markdown for the terminal")
	cmd.Flags().IntVar(&width, "width", 80, "Wrap width for --render")
	return cmd
}
