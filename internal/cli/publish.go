package cli

import (
	"os"
	"strings"

	xansi "github.com/charmbracelet/x/ansi"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"taskflow/internal/publish"
)

func newPublishCmd(app *App) *cobra.Command {
	var boardName string
	var all bool
	var to string
	var overwrite bool
	var asHTML bool
	var render bool
	var width int

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Export boards as Markdown",
		Example: strings.TrimSpace(`
  # Print the current board as Markdown
  taskflow publish

  # Render it for the terminal
  taskflow publish --render

  # Write every board plus an index into a directory
  taskflow publish --all --to ./site --overwrite

  # Same, as standalone HTML pages
  taskflow publish --all --to ./site --html
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st := app.loadStore()
			opt := publish.WriteOptions{Overwrite: overwrite, HTML: asHTML}

			if strings.TrimSpace(to) != "" {
				var res publish.WriteResult
				var err error
				if all {
					res, err = publish.WriteAll(st, to, opt)
				} else {
					var name string
					name, err = boardArg(st, boardName)
					if err == nil {
						res, err = publish.WriteBoard(st, name, to, opt)
					}
				}
				if err != nil {
					return writeErr(cmd, err)
				}
				return writeOut(cmd, app, res)
			}

			var md string
			title := "Boards"
			if all {
				var parts []string
				for _, name := range st.Boards() {
					part, err := publish.RenderBoardMarkdown(st, name)
					if err != nil {
						return writeErr(cmd, err)
					}
					parts = append(parts, part)
				}
				md = strings.Join(parts, "\n")
			} else {
				name, err := boardArg(st, boardName)
				if err != nil {
					return writeErr(cmd, err)
				}
				title = name
				md, err = publish.RenderBoardMarkdown(st, name)
				if err != nil {
					return writeErr(cmd, err)
				}
			}

			out := cmd.OutOrStdout()
			if asHTML {
				page, err := publish.RenderHTMLPage(title, md)
				if err != nil {
					return writeErr(cmd, err)
				}
				_, err = out.Write(page)
				return err
			}
			if !render {
				_, err := out.Write([]byte(md))
				return err
			}
			tty := false
			if f, ok := out.(*os.File); ok {
				tty = term.IsTerminal(int(f.Fd()))
			}
			w := width
			if w <= 0 {
				w = 80
				if f, ok := out.(*os.File); ok && tty {
					if tw, _, err := term.GetSize(int(f.Fd())); err == nil && tw > 0 {
						w = tw
					}
				}
			}
			rendered := publish.RenderTerminal(md, w, publish.TerminalStyle(tty))
			if !tty {
				rendered = xansi.Strip(rendered)
			}
			_, err := out.Write([]byte(rendered + "\n"))
			return err
		},
	}
	cmd.Flags().StringVar(&boardName, "board", "", "Board to publish (default: current board)")
	cmd.Flags().BoolVar(&all, "all", false, "Publish every board")
	cmd.Flags().StringVar(&to, "to", "", "Write Markdown files into this directory instead of stdout")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace existing files under --to")
	cmd.Flags().BoolVar(&asHTML, "html", false, "Produce HTML instead of Markdown")
	cmd.Flags().BoolVar(&render, "render", false, "Render Markdown for the terminal")
	cmd.Flags().IntVar(&width, "width", 0, "Wrap width for --render (default: terminal width or 80)")
	return cmd
}
