package publish

import (
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
	"github.com/muesli/termenv"
)

var (
	rendererMu sync.Mutex
	// Keyed by style and wrap width. A fixed style avoids WithAutoStyle terminal queries.
	renderers = map[string]*glamour.TermRenderer{}
)

// TerminalStyle picks a glamour style matching the terminal background, or notty when output is
// not a terminal.
func TerminalStyle(isTTY bool) string {
	if !isTTY {
		return styles.NoTTYStyle
	}
	if termenv.HasDarkBackground() {
		return styles.DarkStyle
	}
	return styles.LightStyle
}

// RenderTerminal renders Markdown for display in a terminal. On renderer failure the Markdown is
// returned unchanged.
func RenderTerminal(md string, width int, style string) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}
	if width < 20 {
		width = 20
	}
	if style == "" {
		style = styles.NoTTYStyle
	}

	key := style + ":" + strconv.Itoa(width)
	rendererMu.Lock()
	r := renderers[key]
	if r == nil {
		rr, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			rendererMu.Unlock()
			return md
		}
		renderers[key] = rr
		r = rr
	}
	rendererMu.Unlock()

	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}
