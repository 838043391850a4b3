package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"

	"taskflow/internal/drag"
	"taskflow/internal/model"
)

const maxTabWidth = 24

type tabSpan struct {
	name  string
	label string
	x0    int
	x1    int
}

// tabSpans lays out the board tabs on row 0. Spans past the terminal width are dropped.
func (m *boardModel) tabSpans() []tabSpan {
	var out []tabSpan
	x := 0
	for _, name := range m.st.Boards() {
		label := xansi.Truncate(name, maxTabWidth, "…")
		w := xansi.StringWidth(label) + 2
		if m.width > 0 && x+w > m.width {
			break
		}
		out = append(out, tabSpan{name: name, label: label, x0: x, x1: x + w})
		x += w + 1
	}
	return out
}

func (m *boardModel) tabAt(x int) (string, bool) {
	for _, t := range m.tabSpans() {
		if x >= t.x0 && x < t.x1 {
			return t.name, true
		}
	}
	return "", false
}

func (m *boardModel) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}
	rows := []string{m.viewTabs(), ""}
	if m.mode == modeHelp {
		m.help.ShowAll = true
		rows = append(rows, m.fill(m.help.View(m.keys)))
		m.help.ShowAll = false
	} else {
		rows = append(rows, m.fill(m.viewColumns()))
	}
	rows = append(rows, m.clip(m.viewStatus()), m.clip(m.help.View(m.keys)))
	return strings.Join(rows, "\n")
}

func (m *boardModel) clip(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if xansi.StringWidth(s) > m.width {
		return xansi.Truncate(s, m.width, "")
	}
	return s
}

// fill pins the columns area to exactly the rows the layout assumed.
func (m *boardModel) fill(s string) string {
	h := int(m.layout.grid.Height)
	if h <= 0 {
		return ""
	}
	return lipgloss.NewStyle().Height(h).MaxHeight(h).MaxWidth(m.width).Render(s)
}

func (m *boardModel) viewTabs() string {
	spans := m.tabSpans()
	if len(spans) == 0 {
		return styleMuted().Render("taskflow")
	}
	parts := make([]string, 0, len(spans))
	for _, t := range spans {
		if t.name == m.st.Current() {
			parts = append(parts, styleTabActive().Render(t.label))
		} else {
			parts = append(parts, styleTab().Render(t.label))
		}
	}
	return m.clip(strings.Join(parts, " "))
}

func (m *boardModel) viewColumns() string {
	cur := m.st.Current()
	if cur == "" {
		return styleMuted().Render("No boards. Press B to create one.")
	}
	names := m.lists()
	if len(names) == 0 {
		return styleMuted().Render("No lists on this board. Press n to add one.")
	}
	from, to := m.layout.visibleRange()
	g := m.layout.grid
	gap := strings.Repeat(" ", max(0, int(g.ListPitch-g.ListWidth)))

	cols := make([]string, 0, 2*(to-from))
	for i := from; i < to; i++ {
		if i > from {
			cols = append(cols, gap)
		}
		cols = append(cols, m.viewList(i, names[i]))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

func (m *boardModel) viewList(i int, name string) string {
	g := m.layout.grid
	w := int(g.ListWidth)
	cur := m.st.Current()
	l, err := m.st.List(cur, name)
	if err != nil {
		return ""
	}

	hoverIdx := -1
	headerHover := false
	if sess, ok := m.drag.Session(); ok {
		if hv, ok := m.drag.Hover(); ok {
			switch sess.Kind {
			case drag.KindCard:
				if hv.List == name {
					hoverIdx = hv.Index
					headerHover = hv.Index >= l.Len()
				}
			case drag.KindList:
				headerHover = hv.Index == i
			}
		}
	}

	shown := min(l.Len(), m.layout.cardRows())
	count := pluralCards(l.Len())
	if shown < l.Len() {
		count += fmt.Sprintf(" (%d below)", l.Len()-shown)
	}
	header := []string{
		styleListHeader(headerHover || (i == m.selList && m.selCard < 0)).Render(xansi.Truncate(name, w, "…")),
		styleMuted().Render(xansi.Truncate(count, w, "…")),
	}
	hh := int(g.HeaderHeight)
	if hh >= 3 {
		header = append(header, styleMuted().Render(strings.Repeat("─", w)))
	}
	header = fitLines(header, hh)

	parts := []string{strings.Join(header, "\n")}
	for j := 0; j < shown; j++ {
		selected := i == m.selList && j == m.selCard
		parts = append(parts, renderCard(l.Cards[j], w, int(g.CardPitch), selected, j == hoverIdx))
	}
	return lipgloss.NewStyle().Width(w).MaxWidth(w).Render(strings.Join(parts, "\n"))
}

func pluralCards(n int) string {
	if n == 1 {
		return "1 card"
	}
	return strconv.Itoa(n) + " cards"
}

// fitLines pads or cuts lines to exactly n entries.
func fitLines(lines []string, n int) []string {
	if n <= 0 {
		return nil
	}
	if len(lines) > n {
		// Keep the title; drop from the end.
		return lines[:n]
	}
	for len(lines) < n {
		lines = append(lines, "")
	}
	return lines
}

// renderCard draws a card exactly rows tall and w wide.
func renderCard(c model.Card, w, rows int, selected, dropTarget bool) string {
	title := c.Title
	if strings.TrimSpace(title) == "" {
		title = "(untitled)"
	}
	if rows < 3 || w < 6 {
		line := xansi.Truncate(title, w, "…")
		if selected {
			line = lipgloss.NewStyle().Reverse(true).Render(line)
		}
		return strings.Join(fitLines([]string{line}, max(rows, 1)), "\n")
	}

	inner := w - 4
	meta := c.Created()
	if c.HasCustomSize() {
		meta += " " + sizeLabel(c)
	}
	lines := fitLines([]string{
		xansi.Truncate(title, inner, "…"),
		styleMuted().Render(xansi.Truncate(meta, inner, "…")),
	}, rows-2)
	return styleCard(selected, dropTarget).
		Padding(0, 1).
		Width(w - 2).
		Height(rows - 2).
		MaxHeight(rows).
		Render(strings.Join(lines, "\n"))
}

func sizeLabel(c model.Card) string {
	w, h := "auto", "auto"
	if c.Width != nil {
		w = strconv.FormatFloat(*c.Width, 'f', 0, 64)
	}
	if c.Height != nil {
		h = strconv.FormatFloat(*c.Height, 'f', 0, 64)
	}
	return w + "×" + h
}

func (m *boardModel) viewStatus() string {
	switch m.mode {
	case modePrompt:
		return m.prompt.title() + ": " + m.input.View()
	case modeConfirm:
		return m.confirmText + " [y/n]"
	}
	if sess, ok := m.drag.Session(); ok {
		return m.ghostLine(sess)
	}
	if m.status != "" {
		return styleStatus(m.statusErr).Render(m.status)
	}
	return ""
}

// ghostLine describes the held entity and where it would land.
func (m *boardModel) ghostLine(sess drag.Session) string {
	g := sess.Ghost()
	line := fmt.Sprintf("Dragging %s %q", sess.Kind, sess.Title())
	if hv, ok := m.drag.Hover(); ok {
		if sess.Kind == drag.KindCard {
			line += fmt.Sprintf(" → %s #%d", hv.List, hv.Index+1)
		} else {
			line += fmt.Sprintf(" → position %d", hv.Index+1)
		}
	}
	return line + styleMuted().Render(fmt.Sprintf("  @%.0f,%.0f", g.X, g.Y))
}
