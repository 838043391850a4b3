package publish

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"taskflow/internal/board"
	"taskflow/internal/model"
)

// RenderBoardMarkdown renders one board: a heading per list and a bullet per card, in display
// order.
func RenderBoardMarkdown(st *board.Store, boardName string) (string, error) {
	if st == nil {
		return "", fmt.Errorf("missing store")
	}
	b, ok := st.Board(boardName)
	if !ok {
		return "", board.NotFoundError{Kind: "board", Name: boardName, Index: -1}
	}

	var buf bytes.Buffer
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}

	writeLn("# " + boardName)
	writeLn("")
	if boardName == st.Current() {
		writeLn("_Current board._")
		writeLn("")
	}
	if b.Lists.Len() == 0 {
		writeLn("_No lists._")
		return buf.String(), nil
	}

	b.Lists.Each(func(listName string, l *model.List) bool {
		writeLn("## " + listName)
		writeLn("")
		if l.Len() == 0 {
			writeLn("_No cards._")
			writeLn("")
			return true
		}
		for _, c := range l.Cards {
			writeLn("- " + cardLine(c))
		}
		writeLn("")
		return true
	})
	return strings.TrimRight(buf.String(), "\n") + "\n", nil
}

func cardLine(c model.Card) string {
	title := strings.TrimSpace(c.Title)
	if title == "" {
		title = "(untitled)"
	}
	line := escapeInline(title) + " (created " + c.Created()
	if c.HasCustomSize() {
		line += ", " + sizeLabel(c)
	}
	return line + ")"
}

func sizeLabel(c model.Card) string {
	w, h := "auto", "auto"
	if c.Width != nil {
		w = strconv.FormatFloat(*c.Width, 'f', -1, 64)
	}
	if c.Height != nil {
		h = strconv.FormatFloat(*c.Height, 'f', -1, 64)
	}
	return w + "×" + h
}

// escapeInline keeps card titles from turning into Markdown structure.
func escapeInline(s string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		"*", `\*`,
		"_", `\_`,
		"`", "\\`",
		"[", `\[`,
		"]", `\]`,
		"#", `\#`,
	)
	return r.Replace(s)
}

// RenderIndexMarkdown lists every board with its list and card counts.
func RenderIndexMarkdown(st *board.Store, links map[string]string) string {
	var buf bytes.Buffer
	buf.WriteString("# Boards\n\n")
	if st.Len() == 0 {
		buf.WriteString("_No boards._\n")
		return buf.String()
	}
	st.Each(func(name string, b *model.Board) bool {
		label := escapeInline(name)
		if href, ok := links[name]; ok {
			label = "[" + label + "](" + href + ")"
		}
		if name == st.Current() {
			label += " (current)"
		}
		fmt.Fprintf(&buf, "- %s: %d lists, %d cards\n", label, b.Lists.Len(), b.CardCount())
		return true
	})
	return buf.String()
}
