// Package publish exports boards as Markdown or HTML files.
package publish

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"taskflow/internal/board"
)

type WriteOptions struct {
	Overwrite bool
	// HTML writes standalone .html pages instead of Markdown.
	HTML bool
}

func (o WriteOptions) ext() string {
	if o.HTML {
		return ".html"
	}
	return ".md"
}

// encode turns a Markdown document into file contents for the chosen output.
func (o WriteOptions) encode(title, md string) ([]byte, error) {
	if o.HTML {
		return RenderHTMLPage(title, md)
	}
	return []byte(md), nil
}

type WriteResult struct {
	Written []string `json:"written"`
}

func (r WriteResult) Table() ([]string, [][]string) {
	rows := make([][]string, 0, len(r.Written))
	for _, p := range r.Written {
		rows = append(rows, []string{p})
	}
	return []string{"WRITTEN"}, rows
}

// WriteBoard writes <toDir>/boards/<slug>.md (or .html) for one board.
func WriteBoard(st *board.Store, boardName, toDir string, opt WriteOptions) (WriteResult, error) {
	toDir = strings.TrimSpace(toDir)
	if toDir == "" {
		return WriteResult{}, errors.New("missing --to")
	}
	md, err := RenderBoardMarkdown(st, boardName)
	if err != nil {
		return WriteResult{}, err
	}
	outDir := filepath.Join(filepath.Clean(toDir), "boards")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return WriteResult{}, err
	}
	body, err := opt.encode(boardName, md)
	if err != nil {
		return WriteResult{}, err
	}
	outPath := filepath.Join(outDir, Slug(boardName)+opt.ext())
	if err := writeFile(outPath, body, opt.Overwrite); err != nil {
		return WriteResult{}, err
	}
	return WriteResult{Written: []string{outPath}}, nil
}

// WriteAll writes every board plus an index linking them. It stops at the first error.
func WriteAll(st *board.Store, toDir string, opt WriteOptions) (WriteResult, error) {
	toDir = strings.TrimSpace(toDir)
	if toDir == "" {
		return WriteResult{}, errors.New("missing --to")
	}
	toDir = filepath.Clean(toDir)
	if err := os.MkdirAll(toDir, 0o755); err != nil {
		return WriteResult{}, err
	}

	links := map[string]string{}
	seen := map[string]string{}
	for _, name := range st.Boards() {
		slug := Slug(name)
		if other, ok := seen[slug]; ok {
			return WriteResult{}, errors.New("boards " + other + " and " + name + " publish to the same file")
		}
		seen[slug] = name
		links[name] = "boards/" + slug + opt.ext()
	}

	index, err := opt.encode("Boards", RenderIndexMarkdown(st, links))
	if err != nil {
		return WriteResult{}, err
	}
	indexPath := filepath.Join(toDir, "index"+opt.ext())
	if err := writeFile(indexPath, index, opt.Overwrite); err != nil {
		return WriteResult{}, err
	}
	written := []string{indexPath}
	for _, name := range st.Boards() {
		res, err := WriteBoard(st, name, toDir, opt)
		if err != nil {
			return WriteResult{}, err
		}
		written = append(written, res.Written...)
	}
	return WriteResult{Written: written}, nil
}

// Slug turns a board name into a file name: lower case, runs of anything but letters and digits
// collapse to a single dash.
func Slug(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	s := strings.TrimSuffix(b.String(), "-")
	if s == "" {
		return "board"
	}
	return s
}

func writeFile(path string, b []byte, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return errors.New("file exists (use --overwrite): " + path)
		}
	}
	return os.WriteFile(path, b, 0o644)
}
