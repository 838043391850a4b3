package format

import (
	"bytes"
	"strings"
	"testing"
)

type listing []string

func (l listing) Table() ([]string, [][]string) {
	rows := make([][]string, 0, len(l))
	for i, name := range l {
		rows = append(rows, []string{name, strings.Repeat("*", i+1)})
	}
	return []string{"NAME", "RANK"}, rows
}

func TestWrite_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, map[string]int{"cards": 2}, "", false); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if got := buf.String(); got != "{\"cards\":2}\n" {
		t.Fatalf("got %q", got)
	}

	buf.Reset()
	if err := Write(&buf, map[string]int{"cards": 2}, "json", true); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if got := buf.String(); got != "{\n  \"cards\": 2\n}\n" {
		t.Fatalf("got %q", got)
	}
}

func TestWrite_TextTable(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, listing{"Sprint", "Backlog"}, "text", false); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"NAME", "RANK", "Sprint", "Backlog", "**"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestWrite_TextFallsBackToJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, map[string]bool{"ok": true}, "text", false); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !strings.Contains(buf.String(), "\"ok\": true") {
		t.Fatalf("got %q", buf.String())
	}
}

func TestWrite_UnknownFormat(t *testing.T) {
	if err := Write(&bytes.Buffer{}, 1, "edn", false); err == nil {
		t.Fatalf("expected error")
	}
}
