package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func runCLI(t *testing.T, args []string) (stdout []byte, stderr []byte, err error) {
	t.Helper()
	return runCLIWithInput(t, args, "")
}

func runCLIWithInput(t *testing.T, args []string, stdin string) (stdout []byte, stderr []byte, err error) {
	t.Helper()

	cmd := NewRootCmd()

	var outBuf bytes.Buffer
	var errBuf bytes.Buffer
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	e := cmd.Execute()
	return outBuf.Bytes(), errBuf.Bytes(), e
}

// isolate points config, data and backups at a temp dir and returns the document path.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("TASKFLOW_CONFIG", "")
	t.Setenv("TASKFLOW_FORMAT", "")
	return filepath.Join(dir, "board_data.json")
}

func mustRun(t *testing.T, args ...string) map[string]any {
	t.Helper()
	out, errOut, err := runCLI(t, args)
	if err != nil {
		t.Fatalf("%v: %v\nstderr: %s", args, err, errOut)
	}
	var env map[string]any
	if err := json.Unmarshal(out, &env); err != nil {
		t.Fatalf("%v: decode output: %v\n%s", args, err, out)
	}
	return env
}

func listNames(t *testing.T, env map[string]any) []string {
	t.Helper()
	raw, ok := env["data"].([]any)
	if !ok {
		t.Fatalf("expected list names, got %#v", env["data"])
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		out = append(out, v.(string))
	}
	return out
}

func cardTitles(t *testing.T, lv any) []string {
	t.Helper()
	m, ok := lv.(map[string]any)
	if !ok {
		t.Fatalf("expected list view, got %#v", lv)
	}
	out := []string{}
	for _, c := range m["cards"].([]any) {
		out = append(out, c.(map[string]any)["title"].(string))
	}
	return out
}

func seedBoard(t *testing.T, data string) {
	t.Helper()
	mustRun(t, "--data", data, "boards", "create", "Sprint")
	mustRun(t, "--data", data, "lists", "create", "Todo")
	mustRun(t, "--data", data, "lists", "create", "Done")
	for _, title := range []string{"A", "B", "C"} {
		mustRun(t, "--data", data, "cards", "add", "Todo", title)
	}
}

func TestBoardsCreateListShow(t *testing.T) {
	data := isolate(t)
	env := mustRun(t, "--data", data, "boards", "create", "Sprint")
	if hints, _ := env["_hints"].([]any); len(hints) == 0 {
		t.Fatalf("expected hints, got %#v", env)
	}
	mustRun(t, "--data", data, "boards", "create", "Backlog")

	env = mustRun(t, "--data", data, "boards", "list")
	d := env["data"].(map[string]any)
	if d["current"] != "Backlog" {
		t.Fatalf("current = %#v, want Backlog", d["current"])
	}
	var names []string
	for _, b := range d["boards"].([]any) {
		names = append(names, b.(map[string]any)["name"].(string))
	}
	if !reflect.DeepEqual(names, []string{"Sprint", "Backlog"}) {
		t.Fatalf("boards = %v", names)
	}

	mustRun(t, "--data", data, "boards", "use", "Sprint")
	mustRun(t, "--data", data, "lists", "create", "Todo")
	mustRun(t, "--data", data, "cards", "add", "Todo", "Write", "docs")

	env = mustRun(t, "--data", data, "boards", "show")
	d = env["data"].(map[string]any)
	if d["name"] != "Sprint" || d["current"] != true {
		t.Fatalf("unexpected board view: %#v", d)
	}
	lists := d["lists"].([]any)
	if len(lists) != 1 || !reflect.DeepEqual(cardTitles(t, lists[0]), []string{"Write docs"}) {
		t.Fatalf("unexpected lists: %#v", lists)
	}
}

func TestDuplicateNamesAreRejected(t *testing.T) {
	data := isolate(t)
	mustRun(t, "--data", data, "boards", "create", "Sprint")

	_, errOut, err := runCLI(t, []string{"--data", data, "boards", "create", "Sprint"})
	if err == nil {
		t.Fatalf("expected error for duplicate board")
	}
	if !strings.Contains(string(errOut), `a board named "Sprint" already exists`) {
		t.Fatalf("unexpected stderr: %s", errOut)
	}

	mustRun(t, "--data", data, "lists", "create", "Todo")
	if _, _, err := runCLI(t, []string{"--data", data, "lists", "create", "Todo"}); err == nil {
		t.Fatalf("expected error for duplicate list")
	}
}

func TestDeleteRequiresYes(t *testing.T) {
	data := isolate(t)
	seedBoard(t, data)

	_, errOut, err := runCLI(t, []string{"--data", data, "lists", "delete", "Todo"})
	if err == nil {
		t.Fatalf("expected refusal without --yes")
	}
	if !strings.Contains(string(errOut), "--yes") {
		t.Fatalf("unexpected stderr: %s", errOut)
	}
	env := mustRun(t, "--data", data, "lists", "list")
	if !reflect.DeepEqual(listNames(t, env), []string{"Todo", "Done"}) {
		t.Fatalf("list deleted without confirmation: %#v", env)
	}

	env = mustRun(t, "--data", data, "lists", "delete", "Todo", "--yes")
	if !reflect.DeepEqual(listNames(t, env), []string{"Done"}) {
		t.Fatalf("lists after delete = %#v", env)
	}

	if _, _, err := runCLI(t, []string{"--data", data, "boards", "delete", "Sprint"}); err == nil {
		t.Fatalf("expected refusal without --yes")
	}
	env = mustRun(t, "--data", data, "boards", "delete", "Sprint", "--yes")
	d := env["data"].(map[string]any)
	if d["current"] != nil || len(d["boards"].([]any)) != 0 {
		t.Fatalf("unexpected boards after delete: %#v", d)
	}
}

func TestListsRenameAndMove(t *testing.T) {
	data := isolate(t)
	seedBoard(t, data)
	mustRun(t, "--data", data, "lists", "create", "Doing")

	env := mustRun(t, "--data", data, "lists", "move", "Doing", "1")
	if got := listNames(t, env); !reflect.DeepEqual(got, []string{"Todo", "Doing", "Done"}) {
		t.Fatalf("after move = %v", got)
	}
	env = mustRun(t, "--data", data, "lists", "rename", "Doing", "In progress")
	if got := listNames(t, env); !reflect.DeepEqual(got, []string{"Todo", "In progress", "Done"}) {
		t.Fatalf("after rename = %v", got)
	}
}

func TestCardsMoveTitleResize(t *testing.T) {
	data := isolate(t)
	seedBoard(t, data)

	env := mustRun(t, "--data", data, "cards", "move", "Todo", "0", "Todo", "2")
	lists := env["data"].([]any)
	if got := cardTitles(t, lists[0]); !reflect.DeepEqual(got, []string{"B", "C", "A"}) {
		t.Fatalf("same-list move = %v", got)
	}

	env = mustRun(t, "--data", data, "cards", "move", "Todo", "1", "Done", "0")
	lists = env["data"].([]any)
	if got := cardTitles(t, lists[0]); !reflect.DeepEqual(got, []string{"B", "A"}) {
		t.Fatalf("source after move = %v", got)
	}
	if got := cardTitles(t, lists[1]); !reflect.DeepEqual(got, []string{"C"}) {
		t.Fatalf("target after move = %v", got)
	}

	env = mustRun(t, "--data", data, "cards", "title", "Done", "0", "C", "renamed")
	if env["data"].(map[string]any)["title"] != "C renamed" {
		t.Fatalf("title = %#v", env["data"])
	}

	env = mustRun(t, "--data", data, "cards", "resize", "Done", "0", "--width", "300", "--height", "120")
	c := env["data"].(map[string]any)
	if c["width"] != 300.0 || c["height"] != 120.0 {
		t.Fatalf("size = %#v", c)
	}
	env = mustRun(t, "--data", data, "cards", "resize", "Done", "0", "--reset")
	c = env["data"].(map[string]any)
	if _, ok := c["width"]; ok {
		t.Fatalf("expected size reset, got %#v", c)
	}

	if _, _, err := runCLI(t, []string{"--data", data, "cards", "move", "Todo", "x", "Done", "0"}); err == nil {
		t.Fatalf("expected bad index error")
	}
	if _, _, err := runCLI(t, []string{"--data", data, "cards", "move", "Todo", "0", "Nope", "0"}); err == nil {
		t.Fatalf("expected missing list error")
	}
}

func TestTextFormat(t *testing.T) {
	data := isolate(t)
	seedBoard(t, data)

	out, errOut, err := runCLI(t, []string{"--data", data, "--format", "text", "boards", "show"})
	if err != nil {
		t.Fatalf("show: %v\n%s", err, errOut)
	}
	s := string(out)
	for _, want := range []string{"TITLE", "Todo", "A", "C"} {
		if !strings.Contains(s, want) {
			t.Fatalf("text output missing %q:\n%s", want, s)
		}
	}
	if strings.Contains(s, `"data"`) {
		t.Fatalf("text output should not carry the JSON envelope:\n%s", s)
	}
}

func TestGestureReplayCommitsMove(t *testing.T) {
	data := isolate(t)
	seedBoard(t, data)

	script := strings.Join([]string{
		`# drag A from Todo into Done`,
		`{"ev":"down","x":140,"y":90}`,
		`{"ev":"move","x":300,"y":90}`,
		`{"ev":"move","x":440,"y":90}`,
		`{"ev":"up","x":440,"y":90}`,
		``,
		`{"ev":"down","x":140,"y":90,"target":{"kind":"card","list":"Todo","index":0}}`,
		`{"ev":"up","x":142,"y":91}`,
	}, "\n")
	out, errOut, err := runCLIWithInput(t, []string{"--data", data, "gesture"}, script)
	if err != nil {
		t.Fatalf("gesture: %v\n%s", err, errOut)
	}
	var env struct {
		Data gestureReport `json:"data"`
	}
	if err := json.Unmarshal(out, &env); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if env.Data.Events != 6 || len(env.Data.Results) != 2 {
		t.Fatalf("unexpected report: %+v", env.Data)
	}
	first := env.Data.Results[0]
	if first.Outcome != "committed" || first.FromList != "Todo" || first.ToList != "Done" || first.ToIndex != 0 {
		t.Fatalf("unexpected first result: %+v", first)
	}
	second := env.Data.Results[1]
	if second.Outcome != "reverted" || !second.Click || second.FromList != "Todo" || second.ToIndex != 0 {
		t.Fatalf("unexpected second result: %+v", second)
	}

	show := mustRun(t, "--data", data, "boards", "show")
	lists := show["data"].(map[string]any)["lists"].([]any)
	if got := cardTitles(t, lists[0]); !reflect.DeepEqual(got, []string{"B", "C"}) {
		t.Fatalf("Todo after gesture = %v", got)
	}
	if got := cardTitles(t, lists[1]); !reflect.DeepEqual(got, []string{"A"}) {
		t.Fatalf("Done after gesture = %v", got)
	}
}

func TestGestureDryRunDoesNotSave(t *testing.T) {
	data := isolate(t)
	seedBoard(t, data)
	before, err := os.ReadFile(data)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	script := `{"ev":"down","x":140,"y":90}` + "\n" + `{"ev":"up","x":440,"y":90}` + "\n"
	if _, errOut, err := runCLIWithInput(t, []string{"--data", data, "gesture", "--dry-run"}, script); err != nil {
		t.Fatalf("gesture: %v\n%s", err, errOut)
	}
	after, err := os.ReadFile(data)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !bytes.Equal(before, after) {
		t.Fatalf("dry run changed the document")
	}
}

func TestGestureRejectsUnknownEvent(t *testing.T) {
	data := isolate(t)
	seedBoard(t, data)
	_, _, err := runCLIWithInput(t, []string{"--data", data, "gesture"}, `{"ev":"wiggle","x":1,"y":1}`)
	if err == nil || !strings.Contains(err.Error(), "line 1") {
		t.Fatalf("expected line-numbered error, got %v", err)
	}
}

func TestBackupCreateRestore(t *testing.T) {
	data := isolate(t)
	seedBoard(t, data)

	env := mustRun(t, "--data", data, "backup", "create")
	created := env["data"].([]any)
	if len(created) != 1 {
		t.Fatalf("unexpected create output: %#v", env)
	}

	mustRun(t, "--data", data, "cards", "delete", "Todo", "0", "--yes")

	if _, _, err := runCLI(t, []string{"--data", data, "backup", "restore", "latest"}); err == nil {
		t.Fatalf("expected refusal without --yes")
	}
	mustRun(t, "--data", data, "backup", "restore", "latest", "--yes")

	show := mustRun(t, "--data", data, "boards", "show")
	lists := show["data"].(map[string]any)["lists"].([]any)
	if got := cardTitles(t, lists[0]); !reflect.DeepEqual(got, []string{"A", "B", "C"}) {
		t.Fatalf("Todo after restore = %v", got)
	}

	env = mustRun(t, "--data", data, "backup", "list")
	if got := len(env["data"].([]any)); got != 1 {
		t.Fatalf("backups = %d, want 1", got)
	}
}

func TestPublishStdoutAndDirectory(t *testing.T) {
	data := isolate(t)
	seedBoard(t, data)

	out, errOut, err := runCLI(t, []string{"--data", data, "publish"})
	if err != nil {
		t.Fatalf("publish: %v\n%s", err, errOut)
	}
	md := string(out)
	for _, want := range []string{"# Sprint", "## Todo", "- A", "## Done", "_No cards._"} {
		if !strings.Contains(md, want) {
			t.Fatalf("markdown missing %q:\n%s", want, md)
		}
	}

	to := filepath.Join(t.TempDir(), "site")
	mustRun(t, "--data", data, "publish", "--all", "--to", to)
	if _, err := os.Stat(filepath.Join(to, "index.md")); err != nil {
		t.Fatalf("index.md: %v", err)
	}
	if _, err := os.Stat(filepath.Join(to, "boards", "sprint.md")); err != nil {
		t.Fatalf("board file: %v", err)
	}
	if _, _, err := runCLI(t, []string{"--data", data, "publish", "--all", "--to", to}); err == nil {
		t.Fatalf("expected refusal to overwrite")
	}
	mustRun(t, "--data", data, "publish", "--all", "--to", to, "--overwrite")
}

func TestDoctorReportsWithoutQuarantine(t *testing.T) {
	data := isolate(t)

	env := mustRun(t, "--data", data, "doctor")
	d := env["data"].(map[string]any)
	if d["exists"] != false || d["valid"] != true {
		t.Fatalf("missing document should be healthy: %#v", d)
	}

	seedBoard(t, data)
	env = mustRun(t, "--data", data, "doctor")
	d = env["data"].(map[string]any)
	if d["boards"] != 1.0 || d["lists"] != 2.0 || d["cards"] != 3.0 || d["current"] != "Sprint" {
		t.Fatalf("unexpected counts: %#v", d)
	}

	if err := os.WriteFile(data, []byte(`{"boards":`), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	_, _, err := runCLI(t, []string{"--data", data, "doctor", "--fail"})
	if err == nil {
		t.Fatalf("expected --fail to report the broken document")
	}
	matches, _ := filepath.Glob(data + ".corrupt-*")
	if len(matches) != 0 {
		t.Fatalf("doctor must not quarantine: %v", matches)
	}
	if b, _ := os.ReadFile(data); string(b) != `{"boards":` {
		t.Fatalf("doctor modified the document: %q", b)
	}
}

func TestSQLiteBackend(t *testing.T) {
	isolate(t)
	db := filepath.Join(t.TempDir(), "taskflow.db")
	mustRun(t, "--data", db, "--backend", "sqlite", "boards", "create", "Sprint")
	mustRun(t, "--data", db, "--backend", "sqlite", "lists", "create", "Todo")
	env := mustRun(t, "--data", db, "--backend", "sqlite", "lists", "list")
	if got := listNames(t, env); !reflect.DeepEqual(got, []string{"Todo"}) {
		t.Fatalf("lists = %v", got)
	}
}

func TestUnknownBackendFails(t *testing.T) {
	data := isolate(t)
	if _, _, err := runCLI(t, []string{"--data", data, "--backend", "etcd", "boards", "list"}); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}

func TestDocsTopics(t *testing.T) {
	data := isolate(t)
	env := mustRun(t, "--data", data, "docs")
	if len(env["data"].([]any)) == 0 {
		t.Fatalf("no topics listed")
	}
	out, _, err := runCLI(t, []string{"--data", data, "docs", "gestures"})
	if err != nil || !strings.Contains(string(out), `{"ev":"down"`) {
		t.Fatalf("docs gestures: %v\n%s", err, out)
	}
	if _, _, err := runCLI(t, []string{"--data", data, "docs", "nope"}); err == nil {
		t.Fatalf("expected unknown topic error")
	}
}

func TestPublishHTMLToStdout(t *testing.T) {
	data := isolate(t)
	seedBoard(t, data)
	out, errOut, err := runCLI(t, []string{"--data", data, "publish", "--html"})
	if err != nil {
		t.Fatalf("publish --html: %v\n%s", err, errOut)
	}
	for _, want := range []string{"<title>Sprint</title>", "<h2>Todo</h2>"} {
		if !strings.Contains(string(out), want) {
			t.Fatalf("html missing %q:\n%s", want, out)
		}
	}
}

func TestGestureReportsUnreleasedDown(t *testing.T) {
	data := isolate(t)
	seedBoard(t, data)
	before, err := os.ReadFile(data)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	script := `{"ev":"down","x":140,"y":90}` + "\n" + `{"ev":"move","x":440,"y":90}` + "\n"
	out, errOut, err := runCLIWithInput(t, []string{"--data", data, "gesture"}, script)
	if err == nil {
		t.Fatalf("expected an error for a gesture left unfinished")
	}
	if !strings.Contains(string(errOut), "line 1") {
		t.Fatalf("unexpected stderr: %s", errOut)
	}
	var env struct {
		Data gestureReport `json:"data"`
	}
	if err := json.Unmarshal(out, &env); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if env.Data.Unreleased != 1 || len(env.Data.Results) != 0 {
		t.Fatalf("unexpected report: %+v", env.Data)
	}

	after, err := os.ReadFile(data)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !bytes.Equal(before, after) {
		t.Fatalf("unfinished gesture changed the document")
	}
}

func TestUnreadableDocumentIsNotOverwritten(t *testing.T) {
	data := isolate(t)
	if err := os.MkdirAll(data, 0o755); err != nil {
		t.Fatal(err)
	}
	keep := filepath.Join(data, "keep")
	if err := os.WriteFile(keep, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, errOut, err := runCLI(t, []string{"--data", data, "boards", "create", "Sprint"})
	if err == nil {
		t.Fatalf("expected the save to be refused")
	}
	if !strings.Contains(string(errOut), "refusing to overwrite") {
		t.Fatalf("stderr should explain the refusal: %s", errOut)
	}
	if _, err := os.Stat(keep); err != nil {
		t.Fatalf("stored content was touched: %v", err)
	}
}
