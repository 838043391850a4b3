package tui

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"taskflow/internal/board"
	"taskflow/internal/geom"
)

type countingSaver struct {
	saves int
	err   error
}

func (s *countingSaver) Save(*board.Store) error {
	s.saves++
	return s.err
}

// cellMetrics mirrors the ui.* defaults: 3 header rows, 4-row cards, 28-wide lists, 2-cell gap.
func cellMetrics() geom.Metrics {
	return geom.Metrics{HeaderHeight: 3, CardPitch: 4, ListPitch: 30, ListWidth: 28, ClickThreshold: 1}
}

func newTestModel(t *testing.T, lists map[string][]string, order ...string) (*boardModel, *countingSaver) {
	t.Helper()
	st := board.New()
	st.SetClock(func() time.Time { return time.Date(2026, 10, 19, 9, 0, 0, 0, time.Local) })
	if err := st.CreateBoard("Sprint"); err != nil {
		t.Fatalf("CreateBoard: %v", err)
	}
	for _, name := range order {
		if err := st.CreateList("Sprint", name); err != nil {
			t.Fatalf("CreateList: %v", err)
		}
		for _, title := range lists[name] {
			if _, err := st.CreateCard("Sprint", name, title); err != nil {
				t.Fatalf("CreateCard: %v", err)
			}
		}
	}
	saver := &countingSaver{}
	m := newBoardModel(Options{Store: st, Saver: saver, Metrics: cellMetrics()})
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return m, saver
}

func titlesOf(t *testing.T, m *boardModel, list string) []string {
	t.Helper()
	l, err := m.st.List(m.st.Current(), list)
	if err != nil {
		t.Fatalf("List(%q): %v", list, err)
	}
	out := []string{}
	for _, c := range l.Cards {
		out = append(out, c.Title)
	}
	return out
}

// cardCell is inside card j of visible list i.
func cardCell(i, j int) (int, int) { return i*30 + 5, 6 + 4*j }

func headerCell(i int) (int, int) { return i*30 + 3, 3 }

func mouse(m *boardModel, action tea.MouseAction, x, y int) {
	m.Update(tea.MouseMsg{X: x, Y: y, Action: action, Button: tea.MouseButtonLeft})
}

func dragTo(m *boardModel, x0, y0, x1, y1 int) {
	mouse(m, tea.MouseActionPress, x0, y0)
	mouse(m, tea.MouseActionMotion, x1, y1)
	mouse(m, tea.MouseActionRelease, x1, y1)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestMouseDrag_CardAcrossLists(t *testing.T) {
	m, saver := newTestModel(t, map[string][]string{"Todo": {"Write spec", "Review"}}, "Todo", "Done")

	x0, y0 := cardCell(0, 0)
	x1, y1 := cardCell(1, 0)
	dragTo(m, x0, y0, x1, y1)

	if got := titlesOf(t, m, "Todo"); !reflect.DeepEqual(got, []string{"Review"}) {
		t.Fatalf("Todo = %v", got)
	}
	if got := titlesOf(t, m, "Done"); !reflect.DeepEqual(got, []string{"Write spec"}) {
		t.Fatalf("Done = %v", got)
	}
	if saver.saves != 1 {
		t.Fatalf("saves = %d, want 1", saver.saves)
	}
	if list, idx, ok := m.selectedCard(); !ok || list != "Done" || idx != 0 {
		t.Fatalf("selection should follow the card, got %q %d", list, idx)
	}
	if !strings.Contains(m.status, "Done #1") {
		t.Fatalf("status = %q", m.status)
	}
}

func TestMouseDrag_SameListReorder(t *testing.T) {
	m, _ := newTestModel(t, map[string][]string{"Todo": {"A", "B", "C", "D", "E"}}, "Todo")

	x0, y0 := cardCell(0, 2)
	// Slot 3 of the shortened list spans rows 17..20.
	dragTo(m, x0, y0, 5, 18)

	if got := titlesOf(t, m, "Todo"); !reflect.DeepEqual(got, []string{"A", "B", "D", "C", "E"}) {
		t.Fatalf("Todo = %v", got)
	}
}

func TestMouseDrag_ListReorder(t *testing.T) {
	m, _ := newTestModel(t, nil, "Todo", "Doing", "Done")

	x0, y0 := headerCell(0)
	dragTo(m, x0, y0, 65, y0)

	got, _ := m.st.Lists("Sprint")
	if !reflect.DeepEqual(got, []string{"Doing", "Done", "Todo"}) {
		t.Fatalf("lists = %v", got)
	}
}

func TestMouseClick_SelectsWithoutMoving(t *testing.T) {
	m, saver := newTestModel(t, map[string][]string{"Todo": {"A", "B"}}, "Todo", "Done")

	x, y := cardCell(0, 1)
	mouse(m, tea.MouseActionPress, x, y)
	if got := titlesOf(t, m, "Todo"); !reflect.DeepEqual(got, []string{"A"}) {
		t.Fatalf("card should be held while pressed, Todo = %v", got)
	}
	mouse(m, tea.MouseActionRelease, x, y)

	if got := titlesOf(t, m, "Todo"); !reflect.DeepEqual(got, []string{"A", "B"}) {
		t.Fatalf("Todo = %v", got)
	}
	if list, idx, ok := m.selectedCard(); !ok || list != "Todo" || idx != 1 {
		t.Fatalf("selection = %q %d", list, idx)
	}
	if m.status != "" {
		t.Fatalf("a click should not report anything, got %q", m.status)
	}
	if saver.saves != 1 {
		t.Fatalf("saves = %d", saver.saves)
	}
}

func TestMouseDrag_DropOnNothingPutsBack(t *testing.T) {
	m, _ := newTestModel(t, map[string][]string{"Todo": {"A", "B"}}, "Todo")

	x0, y0 := cardCell(0, 0)
	dragTo(m, x0, y0, 100, 20)

	if got := titlesOf(t, m, "Todo"); !reflect.DeepEqual(got, []string{"A", "B"}) {
		t.Fatalf("Todo = %v", got)
	}
	if !strings.Contains(m.status, "put back") {
		t.Fatalf("status = %q", m.status)
	}
}

func TestMouse_TabSwitchesBoard(t *testing.T) {
	m, _ := newTestModel(t, nil, "Todo")
	if err := m.st.CreateBoard("Backlog"); err != nil {
		t.Fatalf("CreateBoard: %v", err)
	}
	if err := m.st.SetCurrent("Sprint"); err != nil {
		t.Fatalf("SetCurrent: %v", err)
	}
	spans := m.tabSpans()
	if len(spans) != 2 {
		t.Fatalf("tabs = %+v", spans)
	}
	mouse(m, tea.MouseActionPress, spans[1].x0+1, 0)
	if m.st.Current() != "Backlog" {
		t.Fatalf("current = %q", m.st.Current())
	}
}

func TestKeys_PromptCreatesList(t *testing.T) {
	m, saver := newTestModel(t, nil, "Todo")

	m.Update(runes("n"))
	if m.mode != modePrompt {
		t.Fatalf("expected prompt mode")
	}
	m.Update(runes("Later"))
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	got, _ := m.st.Lists("Sprint")
	if !reflect.DeepEqual(got, []string{"Todo", "Later"}) {
		t.Fatalf("lists = %v", got)
	}
	if name, _ := m.selectedList(); name != "Later" {
		t.Fatalf("selected = %q", name)
	}
	if saver.saves != 1 {
		t.Fatalf("saves = %d", saver.saves)
	}

	// Duplicate names are reported, not applied.
	m.Update(runes("n"))
	m.Update(runes("Todo"))
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !m.statusErr || !strings.Contains(m.status, "already exists") {
		t.Fatalf("status = %q", m.status)
	}
	got, _ = m.st.Lists("Sprint")
	if len(got) != 2 {
		t.Fatalf("lists = %v", got)
	}
}

func TestKeys_DeleteNeedsConfirmation(t *testing.T) {
	m, _ := newTestModel(t, map[string][]string{"Todo": {"A"}}, "Todo", "Done")

	m.Update(runes("x"))
	if m.mode != modeConfirm {
		t.Fatalf("expected confirm mode")
	}
	m.Update(runes("n"))
	if got, _ := m.st.Lists("Sprint"); len(got) != 2 {
		t.Fatalf("declined delete removed a list: %v", got)
	}

	m.Update(runes("x"))
	m.Update(runes("y"))
	if got, _ := m.st.Lists("Sprint"); !reflect.DeepEqual(got, []string{"Done"}) {
		t.Fatalf("lists = %v", got)
	}
}

func TestKeys_MoveCardBetweenLists(t *testing.T) {
	m, _ := newTestModel(t, map[string][]string{"Todo": {"A", "B"}, "Done": {"Z"}}, "Todo", "Done")

	m.Update(runes("j"))
	m.Update(runes(">"))

	if got := titlesOf(t, m, "Done"); !reflect.DeepEqual(got, []string{"Z", "B"}) {
		t.Fatalf("Done = %v", got)
	}
	if list, idx, _ := m.selectedCard(); list != "Done" || idx != 1 {
		t.Fatalf("selection = %q %d", list, idx)
	}
}

func TestSaveFailureShowsInStatus(t *testing.T) {
	m, saver := newTestModel(t, map[string][]string{"Todo": {"A"}}, "Todo", "Done")
	saver.err = errors.New("disk full")

	x0, y0 := cardCell(0, 0)
	x1, y1 := cardCell(1, 0)
	dragTo(m, x0, y0, x1, y1)

	if !m.statusErr || !strings.Contains(m.status, "disk full") {
		t.Fatalf("status = %q", m.status)
	}
	if got := titlesOf(t, m, "Done"); !reflect.DeepEqual(got, []string{"A"}) {
		t.Fatalf("the move must stand even when saving fails, Done = %v", got)
	}
}

func TestView_RendersBoard(t *testing.T) {
	m, _ := newTestModel(t, map[string][]string{"Todo": {"Write spec"}}, "Todo", "Done")
	out := m.View()
	for _, want := range []string{"Sprint", "Todo", "Done", "Write spec", "1 card", "0 cards"} {
		if !strings.Contains(out, want) {
			t.Fatalf("view missing %q:\n%s", want, out)
		}
	}
	if n := strings.Count(out, "\n") + 1; n != 40 {
		t.Fatalf("view is %d rows, want 40", n)
	}

	x, y := cardCell(0, 0)
	mouse(m, tea.MouseActionPress, x, y)
	mouse(m, tea.MouseActionMotion, 35, 6)
	if out := m.View(); !strings.Contains(out, `Dragging card "Write spec" → Done #1`) {
		t.Fatalf("ghost line missing:\n%s", out)
	}
}

func TestMouseDrag_ListPickupWhileScrolled(t *testing.T) {
	m, _ := newTestModel(t, nil, "A", "B", "C")
	m.Update(tea.WindowSizeMsg{Width: 40, Height: 40})
	m.layout.setScroll(2)

	// With the board scrolled to C, its header sits at the left edge.
	x, y := headerCell(0)
	mouse(m, tea.MouseActionPress, x, y)
	if sess, ok := m.drag.Session(); !ok || sess.SourceList != "C" {
		t.Fatalf("expected C to be held, got %+v", sess)
	}
	names := m.lists()
	if m.selList >= len(names) {
		t.Fatalf("selection %d past the %d remaining lists", m.selList, len(names))
	}
	if from, to := m.layout.visibleRange(); from > to || to > len(names) {
		t.Fatalf("visible range [%d,%d) past %d lists", from, to, len(names))
	}
	_ = m.View()

	mouse(m, tea.MouseActionRelease, x, y)
	got, _ := m.st.Lists("Sprint")
	if !reflect.DeepEqual(got, []string{"A", "B", "C"}) {
		t.Fatalf("lists = %v", got)
	}
	_ = m.View()
}

func TestResizeDuringListDrag(t *testing.T) {
	m, _ := newTestModel(t, nil, "A", "B", "C")
	m.Update(tea.WindowSizeMsg{Width: 70, Height: 40})
	m.layout.setScroll(1)

	x, y := headerCell(1)
	mouse(m, tea.MouseActionPress, x, y)
	if sess, ok := m.drag.Session(); !ok || sess.SourceList != "C" {
		t.Fatalf("expected C to be held, got %+v", sess)
	}

	done := make(chan struct{})
	go func() {
		m.Update(tea.WindowSizeMsg{Width: 71, Height: 40})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("resize during a list drag did not return")
	}
	_ = m.View()

	// B is now the leftmost visible list; dropping on it puts C in its place.
	x1, _ := headerCell(0)
	mouse(m, tea.MouseActionMotion, x1, y)
	mouse(m, tea.MouseActionRelease, x1, y)
	got, _ := m.st.Lists("Sprint")
	if !reflect.DeepEqual(got, []string{"A", "C", "B"}) {
		t.Fatalf("lists = %v", got)
	}
	if m.selList >= len(got) {
		t.Fatalf("selection %d past %d lists", m.selList, len(got))
	}
}

func TestEnsureVisible_ClampsIndex(t *testing.T) {
	m, _ := newTestModel(t, nil, "A", "B")
	m.Update(tea.WindowSizeMsg{Width: 40, Height: 40})
	m.layout.ensureVisible(5)
	if m.layout.scroll != 1 {
		t.Fatalf("scroll = %d, want 1", m.layout.scroll)
	}
	m.layout.ensureVisible(-3)
	if m.layout.scroll != 0 {
		t.Fatalf("scroll = %d, want 0", m.layout.scroll)
	}
}
