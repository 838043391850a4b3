package tui

import (
	"taskflow/internal/board"
	"taskflow/internal/drag"
	"taskflow/internal/geom"
)

// Rows above the list columns: the board tabs and a spacer.
const topRows = 2

// Rows below the list columns: status and help.
const footerRows = 2

// boardLayout places the current board's lists on a cell grid, scrolled horizontally so that the
// list at index scroll is leftmost. It answers the drag engine's geometry questions from the
// same numbers the view renders with.
type boardLayout struct {
	st     *board.Store
	grid   geom.Grid
	scroll int
	width  int

	pending []drag.Scope
}

func newBoardLayout(st *board.Store, m geom.Metrics) *boardLayout {
	return &boardLayout{
		st:   st,
		grid: geom.NewGrid(m, geom.Point{Y: topRows}, 0),
	}
}

func (l *boardLayout) resize(width, height int) {
	l.width = width
	l.grid.Height = float64(max(0, height-topRows-footerRows))
	l.setScroll(l.scroll)
}

func (l *boardLayout) lists() []string {
	names, err := l.st.Lists(l.st.Current())
	if err != nil {
		return nil
	}
	return names
}

func (l *boardLayout) setScroll(s int) {
	n := len(l.lists())
	l.scroll = max(0, min(s, n-1))
	l.grid.Origin.X = -float64(l.scroll) * l.grid.ListPitch
}

// visibleRange is the half-open range of list indices drawn in full. At least one list is
// visible when the board has any. A scroll position left stale by a removed list is clamped first.
func (l *boardLayout) visibleRange() (int, int) {
	n := len(l.lists())
	if n == 0 {
		return 0, 0
	}
	if l.scroll > n-1 {
		l.setScroll(l.scroll)
	}
	to := l.scroll + 1
	for to < n {
		r := l.grid.ListRect(to)
		if r.X+r.W > float64(l.width) {
			break
		}
		to++
	}
	return l.scroll, to
}

// ensureVisible scrolls until list i is drawn in full. i is clamped to the lists that exist.
func (l *boardLayout) ensureVisible(i int) {
	n := len(l.lists())
	if n == 0 {
		l.setScroll(0)
		return
	}
	i = max(0, min(i, n-1))
	if i < l.scroll {
		l.setScroll(i)
		return
	}
	for {
		_, to := l.visibleRange()
		if i < to || l.scroll >= i {
			return
		}
		prev := l.scroll
		l.setScroll(l.scroll + 1)
		if l.scroll == prev {
			return
		}
	}
}

func (l *boardLayout) VisibleLists() []string {
	names := l.lists()
	from, to := l.visibleRange()
	return names[from:to]
}

func (l *boardLayout) ListRect(name string) (geom.Rect, bool) {
	names := l.lists()
	from, to := l.visibleRange()
	for i := from; i < to; i++ {
		if names[i] == name {
			return l.grid.ListRect(i), true
		}
	}
	return geom.Rect{}, false
}

func (l *boardLayout) ListContentTop(string) float64 { return l.grid.ContentTop() }

func (l *boardLayout) ListContainerLeft() float64 { return l.grid.Origin.X }

func (l *boardLayout) RequestRerender(s drag.Scope) {
	l.pending = append(l.pending, s)
}

func (l *boardLayout) takeRerenders() []drag.Scope {
	out := l.pending
	l.pending = nil
	return out
}

// cardRows is how many cards of a list fit on screen.
func (l *boardLayout) cardRows() int {
	avail := l.grid.Height - l.grid.HeaderHeight
	if avail <= 0 || l.grid.CardPitch <= 0 {
		return 0
	}
	return int(avail / l.grid.CardPitch)
}

// TargetAt hit-tests a cell against the visible lists.
func (l *boardLayout) TargetAt(p geom.Point) (drag.Target, bool) {
	names := l.lists()
	counts := make([]int, len(names))
	for i, n := range names {
		if lst, err := l.st.List(l.st.Current(), n); err == nil {
			counts[i] = min(lst.Len(), l.cardRows())
		}
	}
	hit := l.grid.HitTest(p, counts)
	from, to := l.visibleRange()
	if hit.List < from || hit.List >= to {
		return drag.Target{}, false
	}
	switch hit.Kind {
	case geom.HitCard:
		return drag.Target{Kind: drag.KindCard, List: names[hit.List], Index: hit.Card, Rect: hit.Rect}, true
	case geom.HitListHeader:
		return drag.Target{Kind: drag.KindList, List: names[hit.List], Rect: hit.Rect}, true
	default:
		return drag.Target{}, false
	}
}
