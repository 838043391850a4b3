package drag

import (
	"taskflow/internal/board"
	"taskflow/internal/geom"
)

// GridPresenter lays out the current board on a geom.Grid. It is the presenter used for
// headless gesture replay; redraw requests are only recorded.
type GridPresenter struct {
	Store *board.Store
	Grid  geom.Grid

	Rerenders []Scope
}

func NewGridPresenter(st *board.Store, g geom.Grid) *GridPresenter {
	return &GridPresenter{Store: st, Grid: g}
}

func (g *GridPresenter) VisibleLists() []string {
	names, err := g.Store.Lists(g.Store.Current())
	if err != nil {
		return nil
	}
	return names
}

func (g *GridPresenter) ListRect(name string) (geom.Rect, bool) {
	for i, n := range g.VisibleLists() {
		if n == name {
			return g.Grid.ListRect(i), true
		}
	}
	return geom.Rect{}, false
}

func (g *GridPresenter) ListContentTop(string) float64 {
	return g.Grid.ContentTop()
}

func (g *GridPresenter) ListContainerLeft() float64 {
	return g.Grid.Origin.X
}

func (g *GridPresenter) RequestRerender(s Scope) {
	g.Rerenders = append(g.Rerenders, s)
}

// TargetAt hit-tests p against the current layout: a card, a list header, or nothing.
func (g *GridPresenter) TargetAt(p geom.Point) (Target, bool) {
	names := g.VisibleLists()
	counts := make([]int, len(names))
	for i, n := range names {
		if l, err := g.Store.List(g.Store.Current(), n); err == nil {
			counts[i] = l.Len()
		}
	}
	hit := g.Grid.HitTest(p, counts)
	switch hit.Kind {
	case geom.HitCard:
		return Target{Kind: KindCard, List: names[hit.List], Index: hit.Card, Rect: hit.Rect}, true
	case geom.HitListHeader:
		return Target{Kind: KindList, List: names[hit.List], Rect: hit.Rect}, true
	default:
		return Target{}, false
	}
}
