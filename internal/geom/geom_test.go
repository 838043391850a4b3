package geom

import "testing"

func TestInsertionIndex_Clamps(t *testing.T) {
	cases := []struct {
		name  string
		y     float64
		count int
		want  int
	}{
		{name: "above content", y: 10, count: 3, want: 0},
		{name: "first slot", y: 100, count: 3, want: 0},
		{name: "second slot", y: 135, count: 3, want: 1},
		{name: "far below", y: 5000, count: 3, want: 3},
		{name: "empty list", y: 400, count: 0, want: 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := InsertionIndex(tc.y, 50, 80, tc.count)
			if got != tc.want {
				t.Fatalf("InsertionIndex(%v) = %d, want %d", tc.y, got, tc.want)
			}
			if got < 0 || got > tc.count {
				t.Fatalf("index %d outside [0,%d]", got, tc.count)
			}
		})
	}
}

func TestInsertionIndex_AlwaysInRange(t *testing.T) {
	for count := 0; count < 6; count++ {
		for y := -500.0; y < 1500; y += 7 {
			got := InsertionIndex(y, 50, 80, count)
			if got < 0 || got > count {
				t.Fatalf("y=%v count=%d -> %d", y, count, got)
			}
		}
	}
}

func TestResolveCardDrop(t *testing.T) {
	m := DefaultMetrics()
	lists := []ListBox{
		{Name: "Todo", Rect: Rect{X: 0, Y: 0, W: 280, H: 600}, ContentTop: 50, CardCount: 2},
		{Name: "Done", Rect: Rect{X: 300, Y: 0, W: 280, H: 600}, ContentTop: 50, CardCount: 4},
	}

	got, ok := ResolveCardDrop(Point{X: 310, Y: 215}, lists, m)
	if !ok || got.List != "Done" || got.Index != 2 {
		t.Fatalf("got %#v ok=%v", got, ok)
	}
	if _, ok := ResolveCardDrop(Point{X: 290, Y: 100}, lists, m); ok {
		t.Fatalf("gap between lists must miss")
	}
	// Edge is inside.
	got, ok = ResolveCardDrop(Point{X: 280, Y: 599}, lists, m)
	if !ok || got.List != "Todo" || got.Index != 2 {
		t.Fatalf("edge: got %#v ok=%v", got, ok)
	}
}

func TestResolveCardDrop_OverlapFirstWins(t *testing.T) {
	lists := []ListBox{
		{Name: "first", Rect: Rect{W: 100, H: 100}, ContentTop: 0},
		{Name: "second", Rect: Rect{W: 100, H: 100}, ContentTop: 0},
	}
	got, ok := ResolveCardDrop(Point{X: 50, Y: 50}, lists, DefaultMetrics())
	if !ok || got.List != "first" {
		t.Fatalf("expected first match; got %#v", got)
	}
}

func TestMeasuredInsertionIndex(t *testing.T) {
	heights := []float64{200, 0, 80}
	// Card 0 spans 50..250 (mid 150), card 1 250..330 (mid 290), card 2 330..410 (mid 370).
	cases := []struct {
		y    float64
		want int
	}{
		{y: 60, want: 0},
		{y: 160, want: 1},
		{y: 300, want: 2},
		{y: 900, want: 3},
	}
	for _, tc := range cases {
		if got := MeasuredInsertionIndex(tc.y, 50, 3, heights, 80); got != tc.want {
			t.Fatalf("y=%v: got %d want %d", tc.y, got, tc.want)
		}
	}
	m := DefaultMetrics()
	m.MeasuredCards = true
	lists := []ListBox{{Name: "L", Rect: Rect{W: 280, H: 1000}, ContentTop: 50, CardCount: 3, CardHeights: heights}}
	got, _ := ResolveCardDrop(Point{X: 10, Y: 160}, lists, m)
	if got.Index != 1 {
		t.Fatalf("measured resolve: got %d", got.Index)
	}
}

func TestResolveListDrop(t *testing.T) {
	cases := []struct {
		x     float64
		count int
		want  int
	}{
		{x: -50, count: 3, want: 0},
		{x: 10, count: 3, want: 0},
		{x: 310, count: 3, want: 1},
		{x: 899, count: 3, want: 2},
		{x: 5000, count: 3, want: 3},
		{x: 5000, count: 0, want: 0},
	}
	for _, tc := range cases {
		if got := ResolveListDrop(tc.x, 0, 300, tc.count); got != tc.want {
			t.Fatalf("x=%v count=%d: got %d want %d", tc.x, tc.count, got, tc.want)
		}
	}
}

func TestDistance(t *testing.T) {
	if d := Distance(Point{X: 0, Y: 0}, Point{X: -3, Y: 9}); d != 9 {
		t.Fatalf("Distance = %v", d)
	}
}

func TestGridHitTest(t *testing.T) {
	g := NewGrid(DefaultMetrics(), Point{}, 600)
	counts := []int{2, 0}

	h := g.HitTest(Point{X: 20, Y: 20}, counts)
	if h.Kind != HitListHeader || h.List != 0 {
		t.Fatalf("header hit: %#v", h)
	}
	h = g.HitTest(Point{X: 20, Y: 140}, counts)
	if h.Kind != HitCard || h.List != 0 || h.Card != 1 {
		t.Fatalf("card hit: %#v", h)
	}
	if h.Rect != (Rect{X: 0, Y: 130, W: 280, H: 80}) {
		t.Fatalf("card rect: %#v", h.Rect)
	}
	h = g.HitTest(Point{X: 320, Y: 100}, counts)
	if h.Kind != HitNone || h.List != 1 {
		t.Fatalf("empty list body: %#v", h)
	}
	h = g.HitTest(Point{X: 2000, Y: 100}, counts)
	if h.Kind != HitNone || h.List != -1 {
		t.Fatalf("outside: %#v", h)
	}
}
