package geom

// Grid is the nominal layout: lists every ListPitch from Origin.X, each list ListWidth wide,
// a HeaderHeight header, then cards every CardPitch. It stands in for a real presentation
// layer in gesture replay and tests.
type Grid struct {
	Metrics
	Origin Point
	// Height is the height of every list rectangle.
	Height float64
}

func NewGrid(m Metrics, origin Point, height float64) Grid {
	return Grid{Metrics: m, Origin: origin, Height: height}
}

func (g Grid) ListRect(i int) Rect {
	return Rect{
		X: g.Origin.X + float64(i)*g.ListPitch,
		Y: g.Origin.Y,
		W: g.ListWidth,
		H: g.Height,
	}
}

func (g Grid) ContentTop() float64 {
	return g.Origin.Y + g.HeaderHeight
}

func (g Grid) CardRect(list, card int) Rect {
	lr := g.ListRect(list)
	return Rect{
		X: lr.X,
		Y: g.ContentTop() + float64(card)*g.CardPitch,
		W: lr.W,
		H: g.CardPitch,
	}
}

// HitKind tells what a pointer landed on.
type HitKind int

const (
	HitNone HitKind = iota
	HitListHeader
	HitCard
)

type Hit struct {
	Kind HitKind
	List int
	Card int
	Rect Rect
}

// HitTest maps p to a list header or card. counts holds the card count of each visible list.
func (g Grid) HitTest(p Point, counts []int) Hit {
	for i := range counts {
		lr := g.ListRect(i)
		if !lr.Contains(p) {
			continue
		}
		if p.Y < g.ContentTop() {
			return Hit{Kind: HitListHeader, List: i, Card: -1, Rect: lr}
		}
		c := int((p.Y - g.ContentTop()) / g.CardPitch)
		if c >= 0 && c < counts[i] {
			return Hit{Kind: HitCard, List: i, Card: c, Rect: g.CardRect(i, c)}
		}
		return Hit{Kind: HitNone, List: i, Card: -1}
	}
	return Hit{Kind: HitNone, List: -1, Card: -1}
}
