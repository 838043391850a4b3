// Package geom resolves drop targets from pointer positions. Everything here is a pure
// function of its inputs; rectangles come from whatever layout the presentation layer uses.
package geom

import "math"

type Point struct {
	X float64
	Y float64
}

func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// Rect is an axis-aligned rectangle with its origin at the top-left corner.
type Rect struct {
	X, Y float64
	W, H float64
}

func (r Rect) Min() Point { return Point{X: r.X, Y: r.Y} }

// Contains uses closed bounds: a pointer exactly on an edge is inside.
func (r Rect) Contains(p Point) bool {
	return r.X <= p.X && p.X <= r.X+r.W && r.Y <= p.Y && p.Y <= r.Y+r.H
}

// Metrics are the nominal layout constants the resolver measures against.
type Metrics struct {
	HeaderHeight   float64
	CardPitch      float64
	ListPitch      float64
	ListWidth      float64
	ClickThreshold float64

	// MeasuredCards switches card-drop resolution from the fixed pitch to the cards' own
	// heights.
	MeasuredCards bool
}

func DefaultMetrics() Metrics {
	return Metrics{
		HeaderHeight:   50,
		CardPitch:      80,
		ListPitch:      300,
		ListWidth:      280,
		ClickThreshold: 10,
	}
}

// Distance is the Chebyshev distance used for click-vs-drag decisions.
func Distance(a, b Point) float64 {
	return math.Max(math.Abs(a.X-b.X), math.Abs(a.Y-b.Y))
}

// ListBox is one visible list as seen by the resolver.
type ListBox struct {
	Name       string
	Rect       Rect
	ContentTop float64
	CardCount  int

	// CardHeights is only consulted in measured mode; missing entries use the nominal pitch.
	CardHeights []float64
}

type CardDrop struct {
	List  string
	Index int
}

// ResolveCardDrop finds the list under p and the insertion index within it. Lists are scanned
// in order and the first containing rectangle wins; with a consistent layout at most one can
// match, and with an inconsistent one the result is still deterministic.
func ResolveCardDrop(p Point, lists []ListBox, m Metrics) (CardDrop, bool) {
	for _, lb := range lists {
		if !lb.Rect.Contains(p) {
			continue
		}
		var idx int
		if m.MeasuredCards {
			idx = MeasuredInsertionIndex(p.Y, lb.ContentTop, lb.CardCount, lb.CardHeights, m.CardPitch)
		} else {
			idx = InsertionIndex(p.Y, lb.ContentTop, m.CardPitch, lb.CardCount)
		}
		return CardDrop{List: lb.Name, Index: idx}, true
	}
	return CardDrop{}, false
}

// InsertionIndex is clamp(floor((y - contentTop) / pitch), 0, count).
func InsertionIndex(y, contentTop, pitch float64, count int) int {
	if pitch <= 0 {
		return count
	}
	return clamp(int(math.Floor((y-contentTop)/pitch)), 0, count)
}

// MeasuredInsertionIndex walks the actual card extents and inserts before the first card whose
// vertical midpoint is below y.
func MeasuredInsertionIndex(y, contentTop float64, count int, heights []float64, pitch float64) int {
	top := contentTop
	for i := 0; i < count; i++ {
		h := pitch
		if i < len(heights) && heights[i] > 0 {
			h = heights[i]
		}
		if y < top+h/2 {
			return i
		}
		top += h
	}
	return count
}

// ResolveListDrop is clamp(floor((x - containerLeft) / listPitch), 0, listCount), where
// listCount excludes the list being dragged.
func ResolveListDrop(x, containerLeft, listPitch float64, listCount int) int {
	if listPitch <= 0 {
		return listCount
	}
	return clamp(int(math.Floor((x-containerLeft)/listPitch)), 0, listCount)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
