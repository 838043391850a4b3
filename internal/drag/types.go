package drag

import (
	"taskflow/internal/board"
	"taskflow/internal/geom"
	"taskflow/internal/model"
)

type Kind int

const (
	KindCard Kind = iota + 1
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindCard:
		return "card"
	case KindList:
		return "list"
	default:
		return "none"
	}
}

type State int

const (
	Idle State = iota
	Armed
	Tracking
	Committing
	Reverting
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Armed:
		return "armed"
	case Tracking:
		return "tracking"
	case Committing:
		return "committing"
	case Reverting:
		return "reverting"
	default:
		return "unknown"
	}
}

// Target is the draggable element under a pointer-down. Index is the card position and is
// ignored for lists. Rect is the element's on-screen rectangle; the ghost keeps the pointer at
// the same spot inside it.
type Target struct {
	Kind  Kind
	List  string
	Index int
	Rect  geom.Rect
}

// Scope says what needs redrawing after a mutation.
type Scope struct {
	Full bool
	List string
}

func FullBoard() Scope { return Scope{Full: true} }

func SingleList(name string) Scope { return Scope{List: name} }

// Presenter is what the engine needs from the presentation layer. Rectangles and positions
// refer to the lists of the current board as currently displayed.
type Presenter interface {
	VisibleLists() []string
	ListRect(name string) (geom.Rect, bool)
	ListContentTop(name string) float64
	ListContainerLeft() float64
	RequestRerender(Scope)
}

// Saver mirrors the store to persistent storage.
type Saver interface {
	Save(st *board.Store) error
}

// Session is the state of one gesture, from pickup to release.
type Session struct {
	Kind        Kind
	Board       string
	SourceList  string
	SourceIndex int

	Card model.Card
	List *model.List

	Origin  geom.Point
	Offset  geom.Point
	Pointer geom.Point
}

// Ghost is where the dragged element's top-left corner should be drawn.
func (s Session) Ghost() geom.Point {
	return s.Pointer.Sub(s.Offset)
}

// Title is a short label for the held entity.
func (s Session) Title() string {
	if s.Kind == KindCard {
		return s.Card.Title
	}
	return s.SourceList
}

// Hover is the advisory drop target while tracking. For list drags only Index is meaningful.
type Hover struct {
	List  string
	Index int
}

type Outcome int

const (
	Committed Outcome = iota + 1
	Reverted
	Recovered
)

func (o Outcome) String() string {
	switch o {
	case Committed:
		return "committed"
	case Reverted:
		return "reverted"
	case Recovered:
		return "recovered"
	default:
		return "none"
	}
}

// Result describes how a gesture ended.
type Result struct {
	Outcome Outcome
	Kind    Kind
	Board   string

	FromList  string
	FromIndex int
	ToList    string
	ToIndex   int

	// Click is set when the release was within the click threshold of the origin.
	Click bool
	// Miss is set when the release resolved to no valid target.
	Miss bool

	SaveErr error
}
