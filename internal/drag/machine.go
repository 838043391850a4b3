// Package drag turns pointer events into moves of cards and lists.
//
// A Machine owns at most one gesture at a time. Pointer-down detaches the picked entity from
// the board store; pointer-up always hands it back exactly once (committed at the resolved
// target, reverted to its origin, or re-homed when its origin vanished), saves, requests a
// redraw and returns to Idle.
package drag

import (
	"errors"

	"taskflow/internal/board"
	"taskflow/internal/geom"
	"taskflow/internal/logging"
)

const defaultRecoveredName = "Recovered"

type Options struct {
	Metrics geom.Metrics
	Logger  logging.Logger

	// RecoveredName names the synthetic list/board that receives entities whose origin was
	// deleted mid-gesture.
	RecoveredName string
}

type Machine struct {
	store *board.Store
	pres  Presenter
	saver Saver
	opts  Options
	log   logging.Logger

	state State
	sess  *Session
	hover *Hover
}

func New(st *board.Store, pres Presenter, saver Saver, opts Options) *Machine {
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}
	if opts.Metrics == (geom.Metrics{}) {
		opts.Metrics = geom.DefaultMetrics()
	}
	if opts.RecoveredName == "" {
		opts.RecoveredName = defaultRecoveredName
	}
	return &Machine{
		store: st,
		pres:  pres,
		saver: saver,
		opts:  opts,
		log:   opts.Logger.With("component", "drag"),
	}
}

func (m *Machine) State() State { return m.state }

// Session returns a copy of the live session.
func (m *Machine) Session() (Session, bool) {
	if m.sess == nil {
		return Session{}, false
	}
	return *m.sess, true
}

func (m *Machine) Hover() (Hover, bool) {
	if m.hover == nil {
		return Hover{}, false
	}
	return *m.hover, true
}

// Down starts a gesture. It reports false when the event was ignored: a gesture is already in
// progress, there is no current board, or the target no longer exists.
func (m *Machine) Down(p geom.Point, t Target) bool {
	if m.state != Idle {
		m.log.Debug("pointer down ignored", "state", m.state)
		return false
	}
	boardName := m.store.Current()
	if boardName == "" {
		return false
	}

	sess := &Session{
		Kind:        t.Kind,
		Board:       boardName,
		SourceList:  t.List,
		SourceIndex: t.Index,
		Origin:      p,
		Offset:      p.Sub(t.Rect.Min()),
		Pointer:     p,
	}
	switch t.Kind {
	case KindCard:
		c, err := m.store.DetachCard(boardName, t.List, t.Index)
		if err != nil {
			m.log.Debug("pickup failed", "kind", t.Kind, "list", t.List, "index", t.Index, "err", err)
			return false
		}
		sess.Card = c
		m.pres.RequestRerender(SingleList(t.List))
	case KindList:
		l, idx, err := m.store.DetachList(boardName, t.List)
		if err != nil {
			m.log.Debug("pickup failed", "kind", t.Kind, "list", t.List, "err", err)
			return false
		}
		sess.List = l
		sess.SourceIndex = idx
		m.pres.RequestRerender(FullBoard())
	default:
		return false
	}

	m.sess = sess
	m.state = Armed
	m.log.Debug("picked up", "kind", t.Kind, "list", t.List, "index", sess.SourceIndex)
	return true
}

// Move tracks the pointer and refreshes the advisory hover target. It never mutates the store.
func (m *Machine) Move(p geom.Point) {
	if m.sess == nil {
		return
	}
	m.state = Tracking
	m.sess.Pointer = p
	switch m.sess.Kind {
	case KindCard:
		if drop, ok := m.resolveCard(p); ok {
			m.hover = &Hover{List: drop.List, Index: drop.Index}
		} else {
			m.hover = nil
		}
	case KindList:
		m.hover = &Hover{Index: m.resolveList(p)}
	}
}

// Up ends the gesture. It reports false only when no gesture was in progress.
func (m *Machine) Up(p geom.Point) (Result, bool) {
	if m.sess == nil {
		return Result{}, false
	}
	sess := m.sess
	sess.Pointer = p
	defer m.reset()

	click := geom.Distance(sess.Origin, p) < m.opts.Metrics.ClickThreshold

	var res Result
	switch sess.Kind {
	case KindCard:
		res = m.releaseCard(sess, p, click)
	default:
		res = m.releaseList(sess, p, click)
	}
	res.Click = click

	if m.saver != nil {
		if err := m.saver.Save(m.store); err != nil {
			m.log.Warn("save after drop failed", "err", err)
			res.SaveErr = err
		}
	}
	m.rerender(res)
	m.log.Debug("released", "kind", res.Kind, "outcome", res.Outcome, "to", res.ToList, "index", res.ToIndex)
	return res, true
}

func (m *Machine) reset() {
	m.sess = nil
	m.hover = nil
	m.state = Idle
}

func (m *Machine) rerender(res Result) {
	switch {
	case res.Kind == KindList || res.Outcome == Recovered:
		m.pres.RequestRerender(FullBoard())
	case res.FromList == res.ToList:
		m.pres.RequestRerender(SingleList(res.FromList))
	default:
		m.pres.RequestRerender(SingleList(res.FromList))
		m.pres.RequestRerender(SingleList(res.ToList))
	}
}

func (m *Machine) resolveCard(p geom.Point) (geom.CardDrop, bool) {
	names := m.pres.VisibleLists()
	boxes := make([]geom.ListBox, 0, len(names))
	for _, name := range names {
		r, ok := m.pres.ListRect(name)
		if !ok {
			continue
		}
		l, err := m.store.List(m.sess.Board, name)
		if err != nil {
			continue
		}
		lb := geom.ListBox{
			Name:       name,
			Rect:       r,
			ContentTop: m.pres.ListContentTop(name),
			CardCount:  l.Len(),
		}
		if m.opts.Metrics.MeasuredCards {
			lb.CardHeights = make([]float64, len(l.Cards))
			for i, c := range l.Cards {
				if c.Height != nil {
					lb.CardHeights[i] = *c.Height
				}
			}
		}
		boxes = append(boxes, lb)
	}
	return geom.ResolveCardDrop(p, boxes, m.opts.Metrics)
}

func (m *Machine) resolveList(p geom.Point) int {
	lists, err := m.store.Lists(m.sess.Board)
	if err != nil {
		return 0
	}
	return geom.ResolveListDrop(p.X, m.pres.ListContainerLeft(), m.opts.Metrics.ListPitch, len(lists))
}

func (m *Machine) releaseCard(sess *Session, p geom.Point, click bool) Result {
	res := Result{
		Kind:      KindCard,
		Board:     sess.Board,
		FromList:  sess.SourceList,
		FromIndex: sess.SourceIndex,
	}
	if !click {
		m.state = Committing
		if drop, ok := m.resolveCard(p); ok {
			err := m.store.InsertCard(sess.Board, drop.List, drop.Index, sess.Card)
			if err == nil {
				res.Outcome = Committed
				res.ToList = drop.List
				res.ToIndex = drop.Index
				return res
			}
			m.log.Debug("drop target rejected", "list", drop.List, "index", drop.Index, "err", err)
		}
		res.Miss = true
	}

	m.state = Reverting
	if l, err := m.store.List(sess.Board, sess.SourceList); err == nil {
		idx := min(sess.SourceIndex, l.Len())
		if err := m.store.InsertCard(sess.Board, sess.SourceList, idx, sess.Card); err == nil {
			res.Outcome = Reverted
			res.ToList = sess.SourceList
			res.ToIndex = idx
			return res
		}
	}
	return m.rehomeCard(sess, res)
}

// rehomeCard puts a card whose source list vanished into a fresh recovery list.
func (m *Machine) rehomeCard(sess *Session, res Result) Result {
	boardName, err := m.recoveryBoard(sess.Board)
	if err != nil {
		m.log.Error("card lost: no board to recover into", "title", sess.Card.Title, "err", err)
		res.Outcome = Recovered
		return res
	}
	listName := m.store.UniqueListName(boardName, m.opts.RecoveredName)
	if err := m.store.CreateList(boardName, listName); err == nil {
		err = m.store.InsertCard(boardName, listName, 0, sess.Card)
	}
	if err != nil {
		m.log.Error("card lost: recovery insert failed", "title", sess.Card.Title, "err", err)
	} else {
		m.log.Warn("source list disappeared during drag; card recovered",
			"title", sess.Card.Title, "source", sess.SourceList, "board", boardName, "list", listName)
	}
	res.Outcome = Recovered
	res.Board = boardName
	res.ToList = listName
	res.ToIndex = 0
	return res
}

func (m *Machine) releaseList(sess *Session, p geom.Point, click bool) Result {
	res := Result{
		Kind:      KindList,
		Board:     sess.Board,
		FromList:  sess.SourceList,
		FromIndex: sess.SourceIndex,
		ToList:    sess.SourceList,
	}
	lists, err := m.store.Lists(sess.Board)
	if err != nil {
		return m.rehomeList(sess, res, 0)
	}

	idx := min(sess.SourceIndex, len(lists))
	if click {
		m.state = Reverting
		res.Outcome = Reverted
	} else {
		m.state = Committing
		idx = m.resolveList(p)
		res.Outcome = Committed
	}
	if err := m.store.InsertList(sess.Board, idx, sess.SourceList, sess.List); err != nil {
		if errors.Is(err, board.ErrDuplicateName) {
			return m.rehomeList(sess, res, idx)
		}
		m.log.Error("list insert failed", "list", sess.SourceList, "index", idx, "err", err)
		return m.rehomeList(sess, res, len(lists))
	}
	res.ToIndex = idx
	return res
}

// rehomeList handles a list whose board vanished or whose name was taken meanwhile.
func (m *Machine) rehomeList(sess *Session, res Result, idx int) Result {
	boardName, err := m.recoveryBoard(sess.Board)
	if err != nil {
		m.log.Error("list lost: no board to recover into", "list", sess.SourceList, "err", err)
		res.Outcome = Recovered
		return res
	}
	name := m.store.UniqueListName(boardName, sess.SourceList)
	lists, _ := m.store.Lists(boardName)
	idx = max(0, min(idx, len(lists)))
	if err := m.store.InsertList(boardName, idx, name, sess.List); err != nil {
		m.log.Error("list lost: recovery insert failed", "list", sess.SourceList, "err", err)
	} else {
		m.log.Warn("list could not return to its place; recovered",
			"list", sess.SourceList, "board", boardName, "as", name)
	}
	res.Outcome = Recovered
	res.Board = boardName
	res.ToList = name
	res.ToIndex = idx
	return res
}

// recoveryBoard picks where orphaned entities go: the gesture's board if it still exists,
// else the current board, else a newly created recovery board.
func (m *Machine) recoveryBoard(preferred string) (string, error) {
	if _, ok := m.store.Board(preferred); ok {
		return preferred, nil
	}
	if cur := m.store.Current(); cur != "" {
		return cur, nil
	}
	name := m.store.UniqueBoardName(m.opts.RecoveredName)
	if err := m.store.CreateBoard(name); err != nil {
		return "", err
	}
	return name, nil
}
