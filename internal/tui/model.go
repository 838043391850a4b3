package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"taskflow/internal/board"
	"taskflow/internal/drag"
	"taskflow/internal/geom"
	"taskflow/internal/logging"
	"taskflow/internal/model"
)

// Card size step for the grow/shrink keys, in the units the store persists.
const resizeStep = 20

type Options struct {
	Store   *board.Store
	Saver   drag.Saver
	Metrics geom.Metrics
	Logger  logging.Logger
}

type mode int

const (
	modeBoard mode = iota
	modePrompt
	modeConfirm
	modeHelp
)

type promptKind int

const (
	promptNewBoard promptKind = iota
	promptRenameBoard
	promptNewList
	promptRenameList
	promptNewCard
	promptCardTitle
)

func (k promptKind) title() string {
	switch k {
	case promptNewBoard:
		return "New board"
	case promptRenameBoard:
		return "Rename board"
	case promptNewList:
		return "New list"
	case promptRenameList:
		return "Rename list"
	case promptNewCard:
		return "New card"
	default:
		return "Card title"
	}
}

type boardModel struct {
	st     *board.Store
	saver  drag.Saver
	log    logging.Logger
	layout *boardLayout
	drag   *drag.Machine
	keys   keyMap
	help   help.Model

	width  int
	height int

	selList int
	selCard int

	mode          mode
	prompt        promptKind
	input         textinput.Model
	confirmText   string
	confirmAction func() error

	status    string
	statusErr bool
}

func newBoardModel(opts Options) *boardModel {
	log := opts.Logger
	if log == nil {
		log = logging.Nop()
	}
	st := opts.Store
	if st == nil {
		st = board.New()
	}
	layout := newBoardLayout(st, opts.Metrics)

	in := textinput.New()
	in.CharLimit = 200
	in.Width = 40

	m := &boardModel{
		st:      st,
		saver:   opts.Saver,
		log:     log.With("component", "tui"),
		layout:  layout,
		keys:    defaultKeyMap(),
		help:    help.New(),
		input:   in,
		selCard: -1,
	}
	m.drag = drag.New(st, layout, opts.Saver, drag.Options{Metrics: opts.Metrics, Logger: log})
	m.clampSelection()
	return m
}

func (m *boardModel) Init() tea.Cmd { return nil }

func (m *boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.layout.resize(msg.Width, msg.Height)
		m.layout.ensureVisible(m.selList)
		return m, nil

	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case modePrompt:
			return m.updatePrompt(msg)
		case modeConfirm:
			m.updateConfirm(msg)
			return m, nil
		case modeHelp:
			m.mode = modeBoard
			return m, nil
		}
		return m.updateBoard(msg)
	}
	return m, nil
}

func (m *boardModel) lists() []string {
	return m.layout.lists()
}

func (m *boardModel) selectedList() (string, bool) {
	names := m.lists()
	if m.selList < 0 || m.selList >= len(names) {
		return "", false
	}
	return names[m.selList], true
}

func (m *boardModel) selectedCard() (string, int, bool) {
	list, ok := m.selectedList()
	if !ok || m.selCard < 0 {
		return "", -1, false
	}
	return list, m.selCard, true
}

func (m *boardModel) clampSelection() {
	names := m.lists()
	if len(names) == 0 {
		m.selList, m.selCard = 0, -1
		m.layout.setScroll(0)
		return
	}
	m.selList = max(0, min(m.selList, len(names)-1))
	n := 0
	if l, err := m.st.List(m.st.Current(), names[m.selList]); err == nil {
		n = l.Len()
	}
	if n == 0 {
		m.selCard = -1
	} else {
		m.selCard = max(0, min(m.selCard, n-1))
	}
	m.layout.ensureVisible(m.selList)
}

func (m *boardModel) selectList(name string, card int) {
	for i, n := range m.lists() {
		if n == name {
			m.selList = i
			m.selCard = card
			break
		}
	}
	m.clampSelection()
}

func (m *boardModel) setStatus(format string, args ...any) {
	m.status = fmt.Sprintf(format, args...)
	m.statusErr = false
}

func (m *boardModel) setError(err error) {
	m.status = describeError(err)
	m.statusErr = true
}

func describeError(err error) string {
	var dup board.DuplicateNameError
	var nf board.NotFoundError
	switch {
	case errors.As(err, &dup):
		return fmt.Sprintf("A %s named %q already exists", dup.Kind, dup.Name)
	case errors.As(err, &nf):
		return "Not found: " + nf.Error()
	case errors.Is(err, board.ErrInvalidName):
		return "Name must not be blank"
	default:
		return err.Error()
	}
}

// save mirrors the store; failures only surface in the status line.
func (m *boardModel) save() {
	if m.saver == nil {
		return
	}
	if err := m.saver.Save(m.st); err != nil {
		m.log.Warn("save failed", "err", err)
		m.setError(fmt.Errorf("save failed: %w", err))
	}
}

// apply runs a store mutation, saves on success and reports errors in the status line.
func (m *boardModel) apply(fn func() error) bool {
	if err := fn(); err != nil {
		m.setError(err)
		return false
	}
	m.clampSelection()
	m.save()
	return true
}

func (m *boardModel) handleMouse(msg tea.MouseMsg) {
	p := geom.Point{X: float64(msg.X), Y: float64(msg.Y)}
	switch msg.Action {
	case tea.MouseActionPress:
		if m.mode != modeBoard {
			return
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp, tea.MouseButtonWheelLeft:
			m.layout.setScroll(m.layout.scroll - 1)
			return
		case tea.MouseButtonWheelDown, tea.MouseButtonWheelRight:
			m.layout.setScroll(m.layout.scroll + 1)
			return
		case tea.MouseButtonLeft:
		default:
			return
		}
		if msg.Y == 0 {
			if name, ok := m.tabAt(msg.X); ok {
				m.switchBoard(name)
			}
			return
		}
		t, ok := m.layout.TargetAt(p)
		if !ok {
			return
		}
		if t.Kind == drag.KindCard {
			m.selectList(t.List, t.Index)
		} else {
			m.selectList(t.List, m.selCard)
		}
		if m.drag.Down(p, t) {
			// Pickup detaches; the list count may have shrunk under the scroll position.
			m.clampSelection()
		}

	case tea.MouseActionMotion:
		if m.drag.State() != drag.Idle {
			m.drag.Move(p)
		}

	case tea.MouseActionRelease:
		if res, ok := m.drag.Up(p); ok {
			m.afterDrop(res)
		}
	}
}

func (m *boardModel) afterDrop(res drag.Result) {
	for _, s := range m.layout.takeRerenders() {
		m.log.Debug("redraw", "full", s.Full, "list", s.List)
	}
	switch res.Outcome {
	case drag.Committed:
		if res.Kind == drag.KindCard {
			m.selectList(res.ToList, res.ToIndex)
			if res.ToList == res.FromList && res.ToIndex == res.FromIndex {
				m.status = ""
			} else {
				m.setStatus("Moved card to %s #%d", res.ToList, res.ToIndex+1)
			}
		} else {
			m.selectList(res.ToList, 0)
			m.setStatus("Moved list %s to position %d", res.ToList, res.ToIndex+1)
		}
	case drag.Reverted:
		if res.Kind == drag.KindCard {
			m.selectList(res.ToList, res.ToIndex)
		} else {
			m.selectList(res.ToList, 0)
		}
		if res.Miss {
			m.setStatus("Nothing to drop onto; put back")
		}
	case drag.Recovered:
		if res.Board != "" && res.Board != m.st.Current() {
			_ = m.st.SetCurrent(res.Board)
		}
		m.selectList(res.ToList, 0)
		m.setStatus("Origin vanished; placed in %s", res.ToList)
	}
	if res.SaveErr != nil {
		m.setError(fmt.Errorf("save failed: %w", res.SaveErr))
	}
}

func (m *boardModel) switchBoard(name string) {
	if err := m.st.SetCurrent(name); err != nil {
		m.setError(err)
		return
	}
	m.selList, m.selCard = 0, 0
	m.layout.setScroll(0)
	m.clampSelection()
	m.save()
}

func (m *boardModel) cycleBoard(delta int) {
	names := m.st.Boards()
	if len(names) < 2 {
		return
	}
	cur := 0
	for i, n := range names {
		if n == m.st.Current() {
			cur = i
		}
	}
	m.switchBoard(names[(cur+delta+len(names))%len(names)])
}

func (m *boardModel) updateBoard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys
	if m.drag.State() != drag.Idle && !key.Matches(msg, k.Quit) {
		return m, nil
	}
	m.status = ""
	cur := m.st.Current()

	switch {
	case key.Matches(msg, k.Quit):
		return m, tea.Quit
	case key.Matches(msg, k.Help):
		m.mode = modeHelp

	case key.Matches(msg, k.Left):
		m.selList--
		m.clampSelection()
	case key.Matches(msg, k.Right):
		m.selList++
		m.clampSelection()
	case key.Matches(msg, k.Up):
		if m.selCard > 0 {
			m.selCard--
		}
	case key.Matches(msg, k.Down):
		m.selCard++
		m.clampSelection()

	case key.Matches(msg, k.NextBoard):
		m.cycleBoard(1)
	case key.Matches(msg, k.PrevBoard):
		m.cycleBoard(-1)
	case key.Matches(msg, k.NewBoard):
		return m, m.openPrompt(promptNewBoard, "")
	case key.Matches(msg, k.RenameBoard):
		if cur != "" {
			return m, m.openPrompt(promptRenameBoard, cur)
		}
	case key.Matches(msg, k.DeleteBoard):
		if cur != "" {
			m.confirm(fmt.Sprintf("Delete board %q and everything on it?", cur), func() error {
				_, err := m.st.DeleteBoard(cur, true)
				return err
			})
		}

	case key.Matches(msg, k.NewList):
		if cur == "" {
			return m, m.openPrompt(promptNewBoard, "")
		}
		return m, m.openPrompt(promptNewList, "")
	case key.Matches(msg, k.RenameList):
		if list, ok := m.selectedList(); ok {
			return m, m.openPrompt(promptRenameList, list)
		}
	case key.Matches(msg, k.DeleteList):
		if list, ok := m.selectedList(); ok {
			m.confirm(fmt.Sprintf("Delete list %q and its cards?", list), func() error {
				_, err := m.st.DeleteList(cur, list, true)
				return err
			})
		}
	case key.Matches(msg, k.MoveListLeft), key.Matches(msg, k.MoveListRight):
		if list, ok := m.selectedList(); ok {
			to := m.selList - 1
			if key.Matches(msg, k.MoveListRight) {
				to = m.selList + 1
			}
			if to >= 0 && to < len(m.lists()) && m.apply(func() error { return m.st.MoveList(cur, list, to) }) {
				m.selectList(list, m.selCard)
			}
		}

	case key.Matches(msg, k.NewCard):
		if _, ok := m.selectedList(); ok {
			return m, m.openPrompt(promptNewCard, "")
		}
	case key.Matches(msg, k.EditCard):
		if list, idx, ok := m.selectedCard(); ok {
			if c, err := m.st.Card(cur, list, idx); err == nil {
				return m, m.openPrompt(promptCardTitle, c.Title)
			}
		}
	case key.Matches(msg, k.DeleteCard):
		if list, idx, ok := m.selectedCard(); ok {
			c, _ := m.st.Card(cur, list, idx)
			m.confirm(fmt.Sprintf("Delete card %q?", c.Title), func() error {
				_, err := m.st.DeleteCard(cur, list, idx, true)
				return err
			})
		}
	case key.Matches(msg, k.MoveCardUp), key.Matches(msg, k.MoveCardDown):
		if list, idx, ok := m.selectedCard(); ok {
			to := idx - 1
			if key.Matches(msg, k.MoveCardDown) {
				to = idx + 1
			}
			l, _ := m.st.List(cur, list)
			if to >= 0 && l != nil && to < l.Len() && m.apply(func() error { return m.st.MoveCard(cur, list, idx, list, to) }) {
				m.selCard = to
			}
		}
	case key.Matches(msg, k.MoveCardPrev), key.Matches(msg, k.MoveCardNext):
		if list, idx, ok := m.selectedCard(); ok {
			names := m.lists()
			ti := m.selList - 1
			if key.Matches(msg, k.MoveCardNext) {
				ti = m.selList + 1
			}
			if ti >= 0 && ti < len(names) {
				dest := names[ti]
				dl, _ := m.st.List(cur, dest)
				to := 0
				if dl != nil {
					to = min(idx, dl.Len())
				}
				if m.apply(func() error { return m.st.MoveCard(cur, list, idx, dest, to) }) {
					m.selectList(dest, to)
				}
			}
		}
	case key.Matches(msg, k.Grow), key.Matches(msg, k.Shrink):
		if list, idx, ok := m.selectedCard(); ok {
			c, err := m.st.Card(cur, list, idx)
			if err != nil {
				m.setError(err)
				break
			}
			step := float64(resizeStep)
			if key.Matches(msg, k.Shrink) {
				step = -step
			}
			w, h := float64(model.DefaultCardWidth), float64(model.MinCardHeight)
			if c.Width != nil {
				w = *c.Width
			}
			if c.Height != nil {
				h = *c.Height
			}
			if m.apply(func() error { return m.st.ResizeCard(cur, list, idx, w+step, h+step) }) {
				c, _ = m.st.Card(cur, list, idx)
				m.setStatus("Card size %.0f×%.0f", *c.Width, *c.Height)
			}
		}
	case key.Matches(msg, k.ResetSize):
		if list, idx, ok := m.selectedCard(); ok {
			m.apply(func() error { return m.st.ResetCardSize(cur, list, idx) })
		}
	}
	return m, nil
}

func (m *boardModel) openPrompt(kind promptKind, value string) tea.Cmd {
	m.mode = modePrompt
	m.prompt = kind
	m.input.Placeholder = strings.ToLower(kind.title())
	m.input.SetValue(value)
	m.input.CursorEnd()
	return m.input.Focus()
}

func (m *boardModel) closePrompt() {
	m.mode = modeBoard
	m.input.Blur()
	m.input.SetValue("")
}

func (m *boardModel) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyCtrlC:
		m.closePrompt()
		return m, nil
	case tea.KeyEnter:
		value := m.input.Value()
		kind := m.prompt
		m.closePrompt()
		m.submitPrompt(kind, value)
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *boardModel) submitPrompt(kind promptKind, value string) {
	cur := m.st.Current()
	list, _ := m.selectedList()
	switch kind {
	case promptNewBoard:
		if m.apply(func() error { return m.st.CreateBoard(value) }) {
			m.selList, m.selCard = 0, -1
			m.layout.setScroll(0)
			m.clampSelection()
			m.setStatus("Created board %s", value)
		}
	case promptRenameBoard:
		m.apply(func() error { return m.st.RenameBoard(cur, value) })
	case promptNewList:
		if m.apply(func() error { return m.st.CreateList(cur, value) }) {
			m.selectList(value, 0)
		}
	case promptRenameList:
		if m.apply(func() error { return m.st.RenameList(cur, list, value) }) {
			m.selectList(value, m.selCard)
		}
	case promptNewCard:
		var idx int
		if m.apply(func() error {
			var err error
			idx, err = m.st.CreateCard(cur, list, value)
			return err
		}) {
			m.selCard = idx
			m.clampSelection()
		}
	case promptCardTitle:
		if _, idx, ok := m.selectedCard(); ok {
			m.apply(func() error { return m.st.UpdateCardTitle(cur, list, idx, value) })
		}
	}
}

func (m *boardModel) confirm(text string, action func() error) {
	m.mode = modeConfirm
	m.confirmText = text
	m.confirmAction = action
}

func (m *boardModel) updateConfirm(msg tea.KeyMsg) {
	switch strings.ToLower(msg.String()) {
	case "y", "enter":
		action := m.confirmAction
		m.mode = modeBoard
		m.confirmAction = nil
		if action != nil && m.apply(action) {
			m.clampSelection()
		}
	case "n", "esc", "ctrl+c", "q":
		m.mode = modeBoard
		m.confirmAction = nil
	}
}
