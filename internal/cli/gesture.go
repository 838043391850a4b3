package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"taskflow/internal/board"
	"taskflow/internal/drag"
	"taskflow/internal/geom"
)

// gestureEvent is one line of a gesture script.
type gestureEvent struct {
	Ev     string         `json:"ev"`
	X      float64        `json:"x"`
	Y      float64        `json:"y"`
	Target *gestureTarget `json:"target,omitempty"`
}

type gestureTarget struct {
	Kind  string `json:"kind"`
	List  string `json:"list"`
	Index int    `json:"index"`
}

type gestureResult struct {
	Line      int    `json:"line"`
	Outcome   string `json:"outcome"`
	Kind      string `json:"kind"`
	Board     string `json:"board"`
	FromList  string `json:"fromList"`
	FromIndex int    `json:"fromIndex"`
	ToList    string `json:"toList"`
	ToIndex   int    `json:"toIndex"`
	Click     bool   `json:"click"`
	Miss      bool   `json:"miss"`
	SaveError string `json:"saveError,omitempty"`
}

type gestureReport struct {
	Events  int             `json:"events"`
	Ignored []int           `json:"ignored"`
	Results []gestureResult `json:"results"`
	// Unreleased is the line of a down that the script never released. Nothing is saved for it.
	Unreleased int `json:"unreleased,omitempty"`
}

func (r gestureReport) Table() ([]string, [][]string) {
	rows := make([][]string, 0, len(r.Results))
	for _, res := range r.Results {
		rows = append(rows, []string{
			strconv.Itoa(res.Line),
			res.Outcome,
			res.Kind,
			fmt.Sprintf("%s[%d]", res.FromList, res.FromIndex),
			fmt.Sprintf("%s[%d]", res.ToList, res.ToIndex),
			strconv.FormatBool(res.Click),
		})
	}
	return []string{"LINE", "OUTCOME", "KIND", "FROM", "TO", "CLICK"}, rows
}

func newGestureCmd(app *App) *cobra.Command {
	var height float64
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "gesture [script.jsonl|-]",
		Short: "Replay pointer events through the drag engine on the nominal grid",
		Long: strings.TrimSpace(`
Each line is a JSON pointer event on the current board, laid out with the geometry.* settings:

  {"ev":"down","x":140,"y":90}
  {"ev":"down","x":140,"y":90,"target":{"kind":"card","list":"Todo","index":0}}
  {"ev":"move","x":440,"y":90}
  {"ev":"up","x":440,"y":90}

Without an explicit target, down hit-tests the grid. Blank lines and lines starting with # are
skipped. Reads stdin when no file is given or the file is "-".
`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in io.Reader = cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return writeErr(cmd, err)
				}
				defer f.Close()
				in = f
			}

			st := app.loadStore()
			if st.Current() == "" {
				return writeErr(cmd, errNoBoard)
			}
			pres := drag.NewGridPresenter(st, geom.NewGrid(app.cfg.Metrics(), geom.Point{}, height))
			var saver drag.Saver = app.gw
			if dryRun {
				saver = nil
			}
			m := drag.New(st, pres, saver, drag.Options{Metrics: app.cfg.Metrics(), Logger: app.log})

			report, err := replayGesture(in, st, pres, m)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := writeOut(cmd, app, report); err != nil {
				return err
			}
			if report.Unreleased > 0 {
				return writeErr(cmd, fmt.Errorf("line %d: pointer still down at end of script; that gesture was discarded", report.Unreleased))
			}
			return nil
		},
	}
	cmd.Flags().Float64Var(&height, "height", 2000, "Height of every list column")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Do not save the result")
	return cmd
}

func replayGesture(in io.Reader, st *board.Store, pres *drag.GridPresenter, m *drag.Machine) (gestureReport, error) {
	report := gestureReport{Ignored: []int{}, Results: []gestureResult{}}
	sc := bufio.NewScanner(in)
	line, downLine := 0, 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		var ev gestureEvent
		if err := json.Unmarshal([]byte(text), &ev); err != nil {
			return report, fmt.Errorf("line %d: %w", line, err)
		}
		report.Events++
		p := geom.Point{X: ev.X, Y: ev.Y}

		switch strings.ToLower(ev.Ev) {
		case "down":
			t, ok, err := gestureTargetFor(ev, p, st, pres)
			if err != nil {
				return report, fmt.Errorf("line %d: %w", line, err)
			}
			if !ok || !m.Down(p, t) {
				report.Ignored = append(report.Ignored, line)
				continue
			}
			downLine = line
		case "move":
			m.Move(p)
		case "up":
			res, ok := m.Up(p)
			if !ok {
				report.Ignored = append(report.Ignored, line)
				continue
			}
			report.Results = append(report.Results, newGestureResult(line, res))
		default:
			return report, fmt.Errorf("line %d: unknown event %q (expected down, move or up)", line, ev.Ev)
		}
	}
	if err := sc.Err(); err != nil {
		return report, err
	}
	if m.State() != drag.Idle {
		report.Unreleased = downLine
	}
	return report, nil
}

// gestureTargetFor resolves what a down event grabs: the explicit target, or whatever the grid
// has under the pointer.
func gestureTargetFor(ev gestureEvent, p geom.Point, st *board.Store, pres *drag.GridPresenter) (drag.Target, bool, error) {
	if ev.Target == nil {
		t, ok := pres.TargetAt(p)
		return t, ok, nil
	}
	listIdx := -1
	for i, name := range pres.VisibleLists() {
		if name == ev.Target.List {
			listIdx = i
		}
	}
	if listIdx < 0 {
		return drag.Target{}, false, board.NotFoundError{Kind: "list", Name: ev.Target.List, Index: -1}
	}
	switch strings.ToLower(ev.Target.Kind) {
	case "card":
		return drag.Target{
			Kind:  drag.KindCard,
			List:  ev.Target.List,
			Index: ev.Target.Index,
			Rect:  pres.Grid.CardRect(listIdx, ev.Target.Index),
		}, true, nil
	case "list":
		return drag.Target{Kind: drag.KindList, List: ev.Target.List, Rect: pres.Grid.ListRect(listIdx)}, true, nil
	default:
		return drag.Target{}, false, fmt.Errorf("unknown target kind %q (expected card or list)", ev.Target.Kind)
	}
}

func newGestureResult(line int, res drag.Result) gestureResult {
	out := gestureResult{
		Line:      line,
		Outcome:   res.Outcome.String(),
		Kind:      res.Kind.String(),
		Board:     res.Board,
		FromList:  res.FromList,
		FromIndex: res.FromIndex,
		ToList:    res.ToList,
		ToIndex:   res.ToIndex,
		Click:     res.Click,
		Miss:      res.Miss,
	}
	if res.SaveErr != nil {
		out.SaveError = res.SaveErr.Error()
	}
	return out
}
