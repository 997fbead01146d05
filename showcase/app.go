// Package showcase provides the Loom demo application: a counter with a
// history list, composed from the stock widgets.
package showcase

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/go-drift/loom/pkg/async"
	"github.com/go-drift/loom/pkg/elm"
	"github.com/go-drift/loom/pkg/platform"
	"github.com/go-drift/loom/pkg/term"
	"github.com/go-drift/loom/pkg/widgets"
)

const (
	helpText   = "+/- count  r reset  q quit"
	maxHistory = 50
)

// Params configures the App.
type Params struct {
	Runtime *platform.Runtime
	Canvas  term.Canvas
	Title   string
	// Tick drives the uptime label. Zero disables it.
	Tick time.Duration
	// Initial is the starting count.
	Initial int
}

type msgKind uint8

const (
	msgKey msgKind = iota
	msgHistory
	msgPick
	msgTick
	msgClose
	msgResize
	msgChildren
)

// Msg is the App's internal message.
type Msg struct {
	kind msgKind
	key  term.Key
	vec  elm.VecEvent[string]
	pick widgets.ListEvent
	size term.Size
}

// Exit is reported when the user leaves the app.
type Exit struct {
	Count   int
	Reason  string
	History []string
}

// App is the counter demo.
type App struct {
	canvas term.Canvas
	tick   time.Duration
	count  int
	ticks  int

	window  *elm.Child[*widgets.Window, widgets.WindowMsg, widgets.WindowEvent]
	counter *elm.Child[*widgets.Label, widgets.LabelMsg, widgets.NoEvent]
	help    *elm.Child[*widgets.Label, widgets.LabelMsg, widgets.NoEvent]
	clock   *elm.Child[*widgets.Label, widgets.LabelMsg, widgets.NoEvent]
	history *elm.Child[*elm.ObservableVec[string], elm.VecMsg[string], elm.VecEvent[string]]
	list    *elm.Child[*widgets.List, widgets.ListMsg, widgets.ListEvent]
}

// NewApp is the init function of App.
func NewApp(p Params, _ *elm.Sender[Msg, Exit]) (*App, error) {
	a := &App{canvas: p.Canvas, tick: p.Tick, count: p.Initial}

	var err error
	a.window, err = elm.NewChild(widgets.NewWindow, widgets.WindowParams{
		Runtime: p.Runtime,
		Canvas:  p.Canvas,
		Title:   p.Title,
	})
	if err != nil {
		return nil, fmt.Errorf("window: %w", err)
	}

	lay := layoutFor(a.window.Component().Size())
	label := func(r widgets.Rect, text string) (*elm.Child[*widgets.Label, widgets.LabelMsg, widgets.NoEvent], error) {
		return elm.NewChild(widgets.NewLabel, widgets.LabelParams{
			Canvas: p.Canvas,
			X:      r.X,
			Y:      r.Y,
			Width:  r.Width,
			Text:   text,
		})
	}
	if a.counter, err = label(lay.counter, countText(a.count)); err != nil {
		return nil, fmt.Errorf("counter label: %w", err)
	}
	if a.help, err = label(lay.help, helpText); err != nil {
		return nil, fmt.Errorf("help label: %w", err)
	}
	if a.clock, err = label(lay.clock, ""); err != nil {
		return nil, fmt.Errorf("clock label: %w", err)
	}

	a.history, err = elm.NewChild(elm.NewObservableVec[string], nil)
	if err != nil {
		return nil, err
	}
	a.list, err = elm.NewChild(widgets.NewList, widgets.ListParams{
		Runtime:  p.Runtime,
		Canvas:   p.Canvas,
		X:        lay.list.X,
		Y:        lay.list.Y,
		Width:    lay.list.Width,
		Height:   lay.list.Height,
		Focused:  true,
		Selected: tcell.StyleDefault.Reverse(true),
	})
	if err != nil {
		return nil, fmt.Errorf("history list: %w", err)
	}
	return a, nil
}

// layout places the labels on the first three content rows and gives the
// rest to the history list.
type layout struct {
	counter, help, clock widgets.Rect
	list                 widgets.Rect
}

func layoutFor(size term.Size) layout {
	x, y, w, h := widgets.ContentArea(size)
	row := func(i int) widgets.Rect {
		return widgets.Rect{X: x + 1, Y: y + i, Width: max(w-2, 0), Height: 1}
	}
	return layout{
		counter: row(0),
		help:    row(1),
		clock:   row(2),
		list:    widgets.Rect{X: x + 1, Y: y + 3, Width: max(w-2, 0), Height: max(h-3, 0)},
	}
}

// relayout moves every child to its place in a window of the given size.
func (a *App) relayout(size term.Size) bool {
	lay := layoutFor(size)
	changed := false
	for _, m := range []struct {
		label *elm.Child[*widgets.Label, widgets.LabelMsg, widgets.NoEvent]
		rect  widgets.Rect
	}{
		{a.counter, lay.counter},
		{a.help, lay.help},
		{a.clock, lay.clock},
	} {
		if m.label.Emit(widgets.LabelMsg{Kind: widgets.LabelMove, Bounds: m.rect}) {
			changed = true
		}
	}
	if a.list.Emit(widgets.ListMsg{Op: widgets.ListBounds, Bounds: lay.list}) {
		changed = true
	}
	return changed
}

// Start runs the children and the optional clock.
func (a *App) Start(t *async.Task, s *elm.Sender[Msg, Exit]) {
	nudge := elm.Nudge[Msg](s, Msg{kind: msgChildren})

	t.Go("history", func(t *async.Task) {
		a.history.Start(t, elm.Route[elm.VecEvent[string], Msg](s, func(ev elm.VecEvent[string]) (Msg, bool) {
			return Msg{kind: msgHistory, vec: ev}, true
		}), nil)
	})
	t.Go("list", func(t *async.Task) {
		a.list.Start(t, elm.Route[widgets.ListEvent, Msg](s, func(ev widgets.ListEvent) (Msg, bool) {
			return Msg{kind: msgPick, pick: ev}, true
		}), nudge)
	})
	if a.tick > 0 {
		t.Go("clock", func(t *async.Task) {
			for {
				async.Await[struct{}](t, async.Sleep(a.tick))
				s.Post(Msg{kind: msgTick})
			}
		})
	}

	a.window.Start(t, elm.Route[widgets.WindowEvent, Msg](s, translateWindow), nudge)
}

func translateWindow(ev widgets.WindowEvent) (Msg, bool) {
	switch ev.Kind {
	case widgets.WindowKey:
		if ev.Key.Key != tcell.KeyRune {
			return Msg{}, false
		}
		return Msg{kind: msgKey, key: ev.Key}, true
	case widgets.WindowResize:
		return Msg{kind: msgResize, size: ev.Size}, true
	case widgets.WindowClose:
		return Msg{kind: msgClose}, true
	}
	return Msg{}, false
}

// Update handles keys, history changes, picks, ticks and resizes.
func (a *App) Update(m Msg, s *elm.Sender[Msg, Exit]) bool {
	switch m.kind {
	case msgKey:
		switch m.key.Rune {
		case '+', '=':
			return a.setCount(a.count + 1)
		case '-':
			return a.setCount(a.count - 1)
		case 'r':
			a.history.Emit(elm.VecMsg[string]{Op: elm.VecClear})
			return a.setCount(0)
		case 'q':
			s.Output(a.exit("quit"))
		}
	case msgHistory:
		changed := a.list.Emit(widgets.ListMsgFromVec(m.vec))
		if m.vec.Op == elm.VecInsert && m.vec.Index == 0 {
			a.list.Emit(widgets.ListMsg{Op: widgets.ListSelect, Index: 0})
		}
		return changed
	case msgPick:
		if v, err := strconv.Atoi(m.pick.Item); err == nil {
			return a.setCount(v)
		}
	case msgTick:
		a.ticks++
		return a.clock.Emit(widgets.LabelMsg{Text: fmt.Sprintf("up %d ticks", a.ticks)})
	case msgResize:
		return a.relayout(m.size)
	case msgClose:
		s.Output(a.exit("closed"))
	}
	return false
}

// setCount changes the count and records it at the top of the history.
func (a *App) setCount(v int) bool {
	a.count = v
	a.history.Emit(elm.VecMsg[string]{Op: elm.VecInsert, Index: 0, Value: strconv.Itoa(v)})
	if n := a.history.Component().Len(); n > maxHistory {
		a.history.Emit(elm.VecMsg[string]{Op: elm.VecRemove, Index: n - 1})
	}
	return a.counter.Emit(widgets.LabelMsg{Text: countText(v)})
}

func (a *App) exit(reason string) Exit {
	return Exit{Count: a.count, Reason: reason, History: a.history.Component().Items()}
}

// Render does nothing; the children draw everything.
func (a *App) Render(*elm.Sender[Msg, Exit]) {}

// UpdateChildren updates every child.
func (a *App) UpdateChildren() bool {
	changed := false
	for _, update := range []func() bool{
		a.window.Update,
		a.counter.Update,
		a.help.Update,
		a.clock.Update,
		a.history.Update,
		a.list.Update,
	} {
		if update() {
			changed = true
		}
	}
	return changed
}

// RenderChildren draws the children in stacking order and shows the canvas.
func (a *App) RenderChildren() {
	a.window.Render()
	a.counter.Render()
	a.help.Render()
	a.clock.Render()
	a.list.Render()
	a.canvas.Show()
}

// Count returns the current count.
func (a *App) Count() int { return a.count }

// Ticks returns how many clock ticks the app has seen.
func (a *App) Ticks() int { return a.ticks }

func countText(v int) string {
	return fmt.Sprintf("Count: %d", v)
}
