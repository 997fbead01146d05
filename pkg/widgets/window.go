package widgets

import (
	"github.com/gdamore/tcell/v2"

	"github.com/go-drift/loom/pkg/async"
	"github.com/go-drift/loom/pkg/elm"
	"github.com/go-drift/loom/pkg/platform"
	"github.com/go-drift/loom/pkg/term"
)

// WindowParams configures a Window.
type WindowParams struct {
	Runtime *platform.Runtime
	Canvas  term.Canvas
	Title   string
	Style   tcell.Style
}

// WindowMsgKind selects the field of WindowMsg that applies.
type WindowMsgKind uint8

const (
	// WindowResized carries the new Size.
	WindowResized WindowMsgKind = iota
	// WindowSetTitle carries the new Title.
	WindowSetTitle
)

// WindowMsg changes a Window.
type WindowMsg struct {
	Kind  WindowMsgKind
	Size  term.Size
	Title string
}

// WindowEventKind is the kind of a WindowEvent.
type WindowEventKind uint8

const (
	// WindowKey reports a key press.
	WindowKey WindowEventKind = iota
	// WindowResize reports a new terminal size.
	WindowResize
	// WindowClose reports that the user asked to close the window.
	WindowClose
)

// WindowEvent is reported by a Window to its owner.
type WindowEvent struct {
	Kind WindowEventKind
	Key  term.Key
	Size term.Size
}

// Window is the frame around an application. It owns the terminal's key,
// resize and close events and reports them to its owner.
type Window struct {
	rt     *platform.Runtime
	canvas term.Canvas
	title  string
	style  tcell.Style
	size   term.Size
}

// NewWindow is the init function of Window.
func NewWindow(p WindowParams, _ *elm.Sender[WindowMsg, WindowEvent]) (*Window, error) {
	if p.Runtime == nil {
		return nil, ErrNoRuntime
	}
	if p.Canvas == nil {
		return nil, ErrNoCanvas
	}
	w, h := p.Canvas.Size()
	return &Window{
		rt:     p.Runtime,
		canvas: p.Canvas,
		title:  p.Title,
		style:  p.Style,
		size:   term.Size{Width: w, Height: h},
	}, nil
}

// Start reports the terminal's key, resize and close events.
func (w *Window) Start(t *async.Task, s *elm.Sender[WindowMsg, WindowEvent]) {
	for {
		i, m := async.Select[platform.Message](t,
			w.rt.Wait(term.Screen, term.EventKey),
			w.rt.Wait(term.Screen, term.EventResize),
			w.rt.Wait(term.Screen, term.EventClose),
		)
		switch i {
		case 0:
			if key, ok := payload[term.Key]("widgets.Window", m); ok {
				s.Output(WindowEvent{Kind: WindowKey, Key: key})
			}
		case 1:
			if size, ok := payload[term.Size]("widgets.Window", m); ok {
				s.Post(WindowMsg{Kind: WindowResized, Size: size})
				s.Output(WindowEvent{Kind: WindowResize, Size: size})
			}
		case 2:
			s.Output(WindowEvent{Kind: WindowClose})
		}
	}
}

// Update applies a resize or title change.
func (w *Window) Update(m WindowMsg, _ *elm.Sender[WindowMsg, WindowEvent]) bool {
	switch m.Kind {
	case WindowResized:
		if m.Size == w.size {
			return false
		}
		w.size = m.Size
		if r, ok := w.canvas.(interface{ Resize(int, int) }); ok {
			r.Resize(m.Size.Width, m.Size.Height)
		}
		return true
	case WindowSetTitle:
		if m.Title == w.title {
			return false
		}
		w.title = m.Title
		return true
	}
	return false
}

// Render clears the canvas and draws the frame.
func (w *Window) Render(*elm.Sender[WindowMsg, WindowEvent]) {
	w.canvas.Clear()
	term.Frame(w.canvas, 0, 0, w.size.Width, w.size.Height, w.title, w.style)
}

// Size returns the window size.
func (w *Window) Size() term.Size { return w.size }

// Title returns the window title.
func (w *Window) Title() string { return w.title }

// Content returns the area inside the frame.
func (w *Window) Content() (x, y, width, height int) {
	return ContentArea(w.size)
}

// ContentArea returns the area inside the frame of a window of the given
// size. Owners use it to lay out children when a WindowResize arrives,
// before the window itself has processed the new size.
func ContentArea(size term.Size) (x, y, width, height int) {
	return 1, 1, max(size.Width-2, 0), max(size.Height-2, 0)
}
