package widgets

import (
	"slices"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/go-drift/loom/pkg/async"
	"github.com/go-drift/loom/pkg/elm"
	"github.com/go-drift/loom/pkg/platform"
	"github.com/go-drift/loom/pkg/term"
)

// ListParams configures a List.
type ListParams struct {
	Runtime       *platform.Runtime
	Canvas        term.Canvas
	X, Y          int
	Width, Height int
	Items         []string
	// Focused lists react to Up, Down and Enter.
	Focused bool
	Style   tcell.Style
	// Selected styles the selected row while the list is focused.
	Selected tcell.Style
}

// ListOp is the operation a ListMsg performs.
type ListOp uint8

const (
	ListInsert ListOp = iota
	ListRemove
	ListReplace
	ListClear
	// ListMove moves the selection by Delta rows.
	ListMove
	// ListSelect selects Index.
	ListSelect
	// ListFocus sets whether the list reacts to keys.
	ListFocus
	// ListBounds moves and resizes the list to Bounds.
	ListBounds
)

// ListMsg changes a List.
type ListMsg struct {
	Op      ListOp
	Index   int
	Item    string
	Delta   int
	Focused bool
	Bounds  Rect
}

// ListEvent reports that the user chose an item with Enter.
type ListEvent struct {
	Index int
	Item  string
}

// ListMsgFromVec translates an ObservableVec change into the ListMsg that
// mirrors it, so a list can be bound to a vector.
func ListMsgFromVec(ev elm.VecEvent[string]) ListMsg {
	switch ev.Op {
	case elm.VecInsert:
		return ListMsg{Op: ListInsert, Index: ev.Index, Item: ev.Value}
	case elm.VecRemove:
		return ListMsg{Op: ListRemove, Index: ev.Index}
	case elm.VecReplace:
		return ListMsg{Op: ListReplace, Index: ev.Index, Item: ev.Value}
	default:
		return ListMsg{Op: ListClear}
	}
}

// List is a scrollable column of strings with a selection.
type List struct {
	rt       *platform.Runtime
	canvas   term.Canvas
	x, y     int
	width    int
	height   int
	items    []string
	focused  bool
	selected int
	top      int
	style    tcell.Style
	selStyle tcell.Style
}

// NewList is the init function of List.
func NewList(p ListParams, _ *elm.Sender[ListMsg, ListEvent]) (*List, error) {
	if p.Runtime == nil {
		return nil, ErrNoRuntime
	}
	if p.Canvas == nil {
		return nil, ErrNoCanvas
	}
	return &List{
		rt:       p.Runtime,
		canvas:   p.Canvas,
		x:        p.X,
		y:        p.Y,
		width:    p.Width,
		height:   p.Height,
		items:    slices.Clone(p.Items),
		focused:  p.Focused,
		style:    p.Style,
		selStyle: p.Selected,
	}, nil
}

// Start turns Up, Down and Enter into selection moves and choices while the
// list is focused.
func (l *List) Start(t *async.Task, s *elm.Sender[ListMsg, ListEvent]) {
	for {
		m := async.Await[platform.Message](t, l.rt.Wait(term.Screen, term.EventKey))
		key, ok := payload[term.Key]("widgets.List", m)
		if !ok || !l.focused {
			continue
		}
		switch key.Key {
		case tcell.KeyUp:
			s.Post(ListMsg{Op: ListMove, Delta: -1})
		case tcell.KeyDown:
			s.Post(ListMsg{Op: ListMove, Delta: 1})
		case tcell.KeyEnter:
			if item, ok := l.Selected(); ok {
				s.Output(ListEvent{Index: l.selected, Item: item})
			}
		}
	}
}

// Update applies one edit, selection, focus or geometry change.
func (l *List) Update(m ListMsg, _ *elm.Sender[ListMsg, ListEvent]) bool {
	switch m.Op {
	case ListInsert:
		if m.Index < 0 || m.Index > len(l.items) {
			return false
		}
		l.items = slices.Insert(l.items, m.Index, m.Item)
		if m.Index <= l.selected && len(l.items) > 1 {
			l.selected++
		}
	case ListRemove:
		if m.Index < 0 || m.Index >= len(l.items) {
			return false
		}
		l.items = slices.Delete(l.items, m.Index, m.Index+1)
		if m.Index < l.selected {
			l.selected--
		}
	case ListReplace:
		if m.Index < 0 || m.Index >= len(l.items) || l.items[m.Index] == m.Item {
			return false
		}
		l.items[m.Index] = m.Item
	case ListClear:
		if len(l.items) == 0 {
			return false
		}
		l.items = nil
		l.selected = 0
	case ListMove:
		return l.selectIndex(l.selected + m.Delta)
	case ListSelect:
		return l.selectIndex(m.Index)
	case ListFocus:
		if l.focused == m.Focused {
			return false
		}
		l.focused = m.Focused
	case ListBounds:
		b := m.Bounds
		if b == (Rect{X: l.x, Y: l.y, Width: l.width, Height: l.height}) {
			return false
		}
		l.x, l.y = b.X, b.Y
		l.width, l.height = max(b.Width, 0), max(b.Height, 0)
	default:
		return false
	}
	l.clamp()
	return true
}

func (l *List) selectIndex(i int) bool {
	if len(l.items) == 0 {
		return false
	}
	i = min(max(i, 0), len(l.items)-1)
	if i == l.selected {
		return false
	}
	l.selected = i
	l.clamp()
	return true
}

// clamp keeps the selection in range and scrolls it into view.
func (l *List) clamp() {
	l.selected = min(max(l.selected, 0), max(len(l.items)-1, 0))
	if l.selected < l.top {
		l.top = l.selected
	}
	if l.height > 0 && l.selected >= l.top+l.height {
		l.top = l.selected - l.height + 1
	}
	l.top = min(l.top, max(len(l.items)-l.height, 0))
}

// Render draws the visible rows, marking the selection when focused.
func (l *List) Render(*elm.Sender[ListMsg, ListEvent]) {
	for row := 0; row < l.height; row++ {
		y := l.y + row
		term.Fill(l.canvas, l.x, y, l.width, 1, ' ', l.style)
		i := l.top + row
		if i >= len(l.items) {
			continue
		}
		prefix, style := "  ", l.style
		if i == l.selected && l.focused {
			prefix, style = "> ", l.selStyle
		}
		text := runewidth.Truncate(prefix+l.items[i], l.width, "…")
		term.DrawText(l.canvas, l.x, y, text, style)
	}
}

// Items returns a copy of the items.
func (l *List) Items() []string { return slices.Clone(l.items) }

// Selected returns the selected item, if any.
func (l *List) Selected() (string, bool) {
	if len(l.items) == 0 {
		return "", false
	}
	return l.items[l.selected], true
}

// SelectedIndex returns the index of the selected row.
func (l *List) SelectedIndex() int { return l.selected }

// Focused reports whether the list reacts to keys.
func (l *List) Focused() bool { return l.focused }
