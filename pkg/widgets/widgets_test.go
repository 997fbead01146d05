package widgets

import (
	"context"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/loom/pkg/async"
	"github.com/go-drift/loom/pkg/elm"
	loomtest "github.com/go-drift/loom/pkg/testing"
	"github.com/go-drift/loom/pkg/term"
)

// picker is a window with a focused list; it returns the chosen item.
type picker struct {
	canvas term.Canvas
	window *elm.Child[*Window, WindowMsg, WindowEvent]
	list   *elm.Child[*List, ListMsg, ListEvent]
}

type pickerMsg struct {
	window  *WindowEvent
	chosen  *ListEvent
	changed bool
}

type pickResult struct {
	Item   string
	Closed bool
}

func newPicker(h *loomtest.Harness, s *elm.Sender[pickerMsg, pickResult]) (*picker, error) {
	window, err := elm.NewChild(NewWindow, WindowParams{
		Runtime: h.Runtime,
		Canvas:  h.Canvas,
		Title:   "pick",
	})
	if err != nil {
		return nil, err
	}
	x, y, w, ht := window.Component().Content()
	list, err := elm.NewChild(NewList, ListParams{
		Runtime: h.Runtime,
		Canvas:  h.Canvas,
		X:       x, Y: y, Width: w, Height: ht,
		Items:   []string{"a", "b", "c", "d"},
		Focused: true,
	})
	if err != nil {
		return nil, err
	}
	return &picker{canvas: h.Canvas, window: window, list: list}, nil
}

func (p *picker) Start(t *async.Task, s *elm.Sender[pickerMsg, pickResult]) {
	nudge := elm.Nudge[pickerMsg](s, pickerMsg{changed: true})
	t.Go("list", func(t *async.Task) {
		p.list.Start(t, elm.Route[ListEvent, pickerMsg](s, func(e ListEvent) (pickerMsg, bool) {
			return pickerMsg{chosen: &e}, true
		}), nudge)
	})
	p.window.Start(t, elm.Route[WindowEvent, pickerMsg](s, func(e WindowEvent) (pickerMsg, bool) {
		return pickerMsg{window: &e}, e.Kind == WindowClose
	}), nudge)
}

func (p *picker) Update(m pickerMsg, s *elm.Sender[pickerMsg, pickResult]) bool {
	switch {
	case m.chosen != nil:
		s.Output(pickResult{Item: m.chosen.Item})
	case m.window != nil:
		s.Output(pickResult{Closed: true})
	}
	return false
}

func (p *picker) Render(*elm.Sender[pickerMsg, pickResult]) {}

func (p *picker) UpdateChildren() bool {
	w := p.window.Update()
	l := p.list.Update()
	return w || l
}

func (p *picker) RenderChildren() {
	p.window.Render()
	p.list.Render()
	p.canvas.Show()
}

func TestPickerChoosesWithKeys(t *testing.T) {
	h := loomtest.NewHarness(20, 6)
	h.Press(tcell.KeyDown)
	h.Press(tcell.KeyDown)
	h.Press(tcell.KeyEnter)

	res, err := elm.Run(context.Background(), h.Runtime, newPicker, h)

	require.NoError(t, err)
	assert.Equal(t, pickResult{Item: "c"}, res)
	h.Snapshot(t, "picker_selected")
	assert.Zero(t, h.Runtime.Registry().Len())
}

func TestPickerClose(t *testing.T) {
	h := loomtest.NewHarness(20, 6)
	h.Press(tcell.KeyUp)
	h.Close()

	res, err := elm.Run(context.Background(), h.Runtime, newPicker, h)

	require.NoError(t, err)
	assert.True(t, res.Closed)
	h.Snapshot(t, "picker_initial")
}

func TestWindowResizeResizesBuffer(t *testing.T) {
	h := loomtest.NewHarness(20, 6)
	w, err := NewWindow(WindowParams{Runtime: h.Runtime, Canvas: h.Canvas}, nil)
	require.NoError(t, err)

	assert.True(t, w.Update(WindowMsg{Kind: WindowResized, Size: term.Size{Width: 30, Height: 4}}, nil))
	assert.False(t, w.Update(WindowMsg{Kind: WindowResized, Size: term.Size{Width: 30, Height: 4}}, nil))

	width, height := h.Canvas.Size()
	assert.Equal(t, 30, width)
	assert.Equal(t, 4, height)
	x, y, cw, ch := w.Content()
	assert.Equal(t, []int{1, 1, 28, 2}, []int{x, y, cw, ch})
}

func TestWindowReportsResize(t *testing.T) {
	h := loomtest.NewHarness(20, 6)
	h.Resize(30, 4)

	got, err := elm.Run(context.Background(), h.Runtime,
		func(_ struct{}, s *elm.Sender[WindowMsg, WindowEvent]) (*Window, error) {
			return NewWindow(WindowParams{Runtime: h.Runtime, Canvas: h.Canvas, Title: "t"}, s)
		}, struct{}{})

	require.NoError(t, err)
	assert.Equal(t, WindowEvent{Kind: WindowResize, Size: term.Size{Width: 30, Height: 4}}, got)
}

func TestWindowRequiresRuntimeAndCanvas(t *testing.T) {
	_, err := NewWindow(WindowParams{Canvas: term.NewBuffer(1, 1)}, nil)
	assert.ErrorIs(t, err, ErrNoRuntime)

	h := loomtest.NewHarness(1, 1)
	_, err = NewWindow(WindowParams{Runtime: h.Runtime}, nil)
	assert.ErrorIs(t, err, ErrNoCanvas)
}

func TestLabelAlignment(t *testing.T) {
	buf := term.NewBuffer(20, 3)
	for i, a := range []Align{AlignLeft, AlignCenter, AlignRight} {
		l, err := NewLabel(LabelParams{Canvas: buf, Y: i, Width: 20, Text: "Hello", Align: a}, nil)
		require.NoError(t, err)
		l.Render(nil)
	}

	assert.Equal(t, "Hello\n       Hello\n               Hello\n", buf.String())
}

func TestLabelTruncatesAndSkipsNoopUpdates(t *testing.T) {
	buf := term.NewBuffer(10, 1)
	l, err := NewLabel(LabelParams{Canvas: buf, Width: 5, Text: "Hello world"}, nil)
	require.NoError(t, err)

	l.Render(nil)
	assert.Equal(t, "Hell…\n", buf.String())

	assert.False(t, l.Update(LabelMsg{Text: "Hello world"}, nil))
	assert.True(t, l.Update(LabelMsg{Text: "Hi"}, nil))
	l.Render(nil)
	assert.Equal(t, "Hi\n", buf.String())
}

func TestLabelMove(t *testing.T) {
	buf := term.NewBuffer(10, 2)
	l, err := NewLabel(LabelParams{Canvas: buf, Width: 5, Text: "Hi"}, nil)
	require.NoError(t, err)

	move := LabelMsg{Kind: LabelMove, Bounds: Rect{X: 3, Y: 1, Width: 4}}
	assert.True(t, l.Update(move, nil))
	assert.False(t, l.Update(move, nil))
	assert.Equal(t, "Hi", l.Text())

	l.Render(nil)
	assert.Equal(t, "\n   Hi\n", buf.String())
}

func newTestList(t *testing.T, height int, items ...string) (*List, *term.Buffer) {
	t.Helper()
	h := loomtest.NewHarness(12, height)
	l, err := NewList(ListParams{
		Runtime: h.Runtime,
		Canvas:  h.Canvas,
		Width:   12,
		Height:  height,
		Items:   items,
		Focused: true,
	}, nil)
	require.NoError(t, err)
	return l, h.Canvas
}

func TestListScrollsSelectionIntoView(t *testing.T) {
	l, buf := newTestList(t, 2, "a", "b", "c", "d")

	assert.True(t, l.Update(ListMsg{Op: ListSelect, Index: 3}, nil))
	l.Render(nil)

	assert.Equal(t, "  c\n> d\n", buf.String())
	assert.False(t, l.Update(ListMsg{Op: ListMove, Delta: 5}, nil))

	assert.True(t, l.Update(ListMsg{Op: ListMove, Delta: -3}, nil))
	l.Render(nil)
	assert.Equal(t, "> a\n  b\n", buf.String())
}

func TestListEditsKeepSelection(t *testing.T) {
	l, _ := newTestList(t, 3, "a", "b", "c")
	l.Update(ListMsg{Op: ListSelect, Index: 1}, nil)

	l.Update(ListMsg{Op: ListInsert, Index: 0, Item: "z"}, nil)
	item, ok := l.Selected()
	require.True(t, ok)
	assert.Equal(t, "b", item)

	l.Update(ListMsg{Op: ListRemove, Index: 0}, nil)
	item, _ = l.Selected()
	assert.Equal(t, "b", item)

	assert.False(t, l.Update(ListMsg{Op: ListRemove, Index: 7}, nil))
	assert.False(t, l.Update(ListMsg{Op: ListReplace, Index: 1, Item: "b"}, nil))
	assert.True(t, l.Update(ListMsg{Op: ListClear}, nil))
	_, ok = l.Selected()
	assert.False(t, ok)
}

func TestListUnfocusedHidesSelection(t *testing.T) {
	l, buf := newTestList(t, 2, "a", "b")
	assert.True(t, l.Update(ListMsg{Op: ListFocus, Focused: false}, nil))
	l.Render(nil)
	assert.Equal(t, "  a\n  b\n", buf.String())
}

func TestListBoundsRescrolls(t *testing.T) {
	l, buf := newTestList(t, 3, "a", "b", "c", "d")
	l.Update(ListMsg{Op: ListSelect, Index: 3}, nil)

	bounds := ListMsg{Op: ListBounds, Bounds: Rect{X: 0, Y: 1, Width: 12, Height: 2}}
	assert.True(t, l.Update(bounds, nil))
	assert.False(t, l.Update(bounds, nil))

	buf.Clear()
	l.Render(nil)
	assert.Equal(t, "\n  c\n> d\n", buf.String())
}

func TestListMsgFromVec(t *testing.T) {
	assert.Equal(t, ListMsg{Op: ListInsert, Index: 1, Item: "x"},
		ListMsgFromVec(elm.VecEvent[string]{Op: elm.VecInsert, Index: 1, Value: "x"}))
	assert.Equal(t, ListMsg{Op: ListRemove, Index: 2},
		ListMsgFromVec(elm.VecEvent[string]{Op: elm.VecRemove, Index: 2, Old: "y"}))
	assert.Equal(t, ListMsg{Op: ListReplace, Index: 0, Item: "n"},
		ListMsgFromVec(elm.VecEvent[string]{Op: elm.VecReplace, Value: "n"}))
	assert.Equal(t, ListMsg{Op: ListClear},
		ListMsgFromVec(elm.VecEvent[string]{Op: elm.VecClear}))
}
