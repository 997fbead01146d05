package widgets

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/go-drift/loom/pkg/async"
	"github.com/go-drift/loom/pkg/elm"
	"github.com/go-drift/loom/pkg/term"
)

// LabelParams configures a Label.
type LabelParams struct {
	Canvas term.Canvas
	X, Y   int
	// Width is the number of columns the label owns. Longer text is
	// truncated with an ellipsis.
	Width int
	Text  string
	Align Align
	Style tcell.Style
}

// LabelMsgKind selects the field of LabelMsg that applies.
type LabelMsgKind uint8

const (
	// LabelSetText carries the new Text.
	LabelSetText LabelMsgKind = iota
	// LabelMove carries new Bounds. Only X, Y and Width are used.
	LabelMove
)

// LabelMsg changes a Label.
type LabelMsg struct {
	Kind   LabelMsgKind
	Text   string
	Bounds Rect
}

// Label is a single line of text.
type Label struct {
	canvas term.Canvas
	x, y   int
	width  int
	text   string
	align  Align
	style  tcell.Style
}

// NewLabel is the init function of Label.
func NewLabel(p LabelParams, _ *elm.Sender[LabelMsg, NoEvent]) (*Label, error) {
	if p.Canvas == nil {
		return nil, ErrNoCanvas
	}
	return &Label{
		canvas: p.Canvas,
		x:      p.X,
		y:      p.Y,
		width:  p.Width,
		text:   p.Text,
		align:  p.Align,
		style:  p.Style,
	}, nil
}

// Start does nothing; labels are not interactive.
func (l *Label) Start(*async.Task, *elm.Sender[LabelMsg, NoEvent]) {}

// Update replaces the text or moves the label.
func (l *Label) Update(m LabelMsg, _ *elm.Sender[LabelMsg, NoEvent]) bool {
	if m.Kind == LabelMove {
		b := m.Bounds
		if b.X == l.x && b.Y == l.y && b.Width == l.width {
			return false
		}
		l.x, l.y, l.width = b.X, b.Y, max(b.Width, 0)
		return true
	}
	if m.Text == l.text {
		return false
	}
	l.text = m.Text
	return true
}

// Render draws the text, truncated and aligned within the label's width.
func (l *Label) Render(*elm.Sender[LabelMsg, NoEvent]) {
	term.Fill(l.canvas, l.x, l.y, l.width, 1, ' ', l.style)
	text := runewidth.Truncate(l.text, l.width, "…")
	x := l.x + l.align.offset(l.width, runewidth.StringWidth(text))
	term.DrawText(l.canvas, x, l.y, text, l.style)
}

// Text returns the current text.
func (l *Label) Text() string { return l.text }
