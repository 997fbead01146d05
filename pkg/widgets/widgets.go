package widgets

import (
	stderrors "errors"

	"github.com/go-drift/loom/pkg/errors"
	"github.com/go-drift/loom/pkg/platform"
)

var (
	// ErrNoCanvas is returned when a widget is created without a canvas.
	ErrNoCanvas = stderrors.New("widgets: canvas is required")
	// ErrNoRuntime is returned when an interactive widget is created without
	// a runtime.
	ErrNoRuntime = stderrors.New("widgets: runtime is required")
)

// Rect is an area of the canvas in cells.
type Rect struct {
	X, Y          int
	Width, Height int
}

// NoEvent is the event type of widgets that never report anything.
type NoEvent struct{}

// Align controls horizontal placement of text.
type Align uint8

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// offset returns the column at which text of width used starts inside a
// field of width avail.
func (a Align) offset(avail, used int) int {
	if used >= avail {
		return 0
	}
	switch a {
	case AlignCenter:
		return (avail - used) / 2
	case AlignRight:
		return avail - used
	default:
		return 0
	}
}

// payload decodes a native message, reporting undecodable ones instead of
// failing the widget.
func payload[T any](op string, m platform.Message) (T, bool) {
	v, err := platform.Payload[T](m)
	if err != nil {
		errors.Report(&errors.LoomError{
			Op:     op,
			Kind:   errors.KindParsing,
			Err:    err,
			Target: m.Key().String(),
		})
		return v, false
	}
	return v, true
}
