package term

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/go-drift/loom/pkg/platform"
)

// Screen is the handle of the terminal itself.
const Screen platform.Handle = 1

// Native events raised on Screen.
const (
	// EventKey carries a Key.
	EventKey platform.EventID = iota + 1
	// EventResize carries a Size.
	EventResize
	// EventMouse carries a Mouse.
	EventMouse
	// EventClose is raised for Ctrl+C; it has no payload.
	EventClose
	// EventTick is raised by widgets that animate; it carries a time.Time.
	EventTick
)

// Key is the payload of EventKey.
type Key struct {
	Key  tcell.Key
	Rune rune
	Mod  tcell.ModMask
}

func (k Key) String() string {
	if k.Key == tcell.KeyRune {
		return fmt.Sprintf("%q", k.Rune)
	}
	return tcell.KeyNames[k.Key]
}

// Size is the payload of EventResize.
type Size struct {
	Width  int
	Height int
}

// Mouse is the payload of EventMouse.
type Mouse struct {
	X, Y    int
	Buttons tcell.ButtonMask
	Mod     tcell.ModMask
}

// Convert maps a tcell event to a message on Screen. Events loom does not
// model are reported with ok=false.
func Convert(ev tcell.Event) (m platform.Message, ok bool) {
	m = platform.Message{Handle: Screen, Time: ev.When()}
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyCtrlC {
			m.Event = EventClose
			return m, true
		}
		m.Event = EventKey
		m.Data = Key{Key: ev.Key(), Rune: ev.Rune(), Mod: ev.Modifiers()}
	case *tcell.EventResize:
		w, h := ev.Size()
		m.Event = EventResize
		m.Data = Size{Width: w, Height: h}
	case *tcell.EventMouse:
		x, y := ev.Position()
		m.Event = EventMouse
		m.Data = Mouse{X: x, Y: y, Buttons: ev.Buttons(), Mod: ev.Modifiers()}
	default:
		return platform.Message{}, false
	}
	return m, true
}
