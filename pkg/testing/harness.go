package testing

import (
	stdtesting "testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/sebdah/goldie/v2"

	"github.com/go-drift/loom/pkg/platform"
	"github.com/go-drift/loom/pkg/term"
)

// Harness wires a runtime to a scripted terminal and an in-memory canvas.
type Harness struct {
	Backend *ScriptBackend
	Runtime *platform.Runtime
	Canvas  *term.Buffer
	Clock   *FakeClock
}

// NewHarness creates a harness with a width x height canvas. Extra options
// are passed to the runtime.
func NewHarness(width, height int, opts ...platform.Option) *Harness {
	clock := NewFakeClock()
	clock.SetStep(time.Millisecond)
	backend := NewScriptBackend()
	opts = append([]platform.Option{platform.WithClock(clock.Now)}, opts...)
	return &Harness{
		Backend: backend,
		Runtime: platform.NewRuntime(backend, opts...),
		Canvas:  term.NewBuffer(width, height),
		Clock:   clock,
	}
}

func (h *Harness) push(ev platform.EventID, data any) {
	h.Backend.Push(platform.Message{
		Handle: term.Screen,
		Event:  ev,
		Data:   data,
		Time:   h.Clock.Now(),
	})
}

// Key queues a printable key press.
func (h *Harness) Key(r rune) {
	h.push(term.EventKey, term.Key{Key: tcell.KeyRune, Rune: r})
}

// Type queues one key press per rune of s.
func (h *Harness) Type(s string) {
	for _, r := range s {
		h.Key(r)
	}
}

// Press queues a special key press such as tcell.KeyEnter.
func (h *Harness) Press(k tcell.Key) {
	h.push(term.EventKey, term.Key{Key: k})
}

// Resize queues a terminal resize.
func (h *Harness) Resize(width, height int) {
	h.push(term.EventResize, term.Size{Width: width, Height: height})
}

// Close queues the terminal close request.
func (h *Harness) Close() {
	h.push(term.EventClose, nil)
}

// Frame returns the canvas contents.
func (h *Harness) Frame() string {
	return h.Canvas.String()
}

// Snapshot compares the canvas against testdata/<name>.golden.
func (h *Harness) Snapshot(t *stdtesting.T, name string) {
	t.Helper()
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, []byte(h.Frame()))
}
