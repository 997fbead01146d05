package term

import (
	"context"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/loom/pkg/errors"
	"github.com/go-drift/loom/pkg/platform"
)

func TestConvertKey(t *testing.T) {
	m, ok := Convert(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone))
	require.True(t, ok)
	assert.Equal(t, Screen, m.Handle)
	assert.Equal(t, EventKey, m.Event)
	assert.Equal(t, Key{Key: tcell.KeyRune, Rune: 'q', Mod: tcell.ModNone}, m.Data)
	assert.False(t, m.Time.IsZero())
}

func TestConvertCtrlCIsClose(t *testing.T) {
	m, ok := Convert(tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl))
	require.True(t, ok)
	assert.Equal(t, EventClose, m.Event)
	assert.Nil(t, m.Data)
}

func TestConvertResizeAndMouse(t *testing.T) {
	m, ok := Convert(tcell.NewEventResize(100, 50))
	require.True(t, ok)
	assert.Equal(t, EventResize, m.Event)
	assert.Equal(t, Size{Width: 100, Height: 50}, m.Data)

	m, ok = Convert(tcell.NewEventMouse(3, 4, tcell.Button1, tcell.ModNone))
	require.True(t, ok)
	assert.Equal(t, EventMouse, m.Event)
	assert.Equal(t, Mouse{X: 3, Y: 4, Buttons: tcell.Button1}, m.Data)
}

func TestConvertIgnoresOtherEvents(t *testing.T) {
	_, ok := Convert(tcell.NewEventInterrupt(nil))
	assert.False(t, ok)
}

func TestKeyString(t *testing.T) {
	assert.Equal(t, "'x'", Key{Key: tcell.KeyRune, Rune: 'x'}.String())
	assert.Equal(t, "Enter", Key{Key: tcell.KeyEnter}.String())
}

func TestDrawTextClipsAndHandlesWideRunes(t *testing.T) {
	b := NewBuffer(6, 2)

	assert.Equal(t, 4, DrawText(b, 0, 0, "日本", tcell.StyleDefault))
	assert.Equal(t, 4, DrawText(b, 2, 1, "abcdef", tcell.StyleDefault))

	assert.Equal(t, "日本\n  abcd\n", b.String())
	assert.Equal(t, 4, TextWidth("日本"))
}

func TestFrame(t *testing.T) {
	b := NewBuffer(10, 3)
	Frame(b, 0, 0, 10, 3, "hi", tcell.StyleDefault)

	assert.Equal(t, "┌─ hi ───┐\n│        │\n└────────┘\n", b.String())
}

func TestBufferIgnoresOutOfBounds(t *testing.T) {
	b := NewBuffer(2, 1)
	b.SetCell(-1, 0, 'x', tcell.StyleDefault)
	b.SetCell(2, 0, 'x', tcell.StyleDefault)
	b.SetCell(0, 1, 'x', tcell.StyleDefault)
	assert.Equal(t, "\n", b.String())

	b.Show()
	assert.Equal(t, 1, b.Shows())
}

func TestBackendPumpsScreenEvents(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(20, 5)

	b := NewBackend(screen, zerolog.Nop())
	defer b.Close()
	assert.Equal(t, Size{Width: 20, Height: 5}, b.Size())

	_ = screen.PostEvent(tcell.NewEventKey(tcell.KeyRune, 'a', tcell.ModNone))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	for {
		m, ok, err := b.Next(ctx, nil)
		require.NoError(t, err)
		require.True(t, ok)
		if m.Event == EventKey {
			assert.Equal(t, 'a', m.Data.(Key).Rune)
			return
		}
	}
}

func TestBackendWake(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	b := NewBackend(screen, zerolog.Nop())
	defer b.Close()

	wake := make(chan struct{}, 1)
	wake <- struct{}{}
	_, ok, err := b.Next(context.Background(), wake)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBackendCloseEndsStream(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	b := NewBackend(screen, zerolog.Nop())
	b.Close()
	b.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	for {
		_, _, err := b.Next(ctx, nil)
		if err != nil {
			assert.ErrorIs(t, err, platform.ErrBackendClosed)
			return
		}
	}
}

// brokenScreen is a screen whose driver panics while polling.
type brokenScreen struct {
	tcell.SimulationScreen
}

func (brokenScreen) PollEvent() tcell.Event { panic("tty vanished") }

type panicRecorder struct {
	panics []*errors.PanicError
}

func (r *panicRecorder) HandleError(*errors.LoomError)      {}
func (r *panicRecorder) HandlePanic(err *errors.PanicError) { r.panics = append(r.panics, err) }

func TestBackendReportsPollPanic(t *testing.T) {
	rec := &panicRecorder{}
	errors.SetHandler(rec)
	t.Cleanup(func() { errors.SetHandler(nil) })

	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	b := NewBackend(brokenScreen{screen}, zerolog.Nop())
	defer b.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, _, err := b.Next(ctx, nil)
	require.ErrorIs(t, err, platform.ErrBackendClosed)

	require.Len(t, rec.panics, 1)
	assert.Equal(t, "term.Backend.pollLoop", rec.panics[0].Op)
	assert.Equal(t, "tty vanished", rec.panics[0].Value)
}
