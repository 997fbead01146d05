package showcase

import (
	"context"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/loom/pkg/async"
	"github.com/go-drift/loom/pkg/elm"
	"github.com/go-drift/loom/pkg/platform"
	"github.com/go-drift/loom/pkg/term"
	loomtest "github.com/go-drift/loom/pkg/testing"
	"github.com/go-drift/loom/pkg/widgets"
)

func params(h *loomtest.Harness) Params {
	return Params{Runtime: h.Runtime, Canvas: h.Canvas, Title: "loom counter"}
}

func TestCounterKeys(t *testing.T) {
	h := loomtest.NewHarness(30, 8)
	h.Type("+++-q")

	exit, err := elm.Run(context.Background(), h.Runtime, NewApp, params(h))

	require.NoError(t, err)
	assert.Equal(t, Exit{Count: 2, Reason: "quit", History: []string{"2", "3", "2", "1"}}, exit)
	h.Snapshot(t, "counter_after_keys")
	assert.Zero(t, h.Runtime.Registry().Len())
}

func TestCounterInitialFrame(t *testing.T) {
	h := loomtest.NewHarness(30, 8)
	h.Close()

	exit, err := elm.Run(context.Background(), h.Runtime, NewApp, params(h))

	require.NoError(t, err)
	assert.Equal(t, "closed", exit.Reason)
	h.Snapshot(t, "counter_initial")
}

func TestCounterRestoresFromHistory(t *testing.T) {
	h := loomtest.NewHarness(30, 8)
	h.Type("+++")
	h.Press(tcell.KeyDown)
	h.Press(tcell.KeyDown)
	h.Press(tcell.KeyEnter)
	h.Key('q')

	exit, err := elm.Run(context.Background(), h.Runtime, NewApp, params(h))

	require.NoError(t, err)
	assert.Equal(t, 1, exit.Count)
	assert.Equal(t, []string{"1", "3", "2", "1"}, exit.History)
}

func TestCounterReset(t *testing.T) {
	h := loomtest.NewHarness(30, 8)
	h.Type("++rq")

	exit, err := elm.Run(context.Background(), h.Runtime, NewApp, params(h))

	require.NoError(t, err)
	assert.Equal(t, Exit{Count: 0, Reason: "quit", History: []string{"0"}}, exit)
}

func TestCounterHistoryIsBounded(t *testing.T) {
	h := loomtest.NewHarness(30, 8)
	for range maxHistory + 5 {
		h.Key('+')
	}
	h.Key('q')

	exit, err := elm.Run(context.Background(), h.Runtime, NewApp, params(h))

	require.NoError(t, err)
	assert.Equal(t, maxHistory+5, exit.Count)
	assert.Len(t, exit.History, maxHistory)
	assert.Equal(t, "55", exit.History[0])
}

func TestCounterClockTicks(t *testing.T) {
	h := loomtest.NewHarness(30, 8)
	h.Backend.Grace = time.Second
	p := params(h)
	p.Tick = 2 * time.Millisecond

	root, err := elm.NewRoot(NewApp, p)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_, err = platform.BlockOn(ctx, h.Runtime, func(t *async.Task) (Exit, error) {
		return root.Next(t)
	})

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.GreaterOrEqual(t, root.Component().Ticks(), 2)
	assert.Contains(t, h.Frame(), "ticks")
}

func TestCounterRelaysOutOnResize(t *testing.T) {
	h := loomtest.NewHarness(30, 8)
	h.Key('+')
	h.Resize(40, 10)
	h.Key('q')

	exit, err := elm.Run(context.Background(), h.Runtime, NewApp, params(h))

	require.NoError(t, err)
	assert.Equal(t, 1, exit.Count)
	h.Snapshot(t, "counter_resized")
}

func TestLayoutFor(t *testing.T) {
	lay := layoutFor(term.Size{Width: 30, Height: 8})

	assert.Equal(t, widgets.Rect{X: 2, Y: 1, Width: 26, Height: 1}, lay.counter)
	assert.Equal(t, widgets.Rect{X: 2, Y: 3, Width: 26, Height: 1}, lay.clock)
	assert.Equal(t, widgets.Rect{X: 2, Y: 4, Width: 26, Height: 3}, lay.list)

	tiny := layoutFor(term.Size{Width: 2, Height: 2})
	assert.Zero(t, tiny.list.Width)
	assert.Zero(t, tiny.list.Height)
}
