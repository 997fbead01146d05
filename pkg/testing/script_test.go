package testing

import (
	"context"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/loom/pkg/async"
	"github.com/go-drift/loom/pkg/platform"
	"github.com/go-drift/loom/pkg/term"
)

func TestScriptBackendReplaysInOrder(t *testing.T) {
	b := NewScriptBackend(
		platform.Message{Handle: 1, Event: 1},
		platform.Message{Handle: 1, Event: 2},
	)

	for _, want := range []platform.EventID{1, 2} {
		m, ok, err := b.Next(context.Background(), nil)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, want, m.Event)
	}
	assert.Zero(t, b.Remaining())
	assert.Len(t, b.Delivered(), 2)
}

func TestScriptBackendStalls(t *testing.T) {
	b := NewScriptBackend()
	_, _, err := b.Next(context.Background(), make(chan struct{}))
	assert.ErrorIs(t, err, ErrStalled)
}

func TestScriptBackendWakeBeatsStall(t *testing.T) {
	b := NewScriptBackend()
	wake := make(chan struct{}, 1)
	wake <- struct{}{}

	_, ok, err := b.Next(context.Background(), wake)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHarnessStallFailsBlockedRoot(t *testing.T) {
	h := NewHarness(10, 2)
	h.Key('a')

	_, err := platform.BlockOn(context.Background(), h.Runtime, func(t *async.Task) (struct{}, error) {
		for {
			async.Await[platform.Message](t, h.Runtime.Wait(term.Screen, term.EventKey))
		}
	})
	assert.ErrorIs(t, err, ErrStalled)
	assert.Zero(t, h.Runtime.Registry().Len())
}

func TestHarnessGraceAllowsTimers(t *testing.T) {
	h := NewHarness(10, 2)
	h.Backend.Grace = time.Second

	_, err := platform.BlockOn(context.Background(), h.Runtime, func(t *async.Task) (struct{}, error) {
		async.Await[struct{}](t, async.Sleep(5*time.Millisecond))
		return struct{}{}, nil
	})
	assert.NoError(t, err)
}

func TestHarnessStampsMessages(t *testing.T) {
	h := NewHarness(10, 2)
	h.Type("ab")
	h.Resize(20, 4)

	var got []platform.Message
	for h.Backend.Remaining() > 0 {
		m, _, err := h.Backend.Next(context.Background(), nil)
		require.NoError(t, err)
		got = append(got, m)
	}

	require.Len(t, got, 3)
	assert.Equal(t, term.Key{Key: tcell.KeyRune, Rune: 'a'}, got[0].Data)
	assert.Equal(t, term.Size{Width: 20, Height: 4}, got[2].Data)
	assert.True(t, got[1].Time.After(got[0].Time))
}
