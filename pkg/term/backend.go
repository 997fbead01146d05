package term

import (
	"context"
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"

	"github.com/go-drift/loom/pkg/errors"
	"github.com/go-drift/loom/pkg/platform"
)

// Options configures Open.
type Options struct {
	// Mouse enables mouse reporting.
	Mouse bool
	// Logger receives backend diagnostics. The terminal owns stdout, so
	// this should write to a file or be disabled.
	Logger zerolog.Logger
}

// Backend pumps tcell events into a platform.Runtime.
type Backend struct {
	screen tcell.Screen
	log    zerolog.Logger

	events chan platform.Message
	stopCh chan struct{}
	doneCh chan struct{}
	once   sync.Once
}

// Open initializes the controlling terminal and returns a backend reading
// from it.
func Open(opts Options) (*Backend, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("terminal screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("terminal init: %w", err)
	}
	if opts.Mouse {
		screen.EnableMouse()
	}
	return NewBackend(screen, opts.Logger), nil
}

// NewBackend wraps an initialized screen and starts polling it.
func NewBackend(screen tcell.Screen, log zerolog.Logger) *Backend {
	b := &Backend{
		screen: screen,
		log:    log,
		events: make(chan platform.Message, 64),
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
	go b.pollLoop()
	return b
}

// pollLoop reads screen events until the screen is finalized. A panic in
// the screen driver is reported and ends the stream, so Next returns
// ErrBackendClosed instead of the process dying.
func (b *Backend) pollLoop() {
	defer close(b.doneCh)
	defer close(b.events)
	defer errors.Recover("term.Backend.pollLoop")

	for {
		ev := b.screen.PollEvent()
		if ev == nil {
			return
		}
		m, ok := Convert(ev)
		if !ok {
			continue
		}
		select {
		case b.events <- m:
		case <-b.stopCh:
			return
		}
	}
}

// Next implements platform.Backend.
func (b *Backend) Next(ctx context.Context, wake <-chan struct{}) (platform.Message, bool, error) {
	select {
	case m, ok := <-b.events:
		if !ok {
			return platform.Message{}, false, platform.ErrBackendClosed
		}
		b.log.Trace().Uint32("event", uint32(m.Event)).Msg("terminal event")
		return m, true, nil
	case <-wake:
		return platform.Message{}, false, nil
	case <-ctx.Done():
		return platform.Message{}, false, ctx.Err()
	}
}

// Canvas returns a canvas drawing onto the screen.
func (b *Backend) Canvas() Canvas {
	return screenCanvas{b.screen}
}

// Size returns the current screen size.
func (b *Backend) Size() Size {
	w, h := b.screen.Size()
	return Size{Width: w, Height: h}
}

// Close restores the terminal and stops the poller. It is safe to call more
// than once.
func (b *Backend) Close() {
	b.once.Do(func() {
		close(b.stopCh)
		b.screen.Fini()
		<-b.doneCh
	})
}
