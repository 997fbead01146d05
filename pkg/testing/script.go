package testing

import (
	"context"
	stderrors "errors"
	"sync"
	"time"

	"github.com/go-drift/loom/pkg/platform"
)

// ErrStalled is returned by ScriptBackend when its script is exhausted and
// nothing woke the runtime within the grace period.
var ErrStalled = stderrors.New("loomtest: script exhausted while the runtime was still waiting")

// ScriptBackend is a platform.Backend that replays queued messages.
type ScriptBackend struct {
	// Grace is how long Next waits for a wake once the script is empty.
	Grace time.Duration

	mu        sync.Mutex
	script    []platform.Message
	delivered []platform.Message
}

// NewScriptBackend returns a backend that replays msgs in order.
func NewScriptBackend(msgs ...platform.Message) *ScriptBackend {
	return &ScriptBackend{script: msgs}
}

// Push appends messages to the script.
func (b *ScriptBackend) Push(msgs ...platform.Message) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.script = append(b.script, msgs...)
}

// Remaining returns the number of queued messages not yet delivered.
func (b *ScriptBackend) Remaining() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.script)
}

// Delivered returns the messages handed out so far.
func (b *ScriptBackend) Delivered() []platform.Message {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]platform.Message(nil), b.delivered...)
}

// Next implements platform.Backend. Queued messages take priority over
// wakes, so a script runs the same way regardless of timer jitter.
func (b *ScriptBackend) Next(ctx context.Context, wake <-chan struct{}) (platform.Message, bool, error) {
	b.mu.Lock()
	if len(b.script) > 0 {
		m := b.script[0]
		b.script = b.script[1:]
		b.delivered = append(b.delivered, m)
		b.mu.Unlock()
		return m, true, nil
	}
	b.mu.Unlock()

	var grace <-chan time.Time
	if b.Grace > 0 {
		timer := time.NewTimer(b.Grace)
		defer timer.Stop()
		grace = timer.C
	}

	select {
	case <-wake:
		return platform.Message{}, false, nil
	case <-ctx.Done():
		return platform.Message{}, false, ctx.Err()
	case <-grace:
		return platform.Message{}, false, ErrStalled
	default:
	}
	if grace == nil {
		return platform.Message{}, false, ErrStalled
	}

	select {
	case <-wake:
		return platform.Message{}, false, nil
	case <-ctx.Done():
		return platform.Message{}, false, ctx.Err()
	case <-grace:
		return platform.Message{}, false, ErrStalled
	}
}
