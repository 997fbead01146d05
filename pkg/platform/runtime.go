package platform

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/go-drift/loom/pkg/async"
	"github.com/go-drift/loom/pkg/errors"
)

// Runtime owns the executor and registry for one UI surface and pumps its
// Backend.
type Runtime struct {
	exec    *async.Executor
	reg     *Registry
	backend Backend
	log     zerolog.Logger
	now     func() time.Time
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithLogger sets the logger used by the runtime, its executor and its
// registry.
func WithLogger(l zerolog.Logger) Option {
	return func(r *Runtime) { r.log = l }
}

// WithClock overrides the clock used to stamp messages delivered through
// Emit.
func WithClock(now func() time.Time) Option {
	return func(r *Runtime) { r.now = now }
}

// NewRuntime creates a runtime pumping backend. A nil backend is allowed for
// runtimes that are driven purely through Deliver and RunReady.
func NewRuntime(backend Backend, opts ...Option) *Runtime {
	r := &Runtime{
		backend: backend,
		log:     zerolog.Nop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.exec = async.NewExecutor(async.WithLogger(r.log))
	r.reg = NewRegistry()
	r.reg.log = r.log
	return r
}

// Executor returns the runtime's executor.
func (r *Runtime) Executor() *async.Executor { return r.exec }

// Registry returns the runtime's native event registry.
func (r *Runtime) Registry() *Registry { return r.reg }

// Logger returns the runtime's logger.
func (r *Runtime) Logger() zerolog.Logger { return r.log }

// Wait registers interest in the next (h, ev) native event.
func (r *Runtime) Wait(h Handle, ev EventID) *WaitFuture {
	return newWaitFuture(r.reg, h, ev)
}

// Deliver hands a native message to the registry and then runs every task it
// woke. It reports whether anybody was waiting for the message.
//
// Deliver must be called from the goroutine driving the runtime. Called from
// inside a task, it only resolves the waits; the woken tasks run later in the
// same RunReady.
func (r *Runtime) Deliver(m Message) bool {
	handled := r.reg.Deliver(m)
	if !r.exec.Running() {
		r.exec.RunReady()
	}
	return handled
}

// Emit delivers a message built from h, ev and data, stamped with the
// runtime clock. Widgets use it to raise synthetic events.
func (r *Runtime) Emit(h Handle, ev EventID, data any) bool {
	return r.Deliver(Message{Handle: h, Event: ev, Data: data, Time: r.now()})
}

// RunReady runs every ready task once.
func (r *Runtime) RunReady() bool {
	return r.exec.RunReady()
}

// Dispatch runs fn on the runtime's task loop. A panic in fn is reported and
// does not stop the runtime.
func (r *Runtime) Dispatch(fn func()) *async.Task {
	return r.exec.Detach("dispatch", func(*async.Task) { fn() })
}

// Close cancels every live task. Pending waits are released as their tasks
// unwind.
func (r *Runtime) Close() {
	r.exec.Close()
}

// BlockOn runs fn as the root task and pumps the backend until it finishes.
//
// Native failures are fatal: the root task is cancelled and BlockOn returns a
// KindPlatform error. Cancelling ctx stops the loop the same way and returns
// ctx.Err().
func BlockOn[T any](ctx context.Context, r *Runtime, fn func(t *async.Task) (T, error)) (T, error) {
	var zero T
	root := async.Spawn(r.exec, "root", fn)

	for {
		r.exec.RunReady()
		if res, ok := root.TryResult(); ok {
			// Let the root's children unwind and release their waits.
			for r.exec.RunReady() {
			}
			return res.Value, res.Err
		}
		if r.exec.Pending() {
			continue
		}
		if err := ctx.Err(); err != nil {
			r.abort(root.Task())
			return zero, err
		}
		if r.backend == nil {
			r.abort(root.Task())
			return zero, &errors.LoomError{
				Op:   "platform.BlockOn",
				Kind: errors.KindPlatform,
				Err:  ErrNoBackend,
			}
		}

		m, ok, err := r.backend.Next(ctx, r.exec.Notify())
		if err != nil {
			r.abort(root.Task())
			if ctx.Err() != nil {
				return zero, ctx.Err()
			}
			return zero, &errors.LoomError{
				Op:   "platform.BlockOn",
				Kind: errors.KindPlatform,
				Err:  err,
			}
		}
		if !ok {
			r.log.Trace().Msg("pump woken")
			continue
		}
		r.reg.Deliver(m)
	}
}

// abort cancels t and runs the executor until t and its children have
// unwound.
func (r *Runtime) abort(t *async.Task) {
	t.Cancel()
	for r.exec.RunReady() {
	}
}
