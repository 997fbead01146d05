package elm

import (
	stderrors "errors"
	"iter"
	"time"

	"github.com/go-drift/loom/pkg/async"
	"github.com/go-drift/loom/pkg/errors"
)

// Root is the top of a component tree. It drives the tree from a task and
// hands out the events the root component emits.
type Root[C Component[M, E], M, E any] struct {
	comp    C
	sender  *Sender[M, E]
	start   *async.JoinHandle[struct{}]
	backlog []Envelope[M, E]
	renders int
}

// NewRoot constructs the root component with init.
func NewRoot[I any, C Component[M, E], M, E any](init func(I, *Sender[M, E]) (C, error), params I) (*Root[C, M, E], error) {
	s := newSender[M, E]()
	comp, err := init(params, s)
	if err != nil {
		return nil, &errors.LoomError{
			Op:   "elm.NewRoot",
			Kind: errors.KindInit,
			Err:  err,
		}
	}
	return &Root[C, M, E]{comp: comp, sender: s}, nil
}

// Component returns the root component.
func (r *Root[C, M, E]) Component() C { return r.comp }

// Sender returns the root component's sender.
func (r *Root[C, M, E]) Sender() *Sender[M, E] { return r.sender }

// Post queues a message for the root component.
func (r *Root[C, M, E]) Post(m M) { r.sender.Post(m) }

// Emit feeds m straight to the root component's Update.
func (r *Root[C, M, E]) Emit(m M) bool {
	return r.comp.Update(m, r.sender)
}

// Renders returns how many render passes the root has performed.
func (r *Root[C, M, E]) Renders() int { return r.renders }

// Next drives the tree until the root component emits an event and returns
// it.
//
// The first call renders once and starts the root's Start activity as a
// child of t; it keeps running across calls and stops when t finishes. Each
// wake drains the mailbox as one batch: every message before the first event
// is passed to Update, the tree is rendered once if any update asked for it,
// and then the event is returned. Items after the event are kept for the
// next call.
func (r *Root[C, M, E]) Next(t *async.Task) (E, error) {
	var zero E
	if r.start == nil {
		if err := guard("elm.Render", r.render); err != nil {
			return zero, err
		}
		r.start = async.Go(t, "root.start", func(t *async.Task) (struct{}, error) {
			r.comp.Start(t, r.sender)
			return struct{}{}, nil
		})
	}

	for {
		if len(r.backlog) == 0 {
			if err := r.wait(t); err != nil {
				return zero, err
			}
			r.backlog = r.sender.box.Drain()
		}

		var (
			e    E
			done bool
		)
		err := guard("elm.Update", func() {
			e, done = r.process()
		})
		if err != nil || done {
			return e, err
		}
	}
}

// process runs one pass over the backlog. It reports the event that ended
// the pass, if any.
func (r *Root[C, M, E]) process() (E, bool) {
	needsRender := updateChildren[M, E](r.comp)
	for len(r.backlog) > 0 {
		env := r.backlog[0]
		r.backlog = r.backlog[1:]
		if env.IsEvent {
			if needsRender {
				r.render()
			}
			return env.Event, true
		}
		if r.comp.Update(env.Message, r.sender) {
			needsRender = true
		}
	}
	if needsRender {
		r.render()
	}
	var zero E
	return zero, false
}

// guard runs fn and turns a panic into a KindPanic error for op. fn must not
// await: cancellation unwinds tasks by panicking at suspension points.
func guard(op string, fn func()) (err error) {
	defer func() {
		if v := recover(); v != nil {
			pe := &errors.PanicError{
				Op:         op,
				Value:      v,
				StackTrace: errors.CaptureStack(),
				Timestamp:  time.Now(),
			}
			err = &errors.LoomError{
				Op:        op,
				Kind:      errors.KindPanic,
				Err:       pe,
				Timestamp: pe.Timestamp,
			}
		}
	}()
	fn()
	return nil
}

// wait suspends until the mailbox has items. It also watches the Start task
// so that a failing subscription is reported instead of hanging the tree.
func (r *Root[C, M, E]) wait(t *async.Task) error {
	if r.start.Task().Done() {
		if err := r.start.Task().Err(); err != nil {
			return startError(err)
		}
		async.Await(t, r.sender.box.Wait())
		return nil
	}

	started := async.Map[async.Result[struct{}]](r.start, func(async.Result[struct{}]) struct{} {
		return struct{}{}
	})
	i, _ := async.Select(t, started, r.sender.box.Wait())
	if i == 0 {
		if err := r.start.Task().Err(); err != nil {
			return startError(err)
		}
	}
	return nil
}

func startError(err error) error {
	kind := errors.KindUnknown
	var pe *errors.PanicError
	if stderrors.As(err, &pe) {
		kind = errors.KindPanic
	}
	return &errors.LoomError{Op: "elm.Start", Kind: kind, Err: err}
}

func (r *Root[C, M, E]) render() {
	r.renders++
	renderTree[M, E](r.comp, r.sender)
}

// Events returns an iterator over the events the root emits. Iteration stops
// after the first error.
func (r *Root[C, M, E]) Events(t *async.Task) iter.Seq2[E, error] {
	return func(yield func(E, error) bool) {
		for {
			e, err := r.Next(t)
			if !yield(e, err) || err != nil {
				return
			}
		}
	}
}

// IntoChild turns the root into a Child so that its tree can be embedded in
// another component. Items left from the last batch carry over. The root
// must not be used afterwards.
func (r *Root[C, M, E]) IntoChild() *Child[C, M, E] {
	c := &Child[C, M, E]{comp: r.comp, sender: r.sender}
	for _, env := range r.backlog {
		if env.IsEvent {
			c.events = append(c.events, env.Event)
		} else {
			c.cached = append(c.cached, env.Message)
		}
	}
	r.backlog = nil
	return c
}
