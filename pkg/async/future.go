package async

// Waker is notified when a pending future can make progress.
type Waker interface {
	Wake()
}

// WakerFunc adapts a function to the Waker interface.
type WakerFunc func()

// Wake calls f.
func (f WakerFunc) Wake() { f() }

// NoopWaker returns a Waker that does nothing.
func NoopWaker() Waker { return WakerFunc(func() {}) }

// Future is a value that becomes available later.
//
// Poll returns the value and true once ready. While pending it returns false
// and keeps w, replacing any waker stored by an earlier poll.
type Future[T any] interface {
	Poll(w Waker) (T, bool)
}

// Canceler is implemented by futures that hold a registration which must be
// released if the future is abandoned before it resolves.
type Canceler interface {
	Cancel()
}

// Cancel releases f if it implements Canceler.
func Cancel(f any) {
	if c, ok := f.(Canceler); ok {
		c.Cancel()
	}
}

// FutureFunc adapts a poll function to the Future interface.
type FutureFunc[T any] func(w Waker) (T, bool)

// Poll calls f.
func (f FutureFunc[T]) Poll(w Waker) (T, bool) { return f(w) }

// Ready returns a future that is immediately ready with v.
func Ready[T any](v T) Future[T] {
	return FutureFunc[T](func(Waker) (T, bool) { return v, true })
}

// Pending returns a future that never resolves.
func Pending[T any]() Future[T] {
	return FutureFunc[T](func(Waker) (T, bool) {
		var zero T
		return zero, false
	})
}

type mapped[A, B any] struct {
	src Future[A]
	fn  func(A) B
}

// Map returns a future that applies fn to the value of f. Cancelling the
// returned future cancels f.
func Map[A, B any](f Future[A], fn func(A) B) Future[B] {
	return &mapped[A, B]{src: f, fn: fn}
}

func (m *mapped[A, B]) Poll(w Waker) (B, bool) {
	v, ok := m.src.Poll(w)
	if !ok {
		var zero B
		return zero, false
	}
	return m.fn(v), true
}

func (m *mapped[A, B]) Cancel() { Cancel(m.src) }

// Result carries a value or the error that prevented it.
type Result[T any] struct {
	Value T
	Err   error
}

// Indexed is the value produced by Race together with the index of the
// future that produced it.
type Indexed[T any] struct {
	Index int
	Value T
}

type race[T any] struct {
	fs   []Future[T]
	done bool
}

// Race returns a future that resolves with the first of fs to become ready.
// Futures are polled in order, so earlier futures win ties. The losers are
// cancelled as soon as a winner is found.
func Race[T any](fs ...Future[T]) Future[Indexed[T]] {
	return &race[T]{fs: fs}
}

func (r *race[T]) Poll(w Waker) (Indexed[T], bool) {
	if r.done {
		return Indexed[T]{Index: -1}, false
	}
	for i, f := range r.fs {
		if v, ok := f.Poll(w); ok {
			r.done = true
			for j, other := range r.fs {
				if j != i {
					Cancel(other)
				}
			}
			return Indexed[T]{Index: i, Value: v}, true
		}
	}
	return Indexed[T]{Index: -1}, false
}

func (r *race[T]) Cancel() {
	if r.done {
		return
	}
	r.done = true
	for _, f := range r.fs {
		Cancel(f)
	}
}
