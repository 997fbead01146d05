package async

import "sync"

type callbackState uint8

const (
	callbackInactive callbackState = iota
	callbackActive
	callbackSignaled
)

// Callback is a single-waiter slot signalled from a native callback.
//
// Unlike registry waits, a Callback is owned by one widget and carries at
// most one undelivered value: signalling twice before the waiter runs keeps
// only the latest value.
type Callback[T any] struct {
	mu    sync.Mutex
	state callbackState
	waker Waker
	value T
}

// Signal stores v and wakes the waiter. It returns true when nobody is
// waiting, telling the caller to fall back to default handling.
func (c *Callback[T]) Signal(v T) bool {
	c.mu.Lock()
	var w Waker
	switch c.state {
	case callbackInactive:
		c.mu.Unlock()
		return true
	case callbackActive:
		w = c.waker
	}
	c.state = callbackSignaled
	c.waker = nil
	c.value = v
	c.mu.Unlock()

	if w != nil {
		w.Wake()
	}
	return false
}

// Wait returns a future for the next signal.
func (c *Callback[T]) Wait() Future[T] {
	return &callbackWait[T]{c: c}
}

type callbackWait[T any] struct {
	c *Callback[T]
}

func (f *callbackWait[T]) Poll(w Waker) (T, bool) {
	c := f.c
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == callbackSignaled {
		v := c.value
		var zero T
		c.value = zero
		c.state = callbackInactive
		return v, true
	}
	c.state = callbackActive
	c.waker = w
	var zero T
	return zero, false
}

// Cancel deregisters the waiter.
func (f *callbackWait[T]) Cancel() {
	c := f.c
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == callbackActive {
		c.state = callbackInactive
		c.waker = nil
	}
}
