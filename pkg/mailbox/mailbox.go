// Package mailbox implements the inbox that components post messages into.
//
// A Mailbox is an unordered-by-producer buffer with a single wake slot: any
// goroutine may Send, and one consumer waits for the buffer to become
// non-empty and then drains it in one batch.
package mailbox

import (
	"sync"

	"github.com/go-drift/loom/pkg/async"
)

// Mailbox buffers items until they are drained.
type Mailbox[T any] struct {
	mu    sync.Mutex
	items []T
	waker async.Waker
}

// New creates an empty mailbox.
func New[T any]() *Mailbox[T] {
	return &Mailbox[T]{}
}

// Send appends v and signals the armed waker, if any.
func (m *Mailbox[T]) Send(v T) {
	m.mu.Lock()
	m.items = append(m.items, v)
	w := m.waker
	m.waker = nil
	m.mu.Unlock()

	if w != nil {
		w.Wake()
	}
}

// Wait returns a future that resolves as soon as the mailbox holds at least
// one item. It does not consume anything.
//
// Only one waiter is supported: arming a second waiter replaces the first.
func (m *Mailbox[T]) Wait() async.Future[struct{}] {
	return waitFuture[T]{m: m}
}

// Drain removes and returns every buffered item in send order.
func (m *Mailbox[T]) Drain() []T {
	m.mu.Lock()
	defer m.mu.Unlock()
	items := m.items
	m.items = nil
	return items
}

// Len returns the number of buffered items.
func (m *Mailbox[T]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

type waitFuture[T any] struct {
	m *Mailbox[T]
}

func (f waitFuture[T]) Poll(w async.Waker) (struct{}, bool) {
	m := f.m
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.items) > 0 {
		return struct{}{}, true
	}
	m.waker = w
	return struct{}{}, false
}

// Cancel disarms the waker so an abandoned wait is not woken.
func (f waitFuture[T]) Cancel() {
	f.m.mu.Lock()
	f.m.waker = nil
	f.m.mu.Unlock()
}
