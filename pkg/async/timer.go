package async

import (
	"sync"
	"time"
)

// Timer is a future that resolves once its duration has elapsed. The clock
// starts when the Timer is created, not when it is first polled.
type Timer struct {
	mu    sync.Mutex
	fired bool
	waker Waker
	timer *time.Timer
}

// Sleep returns a Timer that fires after d.
func Sleep(d time.Duration) *Timer {
	t := &Timer{}
	t.timer = time.AfterFunc(d, t.fire)
	return t
}

func (t *Timer) fire() {
	t.mu.Lock()
	t.fired = true
	w := t.waker
	t.waker = nil
	t.mu.Unlock()
	if w != nil {
		w.Wake()
	}
}

// Poll implements Future.
func (t *Timer) Poll(w Waker) (struct{}, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.fired {
		return struct{}{}, true
	}
	t.waker = w
	return struct{}{}, false
}

// Cancel stops the timer if it has not fired.
func (t *Timer) Cancel() {
	t.timer.Stop()
	t.mu.Lock()
	t.waker = nil
	t.mu.Unlock()
}
