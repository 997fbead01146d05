package async

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/go-drift/loom/pkg/errors"
)

// Task is a coroutine scheduled by an Executor.
//
// A Task is also the Waker for everything it awaits: waking a task puts it
// back on its executor's ready queue.
type Task struct {
	exec     *Executor
	id       uint64
	name     string
	parent   *Task
	body     func(*Task) error
	detached bool

	resume chan struct{}
	yield  chan struct{}

	// started is only touched by the executor goroutine.
	started bool

	// Guarded by exec.mu.
	queued   bool
	finished bool
	err      error
	joiner   Waker
	children map[*Task]struct{}

	canceled atomic.Bool
}

// ID returns the executor-unique identifier of t.
func (t *Task) ID() uint64 { return t.id }

// Name returns the name t was spawned with.
func (t *Task) Name() string { return t.name }

// Executor returns the executor that owns t.
func (t *Task) Executor() *Executor { return t.exec }

// Wake schedules t to be resumed by the next RunReady.
func (t *Task) Wake() { t.exec.schedule(t) }

// Cancel asks t to stop. A suspended task unwinds the next time it is
// resumed; a task that has not started never runs. Cancelling a finished
// task does nothing.
func (t *Task) Cancel() {
	t.canceled.Store(true)
	t.exec.schedule(t)
}

// Canceled reports whether cancellation has been requested.
func (t *Task) Canceled() bool { return t.canceled.Load() }

// Done reports whether t has finished.
func (t *Task) Done() bool {
	t.exec.mu.Lock()
	defer t.exec.mu.Unlock()
	return t.finished
}

// Err returns the error t finished with, or nil while it is running.
func (t *Task) Err() error {
	t.exec.mu.Lock()
	defer t.exec.mu.Unlock()
	return t.err
}

// Yield suspends t and lets every other ready task run first.
func (t *Task) Yield() {
	t.checkCanceled()
	t.Wake()
	t.suspend()
}

// Go starts fn as a child of t. The child is cancelled when t finishes.
func (t *Task) Go(name string, fn func(t *Task)) *JoinHandle[struct{}] {
	return Go(t, name, func(c *Task) (struct{}, error) {
		fn(c)
		return struct{}{}, nil
	})
}

func (t *Task) main() {
	var err error
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(cancelUnwind); ok {
				err = ErrCanceled
			} else {
				pe := &errors.PanicError{
					Op:         fmt.Sprintf("async.Task(%s)", t.name),
					Value:      r,
					StackTrace: errors.CaptureStack(),
					Timestamp:  time.Now(),
				}
				if t.detached {
					errors.ReportPanic(pe)
				}
				err = pe
			}
		}
		t.exec.finish(t, err)
		t.yield <- struct{}{}
	}()
	err = t.body(t)
}

// suspend returns control to the executor until t is resumed.
func (t *Task) suspend() {
	t.yield <- struct{}{}
	<-t.resume
	t.checkCanceled()
}

func (t *Task) checkCanceled() {
	if t.canceled.Load() {
		panic(cancelUnwind{})
	}
}

// Await suspends t until f is ready and returns its value.
//
// Await must be called from t's own body. If t is cancelled while waiting,
// f is cancelled and t unwinds.
func Await[T any](t *Task, f Future[T]) T {
	settled := false
	defer func() {
		if !settled {
			Cancel(f)
		}
	}()
	for {
		t.checkCanceled()
		if v, ok := f.Poll(t); ok {
			settled = true
			return v
		}
		t.suspend()
	}
}

// Select awaits the first of fs and returns its index and value. The other
// futures are cancelled.
func Select[T any](t *Task, fs ...Future[T]) (int, T) {
	r := Await(t, Race(fs...))
	return r.Index, r.Value
}

// Timeout awaits f for at most d.
func Timeout[T any](t *Task, f Future[T], d time.Duration) (T, error) {
	value := Map(f, func(v T) Result[T] { return Result[T]{Value: v} })
	deadline := Map[struct{}](Sleep(d), func(struct{}) Result[T] { return Result[T]{Err: ErrTimeout} })
	_, r := Select(t, value, deadline)
	return r.Value, r.Err
}

// Spawn starts fn as a top-level task on e.
func Spawn[T any](e *Executor, name string, fn func(t *Task) (T, error)) *JoinHandle[T] {
	return spawn(e, name, nil, false, fn)
}

// Go starts fn as a child of parent. Children are cancelled when their
// parent finishes, which is how long-lived subscriptions are torn down.
func Go[T any](parent *Task, name string, fn func(t *Task) (T, error)) *JoinHandle[T] {
	return spawn(parent.exec, name, parent, false, fn)
}

// Detach starts fn as a top-level task whose result nobody awaits. A panic
// in fn is reported through errors.ReportPanic and the executor carries on.
func (e *Executor) Detach(name string, fn func(t *Task)) *Task {
	h := spawn(e, name, nil, true, func(t *Task) (struct{}, error) {
		fn(t)
		return struct{}{}, nil
	})
	return h.task
}

func spawn[T any](e *Executor, name string, parent *Task, detached bool, fn func(*Task) (T, error)) *JoinHandle[T] {
	h := &JoinHandle[T]{}
	h.task = e.newTask(name, parent, func(t *Task) error {
		v, err := fn(t)
		h.value = v
		return err
	})
	h.task.detached = detached
	e.schedule(h.task)
	return h
}

// JoinHandle is a future for the outcome of a task.
//
// Dropping a JoinHandle does not stop the task; use Abort for that.
type JoinHandle[T any] struct {
	task  *Task
	value T
}

// Task returns the underlying task.
func (h *JoinHandle[T]) Task() *Task { return h.task }

// Poll implements Future. Only the most recent waker is kept.
func (h *JoinHandle[T]) Poll(w Waker) (Result[T], bool) {
	e := h.task.exec
	e.mu.Lock()
	defer e.mu.Unlock()
	if h.task.finished {
		return Result[T]{Value: h.value, Err: h.task.err}, true
	}
	h.task.joiner = w
	return Result[T]{}, false
}

// TryResult returns the outcome if the task has finished.
func (h *JoinHandle[T]) TryResult() (Result[T], bool) {
	e := h.task.exec
	e.mu.Lock()
	defer e.mu.Unlock()
	if !h.task.finished {
		return Result[T]{}, false
	}
	return Result[T]{Value: h.value, Err: h.task.err}, true
}

// Abort cancels the task.
func (h *JoinHandle[T]) Abort() { h.task.Cancel() }

// Join awaits h from t.
func Join[T any](t *Task, h *JoinHandle[T]) (T, error) {
	r := Await[Result[T]](t, h)
	return r.Value, r.Err
}
