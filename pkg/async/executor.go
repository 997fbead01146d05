package async

import (
	"sync"
	"sync/atomic"

	"github.com/eapache/queue"
	"github.com/rs/zerolog"
)

// Executor is a run-to-completion scheduler for cooperative tasks.
//
// Wakers may be invoked from any goroutine; everything else about a task
// happens inside RunReady on the goroutine that calls it.
type Executor struct {
	mu     sync.Mutex
	ready  *queue.Queue
	live   map[uint64]*Task
	nextID uint64
	closed bool

	notify  chan struct{}
	running atomic.Bool
	log     zerolog.Logger
}

// Option configures an Executor.
type Option func(*Executor)

// WithLogger sets the logger used for task lifecycle tracing.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Executor) { e.log = l }
}

// NewExecutor creates an empty executor.
func NewExecutor(opts ...Option) *Executor {
	e := &Executor{
		ready:  queue.New(),
		live:   make(map[uint64]*Task),
		notify: make(chan struct{}, 1),
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Notify returns a channel that receives a value whenever a task becomes
// ready. Backends select on it while blocking for native events so that
// wakes from timers or other goroutines interrupt the wait.
func (e *Executor) Notify() <-chan struct{} {
	return e.notify
}

// Running reports whether RunReady is currently executing.
func (e *Executor) Running() bool {
	return e.running.Load()
}

// Pending reports whether any task is waiting in the ready queue.
func (e *Executor) Pending() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ready.Length() > 0
}

// Live returns the number of tasks that have been spawned and not finished.
func (e *Executor) Live() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.live)
}

// RunReady resumes every task that is ready at the time of the call, each
// exactly once, and reports whether more tasks became ready meanwhile.
//
// RunReady panics with ErrReentrant when called from inside a task.
func (e *Executor) RunReady() bool {
	if !e.running.CompareAndSwap(false, true) {
		panic(ErrReentrant)
	}
	defer e.running.Store(false)

	e.mu.Lock()
	n := e.ready.Length()
	e.mu.Unlock()

	for i := 0; i < n; i++ {
		e.mu.Lock()
		if e.ready.Length() == 0 {
			e.mu.Unlock()
			break
		}
		t := e.ready.Remove().(*Task)
		t.queued = false
		finished := t.finished
		e.mu.Unlock()

		if !finished {
			e.step(t)
		}
	}
	return e.Pending()
}

// Close cancels every live task and drives them until they have unwound.
// Tasks spawned afterwards are cancelled before they start.
//
// Close must not be called from inside a task.
func (e *Executor) Close() {
	e.mu.Lock()
	e.closed = true
	tasks := make([]*Task, 0, len(e.live))
	for _, t := range e.live {
		tasks = append(tasks, t)
	}
	e.mu.Unlock()

	for _, t := range tasks {
		t.Cancel()
	}
	for e.Pending() {
		e.RunReady()
	}
}

func (e *Executor) schedule(t *Task) {
	e.mu.Lock()
	if t.queued || t.finished {
		e.mu.Unlock()
		return
	}
	t.queued = true
	e.ready.Add(t)
	e.mu.Unlock()

	select {
	case e.notify <- struct{}{}:
	default:
	}
}

// step hands control to t and waits until it suspends or finishes.
func (e *Executor) step(t *Task) {
	if !t.started {
		t.started = true
		if t.canceled.Load() {
			e.finish(t, ErrCanceled)
			return
		}
		go t.main()
	} else {
		t.resume <- struct{}{}
	}
	<-t.yield
}

func (e *Executor) newTask(name string, parent *Task, body func(*Task) error) *Task {
	t := &Task{
		exec:   e,
		name:   name,
		parent: parent,
		body:   body,
		resume: make(chan struct{}),
		yield:  make(chan struct{}),
	}

	e.mu.Lock()
	e.nextID++
	t.id = e.nextID
	e.live[t.id] = t
	cancel := e.closed
	if parent != nil {
		if parent.finished {
			cancel = true
		} else {
			if parent.children == nil {
				parent.children = make(map[*Task]struct{})
			}
			parent.children[t] = struct{}{}
		}
	}
	e.mu.Unlock()

	if cancel {
		t.canceled.Store(true)
	}
	e.log.Debug().Uint64("task", t.id).Str("name", name).Msg("spawn")
	return t
}

func (e *Executor) finish(t *Task, err error) {
	e.mu.Lock()
	if t.finished {
		e.mu.Unlock()
		return
	}
	t.finished = true
	t.err = err
	delete(e.live, t.id)
	if t.parent != nil {
		delete(t.parent.children, t)
	}
	children := make([]*Task, 0, len(t.children))
	for c := range t.children {
		children = append(children, c)
	}
	t.children = nil
	joiner := t.joiner
	t.joiner = nil
	e.mu.Unlock()

	for _, c := range children {
		c.Cancel()
	}
	if joiner != nil {
		joiner.Wake()
	}

	ev := e.log.Debug()
	if err != nil && err != ErrCanceled {
		ev = e.log.Warn()
	}
	ev.Uint64("task", t.id).Str("name", t.name).AnErr("err", err).Msg("finish")
}
