// Package async provides the single-threaded cooperative scheduler that every
// Loom component runs on.
//
// An [Executor] owns a queue of ready tasks. [Executor.RunReady] resumes each
// ready [Task] once, and a task runs until it next suspends inside [Await].
// Exactly one task runs at a time, so state shared between tasks on the same
// executor needs no locking. The executor never blocks the calling thread;
// blocking for native events is the job of the platform backend that calls
// RunReady.
//
// # Futures
//
// A [Future] is polled with a [Waker]. If the value is not ready the future
// keeps the waker and calls Wake once progress is possible:
//
//	h := async.Spawn(exec, "loader", func(t *async.Task) (string, error) {
//	    async.Await(t, async.Sleep(10*time.Millisecond))
//	    return "done", nil
//	})
//
// Futures that own an external registration implement [Canceler]. Await
// cancels such a future when the awaiting task is cancelled before the future
// resolves, and [Race] cancels every future that loses.
//
// # Tasks
//
// Tasks are backed by goroutines that hand control back and forth with the
// executor, so a task can suspend anywhere in its call stack. Tasks started
// with [Go] or [Task.Go] are children of the spawning task and are cancelled
// when it finishes. A panicking task resolves its [JoinHandle] with an
// *errors.PanicError; a detached task reports the panic through the global
// error handler instead.
package async
