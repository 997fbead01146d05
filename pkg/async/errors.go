package async

import "errors"

var (
	// ErrCanceled resolves the JoinHandle of a task that was cancelled
	// before it returned.
	ErrCanceled = errors.New("async: task canceled")

	// ErrReentrant is the panic value raised when RunReady is entered from
	// inside a task it is driving.
	ErrReentrant = errors.New("async: executor entered recursively")

	// ErrTimeout is returned by Timeout when the deadline wins the race.
	ErrTimeout = errors.New("async: timed out")
)

// cancelUnwind is the panic value used to unwind a cancelled task's stack.
type cancelUnwind struct{}
