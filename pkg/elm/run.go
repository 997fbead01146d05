package elm

import (
	"context"

	"github.com/go-drift/loom/pkg/async"
	"github.com/go-drift/loom/pkg/platform"
)

// Run constructs the root component and drives it on rt until it emits its
// first event, which Run returns. Messages queued after that event are
// discarded.
func Run[I any, C Component[M, E], M, E any](ctx context.Context, rt *platform.Runtime, init func(I, *Sender[M, E]) (C, error), params I) (E, error) {
	return platform.BlockOn(ctx, rt, func(t *async.Task) (E, error) {
		return RunTask(t, init, params)
	})
}

// RunTask is Run for callers that already own a task, such as a component
// that opens a modal sub-application.
func RunTask[I any, C Component[M, E], M, E any](t *async.Task, init func(I, *Sender[M, E]) (C, error), params I) (E, error) {
	root, err := NewRoot(init, params)
	if err != nil {
		var zero E
		return zero, err
	}
	return root.Next(t)
}
