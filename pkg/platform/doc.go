// Package platform connects the cooperative executor to a native event
// source.
//
// Native events are identified by a Handle (the window or widget that owns
// them) and an EventID. Code running in a task awaits a specific pair with
// Runtime.Wait; the Backend pump feeds native messages into Runtime, which
// resolves every matching wait and then runs the tasks that were woken.
//
//	rt := platform.NewRuntime(backend)
//	size, err := platform.BlockOn(ctx, rt, func(t *async.Task) (any, error) {
//		m := async.Await[platform.Message](t, rt.Wait(win, EventResize))
//		return m.Data, nil
//	})
//
// A Runtime is driven from a single goroutine. Tasks hand control back and
// forth with that goroutine, so component code never runs in parallel with
// itself.
package platform
