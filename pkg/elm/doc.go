// Package elm composes UI components with an init/start/update/render
// lifecycle.
//
// A component is constructed by an init function, then runs its Start
// activity as a long-lived task that turns native events into messages.
// Messages posted through the component's Sender are drained in batches and
// fed to Update; when any Update in a batch asks for it, Render runs once.
// Events emitted with Sender.Output travel to the owner: a parent component
// (through a Child adapter) or the application driver (Run), which returns
// the first one.
//
//	ev, err := elm.Run(ctx, rt, NewCounter, CounterParams{Start: 1})
package elm
