package platform

import (
	"fmt"

	"github.com/go-drift/loom/pkg/async"
	"github.com/go-drift/loom/pkg/errors"
)

// WaitFuture resolves with the next native message delivered for its key.
//
// The future owns its registry slot. Once it resolves the slot is released
// and the message is kept, so polling again returns the same message without
// registering anew. Cancelling an unresolved future releases the slot; Await
// does this automatically when the awaiting task is cancelled or a Select
// picks another future.
type WaitFuture struct {
	reg      *Registry
	id       WaitID
	key      Key
	done     bool
	canceled bool
	msg      Message
}

func newWaitFuture(reg *Registry, h Handle, ev EventID) *WaitFuture {
	return &WaitFuture{
		reg: reg,
		id:  reg.Register(h, ev),
		key: Key{Handle: h, Event: ev},
	}
}

// ID returns the registry slot id.
func (f *WaitFuture) ID() WaitID { return f.id }

// Key returns the native event the future waits for.
func (f *WaitFuture) Key() Key { return f.key }

func (f *WaitFuture) Poll(w async.Waker) (Message, bool) {
	if f.done {
		return f.msg, true
	}
	if f.canceled {
		return Message{}, false
	}
	m, ok := f.reg.Poll(f.id, w)
	if !ok {
		return Message{}, false
	}
	f.done = true
	f.msg = m
	f.reg.Deregister(f.id)
	return m, true
}

// Cancel releases the registry slot of an unresolved future. Further polls
// never resolve. Cancel is idempotent.
func (f *WaitFuture) Cancel() {
	if f.done || f.canceled {
		return
	}
	f.canceled = true
	f.reg.Deregister(f.id)
}

// Payload extracts m.Data as a T, returning a ParseError when the backend
// delivered something else.
func Payload[T any](m Message) (T, error) {
	v, ok := m.Data.(T)
	if !ok {
		var zero T
		return zero, &errors.ParseError{
			Target:   m.Key().String(),
			DataType: fmt.Sprintf("%T", zero),
			Got:      m.Data,
		}
	}
	return v, nil
}

// WaitFor waits for (h, ev) and decodes the message with parse. Parse
// failures resolve the future with a KindParsing error rather than
// panicking, so components can treat them as ordinary results.
func WaitFor[T any](rt *Runtime, h Handle, ev EventID, parse func(Message) (T, error)) async.Future[async.Result[T]] {
	return async.Map[Message](rt.Wait(h, ev), func(m Message) async.Result[T] {
		v, err := parse(m)
		if err != nil {
			return async.Result[T]{Err: &errors.LoomError{
				Op:     "platform.WaitFor",
				Kind:   errors.KindParsing,
				Err:    err,
				Target: m.Key().String(),
			}}
		}
		return async.Result[T]{Value: v}
	})
}
