package platform

import "context"

// Backend is the native message pump.
//
// Next blocks until a native message is available, wake receives, or ctx is
// done. It returns ok=false when it returned because of wake. An error means
// the native layer failed and the runtime cannot continue.
type Backend interface {
	Next(ctx context.Context, wake <-chan struct{}) (m Message, ok bool, err error)
}

// BackendFunc adapts a function to Backend.
type BackendFunc func(ctx context.Context, wake <-chan struct{}) (Message, bool, error)

func (f BackendFunc) Next(ctx context.Context, wake <-chan struct{}) (Message, bool, error) {
	return f(ctx, wake)
}

// ChanBackend is a Backend fed from a Go channel. It suits event sources that
// already produce messages on their own goroutine. A closed channel is
// reported as ErrBackendClosed.
type ChanBackend <-chan Message

func (c ChanBackend) Next(ctx context.Context, wake <-chan struct{}) (Message, bool, error) {
	select {
	case m, ok := <-c:
		if !ok {
			return Message{}, false, ErrBackendClosed
		}
		return m, true, nil
	case <-wake:
		return Message{}, false, nil
	case <-ctx.Done():
		return Message{}, false, ctx.Err()
	}
}
