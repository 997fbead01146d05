// Package testing provides a scripted runtime for testing Loom components.
//
// # Quick Start
//
// Create a harness, queue terminal input, run the application and compare
// the last frame against a golden file:
//
//	func TestCounter(t *testing.T) {
//	    h := loomtest.NewHarness(40, 8)
//	    h.Key('+')
//	    h.Key('q')
//
//	    ev, err := elm.Run(context.Background(), h.Runtime, NewApp, h.AppParams())
//	    require.NoError(t, err)
//
//	    h.Snapshot(t, "counter_after_increment")
//	}
//
// Golden files live in testdata/ and are updated with:
//
//	go test ./... -update
//
// # Stalls
//
// ScriptBackend never blocks on a real terminal. Once its script is
// exhausted it waits at most Grace for a timer or another goroutine to wake
// the runtime, then fails with ErrStalled, so a component that waits forever
// fails its test instead of hanging it.
//
// # Import Alias
//
// Since this package has the same name as the standard library testing
// package, import it with an alias:
//
//	import loomtest "github.com/go-drift/loom/pkg/testing"
package testing
