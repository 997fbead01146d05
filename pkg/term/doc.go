// Package term is the terminal native layer: a tcell-backed platform.Backend
// plus the Canvas widgets draw into.
//
// The whole terminal is one native object, Screen. Keyboard, resize and
// mouse input arrive as platform messages on that handle:
//
//	b, err := term.Open(term.Options{Mouse: true})
//	rt := platform.NewRuntime(b)
//	key := async.Await[platform.Message](t, rt.Wait(term.Screen, term.EventKey))
package term
