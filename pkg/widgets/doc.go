// Package widgets provides terminal widgets built on the elm component
// contract.
//
// Widgets draw into a term.Canvas at fixed positions and subscribe to the
// terminal's native events through a platform.Runtime. They are embedded in
// applications with elm.NewChild:
//
//	label, err := elm.NewChild(widgets.NewLabel, widgets.LabelParams{
//	    Canvas: canvas,
//	    X:      2, Y: 1, Width: 20,
//	    Text:   "Hello",
//	})
//
// Several widgets may wait on the same terminal event; every waiter sees it.
// A focused List and its Window both receive each key press.
package widgets
