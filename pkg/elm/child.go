package elm

import (
	"github.com/go-drift/loom/pkg/async"
)

// Child embeds a component inside a parent.
//
// The child keeps its own mailbox. Its events reach the parent only through
// the route function given to Start; messages it posts to itself are held
// until the parent calls Update.
type Child[C Component[M, E], M, E any] struct {
	comp   C
	sender *Sender[M, E]

	route  func(E)
	cached []M
	events []E
}

// NewChild constructs a child component with init.
func NewChild[I any, C Component[M, E], M, E any](init func(I, *Sender[M, E]) (C, error), params I) (*Child[C, M, E], error) {
	s := newSender[M, E]()
	comp, err := init(params, s)
	if err != nil {
		return nil, err
	}
	return &Child[C, M, E]{comp: comp, sender: s}, nil
}

// Component returns the embedded component. Parents should prefer Emit and
// Update over reaching into child state.
func (c *Child[C, M, E]) Component() C { return c.comp }

// Sender returns the child's own sender.
func (c *Child[C, M, E]) Sender() *Sender[M, E] { return c.sender }

// Start runs the child's Start in a sub-task of t and forwards the child's
// events to route until t is cancelled. When the child posts messages to
// itself, propagate (if non-nil) is called so the parent can wake and call
// Update. A nil route drops every event.
//
// Start does not return. A parent that embeds several children starts each
// one in its own task:
//
//	t.Go("label", func(t *async.Task) { p.label.Start(t, route, nil) })
func (c *Child[C, M, E]) Start(t *async.Task, route func(E), propagate func()) {
	if route == nil {
		route = func(E) {}
	}
	c.route = route
	async.Go(t, "child.start", func(t *async.Task) (struct{}, error) {
		c.comp.Start(t, c.sender)
		return struct{}{}, nil
	})

	pending := c.events
	c.events = nil
	for _, e := range pending {
		route(e)
	}

	for {
		async.Await(t, c.sender.box.Wait())
		if c.pull() && propagate != nil {
			propagate()
		}
	}
}

// pull drains the child's mailbox, routing events and caching messages. It
// reports whether any message was cached.
func (c *Child[C, M, E]) pull() bool {
	cached := false
	for _, env := range c.sender.box.Drain() {
		switch {
		case !env.IsEvent:
			c.cached = append(c.cached, env.Message)
			cached = true
		case c.route != nil:
			c.route(env.Event)
		default:
			c.events = append(c.events, env.Event)
		}
	}
	return cached
}

// Emit feeds m straight to the child's Update, bypassing its mailbox.
func (c *Child[C, M, E]) Emit(m M) bool {
	return c.comp.Update(m, c.sender)
}

// Update processes the messages the child posted to itself, then lets the
// child update its own children. It reports whether a render is needed.
func (c *Child[C, M, E]) Update() bool {
	c.pull()
	msgs := c.cached
	c.cached = nil

	needsRender := false
	for _, m := range msgs {
		if c.comp.Update(m, c.sender) {
			needsRender = true
		}
	}
	if updateChildren[M, E](c.comp) {
		needsRender = true
	}
	return needsRender
}

// Render renders the child and its own children.
func (c *Child[C, M, E]) Render() {
	renderTree[M, E](c.comp, c.sender)
}
