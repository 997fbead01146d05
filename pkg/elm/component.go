package elm

import (
	"github.com/go-drift/loom/pkg/async"
	"github.com/go-drift/loom/pkg/mailbox"
)

// Component is a node in the UI tree. M is the type of messages the
// component posts to itself and E the type of events it reports to its
// owner.
type Component[M, E any] interface {
	// Start subscribes to native or child events for the lifetime of the
	// component. It runs in its own task, which is cancelled when the owner
	// goes away; returning early simply ends the subscriptions.
	Start(t *async.Task, s *Sender[M, E])

	// Update reacts to one message and reports whether a render is needed.
	Update(m M, s *Sender[M, E]) bool

	// Render draws the current state. It must be safe to call when nothing
	// changed.
	Render(s *Sender[M, E])
}

// ChildUpdater is implemented by components that embed children. The owner
// calls UpdateChildren on every wake so that messages the children posted to
// themselves are processed.
type ChildUpdater interface {
	UpdateChildren() bool
}

// ChildRenderer is implemented by components that embed children. The owner
// calls RenderChildren after Render whenever a render happens.
type ChildRenderer interface {
	RenderChildren()
}

// Envelope is one item in a component mailbox: either a message for the
// component itself or an event for its owner.
type Envelope[M, E any] struct {
	Message M
	Event   E
	IsEvent bool
}

// Poster accepts messages of type M.
type Poster[M any] interface {
	Post(m M)
}

// Sender is a component's handle on its own mailbox.
type Sender[M, E any] struct {
	box *mailbox.Mailbox[Envelope[M, E]]
}

func newSender[M, E any]() *Sender[M, E] {
	return &Sender[M, E]{box: mailbox.New[Envelope[M, E]]()}
}

// Post queues m for the component's own Update.
func (s *Sender[M, E]) Post(m M) {
	s.box.Send(Envelope[M, E]{Message: m})
}

// Output reports e to the component's owner.
func (s *Sender[M, E]) Output(e E) {
	s.box.Send(Envelope[M, E]{Event: e, IsEvent: true})
}

// Route returns a function that translates child events into messages for
// p. Events for which translate reports false are dropped.
func Route[E, PM any](p Poster[PM], translate func(E) (PM, bool)) func(E) {
	return func(e E) {
		if m, ok := translate(e); ok {
			p.Post(m)
		}
	}
}

// Nudge returns a function that posts m to p. It is used as the propagate
// hook of Child.Start so that the parent wakes when a child posted messages
// to itself.
func Nudge[PM any](p Poster[PM], m PM) func() {
	return func() { p.Post(m) }
}

func renderTree[M, E any](c Component[M, E], s *Sender[M, E]) {
	c.Render(s)
	if cr, ok := c.(ChildRenderer); ok {
		cr.RenderChildren()
	}
}

func updateChildren[M, E any](c Component[M, E]) bool {
	if cu, ok := c.(ChildUpdater); ok {
		return cu.UpdateChildren()
	}
	return false
}
