package elm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/loom/pkg/async"
)

type parent struct {
	child     *Child[*script, string, string]
	propagate bool
	got       []string
	renders   int
}

type parentParams struct {
	childStart func(t *async.Task, s *Sender[string, string])
	propagate  bool
}

func newParent(p parentParams, _ *Sender[string, string]) (*parent, error) {
	child, err := NewChild(newScript, scriptParams{start: p.childStart})
	if err != nil {
		return nil, err
	}
	return &parent{child: child, propagate: p.propagate}, nil
}

func (c *parent) Start(t *async.Task, s *Sender[string, string]) {
	var nudge func()
	if c.propagate {
		nudge = Nudge[string](s, "child-changed")
	}
	c.child.Start(t, Route[string, string](s, func(e string) (string, bool) {
		if e == "ignored" {
			return "", false
		}
		return "from-child:" + e, true
	}), nudge)
}

func (c *parent) Update(m string, s *Sender[string, string]) bool {
	c.got = append(c.got, m)
	switch m {
	case "from-child:fired":
		s.Output("done")
	case "child-changed":
		s.Output("changed")
	}
	return true
}

func (c *parent) Render(*Sender[string, string]) { c.renders++ }

func (c *parent) UpdateChildren() bool { return c.child.Update() }

func (c *parent) RenderChildren() { c.child.Render() }

func TestChildEventReachesParentOnce(t *testing.T) {
	root, err := NewRoot(newParent, parentParams{childStart: func(_ *async.Task, s *Sender[string, string]) {
		s.Output("fired")
		s.Output("ignored")
	}})
	require.NoError(t, err)

	ev, err := drive(t, root.Next)

	require.NoError(t, err)
	assert.Equal(t, "done", ev)
	assert.Equal(t, []string{"from-child:fired"}, root.Component().got)
}

func TestChildSelfMessagesPropagate(t *testing.T) {
	root, err := NewRoot(newParent, parentParams{
		propagate: true,
		childStart: func(_ *async.Task, s *Sender[string, string]) {
			s.Post("seven")
		},
	})
	require.NoError(t, err)

	ev, err := drive(t, root.Next)

	require.NoError(t, err)
	assert.Equal(t, "changed", ev)
	p := root.Component()
	assert.Equal(t, 2, p.renders)
	assert.Equal(t, []string{"render:0", "update:seven", "render:1"}, p.child.Component().log)
}

func TestChildEmitUpdatesDirectly(t *testing.T) {
	child, err := NewChild(newScript, scriptParams{})
	require.NoError(t, err)

	assert.True(t, child.Emit("x"))
	assert.Equal(t, []string{"update:x"}, child.Component().log)
	assert.Zero(t, child.Sender().box.Len())
}

func TestChildUpdateDrainsMessagesPostedBeforeStart(t *testing.T) {
	child, err := NewChild(newScript, scriptParams{})
	require.NoError(t, err)
	child.Sender().Post("early")
	child.Sender().Output("held")

	assert.True(t, child.Update())
	assert.Equal(t, []string{"update:early"}, child.Component().log)
	assert.Equal(t, []string{"held"}, child.events, "events wait for Start")
	assert.False(t, child.Update())
}

func TestChildStartFlushesHeldEvents(t *testing.T) {
	child, err := NewChild(newScript, scriptParams{})
	require.NoError(t, err)
	child.Sender().Output("held")
	child.Update()

	var routed []string
	_, err = drive(t, func(t *async.Task) (struct{}, error) {
		fwd := t.Go("forward", func(t *async.Task) {
			child.Start(t, func(e string) { routed = append(routed, e) }, nil)
		})
		t.Yield()
		child.Sender().Output("live")
		t.Yield()
		fwd.Abort()
		return struct{}{}, nil
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"held", "live"}, routed)
}

func TestIntoChildCarriesBacklog(t *testing.T) {
	root, err := NewRoot(newScript, scriptParams{start: func(_ *async.Task, s *Sender[string, string]) {
		s.Output("first")
		s.Post("x")
		s.Output("second")
	}})
	require.NoError(t, err)

	_, err = drive(t, root.Next)
	require.NoError(t, err)

	child := root.IntoChild()
	assert.True(t, child.Update())
	assert.Equal(t, []string{"render:0", "update:x"}, child.Component().log)
	assert.Equal(t, []string{"second"}, child.events)
}
