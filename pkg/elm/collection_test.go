package elm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vecEvents[T any](s *Sender[VecMsg[T], VecEvent[T]]) []VecEvent[T] {
	var out []VecEvent[T]
	for _, env := range s.box.Drain() {
		if env.IsEvent {
			out = append(out, env.Event)
		}
	}
	return out
}

func TestObservableVecReportsMutations(t *testing.T) {
	s := newSender[VecMsg[string], VecEvent[string]]()
	v, err := NewObservableVec([]string{"a"}, s)
	require.NoError(t, err)

	v.Push("b")
	assert.Equal(t, "a", v.Set(0, "A"))
	assert.Equal(t, "b", v.Remove(1))
	v.Insert(0, "z")
	assert.Equal(t, []string{"z", "A"}, v.Items())
	v.Clear()
	assert.Zero(t, v.Len())

	assert.Equal(t, []VecEvent[string]{
		{Op: VecInsert, Index: 1, Value: "b"},
		{Op: VecReplace, Index: 0, Old: "a", Value: "A"},
		{Op: VecRemove, Index: 1, Old: "b"},
		{Op: VecInsert, Index: 0, Value: "z"},
		{Op: VecClear},
	}, vecEvents(s))
}

func TestObservableVecInitialItemsAreCopied(t *testing.T) {
	items := []int{1, 2}
	s := newSender[VecMsg[int], VecEvent[int]]()
	v, err := NewObservableVec(items, s)
	require.NoError(t, err)

	items[0] = 9
	assert.Equal(t, 1, v.At(0))
	assert.Empty(t, vecEvents(s))
}

func TestObservableVecUpdate(t *testing.T) {
	s := newSender[VecMsg[int], VecEvent[int]]()
	v, err := NewObservableVec[int](nil, s)
	require.NoError(t, err)

	v.Update(VecMsg[int]{Op: VecInsert, Index: -1, Value: 1}, s)
	v.Update(VecMsg[int]{Op: VecInsert, Index: 0, Value: 0}, s)
	v.Update(VecMsg[int]{Op: VecReplace, Index: 1, Value: 10}, s)
	v.Update(VecMsg[int]{Op: VecRemove, Index: 5}, s)
	v.Update(VecMsg[int]{Op: VecInsert, Index: 9, Value: 3}, s)

	assert.Equal(t, []int{0, 10}, v.Items())
	assert.Len(t, vecEvents(s), 3)
}
