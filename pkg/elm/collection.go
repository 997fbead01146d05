package elm

import (
	"slices"

	"github.com/go-drift/loom/pkg/async"
)

// VecOp is the kind of change made to an ObservableVec.
type VecOp uint8

const (
	VecInsert VecOp = iota
	VecRemove
	VecReplace
	VecClear
)

func (op VecOp) String() string {
	switch op {
	case VecInsert:
		return "insert"
	case VecRemove:
		return "remove"
	case VecReplace:
		return "replace"
	case VecClear:
		return "clear"
	default:
		return "unknown"
	}
}

// VecEvent describes one change to an ObservableVec. Old is set for removals
// and replacements; Value for insertions and replacements.
type VecEvent[T any] struct {
	Op    VecOp
	Index int
	Old   T
	Value T
}

// VecMsg asks an ObservableVec to change. Index is ignored for VecClear; an
// Index of -1 with VecInsert appends.
type VecMsg[T any] struct {
	Op    VecOp
	Index int
	Value T
}

// ObservableVec is a component holding a slice that reports every mutation
// as a VecEvent. Parents bind it to widgets by translating those events.
type ObservableVec[T any] struct {
	items  []T
	sender *Sender[VecMsg[T], VecEvent[T]]
}

// NewObservableVec is the init function of ObservableVec. The initial items
// are copied and produce no events.
func NewObservableVec[T any](items []T, s *Sender[VecMsg[T], VecEvent[T]]) (*ObservableVec[T], error) {
	return &ObservableVec[T]{items: slices.Clone(items), sender: s}, nil
}

// Start has nothing to subscribe to.
func (v *ObservableVec[T]) Start(*async.Task, *Sender[VecMsg[T], VecEvent[T]]) {}

// Update applies m. Messages with an out of range index are ignored.
func (v *ObservableVec[T]) Update(m VecMsg[T], _ *Sender[VecMsg[T], VecEvent[T]]) bool {
	switch m.Op {
	case VecInsert:
		if m.Index == -1 {
			v.Push(m.Value)
		} else if m.Index >= 0 && m.Index <= len(v.items) {
			v.Insert(m.Index, m.Value)
		}
	case VecRemove:
		if m.Index >= 0 && m.Index < len(v.items) {
			v.Remove(m.Index)
		}
	case VecReplace:
		if m.Index >= 0 && m.Index < len(v.items) {
			v.Set(m.Index, m.Value)
		}
	case VecClear:
		v.Clear()
	}
	return false
}

// Render does nothing; the vector has no visual form of its own.
func (v *ObservableVec[T]) Render(*Sender[VecMsg[T], VecEvent[T]]) {}

// Len returns the number of items.
func (v *ObservableVec[T]) Len() int { return len(v.items) }

// At returns the item at i.
func (v *ObservableVec[T]) At(i int) T { return v.items[i] }

// Items returns a copy of the items.
func (v *ObservableVec[T]) Items() []T { return slices.Clone(v.items) }

// Push appends x.
func (v *ObservableVec[T]) Push(x T) {
	v.Insert(len(v.items), x)
}

// Insert inserts x at i, panicking if i is out of range.
func (v *ObservableVec[T]) Insert(i int, x T) {
	v.items = slices.Insert(v.items, i, x)
	v.sender.Output(VecEvent[T]{Op: VecInsert, Index: i, Value: x})
}

// Remove deletes and returns the item at i.
func (v *ObservableVec[T]) Remove(i int) T {
	old := v.items[i]
	v.items = slices.Delete(v.items, i, i+1)
	v.sender.Output(VecEvent[T]{Op: VecRemove, Index: i, Old: old})
	return old
}

// Set replaces the item at i and returns the previous one.
func (v *ObservableVec[T]) Set(i int, x T) T {
	old := v.items[i]
	v.items[i] = x
	v.sender.Output(VecEvent[T]{Op: VecReplace, Index: i, Old: old, Value: x})
	return old
}

// Clear removes every item.
func (v *ObservableVec[T]) Clear() {
	clear(v.items)
	v.items = v.items[:0]
	v.sender.Output(VecEvent[T]{Op: VecClear})
}
