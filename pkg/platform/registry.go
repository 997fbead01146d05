package platform

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/go-drift/loom/pkg/async"
)

// Handle identifies a native object that produces events.
type Handle uintptr

// EventID identifies a kind of native event on a Handle.
type EventID uint32

// Key is the registry lookup key for one native event on one handle.
type Key struct {
	Handle Handle
	Event  EventID
}

func (k Key) String() string {
	return fmt.Sprintf("%#x/%d", uintptr(k.Handle), k.Event)
}

// Message is a native event as delivered by a Backend.
type Message struct {
	Handle Handle
	Event  EventID
	// Data is the backend-specific payload.
	Data any
	// Time is when the backend observed the event.
	Time time.Time
}

// Key returns the registry key m is delivered under.
func (m Message) Key() Key {
	return Key{Handle: m.Handle, Event: m.Event}
}

// WaitID identifies one registration. IDs are never reused.
type WaitID uint64

type waitState uint8

const (
	waitActive waitState = iota
	waitCompleted
)

type registeredWait struct {
	key   Key
	state waitState
	waker async.Waker
	msg   Message
}

// Registry maps native events to the waits registered for them.
//
// Delivery is a broadcast: every wait registered under a key when Deliver is
// called completes with the same message. Events delivered while nobody waits
// are dropped.
type Registry struct {
	mu      sync.Mutex
	buckets map[Key]map[WaitID]struct{}
	slots   map[WaitID]*registeredWait
	nextID  WaitID
	log     zerolog.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		buckets: make(map[Key]map[WaitID]struct{}),
		slots:   make(map[WaitID]*registeredWait),
		log:     zerolog.Nop(),
	}
}

// Register adds an active wait for (h, ev). It has no effect on the native
// layer.
func (r *Registry) Register(h Handle, ev EventID) WaitID {
	key := Key{Handle: h, Event: ev}

	r.mu.Lock()
	r.nextID++
	id := r.nextID
	r.slots[id] = &registeredWait{key: key}
	bucket := r.buckets[key]
	if bucket == nil {
		bucket = make(map[WaitID]struct{})
		r.buckets[key] = bucket
	}
	bucket[id] = struct{}{}
	r.mu.Unlock()

	r.log.Trace().Uint64("wait", uint64(id)).Stringer("key", key).Msg("wait registered")
	return id
}

// Deliver completes every wait registered for m's key and wakes their
// waiters. The bucket is removed, so a later Deliver on the same key only
// reaches waits registered after this call.
//
// Deliver reports whether any wait was registered; backends use this to
// decide whether default handling of the event should be suppressed.
func (r *Registry) Deliver(m Message) bool {
	key := m.Key()

	r.mu.Lock()
	bucket := r.buckets[key]
	delete(r.buckets, key)
	wakers := make([]async.Waker, 0, len(bucket))
	for id := range bucket {
		slot := r.slots[id]
		if slot == nil || slot.state != waitActive {
			continue
		}
		slot.state = waitCompleted
		slot.msg = m
		if slot.waker != nil {
			wakers = append(wakers, slot.waker)
			slot.waker = nil
		}
	}
	r.mu.Unlock()

	// Wakers run unlocked; waking a task may register new waits.
	for _, w := range wakers {
		w.Wake()
	}

	r.log.Trace().Stringer("key", key).Int("waits", len(bucket)).Msg("event delivered")
	return len(bucket) > 0
}

// Poll returns the delivered message for id. While the wait is still active
// it records w to be woken on delivery. Polling a deregistered id never
// resolves.
func (r *Registry) Poll(id WaitID, w async.Waker) (Message, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	slot := r.slots[id]
	if slot == nil {
		return Message{}, false
	}
	if slot.state == waitCompleted {
		return slot.msg, true
	}
	slot.waker = w
	return Message{}, false
}

// Deregister removes id from the slot table and from its bucket. It is safe
// to call on active, completed or already removed waits.
func (r *Registry) Deregister(id WaitID) {
	r.mu.Lock()
	slot := r.slots[id]
	if slot == nil {
		r.mu.Unlock()
		return
	}
	delete(r.slots, id)
	if bucket := r.buckets[slot.key]; bucket != nil {
		delete(bucket, id)
		if len(bucket) == 0 {
			delete(r.buckets, slot.key)
		}
	}
	r.mu.Unlock()

	r.log.Trace().Uint64("wait", uint64(id)).Stringer("key", slot.key).Msg("wait deregistered")
}

// Pending returns the number of waits currently registered for (h, ev).
func (r *Registry) Pending(h Handle, ev EventID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.buckets[Key{Handle: h, Event: ev}])
}

// Len returns the number of live registrations, completed or not.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.slots)
}
