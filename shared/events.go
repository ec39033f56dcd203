package shared

import (
	"sync"
	"sync/atomic"
)

// EventType identifies a point in an ownership group's lifecycle.
type EventType uint8

const (
	EventAdopted   EventType = iota // group created, count 1
	EventCloned                     // count incremented
	EventReleased                   // count decremented, group still alive
	EventDestroyed                  // last release: payload and cell freed
)

// Event describes one lifecycle transition on some group of a Heap. Refs is
// the owner count immediately after the transition.
type Event struct {
	Refs int64
	Type EventType
}

// Observer receives lifecycle events for every group on one Heap. Events
// are delivered synchronously on the goroutine performing the operation;
// observers are diagnostics and must not call back into the handles.
type Observer interface {
	OnOwnershipEvent(Event)
}

// subscribers holds a Heap's observer list. The active flag keeps the hot
// increment path at a single atomic load when nothing is subscribed.
type subscribers struct {
	mu     sync.RWMutex
	list   []Observer
	active atomic.Bool
}

// Subscribe adds an observer for lifecycle events.
func (h *Heap[T]) Subscribe(o Observer) {
	h.subs.mu.Lock()
	defer h.subs.mu.Unlock()
	h.subs.list = append(h.subs.list, o)
	h.subs.active.Store(true)
}

// Unsubscribe removes an observer.
func (h *Heap[T]) Unsubscribe(o Observer) {
	h.subs.mu.Lock()
	defer h.subs.mu.Unlock()
	for i, obs := range h.subs.list {
		if obs == o {
			h.subs.list = append(h.subs.list[:i], h.subs.list[i+1:]...)
			break
		}
	}
	h.subs.active.Store(len(h.subs.list) > 0)
}

func (h *Heap[T]) notify(e Event) {
	if !h.subs.active.Load() {
		return
	}

	h.subs.mu.RLock()
	defer h.subs.mu.RUnlock()
	for _, o := range h.subs.list {
		o.OnOwnershipEvent(e)
	}
}
