package shared

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/wippyai/shared-ptr/arena"
)

// ErrLeak is returned by Heap.Close when ownership groups are still alive.
var ErrLeak = errors.New("shared: live ownership groups at close")

// Heap is the allocation source for ownership groups: one arena for payload
// values and one for control cells. Every group created through a Heap
// returns both allocations to it when the last owner releases.
type Heap[T any] struct {
	payloads *arena.Arena[T]
	ctls     *arena.Arena[ctl[T]]
	subs     subscribers
}

// NewHeap creates a Heap. Options apply to both underlying arenas.
func NewHeap[T any](opts ...arena.Option) *Heap[T] {
	return &Heap[T]{
		payloads: arena.New[T](opts...),
		ctls:     arena.New[ctl[T]](opts...),
	}
}

// Alloc places v on the heap and returns its pointer. The slot belongs to
// no group until a handle adopts it; an unadopted slot is the caller's to
// free via a later adoption or it leaks.
func (h *Heap[T]) Alloc(v T) *T {
	return h.payloads.Alloc(v)
}

// Live returns the number of payload slots currently allocated.
func (h *Heap[T]) Live() int {
	return h.payloads.Live()
}

// Groups returns the number of ownership groups not yet destroyed.
func (h *Heap[T]) Groups() int {
	return h.ctls.Live()
}

// Close tears down both arenas and reports leaked groups. After Close no
// handle bound to this heap may be used.
func (h *Heap[T]) Close() error {
	groups := h.ctls.Live()
	payloads := h.payloads.Live()

	perr := h.payloads.Close()
	cerr := h.ctls.Close()
	if perr != nil || cerr != nil {
		Logger().Warn("heap closed with live ownership groups",
			zap.Int("groups", groups),
			zap.Int("payloads", payloads))
		return fmt.Errorf("%w: %d groups, %d payloads", ErrLeak, groups, payloads)
	}
	return nil
}

// newCtl allocates a control cell bound to this heap. The count is left at
// zero; Adopt stores the initial 1 before the cell can be shared.
func (h *Heap[T]) newCtl() *ctl[T] {
	c := h.ctls.AllocZero()
	c.heap = h
	return c
}

// destroy runs the last-owner half of the release protocol: the payload's
// destructor, then the payload slot, then the control cell. Exactly one
// releasing handle per group gets here.
func (h *Heap[T]) destroy(p *T, c *ctl[T]) {
	if d, ok := any(p).(Dropper); ok {
		d.Drop()
	}
	h.payloads.Free(p)
	h.ctls.Free(c)
	h.notify(Event{Type: EventDestroyed, Refs: 0})
}
