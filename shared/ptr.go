package shared

// Ptr is a shared-ownership handle. It is either empty (zero value) or bound
// to an ownership group; when bound, both the payload pointer and the
// control cell pointer are set, and they are always set and cleared
// together.
//
// Copy the value freely to pass it around, but note that a plain Go copy
// does NOT create a new owner; use Clone for that. The zero value is an
// empty handle.
type Ptr[T any] struct {
	p   *T
	ctl *ctl[T]
}

// Dropper is implemented by payload types that need cleanup when their
// group is destroyed. Drop runs exactly once, on the goroutine performing
// the last release, after the count reaches zero and before the payload
// slot is freed. The method must be declared on the pointer receiver.
type Dropper interface {
	Drop()
}

// Adopt takes ownership of p and returns the group's first handle, with the
// owner count at 1. The pointer must have been allocated from h. A nil p
// yields an empty handle and allocates nothing.
//
// Adopting a pointer that is already owned by another group is a misuse
// precondition: the two groups will each free the value once, and the
// handle cannot detect it.
func Adopt[T any](h *Heap[T], p *T) Ptr[T] {
	if p == nil {
		return Ptr[T]{}
	}

	c := h.newCtl()
	// The cell cannot be shared before this function returns, so the
	// initial count needs no ordering at all.
	c.refs.Store(1)
	h.notify(Event{Type: EventAdopted, Refs: 1})
	return Ptr[T]{p: p, ctl: c}
}

// New allocates v on h and adopts it. Equivalent to Adopt(h, h.Alloc(v)).
func New[T any](h *Heap[T], v T) Ptr[T] {
	return Adopt(h, h.Alloc(v))
}

// Clone returns a new handle co-owning s's group, or an empty handle when s
// is empty.
//
// The increment needs only atomicity: it synchronizes nothing about the
// payload's memory, it just must not be lost against concurrent increments
// and decrements. sync/atomic provides that (and more; Go exposes no weaker
// ordering).
func (s Ptr[T]) Clone() Ptr[T] {
	if s.ctl == nil {
		return Ptr[T]{}
	}

	n := s.ctl.refs.Add(1)
	if n < 2 {
		panic("shared: clone of a handle whose group was already destroyed")
	}
	s.ctl.heap.notify(Event{Type: EventCloned, Refs: n})
	return Ptr[T]{p: s.p, ctl: s.ctl}
}

// Move transfers s's binding to the returned handle. s becomes empty and
// the owner count is untouched; no allocation happens.
func (s *Ptr[T]) Move() Ptr[T] {
	out := Ptr[T]{p: s.p, ctl: s.ctl}
	s.p, s.ctl = nil, nil
	return out
}

// CopyFrom releases s's current binding, then binds s to o's group as an
// additional owner. Assigning a handle to itself is a no-op; the guard is
// on handle identity, not group equality, so two distinct handles of the
// same group still take the release-then-adopt path (which is safe: the
// source handle keeps the count above zero throughout).
func (s *Ptr[T]) CopyFrom(o *Ptr[T]) {
	if s == o {
		return
	}

	s.Release()
	if o.ctl != nil {
		n := o.ctl.refs.Add(1)
		if n < 2 {
			panic("shared: copy from a handle whose group was already destroyed")
		}
		o.ctl.heap.notify(Event{Type: EventCloned, Refs: n})
	}
	s.p, s.ctl = o.p, o.ctl
}

// MoveFrom releases s's current binding, then steals o's. o becomes empty
// and its group's count is untouched. Self-assignment is a no-op.
func (s *Ptr[T]) MoveFrom(o *Ptr[T]) {
	if s == o {
		return
	}

	s.Release()
	s.p, s.ctl = o.p, o.ctl
	o.p, o.ctl = nil, nil
}

// Release drops s's ownership and leaves it empty. If s was the last owner,
// the payload is destroyed (Drop dispatch, then its slot is freed) and the
// control cell is freed after it. Releasing an empty handle is a no-op.
//
// The decrement is the synchronization point of the whole type: writes made
// under any other owner's handle must be visible to the goroutine that
// frees, and the frees must not be observable before the count hits zero.
// This needs at least acquire+release semantics on the decrement;
// sync/atomic's sequentially consistent operations satisfy it.
func (s *Ptr[T]) Release() {
	if s.ctl == nil {
		s.p = nil
		return
	}

	p, c := s.p, s.ctl
	s.p, s.ctl = nil, nil

	n := c.refs.Add(-1)
	switch {
	case n == 0:
		// Pre-decrement value was 1: this handle was the last owner.
		c.heap.destroy(p, c)
	case n < 0:
		panic("shared: release of a handle whose group was already destroyed")
	default:
		c.heap.notify(Event{Type: EventReleased, Refs: n})
	}
}

// Reset releases the current binding and leaves the handle empty.
func (s *Ptr[T]) Reset() {
	s.Release()
}

// ResetTo releases the current binding, then adopts p as a fresh group with
// its own cell at count 1. A nil p leaves the handle empty. The release and
// rebind happen as one operation; the handle is never bound to two groups.
func (s *Ptr[T]) ResetTo(h *Heap[T], p *T) {
	s.Release()
	*s = Adopt(h, p)
}

// Get returns the raw payload pointer, or nil for an empty handle. The
// count is unaffected.
func (s Ptr[T]) Get() *T {
	return s.p
}

// Deref returns the payload value. On an empty handle it faults on the nil
// payload pointer, the same contract as dereferencing a raw pointer; there
// is no guard and no error.
func (s Ptr[T]) Deref() T {
	return *s.p
}

// Empty reports whether the handle is unbound.
func (s Ptr[T]) Empty() bool {
	return s.ctl == nil
}

// UseCount returns the current owner count, 0 for an empty handle. The load
// is atomic (acquire or stronger), but the value is inherently racy under
// concurrent clones and releases: it is advisory and must never drive an
// ownership decision.
func (s Ptr[T]) UseCount() int64 {
	if s.ctl == nil {
		return 0
	}
	return s.ctl.refs.Load()
}
