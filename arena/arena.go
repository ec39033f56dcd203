package arena

import (
	"errors"
	"fmt"
	"sync"
	"unsafe"
)

// ErrLeak is returned by Close when live slots remain.
var ErrLeak = errors.New("arena: live slots at close")

const defaultSlabSize = 256

// Option configures an Arena.
type Option func(*config)

type config struct {
	slabSize int
}

// WithSlabSize sets the number of slots per slab. Values below 1 are ignored.
func WithSlabSize(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.slabSize = n
		}
	}
}

// Arena is a slab allocator for values of type T with per-slot liveness
// tracking. The zero value is not usable; call New.
type Arena[T any] struct {
	mu       sync.Mutex
	slabs    []*slab[T]
	free     []ref
	live     int
	slabSize int
	closed   bool
}

// slab cells are never appended to after creation, so pointers into them
// remain stable for the slab's lifetime.
type slab[T any] struct {
	cells []T
	used  []bool
}

type ref struct {
	slab int
	idx  int
}

// New creates an empty arena. The first Alloc creates the first slab.
func New[T any](opts ...Option) *Arena[T] {
	cfg := config{slabSize: defaultSlabSize}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Arena[T]{slabSize: cfg.slabSize}
}

// Alloc places v in a free slot and returns a pointer to it. The pointer is
// valid until the matching Free.
func (a *Arena[T]) Alloc(v T) *T {
	p := a.AllocZero()
	*p = v
	return p
}

// AllocZero returns a pointer to a zeroed free slot. Used for values that
// cannot be copied after construction.
func (a *Arena[T]) AllocZero() *T {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		panic("arena: alloc after close")
	}

	if len(a.free) == 0 {
		a.grow()
	}

	r := a.free[len(a.free)-1]
	a.free = a.free[:len(a.free)-1]

	s := a.slabs[r.slab]
	s.used[r.idx] = true
	a.live++
	return &s.cells[r.idx]
}

// Free returns p's slot to the arena and zeroes it. Panics if p was not
// allocated from this arena or if the slot is not live.
func (a *Arena[T]) Free(p *T) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		panic("arena: free after close")
	}

	r, ok := a.locate(p)
	if !ok {
		panic("arena: free of pointer not owned by this arena")
	}

	s := a.slabs[r.slab]
	if !s.used[r.idx] {
		panic(fmt.Sprintf("arena: double free of slot %d/%d", r.slab, r.idx))
	}

	var zero T
	s.cells[r.idx] = zero
	s.used[r.idx] = false
	a.free = append(a.free, r)
	a.live--
}

// Live returns the number of allocated slots.
func (a *Arena[T]) Live() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.live
}

// Cap returns the total number of slots across all slabs.
func (a *Arena[T]) Cap() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.slabs) * a.slabSize
}

// Each calls fn for every live slot until fn returns false. The arena is
// locked for the duration; fn must not call back into the arena.
func (a *Arena[T]) Each(fn func(*T) bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, s := range a.slabs {
		for i := range s.cells {
			if s.used[i] {
				if !fn(&s.cells[i]) {
					return
				}
			}
		}
	}
}

// Close releases all slabs and stops accepting operations. It returns an
// error wrapping ErrLeak when live slots remain. Closing twice is a no-op.
func (a *Arena[T]) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return nil
	}
	a.closed = true

	live := a.live
	a.slabs = nil
	a.free = nil
	a.live = 0

	if live > 0 {
		return fmt.Errorf("%w: %d", ErrLeak, live)
	}
	return nil
}

// grow appends one slab and pushes its slots onto the free list. Caller
// holds a.mu.
func (a *Arena[T]) grow() {
	s := &slab[T]{
		cells: make([]T, a.slabSize),
		used:  make([]bool, a.slabSize),
	}
	a.slabs = append(a.slabs, s)

	si := len(a.slabs) - 1
	for i := a.slabSize - 1; i >= 0; i-- {
		a.free = append(a.free, ref{slab: si, idx: i})
	}
}

// locate maps a pointer back to its slab and slot index. Caller holds a.mu.
func (a *Arena[T]) locate(p *T) (ref, bool) {
	size := unsafe.Sizeof(*p)
	if size == 0 {
		return ref{}, false
	}

	target := uintptr(unsafe.Pointer(p))
	for i, s := range a.slabs {
		base := uintptr(unsafe.Pointer(&s.cells[0]))
		end := base + size*uintptr(len(s.cells))
		if target < base || target >= end {
			continue
		}
		off := target - base
		if off%size != 0 {
			return ref{}, false
		}
		return ref{slab: i, idx: int(off / size)}, true
	}
	return ref{}, false
}
