// Package sharedptr is the root of the shared-ptr module, a shared-ownership
// pointer primitive for Go.
//
// # Architecture Overview
//
// The module is organized into a small set of packages:
//
//	shared-ptr/
//	├── shared/    The Ptr[T] handle, Heap allocation source, and
//	│              lifecycle events
//	├── arena/     Slab allocator with per-slot liveness tracking
//	└── cmd/
//	    └── stress/  Concurrency churn driver with an interactive dashboard
//
// # Quick Start
//
//	h := shared.NewHeap[Session]()
//	defer h.Close()
//
//	p := shared.New(h, Session{ID: id})
//	q := p.Clone() // hand to another goroutine
//
//	go func() {
//	    defer q.Release()
//	    use(q.Get())
//	}()
//
//	p.Release() // whichever release comes last destroys the Session
//
// # Memory Model
//
// Payloads and control cells live in arenas, not on the collected heap:
// a group that never reaches count zero occupies its slots until the heap
// is closed, and Heap.Close reports such leaks. The count is mutated only
// with atomic operations; the final decrement is the synchronization point
// that makes every owner's writes visible to the destroying goroutine.
package sharedptr
