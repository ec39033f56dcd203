// Package shared implements a shared-ownership pointer: a handle that lets
// any number of independent owners reference the same heap value, destroying
// the value exactly once when the last owner lets go, even when owners are
// released concurrently from different goroutines.
//
// # Ownership Groups
//
// Every bound handle references an ownership group: the payload value plus a
// separately allocated control cell holding the atomic owner count. Both live
// in a Heap and are freed back to it by the last release.
//
//	h := shared.NewHeap[Conn]()
//
//	// First owner; count is 1.
//	p := shared.New(h, Conn{Addr: addr})
//
//	// Second owner; count is 2. Safe from any goroutine.
//	q := p.Clone()
//
//	q.Release() // count back to 1
//	p.Release() // last owner: Conn dropped, memory returned to h
//
// # Operation Mapping
//
// The handle reproduces the classic shared-pointer surface:
//
//	Ptr[T]{}          default construction (empty handle)
//	Adopt(h, p)       construction from a raw pointer, count 1
//	Clone()           copy construction
//	CopyFrom(&o)      copy assignment (self-assignment is a no-op)
//	Move()            move construction
//	MoveFrom(&o)      move assignment (self-assignment is a no-op)
//	Release()         destruction
//	Deref(), Get()    dereference and raw access
//	UseCount()        current owner count, advisory
//	Reset()           release and become empty
//	ResetTo(h, p)     release, then adopt p as a fresh group
//
// # Destructors
//
// A payload type may implement Dropper; Drop runs exactly once, on the
// goroutine performing the last release, before the payload slot is reused.
// This is the type's own destructor, not a per-handle hook: handles cannot
// attach custom destruction behavior.
//
// # Thread Safety
//
// Distinct handles bound to the same group may be cloned, released, and
// reset concurrently with no external locking; the shared count is the only
// point of contention and is updated atomically. A single handle value is
// NOT internally synchronized: two goroutines must not CopyFrom, MoveFrom,
// or Reset the same handle variable without external mutual exclusion.
//
// UseCount is advisory. Under concurrent mutation the value may be stale by
// the time the caller reads it; in particular "count == 1" does not imply
// exclusive access.
//
// # Misuse
//
// Dereferencing an empty handle faults like a raw nil pointer. Adopting a
// pointer that some other group already owns creates two groups that each
// believe they own the value; the arena's liveness tracking turns the
// resulting double free into a panic, but the outcome is undefined by
// contract. Neither condition is detectable by the handle itself.
package shared
