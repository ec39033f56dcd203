// Package arena provides slab-backed manual allocation for values of a
// single type.
//
// An Arena hands out stable pointers into fixed-size slabs and tracks
// liveness per slot. Slots are not reclaimed by the garbage collector while
// the arena is alive: a slot stays occupied until Free returns it, so
// forgetting to free is a real leak that Live and Close will report.
//
// # Usage
//
//	a := arena.New[Buffer]()
//
//	p := a.Alloc(Buffer{Size: 4096})
//	// ... use *p ...
//	a.Free(p)
//
//	if err := a.Close(); err != nil {
//	    log.Fatal(err) // live slots remained
//	}
//
// # Pointer stability
//
// Slabs are never moved or resized once created, so a pointer returned by
// Alloc stays valid until the matching Free. Growth appends new slabs.
//
// # Misuse detection
//
// Free panics when given a pointer that does not belong to the arena, and
// when given a slot that is not live (a double free). Freed slots are zeroed
// before they are handed out again.
//
// # Thread Safety
//
// All methods are safe for concurrent use; the arena serializes state
// changes behind a single mutex. The values themselves are not synchronized.
package arena
