package shared

import "sync/atomic"

// ctl is the control cell shared by every handle in one ownership group.
// It is a separate allocation from the payload; the two are bound together
// by the handles referencing them and freed together by the last release,
// payload first.
type ctl[T any] struct {
	refs atomic.Int64
	heap *Heap[T]
}
