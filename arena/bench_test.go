package arena

import "testing"

type payload struct {
	id   uint64
	data [56]byte
}

func BenchmarkAllocFree(b *testing.B) {
	a := New[payload]()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p := a.Alloc(payload{id: uint64(i)})
		a.Free(p)
	}
}

func BenchmarkAllocFree_Batch(b *testing.B) {
	a := New[payload](WithSlabSize(1024))
	ptrs := make([]*payload, 128)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for j := range ptrs {
			ptrs[j] = a.Alloc(payload{id: uint64(j)})
		}
		for _, p := range ptrs {
			a.Free(p)
		}
	}
}
