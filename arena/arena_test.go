package arena

import (
	"errors"
	"sync"
	"testing"
)

func TestArena_AllocFree(t *testing.T) {
	a := New[int]()

	p := a.Alloc(42)
	if *p != 42 {
		t.Fatalf("Expected 42, got %d", *p)
	}
	if a.Live() != 1 {
		t.Fatalf("Expected Live() == 1, got %d", a.Live())
	}

	a.Free(p)
	if a.Live() != 0 {
		t.Fatalf("Expected Live() == 0 after Free, got %d", a.Live())
	}
}

func TestArena_AllocZero(t *testing.T) {
	a := New[[8]byte]()

	p := a.AllocZero()
	for i, b := range *p {
		if b != 0 {
			t.Fatalf("Expected zeroed slot, byte %d is %d", i, b)
		}
	}
	a.Free(p)
}

func TestArena_SlotReuse(t *testing.T) {
	a := New[int]()

	p := a.Alloc(1)
	a.Free(p)

	// The free list is LIFO; the next alloc must reuse the slot, zeroed
	// until the new value lands.
	q := a.Alloc(2)
	if p != q {
		t.Fatal("Expected freed slot to be reused")
	}
	if *q != 2 {
		t.Fatalf("Expected 2 in reused slot, got %d", *q)
	}
	a.Free(q)
}

func TestArena_FreeZeroesSlot(t *testing.T) {
	a := New[int]()

	p := a.Alloc(99)
	a.Free(p)

	q := a.AllocZero()
	if *q != 0 {
		t.Fatalf("Expected reused slot to be zeroed, got %d", *q)
	}
	a.Free(q)
}

func TestArena_Grow(t *testing.T) {
	a := New[int](WithSlabSize(4))

	ptrs := make([]*int, 10)
	for i := range ptrs {
		ptrs[i] = a.Alloc(i)
	}

	if a.Cap() < 10 {
		t.Fatalf("Expected Cap() >= 10, got %d", a.Cap())
	}
	if a.Live() != 10 {
		t.Fatalf("Expected Live() == 10, got %d", a.Live())
	}

	// Growth appends slabs; earlier pointers must stay valid.
	for i, p := range ptrs {
		if *p != i {
			t.Fatalf("Pointer %d invalidated by growth: got %d", i, *p)
		}
	}

	for _, p := range ptrs {
		a.Free(p)
	}
}

func TestArena_DoubleFreePanics(t *testing.T) {
	a := New[int]()
	p := a.Alloc(1)
	a.Free(p)

	defer func() {
		if recover() == nil {
			t.Fatal("Expected panic on double free")
		}
	}()
	a.Free(p)
}

func TestArena_ForeignPointerPanics(t *testing.T) {
	a := New[int]()
	a.Alloc(1)

	defer func() {
		if recover() == nil {
			t.Fatal("Expected panic on foreign pointer")
		}
	}()
	x := 5
	a.Free(&x)
}

func TestArena_Each(t *testing.T) {
	a := New[int]()

	a.Alloc(1)
	p := a.Alloc(2)
	a.Alloc(3)
	a.Free(p)

	sum := 0
	a.Each(func(v *int) bool {
		sum += *v
		return true
	})
	if sum != 4 {
		t.Fatalf("Expected live sum 4, got %d", sum)
	}

	// Early stop.
	seen := 0
	a.Each(func(*int) bool {
		seen++
		return false
	})
	if seen != 1 {
		t.Fatalf("Expected Each to stop after 1, visited %d", seen)
	}
}

func TestArena_CloseReportsLeak(t *testing.T) {
	a := New[int]()
	a.Alloc(1)
	a.Alloc(2)

	err := a.Close()
	if !errors.Is(err, ErrLeak) {
		t.Fatalf("Expected ErrLeak, got %v", err)
	}

	// Second close is a no-op.
	if err := a.Close(); err != nil {
		t.Fatalf("Expected nil on double close, got %v", err)
	}
}

func TestArena_CloseClean(t *testing.T) {
	a := New[int]()
	p := a.Alloc(1)
	a.Free(p)

	if err := a.Close(); err != nil {
		t.Fatalf("Expected clean close, got %v", err)
	}
}

func TestArena_AllocAfterClosePanics(t *testing.T) {
	a := New[int]()
	if err := a.Close(); err != nil {
		t.Fatal(err)
	}

	defer func() {
		if recover() == nil {
			t.Fatal("Expected panic on alloc after close")
		}
	}()
	a.Alloc(1)
}

func TestArena_Concurrent(t *testing.T) {
	a := New[int](WithSlabSize(64))

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			local := make([]*int, 0, 32)
			for i := 0; i < 1000; i++ {
				local = append(local, a.Alloc(i))
				if len(local) == 32 {
					for _, p := range local {
						a.Free(p)
					}
					local = local[:0]
				}
			}
			for _, p := range local {
				a.Free(p)
			}
		}()
	}
	wg.Wait()

	if a.Live() != 0 {
		t.Fatalf("Expected Live() == 0 after concurrent churn, got %d", a.Live())
	}
	if err := a.Close(); err != nil {
		t.Fatal(err)
	}
}
