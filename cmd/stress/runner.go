package main

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/wippyai/shared-ptr/shared"
)

// payload is the value under contention. Drop feeds the destructor counter
// so the run can verify destroy-once afterwards.
type payload struct {
	id    int
	drops *atomic.Int64
}

func (p *payload) Drop() {
	p.drops.Add(1)
}

// runStats is read by the dashboard while workers mutate it.
type runStats struct {
	adopted   atomic.Int64
	cloned    atomic.Int64
	released  atomic.Int64
	destroyed atomic.Int64
	drops     atomic.Int64
}

// OnOwnershipEvent tallies lifecycle events from the heap.
func (s *runStats) OnOwnershipEvent(e shared.Event) {
	switch e.Type {
	case shared.EventAdopted:
		s.adopted.Add(1)
	case shared.EventCloned:
		s.cloned.Add(1)
	case shared.EventReleased:
		s.released.Add(1)
	case shared.EventDestroyed:
		s.destroyed.Add(1)
	}
}

// runner drives clone/release churn against a set of shared root handles.
// Workers never touch each other's handle variables, only the shared groups
// behind them.
type runner struct {
	sc       Scenario
	heap     *shared.Heap[payload]
	roots    []shared.Ptr[payload]
	stats    runStats
	started  time.Time
	deadline time.Time

	err  error
	done chan struct{}
}

func newRunner(sc Scenario) *runner {
	r := &runner{
		sc:   sc,
		heap: shared.NewHeap[payload](),
		done: make(chan struct{}),
	}
	r.heap.Subscribe(&r.stats)

	r.roots = make([]shared.Ptr[payload], sc.Groups)
	for i := range r.roots {
		r.roots[i] = shared.New(r.heap, payload{id: i, drops: &r.stats.drops})
	}
	return r
}

// start launches the workers and returns immediately; done is closed when
// the run has finished and the verdict is available in err.
func (r *runner) start() {
	r.started = time.Now()
	r.deadline = r.started.Add(r.sc.duration)

	shared.Logger().Info("stress run starting",
		zap.Int("workers", r.sc.Workers),
		zap.Int("groups", r.sc.Groups),
		zap.Duration("duration", r.sc.duration))

	var wg sync.WaitGroup
	for w := 0; w < r.sc.Workers; w++ {
		wg.Add(1)
		go func(seed uint64) {
			defer wg.Done()
			r.work(seed)
		}(uint64(w))
	}

	go func() {
		wg.Wait()
		r.err = r.finish()
		close(r.done)
	}()
}

func (r *runner) work(seed uint64) {
	rng := rand.New(rand.NewPCG(seed, 0x5eed))

	for time.Now().Before(r.deadline) {
		root := r.roots[rng.IntN(len(r.roots))]

		c := root.Clone()
		if rng.IntN(100) < r.sc.CloneBias {
			c2 := c.Clone()
			c2.Release()
		}
		if c.Get().id < 0 {
			panic("stress: payload corrupted under churn")
		}
		c.Release()

		// Occasionally run a whole lifecycle: fresh group, sole owner,
		// immediate destruction.
		if rng.IntN(1024) == 0 {
			p := shared.New(r.heap, payload{id: 1 << 20, drops: &r.stats.drops})
			p.Release()
		}
	}
}

// finish releases the roots and checks every invariant the run can observe.
func (r *runner) finish() error {
	for i := range r.roots {
		r.roots[i].Release()
	}

	adopted := r.stats.adopted.Load()
	destroyed := r.stats.destroyed.Load()
	drops := r.stats.drops.Load()

	if destroyed != adopted {
		return fmt.Errorf("stress: %d groups adopted but %d destroyed", adopted, destroyed)
	}
	if drops != adopted {
		return fmt.Errorf("stress: %d groups but %d destructor runs", adopted, drops)
	}
	if g := r.heap.Groups(); g != 0 {
		return fmt.Errorf("stress: %d ownership groups leaked", g)
	}
	return r.heap.Close()
}
