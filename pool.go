// pool.go - bounded worker pool with polling admission
//
// Grounded on the teacher's generics-based WorkPool (workpool.go) for the
// submit/finalize lifecycle shape, and on the reference implementation's
// tr_find_slot/tr_recover_slots/tr_finalize (original_source/
// dug_fts_mt.c) for the admission contract itself: a fixed array of
// slots, admission blocks until a slot frees up, polled at a fixed
// interval rather than via a condition variable (spec.md §4.5).
package dug

import (
	"sync"
	"time"
)

// pollInterval bounds how long admission can block past a slot actually
// becoming free. Workers are coarse-grained (one subdirectory subtree),
// so this cost is negligible next to the I/O it's waiting on.
const pollInterval = 10 * time.Millisecond

// Pool is a fixed-capacity array of slots holding in-flight workers.
// Admission ("find a slot") blocks the caller until one is free.
type Pool struct {
	mu   sync.Mutex
	busy []bool
	wg   sync.WaitGroup
}

// NewPool returns a Pool with the given slot capacity. A non-positive
// capacity is the degenerate T=0 case: Go runs fn synchronously in the
// caller, producing a correct but sequential walk (spec.md §5, §8
// "With -t 0 the walk still produces correct results").
func NewPool(capacity int) *Pool {
	if capacity <= 0 {
		return &Pool{}
	}
	return &Pool{busy: make([]bool, capacity)}
}

// Go admits fn, blocking until a slot is available, then runs it in its
// own goroutine.
func (p *Pool) Go(fn func()) {
	if len(p.busy) == 0 {
		fn()
		return
	}

	slot := p.findSlot()
	p.wg.Add(1)
	go func() {
		defer func() {
			p.mu.Lock()
			p.busy[slot] = false
			p.mu.Unlock()
			p.wg.Done()
		}()
		fn()
	}()
}

// findSlot returns the index of a free slot, marking it busy. If every
// slot is occupied it polls at pollInterval until one opens up -- this is
// the direct analogue of tr_find_slot's linear scan + usleep(10000).
func (p *Pool) findSlot() int {
	for {
		p.mu.Lock()
		for i, busy := range p.busy {
			if !busy {
				p.busy[i] = true
				p.mu.Unlock()
				return i
			}
		}
		p.mu.Unlock()
		time.Sleep(pollInterval)
	}
}

// Finalize blocks until every admitted worker has completed.
func (p *Pool) Finalize() {
	p.wg.Wait()
}
