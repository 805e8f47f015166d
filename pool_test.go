package dug

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestPoolRunsAllWork(t *testing.T) {
	assert := newAsserter(t)
	p := NewPool(4)

	var n atomic.Int64
	for i := 0; i < 50; i++ {
		p.Go(func() {
			n.Add(1)
		})
	}
	p.Finalize()

	assert(n.Load() == 50, "want 50 completions, got %d", n.Load())
}

func TestPoolRespectsCapacity(t *testing.T) {
	assert := newAsserter(t)
	const capacity = 3
	p := NewPool(capacity)

	var mu sync.Mutex
	var cur, maxCur int

	start := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			p.Go(func() {
				mu.Lock()
				cur++
				if cur > maxCur {
					maxCur = cur
				}
				mu.Unlock()

				mu.Lock()
				cur--
				mu.Unlock()
			})
		}()
	}
	close(start)
	wg.Wait()
	p.Finalize()

	assert(maxCur <= capacity, "observed concurrency %d exceeds capacity %d", maxCur, capacity)
}

func TestPoolZeroCapacityRunsSynchronously(t *testing.T) {
	assert := newAsserter(t)
	p := NewPool(0)

	var ran bool
	p.Go(func() {
		ran = true
	})
	assert(ran, "Go on a zero-capacity pool must run fn before returning")
	p.Finalize()
}
