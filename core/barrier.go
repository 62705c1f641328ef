package core

import "sync"

// Barrier is the one-shot initialization barrier. The dispatcher's dedicated
// goroutine releases it once the owned resource has been constructed; any
// number of goroutines may wait on it concurrently and are all released
// together. Subsequent waits return immediately.
//
// The barrier carries its own lock, independent of the task queue's, so that
// initialization waits never contend with steady-state task submission.
type Barrier struct {
	mu       sync.Mutex
	cond     *sync.Cond
	released bool
}

// NewBarrier creates an unreleased barrier.
func NewBarrier() *Barrier {
	b := &Barrier{}
	b.cond = sync.NewCond(&b.mu)
	return b
}

// Release opens the barrier and wakes all waiters. Idempotent; it fires
// exactly once per dispatcher lifetime.
func (b *Barrier) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.released {
		return
	}
	b.released = true
	b.cond.Broadcast()
}

// Wait blocks the calling goroutine until the barrier has been released.
func (b *Barrier) Wait() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for !b.released {
		b.cond.Wait()
	}
}

// Released reports whether the barrier has fired.
func (b *Barrier) Released() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.released
}
