package pool

import "sync"

// Barrier is a countdown synchronizer decremented on task completion.
//
// Ported from IYFThreading's Barrier (ThreadPool.hpp). WaitForAll blocks
// until NotifyCompleted has been called exactly Count times; callers are
// responsible for submitting exactly that many barrier-linked tasks -
// submitting fewer deadlocks WaitForAll forever, and this port makes no
// attempt to detect that.
type Barrier struct {
	m         sync.Mutex
	cond      *sync.Cond
	remaining int64
}

// NewBarrier creates a Barrier that releases its waiter once
// NotifyCompleted has been called count times. count must be >= 0.
func NewBarrier(count int64) (*Barrier, error) {
	if count < 0 {
		return nil, ErrInvalidConfiguration
	}
	b := &Barrier{remaining: count}
	b.cond = sync.NewCond(&b.m)
	return b, nil
}

// WaitForAll blocks the calling goroutine until the counter reaches 0.
func (b *Barrier) WaitForAll() {
	b.m.Lock()
	defer b.m.Unlock()
	for b.remaining != 0 {
		b.cond.Wait()
	}
}

// NotifyCompleted decrements the counter and wakes the waiter. It returns
// ErrBarrierOverNotified if it is called more times than the barrier's
// original count.
func (b *Barrier) NotifyCompleted() error {
	b.m.Lock()
	b.remaining--
	over := b.remaining < 0
	b.m.Unlock()

	b.cond.Signal()

	if over {
		return ErrBarrierOverNotified
	}
	return nil
}

// Remaining returns the number of outstanding completions. It is intended
// for diagnostics/tests only - there's no guarantee it hasn't changed by
// the time the caller inspects it.
func (b *Barrier) Remaining() int64 {
	b.m.Lock()
	defer b.m.Unlock()
	return b.remaining
}
