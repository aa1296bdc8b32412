package pool

import "errors"

var (
	// ErrInvalidConfiguration is returned by NewWorkerPool for a zero
	// worker count and by NewBarrier for a negative count.
	ErrInvalidConfiguration = errors.New("pool: invalid configuration")
	// ErrPoolClosed is returned by AddTask family calls once the pool has
	// started shutting down.
	ErrPoolClosed = errors.New("pool: pool is closed")
	// ErrBarrierOverNotified is returned by Barrier.NotifyCompleted once
	// more completions have been reported than the barrier was created for.
	ErrBarrierOverNotified = errors.New("pool: barrier notified more times than its count")
)
