package pool

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/manvis/scopeprof/config"
	"github.com/manvis/scopeprof/profiler"
)

// WorkerPool is a fixed-size goroutine pool draining a FIFO task queue.
//
// Ported from IYFThreading's ThreadPool (ThreadPool.hpp). The original
// spins up N OS threads up front and joins them on destruction; here N
// goroutines play the same role, parked on a sync.Cond instead of an OS
// condition variable, and named through the profiler's thread registry the
// same way the original's worker threads register a display name.
type WorkerPool struct {
	m        sync.Mutex
	cond     *sync.Cond
	tasks    []func()
	running  bool
	inFlight int64
	wg       sync.WaitGroup
	workers  int
}

// NewWorkerPool creates a WorkerPool of n workers. setup, if non-nil, runs
// once on each worker goroutine before it starts draining tasks, receiving
// the total worker count and its own index; it's the hook a caller uses to
// name the goroutine via profiler.NameThread the way spec §4.10 describes.
// n must be >= 1.
func NewWorkerPool(n int, setup func(total, index int)) (*WorkerPool, error) {
	if n <= 0 {
		return nil, ErrInvalidConfiguration
	}

	p := &WorkerPool{running: true, workers: n}
	p.cond = sync.NewCond(&p.m)

	p.wg.Add(n)
	for i := 0; i < n; i++ {
		i := i
		go func() {
			defer p.wg.Done()
			if setup != nil {
				setup(n, i)
			}
			p.loop()
		}()
	}

	return p, nil
}

// NewNamedWorkerPool creates a WorkerPool of n workers, each naming itself
// through prof's naming interface as "<namePrefix>-<index>" before it
// starts draining tasks. This is the concrete form of the pool/profiler
// coupling spec §1 and §2 describe ("the pool names its workers through
// the profiler's naming interface"): every task later dispatched on that
// worker is attributed, in a ResultSnapshot, to this name rather than the
// registry's bare "Thread<id>" default.
func NewNamedWorkerPool(n int, prof *profiler.Profiler, namePrefix string) (*WorkerPool, error) {
	return NewWorkerPool(n, func(total, index int) {
		prof.NameThread(fmt.Sprintf("%s-%d", namePrefix, index))
	})
}

func (p *WorkerPool) loop() {
	for {
		p.m.Lock()
		for p.running && len(p.tasks) == 0 {
			p.cond.Wait()
		}
		if !p.running && len(p.tasks) == 0 {
			p.m.Unlock()
			return
		}
		task := p.tasks[0]
		p.tasks = p.tasks[1:]
		p.m.Unlock()

		if config.PoolProfileInstrumentation {
			func() {
				defer profiler.ProfileScope("pool.dispatch").End()
				task()
			}()
		} else {
			task()
		}

		atomic.AddInt64(&p.inFlight, -1)
	}
}

// AddTask enqueues fn for execution by the next free worker. It returns
// ErrPoolClosed if the pool has already been closed.
func (p *WorkerPool) AddTask(fn func()) error {
	p.m.Lock()
	if !p.running {
		p.m.Unlock()
		return ErrPoolClosed
	}
	atomic.AddInt64(&p.inFlight, 1)
	p.tasks = append(p.tasks, fn)
	p.m.Unlock()
	p.cond.Signal()
	return nil
}

// AddTaskWithBarrier enqueues fn wrapped to call b.NotifyCompleted once it
// returns, letting a caller submit a batch and WaitForAll on the barrier
// instead of polling RemainingTasks.
func (p *WorkerPool) AddTaskWithBarrier(b *Barrier, fn func()) error {
	return p.AddTask(func() {
		fn()
		_ = b.NotifyCompleted()
	})
}

// Future holds the eventual result of a task submitted through
// AddTaskWithResult. Get blocks until the task completes.
type Future[T any] struct {
	ch chan T
}

// Get blocks until the producing task has run and returns its result.
// The channel carries exactly one value and is never closed, so a second
// Get call blocks forever, mirroring the original's single-consumer future.
func (f *Future[T]) Get() T {
	return <-f.ch
}

// AddTaskWithResult enqueues fn and returns a Future that resolves to its
// return value once a worker has run it.
func AddTaskWithResult[T any](p *WorkerPool, fn func() T) (*Future[T], error) {
	fut := &Future[T]{ch: make(chan T, 1)}
	err := p.AddTask(func() {
		fut.ch <- fn()
	})
	if err != nil {
		return nil, err
	}
	return fut, nil
}

// AddTaskWithResultAndBarrier combines AddTaskWithResult and
// AddTaskWithBarrier: the barrier is notified after the result is produced
// and delivered to the future's channel.
func AddTaskWithResultAndBarrier[T any](p *WorkerPool, b *Barrier, fn func() T) (*Future[T], error) {
	fut := &Future[T]{ch: make(chan T, 1)}
	err := p.AddTaskWithBarrier(b, func() {
		fut.ch <- fn()
	})
	if err != nil {
		return nil, err
	}
	return fut, nil
}

// WorkerCount returns the number of worker goroutines the pool was created
// with.
func (p *WorkerPool) WorkerCount() int {
	return p.workers
}

// RemainingTasks returns the number of tasks queued or in flight. Intended
// for diagnostics; the value may already be stale by the time it's read.
func (p *WorkerPool) RemainingTasks() int {
	return int(atomic.LoadInt64(&p.inFlight))
}

// WaitForAll blocks until every task submitted so far has completed. It
// busy-spins on the in-flight counter rather than using a condition
// variable, mirroring the original's wait_for_all - cheap because the loop
// only ever runs while the pool is actively draining a batch, and it means
// a task added concurrently with a WaitForAll call has no defined ordering
// against it (spec §4.10).
func (p *WorkerPool) WaitForAll() {
	for atomic.LoadInt64(&p.inFlight) != 0 {
		runtime.Gosched()
	}
}

// Close stops the pool: no further AddTask calls succeed, and Close blocks
// until every worker goroutine has drained the remaining queue and exited.
func (p *WorkerPool) Close() {
	p.m.Lock()
	p.running = false
	p.m.Unlock()
	p.cond.Broadcast()
	p.wg.Wait()
}
