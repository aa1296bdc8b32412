package profiler

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestThreadRegistry_AssignsStableIDPerGoroutine(t *testing.T) {
	a := assert.New(t)
	r := NewThreadRegistry(4)

	id1 := r.CurrentThreadID()
	id2 := r.CurrentThreadID()
	a.Equal(id1, id2, "repeat calls from the same goroutine must return the same id")
}

func TestThreadRegistry_DistinctGoroutinesGetDistinctIDs(t *testing.T) {
	a := assert.New(t)
	r := NewThreadRegistry(8)

	const n = 5
	ids := make(chan int, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids <- r.CurrentThreadID()
		}()
	}
	wg.Wait()
	close(ids)

	seen := map[int]bool{}
	for id := range ids {
		seen[id] = true
	}
	a.Len(seen, n)
	a.Equal(n, r.RegisteredThreadCount())
}

func TestThreadRegistry_ExceedingCapacityPanics(t *testing.T) {
	a := assert.New(t)
	r := NewThreadRegistry(1)
	r.CurrentThreadID()

	var wg sync.WaitGroup
	wg.Add(1)
	var recovered interface{}
	go func() {
		defer wg.Done()
		defer func() { recovered = recover() }()
		r.CurrentThreadID()
	}()
	wg.Wait()

	a.NotNil(recovered)
	a.ErrorIs(recovered.(error), ErrTooManyThreads)
}

func TestThreadRegistry_AssignThreadNameOnlyOnce(t *testing.T) {
	a := assert.New(t)
	r := NewThreadRegistry(2)

	a.True(r.AssignThreadName("worker-a"))
	a.False(r.AssignThreadName("worker-b"), "renaming an already-named thread must fail")
	a.Equal("worker-a", r.CurrentThreadName())
}

func TestThreadRegistry_AssignThreadNameFailsAfterImplicitIDAssignment(t *testing.T) {
	a := assert.New(t)
	r := NewThreadRegistry(2)

	// Merely reading the thread id/name claims a slot under the default
	// "Thread<id>" name - a later explicit AssignThreadName must not be
	// able to overwrite that default.
	r.CurrentThreadID()
	a.False(r.AssignThreadName("worker-a"), "an id already claimed via CurrentThreadID must block AssignThreadName")
	a.Equal("Thread0", r.CurrentThreadName())
}

func TestThreadRegistry_EmptyNameAssignsDefaultOnUnclaimedThread(t *testing.T) {
	a := assert.New(t)
	r := NewThreadRegistry(2)

	a.True(r.AssignThreadName(""), "an empty name on an unclaimed thread should succeed with a default name")
	a.Equal("Thread0", r.CurrentThreadName())
}

func TestThreadRegistry_EmptyNameFailsOnAlreadyClaimedThread(t *testing.T) {
	a := assert.New(t)
	r := NewThreadRegistry(2)

	r.CurrentThreadID()
	a.False(r.AssignThreadName(""), "an already-claimed id cannot be reassigned, even to the empty name")
}

func TestThreadRegistry_ThreadNameOutOfRange(t *testing.T) {
	a := assert.New(t)
	r := NewThreadRegistry(2)
	a.Equal("", r.ThreadName(5))
	a.Equal("", r.ThreadName(-1))
}
