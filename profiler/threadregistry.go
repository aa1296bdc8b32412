package profiler

import (
	"fmt"
	"regexp"
	"runtime"
	"strconv"
	"sync"
)

// gidPattern extracts the numeric goroutine id from the first line of a
// runtime.Stack dump ("goroutine 37 [running]:..."). Mirrors the technique
// the retrieval pack's teacher repo uses in tracer/logger to recover a GID
// without access to real thread-local storage.
var gidPattern = regexp.MustCompile(`^goroutine (\d+)`)

func goroutineID() int64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	m := gidPattern.FindSubmatch(buf[:n])
	if m == nil {
		panic("profiler: could not parse goroutine id out of runtime.Stack output")
	}
	id, err := strconv.ParseInt(string(m[1]), 10, 64)
	if err != nil {
		panic(err)
	}
	return id
}

// ThreadRegistry assigns a dense integer id and a name to each observing
// goroutine, and caches the binding so that repeat lookups from the same
// goroutine avoid the shared mutex. Ported from IYFThreading's
// ThreadIDAssigner.
type ThreadRegistry struct {
	capacity int

	mu      sync.Mutex
	counter int
	names   []string

	// cache maps a goroutine id to its already-assigned thread id. Reads
	// through a sync.Map so that the hot Enter/Exit path - called on every
	// scope, many times per second - almost never touches mu.
	cache sync.Map // int64 -> int
}

// NewThreadRegistry creates a registry that can name up to capacity
// distinct threads.
func NewThreadRegistry(capacity int) *ThreadRegistry {
	return &ThreadRegistry{
		capacity: capacity,
		names:    make([]string, 0, capacity),
	}
}

// CurrentThreadID returns the calling goroutine's id, assigning one on
// first call. It panics with ErrTooManyThreads wrapped in if capacity is
// exhausted - the C++ original throws from the same situation, and there is
// no sane fallback value to return to a caller expecting an index into a
// fixed-capacity array.
func (r *ThreadRegistry) CurrentThreadID() int {
	gid := goroutineID()
	if v, ok := r.cache.Load(gid); ok {
		return v.(int)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Another goroutine may have raced us between the Load miss and taking
	// mu; check again under the lock before claiming a new slot.
	if v, ok := r.cache.Load(gid); ok {
		return v.(int)
	}

	if r.counter >= r.capacity {
		panic(fmt.Errorf("%w: capacity %d exceeded", ErrTooManyThreads, r.capacity))
	}

	id := r.counter
	r.counter++
	r.names = append(r.names, fmt.Sprintf("Thread%d", id))
	r.cache.Store(gid, id)
	return id
}

// CurrentThreadName returns the calling goroutine's name, assigning a
// default one first if needed.
func (r *ThreadRegistry) CurrentThreadName() string {
	id := r.CurrentThreadID()
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.names[id]
}

// AssignThreadName binds a name to the calling goroutine, assigning it a
// fresh id in the same step. It returns false if an id was already
// assigned to this goroutine - whether by an earlier AssignThreadName call
// or merely by an earlier CurrentThreadID/CurrentThreadName call that
// stamped the automatic "Thread<id>" default - since names are immutable
// once an id has been claimed at all. It deliberately checks the cache
// itself rather than going through CurrentThreadID, which would claim (and
// default-name) the id as a side effect before this method got a chance to
// see it was unclaimed. An empty name on an otherwise-unclaimed goroutine
// still succeeds, assigning the automatic "Thread<id>" default in place of
// an explicit name - only an already-bound id produces false.
func (r *ThreadRegistry) AssignThreadName(name string) bool {
	gid := goroutineID()
	if _, ok := r.cache.Load(gid); ok {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// A goroutine only ever runs one call at a time, so no concurrent
	// caller could have raced us onto this same gid between the Load above
	// and taking mu - but check again anyway, matching CurrentThreadID's
	// pattern.
	if _, ok := r.cache.Load(gid); ok {
		return false
	}

	if r.counter >= r.capacity {
		panic(fmt.Errorf("%w: capacity %d exceeded", ErrTooManyThreads, r.capacity))
	}

	id := r.counter
	r.counter++
	if name == "" {
		name = fmt.Sprintf("Thread%d", id)
	}
	r.names = append(r.names, name)
	r.cache.Store(gid, id)
	return true
}

// RegisteredThreadCount returns how many distinct threads have been
// observed so far.
func (r *ThreadRegistry) RegisteredThreadCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counter
}

// ThreadName returns the name bound to a given thread id. Used by
// extraction (Profiler.Extract) to build the snapshot's thread-name
// table.
func (r *ThreadRegistry) ThreadName(id int) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if id < 0 || id >= len(r.names) {
		return ""
	}
	return r.names[id]
}
