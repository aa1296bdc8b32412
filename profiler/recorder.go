package profiler

// PerThreadRecorder maintains one goroutine's active-scope stack and its
// queue of completed events. Ported from IYFThreading's ThreadData.
//
// The active stack is touched only by its owning goroutine and therefore
// needs no locking (spec §5, "Active-scope stack: per-thread, unshared").
// recordedEvents is read by Profiler.Extract from a different
// goroutine, so it stays behind its own Spinlock, exactly as the original
// keeps recordSpinLock separate from the (lock-free, single-writer)
// activeStack.
type PerThreadRecorder struct {
	depth       int32
	activeStack []Event
	cookie      uint64

	lock           Spinlock
	recordedEvents []Event
}

// activeStackReserve mirrors the original's "reserve 256 slots" comment:
// scope entry must never reallocate under a Spinlock.
const activeStackReserve = 256

// NewPerThreadRecorder creates a recorder with depth initialized to -1, so
// the first entered scope lands at depth 0.
func NewPerThreadRecorder() *PerThreadRecorder {
	return &PerThreadRecorder{
		depth:       -1,
		activeStack: make([]Event, 0, activeStackReserve),
	}
}

// Enter pushes a new in-flight event for key onto the active stack. The
// start time is always captured, recording or not, so that a scope that
// straddles a recording on/off toggle still reports a correct duration if
// it is recording by the time it exits (spec §4.4 rationale).
func (r *PerThreadRecorder) Enter(key ScopeKey, withCookie bool) {
	r.depth++
	ev := Event{
		Key:      key,
		Depth:    r.depth,
		Interval: TimedInterval{Start: now()},
	}
	if withCookie {
		ev.Cookie = r.cookie
		r.cookie++
	}
	r.activeStack = append(r.activeStack, ev)
}

// Exit closes the top of the active stack. If recording is true and the
// resulting interval is non-degenerate, the event moves into
// recordedEvents; the stack pops regardless, so depth bookkeeping never
// desynchronizes across a recording toggle.
//
// debugAssert, when true, panics on a LIFO violation (spec invariant I3)
// instead of leaving it as undefined behavior - the "may be asserted in
// debug mode" clause of §4.4.
func (r *PerThreadRecorder) Exit(key ScopeKey, recording, debugAssert bool) {
	n := len(r.activeStack)
	top := &r.activeStack[n-1]

	if debugAssert && top.Key != key {
		panic("profiler: scope exit key does not match the most recent scope entry (non-LIFO instrumentation)")
	}

	if recording {
		top.Interval.End = now()
		if top.Interval.Valid() {
			r.lock.Lock()
			r.recordedEvents = append(r.recordedEvents, *top)
			r.lock.Unlock()
		}
	}

	r.activeStack = r.activeStack[:n-1]
	r.depth--
}

// Depth returns the current nesting depth (-1 when nothing is entered).
func (r *PerThreadRecorder) Depth() int32 { return r.depth }

// TakeEvents atomically swaps out and returns the recorded-event queue,
// leaving an empty one behind. Used exclusively by Profiler.Extract.
func (r *PerThreadRecorder) TakeEvents() []Event {
	r.lock.Lock()
	events := r.recordedEvents
	r.recordedEvents = nil
	r.lock.Unlock()
	return events
}
