// Package profiler implements a hierarchical scope profiler: concurrent,
// per-goroutine capture of named lexical region timings, grouped into
// user-delimited frames and exported as a ResultSnapshot.
//
// Ported from IYFThreading's ThreadProfiler (ThreadProfilerCore.hpp). Go
// has no thread-local storage and no macros, so two adaptations run
// throughout the package: identity is cached per-goroutine by goroutine ID
// (extracted the way tracer/logger in the retrieval pack's teacher repo
// does, via runtime.Stack) instead of true TLS, and the scoped-guard
// instrumentation macro becomes a Scope value whose End method is meant to
// be deferred.
package profiler

import "fmt"

// ScopeKey is a 32-bit hash derived from a call-site identifier
// ("file:line" is the canonical seed). Collisions are treated as identity -
// a documented caveat inherited from the original.
type ScopeKey uint32

// NoTag is the reserved tag id meaning "no tag attached".
const NoTag Tag = 0

// Tag is an opaque, user-extensible label attached to a scope at
// instrumentation time. The profiler never interprets tag semantics.
type Tag uint32

// Color is an RGBA color associated with a Tag.
type Color struct {
	R, G, B, A uint8
}

// ScopeRecord is scope metadata, interned once per distinct ScopeKey and
// immutable afterward.
type ScopeRecord struct {
	Key          ScopeKey
	Tag          Tag
	Name         string
	FunctionName string
	FileName     string
	Line         uint32
}

// TimedInterval is a [Start,End] pair of nanosecond timestamps measured
// against ClockSource's monotonic epoch.
type TimedInterval struct {
	Start, End int64 // nanoseconds
}

// Valid reports whether the interval has non-zero width.
func (t TimedInterval) Valid() bool { return t.Start != t.End }

// Complete reports whether the interval has been closed with an end time
// strictly after its start.
func (t TimedInterval) Complete() bool { return t.Start < t.End }

// Duration returns End-Start as a count of nanoseconds.
func (t TimedInterval) Duration() int64 { return t.End - t.Start }

// Event is a completed (or in-flight) scope instance.
type Event struct {
	Key    ScopeKey
	Depth  int32
	Interval TimedInterval
	Cookie   uint64 // only meaningful when config.WithCookie is set
}

// Frame is a user-delimited outer interval used to group events for
// visualization.
type Frame struct {
	Number   uint64
	Interval TimedInterval
}

// ThreadIdentity binds a dense integer id to a name. Once assigned to a
// goroutine's underlying observation slot, the binding never changes for
// the lifetime of the process.
type ThreadIdentity struct {
	ID   int
	Name string
}

func (t ThreadIdentity) String() string {
	return fmt.Sprintf("%s(%d)", t.Name, t.ID)
}
