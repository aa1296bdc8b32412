package profiler

import (
	"sync"
	"sync/atomic"

	"github.com/manvis/scopeprof/config"
)

// Profiler orchestrates recording on/off, scope enter/exit, frame advance
// and result extraction for one process. Ported from IYFThreading's
// ThreadProfiler class (ThreadProfilerCore.hpp).
type Profiler struct {
	recording int32 // atomic bool: 0 = off, 1 = on

	scopes  *ScopeTable
	threads *ThreadRegistry
	frames  *FrameLedger
	tags    *TagTable

	mu        sync.RWMutex // read-locked by Extract; recorders never grows past its initial capacity
	recorders []*PerThreadRecorder

	withCookie  bool
	debugAssert bool
}

// New creates a Profiler with room for capacity distinct threads.
func New(capacity int, withCookie, debugAssert bool) *Profiler {
	p := &Profiler{
		scopes:      NewScopeTable(),
		threads:     NewThreadRegistry(capacity),
		frames:      NewFrameLedger(),
		tags:        NewTagTable(),
		recorders:   make([]*PerThreadRecorder, capacity),
		withCookie:  withCookie,
		debugAssert: debugAssert,
	}
	for i := range p.recorders {
		p.recorders[i] = NewPerThreadRecorder()
	}
	return p
}

var (
	defaultOnce    sync.Once
	defaultProfile *Profiler
)

// Default returns the process-wide Profiler singleton, built from the
// package config vars on first use. Long-lived programs that need
// different settings should construct their own Profiler with New instead
// of relying on this instance-per-process shortcut.
func Default() *Profiler {
	defaultOnce.Do(func() {
		defaultProfile = New(config.MaxThreads, config.WithCookie, true)
	})
	return defaultProfile
}

// SetRecording is an atomic, release-ordered store of the recording flag.
func (p *Profiler) SetRecording(state bool) {
	var v int32
	if state {
		v = 1
	}
	atomic.StoreInt32(&p.recording, v)
}

// IsRecording is an atomic, acquire-ordered load of the recording flag.
func (p *Profiler) IsRecording() bool {
	return atomic.LoadInt32(&p.recording) != 0
}

// Status mirrors spec §6's three-way instrumentation status.
type Status int

const (
	Disabled Status = iota
	EnabledNotRecording
	EnabledRecording
)

// Status reports whether the profiler is compiled in, and if so, whether
// it is currently recording. EnableProfiling gates the whole surface at
// the config level rather than at build time (see config.EnableProfiling's
// doc comment).
func (p *Profiler) Status() Status {
	if !config.EnableProfiling {
		return Disabled
	}
	if p.IsRecording() {
		return EnabledRecording
	}
	return EnabledNotRecording
}

// InsertScopeInfo interns a scope's metadata and returns its stable record.
func (p *Profiler) InsertScopeInfo(scopeName, functionName, fileName string, line uint32, tag Tag) *ScopeRecord {
	return p.scopes.Intern(scopeName, functionName, fileName, line, tag)
}

// Enter pushes an active event for rec onto the calling goroutine's stack.
func (p *Profiler) Enter(rec *ScopeRecord) {
	if !config.EnableProfiling {
		return
	}
	tid := p.threads.CurrentThreadID()
	p.recorders[tid].Enter(rec.Key, p.withCookie)
}

// Exit closes the calling goroutine's most recently entered scope.
func (p *Profiler) Exit(rec *ScopeRecord) {
	if !config.EnableProfiling {
		return
	}
	tid := p.threads.CurrentThreadID()
	p.recorders[tid].Exit(rec.Key, p.IsRecording(), p.debugAssert)
}

// NextFrame advances the frame ledger.
func (p *Profiler) NextFrame() {
	p.frames.Advance(p.IsRecording())
}

// NameThread assigns a name to the calling goroutine (spec §4.2).
func (p *Profiler) NameThread(name string) bool {
	return p.threads.AssignThreadName(name)
}

// CurrentThreadID returns the calling goroutine's dense id.
func (p *Profiler) CurrentThreadID() int {
	return p.threads.CurrentThreadID()
}

// CurrentThreadName returns the calling goroutine's name.
func (p *Profiler) CurrentThreadName() string {
	return p.threads.CurrentThreadName()
}

// RegisteredThreadCount returns how many distinct threads have been
// observed so far.
func (p *Profiler) RegisteredThreadCount() int {
	return p.threads.RegisteredThreadCount()
}

// Tags returns the profiler's tag table, e.g. to RegisterTag before the
// first InsertScopeInfo call that uses it.
func (p *Profiler) Tags() *TagTable {
	return p.tags
}

// Extraction is the raw bundle Profiler.Extract hands to the snapshot
// package - everything a ResultSnapshot needs before the frame-synthesis
// fallback and per-thread sort described in spec §4.6 are applied.
type Extraction struct {
	Frames      []Frame
	ThreadNames []string
	Events      [][]Event
	Scopes      map[ScopeKey]*ScopeRecord
	Tags        map[Tag]TagValue
}

// TagValue is a (name, color) pair keyed by Tag id in an Extraction.
type TagValue struct {
	Name  string
	Color Color
}

// Extract atomically turns recording off, then drains the frame ledger and
// every registered thread's event queue, and copies the scope table, into
// an Extraction. The scope table itself keeps its records. It never applies the frame-synthesis fallback (spec §4.6's
// "if no frames and no events..." rules) - that belongs to whoever builds
// a ResultSnapshot from the Extraction, since it's a policy decision about
// the exported format, not about what the profiler itself owns.
func (p *Profiler) Extract() Extraction {
	p.SetRecording(false)

	// The original takes the scope-table and frame spinlocks together for
	// the whole extraction. Each sub-step below is individually atomic
	// under its own Spinlock instead; nothing but SetRecording(false)
	// itself can race with a concurrent Enter/Exit/NextFrame here, so a
	// single combined critical section buys nothing beyond what the three
	// narrower ones already give.

	threadCount := p.threads.RegisteredThreadCount()

	frames, _ := p.frames.Take()

	scopesSnapshot := p.scopes.Snapshot()

	events := make([][]Event, threadCount)
	names := make([]string, threadCount)
	p.mu.RLock()
	for i := 0; i < threadCount; i++ {
		events[i] = p.recorders[i].TakeEvents()
		names[i] = p.threads.ThreadName(i)
	}
	p.mu.RUnlock()

	tags := make(map[Tag]TagValue, len(p.tags.Enumerate()))
	for _, id := range p.tags.Enumerate() {
		tags[id] = TagValue{Name: p.tags.Name(id), Color: p.tags.Color(id)}
	}

	return Extraction{
		Frames:      frames,
		ThreadNames: names,
		Events:      events,
		Scopes:      scopesSnapshot,
		Tags:        tags,
	}
}
