package profiler

import (
	"path/filepath"
	"runtime"
)

// Scope is the scoped-guard instrumentation primitive (spec §6's
// profile_scope macro). Enter is called by ProfileScope at construction;
// End must run on every exit path, which in Go means "defer sc.End()"
// immediately after ProfileScope returns - the language's one primitive
// that runs on normal return, early return and panicking unwind alike,
// matching the deterministic-release requirement in spec §9.
type Scope struct {
	profiler *Profiler
	record   *ScopeRecord
}

// ProfileScope enters a named scope on the default Profiler and returns a
// Scope whose End must be deferred by the caller:
//
//	defer profiler.ProfileScope("db.Query").End()
//
// tag defaults to NoTag when omitted.
func ProfileScope(name string, tag ...Tag) Scope {
	pc, file, line, ok := runtime.Caller(1)
	return profileScopeOn(Default(), pc, file, line, ok, name, tag...)
}

// ProfileScopeOn is ProfileScope against an explicit Profiler instead of
// the process-wide default. It is a documented entry point in its own
// right, callable directly (not just through ProfileScope), so it captures
// its own immediate caller rather than delegating to a shared wrapper that
// would need to know how many frames deep it was called from.
func ProfileScopeOn(p *Profiler, name string, tag ...Tag) Scope {
	pc, file, line, ok := runtime.Caller(1)
	return profileScopeOn(p, pc, file, line, ok, name, tag...)
}

// profileScopeOn does the actual scope-entry work against an already
// captured call site, shared by ProfileScope and ProfileScopeOn so that
// each of them - not this helper - is the one calling runtime.Caller,
// keeping the skip count fixed at 1 regardless of which entry point a
// caller used.
func profileScopeOn(p *Profiler, pc uintptr, file string, line int, ok bool, name string, tag ...Tag) Scope {
	t := NoTag
	if len(tag) > 0 {
		t = tag[0]
	}

	funcName := "unknown"
	if ok {
		if fn := runtime.FuncForPC(pc); fn != nil {
			funcName = fn.Name()
		}
	} else {
		file = "unknown"
	}

	rec := p.InsertScopeInfo(name, funcName, filepath.Base(file), uint32(line), t)
	p.Enter(rec)
	return Scope{profiler: p, record: rec}
}

// End closes the scope. Safe to call at most once per Scope value.
func (s Scope) End() {
	s.profiler.Exit(s.record)
}

// NameThread assigns a name to the calling goroutine on the default
// Profiler.
func NameThread(name string) bool {
	return Default().NameThread(name)
}

// SetRecording toggles recording on the default Profiler.
func SetRecording(state bool) {
	Default().SetRecording(state)
}

// NextFrame advances the default Profiler's frame ledger.
func NextFrame() {
	Default().NextFrame()
}

// CurrentStatus reports the default Profiler's status.
func CurrentStatus() Status {
	return Default().Status()
}
