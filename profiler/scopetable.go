package profiler

import (
	"fmt"

	"golang.org/x/sync/singleflight"

	"github.com/manvis/scopeprof/config"
)

// ScopeTable interns scope metadata (ScopeKey -> *ScopeRecord), shared
// across every goroutine that touches the profiler. Ported from
// IYFThreading's scopes unordered_map guarded by scopeMapSpinLock.
type ScopeTable struct {
	lock Spinlock
	m    map[ScopeKey]*ScopeRecord

	// group collapses concurrent first-sight Intern calls for the same
	// call site into a single insert. Two goroutines racing through the
	// same freshly-instrumented line on their very first pass would
	// otherwise both compute the hash and both briefly hold the spinlock;
	// singleflight makes the second one just wait for the first's result
	// instead.
	group singleflight.Group
}

// NewScopeTable creates an empty ScopeTable.
func NewScopeTable() *ScopeTable {
	return &ScopeTable{m: make(map[ScopeKey]*ScopeRecord)}
}

// Intern hashes "file:line" into a ScopeKey and returns the existing record
// for it, or creates and inserts a new one. The returned pointer is stable
// and may be held indefinitely.
func (s *ScopeTable) Intern(scopeName, functionName, fileName string, line uint32, tag Tag) *ScopeRecord {
	identifier := fmt.Sprintf("%s:%d", fileName, line)
	key := ScopeKey(config.HashFunction(identifier))

	if rec := s.lookup(key); rec != nil {
		return rec
	}

	v, _, _ := s.group.Do(identifier, func() (interface{}, error) {
		if rec := s.lookup(key); rec != nil {
			return rec, nil
		}
		rec := &ScopeRecord{
			Key:          key,
			Tag:          tag,
			Name:         scopeName,
			FunctionName: functionName,
			FileName:     fileName,
			Line:         line,
		}
		s.lock.Lock()
		s.m[key] = rec
		s.lock.Unlock()
		return rec, nil
	})
	return v.(*ScopeRecord)
}

func (s *ScopeTable) lookup(key ScopeKey) *ScopeRecord {
	s.lock.Lock()
	rec := s.m[key]
	s.lock.Unlock()
	return rec
}

// Lookup returns the record for key, or nil if it hasn't been interned.
func (s *ScopeTable) Lookup(key ScopeKey) *ScopeRecord {
	return s.lookup(key)
}

// Snapshot returns a shallow copy of the interned scope map, used during
// result extraction so the live table can keep accepting new interns.
func (s *ScopeTable) Snapshot() map[ScopeKey]*ScopeRecord {
	s.lock.Lock()
	defer s.lock.Unlock()
	out := make(map[ScopeKey]*ScopeRecord, len(s.m))
	for k, v := range s.m {
		out[k] = v
	}
	return out
}
