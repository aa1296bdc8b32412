package profiler

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScopeTable_InternIsIdempotent(t *testing.T) {
	a := assert.New(t)
	st := NewScopeTable()

	r1 := st.Intern("doWork", "pkg.doWork", "work.go", 10, NoTag)
	r2 := st.Intern("doWork", "pkg.doWork", "work.go", 10, NoTag)

	a.Same(r1, r2, "interning the same call site twice must return the same record")
	a.Equal("doWork", r1.Name)
}

func TestScopeTable_DistinctCallSitesGetDistinctKeys(t *testing.T) {
	a := assert.New(t)
	st := NewScopeTable()

	r1 := st.Intern("a", "pkg.a", "a.go", 1, NoTag)
	r2 := st.Intern("b", "pkg.b", "b.go", 2, NoTag)

	a.NotEqual(r1.Key, r2.Key)
}

func TestScopeTable_ConcurrentInternCollapsesToOneRecord(t *testing.T) {
	a := assert.New(t)
	st := NewScopeTable()

	const n = 32
	results := make([]*ScopeRecord, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = st.Intern("shared", "pkg.shared", "shared.go", 7, NoTag)
		}()
	}
	wg.Wait()

	for _, r := range results {
		a.Same(results[0], r)
	}
}

func TestScopeTable_LookupMissingReturnsNil(t *testing.T) {
	a := assert.New(t)
	st := NewScopeTable()
	a.Nil(st.Lookup(ScopeKey(12345)))
}

func TestScopeTable_SnapshotIsIndependentCopy(t *testing.T) {
	a := assert.New(t)
	st := NewScopeTable()
	st.Intern("a", "pkg.a", "a.go", 1, NoTag)

	snap := st.Snapshot()
	a.Len(snap, 1)

	st.Intern("b", "pkg.b", "b.go", 2, NoTag)
	a.Len(snap, 1, "snapshot must not observe later interns")
}
