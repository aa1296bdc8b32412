package drawmodel

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/manvis/scopeprof/profiler"
	"github.com/manvis/scopeprof/profiler/snapshot"
)

func validSnapshot() *snapshot.ResultSnapshot {
	return &snapshot.ResultSnapshot{
		ThreadNames: []string{"main"},
		Frames: []profiler.Frame{
			{Number: 0, Interval: profiler.TimedInterval{Start: 0, End: 1000}},
		},
		Scopes: map[profiler.ScopeKey]*profiler.ScopeRecord{
			1: {Key: 1, Tag: profiler.NoTag, Name: "outer"},
			2: {Key: 2, Tag: profiler.NoTag, Name: "inner"},
		},
		Tags: map[profiler.Tag]profiler.TagValue{
			profiler.NoTag: {Name: "NoTag"},
		},
		Events: [][]profiler.Event{
			{
				{Key: 1, Depth: 0, Interval: profiler.TimedInterval{Start: 0, End: 500}},
				{Key: 2, Depth: 1, Interval: profiler.TimedInterval{Start: 100, End: 200}},
				{Key: 2, Depth: 0, Interval: profiler.TimedInterval{Start: 600, End: 900}},
			},
		},
	}
}

func TestBuild_ValidSnapshotProducesUsableModel(t *testing.T) {
	a := assert.New(t)
	dm := Build(validSnapshot())
	a.NoError(dm.Err())

	depth, res := dm.MaxDepth(0)
	a.Equal(Drawn, res)
	a.EqualValues(1, depth)
}

func TestBuild_RejectsUnresolvableScope(t *testing.T) {
	a := assert.New(t)
	s := validSnapshot()
	s.Events[0] = append(s.Events[0], profiler.Event{Key: 999, Interval: profiler.TimedInterval{Start: 0, End: 1}})

	dm := Build(s)
	a.Error(dm.Err())

	_, res := dm.MaxDepth(0)
	a.Equal(Failed, res)
}

func TestBuild_RejectsUnresolvableTag(t *testing.T) {
	a := assert.New(t)
	s := validSnapshot()
	s.Scopes[1].Tag = profiler.Tag(77)

	dm := Build(s)
	a.Error(dm.Err())
}

func TestBuild_RejectsNonSequentialFrameNumbers(t *testing.T) {
	a := assert.New(t)
	s := validSnapshot()
	s.Frames[0].Number = 5

	dm := Build(s)
	a.Error(dm.Err())
}

func TestBuild_AllowsNonSequentialFramesWhenSynthesized(t *testing.T) {
	a := assert.New(t)
	s := validSnapshot()
	s.Frames[0].Number = 5
	s.FrameDataMissing = true

	dm := Build(s)
	a.NoError(dm.Err())
}

func TestDrawModel_QueryReturnsOverlappingEvents(t *testing.T) {
	a := assert.New(t)
	dm := Build(validSnapshot())

	found, res := dm.Query(0, 150, 550)
	a.Equal(Drawn, res)
	a.Len(found, 2, "should find the outer[0,500] and inner[100,200] events but not [600,900]")
}

func TestDrawModel_QueryUnavailableThreadIndex(t *testing.T) {
	a := assert.New(t)
	dm := Build(validSnapshot())

	_, res := dm.Query(9, 0, 100)
	a.Equal(Unavailable, res)
}

func TestDrawModel_ScopeTableAggregatesPerScope(t *testing.T) {
	a := assert.New(t)
	dm := Build(validSnapshot())

	table, res := dm.ScopeTable()
	a.Equal(Drawn, res)
	a.Len(table, 2)

	byKey := map[profiler.ScopeKey]*ScopeStats{}
	for _, s := range table {
		byKey[s.Key] = s
	}

	inner := byKey[2]
	a.Equal(2, inner.Calls)
	a.EqualValues(100+300, inner.TotalNanos)
	a.EqualValues(100, inner.MinNanos)
	a.EqualValues(300, inner.MaxNanos)
}

func TestDrawModel_ScopeTableSortedByTotalDurationDescending(t *testing.T) {
	a := assert.New(t)
	dm := Build(validSnapshot())

	table, _ := dm.ScopeTable()
	for i := 1; i < len(table); i++ {
		a.GreaterOrEqual(table[i-1].TotalNanos, table[i].TotalNanos)
	}
}

func TestScopeStats_MeanNanos(t *testing.T) {
	a := assert.New(t)
	s := &ScopeStats{Calls: 4, TotalNanos: 400}
	a.EqualValues(100, s.MeanNanos())

	empty := &ScopeStats{}
	a.EqualValues(0, empty.MeanNanos())
}

func TestScopeStats_HoverText(t *testing.T) {
	a := assert.New(t)
	s := &ScopeStats{Calls: 2, TotalNanos: 400, MinNanos: 100, MaxNanos: 300, MinFrame: 1, MaxFrame: 2}
	text := s.HoverText("doWork")
	a.Contains(text, "doWork")
	a.Contains(text, "calls=2")
	a.Contains(text, "min=100ns(frame 1)")
	a.Contains(text, "max=300ns(frame 2)")
}
