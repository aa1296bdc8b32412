package snapshot

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/manvis/scopeprof/profiler"
)

func TestTake_SynthesizesSingleFrameWhenNoneRecorded(t *testing.T) {
	a := assert.New(t)
	p := profiler.New(2, false, true)
	p.SetRecording(true)

	rec := p.InsertScopeInfo("work", "pkg.work", "work.go", 1, profiler.NoTag)
	p.Enter(rec)
	p.Exit(rec)

	snap := Take(p)
	a.True(snap.FrameDataMissing)
	a.True(snap.AnyRecords)
	a.Len(snap.Frames, 1)
	a.EqualValues(0, snap.Frames[0].Number)
}

func TestTake_SynthesizesDegenerateFrameWhenNothingRecorded(t *testing.T) {
	a := assert.New(t)
	p := profiler.New(2, false, true)

	snap := Take(p)
	a.True(snap.FrameDataMissing)
	a.False(snap.AnyRecords)
	a.Len(snap.Frames, 1)
}

func TestTake_KeepsRealFramesWhenPresent(t *testing.T) {
	a := assert.New(t)
	p := profiler.New(2, false, true)
	p.SetRecording(true)
	p.NextFrame()
	p.NextFrame()

	snap := Take(p)
	a.False(snap.FrameDataMissing)
	a.Len(snap.Frames, 2)

	last := snap.Frames[len(snap.Frames)-1]
	a.Greater(last.Interval.End, last.Interval.Start, "the still-open final frame must be closed by Take")
}

func TestTake_ClosesFinalOpenFrame(t *testing.T) {
	a := assert.New(t)
	p := profiler.New(2, false, true)
	p.SetRecording(true)
	p.NextFrame()
	p.SetRecording(false)

	snap := Take(p)
	a.False(snap.FrameDataMissing)
	a.Len(snap.Frames, 1)
	a.EqualValues(0, snap.Frames[0].Number)
	a.Greater(snap.Frames[0].Interval.End, snap.Frames[0].Interval.Start)
}

func TestTake_SortsEventsByStartTime(t *testing.T) {
	a := assert.New(t)
	p := profiler.New(1, false, true)
	p.SetRecording(true)

	a1 := p.InsertScopeInfo("first", "pkg.first", "f.go", 1, profiler.NoTag)
	a2 := p.InsertScopeInfo("second", "pkg.second", "f.go", 2, profiler.NoTag)

	p.Enter(a1)
	p.Exit(a1)
	p.Enter(a2)
	p.Exit(a2)

	snap := Take(p)
	events := snap.Events[0]
	a.Len(events, 2)
	for i := 1; i < len(events); i++ {
		a.LessOrEqual(events[i-1].Interval.Start, events[i].Interval.Start)
	}
}

func TestResultSnapshot_FrameAt(t *testing.T) {
	a := assert.New(t)
	s := &ResultSnapshot{
		Frames: []profiler.Frame{
			{Number: 0, Interval: profiler.TimedInterval{Start: 0, End: 100}},
			{Number: 1, Interval: profiler.TimedInterval{Start: 100, End: 200}},
		},
	}

	n, ok := s.FrameAt(50)
	a.True(ok)
	a.EqualValues(0, n)

	n, ok = s.FrameAt(150)
	a.True(ok)
	a.EqualValues(1, n)

	_, ok = s.FrameAt(-1)
	a.False(ok)
}
