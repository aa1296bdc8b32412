// Package snapshot implements ResultSnapshot: the immutable, owning bundle
// a Profiler extraction produces, along with its binary and text I/O (spec
// §3, §4.9). Take uses golang.org/x/sync/errgroup to sort each thread's
// events in parallel; drawmodel.Build does the same for its per-thread
// interval trees.
package snapshot

import (
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/manvis/scopeprof/profiler"
)

// ResultSnapshot is an immutable, owning bundle of everything a Profiler
// extraction produced: frames, the scope table, the tag table, per-thread
// events and thread names, plus the flags spec §3 defines.
type ResultSnapshot struct {
	Frames      []profiler.Frame
	Scopes      map[profiler.ScopeKey]*profiler.ScopeRecord
	Tags        map[profiler.Tag]profiler.TagValue
	Events      [][]profiler.Event
	ThreadNames []string

	FrameDataMissing bool
	AnyRecords       bool
	WithCookie       bool
}

// Take extracts a ResultSnapshot from p, applying the frame-synthesis
// fallback and per-thread sort spec §4.6 and §3/I5 require. This is the
// Go-side "take_results" operation; p.Extract does the raw, lock-scoped
// draining and this function applies the post-conditions on top.
func Take(p *profiler.Profiler) *ResultSnapshot {
	ex := p.Extract()

	snap := &ResultSnapshot{
		Frames:      ex.Frames,
		Scopes:      ex.Scopes,
		Tags:        ex.Tags,
		Events:      ex.Events,
		ThreadNames: ex.ThreadNames,
	}

	sortEvents(snap.Events)

	hasAnyRecords := false
	for _, t := range snap.Events {
		if len(t) > 0 {
			hasAnyRecords = true
			break
		}
	}
	snap.AnyRecords = hasAnyRecords

	switch {
	case len(snap.Frames) == 0 && !hasAnyRecords:
		snap.Frames = []profiler.Frame{{
			Number:   0,
			Interval: profiler.TimedInterval{Start: 0, End: 1},
		}}
		snap.FrameDataMissing = true

	case len(snap.Frames) == 0:
		var first, last int64
		firstSet := false
		for _, t := range snap.Events {
			if len(t) == 0 {
				continue
			}
			if s := t[0].Interval.Start; !firstSet || s < first {
				first = s
				firstSet = true
			}
			if s := t[len(t)-1].Interval.Start; s > last {
				last = s
			}
		}
		snap.Frames = []profiler.Frame{{
			Number:   0,
			Interval: profiler.TimedInterval{Start: first, End: last},
		}}
		snap.FrameDataMissing = true

	default:
		// Real frame data is present, but next_frame() only ever stamps a
		// frame's Start when it opens it (frameledger.go) - the final frame
		// is still open, with Start == End, until something closes it.
		// take_results is that something: close it to now() so the last
		// frame's interval is valid (spec §4.6, §8 Scenario 1).
		last := &snap.Frames[len(snap.Frames)-1]
		if !last.Interval.Complete() {
			last.Interval.End = profiler.Now()
		}
		snap.FrameDataMissing = false
	}

	return snap
}

// sortEvents sorts each thread's event slice by start time ascending
// (invariant I5), one goroutine per thread since threads never share
// slices.
func sortEvents(perThread [][]profiler.Event) {
	var g errgroup.Group
	for i := range perThread {
		events := perThread[i]
		g.Go(func() error {
			sort.Slice(events, func(a, b int) bool {
				return events[a].Interval.Start < events[b].Interval.Start
			})
			return nil
		})
	}
	_ = g.Wait()
}

// FrameAt returns the number of the last frame whose start is <= atNanos,
// or false if atNanos precedes every frame. Ported from the original's
// ComputeFrameNumber, which does the same lower_bound search over the
// frame deque to answer "what frame was this timestamp in". drawmodel uses
// it to attribute each event's min/max duration to a frame.
func (s *ResultSnapshot) FrameAt(atNanos int64) (uint64, bool) {
	i := sort.Search(len(s.Frames), func(i int) bool {
		return s.Frames[i].Interval.Start > atNanos
	})
	if i == 0 {
		return 0, false
	}
	return s.Frames[i-1].Number, true
}
