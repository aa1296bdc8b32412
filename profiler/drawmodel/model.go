// Package drawmodel builds the read-only analytic projection over a
// ResultSnapshot that an interactive viewer indexes for windowed queries
// and summary tables (spec §4.8). It never draws anything itself - "the
// draw surface itself is out of scope" per spec §4.8 and the GUI-rendering
// Non-goal in §1; svgrender is one concrete surface built on top of it.
package drawmodel

import (
	"fmt"

	mapset "github.com/deckarep/golang-set"
	"golang.org/x/sync/errgroup"

	"github.com/manvis/scopeprof/profiler"
	"github.com/manvis/scopeprof/profiler/interval"
	"github.com/manvis/scopeprof/profiler/snapshot"
)

// Result is the three-way outcome of a Draw call (spec §4.8).
type Result int

const (
	Drawn Result = iota
	Failed
	Unavailable
)

func (r Result) String() string {
	switch r {
	case Drawn:
		return "Drawn"
	case Failed:
		return "Failed"
	default:
		return "Unavailable"
	}
}

// ScopeStats is the per-scope aggregate spec §4.8 asks for: total calls,
// mean/min/max duration, and which frame carried the min and the max.
type ScopeStats struct {
	Key            profiler.ScopeKey
	Calls          int
	TotalNanos     int64
	MinNanos       int64
	MaxNanos       int64
	MinFrame       uint64
	MaxFrame       uint64
}

// MeanNanos returns the scope's mean call duration.
func (s *ScopeStats) MeanNanos() int64 {
	if s.Calls == 0 {
		return 0
	}
	return s.TotalNanos / int64(s.Calls)
}

// HoverText formats a one-line summary of a scope's stats, the way a draw
// surface would show it on mouseover. Ported from the original's
// FullEventData::print, which the C++ ImGui frontend used for the same
// purpose; GUI drawing itself is out of scope, but the text it would have
// shown is cheap to keep.
func (s *ScopeStats) HoverText(name string) string {
	return fmt.Sprintf("%s: calls=%d mean=%dns min=%dns(frame %d) max=%dns(frame %d)",
		name, s.Calls, s.MeanNanos(), s.MinNanos, s.MinFrame, s.MaxNanos, s.MaxFrame)
}

// eventInterval adapts profiler.Event to interval.Interval.
type eventInterval struct {
	profiler.Event
}

func (e eventInterval) IntervalStart() int64 { return e.Interval.Start }
func (e eventInterval) IntervalEnd() int64   { return e.Interval.End }

// DrawModel is built once from a ResultSnapshot (spec §4.8). A DrawModel
// that failed validation keeps its snapshot around for diagnostics but has
// no derived data; every Draw-family call on it reports Failed.
type DrawModel struct {
	snap *snapshot.ResultSnapshot
	err  error

	maxDepth     []int32
	trees        []*interval.Tree[eventInterval]
	stats        map[profiler.ScopeKey]*ScopeStats
	sortedScopes []*ScopeStats
}

// Build validates snap and, if valid, derives per-thread interval trees,
// nesting-depth maxima, and per-scope aggregate stats. It never returns an
// error - a validation failure is recorded internally (spec §7,
// ValidationFailure) and surfaces only when a caller tries to Draw.
func Build(snap *snapshot.ResultSnapshot) *DrawModel {
	dm := &DrawModel{snap: snap}
	if err := dm.validate(); err != nil {
		dm.err = err
		return dm
	}
	dm.compute()
	return dm
}

func (dm *DrawModel) validate() error {
	if dm.snap.Events == nil {
		return fmt.Errorf("drawmodel: snapshot has no event data")
	}

	if !dm.snap.FrameDataMissing {
		for i, f := range dm.snap.Frames {
			if f.Number != uint64(i) {
				return fmt.Errorf("drawmodel: frame numbers are not sequential from 0 (frame %d has number %d)", i, f.Number)
			}
		}
	}

	scopeKeys := mapset.NewThreadUnsafeSet()
	for k := range dm.snap.Scopes {
		scopeKeys.Add(k)
	}
	tagIDs := mapset.NewThreadUnsafeSet()
	for id := range dm.snap.Tags {
		tagIDs.Add(id)
	}

	for _, events := range dm.snap.Events {
		for _, ev := range events {
			if !scopeKeys.Contains(ev.Key) {
				return fmt.Errorf("drawmodel: event references unresolvable scope key %d", ev.Key)
			}
		}
	}
	for key, rec := range dm.snap.Scopes {
		if !tagIDs.Contains(rec.Tag) {
			return fmt.Errorf("drawmodel: scope %d references unresolvable tag %d", key, rec.Tag)
		}
	}

	return nil
}

func (dm *DrawModel) compute() {
	n := len(dm.snap.Events)
	dm.maxDepth = make([]int32, n)
	dm.trees = make([]*interval.Tree[eventInterval], n)

	var g errgroup.Group
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			events := dm.snap.Events[i]
			tree := interval.New[eventInterval](len(events))
			var maxDepth int32
			for _, ev := range events {
				tree.Insert(eventInterval{ev})
				if ev.Depth > maxDepth {
					maxDepth = ev.Depth
				}
			}
			tree.UpdateMaximumValues()
			dm.trees[i] = tree
			dm.maxDepth[i] = maxDepth
			return nil
		})
	}
	_ = g.Wait()

	dm.stats = make(map[profiler.ScopeKey]*ScopeStats)
	for threadIdx, events := range dm.snap.Events {
		for _, ev := range events {
			frameNum, _ := dm.snap.FrameAt(ev.Interval.Start)
			_ = threadIdx

			st, ok := dm.stats[ev.Key]
			d := ev.Interval.Duration()
			if !ok {
				dm.stats[ev.Key] = &ScopeStats{
					Key: ev.Key, Calls: 1, TotalNanos: d,
					MinNanos: d, MaxNanos: d,
					MinFrame: frameNum, MaxFrame: frameNum,
				}
				continue
			}
			st.Calls++
			st.TotalNanos += d
			if d < st.MinNanos {
				st.MinNanos = d
				st.MinFrame = frameNum
			}
			if d > st.MaxNanos {
				st.MaxNanos = d
				st.MaxFrame = frameNum
			}
		}
	}

	dm.sortedScopes = make([]*ScopeStats, 0, len(dm.stats))
	for _, st := range dm.stats {
		dm.sortedScopes = append(dm.sortedScopes, st)
	}
	sortByTotalDesc(dm.sortedScopes)
}

func sortByTotalDesc(s []*ScopeStats) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j].TotalNanos > s[j-1].TotalNanos; j-- {
			s[j], s[j-1] = s[j-1], s[j]
		}
	}
}

// Err returns the validation error that made this DrawModel unusable, or
// nil if construction succeeded.
func (dm *DrawModel) Err() error { return dm.err }

// MaxDepth returns the maximum nesting depth observed on a thread.
func (dm *DrawModel) MaxDepth(threadIdx int) (int32, Result) {
	if dm.err != nil {
		return 0, Failed
	}
	if threadIdx < 0 || threadIdx >= len(dm.maxDepth) {
		return 0, Unavailable
	}
	return dm.maxDepth[threadIdx], Drawn
}

// Query returns every event on threadIdx overlapping [startNanos,endNanos],
// via that thread's interval tree.
func (dm *DrawModel) Query(threadIdx int, startNanos, endNanos int64) ([]profiler.Event, Result) {
	if dm.err != nil {
		return nil, Failed
	}
	if threadIdx < 0 || threadIdx >= len(dm.trees) {
		return nil, Unavailable
	}
	found := dm.trees[threadIdx].Query(startNanos, endNanos)
	out := make([]profiler.Event, len(found))
	for i, ev := range found {
		out[i] = ev.Event
	}
	return out, Drawn
}

// ScopeTable returns the sortable per-scope summary table, sorted by total
// duration descending.
func (dm *DrawModel) ScopeTable() ([]*ScopeStats, Result) {
	if dm.err != nil {
		return nil, Failed
	}
	return dm.sortedScopes, Drawn
}

// Snapshot exposes the underlying ResultSnapshot for rendering surfaces
// that need direct access to scope/tag metadata alongside the derived
// stats (svgrender, httpview).
func (dm *DrawModel) Snapshot() *snapshot.ResultSnapshot { return dm.snap }
