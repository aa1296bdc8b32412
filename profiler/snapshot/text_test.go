package snapshot

import (
	"strings"
	"testing"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/stretchr/testify/assert"

	"github.com/manvis/scopeprof/config"
	"github.com/manvis/scopeprof/profiler"
)

func TestRender_MatchesExpectedLayout(t *testing.T) {
	a := assert.New(t)
	prevUnit, prevName := config.TextDuration, config.TextDurationName
	defer func() { config.TextDuration, config.TextDurationName = prevUnit, prevName }()

	s := sampleSnapshot(false)
	s.Frames = []profiler.Frame{
		{Number: 0, Interval: profiler.TimedInterval{Start: 0, End: 100}},
	}

	got := s.Render()

	want := "Thread main: 1 events\n" +
		"FRAME 0; Duration 0ms\n" +
		"    doWork: 0ms\n"

	if got != want {
		diff, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
			A:        difflib.SplitLines(want),
			B:        difflib.SplitLines(got),
			FromFile: "want",
			ToFile:   "got",
			Context:  3,
		})
		t.Fatalf("Render output mismatch:\n%s", diff)
	}
	a.True(strings.HasPrefix(got, "Thread main:"))
}

func TestRender_IndentsByDepth(t *testing.T) {
	s := &ResultSnapshot{
		ThreadNames: []string{"t0"},
		Frames: []profiler.Frame{
			{Number: 0, Interval: profiler.TimedInterval{Start: 0, End: 1000}},
		},
		Scopes: map[profiler.ScopeKey]*profiler.ScopeRecord{
			1: {Key: 1, Name: "outer"},
			2: {Key: 2, Name: "inner"},
		},
		Events: [][]profiler.Event{
			{
				{Key: 1, Depth: 0, Interval: profiler.TimedInterval{Start: 0, End: 500}},
				{Key: 2, Depth: 1, Interval: profiler.TimedInterval{Start: 100, End: 200}},
			},
		},
	}

	got := s.Render()
	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	assert.True(t, strings.HasPrefix(lines[2], "    outer"))
	assert.True(t, strings.HasPrefix(lines[3], "      inner"))
}
