package svgrender

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/manvis/scopeprof/profiler"
	"github.com/manvis/scopeprof/profiler/drawmodel"
	"github.com/manvis/scopeprof/profiler/snapshot"
)

func sampleModel() *drawmodel.DrawModel {
	snap := &snapshot.ResultSnapshot{
		ThreadNames: []string{"main"},
		Frames: []profiler.Frame{
			{Number: 0, Interval: profiler.TimedInterval{Start: 0, End: 1000000}},
		},
		Scopes: map[profiler.ScopeKey]*profiler.ScopeRecord{
			1: {Key: 1, Tag: 1, Name: "work"},
		},
		Tags: map[profiler.Tag]profiler.TagValue{
			1: {Name: "Render", Color: profiler.Color{R: 255, G: 0, B: 0, A: 255}},
		},
		Events: [][]profiler.Event{
			{{Key: 1, Depth: 0, Interval: profiler.TimedInterval{Start: 0, End: 500000}}},
		},
	}
	return drawmodel.Build(snap)
}

func TestRender_ProducesWellFormedSVG(t *testing.T) {
	a := assert.New(t)
	dm := sampleModel()

	var buf bytes.Buffer
	res := Render(dm, &buf)

	a.Equal(drawmodel.Drawn, res)
	out := buf.String()
	a.True(strings.Contains(out, "<svg"))
	a.True(strings.Contains(out, "</svg>"))
	a.True(strings.Contains(out, "rect"))
	a.True(strings.Contains(out, "#ff0000"))
}

func TestRender_FailsOnInvalidModel(t *testing.T) {
	a := assert.New(t)
	snap := &snapshot.ResultSnapshot{
		Events: [][]profiler.Event{
			{{Key: 999, Interval: profiler.TimedInterval{Start: 0, End: 1}}},
		},
	}
	dm := drawmodel.Build(snap)

	var buf bytes.Buffer
	res := Render(dm, &buf)
	a.Equal(drawmodel.Failed, res)
	a.Empty(buf.String())
}
