// Package svgrender draws a DrawModel as a flame-graph-style SVG: one row
// per thread, one rectangle per recorded event, positioned by start time
// and nesting depth and colored by the event's tag.
//
// Ported from the retrieval pack's tracer/render.SVGRender, which lays out
// goroutines/function calls the same way (one row per goroutine, y offset
// by call-stack depth, rectangle width from a start/end pair) using the
// same ajstarks/svgo canvas.
package svgrender

import (
	"fmt"
	"io"

	"github.com/ajstarks/svgo"

	"github.com/manvis/scopeprof/profiler"
	"github.com/manvis/scopeprof/profiler/drawmodel"
	"github.com/manvis/scopeprof/profiler/snapshot"
)

// RowHeight is the pixel height of one nesting-depth row.
const RowHeight = 16

// TimeScale converts a nanosecond duration into pixels. The default packs
// one pixel per microsecond, which keeps a several-second capture within a
// browser-friendly canvas width.
var TimeScale = func(nanos int64) int {
	return int(nanos / 1000)
}

var defaultFill = "#4a90d9"

// Render draws every thread in dm as a horizontal band of rectangles onto
// w. Threads are stacked top to bottom in registration order; within a
// thread, rows are stacked by nesting depth. It returns drawmodel.Failed
// without writing anything if dm's snapshot did not validate.
func Render(dm *drawmodel.DrawModel, w io.Writer) drawmodel.Result {
	if dm.Err() != nil {
		return drawmodel.Failed
	}
	snap := dm.Snapshot()

	width, height := canvasSize(dm, snap)
	canv := svg.New(w)
	canv.Start(width, height)
	defer canv.End()

	y := 0
	for threadIdx, events := range snap.Events {
		maxDepth, res := dm.MaxDepth(threadIdx)
		if res != drawmodel.Drawn {
			continue
		}

		name := "?"
		if threadIdx < len(snap.ThreadNames) {
			name = snap.ThreadNames[threadIdx]
		}
		canv.Text(4, y+12, name, `font-size="10"`)
		y += RowHeight

		for _, ev := range events {
			drawEvent(canv, snap, ev, y)
		}
		y += (int(maxDepth) + 1) * RowHeight
	}

	return drawmodel.Drawn
}

func drawEvent(canv *svg.SVG, snap *snapshot.ResultSnapshot, ev profiler.Event, bandTop int) {
	fill := defaultFill
	if rec, ok := snap.Scopes[ev.Key]; ok {
		if tv, ok := snap.Tags[rec.Tag]; ok && tv.Color != (profiler.Color{}) {
			fill = fmt.Sprintf("#%02x%02x%02x", tv.Color.R, tv.Color.G, tv.Color.B)
		}
	}

	x := TimeScale(ev.Interval.Start)
	width := TimeScale(ev.Interval.Duration())
	if width < 1 {
		width = 1
	}
	rowY := bandTop + int(ev.Depth)*RowHeight
	canv.Rect(x, rowY, width, RowHeight-1, fmt.Sprintf(`fill="%s"`, fill))
}

func canvasSize(dm *drawmodel.DrawModel, snap *snapshot.ResultSnapshot) (int, int) {
	var maxEnd int64
	height := 0
	for threadIdx, events := range snap.Events {
		for _, ev := range events {
			if ev.Interval.End > maxEnd {
				maxEnd = ev.Interval.End
			}
		}
		maxDepth, res := dm.MaxDepth(threadIdx)
		if res != drawmodel.Drawn {
			maxDepth = 0
		}
		height += RowHeight * (int(maxDepth) + 2)
	}
	width := TimeScale(maxEnd) + 16
	if width < 64 {
		width = 64
	}
	return width, height
}
