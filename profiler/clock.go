package profiler

import "time"

// epoch anchors the profiler's nanosecond clock. time.Since retains the
// monotonic reading embedded in a time.Time value taken at startup, so
// repeated calls to now() are cheap and immune to wall-clock adjustments -
// the same guarantee ThreadProfilerCore.hpp gets from
// std::chrono::steady_clock.
var epoch = time.Now()

// now returns nanoseconds elapsed since the profiler's epoch. It is the
// package's only ClockSource implementation; callers never see time.Time.
func now() int64 {
	return int64(time.Since(epoch))
}

// Now exposes the profiler's monotonic clock to other packages in this
// module (snapshot's take_results post-conditions need to stamp the final
// open frame's end without inventing a second clock).
func Now() int64 {
	return now()
}
