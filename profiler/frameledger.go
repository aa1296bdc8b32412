package profiler

// FrameLedger is an ordered, append-only sequence of Frames, advanced on an
// explicit marker call. Ported from IYFThreading's frames deque plus the
// frameNumber counter and frameSpinLock in ThreadProfiler.
type FrameLedger struct {
	lock   Spinlock
	frames []Frame
	next   uint64
}

// NewFrameLedger creates an empty ledger. Frame numbering starts at 0.
func NewFrameLedger() *FrameLedger {
	return &FrameLedger{}
}

// Advance closes the currently open frame (stamping its end to now, if it
// isn't already closed) and, when recording is true, opens a new frame
// numbered one past the last one issued.
func (f *FrameLedger) Advance(recording bool) {
	f.lock.Lock()
	defer f.lock.Unlock()

	t := now()
	if n := len(f.frames); n > 0 {
		last := &f.frames[n-1]
		if !last.Interval.Complete() {
			last.Interval.End = t
		}
	}
	if recording {
		f.frames = append(f.frames, Frame{
			Number:   f.next,
			Interval: TimedInterval{Start: t, End: t},
		})
		f.next++
	}
}

// Take swaps out the ledger's frames, leaving an empty one behind, and
// returns the next frame number that would have been issued. Profiler.Extract
// keeps the frames and discards the number; the final open frame is closed
// later, by snapshot.Take.
func (f *FrameLedger) Take() ([]Frame, uint64) {
	f.lock.Lock()
	defer f.lock.Unlock()
	frames := f.frames
	f.frames = nil
	return frames, f.next
}
