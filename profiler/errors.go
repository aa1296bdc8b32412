package profiler

import "errors"

var (
	// ErrTooManyThreads is returned once more distinct goroutines have
	// observed the profiler than config.MaxThreads allows.
	ErrTooManyThreads = errors.New("profiler: too many observing threads")
	// ErrFormatError is returned by snapshot decoding when the magic bytes
	// or version byte don't match.
	ErrFormatError = errors.New("profiler: snapshot magic/version mismatch")
)
