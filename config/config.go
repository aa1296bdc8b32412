// Package config collects the build-time knobs described in spec §6.
//
// The C++ original expresses these as compile-time template parameters and
// preprocessor defines (ThreadProfilerSettings.hpp). Go has no equivalent
// compile-time customization point that keeps a single binary, so the same
// knobs are exposed as package-level vars: a long-lived process sets them
// once, before the first call into profiler.Default(), and never changes
// them again. Tests override them directly since there's only one process.
package config

import "time"

// MaxThreads bounds the number of distinct threads (goroutines, in this
// port) the profiler can name and record from. Exceeding it surfaces
// profiler.ErrTooManyThreads.
var MaxThreads = 16

// HashFunction maps a scope identifier ("file:line") to the 32-bit
// ScopeKey. It defaults to FNV-1a truncated to 32 bits, the same width the
// original uses for its std::hash-derived keys.
var HashFunction = func(identifier string) uint32 {
	const (
		offset32 = 2166136261
		prime32  = 16777619
	)
	h := uint32(offset32)
	for i := 0; i < len(identifier); i++ {
		h ^= uint32(identifier[i])
		h *= prime32
	}
	return h
}

// TextDuration is the unit durations are divided by before being printed
// in the text render (§4.9). Default matches the original's default of
// milliseconds.
var TextDuration = time.Millisecond

// TextDurationName is the unit suffix used next to TextDuration values in
// the text render.
var TextDurationName = "ms"

// WithCookie controls whether events carry a monotonically increasing
// per-thread cookie (§3, §4.9 wire format).
var WithCookie = false

// EnableProfiling gates scope recording. When false, Profiler.Enter and
// Profiler.Exit return immediately, so Scope/ProfileScope record no events,
// and Profiler.Status reports Disabled. Unlike the C++ original this isn't a
// compile-time #ifdef — there is no separate "profiling disabled" build in
// this port, so it is checked at run time. Scope interning, thread naming,
// SetRecording, NextFrame and snapshot encoding do not check it and keep
// working when it is false.
var EnableProfiling = true

// PoolProfileInstrumentation, when true, makes pool.WorkerPool wrap its own
// task-dispatch bookkeeping in profiler scopes (spec §6).
var PoolProfileInstrumentation = false

// WithDrawModel enables construction of the IntervalTree/analytics layer.
// Disabling it lets a caller extract and persist snapshots without paying
// for interval-tree indexing it will never query.
var WithDrawModel = true
