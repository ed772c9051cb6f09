package profiler

import (
	"log/slog"
	"time"
)

// ProfilerBuilderOption is a functional option used to configure a Profiler during construction.
type ProfilerBuilderOption func(*Profiler)

// WithInterval sets how often a sample is taken. Non-positive values are ignored.
//
// Parameters:
//   - interval: time between samples
//
// Returns:
//   - ProfilerBuilderOption: a function that sets the sample interval
func WithInterval(interval time.Duration) ProfilerBuilderOption {
	return func(p *Profiler) {
		if interval > 0 {
			p.updateInterval = interval
		}
	}
}

// WithLogger sets the logger samples are written to.
func WithLogger(logger *slog.Logger) ProfilerBuilderOption {
	return func(p *Profiler) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) ProfilerBuilderOption {
	return func(p *Profiler) {
		if now != nil {
			p.now = now
		}
	}
}

// WithStatsCallback registers a function called with every sample.
//
// Parameters:
//   - fn: the callback, e.g. one updating the window title
//
// Returns:
//   - ProfilerBuilderOption: a function that sets the callback
func WithStatsCallback(fn func(Stats)) ProfilerBuilderOption {
	return func(p *Profiler) {
		p.onStats = fn
	}
}
