package engine

import (
	"time"

	"github.com/Carmen-Shannon/oxy-sandbox/engine/profiler"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/window"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithWindow drives the loop from a window: its events are pumped each tick, its keys and
// mouse motion feed the engine's input state, and framebuffer resizes reconfigure the surface.
// Apply after WithInput when both are used.
//
// Parameters:
//   - w: the window
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.events = w
		window.BindInput(w, e.input)
		w.SetResizeCallback(e.onResize)
	}
}

// WithEventPump sets the event source polled before each tick.
//
// Parameters:
//   - events: the event pump
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithEventPump(events EventPump) EngineBuilderOption {
	return func(e *engine) {
		e.events = events
	}
}

// WithProfiling enables or disables periodic frame statistics.
//
// Parameters:
//   - enabled: if true, frame statistics are logged
//   - interval: reporting interval, the profiler default when not positive
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool, interval time.Duration) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
		e.profiler = profiler.NewProfiler(profiler.WithInterval(interval))
	}
}

// WithClock replaces the time source used to measure frame time.
//
// Parameters:
//   - now: the clock
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithClock(now func() time.Time) EngineBuilderOption {
	return func(e *engine) {
		e.now = now
	}
}
