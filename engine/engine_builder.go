package engine

import (
	"time"

	"github.com/Carmen-Shannon/oxy-rig/engine/window"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithTickRate sets the engine tick rate in ticks per second.
// Values <= 0 will be treated as the default (60Hz).
//
// Parameters:
//   - fps: target ticks per second (default 60)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithTickRate(fps float64) EngineBuilderOption {
	return func(e *engine) {
		e.engineTickRate = tickDuration(fps)
	}
}

// WithMaxCatchUpSteps caps the ticks run in a single frame after a stall.
// Simulation time beyond the cap is dropped. Values < 1 are treated as 1.
//
// Parameters:
//   - steps: maximum ticks per frame (default 5)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithMaxCatchUpSteps(steps int) EngineBuilderOption {
	return func(e *engine) {
		if steps < 1 {
			steps = 1
		}
		e.maxCatchUp = steps
	}
}

// WithWindow sets the window polled for input each frame. Without one the engine runs headless.
//
// Parameters:
//   - w: a pre-configured Window instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithRenderFrameLimit sets an optional frame rate cap in frames per second.
// Pass 0 to uncap the loop (default).
//
// Parameters:
//   - fps: maximum frames per second (0 = uncapped)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderFrameLimit(fps float64) EngineBuilderOption {
	return func(e *engine) {
		if fps <= 0 {
			e.renderFrameLimit = 0
			return
		}
		e.renderFrameLimit = time.Duration(float64(time.Second) / fps)
	}
}
