package engine

import (
	"log"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-rig/engine/profiler"
	"github.com/Carmen-Shannon/oxy-rig/engine/window"
)

// engine implements the Engine interface.
// Ticks and frames run on the goroutine that calls Run or Step.
type engine struct {
	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	window window.Window

	profiler         *profiler.Profiler
	profilingEnabled bool

	engineTickRate time.Duration
	maxCatchUp     int
	accumulator    time.Duration
	tickCallback   func(deltaTime float32)
	renderCallback func(deltaTime float32)

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped
}

// Engine drives the camera rig: a fixed-rate tick for simulation and a variable-rate
// frame for writing results out, both on a single goroutine.
type Engine interface {
	// Window returns the window polled each frame, or nil when running headless.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetTickRate sets the engine tick rate in ticks per second.
	// The tick callback will be called at this rate with a constant delta time.
	//
	// Parameters:
	//   - fps: target ticks per second (defaults to 60 if <= 0)
	SetTickRate(fps float64)

	// TickRate returns the duration of one fixed step.
	//
	// Returns:
	//   - time.Duration: the fixed step
	TickRate() time.Duration

	// SetTickCallback registers the function called each fixed step.
	// Use this for input processing and rig updates.
	//
	// Parameters:
	//   - callback: function receiving the fixed delta time in seconds
	SetTickCallback(callback func(deltaTime float32))

	// SetRenderCallback registers the function called once per frame after the ticks
	// that frame owed have run. Use this to write the rig pose to a camera.
	//
	// Parameters:
	//   - callback: function receiving the frame delta time in seconds
	SetRenderCallback(callback func(deltaTime float32))

	// SetRenderFrameLimit sets an optional frame rate cap in frames per second.
	// Pass 0 to uncap the loop (default).
	//
	// Parameters:
	//   - fps: maximum frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// Step advances the engine by one frame of the given length: the elapsed time is
	// added to the accumulator, whole fixed steps are ticked (at most the catch-up limit,
	// dropping the remainder beyond it), then the render callback runs.
	//
	// Parameters:
	//   - elapsed: wall time since the previous frame
	//
	// Returns:
	//   - int: the number of ticks run
	Step(elapsed time.Duration) int

	// Run loops frames until Quit is called or the window closes. Blocks.
	Run()

	// Quit stops Run after the current frame.
	// Safe to call multiple times and from any goroutine; subsequent calls are no-ops.
	Quit()
}

// NewEngine creates a new Engine instance with the provided options.
//
// Parameters:
//   - options: functional options for engine configuration (profiling, tick rate, etc.)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		quitChannel:      make(chan struct{}),
		profiler:         profiler.NewProfiler(),
		profilingEnabled: false,
		engineTickRate:   time.Second / 60,
		maxCatchUp:       5,
	}

	for _, opt := range options {
		opt(e)
	}

	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Run() {
	last := time.Now()
	for !e.quitting() {
		frameStart := time.Now()
		if e.window != nil && !e.window.PollEvents() {
			e.signalQuit()
			break
		}

		e.Step(frameStart.Sub(last))
		last = frameStart

		wait := e.renderFrameLimit
		if wait == 0 && e.window == nil {
			// headless: sleep until the next tick is due
			wait = e.engineTickRate - e.accumulator
		}
		if remaining := wait - time.Since(frameStart); remaining > 0 {
			time.Sleep(remaining)
		}
	}
}

func (e *engine) Step(elapsed time.Duration) int {
	if elapsed < 0 {
		elapsed = 0
	}
	e.accumulator += elapsed

	dt := float32(e.engineTickRate.Seconds())
	ticks := 0
	for e.accumulator >= e.engineTickRate {
		if ticks == e.maxCatchUp {
			log.Printf("[engine] dropping %v of simulation time after %d catch-up ticks", e.accumulator, ticks)
			e.accumulator = 0
			break
		}
		if e.tickCallback != nil {
			e.tickCallback(dt)
		}
		if e.profilingEnabled {
			e.profiler.Tick()
		}
		e.accumulator -= e.engineTickRate
		ticks++
	}

	if e.renderCallback != nil {
		e.renderCallback(float32(elapsed.Seconds()))
	}
	if e.profilingEnabled {
		e.profiler.Frame()
	}
	return ticks
}

// Quit signals Run to stop.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.signalQuit()
}

// signalQuit closes the quit channel.
// Uses sync.Once to ensure the channel is only closed once.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
	})
}

func (e *engine) quitting() bool {
	select {
	case <-e.quitChannel:
		return true
	default:
		return false
	}
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

// SetTickRate sets the engine tick rate in ticks per second.
// Time already accumulated carries over to the new rate.
func (e *engine) SetTickRate(fps float64) {
	e.engineTickRate = tickDuration(fps)
}

func (e *engine) TickRate() time.Duration {
	return e.engineTickRate
}

// SetTickCallback registers the function called each fixed step.
func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.tickCallback = callback
}

// SetRenderCallback registers the function called each frame.
func (e *engine) SetRenderCallback(callback func(deltaTime float32)) {
	e.renderCallback = callback
}

// SetRenderFrameLimit sets an optional frame rate cap.
// Pass 0 to uncap the loop.
func (e *engine) SetRenderFrameLimit(fps float64) {
	if fps <= 0 {
		e.renderFrameLimit = 0
		return
	}
	e.renderFrameLimit = time.Duration(float64(time.Second) / fps)
}

func tickDuration(fps float64) time.Duration {
	if fps <= 0 {
		fps = 60
	}
	return time.Duration(float64(time.Second) / fps)
}
