package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-horizon/engine/profiler"
	"github.com/Carmen-Shannon/oxy-horizon/engine/window"
)

// ErrNoScene is returned by Run when the engine was built without a scene.
var ErrNoScene = errors.New("engine has no scene")

// Scene is the part of the scene context the loop drives.
type Scene interface {
	// HandleResize applies a new framebuffer size before the next frame.
	HandleResize(width, height int)
	// ApplyAssets uploads finished asset loads and reports how many were applied.
	ApplyAssets() int
	// Frame renders one frame at elapsed seconds since the loop started.
	Frame(elapsed float64) error
}

// engine implements the Engine interface.
// The loop runs on the window thread, driven by the window's per-iteration update callback.
type engine struct {
	window window.Window
	scene  Scene
	clock  Clock
	logger *slog.Logger

	profiler         *profiler.Profiler
	profilingEnabled bool

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped

	running  bool
	frames   uint64
	quitOnce sync.Once
	lastErr  error
}

// Engine is the frame loop. It has a single running state: every window message loop
// iteration is one tick, and it runs until the window closes.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Profiler returns the profiler ticked once per frame.
	Profiler() *profiler.Profiler

	// EnableProfiler enables per-frame profiler ticks.
	EnableProfiler()

	// DisableProfiler disables per-frame profiler ticks.
	DisableProfiler()

	// SetRenderFrameLimit sets an optional frame rate cap in frames per second.
	// Pass 0 to uncap the loop (default).
	//
	// Parameters:
	//   - fps: maximum frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// Run wires the resize and update callbacks, starts the clock and blocks in the window
	// message loop until the window closes.
	//
	// Returns:
	//   - error: ErrNoScene without a scene or window, or the error that ended the loop early
	Run() error

	// Tick runs one loop iteration: apply finished assets, render the frame at the clock's
	// elapsed time and tick the profiler. A panic inside the frame is recovered, logged and
	// stops the loop.
	//
	// Returns:
	//   - bool: false once the loop has stopped
	Tick() bool

	// Frames returns the number of completed ticks.
	Frames() uint64

	// Quit stops the loop and closes the window. Safe to call multiple times.
	Quit()
}

// NewEngine creates a new Engine instance with the provided options.
//
// Parameters:
//   - options: functional options for engine configuration (window, scene, clock, profiling)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		logger:  slog.Default(),
		running: true,
	}
	for _, opt := range options {
		opt(e)
	}
	if e.clock == nil {
		e.clock = NewWallClock()
	}
	if e.profiler == nil {
		e.profiler = profiler.NewProfiler(profiler.WithLogger(e.logger))
	}
	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Profiler() *profiler.Profiler {
	return e.profiler
}

func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

func (e *engine) SetRenderFrameLimit(fps float64) {
	e.renderFrameLimit = frameBudget(fps)
}

func frameBudget(fps float64) time.Duration {
	if fps <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / fps)
}

func (e *engine) Run() error {
	if e.scene == nil || e.window == nil {
		return ErrNoScene
	}

	e.window.SetResizeCallback(e.scene.HandleResize)
	e.window.SetUpdateCallback(func() {
		if !e.Tick() {
			e.Quit()
		}
	})

	e.logger.Info("frame loop started", "width", e.window.Width(), "height", e.window.Height())
	if s, ok := e.clock.(interface{ Start() }); ok {
		s.Start()
	}
	e.window.ProcessMessages()
	e.running = false
	e.logger.Info("frame loop stopped", "frames", e.frames)
	return e.lastErr
}

func (e *engine) Tick() (ok bool) {
	if !e.running {
		return false
	}

	frameStart := time.Now()
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("frame loop recovered from panic", "panic", r, "frame", e.frames)
			e.lastErr = fmt.Errorf("frame %d panicked: %v", e.frames, r)
			e.running = false
			ok = false
		}
	}()

	if e.scene != nil {
		if n := e.scene.ApplyAssets(); n > 0 {
			e.logger.Debug("assets applied", "count", n)
		}
		// Frame logs its own failures; a dropped frame does not stop the loop.
		_ = e.scene.Frame(e.clock.Elapsed().Seconds())
	}
	e.frames++

	if e.profilingEnabled && e.profiler != nil {
		e.profiler.Tick()
	}

	if e.renderFrameLimit > 0 {
		if remaining := e.renderFrameLimit - time.Since(frameStart); remaining > 0 {
			time.Sleep(remaining)
		}
	}
	return true
}

func (e *engine) Frames() uint64 {
	return e.frames
}

func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		e.running = false
		if e.window != nil {
			if err := e.window.Close(); err != nil {
				e.logger.Warn("closing window failed", "error", err)
			}
		}
	})
}
