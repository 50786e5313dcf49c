package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-sandbox/common"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/cache"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/camera"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/input"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/profiler"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/renderer"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/scene"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/surface"
)

// InitialDeltaTime is the delta time used for the first tick, before any frame has been timed.
const InitialDeltaTime float32 = 0.0069

// EventPump dispatches pending window events. window.Window satisfies it.
type EventPump interface {
	// PollEvents dispatches pending events and reports whether the loop should continue.
	PollEvents() bool
}

// ResourceSyncer uploads dirty scene state and records draws. renderer.ResourceSet satisfies it.
type ResourceSyncer interface {
	Sync(scn scene.Scene) error
	Draw(pass renderer.RenderPass)
}

// FrameLoop acquires and presents frames. surface.Manager satisfies it.
type FrameLoop interface {
	Resize(width, height int, cam *cache.Cache[camera.Camera]) error
	BeginFrame() (surface.Frame, error)
	EndFrame() error
}

// engine implements the Engine interface.
type engine struct {
	mu *sync.Mutex

	events    EventPump
	input     *input.State
	scene     scene.Scene
	resources ResourceSyncer
	frames    FrameLoop

	profiler         *profiler.Profiler
	profilingEnabled bool

	deltaTime float32
	now       func() time.Time
	quit      bool

	// resizeErr holds a resize failure raised from an event callback until the loop sees it.
	resizeErr error
}

// Engine runs the single-threaded frame loop: events, scene update, GPU sync, then the frame.
type Engine interface {
	// Tick runs one frame: Scene.Update with the buffered input, ResourceSet.Sync,
	// BeginFrame, Draw into the frame's pass, and EndFrame. A dropped frame skips drawing.
	//
	// Parameters:
	//   - deltaTime: seconds since the previous tick
	//
	// Returns:
	//   - error: a sync failure or a fatal surface error
	Tick(deltaTime float32) error

	// Run pumps events and ticks until the event pump stops, Quit is called, or a tick fails.
	// Each tick is timed and the measured duration is the next tick's delta time.
	//
	// Returns:
	//   - error: the failure that stopped the loop, nil on a normal close
	Run() error

	// Resize reconfigures the surface and updates the camera aspect.
	//
	// Parameters:
	//   - width: framebuffer width in pixels
	//   - height: framebuffer height in pixels
	//
	// Returns:
	//   - error: a configuration failure
	Resize(width, height int) error

	// Quit stops Run after the current tick. Safe to call multiple times.
	Quit()

	// DeltaTime returns the delta time the next Run tick will use.
	//
	// Returns:
	//   - float32: seconds
	DeltaTime() float32

	// Input returns the input state fed by the window.
	//
	// Returns:
	//   - *input.State: the input state
	Input() *input.State

	// Scene returns the scene being rendered.
	//
	// Returns:
	//   - scene.Scene: the scene
	Scene() scene.Scene
}

var _ Engine = &engine{}

// NewEngine creates an Engine over a scene, its GPU resources, and a frame loop.
//
// Parameters:
//   - scn: the scene to update and draw
//   - resources: the GPU resources built for scn
//   - frames: the surface frame loop
//   - options: functional options (window, event pump, profiling, clock)
//
// Returns:
//   - Engine: the engine
//   - error: when a required collaborator is nil
func NewEngine(scn scene.Scene, resources ResourceSyncer, frames FrameLoop, options ...EngineBuilderOption) (Engine, error) {
	if scn == nil || resources == nil || frames == nil {
		return nil, fmt.Errorf("engine: scene, resources and frames are required")
	}
	e := &engine{
		mu:        &sync.Mutex{},
		input:     input.NewState(),
		scene:     scn,
		resources: resources,
		frames:    frames,
		deltaTime: InitialDeltaTime,
		now:       time.Now,
	}
	for _, opt := range options {
		opt(e)
	}
	if e.profiler == nil {
		e.profiler = profiler.NewProfiler()
	}
	return e, nil
}

func (e *engine) Tick(deltaTime float32) error {
	e.scene.Update(e.input, e.input, deltaTime)

	if err := e.resources.Sync(e.scene); err != nil {
		return fmt.Errorf("sync: %w", err)
	}

	frame, err := e.frames.BeginFrame()
	if err != nil {
		return err
	}
	if frame == nil {
		common.Logger().Debug("frame skipped")
		return nil
	}
	e.resources.Draw(frame.RenderPass())
	return e.frames.EndFrame()
}

func (e *engine) Run() error {
	for {
		e.mu.Lock()
		quit, resizeErr := e.quit, e.resizeErr
		e.mu.Unlock()
		if quit {
			return nil
		}
		if resizeErr != nil {
			common.Logger().Error("resize failed", "err", resizeErr)
			return resizeErr
		}
		if e.events != nil && !e.events.PollEvents() {
			common.Logger().Info("event loop closed")
			return nil
		}

		start := e.now()
		if err := e.Tick(e.DeltaTime()); err != nil {
			common.Logger().Error("frame loop stopped", "err", err)
			return err
		}
		e.mu.Lock()
		e.deltaTime = float32(e.now().Sub(start).Seconds())
		e.mu.Unlock()

		if e.profilingEnabled {
			e.profiler.Tick()
		}
	}
}

func (e *engine) Resize(width, height int) error {
	return e.frames.Resize(width, height, e.scene.Camera())
}

// onResize is the window callback; failures surface on the next Run iteration.
func (e *engine) onResize(width, height int) {
	if err := e.Resize(width, height); err != nil {
		e.mu.Lock()
		e.resizeErr = err
		e.mu.Unlock()
	}
}

func (e *engine) Quit() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.quit = true
}

func (e *engine) DeltaTime() float32 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.deltaTime
}

func (e *engine) Input() *input.State {
	return e.input
}

func (e *engine) Scene() scene.Scene {
	return e.scene
}
