package window

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-sandbox/common"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/input"
	"github.com/cogentcore/webgpu/wgpu"
)

// Window provides platform windowing and input event handling.
// Wraps platform-specific window implementations with a common interface.
type Window interface {
	// SetResizeCallback sets the function called when the framebuffer is resized.
	//
	// Parameters:
	//   - callback: function receiving new width and height in pixels
	SetResizeCallback(callback func(width, height int))

	// SetKeyCallback sets the callback for key press and release events.
	// Escape never reaches the callback; it closes the window instead.
	//
	// Parameters:
	//   - callback: function receiving the key and whether it is now held
	SetKeyCallback(callback func(key common.Key, pressed bool))

	// SetMouseMotionCallback sets the callback for relative mouse motion.
	//
	// Parameters:
	//   - callback: function receiving the motion since the previous event
	SetMouseMotionCallback(callback func(dx, dy float32))

	// SurfaceDescriptor returns a wgpu.SurfaceDescriptor suitable for creating a WebGPU surface.
	// The descriptor is platform-appropriate (Windows HWND, X11 Xlib, Wayland, macOS Metal, etc.)
	// and is created by the wgpuglfw bridge from the underlying GLFW window.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the platform-specific surface descriptor, or nil if window is not initialized
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// PollEvents dispatches pending window events to the callbacks without blocking.
	//
	// Returns:
	//   - bool: false once the window should close
	PollEvents() bool

	// IsRunning returns true if the window is still active.
	//
	// Returns:
	//   - bool: true if window is running, false if closed
	IsRunning() bool

	// Close closes the window and releases platform resources.
	//
	// Returns:
	//   - error: error if close operation fails
	Close() error

	// FramebufferSize returns the current framebuffer size in pixels.
	// A minimised window reports zero.
	//
	// Returns:
	//   - int: width in pixels
	//   - int: height in pixels
	FramebufferSize() (int, int)
}

// engineWindow is the implementation of the Window interface.
// Holds window configuration, GLFW state, and event callbacks.
type engineWindow struct {
	mu *sync.Mutex

	// title is the window title displayed in the title bar.
	title string

	// minWidth, minHeight, maxWidth and maxHeight bound interactive resizing. Zero is unbounded.
	minWidth, minHeight int
	maxWidth, maxHeight int

	// width and height are the current framebuffer size in pixels.
	width, height int

	// captureCursor hides and locks the cursor so motion is reported as raw deltas.
	captureCursor bool

	// internalWindow holds the platform-specific window data (glfwWindow).
	internalWindow any

	motion motionTracker

	onResize func(width, height int)
	onKey    func(key common.Key, pressed bool)
	onMotion func(dx, dy float32)
}

var _ Window = &engineWindow{}

// NewWindow creates and shows a new Window with the specified options.
// Applies default values first, then each option in order.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the open window
//   - error: error if the platform window cannot be created
func NewWindow(options ...WindowBuilderOption) (Window, error) {
	w := &engineWindow{
		mu:            &sync.Mutex{},
		title:         "oxy sandbox",
		width:         1280,
		height:        720,
		captureCursor: true,
	}
	for _, opt := range options {
		opt(w)
	}
	if err := newPlatformWindow(w); err != nil {
		return nil, fmt.Errorf("failed to create platform window: %w", err)
	}
	common.Logger().Info("window created", "title", w.title, "width", w.width, "height", w.height)
	return w, nil
}

// BindInput routes a window's key and mouse-motion events into an input State.
//
// Parameters:
//   - w: the window producing events
//   - state: the state receiving them
func BindInput(w Window, state *input.State) {
	w.SetKeyCallback(state.SetKey)
	w.SetMouseMotionCallback(state.Push)
}

func (w *engineWindow) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}

func (w *engineWindow) SetKeyCallback(callback func(key common.Key, pressed bool)) {
	w.onKey = callback
}

func (w *engineWindow) SetMouseMotionCallback(callback func(dx, dy float32)) {
	w.onMotion = callback
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *engineWindow) PollEvents() bool {
	return platformProcessMessages(w)
}

func (w *engineWindow) IsRunning() bool {
	return platformIsRunningCheck(w)
}

func (w *engineWindow) Close() error {
	return platformCloseWindow(w)
}

func (w *engineWindow) FramebufferSize() (int, int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.width, w.height
}

func (w *engineWindow) setFramebufferSize(width, height int) {
	w.mu.Lock()
	w.width, w.height = width, height
	w.mu.Unlock()
}

func (w *engineWindow) keyEvent(key common.Key, pressed bool) {
	if w.onKey != nil {
		w.onKey(key, pressed)
	}
}

func (w *engineWindow) cursorEvent(x, y float64) {
	dx, dy, ok := w.motion.move(x, y)
	if ok && w.onMotion != nil {
		w.onMotion(dx, dy)
	}
}

// motionTracker turns absolute cursor positions into relative deltas.
// The first position after a reset only establishes the origin.
type motionTracker struct {
	x, y  float64
	valid bool
}

func (m *motionTracker) move(x, y float64) (dx, dy float32, ok bool) {
	if !m.valid {
		m.x, m.y, m.valid = x, y, true
		return 0, 0, false
	}
	dx, dy = float32(x-m.x), float32(y-m.y)
	m.x, m.y = x, y
	return dx, dy, true
}

func (m *motionTracker) reset() {
	m.valid = false
}
