package surface

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-sandbox/common"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/cache"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/camera"
)

// manager is the implementation of the Manager interface.
type manager struct {
	mu      *sync.Mutex
	backend Backend

	configured    bool
	width, height uint32

	// cam is the camera passed to the last Resize; its aspect follows every reconfigure.
	cam *cache.Cache[camera.Camera]
	// windowSize reports the current framebuffer size for recovery reconfigures.
	windowSize func() (int, int)

	frame Frame
}

// Manager owns the surface lifecycle: configuration on resize, per-frame acquire and present,
// and recovery from surface failures.
//
// Acquire and present failures are classified once with ClassifyError:
//   - outdated or lost: the surface is reconfigured at the last known size and the frame is dropped
//   - timeout or out of memory: a *Error is returned and the caller should stop
//   - anything else: a warning is logged and the frame is dropped
type Manager interface {
	// Resize configures the surface for a new framebuffer size. A zero dimension (a minimised
	// window) is ignored. When cam is non-nil its aspect ratio is set to width/height and the
	// cache is marked dirty; cam is remembered for later recovery reconfigures.
	//
	// Parameters:
	//   - width: framebuffer width in pixels
	//   - height: framebuffer height in pixels
	//   - cam: the scene camera cache, may be nil
	//
	// Returns:
	//   - error: a configuration failure
	Resize(width, height int, cam *cache.Cache[camera.Camera]) error

	// BeginFrame acquires the next frame. It returns (nil, nil) while the surface is
	// unconfigured or when the frame was dropped.
	//
	// Returns:
	//   - Frame: the acquired frame, or nil
	//   - error: ErrFrameInProgress, a fatal *Error, or a reconfigure failure
	BeginFrame() (Frame, error)

	// EndFrame presents the frame returned by the last BeginFrame. It does nothing when
	// no frame is open.
	//
	// Returns:
	//   - error: a fatal *Error, or a reconfigure failure
	EndFrame() error

	// IsConfigured reports whether the surface has been configured at least once.
	//
	// Returns:
	//   - bool: true once Resize has succeeded
	IsConfigured() bool

	// Size returns the last configured size.
	//
	// Returns:
	//   - uint32: width in pixels
	//   - uint32: height in pixels
	Size() (uint32, uint32)
}

var _ Manager = &manager{}

// NewManager creates an unconfigured Manager over backend.
//
// Parameters:
//   - backend: the presentation surface
//   - options: optional ManagerBuilderOption functions
//
// Returns:
//   - Manager: the manager
func NewManager(backend Backend, options ...ManagerBuilderOption) Manager {
	m := &manager{
		mu:      &sync.Mutex{},
		backend: backend,
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *manager) Resize(width, height int, cam *cache.Cache[camera.Camera]) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if width <= 0 || height <= 0 {
		return nil
	}
	if cam != nil {
		m.cam = cam
	}
	return m.configure(uint32(width), uint32(height))
}

func (m *manager) configure(width, height uint32) error {
	if err := m.backend.Configure(width, height); err != nil {
		return err
	}
	m.configured = true
	m.width, m.height = width, height

	if m.cam != nil {
		m.cam.Get().SetAspect(float32(width) / float32(height))
		m.cam.MarkDirty()
	}
	common.Logger().Debug("surface configured", "width", width, "height", height)
	return nil
}

func (m *manager) BeginFrame() (Frame, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.configured {
		return nil, nil
	}
	if m.frame != nil {
		return nil, ErrFrameInProgress
	}

	frame, err := m.backend.AcquireFrame()
	if err != nil {
		return nil, m.handle("acquire", err)
	}
	m.frame = frame
	return frame, nil
}

func (m *manager) EndFrame() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.frame == nil {
		return nil
	}
	frame := m.frame
	m.frame = nil

	if err := m.backend.Present(frame); err != nil {
		return m.handle("present", err)
	}
	return nil
}

// handle applies the recovery policy for a classified surface error.
func (m *manager) handle(op string, err error) error {
	kind := ClassifyError(err)
	switch {
	case kind.Recoverable():
		width, height := m.width, m.height
		if m.windowSize != nil {
			if w, h := m.windowSize(); w > 0 && h > 0 {
				width, height = uint32(w), uint32(h)
			}
		}
		common.Logger().Warn("surface reconfigured, frame dropped",
			"op", op, "kind", kind, "width", width, "height", height, "err", err)
		return m.configure(width, height)
	case kind.Fatal():
		return &Error{Kind: kind, Op: op, Err: err}
	default:
		common.Logger().Warn("frame dropped", "op", op, "err", err)
		return nil
	}
}

func (m *manager) IsConfigured() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.configured
}

func (m *manager) Size() (uint32, uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.width, m.height
}
