package surface

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/Carmen-Shannon/oxy-sandbox/common"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/renderer"
	"github.com/cogentcore/webgpu/wgpu"
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting. This is the default.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

func (m PresentMode) toWGPU() wgpu.PresentMode {
	if m == PresentModeUncapped {
		return wgpu.PresentModeImmediate
	}
	return wgpu.PresentModeFifo
}

// wgpuBackendImpl is the WebGPU implementation of GPUBackend.
type wgpuBackendImpl struct {
	mu *sync.Mutex

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue
	surface  *wgpu.Surface

	format      wgpu.TextureFormat
	alphaMode   wgpu.CompositeAlphaMode
	presentMode PresentMode
	depthFormat wgpu.TextureFormat
	clearColor  wgpu.Color

	forceFallbackAdapter bool

	// framebufferSize reports the live window size; width and height are the configured size.
	framebufferSize func() (int, int)
	width, height   uint32

	depthTexture *wgpu.Texture
	depthView    *wgpu.TextureView
}

// wgpuFrame is an acquired surface image and the open pass recording into it.
type wgpuFrame struct {
	texture *wgpu.Texture
	view    *wgpu.TextureView
	encoder *wgpu.CommandEncoder
	pass    *wgpu.RenderPassEncoder
	rp      renderer.RenderPass
}

func (f *wgpuFrame) RenderPass() renderer.RenderPass {
	return f.rp
}

func (f *wgpuFrame) release() {
	if f.encoder != nil {
		f.encoder.Release()
		f.encoder = nil
	}
	if f.view != nil {
		f.view.Release()
		f.view = nil
	}
	if f.texture != nil {
		f.texture.Release()
		f.texture = nil
	}
}

// GPUBackend is the WebGPU presentation surface plus the device objects created with it.
type GPUBackend interface {
	Backend

	// Device returns the logical device.
	//
	// Returns:
	//   - *wgpu.Device: the device
	Device() *wgpu.Device

	// Queue returns the device queue.
	//
	// Returns:
	//   - *wgpu.Queue: the queue
	Queue() *wgpu.Queue

	// Format returns the sRGB color format chosen for the surface.
	//
	// Returns:
	//   - wgpu.TextureFormat: the surface color format
	Format() wgpu.TextureFormat

	// DepthFormat returns the format of the depth attachment.
	//
	// Returns:
	//   - wgpu.TextureFormat: the depth format
	DepthFormat() wgpu.TextureFormat

	// Release releases the depth attachment, surface, device, adapter and instance.
	Release()
}

var _ GPUBackend = &wgpuBackendImpl{}

// NewWGPUBackend creates the instance, surface, adapter, device and queue for a window surface
// and picks the first sRGB format the surface supports. The surface stays unconfigured until
// the first Configure.
//
// Parameters:
//   - surfaceDescriptor: the platform surface descriptor of the window
//   - options: optional WGPUBackendBuilderOption functions
//
// Returns:
//   - GPUBackend: the backend
//   - error: ErrNoSRGBFormat, or an adapter or device request failure
func NewWGPUBackend(surfaceDescriptor *wgpu.SurfaceDescriptor, options ...WGPUBackendBuilderOption) (GPUBackend, error) {
	runtime.LockOSThread()
	b := &wgpuBackendImpl{
		mu:          &sync.Mutex{},
		presentMode: PresentModeVSync,
		depthFormat: wgpu.TextureFormatDepth32Float,
		clearColor:  wgpu.Color{R: 0.003, G: 0.017, B: 0.032, A: 1.0},
	}
	for _, opt := range options {
		opt(b)
	}

	b.instance = wgpu.CreateInstance(nil)
	b.surface = b.instance.CreateSurface(surfaceDescriptor)

	a, err := b.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: b.forceFallbackAdapter,
		CompatibleSurface:    b.surface,
	})
	if err != nil {
		b.Release()
		return nil, fmt.Errorf("request adapter: %w", err)
	}
	b.adapter = a

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Main Device",
	})
	if err != nil {
		b.Release()
		return nil, fmt.Errorf("request device: %w", err)
	}
	b.device = d
	b.queue = d.GetQueue()

	capabilities := b.surface.GetCapabilities(b.adapter)
	b.format, err = SelectSRGBFormat(capabilities.Formats)
	if err != nil {
		b.Release()
		return nil, err
	}
	if len(capabilities.AlphaModes) > 0 {
		b.alphaMode = capabilities.AlphaModes[0]
	}
	common.Logger().Info("gpu backend ready", "format", b.format, "present_mode", b.presentMode.toWGPU())
	return b, nil
}

// SelectSRGBFormat returns the first sRGB color format in formats.
//
// Parameters:
//   - formats: the surface's supported formats in preference order
//
// Returns:
//   - wgpu.TextureFormat: the chosen format
//   - error: ErrNoSRGBFormat when none is sRGB
func SelectSRGBFormat(formats []wgpu.TextureFormat) (wgpu.TextureFormat, error) {
	for _, f := range formats {
		switch f {
		case wgpu.TextureFormatRGBA8UnormSrgb, wgpu.TextureFormatBGRA8UnormSrgb:
			return f, nil
		}
	}
	return wgpu.TextureFormatUndefined, ErrNoSRGBFormat
}

func (b *wgpuBackendImpl) Configure(width, height uint32) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      b.format,
		Width:       width,
		Height:      height,
		PresentMode: b.presentMode.toWGPU(),
		AlphaMode:   b.alphaMode,
	})

	b.releaseDepth()
	depthTexture, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "Depth Texture",
		Size: wgpu.Extent3D{
			Width:              width,
			Height:             height,
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        b.depthFormat,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		return fmt.Errorf("create depth texture: %w", err)
	}
	depthView, err := depthTexture.CreateView(nil)
	if err != nil {
		depthTexture.Release()
		return fmt.Errorf("create depth view: %w", err)
	}
	b.depthTexture, b.depthView = depthTexture, depthView
	b.width, b.height = width, height
	return nil
}

func (b *wgpuBackendImpl) AcquireFrame() (Frame, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.depthView == nil {
		return nil, errors.New("surface not configured")
	}
	// The binding does not report the surface status, so a resized window is caught here
	// before an image is acquired from a stale swapchain.
	if b.framebufferSize != nil {
		w, h := b.framebufferSize()
		if err := staleSize(b.width, b.height, w, h); err != nil {
			return nil, err
		}
	}

	texture, err := b.surface.GetCurrentTexture()
	if err != nil {
		return nil, err
	}
	f := &wgpuFrame{texture: texture}

	f.view, err = texture.CreateView(nil)
	if err != nil {
		f.release()
		return nil, err
	}
	f.encoder, err = b.device.CreateCommandEncoder(nil)
	if err != nil {
		f.release()
		return nil, err
	}

	f.pass = f.encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       f.view,
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: b.clearColor,
			},
		},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            b.depthView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpStore,
			DepthClearValue: 1.0,
		},
	})
	f.rp = renderer.NewRenderPass(f.pass)
	return f, nil
}

// staleSize returns an outdated *Error when a visible framebuffer no longer matches the
// configured surface size. A zero dimension (minimised window) is not stale.
func staleSize(configuredWidth, configuredHeight uint32, width, height int) error {
	if width <= 0 || height <= 0 {
		return nil
	}
	if uint32(width) == configuredWidth && uint32(height) == configuredHeight {
		return nil
	}
	return &Error{
		Kind: ErrorKindOutdated,
		Op:   "acquire",
		Err:  fmt.Errorf("framebuffer %dx%d, surface configured %dx%d", width, height, configuredWidth, configuredHeight),
	}
}

func (b *wgpuBackendImpl) Present(frame Frame) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	f, ok := frame.(*wgpuFrame)
	if !ok {
		return fmt.Errorf("present: foreign frame %T", frame)
	}
	defer f.release()

	f.pass.End()
	commandBuffer, err := f.encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("finish frame: %w", err)
	}
	b.queue.Submit(commandBuffer)
	commandBuffer.Release()

	b.surface.Present()
	return nil
}

func (b *wgpuBackendImpl) Device() *wgpu.Device {
	return b.device
}

func (b *wgpuBackendImpl) Queue() *wgpu.Queue {
	return b.queue
}

func (b *wgpuBackendImpl) Format() wgpu.TextureFormat {
	return b.format
}

func (b *wgpuBackendImpl) DepthFormat() wgpu.TextureFormat {
	return b.depthFormat
}

func (b *wgpuBackendImpl) releaseDepth() {
	if b.depthView != nil {
		b.depthView.Release()
		b.depthView = nil
	}
	if b.depthTexture != nil {
		b.depthTexture.Release()
		b.depthTexture = nil
	}
}

func (b *wgpuBackendImpl) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.releaseDepth()
	if b.queue != nil {
		b.queue.Release()
		b.queue = nil
	}
	if b.device != nil {
		b.device.Release()
		b.device = nil
	}
	if b.adapter != nil {
		b.adapter.Release()
		b.adapter = nil
	}
	if b.surface != nil {
		b.surface.Release()
		b.surface = nil
	}
	if b.instance != nil {
		b.instance.Release()
		b.instance = nil
	}
}
