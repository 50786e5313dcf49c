package surface

import "github.com/cogentcore/webgpu/wgpu"

// WGPUBackendBuilderOption is a functional option used to configure the WebGPU backend during construction.
type WGPUBackendBuilderOption func(*wgpuBackendImpl)

// WithPresentMode sets the present mode used for every surface configuration.
//
// Parameters:
//   - mode: PresentModeVSync or PresentModeUncapped
//
// Returns:
//   - WGPUBackendBuilderOption: a function that sets the present mode
func WithPresentMode(mode PresentMode) WGPUBackendBuilderOption {
	return func(b *wgpuBackendImpl) {
		b.presentMode = mode
	}
}

// WithForceFallbackAdapter requests the software fallback adapter.
//
// Parameters:
//   - force: true to force the fallback adapter
//
// Returns:
//   - WGPUBackendBuilderOption: a function that sets the adapter preference
func WithForceFallbackAdapter(force bool) WGPUBackendBuilderOption {
	return func(b *wgpuBackendImpl) {
		b.forceFallbackAdapter = force
	}
}

// WithClearColor sets the color the frame is cleared to.
//
// Parameters:
//   - color: the clear color in linear RGBA
//
// Returns:
//   - WGPUBackendBuilderOption: a function that sets the clear color
func WithClearColor(color wgpu.Color) WGPUBackendBuilderOption {
	return func(b *wgpuBackendImpl) {
		b.clearColor = color
	}
}

// WithFramebufferSize lets AcquireFrame compare the window's framebuffer size with the
// configured surface size. A mismatch is reported as an outdated surface.
//
// Parameters:
//   - size: returns the current framebuffer width and height in pixels
//
// Returns:
//   - WGPUBackendBuilderOption: a function that sets the size source
func WithFramebufferSize(size func() (int, int)) WGPUBackendBuilderOption {
	return func(b *wgpuBackendImpl) {
		b.framebufferSize = size
	}
}
