package surface

import "github.com/Carmen-Shannon/oxy-sandbox/engine/renderer"

// Backend is the presentation surface the Manager drives.
type Backend interface {
	// Configure (re)configures the surface and its depth attachment for the given size.
	//
	// Parameters:
	//   - width: framebuffer width in pixels, non-zero
	//   - height: framebuffer height in pixels, non-zero
	//
	// Returns:
	//   - error: a configuration failure
	Configure(width, height uint32) error

	// AcquireFrame acquires the next surface image and opens a cleared render pass on it.
	//
	// Returns:
	//   - Frame: the open frame
	//   - error: an acquire failure, classified by ClassifyError
	AcquireFrame() (Frame, error)

	// Present closes the frame's render pass, submits it, and presents the image.
	// The frame's resources are released whether or not it succeeds.
	//
	// Parameters:
	//   - frame: the frame returned by AcquireFrame
	//
	// Returns:
	//   - error: a submit or present failure, classified by ClassifyError
	Present(frame Frame) error
}

// Frame is one acquired surface image with an open render pass.
type Frame interface {
	// RenderPass returns the pass draw commands are recorded into.
	//
	// Returns:
	//   - renderer.RenderPass: the open render pass
	RenderPass() renderer.RenderPass
}
