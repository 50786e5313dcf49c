package camera

import "github.com/go-gl/mathgl/mgl32"

type CameraBuilderOption func(*cameraImpl)

// WithFov sets the camera's vertical field of view in radians.
//
// Parameters:
//   - fov: field of view in radians
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's field of view
func WithFov(fov float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.fov = fov
	}
}

// WithAspect sets the camera's aspect ratio (width / height).
//
// Parameters:
//   - aspect: the aspect ratio to set
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's aspect ratio
func WithAspect(aspect float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.aspect = aspect
	}
}

// WithNear sets the near clipping plane distance.
//
// Parameters:
//   - near: near plane distance
//
// Returns:
//   - CameraBuilderOption: a function that sets the near plane
func WithNear(near float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.near = near
	}
}

// WithFar sets the far clipping plane distance.
//
// Parameters:
//   - far: far plane distance
//
// Returns:
//   - CameraBuilderOption: a function that sets the far plane
func WithFar(far float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.far = far
	}
}

// WithPosition sets the initial world-space eye position.
//
// Parameters:
//   - position: the eye position
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera position
func WithPosition(position mgl32.Vec3) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.position = position
	}
}

// WithDirection sets the initial viewing direction. Only the direction matters, not the length.
//
// Parameters:
//   - direction: the world-space direction the camera faces
//
// Returns:
//   - CameraBuilderOption: a function that sets the initial direction
func WithDirection(direction mgl32.Vec3) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.direction = direction
	}
}

// WithTarget points the camera at a world-space location from its configured position.
// Apply it after WithPosition.
//
// Parameters:
//   - target: the point to look at
//
// Returns:
//   - CameraBuilderOption: a function that sets the initial direction
func WithTarget(target mgl32.Vec3) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.direction = target.Sub(c.position)
	}
}

// WithSpeed sets the movement speed in world units per second.
//
// Parameters:
//   - speed: movement speed
//
// Returns:
//   - CameraBuilderOption: a function that sets the speed
func WithSpeed(speed float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.speed = speed
	}
}

// WithRotationRate sets the mouse-look rate.
//
// Parameters:
//   - rate: radians per mouse unit per second
//
// Returns:
//   - CameraBuilderOption: a function that sets the rotation rate
func WithRotationRate(rate float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.rotationRate = rate
	}
}
