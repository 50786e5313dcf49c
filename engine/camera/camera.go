package camera

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-sandbox/common"
	"github.com/go-gl/mathgl/mgl32"
)

type cameraImpl struct {
	mu *sync.Mutex

	fov    float32
	aspect float32
	near   float32
	far    float32

	speed        float32
	rotationRate float32

	position  mgl32.Vec3
	direction mgl32.Vec3

	view       mgl32.Mat4
	projection mgl32.Mat4
	uniform    GPUCameraUniform
}

// Camera is a first-person perspective camera.
// Orientation lives only in the view matrix: there is no separately stored facing vector.
// The derived uniform always holds projection * view for the latest mutation.
type Camera interface {
	// Fov returns the vertical field of view in radians.
	//
	// Returns:
	//   - float32: field of view in radians
	Fov() float32

	// Aspect returns the aspect ratio (width / height).
	//
	// Returns:
	//   - float32: the aspect ratio
	Aspect() float32

	// Near returns the near clipping plane distance.
	//
	// Returns:
	//   - float32: near plane distance
	Near() float32

	// Far returns the far clipping plane distance.
	//
	// Returns:
	//   - float32: far plane distance
	Far() float32

	// Speed returns the movement speed in world units per second.
	//
	// Returns:
	//   - float32: movement speed
	Speed() float32

	// RotationRate returns the mouse-look rate in radians per mouse unit per second.
	//
	// Returns:
	//   - float32: rotation rate
	RotationRate() float32

	// Position returns the world-space eye position derived from the view matrix.
	//
	// Returns:
	//   - mgl32.Vec3: the camera position
	Position() mgl32.Vec3

	// View returns the current view matrix (world to camera, column-major).
	//
	// Returns:
	//   - mgl32.Mat4: the view matrix
	View() mgl32.Mat4

	// Projection returns the current left-handed projection matrix (column-major).
	//
	// Returns:
	//   - mgl32.Mat4: the projection matrix
	Projection() mgl32.Mat4

	// Uniform returns the derived GPU uniform (position and projection * view).
	//
	// Returns:
	//   - GPUCameraUniform: the uniform data
	Uniform() GPUCameraUniform

	// Update replaces the lens and motion parameters, recomputes the projection, and
	// re-derives the uniform. The view matrix is left untouched, which is what a window
	// resize needs when only the aspect ratio changes.
	//
	// Parameters:
	//   - fov: vertical field of view in radians
	//   - aspect: aspect ratio (width / height)
	//   - near: near plane distance
	//   - far: far plane distance
	//   - speed: movement speed
	//   - rotationRate: mouse-look rate
	Update(fov, aspect, near, far, speed, rotationRate float32)

	// SetAspect changes only the aspect ratio. Equivalent to Update with the other
	// parameters unchanged.
	//
	// Parameters:
	//   - aspect: aspect ratio (width / height)
	SetAspect(aspect float32)

	// ApplyMotion composes a camera-space translation and two rotations onto the view:
	//
	//	view' = T(displacement) * R(pitch about local X) * R(yaw about world up) * view
	//
	// World up is taken as seen from the current orientation, so yaw stays level no matter
	// how far the camera is pitched. Positive pitch looks down and positive yaw turns right.
	//
	// Parameters:
	//   - displacement: translation in camera space (forward is -Z of the displacement basis)
	//   - pitch: rotation about the local X axis in radians
	//   - yaw: rotation about world up in radians
	ApplyMotion(displacement mgl32.Vec3, pitch, yaw float32)
}

var _ Camera = &cameraImpl{}

// NewCamera creates a new Camera. Defaults place the camera at (0, 1.2, -3) looking at the origin
// with a 0.75 radian field of view and a [0.1, 5] depth range.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:           &sync.Mutex{},
		fov:          0.75,
		aspect:       1.0,
		near:         0.1,
		far:          5.0,
		speed:        1.0,
		rotationRate: 0.2,
		position:     mgl32.Vec3{0, 1.2, -3},
		direction:    mgl32.Vec3{0, -1.2, 3},
	}
	for _, option := range options {
		option(c)
	}
	c.view = common.LookAtLH(c.position, c.position.Add(c.direction), common.WorldUp)
	c.projection = common.PerspectiveLH(c.near, c.far, c.aspect, c.fov)
	c.updateUniform()
	return c
}

func (c *cameraImpl) Fov() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fov
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *cameraImpl) Near() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.near
}

func (c *cameraImpl) Far() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.far
}

func (c *cameraImpl) Speed() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.speed
}

func (c *cameraImpl) RotationRate() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rotationRate
}

func (c *cameraImpl) Position() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position
}

func (c *cameraImpl) View() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

func (c *cameraImpl) Projection() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projection
}

func (c *cameraImpl) Uniform() GPUCameraUniform {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.uniform
}

func (c *cameraImpl) Update(fov, aspect, near, far, speed, rotationRate float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fov = fov
	c.aspect = aspect
	c.near = near
	c.far = far
	c.speed = speed
	c.rotationRate = rotationRate
	c.projection = common.PerspectiveLH(c.near, c.far, c.aspect, c.fov)
	c.updateUniform()
}

func (c *cameraImpl) SetAspect(aspect float32) {
	c.mu.Lock()
	fov, near, far, speed, rate := c.fov, c.near, c.far, c.speed, c.rotationRate
	c.mu.Unlock()
	c.Update(fov, aspect, near, far, speed, rate)
}

func (c *cameraImpl) ApplyMotion(displacement mgl32.Vec3, pitch, yaw float32) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// World +Y expressed in camera space.
	up := common.SafeNormalize(c.view.Mat3().Mul3x1(common.WorldUp))

	// Rotating the world by -angle turns the camera by +angle.
	localPitch := mgl32.QuatRotate(-pitch, mgl32.Vec3{1, 0, 0}).Mat4()
	globalYaw := mgl32.QuatRotate(-yaw, up).Mat4()
	translation := mgl32.Translate3D(displacement.X(), displacement.Y(), displacement.Z())

	c.view = translation.Mul4(localPitch).Mul4(globalYaw).Mul4(c.view)
	c.position = common.TranslationFromView(c.view)
	c.updateUniform()
}

// updateUniform re-derives the GPU uniform from the current view and projection.
// Caller must hold the mutex.
func (c *cameraImpl) updateUniform() {
	c.uniform.Position = c.position
	c.uniform.ViewProj = c.projection.Mul4(c.view)
}
