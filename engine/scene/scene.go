package scene

import (
	"github.com/Carmen-Shannon/oxy-sandbox/common"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/cache"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/camera"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/input"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/light"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/model"
	"github.com/go-gl/mathgl/mgl32"
)

// Movement keys.
const (
	KeyForward  = common.KeyW
	KeyBackward = common.KeyS
	KeyRight    = common.KeyD
	KeyLeft     = common.KeyA
)

// Camera-space movement basis. Forward is -Z of the displacement and right is -X because the
// translation is applied to world points, which move opposite to the eye.
var (
	localX = mgl32.Vec3{1, 0, 0}
	localZ = mgl32.Vec3{0, 0, 1}
)

// scene is the implementation of the Scene interface.
type scene struct {
	name string

	objects           *cache.SliceCache[model.Object]
	pointLights       *cache.SliceCache[light.PointLight]
	directionalLights *cache.SliceCache[light.DirectionalLight]
	cam               *cache.Cache[camera.Camera]
}

// Scene is the root aggregate of renderable state: objects, lights, and the camera, each
// wrapped in a dirty-tracking cache. Collection lengths are fixed at construction because the
// GPU resources are sized from them once.
//
// A Scene is owned by the frame loop and is not safe for concurrent use.
type Scene interface {
	// Name returns the scene's name.
	//
	// Returns:
	//   - string: the scene name
	Name() string

	// Objects returns the dirty-tracked object transforms. Call MarkDirty after mutating.
	//
	// Returns:
	//   - *cache.SliceCache[model.Object]: the objects
	Objects() *cache.SliceCache[model.Object]

	// PointLights returns the dirty-tracked point lights. Call MarkDirty after mutating.
	//
	// Returns:
	//   - *cache.SliceCache[light.PointLight]: the point lights
	PointLights() *cache.SliceCache[light.PointLight]

	// DirectionalLights returns the dirty-tracked directional lights. Call MarkDirty after mutating.
	//
	// Returns:
	//   - *cache.SliceCache[light.DirectionalLight]: the directional lights
	DirectionalLights() *cache.SliceCache[light.DirectionalLight]

	// Camera returns the dirty-tracked camera. Call MarkDirty after mutating the camera directly.
	//
	// Returns:
	//   - *cache.Cache[camera.Camera]: the camera cache
	Camera() *cache.Cache[camera.Camera]

	// Update advances the camera from one tick of input:
	//   - W/S and D/A give the forward and side axes (missing keys count as released)
	//   - displacement = deltaTime * speed * (-forward * localZ - side * localX), in camera space
	//   - all buffered mouse deltas are drained and summed into one (dx, dy)
	//   - pitch = dy * rotationRate * deltaTime and yaw = dx * rotationRate * deltaTime
	//
	// The motion is applied to the camera, its uniform is re-derived, and the camera is marked
	// dirty. A tick with no input applies an identity motion.
	//
	// Parameters:
	//   - keys: the current key state
	//   - mouse: the mouse-delta accumulator to drain
	//   - deltaTime: elapsed seconds since the previous tick
	Update(keys input.KeyState, mouse input.MouseAccumulator, deltaTime float32)
}

var _ Scene = &scene{}

// NewScene creates a new Scene around the given camera. The camera is required and NewScene
// panics if it is nil. Objects and lights are supplied through options; every cache starts dirty
// so the first sync uploads everything.
//
// Parameters:
//   - name: the name of the scene
//   - cam: the camera to own (must not be nil)
//   - options: functional options to further configure the scene
//
// Returns:
//   - Scene: the newly created scene
func NewScene(name string, cam camera.Camera, options ...SceneBuilderOption) Scene {
	if cam == nil {
		panic("scene: NewScene requires a non-nil Camera")
	}
	s := &scene{
		name:              name,
		objects:           cache.NewSlice[model.Object](nil),
		pointLights:       cache.NewSlice[light.PointLight](nil),
		directionalLights: cache.NewSlice[light.DirectionalLight](nil),
		cam:               cache.New(cam),
	}
	for _, option := range options {
		option(s)
	}
	return s
}

func (s *scene) Name() string {
	return s.name
}

func (s *scene) Objects() *cache.SliceCache[model.Object] {
	return s.objects
}

func (s *scene) PointLights() *cache.SliceCache[light.PointLight] {
	return s.pointLights
}

func (s *scene) DirectionalLights() *cache.SliceCache[light.DirectionalLight] {
	return s.directionalLights
}

func (s *scene) Camera() *cache.Cache[camera.Camera] {
	return s.cam
}

func (s *scene) Update(keys input.KeyState, mouse input.MouseAccumulator, deltaTime float32) {
	cam := s.cam.Get()

	displacement := Displacement(keys, cam.Speed(), deltaTime)

	dx, dy := mouse.Drain()
	step := cam.RotationRate() * deltaTime

	cam.ApplyMotion(displacement, dy*step, dx*step)
	s.cam.MarkDirty()
}

// Displacement converts the movement keys into a camera-space translation for one tick.
// The basis is always the camera's local axes, so its length is deltaTime * speed for a
// single held key regardless of how the camera is oriented.
//
// Parameters:
//   - keys: the current key state
//   - speed: camera speed in world units per second
//   - deltaTime: elapsed seconds
//
// Returns:
//   - mgl32.Vec3: the translation to apply to the view
func Displacement(keys input.KeyState, speed, deltaTime float32) mgl32.Vec3 {
	forward := input.Axis(keys, KeyForward, KeyBackward)
	side := input.Axis(keys, KeyRight, KeyLeft)

	move := localZ.Mul(-forward).Add(localX.Mul(-side))
	return move.Mul(deltaTime * speed)
}
