package scene

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-sandbox/common"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/camera"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/input"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/light"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/model"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScene(t *testing.T, options ...camera.CameraBuilderOption) Scene {
	t.Helper()
	cam := camera.NewCamera(append([]camera.CameraBuilderOption{camera.WithSpeed(2), camera.WithRotationRate(0.5)}, options...)...)
	return NewScene("test", cam,
		WithObjects(model.NewObject(mgl32.Ident4(), 0.5)),
		WithPointLights(light.NewPointLight([3]float32{0, 1, -2}, [3]float32{1, 1, 1}, 5)),
	)
}

func assertUniformConsistent(t *testing.T, c camera.Camera) {
	t.Helper()
	want := c.Projection().Mul4(c.View())
	assert.True(t, mgl32.Mat4(c.Uniform().ViewProj).ApproxEqualThreshold(want, 1e-6))
}

func TestNewScene_AllCachesDirty(t *testing.T) {
	s := newTestScene(t)

	assert.True(t, s.Objects().IsDirty())
	assert.True(t, s.PointLights().IsDirty())
	assert.True(t, s.DirectionalLights().IsDirty())
	assert.True(t, s.Camera().IsDirty())
	assert.Equal(t, 1, s.Objects().Len())
	assert.Equal(t, 0, s.DirectionalLights().Len())
}

func TestNewScene_NilCameraPanics(t *testing.T) {
	assert.Panics(t, func() { NewScene("bad", nil) })
}

func TestUpdate_MarksCameraDirtyAndKeepsUniformConsistent(t *testing.T) {
	s := newTestScene(t)
	s.Camera().Clear()
	in := input.NewState()
	in.SetKey(common.KeyW, true)
	in.SetKey(common.KeyD, true)
	in.Push(3, -2)

	s.Update(in, in, 0.016)

	assert.True(t, s.Camera().IsDirty())
	assertUniformConsistent(t, s.Camera().Get())
}

func TestUpdate_MouseBufferDrainsExactlyOnce(t *testing.T) {
	s := newTestScene(t)
	in := input.NewState()
	in.Push(1, 2)
	in.Push(3, -1)

	cam := s.Camera().Get()
	before := cam.View()
	s.Update(in, in, 0.1)
	assert.Equal(t, 0, in.Pending())

	// Summed (4, 1) gives yaw 4*0.5*0.1 and pitch 1*0.5*0.1; compare against one direct application.
	ref := camera.NewCamera(camera.WithSpeed(2), camera.WithRotationRate(0.5))
	ref.ApplyMotion(mgl32.Vec3{}, 1*0.5*0.1, 4*0.5*0.1)
	assert.True(t, cam.View().ApproxEqualThreshold(ref.View(), 1e-5))
	assert.False(t, cam.View().ApproxEqualThreshold(before, 1e-6))

	after := cam.View()
	s.Update(in, in, 0.1)
	assert.True(t, cam.View().ApproxEqualThreshold(after, 1e-6), "no buffered deltas means no rotation")
}

func TestUpdate_MovementIndependentOfPitch(t *testing.T) {
	const dt, speed = float32(0.25), float32(2)
	in := input.NewState()
	in.SetKey(common.KeyW, true)

	for _, pitch := range []float32{0, 0.4, -0.9, 1.3} {
		s := newTestScene(t)
		cam := s.Camera().Get()
		cam.ApplyMotion(mgl32.Vec3{}, pitch, 0.7)

		start := cam.Position()
		s.Update(in, in, dt)
		moved := cam.Position().Sub(start).Len()

		assert.InDelta(t, dt*speed, moved, 1e-4, "pitch %v", pitch)
	}
}

func TestUpdate_OpposingKeysCancel(t *testing.T) {
	s := newTestScene(t)
	in := input.NewState()
	in.SetKey(common.KeyW, true)
	in.SetKey(common.KeyS, true)
	in.SetKey(common.KeyA, true)
	in.SetKey(common.KeyD, true)

	start := s.Camera().Get().Position()
	s.Update(in, in, 1)
	assert.True(t, s.Camera().Get().Position().ApproxEqualThreshold(start, 1e-5))
}

func TestDisplacement(t *testing.T) {
	in := input.NewState()
	assert.Equal(t, mgl32.Vec3{}, Displacement(in, 3, 0.5))

	in.SetKey(common.KeyW, true)
	d := Displacement(in, 3, 0.5)
	assert.InDelta(t, -1.5, d.Z(), 1e-6)

	in.SetKey(common.KeyD, true)
	d = Displacement(in, 3, 0.5)
	require.InDelta(t, -1.5, d.X(), 1e-6)
	assert.InDelta(t, -1.5, d.Z(), 1e-6)
}

func TestUpdate_ForwardMovesTowardTarget(t *testing.T) {
	s := newTestScene(t, camera.WithPosition(mgl32.Vec3{0, 0, -3}), camera.WithDirection(mgl32.Vec3{0, 0, 1}))
	in := input.NewState()
	in.SetKey(common.KeyW, true)

	s.Update(in, in, 0.5)
	assert.True(t, s.Camera().Get().Position().ApproxEqualThreshold(mgl32.Vec3{0, 0, -2}, 1e-5))
}
