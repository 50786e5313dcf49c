package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-sandbox/common"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/cache"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/camera"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/input"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/renderer"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/scene"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/surface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type calls struct{ log []string }

func (c *calls) add(s string) { c.log = append(c.log, s) }

type recordingScene struct {
	scene.Scene
	calls *calls
	dts   []float32
}

func (s *recordingScene) Update(keys input.KeyState, mouse input.MouseAccumulator, deltaTime float32) {
	s.calls.add("update")
	s.dts = append(s.dts, deltaTime)
	s.Scene.Update(keys, mouse, deltaTime)
}

type fakeResources struct {
	calls   *calls
	syncErr error
	pass    renderer.RenderPass
}

func (r *fakeResources) Sync(scn scene.Scene) error {
	r.calls.add("sync")
	return r.syncErr
}

func (r *fakeResources) Draw(pass renderer.RenderPass) {
	r.calls.add("draw")
	r.pass = pass
}

type fakePass struct{ renderer.RenderPass }

type fakeFrame struct{ pass renderer.RenderPass }

func (f *fakeFrame) RenderPass() renderer.RenderPass { return f.pass }

type fakeFrames struct {
	calls     *calls
	frame     surface.Frame
	beginErr  error
	endErr    error
	resizes   [][2]int
	cam       *cache.Cache[camera.Camera]
	resizeErr error
}

func (f *fakeFrames) Resize(width, height int, cam *cache.Cache[camera.Camera]) error {
	f.resizes = append(f.resizes, [2]int{width, height})
	f.cam = cam
	return f.resizeErr
}

func (f *fakeFrames) BeginFrame() (surface.Frame, error) {
	f.calls.add("begin")
	return f.frame, f.beginErr
}

func (f *fakeFrames) EndFrame() error {
	f.calls.add("end")
	return f.endErr
}

// countingPump runs the loop for n iterations.
type countingPump struct{ n int }

func (p *countingPump) PollEvents() bool {
	if p.n == 0 {
		return false
	}
	p.n--
	return true
}

type fixture struct {
	calls     *calls
	scene     *recordingScene
	resources *fakeResources
	frames    *fakeFrames
	pass      *fakePass
}

func newFixture() *fixture {
	c := &calls{}
	pass := &fakePass{}
	return &fixture{
		calls:     c,
		scene:     &recordingScene{Scene: scene.NewScene("test", camera.NewCamera()), calls: c},
		resources: &fakeResources{calls: c},
		frames:    &fakeFrames{calls: c, frame: &fakeFrame{pass: pass}},
		pass:      pass,
	}
}

func (f *fixture) engine(t *testing.T, options ...EngineBuilderOption) Engine {
	e, err := NewEngine(f.scene, f.resources, f.frames, options...)
	require.NoError(t, err)
	return e
}

func TestNewEngineRequiresCollaborators(t *testing.T) {
	f := newFixture()
	_, err := NewEngine(nil, f.resources, f.frames)
	assert.Error(t, err)
	_, err = NewEngine(f.scene, nil, f.frames)
	assert.Error(t, err)
	_, err = NewEngine(f.scene, f.resources, nil)
	assert.Error(t, err)
}

func TestTickOrder(t *testing.T) {
	f := newFixture()
	e := f.engine(t)

	require.NoError(t, e.Tick(0.016))
	assert.Equal(t, []string{"update", "sync", "begin", "draw", "end"}, f.calls.log)
	assert.Same(t, f.pass, f.resources.pass)
	assert.Equal(t, []float32{0.016}, f.scene.dts)
}

func TestTickFeedsBufferedInput(t *testing.T) {
	f := newFixture()
	e := f.engine(t)
	e.Input().Push(3, 4)
	e.Input().SetKey(common.KeyW, true)

	require.NoError(t, e.Tick(0.016))
	assert.Zero(t, e.Input().Pending(), "the scene drains the mouse buffer")
	assert.True(t, e.Scene().Camera().IsDirty())
}

func TestTickDroppedFrameSkipsDraw(t *testing.T) {
	f := newFixture()
	f.frames.frame = nil
	e := f.engine(t)

	require.NoError(t, e.Tick(0.016))
	assert.Equal(t, []string{"update", "sync", "begin"}, f.calls.log)
}

func TestTickSyncFailureStopsFrame(t *testing.T) {
	f := newFixture()
	f.resources.syncErr = renderer.ErrCapacityMismatch
	e := f.engine(t)

	err := e.Tick(0.016)
	assert.ErrorIs(t, err, renderer.ErrCapacityMismatch)
	assert.Equal(t, []string{"update", "sync"}, f.calls.log)
}

func TestTickFatalSurfaceError(t *testing.T) {
	f := newFixture()
	f.frames.frame = nil
	f.frames.beginErr = &surface.Error{Kind: surface.ErrorKindTimeout, Op: "acquire", Err: errors.New("timeout")}
	e := f.engine(t)

	var se *surface.Error
	assert.ErrorAs(t, e.Tick(0.016), &se)
}

func TestRunUsesInitialThenMeasuredDeltaTime(t *testing.T) {
	f := newFixture()
	clock := time.Unix(0, 0)
	now := func() time.Time {
		clock = clock.Add(5 * time.Millisecond)
		return clock
	}
	e := f.engine(t, WithEventPump(&countingPump{n: 3}), WithClock(now))
	assert.Equal(t, InitialDeltaTime, e.DeltaTime())

	require.NoError(t, e.Run())
	require.Len(t, f.scene.dts, 3)
	assert.Equal(t, InitialDeltaTime, f.scene.dts[0])
	assert.InDelta(t, 0.005, f.scene.dts[1], 1e-6)
	assert.InDelta(t, 0.005, f.scene.dts[2], 1e-6)
}

func TestRunStopsOnError(t *testing.T) {
	f := newFixture()
	f.frames.endErr = errors.New("boom")
	e := f.engine(t, WithEventPump(&countingPump{n: 10}))

	assert.EqualError(t, e.Run(), "boom")
	assert.Len(t, f.scene.dts, 1)
}

func TestQuit(t *testing.T) {
	f := newFixture()
	e := f.engine(t, WithEventPump(&countingPump{n: 10}))
	e.Quit()
	e.Quit()

	require.NoError(t, e.Run())
	assert.Empty(t, f.calls.log)
}

func TestResizePassesCamera(t *testing.T) {
	f := newFixture()
	e := f.engine(t)

	require.NoError(t, e.Resize(800, 600))
	assert.Equal(t, [][2]int{{800, 600}}, f.frames.resizes)
	assert.Same(t, e.Scene().Camera(), f.frames.cam)
}

func TestResizeCallbackFailureStopsRun(t *testing.T) {
	f := newFixture()
	f.frames.resizeErr = errors.New("configure failed")
	e := f.engine(t, WithEventPump(&countingPump{n: 10}))

	e.(*engine).onResize(800, 600)
	assert.EqualError(t, e.Run(), "configure failed")
	assert.Empty(t, f.calls.log)
}
