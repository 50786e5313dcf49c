package window

import (
	"sync"
	"testing"

	"github.com/Carmen-Shannon/oxy-sandbox/common"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/input"
	"github.com/stretchr/testify/assert"
)

func TestMotionTracker(t *testing.T) {
	var m motionTracker

	_, _, ok := m.move(100, 100)
	assert.False(t, ok, "first position only sets the origin")

	dx, dy, ok := m.move(103, 98)
	assert.True(t, ok)
	assert.Equal(t, float32(3), dx)
	assert.Equal(t, float32(-2), dy)

	m.reset()
	_, _, ok = m.move(500, 500)
	assert.False(t, ok, "reset discards the jump")

	dx, dy, _ = m.move(501, 500)
	assert.Equal(t, float32(1), dx)
	assert.Equal(t, float32(0), dy)
}

// unopened returns a window with no platform window behind it.
func unopened() *engineWindow {
	return &engineWindow{mu: &sync.Mutex{}, width: 1280, height: 720}
}

func TestBindInputRoutesEvents(t *testing.T) {
	w := unopened()
	state := input.NewState()
	BindInput(w, state)

	w.keyEvent(common.KeyW, true)
	w.cursorEvent(10, 10)
	w.cursorEvent(14, 7)
	w.cursorEvent(15, 7)

	assert.True(t, state.Pressed(common.KeyW))
	assert.Equal(t, 2, state.Pending())
	dx, dy := state.Drain()
	assert.Equal(t, float32(5), dx)
	assert.Equal(t, float32(-3), dy)

	w.keyEvent(common.KeyW, false)
	assert.False(t, state.Pressed(common.KeyW))
}

func TestUnopenedWindow(t *testing.T) {
	w := unopened()

	assert.False(t, w.IsRunning())
	assert.False(t, w.PollEvents())
	assert.Nil(t, w.SurfaceDescriptor())
	assert.Error(t, w.Close())

	width, height := w.FramebufferSize()
	assert.Equal(t, 1280, width)
	assert.Equal(t, 720, height)
}

func TestBuilderOptions(t *testing.T) {
	w := unopened()
	for _, opt := range []WindowBuilderOption{
		WithTitle("t"),
		WithSize(640, 480),
		WithMinSize(320, 240),
		WithMaxSize(1920, 1080),
		WithCaptureCursor(false),
	} {
		opt(w)
	}
	assert.Equal(t, "t", w.title)
	assert.Equal(t, 640, w.width)
	assert.Equal(t, 480, w.height)
	assert.Equal(t, 320, w.minWidth)
	assert.Equal(t, 1080, w.maxHeight)
	assert.False(t, w.captureCursor)
}
