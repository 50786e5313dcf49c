package profiler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func TestTickReportsOncePerInterval(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	p := NewProfiler(WithInterval(time.Second), WithClock(clock.now))

	for i := 0; i < 59; i++ {
		clock.t = clock.t.Add(10 * time.Millisecond)
		assert.False(t, p.Tick())
	}
	clock.t = time.Unix(1, 0)
	assert.True(t, p.Tick())

	s := p.Last()
	assert.InDelta(t, 60.0, s.FPS, 1e-9)
	assert.Equal(t, time.Second/60, s.FrameTime)
	assert.Greater(t, s.SysMB, 0.0)

	clock.t = clock.t.Add(500 * time.Millisecond)
	assert.False(t, p.Tick(), "counter restarts after a report")
}

func TestWithIntervalIgnoresNonPositive(t *testing.T) {
	p := NewProfiler(WithInterval(0))
	assert.Equal(t, time.Second, p.updateInterval)
}
