package input

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-sandbox/common"
	"github.com/stretchr/testify/assert"
)

func TestState_MissingKeysAreReleased(t *testing.T) {
	s := NewState()
	assert.False(t, s.Pressed(common.KeyW))

	s.SetKey(common.KeyW, true)
	assert.True(t, s.Pressed(common.KeyW))

	s.SetKey(common.KeyW, false)
	assert.False(t, s.Pressed(common.KeyW))
}

func TestState_DrainSumsAndEmpties(t *testing.T) {
	s := NewState()
	s.Push(1, 2)
	s.Push(3, -1)
	assert.Equal(t, 2, s.Pending())

	dx, dy := s.Drain()
	assert.Equal(t, float32(4), dx)
	assert.Equal(t, float32(1), dy)
	assert.Equal(t, 0, s.Pending())

	dx, dy = s.Drain()
	assert.Zero(t, dx)
	assert.Zero(t, dy)
}

func TestAxis(t *testing.T) {
	s := NewState()
	assert.Equal(t, float32(0), Axis(s, common.KeyW, common.KeyS))

	s.SetKey(common.KeyW, true)
	assert.Equal(t, float32(1), Axis(s, common.KeyW, common.KeyS))

	s.SetKey(common.KeyS, true)
	assert.Equal(t, float32(0), Axis(s, common.KeyW, common.KeyS))

	s.SetKey(common.KeyW, false)
	assert.Equal(t, float32(-1), Axis(s, common.KeyW, common.KeyS))
}
