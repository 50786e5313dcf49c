package common

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoalesce(t *testing.T) {
	assert.Equal(t, "b", Coalesce("", "b", "c"))
	assert.Equal(t, 0, Coalesce(0, 0))
	assert.Equal(t, float32(0.5), Coalesce(float32(0), float32(0.5)))
}

func TestPutFloat32s(t *testing.T) {
	buf := make([]byte, 16)
	end := PutFloat32s(buf, 4, 1.5, -2)

	assert.Equal(t, 12, end)
	assert.Equal(t, uint32(0), binary.LittleEndian.Uint32(buf[0:]))
	assert.Equal(t, float32(1.5), math.Float32frombits(binary.LittleEndian.Uint32(buf[4:])))
	assert.Equal(t, float32(-2), math.Float32frombits(binary.LittleEndian.Uint32(buf[8:])))
}
