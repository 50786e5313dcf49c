package light

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readFloat(buf []byte, off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[off:]))
}

func TestPointLight_Layout(t *testing.T) {
	p := NewPointLight([3]float32{0, 1, -2}, [3]float32{1, 0.5, 0.25}, 5)
	require.Equal(t, PointLightSize, p.Size())

	buf := p.Marshal()
	require.Len(t, buf, 32)
	assert.Equal(t, float32(-2), readFloat(buf, 8))
	assert.Equal(t, float32(0), readFloat(buf, 12))
	assert.Equal(t, float32(1), readFloat(buf, 16))
	assert.Equal(t, float32(0.25), readFloat(buf, 24))
	assert.Equal(t, float32(5), readFloat(buf, 28))
}

func TestDirectionalLight_Layout(t *testing.T) {
	d := NewDirectionalLight([3]float32{1, 2, 3}, [3]float32{0, -1, 0}, [3]float32{1, 1, 1}, 0.8)
	require.Equal(t, DirectionalLightSize, d.Size())

	buf := d.Marshal()
	require.Len(t, buf, 48)
	assert.Equal(t, float32(3), readFloat(buf, 8))
	assert.Equal(t, float32(-1), readFloat(buf, 20))
	assert.Equal(t, float32(1), readFloat(buf, 32))
	assert.Equal(t, float32(0.8), readFloat(buf, 44))
}

func TestMarshalLights_Packed(t *testing.T) {
	points := []PointLight{
		NewPointLight([3]float32{1, 0, 0}, [3]float32{1, 1, 1}, 1),
		NewPointLight([3]float32{2, 0, 0}, [3]float32{1, 1, 1}, 2),
	}
	buf := MarshalPointLights(points)
	require.Len(t, buf, 64)
	assert.Equal(t, float32(2), readFloat(buf, 32))
	assert.Equal(t, float32(2), readFloat(buf, 60))

	assert.Empty(t, MarshalDirectionalLights(nil))
}
