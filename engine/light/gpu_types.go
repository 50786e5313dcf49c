package light

import (
	_ "embed"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-sandbox/common"
)

// GPUPointLightSource is the canonical WGSL definition of the PointLight struct.
//
//go:embed assets/point_light.wgsl
var GPUPointLightSource string

// GPUDirectionalLightSource is the canonical WGSL definition of the DirectionalLight struct.
//
//go:embed assets/directional_light.wgsl
var GPUDirectionalLightSource string

// PointLight is an omnidirectional light and its GPU-aligned storage layout.
// Matches the WGSL PointLight struct (see GPUPointLightSource).
// Size: 32 bytes (std430 aligned).
type PointLight struct {
	Position [3]float32 // offset  0: world-space position (vec3<f32>)
	_pad     float32    // offset 12: padding to 16 bytes
	Color    [3]float32 // offset 16: linear RGB color (vec3<f32>)
	Strength float32    // offset 28: scalar intensity
}

// NewPointLight creates a PointLight.
//
// Parameters:
//   - position: world-space position
//   - color: linear RGB color
//   - strength: scalar intensity
//
// Returns:
//   - PointLight: the light
func NewPointLight(position, color [3]float32, strength float32) PointLight {
	return PointLight{Position: position, Color: color, Strength: strength}
}

// Size returns the size of the PointLight struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (32)
func (p *PointLight) Size() int {
	return int(unsafe.Sizeof(*p))
}

// Marshal serializes the PointLight into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 32-byte buffer ready for GPU upload
func (p *PointLight) Marshal() []byte {
	buf := make([]byte, p.Size())
	p.marshalInto(buf)
	return buf
}

func (p *PointLight) marshalInto(buf []byte) {
	off := common.PutFloat32s(buf, 0, p.Position[:]...)
	off = common.PutFloat32s(buf, off, 0) // _pad
	off = common.PutFloat32s(buf, off, p.Color[:]...)
	common.PutFloat32s(buf, off, p.Strength)
}

// DirectionalLight is a light at infinity shining along Direction, with its GPU-aligned storage layout.
// Position is kept for debugging and shadow placement; the shader lights with Direction only.
// Size: 48 bytes (std430 aligned).
type DirectionalLight struct {
	Position  [3]float32 // offset  0: world-space position (vec3<f32>)
	_pad0     float32    // offset 12
	Direction [3]float32 // offset 16: direction the light travels (vec3<f32>)
	_pad1     float32    // offset 28
	Color     [3]float32 // offset 32: linear RGB color (vec3<f32>)
	Strength  float32    // offset 44: scalar intensity
}

// NewDirectionalLight creates a DirectionalLight.
//
// Parameters:
//   - position: world-space position
//   - direction: direction the light travels
//   - color: linear RGB color
//   - strength: scalar intensity
//
// Returns:
//   - DirectionalLight: the light
func NewDirectionalLight(position, direction, color [3]float32, strength float32) DirectionalLight {
	return DirectionalLight{Position: position, Direction: direction, Color: color, Strength: strength}
}

// Size returns the size of the DirectionalLight struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (48)
func (d *DirectionalLight) Size() int {
	return int(unsafe.Sizeof(*d))
}

// Marshal serializes the DirectionalLight into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 48-byte buffer ready for GPU upload
func (d *DirectionalLight) Marshal() []byte {
	buf := make([]byte, d.Size())
	d.marshalInto(buf)
	return buf
}

func (d *DirectionalLight) marshalInto(buf []byte) {
	off := common.PutFloat32s(buf, 0, d.Position[:]...)
	off = common.PutFloat32s(buf, off, 0)
	off = common.PutFloat32s(buf, off, d.Direction[:]...)
	off = common.PutFloat32s(buf, off, 0)
	off = common.PutFloat32s(buf, off, d.Color[:]...)
	common.PutFloat32s(buf, off, d.Strength)
}

// PointLightSize is the stride of one PointLight in the storage buffer.
const PointLightSize = 32

// DirectionalLightSize is the stride of one DirectionalLight in the storage buffer.
const DirectionalLightSize = 48

// MarshalPointLights packs lights back to back for a storage buffer upload.
//
// Parameters:
//   - lights: the lights to pack
//
// Returns:
//   - []byte: len(lights) * 32 bytes
func MarshalPointLights(lights []PointLight) []byte {
	buf := make([]byte, len(lights)*PointLightSize)
	for i := range lights {
		lights[i].marshalInto(buf[i*PointLightSize:])
	}
	return buf
}

// MarshalDirectionalLights packs lights back to back for a storage buffer upload.
//
// Parameters:
//   - lights: the lights to pack
//
// Returns:
//   - []byte: len(lights) * 48 bytes
func MarshalDirectionalLights(lights []DirectionalLight) []byte {
	buf := make([]byte, len(lights)*DirectionalLightSize)
	for i := range lights {
		lights[i].marshalInto(buf[i*DirectionalLightSize:])
	}
	return buf
}
