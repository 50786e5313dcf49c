package camera

import (
	_ "embed"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-sandbox/common"
)

// GPUCameraUniformSource is the canonical WGSL definition of the CameraUniform struct.
//
//go:embed assets/camera_uniform.wgsl
var GPUCameraUniformSource string

// GPUCameraUniformSize is the size of the camera uniform buffer.
const GPUCameraUniformSize = 80

// GPUCameraUniform is the GPU-aligned representation of the camera uniform buffer.
// Matches the WGSL CameraUniform struct (see GPUCameraUniformSource).
// Size: 80 bytes (WGSL uniform aligned).
type GPUCameraUniform struct {
	Position [3]float32  // offset  0: world-space camera position (vec3<f32>)
	_pad     float32     // offset 12: padding to 16 bytes
	ViewProj [16]float32 // offset 16: projection * view (mat4x4<f32>, column-major)
}

// Size returns the size of the GPUCameraUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (80)
func (g *GPUCameraUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUCameraUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUCameraUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	off := common.PutFloat32s(buf, 0, g.Position[:]...)
	off = common.PutFloat32s(buf, off, 0) // _pad
	common.PutFloat32s(buf, off, g.ViewProj[:]...)
	return buf
}
