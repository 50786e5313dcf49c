package model

import (
	_ "embed"
	"encoding/binary"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-sandbox/common"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

// GPUVertexSource is the canonical WGSL definition of the VertexInput struct.
//
//go:embed assets/vertex.wgsl
var GPUVertexSource string

// GPUObjectSource is the canonical WGSL definition of the ObjectUniform struct.
//
//go:embed assets/object.wgsl
var GPUObjectSource string

// VertexSize is the stride of one Vertex in a vertex buffer.
const VertexSize = 32

// Vertex is a single mesh vertex as produced by the importer.
// Tightly packed to match the pipeline's vertex layout.
// Size: 32 bytes.
type Vertex struct {
	Position [3]float32 // offset  0: model-space position (location 0)
	Normal   [3]float32 // offset 12: surface normal (location 1)
	UV       [2]float32 // offset 24: texture coordinate (location 2)
}

// Size returns the size of the Vertex struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (32)
func (v *Vertex) Size() int {
	return int(unsafe.Sizeof(*v))
}

// VertexBufferLayout describes the Vertex layout to the render pipeline.
//
// Returns:
//   - wgpu.VertexBufferLayout: stride 32 with position, normal and uv attributes
func VertexBufferLayout() wgpu.VertexBufferLayout {
	return wgpu.VertexBufferLayout{
		ArrayStride: VertexSize,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
			{Format: wgpu.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1},
			{Format: wgpu.VertexFormatFloat32x2, Offset: 24, ShaderLocation: 2},
		},
	}
}

// MarshalVertices packs vertices back to back for a vertex buffer upload.
//
// Parameters:
//   - vertices: the vertices to pack
//
// Returns:
//   - []byte: len(vertices) * 32 bytes
func MarshalVertices(vertices []Vertex) []byte {
	buf := make([]byte, len(vertices)*VertexSize)
	for i, v := range vertices {
		off := common.PutFloat32s(buf, i*VertexSize, v.Position[:]...)
		off = common.PutFloat32s(buf, off, v.Normal[:]...)
		common.PutFloat32s(buf, off, v.UV[:]...)
	}
	return buf
}

// MarshalIndices packs 32-bit indices little-endian for an index buffer upload.
//
// Parameters:
//   - indices: the indices to pack
//
// Returns:
//   - []byte: len(indices) * 4 bytes
func MarshalIndices(indices []uint32) []byte {
	buf := make([]byte, len(indices)*4)
	for i, idx := range indices {
		binary.LittleEndian.PutUint32(buf[i*4:], idx)
	}
	return buf
}

// ObjectSize is the size of one Object uniform buffer.
const ObjectSize = 80

// Object is the per-object uniform: a model transform and a metallic factor.
// Marshal pads it to 80 bytes to satisfy WGSL uniform alignment.
type Object struct {
	Model    mgl32.Mat4
	Metallic float32
}

// NewObject creates an Object.
//
// Parameters:
//   - model: the model-to-world transform
//   - metallic: the metallic factor in [0, 1]
//
// Returns:
//   - Object: the object
func NewObject(model mgl32.Mat4, metallic float32) Object {
	return Object{Model: model, Metallic: metallic}
}

// Marshal serializes the Object into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 80-byte buffer (64 matrix, 4 metallic, 12 padding)
func (o *Object) Marshal() []byte {
	buf := make([]byte, ObjectSize)
	off := common.PutFloat32s(buf, 0, o.Model[:]...)
	common.PutFloat32s(buf, off, o.Metallic)
	return buf
}
