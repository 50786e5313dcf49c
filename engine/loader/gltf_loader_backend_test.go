package loader

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// triangleBuffer packs three positions (36 bytes) followed by three uint16 indices.
func triangleBuffer() []byte {
	var buf bytes.Buffer
	for _, f := range []float32{0, 0, 0, 1, 0, 0, 0, 1, 0} {
		binary.Write(&buf, binary.LittleEndian, f)
	}
	for _, i := range []uint16{0, 1, 2} {
		binary.Write(&buf, binary.LittleEndian, i)
	}
	buf.Write([]byte{0, 0})
	return buf.Bytes()
}

// triangleDocument returns a glTF document for one triangle; uri is the buffer URI and node the
// JSON of the single node.
func triangleDocument(uri, node string) string {
	bufferURI := ""
	if uri != "" {
		bufferURI = fmt.Sprintf(`"uri": %q,`, uri)
	}
	return fmt.Sprintf(`{
  "asset": {"version": "2.0"},
  "scene": 0,
  "scenes": [{"nodes": [0]}],
  "nodes": [%s],
  "meshes": [{"primitives": [{"attributes": {"POSITION": 0}, "indices": 1}]}],
  "buffers": [{%s "byteLength": 44}],
  "bufferViews": [
    {"buffer": 0, "byteOffset": 0, "byteLength": 36},
    {"buffer": 0, "byteOffset": 36, "byteLength": 6}
  ],
  "accessors": [
    {"bufferView": 0, "componentType": 5126, "count": 3, "type": "VEC3"},
    {"bufferView": 1, "componentType": 5123, "count": 3, "type": "SCALAR"}
  ]
}`, node, bufferURI)
}

func dataURI(b []byte) string {
	return "data:application/octet-stream;base64," + base64.StdEncoding.EncodeToString(b)
}

func TestGLTF_EmbeddedBuffer(t *testing.T) {
	doc := triangleDocument(dataURI(triangleBuffer()), `{"mesh": 0}`)
	m, err := (&gltfLoaderBackend{}).LoadReader("tri.gltf", bytes.NewBufferString(doc))
	require.NoError(t, err)

	require.Len(t, m.Vertices, 3)
	assert.Equal(t, []uint32{0, 1, 2}, m.Indices)
	assert.Equal(t, [3]float32{1, 0, 0}, m.Vertices[1].Position)
	// missing normals are generated from the counter-clockwise face
	for _, v := range m.Vertices {
		assert.InDelta(t, 1.0, v.Normal[2], 1e-6)
	}
	require.NoError(t, m.Validate())
}

func TestGLTF_NodeTransformApplied(t *testing.T) {
	doc := triangleDocument(dataURI(triangleBuffer()), `{"mesh": 0, "translation": [10, 0, 0], "scale": [2, 2, 2]}`)
	m, err := (&gltfLoaderBackend{}).LoadReader("tri.gltf", bytes.NewBufferString(doc))
	require.NoError(t, err)

	assert.InDeltaSlice(t, []float32{12, 0, 0}, m.Vertices[1].Position[:], 1e-5)
	assert.InDeltaSlice(t, []float32{10, 2, 0}, m.Vertices[2].Position[:], 1e-5)
}

func TestGLTF_MirrorFlipsWinding(t *testing.T) {
	doc := triangleDocument(dataURI(triangleBuffer()), `{"mesh": 0, "scale": [-1, 1, 1]}`)
	m, err := (&gltfLoaderBackend{}).LoadReader("tri.gltf", bytes.NewBufferString(doc))
	require.NoError(t, err)

	assert.Equal(t, []uint32{0, 2, 1}, m.Indices)
	assert.InDelta(t, 1.0, m.Vertices[0].Normal[2], 1e-6, "normal still faces the original side")
}

func TestGLTF_GLB(t *testing.T) {
	jsonChunk := []byte(triangleDocument("", `{"mesh": 0}`))
	for len(jsonChunk)%4 != 0 {
		jsonChunk = append(jsonChunk, ' ')
	}
	bin := triangleBuffer()

	var glb bytes.Buffer
	total := 12 + 8 + len(jsonChunk) + 8 + len(bin)
	binary.Write(&glb, binary.LittleEndian, gltfGLBHeader{Magic: gltfGLBMagic, Version: gltfGLBVersion, Length: uint32(total)})
	binary.Write(&glb, binary.LittleEndian, gltfGLBChunkHeader{ChunkLength: uint32(len(jsonChunk)), ChunkType: gltfGLBChunkJSON})
	glb.Write(jsonChunk)
	binary.Write(&glb, binary.LittleEndian, gltfGLBChunkHeader{ChunkLength: uint32(len(bin)), ChunkType: gltfGLBChunkBIN})
	glb.Write(bin)

	m, err := (&gltfLoaderBackend{}).LoadReader("tri.glb", &glb)
	require.NoError(t, err)
	assert.Len(t, m.Indices, 3)
}

func TestGLTF_ExternalBufferFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tri.bin"), triangleBuffer(), 0o644))
	path := filepath.Join(dir, "tri.gltf")
	require.NoError(t, os.WriteFile(path, []byte(triangleDocument("tri.bin", `{"mesh": 0}`)), 0o644))

	l := NewLoader()
	m, err := l.Load(path)
	require.NoError(t, err)
	assert.Len(t, m.Vertices, 3)

	// external URIs cannot be resolved from a stream
	_, err = (&gltfLoaderBackend{}).LoadReader("tri.gltf", bytes.NewBufferString(triangleDocument("tri.bin", `{"mesh": 0}`)))
	assert.Error(t, err)
}

func TestGLTF_Errors(t *testing.T) {
	buf := dataURI(triangleBuffer())
	cases := map[string]string{
		"version":      `{"asset": {"version": "1.0"}}`,
		"json":         `{"asset":`,
		"no geometry":  `{"asset": {"version": "2.0"}}`,
		"missing node": triangleDocument(buf, `{"mesh": 0, "children": [7]}`),
		"missing mesh": triangleDocument(buf, `{"mesh": 3}`),
		"short buffer": triangleDocument(dataURI(triangleBuffer()[:20]), `{"mesh": 0}`),
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := (&gltfLoaderBackend{}).LoadReader(name, bytes.NewBufferString(doc))
			assert.Error(t, err)
		})
	}
}

func TestGLTF_CyclicNodesTerminate(t *testing.T) {
	doc := triangleDocument(dataURI(triangleBuffer()), `{"mesh": 0, "children": [0]}`)
	_, err := (&gltfLoaderBackend{}).LoadReader("cycle", bytes.NewBufferString(doc))
	assert.Error(t, err)
}
