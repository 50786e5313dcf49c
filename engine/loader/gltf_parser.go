package loader

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
)

var (
	errInvalidGLTFVersion = errors.New("invalid glTF version: must be 2.0")
	errInvalidGLBMagic    = errors.New("invalid GLB magic number")
	errInvalidGLBVersion  = errors.New("invalid GLB version: must be 2")
	errMissingJSONChunk   = errors.New("GLB file missing JSON chunk")
	errInvalidBufferURI   = errors.New("invalid buffer URI")
	errBufferSizeMismatch = errors.New("buffer size mismatch")
	errAccessorRange      = errors.New("accessor reads past the end of its buffer")
)

// gltfParser decodes a glTF JSON or GLB document, resolves its buffers, and reads accessors.
type gltfParser struct {
	// baseDir resolves relative buffer URIs. Empty for reader input, which then only
	// supports embedded (data: URI or GLB) buffers.
	baseDir        string
	document       *gltfDocument
	glbBinaryChunk []byte
}

// isGLB reports whether data starts with the GLB magic number.
func isGLB(data []byte) bool {
	return len(data) >= 4 && binary.LittleEndian.Uint32(data[:4]) == gltfGLBMagic
}

// parseFile reads and parses a .gltf or .glb file.
func (p *gltfParser) parseFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	p.baseDir = filepath.Dir(path)
	return p.parse(data)
}

// parseReader parses a glTF or GLB stream, detecting GLB by its magic number.
func (p *gltfParser) parseReader(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read data: %w", err)
	}
	return p.parse(data)
}

func (p *gltfParser) parse(data []byte) error {
	jsonData := data
	if isGLB(data) {
		var err error
		if jsonData, err = p.splitGLB(data); err != nil {
			return err
		}
	}

	var doc gltfDocument
	if err := json.Unmarshal(jsonData, &doc); err != nil {
		return fmt.Errorf("failed to parse glTF JSON: %w", err)
	}
	if !strings.HasPrefix(doc.Asset.Version, "2.") {
		return errInvalidGLTFVersion
	}
	if err := p.loadBuffers(&doc); err != nil {
		return fmt.Errorf("failed to load buffers: %w", err)
	}
	p.document = &doc
	return nil
}

// splitGLB validates the GLB header and returns the JSON chunk, keeping the BIN chunk.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#glb-file-format-specification
func (p *gltfParser) splitGLB(data []byte) ([]byte, error) {
	r := bytes.NewReader(data)

	var header gltfGLBHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("failed to read GLB header: %w", err)
	}
	if header.Magic != gltfGLBMagic {
		return nil, errInvalidGLBMagic
	}
	if header.Version != gltfGLBVersion {
		return nil, errInvalidGLBVersion
	}

	var jsonData []byte
	for {
		var chunk gltfGLBChunkHeader
		if err := binary.Read(r, binary.LittleEndian, &chunk); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to read chunk header: %w", err)
		}
		if int64(chunk.ChunkLength) > int64(r.Len()) {
			return nil, fmt.Errorf("chunk length %d exceeds remaining %d bytes", chunk.ChunkLength, r.Len())
		}
		body := make([]byte, chunk.ChunkLength)
		if _, err := io.ReadFull(r, body); err != nil {
			return nil, fmt.Errorf("failed to read chunk data: %w", err)
		}
		switch chunk.ChunkType {
		case gltfGLBChunkJSON:
			jsonData = body
		case gltfGLBChunkBIN:
			p.glbBinaryChunk = body
		}
	}
	if jsonData == nil {
		return nil, errMissingJSONChunk
	}
	return jsonData, nil
}

// loadBuffers fills every buffer from its URI, an embedded data URI, or the GLB BIN chunk.
func (p *gltfParser) loadBuffers(doc *gltfDocument) error {
	for i := range doc.Buffers {
		buf := &doc.Buffers[i]

		switch {
		case buf.URI == "" && i == 0 && p.glbBinaryChunk != nil:
			buf.Data = p.glbBinaryChunk
		case buf.URI == "":
			return fmt.Errorf("buffer %d has no URI and no GLB binary chunk", i)
		case strings.HasPrefix(buf.URI, "data:"):
			data, err := decodeDataURI(buf.URI)
			if err != nil {
				return fmt.Errorf("buffer %d: %w", i, err)
			}
			buf.Data = data
		default:
			if p.baseDir == "" {
				return fmt.Errorf("buffer %d: external URI %q needs a file path", i, buf.URI)
			}
			data, err := os.ReadFile(filepath.Join(p.baseDir, buf.URI))
			if err != nil {
				return fmt.Errorf("buffer %d: failed to load %q: %w", i, buf.URI, err)
			}
			buf.Data = data
		}

		if len(buf.Data) < buf.ByteLength {
			return fmt.Errorf("buffer %d: %w", i, errBufferSizeMismatch)
		}
	}
	return nil
}

// decodeDataURI decodes a base64 data URI: data:[<mediatype>];base64,<data>
func decodeDataURI(uri string) ([]byte, error) {
	header, payload, ok := strings.Cut(strings.TrimPrefix(uri, "data:"), ",")
	if !ok {
		return nil, errInvalidBufferURI
	}
	if !strings.HasSuffix(header, ";base64") {
		return nil, fmt.Errorf("unsupported data URI encoding: %s", header)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64: %w", err)
	}
	return data, nil
}

// accessor returns the accessor at index after checking it can be read.
func (p *gltfParser) accessor(index int) (*gltfAccessor, error) {
	if p.document == nil {
		return nil, errors.New("no document loaded")
	}
	if index < 0 || index >= len(p.document.Accessors) {
		return nil, fmt.Errorf("accessor index %d out of range", index)
	}
	acc := &p.document.Accessors[index]
	if acc.Sparse != nil {
		return nil, fmt.Errorf("accessor %d: sparse accessors are not supported", index)
	}
	if acc.BufferView == nil || *acc.BufferView < 0 || *acc.BufferView >= len(p.document.BufferViews) {
		return nil, fmt.Errorf("accessor %d has no valid bufferView", index)
	}
	return acc, nil
}

// elements calls fn with the bytes of each element of an accessor, honouring byte stride.
func (p *gltfParser) elements(acc *gltfAccessor, elementSize int, fn func(i int, b []byte)) error {
	bv := &p.document.BufferViews[*acc.BufferView]
	if bv.Buffer < 0 || bv.Buffer >= len(p.document.Buffers) {
		return fmt.Errorf("bufferView references missing buffer %d", bv.Buffer)
	}
	data := p.document.Buffers[bv.Buffer].Data

	stride := elementSize
	if bv.ByteStride != nil && *bv.ByteStride > 0 {
		stride = *bv.ByteStride
	}
	start := bv.ByteOffset + acc.ByteOffset
	if acc.Count > 0 && start+(acc.Count-1)*stride+elementSize > len(data) {
		return errAccessorRange
	}
	for i := 0; i < acc.Count; i++ {
		off := start + i*stride
		fn(i, data[off:off+elementSize])
	}
	return nil
}

// readFloats reads a FLOAT accessor of the given type into n-component tuples.
func (p *gltfParser) readFloats(index int, accessorType string, n int) ([][]float32, error) {
	acc, err := p.accessor(index)
	if err != nil {
		return nil, err
	}
	if acc.Type != accessorType || acc.ComponentType != gltfComponentTypeFloat {
		return nil, fmt.Errorf("accessor %d is not %s FLOAT: type=%s, componentType=%d", index, accessorType, acc.Type, acc.ComponentType)
	}
	out := make([][]float32, acc.Count)
	err = p.elements(acc, 4*n, func(i int, b []byte) {
		v := make([]float32, n)
		for c := range v {
			v[c] = math.Float32frombits(binary.LittleEndian.Uint32(b[4*c:]))
		}
		out[i] = v
	})
	return out, err
}

// readVec3 reads a VEC3 FLOAT accessor.
func (p *gltfParser) readVec3(index int) ([][3]float32, error) {
	raw, err := p.readFloats(index, gltfAccessorTypeVec3, 3)
	if err != nil {
		return nil, err
	}
	out := make([][3]float32, len(raw))
	for i, v := range raw {
		out[i] = [3]float32{v[0], v[1], v[2]}
	}
	return out, nil
}

// readVec2 reads a VEC2 FLOAT accessor.
func (p *gltfParser) readVec2(index int) ([][2]float32, error) {
	raw, err := p.readFloats(index, gltfAccessorTypeVec2, 2)
	if err != nil {
		return nil, err
	}
	out := make([][2]float32, len(raw))
	for i, v := range raw {
		out[i] = [2]float32{v[0], v[1]}
	}
	return out, nil
}

// readIndices reads a SCALAR index accessor of any unsigned component type as uint32.
func (p *gltfParser) readIndices(index int) ([]uint32, error) {
	acc, err := p.accessor(index)
	if err != nil {
		return nil, err
	}
	if acc.Type != gltfAccessorTypeScalar {
		return nil, fmt.Errorf("index accessor %d is not SCALAR: type=%s", index, acc.Type)
	}

	out := make([]uint32, acc.Count)
	switch acc.ComponentType {
	case gltfComponentTypeUnsignedByte:
		err = p.elements(acc, 1, func(i int, b []byte) { out[i] = uint32(b[0]) })
	case gltfComponentTypeUnsignedShort:
		err = p.elements(acc, 2, func(i int, b []byte) { out[i] = uint32(binary.LittleEndian.Uint16(b)) })
	case gltfComponentTypeUnsignedInt:
		err = p.elements(acc, 4, func(i int, b []byte) { out[i] = binary.LittleEndian.Uint32(b) })
	default:
		return nil, fmt.Errorf("unsupported index component type: %d", acc.ComponentType)
	}
	return out, err
}
