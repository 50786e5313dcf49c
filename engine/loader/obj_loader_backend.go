package loader

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/Carmen-Shannon/oxy-sandbox/engine/model"
)

// objLoaderBackend imports Wavefront OBJ geometry. Faces are fan-triangulated and every unique
// position/uv/normal triple becomes one vertex, so the output is single-indexed.
// Materials, groups, points and lines are ignored.
type objLoaderBackend struct{}

var _ loaderBackend = &objLoaderBackend{}

// objCorner is one face corner's resolved attribute indices (-1 when absent).
type objCorner struct {
	position, uv, normal int
}

func (b *objLoaderBackend) Load(path string) (*model.ImportedModel, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	return b.LoadReader(path, f)
}

func (b *objLoaderBackend) LoadReader(name string, r io.Reader) (*model.ImportedModel, error) {
	var (
		positions [][3]float32
		normals   [][3]float32
		uvs       [][2]float32
	)
	out := &model.ImportedModel{Name: name}
	seen := make(map[objCorner]uint32)

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		fields := strings.Fields(line)

		switch fields[0] {
		case "v":
			v, err := parseFloats(fields[1:], 3)
			if err != nil {
				return nil, fmt.Errorf("%s:%d: %w", name, lineNo, err)
			}
			positions = append(positions, [3]float32{v[0], v[1], v[2]})
		case "vn":
			v, err := parseFloats(fields[1:], 3)
			if err != nil {
				return nil, fmt.Errorf("%s:%d: %w", name, lineNo, err)
			}
			normals = append(normals, [3]float32{v[0], v[1], v[2]})
		case "vt":
			v, err := parseFloats(fields[1:], 2)
			if err != nil {
				return nil, fmt.Errorf("%s:%d: %w", name, lineNo, err)
			}
			uvs = append(uvs, [2]float32{v[0], v[1]})
		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("%s:%d: face needs at least 3 corners", name, lineNo)
			}
			corners := make([]objCorner, 0, len(fields)-1)
			for _, tok := range fields[1:] {
				c, err := parseCorner(tok, len(positions), len(uvs), len(normals))
				if err != nil {
					return nil, fmt.Errorf("%s:%d: %w", name, lineNo, err)
				}
				corners = append(corners, c)
			}

			// Fan triangulation around the first corner.
			for i := 1; i+1 < len(corners); i++ {
				for _, c := range [3]objCorner{corners[0], corners[i], corners[i+1]} {
					idx, ok := seen[c]
					if !ok {
						idx = uint32(len(out.Vertices))
						seen[c] = idx
						out.Vertices = append(out.Vertices, buildVertex(c, positions, uvs, normals))
					}
					out.Indices = append(out.Indices, idx)
				}
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}

func buildVertex(c objCorner, positions [][3]float32, uvs [][2]float32, normals [][3]float32) model.Vertex {
	v := model.Vertex{Position: positions[c.position]}
	if c.uv >= 0 {
		v.UV = uvs[c.uv]
	}
	if c.normal >= 0 {
		v.Normal = normals[c.normal]
	}
	return v
}

// parseCorner parses "v", "v/vt", "v//vn" or "v/vt/vn" into zero-based indices.
func parseCorner(tok string, nPositions, nUVs, nNormals int) (objCorner, error) {
	parts := strings.Split(tok, "/")
	if len(parts) > 3 {
		return objCorner{}, fmt.Errorf("malformed face corner %q", tok)
	}

	c := objCorner{position: -1, uv: -1, normal: -1}
	var err error
	if c.position, err = resolveIndex(parts[0], nPositions); err != nil {
		return objCorner{}, err
	}
	if c.position < 0 {
		return objCorner{}, fmt.Errorf("face corner %q has no position", tok)
	}
	if len(parts) > 1 && parts[1] != "" {
		if c.uv, err = resolveIndex(parts[1], nUVs); err != nil {
			return objCorner{}, err
		}
	}
	if len(parts) > 2 && parts[2] != "" {
		if c.normal, err = resolveIndex(parts[2], nNormals); err != nil {
			return objCorner{}, err
		}
	}
	return c, nil
}

// resolveIndex converts a one-based (or negative, relative) OBJ index to a zero-based one.
func resolveIndex(s string, count int) (int, error) {
	if s == "" {
		return -1, nil
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid index %q: %w", s, err)
	}
	switch {
	case i > 0:
		i--
	case i < 0:
		i += count
	default:
		return 0, fmt.Errorf("index 0 is not valid in OBJ")
	}
	if i < 0 || i >= count {
		return 0, fmt.Errorf("index %s out of range (%d elements)", s, count)
	}
	return i, nil
}

func parseFloats(fields []string, n int) ([]float32, error) {
	if len(fields) < n {
		return nil, fmt.Errorf("expected %d components, got %d", n, len(fields))
	}
	out := make([]float32, n)
	for i := range n {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: %w", fields[i], err)
		}
		out[i] = float32(f)
	}
	return out, nil
}
