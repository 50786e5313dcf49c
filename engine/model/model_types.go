package model

import "fmt"

// ImportedModel is triangulated, single-indexed mesh data ready for upload.
// It is immutable once handed to the renderer.
type ImportedModel struct {
	// Name identifies the model in logs, usually its source path.
	Name string

	// Vertices holds one entry per unique position/normal/uv combination.
	Vertices []Vertex

	// Indices holds three entries per triangle, each indexing Vertices.
	Indices []uint32
}

// IndexCount returns the number of indices to draw.
func (m *ImportedModel) IndexCount() uint32 {
	return uint32(len(m.Indices))
}

// Validate checks that the model can be uploaded and drawn.
//
// Returns:
//   - error: non-nil if the model is empty, not triangulated, or indexes out of range
func (m *ImportedModel) Validate() error {
	if len(m.Vertices) == 0 || len(m.Indices) == 0 {
		return fmt.Errorf("model %q has no geometry", m.Name)
	}
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("model %q has %d indices, not a multiple of 3", m.Name, len(m.Indices))
	}
	for i, idx := range m.Indices {
		if int(idx) >= len(m.Vertices) {
			return fmt.Errorf("model %q index %d references vertex %d of %d", m.Name, i, idx, len(m.Vertices))
		}
	}
	return nil
}
