package loader

import (
	"fmt"
	"io"

	"github.com/Carmen-Shannon/oxy-sandbox/common"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/model"
	"github.com/go-gl/mathgl/mgl32"
)

// maxNodeDepth bounds node hierarchy traversal so malformed cyclic documents terminate.
const maxNodeDepth = 64

// gltfLoaderBackend imports the static triangle geometry of a glTF 2.0 (.gltf or .glb) document.
// Every mesh instance in the default scene is baked into one model with its node transform
// applied. Materials, skins, morph targets and animations are ignored.
type gltfLoaderBackend struct{}

var _ loaderBackend = &gltfLoaderBackend{}

// gltfInstance is one mesh placed in the world by a node.
type gltfInstance struct {
	mesh  int
	world mgl32.Mat4
}

func (b *gltfLoaderBackend) Load(path string) (*model.ImportedModel, error) {
	p := &gltfParser{}
	if err := p.parseFile(path); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return buildGLTFModel(path, p)
}

func (b *gltfLoaderBackend) LoadReader(name string, r io.Reader) (*model.ImportedModel, error) {
	p := &gltfParser{}
	if err := p.parseReader(r); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return buildGLTFModel(name, p)
}

func buildGLTFModel(name string, p *gltfParser) (*model.ImportedModel, error) {
	instances, err := gltfInstances(p.document)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	out := &model.ImportedModel{Name: name}
	for _, inst := range instances {
		mesh := &p.document.Meshes[inst.mesh]
		for pi := range mesh.Primitives {
			prim := &mesh.Primitives[pi]
			if prim.Mode != nil && *prim.Mode != gltfPrimitiveModeTriangles {
				common.Logger().Debug("skipping non-triangle primitive", "model", name, "mesh", inst.mesh, "primitive", pi, "mode", *prim.Mode)
				continue
			}
			if err := appendPrimitive(out, p, prim, inst.world); err != nil {
				return nil, fmt.Errorf("%s: mesh %d primitive %d: %w", name, inst.mesh, pi, err)
			}
		}
	}
	if len(out.Indices) == 0 {
		return nil, fmt.Errorf("%s: no triangle geometry", name)
	}
	return out, nil
}

// gltfInstances walks the default scene (or scene 0) and returns each mesh with its world transform.
// Documents without scenes place every mesh once at the origin.
func gltfInstances(doc *gltfDocument) ([]gltfInstance, error) {
	if len(doc.Scenes) == 0 {
		instances := make([]gltfInstance, len(doc.Meshes))
		for i := range doc.Meshes {
			instances[i] = gltfInstance{mesh: i, world: mgl32.Ident4()}
		}
		return instances, nil
	}

	sceneIndex := 0
	if doc.Scene != nil {
		sceneIndex = *doc.Scene
	}
	if sceneIndex < 0 || sceneIndex >= len(doc.Scenes) {
		return nil, fmt.Errorf("scene index %d out of range", sceneIndex)
	}

	var instances []gltfInstance
	var walk func(node int, parent mgl32.Mat4, depth int) error
	walk = func(node int, parent mgl32.Mat4, depth int) error {
		if node < 0 || node >= len(doc.Nodes) {
			return fmt.Errorf("node index %d out of range", node)
		}
		if depth > maxNodeDepth {
			return fmt.Errorf("node hierarchy deeper than %d", maxNodeDepth)
		}
		n := &doc.Nodes[node]
		world := parent.Mul4(n.localTransform())
		if n.Mesh != nil {
			if *n.Mesh < 0 || *n.Mesh >= len(doc.Meshes) {
				return fmt.Errorf("node %d references missing mesh %d", node, *n.Mesh)
			}
			instances = append(instances, gltfInstance{mesh: *n.Mesh, world: world})
		}
		for _, child := range n.Children {
			if err := walk(child, world, depth+1); err != nil {
				return err
			}
		}
		return nil
	}
	for _, root := range doc.Scenes[sceneIndex].Nodes {
		if err := walk(root, mgl32.Ident4(), 0); err != nil {
			return nil, err
		}
	}
	return instances, nil
}

// localTransform returns the node matrix, or T * R * S when the node uses TRS properties.
func (n *gltfNode) localTransform() mgl32.Mat4 {
	if n.Matrix != nil {
		return mgl32.Mat4(*n.Matrix)
	}
	m := mgl32.Ident4()
	if n.Translation != nil {
		t := n.Translation
		m = m.Mul4(mgl32.Translate3D(t[0], t[1], t[2]))
	}
	if n.Rotation != nil {
		r := n.Rotation
		m = m.Mul4(mgl32.Quat{W: r[3], V: mgl32.Vec3{r[0], r[1], r[2]}}.Normalize().Mat4())
	}
	if n.Scale != nil {
		s := n.Scale
		m = m.Mul4(mgl32.Scale3D(s[0], s[1], s[2]))
	}
	return m
}

// appendPrimitive transforms one triangle primitive into world space and appends it to out.
func appendPrimitive(out *model.ImportedModel, p *gltfParser, prim *gltfPrimitive, world mgl32.Mat4) error {
	posIndex, ok := prim.Attributes["POSITION"]
	if !ok {
		return fmt.Errorf("primitive has no POSITION attribute")
	}
	positions, err := p.readVec3(posIndex)
	if err != nil {
		return fmt.Errorf("POSITION: %w", err)
	}

	var normals [][3]float32
	if idx, ok := prim.Attributes["NORMAL"]; ok {
		if normals, err = p.readVec3(idx); err != nil {
			return fmt.Errorf("NORMAL: %w", err)
		}
		if len(normals) != len(positions) {
			return fmt.Errorf("NORMAL count %d does not match POSITION count %d", len(normals), len(positions))
		}
	}
	var uvs [][2]float32
	if idx, ok := prim.Attributes["TEXCOORD_0"]; ok {
		if uvs, err = p.readVec2(idx); err != nil {
			return fmt.Errorf("TEXCOORD_0: %w", err)
		}
		if len(uvs) != len(positions) {
			return fmt.Errorf("TEXCOORD_0 count %d does not match POSITION count %d", len(uvs), len(positions))
		}
	}

	var indices []uint32
	if prim.Indices != nil {
		if indices, err = p.readIndices(*prim.Indices); err != nil {
			return fmt.Errorf("indices: %w", err)
		}
	} else {
		indices = make([]uint32, len(positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}
	if len(indices)%3 != 0 {
		return fmt.Errorf("index count %d is not a multiple of 3", len(indices))
	}
	for _, idx := range indices {
		if int(idx) >= len(positions) {
			return fmt.Errorf("index %d out of range for %d vertices", idx, len(positions))
		}
	}

	normalMatrix := world.Mat3().Inv().Transpose()
	vertices := make([]model.Vertex, len(positions))
	for i, pos := range positions {
		v := &vertices[i]
		v.Position = world.Mul4x1(mgl32.Vec3(pos).Vec4(1)).Vec3()
		if normals != nil {
			v.Normal = common.SafeNormalize(normalMatrix.Mul3x1(mgl32.Vec3(normals[i])))
		}
		if uvs != nil {
			v.UV = uvs[i]
		}
	}

	// A mirroring transform flips winding; swap two corners to keep front faces front.
	if world.Det() < 0 {
		for i := 0; i < len(indices); i += 3 {
			indices[i+1], indices[i+2] = indices[i+2], indices[i+1]
		}
	}
	if normals == nil {
		generateNormals(vertices, indices)
	}

	base := uint32(len(out.Vertices))
	out.Vertices = append(out.Vertices, vertices...)
	for _, idx := range indices {
		out.Indices = append(out.Indices, base+idx)
	}
	return nil
}

// generateNormals fills smooth vertex normals from area-weighted face normals.
// Faces are taken as counter-clockwise from the front.
func generateNormals(vertices []model.Vertex, indices []uint32) {
	acc := make([]mgl32.Vec3, len(vertices))
	for i := 0; i+2 < len(indices); i += 3 {
		i0, i1, i2 := indices[i], indices[i+1], indices[i+2]
		p0 := mgl32.Vec3(vertices[i0].Position)
		p1 := mgl32.Vec3(vertices[i1].Position)
		p2 := mgl32.Vec3(vertices[i2].Position)
		// cross product length is twice the triangle area, which weights the sum
		n := p1.Sub(p0).Cross(p2.Sub(p0))
		acc[i0] = acc[i0].Add(n)
		acc[i1] = acc[i1].Add(n)
		acc[i2] = acc[i2].Add(n)
	}
	for i := range vertices {
		vertices[i].Normal = common.SafeNormalize(acc[i])
	}
}
