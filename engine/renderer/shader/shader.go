package shader

import (
	_ "embed"
	"errors"
	"fmt"
	"regexp"

	"github.com/cogentcore/webgpu/wgpu"
)

// MeshShaderSource is the annotated WGSL source of the lit mesh pipeline.
// It declares the POINT_LIGHT_COUNT and DIRECTIONAL_LIGHT_COUNT overrides.
//
//go:embed assets/mesh.wgsl
var MeshShaderSource string

const (
	// PointLightCountConstant is the override that sizes the point light loop.
	PointLightCountConstant = "POINT_LIGHT_COUNT"

	// DirectionalLightCountConstant is the override that sizes the directional light loop.
	DirectionalLightCountConstant = "DIRECTIONAL_LIGHT_COUNT"
)

// ErrMissingEntryPoint is returned when a render shader lacks a @vertex or @fragment function.
var ErrMissingEntryPoint = errors.New("shader: missing entry point")

var (
	vertexEntryPattern   = regexp.MustCompile(`@vertex\s+fn\s+([A-Za-z_][A-Za-z0-9_]*)`)
	fragmentEntryPattern = regexp.MustCompile(`@fragment\s+fn\s+([A-Za-z_][A-Za-z0-9_]*)`)
)

// shader is the implementation of the Shader interface.
type shader struct {
	key                        string
	source                     string
	vertexEntryPoint           string
	fragmentEntryPoint         string
	bindGroupLayoutDescriptors map[int]wgpu.BindGroupLayoutDescriptor
	bindingVarNames            map[int]map[int]string
	declarations               []Annotation
	module                     *wgpu.ShaderModuleDescriptor
}

// Shader is a pre-processed WGSL render shader with the metadata needed to build its pipeline.
type Shader interface {
	// Key retrieves the unique identifier for this shader, also used as the module label.
	//
	// Returns:
	//   - string: the shader's unique key
	Key() string

	// Source retrieves the pre-processed WGSL source.
	//
	// Returns:
	//   - string: WGSL ready for compilation
	Source() string

	// VertexEntryPoint returns the name of the @vertex function.
	//
	// Returns:
	//   - string: the vertex entry point
	VertexEntryPoint() string

	// FragmentEntryPoint returns the name of the @fragment function.
	//
	// Returns:
	//   - string: the fragment entry point
	FragmentEntryPoint() string

	// BindGroupLayoutDescriptors returns the layouts generated from the shader's @oxy:group
	// annotations, keyed by group index. Every binding is visible to both stages.
	//
	// Returns:
	//   - map[int]wgpu.BindGroupLayoutDescriptor: descriptors keyed by group index
	BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor

	// BindGroupVarName retrieves the WGSL variable name bound at a group and binding.
	//
	// Parameters:
	//   - group: the bind group index
	//   - binding: the binding index within the group
	//
	// Returns:
	//   - string: the variable name, or an empty string if not found
	BindGroupVarName(group, binding int) string

	// Declarations returns the @oxy:group annotations parsed from the source.
	//
	// Returns:
	//   - []Annotation: binding declarations in source order
	Declarations() []Annotation

	// Module returns the shader module descriptor built from the processed source.
	//
	// Returns:
	//   - *wgpu.ShaderModuleDescriptor: the WGSL module descriptor labelled with Key
	Module() *wgpu.ShaderModuleDescriptor
}

var _ Shader = &shader{}

// NewShader pre-processes source and extracts its entry points and bind group layouts.
//
// Parameters:
//   - key: a unique identifier for the shader
//   - source: annotated WGSL source
//   - options: pre-processor options, typically WithConstant/WithConstants
//
// Returns:
//   - Shader: the processed shader
//   - error: a pre-processing error or ErrMissingEntryPoint
func NewShader(key, source string, options ...PreProcessorBuilderOption) (Shader, error) {
	pp := NewPreProcessor(options...)
	processed, err := pp.Process(source)
	if err != nil {
		return nil, fmt.Errorf("shader %s: %w", key, err)
	}

	s := &shader{
		key:                        key,
		source:                     processed,
		bindGroupLayoutDescriptors: make(map[int]wgpu.BindGroupLayoutDescriptor),
		bindingVarNames:            make(map[int]map[int]string),
		declarations:               append([]Annotation(nil), pp.Declarations()...),
	}

	vm := vertexEntryPattern.FindStringSubmatch(processed)
	fm := fragmentEntryPattern.FindStringSubmatch(processed)
	if vm == nil || fm == nil {
		return nil, fmt.Errorf("shader %s: %w", key, ErrMissingEntryPoint)
	}
	s.vertexEntryPoint, s.fragmentEntryPoint = vm[1], fm[1]

	s.buildLayouts()
	s.module = &wgpu.ShaderModuleDescriptor{
		Label: key,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: processed,
		},
	}
	return s, nil
}

// NewMeshShader builds the lit mesh shader with its light loops sized to the given counts.
//
// Parameters:
//   - pointLights: number of point lights in the scene
//   - directionalLights: number of directional lights in the scene
//
// Returns:
//   - Shader: the processed mesh shader
//   - error: a pre-processing error
func NewMeshShader(pointLights, directionalLights int) (Shader, error) {
	return NewShader("mesh", MeshShaderSource,
		WithConstant(PointLightCountConstant, float64(pointLights)),
		WithConstant(DirectionalLightCountConstant, float64(directionalLights)),
	)
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) VertexEntryPoint() string {
	return s.vertexEntryPoint
}

func (s *shader) FragmentEntryPoint() string {
	return s.fragmentEntryPoint
}

func (s *shader) BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor {
	return s.bindGroupLayoutDescriptors
}

func (s *shader) BindGroupVarName(group, binding int) string {
	if s.bindingVarNames[group] == nil {
		return ""
	}
	return s.bindingVarNames[group][binding]
}

func (s *shader) Declarations() []Annotation {
	return s.declarations
}

func (s *shader) Module() *wgpu.ShaderModuleDescriptor {
	return s.module
}

// buildLayouts turns the @oxy:group declarations into bind group layout descriptors.
func (s *shader) buildLayouts() {
	for _, d := range s.declarations {
		group, binding := *d.Group, *d.Binding
		entry := wgpu.BindGroupLayoutEntry{
			Binding:    uint32(binding),
			Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
		}
		switch d.Args[0] {
		case AnnotationArgUniform:
			entry.Buffer.Type = wgpu.BufferBindingTypeUniform
		case AnnotationArgStorageRead:
			entry.Buffer.Type = wgpu.BufferBindingTypeReadOnlyStorage
		}

		desc := s.bindGroupLayoutDescriptors[group]
		if desc.Label == "" {
			desc.Label = fmt.Sprintf("%s group %d layout", s.key, group)
		}
		desc.Entries = append(desc.Entries, entry)
		s.bindGroupLayoutDescriptors[group] = desc

		if s.bindingVarNames[group] == nil {
			s.bindingVarNames[group] = make(map[int]string)
		}
		s.bindingVarNames[group][binding] = string(d.Args[1])
	}
}
