package renderer

import "github.com/Carmen-Shannon/oxy-sandbox/engine/renderer/pipeline"

// ResourceSetBuilderOption is a functional option used to configure a ResourceSet during construction.
type ResourceSetBuilderOption func(*resourceSet)

// WithLabel sets the debug label prefixed to every GPU object of the set.
//
// Parameters:
//   - label: the debug label
//
// Returns:
//   - ResourceSetBuilderOption: a function that sets the label
func WithLabel(label string) ResourceSetBuilderOption {
	return func(rs *resourceSet) {
		rs.label = label
	}
}

// WithShaderSource replaces the built-in mesh shader. The source must declare the light count
// overrides, the same two bind groups, and @vertex/@fragment entry points.
//
// Parameters:
//   - source: annotated WGSL source
//
// Returns:
//   - ResourceSetBuilderOption: a function that sets the shader source
func WithShaderSource(source string) ResourceSetBuilderOption {
	return func(rs *resourceSet) {
		rs.shaderSource = source
	}
}

// WithPipelineOptions forwards options to the mesh pipeline, e.g. pipeline.WithCullMode.
//
// Parameters:
//   - opts: pipeline options applied after the vertex layout
//
// Returns:
//   - ResourceSetBuilderOption: a function that stores the pipeline options
func WithPipelineOptions(opts ...pipeline.PipelineBuilderOption) ResourceSetBuilderOption {
	return func(rs *resourceSet) {
		rs.pipelineOptions = append(rs.pipelineOptions, opts...)
	}
}
