package pipeline

import (
	"github.com/Carmen-Shannon/oxy-sandbox/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// pipeline is the implementation of the Pipeline interface.
// It holds the render pipeline and the state used to describe it.
type pipeline struct {
	// pipelineKey is the unique identifier for this pipeline, used for labels and lookups
	pipelineKey string

	// shader supplies both entry points; it is required before a descriptor can be built
	shader shader.Shader
	// vertexLayouts are the vertex buffer layouts bound in slot order
	vertexLayouts []wgpu.VertexBufferLayout

	// renderPipeline is the created GPU pipeline, nil until SetRenderPipeline
	renderPipeline *wgpu.RenderPipeline

	// The following properties configure the pipeline during creation and can be set with the builder options.

	depthWriteEnabled bool
	depthCompare      wgpu.CompareFunction
	depthFormat       wgpu.TextureFormat
	cullMode          wgpu.CullMode
	topology          wgpu.PrimitiveTopology
	frontFace         wgpu.FrontFace
	writeMask         wgpu.ColorWriteMask
	blendState        *wgpu.BlendState
}

// Pipeline describes a render pipeline: its shader, vertex layouts, and fixed-function state.
// Descriptor turns the state into a wgpu.RenderPipelineDescriptor; the caller creates the
// GPU object and stores it back with SetRenderPipeline.
type Pipeline interface {
	// PipelineKey returns the unique key associated with this pipeline.
	//
	// Returns:
	//   - string: the unique key for this pipeline
	PipelineKey() string

	// Shader returns the shader providing the vertex and fragment entry points.
	//
	// Returns:
	//   - shader.Shader: the pipeline's shader
	Shader() shader.Shader

	// Pipeline returns the created GPU pipeline, or nil before SetRenderPipeline.
	//
	// Returns:
	//   - *wgpu.RenderPipeline: the render pipeline
	Pipeline() *wgpu.RenderPipeline

	// DepthWriteEnabled returns whether depth writing is enabled.
	//
	// Returns:
	//   - bool: true if depth writing is enabled
	DepthWriteEnabled() bool

	// DepthCompare returns the depth comparison function.
	//
	// Returns:
	//   - wgpu.CompareFunction: the depth compare function
	DepthCompare() wgpu.CompareFunction

	// DepthFormat returns the depth attachment format.
	//
	// Returns:
	//   - wgpu.TextureFormat: the depth format
	DepthFormat() wgpu.TextureFormat

	// CullMode returns the face culling mode.
	//
	// Returns:
	//   - wgpu.CullMode: the cull mode
	CullMode() wgpu.CullMode

	// Topology returns the primitive topology.
	//
	// Returns:
	//   - wgpu.PrimitiveTopology: the primitive topology
	Topology() wgpu.PrimitiveTopology

	// FrontFace returns the front face winding order.
	//
	// Returns:
	//   - wgpu.FrontFace: the winding order
	FrontFace() wgpu.FrontFace

	// Descriptor builds the render pipeline descriptor for the given module, layout and color format.
	//
	// Parameters:
	//   - module: the compiled module of Shader()
	//   - layout: the pipeline layout
	//   - colorFormat: the color attachment format
	//
	// Returns:
	//   - *wgpu.RenderPipelineDescriptor: the descriptor to create the pipeline from
	Descriptor(module *wgpu.ShaderModule, layout *wgpu.PipelineLayout, colorFormat wgpu.TextureFormat) *wgpu.RenderPipelineDescriptor

	// SetRenderPipeline stores the created GPU pipeline.
	//
	// Parameters:
	//   - rp: the WebGPU render pipeline
	SetRenderPipeline(rp *wgpu.RenderPipeline)

	// Release releases the GPU pipeline, if any.
	Release()
}

var _ Pipeline = &pipeline{}

// NewPipeline creates a render Pipeline. The defaults match the mesh pass: triangle list,
// counter-clockwise front faces, back-face culling, Depth32Float with LessEqual and depth writes,
// and no blending.
//
// Parameters:
//   - pipelineKey: the unique key for this pipeline
//   - s: the shader providing both entry points
//   - opts: a variadic list of PipelineBuilderOption functions to configure the pipeline
//
// Returns:
//   - Pipeline: a new Pipeline instance
func NewPipeline(pipelineKey string, s shader.Shader, opts ...PipelineBuilderOption) Pipeline {
	p := &pipeline{
		pipelineKey:       pipelineKey,
		shader:            s,
		depthWriteEnabled: true,
		depthCompare:      wgpu.CompareFunctionLessEqual,
		depthFormat:       wgpu.TextureFormatDepth32Float,
		cullMode:          wgpu.CullModeBack,
		topology:          wgpu.PrimitiveTopologyTriangleList,
		frontFace:         wgpu.FrontFaceCCW,
		writeMask:         wgpu.ColorWriteMaskAll,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *pipeline) PipelineKey() string {
	return p.pipelineKey
}

func (p *pipeline) Shader() shader.Shader {
	return p.shader
}

func (p *pipeline) Pipeline() *wgpu.RenderPipeline {
	return p.renderPipeline
}

func (p *pipeline) DepthWriteEnabled() bool {
	return p.depthWriteEnabled
}

func (p *pipeline) DepthCompare() wgpu.CompareFunction {
	return p.depthCompare
}

func (p *pipeline) DepthFormat() wgpu.TextureFormat {
	return p.depthFormat
}

func (p *pipeline) CullMode() wgpu.CullMode {
	return p.cullMode
}

func (p *pipeline) Topology() wgpu.PrimitiveTopology {
	return p.topology
}

func (p *pipeline) FrontFace() wgpu.FrontFace {
	return p.frontFace
}

func (p *pipeline) Descriptor(module *wgpu.ShaderModule, layout *wgpu.PipelineLayout, colorFormat wgpu.TextureFormat) *wgpu.RenderPipelineDescriptor {
	return &wgpu.RenderPipelineDescriptor{
		Label:  p.pipelineKey + " Render Pipeline",
		Layout: layout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: p.shader.VertexEntryPoint(),
			Buffers:    p.vertexLayouts,
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: p.shader.FragmentEntryPoint(),
			Targets: []wgpu.ColorTargetState{
				{
					Format:    colorFormat,
					Blend:     p.blendState,
					WriteMask: p.writeMask,
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  p.topology,
			FrontFace: p.frontFace,
			CullMode:  p.cullMode,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:            p.depthFormat,
			DepthWriteEnabled: p.depthWriteEnabled,
			DepthCompare:      p.depthCompare,
			StencilFront: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
			StencilBack: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
		},
	}
}

func (p *pipeline) SetRenderPipeline(rp *wgpu.RenderPipeline) {
	p.renderPipeline = rp
}

func (p *pipeline) Release() {
	if p.renderPipeline != nil {
		p.renderPipeline.Release()
		p.renderPipeline = nil
	}
}
