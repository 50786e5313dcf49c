package pipeline

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-sandbox/engine/model"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescriptorDefaults(t *testing.T) {
	s, err := shader.NewMeshShader(1, 1)
	require.NoError(t, err)

	p := NewPipeline("mesh", s, WithVertexLayouts(model.VertexBufferLayout()))
	desc := p.Descriptor(nil, nil, wgpu.TextureFormatBGRA8UnormSrgb)

	assert.Equal(t, "mesh Render Pipeline", desc.Label)
	assert.Equal(t, "vert_main", desc.Vertex.EntryPoint)
	require.NotNil(t, desc.Fragment)
	assert.Equal(t, "frag_main", desc.Fragment.EntryPoint)
	require.Len(t, desc.Fragment.Targets, 1)
	assert.Equal(t, wgpu.TextureFormatBGRA8UnormSrgb, desc.Fragment.Targets[0].Format)
	assert.Nil(t, desc.Fragment.Targets[0].Blend)

	require.Len(t, desc.Vertex.Buffers, 1)
	assert.Equal(t, uint64(model.VertexSize), desc.Vertex.Buffers[0].ArrayStride)

	assert.Equal(t, wgpu.FrontFaceCCW, desc.Primitive.FrontFace)
	assert.Equal(t, wgpu.CullModeBack, desc.Primitive.CullMode)
	assert.Equal(t, wgpu.PrimitiveTopologyTriangleList, desc.Primitive.Topology)

	require.NotNil(t, desc.DepthStencil)
	assert.Equal(t, wgpu.TextureFormatDepth32Float, desc.DepthStencil.Format)
	assert.Equal(t, wgpu.CompareFunctionLessEqual, desc.DepthStencil.DepthCompare)
	assert.True(t, desc.DepthStencil.DepthWriteEnabled)
	assert.Equal(t, uint32(1), desc.Multisample.Count)
}

func TestDescriptorOptions(t *testing.T) {
	s, err := shader.NewMeshShader(0, 0)
	require.NoError(t, err)

	blend := &wgpu.BlendState{}
	p := NewPipeline("wire", s,
		WithCullMode(wgpu.CullModeNone),
		WithFrontFace(wgpu.FrontFaceCW),
		WithDepthCompare(wgpu.CompareFunctionLess),
		WithDepthWriteEnabled(false),
		WithDepthFormat(wgpu.TextureFormatDepth24Plus),
		WithTopology(wgpu.PrimitiveTopologyLineList),
		WithBlendState(blend),
	)
	desc := p.Descriptor(nil, nil, wgpu.TextureFormatRGBA8UnormSrgb)

	assert.Equal(t, wgpu.CullModeNone, desc.Primitive.CullMode)
	assert.Equal(t, wgpu.FrontFaceCW, desc.Primitive.FrontFace)
	assert.Equal(t, wgpu.PrimitiveTopologyLineList, desc.Primitive.Topology)
	assert.Equal(t, wgpu.CompareFunctionLess, desc.DepthStencil.DepthCompare)
	assert.False(t, desc.DepthStencil.DepthWriteEnabled)
	assert.Equal(t, wgpu.TextureFormatDepth24Plus, desc.DepthStencil.Format)
	assert.Same(t, blend, desc.Fragment.Targets[0].Blend)
	assert.Nil(t, p.Pipeline())
}
