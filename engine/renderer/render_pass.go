package renderer

import "github.com/cogentcore/webgpu/wgpu"

// RenderPass is the subset of a render pass encoder the resource set records into.
// Vertex and index buffers are always bound whole, indices are 32-bit, and draws are
// single-instance.
type RenderPass interface {
	SetPipeline(pipeline *wgpu.RenderPipeline)
	SetBindGroup(groupIndex uint32, group *wgpu.BindGroup)
	SetVertexBuffer(slot uint32, buffer *wgpu.Buffer)
	SetIndexBuffer(buffer *wgpu.Buffer)
	DrawIndexed(indexCount uint32)
}

// wgpuRenderPass adapts a *wgpu.RenderPassEncoder to RenderPass.
type wgpuRenderPass struct {
	pass *wgpu.RenderPassEncoder
}

var _ RenderPass = &wgpuRenderPass{}

// NewRenderPass wraps a live render pass encoder.
//
// Parameters:
//   - pass: the encoder returned by BeginRenderPass
//
// Returns:
//   - RenderPass: the adapter
func NewRenderPass(pass *wgpu.RenderPassEncoder) RenderPass {
	return &wgpuRenderPass{pass: pass}
}

func (p *wgpuRenderPass) SetPipeline(pipeline *wgpu.RenderPipeline) {
	p.pass.SetPipeline(pipeline)
}

func (p *wgpuRenderPass) SetBindGroup(groupIndex uint32, group *wgpu.BindGroup) {
	p.pass.SetBindGroup(groupIndex, group, nil)
}

func (p *wgpuRenderPass) SetVertexBuffer(slot uint32, buffer *wgpu.Buffer) {
	p.pass.SetVertexBuffer(slot, buffer, 0, wgpu.WholeSize)
}

func (p *wgpuRenderPass) SetIndexBuffer(buffer *wgpu.Buffer) {
	p.pass.SetIndexBuffer(buffer, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
}

func (p *wgpuRenderPass) DrawIndexed(indexCount uint32) {
	p.pass.DrawIndexed(indexCount, 1, 0, 0, 0)
}
