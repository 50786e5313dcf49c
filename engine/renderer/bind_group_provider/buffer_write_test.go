package bind_group_provider

import (
	"errors"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	buffers []*wgpu.Buffer
	data    [][]byte
	failOn  int
}

func (w *recordingWriter) WriteBuffer(buffer *wgpu.Buffer, offset uint64, data []byte) error {
	if w.failOn > 0 && len(w.buffers)+1 == w.failOn {
		return errors.New("device lost")
	}
	w.buffers = append(w.buffers, buffer)
	w.data = append(w.data, data)
	return nil
}

func TestWriteBuffersInOrder(t *testing.T) {
	a, b := &wgpu.Buffer{}, &wgpu.Buffer{}
	p := NewBindGroupProvider("objects", WithBuffer(0, a), WithBuffer(1, b))
	w := &recordingWriter{}

	err := WriteBuffers(w, []BufferWrite{
		{Provider: p, Binding: 1, Data: []byte{1}},
		{Provider: p, Binding: 0, Data: []byte{2}},
	})
	require.NoError(t, err)
	assert.Same(t, b, w.buffers[0])
	assert.Same(t, a, w.buffers[1])
	assert.Equal(t, []byte{2}, w.data[1])
}

func TestWriteBuffersMissingBinding(t *testing.T) {
	p := NewBindGroupProvider("camera")
	err := WriteBuffers(&recordingWriter{}, []BufferWrite{{Provider: p, Binding: 3}})
	assert.ErrorIs(t, err, ErrMissingBuffer)
}

func TestWriteBuffersStopsAtFirstFailure(t *testing.T) {
	p := NewBindGroupProvider("lights", WithBuffer(0, &wgpu.Buffer{}), WithBuffer(1, &wgpu.Buffer{}))
	w := &recordingWriter{failOn: 1}

	err := WriteBuffers(w, []BufferWrite{{Provider: p, Binding: 0}, {Provider: p, Binding: 1}})
	assert.ErrorContains(t, err, "device lost")
	assert.Empty(t, w.buffers)
}

func TestProviderAccessors(t *testing.T) {
	vb, ib := &wgpu.Buffer{}, &wgpu.Buffer{}
	p := NewBindGroupProvider("mesh 0", WithMesh(vb, ib, 36))

	assert.Equal(t, "mesh 0", p.Label())
	assert.Same(t, vb, p.VertexBuffer())
	assert.Same(t, ib, p.IndexBuffer())
	assert.Equal(t, 36, p.IndexCount())
	assert.Nil(t, p.BindGroup())

	buf := &wgpu.Buffer{}
	p.SetBuffer(2, buf)
	assert.Same(t, buf, p.Buffer(2))
	assert.Len(t, p.Buffers(), 1)

	group := &wgpu.BindGroup{}
	obj := NewBindGroupProvider("object 0", WithBuffer(1, buf), WithBindGroup(group))
	assert.Same(t, group, obj.BindGroup())
	assert.Same(t, buf, obj.Buffer(1))
}
