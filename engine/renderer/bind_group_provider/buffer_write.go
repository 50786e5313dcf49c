package bind_group_provider

import (
	"errors"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// ErrMissingBuffer is returned when a BufferWrite targets a binding that holds no buffer.
var ErrMissingBuffer = errors.New("bind group provider: no buffer at binding")

// BufferWrite describes a single GPU buffer write operation targeting a specific binding
// on a BindGroupProvider at a given byte offset.
type BufferWrite struct {
	Provider BindGroupProvider
	Binding  int
	Offset   uint64
	Data     []byte
}

// BufferWriter is the queue operation used to upload data; *wgpu.Queue satisfies it.
type BufferWriter interface {
	WriteBuffer(buffer *wgpu.Buffer, offset uint64, data []byte) error
}

// WriteBuffers submits writes in order and stops at the first failure.
//
// Parameters:
//   - q: the queue to write through
//   - writes: the writes to perform
//
// Returns:
//   - error: ErrMissingBuffer or the queue error of the first failed write
func WriteBuffers(q BufferWriter, writes []BufferWrite) error {
	for _, w := range writes {
		buf := w.Provider.Buffer(w.Binding)
		if buf == nil {
			return fmt.Errorf("%w: %s binding %d", ErrMissingBuffer, w.Provider.Label(), w.Binding)
		}
		if err := q.WriteBuffer(buf, w.Offset, w.Data); err != nil {
			return fmt.Errorf("write %s binding %d: %w", w.Provider.Label(), w.Binding, err)
		}
	}
	return nil
}
