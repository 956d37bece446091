package protocol

import "github.com/gear6io/mcwire/pkg/errors"

// InputBuffer is a forward-only read cursor over a byte slice.
type InputBuffer struct {
	data []byte
	pos  int
}

func NewInputBuffer(data []byte) *InputBuffer {
	return &InputBuffer{data: data}
}

// ReadByte returns the next byte and advances the cursor.
func (b *InputBuffer) ReadByte() (byte, error) {
	if b.pos >= len(b.data) {
		return 0, errors.Newf(ErrBufferUnderrun, "read at offset %d of %d byte buffer", b.pos, len(b.data))
	}
	c := b.data[b.pos]
	b.pos++
	return c, nil
}

// ReadBytes returns the next n bytes. The result aliases the underlying slice.
// On underrun the cursor does not move.
func (b *InputBuffer) ReadBytes(n int) ([]byte, error) {
	if n < 0 || n > len(b.data)-b.pos {
		return nil, errors.Newf(ErrBufferUnderrun, "read of %d bytes at offset %d of %d byte buffer", n, b.pos, len(b.data))
	}
	p := b.data[b.pos : b.pos+n]
	b.pos += n
	return p, nil
}

// HasNext reports whether at least one unread byte remains.
func (b *InputBuffer) HasNext() bool {
	return b.pos < len(b.data)
}

func (b *InputBuffer) Len() int       { return len(b.data) }
func (b *InputBuffer) Remaining() int { return len(b.data) - b.pos }
func (b *InputBuffer) Position() int  { return b.pos }

// OutputBuffer is a forward-only write cursor over a buffer whose size is
// known before writing starts.
type OutputBuffer struct {
	data []byte
	pos  int
}

func NewOutputBuffer(size int) *OutputBuffer {
	return &OutputBuffer{data: make([]byte, size)}
}

// WriteByte stores c at the cursor and advances it.
func (b *OutputBuffer) WriteByte(c byte) error {
	if b.pos >= len(b.data) {
		return errors.Newf(ErrBufferOverrun, "write at offset %d of %d byte buffer", b.pos, len(b.data))
	}
	b.data[b.pos] = c
	b.pos++
	return nil
}

// WriteBytes stores p at the cursor. Nothing is written if p does not fit.
func (b *OutputBuffer) WriteBytes(p []byte) error {
	if len(p) > len(b.data)-b.pos {
		return errors.Newf(ErrBufferOverrun, "write of %d bytes at offset %d of %d byte buffer", len(p), b.pos, len(b.data))
	}
	b.pos += copy(b.data[b.pos:], p)
	return nil
}

func (b *OutputBuffer) Len() int       { return len(b.data) }
func (b *OutputBuffer) Remaining() int { return len(b.data) - b.pos }

// Bytes returns the buffer once every byte has been written. A partly filled
// buffer means a field reported the wrong Len.
func (b *OutputBuffer) Bytes() ([]byte, error) {
	if b.pos != len(b.data) {
		return nil, errors.Newf(ErrBufferNotFilled, "buffer filled %d of %d bytes", b.pos, len(b.data))
	}
	return b.data, nil
}
