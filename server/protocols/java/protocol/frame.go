package protocol

import (
	"context"
	"io"
	"strconv"

	"github.com/gear6io/mcwire/pkg/errors"
)

// PacketInformation is the header of one frame. Length counts the id byte and
// the payload.
type PacketInformation struct {
	Length int
	ID     PacketID
}

// Frame is one complete length-prefixed unit read off the wire.
type Frame struct {
	Info    PacketInformation
	Payload []byte
}

// FrameReader reassembles frames from chunks of arbitrary size. Bytes that do
// not yet complete a frame stay buffered until the next Feed.
type FrameReader struct {
	buf       []byte
	maxLength int
	err       error
}

// NewFrameReader returns a reader that rejects frames longer than maxLength.
// Values outside (0, MaxFrameLength] select MaxFrameLength.
func NewFrameReader(maxLength int) *FrameReader {
	if maxLength <= 0 || maxLength > MaxFrameLength {
		maxLength = MaxFrameLength
	}
	return &FrameReader{maxLength: maxLength}
}

// Feed appends a chunk to the reassembly buffer.
func (r *FrameReader) Feed(chunk []byte) {
	r.buf = append(r.buf, chunk...)
}

// Buffered is the number of bytes waiting for the rest of their frame.
func (r *FrameReader) Buffered() int {
	return len(r.buf)
}

// Next returns the next complete frame, or nil when more bytes are needed.
// Once Next fails the reader keeps returning the same error.
func (r *FrameReader) Next() (*Frame, error) {
	if r.err != nil {
		return nil, r.err
	}

	length, n, err := r.lengthPrefix()
	if err != nil || n == 0 {
		r.err = err
		return nil, err
	}

	if length == 0 {
		r.err = errors.New(ErrInvalidFrameLength, "frame length is zero", nil)
		return nil, r.err
	}
	if length > r.maxLength {
		r.err = errors.Newf(ErrFrameTooLarge, "frame length %d exceeds %d", length, r.maxLength).
			AddContext("length", strconv.Itoa(length))
		return nil, r.err
	}
	if len(r.buf)-n < length {
		return nil, nil
	}

	frame := &Frame{
		Info: PacketInformation{
			Length: length,
			ID:     PacketID(r.buf[n]),
		},
		Payload: append([]byte(nil), r.buf[n+1:n+length]...),
	}
	r.buf = append(r.buf[:0], r.buf[n+length:]...)
	return frame, nil
}

// Close ends the stream. Leftover bytes mean the peer stopped mid-frame.
func (r *FrameReader) Close() error {
	if r.err != nil {
		return r.err
	}
	if len(r.buf) > 0 {
		return errors.Newf(ErrTruncatedFrame, "stream ended with %d bytes of an incomplete frame", len(r.buf))
	}
	return nil
}

// lengthPrefix decodes the buffered length prefix. n is 0 while the prefix is
// still incomplete.
func (r *FrameReader) lengthPrefix() (length int, n int, err error) {
	for i := 0; i < len(r.buf) && i < MaxFrameLengthPrefix; i++ {
		if r.buf[i]&0x80 == 0 {
			v, used, decodeErr := DecodeVarInt(r.buf[:i+1])
			return int(v), used, decodeErr
		}
	}
	if len(r.buf) >= MaxFrameLengthPrefix {
		return 0, 0, errors.Newf(ErrMalformedVarInt, "frame length prefix longer than %d bytes", MaxFrameLengthPrefix)
	}
	return 0, 0, nil
}

// Pump reads chunks of chunkSize from src and calls fn for every complete
// frame in arrival order. It returns nil on a clean end of stream, the error
// from fn if fn fails, and TruncatedFrame if the stream ends mid-frame.
func (r *FrameReader) Pump(ctx context.Context, src io.Reader, chunkSize int, fn func(*Frame) error) error {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	chunk := make([]byte, chunkSize)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		n, readErr := src.Read(chunk)
		if n > 0 {
			r.Feed(chunk[:n])
			for {
				frame, err := r.Next()
				if err != nil {
					return err
				}
				if frame == nil {
					break
				}
				if err := fn(frame); err != nil {
					return err
				}
			}
		}

		if readErr != nil {
			if readErr == io.EOF {
				return r.Close()
			}
			return readErr
		}
	}
}

// ReadFrames pumps frames from src with the default frame length limit.
func ReadFrames(ctx context.Context, src io.Reader, chunkSize int, fn func(*Frame) error) error {
	return NewFrameReader(MaxFrameLength).Pump(ctx, src, chunkSize, fn)
}
