package protocol_test

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/gear6io/mcwire/pkg/errors"
	"github.com/gear6io/mcwire/server/protocols/java/protocol"
	"github.com/gear6io/mcwire/server/protocols/java/protocol/packets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func handshakeFrame(t *testing.T) []byte {
	t.Helper()
	frame, err := protocol.Pack(&packets.ClientHandshake{
		ProtocolVersion: 27,
		Address:         "127.0.0.1",
		Port:            12345,
		NextState:       2,
	})
	require.NoError(t, err)
	return frame
}

func drain(t *testing.T, r *protocol.FrameReader) []*protocol.Frame {
	t.Helper()
	var frames []*protocol.Frame
	for {
		f, err := r.Next()
		require.NoError(t, err)
		if f == nil {
			return frames
		}
		frames = append(frames, f)
	}
}

func TestFrameReaderSingleChunk(t *testing.T) {
	r := protocol.NewFrameReader(0)
	r.Feed(handshakeFrame(t))

	frames := drain(t, r)
	require.Len(t, frames, 1)
	assert.Equal(t, protocol.PacketInformation{Length: 15, ID: 0x00}, frames[0].Info)
	assert.Len(t, frames[0].Payload, 14)
	assert.NoError(t, r.Close())
}

func TestFrameReaderSplitAcrossChunks(t *testing.T) {
	frame := handshakeFrame(t)

	whole := protocol.NewFrameReader(0)
	whole.Feed(frame)
	want := drain(t, whole)

	// Every split point, including none of the length prefix and all of it.
	for split := 0; split <= len(frame); split++ {
		r := protocol.NewFrameReader(0)
		r.Feed(frame[:split])
		first := drain(t, r)
		r.Feed(frame[split:])
		second := drain(t, r)

		got := append(first, second...)
		assert.Equal(t, want, got, "split at %d", split)
		assert.Equal(t, 0, r.Buffered())
	}
}

func TestFrameReaderSplitLengthPrefix(t *testing.T) {
	frame, err := protocol.Pack(&packets.LoginDisconnect{Reason: protocol.String(bytes.Repeat([]byte{'x'}, 300))})
	require.NoError(t, err)

	r := protocol.NewFrameReader(0)
	r.Feed(frame[:1])
	assert.Empty(t, drain(t, r))
	r.Feed(frame[1:])
	frames := drain(t, r)
	require.Len(t, frames, 1)
	assert.Equal(t, 303, frames[0].Info.Length)
}

func TestFrameReaderByteAtATime(t *testing.T) {
	stream := append(handshakeFrame(t), 7, 0x00, 5, 'S', 't', 'e', 'v')
	stream = append(stream, 'e')

	r := protocol.NewFrameReader(0)
	var frames []*protocol.Frame
	for _, c := range stream {
		r.Feed([]byte{c})
		frames = append(frames, drain(t, r)...)
	}

	require.Len(t, frames, 2)
	assert.Equal(t, append([]byte{5}, "Steve"...), frames[1].Payload)
}

func TestFrameReaderTruncated(t *testing.T) {
	frame := handshakeFrame(t)
	r := protocol.NewFrameReader(0)
	r.Feed(frame[:7])
	assert.Empty(t, drain(t, r))

	err := r.Close()
	assert.True(t, errors.HasCode(err, protocol.ErrTruncatedFrame))
}

func TestFrameReaderRejectsBadLengths(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		max   int
		code  errors.Code
	}{
		{"zero length", []byte{0x00}, 0, protocol.ErrInvalidFrameLength},
		{"over limit", []byte{0x80, 0x02, 0x00}, 100, protocol.ErrFrameTooLarge},
		{"four byte prefix", []byte{0x80, 0x80, 0x80, 0x01}, 0, protocol.ErrMalformedVarInt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := protocol.NewFrameReader(tt.max)
			r.Feed(tt.input)
			_, err := r.Next()
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, tt.code))

			_, again := r.Next()
			assert.Equal(t, err, again)
		})
	}
}

// chunkedReader returns at most n bytes per Read.
type chunkedReader struct {
	data []byte
	n    int
}

func (c *chunkedReader) Read(p []byte) (int, error) {
	if len(c.data) == 0 {
		return 0, io.EOF
	}
	n := c.n
	if n > len(p) {
		n = len(p)
	}
	if n > len(c.data) {
		n = len(c.data)
	}
	copy(p, c.data[:n])
	c.data = c.data[n:]
	return n, nil
}

func TestReadFrames(t *testing.T) {
	ping, err := protocol.Pack(&packets.PingRequest{Payload: 7})
	require.NoError(t, err)
	stream := append(handshakeFrame(t), ping...)

	var ids []protocol.PacketID
	err = protocol.ReadFrames(context.Background(), &chunkedReader{data: stream, n: 4}, 4, func(f *protocol.Frame) error {
		ids = append(ids, f.Info.ID)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []protocol.PacketID{0x00, 0x01}, ids)
}

func TestReadFramesTruncatedStream(t *testing.T) {
	frame := handshakeFrame(t)
	err := protocol.ReadFrames(context.Background(), bytes.NewReader(frame[:10]), 32, func(*protocol.Frame) error {
		t.Fatal("no frame expected")
		return nil
	})
	assert.True(t, errors.HasCode(err, protocol.ErrTruncatedFrame))
}

func TestReadFramesStopsOnCallbackError(t *testing.T) {
	stop := io.ErrClosedPipe
	frame := handshakeFrame(t)
	calls := 0
	err := protocol.ReadFrames(context.Background(), bytes.NewReader(append(frame, frame...)), 0, func(*protocol.Frame) error {
		calls++
		return stop
	})
	assert.Equal(t, stop, err)
	assert.Equal(t, 1, calls)
}

func TestReadFramesCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := protocol.ReadFrames(ctx, bytes.NewReader(handshakeFrame(t)), 0, func(*protocol.Frame) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}
