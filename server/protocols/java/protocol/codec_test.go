package protocol_test

import (
	"bytes"
	"testing"

	"github.com/gear6io/mcwire/pkg/errors"
	"github.com/gear6io/mcwire/server/protocols/java/protocol"
	"github.com/gear6io/mcwire/server/protocols/java/protocol/packets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackClientHandshake(t *testing.T) {
	p := &packets.ClientHandshake{
		ProtocolVersion: 27,
		Address:         "127.0.0.1",
		Port:            12345,
		NextState:       2,
	}

	frame, err := protocol.Pack(p)
	require.NoError(t, err)

	want := []byte{15, 0x00, 27, 9, '1', '2', '7', '.', '0', '.', '0', '.', '1', 0x30, 0x39, 2}
	assert.Equal(t, want, frame)

	var got packets.ClientHandshake
	require.NoError(t, protocol.Unpack(&got, frame[2:]))
	assert.Equal(t, *p, got)
}

func TestPackClientHandshakeHostname(t *testing.T) {
	p := &packets.ClientHandshake{
		ProtocolVersion: 27,
		Address:         "minecraft.google.com",
		Port:            80,
		NextState:       2,
	}

	frame, err := protocol.Pack(p)
	require.NoError(t, err)

	assert.Len(t, frame, 27)
	assert.Equal(t, []byte{26, 0, 27, 20}, frame[:4])
	assert.Equal(t, "minecraft.google.com", string(frame[4:24]))
	assert.Equal(t, []byte{0, 80, 2}, frame[24:])
}

func TestPackLengthUsesMultiByteVarInt(t *testing.T) {
	reason := bytes.Repeat([]byte{'r'}, 200)
	p := &packets.LoginDisconnect{Reason: protocol.String(reason)}

	frame, err := protocol.Pack(p)
	require.NoError(t, err)

	// 1 id + 2 string length + 200 bytes = 203
	assert.Equal(t, []byte{0xCB, 0x01, 0x00, 0xC8, 0x01}, frame[:5])
	assert.Len(t, frame, 205)
}

func TestPackEmptyPacket(t *testing.T) {
	frame, err := protocol.Pack(&packets.StatusRequest{})
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 0x00}, frame)

	require.NoError(t, protocol.Unpack(&packets.StatusRequest{}, nil))
}

func TestUnpackTooShort(t *testing.T) {
	var p packets.ClientHandshake
	err := protocol.Unpack(&p, []byte{27, 9, '1', '2'})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, protocol.ErrUnknownPacket))
	assert.True(t, errors.HasCode(err, protocol.ErrBufferUnderrun))
	assert.Equal(t, "address", errors.GetContext(err)["field"])
}

func TestUnpackTrailingBytes(t *testing.T) {
	var p packets.LoginStart
	payload := append([]byte{4}, "Notchxx"...)
	err := protocol.Unpack(&p, payload)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, protocol.ErrTrailingBytes))
}

func TestUnpackInvalidUtf8(t *testing.T) {
	var p packets.LoginStart
	err := protocol.Unpack(&p, []byte{2, 0xFF, 0xFE})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, protocol.ErrInvalidUtf8))
	assert.False(t, errors.HasCode(err, protocol.ErrUnknownPacket))
}

func TestWritePacket(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, protocol.WritePacket(&buf, &packets.PongResponse{Payload: 42}))
	assert.Equal(t, []byte{9, 0x01, 0, 0, 0, 0, 0, 0, 0, 42}, buf.Bytes())
}
