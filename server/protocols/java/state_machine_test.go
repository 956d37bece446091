package java

import (
	"testing"

	"github.com/gear6io/mcwire/pkg/errors"
	"github.com/gear6io/mcwire/server/protocols/java/protocol"
	"github.com/gear6io/mcwire/server/protocols/java/protocol/packets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateMachineHandshakeTransitions(t *testing.T) {
	tests := []struct {
		name      string
		nextState protocol.VarInt
		want      protocol.ConnectionState
	}{
		{"status", packets.NextStateStatus, protocol.Status},
		{"login", packets.NextStateLogin, protocol.Login},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewStateMachine()
			require.Equal(t, protocol.Handshaking, m.Current())

			err := m.Apply(&packets.ClientHandshake{ProtocolVersion: 763, Address: "localhost", Port: 25565, NextState: tt.nextState})
			require.NoError(t, err)
			assert.Equal(t, tt.want, m.Current())
		})
	}
}

func TestStateMachineRejectsUnknownNextState(t *testing.T) {
	for _, next := range []protocol.VarInt{0, 3, 4, 300} {
		m := NewStateMachine()
		err := m.Apply(&packets.ClientHandshake{NextState: next})
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, ErrInvalidStateTransition), "next_state %d", next)
		assert.Equal(t, protocol.Handshaking, m.Current())
	}
}

func TestStateMachineRejectsPacketsOfOtherStates(t *testing.T) {
	m := NewStateMachine()

	err := m.Apply(&packets.StatusRequest{})
	assert.True(t, errors.HasCode(err, protocol.ErrUnsupportedPacket))
	assert.Equal(t, protocol.Handshaking, m.Current())

	require.NoError(t, m.Apply(&packets.ClientHandshake{NextState: packets.NextStateStatus}))

	// A second handshake is not valid once the state has moved on.
	err = m.Apply(&packets.ClientHandshake{NextState: packets.NextStateLogin})
	assert.True(t, errors.HasCode(err, protocol.ErrUnsupportedPacket))
	assert.Equal(t, protocol.Status, m.Current())

	err = m.Apply(&packets.LoginStart{Username: "Notch"})
	assert.True(t, errors.HasCode(err, protocol.ErrUnsupportedPacket))
}

func TestStateMachineRejectsClientboundPackets(t *testing.T) {
	m := NewStateMachine()
	require.NoError(t, m.Apply(&packets.ClientHandshake{NextState: packets.NextStateStatus}))

	err := m.Apply(&packets.StatusResponse{JSON: "{}"})
	assert.True(t, errors.HasCode(err, protocol.ErrUnsupportedPacket))
}

func TestStateMachineStatusAndLoginPacketsKeepState(t *testing.T) {
	m := NewStateMachine()
	require.NoError(t, m.Apply(&packets.ClientHandshake{NextState: packets.NextStateStatus}))
	require.NoError(t, m.Apply(&packets.StatusRequest{}))
	require.NoError(t, m.Apply(&packets.PingRequest{Payload: 7}))
	assert.Equal(t, protocol.Status, m.Current())

	m = NewStateMachine()
	require.NoError(t, m.Apply(&packets.ClientHandshake{NextState: packets.NextStateLogin}))
	require.NoError(t, m.Apply(&packets.LoginStart{Username: "Notch"}))
	assert.Equal(t, protocol.Login, m.Current())
}
