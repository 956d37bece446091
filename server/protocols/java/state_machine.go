package java

import (
	"github.com/gear6io/mcwire/pkg/errors"
	"github.com/gear6io/mcwire/server/protocols/java/protocol"
	"github.com/gear6io/mcwire/server/protocols/java/protocol/packets"
)

// StateMachine tracks the protocol phase of one connection. Apply is the only
// way to change it.
type StateMachine struct {
	state protocol.ConnectionState
}

// NewStateMachine starts in Handshaking.
func NewStateMachine() *StateMachine {
	return &StateMachine{state: protocol.Handshaking}
}

func (m *StateMachine) Current() protocol.ConnectionState {
	return m.state
}

// Apply consumes a decoded serverbound packet. On error the state is left
// unchanged.
func (m *StateMachine) Apply(p protocol.Packet) error {
	if p.Direction() != protocol.Serverbound || p.State() != m.state {
		return errors.Newf(protocol.ErrUnsupportedPacket, "%s is not accepted in state %s", p.Name(), m.state).
			AddContext("state", m.state.String()).
			AddContext("packet", p.Name())
	}

	switch pkt := p.(type) {
	case *packets.ClientHandshake:
		switch pkt.NextState {
		case packets.NextStateStatus:
			m.state = protocol.Status
		case packets.NextStateLogin:
			m.state = protocol.Login
		default:
			return errors.Newf(ErrInvalidStateTransition, "handshake requested next state %d", uint64(pkt.NextState)).
				AddContext("state", m.state.String())
		}
	case *packets.LoginStart:
		// Stays in Login until authentication exists.
	}
	return nil
}
