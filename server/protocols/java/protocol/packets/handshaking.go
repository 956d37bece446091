package packets

import "github.com/gear6io/mcwire/server/protocols/java/protocol"

// ClientHandshake opens every connection and selects the next state.
type ClientHandshake struct {
	ProtocolVersion protocol.VarInt
	Address         protocol.String
	Port            protocol.UnsignedShort
	NextState       protocol.VarInt
}

func (p *ClientHandshake) ID() protocol.PacketID           { return ClientHandshakeID }
func (p *ClientHandshake) State() protocol.ConnectionState { return protocol.Handshaking }
func (p *ClientHandshake) Direction() protocol.Direction   { return protocol.Serverbound }
func (p *ClientHandshake) Name() string                    { return "ClientHandshake" }

func (p *ClientHandshake) Schema() []protocol.FieldSpec {
	return []protocol.FieldSpec{
		{Name: "protocol_version", Value: &p.ProtocolVersion},
		{Name: "address", Value: &p.Address},
		{Name: "port", Value: &p.Port},
		{Name: "next_state", Value: &p.NextState},
	}
}
