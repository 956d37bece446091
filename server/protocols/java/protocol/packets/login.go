package packets

import "github.com/gear6io/mcwire/server/protocols/java/protocol"

// LoginStart names the player that wants to log in.
type LoginStart struct {
	Username protocol.String
}

func (p *LoginStart) ID() protocol.PacketID           { return LoginStartID }
func (p *LoginStart) State() protocol.ConnectionState { return protocol.Login }
func (p *LoginStart) Direction() protocol.Direction   { return protocol.Serverbound }
func (p *LoginStart) Name() string                    { return "LoginStart" }

func (p *LoginStart) Schema() []protocol.FieldSpec {
	return []protocol.FieldSpec{{Name: "name", Value: &p.Username}}
}

// LoginDisconnect tells a client in Login why it is being dropped. Reason is a
// JSON chat component.
type LoginDisconnect struct {
	Reason protocol.String
}

func (p *LoginDisconnect) ID() protocol.PacketID           { return LoginDisconnectID }
func (p *LoginDisconnect) State() protocol.ConnectionState { return protocol.Login }
func (p *LoginDisconnect) Direction() protocol.Direction   { return protocol.Clientbound }
func (p *LoginDisconnect) Name() string                    { return "LoginDisconnect" }

func (p *LoginDisconnect) Schema() []protocol.FieldSpec {
	return []protocol.FieldSpec{{Name: "reason", Value: &p.Reason}}
}
