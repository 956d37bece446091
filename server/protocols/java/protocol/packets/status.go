package packets

import "github.com/gear6io/mcwire/server/protocols/java/protocol"

// StatusRequest asks for the server list entry. It has no fields.
type StatusRequest struct{}

func (p *StatusRequest) ID() protocol.PacketID           { return StatusRequestID }
func (p *StatusRequest) State() protocol.ConnectionState { return protocol.Status }
func (p *StatusRequest) Direction() protocol.Direction   { return protocol.Serverbound }
func (p *StatusRequest) Name() string                    { return "StatusRequest" }
func (p *StatusRequest) Schema() []protocol.FieldSpec    { return nil }

// PingRequest carries an opaque payload the server echoes back.
type PingRequest struct {
	Payload protocol.Long
}

func (p *PingRequest) ID() protocol.PacketID           { return PingRequestID }
func (p *PingRequest) State() protocol.ConnectionState { return protocol.Status }
func (p *PingRequest) Direction() protocol.Direction   { return protocol.Serverbound }
func (p *PingRequest) Name() string                    { return "PingRequest" }

func (p *PingRequest) Schema() []protocol.FieldSpec {
	return []protocol.FieldSpec{{Name: "payload", Value: &p.Payload}}
}

// StatusResponse carries the server list entry as a JSON document.
type StatusResponse struct {
	JSON protocol.String
}

func (p *StatusResponse) ID() protocol.PacketID           { return StatusResponseID }
func (p *StatusResponse) State() protocol.ConnectionState { return protocol.Status }
func (p *StatusResponse) Direction() protocol.Direction   { return protocol.Clientbound }
func (p *StatusResponse) Name() string                    { return "StatusResponse" }

func (p *StatusResponse) Schema() []protocol.FieldSpec {
	return []protocol.FieldSpec{{Name: "json", Value: &p.JSON}}
}

// PongResponse echoes a PingRequest payload.
type PongResponse struct {
	Payload protocol.Long
}

func (p *PongResponse) ID() protocol.PacketID           { return PongResponseID }
func (p *PongResponse) State() protocol.ConnectionState { return protocol.Status }
func (p *PongResponse) Direction() protocol.Direction   { return protocol.Clientbound }
func (p *PongResponse) Name() string                    { return "PongResponse" }

func (p *PongResponse) Schema() []protocol.FieldSpec {
	return []protocol.FieldSpec{{Name: "payload", Value: &p.Payload}}
}
