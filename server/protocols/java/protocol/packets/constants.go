package packets

import "github.com/gear6io/mcwire/server/protocols/java/protocol"

// Packet ids, scoped by state and direction.
const (
	// Handshaking, serverbound
	ClientHandshakeID protocol.PacketID = 0x00

	// Status, serverbound
	StatusRequestID protocol.PacketID = 0x00
	PingRequestID   protocol.PacketID = 0x01

	// Status, clientbound
	StatusResponseID protocol.PacketID = 0x00
	PongResponseID   protocol.PacketID = 0x01

	// Login, serverbound
	LoginStartID protocol.PacketID = 0x00

	// Login, clientbound
	LoginDisconnectID protocol.PacketID = 0x00
)

// Values of ClientHandshake.NextState.
const (
	NextStateStatus protocol.VarInt = 1
	NextStateLogin  protocol.VarInt = 2
)
