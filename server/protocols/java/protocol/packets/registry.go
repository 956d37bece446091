package packets

import (
	"fmt"
	"sync"

	"github.com/gear6io/mcwire/server/protocols/java/protocol"
)

var (
	serverbound = sync.OnceValue(func() *protocol.Registry {
		return build(protocol.Serverbound,
			func() protocol.Packet { return &ClientHandshake{} },
			func() protocol.Packet { return &StatusRequest{} },
			func() protocol.Packet { return &PingRequest{} },
			func() protocol.Packet { return &LoginStart{} },
		)
	})

	clientbound = sync.OnceValue(func() *protocol.Registry {
		return build(protocol.Clientbound,
			func() protocol.Packet { return &StatusResponse{} },
			func() protocol.Packet { return &PongResponse{} },
			func() protocol.Packet { return &LoginDisconnect{} },
		)
	})
)

// Serverbound returns the registry of packets a client may send. It is built
// once and must not be modified.
func Serverbound() *protocol.Registry {
	return serverbound()
}

// Clientbound returns the registry of packets the server sends.
func Clientbound() *protocol.Registry {
	return clientbound()
}

func build(direction protocol.Direction, ctors ...protocol.Constructor) *protocol.Registry {
	r := protocol.NewRegistry(direction)
	for _, ctor := range ctors {
		if err := r.Register(ctor); err != nil {
			panic(fmt.Sprintf("packets: %v", err))
		}
	}
	return r
}
