package protocol

import "fmt"

const (
	// MaxVarIntLen is the longest encoding of a 64-bit value.
	MaxVarIntLen = 10

	// MaxFrameLengthPrefix bounds the frame length VarInt to three bytes.
	MaxFrameLengthPrefix = 3

	// MaxFrameLength is the largest length a three byte prefix can carry.
	MaxFrameLength = 1<<21 - 1

	// MaxStringBytes is 32767 UTF-16 code units at up to three bytes each.
	MaxStringBytes = 32767 * 3

	// DefaultChunkSize is the read size used when the caller passes none.
	DefaultChunkSize = 1024
)

// ConnectionState is the protocol phase that scopes packet ids.
type ConnectionState int

const (
	Handshaking ConnectionState = iota
	Status
	Login
	Play
)

var connectionStateNames = map[ConnectionState]string{
	Handshaking: "Handshaking",
	Status:      "Status",
	Login:       "Login",
	Play:        "Play",
}

func (s ConnectionState) String() string {
	if name, ok := connectionStateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("ConnectionState(%d)", int(s))
}

// Direction says which peer sends a packet.
type Direction int

const (
	Serverbound Direction = iota
	Clientbound
)

func (d Direction) String() string {
	switch d {
	case Serverbound:
		return "serverbound"
	case Clientbound:
		return "clientbound"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// PacketID is the byte that follows the frame length.
type PacketID byte

func (id PacketID) String() string {
	return fmt.Sprintf("0x%02X", byte(id))
}
