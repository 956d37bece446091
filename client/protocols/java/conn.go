package java

import (
	"context"
	"net"
	"strconv"
	"time"

	"github.com/gear6io/mcwire/server/protocols/java/protocol"
	"github.com/gear6io/mcwire/server/protocols/java/protocol/packets"
	"github.com/go-faster/errors"
)

// ErrUnexpectedPacket is returned when the server answers with a packet the
// exchange did not expect.
var ErrUnexpectedPacket = errors.New("unexpected packet")

// Conn is the client side of one Java Edition connection.
type Conn struct {
	conn    net.Conn
	frames  *protocol.FrameReader
	buf     []byte
	timeout time.Duration
	state   protocol.ConnectionState
}

// Dial connects to addr. timeout bounds the dial and every later read or
// write.
func Dial(ctx context.Context, addr string, timeout time.Duration) (*Conn, error) {
	d := net.Dialer{Timeout: timeout}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, errors.Wrap(err, "dial")
	}
	return &Conn{
		conn:    conn,
		frames:  protocol.NewFrameReader(0),
		buf:     make([]byte, protocol.DefaultChunkSize),
		timeout: timeout,
		state:   protocol.Handshaking,
	}, nil
}

// State is the state the connection is in from the client's point of view.
func (c *Conn) State() protocol.ConnectionState {
	return c.state
}

// Handshake sends ClientHandshake and moves to the requested state.
func (c *Conn) Handshake(protocolVersion int, nextState protocol.VarInt) error {
	host, portStr, err := net.SplitHostPort(c.conn.RemoteAddr().String())
	if err != nil {
		return errors.Wrap(err, "split remote address")
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return errors.Wrap(err, "parse remote port")
	}

	if err := c.Send(&packets.ClientHandshake{
		ProtocolVersion: protocol.VarInt(protocolVersion),
		Address:         protocol.String(host),
		Port:            protocol.UnsignedShort(port),
		NextState:       nextState,
	}); err != nil {
		return err
	}

	switch nextState {
	case packets.NextStateStatus:
		c.state = protocol.Status
	case packets.NextStateLogin:
		c.state = protocol.Login
	}
	return nil
}

// Send writes one packet.
func (c *Conn) Send(p protocol.Packet) error {
	if err := c.conn.SetWriteDeadline(time.Now().Add(c.timeout)); err != nil {
		return errors.Wrap(err, "set write deadline")
	}
	if err := protocol.WritePacket(c.conn, p); err != nil {
		return errors.Wrapf(err, "write %s", p.Name())
	}
	return nil
}

// Receive reads the next clientbound packet for the current state.
func (c *Conn) Receive() (protocol.Packet, error) {
	for {
		frame, err := c.frames.Next()
		if err != nil {
			return nil, errors.Wrap(err, "read frame")
		}
		if frame != nil {
			pkt, err := packets.Clientbound().Decode(c.state, frame.Info.ID, frame.Payload)
			if err != nil {
				return nil, errors.Wrap(err, "decode packet")
			}
			return pkt, nil
		}

		if err := c.conn.SetReadDeadline(time.Now().Add(c.timeout)); err != nil {
			return nil, errors.Wrap(err, "set read deadline")
		}
		n, err := c.conn.Read(c.buf)
		if n > 0 {
			c.frames.Feed(c.buf[:n])
			continue
		}
		if err != nil {
			return nil, errors.Wrap(err, "read")
		}
	}
}

// Close closes the connection.
func (c *Conn) Close() error {
	return c.conn.Close()
}

// ExpectPacket receives one packet and checks that it is a T.
func ExpectPacket[T protocol.Packet](c *Conn) (T, error) {
	var zero T
	pkt, err := c.Receive()
	if err != nil {
		return zero, err
	}
	typed, ok := pkt.(T)
	if !ok {
		return zero, errors.Wrapf(ErrUnexpectedPacket, "got %s", pkt.Name())
	}
	return typed, nil
}
