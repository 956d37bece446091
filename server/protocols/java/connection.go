package java

import (
	"context"
	stderrors "errors"
	"io"
	"net"
	"strings"
	"time"

	"github.com/gear6io/mcwire/pkg/errors"
	"github.com/gear6io/mcwire/server/protocols/java/middleware"
	"github.com/gear6io/mcwire/server/protocols/java/protocol"
	"github.com/gear6io/mcwire/server/protocols/java/protocol/packets"
	"github.com/rs/zerolog"
)

const farewellWriteTimeout = time.Second

// errSessionDone ends a session that finished its exchange normally.
var errSessionDone = stderrors.New("session done")

// HandlerOptions configures a ConnectionHandler.
type HandlerOptions struct {
	ReadChunkSize  int
	MaxFrameLength int
	// IdleTimeout bounds the wait for the next chunk. Zero waits forever.
	IdleTimeout time.Duration

	Status  StatusSource
	Players *PlayerList
	Chain   *middleware.Chain
	Logger  zerolog.Logger
}

// ConnectionHandler runs one client session: it reassembles frames, decodes
// them for the current state and answers status and login requests.
// Packets of a connection are processed strictly in arrival order.
type ConnectionHandler struct {
	conn     net.Conn
	sess     *middleware.SessionContext
	machine  *StateMachine
	registry *protocol.Registry
	opts     HandlerOptions
	logger   zerolog.Logger
}

// NewConnectionHandler creates a handler for conn. The handler owns conn and
// closes it when Handle returns.
func NewConnectionHandler(conn net.Conn, sessionID string, opts HandlerOptions) *ConnectionHandler {
	clientAddr := conn.RemoteAddr().String()
	return &ConnectionHandler{
		conn:     conn,
		sess:     middleware.NewSessionContext(sessionID, clientAddr, conn),
		machine:  NewStateMachine(),
		registry: packets.Serverbound(),
		opts:     opts,
		logger: opts.Logger.With().
			Str("session_id", sessionID).
			Str("client", clientAddr).
			Logger(),
	}
}

// Session returns the handler's session context.
func (h *ConnectionHandler) Session() *middleware.SessionContext {
	return h.sess
}

// Handle consumes the stream until it closes, ctx is cancelled or the client
// breaks the protocol. Every failure ends only this session. The returned
// error is nil for a clean close.
func (h *ConnectionHandler) Handle(ctx context.Context) error {
	defer h.sess.Close()
	chain := h.opts.Chain

	if err := chain.Execute(ctx, h.sess, middleware.EventConnected, nil); err != nil {
		h.logger.Info().Err(err).Msg("Session rejected")
		chain.Notify(ctx, h.sess, middleware.EventDisconnected, err)
		return err
	}
	if h.opts.Players != nil {
		defer h.opts.Players.Remove(h.sess.SessionID)
	}

	stop := context.AfterFunc(ctx, func() {
		h.conn.SetReadDeadline(time.Now())
	})
	defer stop()

	h.logger.Debug().Msg("Session started")

	frames := protocol.NewFrameReader(h.opts.MaxFrameLength)
	src := &deadlineReader{ctx: ctx, conn: h.conn, timeout: h.opts.IdleTimeout}
	err := frames.Pump(ctx, src, h.opts.ReadChunkSize, func(frame *protocol.Frame) error {
		return h.handleFrame(ctx, frame)
	})

	err = h.finish(ctx, frames, err)
	if err != nil && isProtocolError(err) {
		h.sess.ErrorCount++
		chain.Notify(ctx, h.sess, middleware.EventProtocolError, err)
	}
	chain.Notify(ctx, h.sess, middleware.EventDisconnected, err)

	if err != nil {
		h.logger.Debug().Err(err).Str("state", h.sess.State.String()).Msg("Session ended with error")
		return err
	}
	h.logger.Debug().Str("state", h.sess.State.String()).Int64("frames", h.sess.Frames).Msg("Session ended")
	return nil
}

// finish maps the pump result to the session outcome and says goodbye to
// clients left waiting in Login.
func (h *ConnectionHandler) finish(ctx context.Context, frames *protocol.FrameReader, err error) error {
	switch {
	case err == nil, err == errSessionDone:
		return nil
	case ctx.Err() != nil:
		h.farewell("Server closed")
		return nil
	case stderrors.Is(err, net.ErrClosed), stderrors.Is(err, io.ErrClosedPipe):
		// a partial frame still buffered is a truncated stream
		return frames.Close()
	case isTimeout(err):
		h.farewell("Timed out")
		return errors.Newf(ErrIdleTimeout, "no data for %s", h.opts.IdleTimeout).
			AddContext("state", h.machine.Current().String())
	}
	return err
}

func (h *ConnectionHandler) handleFrame(ctx context.Context, frame *protocol.Frame) error {
	h.sess.Frames++
	h.sess.Touch(time.Now())
	h.opts.Chain.Notify(ctx, h.sess, middleware.EventFrame, nil)

	pkt, err := h.registry.Decode(h.machine.Current(), frame.Info.ID, frame.Payload)
	if err != nil {
		return err
	}

	h.logger.Trace().
		Str("state", h.machine.Current().String()).
		Str("packet", pkt.Name()).
		Int("length", frame.Info.Length).
		Msg("Packet received")

	previous := h.machine.Current()
	if err := h.machine.Apply(pkt); err != nil {
		return err
	}

	switch p := pkt.(type) {
	case *packets.ClientHandshake:
		return h.handleHandshake(ctx, p, previous)
	case *packets.StatusRequest:
		return h.handleStatusRequest()
	case *packets.PingRequest:
		return h.handlePing(p)
	case *packets.LoginStart:
		return h.handleLoginStart(ctx, p)
	}
	return nil
}

func (h *ConnectionHandler) handleHandshake(ctx context.Context, p *packets.ClientHandshake, previous protocol.ConnectionState) error {
	h.sess.ProtocolVersion = int(p.ProtocolVersion)
	h.sess.ServerAddress = string(p.Address)
	h.sess.ServerPort = uint16(p.Port)
	h.sess.PreviousState = previous
	h.sess.State = h.machine.Current()

	h.logger.Debug().
		Int("protocol_version", h.sess.ProtocolVersion).
		Str("server_address", h.sess.ServerAddress).
		Uint16("server_port", h.sess.ServerPort).
		Str("next_state", h.sess.State.String()).
		Msg("Handshake received")

	h.opts.Chain.Notify(ctx, h.sess, middleware.EventHandshake, nil)
	h.opts.Chain.Notify(ctx, h.sess, middleware.EventStateChanged, nil)
	return nil
}

func (h *ConnectionHandler) handleStatusRequest() error {
	if h.opts.Status == nil {
		return errors.New(errors.CommonUnsupported, "status is not configured", nil)
	}
	body, err := encodeStatus(h.opts.Status.Status())
	if err != nil {
		return err
	}
	return h.send(&packets.StatusResponse{JSON: protocol.String(body)})
}

// handlePing echoes the payload; the status exchange is over after that.
func (h *ConnectionHandler) handlePing(p *packets.PingRequest) error {
	if err := h.send(&packets.PongResponse{Payload: p.Payload}); err != nil {
		return err
	}
	return errSessionDone
}

func (h *ConnectionHandler) handleLoginStart(ctx context.Context, p *packets.LoginStart) error {
	h.sess.Username = string(p.Username)

	if err := h.opts.Chain.Execute(ctx, h.sess, middleware.EventLoginStarted, nil); err != nil {
		reason := err.Error()
		var coded *errors.Error
		if stderrors.As(err, &coded) {
			reason = coded.Message
		}
		if sendErr := h.send(&packets.LoginDisconnect{Reason: protocol.String(disconnectReason(reason))}); sendErr != nil {
			h.logger.Debug().Err(sendErr).Msg("Failed to send login disconnect")
		}
		return errors.New(ErrLoginRefused, "login refused", err).
			AddContext("username", h.sess.Username)
	}

	if h.opts.Players != nil {
		player := h.opts.Players.Add(h.sess.SessionID, h.sess.Username)
		h.logger.Info().Str("username", player.Name).Str("uuid", player.ID).Msg("Player logged in")
	}
	return nil
}

func (h *ConnectionHandler) send(p protocol.Packet) error {
	if err := protocol.WritePacket(h.conn, p); err != nil {
		return errors.New(ErrPacketWriteFailed, "failed to write "+p.Name(), err).
			AddContext("packet", p.Name())
	}
	return nil
}

// farewell tells a client in Login why it is being dropped. Other states have
// no clientbound disconnect.
func (h *ConnectionHandler) farewell(reason string) {
	if h.machine.Current() != protocol.Login {
		return
	}
	h.conn.SetWriteDeadline(time.Now().Add(farewellWriteTimeout))
	if err := h.send(&packets.LoginDisconnect{Reason: protocol.String(disconnectReason(reason))}); err != nil {
		h.logger.Debug().Err(err).Msg("Failed to send login disconnect")
	}
}

// deadlineReader pushes the read deadline out by timeout before every read.
type deadlineReader struct {
	ctx     context.Context
	conn    net.Conn
	timeout time.Duration
}

func (r *deadlineReader) Read(p []byte) (int, error) {
	var deadline time.Time
	if r.timeout > 0 {
		deadline = time.Now().Add(r.timeout)
	}
	// Some streams (net.Pipe) refuse deadlines once the peer has hung up.
	// The Read below then reports EOF, which the frame reader needs to see.
	_ = r.conn.SetReadDeadline(deadline)
	// A shutdown that landed before the deadline reset must still interrupt.
	if err := r.ctx.Err(); err != nil {
		return 0, err
	}
	return r.conn.Read(p)
}

func isTimeout(err error) bool {
	var netErr net.Error
	return stderrors.As(err, &netErr) && netErr.Timeout()
}

// isProtocolError reports whether err was caused by what the client sent.
func isProtocolError(err error) bool {
	if errors.HasCode(err, ErrInvalidStateTransition) {
		return true
	}
	return strings.HasPrefix(errors.GetCode(err), "protocol.")
}
