package middleware

import (
	"context"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gear6io/mcwire/server/protocols/java/protocol"
)

// SessionEvent represents different session lifecycle events
type SessionEvent int

const (
	EventConnected SessionEvent = iota
	EventDisconnected
	EventFrame
	EventHandshake
	EventStateChanged
	EventLoginStarted
	EventProtocolError
)

var sessionEventNames = map[SessionEvent]string{
	EventConnected:     "connected",
	EventDisconnected:  "disconnected",
	EventFrame:         "frame",
	EventHandshake:     "handshake",
	EventStateChanged:  "state_changed",
	EventLoginStarted:  "login_started",
	EventProtocolError: "protocol_error",
}

func (e SessionEvent) String() string {
	if name, ok := sessionEventNames[e]; ok {
		return name
	}
	return "unknown"
}

// SessionContext holds what is known about one client session. The fields
// are written only by the connection goroutine; LastActivity may be read
// from anywhere.
type SessionContext struct {
	SessionID  string
	ClientAddr string
	StartTime  time.Time

	State         protocol.ConnectionState
	PreviousState protocol.ConnectionState

	// Filled from ClientHandshake
	ProtocolVersion int
	ServerAddress   string
	ServerPort      uint16

	// Filled from LoginStart
	Username string

	Frames     int64
	ErrorCount int

	lastActivity atomic.Int64
	closer       io.Closer
	closeOnce    sync.Once
}

// NewSessionContext creates the context for an accepted connection. closer is
// what Close shuts down, usually the net.Conn.
func NewSessionContext(sessionID, clientAddr string, closer io.Closer) *SessionContext {
	now := time.Now()
	s := &SessionContext{
		SessionID:  sessionID,
		ClientAddr: clientAddr,
		StartTime:  now,
		State:      protocol.Handshaking,
		closer:     closer,
	}
	s.lastActivity.Store(now.UnixNano())
	return s
}

// Touch records activity at t.
func (s *SessionContext) Touch(t time.Time) {
	s.lastActivity.Store(t.UnixNano())
}

func (s *SessionContext) LastActivity() time.Time {
	return time.Unix(0, s.lastActivity.Load())
}

// Close shuts the session's stream down. Safe to call more than once and
// from any goroutine.
func (s *SessionContext) Close() error {
	var err error
	s.closeOnce.Do(func() {
		if s.closer != nil {
			err = s.closer.Close()
		}
	})
	return err
}

// Middleware observes session events. Returning an error from
// EventConnected or EventLoginStarted rejects the session.
type Middleware interface {
	OnEvent(ctx context.Context, sess *SessionContext, event SessionEvent, err error) error
}

// Chain represents a chain of middleware
type Chain struct {
	middlewares []Middleware
}

// NewChain creates a new middleware chain
func NewChain(middlewares ...Middleware) *Chain {
	return &Chain{middlewares: middlewares}
}

// Execute runs the chain in order and stops at the first error.
func (c *Chain) Execute(ctx context.Context, sess *SessionContext, event SessionEvent, err error) error {
	if c == nil {
		return nil
	}
	for _, m := range c.middlewares {
		if mErr := m.OnEvent(ctx, sess, event, err); mErr != nil {
			return mErr
		}
	}
	return nil
}

// Notify runs every middleware even if some fail and returns the first error.
// Used for events that must reach every observer, like EventDisconnected.
func (c *Chain) Notify(ctx context.Context, sess *SessionContext, event SessionEvent, err error) error {
	if c == nil {
		return nil
	}
	var first error
	for _, m := range c.middlewares {
		if mErr := m.OnEvent(ctx, sess, event, err); mErr != nil && first == nil {
			first = mErr
		}
	}
	return first
}
