package middleware

import (
	"context"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gear6io/mcwire/pkg/errors"
	"github.com/rs/zerolog"
)

// CircuitState is the per-host breaker state
type CircuitState int

const (
	CircuitClosed   CircuitState = iota // Normal operation
	CircuitOpen                         // Host is refused
	CircuitHalfOpen                     // One trial session allowed
)

func (s CircuitState) String() string {
	switch s {
	case CircuitClosed:
		return "closed"
	case CircuitOpen:
		return "open"
	case CircuitHalfOpen:
		return "half_open"
	default:
		return "unknown"
	}
}

type hostRecord struct {
	state        CircuitState
	failures     int
	firstFailure time.Time
	openedAt     time.Time
	trialSession string
}

// ClientGuard refuses hosts whose sessions keep ending in protocol errors.
// failureThreshold errors inside window open the breaker for blockDuration;
// after that one trial session is let through, and a clean trial closes it.
type ClientGuard struct {
	mu     sync.Mutex
	hosts  map[string]*hostRecord
	logger zerolog.Logger

	failureThreshold int
	window           time.Duration
	blockDuration    time.Duration

	blockedSessions int64

	now func() time.Time
}

// NewClientGuard creates a new per-host breaker
func NewClientGuard(failureThreshold int, window, blockDuration time.Duration, logger zerolog.Logger) *ClientGuard {
	return &ClientGuard{
		hosts:            make(map[string]*hostRecord),
		logger:           logger.With().Str("component", "client-guard").Logger(),
		failureThreshold: failureThreshold,
		window:           window,
		blockDuration:    blockDuration,
		now:              time.Now,
	}
}

// OnEvent handles guard events
func (g *ClientGuard) OnEvent(ctx context.Context, sess *SessionContext, event SessionEvent, err error) error {
	switch event {
	case EventConnected:
		return g.admit(sess)
	case EventProtocolError:
		g.recordFailure(sess)
	case EventDisconnected:
		// A trial that ended in a protocol error has already reopened.
		g.endTrial(sess)
	}
	return nil
}

func (g *ClientGuard) admit(sess *SessionContext) error {
	host := hostOf(sess.ClientAddr)

	g.mu.Lock()
	defer g.mu.Unlock()

	rec, ok := g.hosts[host]
	if !ok {
		return nil
	}

	switch rec.state {
	case CircuitOpen:
		if g.now().Sub(rec.openedAt) < g.blockDuration {
			atomic.AddInt64(&g.blockedSessions, 1)
			return errors.Newf(ErrClientBlocked, "host %s is blocked after repeated protocol errors", host).
				AddContext("host", host)
		}
		rec.state = CircuitHalfOpen
		rec.trialSession = sess.SessionID
		g.logger.Info().Str("host", host).Msg("Allowing trial session")
		return nil
	case CircuitHalfOpen:
		// A trial is already in flight.
		atomic.AddInt64(&g.blockedSessions, 1)
		return errors.Newf(ErrClientBlocked, "host %s is on probation", host).AddContext("host", host)
	}
	return nil
}

func (g *ClientGuard) recordFailure(sess *SessionContext) {
	host := hostOf(sess.ClientAddr)
	now := g.now()

	g.mu.Lock()
	defer g.mu.Unlock()

	rec, ok := g.hosts[host]
	if !ok {
		rec = &hostRecord{}
		g.hosts[host] = rec
	}

	if rec.state == CircuitHalfOpen {
		g.open(host, rec, now)
		return
	}

	if rec.failures == 0 || now.Sub(rec.firstFailure) > g.window {
		rec.failures = 0
		rec.firstFailure = now
	}
	rec.failures++

	if rec.failures >= g.failureThreshold {
		g.open(host, rec, now)
	}
}

func (g *ClientGuard) endTrial(sess *SessionContext) {
	host := hostOf(sess.ClientAddr)

	g.mu.Lock()
	defer g.mu.Unlock()

	if rec, ok := g.hosts[host]; ok && rec.state == CircuitHalfOpen && rec.trialSession == sess.SessionID {
		delete(g.hosts, host)
		g.logger.Info().Str("host", host).Msg("Host unblocked")
	}
}

func (g *ClientGuard) open(host string, rec *hostRecord, now time.Time) {
	rec.state = CircuitOpen
	rec.openedAt = now
	rec.failures = 0
	g.logger.Warn().
		Str("host", host).
		Dur("block_duration", g.blockDuration).
		Msg("Blocking host after protocol errors")
}

// State returns the breaker state for the host part of addr.
func (g *ClientGuard) State(addr string) CircuitState {
	g.mu.Lock()
	defer g.mu.Unlock()

	if rec, ok := g.hosts[hostOf(addr)]; ok {
		return rec.state
	}
	return CircuitClosed
}

// GetStats returns guard statistics
func (g *ClientGuard) GetStats() map[string]interface{} {
	g.mu.Lock()
	defer g.mu.Unlock()

	open := 0
	for _, rec := range g.hosts {
		if rec.state != CircuitClosed {
			open++
		}
	}

	return map[string]interface{}{
		"tracked_hosts":     len(g.hosts),
		"blocked_hosts":     open,
		"blocked_sessions":  atomic.LoadInt64(&g.blockedSessions),
		"failure_threshold": g.failureThreshold,
		"block_duration":    g.blockDuration.String(),
	}
}

func hostOf(addr string) string {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return host
}
