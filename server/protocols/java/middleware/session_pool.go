package middleware

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gear6io/mcwire/pkg/errors"
	"github.com/rs/zerolog"
)

// SessionPool caps concurrent sessions and reaps sessions that stay idle.
type SessionPool struct {
	mu              sync.RWMutex
	activeSessions  map[string]*SessionContext
	maxSessions     int
	idleTimeout     time.Duration
	cleanupInterval time.Duration
	logger          zerolog.Logger

	// Stats
	totalSessions    int64
	peakSessions     int64
	rejectedSessions int64
	reapedSessions   int64

	stopCleanup chan struct{}
	stopOnce    sync.Once
}

// SessionInfo is a point-in-time view of one pooled session.
type SessionInfo struct {
	SessionID    string    `json:"session_id"`
	ClientAddr   string    `json:"client"`
	StartTime    time.Time `json:"started_at"`
	LastActivity time.Time `json:"last_activity"`
}

// PoolStats is a snapshot of pool counters.
type PoolStats struct {
	ActiveSessions   int           `json:"active_sessions"`
	MaxSessions      int           `json:"max_sessions"`
	TotalSessions    int64         `json:"total_sessions"`
	PeakSessions     int64         `json:"peak_sessions"`
	RejectedSessions int64         `json:"rejected_sessions"`
	ReapedSessions   int64         `json:"reaped_sessions"`
	IdleTimeout      time.Duration `json:"idle_timeout"`
}

// NewSessionPool creates a pool. An idleTimeout of zero disables reaping.
func NewSessionPool(maxSessions int, idleTimeout, cleanupInterval time.Duration, logger zerolog.Logger) *SessionPool {
	pool := &SessionPool{
		activeSessions:  make(map[string]*SessionContext),
		maxSessions:     maxSessions,
		idleTimeout:     idleTimeout,
		cleanupInterval: cleanupInterval,
		logger:          logger.With().Str("component", "session-pool").Logger(),
		stopCleanup:     make(chan struct{}),
	}

	if idleTimeout > 0 && cleanupInterval > 0 {
		go pool.cleanupRoutine()
	}

	return pool
}

// OnEvent handles session lifecycle events
func (p *SessionPool) OnEvent(ctx context.Context, sess *SessionContext, event SessionEvent, err error) error {
	switch event {
	case EventConnected:
		return p.admit(sess)
	case EventDisconnected:
		p.release(sess)
	}
	return nil
}

func (p *SessionPool) admit(sess *SessionContext) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.activeSessions) >= p.maxSessions {
		atomic.AddInt64(&p.rejectedSessions, 1)
		p.logger.Warn().
			Str("client", sess.ClientAddr).
			Int("max_sessions", p.maxSessions).
			Msg("Session rejected - pool at capacity")

		return errors.Newf(ErrPoolAtCapacity, "session pool at capacity (%d)", p.maxSessions)
	}

	p.activeSessions[sess.SessionID] = sess
	atomic.AddInt64(&p.totalSessions, 1)

	if current := int64(len(p.activeSessions)); current > atomic.LoadInt64(&p.peakSessions) {
		atomic.StoreInt64(&p.peakSessions, current)
	}

	p.logger.Debug().
		Str("session_id", sess.SessionID).
		Int("active_sessions", len(p.activeSessions)).
		Msg("Session added to pool")

	return nil
}

func (p *SessionPool) release(sess *SessionContext) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.activeSessions[sess.SessionID]; exists {
		delete(p.activeSessions, sess.SessionID)
		p.logger.Debug().
			Str("session_id", sess.SessionID).
			Int("active_sessions", len(p.activeSessions)).
			Msg("Session removed from pool")
	}
}

func (p *SessionPool) cleanupRoutine() {
	ticker := time.NewTicker(p.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.ReapIdle(time.Now())
		case <-p.stopCleanup:
			return
		}
	}
}

// ReapIdle closes every session idle since before now-idleTimeout and returns
// how many it closed. The sessions leave the pool when their handlers report
// EventDisconnected.
func (p *SessionPool) ReapIdle(now time.Time) int {
	if p.idleTimeout <= 0 {
		return 0
	}
	cutoff := now.Add(-p.idleTimeout)

	p.mu.RLock()
	var idle []*SessionContext
	for _, sess := range p.activeSessions {
		if sess.LastActivity().Before(cutoff) {
			idle = append(idle, sess)
		}
	}
	p.mu.RUnlock()

	for _, sess := range idle {
		p.logger.Info().
			Str("session_id", sess.SessionID).
			Str("client", sess.ClientAddr).
			Dur("idle_time", now.Sub(sess.LastActivity())).
			Msg("Closing idle session")
		sess.Close()
	}
	atomic.AddInt64(&p.reapedSessions, int64(len(idle)))
	return len(idle)
}

// Sessions lists pooled sessions, oldest first.
func (p *SessionPool) Sessions() []SessionInfo {
	p.mu.RLock()
	infos := make([]SessionInfo, 0, len(p.activeSessions))
	for _, sess := range p.activeSessions {
		infos = append(infos, SessionInfo{
			SessionID:    sess.SessionID,
			ClientAddr:   sess.ClientAddr,
			StartTime:    sess.StartTime,
			LastActivity: sess.LastActivity(),
		})
	}
	p.mu.RUnlock()

	sort.Slice(infos, func(i, j int) bool { return infos[i].SessionID < infos[j].SessionID })
	return infos
}

// GetStats returns session pool statistics
func (p *SessionPool) GetStats() PoolStats {
	p.mu.RLock()
	active := len(p.activeSessions)
	p.mu.RUnlock()

	return PoolStats{
		ActiveSessions:   active,
		MaxSessions:      p.maxSessions,
		TotalSessions:    atomic.LoadInt64(&p.totalSessions),
		PeakSessions:     atomic.LoadInt64(&p.peakSessions),
		RejectedSessions: atomic.LoadInt64(&p.rejectedSessions),
		ReapedSessions:   atomic.LoadInt64(&p.reapedSessions),
		IdleTimeout:      p.idleTimeout,
	}
}

// Close stops the cleanup goroutine
func (p *SessionPool) Close() error {
	p.stopOnce.Do(func() { close(p.stopCleanup) })

	p.logger.Info().
		Interface("final_stats", p.GetStats()).
		Msg("Session pool closed")

	return nil
}
