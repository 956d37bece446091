package middleware

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gear6io/mcwire/pkg/errors"
	"github.com/gear6io/mcwire/server/journal"
	"github.com/rs/zerolog"
)

// DefaultJournalQueueSize is used when NewJournalRecorder gets a size <= 0.
const DefaultJournalQueueSize = 1024

// SessionJournal is the part of *journal.Journal the recorder writes to.
type SessionJournal interface {
	RecordStart(ctx context.Context, sessionID, clientAddr string, at time.Time) error
	RecordHandshake(ctx context.Context, sessionID string, protocolVersion int, serverAddress string, serverPort int, nextState string) error
	RecordLogin(ctx context.Context, sessionID, username string) error
	RecordEnd(ctx context.Context, sessionID string, end journal.SessionEnd) error
}

// journalEntry is a copy of what an event needs, taken on the session
// goroutine so the writer never reads a live SessionContext.
type journalEntry struct {
	event           SessionEvent
	sessionID       string
	clientAddr      string
	startTime       time.Time
	protocolVersion int
	serverAddress   string
	serverPort      int
	state           string
	username        string
	end             journal.SessionEnd
}

// JournalRecorder queues session milestones and writes them to the journal
// from a single goroutine, in event order. Sessions never wait on the
// database: when the queue is full the entry is dropped and counted.
type JournalRecorder struct {
	journal SessionJournal
	logger  zerolog.Logger

	entries chan journalEntry
	done    chan struct{}

	mu        sync.RWMutex
	closed    bool
	closeOnce sync.Once
	dropped   atomic.Int64
}

func NewJournalRecorder(j SessionJournal, queueSize int, logger zerolog.Logger) *JournalRecorder {
	if queueSize <= 0 {
		queueSize = DefaultJournalQueueSize
	}
	r := &JournalRecorder{
		journal: j,
		logger:  logger.With().Str("component", "journal-recorder").Logger(),
		entries: make(chan journalEntry, queueSize),
		done:    make(chan struct{}),
	}
	go r.run()
	return r
}

// OnEvent handles journal events
func (r *JournalRecorder) OnEvent(ctx context.Context, sess *SessionContext, event SessionEvent, err error) error {
	entry := journalEntry{event: event, sessionID: sess.SessionID}

	switch event {
	case EventConnected:
		entry.clientAddr = sess.ClientAddr
		entry.startTime = sess.StartTime
	case EventHandshake:
		entry.protocolVersion = sess.ProtocolVersion
		entry.serverAddress = sess.ServerAddress
		entry.serverPort = int(sess.ServerPort)
		entry.state = sess.State.String()
	case EventLoginStarted:
		entry.username = sess.Username
	case EventDisconnected:
		entry.end = journal.SessionEnd{
			FinalState: sess.State.String(),
			Reason:     "closed",
			Frames:     sess.Frames,
			EndedAt:    time.Now(),
		}
		if err != nil {
			entry.end.Reason = err.Error()
			entry.end.ErrorCode = errors.GetCode(err)
		}
	default:
		return nil
	}

	r.enqueue(entry)
	return nil
}

func (r *JournalRecorder) enqueue(entry journalEntry) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return
	}

	select {
	case r.entries <- entry:
	default:
		dropped := r.dropped.Add(1)
		r.logger.Warn().
			Str("session_id", entry.sessionID).
			Str("event", entry.event.String()).
			Int64("dropped", dropped).
			Msg("Journal queue full, entry dropped")
	}
}

func (r *JournalRecorder) run() {
	defer close(r.done)
	// Writes outlive the sessions that produced them.
	ctx := context.Background()
	for entry := range r.entries {
		r.write(ctx, entry)
	}
}

func (r *JournalRecorder) write(ctx context.Context, e journalEntry) {
	var err error
	switch e.event {
	case EventConnected:
		err = r.journal.RecordStart(ctx, e.sessionID, e.clientAddr, e.startTime)
	case EventHandshake:
		err = r.journal.RecordHandshake(ctx, e.sessionID, e.protocolVersion, e.serverAddress, e.serverPort, e.state)
	case EventLoginStarted:
		err = r.journal.RecordLogin(ctx, e.sessionID, e.username)
	case EventDisconnected:
		err = r.journal.RecordEnd(ctx, e.sessionID, e.end)
	}

	if err != nil {
		r.logger.Warn().
			Err(err).
			Str("session_id", e.sessionID).
			Str("event", e.event.String()).
			Msg("Failed to record session event")
	}
}

// Dropped returns how many entries were discarded because the queue was full.
func (r *JournalRecorder) Dropped() int64 {
	return r.dropped.Load()
}

// Close stops accepting entries and waits until the queued ones are written.
func (r *JournalRecorder) Close() error {
	r.closeOnce.Do(func() {
		r.mu.Lock()
		r.closed = true
		close(r.entries)
		r.mu.Unlock()
	})
	<-r.done
	return nil
}
