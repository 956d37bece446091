package middleware

import (
	"context"
	"strings"
	"sync"

	"github.com/gear6io/mcwire/pkg/errors"
	"github.com/rs/zerolog"
)

// Whitelist rejects LoginStart for names it does not know. Names compare
// case-insensitively.
type Whitelist struct {
	mu      sync.RWMutex
	names   map[string]struct{}
	enabled bool
	logger  zerolog.Logger
}

// NewWhitelist creates a whitelist. A disabled whitelist admits everyone.
func NewWhitelist(enabled bool, names []string, logger zerolog.Logger) *Whitelist {
	w := &Whitelist{
		names:   make(map[string]struct{}, len(names)),
		enabled: enabled,
		logger:  logger.With().Str("component", "whitelist").Logger(),
	}
	for _, name := range names {
		w.Add(name)
	}
	return w
}

// OnEvent checks EventLoginStarted
func (w *Whitelist) OnEvent(ctx context.Context, sess *SessionContext, event SessionEvent, err error) error {
	if !w.enabled || event != EventLoginStarted {
		return nil
	}

	if !w.Allowed(sess.Username) {
		w.logger.Info().
			Str("session_id", sess.SessionID).
			Str("username", sess.Username).
			Msg("Login refused, name not whitelisted")
		return errors.Newf(ErrNotWhitelisted, "%s is not whitelisted on this server", sess.Username).
			AddContext("username", sess.Username)
	}
	return nil
}

func (w *Whitelist) Add(name string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.names[strings.ToLower(name)] = struct{}{}
}

func (w *Whitelist) Allowed(name string) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	_, ok := w.names[strings.ToLower(name)]
	return ok
}
