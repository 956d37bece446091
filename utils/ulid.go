package utils

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	entropyLock sync.Mutex
	entropy     = ulid.Monotonic(rand.Reader, 0)
)

// NewSessionID returns a ULID for a freshly accepted connection. IDs from one
// process sort in accept order.
func NewSessionID() string {
	return NewSessionIDAt(time.Now())
}

// NewSessionIDAt returns a session ULID stamped with t.
func NewSessionIDAt(t time.Time) string {
	entropyLock.Lock()
	defer entropyLock.Unlock()

	return ulid.MustNew(ulid.Timestamp(t), entropy).String()
}

// SessionStartedAt recovers the timestamp encoded in a session ID.
func SessionStartedAt(id string) (time.Time, error) {
	parsed, err := ulid.Parse(id)
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(parsed.Time()), nil
}
