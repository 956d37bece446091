package java

import (
	"crypto/md5"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// OfflinePlayerUUID is the id an offline-mode server gives a name: an MD5
// name-based (version 3) UUID of "OfflinePlayer:<name>" with no namespace.
func OfflinePlayerUUID(name string) uuid.UUID {
	sum := md5.Sum([]byte("OfflinePlayer:" + name))
	sum[6] = sum[6]&0x0f | 0x30
	sum[8] = sum[8]&0x3f | 0x80
	return uuid.UUID(sum)
}

// Player is one logged-in name.
type Player struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

// PlayerList tracks sessions that completed LoginStart, keyed by session id.
type PlayerList struct {
	mu      sync.RWMutex
	players map[string]Player
}

func NewPlayerList() *PlayerList {
	return &PlayerList{players: make(map[string]Player)}
}

func (l *PlayerList) Add(sessionID, name string) Player {
	p := Player{Name: name, ID: OfflinePlayerUUID(name).String()}
	l.mu.Lock()
	l.players[sessionID] = p
	l.mu.Unlock()
	return p
}

func (l *PlayerList) Remove(sessionID string) {
	l.mu.Lock()
	delete(l.players, sessionID)
	l.mu.Unlock()
}

func (l *PlayerList) Online() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.players)
}

// Sample returns up to n players ordered by name.
func (l *PlayerList) Sample(n int) []Player {
	l.mu.RLock()
	all := make([]Player, 0, len(l.players))
	for _, p := range l.players {
		all = append(all, p)
	}
	l.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	if len(all) > n {
		all = all[:n]
	}
	return all
}
