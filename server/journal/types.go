package journal

import (
	"time"

	"github.com/uptrace/bun"
)

// Session is one row per accepted connection.
type Session struct {
	bun.BaseModel `bun:"table:sessions"`

	ID              int64      `bun:"id,pk,autoincrement" json:"id"`
	SessionID       string     `bun:"session_id,notnull,unique" json:"session_id"`
	ClientAddr      string     `bun:"client_addr,notnull" json:"client_addr"`
	ProtocolVersion int        `bun:"protocol_version,notnull,default:0" json:"protocol_version"`
	ServerAddress   string     `bun:"server_address" json:"server_address,omitempty"`
	ServerPort      int        `bun:"server_port,notnull,default:0" json:"server_port,omitempty"`
	NextState       string     `bun:"next_state" json:"next_state,omitempty"`
	Username        string     `bun:"username" json:"username,omitempty"`
	FinalState      string     `bun:"final_state" json:"final_state,omitempty"`
	EndReason       string     `bun:"end_reason" json:"end_reason,omitempty"`
	ErrorCode       string     `bun:"error_code" json:"error_code,omitempty"`
	Frames          int64      `bun:"frames,notnull,default:0" json:"frames"`
	StartedAt       time.Time  `bun:"started_at,notnull" json:"started_at"`
	EndedAt         *time.Time `bun:"ended_at" json:"ended_at,omitempty"`
}

// SessionEnd is what is known about a session when it closes.
type SessionEnd struct {
	FinalState string
	Reason     string
	ErrorCode  string
	Frames     int64
	EndedAt    time.Time
}

// Summary aggregates the whole journal.
type Summary struct {
	Sessions int `json:"sessions"`
	Open     int `json:"open"`
	Logins   int `json:"logins"`
	Errored  int `json:"errored"`
}
