package journal

import (
	"context"
	"database/sql"
	"time"

	"github.com/gear6io/mcwire/pkg/errors"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

// Journal records the lifecycle of every session in SQLite.
type Journal struct {
	db   *bun.DB
	path string
}

// Open opens (or creates) the journal database at path and brings its schema
// up to date. ":memory:" gives a private in-memory journal.
func Open(ctx context.Context, path string) (*Journal, error) {
	sqldb, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, errors.New(ErrJournalOpenFailed, "failed to open SQLite database", err).AddContext("path", path)
	}
	// SQLite allows one writer; a single connection also keeps :memory: shared.
	sqldb.SetMaxOpenConns(1)

	j, err := New(ctx, sqldb)
	if err != nil {
		sqldb.Close()
		return nil, err
	}
	j.path = path
	return j, nil
}

// New wraps an open SQLite handle and migrates it.
func New(ctx context.Context, sqldb *sql.DB) (*Journal, error) {
	db := bun.NewDB(sqldb, sqlitedialect.New())
	if err := migrate(ctx, db); err != nil {
		return nil, err
	}
	return &Journal{db: db}, nil
}

func (j *Journal) Path() string {
	return j.path
}

// RecordStart inserts the row for a newly accepted session.
func (j *Journal) RecordStart(ctx context.Context, sessionID, clientAddr string, at time.Time) error {
	row := &Session{
		SessionID:  sessionID,
		ClientAddr: clientAddr,
		StartedAt:  at.UTC(),
	}
	if _, err := j.db.NewInsert().Model(row).Exec(ctx); err != nil {
		return errors.New(ErrJournalWriteFailed, "failed to record session start", err).AddContext("session_id", sessionID)
	}
	return nil
}

// RecordHandshake stores the handshake a client opened with.
func (j *Journal) RecordHandshake(ctx context.Context, sessionID string, protocolVersion int, serverAddress string, serverPort int, nextState string) error {
	return j.update(ctx, sessionID, "handshake", func(q *bun.UpdateQuery) *bun.UpdateQuery {
		return q.Set("protocol_version = ?", protocolVersion).
			Set("server_address = ?", serverAddress).
			Set("server_port = ?", serverPort).
			Set("next_state = ?", nextState)
	})
}

// RecordLogin stores the name sent in LoginStart.
func (j *Journal) RecordLogin(ctx context.Context, sessionID, username string) error {
	return j.update(ctx, sessionID, "login", func(q *bun.UpdateQuery) *bun.UpdateQuery {
		return q.Set("username = ?", username)
	})
}

// RecordEnd closes the session row.
func (j *Journal) RecordEnd(ctx context.Context, sessionID string, end SessionEnd) error {
	endedAt := end.EndedAt.UTC()
	return j.update(ctx, sessionID, "end", func(q *bun.UpdateQuery) *bun.UpdateQuery {
		return q.Set("final_state = ?", end.FinalState).
			Set("end_reason = ?", end.Reason).
			Set("error_code = ?", end.ErrorCode).
			Set("frames = ?", end.Frames).
			Set("ended_at = ?", endedAt)
	})
}

func (j *Journal) update(ctx context.Context, sessionID, what string, set func(*bun.UpdateQuery) *bun.UpdateQuery) error {
	res, err := set(j.db.NewUpdate().Table("sessions")).
		Where("session_id = ?", sessionID).
		Exec(ctx)
	if err != nil {
		return errors.New(ErrJournalWriteFailed, "failed to record session "+what, err).AddContext("session_id", sessionID)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errors.New(ErrJournalSessionAbsent, "no journal row for session", nil).AddContext("session_id", sessionID)
	}
	return nil
}

// Get returns one session by its id.
func (j *Journal) Get(ctx context.Context, sessionID string) (*Session, error) {
	row := new(Session)
	err := j.db.NewSelect().Model(row).Where("session_id = ?", sessionID).Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.New(ErrJournalSessionAbsent, "no journal row for session", nil).AddContext("session_id", sessionID)
		}
		return nil, errors.New(ErrJournalQueryFailed, "failed to load session", err)
	}
	return row, nil
}

// Recent returns up to limit sessions, newest first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]Session, error) {
	if limit <= 0 {
		limit = 50
	}
	var rows []Session
	if err := j.db.NewSelect().Model(&rows).Order("id DESC").Limit(limit).Scan(ctx); err != nil {
		return nil, errors.New(ErrJournalQueryFailed, "failed to list sessions", err)
	}
	return rows, nil
}

// Summarize counts sessions by outcome.
func (j *Journal) Summarize(ctx context.Context) (Summary, error) {
	var s Summary
	err := j.db.NewSelect().
		Model((*Session)(nil)).
		ColumnExpr("COUNT(*) AS sessions").
		ColumnExpr("COALESCE(SUM(CASE WHEN ended_at IS NULL THEN 1 ELSE 0 END), 0) AS open").
		ColumnExpr("COALESCE(SUM(CASE WHEN username <> '' THEN 1 ELSE 0 END), 0) AS logins").
		ColumnExpr("COALESCE(SUM(CASE WHEN error_code <> '' THEN 1 ELSE 0 END), 0) AS errored").
		Scan(ctx, &s.Sessions, &s.Open, &s.Logins, &s.Errored)
	if err != nil {
		return Summary{}, errors.New(ErrJournalQueryFailed, "failed to summarize sessions", err)
	}
	return s, nil
}

// Ping checks that the database still answers.
func (j *Journal) Ping(ctx context.Context) error {
	if err := j.db.PingContext(ctx); err != nil {
		return errors.New(ErrJournalUnreachable, "journal database unreachable", err)
	}
	return nil
}

func (j *Journal) Close() error {
	return j.db.Close()
}
