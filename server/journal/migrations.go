package journal

import (
	"context"
	"database/sql"
	"strconv"
	"time"

	"github.com/gear6io/mcwire/pkg/errors"
	"github.com/uptrace/bun"
)

// Migration is one forward-only schema step.
type Migration interface {
	Version() int
	Name() string
	Up(ctx context.Context, tx bun.Tx) error
}

type migration001 struct{}

func (migration001) Version() int { return 1 }
func (migration001) Name() string { return "create_sessions" }

func (migration001) Up(ctx context.Context, tx bun.Tx) error {
	if _, err := tx.NewCreateTable().
		Model((*Session)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return errors.New(ErrJournalMigration, "failed to create sessions table", err)
	}

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_sessions_started ON sessions(started_at)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_username ON sessions(username)`,
	}
	for _, stmt := range indexes {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return errors.New(ErrJournalMigration, "failed to create index", err).AddContext("statement", stmt)
		}
	}
	return nil
}

func availableMigrations() []Migration {
	return []Migration{
		migration001{},
	}
}

type appliedMigration struct {
	bun.BaseModel `bun:"table:journal_migrations"`

	Version   int    `bun:"version,pk,type:integer"`
	Name      string `bun:"name,type:text,notnull"`
	AppliedAt string `bun:"applied_at,type:text,notnull"`
}

// migrate applies every pending migration in one transaction.
func migrate(ctx context.Context, db *bun.DB) error {
	if _, err := db.NewCreateTable().
		Model((*appliedMigration)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return errors.New(ErrJournalMigration, "failed to create migrations table", err)
	}

	current, err := currentVersion(ctx, db)
	if err != nil {
		return err
	}

	var pending []Migration
	for _, m := range availableMigrations() {
		if m.Version() > current {
			pending = append(pending, m)
		}
	}
	if len(pending) == 0 {
		return nil
	}

	return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		now := time.Now().UTC().Format(time.RFC3339)
		for _, m := range pending {
			if err := m.Up(ctx, tx); err != nil {
				return errors.New(ErrJournalMigration, "migration failed", err).
					AddContext("version", strconv.Itoa(m.Version())).
					AddContext("name", m.Name())
			}
			if _, err := tx.NewInsert().
				Model(&appliedMigration{Version: m.Version(), Name: m.Name(), AppliedAt: now}).
				Exec(ctx); err != nil {
				return errors.New(ErrJournalMigration, "failed to record migration", err)
			}
		}
		return nil
	})
}

func currentVersion(ctx context.Context, db *bun.DB) (int, error) {
	var version int
	err := db.NewSelect().
		Model((*appliedMigration)(nil)).
		ColumnExpr("version").
		Order("version DESC").
		Limit(1).
		Scan(ctx, &version)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, nil
		}
		return 0, errors.New(ErrJournalMigration, "failed to read schema version", err)
	}
	return version, nil
}
