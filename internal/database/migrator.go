// Package database applies the embedded PostgreSQL schema for the history store.
package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"sort"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const schemaMigrationsDDL = `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		name TEXT PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`

type Migrator struct {
	db     *sqlx.DB
	files  fs.FS
	logger *slog.Logger
}

// NewMigrator wraps an open PostgreSQL handle. The caller owns db.
func NewMigrator(db *sqlx.DB, logger *slog.Logger) *Migrator {
	return &Migrator{db: db, files: migrationsFS, logger: logger.With("component", "migrator")}
}

// Pending lists migration files, in name order, that are not yet recorded in
// schema_migrations.
func (m *Migrator) Pending(ctx context.Context) ([]string, error) {
	if _, err := m.db.ExecContext(ctx, schemaMigrationsDDL); err != nil {
		return nil, fmt.Errorf("failed to create migrations table: %w", err)
	}

	names, err := fs.Glob(m.files, "migrations/*.sql")
	if err != nil {
		return nil, fmt.Errorf("failed to list migrations: %w", err)
	}
	sort.Strings(names)

	var applied []string
	if err := m.db.SelectContext(ctx, &applied, "SELECT name FROM schema_migrations"); err != nil {
		return nil, fmt.Errorf("failed to read applied migrations: %w", err)
	}
	done := make(map[string]bool, len(applied))
	for _, name := range applied {
		done[name] = true
	}

	var pending []string
	for _, path := range names {
		if name := path[len("migrations/"):]; !done[name] {
			pending = append(pending, name)
		}
	}
	return pending, nil
}

// Run applies every pending migration, each in its own transaction, and
// returns how many were applied.
func (m *Migrator) Run(ctx context.Context) (int, error) {
	pending, err := m.Pending(ctx)
	if err != nil {
		return 0, err
	}

	for i, name := range pending {
		if err := m.apply(ctx, name); err != nil {
			return i, err
		}
		m.logger.Info("migration applied", "migration", name)
	}
	if len(pending) == 0 {
		m.logger.Debug("schema up to date")
	}
	return len(pending), nil
}

func (m *Migrator) apply(ctx context.Context, name string) error {
	body, err := fs.ReadFile(m.files, "migrations/"+name)
	if err != nil {
		return fmt.Errorf("failed to read migration %s: %w", name, err)
	}

	tx, err := m.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin migration %s: %w", name, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, string(body)); err != nil {
		return fmt.Errorf("failed to execute migration %s: %w", name, err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_migrations (name) VALUES ($1)", name); err != nil {
		return fmt.Errorf("failed to record migration %s: %w", name, err)
	}
	return tx.Commit()
}
