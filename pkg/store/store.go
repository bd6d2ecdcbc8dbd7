// Package store implements db.Database on top of database/sql.
//
// SQLite (mattn/go-sqlite3) is the default backend. Postgres is reached
// through the pgx stdlib driver and shares the same SQL; backend
// differences live in dialect.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/energiefixers071/fixerdesk/pkg/db"
)

// Options selects and configures the backend
type Options struct {
	Backend     string // sqlite (default) or postgres
	Path        string // SQLite database file
	PostgresURL string
}

// DB provides database operations for volunteers, visits, appointments and settings
type DB struct {
	sql     *sql.DB
	dialect dialect
	now     func() time.Time
}

var _ db.Database = (*DB)(nil)

// Open connects to the configured backend and applies pending migrations
func Open(ctx context.Context, opts Options) (*DB, error) {
	d, err := dialectFor(opts.Backend)
	if err != nil {
		return nil, err
	}

	dsn := opts.PostgresURL
	if d.name == BackendSQLite {
		if opts.Path == "" {
			return nil, errors.New("sqlite backend requires a database path")
		}
		if dir := filepath.Dir(opts.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
		dsn = opts.Path
	}

	sqlDB, err := sql.Open(d.driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if d.name == BackendSQLite {
		// SQLite only supports one writer at a time
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
	}

	store := newDB(sqlDB, d)
	if err := store.applyPragmas(ctx); err != nil {
		sqlDB.Close()
		return nil, err
	}
	if err := store.RunMigrations(ctx); err != nil {
		sqlDB.Close()
		return nil, err
	}

	return store, nil
}

func newDB(sqlDB *sql.DB, d dialect) *DB {
	return &DB{sql: sqlDB, dialect: d, now: time.Now}
}

// Backend returns the name of the backend in use
func (s *DB) Backend() string {
	return s.dialect.name
}

// Close closes the database connection
func (s *DB) Close() error {
	if s.sql == nil {
		return nil
	}
	return s.sql.Close()
}

func (s *DB) applyPragmas(ctx context.Context) error {
	for _, pragma := range s.dialect.pragmas {
		if _, err := s.sql.ExecContext(ctx, pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	return nil
}

// clock returns the current time in UTC
func (s *DB) clock() time.Time {
	return s.now().UTC()
}

// querier is satisfied by *sql.DB and *sql.Tx
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// withTx runs fn in a transaction, committing when it returns nil
func (s *DB) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.sql.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// wrap annotates err with the operation and maps backend errors onto the
// db sentinel errors
func (s *DB) wrap(op string, err error) error {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("failed to %s: %w", op, db.ErrNotFound)
	case s.dialect.isConstraint(err):
		return fmt.Errorf("failed to %s: %w: %v", op, db.ErrConstraint, err)
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}
