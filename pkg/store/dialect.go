package store

import (
	"errors"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
)

// Supported backends
const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// dialect captures the differences between the SQL backends. Queries are
// written with ? placeholders and rebound for backends that number them.
type dialect struct {
	name            string
	driver          string
	numbered        bool
	migrationsDir   string
	migrationsTable string
	pragmas         []string
}

var sqliteDialect = dialect{
	name:          BackendSQLite,
	driver:        "sqlite3",
	migrationsDir: "migrations/sqlite",
	migrationsTable: `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			filename TEXT PRIMARY KEY,
			applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
	pragmas: []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	},
}

var postgresDialect = dialect{
	name:          BackendPostgres,
	driver:        "pgx",
	numbered:      true,
	migrationsDir: "migrations/postgres",
	migrationsTable: `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			filename TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
}

func dialectFor(backend string) (dialect, error) {
	switch backend {
	case "", BackendSQLite:
		return sqliteDialect, nil
	case BackendPostgres:
		return postgresDialect, nil
	}
	return dialect{}, errors.New("unknown database backend: " + backend)
}

// rebind converts ? placeholders to $n for backends that need them
func (d dialect) rebind(query string) string {
	if !d.numbered {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 16)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// isConstraint reports whether err is a uniqueness or integrity violation
func (d dialect) isConstraint(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrConstraint
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// Class 23: integrity constraint violation
		return strings.HasPrefix(pgErr.Code, "23")
	}
	return false
}
