package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/energiefixers071/fixerdesk/pkg/db"
)

// BackupFileName returns the backup file name for a backup taken at t
func BackupFileName(t time.Time) string {
	return fmt.Sprintf("energiefixers_backup_%s.db", t.Format("20060102_150405"))
}

// Backup writes a consistent copy of the SQLite database into dir using
// VACUUM INTO. Postgres deployments are backed up with their own tooling.
func (s *DB) Backup(ctx context.Context, dir string, now time.Time) (string, error) {
	if s.dialect.name != BackendSQLite {
		return "", fmt.Errorf("failed to back up %s database: %w", s.dialect.name, db.ErrUnsupported)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	path := filepath.Join(dir, BackupFileName(now))
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("failed to back up database: %s already exists", path)
	}

	if _, err := s.sql.ExecContext(ctx, `VACUUM INTO ?`, path); err != nil {
		return "", s.wrap("back up database", err)
	}

	return path, nil
}
