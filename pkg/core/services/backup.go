package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/energiefixers071/fixerdesk/internal/config"
)

// ErrBackupDisabled is returned when backups are switched off in settings
var ErrBackupDisabled = errors.New("backups are disabled (set backup_enabled to true)")

// BackupStore defines the database operations needed for backups
type BackupStore interface {
	SettingsStore
	Backup(ctx context.Context, dir string, now time.Time) (string, error)
}

// BackupDatabase writes a timestamped copy of the database into the
// configured backup directory and returns its path
func BackupDatabase(ctx context.Context, database BackupStore, cfg *config.Config, logger *zap.Logger, now time.Time) (string, error) {
	enabled, err := GetBoolSetting(ctx, database, SettingBackupEnabled, true)
	if err != nil {
		return "", fmt.Errorf("failed to read backup setting: %w", err)
	}
	if !enabled {
		return "", ErrBackupDisabled
	}

	dir := config.DefaultBackupDir
	if cfg != nil && cfg.Database.BackupDir != "" {
		dir = cfg.Database.BackupDir
	}

	path, err := database.Backup(ctx, dir, now)
	if err != nil {
		return "", err
	}

	logger.Info("Database backed up", zap.String("path", path))
	return path, nil
}
