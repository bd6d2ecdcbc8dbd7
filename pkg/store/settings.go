package store

import (
	"context"
	"database/sql"

	"github.com/energiefixers071/fixerdesk/pkg/core/model"
)

const upsertSettingSQL = `
	INSERT INTO settings (key, value, description, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT (key) DO UPDATE SET
		value = excluded.value,
		description = CASE WHEN excluded.description = '' THEN settings.description ELSE excluded.description END,
		updated_at = excluded.updated_at`

const insertSettingIfAbsentSQL = `
	INSERT INTO settings (key, value, description, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT (key) DO NOTHING`

// GetSetting retrieves a setting by key
func (s *DB) GetSetting(ctx context.Context, key string) (*model.Setting, error) {
	row := s.sql.QueryRowContext(ctx, s.dialect.rebind(settingsTable.selectSQL()+" WHERE key = ?"), key)
	setting, err := settingsTable.scan(row)
	if err != nil {
		return nil, s.wrap("get setting "+key, err)
	}
	return setting, nil
}

// SetSetting creates or updates a setting
func (s *DB) SetSetting(ctx context.Context, key, value, description string) error {
	now := s.clock()
	if _, err := s.sql.ExecContext(ctx, s.dialect.rebind(upsertSettingSQL), key, value, description, now, now); err != nil {
		return s.wrap("set setting "+key, err)
	}
	return nil
}

// ListSettings returns all settings ordered by key
func (s *DB) ListSettings(ctx context.Context) ([]model.Setting, error) {
	settings, err := settingsTable.list(ctx, s.sql, s.dialect, " ORDER BY key")
	if err != nil {
		return nil, s.wrap("query settings", err)
	}
	return settings, nil
}

// EnsureSettings inserts defaults whose key is not stored yet. Existing
// values are never overwritten.
func (s *DB) EnsureSettings(ctx context.Context, defaults []model.Setting) error {
	now := s.clock()
	return s.withTx(ctx, func(tx *sql.Tx) error {
		for _, d := range defaults {
			if _, err := tx.ExecContext(ctx, s.dialect.rebind(insertSettingIfAbsentSQL), d.Key, d.Value, d.Description, now, now); err != nil {
				return s.wrap("seed setting "+d.Key, err)
			}
		}
		return nil
	})
}
