package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/energiefixers071/fixerdesk/internal/config"
	"github.com/energiefixers071/fixerdesk/pkg/core/model"
	"github.com/energiefixers071/fixerdesk/pkg/db"
)

// AppVersion is stored in the app_version setting on first start
const AppVersion = "1.0.0"

// Setting keys
const (
	SettingTheme            = "theme"
	SettingAutoSync         = "auto_sync"
	SettingBackupEnabled    = "backup_enabled"
	SettingLastSync         = "last_sync"
	SettingAppVersion       = "app_version"
	SettingKoboAPIToken     = "kobo_api_token"
	SettingCalendlyAPIToken = "calendly_api_token"
)

// DefaultSettings returns the settings seeded on first start
func DefaultSettings() []model.Setting {
	return []model.Setting{
		{Key: SettingTheme, Value: "flatly", Description: "Application theme"},
		{Key: SettingAutoSync, Value: "false", Description: "Sync external sources on start"},
		{Key: SettingBackupEnabled, Value: "true", Description: "Allow database backups"},
		{Key: SettingLastSync, Value: "", Description: "Time of the last successful sync"},
		{Key: SettingAppVersion, Value: AppVersion, Description: "Application version"},
	}
}

// SettingsStore defines the settings operations used by the services
type SettingsStore interface {
	GetSetting(ctx context.Context, key string) (*model.Setting, error)
	SetSetting(ctx context.Context, key, value, description string) error
	ListSettings(ctx context.Context) ([]model.Setting, error)
	EnsureSettings(ctx context.Context, defaults []model.Setting) error
}

// SeedSettings inserts the default settings that are not stored yet
func SeedSettings(ctx context.Context, database SettingsStore, logger *zap.Logger) error {
	if err := database.EnsureSettings(ctx, DefaultSettings()); err != nil {
		return fmt.Errorf("failed to seed default settings: %w", err)
	}
	logger.Debug("Default settings ensured")
	return nil
}

// GetSettingValue returns the stored value for key, or fallback when the
// setting does not exist
func GetSettingValue(ctx context.Context, database SettingsStore, key, fallback string) (string, error) {
	setting, err := database.GetSetting(ctx, key)
	if errors.Is(err, db.ErrNotFound) {
		return fallback, nil
	}
	if err != nil {
		return "", err
	}
	return setting.Value, nil
}

// GetBoolSetting interprets a setting as a boolean
func GetBoolSetting(ctx context.Context, database SettingsStore, key string, fallback bool) (bool, error) {
	value, err := GetSettingValue(ctx, database, key, strconv.FormatBool(fallback))
	if err != nil {
		return false, err
	}
	b, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return fallback, nil
	}
	return b, nil
}

// SetSetting stores a setting value. Boolean settings are validated.
func SetSetting(ctx context.Context, database SettingsStore, logger *zap.Logger, key, value string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("setting key cannot be empty")
	}
	switch key {
	case SettingAutoSync, SettingBackupEnabled:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("setting %s expects true or false, got %q", key, value)
		}
		value = strconv.FormatBool(b)
	}

	if err := database.SetSetting(ctx, key, value, ""); err != nil {
		return fmt.Errorf("failed to save setting: %w", err)
	}
	logger.Info("Setting saved", zap.String("key", key))
	return nil
}

// Credentials are the API tokens used by the sync sources
type Credentials struct {
	KoboAPIToken     string
	CalendlyAPIToken string
}

// SaveCredentials stores API tokens. Empty values leave the stored token
// unchanged.
func SaveCredentials(ctx context.Context, database SettingsStore, logger *zap.Logger, creds Credentials) error {
	tokens := []struct {
		key, value, description string
	}{
		{SettingKoboAPIToken, creds.KoboAPIToken, "KoboToolbox API token"},
		{SettingCalendlyAPIToken, creds.CalendlyAPIToken, "Calendly personal access token"},
	}
	for _, t := range tokens {
		value := strings.TrimSpace(t.value)
		if value == "" {
			continue
		}
		if err := database.SetSetting(ctx, t.key, value, t.description); err != nil {
			return fmt.Errorf("failed to save %s: %w", t.key, err)
		}
		logger.Info("Credential saved", zap.String("key", t.key))
	}
	return nil
}

// ResolveCredentials returns the tokens to use for syncing. Tokens saved in
// settings take precedence over the config file and environment.
func ResolveCredentials(ctx context.Context, database SettingsStore, cfg *config.Config) (Credentials, error) {
	creds := Credentials{
		KoboAPIToken:     cfg.Kobo.APIToken,
		CalendlyAPIToken: cfg.Calendly.APIToken,
	}

	kobo, err := GetSettingValue(ctx, database, SettingKoboAPIToken, "")
	if err != nil {
		return Credentials{}, fmt.Errorf("failed to read credentials: %w", err)
	}
	if kobo != "" {
		creds.KoboAPIToken = kobo
	}

	calendly, err := GetSettingValue(ctx, database, SettingCalendlyAPIToken, "")
	if err != nil {
		return Credentials{}, fmt.Errorf("failed to read credentials: %w", err)
	}
	if calendly != "" {
		creds.CalendlyAPIToken = calendly
	}

	return creds, nil
}

// MaskSecret hides all but the last four characters of a token
func MaskSecret(value string) string {
	if value == "" {
		return ""
	}
	if len(value) <= 4 {
		return strings.Repeat("*", len(value))
	}
	return strings.Repeat("*", len(value)-4) + value[len(value)-4:]
}

// IsSecretSetting reports whether a setting holds a credential
func IsSecretSetting(key string) bool {
	return key == SettingKoboAPIToken || key == SettingCalendlyAPIToken
}
