package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/energiefixers071/fixerdesk/pkg/core/model"
)

func TestSeedSettings_KeepsExistingValues(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.SetSetting(ctx, SettingTheme, "darkly", ""))
	require.NoError(t, SeedSettings(ctx, s, zap.NewNop()))
	require.NoError(t, SeedSettings(ctx, s, zap.NewNop()))

	settings, err := s.ListSettings(ctx)
	require.NoError(t, err)
	assert.Len(t, settings, len(DefaultSettings()))

	values := map[string]string{}
	for _, setting := range settings {
		values[setting.Key] = setting.Value
	}
	assert.Equal(t, "darkly", values[SettingTheme])
	assert.Equal(t, "false", values[SettingAutoSync])
	assert.Equal(t, "true", values[SettingBackupEnabled])
	assert.Equal(t, AppVersion, values[SettingAppVersion])
}

func TestSetSetting(t *testing.T) {
	tests := []struct {
		name        string
		key         string
		value       string
		expected    string
		expectedErr string
	}{
		{"free text", SettingTheme, "cosmo", "cosmo", ""},
		{"boolean normalized", SettingAutoSync, "1", "true", ""},
		{"boolean rejected", SettingBackupEnabled, "maybe", "", "expects true or false"},
		{"empty key", "  ", "x", "", "key cannot be empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			s := newTestStore(t)

			err := SetSetting(ctx, s, zap.NewNop(), tt.key, tt.value)
			if tt.expectedErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedErr)
				return
			}
			require.NoError(t, err)

			value, err := GetSettingValue(ctx, s, tt.key, "")
			require.NoError(t, err)
			assert.Equal(t, tt.expected, value)
		})
	}
}

func TestGetBoolSetting(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	value, err := GetBoolSetting(ctx, s, SettingBackupEnabled, true)
	require.NoError(t, err)
	assert.True(t, value, "missing setting uses fallback")

	require.NoError(t, s.SetSetting(ctx, SettingBackupEnabled, "false", ""))
	value, err = GetBoolSetting(ctx, s, SettingBackupEnabled, true)
	require.NoError(t, err)
	assert.False(t, value)

	require.NoError(t, s.SetSetting(ctx, SettingBackupEnabled, "garbage", ""))
	value, err = GetBoolSetting(ctx, s, SettingBackupEnabled, true)
	require.NoError(t, err)
	assert.True(t, value, "unparseable setting uses fallback")
}

func TestResolveCredentials_SettingsTakePrecedence(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	cfg := newTestConfig()
	cfg.Kobo.APIToken = "config-kobo"
	cfg.Calendly.APIToken = "config-calendly"

	creds, err := ResolveCredentials(ctx, s, cfg)
	require.NoError(t, err)
	assert.Equal(t, Credentials{KoboAPIToken: "config-kobo", CalendlyAPIToken: "config-calendly"}, creds)

	require.NoError(t, SaveCredentials(ctx, s, zap.NewNop(), Credentials{KoboAPIToken: " saved-kobo "}))

	creds, err = ResolveCredentials(ctx, s, cfg)
	require.NoError(t, err)
	assert.Equal(t, "saved-kobo", creds.KoboAPIToken)
	assert.Equal(t, "config-calendly", creds.CalendlyAPIToken)

	setting, err := s.GetSetting(ctx, SettingKoboAPIToken)
	require.NoError(t, err)
	assert.Equal(t, "KoboToolbox API token", setting.Description)

	_, err = s.GetSetting(ctx, SettingCalendlyAPIToken)
	assert.Error(t, err, "empty credential is not stored")
}

func TestMaskSecret(t *testing.T) {
	tests := []struct {
		value    string
		expected string
	}{
		{"", ""},
		{"abc", "***"},
		{"abcd", "****"},
		{"0123456789abcdef", "************cdef"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, MaskSecret(tt.value))
	}
	assert.True(t, IsSecretSetting(SettingKoboAPIToken))
	assert.False(t, IsSecretSetting(SettingTheme))
}

func TestDefaultSettings(t *testing.T) {
	keys := []string{}
	for _, s := range DefaultSettings() {
		keys = append(keys, s.Key)
	}
	assert.Equal(t, []string{SettingTheme, SettingAutoSync, SettingBackupEnabled, SettingLastSync, SettingAppVersion}, keys)
	assert.IsType(t, []model.Setting{}, DefaultSettings())
}
