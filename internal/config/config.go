package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDatabasePath = "data/energiefixers.db"
	DefaultBackupDir    = "backups"
	DefaultLogDir       = "logs"
	DefaultKoboGroup    = "introductie"

	// DotEnvFile is read from the working directory. Variables already set in
	// the environment win over its values.
	DotEnvFile = ".env"
)

// Database selects the record store backend
type Database struct {
	Backend     string `yaml:"backend" validate:"oneof=sqlite postgres"`
	Path        string `yaml:"path" validate:"required_if=Backend sqlite"`
	PostgresURL string `yaml:"postgresURL,omitempty" validate:"required_if=Backend postgres,omitempty,url"`
	BackupDir   string `yaml:"backupDir,omitempty"`
}

// Kobo holds the KoboToolbox form settings
type Kobo struct {
	BaseURL  string `yaml:"baseURL,omitempty" validate:"omitempty,url"`
	FormID   string `yaml:"formID,omitempty"`
	APIToken string `yaml:"apiToken,omitempty"`
	// FormURL is the public Enketo link used to build pre-filled form links
	FormURL  string `yaml:"formURL,omitempty" validate:"omitempty,url"`
	Group    string `yaml:"group,omitempty"`
	PageSize int    `yaml:"pageSize,omitempty" validate:"omitempty,min=1,max=30000"`
}

// Calendly holds the Calendly API settings
type Calendly struct {
	BaseURL   string `yaml:"baseURL,omitempty" validate:"omitempty,url"`
	APIToken  string `yaml:"apiToken,omitempty"`
	UserURI   string `yaml:"userURI,omitempty" validate:"omitempty,url"`
	DaysAhead int    `yaml:"daysAhead,omitempty" validate:"omitempty,min=1,max=365"`
}

// Config represents the application configuration
type Config struct {
	Database Database `yaml:"database"`
	LogDir   string   `yaml:"logDir,omitempty"`
	Kobo     Kobo     `yaml:"kobo"`
	Calendly Calendly `yaml:"calendly"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Load loads and validates the configuration from fixerdesk_config.yaml
func Load() (*Config, error) {
	return LoadWithEnv("")
}

// LoadWithEnv loads fixerdesk_config.<env>.yaml, or fixerdesk_config.yaml when
// env is empty. It looks for the file in the current directory first, then in
// the user's home directory. Without a config file the defaults are used.
func LoadWithEnv(env string) (*Config, error) {
	configPath, err := findConfigFile(FileName(env))
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}
	if configPath == "" {
		cfg := &Config{}
		return finish(cfg)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return finish(&cfg)
}

func finish(cfg *Config) (*Config, error) {
	applyDefaults(cfg)
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate validates the configuration struct
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// FileName returns the config file name for an environment
func FileName(env string) string {
	if env == "" {
		return "fixerdesk_config.yaml"
	}
	return fmt.Sprintf("fixerdesk_config.%s.yaml", env)
}

func applyDefaults(cfg *Config) {
	if cfg.Database.Backend == "" {
		cfg.Database.Backend = "sqlite"
	}
	if cfg.Database.Backend == "sqlite" && cfg.Database.Path == "" {
		cfg.Database.Path = DefaultDatabasePath
	}
	if cfg.Database.BackupDir == "" {
		cfg.Database.BackupDir = DefaultBackupDir
	}
	if cfg.LogDir == "" {
		cfg.LogDir = DefaultLogDir
	}
	if cfg.Kobo.Group == "" {
		cfg.Kobo.Group = DefaultKoboGroup
	}
}

// applyEnv lets environment variables, or entries in .env, override file values
func applyEnv(cfg *Config) error {
	dotenv, err := godotenv.Read(DotEnvFile)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to read %s: %w", DotEnvFile, err)
	}

	overrides := []struct {
		name  string
		field *string
	}{
		{"KOBO_BASE_URL", &cfg.Kobo.BaseURL},
		{"KOBO_API_TOKEN", &cfg.Kobo.APIToken},
		{"KOBO_FORM_ID", &cfg.Kobo.FormID},
		{"DEFAULT_KOBO_FORM_URL", &cfg.Kobo.FormURL},
		{"CALENDLY_BASE_URL", &cfg.Calendly.BaseURL},
		{"CALENDLY_API_TOKEN", &cfg.Calendly.APIToken},
		{"CALENDLY_USER_URI", &cfg.Calendly.UserURI},
	}
	for _, o := range overrides {
		v := os.Getenv(o.name)
		if v == "" {
			v = dotenv[o.name]
		}
		if v != "" {
			*o.field = v
		}
	}
	return nil
}

// findConfigFile searches for the config file in the current directory and
// home directory. An empty path means no file exists.
func findConfigFile(configFileName string) (string, error) {
	// Check current directory
	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, nil
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, configFileName)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", nil
}
