package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DatabaseConfig holds the settings for the embedded store.
type DatabaseConfig struct {
	// Path is the SQLite database file location.
	Path string `mapstructure:"path" yaml:"path"`

	// BusyTimeoutMS is how long a blocked connection waits for the
	// writer before giving up.
	BusyTimeoutMS int `mapstructure:"busy_timeout_ms" yaml:"busy_timeout_ms"`
}

// Config is the top-level application configuration.
type Config struct {
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`
}

// DefaultConfigPath returns the default path for the configuration
// file, located at ~/.config/assignment-tracker/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "assignment-tracker", "config.yaml")
}

// DefaultDatabasePath returns where the store lives when unconfigured,
// under ~/.local/share/assignment-tracker.
func DefaultDatabasePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "assignment-tracker.db")
	}
	return filepath.Join(home, ".local", "share", "assignment-tracker", "assignment-tracker.db")
}

func defaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path:          DefaultDatabasePath(),
			BusyTimeoutMS: 5000,
		},
	}
}

// Load reads configuration from the given YAML file path using Viper,
// with TRACKER_-prefixed environment variables taking precedence. A
// local .env file is honored if present. A missing config file yields
// the defaults.
func Load(path string) (*Config, error) {
	// Best effort; a missing .env is the normal case.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetDefault("database.path", DefaultDatabasePath())
	v.SetDefault("database.busy_timeout_ms", 5000)

	v.SetEnvPrefix("TRACKER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.Is(err, fs.ErrNotExist) || errors.As(err, &notFound) {
			return applyEnv(v), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// applyEnv builds a config from defaults plus any environment
// overrides when no file exists.
func applyEnv(v *viper.Viper) *Config {
	cfg := defaultConfig()
	cfg.Database.Path = v.GetString("database.path")
	if t := v.GetInt("database.busy_timeout_ms"); t > 0 {
		cfg.Database.BusyTimeoutMS = t
	}
	return cfg
}
