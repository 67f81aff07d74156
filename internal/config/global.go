// Package config resolves where the roster database lives and how the CLI
// behaves.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the settings shared by every command.
type Config struct {
	DBPath  string `yaml:"db_path,omitempty" env:"STUDENTDB_DB_PATH"` // Empty selects the storage default
	Verbose bool   `yaml:"verbose,omitempty" env:"STUDENTDB_VERBOSE"`
}

const (
	// GlobalConfigDir is the directory name under XDG_CONFIG_HOME.
	GlobalConfigDir = "studentdb"
	// GlobalConfigFile is the config file name.
	GlobalConfigFile = "config.yml"
	// EnvFile is read from the working directory when present.
	EnvFile = ".env"
)

// GlobalConfigPath returns the path to the global config file.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/studentdb/config.yml.
func GlobalConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, GlobalConfigDir, GlobalConfigFile)
}

// LoadFile reads a YAML config file into cfg.
// A missing file leaves cfg untouched and is not an error.
func LoadFile(path string, cfg *Config) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

// Load builds the configuration. Later sources override earlier ones:
// the global YAML file, then the process environment, which a .env file
// in the working directory may extend without overriding variables that
// are already set.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := LoadFile(GlobalConfigPath(), cfg); err != nil {
		return nil, err
	}

	if err := godotenv.Load(EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("reading %s: %w", EnvFile, err)
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	cfg.DBPath = ExpandTilde(cfg.DBPath)
	return cfg, nil
}

// ExpandTilde expands a leading ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandTilde(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path // Return original if we can't get home directory
	}

	return filepath.Join(home, path[1:])
}
