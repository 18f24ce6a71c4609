// Package config loads caldera.toml.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config is the caldera.toml structure.
type Config struct {
	// DataDir holds the sqlite database.
	DataDir string `toml:"data_dir"`
	// Listen is the content API address.
	Listen string `toml:"listen"`
	// LogLevel is a zerolog level name.
	LogLevel string `toml:"log_level"`

	UI UIConfig `toml:"ui"`
}

// UIConfig tunes terminal output.
type UIConfig struct {
	// Accent is a hex color for highlighted output.
	Accent string `toml:"accent"`
}

// Default returns the built-in configuration.
func Default() *Config {
	dataDir := ".caldera"
	if home, err := os.UserHomeDir(); err == nil {
		dataDir = filepath.Join(home, ".caldera")
	}
	return &Config{
		DataDir:  dataDir,
		Listen:   ":8090",
		LogLevel: "info",
	}
}

// DefaultPath returns the standard config file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "caldera.toml"
	}
	return filepath.Join(dir, "caldera", "caldera.toml")
}

// Load reads the config from the default path, returning defaults when the
// file does not exist.
func Load() (*Config, error) {
	return LoadFrom(DefaultPath())
}

// LoadFrom reads the config at path. A missing file yields the defaults;
// present keys override them.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// DatabasePath returns the sqlite file under the data directory.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "caldera.db")
}
