// Package config loads the optional pehdr configuration file.
package config

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config mirrors ~/.config/pehdr/config.yaml. Pointer fields distinguish
// "not set" from zero values.
type Config struct {
	ReadLimit *int   `yaml:"read_limit"`
	Mmap      *bool  `yaml:"mmap"`
	Format    string `yaml:"format"`
	LogLevel  string `yaml:"log_level"`
	Color     *bool  `yaml:"color"`
}

// DefaultPath returns the per-user config location, or "" when the platform
// has none.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "pehdr", "config.yaml")
}

// Load reads the config at path. A missing file yields a zero Config; a file
// that cannot be parsed is an error.
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, errors.Wrapf(err, "read config %s", path)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parse config %s", path)
	}
	if cfg.ReadLimit != nil && *cfg.ReadLimit <= 0 {
		return cfg, errors.Errorf("config %s: read_limit must be positive, got %d", path, *cfg.ReadLimit)
	}
	switch cfg.Format {
	case "", "text", "json":
	default:
		return cfg, errors.Errorf("config %s: unknown format %q", path, cfg.Format)
	}
	return cfg, nil
}
