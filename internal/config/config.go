// Package config loads the client configuration.
//
// Configuration lives at ~/.config/einkaufszettel/config.yaml (or under
// $XDG_CONFIG_HOME when set). Flags override configuration, configuration
// overrides defaults.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// Server is the base URL of the einkaufszettel server.
	Server string `yaml:"server,omitempty"`
	// DefaultList skips the list selector when set.
	DefaultList int `yaml:"default_list,omitempty"`
	// DebugLog enables TUI debug logging to the given file.
	DebugLog string `yaml:"debug_log,omitempty"`
}

func Default() Config {
	return Config{Server: "http://localhost:3000"}
}

func Dir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "einkaufszettel"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "einkaufszettel"), nil
}

// Load reads the config file at path, or the default location when path is
// empty. A missing file is not an error; defaults apply.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		dir, err := Dir()
		if err != nil {
			return cfg, nil
		}
		path = filepath.Join(dir, "config.yaml")
	}

	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.Server == "" {
		cfg.Server = Default().Server
	}
	return cfg, nil
}

// Save writes cfg to the default location, creating the directory if needed.
func Save(cfg Config) error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "config.yaml"), raw, 0o644)
}
