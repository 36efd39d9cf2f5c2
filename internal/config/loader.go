package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Loader handles loading the configuration.
type Loader struct {
	Version      string // Build version, used to determine dev mode
	OverridePath string // Set at compile time if needed
}

// NewLoader creates a new Loader.
func NewLoader(version string, overridePath string) *Loader {
	return &Loader{
		Version:      version,
		OverridePath: overridePath,
	}
}

// Load attempts to load the configuration.
func (l *Loader) Load() (*Config, error) {
	path := l.GetConfigPath()
	if path == "" {
		return New(), nil // No config file found, return defaults
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cfg, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to the override path, the path Load would read, or the
// default location, in that order. It returns the path written.
func (l *Loader) Save(cfg *Config) (string, error) {
	path := l.OverridePath
	if path == "" {
		path = l.GetConfigPath()
	}
	if path == "" {
		path = l.DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(cfg.String()), 0o644); err != nil {
		return "", fmt.Errorf("write config: %w", err)
	}
	return path, nil
}

// DefaultPath is where a new configuration file is created.
func (l *Loader) DefaultPath() string {
	if l.OverridePath != "" {
		return l.OverridePath
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "scrawl", "config.rc")
}

// GetConfigPath returns the path to the configuration file, or empty string if not found.
func (l *Loader) GetConfigPath() string {
	// 1. Variable override path
	if l.OverridePath != "" {
		if _, err := os.Stat(l.OverridePath); err == nil {
			return l.OverridePath
		}
	}

	// 2. Local run directory (dev mode)
	if l.Version == "dev" {
		wd, _ := os.Getwd()
		localPath := filepath.Join(wd, ".scrawlrc")
		if _, err := os.Stat(localPath); err == nil {
			return localPath
		}
	}

	// 3. XDG Config Path
	home, _ := os.UserHomeDir()
	xdgPath := filepath.Join(home, ".config", "scrawl", "config.rc")
	if _, err := os.Stat(xdgPath); err == nil {
		return xdgPath
	}

	// Fallback names
	xdgPath = filepath.Join(home, ".config", "scrawl", "scrawl.rc")
	if _, err := os.Stat(xdgPath); err == nil {
		return xdgPath
	}

	return ""
}
