// Package config loads canvas-go configuration from a TOML file with
// environment variable and CLI flag overrides layered on top.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"
)

// ErrMissingToken is returned by Resolve when no API token is configured.
// This is a startup-fatal condition: nothing can be fetched without it.
var ErrMissingToken = errors.New("config: no API token configured (set CANVAS_TOKEN or api.token in the config file)")

// ErrMissingBaseURL is returned by Resolve when no Canvas base URL is
// configured.
var ErrMissingBaseURL = errors.New("config: no Canvas URL configured (set CANVAS_URL or api.base_url in the config file)")

// Config is the on-disk TOML structure.
type Config struct {
	API       APIConfig       `toml:"api"`
	Downloads DownloadsConfig `toml:"downloads"`
	Logging   LoggingConfig   `toml:"logging"`
}

// APIConfig holds Canvas endpoint and credential settings.
type APIConfig struct {
	BaseURL string `toml:"base_url"`
	Token   string `toml:"token"`
}

// DownloadsConfig holds local materialization settings.
type DownloadsConfig struct {
	Dir      string `toml:"dir"`
	Parallel int    `toml:"parallel"`
	// DelayMS overrides the per-download courtesy delay in milliseconds.
	// Zero means use the per-command default.
	DelayMS int `toml:"delay_ms"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level string `toml:"level"`
}

// Resolved is the effective configuration after the override chain
// (defaults -> config file -> environment -> CLI flags) has been applied
// and validated.
type Resolved struct {
	BaseURL     string
	Token       string
	DownloadDir string
	Parallel    int
	Delay       time.Duration
	LogLevel    string
}

// DefaultConfig returns a Config populated with all default values.
func DefaultConfig() *Config {
	return &Config{
		Downloads: DownloadsConfig{
			Dir:      "downloads",
			Parallel: 1,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// DefaultConfigPath returns the default config file location,
// ~/.config/canvas-go/config.toml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}

	return filepath.Join(home, ".config", "canvas-go", "config.toml")
}
