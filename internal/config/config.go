// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading for vaultrun.
//
// Configuration is TOML with sensible defaults and environment variable
// overrides, resolved in order of precedence:
//   - VAULTRUN_* environment variables
//   - ~/.vaultrun/config.toml
//   - Built-in defaults
//
// The config file never holds credentials of any kind; the master password
// exists only in memory for the session's duration.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/vaultrun-tui/internal/session"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config is the complete vaultrun configuration.
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Session SessionConfig `toml:"session"`
	UI      UIConfig      `toml:"ui"`
}

// ServerConfig locates the vault server.
type ServerConfig struct {
	// URL is the base URL of the vault server.
	URL string `toml:"url"`
	// TimeoutSecs is the per-request timeout in seconds.
	TimeoutSecs int `toml:"timeout_secs"`
}

// SessionConfig holds the inactivity timer pair in seconds.
// Invariant: warning_secs < logout_secs.
type SessionConfig struct {
	WarningSecs int `toml:"warning_secs"`
	LogoutSecs  int `toml:"logout_secs"`
}

// UIConfig holds display preferences.
type UIConfig struct {
	// Theme selects "dark", "light", or "auto".
	Theme string `toml:"theme"`
}

// Default returns the built-in configuration: a local server and the
// reference 240s/300s timer pair.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			URL:         "http://localhost:5000",
			TimeoutSecs: 30,
		},
		Session: SessionConfig{
			WarningSecs: 240,
			LogoutSecs:  300,
		},
		UI: UIConfig{
			Theme: "auto",
		},
	}
}

// =============================================================================
// LOADING
// =============================================================================

// Dir returns the vaultrun configuration directory (~/.vaultrun).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".vaultrun"
	}
	return filepath.Join(home, ".vaultrun")
}

// Path returns the config file path.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// Load resolves the configuration from defaults, file, and environment.
func Load() (*Config, error) {
	return LoadFrom(Path())
}

// LoadFrom resolves the configuration using an explicit file path. A
// missing file is not an error; defaults and environment still apply.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv layers VAULTRUN_* environment overrides onto the config.
func applyEnv(cfg *Config) {
	if v := os.Getenv("VAULTRUN_SERVER_URL"); v != "" {
		cfg.Server.URL = v
	}
	if v := os.Getenv("VAULTRUN_SERVER_TIMEOUT_SECS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Server.TimeoutSecs = n
		}
	}
	if v := os.Getenv("VAULTRUN_SESSION_WARNING_SECS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Session.WarningSecs = n
		}
	}
	if v := os.Getenv("VAULTRUN_SESSION_LOGOUT_SECS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Session.LogoutSecs = n
		}
	}
	if v := os.Getenv("VAULTRUN_THEME"); v != "" {
		cfg.UI.Theme = v
	}
}

// Validate rejects configurations that would violate core invariants.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Server.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid server url %q", c.Server.URL)
	}
	if c.Server.TimeoutSecs <= 0 {
		return fmt.Errorf("server timeout must be positive, got %d", c.Server.TimeoutSecs)
	}
	if c.Session.WarningSecs <= 0 || c.Session.LogoutSecs <= c.Session.WarningSecs {
		return fmt.Errorf("session timers must satisfy 0 < warning_secs (%d) < logout_secs (%d)",
			c.Session.WarningSecs, c.Session.LogoutSecs)
	}
	switch c.UI.Theme {
	case "dark", "light", "auto":
	default:
		return fmt.Errorf("unknown theme %q", c.UI.Theme)
	}
	return nil
}

// Timers returns the timeout machine configuration.
func (c *Config) Timers() session.Config {
	return session.Config{
		WarningAfter: time.Duration(c.Session.WarningSecs) * time.Second,
		LogoutAfter:  time.Duration(c.Session.LogoutSecs) * time.Second,
	}
}

// RequestTimeout returns the per-request timeout.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Server.TimeoutSecs) * time.Second
}
