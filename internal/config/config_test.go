// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("LoadFrom with missing file: %v", err)
	}
	if cfg.Server.URL != "http://localhost:5000" {
		t.Errorf("default URL = %q", cfg.Server.URL)
	}
	if cfg.Session.WarningSecs != 240 || cfg.Session.LogoutSecs != 300 {
		t.Errorf("default timers = %d/%d, want 240/300",
			cfg.Session.WarningSecs, cfg.Session.LogoutSecs)
	}
	if cfg.UI.Theme != "auto" {
		t.Errorf("default theme = %q", cfg.UI.Theme)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
[server]
url = "https://vault.example.com"
timeout_secs = 10

[session]
warning_secs = 60
logout_secs = 90
`)
	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Server.URL != "https://vault.example.com" {
		t.Errorf("URL = %q", cfg.Server.URL)
	}
	if cfg.Server.TimeoutSecs != 10 {
		t.Errorf("TimeoutSecs = %d", cfg.Server.TimeoutSecs)
	}
	if cfg.Session.WarningSecs != 60 || cfg.Session.LogoutSecs != 90 {
		t.Errorf("timers = %d/%d", cfg.Session.WarningSecs, cfg.Session.LogoutSecs)
	}
	// Section absent from the file keeps its default.
	if cfg.UI.Theme != "auto" {
		t.Errorf("theme = %q, want default", cfg.UI.Theme)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
[server]
url = "http://file.example.com"
`)
	t.Setenv("VAULTRUN_SERVER_URL", "https://env.example.com")
	t.Setenv("VAULTRUN_SESSION_WARNING_SECS", "120")
	t.Setenv("VAULTRUN_SESSION_LOGOUT_SECS", "180")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Server.URL != "https://env.example.com" {
		t.Errorf("URL = %q, env should win over file", cfg.Server.URL)
	}
	if cfg.Session.WarningSecs != 120 || cfg.Session.LogoutSecs != 180 {
		t.Errorf("timers = %d/%d", cfg.Session.WarningSecs, cfg.Session.LogoutSecs)
	}
}

func TestEnvIgnoresGarbage(t *testing.T) {
	t.Setenv("VAULTRUN_SESSION_WARNING_SECS", "not-a-number")
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Session.WarningSecs != 240 {
		t.Errorf("WarningSecs = %d, garbage env should be ignored", cfg.Session.WarningSecs)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(c *Config) {}, true},
		{"https", func(c *Config) { c.Server.URL = "https://v.example.com:8443" }, true},
		{"bad scheme", func(c *Config) { c.Server.URL = "ftp://v.example.com" }, false},
		{"no host", func(c *Config) { c.Server.URL = "http://" }, false},
		{"zero timeout", func(c *Config) { c.Server.TimeoutSecs = 0 }, false},
		{"warning equals logout", func(c *Config) { c.Session.WarningSecs = 300 }, false},
		{"warning above logout", func(c *Config) { c.Session.WarningSecs = 400 }, false},
		{"zero warning", func(c *Config) { c.Session.WarningSecs = 0 }, false},
		{"light theme", func(c *Config) { c.UI.Theme = "light" }, true},
		{"unknown theme", func(c *Config) { c.UI.Theme = "solarized" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.ok && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
			if !tt.ok && err == nil {
				t.Error("Validate() = nil, want error")
			}
		})
	}
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	path := writeConfig(t, `
[session]
warning_secs = 500
logout_secs = 300
`)
	if _, err := LoadFrom(path); err == nil {
		t.Error("LoadFrom accepted warning >= logout")
	}
}

func TestTimers(t *testing.T) {
	cfg := Default()
	timers := cfg.Timers()
	if timers.WarningAfter != 240*time.Second {
		t.Errorf("WarningAfter = %v", timers.WarningAfter)
	}
	if timers.LogoutAfter != 300*time.Second {
		t.Errorf("LogoutAfter = %v", timers.LogoutAfter)
	}
	if cfg.RequestTimeout() != 30*time.Second {
		t.Errorf("RequestTimeout = %v", cfg.RequestTimeout())
	}
}

func TestWatcherReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[server]\nurl = \"http://one.example.com\"\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	got := make(chan *Config, 4)
	w, err := NewWatcher(path, func(c *Config) { got <- c })
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte("[server]\nurl = \"http://two.example.com\"\n"), 0o600); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}

	select {
	case cfg := <-got:
		if cfg.Server.URL != "http://two.example.com" {
			t.Errorf("reloaded URL = %q", cfg.Server.URL)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
	}
}

func TestWatcherRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(""), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	got := make(chan *Config, 4)
	w, err := NewWatcher(path, func(c *Config) { got <- c })
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()

	// An invalid timer pair must not reach the callback.
	bad := "[session]\nwarning_secs = 500\nlogout_secs = 300\n"
	if err := os.WriteFile(path, []byte(bad), 0o600); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}

	select {
	case cfg := <-got:
		t.Errorf("invalid config delivered: %+v", cfg)
	case <-time.After(1 * time.Second):
	}
}
