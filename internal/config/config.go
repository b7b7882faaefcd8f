// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/projectmate/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete projectmate configuration.
type Config struct {
	Backend BackendConfig `toml:"backend" json:"backend"`
	Logging LoggingConfig `toml:"logging" json:"logging"`
	UI      UIConfig      `toml:"ui" json:"ui"`
	Backup  BackupConfig  `toml:"backup" json:"backup"`
}

// BackendConfig describes how to reach the projectmate backend.
type BackendConfig struct {
	// URL is the base URL of the backend, e.g. http://127.0.0.1:5000
	URL string `toml:"url" json:"url"`
	// TimeoutSecs bounds every request except chat turns
	TimeoutSecs int `toml:"timeout_secs" json:"timeout_secs"`
	// ChatTimeoutSecs bounds a chat turn, which waits on the LLM
	ChatTimeoutSecs int `toml:"chat_timeout_secs" json:"chat_timeout_secs"`
	// RatePerSec limits outgoing requests (0 = unlimited)
	RatePerSec float64 `toml:"rate_per_sec" json:"rate_per_sec"`
	// Burst is how many requests may go out at once
	Burst int `toml:"burst" json:"burst"`
	// HistoryPath is the chat history route: "chat_history" or "conversations"
	HistoryPath string `toml:"history_path" json:"history_path"`
	// UserID identifies this client when liking projects
	UserID string `toml:"user_id" json:"user_id"`
}

// LoggingConfig controls the log file.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error
	Level string `toml:"level" json:"level"`
	// File is the log path (empty = ~/.projectmate/projectmate.log)
	File string `toml:"file" json:"file"`
}

// UIConfig contains interface settings.
type UIConfig struct {
	// Theme is "dark", "light" or "auto"
	Theme string `toml:"theme" json:"theme"`
	// ConfirmDestructive asks before deletions and restores
	ConfirmDestructive bool `toml:"confirm_destructive" json:"confirm_destructive"`
}

// BackupConfig controls where settings snapshots are kept.
type BackupConfig struct {
	// Dir is the backup directory (empty = ~/.projectmate/backups)
	Dir string `toml:"dir" json:"dir"`
	// MaxBackups is how many snapshots to keep (0 = unlimited)
	MaxBackups int `toml:"max_backups" json:"max_backups"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Backend: BackendConfig{
			URL:             "http://127.0.0.1:5000",
			TimeoutSecs:     30,
			ChatTimeoutSecs: 120,
			RatePerSec:      20,
			Burst:           10,
			HistoryPath:     "chat_history",
			UserID:          "projectmate",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		UI: UIConfig{
			Theme:              "auto",
			ConfirmDestructive: true,
		},
		Backup: BackupConfig{
			MaxBackups: 20,
		},
	}
}

// Timeout returns the request timeout.
func (b BackendConfig) Timeout() time.Duration {
	return time.Duration(b.TimeoutSecs) * time.Second
}

// ChatTimeout returns the chat turn timeout.
func (b BackendConfig) ChatTimeout() time.Duration {
	return time.Duration(b.ChatTimeoutSecs) * time.Second
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the projectmate configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".projectmate"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// DefaultLogFile returns the log path used when none is configured.
func DefaultLogFile() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "projectmate.log"), nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config file. TOML is tried first, then
// JSON, then the defaults. Environment overrides are applied last.
func Load() (*Config, error) {
	for _, pathFn := range []func() (string, error){ConfigPathTOML, ConfigPathJSON} {
		path, err := pathFn()
		if err != nil {
			continue
		}
		if _, err := os.Stat(path); err == nil {
			return LoadFromPath(path)
		}
	}

	cfg := Default()
	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadFromPath loads configuration from a specific file. Keys missing from
// the file keep their defaults.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if strings.HasSuffix(path, ".json") {
		if err := decodeJSON(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load JSON config from %s: %w", path, err)
		}
	} else {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
		}
	}

	cfg.ApplyEnvOverrides()
	cfg.fillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func decodeJSON(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return nil
}

// fillDefaults restores defaults for values a file set to empty.
func (c *Config) fillDefaults() {
	d := Default()
	if c.Backend.URL == "" {
		c.Backend.URL = d.Backend.URL
	}
	if c.Backend.TimeoutSecs == 0 {
		c.Backend.TimeoutSecs = d.Backend.TimeoutSecs
	}
	if c.Backend.ChatTimeoutSecs == 0 {
		c.Backend.ChatTimeoutSecs = d.Backend.ChatTimeoutSecs
	}
	if c.Backend.HistoryPath == "" {
		c.Backend.HistoryPath = d.Backend.HistoryPath
	}
	if c.Backend.UserID == "" {
		c.Backend.UserID = d.Backend.UserID
	}
	if c.Logging.Level == "" {
		c.Logging.Level = d.Logging.Level
	}
	if c.UI.Theme == "" {
		c.UI.Theme = d.UI.Theme
	}
	c.Backend.URL = strings.TrimRight(c.Backend.URL, "/")
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML writes the configuration to path atomically with 0600
// permissions.
func SaveTOML(cfg *Config, path string) error {
	var buf bytes.Buffer
	buf.WriteString("# projectmate configuration file\n")
	buf.WriteString("# Generated by projectmate - edit with care\n\n")

	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// SaveJSON writes the configuration to path as JSON.
func SaveJSON(cfg *Config, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// String renders the configuration as TOML.
func (c *Config) String() string {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return err.Error()
	}
	return buf.String()
}
