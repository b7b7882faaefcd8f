// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables read by ApplyEnvOverrides.
const (
	EnvBackendURL = "PROJECTMATE_BACKEND_URL"
	EnvTimeout    = "PROJECTMATE_TIMEOUT"
	EnvLogLevel   = "PROJECTMATE_LOG_LEVEL"
	EnvLogFile    = "PROJECTMATE_LOG_FILE"
	EnvTheme      = "PROJECTMATE_THEME"
)

// LoadDotEnv loads variables from .env files (default ./.env) into the
// environment. Variables already set win. A missing file is not an error.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	var existing []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	return godotenv.Load(existing...)
}

// ApplyEnvOverrides applies environment variable overrides.
//
// Supported variables:
//   - PROJECTMATE_BACKEND_URL: overrides backend.url
//   - PROJECTMATE_TIMEOUT: overrides backend.timeout_secs
//   - PROJECTMATE_LOG_LEVEL: overrides logging.level
//   - PROJECTMATE_LOG_FILE: overrides logging.file
//   - PROJECTMATE_THEME: overrides ui.theme
func (c *Config) ApplyEnvOverrides() {
	if u := os.Getenv(EnvBackendURL); u != "" {
		c.Backend.URL = strings.TrimRight(u, "/")
	}

	// Unparseable values are ignored
	if t := os.Getenv(EnvTimeout); t != "" {
		if secs, err := strconv.Atoi(t); err == nil {
			c.Backend.TimeoutSecs = secs
		}
	}

	if level := os.Getenv(EnvLogLevel); level != "" {
		c.Logging.Level = strings.ToLower(level)
	}

	if file := os.Getenv(EnvLogFile); file != "" {
		c.Logging.File = file
	}

	if theme := os.Getenv(EnvTheme); theme != "" {
		c.UI.Theme = strings.ToLower(theme)
	}
}
