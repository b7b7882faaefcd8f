// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Has reports whether field failed validation.
func (e ValidateErrors) Has(field string) bool {
	for _, err := range e {
		if err.Field == field {
			return true
		}
	}
	return false
}

var (
	logLevels    = []string{"debug", "info", "warn", "error"}
	themes       = []string{"dark", "light", "auto"}
	historyPaths = []string{"chat_history", "conversations"}
)

// MaxTimeoutSecs caps both request timeouts.
const MaxTimeoutSecs = 3600

// Validate checks every section and returns ValidateErrors listing each
// problem, or nil.
func (c *Config) Validate() error {
	var errs ValidateErrors
	add := func(field, format string, args ...any) {
		errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	// Backend
	if u, err := url.Parse(c.Backend.URL); err != nil || u.Host == "" {
		add("backend.url", "must be an absolute URL, got %q", c.Backend.URL)
	} else if u.Scheme != "http" && u.Scheme != "https" {
		add("backend.url", "scheme must be http or https, got %q", u.Scheme)
	}
	if c.Backend.TimeoutSecs <= 0 || c.Backend.TimeoutSecs > MaxTimeoutSecs {
		add("backend.timeout_secs", "must be between 1 and %d", MaxTimeoutSecs)
	}
	if c.Backend.ChatTimeoutSecs <= 0 || c.Backend.ChatTimeoutSecs > MaxTimeoutSecs {
		add("backend.chat_timeout_secs", "must be between 1 and %d", MaxTimeoutSecs)
	}
	if c.Backend.RatePerSec < 0 {
		add("backend.rate_per_sec", "must not be negative")
	}
	if c.Backend.RatePerSec > 0 && c.Backend.Burst < 1 {
		add("backend.burst", "must be at least 1 when rate_per_sec is set")
	}
	if !oneOf(c.Backend.HistoryPath, historyPaths) {
		add("backend.history_path", "must be one of %s", strings.Join(historyPaths, ", "))
	}

	// Logging
	if !oneOf(c.Logging.Level, logLevels) {
		add("logging.level", "must be one of %s", strings.Join(logLevels, ", "))
	}

	// UI
	if !oneOf(c.UI.Theme, themes) {
		add("ui.theme", "must be one of %s", strings.Join(themes, ", "))
	}

	// Backup
	if c.Backup.MaxBackups < 0 {
		add("backup.max_backups", "must not be negative")
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func oneOf(v string, allowed []string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}
