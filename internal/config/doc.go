// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config loads and saves the projectmate client configuration.
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (PROJECTMATE_*), including a .env file
//   - ~/.projectmate/config.toml
//   - ~/.projectmate/config.json
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    return err
//	}
//	timeout := cfg.Backend.Timeout()
//
// Watch reports every later change to the file so a running TUI can apply
// the new log level and theme without a restart.
package config
