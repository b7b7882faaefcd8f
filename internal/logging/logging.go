// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging builds the structured logger shared by every component.
//
// The TUI owns the terminal, so logs go to a file. The level is held in a
// zap.AtomicLevel and can be changed while running, e.g. after the config
// file is edited.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options configure New.
type Options struct {
	// Level is one of debug, info, warn, error (default info)
	Level string
	// File is the log path. Empty means no file output.
	File string
	// Verbose forces debug level and also writes to stderr.
	Verbose bool
}

// Logger is a zap logger whose level can be changed after construction.
type Logger struct {
	*zap.Logger
	level zap.AtomicLevel
}

// New builds a JSON logger writing to opts.File. With neither a file nor
// Verbose set it returns a logger that discards everything but still honors
// SetLevel.
func New(opts Options) (*Logger, error) {
	lvl, err := parseLevel(opts.Level)
	if err != nil {
		return nil, err
	}
	if opts.Verbose {
		lvl = zapcore.DebugLevel
	}
	atom := zap.NewAtomicLevelAt(lvl)

	var outputs []string
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0700); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		outputs = append(outputs, opts.File)
	}
	if opts.Verbose {
		outputs = append(outputs, "stderr")
	}
	if len(outputs) == 0 {
		return &Logger{Logger: zap.NewNop(), level: atom}, nil
	}

	config := zap.NewProductionConfig()
	config.Level = atom
	config.OutputPaths = outputs
	config.ErrorOutputPaths = outputs
	config.Sampling = nil
	config.EncoderConfig.TimeKey = "ts"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return &Logger{Logger: logger, level: atom}, nil
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{Logger: zap.NewNop(), level: zap.NewAtomicLevel()}
}

// SetLevel changes the level of every logger derived from l.
func (l *Logger) SetLevel(level string) error {
	lvl, err := parseLevel(level)
	if err != nil {
		return err
	}
	l.level.SetLevel(lvl)
	return nil
}

// Level returns the current level name.
func (l *Logger) Level() string {
	return l.level.Level().String()
}

// Close flushes buffered entries.
func (l *Logger) Close() error {
	// Sync on stderr returns EINVAL on some platforms; nothing to flush there.
	_ = l.Sync()
	return nil
}

func parseLevel(level string) (zapcore.Level, error) {
	if level == "" {
		return zapcore.InfoLevel, nil
	}
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return lvl, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return lvl, nil
}
