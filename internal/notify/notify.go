// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package notify carries user-visible outcomes through the event loop.
//
// Components never print or draw. They emit a Msg and the surface in use
// (status line in the TUI, stderr in the CLI) decides how to show it.
package notify

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Level is the severity of a notice.
type Level int

const (
	LevelInfo Level = iota
	LevelError
)

// Msg is a notice for the user.
type Msg struct {
	Level Level
	Text  string
	Err   error
}

// IsError reports whether the notice reports a failure.
func (m Msg) IsError() bool {
	return m.Level == LevelError
}

func (m Msg) String() string {
	if m.Err != nil {
		return m.Text + ": " + m.Err.Error()
	}
	return m.Text
}

// Info returns a command that emits an informational notice.
func Info(text string) tea.Cmd {
	return func() tea.Msg {
		return Msg{Level: LevelInfo, Text: text}
	}
}

// Error returns a command that emits a failure notice.
func Error(text string, err error) tea.Cmd {
	return func() tea.Msg {
		return Msg{Level: LevelError, Text: text, Err: err}
	}
}
