// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package confirm holds destructive actions until the user confirms them.
//
// A Gate stores at most one pending action. Requesting a new one replaces
// the previous request. Nothing runs until Confirm is called.
package confirm

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Action is a destructive operation awaiting confirmation.
type Action struct {
	// Prompt is what the user is asked, e.g. "delete provider OpenAI".
	Prompt string
	Run    func() tea.Cmd
}

// Gate is a single-slot holding area for destructive actions.
type Gate struct {
	pending *Action
}

// Request parks an action. It replaces any earlier unconfirmed request.
func (g *Gate) Request(prompt string, run func() tea.Cmd) {
	g.pending = &Action{Prompt: prompt, Run: run}
}

// Pending returns the parked action's prompt.
func (g *Gate) Pending() (string, bool) {
	if g.pending == nil {
		return "", false
	}
	return g.pending.Prompt, true
}

// Confirm runs the parked action and clears the gate.
func (g *Gate) Confirm() tea.Cmd {
	if g.pending == nil {
		return nil
	}
	a := g.pending
	g.pending = nil
	return a.Run()
}

// Cancel drops the parked action.
func (g *Gate) Cancel() {
	g.pending = nil
}
