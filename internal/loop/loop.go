// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package loop runs Bubble Tea commands without a Program.
//
// The command line drives the same components as the TUI. Run executes a
// command on the calling goroutine, hands each resulting message to update,
// and keeps going with whatever update returns until nothing is left.
package loop

import (
	tea "github.com/charmbracelet/bubbletea"
)

// MaxSteps bounds a single Run so a command that keeps rescheduling itself
// cannot spin forever.
const MaxSteps = 1000

// Run executes cmd and every follow-up command breadth-first, in issue
// order. It returns every message seen, batches flattened.
func Run(cmd tea.Cmd, update func(tea.Msg) tea.Cmd) []tea.Msg {
	var seen []tea.Msg
	queue := []tea.Cmd{cmd}

	for steps := 0; len(queue) > 0 && steps < MaxSteps; steps++ {
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}

		msg := next()
		if batch, ok := msg.(tea.BatchMsg); ok {
			queue = append(queue, batch...)
			continue
		}
		if msg == nil {
			continue
		}

		seen = append(seen, msg)
		if update != nil {
			if follow := update(msg); follow != nil {
				queue = append(queue, follow)
			}
		}
	}
	return seen
}

// Collect returns the messages of type T among msgs.
func Collect[T any](msgs []tea.Msg) []T {
	var out []T
	for _, m := range msgs {
		if v, ok := m.(T); ok {
			out = append(out, v)
		}
	}
	return out
}
