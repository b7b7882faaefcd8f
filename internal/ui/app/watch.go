// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/projectmate/internal/config"
	"github.com/jeranaias/projectmate/internal/notify"
	"github.com/jeranaias/projectmate/internal/ui/styles"
)

// configMsg carries one reload of the watched config file.
type configMsg struct {
	event  config.Event
	closed bool
	next   tea.Cmd
}

// waitForConfig blocks until the watcher reports a change.
func waitForConfig(w *config.Watcher) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-w.Events()
		return configMsg{event: ev, closed: !ok, next: waitForConfig(w)}
	}
}

// applyConfig applies the live settings of a reloaded config: log level,
// theme and the confirmation switch. Backend settings need a restart.
func (m *Model) applyConfig(msg configMsg) tea.Cmd {
	if msg.closed {
		return nil
	}
	if msg.event.Err != nil {
		m.app.Logger.Warn("config reload failed", zap.Error(msg.event.Err))
		return tea.Batch(notify.Error("Config reload failed", msg.event.Err), msg.next)
	}

	cfg := msg.event.Config
	cur := m.app.Config
	if cfg.Logging.Level != cur.Logging.Level {
		if err := m.app.Logger.SetLevel(cfg.Logging.Level); err != nil {
			return tea.Batch(notify.Error("Config reload failed", err), msg.next)
		}
		cur.Logging.Level = cfg.Logging.Level
	}
	if cfg.UI.Theme != cur.UI.Theme {
		cur.UI.Theme = cfg.UI.Theme
		m.setTheme(styles.NewTheme(cfg.UI.Theme))
	}
	cur.UI.ConfirmDestructive = cfg.UI.ConfirmDestructive

	m.app.Logger.Info("config reloaded",
		zap.String("level", cur.Logging.Level),
		zap.String("theme", cur.UI.Theme))
	return tea.Batch(notify.Info("Config reloaded"), msg.next)
}

func (m *Model) setTheme(t *styles.Theme) {
	m.theme = t
	m.input.PromptStyle = t.InputPrompt
	m.input.PlaceholderStyle = t.InputPlaceholder
	m.invalidateMarkdown()
}
