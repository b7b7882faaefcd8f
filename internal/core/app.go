// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package core wires the projectmate components together.
//
// App owns one instance of every component over a single gateway and
// session. The TUI hands Bubble Tea messages to App.Update from its event
// loop; the command line runs commands to completion with App.Run. Both
// surfaces go through the same view transitions, so selecting a project
// always resets chat and documents before anything is fetched.
package core

import (
	"context"
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/projectmate/internal/api"
	"github.com/jeranaias/projectmate/internal/cache"
	"github.com/jeranaias/projectmate/internal/chat"
	"github.com/jeranaias/projectmate/internal/config"
	"github.com/jeranaias/projectmate/internal/docsync"
	"github.com/jeranaias/projectmate/internal/logging"
	"github.com/jeranaias/projectmate/internal/loop"
	"github.com/jeranaias/projectmate/internal/notify"
	"github.com/jeranaias/projectmate/internal/session"
	"github.com/jeranaias/projectmate/internal/settings"
	"github.com/jeranaias/projectmate/internal/storage"
)

// ProjectNameMsg carries the name of the project that was just selected.
type ProjectNameMsg struct {
	Ticket session.Ticket
	Name   string
	Err    error
}

// App holds every component of a running client.
type App struct {
	Config  *config.Config
	Logger  *logging.Logger
	Client  *api.Client
	Session *session.Manager
	Caches  *cache.Caches
	Docs    *docsync.Sync
	Chat    *chat.Orchestrator
	Editor  *settings.Editor
	Backups *storage.BackupStore

	// ConfigPath is the file the config was loaded from, watched by the
	// TUI for live changes. Empty disables watching.
	ConfigPath string
}

// New builds an App from cfg. logger may be nil.
func New(cfg *config.Config, logger *logging.Logger) (*App, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = logging.Nop()
	}

	backupDir := cfg.Backup.Dir
	if backupDir == "" {
		dir, err := config.ConfigDir()
		if err != nil {
			return nil, fmt.Errorf("resolve backup dir: %w", err)
		}
		backupDir = filepath.Join(dir, "backups")
	}
	backups, err := storage.NewBackupStoreWithDir(backupDir)
	if err != nil {
		return nil, fmt.Errorf("open backup dir: %w", err)
	}
	backups.MaxBackups = cfg.Backup.MaxBackups

	// The transport timeout has to admit a chat turn; shorter calls carry
	// their own context deadline.
	client := api.NewClientWithConfig(&api.ClientConfig{
		BaseURL:     cfg.Backend.URL,
		Timeout:     cfg.Backend.ChatTimeout(),
		RatePerSec:  cfg.Backend.RatePerSec,
		Burst:       cfg.Backend.Burst,
		HistoryPath: cfg.Backend.HistoryPath,
		Logger:      logger.Logger,
	})

	sess := session.NewManager()
	caches := cache.New()
	docs := docsync.New(client, sess, docsync.Config{
		Timeout: cfg.Backend.Timeout(),
		Logger:  logger.Logger,
	})
	orch := chat.New(client, sess, docs, chat.Config{
		Timeout:        cfg.Backend.ChatTimeout(),
		HistoryTimeout: cfg.Backend.Timeout(),
		Logger:         logger.Logger,
	})
	editor := settings.New(client, caches, sess, settings.Config{
		Timeout: cfg.Backend.Timeout(),
		UserID:  cfg.Backend.UserID,
		Backups: backups,
		Logger:  logger.Logger,
	})

	return &App{
		Config:  cfg,
		Logger:  logger,
		Client:  client,
		Session: sess,
		Caches:  caches,
		Docs:    docs,
		Chat:    orch,
		Editor:  editor,
		Backups: backups,
	}, nil
}

// =============================================================================
// VIEW TRANSITIONS
// =============================================================================

// OpenProject makes id the active project. The transcript and every document
// tab are cleared before the history, documents and name are fetched.
func (a *App) OpenProject(id int) tea.Cmd {
	ticket, ok := a.EnterProject(id)
	if !ok {
		return nil
	}
	return tea.Batch(a.Docs.Activate(), a.Chat.LoadHistory(), a.fetchName(ticket))
}

// EnterProject switches to id and clears the previous project's transcript
// and tabs without fetching anything.
func (a *App) EnterProject(id int) (session.Ticket, bool) {
	if id <= 0 {
		return session.Ticket{}, false
	}
	tr := a.Session.SelectProject(id)
	a.Chat.Reset()
	a.Docs.Reset()
	return tr.Ticket, true
}

// ShowProjects returns to the project list and reloads it.
func (a *App) ShowProjects() tea.Cmd {
	a.leaveProject()
	return a.Editor.ReloadProjects()
}

// leaveProject switches to the project list and drops the transcript and
// tabs of the project that was open.
func (a *App) leaveProject() {
	a.Session.NavProjects()
	a.Chat.Reset()
	a.Docs.Reset()
}

// ShowSettings opens the settings view and reloads what it shows.
func (a *App) ShowSettings() tea.Cmd {
	a.Session.NavSettings()
	return a.Editor.ReloadSettings()
}

// RequestClearHistory parks clearing the active project's transcript behind
// the shared confirmation gate. It reports false when no project is active.
func (a *App) RequestClearHistory() bool {
	if !a.Session.HasActiveProject() {
		return false
	}
	name := a.Session.ProjectName()
	if name == "" {
		name = fmt.Sprintf("project %d", a.Session.ActiveProject())
	}
	a.Editor.Gate().Request(fmt.Sprintf("Clear the chat history of %s?", name), a.Chat.ClearHistory)
	return true
}

// LoadProjectName fetches the display name of the active project.
func (a *App) LoadProjectName() tea.Cmd {
	ticket := a.Session.Ticket()
	if ticket.ProjectID == 0 {
		return nil
	}
	return a.fetchName(ticket)
}

func (a *App) fetchName(ticket session.Ticket) tea.Cmd {
	client, timeout := a.Client, a.Config.Backend.Timeout()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		p, err := client.GetProject(ctx, ticket.ProjectID)
		if err != nil {
			return ProjectNameMsg{Ticket: ticket, Err: err}
		}
		return ProjectNameMsg{Ticket: ticket, Name: p.Name}
	}
}

// =============================================================================
// UPDATE
// =============================================================================

// Update hands msg to every component and batches what they return.
func (a *App) Update(msg tea.Msg) tea.Cmd {
	switch m := msg.(type) {
	case ProjectNameMsg:
		if m.Err != nil {
			if a.Session.IsCurrent(m.Ticket) {
				return notify.Error("Failed to load project", m.Err)
			}
			return nil
		}
		a.Session.SetProjectName(m.Ticket, m.Name)
		return nil

	case settings.ProjectClosedMsg:
		// The editor already reloads the list after the deletion.
		if a.Session.ActiveProject() == m.ID {
			a.leaveProject()
		}
		return nil
	}
	return tea.Batch(a.Docs.Update(msg), a.Chat.Update(msg), a.Editor.Update(msg))
}

// Result is what a synchronous run produced.
type Result struct {
	Msgs    []tea.Msg
	Notices []notify.Msg
}

// Err returns the first failure notice as an error, or nil.
func (r Result) Err() error {
	for _, n := range r.Notices {
		if !n.IsError() {
			continue
		}
		if n.Err != nil {
			return fmt.Errorf("%s: %w", n.Text, n.Err)
		}
		return fmt.Errorf("%s", n.Text)
	}
	return nil
}

// Infos returns the text of every informational notice.
func (r Result) Infos() []string {
	var out []string
	for _, n := range r.Notices {
		if !n.IsError() {
			out = append(out, n.Text)
		}
	}
	return out
}

// Run executes cmd and everything it leads to on the calling goroutine.
func (a *App) Run(cmd tea.Cmd) Result {
	msgs := loop.Run(cmd, a.Update)
	return Result{Msgs: msgs, Notices: loop.Collect[notify.Msg](msgs)}
}
