// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package app provides the root Bubble Tea model of the projectmate TUI.
//
// The model owns no state of its own beyond cursors, inputs and the open
// form. Every event is handed to core.App, and the view is drawn from the
// session, caches, transcript and document tabs after each update.
package app

import (
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"

	"github.com/jeranaias/projectmate/internal/config"
	"github.com/jeranaias/projectmate/internal/core"
	"github.com/jeranaias/projectmate/internal/notify"
	"github.com/jeranaias/projectmate/internal/session"
	"github.com/jeranaias/projectmate/internal/settings"
	"github.com/jeranaias/projectmate/internal/ui/styles"
)

// pane is the focused half of the project view.
type pane int

const (
	paneChat pane = iota
	paneDocs
)

// section is the list shown in the settings view.
type section int

const (
	sectionProviders section = iota
	sectionAgents
)

// =============================================================================
// MODEL
// =============================================================================

// Model is the root model of the TUI.
type Model struct {
	app   *core.App
	theme *styles.Theme
	keys  KeyMap

	width  int
	height int

	// Projects view
	projectCursor int

	// Project view
	focus    pane
	input    textinput.Model
	chatView viewport.Model
	docView  viewport.Model

	// Settings view
	section        section
	settingsCursor int

	form    *form
	spinner spinner.Model
	notice  *notify.Msg

	markdown *glamour.TermRenderer
	rendered map[string]string

	watcher *config.Watcher
}

// New creates the root model over a ready App.
func New(app *core.App) *Model {
	in := textinput.New()
	in.Placeholder = "Message the project assistant..."
	in.Prompt = "> "
	in.CharLimit = 0
	in.Cursor.SetMode(cursor.CursorStatic)
	in.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := &Model{
		app:      app,
		theme:    styles.NewTheme(app.Config.UI.Theme),
		keys:     DefaultKeyMap(),
		width:    80,
		height:   24,
		input:    in,
		chatView: viewport.New(80, 10),
		docView:  viewport.New(80, 10),
		spinner:  sp,
		rendered: make(map[string]string),
	}
	m.input.PromptStyle = m.theme.InputPrompt
	m.input.PlaceholderStyle = m.theme.InputPlaceholder
	m.resize()
	return m
}

// Init loads the project list and starts watching the config file.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.app.ShowProjects(), m.spinner.Tick}
	if m.app.ConfigPath != "" {
		w, err := config.Watch(m.app.ConfigPath, 0)
		if err != nil {
			m.app.Logger.Warn("config watch unavailable", zap.String("path", m.app.ConfigPath), zap.Error(err))
		} else {
			m.watcher = w
			cmds = append(cmds, waitForConfig(w))
		}
	}
	return tea.Batch(cmds...)
}

// Close stops the config watcher.
func (m *Model) Close() error {
	if m.watcher != nil {
		return m.watcher.Close()
	}
	return nil
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles one event.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := m.update(msg)
	m.refresh()
	return m, cmd
}

func (m *Model) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return cmd

	case notify.Msg:
		m.notice = &msg
		if msg.IsError() {
			m.app.Logger.Debug("notice", zap.String("text", msg.String()))
		}
		return nil

	case configMsg:
		return m.applyConfig(msg)
	}

	cmd := m.app.Update(msg)
	m.afterComponentUpdate(msg)
	return cmd
}

// afterComponentUpdate copies entities loaded for editing into the open form.
func (m *Model) afterComponentUpdate(msg tea.Msg) {
	if m.form == nil {
		return
	}
	switch msg := msg.(type) {
	case settings.ProviderFormMsg:
		if m.form.kind == formProvider && m.form.loading {
			m.form.loading = false
			if msg.Err != nil {
				m.form = nil
				return
			}
			fillProviderForm(m.form, m.app.Editor.ProviderForm())
		}
	case settings.AgentFormMsg:
		if m.form.kind == formAgent && m.form.loading {
			m.form.loading = false
			if msg.Err != nil {
				m.form = nil
				return
			}
			fillAgentForm(m.form, m.app.Editor.AgentForm())
		}
	case settings.PromptMsg:
		if m.form.kind == formAgent && m.form.id == 0 && msg.Err == nil &&
			m.form.value(fieldAgentType) == msg.AgentType && m.form.value(fieldPrompt) == "" {
			m.form.set(fieldPrompt, msg.Prompt)
		}
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.keys.Quit) {
		return tea.Quit
	}

	// A pending confirmation captures every key.
	if _, ok := m.app.Editor.PendingDelete(); ok {
		switch {
		case key.Matches(msg, m.keys.Yes):
			return m.app.Editor.ConfirmDelete()
		case key.Matches(msg, m.keys.No):
			m.app.Editor.CancelDelete()
			return notify.Info("Cancelled")
		}
		return nil
	}

	if m.form != nil {
		return m.handleFormKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Projects):
		m.projectCursor = 0
		return m.app.ShowProjects()
	case key.Matches(msg, m.keys.Settings):
		m.settingsCursor = 0
		return m.app.ShowSettings()
	case key.Matches(msg, m.keys.Project):
		if id := m.app.Session.ActiveProject(); id != 0 {
			return m.app.OpenProject(id)
		}
		return nil
	}

	switch m.app.Session.View() {
	case session.ViewProjects:
		return m.handleProjectsKey(msg)
	case session.ViewProject:
		return m.handleProjectKey(msg)
	case session.ViewSettings:
		return m.handleSettingsKey(msg)
	}
	return nil
}

func (m *Model) handleFormKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.form = nil
		return nil
	case key.Matches(msg, m.keys.Submit):
		return m.submitForm()
	case key.Matches(msg, m.keys.NextFld):
		return m.leaveField(m.form.next)
	case key.Matches(msg, m.keys.PrevFld):
		return m.leaveField(m.form.prev)
	case msg.Type == tea.KeyEnter && m.form.field(m.form.focused()).area == nil:
		if m.form.focus == len(m.form.fields)-1 {
			return m.submitForm()
		}
		return m.leaveField(m.form.next)
	}
	return m.form.update(msg)
}

// leaveField moves focus and, when the agent type was just typed on a new
// config, asks for its default prompt.
func (m *Model) leaveField(move func() tea.Cmd) tea.Cmd {
	left := m.form.focused()
	cmd := move()
	if m.form.kind == formAgent && m.form.id == 0 && left == fieldAgentType {
		return tea.Batch(cmd, m.app.Editor.DefaultPrompt(m.form.value(fieldAgentType)))
	}
	return cmd
}

// fail shows a validation or request error on the status line.
func fail(text string, err error) tea.Cmd {
	return notify.Error(text, err)
}

// =============================================================================
// LAYOUT
// =============================================================================

func (m *Model) resize() {
	body := m.height - 6
	if body < 6 {
		body = 6
	}
	chatH := body / 2
	m.chatView.Width = m.width
	m.chatView.Height = chatH
	m.docView.Width = m.width
	m.docView.Height = body - chatH - 2
	m.input.Width = m.width - 4
	if m.form != nil {
		m.form.setWidth(m.width)
	}
	m.invalidateMarkdown()
}

// invalidateMarkdown drops the renderer and its cache after a width or
// theme change.
func (m *Model) invalidateMarkdown() {
	m.markdown = nil
	m.rendered = make(map[string]string)
}

// refresh redraws the scrolled panes from component state.
func (m *Model) refresh() {
	if m.app.Session.View() != session.ViewProject {
		return
	}
	atBottom := m.chatView.AtBottom()
	m.chatView.SetContent(m.renderTranscript())
	if atBottom {
		m.chatView.GotoBottom()
	}
	m.docView.SetContent(m.renderDocument())
}
