// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/projectmate/internal/session"
	"github.com/jeranaias/projectmate/internal/util"
)

// View renders the interface.
func (m *Model) View() string {
	var body string
	var bindings []key.Binding

	switch {
	case m.form != nil:
		body = m.form.view(m.theme)
		bindings = m.keys.formHelp()
	default:
		switch m.app.Session.View() {
		case session.ViewProjects:
			body = m.viewProjects()
			bindings = m.keys.projectsHelp()
		case session.ViewProject:
			body = m.viewProject()
			bindings = m.keys.projectHelp()
		case session.ViewSettings:
			body = m.viewSettings()
			bindings = m.keys.settingsHelp()
		}
	}

	if prompt, ok := m.app.Editor.PendingDelete(); ok {
		body = lipgloss.JoinVertical(lipgloss.Left, body,
			m.theme.ConfirmBox.Render(m.theme.RenderWarning(prompt)+"  [y/N]"))
		bindings = []key.Binding{m.keys.Yes, m.keys.No}
	}

	h := help.New()
	h.Width = m.width
	return lipgloss.JoinVertical(lipgloss.Left,
		m.viewHeader(),
		body,
		m.viewStatus(),
		m.theme.Help.Render(h.ShortHelpView(bindings)),
	)
}

func (m *Model) viewHeader() string {
	t := m.theme
	view := m.app.Session.View()
	nav := func(v session.View, label string) string {
		if v == view {
			return t.NavItemActive.Render(label)
		}
		return t.NavItem.Render(label)
	}

	title := t.HeaderTitle.Render("projectmate")
	if view == session.ViewProject {
		name := m.app.Session.ProjectName()
		if name == "" {
			name = fmt.Sprintf("project %d", m.app.Session.ActiveProject())
		}
		title += " " + t.HeaderSubtitle.Render(util.Truncate(name, m.width/3))
	}
	return t.Header.Width(m.width).Render(lipgloss.JoinHorizontal(lipgloss.Center,
		title, "  ",
		nav(session.ViewProjects, "F1 Projects"),
		nav(session.ViewProject, "F2 Project"),
		nav(session.ViewSettings, "F3 Settings"),
	))
}

// viewStatus renders the last notice.
func (m *Model) viewStatus() string {
	t := m.theme
	text := ""
	style := t.StatusInfo
	if m.notice != nil {
		text = util.Truncate(util.SingleLine(m.notice.String()), m.width-2)
		if m.notice.IsError() {
			style = t.StatusError
		}
	}
	return t.StatusBar.Width(m.width).Render(style.Render(text))
}
