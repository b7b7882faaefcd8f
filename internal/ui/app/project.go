// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/jeranaias/projectmate/internal/docsync"
	"github.com/jeranaias/projectmate/internal/model"
)

func (m *Model) handleProjectKey(msg tea.KeyMsg) tea.Cmd {
	k := m.keys
	docs := m.app.Docs
	switch {
	case key.Matches(msg, k.Focus):
		if m.focus == paneChat {
			m.focus = paneDocs
			m.input.Blur()
			return nil
		}
		m.focus = paneChat
		return m.input.Focus()
	case key.Matches(msg, k.NextTab):
		docs.NextTab()
		m.docView.GotoTop()
		return nil
	case key.Matches(msg, k.PrevTab):
		docs.PrevTab()
		m.docView.GotoTop()
		return nil
	case key.Matches(msg, k.RefreshTab):
		return docs.RefreshTab(docs.ActiveTab().Kind)
	case key.Matches(msg, k.EditDoc):
		return m.editActiveDocument()
	case key.Matches(msg, k.AddDoc):
		return m.openForm(newForm(formAddDocument, "Add document").
			addField(fieldDocType, "Type", "", "requirements").
			addArea(fieldContent, "Content", ""))
	case key.Matches(msg, k.ClearChat):
		m.app.RequestClearHistory()
		return nil
	}

	if m.focus == paneDocs {
		var cmd tea.Cmd
		m.docView, cmd = m.docView.Update(msg)
		return cmd
	}

	switch msg.Type {
	case tea.KeyEnter:
		// The send control is disabled while a turn is in flight.
		if m.app.Chat.Sending() {
			return nil
		}
		cmd := m.app.Chat.Send(m.input.Value())
		if cmd != nil {
			m.input.Reset()
			m.chatView.GotoBottom()
		}
		return cmd
	case tea.KeyPgUp, tea.KeyPgDown:
		var cmd tea.Cmd
		m.chatView, cmd = m.chatView.Update(msg)
		return cmd
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

func (m *Model) editActiveDocument() tea.Cmd {
	tab := m.app.Docs.ActiveTab()
	if !tab.Kind.Editable() {
		return fail("Cannot edit document", model.Invalid("kind", "%s is written by the assistant", tab.Kind.Label()))
	}
	f := newForm(formDocument, "Edit "+tab.Kind.Label())
	f.docKind = tab.Kind
	if tab.Kind.MultiComponent() {
		name, content := "", ""
		if len(tab.Content.Components) > 0 {
			name, content = tab.Content.Components[0].ComponentName, tab.Content.Components[0].Content
		}
		f.addField(fieldComponent, "Component", name, "component name")
		f.addArea(fieldContent, "Content", content)
	} else {
		body := ""
		if tab.State == docsync.TabLoaded {
			body = tab.Content.Body
		}
		f.addArea(fieldContent, "Content", body)
	}
	return m.openForm(f)
}

// =============================================================================
// RENDERING
// =============================================================================

func (m *Model) renderTranscript() string {
	t := m.theme
	msgs := m.app.Chat.Transcript()
	if len(msgs) == 0 {
		return t.MutedStyle.Render("No messages yet.")
	}
	width := m.width - 4
	var b strings.Builder
	for i, msg := range msgs {
		if i > 0 {
			b.WriteString("\n")
		}
		label := t.AssistantLabel.Render(msg.AgentType)
		if msg.IsUser() {
			label = t.UserLabel.Render(msg.Role().DisplayName())
		}
		b.WriteString(label)
		b.WriteString("\n")

		body := t.MessageText
		switch {
		case msg.Failed:
			body = t.FailedText
		case msg.Pending:
			body = t.PendingText
		}
		b.WriteString(body.Width(width).Render(msg.Content))
		b.WriteString("\n")
	}
	if m.app.Chat.Sending() {
		b.WriteString("\n")
		b.WriteString(t.MutedStyle.Render(m.spinner.View() + " waiting for the assistant..."))
	}
	return b.String()
}

// renderDocument renders the active tab. Loaded markdown goes through
// glamour; the output is cached per content and width.
func (m *Model) renderDocument() string {
	tab := m.app.Docs.ActiveTab()
	switch tab.State {
	case docsync.TabLoading:
		return m.theme.MutedStyle.Render(m.spinner.View() + " " + tab.Text())
	case docsync.TabFailed:
		return m.theme.RenderError(tab.Text())
	case docsync.TabIdle:
		return ""
	}

	text := tab.Text()
	cacheKey := string(tab.Kind) + "\x00" + text
	if out, ok := m.rendered[cacheKey]; ok {
		return out
	}
	out := text
	if r := m.renderer(); r != nil {
		if md, err := r.Render(text); err == nil {
			out = strings.TrimRight(md, "\n")
		} else {
			m.app.Logger.Debug("markdown render failed", zap.Error(err))
		}
	}
	if len(m.rendered) > 64 {
		m.rendered = make(map[string]string)
	}
	m.rendered[cacheKey] = out
	return out
}

func (m *Model) renderer() *glamour.TermRenderer {
	if m.markdown != nil {
		return m.markdown
	}
	wrap := m.width - 4
	if wrap < 20 {
		wrap = 20
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(m.theme.GlamourStyle()),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		m.app.Logger.Warn("markdown renderer unavailable", zap.Error(err))
		return nil
	}
	m.markdown = r
	return r
}

func (m *Model) viewProject() string {
	t := m.theme
	var tabs []string
	active := m.app.Docs.ActiveTab().Kind
	for _, tab := range m.app.Docs.Tabs() {
		style := t.Tab
		switch {
		case tab.Kind == active:
			style = t.TabActive
		case tab.State == docsync.TabFailed:
			style = t.TabFailed
		}
		tabs = append(tabs, style.Render(tab.Kind.Label()))
	}

	input := m.input.View()
	if m.app.Chat.Sending() {
		input = t.MutedStyle.Render(m.spinner.View() + " sending...")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.chatView.View(),
		t.InputContainer.Width(m.width).Render(input),
		lipgloss.JoinHorizontal(lipgloss.Top, tabs...),
		t.DocBody.Width(m.width).Render(m.docView.View()),
	)
}
