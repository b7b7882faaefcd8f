// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/projectmate/internal/util"
)

func (m *Model) settingsLen() int {
	if m.section == sectionProviders {
		return m.app.Caches.Providers.Len()
	}
	return m.app.Caches.AgentConfigs.Len()
}

// selectedID returns the id of the provider or agent config under the cursor.
func (m *Model) selectedID() (int, bool) {
	if n := m.settingsLen(); m.settingsCursor >= n {
		m.settingsCursor = n - 1
	}
	if m.settingsCursor < 0 {
		m.settingsCursor = 0
	}
	if m.section == sectionProviders {
		p, ok := m.app.Caches.Providers.At(m.settingsCursor)
		return p.ID, ok
	}
	a, ok := m.app.Caches.AgentConfigs.At(m.settingsCursor)
	return a.ID, ok
}

func (m *Model) handleSettingsKey(msg tea.KeyMsg) tea.Cmd {
	k := m.keys
	editor := m.app.Editor
	switch {
	case key.Matches(msg, k.Section):
		m.section = (m.section + 1) % 2
		m.settingsCursor = 0
		return nil
	case key.Matches(msg, k.Up):
		if m.settingsCursor > 0 {
			m.settingsCursor--
		}
		return nil
	case key.Matches(msg, k.Down):
		if m.settingsCursor < m.settingsLen()-1 {
			m.settingsCursor++
		}
		return nil
	case key.Matches(msg, k.Reload):
		return editor.ReloadSettings()
	case key.Matches(msg, k.Backup):
		return editor.Backup()
	case key.Matches(msg, k.Restore):
		return m.restoreLatest()
	case key.Matches(msg, k.ApplyAll):
		return m.openForm(newForm(formApplyAll, "Apply model to all agents").
			addField(fieldProvider, "Provider ID", "", "1").
			addField(fieldModel, "Model", "", "gpt-4o"))
	case key.Matches(msg, k.New):
		if m.section == sectionProviders {
			editor.NewProvider()
			return m.openForm(providerForm(0))
		}
		editor.NewAgentConfig()
		return m.openForm(agentForm(0))
	}

	id, ok := m.selectedID()
	if !ok {
		return nil
	}
	switch {
	case key.Matches(msg, k.Edit):
		if m.section == sectionProviders {
			f := providerForm(id)
			f.loading = true
			return tea.Batch(m.openForm(f), editor.EditProvider(id))
		}
		f := agentForm(id)
		f.loading = true
		return tea.Batch(m.openForm(f), editor.EditAgentConfig(id))
	case key.Matches(msg, k.Delete):
		var err error
		if m.section == sectionProviders {
			err = editor.RequestDeleteProvider(id)
		} else {
			err = editor.RequestDeleteAgentConfig(id)
		}
		if err != nil {
			return fail("Cannot delete", err)
		}
	}
	return nil
}

// restoreLatest uploads the newest local backup after confirmation.
func (m *Model) restoreLatest() tea.Cmd {
	latest, err := m.app.Backups.Latest()
	if err != nil {
		return fail("Restore failed", err)
	}
	cmd, err := m.app.Editor.RestoreFile(latest.Path)
	if err != nil {
		return fail("Restore failed", err)
	}
	prompt := fmt.Sprintf("Replace all providers and agent configs with %s?", latest.Name)
	if !m.app.Config.UI.ConfirmDestructive {
		return cmd
	}
	m.app.Editor.Gate().Request(prompt, func() tea.Cmd { return cmd })
	return nil
}

func (m *Model) viewSettings() string {
	t := m.theme
	caches := m.app.Caches
	var b strings.Builder

	title := func(s section, text string) string {
		if m.section == s {
			return t.NavItemActive.Render(text)
		}
		return t.NavItem.Render(text)
	}
	b.WriteString(title(sectionProviders, "Providers") + " " + title(sectionAgents, "Agent configs"))
	b.WriteString("\n\n")

	row := func(i int, line string) {
		style := t.ListItem
		if i == m.settingsCursor {
			style = t.ListItemSelected
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}

	if m.section == sectionProviders {
		providers := caches.Providers.Items()
		if len(providers) == 0 {
			b.WriteString(t.MutedStyle.Render("No providers. Press n to add one."))
		}
		for i, p := range providers {
			keyState := "no key"
			if p.HasAPIKey {
				keyState = "key set"
			}
			row(i, fmt.Sprintf("#%-4d %s  %s  %s",
				p.ID, util.PadRight(util.Truncate(p.Name, 20), 20),
				util.Truncate(p.APIURL, 40), t.ListMeta.Render(keyState)))
		}
		return b.String()
	}

	agents := caches.AgentConfigs.Items()
	if len(agents) == 0 {
		b.WriteString(t.MutedStyle.Render("No agent configs. Press n to add one."))
	}
	for i, a := range agents {
		row(i, fmt.Sprintf("#%-4d %s  %s  %s  %s",
			a.ID, util.PadRight(util.Truncate(a.AgentType, 28), 28),
			util.PadRight(util.Truncate(caches.ProviderName(a.ProviderID), 16), 16),
			util.Truncate(a.ModelName, 24),
			t.ListMeta.Render(fmt.Sprintf("t=%.2f", a.Temperature))))
	}
	return b.String()
}
