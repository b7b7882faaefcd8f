// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/projectmate/internal/model"
	"github.com/jeranaias/projectmate/internal/settings"
)

func (m *Model) openForm(f *form) tea.Cmd {
	m.form = f
	f.setWidth(m.width)
	return f.start()
}

func providerForm(id int) *form {
	title := "New provider"
	if id != 0 {
		title = "Edit provider"
	}
	f := newForm(formProvider, title).
		addField(fieldName, "Name", "", "OpenAI").
		addField(fieldURL, "API URL", "", "https://api.openai.com/v1").
		addSecret(fieldKey, "API key", "leave blank to keep")
	f.id = id
	return f
}

func fillProviderForm(f *form, p settings.ProviderForm) {
	f.id = p.ID
	f.set(fieldName, p.Name)
	f.set(fieldURL, p.APIURL)
	// The key is never shown; blank keeps the stored one.
	f.set(fieldKey, "")
}

func agentForm(id int) *form {
	title := "New agent config"
	if id != 0 {
		title = "Edit agent config"
	}
	f := newForm(formAgent, title).
		addField(fieldAgentType, "Agent type", "", "Project Writer").
		addField(fieldProvider, "Provider ID", "", "1").
		addField(fieldModel, "Model", "", "gpt-4o").
		addField(fieldTemperature, "Temperature", formatTemperature(model.DefaultTemperature), "").
		addArea(fieldPrompt, "System prompt", "")
	f.id = id
	return f
}

func fillAgentForm(f *form, a settings.AgentForm) {
	f.id = a.ID
	f.set(fieldAgentType, a.AgentType)
	if a.ProviderID > 0 {
		f.set(fieldProvider, strconv.Itoa(a.ProviderID))
	}
	f.set(fieldModel, a.ModelName)
	f.set(fieldTemperature, formatTemperature(model.TemperatureOrDefault(a.Temperature)))
	f.set(fieldPrompt, a.SystemPrompt)
}

func formatTemperature(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// intField parses an optional positive id. Blank is 0, which the editor
// rejects with its own message.
func intField(f *form, key string) (int, error) {
	s := strings.TrimSpace(f.value(key))
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, model.Invalid(key, "must be a number")
	}
	return n, nil
}

// submitForm runs the operation of the open form. The form stays open when
// validation fails so the input can be corrected.
func (m *Model) submitForm() tea.Cmd {
	f := m.form
	if f.loading {
		return nil
	}
	cmd, err := m.submit(f)
	if err != nil {
		return fail("Cannot save", err)
	}
	m.form = nil
	return cmd
}

func (m *Model) submit(f *form) (tea.Cmd, error) {
	editor := m.app.Editor
	switch f.kind {
	case formProject:
		if f.id == 0 {
			return editor.CreateProject(f.value(fieldName), f.value(fieldDescription))
		}
		return editor.UpdateProject(f.id, f.value(fieldName), f.value(fieldDescription))

	case formProvider:
		return editor.SaveProvider(settings.ProviderForm{
			ID:     f.id,
			Name:   f.value(fieldName),
			APIURL: f.value(fieldURL),
			APIKey: f.value(fieldKey),
		})

	case formAgent:
		providerID, err := intField(f, fieldProvider)
		if err != nil {
			return nil, err
		}
		// Blank means the default; 0 is kept.
		var temp *float64
		if s := strings.TrimSpace(f.value(fieldTemperature)); s != "" {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, model.Invalid(fieldTemperature, "must be a number")
			}
			temp = settings.Temperature(v)
		}
		return editor.SaveAgentConfig(settings.AgentForm{
			ID:           f.id,
			AgentType:    f.value(fieldAgentType),
			ProviderID:   providerID,
			ModelName:    f.value(fieldModel),
			SystemPrompt: f.value(fieldPrompt),
			Temperature:  temp,
		})

	case formApplyAll:
		providerID, err := intField(f, fieldProvider)
		if err != nil {
			return nil, err
		}
		return editor.ApplyModelToAll(providerID, f.value(fieldModel))

	case formDocument:
		return m.app.Docs.SaveDocument(f.docKind, f.value(fieldComponent), f.value(fieldContent))

	case formAddDocument:
		return m.app.Docs.AddDocument(f.value(fieldDocType), f.value(fieldContent))
	}
	return nil, nil
}
