// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package settings

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/projectmate/internal/model"
	"github.com/jeranaias/projectmate/internal/notify"
)

// AgentForm is the agent config being edited. ID 0 means a new config.
type AgentForm struct {
	ID           int
	AgentType    string
	ProviderID   int
	ModelName    string
	SystemPrompt string

	// Temperature is nil when not set; the default is applied on save.
	Temperature *float64
}

// NewAgentForm returns an empty form with the default temperature.
func NewAgentForm() AgentForm {
	return AgentForm{Temperature: Temperature(model.DefaultTemperature)}
}

// Temperature returns a pointer to v for AgentForm.Temperature.
func Temperature(v float64) *float64 {
	return &v
}

// AgentFormMsg carries an agent config loaded for editing.
type AgentFormMsg struct {
	Form AgentForm
	Err  error
}

// PromptMsg carries the default system prompt of an agent type.
type PromptMsg struct {
	AgentType string
	Prompt    string
	Cached    bool
	Err       error
}

// AgentForm returns the agent form last loaded or cleared.
func (e *Editor) AgentForm() AgentForm {
	return e.agentForm
}

// NewAgentConfig clears the agent form for a new entry.
func (e *Editor) NewAgentConfig() {
	e.agentForm = NewAgentForm()
}

// EditAgentConfig loads an agent config into the form.
func (e *Editor) EditAgentConfig(id int) tea.Cmd {
	gw := e.gw
	return e.run(func(ctx context.Context) tea.Msg {
		a, err := gw.GetAgentConfig(ctx, id)
		if err != nil {
			return AgentFormMsg{Err: err}
		}
		return AgentFormMsg{Form: AgentForm{
			ID:           a.ID,
			AgentType:    a.AgentType,
			ProviderID:   a.ProviderID,
			ModelName:    a.ModelName,
			SystemPrompt: a.SystemPrompt,
			Temperature:  Temperature(a.Temperature),
		}}
	})
}

// DefaultPrompt fetches the default system prompt of agentType. Prompts are
// served from the cache once seen. A new form for the same type with no
// prompt typed yet is pre-filled when the prompt arrives.
func (e *Editor) DefaultPrompt(agentType string) tea.Cmd {
	agentType = strings.TrimSpace(agentType)
	if agentType == "" {
		return nil
	}
	if e.agentForm.ID == 0 {
		e.agentForm.AgentType = agentType
	}
	if prompt, ok := e.caches.Prompts.Get(agentType); ok {
		return func() tea.Msg {
			return PromptMsg{AgentType: agentType, Prompt: prompt, Cached: true}
		}
	}
	gw := e.gw
	return e.run(func(ctx context.Context) tea.Msg {
		prompt, err := gw.DefaultSystemPrompt(ctx, agentType)
		return PromptMsg{AgentType: agentType, Prompt: prompt, Err: err}
	})
}

func (e *Editor) applyPrompt(msg PromptMsg) tea.Cmd {
	if msg.Err != nil {
		return notify.Error("Failed to load default prompt for "+msg.AgentType, msg.Err)
	}
	if !msg.Cached {
		e.caches.Prompts.Put(msg.AgentType, msg.Prompt)
	}
	f := &e.agentForm
	if f.ID == 0 && f.AgentType == msg.AgentType && strings.TrimSpace(f.SystemPrompt) == "" {
		f.SystemPrompt = msg.Prompt
	}
	return nil
}

// validateAgent checks a form against the loaded enumeration and providers.
func (e *Editor) validateAgent(form AgentForm) (model.AgentConfigInput, error) {
	in := model.AgentConfigInput{
		AgentType:    form.AgentType,
		ProviderID:   form.ProviderID,
		ModelName:    form.ModelName,
		SystemPrompt: form.SystemPrompt,
		Temperature:  model.TemperatureOrDefault(form.Temperature),
	}
	if in.Temperature < model.MinTemperature || in.Temperature > model.MaxTemperature {
		return in, model.Invalid("temperature", "must be between %g and %g", model.MinTemperature, model.MaxTemperature)
	}
	in = in.Normalize()

	if !e.caches.AgentTypes.Loaded() {
		return in, model.Invalid("agent_type", "agent types are not loaded")
	}
	if err := model.Require("agent_type", in.AgentType); err != nil {
		return in, err
	}
	if !e.caches.AgentTypes.Has(in.AgentType) {
		return in, model.Invalid("agent_type", "unknown agent type %q", in.AgentType)
	}
	if in.ProviderID <= 0 {
		return in, model.Invalid("provider_id", "is required")
	}
	if !e.caches.Providers.Has(in.ProviderID) {
		return in, model.Invalid("provider_id", "provider %d not found", in.ProviderID)
	}
	if err := model.Require("model_name", in.ModelName); err != nil {
		return in, err
	}
	return in, nil
}

// SaveAgentConfig creates the config when form.ID is 0 and updates it
// otherwise.
func (e *Editor) SaveAgentConfig(form AgentForm) (tea.Cmd, error) {
	in, err := e.validateAgent(form)
	if err != nil {
		return nil, err
	}

	gw, id := e.gw, form.ID
	if id == 0 {
		return e.run(func(ctx context.Context) tea.Msg {
			a, err := gw.CreateAgentConfig(ctx, in)
			msg := MutatedMsg{Entity: EntityAgentConfig, Action: ActionCreated, Err: err}
			if a != nil {
				msg.ID = a.ID
			}
			return msg
		}), nil
	}
	return e.run(func(ctx context.Context) tea.Msg {
		_, err := gw.UpdateAgentConfig(ctx, id, in)
		return MutatedMsg{Entity: EntityAgentConfig, Action: ActionUpdated, ID: id, Err: err}
	}), nil
}

// RequestDeleteAgentConfig parks the deletion of an agent config until
// confirmed.
func (e *Editor) RequestDeleteAgentConfig(id int) error {
	a, ok := e.caches.AgentConfigs.Get(id)
	if !ok {
		return model.Invalid("id", "agent config %d not found", id)
	}
	gw := e.gw
	e.confirm.Request(fmt.Sprintf("Delete agent config %q?", a.AgentType), func() tea.Cmd {
		return e.run(func(ctx context.Context) tea.Msg {
			err := gw.DeleteAgentConfig(ctx, id)
			return MutatedMsg{Entity: EntityAgentConfig, Action: ActionDeleted, ID: id, Err: err}
		})
	})
	return nil
}

// ApplyModelToAll points every agent config at one provider and model. The
// backend's message is shown as is.
func (e *Editor) ApplyModelToAll(providerID int, modelName string) (tea.Cmd, error) {
	modelName = strings.TrimSpace(modelName)
	if providerID <= 0 {
		return nil, model.Invalid("provider_id", "is required")
	}
	if modelName == "" {
		return nil, model.Invalid("model_name", "is required")
	}
	in := model.ApplyModelInput{ProviderID: providerID, ModelName: modelName}
	gw := e.gw
	return e.run(func(ctx context.Context) tea.Msg {
		res, err := gw.ApplyModelToAll(ctx, in)
		msg := MutatedMsg{Entity: EntityAgentConfig, Action: ActionApplied, Err: err}
		if res != nil {
			msg.Text = res.Message
		}
		return msg
	}), nil
}
