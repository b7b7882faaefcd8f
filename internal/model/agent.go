// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "strings"

// DefaultTemperature is applied to agent configs saved without one.
const DefaultTemperature = 0.95

// Temperature bounds accepted by the client.
const (
	MinTemperature = 0.0
	MaxTemperature = 2.0
)

// AgentConfig binds an agent type to a provider and model.
type AgentConfig struct {
	ID           int     `json:"id"`
	AgentType    string  `json:"agent_type"`
	ProviderID   int     `json:"provider_id"`
	ModelName    string  `json:"model_name"`
	SystemPrompt string  `json:"system_prompt"`
	Temperature  float64 `json:"temperature"`
}

// AgentConfigInput is the body for creating or updating an agent config.
type AgentConfigInput struct {
	AgentType    string  `json:"agent_type"`
	ProviderID   int     `json:"provider_id"`
	ModelName    string  `json:"model_name"`
	SystemPrompt string  `json:"system_prompt"`
	Temperature  float64 `json:"temperature"`
}

// Normalize trims text fields. Temperature is kept as given; 0 is a valid
// setting.
func (a AgentConfigInput) Normalize() AgentConfigInput {
	a.AgentType = strings.TrimSpace(a.AgentType)
	a.ModelName = strings.TrimSpace(a.ModelName)
	return a
}

// TemperatureOrDefault returns *t, or DefaultTemperature when t is nil.
func TemperatureOrDefault(t *float64) float64 {
	if t == nil {
		return DefaultTemperature
	}
	return *t
}

// ApplyModelInput is the body of the bulk model assignment.
type ApplyModelInput struct {
	ProviderID int    `json:"provider_id"`
	ModelName  string `json:"model_name"`
}

// SystemPrompt is the default prompt payload for an agent type.
type SystemPrompt struct {
	SystemPrompt string `json:"system_prompt"`
}

// StatusMessage is the generic {message} acknowledgement.
type StatusMessage struct {
	Message string `json:"message"`
}
