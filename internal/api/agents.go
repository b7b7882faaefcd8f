// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/jeranaias/projectmate/internal/model"
)

// =============================================================================
// AGENT CONFIGS
// =============================================================================

func agentConfigPath(id int) string {
	return fmt.Sprintf("/api/ai_agent_configs/%d", id)
}

// ListAgentConfigs returns every agent config.
func (c *Client) ListAgentConfigs(ctx context.Context) ([]model.AgentConfig, error) {
	var configs []model.AgentConfig
	if err := c.doJSON(ctx, http.MethodGet, "/api/ai_agent_configs", nil, &configs); err != nil {
		return nil, err
	}
	if configs == nil {
		configs = []model.AgentConfig{}
	}
	return configs, nil
}

// GetAgentConfig fetches one agent config.
func (c *Client) GetAgentConfig(ctx context.Context, id int) (*model.AgentConfig, error) {
	var cfg model.AgentConfig
	if err := c.doJSON(ctx, http.MethodGet, agentConfigPath(id), nil, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// CreateAgentConfig creates an agent config.
func (c *Client) CreateAgentConfig(ctx context.Context, in model.AgentConfigInput) (*model.AgentConfig, error) {
	var cfg model.AgentConfig
	if err := c.doJSON(ctx, http.MethodPost, "/api/ai_agent_configs", in, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// UpdateAgentConfig replaces an agent config.
func (c *Client) UpdateAgentConfig(ctx context.Context, id int, in model.AgentConfigInput) (*model.AgentConfig, error) {
	var cfg model.AgentConfig
	if err := c.doJSON(ctx, http.MethodPut, agentConfigPath(id), in, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// DeleteAgentConfig removes an agent config.
func (c *Client) DeleteAgentConfig(ctx context.Context, id int) error {
	return c.doJSON(ctx, http.MethodDelete, agentConfigPath(id), nil, nil)
}

// ApplyModelToAll assigns one provider and model to every agent config.
func (c *Client) ApplyModelToAll(ctx context.Context, in model.ApplyModelInput) (*model.StatusMessage, error) {
	var res model.StatusMessage
	if err := c.doJSON(ctx, http.MethodPost, "/api/ai_agent_configs/apply_to_all", in, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// =============================================================================
// AGENT TYPES
// =============================================================================

// AgentTypes returns the server's closed enumeration of agent types.
func (c *Client) AgentTypes(ctx context.Context) ([]string, error) {
	var types []string
	if err := c.doJSON(ctx, http.MethodGet, "/api/agent_types", nil, &types); err != nil {
		return nil, err
	}
	if types == nil {
		types = []string{}
	}
	return types, nil
}

// DefaultSystemPrompt returns the built-in prompt for an agent type.
func (c *Client) DefaultSystemPrompt(ctx context.Context, agentType string) (string, error) {
	var res model.SystemPrompt
	path := "/api/agent_types/" + url.PathEscape(agentType) + "/system_prompt"
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &res); err != nil {
		return "", err
	}
	return res.SystemPrompt, nil
}
