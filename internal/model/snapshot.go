// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Snapshot is the shape of a configuration backup. It is only used to
// validate a file before restoring; backup bytes are never re-encoded.
type Snapshot struct {
	Providers    []SnapshotProvider    `json:"providers"`
	AgentConfigs []SnapshotAgentConfig `json:"agent_configs"`
}

// SnapshotProvider is a provider entry of a snapshot.
type SnapshotProvider struct {
	Name   string `json:"name"`
	APIURL string `json:"api_url"`
	APIKey string `json:"api_key"`
}

// SnapshotAgentConfig is an agent config entry of a snapshot.
type SnapshotAgentConfig struct {
	AgentType    string `json:"agent_type"`
	ProviderID   int    `json:"provider_id"`
	ModelName    string `json:"model_name"`
	SystemPrompt string `json:"system_prompt"`
}

// ErrInvalidSnapshot is returned when restore data is not a snapshot.
var ErrInvalidSnapshot = errors.New("invalid snapshot")

// ParseSnapshot checks that data is a JSON object with both snapshot keys.
func ParseSnapshot(data []byte) (*Snapshot, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	for _, key := range []string{"providers", "agent_configs"} {
		if _, ok := raw[key]; !ok {
			return nil, fmt.Errorf("%w: missing %q", ErrInvalidSnapshot, key)
		}
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	return &snap, nil
}
