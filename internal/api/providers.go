// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jeranaias/projectmate/internal/model"
)

// =============================================================================
// AI PROVIDERS
// =============================================================================

func providerPath(id int) string {
	return fmt.Sprintf("/api/ai_providers/%d", id)
}

// ListProviders returns every provider. Keys are redacted to HasAPIKey.
func (c *Client) ListProviders(ctx context.Context) ([]model.Provider, error) {
	var providers []model.Provider
	if err := c.doJSON(ctx, http.MethodGet, "/api/ai_providers", nil, &providers); err != nil {
		return nil, err
	}
	if providers == nil {
		providers = []model.Provider{}
	}
	return providers, nil
}

// GetProvider fetches the editable view of a provider, key included.
func (c *Client) GetProvider(ctx context.Context, id int) (*model.ProviderDetail, error) {
	var p model.ProviderDetail
	if err := c.doJSON(ctx, http.MethodGet, providerPath(id), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateProvider creates a provider.
func (c *Client) CreateProvider(ctx context.Context, in model.ProviderInput) (*model.Provider, error) {
	var p model.Provider
	if err := c.doJSON(ctx, http.MethodPost, "/api/ai_providers", in, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProvider replaces a provider's fields.
func (c *Client) UpdateProvider(ctx context.Context, id int, in model.ProviderInput) (*model.Provider, error) {
	var p model.Provider
	if err := c.doJSON(ctx, http.MethodPut, providerPath(id), in, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// DeleteProvider removes a provider.
func (c *Client) DeleteProvider(ctx context.Context, id int) error {
	return c.doJSON(ctx, http.MethodDelete, providerPath(id), nil, nil)
}
