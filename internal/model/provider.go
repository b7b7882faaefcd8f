// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "strings"

// Provider is an AI endpoint as it appears in list views.
// The secret is never part of this type; only its presence is.
type Provider struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	APIURL    string `json:"api_url"`
	HasAPIKey bool   `json:"has_api_key"`
}

// ProviderDetail is the single-item view used to pre-fill an edit form.
// It is the only type that carries an API key.
type ProviderDetail struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	APIURL string `json:"api_url"`
	APIKey string `json:"api_key,omitempty"`
}

// ProviderInput is the body for creating or updating a provider.
// A nil APIKey leaves the stored key unchanged.
type ProviderInput struct {
	Name   string  `json:"name"`
	APIURL string  `json:"api_url"`
	APIKey *string `json:"api_key,omitempty"`
}

// Normalize trims whitespace from name and URL.
func (p ProviderInput) Normalize() ProviderInput {
	p.Name = strings.TrimSpace(p.Name)
	p.APIURL = strings.TrimSpace(p.APIURL)
	return p
}
