// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package settings

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/projectmate/internal/model"
)

// ProviderForm is the provider being edited. ID 0 means a new provider.
type ProviderForm struct {
	ID     int
	Name   string
	APIURL string

	// APIKey left blank keeps the stored key on update.
	APIKey string
}

// ProviderFormMsg carries a provider loaded for editing.
type ProviderFormMsg struct {
	Form ProviderForm
	Err  error
}

// ProviderForm returns the provider form last loaded or cleared.
func (e *Editor) ProviderForm() ProviderForm {
	return e.providerForm
}

// NewProvider clears the provider form for a new entry.
func (e *Editor) NewProvider() {
	e.providerForm = ProviderForm{}
}

// EditProvider loads a provider, key included, into the form.
func (e *Editor) EditProvider(id int) tea.Cmd {
	gw := e.gw
	return e.run(func(ctx context.Context) tea.Msg {
		d, err := gw.GetProvider(ctx, id)
		if err != nil {
			return ProviderFormMsg{Err: err}
		}
		return ProviderFormMsg{Form: ProviderForm{ID: d.ID, Name: d.Name, APIURL: d.APIURL, APIKey: d.APIKey}}
	})
}

// SaveProvider creates the provider when form.ID is 0 and updates it
// otherwise. Name and API URL are required.
func (e *Editor) SaveProvider(form ProviderForm) (tea.Cmd, error) {
	in := model.ProviderInput{Name: form.Name, APIURL: form.APIURL}.Normalize()
	if err := model.Require("name", in.Name); err != nil {
		return nil, err
	}
	if err := model.Require("api_url", in.APIURL); err != nil {
		return nil, err
	}
	if key := strings.TrimSpace(form.APIKey); key != "" {
		in.APIKey = &key
	}

	gw, id := e.gw, form.ID
	if id == 0 {
		return e.run(func(ctx context.Context) tea.Msg {
			p, err := gw.CreateProvider(ctx, in)
			msg := MutatedMsg{Entity: EntityProvider, Action: ActionCreated, Err: err}
			if p != nil {
				msg.ID = p.ID
			}
			return msg
		}), nil
	}
	return e.run(func(ctx context.Context) tea.Msg {
		_, err := gw.UpdateProvider(ctx, id, in)
		return MutatedMsg{Entity: EntityProvider, Action: ActionUpdated, ID: id, Err: err}
	}), nil
}

// RequestDeleteProvider parks the deletion of a provider until confirmed.
func (e *Editor) RequestDeleteProvider(id int) error {
	p, ok := e.caches.Providers.Get(id)
	if !ok {
		return model.Invalid("id", "provider %d not found", id)
	}
	gw := e.gw
	e.confirm.Request(fmt.Sprintf("Delete provider %q?", p.Name), func() tea.Cmd {
		return e.run(func(ctx context.Context) tea.Msg {
			err := gw.DeleteProvider(ctx, id)
			return MutatedMsg{Entity: EntityProvider, Action: ActionDeleted, ID: id, Err: err}
		})
	})
	return nil
}
