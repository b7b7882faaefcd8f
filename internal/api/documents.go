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
// GENERATED DOCUMENTS
// =============================================================================

// GetDocument fetches one document kind of a project. Multi-component kinds
// decode into Components; the rest into Body.
func (c *Client) GetDocument(ctx context.Context, projectID int, kind model.DocKind) (model.DocContent, error) {
	doc := model.DocContent{Kind: kind}
	if kind.Index() < 0 {
		return doc, fmt.Errorf("unknown document kind %q", kind)
	}
	path := fmt.Sprintf("%s/%s", projectPath(projectID), kind)

	if kind.MultiComponent() {
		var comps []model.ComponentDoc
		if err := c.doJSON(ctx, http.MethodGet, path, nil, &comps); err != nil {
			return doc, err
		}
		doc.Components = comps
		return doc, nil
	}

	var single model.SingleDoc
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &single); err != nil {
		return doc, err
	}
	doc.Body = single.Content
	return doc, nil
}

// SaveDocument stores content for an editable kind. ComponentName is
// required by the backend for multi-component kinds.
func (c *Client) SaveDocument(ctx context.Context, projectID int, kind model.DocKind, in model.SaveDocInput) (*model.StatusMessage, error) {
	if !kind.Editable() {
		return nil, fmt.Errorf("document kind %q is not editable", kind)
	}
	var res model.StatusMessage
	path := fmt.Sprintf("%s/%s", projectPath(projectID), kind)
	if err := c.doJSON(ctx, http.MethodPost, path, in, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// =============================================================================
// USER DOCUMENTS
// =============================================================================

// ListDocuments returns the user-authored documents of a project.
func (c *Client) ListDocuments(ctx context.Context, projectID int) ([]model.Document, error) {
	var docs []model.Document
	if err := c.doJSON(ctx, http.MethodGet, projectPath(projectID)+"/documents", nil, &docs); err != nil {
		return nil, err
	}
	if docs == nil {
		docs = []model.Document{}
	}
	return docs, nil
}

// CreateDocument appends a user-authored document.
func (c *Client) CreateDocument(ctx context.Context, projectID int, in model.DocumentInput) (*model.Document, error) {
	var doc model.Document
	if err := c.doJSON(ctx, http.MethodPost, projectPath(projectID)+"/documents", in, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}
