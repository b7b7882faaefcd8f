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
// PROJECTS
// =============================================================================

func projectPath(id int) string {
	return fmt.Sprintf("/api/projects/%d", id)
}

// ListProjects returns every project in backend order.
func (c *Client) ListProjects(ctx context.Context) ([]model.Project, error) {
	var projects []model.Project
	if err := c.doJSON(ctx, http.MethodGet, "/api/projects", nil, &projects); err != nil {
		return nil, err
	}
	if projects == nil {
		projects = []model.Project{}
	}
	return projects, nil
}

// GetProject fetches a single project.
func (c *Client) GetProject(ctx context.Context, id int) (*model.Project, error) {
	var p model.Project
	if err := c.doJSON(ctx, http.MethodGet, projectPath(id), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateProject creates a project and returns the stored record.
func (c *Client) CreateProject(ctx context.Context, in model.ProjectInput) (*model.Project, error) {
	var p model.Project
	if err := c.doJSON(ctx, http.MethodPost, "/api/projects", in, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProject replaces the project's name and description.
func (c *Client) UpdateProject(ctx context.Context, id int, in model.ProjectInput) (*model.Project, error) {
	var p model.Project
	if err := c.doJSON(ctx, http.MethodPut, projectPath(id), in, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// DeleteProject removes a project and everything attached to it.
func (c *Client) DeleteProject(ctx context.Context, id int) error {
	return c.doJSON(ctx, http.MethodDelete, projectPath(id), nil, nil)
}

// RateProject records a 1-5 rating.
func (c *Client) RateProject(ctx context.Context, id, rating int) (*model.RatingResult, error) {
	var res model.RatingResult
	body := map[string]int{"rating": rating}
	if err := c.doJSON(ctx, http.MethodPost, projectPath(id)+"/rate", body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// LikeProject records a like from userID.
func (c *Client) LikeProject(ctx context.Context, id int, userID string) (*model.LikeResult, error) {
	var res model.LikeResult
	body := map[string]string{"user_id": userID}
	if err := c.doJSON(ctx, http.MethodPost, projectPath(id)+"/like", body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
