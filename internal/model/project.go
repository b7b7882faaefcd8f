// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "strings"

// Project is a named unit of work owned by the backend.
type Project struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`

	// Read-only extras maintained by the backend.
	MainFeatures  []string `json:"main_features,omitempty"`
	AIAgents      []string `json:"ai_agents,omitempty"`
	AverageRating float64  `json:"average_rating,omitempty"`
	LikesCount    int      `json:"likes_count,omitempty"`
}

// ProjectInput is the body for creating or updating a project.
type ProjectInput struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Normalize trims surrounding whitespace from every field.
func (p ProjectInput) Normalize() ProjectInput {
	return ProjectInput{
		Name:        strings.TrimSpace(p.Name),
		Description: strings.TrimSpace(p.Description),
	}
}

// RatingResult is returned after rating a project.
type RatingResult struct {
	Message          string  `json:"message"`
	NewAverageRating float64 `json:"new_average_rating"`
}

// LikeResult is returned after liking a project.
type LikeResult struct {
	Message    string `json:"message"`
	LikesCount int    `json:"likes_count"`
}

// MinRating and MaxRating bound a project rating.
const (
	MinRating = 1
	MaxRating = 5
)
