// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package settings

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/projectmate/internal/model"
)

// CreateProject adds a project. The name is required.
func (e *Editor) CreateProject(name, description string) (tea.Cmd, error) {
	in := model.ProjectInput{Name: name, Description: description}.Normalize()
	if err := model.Require("name", in.Name); err != nil {
		return nil, err
	}
	gw := e.gw
	return e.run(func(ctx context.Context) tea.Msg {
		p, err := gw.CreateProject(ctx, in)
		msg := MutatedMsg{Entity: EntityProject, Action: ActionCreated, Err: err}
		if p != nil {
			msg.ID = p.ID
		}
		return msg
	}), nil
}

// UpdateProject renames or re-describes a project.
func (e *Editor) UpdateProject(id int, name, description string) (tea.Cmd, error) {
	if id <= 0 {
		return nil, model.Invalid("id", "must be positive")
	}
	in := model.ProjectInput{Name: name, Description: description}.Normalize()
	if err := model.Require("name", in.Name); err != nil {
		return nil, err
	}
	gw := e.gw
	return e.run(func(ctx context.Context) tea.Msg {
		_, err := gw.UpdateProject(ctx, id, in)
		return MutatedMsg{Entity: EntityProject, Action: ActionUpdated, ID: id, Err: err}
	}), nil
}

// RequestDeleteProject parks the deletion of a project until confirmed.
func (e *Editor) RequestDeleteProject(id int) error {
	p, ok := e.caches.Projects.Get(id)
	if !ok {
		return model.Invalid("id", "project %d not found", id)
	}
	gw := e.gw
	e.confirm.Request(fmt.Sprintf("Delete project %q and all its documents?", p.Name), func() tea.Cmd {
		return e.run(func(ctx context.Context) tea.Msg {
			err := gw.DeleteProject(ctx, id)
			return MutatedMsg{Entity: EntityProject, Action: ActionDeleted, ID: id, Err: err}
		})
	})
	return nil
}

// RateProject records a rating between MinRating and MaxRating.
func (e *Editor) RateProject(id, rating int) (tea.Cmd, error) {
	if rating < model.MinRating || rating > model.MaxRating {
		return nil, model.Invalid("rating", "must be between %d and %d", model.MinRating, model.MaxRating)
	}
	gw := e.gw
	return e.run(func(ctx context.Context) tea.Msg {
		res, err := gw.RateProject(ctx, id, rating)
		msg := MutatedMsg{Entity: EntityProject, Action: ActionRated, ID: id, Err: err}
		if res != nil {
			msg.Text = fmt.Sprintf("%s (average %.1f)", res.Message, res.NewAverageRating)
		}
		return msg
	}), nil
}

// LikeProject toggles this client's like on a project.
func (e *Editor) LikeProject(id int) tea.Cmd {
	gw, userID := e.gw, e.cfg.UserID
	return e.run(func(ctx context.Context) tea.Msg {
		res, err := gw.LikeProject(ctx, id, userID)
		msg := MutatedMsg{Entity: EntityProject, Action: ActionLiked, ID: id, Err: err}
		if res != nil {
			msg.Text = fmt.Sprintf("%s (%d likes)", res.Message, res.LikesCount)
		}
		return msg
	})
}
