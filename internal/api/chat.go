// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"net/http"

	"github.com/jeranaias/projectmate/internal/model"
)

// =============================================================================
// CHAT
// =============================================================================

// Chat sends one chat turn. A reply carrying an "error" field is returned as
// an ErrTypeBackend ClientError.
func (c *Client) Chat(ctx context.Context, projectID int, message string) (*model.ChatReply, error) {
	var reply model.ChatReply
	req := model.ChatRequest{ProjectID: projectID, Message: message}
	if err := c.doJSON(ctx, http.MethodPost, "/api/chat", req, &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}

// ChatHistory returns the project transcript in backend order.
func (c *Client) ChatHistory(ctx context.Context, projectID int) ([]model.Message, error) {
	var history []model.Message
	path := projectPath(projectID) + "/" + c.config.HistoryPath
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &history); err != nil {
		return nil, err
	}
	if history == nil {
		history = []model.Message{}
	}
	return history, nil
}

// ClearChatHistory deletes the project transcript.
func (c *Client) ClearChatHistory(ctx context.Context, projectID int) (*model.StatusMessage, error) {
	var res model.StatusMessage
	if err := c.doJSON(ctx, http.MethodPost, projectPath(projectID)+"/clear_chat_history", nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
