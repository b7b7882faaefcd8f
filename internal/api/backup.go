// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/jeranaias/projectmate/internal/model"
)

// =============================================================================
// BACKUP / RESTORE
// =============================================================================

// Backup returns the configuration snapshot exactly as the backend sent it.
func (c *Client) Backup(ctx context.Context) ([]byte, error) {
	return c.do(ctx, http.MethodGet, "/api/backup", nil)
}

// Restore submits snapshot bytes unmodified. The caller validates shape.
func (c *Client) Restore(ctx context.Context, snapshot []byte) (*model.StatusMessage, error) {
	data, err := c.do(ctx, http.MethodPost, "/api/restore", snapshot)
	if err != nil {
		return nil, err
	}
	var res model.StatusMessage
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}
	return &res, nil
}
