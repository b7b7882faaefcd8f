// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// JSONResponse is the response format of every command in --json mode.
type JSONResponse struct {
	// Success indicates whether the command completed successfully
	Success bool `json:"success"`

	// Data contains the command-specific response data
	Data any `json:"data"`

	// Error contains the error message if Success is false, null otherwise
	Error *string `json:"error"`

	// Details describes the error for scripts (type, status, field)
	Details json.RawMessage `json:"details,omitempty"`

	// Notices are the messages the command would print to stderr
	Notices []string `json:"notices,omitempty"`

	// Timestamp is the RFC3339 time the response was generated
	Timestamp string `json:"timestamp"`

	// Command is the command that was executed
	Command string `json:"command,omitempty"`
}

// NewJSONResponse creates a new successful JSON response.
func NewJSONResponse(command string, data any) *JSONResponse {
	return &JSONResponse{
		Success:   true,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Command:   command,
	}
}

// NewJSONErrorResponse creates a new error JSON response.
func NewJSONErrorResponse(command string, err error) *JSONResponse {
	errStr := err.Error()
	return &JSONResponse{
		Success:   false,
		Error:     &errStr,
		Details:   MarshalError(err),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Command:   command,
	}
}

// Print writes the response to w, indented.
func (r *JSONResponse) Print(w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(r)
}

// String returns the JSON response as a string.
func (r *JSONResponse) String() string {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Sprintf(`{"success":false,"error":"failed to marshal response: %s","timestamp":"%s"}`,
			err.Error(), time.Now().UTC().Format(time.RFC3339))
	}
	return string(data)
}

// =============================================================================
// COMMAND-SPECIFIC DATA STRUCTURES
// =============================================================================

// VersionData represents the data returned by the version command.
type VersionData struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version,omitempty"`
}

// DocumentData is one document kind in docs show output.
type DocumentData struct {
	Kind       string            `json:"kind"`
	Label      string            `json:"label"`
	Content    string            `json:"content,omitempty"`
	Components []ComponentData   `json:"components,omitempty"`
	Error      string            `json:"error,omitempty"`
}

// ComponentData is one component of a multi-component document.
type ComponentData struct {
	Name    string `json:"component_name"`
	Content string `json:"content"`
}

// MutationData reports a create, update or delete.
type MutationData struct {
	Entity  string `json:"entity"`
	Action  string `json:"action"`
	ID      int    `json:"id,omitempty"`
	Message string `json:"message,omitempty"`
}

// BackupData reports a written backup.
type BackupData struct {
	Path string `json:"path"`
}
