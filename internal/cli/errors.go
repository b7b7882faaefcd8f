// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/jeranaias/projectmate/internal/api"
	"github.com/jeranaias/projectmate/internal/config"
	"github.com/jeranaias/projectmate/internal/model"
)

// =============================================================================
// EXIT CODES
// =============================================================================

const (
	// ExitSuccess indicates successful execution
	ExitSuccess = 0
	// ExitGeneralError indicates a general/unknown error
	ExitGeneralError = 1
	// ExitUsageError indicates invalid arguments or input that failed validation
	ExitUsageError = 2
	// ExitConfigError indicates a configuration file or settings error
	ExitConfigError = 3
	// ExitBackendError indicates the backend rejected the request
	ExitBackendError = 4
	// ExitNetworkError indicates the backend could not be reached
	ExitNetworkError = 5
	// ExitCancelled indicates the user declined a confirmation
	ExitCancelled = 6
	// ExitNotFoundError indicates a resource was not found
	ExitNotFoundError = 7
	// ExitTimeoutError indicates an operation timed out
	ExitTimeoutError = 8
)

// ErrCancelled is returned when the user declines a confirmation.
var ErrCancelled = errors.New("cancelled")

// =============================================================================
// ERROR TYPES
// =============================================================================

// CommandError represents a CLI command error with context.
type CommandError struct {
	Command string // Command that failed (e.g., "providers")
	Action  string // Action being performed (e.g., "delete")
	Err     error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s %s failed: %v", e.Command, e.Action, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// ValidationError represents a bad argument or flag.
type ValidationError struct {
	Field   string // Argument or flag that failed validation
	Value   string // Value that was provided
	Reason  string // Why validation failed
	Example string // Example of valid value (optional)
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	if e.Value != "" {
		msg += fmt.Sprintf(" (got: %s)", e.Value)
	}
	if e.Example != "" {
		msg += fmt.Sprintf("\nExample: %s", e.Example)
	}
	return msg
}

// NewCommandError wraps err with the command and action that failed.
func NewCommandError(command, action string, err error) error {
	if err == nil {
		return nil
	}
	return &CommandError{Command: command, Action: action, Err: err}
}

// NewValidationError creates a new validation error.
func NewValidationError(field, value, reason string) error {
	return &ValidationError{Field: field, Value: value, Reason: reason}
}

// NewValidationErrorWithExample creates a validation error with an example.
func NewValidationErrorWithExample(field, value, reason, example string) error {
	return &ValidationError{Field: field, Value: value, Reason: reason, Example: example}
}

// =============================================================================
// EXIT CODE MAPPING
// =============================================================================

// GetExitCode determines the appropriate exit code for an error.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var cliValidation *ValidationError
	var modelValidation *model.ValidationError
	var configErrs config.ValidateErrors
	switch {
	case errors.Is(err, ErrCancelled):
		return ExitCancelled
	case errors.As(err, &cliValidation), errors.As(err, &modelValidation):
		return ExitUsageError
	case errors.Is(err, model.ErrInvalidSnapshot), errors.Is(err, ErrConfirmationRequired):
		return ExitUsageError
	case errors.As(err, &configErrs):
		return ExitConfigError
	case api.IsNotFound(err):
		return ExitNotFoundError
	case api.IsTimeout(err):
		return ExitTimeoutError
	case api.IsConnection(err):
		return ExitNetworkError
	}

	var clientErr *api.ClientError
	if errors.As(err, &clientErr) {
		return ExitBackendError
	}
	return ExitGeneralError
}

// =============================================================================
// ERROR DISPLAY
// =============================================================================

// DisplayError writes err to w, as a JSON error response in JSON mode.
func DisplayError(w io.Writer, command string, err error, jsonMode bool) {
	if err == nil {
		return
	}
	if jsonMode {
		NewJSONErrorResponse(command, err).Print(w)
		return
	}
	fmt.Fprintf(w, "%s %s\n", ErrorStyle.Render("[ERROR]"), err.Error())
}

// errorDetails describes err for JSON output.
func errorDetails(err error) map[string]any {
	out := map[string]any{"error_type": "generic_error"}

	var cliValidation *ValidationError
	var modelValidation *model.ValidationError
	var clientErr *api.ClientError
	switch {
	case errors.As(err, &cliValidation):
		out["error_type"] = "validation_error"
		out["field"] = cliValidation.Field
		out["reason"] = cliValidation.Reason
	case errors.As(err, &modelValidation):
		out["error_type"] = "validation_error"
		out["field"] = modelValidation.Field
		out["reason"] = modelValidation.Message
	case errors.As(err, &clientErr):
		out["error_type"] = clientErr.Type.String()
		if clientErr.Status != 0 {
			out["status"] = clientErr.Status
		}
	}
	return out
}

// MarshalError renders err as the JSON object used for --json failures.
func MarshalError(err error) json.RawMessage {
	data, _ := json.Marshal(errorDetails(err))
	return data
}
