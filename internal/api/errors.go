// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"errors"
	"fmt"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ClientError represents a failed backend operation.
type ClientError struct {
	Type    ErrorType
	Status  int
	Message string
	Cause   error
}

func (e *ClientError) Error() string {
	msg := e.Message
	if e.Status != 0 && e.Type != ErrTypeBackend {
		msg = fmt.Sprintf("HTTP %d: %s", e.Status, msg)
	}
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	return msg
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// Is matches sentinel errors by type.
func (e *ClientError) Is(target error) bool {
	var t *ClientError
	if !errors.As(target, &t) {
		return false
	}
	return t.Type == e.Type && t.Status == 0 && t.Cause == nil
}

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeConnection
	ErrTypeTimeout
	ErrTypeHTTPStatus
	ErrTypeNotFound
	ErrTypeBackend
	ErrTypeInvalidResponse
)

// String returns a short name for the error type.
func (t ErrorType) String() string {
	switch t {
	case ErrTypeConnection:
		return "connection"
	case ErrTypeTimeout:
		return "timeout"
	case ErrTypeHTTPStatus:
		return "http_status"
	case ErrTypeNotFound:
		return "not_found"
	case ErrTypeBackend:
		return "backend"
	case ErrTypeInvalidResponse:
		return "invalid_response"
	default:
		return "unknown"
	}
}

// Sentinel errors for easy checking.
var (
	ErrTimeout    = &ClientError{Type: ErrTypeTimeout, Message: "request timed out"}
	ErrNotFound   = &ClientError{Type: ErrTypeNotFound, Message: "not found"}
	ErrConnection = &ClientError{Type: ErrTypeConnection, Message: "backend unreachable"}
)

func typeOf(err error) ErrorType {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type
	}
	return ErrTypeUnknown
}

// IsNotFound checks if an error is a 404 from the backend.
func IsNotFound(err error) bool {
	return typeOf(err) == ErrTypeNotFound
}

// IsTimeout checks if an error is a timeout error.
func IsTimeout(err error) bool {
	return typeOf(err) == ErrTypeTimeout
}

// IsBackend checks if the backend reported a logical failure.
func IsBackend(err error) bool {
	return typeOf(err) == ErrTypeBackend
}

// IsConnection checks if the backend could not be reached.
func IsConnection(err error) bool {
	return typeOf(err) == ErrTypeConnection
}
