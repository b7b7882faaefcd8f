// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// MaxResponseSize caps how much of a response body is read.
const MaxResponseSize = 32 * 1024 * 1024

// History endpoint variants. Some backends expose the transcript under
// /conversations instead of /chat_history.
const (
	HistoryChat          = "chat_history"
	HistoryConversations = "conversations"
)

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// ClientConfig holds configuration options for the backend client.
type ClientConfig struct {
	// BaseURL is the backend root (default: http://127.0.0.1:5000)
	BaseURL string

	// Timeout per request (default: 60s). Chat turns wait on an LLM.
	Timeout time.Duration

	// RatePerSec limits outgoing requests; <= 0 disables limiting.
	RatePerSec float64

	// Burst is the limiter bucket size (default: 10)
	Burst int

	// HistoryPath selects the chat history endpoint (default: chat_history)
	HistoryPath string

	// UserAgent is sent with every request.
	UserAgent string

	// Logger receives one debug entry per request (default: no-op)
	Logger *zap.Logger

	// HTTPClient overrides the transport, mostly for tests.
	HTTPClient *http.Client
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL:     "http://127.0.0.1:5000",
		Timeout:     60 * time.Second,
		RatePerSec:  20,
		Burst:       10,
		HistoryPath: HistoryChat,
		UserAgent:   "projectmate",
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client handles communication with the projectmate backend.
//
// The Client is safe for concurrent use.
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zap.Logger
}

// NewClient creates a new client with default configuration.
func NewClient() *Client {
	return NewClientWithConfig(DefaultConfig())
}

// NewClientWithConfig creates a new client with custom configuration.
func NewClientWithConfig(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultConfig()
	}
	defaults := DefaultConfig()

	// Fill in defaults for any zero values
	if config.BaseURL == "" {
		config.BaseURL = defaults.BaseURL
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")
	if config.Timeout == 0 {
		config.Timeout = defaults.Timeout
	}
	if config.Burst <= 0 {
		config.Burst = defaults.Burst
	}
	if config.HistoryPath == "" {
		config.HistoryPath = defaults.HistoryPath
	}
	if config.UserAgent == "" {
		config.UserAgent = defaults.UserAgent
	}

	limit := rate.Inf
	if config.RatePerSec > 0 {
		limit = rate.Limit(config.RatePerSec)
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.Timeout}
	}

	return &Client{
		config:     config,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(limit, config.Burst),
		logger:     logger.Named("api"),
	}
}

// BaseURL returns the backend root this client talks to.
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// =============================================================================
// REQUEST PLUMBING
// =============================================================================

// doJSON sends body (if non-nil) as JSON and decodes the response into out
// (if non-nil).
func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to marshal request", Cause: err}
		}
	}

	data, err := c.do(ctx, method, path, payload)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}
	return nil
}

// do performs one request and returns the raw 2xx body.
func (c *Client) do(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, mapContextError(ctx, err)
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, reader)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("X-Request-ID", requestID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.String("request_id", requestID),
			zap.Error(err))
		return nil, mapTransportError(ctx, err)
	}
	defer drainAndClose(resp.Body)

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
	c.logger.Debug("request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
		zap.String("request_id", requestID))
	if err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Status: resp.StatusCode, Message: "failed to read response", Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, statusError(resp.StatusCode, data)
	}
	if msg, ok := backendError(data); ok {
		return nil, &ClientError{Type: ErrTypeBackend, Status: resp.StatusCode, Message: msg}
	}
	return data, nil
}

// errorBody is the failure shape the backend uses.
type errorBody struct {
	Error   *string `json:"error"`
	Message string  `json:"message"`
}

// backendError extracts an "error" field from a 2xx object body.
func backendError(data []byte) (string, bool) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return "", false
	}
	var body errorBody
	if err := json.Unmarshal(trimmed, &body); err != nil || body.Error == nil {
		return "", false
	}
	if *body.Error == "" {
		return "", false
	}
	return *body.Error, true
}

func statusError(status int, data []byte) error {
	msg := http.StatusText(status)
	var body errorBody
	if json.Unmarshal(data, &body) == nil {
		switch {
		case body.Error != nil && *body.Error != "":
			msg = *body.Error
		case body.Message != "":
			msg = body.Message
		}
	}

	typ := ErrTypeHTTPStatus
	if status == http.StatusNotFound {
		typ = ErrTypeNotFound
	}
	return &ClientError{Type: typ, Status: status, Message: msg}
}

func mapContextError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return &ClientError{Type: ErrTypeTimeout, Message: "request timed out", Cause: err}
	}
	return &ClientError{Type: ErrTypeConnection, Message: "request cancelled", Cause: err}
}

func mapTransportError(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return mapContextError(ctx, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &ClientError{Type: ErrTypeTimeout, Message: "request timed out", Cause: err}
	}
	return &ClientError{Type: ErrTypeConnection, Message: "backend unreachable", Cause: err}
}

// Helper to drain response body
func drainAndClose(r io.ReadCloser) {
	io.Copy(io.Discard, r)
	r.Close()
}
