// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the projectmate backend.
//
// Every backend operation is a typed request that yields either a typed
// result or a *ClientError. Backend-reported failures (a 2xx body carrying
// an "error" field) are surfaced the same way as transport failures so that
// callers handle both through one path. The client never retries.
//
// # Key Types
//
//   - Client: the gateway, safe for concurrent use
//   - ClientConfig: base URL, timeout and client-side rate limiting
//   - ClientError: categorized failure with the HTTP status when known
//
// # Usage
//
//	client := api.NewClientWithConfig(&api.ClientConfig{BaseURL: "http://127.0.0.1:5000"})
//	projects, err := client.ListProjects(ctx)
//	if api.IsNotFound(err) {
//	    // ...
//	}
package api
