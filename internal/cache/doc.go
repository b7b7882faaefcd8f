// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cache holds the client's disposable copies of backend entities.
//
// A Store is never patched in place. Each reload replaces its whole content,
// so applying the same response twice leaves the same state. Reloads are
// numbered when issued and a response older than the one already applied
// is ignored.
//
// # Key Types
//
//   - Store: ordered, keyed entity list rebuilt on every reload
//   - Caches: the stores the orchestrator needs, plus the prompt LRU
//   - PromptCache: default system prompt per agent type
package cache
