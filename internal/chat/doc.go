// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat owns the transcript of the active project.
//
// Sending shows the user's message immediately as a pending echo and issues
// one chat turn. Only one turn may be in flight; further sends are ignored
// until it completes. A reply appends the assistant message and pushes the
// regenerated journal to document sync. A failed turn leaves the echo marked
// failed and appends a single assistant message describing the error. Turns
// are never retried.
//
// History loads replace the transcript wholesale; the backend's list is
// authoritative.
package chat
