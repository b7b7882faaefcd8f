// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package docsync keeps the document tabs of the active project in step
// with the backend.
//
// Activating a project issues one independent fetch per document kind. Each
// result fills only its own tab, so one failing kind never blanks another.
// Every fetch carries the session ticket and a per-tab sequence number; a
// result is applied only if both are still the latest. A journal pushed from
// a chat reply bumps the journal sequence, so an older journal fetch still
// in flight cannot overwrite it.
package docsync
