// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package settings edits the global configuration of the assistant
// (providers, agent configs, backup and restore) and the project list.
//
// Every mutation is followed by a full reload of the affected list. Reloads
// are numbered so a slow response never overwrites a newer one. Deletions
// are parked behind a confirmation and nothing is sent until the user
// confirms.
package settings
