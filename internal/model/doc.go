// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the entities exchanged with the projectmate backend.
//
// Every entity here is owned by the backend. The client only ever holds
// disposable copies that are rebuilt wholesale on each reload.
//
// # Key Types
//
//   - Project: a named unit of work with its chat transcript and documents
//   - DocKind: the closed set of generated document kinds shown as tabs
//   - Message: one chat transcript entry, attributed to a speaker
//   - Provider / ProviderDetail: AI endpoint records (list view never carries a key)
//   - AgentConfig: per agent type model settings
//   - Snapshot: the backup/restore payload shape
//
// # Usage
//
//	kind, ok := model.ParseDocKind("master-lld")
//	if ok && kind.MultiComponent() {
//	    // decode []ComponentDoc
//	}
package model
