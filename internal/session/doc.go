// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session tracks which view is shown and which project is active.
//
// The Manager is the only writer of the active project id and the active
// view. Every transition bumps a generation number. Requests capture a
// Ticket when issued, and their responses are applied only while that
// ticket is still current, which is how late responses for a project the
// user already left get discarded.
//
// # Views
//
//   - ViewProjects: project list, no project active
//   - ViewProject: chat and documents of the active project
//   - ViewSettings: provider and agent configuration
//
// Exactly one view is visible at any time.
//
// # Usage
//
//	mgr := session.NewManager()
//	tr := mgr.SelectProject(42)
//	ticket := tr.Ticket
//	// ... later, when a response lands:
//	if !mgr.IsCurrent(ticket) {
//	    return // stale
//	}
package session
