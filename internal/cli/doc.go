// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the projectmate command line.
//
// Commands drive the same components as the TUI: every operation builds a
// tea.Cmd, runs it to completion with loop.Run, and feeds the resulting
// messages back through the components' Update methods. Notices they emit
// are printed to stderr, or folded into the response with --json.
//
// # Commands
//
//	projectmate                       start the TUI
//	projectmate projects list|show|create|update|delete|rate|like
//	projectmate chat send|history|clear|repl
//	projectmate docs show|list|add|save
//	projectmate providers list|show|save|delete
//	projectmate agents list|types|prompt|save|delete|apply-all
//	projectmate backup [--list]
//	projectmate restore <file>|--latest
//	projectmate version
//
// Destructive commands prompt for confirmation, or need --confirm when
// stdin is not a terminal or --json is set.
package cli
