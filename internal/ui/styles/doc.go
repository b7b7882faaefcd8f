// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the projectmate TUI.

# Colors (colors.go)

Every color is a Lip Gloss AdaptiveColor, so one palette serves dark and
light terminals:

	Purple  - Primary accent, assistant messages, selected tab
	Cyan    - Brand color, user messages, prompts
	Emerald - Success notices, loaded documents
	Amber   - Warnings, confirmation prompts
	Rose    - Errors, failed documents

# Theme (theme.go)

A Theme resolves the background mode once and builds every style the views
use:

	theme := styles.NewTheme("auto")
	header := theme.Header.Render("projectmate")

The mode is "dark", "light" or "auto". "auto" asks the terminal. Switching
mode at runtime means building a new Theme.
*/
package styles
