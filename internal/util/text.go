// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Truncate shortens s to at most maxWidth display columns, appending "..."
// when something was cut. Wide runes (CJK) count as two columns.
func Truncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth <= 3 {
		return runewidth.Truncate(s, maxWidth, "")
	}
	return runewidth.Truncate(s, maxWidth, "...")
}

// SingleLine collapses line breaks and runs of whitespace into single spaces.
func SingleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Preview is SingleLine followed by Truncate, for list rows.
func Preview(s string, maxWidth int) string {
	return Truncate(SingleLine(s), maxWidth)
}

// PadRight pads s with spaces to width display columns.
func PadRight(s string, width int) string {
	return runewidth.FillRight(s, width)
}

// Width returns the display width of s.
func Width(s string) int {
	return runewidth.StringWidth(s)
}
