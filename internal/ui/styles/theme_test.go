// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

func TestNewThemeForcedModes(t *testing.T) {
	dark := NewThemeFor(&bytes.Buffer{}, "dark")
	if !dark.IsDark || dark.Mode != ModeDark {
		t.Errorf("dark theme = %+v", dark.Mode)
	}

	light := NewThemeFor(&bytes.Buffer{}, " Light ")
	if light.IsDark || light.Mode != ModeLight {
		t.Errorf("light theme resolved to dark=%v mode=%q", light.IsDark, light.Mode)
	}
}

func TestNewThemeUnknownModeIsAuto(t *testing.T) {
	theme := NewThemeFor(&bytes.Buffer{}, "neon")
	if theme.Mode != ModeAuto {
		t.Errorf("Mode = %q, want %q", theme.Mode, ModeAuto)
	}
}

func TestThemeStylesRender(t *testing.T) {
	theme := NewThemeFor(&bytes.Buffer{}, "dark")

	styles := []struct {
		name  string
		style lipgloss.Style
	}{
		{"Header", theme.Header},
		{"TabActive", theme.TabActive},
		{"ListItemSelected", theme.ListItemSelected},
		{"UserLabel", theme.UserLabel},
		{"StatusBar", theme.StatusBar},
		{"ConfirmBox", theme.ConfirmBox},
	}
	for _, s := range styles {
		if !strings.Contains(s.style.Render("test"), "test") {
			t.Errorf("%s style lost its content", s.name)
		}
	}
}

func TestGlamourStyle(t *testing.T) {
	// A buffer is not a terminal, so the profile is ASCII.
	theme := NewThemeFor(&bytes.Buffer{}, "dark")
	if theme.ColorProfile != termenv.Ascii {
		t.Skip("renderer detected colors on a buffer")
	}
	if got := theme.GlamourStyle(); got != "notty" {
		t.Errorf("GlamourStyle() = %q, want notty", got)
	}

	theme.ColorProfile = termenv.TrueColor
	if got := theme.GlamourStyle(); got != "dark" {
		t.Errorf("GlamourStyle() = %q, want dark", got)
	}
	theme.IsDark = false
	if got := theme.GlamourStyle(); got != "light" {
		t.Errorf("GlamourStyle() = %q, want light", got)
	}
}

func TestRenderMarkers(t *testing.T) {
	theme := NewThemeFor(&bytes.Buffer{}, "light")
	if got := theme.RenderError("boom"); !strings.Contains(got, "[X] boom") {
		t.Errorf("RenderError() = %q", got)
	}
	if got := theme.RenderSuccess("ok"); !strings.Contains(got, "[OK] ok") {
		t.Errorf("RenderSuccess() = %q", got)
	}
}
