// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme modes accepted by NewTheme.
const (
	ModeAuto  = "auto"
	ModeDark  = "dark"
	ModeLight = "light"
)

// =============================================================================
// THEME
// =============================================================================

// Theme holds every style of the TUI for one background mode.
type Theme struct {
	// Mode is the requested mode; IsDark is what it resolved to.
	Mode   string
	IsDark bool

	// ColorProfile is the color depth of the output.
	ColorProfile termenv.Profile

	renderer *lipgloss.Renderer

	// Chrome
	App            lipgloss.Style
	Header         lipgloss.Style
	HeaderTitle    lipgloss.Style
	HeaderSubtitle lipgloss.Style
	Help           lipgloss.Style

	// View switcher and document tabs
	NavItem       lipgloss.Style
	NavItemActive lipgloss.Style
	Tab           lipgloss.Style
	TabActive     lipgloss.Style
	TabFailed     lipgloss.Style
	DocBody       lipgloss.Style

	// Lists
	ListItem         lipgloss.Style
	ListItemSelected lipgloss.Style
	ListMeta         lipgloss.Style
	SectionTitle     lipgloss.Style

	// Chat
	UserLabel      lipgloss.Style
	AssistantLabel lipgloss.Style
	MessageText    lipgloss.Style
	PendingText    lipgloss.Style
	FailedText     lipgloss.Style

	// Input
	InputContainer   lipgloss.Style
	InputPrompt      lipgloss.Style
	InputPlaceholder lipgloss.Style
	FormLabel        lipgloss.Style
	FormLabelFocused lipgloss.Style

	// Status line and overlays
	StatusBar   lipgloss.Style
	StatusInfo  lipgloss.Style
	StatusError lipgloss.Style
	ConfirmBox  lipgloss.Style

	SuccessStyle lipgloss.Style
	ErrorStyle   lipgloss.Style
	WarningStyle lipgloss.Style
	MutedStyle   lipgloss.Style
}

// NewTheme creates a theme for stdout. Unknown modes behave like "auto".
func NewTheme(mode string) *Theme {
	return NewThemeFor(os.Stdout, mode)
}

// NewThemeFor creates a theme rendering to w.
func NewThemeFor(w io.Writer, mode string) *Theme {
	mode = strings.ToLower(strings.TrimSpace(mode))
	r := lipgloss.NewRenderer(w)

	var isDark bool
	switch mode {
	case ModeDark:
		isDark = true
	case ModeLight:
		isDark = false
	default:
		mode = ModeAuto
		isDark = r.HasDarkBackground()
	}
	r.SetHasDarkBackground(isDark)

	t := &Theme{
		Mode:         mode,
		IsDark:       isDark,
		ColorProfile: r.ColorProfile(),
		renderer:     r,
	}
	t.initStyles()
	return t
}

// GlamourStyle names the glamour standard style matching the background.
func (t *Theme) GlamourStyle() string {
	if t.ColorProfile == termenv.Ascii {
		return "notty"
	}
	if t.IsDark {
		return "dark"
	}
	return "light"
}

func (t *Theme) style() lipgloss.Style {
	return t.renderer.NewStyle()
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	t.App = t.style()

	t.Header = t.style().
		Background(SurfaceDim).
		Padding(0, 1)

	t.HeaderTitle = t.style().
		Bold(true).
		Foreground(Cyan)

	t.HeaderSubtitle = t.style().
		Foreground(TextSecondary).
		Italic(true)

	t.Help = t.style().
		Foreground(TextMuted)

	// Navigation
	t.NavItem = t.style().
		Foreground(TextSecondary).
		Padding(0, 1)

	t.NavItemActive = t.style().
		Bold(true).
		Foreground(TextInverse).
		Background(Purple).
		Padding(0, 1)

	t.Tab = t.style().
		Foreground(TextSecondary).
		Padding(0, 1)

	t.TabActive = t.style().
		Bold(true).
		Foreground(Purple).
		Underline(true).
		Padding(0, 1)

	t.TabFailed = t.style().
		Foreground(Rose).
		Padding(0, 1)

	t.DocBody = t.style().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(Overlay)

	// Lists
	t.ListItem = t.style().
		Foreground(TextPrimary).
		PaddingLeft(2)

	t.ListItemSelected = t.style().
		Bold(true).
		Foreground(TextPrimary).
		Background(SelectionBg).
		PaddingLeft(2)

	t.ListMeta = t.style().
		Foreground(TextMuted)

	t.SectionTitle = t.style().
		Bold(true).
		Foreground(Purple).
		MarginTop(1)

	// Chat
	t.UserLabel = t.style().
		Bold(true).
		Foreground(Cyan)

	t.AssistantLabel = t.style().
		Bold(true).
		Foreground(Purple)

	t.MessageText = t.style().
		Foreground(TextPrimary).
		PaddingLeft(2)

	t.PendingText = t.style().
		Foreground(TextMuted).
		Italic(true).
		PaddingLeft(2)

	t.FailedText = t.style().
		Foreground(Rose).
		PaddingLeft(2)

	// Input
	t.InputContainer = t.style().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(Overlay)

	t.InputPrompt = t.style().
		Foreground(Cyan).
		Bold(true)

	t.InputPlaceholder = t.style().
		Foreground(TextMuted).
		Italic(true)

	t.FormLabel = t.style().
		Foreground(TextSecondary).
		Width(14)

	t.FormLabelFocused = t.style().
		Bold(true).
		Foreground(Cyan).
		Width(14)

	// Status line
	t.StatusBar = t.style().
		Background(SurfaceDim).
		Foreground(TextSecondary).
		Padding(0, 1)

	t.StatusInfo = t.style().
		Background(SurfaceDim).
		Foreground(Emerald)

	t.StatusError = t.style().
		Background(SurfaceDim).
		Foreground(Rose).
		Bold(true)

	t.ConfirmBox = t.style().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Amber).
		Foreground(TextPrimary).
		Padding(0, 2)

	t.SuccessStyle = t.style().Foreground(Emerald)
	t.ErrorStyle = t.style().Foreground(Rose).Bold(true)
	t.WarningStyle = t.style().Foreground(Amber)
	t.MutedStyle = t.style().Foreground(TextMuted)
}

// =============================================================================
// STATUS RENDERING
// =============================================================================

// RenderSuccess renders a success message with its marker.
func (t *Theme) RenderSuccess(message string) string {
	return t.SuccessStyle.Render(StatusIndicators.Success + " " + message)
}

// RenderError renders an error message with its marker.
func (t *Theme) RenderError(message string) string {
	return t.ErrorStyle.Render(StatusIndicators.Error + " " + message)
}

// RenderWarning renders a warning with its marker.
func (t *Theme) RenderWarning(message string) string {
	return t.WarningStyle.Render(StatusIndicators.Warning + " " + message)
}
