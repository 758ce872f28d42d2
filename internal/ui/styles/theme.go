// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the localrag TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components for the application.
// It detects the terminal's color capability and adjusts accordingly.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// APPLICATION CONTAINER STYLES
	// ==========================================================================

	App       lipgloss.Style
	Container lipgloss.Style

	// ==========================================================================
	// HEADER STYLES
	// ==========================================================================

	Header         lipgloss.Style
	HeaderTitle    lipgloss.Style
	HeaderSubtitle lipgloss.Style
	HeaderBrand    lipgloss.Style

	// ==========================================================================
	// TURN BUBBLE STYLES
	// ==========================================================================

	UserBubble      lipgloss.Style
	AssistantBubble lipgloss.Style
	RoleLabel       lipgloss.Style
	Timestamp       lipgloss.Style

	// ==========================================================================
	// INPUT AREA STYLES
	// ==========================================================================

	InputContainer   lipgloss.Style
	InputPrompt      lipgloss.Style
	InputText        lipgloss.Style
	InputPlaceholder lipgloss.Style
	InputDisabled    lipgloss.Style
	MentionText      lipgloss.Style

	// ==========================================================================
	// STATUS BAR STYLES
	// ==========================================================================

	StatusBar       lipgloss.Style
	StatusServer    lipgloss.Style
	StatusModel     lipgloss.Style
	StatusWebOn     lipgloss.Style
	StatusWebOff    lipgloss.Style
	CredentialWarn  lipgloss.Style
	ShortcutKey     lipgloss.Style
	ShortcutDesc    lipgloss.Style

	// ==========================================================================
	// SOURCE PANEL STYLES
	// ==========================================================================

	SourcePanel    lipgloss.Style
	SourceHeader   lipgloss.Style
	SourceName     lipgloss.Style
	SourceScore    lipgloss.Style
	SourceSnippet  lipgloss.Style
	WebSourceTitle lipgloss.Style
	WebSourceURL   lipgloss.Style

	// ==========================================================================
	// HISTORY PANEL STYLES
	// ==========================================================================

	HistoryList         lipgloss.Style
	HistoryItem         lipgloss.Style
	HistoryItemSelected lipgloss.Style
	HistoryTitle        lipgloss.Style
	HistoryMeta         lipgloss.Style
	HistoryMatch        lipgloss.Style
	HistoryOffline      lipgloss.Style

	// ==========================================================================
	// DOCUMENT PICKER STYLES
	// ==========================================================================

	PickerPopup    lipgloss.Style
	PickerItem     lipgloss.Style
	PickerSelected lipgloss.Style
	PickerMeta     lipgloss.Style

	// ==========================================================================
	// SPINNER AND LOADING STYLES
	// ==========================================================================

	Spinner       lipgloss.Style
	SearchingText lipgloss.Style
	SearchingTime lipgloss.Style

	// ==========================================================================
	// ERROR BOX STYLES
	// ==========================================================================

	ErrorBox        lipgloss.Style
	ErrorTitle      lipgloss.Style
	ErrorMessage    lipgloss.Style
	ErrorSuggestion lipgloss.Style

	// ==========================================================================
	// SETTINGS FORM STYLES
	// ==========================================================================

	FormLabel        lipgloss.Style
	FormValue        lipgloss.Style
	FormValueFocused lipgloss.Style
	FormHint         lipgloss.Style

	// ==========================================================================
	// STATUS INDICATOR STYLES
	// ==========================================================================

	SuccessStyle lipgloss.Style
	ErrorStyle   lipgloss.Style
	WarningStyle lipgloss.Style
	InfoStyle    lipgloss.Style
	LinkStyle    lipgloss.Style
}

// NewTheme creates a new theme with all styles configured. mode is one of
// "dark", "light", or "auto"; auto defers to the terminal's own report.
func NewTheme(mode string) *Theme {
	colorProfile := termenv.ColorProfile()
	hasTrueColor := colorProfile == termenv.TrueColor

	isDark := termenv.HasDarkBackground()
	switch mode {
	case "dark":
		isDark = true
	case "light":
		isDark = false
	}
	lipgloss.SetHasDarkBackground(isDark)

	t := &Theme{
		IsDark:       isDark,
		HasTrueColor: hasTrueColor,
		ColorProfile: colorProfile,
		Width:        80,
		Height:       24,
	}

	// Application container
	t.App = lipgloss.NewStyle().
		Foreground(TextPrimary)
	t.Container = lipgloss.NewStyle().
		Padding(0, 1)

	// Header
	t.Header = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Background(SurfaceDim).
		Padding(0, 1)
	t.HeaderTitle = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Bold(true)
	t.HeaderSubtitle = lipgloss.NewStyle().
		Foreground(TextMuted)
	t.HeaderBrand = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	// Turn bubbles
	t.UserBubble = lipgloss.NewStyle().
		Foreground(UserBubbleFg).
		Background(UserBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(UserBubbleBorder).
		Padding(0, 2)
	t.AssistantBubble = lipgloss.NewStyle().
		Foreground(AssistantBubbleFg).
		Background(AssistantBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(AssistantBubbleBorder).
		Padding(0, 2)
	t.RoleLabel = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)
	t.Timestamp = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Input area
	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)
	t.InputPrompt = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)
	t.InputText = lipgloss.NewStyle().
		Foreground(TextPrimary)
	t.InputPlaceholder = lipgloss.NewStyle().
		Foreground(TextMuted)
	t.InputDisabled = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)
	t.MentionText = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	// Status bar
	t.StatusBar = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Background(SurfaceDim).
		Padding(0, 1)
	t.StatusServer = lipgloss.NewStyle().
		Foreground(TextSecondary)
	t.StatusModel = lipgloss.NewStyle().
		Foreground(Purple)
	t.StatusWebOn = lipgloss.NewStyle().
		Foreground(Emerald)
	t.StatusWebOff = lipgloss.NewStyle().
		Foreground(TextMuted)
	t.CredentialWarn = lipgloss.NewStyle().
		Foreground(Amber).
		Bold(true)
	t.ShortcutKey = lipgloss.NewStyle().
		Foreground(Cyan)
	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Source panel
	t.SourcePanel = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(SourcePanelBorder).
		Padding(0, 1)
	t.SourceHeader = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)
	t.SourceName = lipgloss.NewStyle().
		Foreground(TextPrimary)
	t.SourceScore = lipgloss.NewStyle().
		Foreground(SourceScoreFg)
	t.SourceSnippet = lipgloss.NewStyle().
		Foreground(TextMuted)
	t.WebSourceTitle = lipgloss.NewStyle().
		Foreground(WebSourceFg)
	t.WebSourceURL = lipgloss.NewStyle().
		Foreground(TextMuted).
		Underline(true)

	// History panel
	t.HistoryList = lipgloss.NewStyle().
		Padding(0, 1)
	t.HistoryItem = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Padding(0, 1)
	t.HistoryItemSelected = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Purple).
		Padding(0, 1)
	t.HistoryTitle = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Bold(true)
	t.HistoryMeta = lipgloss.NewStyle().
		Foreground(TextMuted)
	t.HistoryMatch = lipgloss.NewStyle().
		Foreground(MatchFg).
		Background(MatchBg)
	t.HistoryOffline = lipgloss.NewStyle().
		Foreground(Amber).
		Italic(true)

	// Document picker
	t.PickerPopup = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Cyan).
		Padding(0, 1)
	t.PickerItem = lipgloss.NewStyle().
		Foreground(TextPrimary)
	t.PickerSelected = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Cyan)
	t.PickerMeta = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Spinner / loading
	t.Spinner = lipgloss.NewStyle().
		Foreground(Purple)
	t.SearchingText = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)
	t.SearchingTime = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Error box
	t.ErrorBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Rose).
		Padding(0, 1)
	t.ErrorTitle = lipgloss.NewStyle().
		Foreground(Rose).
		Bold(true)
	t.ErrorMessage = lipgloss.NewStyle().
		Foreground(TextPrimary)
	t.ErrorSuggestion = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	// Settings form
	t.FormLabel = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Width(18)
	t.FormValue = lipgloss.NewStyle().
		Foreground(TextPrimary)
	t.FormValueFocused = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Purple)
	t.FormHint = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	// Status indicators
	t.SuccessStyle = lipgloss.NewStyle().Foreground(Emerald).Bold(true)
	t.ErrorStyle = lipgloss.NewStyle().Foreground(Rose).Bold(true)
	t.WarningStyle = lipgloss.NewStyle().Foreground(Amber).Bold(true)
	t.InfoStyle = lipgloss.NewStyle().Foreground(Cyan)
	t.LinkStyle = lipgloss.NewStyle().Foreground(Cyan).Underline(true)

	return t
}

// SetSize updates the theme's layout dimensions after a terminal resize.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// ContentWidth returns the usable width inside the container padding.
func (t *Theme) ContentWidth() int {
	w := t.Width - 4
	if w < 20 {
		w = 20
	}
	return w
}
