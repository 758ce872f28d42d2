// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the localrag TUI.
package components

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/jeranaias/localrag-tui/internal/ui/styles"
)

// =============================================================================
// STATUS BAR COMPONENT - Bottom status bar
// =============================================================================

// Status represents the current application status.
type Status int

const (
	StatusReady Status = iota
	StatusSearching
	StatusLoading
	StatusError
	StatusOffline
)

// String returns the display string for the status.
func (s Status) String() string {
	switch s {
	case StatusReady:
		return "Ready"
	case StatusSearching:
		return "Searching..."
	case StatusLoading:
		return "Loading..."
	case StatusError:
		return "Error"
	case StatusOffline:
		return "Offline"
	default:
		return "Unknown"
	}
}

// Icon returns a shape indicator for the status so states stay readable
// without color.
func (s Status) Icon() string {
	switch s {
	case StatusReady:
		return styles.StatusIndicators.Success
	case StatusSearching:
		return "~"
	case StatusLoading:
		return styles.StatusIndicators.Pending
	case StatusError:
		return styles.StatusIndicators.Error
	case StatusOffline:
		return styles.StatusIndicators.Warning
	default:
		return "?"
	}
}

// StatusBar is the bottom status bar showing connection, model, and
// credential state.
type StatusBar struct {
	ServerURL     string
	ModelName     string
	WebSearch     bool
	HasPrimaryKey bool
	HasWebKey     bool
	Status        Status
	Width         int
	ShowShortcuts bool
	theme         *styles.Theme
}

// NewStatusBar creates a new StatusBar component.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{
		Status:        StatusReady,
		Width:         80,
		ShowShortcuts: true,
		theme:         theme,
	}
}

// SetWidth updates the status bar width.
func (s *StatusBar) SetWidth(width int) {
	s.Width = width
}

// CredentialWarning returns the warning text for missing credentials, or ""
// when the active configuration is fully usable. Web search only needs a
// warning while the toggle is on.
func (s *StatusBar) CredentialWarning() string {
	switch {
	case !s.HasPrimaryKey:
		return "! no OpenAI key - set one in Settings (ctrl+g)"
	case s.WebSearch && !s.HasWebKey:
		return "! web search on but no Exa key"
	default:
		return ""
	}
}

// View renders the status bar.
func (s *StatusBar) View() string {
	t := s.theme

	var parts []string
	parts = append(parts, s.Status.Icon()+" "+s.Status.String())

	if s.ServerURL != "" {
		parts = append(parts, t.StatusServer.Render(s.ServerURL))
	}
	if s.ModelName != "" {
		parts = append(parts, t.StatusModel.Render(s.ModelName))
	}
	if s.WebSearch {
		parts = append(parts, t.StatusWebOn.Render("web:on"))
	} else {
		parts = append(parts, t.StatusWebOff.Render("web:off"))
	}

	if warn := s.CredentialWarning(); warn != "" {
		parts = append(parts, t.CredentialWarn.Render(warn))
	}

	left := strings.Join(parts, "  ")

	right := ""
	if s.ShowShortcuts {
		right = t.ShortcutKey.Render("ctrl+n") + t.ShortcutDesc.Render(" new  ") +
			t.ShortcutKey.Render("ctrl+r") + t.ShortcutDesc.Render(" history  ") +
			t.ShortcutKey.Render("ctrl+c") + t.ShortcutDesc.Render(" quit")
	}

	// Pad the middle so shortcuts sit on the right edge
	gap := s.Width - runewidth.StringWidth(stripANSI(left)) - runewidth.StringWidth(stripANSI(right)) - 2
	if gap < 1 {
		gap = 1
		right = ""
	}

	return t.StatusBar.Width(s.Width).Render(left + strings.Repeat(" ", gap) + right)
}

// stripANSI removes escape sequences for width measurement.
func stripANSI(s string) string {
	var out strings.Builder
	inEscape := false
	for _, r := range s {
		switch {
		case inEscape:
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
				inEscape = false
			}
		case r == '\x1b':
			inEscape = true
		default:
			out.WriteRune(r)
		}
	}
	return out.String()
}
