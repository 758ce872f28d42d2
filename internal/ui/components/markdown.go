// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/glamour"
)

// =============================================================================
// MARKDOWN RENDERER
// =============================================================================

// Markdown renders assistant answers for terminal display. Glamour handles
// the heavy lifting; if it cannot be constructed (unusual TERM setups) we
// fall back to highlighting just the code fences with chroma.
type Markdown struct {
	renderer *glamour.TermRenderer
	width    int
}

// NewMarkdown creates a renderer wrapping at the given width.
func NewMarkdown(width int) *Markdown {
	if width < 20 {
		width = 20
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		r = nil
	}
	return &Markdown{renderer: r, width: width}
}

// Render renders markdown content, returning a best-effort plain rendering
// on failure rather than an error.
func (m *Markdown) Render(content string) string {
	if m.renderer == nil {
		return ParseCodeBlocks(content, m.width)
	}
	out, err := m.renderer.Render(content)
	if err != nil {
		return ParseCodeBlocks(content, m.width)
	}
	return out
}

// Width returns the wrap width the renderer was built with.
func (m *Markdown) Width() int { return m.width }
