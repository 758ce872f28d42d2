// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/jeranaias/localrag-tui/internal/model"
	"github.com/jeranaias/localrag-tui/internal/rank"
	"github.com/jeranaias/localrag-tui/internal/ui/styles"
	"github.com/jeranaias/localrag-tui/internal/util"
)

// =============================================================================
// SOURCE PANEL COMPONENT
// =============================================================================

// SourcePanel renders the provenance block under a finished answer: the
// top-ranked document sources and, separately, the top-ranked web sources.
type SourcePanel struct {
	Sources    []model.Source
	WebSources []model.WebSource
	Width      int
	ShowScores bool
	theme      *styles.Theme
}

// NewSourcePanel creates a panel for one answer's sources. Ranking and
// truncation to the display cutoff happen here so callers pass the full
// lists straight off the wire.
func NewSourcePanel(sources []model.Source, web []model.WebSource, theme *styles.Theme) *SourcePanel {
	return &SourcePanel{
		Sources:    rank.Sources(sources),
		WebSources: rank.WebSources(web),
		Width:      80,
		ShowScores: true,
		theme:      theme,
	}
}

// SetWidth sets the panel width.
func (p *SourcePanel) SetWidth(width int) {
	p.Width = width
}

// Empty reports whether there is nothing to show.
func (p *SourcePanel) Empty() bool {
	return len(p.Sources) == 0 && len(p.WebSources) == 0
}

// View renders the panel, or "" when there are no sources at all.
func (p *SourcePanel) View() string {
	if p.Empty() {
		return ""
	}

	t := p.theme
	inner := p.Width - 4
	if inner < 20 {
		inner = 20
	}

	var lines []string

	if len(p.Sources) > 0 {
		lines = append(lines, t.SourceHeader.Render("Sources"))
		for _, src := range p.Sources {
			name := t.SourceName.Render(util.TruncateWidth(src.Filename, inner-8))
			line := "  " + name
			if p.ShowScores {
				line += " " + t.SourceScore.Render(fmt.Sprintf("%.2f", src.Score))
			}
			lines = append(lines, line)
			if src.Content != "" {
				snippet := util.TruncateWidth(strings.ReplaceAll(src.Content, "\n", " "), inner-4)
				lines = append(lines, "    "+t.SourceSnippet.Render(snippet))
			}
		}
	}

	if len(p.WebSources) > 0 {
		if len(lines) > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, t.SourceHeader.Render("Web"))
		for _, src := range p.WebSources {
			title := src.Title
			if title == "" {
				title = src.URL
			}
			lines = append(lines, "  "+t.WebSourceTitle.Render(util.TruncateWidth(title, inner-4)))
			if src.URL != "" && title != src.URL {
				lines = append(lines, "    "+t.WebSourceURL.Render(util.TruncateWidth(src.URL, inner-6)))
			}
		}
	}

	return t.SourcePanel.Width(p.Width - 2).Render(strings.Join(lines, "\n"))
}
