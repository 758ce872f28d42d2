// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/jeranaias/localrag-tui/internal/model"
	"github.com/jeranaias/localrag-tui/internal/ui/styles"
	"github.com/jeranaias/localrag-tui/internal/util"
)

// =============================================================================
// DOCUMENT PICKER COMPONENT
// =============================================================================

// maxPickerRows caps how many completions the popup shows at once.
const maxPickerRows = 8

// Picker is the completion popup that opens while the caret sits inside an
// @-token. It filters the uploaded document list by the token's text and
// lets the user pick a name to splice back into the input.
type Picker struct {
	docs     []model.Document
	filtered []model.Document
	filter   string
	selected int
	Width    int
	theme    *styles.Theme
}

// NewPicker creates a picker over the given uploaded documents.
func NewPicker(docs []model.Document, theme *styles.Theme) *Picker {
	p := &Picker{
		docs:  docs,
		Width: 40,
		theme: theme,
	}
	p.SetFilter("")
	return p
}

// SetDocs replaces the document list (after an upload or delete) and
// re-applies the current filter.
func (p *Picker) SetDocs(docs []model.Document) {
	p.docs = docs
	p.SetFilter(p.filter)
}

// SetFilter narrows the list to names containing the token text,
// case-insensitively. The selection resets so it always points at a
// visible row.
func (p *Picker) SetFilter(filter string) {
	p.filter = filter
	p.filtered = p.filtered[:0]

	needle := strings.ToLower(strings.TrimSpace(filter))
	for _, doc := range p.docs {
		if needle == "" || strings.Contains(strings.ToLower(doc.Name), needle) {
			p.filtered = append(p.filtered, doc)
		}
	}
	p.selected = 0
}

// Move shifts the selection by delta, clamping at the ends.
func (p *Picker) Move(delta int) {
	p.selected += delta
	if p.selected < 0 {
		p.selected = 0
	}
	if p.selected >= len(p.filtered) {
		p.selected = len(p.filtered) - 1
	}
}

// Current returns the selected document, or ok=false when the filter
// matched nothing.
func (p *Picker) Current() (model.Document, bool) {
	if p.selected < 0 || p.selected >= len(p.filtered) {
		return model.Document{}, false
	}
	return p.filtered[p.selected], true
}

// Len returns the number of visible rows.
func (p *Picker) Len() int { return len(p.filtered) }

// View renders the popup.
func (p *Picker) View() string {
	t := p.theme
	if len(p.filtered) == 0 {
		return t.PickerPopup.Render(t.PickerMeta.Render("no matching documents"))
	}

	rows := p.filtered
	if len(rows) > maxPickerRows {
		rows = rows[:maxPickerRows]
	}

	var lines []string
	for i, doc := range rows {
		name := util.TruncateWidth(doc.Name, p.Width-10)
		meta := t.PickerMeta.Render(" " + doc.Type)
		if i == p.selected {
			lines = append(lines, t.PickerSelected.Render("> "+name)+meta)
		} else {
			lines = append(lines, t.PickerItem.Render("  "+name)+meta)
		}
	}
	if len(p.filtered) > maxPickerRows {
		lines = append(lines, t.PickerMeta.Render("  ..."))
	}

	return t.PickerPopup.Render(strings.Join(lines, "\n"))
}
