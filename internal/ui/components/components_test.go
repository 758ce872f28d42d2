// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"

	"github.com/jeranaias/localrag-tui/internal/model"
	"github.com/jeranaias/localrag-tui/internal/ui/styles"
)

func testTheme() *styles.Theme {
	return styles.NewTheme("dark")
}

// =============================================================================
// STATUS BAR
// =============================================================================

func TestStatusBarCredentialWarning(t *testing.T) {
	sb := NewStatusBar(testTheme())

	sb.HasPrimaryKey = false
	if warn := sb.CredentialWarning(); !strings.Contains(warn, "OpenAI") {
		t.Errorf("missing primary key warning = %q", warn)
	}

	sb.HasPrimaryKey = true
	sb.WebSearch = true
	sb.HasWebKey = false
	if warn := sb.CredentialWarning(); !strings.Contains(warn, "Exa") {
		t.Errorf("missing web key warning = %q", warn)
	}

	// Web key missing but toggle off: no warning
	sb.WebSearch = false
	if warn := sb.CredentialWarning(); warn != "" {
		t.Errorf("unexpected warning %q", warn)
	}

	sb.WebSearch = true
	sb.HasWebKey = true
	if warn := sb.CredentialWarning(); warn != "" {
		t.Errorf("fully configured bar still warns: %q", warn)
	}
}

func TestStatusBarViewContainsState(t *testing.T) {
	sb := NewStatusBar(testTheme())
	sb.ServerURL = "http://127.0.0.1:8000"
	sb.ModelName = "gpt-4o-mini"
	sb.HasPrimaryKey = true
	sb.SetWidth(120)

	out := sb.View()
	if !strings.Contains(out, "gpt-4o-mini") {
		t.Error("model name missing from status bar")
	}
	if !strings.Contains(out, "web:off") {
		t.Error("web toggle state missing from status bar")
	}
}

// =============================================================================
// SOURCE PANEL
// =============================================================================

func TestSourcePanelRanksAndTruncates(t *testing.T) {
	sources := []model.Source{
		{Filename: "low.pdf", Score: 0.2},
		{Filename: "high.pdf", Score: 0.9},
		{Filename: "mid.pdf", Score: 0.5},
	}
	p := NewSourcePanel(sources, nil, testTheme())

	if len(p.Sources) != 2 {
		t.Fatalf("panel keeps %d sources, want 2", len(p.Sources))
	}
	if p.Sources[0].Filename != "high.pdf" || p.Sources[1].Filename != "mid.pdf" {
		t.Errorf("wrong ranking: %s, %s", p.Sources[0].Filename, p.Sources[1].Filename)
	}

	out := p.View()
	if !strings.Contains(out, "high.pdf") || strings.Contains(out, "low.pdf") {
		t.Errorf("rendered panel shows wrong sources:\n%s", out)
	}
}

func TestSourcePanelEmpty(t *testing.T) {
	p := NewSourcePanel(nil, nil, testTheme())
	if !p.Empty() {
		t.Error("panel with no sources must be empty")
	}
	if p.View() != "" {
		t.Error("empty panel must render nothing")
	}
}

func TestSourcePanelWebFallsBackToURL(t *testing.T) {
	web := []model.WebSource{{URL: "https://example.com/a", Score: 0.8}}
	p := NewSourcePanel(nil, web, testTheme())

	out := p.View()
	if !strings.Contains(out, "example.com") {
		t.Errorf("untitled web source must show its URL:\n%s", out)
	}
}

// =============================================================================
// PICKER
// =============================================================================

func pickerDocs() []model.Document {
	return []model.Document{
		{ID: "1", Name: "drilling-manual.pdf", Type: "pdf"},
		{ID: "2", Name: "mud-weights.txt", Type: "txt"},
		{ID: "3", Name: "Mud-Program.pdf", Type: "pdf"},
	}
}

func TestPickerFilter(t *testing.T) {
	p := NewPicker(pickerDocs(), testTheme())
	if p.Len() != 3 {
		t.Fatalf("unfiltered len = %d", p.Len())
	}

	p.SetFilter("mud")
	if p.Len() != 2 {
		t.Fatalf("filter mud: len = %d, want 2 (case-insensitive)", p.Len())
	}

	doc, ok := p.Current()
	if !ok || doc.Name != "mud-weights.txt" {
		t.Errorf("Current = %v, %v", doc, ok)
	}

	p.SetFilter("zzz")
	if _, ok := p.Current(); ok {
		t.Error("no matches must yield no current doc")
	}
	if out := p.View(); !strings.Contains(out, "no matching") {
		t.Errorf("empty view = %q", out)
	}
}

func TestPickerMoveClamps(t *testing.T) {
	p := NewPicker(pickerDocs(), testTheme())
	p.Move(-5)
	if doc, _ := p.Current(); doc.ID != "1" {
		t.Errorf("moved past top: %v", doc)
	}
	p.Move(10)
	if doc, _ := p.Current(); doc.ID != "3" {
		t.Errorf("moved past bottom: %v", doc)
	}
}

// =============================================================================
// HELPERS
// =============================================================================

func TestWordWrap(t *testing.T) {
	out := wordWrap("one two three four", 9)
	for _, line := range strings.Split(out, "\n") {
		if maxLineWidth(line) > 9 {
			t.Errorf("line %q exceeds width", line)
		}
	}

	// Words wider than the limit break rather than overflow
	out = wordWrap("abcdefghijkl", 5)
	if maxLineWidth(out) > 5 {
		t.Errorf("long word not broken: %q", out)
	}
}

func TestParseCodeBlocksPreservesProse(t *testing.T) {
	in := "before\n```go\nfmt.Println(1)\n```\nafter"
	out := ParseCodeBlocks(in, 60)
	if !strings.Contains(out, "before") || !strings.Contains(out, "after") {
		t.Error("prose around the fence was lost")
	}
	if strings.Contains(out, "```") {
		t.Error("fence markers leaked into output")
	}
}

func TestMarkdownRenderNeverFails(t *testing.T) {
	m := NewMarkdown(60)
	out := m.Render("# Title\n\nsome *text*")
	if out == "" {
		t.Error("markdown rendering returned nothing")
	}
}
