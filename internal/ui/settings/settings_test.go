// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package settings

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/localrag-tui/internal/config"
	"github.com/jeranaias/localrag-tui/internal/ui/styles"
)

func testModel() *Model {
	cfg := config.Default()
	cfg.Credentials.OpenAIKey = "sk-test"
	return New(cfg, styles.NewTheme("dark"))
}

func TestDraftIsIsolated(t *testing.T) {
	cfg := config.Default()
	m := New(cfg, styles.NewTheme("dark"))

	m.draft.Search.WebSearchEnabled = true
	if cfg.Search.WebSearchEnabled {
		t.Error("editing the draft must not touch the source config")
	}
}

func TestToggleWebSearch(t *testing.T) {
	m := testModel()
	m.setFocus(fieldWebSearch)

	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyEnter})
	if !m.draft.Search.WebSearchEnabled {
		t.Error("enter must toggle web search on")
	}
	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyEnter})
	if m.draft.Search.WebSearchEnabled {
		t.Error("enter must toggle web search back off")
	}
}

func TestThemeCycles(t *testing.T) {
	m := testModel()
	m.setFocus(fieldTheme)

	seen := map[string]bool{}
	for i := 0; i < 3; i++ {
		m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyEnter})
		seen[m.draft.UI.Theme] = true
	}
	if len(seen) != 3 {
		t.Errorf("theme cycle visited %d values, want 3", len(seen))
	}
}

func TestFieldNavigationWraps(t *testing.T) {
	m := testModel()
	if m.focused != 0 {
		t.Fatalf("initial focus = %d", m.focused)
	}

	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyUp})
	if m.focused != fieldCount-1 {
		t.Errorf("up from first field = %d, want last", m.focused)
	}
	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyDown})
	if m.focused != 0 {
		t.Errorf("down from last field = %d, want first", m.focused)
	}
}

func TestKeysAreMasked(t *testing.T) {
	m := testModel()
	out := m.View()
	if strings.Contains(out, "sk-test") {
		t.Error("API key rendered in clear text")
	}
}

func TestWebWarningShownWithoutExaKey(t *testing.T) {
	m := testModel()
	m.draft.Search.WebSearchEnabled = true

	if !strings.Contains(m.View(), "Exa") {
		t.Error("missing Exa warning while web search is on without a key")
	}
}
