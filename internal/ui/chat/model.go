// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the conversation view for the TUI.
package chat

import (
	"context"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/localrag-tui/internal/config"
	"github.com/jeranaias/localrag-tui/internal/model"
	"github.com/jeranaias/localrag-tui/internal/reveal"
	"github.com/jeranaias/localrag-tui/internal/session"
	"github.com/jeranaias/localrag-tui/internal/ui/components"
	"github.com/jeranaias/localrag-tui/internal/ui/styles"
)

// Gateway is the slice of the API client the conversation view needs: the
// session operations plus the document list backing the mention picker.
type Gateway interface {
	session.Gateway
	GetDocuments(ctx context.Context) ([]model.Document, error)
}

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the conversation view.
type Model struct {
	theme  *styles.Theme
	cfg    *config.Config
	keyMap KeyMap

	gw  Gateway
	mgr *session.Manager

	// reveal animates the newest answer; nil when nothing is animating
	reveal *reveal.Renderer

	// UI components
	input     textinput.Model
	viewport  viewport.Model
	spin      components.Spinner
	statusBar *components.StatusBar
	md        *components.Markdown
	picker    *components.Picker

	pickerOpen bool
	lastErr    error

	width  int
	height int
	ready  bool
}

// New creates a conversation view. An empty chatID opens a fresh
// conversation; otherwise the existing chat is loaded on Init.
func New(gw Gateway, cfg *config.Config, theme *styles.Theme, chatID string) *Model {
	var mgr *session.Manager
	if chatID == "" {
		mgr = session.NewEmpty(gw)
	} else {
		mgr = session.NewManager(gw, chatID)
	}

	input := textinput.New()
	input.Placeholder = "Ask about your documents (@name to cite one)"
	input.CharLimit = 4000
	input.Prompt = theme.InputPrompt.Render("> ")
	input.Focus()

	sb := components.NewStatusBar(theme)
	sb.ServerURL = cfg.Server.BaseURL
	sb.ModelName = cfg.Search.Model
	sb.WebSearch = cfg.WebSearchActive()
	sb.HasPrimaryKey = cfg.HasPrimaryCredential()
	sb.HasWebKey = cfg.HasWebCredential()

	return &Model{
		theme:     theme,
		cfg:       cfg,
		keyMap:    DefaultKeyMap(),
		gw:        gw,
		mgr:       mgr,
		input:     input,
		spin:      components.NewSpinner(theme),
		statusBar: sb,
		md:        components.NewMarkdown(76),
		picker:    components.NewPicker(nil, theme),
	}
}

// Init starts the history fetch for existing chats and always fetches the
// document list for the picker.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, loadDocsCmd(m.gw)}
	if m.mgr.State() == session.StateLoading {
		cmds = append(cmds, loadChatCmd(m.mgr), m.spin.Start("Loading conversation"))
	}
	return tea.Batch(cmds...)
}

// Manager exposes the underlying session for the application shell.
func (m *Model) Manager() *session.Manager {
	return m.mgr
}

// RefreshConfig re-reads credential and model state after a settings change
// or a config file reload.
func (m *Model) RefreshConfig(cfg *config.Config) {
	m.cfg = cfg
	m.statusBar.ServerURL = cfg.Server.BaseURL
	m.statusBar.ModelName = cfg.Search.Model
	m.statusBar.WebSearch = cfg.WebSearchActive()
	m.statusBar.HasPrimaryKey = cfg.HasPrimaryCredential()
	m.statusBar.HasWebKey = cfg.HasWebCredential()
}

// revealInterval converts the configured per-rune delay.
func (m *Model) revealInterval() int {
	if m.cfg.UI.RevealIntervalMs > 0 {
		return m.cfg.UI.RevealIntervalMs
	}
	return int(reveal.DefaultInterval.Milliseconds())
}
