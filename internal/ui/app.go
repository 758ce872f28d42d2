// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ui provides the top-level application shell for the localrag TUI.
//
// The shell owns the API client, the active configuration snapshot, and the
// four views (conversation, history, documents, settings). It routes
// keyboard input to whichever view is active and broadcasts everything else,
// so background work like a reveal animation keeps ticking while another
// panel is open.
package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/localrag-tui/internal/api"
	"github.com/jeranaias/localrag-tui/internal/config"
	"github.com/jeranaias/localrag-tui/internal/histcache"
	"github.com/jeranaias/localrag-tui/internal/ui/chat"
	"github.com/jeranaias/localrag-tui/internal/ui/documents"
	"github.com/jeranaias/localrag-tui/internal/ui/history"
	"github.com/jeranaias/localrag-tui/internal/ui/settings"
	"github.com/jeranaias/localrag-tui/internal/ui/styles"
)

// view identifies the active panel.
type view int

const (
	viewChat view = iota
	viewHistory
	viewDocuments
	viewSettings
)

// ConfigReloadedMsg is sent by the config watcher when the file on disk
// changed and the global snapshot was replaced.
type ConfigReloadedMsg struct{}

// =============================================================================
// APP
// =============================================================================

// App is the root Bubble Tea model.
type App struct {
	client *api.Client
	cfg    *config.Config
	cache  *histcache.Cache
	theme  *styles.Theme

	view      view
	chat      *chat.Model
	history   *history.Model
	documents *documents.Model
	settings  *settings.Model

	width  int
	height int
}

// NewApp creates the shell with a fresh conversation open. cache may be nil
// when the history mirror is disabled.
func NewApp(client *api.Client, cfg *config.Config, cache *histcache.Cache) *App {
	theme := styles.NewTheme(cfg.UI.Theme)
	return &App{
		client: client,
		cfg:    cfg,
		cache:  cache,
		theme:  theme,
		chat:   chat.New(client, cfg, theme, ""),
	}
}

// Init starts the conversation view.
func (a *App) Init() tea.Cmd {
	return a.chat.Init()
}

// Update routes messages.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, a.broadcast(msg)

	case chat.SwitchMsg:
		return a.switchView(msg.Target)

	case history.OpenChatMsg:
		return a.openChat(msg.ID)

	case history.BackMsg, documents.BackMsg, settings.BackMsg:
		a.view = viewChat
		return a, nil

	case settings.SavedMsg:
		if msg.Err == nil && msg.Cfg != nil {
			a.applyConfig(msg.Cfg)
		}
		// The form still shows the result
		if a.settings != nil {
			var cmd tea.Cmd
			a.settings, cmd = a.settings.Update(msg)
			return a, cmd
		}
		return a, nil

	case ConfigReloadedMsg:
		a.applyConfig(config.Global())
		return a, nil

	case tea.KeyMsg:
		return a.routeKey(msg)
	}

	// Ticks, command results, spinner frames: deliver everywhere so
	// background views keep making progress
	return a, a.broadcast(msg)
}

// View renders the active panel.
func (a *App) View() string {
	switch a.view {
	case viewHistory:
		if a.history != nil {
			return a.history.View()
		}
	case viewDocuments:
		if a.documents != nil {
			return a.documents.View()
		}
	case viewSettings:
		if a.settings != nil {
			return a.settings.View()
		}
	}
	return a.chat.View()
}

// =============================================================================
// ROUTING
// =============================================================================

func (a *App) routeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.view {
	case viewHistory:
		a.history, cmd = a.history.Update(msg)
	case viewDocuments:
		a.documents, cmd = a.documents.Update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.Update(msg)
	default:
		a.chat, cmd = a.chat.Update(msg)
	}
	return a, cmd
}

func (a *App) broadcast(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	a.chat, cmd = a.chat.Update(msg)
	cmds = append(cmds, cmd)

	if a.history != nil {
		a.history, cmd = a.history.Update(msg)
		cmds = append(cmds, cmd)
	}
	if a.documents != nil {
		a.documents, cmd = a.documents.Update(msg)
		cmds = append(cmds, cmd)
	}
	if a.settings != nil {
		a.settings, cmd = a.settings.Update(msg)
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

func (a *App) switchView(target string) (tea.Model, tea.Cmd) {
	switch target {
	case "new-chat":
		a.view = viewChat
		a.chat = chat.New(a.client, a.cfg, a.theme, "")
		return a, tea.Batch(a.chat.Init(), a.resizeCmd())

	case "history":
		a.view = viewHistory
		debounce := time.Duration(a.cfg.Search.DebounceMs) * time.Millisecond
		a.history = history.New(a.client, a.cache, debounce, a.theme)
		return a, tea.Batch(a.history.Init(), a.resizeCmd())

	case "documents":
		a.view = viewDocuments
		a.documents = documents.New(a.client, a.theme)
		return a, tea.Batch(a.documents.Init(), a.resizeCmd())

	case "settings":
		a.view = viewSettings
		a.settings = settings.New(a.cfg, a.theme)
		return a, tea.Batch(a.settings.Init(), a.resizeCmd())
	}
	return a, nil
}

func (a *App) openChat(id string) (tea.Model, tea.Cmd) {
	a.view = viewChat
	a.chat = chat.New(a.client, a.cfg, a.theme, id)
	return a, tea.Batch(a.chat.Init(), a.resizeCmd())
}

// resizeCmd replays the last known size so a freshly created view lays
// itself out immediately.
func (a *App) resizeCmd() tea.Cmd {
	if a.width == 0 {
		return nil
	}
	w, h := a.width, a.height
	return func() tea.Msg {
		return tea.WindowSizeMsg{Width: w, Height: h}
	}
}

// applyConfig installs a new configuration snapshot across the shell.
func (a *App) applyConfig(cfg *config.Config) {
	a.cfg = cfg
	a.theme = styles.NewTheme(cfg.UI.Theme)
	a.chat.RefreshConfig(cfg)
}
