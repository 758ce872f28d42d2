// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/localrag-tui/internal/model"
	"github.com/jeranaias/localrag-tui/internal/session"
)

// =============================================================================
// MESSAGES
// =============================================================================

// LoadedMsg reports the initial history fetch finishing.
type LoadedMsg struct {
	Err error
}

// SubmitResultMsg carries a finished search back to the update loop.
type SubmitResultMsg struct {
	Turn model.QueryTurn
	Err  error
}

// DocumentsMsg carries the uploaded document list for the @-mention picker.
type DocumentsMsg struct {
	Docs []model.Document
	Err  error
}

// SwitchMsg asks the application shell to change views or open a different
// conversation. Emitted by the chat view, handled by the shell.
type SwitchMsg struct {
	Target string // "history", "documents", "settings", "new-chat"
}

// =============================================================================
// COMMAND CREATORS
// =============================================================================

const requestTimeout = 120 * time.Second

// loadChatCmd runs the session's history fetch off the update loop.
func loadChatCmd(mgr *session.Manager) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return LoadedMsg{Err: mgr.Load(ctx)}
	}
}

// submitCmd runs one query submission off the update loop.
func submitCmd(mgr *session.Manager, input string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		turn, err := mgr.Submit(ctx, input)
		return SubmitResultMsg{Turn: turn, Err: err}
	}
}

// loadDocsCmd fetches the document list that backs the mention picker.
func loadDocsCmd(gw Gateway) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		docs, err := gw.GetDocuments(ctx)
		return DocumentsMsg{Docs: docs, Err: err}
	}
}
