// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/localrag-tui/internal/mention"
	"github.com/jeranaias/localrag-tui/internal/reveal"
	"github.com/jeranaias/localrag-tui/internal/session"
	"github.com/jeranaias/localrag-tui/internal/ui/components"
)

// Update handles all messages for the conversation view.
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		m.refreshViewport()
		return m, nil

	case reveal.TickMsg:
		if m.reveal == nil {
			return m, nil
		}
		cmd := m.reveal.Advance()
		m.refreshViewport()
		return m, cmd

	case LoadedMsg:
		m.spin.Stop()
		m.lastErr = msg.Err
		if msg.Err == nil {
			m.statusBar.Status = components.StatusReady
		} else {
			m.statusBar.Status = components.StatusError
		}
		m.refreshViewport()
		return m, nil

	case SubmitResultMsg:
		return m.handleSubmitResult(msg)

	case DocumentsMsg:
		if msg.Err == nil {
			m.picker.SetDocs(msg.Docs)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	// Spinner frames and anything else
	if cmd := m.spin.Update(msg); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m *Model) handleKey(msg tea.KeyMsg) (*Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keyMap.NewChat):
		return m, switchCmd("new-chat")
	case key.Matches(msg, m.keyMap.History):
		return m, switchCmd("history")
	case key.Matches(msg, m.keyMap.Docs):
		return m, switchCmd("documents")
	case key.Matches(msg, m.keyMap.Settings):
		return m, switchCmd("settings")

	case key.Matches(msg, m.keyMap.Cancel):
		if m.pickerOpen {
			m.pickerOpen = false
			return m, nil
		}
		// Skip the animation: the full answer settles synchronously
		if m.reveal != nil && !m.reveal.Done() {
			m.reveal.Cancel()
			m.refreshViewport()
		}
		return m, nil

	case key.Matches(msg, m.keyMap.Submit):
		if m.pickerOpen {
			return m.pickDocument()
		}
		return m.submit()

	case key.Matches(msg, m.keyMap.Up):
		if m.pickerOpen {
			m.picker.Move(-1)
			return m, nil
		}
	case key.Matches(msg, m.keyMap.Down):
		if m.pickerOpen {
			m.picker.Move(1)
			return m, nil
		}
	case msg.String() == "tab":
		if m.pickerOpen {
			return m.pickDocument()
		}
	}

	// Everything else edits the input, unless a submission is in flight
	if m.mgr.Submitting() {
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.syncPicker()

	// Scroll keys reach the viewport when the picker is closed
	if !m.pickerOpen {
		var vpCmd tea.Cmd
		m.viewport, vpCmd = m.viewport.Update(msg)
		return m, tea.Batch(cmd, vpCmd)
	}
	return m, cmd
}

// syncPicker opens or closes the document picker depending on whether the
// caret sits inside a partial @-token, and keeps its filter current.
func (m *Model) syncPicker() {
	token, _, ok := mention.ActiveToken(m.input.Value(), m.input.Position())
	if !ok {
		m.pickerOpen = false
		return
	}
	m.pickerOpen = true
	m.picker.SetFilter(token)
}

// pickDocument splices the selected document name over the partial token.
func (m *Model) pickDocument() (*Model, tea.Cmd) {
	doc, ok := m.picker.Current()
	if !ok {
		m.pickerOpen = false
		return m, nil
	}

	text, pos := mention.ReplaceActiveToken(m.input.Value(), m.input.Position(), doc.Name)
	m.input.SetValue(text)
	m.input.SetCursor(pos)
	m.pickerOpen = false
	return m, nil
}

// =============================================================================
// SUBMISSION
// =============================================================================

func (m *Model) submit() (*Model, tea.Cmd) {
	if m.mgr.Submitting() {
		return m, nil
	}
	raw := m.input.Value()
	if strings.TrimSpace(raw) == "" {
		return m, nil
	}

	// A new query settles any still-running animation first
	if m.reveal != nil && !m.reveal.Done() {
		m.reveal.Cancel()
	}

	m.input.SetValue("")
	m.pickerOpen = false
	m.lastErr = nil
	m.statusBar.Status = components.StatusSearching
	m.refreshViewport()

	return m, tea.Batch(
		submitCmd(m.mgr, raw),
		m.spin.Start("Searching"),
	)
}

func (m *Model) handleSubmitResult(msg SubmitResultMsg) (*Model, tea.Cmd) {
	m.spin.Stop()

	if msg.Err != nil {
		m.lastErr = msg.Err
		m.statusBar.Status = components.StatusError
		m.refreshViewport()
		return m, nil
	}

	m.lastErr = nil
	m.statusBar.Status = components.StatusReady

	interval := time.Duration(m.revealInterval()) * time.Millisecond
	m.reveal = reveal.New(msg.Turn.Response.Answer, msg.Turn.Response.HasSources(), interval)
	cmd := m.reveal.Start()

	m.refreshViewport()
	return m, cmd
}

// switchCmd asks the shell to change views.
func switchCmd(target string) tea.Cmd {
	return func() tea.Msg {
		return SwitchMsg{Target: target}
	}
}

// =============================================================================
// LAYOUT
// =============================================================================

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	m.theme.SetSize(width, height)
	m.statusBar.SetWidth(width)
	m.input.Width = width - 8
	m.md = components.NewMarkdown(width - 8)

	// header + input box + status bar + spinner line
	vpHeight := height - 6
	if vpHeight < 3 {
		vpHeight = 3
	}
	if !m.ready {
		m.viewport = viewportNew(width, vpHeight)
		m.ready = true
	} else {
		m.viewport.Width = width
		m.viewport.Height = vpHeight
	}
}

// Loading reports whether the initial history fetch is still outstanding.
func (m *Model) Loading() bool {
	return m.mgr.State() == session.StateLoading
}
