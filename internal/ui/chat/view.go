// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/localrag-tui/internal/api"
	"github.com/jeranaias/localrag-tui/internal/mention"
	"github.com/jeranaias/localrag-tui/internal/model"
	"github.com/jeranaias/localrag-tui/internal/session"
	"github.com/jeranaias/localrag-tui/internal/ui/components"
)

func viewportNew(width, height int) viewport.Model {
	return viewport.New(width, height)
}

// View renders the conversation view.
func (m *Model) View() string {
	if !m.ready {
		return "initializing..."
	}

	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")

	if spin := m.spin.View(); spin != "" {
		b.WriteString(spin)
	} else if m.lastErr != nil {
		b.WriteString(m.renderError())
	}
	b.WriteString("\n")

	b.WriteString(m.renderInput())
	b.WriteString("\n")
	b.WriteString(m.statusBar.View())

	return b.String()
}

// =============================================================================
// SECTIONS
// =============================================================================

func (m *Model) renderHeader() string {
	t := m.theme

	title := m.mgr.Title()
	if title == "" {
		title = "new conversation"
	}

	left := t.HeaderBrand.Render("localrag") + " " + t.HeaderTitle.Render(title)
	return t.Header.Width(m.width).Render(left)
}

func (m *Model) renderError() string {
	t := m.theme
	msg := api.UserMessage(m.lastErr)
	return t.ErrorTitle.Render("error: ") + t.ErrorMessage.Render(msg)
}

func (m *Model) renderInput() string {
	t := m.theme

	var inner string
	if m.mgr.Submitting() {
		inner = t.InputDisabled.Render("searching...")
	} else {
		inner = m.input.View()
	}
	box := t.InputContainer.Width(m.width - 2).Render(inner)

	if !m.pickerOpen {
		return box
	}

	// Anchor the popup under the caret
	offset := mention.CaretOffset(m.input.Value(), m.input.Position(), mention.Metrics{
		WrapWidth: m.input.Width,
	})
	indent := offset.X
	if indent > m.width-30 {
		indent = m.width - 30
	}
	if indent < 0 {
		indent = 0
	}

	popup := lipgloss.NewStyle().MarginLeft(indent).Render(m.picker.View())
	return box + "\n" + popup
}

// =============================================================================
// CONVERSATION RENDERING
// =============================================================================

// refreshViewport rebuilds the scrollback from the session's turns and the
// live reveal state, then pins the view to the bottom.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}

	switch m.mgr.State() {
	case session.StateLoading:
		m.viewport.SetContent(m.theme.SearchingText.Render("loading conversation..."))
		return
	case session.StateFailed:
		m.viewport.SetContent(m.renderLoadFailure())
		return
	}

	turns := m.mgr.Turns()
	if len(turns) == 0 {
		m.viewport.SetContent(m.renderWelcome())
		return
	}

	var blocks []string
	for _, turn := range turns {
		blocks = append(blocks, m.renderTurn(turn))
	}

	m.viewport.SetContent(strings.Join(blocks, "\n\n"))
	m.viewport.GotoBottom()
}

func (m *Model) renderTurn(turn model.QueryTurn) string {
	t := m.theme
	bubbleWidth := m.width - 10
	if bubbleWidth < 20 {
		bubbleWidth = 20
	}

	var parts []string

	// Query bubble
	parts = append(parts,
		t.RoleLabel.Render("you"),
		t.UserBubble.MaxWidth(bubbleWidth).Render(turn.Query),
	)

	// Answer: the newest turn may still be animating
	answer := turn.Response.Answer
	settled := true
	if turn.IsNew && m.reveal != nil {
		answer = m.reveal.Visible()
		settled = m.reveal.Done()
	}

	var body string
	if settled {
		body = strings.TrimRight(m.md.Render(answer), "\n")
	} else {
		// Plain text while revealing; markdown settles with the animation
		body = answer
	}
	parts = append(parts,
		t.RoleLabel.Render("assistant"),
		t.AssistantBubble.MaxWidth(bubbleWidth).Render(body),
	)

	// Sources stay hidden until the answer has fully settled
	showSources := turn.Response.HasSources()
	if turn.IsNew && m.reveal != nil {
		showSources = m.reveal.SourcesVisible()
	}
	if showSources {
		panel := components.NewSourcePanel(turn.Response.Sources, turn.Response.WebSources, t)
		panel.ShowScores = m.cfg.UI.ShowScores
		panel.SetWidth(bubbleWidth)
		if v := panel.View(); v != "" {
			parts = append(parts, v)
		}
	}

	return strings.Join(parts, "\n")
}

func (m *Model) renderWelcome() string {
	t := m.theme
	lines := []string{
		t.HeaderBrand.Render("localrag"),
		"",
		t.SearchingText.Render("Ask a question about your uploaded documents."),
		t.FormHint.Render("Mention a document with @name, or paste a URL with @https://... to ground the answer."),
	}
	if !m.cfg.HasPrimaryCredential() {
		lines = append(lines, "", t.CredentialWarn.Render("No OpenAI key configured - open Settings with ctrl+g."))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderLoadFailure() string {
	t := m.theme
	msg := "failed to load conversation"
	if err := m.mgr.LoadErr(); err != nil {
		msg = api.UserMessage(err)
	}
	return t.ErrorBox.Render(
		t.ErrorTitle.Render("could not load this conversation") + "\n" +
			t.ErrorMessage.Render(msg) + "\n" +
			t.ErrorSuggestion.Render("check that the localrag server is running, then reopen from history"),
	)
}
