// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/localrag-tui/internal/api"
	"github.com/jeranaias/localrag-tui/internal/config"
	"github.com/jeranaias/localrag-tui/internal/model"
	"github.com/jeranaias/localrag-tui/internal/reveal"
	"github.com/jeranaias/localrag-tui/internal/ui/styles"
)

// fakeGateway satisfies Gateway with canned responses.
type fakeGateway struct {
	chat *model.Chat
	docs []model.Document
}

func (f *fakeGateway) GetChat(_ context.Context, id string) (*model.Chat, error) {
	return f.chat, nil
}

func (f *fakeGateway) Search(_ context.Context, req api.SearchRequest) (*model.SearchResponse, error) {
	return &model.SearchResponse{Answer: "answer to " + req.Query, ChatID: "c-1"}, nil
}

func (f *fakeGateway) AddMessage(_ context.Context, chatID string, msg model.Message) error {
	return nil
}

func (f *fakeGateway) GetDocuments(_ context.Context) ([]model.Document, error) {
	return f.docs, nil
}

func testModel(t *testing.T) *Model {
	t.Helper()
	cfg := config.Default()
	m := New(&fakeGateway{}, cfg, styles.NewTheme("dark"), "")
	m.resize(100, 30)
	return m
}

func TestSubmitResultStartsReveal(t *testing.T) {
	m := testModel(t)

	resp := model.SearchResponse{
		Answer:  "hello",
		Sources: []model.Source{{Filename: "doc.pdf", Score: 0.9}},
	}
	turn := model.QueryTurn{Query: "q", Response: resp, IsNew: true}

	m, cmd := m.handleSubmitResult(SubmitResultMsg{Turn: turn})
	if cmd == nil {
		t.Fatal("a non-empty answer must schedule the first tick")
	}
	if m.reveal == nil || m.reveal.Done() {
		t.Fatal("reveal must be animating")
	}
	if m.reveal.SourcesVisible() {
		t.Error("sources must stay hidden while revealing")
	}

	// Drive the animation to completion: "hello" needs exactly 5 ticks
	for i := 0; i < 5; i++ {
		if m.reveal.Done() {
			t.Fatalf("done after %d ticks, want 5", i)
		}
		m, _ = m.Update(reveal.TickMsg{Time: time.Now()})
	}
	if !m.reveal.Done() {
		t.Error("reveal must be done after one tick per rune")
	}
	if !m.reveal.SourcesVisible() {
		t.Error("sources must appear once the answer settles")
	}
}

func TestEscSettlesAnimation(t *testing.T) {
	m := testModel(t)

	turn := model.QueryTurn{
		Query:    "q",
		Response: model.SearchResponse{Answer: "a long answer"},
		IsNew:    true,
	}
	m, _ = m.handleSubmitResult(SubmitResultMsg{Turn: turn})

	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyEsc})
	if !m.reveal.Done() {
		t.Error("esc must settle the animation")
	}
	if m.reveal.Visible() != "a long answer" {
		t.Errorf("settled text = %q, want the full answer", m.reveal.Visible())
	}

	// A late tick is dropped without rescheduling
	m, cmd := m.Update(reveal.TickMsg{Time: time.Now()})
	if cmd != nil {
		t.Error("stale tick must not reschedule")
	}
}

func TestSubmitErrorSurfaced(t *testing.T) {
	m := testModel(t)

	m, cmd := m.handleSubmitResult(SubmitResultMsg{Err: api.ErrMissingCredential})
	if cmd != nil {
		t.Error("a failed submission must not start an animation")
	}
	if m.lastErr == nil {
		t.Error("error must be retained for display")
	}

	out := m.renderError()
	if out == "" {
		t.Error("error rendering is empty")
	}
}

func TestPickerOpensInsideToken(t *testing.T) {
	m := testModel(t)
	m.picker.SetDocs([]model.Document{
		{ID: "1", Name: "mud-weights.txt", Type: "txt"},
		{ID: "2", Name: "drilling.pdf", Type: "pdf"},
	})

	m.input.SetValue("tell me about @mu")
	m.input.SetCursor(len("tell me about @mu"))
	m.syncPicker()

	if !m.pickerOpen {
		t.Fatal("picker must open while the caret is inside a token")
	}
	if m.picker.Len() != 1 {
		t.Fatalf("filter not applied: %d rows", m.picker.Len())
	}

	m, _ = m.pickDocument()
	if m.pickerOpen {
		t.Error("picking must close the popup")
	}
	if got := m.input.Value(); !strings.Contains(got, "@mud-weights.txt ") {
		t.Errorf("token not replaced: %q", got)
	}
}

func TestPickerClosesOutsideToken(t *testing.T) {
	m := testModel(t)
	m.pickerOpen = true

	m.input.SetValue("plain text ")
	m.input.SetCursor(11)
	m.syncPicker()

	if m.pickerOpen {
		t.Error("picker must close once the caret leaves the token")
	}
}

func TestViewShowsWelcomeForEmptyConversation(t *testing.T) {
	m := testModel(t)
	m.refreshViewport()

	out := m.View()
	if !strings.Contains(out, "localrag") {
		t.Error("welcome screen missing brand")
	}
}
