// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session owns the turn list for one open chat.
//
// A Manager loads history from the backend, replays stored messages into
// query turns, and appends new turns as searches complete. It never reorders
// or deletes turns locally; the server stays the authority and a failed
// submission leaves prior state untouched.
package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/jeranaias/localrag-tui/internal/api"
	"github.com/jeranaias/localrag-tui/internal/mention"
	"github.com/jeranaias/localrag-tui/internal/model"
)

// State is the manager's lifecycle position.
type State int

const (
	// StateLoading means the initial history fetch is outstanding.
	StateLoading State = iota
	// StateReady means history is loaded and submissions are accepted.
	StateReady
	// StateFailed means the initial fetch failed. Reported upward, not
	// retried automatically.
	StateFailed
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Errors returned by Submit.
var (
	// ErrNotReady indicates the manager has not finished loading.
	ErrNotReady = errors.New("session not ready")

	// ErrBusy indicates a prior submission is still outstanding. The UI
	// disables input while submitting, so hitting this is a caller bug.
	ErrBusy = errors.New("a submission is already in flight")

	// ErrEmptyQuery indicates the input was blank after reference parsing.
	ErrEmptyQuery = errors.New("query is empty")
)

// Gateway is the slice of the API client the manager needs. Narrowed for
// tests; *api.Client satisfies it.
type Gateway interface {
	GetChat(ctx context.Context, id string) (*model.Chat, error)
	Search(ctx context.Context, req api.SearchRequest) (*model.SearchResponse, error)
	AddMessage(ctx context.Context, chatID string, msg model.Message) error
}

// =============================================================================
// MANAGER
// =============================================================================

// Manager holds the ordered query turns of one chat.
type Manager struct {
	gw Gateway

	mu         sync.Mutex
	chatID     string
	title      string
	state      State
	turns      []model.QueryTurn
	isNew      bool
	submitting bool
	loadErr    error
}

// NewManager creates a manager for an existing chat id. Call Load before
// anything else.
func NewManager(gw Gateway, chatID string) *Manager {
	return &Manager{
		gw:     gw,
		chatID: chatID,
		state:  StateLoading,
	}
}

// NewEmpty creates a ready manager for a chat that does not exist yet. The
// first submission runs as the conversation opener and adopts the chat id
// the server allocates.
func NewEmpty(gw Gateway) *Manager {
	return &Manager{
		gw:    gw,
		state: StateReady,
		isNew: true,
	}
}

// Load fetches the chat and replays its messages into turns. On failure the
// manager transitions to Failed and the error is returned for display.
func (m *Manager) Load(ctx context.Context) error {
	m.mu.Lock()
	id := m.chatID
	m.mu.Unlock()

	chat, err := m.gw.GetChat(ctx, id)

	m.mu.Lock()
	defer m.mu.Unlock()

	if err != nil {
		m.state = StateFailed
		m.loadErr = err
		return err
	}

	// Replayed history never animates
	m.turns = model.PairTurns(chat.Messages, false)
	m.title = chat.Title
	m.isNew = chat.IsNew()
	m.state = StateReady
	m.loadErr = nil
	return nil
}

// Submit parses references out of the raw input, runs the search, and on
// success appends the new turn marked as the animation target. On any
// failure no turn is appended and prior turns are untouched.
//
// Submissions are serialized: the UI disables input while one is
// outstanding, and ErrBusy guards against violations.
func (m *Manager) Submit(ctx context.Context, input string) (model.QueryTurn, error) {
	m.mu.Lock()
	if m.state != StateReady {
		m.mu.Unlock()
		return model.QueryTurn{}, ErrNotReady
	}
	if m.submitting {
		m.mu.Unlock()
		return model.QueryTurn{}, ErrBusy
	}

	text, refs := mention.Parse(input)
	if strings.TrimSpace(text) == "" && len(refs) == 0 {
		m.mu.Unlock()
		return model.QueryTurn{}, ErrEmptyQuery
	}

	m.submitting = true
	req := api.SearchRequest{
		Query:      text,
		ChatID:     m.chatID,
		Initial:    m.isNew && len(m.turns) == 0,
		References: refs,
	}
	m.mu.Unlock()

	resp, err := m.gw.Search(ctx, req)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.submitting = false

	if err != nil {
		return model.QueryTurn{}, fmt.Errorf("search failed: %w", err)
	}

	// First turn of a fresh conversation: the server allocated the chat
	if m.chatID == "" && resp.ChatID != "" {
		m.chatID = resp.ChatID
	}

	// Only the newest turn animates
	for i := range m.turns {
		m.turns[i].IsNew = false
	}

	turn := model.QueryTurn{Query: text, Response: *resp, IsNew: true}
	m.turns = append(m.turns, turn)

	m.persistTurn(ctx, text, resp)

	return turn, nil
}

// persistTurn writes both halves of a completed turn back to the chat store.
// Best-effort: the turn is already displayed, so persistence failures are
// logged rather than surfaced.
func (m *Manager) persistTurn(ctx context.Context, query string, resp *model.SearchResponse) {
	if m.chatID == "" {
		return
	}
	if err := m.gw.AddMessage(ctx, m.chatID, model.NewUserMessage(query)); err != nil {
		log.Printf("persist user message: %v", err)
		return
	}
	if err := m.gw.AddMessage(ctx, m.chatID, model.NewAssistantMessage(resp)); err != nil {
		log.Printf("persist assistant message: %v", err)
	}
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Turns returns a copy of the current turn list, oldest first.
func (m *Manager) Turns() []model.QueryTurn {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.QueryTurn, len(m.turns))
	copy(out, m.turns)
	return out
}

// State returns the manager's lifecycle state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// ChatID returns the chat id, which may be empty until the first submission
// of a fresh conversation completes.
func (m *Manager) ChatID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.chatID
}

// Title returns the loaded chat title.
func (m *Manager) Title() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.title
}

// IsNewChat reports whether the session holds at most one completed pair.
// The UI animates the first answer of a new chat and settles everything in
// an old one.
func (m *Manager) IsNewChat() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.isNew
}

// Submitting reports whether a submission is outstanding.
func (m *Manager) Submitting() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.submitting
}

// LoadErr returns the error that moved the manager to Failed, if any.
func (m *Manager) LoadErr() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loadErr
}
