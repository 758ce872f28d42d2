// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"time"

	"github.com/google/uuid"
)

// Message roles. The backend only ever stores these two.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Reference kinds produced by the mention parser.
const (
	ReferenceWeb  = "web"
	ReferenceFile = "file"
)

// =============================================================================
// REFERENCES
// =============================================================================

// Reference is a structured pointer extracted from free-text query input:
// either a web URL or the name of an uploaded document. References are
// immutable and live only for the duration of one search submission.
type Reference struct {
	Kind   string `json:"kind"`   // "web" or "file"
	Source string `json:"source"` // URL or document name
}

// IsWeb returns true for web URL references.
func (r Reference) IsWeb() bool { return r.Kind == ReferenceWeb }

// =============================================================================
// SOURCES
// =============================================================================

// Source is a retrieved document chunk supporting an answer. Scores are
// relevance values comparable only within a single response; they are not
// normalized to any fixed range.
type Source struct {
	Content  string  `json:"content"`
	Filename string  `json:"filename"`
	Score    float64 `json:"score"`
}

// WebSource is a retrieved web page supporting an answer.
type WebSource struct {
	Title      string   `json:"title"`
	URL        string   `json:"url"`
	Text       string   `json:"text"`
	Score      float64  `json:"score"`
	Highlights []string `json:"highlights,omitempty"`
}

// =============================================================================
// CHATS AND MESSAGES
// =============================================================================

// Message is one entry in a chat transcript. User messages carry no sources;
// assistant messages answer the immediately preceding user message.
type Message struct {
	ID         string      `json:"id,omitempty"`
	Role       string      `json:"role"`
	Content    string      `json:"content"`
	Sources    []Source    `json:"sources,omitempty"`
	WebSources []WebSource `json:"web_sources,omitempty"`
	CreatedAt  time.Time   `json:"created_at,omitempty"`
}

// NewUserMessage creates a user message with a generated ID and timestamp.
func NewUserMessage(content string) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      RoleUser,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
}

// NewAssistantMessage creates an assistant message carrying the answer and
// its supporting sources.
func NewAssistantMessage(resp *SearchResponse) Message {
	return Message{
		ID:         uuid.NewString(),
		Role:       RoleAssistant,
		Content:    resp.Answer,
		Sources:    resp.Sources,
		WebSources: resp.WebSources,
		CreatedAt:  time.Now().UTC(),
	}
}

// Chat is a full conversation as stored by the backend. Message order is
// causally meaningful: oldest first, alternating user/assistant. The client
// mirrors it read-mostly and never reorders entries locally.
type Chat struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Messages    []Message `json:"messages"`
	LastUpdated time.Time `json:"last_updated"`
}

// MessageCount returns the number of stored messages.
func (c *Chat) MessageCount() int { return len(c.Messages) }

// IsNew reports whether this chat holds at most one user/assistant pair.
// The UI uses this to decide whether the first answer should animate.
func (c *Chat) IsNew() bool { return len(c.Messages) <= 2 }

// =============================================================================
// SEARCH
// =============================================================================

// SearchResponse is the answer-generation result for one query. ChatID is
// set only on the first turn of a new conversation, where the server
// allocates the chat; follow-up turns leave it empty.
type SearchResponse struct {
	Answer     string      `json:"answer"`
	Sources    []Source    `json:"sources"`
	WebSources []WebSource `json:"web_sources,omitempty"`
	ChatID     string      `json:"chat_id,omitempty"`
}

// HasSources returns true if the response carries at least one document or
// web source.
func (r *SearchResponse) HasSources() bool {
	return len(r.Sources) > 0 || len(r.WebSources) > 0
}

// QueryTurn pairs one user query with its answer. IsNew marks the turn the
// reveal renderer is currently animating; at most one turn per session may
// have it set. Turns are client-local and rebuilt on every session load.
type QueryTurn struct {
	Query    string
	Response SearchResponse
	IsNew    bool
}

// =============================================================================
// CHAT HISTORY SEARCH
// =============================================================================

// PreviewMessage is a matched message excerpt in a chat-search result.
type PreviewMessage struct {
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"created_at"`
	MatchedText string    `json:"matched_text,omitempty"`
}

// ChatSearchResult is one ranked hit from searching chat history.
type ChatSearchResult struct {
	ID              string           `json:"id"`
	Title           string           `json:"title"`
	LastUpdated     time.Time        `json:"last_updated"`
	TotalMessages   int              `json:"total_messages"`
	MatchCount      int              `json:"match_count"`
	PreviewMessages []PreviewMessage `json:"preview_messages"`
}

// =============================================================================
// DOCUMENTS
// =============================================================================

// Document describes an uploaded document as reported by the backend.
type Document struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Type       string `json:"type"`
	Size       string `json:"size"`
	UploadDate string `json:"uploadDate"`
}
