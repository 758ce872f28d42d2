// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"testing"
)

func TestPairTurns_Basic(t *testing.T) {
	messages := []Message{
		{Role: RoleUser, Content: "what is a rig"},
		{Role: RoleAssistant, Content: "a rig is...", Sources: []Source{{Filename: "rigs.pdf", Score: 0.8}}},
		{Role: RoleUser, Content: "and a derrick"},
		{Role: RoleAssistant, Content: "a derrick is..."},
	}

	turns := PairTurns(messages, false)
	if len(turns) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(turns))
	}
	if turns[0].Query != "what is a rig" {
		t.Errorf("wrong query: %q", turns[0].Query)
	}
	if turns[0].Response.Answer != "a rig is..." {
		t.Errorf("wrong answer: %q", turns[0].Response.Answer)
	}
	if len(turns[0].Response.Sources) != 1 {
		t.Errorf("sources not carried over")
	}
	if turns[0].IsNew || turns[1].IsNew {
		t.Errorf("historical turns must not be marked new")
	}
}

func TestPairTurns_DropsTrailingUserMessage(t *testing.T) {
	messages := []Message{
		{Role: RoleUser, Content: "q1"},
		{Role: RoleAssistant, Content: "a1"},
		{Role: RoleUser, Content: "q2 never answered"},
	}

	turns := PairTurns(messages, false)
	if len(turns) != 1 {
		t.Fatalf("expected 1 turn, got %d", len(turns))
	}
	if turns[0].Query != "q1" {
		t.Errorf("wrong surviving turn: %q", turns[0].Query)
	}
}

func TestPairTurns_DropsOrphanAssistant(t *testing.T) {
	messages := []Message{
		{Role: RoleAssistant, Content: "answer with no question"},
		{Role: RoleUser, Content: "q"},
		{Role: RoleAssistant, Content: "a"},
	}

	turns := PairTurns(messages, true)
	if len(turns) != 1 {
		t.Fatalf("expected 1 turn, got %d", len(turns))
	}
	if !turns[0].IsNew {
		t.Errorf("turns of a new chat should be marked new")
	}
}

func TestPairTurns_Empty(t *testing.T) {
	if turns := PairTurns(nil, false); len(turns) != 0 {
		t.Fatalf("expected no turns, got %d", len(turns))
	}
}

func TestChat_IsNew(t *testing.T) {
	tests := []struct {
		name     string
		messages int
		want     bool
	}{
		{"empty", 0, true},
		{"one pair", 2, true},
		{"two pairs", 4, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Chat{Messages: make([]Message, tt.messages)}
			if got := c.IsNew(); got != tt.want {
				t.Errorf("IsNew() with %d messages = %v, want %v", tt.messages, got, tt.want)
			}
		})
	}
}

func TestSearchResponse_HasSources(t *testing.T) {
	r := &SearchResponse{}
	if r.HasSources() {
		t.Error("empty response should have no sources")
	}
	r.WebSources = []WebSource{{URL: "https://example.com"}}
	if !r.HasSources() {
		t.Error("web sources alone should count")
	}
}

func TestNewUserMessage(t *testing.T) {
	msg := NewUserMessage("hello")
	if msg.Role != RoleUser {
		t.Errorf("role = %q", msg.Role)
	}
	if msg.ID == "" {
		t.Error("expected generated ID")
	}
	if msg.CreatedAt.IsZero() {
		t.Error("expected timestamp")
	}
}
