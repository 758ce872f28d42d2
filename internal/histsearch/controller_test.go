// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package histsearch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jeranaias/localrag-tui/internal/model"
)

// fakeSearcher records queries and returns a canned result per query.
type fakeSearcher struct {
	calls []string
}

func (f *fakeSearcher) SearchChats(_ context.Context, query string) ([]model.ChatSearchResult, error) {
	f.calls = append(f.calls, query)
	return []model.ChatSearchResult{{ID: "c-" + query, Title: query}}, nil
}

func TestRapidTypingCollapsesToOneCall(t *testing.T) {
	fs := &fakeSearcher{}
	c := NewController(fs, 300*time.Millisecond)

	// Three keystrokes inside the quiet period: each advances the
	// generation, so only the last timer survives the gen check.
	c.SetQuery("a")
	c.SetQuery("ab")
	cmd := c.SetQuery("abc")
	if cmd == nil {
		t.Fatal("non-empty query must schedule a debounce timer")
	}

	// Superseded timers fire but are dropped
	if got := c.HandleDebounce(DebounceMsg{Gen: 1, Query: "a"}); got != nil {
		t.Error("stale debounce for \"a\" must be dropped")
	}
	if got := c.HandleDebounce(DebounceMsg{Gen: 2, Query: "ab"}); got != nil {
		t.Error("stale debounce for \"ab\" must be dropped")
	}

	// The current one dispatches exactly one search
	searchCmd := c.HandleDebounce(DebounceMsg{Gen: 3, Query: "abc"})
	if searchCmd == nil {
		t.Fatal("current-generation debounce must dispatch")
	}
	msg := searchCmd().(ResultsMsg)
	c.HandleResults(msg)

	if len(fs.calls) != 1 || fs.calls[0] != "abc" {
		t.Errorf("calls = %v, want exactly [abc]", fs.calls)
	}
	if len(c.Results()) != 1 || c.Results()[0].Title != "abc" {
		t.Errorf("results = %v", c.Results())
	}
}

func TestStaleResponseDropped(t *testing.T) {
	fs := &fakeSearcher{}
	c := NewController(fs, time.Millisecond)

	// Query "ab" dispatches...
	c.SetQuery("ab")
	abCmd := c.HandleDebounce(DebounceMsg{Gen: 1, Query: "ab"})
	abMsg := abCmd().(ResultsMsg)

	// ...then "abc" dispatches and resolves first
	c.SetQuery("abc")
	abcCmd := c.HandleDebounce(DebounceMsg{Gen: 2, Query: "abc"})
	abcMsg := abcCmd().(ResultsMsg)

	if !c.HandleResults(abcMsg) {
		t.Fatal("fresh response must apply")
	}

	// The older response lands late and must not overwrite
	if c.HandleResults(abMsg) {
		t.Error("stale response must be dropped")
	}
	if c.Results()[0].Title != "abc" {
		t.Errorf("displayed results are for %q, want abc", c.Results()[0].Title)
	}
}

func TestEmptyQueryClearsImmediately(t *testing.T) {
	fs := &fakeSearcher{}
	c := NewController(fs, time.Millisecond)

	c.SetQuery("rig")
	cmd := c.HandleDebounce(DebounceMsg{Gen: 1, Query: "rig"})
	c.HandleResults(cmd().(ResultsMsg))
	if len(c.Results()) == 0 {
		t.Fatal("setup: expected results")
	}

	if cmd := c.SetQuery("   "); cmd != nil {
		t.Error("blank query must not schedule anything")
	}
	if c.Results() != nil {
		t.Error("results must clear immediately")
	}
	if c.Searching() {
		t.Error("no search may be outstanding")
	}
	if len(fs.calls) != 1 {
		t.Errorf("blank query reached the network: %v", fs.calls)
	}
}

func TestSearchErrorSurfaced(t *testing.T) {
	c := NewController(nil, time.Millisecond)
	c.SetQuery("q")

	applied := c.HandleResults(ResultsMsg{Gen: 1, Query: "q", Err: errors.New("boom")})
	if !applied {
		t.Fatal("error for current generation must apply")
	}
	if c.Err() == nil {
		t.Error("error should be exposed")
	}
	if c.Searching() {
		t.Error("searching flag stuck")
	}
}

func TestMatchRange(t *testing.T) {
	tests := []struct {
		name    string
		content string
		query   string
		ok      bool
		matched string
	}{
		{"simple", "drilling mud basics", "mud", true, "mud"},
		{"case folded", "Drilling MUD basics", "mud", true, "MUD"},
		{"no match", "cementing", "mud", false, ""},
		{"empty query", "anything", "  ", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, ok := MatchRange(tt.content, tt.query)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ok && tt.content[start:end] != tt.matched {
				t.Errorf("matched %q, want %q", tt.content[start:end], tt.matched)
			}
		})
	}
}

func TestHighlightMatch(t *testing.T) {
	got := HighlightMatch("drilling mud basics", "mud", func(s string) string {
		return "[" + s + "]"
	})
	if got != "drilling [mud] basics" {
		t.Errorf("got %q", got)
	}

	got = HighlightMatch("no hit here", "mud", func(s string) string { return "[" + s + "]" })
	if got != "no hit here" {
		t.Errorf("non-match changed content: %q", got)
	}
}
