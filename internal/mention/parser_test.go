// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package mention

import (
	"testing"

	"github.com/jeranaias/localrag-tui/internal/model"
)

func TestParse_NoTokens(t *testing.T) {
	inputs := []string{
		"",
		"plain query with no markers",
		"punctuation! and? symbols#",
		"multi\nline\ntext",
	}

	for _, input := range inputs {
		text, refs := Parse(input)
		if text != input {
			t.Errorf("Parse(%q) text = %q, want unchanged", input, text)
		}
		if len(refs) != 0 {
			t.Errorf("Parse(%q) refs = %v, want none", input, refs)
		}
	}
}

func TestParse_WebReference(t *testing.T) {
	text, refs := Parse("find @https://x.com/doc docs")

	if text != "find  docs" {
		t.Errorf("text = %q, want %q", text, "find  docs")
	}
	if len(refs) != 1 {
		t.Fatalf("expected 1 reference, got %d", len(refs))
	}
	if refs[0].Kind != model.ReferenceWeb {
		t.Errorf("kind = %q, want web", refs[0].Kind)
	}
	if refs[0].Source != "https://x.com/doc" {
		t.Errorf("source = %q", refs[0].Source)
	}
}

func TestParse_FileReference(t *testing.T) {
	text, refs := Parse("@report.pdf summarize")

	if text != "summarize" {
		t.Errorf("text = %q, want %q", text, "summarize")
	}
	if len(refs) != 1 {
		t.Fatalf("expected 1 reference, got %d", len(refs))
	}
	if refs[0].Kind != model.ReferenceFile {
		t.Errorf("kind = %q, want file", refs[0].Kind)
	}
	if refs[0].Source != "report.pdf" {
		t.Errorf("source = %q", refs[0].Source)
	}
}

func TestParse_BareDomainIsFile(t *testing.T) {
	// No http prefix means file, even for URL-shaped sources
	_, refs := Parse("read @example.com/doc please")
	if len(refs) != 1 || refs[0].Kind != model.ReferenceFile {
		t.Errorf("bare domain should classify as file, got %v", refs)
	}
}

func TestParse_MultipleReferences(t *testing.T) {
	text, refs := Parse("compare @a.pdf with @http://b.com/c now")

	if len(refs) != 2 {
		t.Fatalf("expected 2 references, got %d", len(refs))
	}
	if refs[0].Kind != model.ReferenceFile || refs[0].Source != "a.pdf" {
		t.Errorf("refs[0] = %v", refs[0])
	}
	if refs[1].Kind != model.ReferenceWeb || refs[1].Source != "http://b.com/c" {
		t.Errorf("refs[1] = %v", refs[1])
	}
	if text != "compare  with  now" {
		t.Errorf("text = %q", text)
	}
}

func TestParse_Idempotent(t *testing.T) {
	text, _ := Parse("find @report.pdf in the archive")

	again, refs := Parse(text)
	if again != text {
		t.Errorf("reparse changed text: %q -> %q", text, again)
	}
	if len(refs) != 0 {
		t.Errorf("reparse produced references: %v", refs)
	}
}

func TestActiveToken(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		cursor int
		token  string
		ok     bool
	}{
		{"mid token", "see @rep", 8, "rep", true},
		{"just after marker", "see @", 5, "", true},
		{"no marker", "see rep", 7, "", false},
		{"space breaks token", "see @rep x", 10, "", false},
		{"cursor out of range", "see", 99, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, _, ok := ActiveToken(tt.text, tt.cursor)
			if ok != tt.ok || token != tt.token {
				t.Errorf("ActiveToken(%q, %d) = (%q, %v), want (%q, %v)",
					tt.text, tt.cursor, token, ok, tt.token, tt.ok)
			}
		})
	}
}

func TestReplaceActiveToken(t *testing.T) {
	text, cursor := ReplaceActiveToken("see @rep now", 8, "report.pdf")
	if text != "see @report.pdf  now" {
		t.Errorf("text = %q", text)
	}
	if cursor != len([]rune("see @report.pdf ")) {
		t.Errorf("cursor = %d", cursor)
	}

	// No active token leaves input untouched
	text, cursor = ReplaceActiveToken("plain", 5, "x")
	if text != "plain" || cursor != 5 {
		t.Errorf("unexpected change: %q %d", text, cursor)
	}
}

func TestCaretOffset(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		cursor int
		m      Metrics
		want   Offset
	}{
		{"start", "hello", 0, Metrics{}, Offset{0, 0}},
		{"mid line", "hello", 3, Metrics{}, Offset{3, 0}},
		{"after newline", "ab\ncd", 4, Metrics{}, Offset{1, 1}},
		{"soft wrap", "abcdef", 6, Metrics{WrapWidth: 4}, Offset{2, 1}},
		{"wide runes", "日本", 2, Metrics{}, Offset{4, 0}},
		{"wide rune wraps whole", "a日", 2, Metrics{WrapWidth: 2}, Offset{2, 1}},
		{"cursor clamped", "ab", 99, Metrics{}, Offset{2, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CaretOffset(tt.text, tt.cursor, tt.m); got != tt.want {
				t.Errorf("CaretOffset = %+v, want %+v", got, tt.want)
			}
		})
	}
}
