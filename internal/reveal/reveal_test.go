// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package reveal

import (
	"testing"
	"time"
)

func TestReveal_FullSequence(t *testing.T) {
	r := New("hello", true, time.Millisecond)

	if r.State() != StateIdle {
		t.Fatalf("state = %v, want idle", r.State())
	}

	if cmd := r.Start(); cmd == nil {
		t.Fatal("Start must schedule the first tick")
	}
	if r.State() != StateRevealing {
		t.Fatalf("state = %v, want revealing", r.State())
	}

	// Exactly 5 ticks expose the 5-rune answer
	for i := 1; i <= 5; i++ {
		cmd := r.Advance()
		if got, want := r.Visible(), "hello"[:i]; got != want {
			t.Errorf("after tick %d: visible = %q, want %q", i, got, want)
		}
		if i < 5 && cmd == nil {
			t.Errorf("tick %d: expected a follow-up tick command", i)
		}
		if i == 5 && cmd != nil {
			t.Error("final tick must not reschedule")
		}
	}

	if !r.Done() {
		t.Error("renderer should be Done after the final tick")
	}
	if r.Visible() != "hello" {
		t.Errorf("visible = %q", r.Visible())
	}
}

func TestReveal_CancelMidway(t *testing.T) {
	r := New("hello", false, time.Millisecond)
	r.Start()
	r.Advance()
	r.Advance()

	if r.Visible() != "he" {
		t.Fatalf("visible = %q, want %q", r.Visible(), "he")
	}

	r.Cancel()
	if !r.Done() {
		t.Error("cancel must transition to Done")
	}
	if r.Visible() != "hello" {
		t.Errorf("cancel must expose the full text, got %q", r.Visible())
	}

	// Idempotent: cancelling again changes nothing
	r.Cancel()
	if r.Visible() != "hello" || !r.Done() {
		t.Error("second cancel must be a no-op")
	}

	// A stale tick arriving after cancellation is dropped
	if cmd := r.Advance(); cmd != nil {
		t.Error("tick after cancel must not reschedule")
	}
	if r.Visible() != "hello" {
		t.Errorf("stale tick corrupted state: %q", r.Visible())
	}
}

func TestReveal_SourcesDeferredUntilDone(t *testing.T) {
	r := New("hi", true, time.Millisecond)
	r.Start()

	if r.SourcesVisible() {
		t.Error("sources must stay hidden while revealing")
	}

	r.Advance()
	r.Advance()

	if !r.Done() {
		t.Fatal("expected Done")
	}
	if !r.SourcesVisible() {
		t.Error("sources should be visible once Done")
	}
}

func TestReveal_NoSourcesNeverVisible(t *testing.T) {
	r := NewSettled("answer", false)
	if r.SourcesVisible() {
		t.Error("a sourceless answer never shows the panel")
	}
}

func TestReveal_SettledSkipsAnimation(t *testing.T) {
	r := NewSettled("historical answer", true)

	if !r.Done() {
		t.Error("settled renderer must be Done immediately")
	}
	if r.Visible() != "historical answer" {
		t.Errorf("visible = %q", r.Visible())
	}
	if !r.SourcesVisible() {
		t.Error("settled turns disclose sources immediately")
	}
}

func TestReveal_EmptyAnswer(t *testing.T) {
	r := New("", false, time.Millisecond)
	if cmd := r.Start(); cmd != nil {
		t.Error("empty answer must complete without ticking")
	}
	if !r.Done() || r.Visible() != "" {
		t.Errorf("state = %v, visible = %q", r.State(), r.Visible())
	}
}

func TestReveal_StartTwice(t *testing.T) {
	r := New("abc", false, time.Millisecond)
	r.Start()
	if cmd := r.Start(); cmd != nil {
		t.Error("second Start must be a no-op")
	}
}

func TestReveal_MultibyteAnswer(t *testing.T) {
	r := New("日本語", false, time.Millisecond)
	r.Start()

	r.Advance()
	if r.Visible() != "日" {
		t.Errorf("visible = %q, want one full rune", r.Visible())
	}

	r.Advance()
	r.Advance()
	if !r.Done() || r.Visible() != "日本語" {
		t.Errorf("state = %v, visible = %q", r.State(), r.Visible())
	}
}
