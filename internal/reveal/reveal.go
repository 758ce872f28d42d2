// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package reveal animates the progressive disclosure of an already-complete
// answer string.
//
// The renderer is a pure timing state machine: Idle until started, Revealing
// while the exposed prefix grows one rune per tick, Done once the full text
// is out. The answer itself never changes - only how much of it is shown.
// Sources stay hidden until Done so the panel appears after the text settles.
package reveal

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// State is the renderer's lifecycle position.
type State int

const (
	// StateIdle means Start has not been called.
	StateIdle State = iota
	// StateRevealing means the prefix is growing tick by tick.
	StateRevealing
	// StateDone means the full answer is exposed. Terminal.
	StateDone
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRevealing:
		return "revealing"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// DefaultInterval is the delay between revealed runes.
const DefaultInterval = 30 * time.Millisecond

// TickMsg advances the active renderer by one rune.
type TickMsg struct {
	Time time.Time
}

// =============================================================================
// RENDERER
// =============================================================================

// Renderer owns the reveal of one answer. At most one renderer is animating
// at any time (the turn marked new); historical turns use NewSettled and
// never tick.
type Renderer struct {
	runes      []rune
	k          int
	state      State
	interval   time.Duration
	hasSources bool
}

// New creates an idle renderer for a freshly received answer. hasSources
// should be the response's HasSources so deferred disclosure has something
// to defer.
func New(answer string, hasSources bool, interval time.Duration) *Renderer {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Renderer{
		runes:      []rune(answer),
		state:      StateIdle,
		interval:   interval,
		hasSources: hasSources,
	}
}

// NewSettled creates a renderer for a historical turn: fully exposed and Done
// from the first read, no animation.
func NewSettled(answer string, hasSources bool) *Renderer {
	r := []rune(answer)
	return &Renderer{
		runes:      r,
		k:          len(r),
		state:      StateDone,
		interval:   DefaultInterval,
		hasSources: hasSources,
	}
}

// Start transitions Idle -> Revealing and returns the first tick command.
// An empty answer completes immediately. Starting a non-idle renderer is a
// no-op returning nil.
func (r *Renderer) Start() tea.Cmd {
	if r.state != StateIdle {
		return nil
	}
	if len(r.runes) == 0 {
		r.state = StateDone
		return nil
	}
	r.state = StateRevealing
	return r.tickCmd()
}

// Advance exposes one more rune in response to a TickMsg and returns the
// command for the next tick, or nil once Done. Ticks arriving after
// cancellation find the renderer Done and are dropped without rescheduling.
func (r *Renderer) Advance() tea.Cmd {
	if r.state != StateRevealing {
		return nil
	}

	r.k++
	if r.k >= len(r.runes) {
		r.k = len(r.runes)
		r.state = StateDone
		return nil
	}
	return r.tickCmd()
}

// Cancel synchronously forces the full answer out and transitions to Done.
// Idempotent: cancelling a Done renderer is a no-op. The terminal state is
// always the complete text, never a truncated prefix.
func (r *Renderer) Cancel() {
	r.k = len(r.runes)
	r.state = StateDone
}

// Visible returns the currently exposed prefix.
func (r *Renderer) Visible() string {
	return string(r.runes[:r.k])
}

// Done reports whether the full answer is exposed.
func (r *Renderer) Done() bool { return r.state == StateDone }

// State returns the current lifecycle state.
func (r *Renderer) State() State { return r.state }

// SourcesVisible implements the deferred-disclosure contract: true iff the
// reveal is Done and the response actually carried at least one source.
func (r *Renderer) SourcesVisible() bool {
	return r.state == StateDone && r.hasSources
}

// tickCmd schedules the next TickMsg after the reveal interval.
func (r *Renderer) tickCmd() tea.Cmd {
	return tea.Tick(r.interval, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}
