// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package histsearch drives the chat-history search box.
//
// Keystrokes arrive faster than searches should run, and responses can land
// out of order. The controller debounces input with a fixed quiet period and
// stamps every request with a generation number; anything carrying a stale
// generation - a superseded debounce timer or a slow response - is dropped on
// arrival, so the displayed results always correspond to the newest query.
package histsearch

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/localrag-tui/internal/model"
)

// DefaultDebounce is the quiet period before a search fires.
const DefaultDebounce = 300 * time.Millisecond

// Searcher is the slice of the API client the controller needs.
type Searcher interface {
	SearchChats(ctx context.Context, query string) ([]model.ChatSearchResult, error)
}

// DebounceMsg fires when a query's quiet period elapses.
type DebounceMsg struct {
	Gen   int
	Query string
}

// ResultsMsg carries a finished search back to the update loop.
type ResultsMsg struct {
	Gen     int
	Query   string
	Results []model.ChatSearchResult
	Err     error
}

// =============================================================================
// CONTROLLER
// =============================================================================

// Controller owns the query/results state for the history search panel.
// It is driven entirely from the Bubble Tea update loop, so it needs no
// locking.
type Controller struct {
	searcher Searcher
	debounce time.Duration

	// gen increments on every keystroke; only messages carrying the
	// current generation are honored.
	gen int

	query     string
	results   []model.ChatSearchResult
	searching bool
	err       error
}

// NewController creates a controller with the given quiet period. A
// non-positive debounce falls back to the default.
func NewController(searcher Searcher, debounce time.Duration) *Controller {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Controller{
		searcher: searcher,
		debounce: debounce,
	}
}

// SetQuery records a keystroke. Empty (after trimming) queries clear results
// immediately with no network call; anything else schedules a debounce timer
// for the new generation, implicitly discarding any pending one.
func (c *Controller) SetQuery(query string) tea.Cmd {
	c.query = query
	c.gen++

	if strings.TrimSpace(query) == "" {
		c.results = nil
		c.err = nil
		c.searching = false
		return nil
	}

	gen := c.gen
	return tea.Tick(c.debounce, func(time.Time) tea.Msg {
		return DebounceMsg{Gen: gen, Query: query}
	})
}

// HandleDebounce dispatches the search when a quiet period elapses. Timers
// belonging to superseded generations are dropped here - this is what
// collapses rapid typing into a single request.
func (c *Controller) HandleDebounce(msg DebounceMsg) tea.Cmd {
	if msg.Gen != c.gen {
		return nil
	}

	c.searching = true
	return func() tea.Msg {
		results, err := c.searcher.SearchChats(context.Background(), msg.Query)
		return ResultsMsg{Gen: msg.Gen, Query: msg.Query, Results: results, Err: err}
	}
}

// HandleResults applies a finished search. Responses for superseded queries
// are dropped so an out-of-order completion can never overwrite fresher
// results. Returns true if the results were applied.
func (c *Controller) HandleResults(msg ResultsMsg) bool {
	if msg.Gen != c.gen {
		return false
	}

	c.searching = false
	if msg.Err != nil {
		c.err = msg.Err
		return true
	}
	c.err = nil
	c.results = msg.Results
	return true
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Query returns the current raw query string.
func (c *Controller) Query() string { return c.query }

// Results returns the results for the newest answered query.
func (c *Controller) Results() []model.ChatSearchResult { return c.results }

// Searching reports whether a request is outstanding for the current query.
func (c *Controller) Searching() bool { return c.searching }

// Err returns the failure of the newest answered query, if any.
func (c *Controller) Err() error { return c.err }
