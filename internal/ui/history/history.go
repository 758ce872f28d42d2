// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package history provides the chat-history panel: a browsable list of past
// conversations with debounced full-text search.
//
// The list comes from the backend and is mirrored into the local SQLite
// cache on every successful fetch; when the backend is unreachable the panel
// falls back to the mirror and flags itself offline. Search goes through
// histsearch.Controller, so rapid typing collapses to one request and stale
// responses never overwrite fresher results.
package history

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/localrag-tui/internal/histcache"
	"github.com/jeranaias/localrag-tui/internal/histsearch"
	"github.com/jeranaias/localrag-tui/internal/model"
	"github.com/jeranaias/localrag-tui/internal/ui/styles"
	"github.com/jeranaias/localrag-tui/internal/util"
)

// Gateway is the slice of the API client the panel needs.
type Gateway interface {
	histsearch.Searcher
	GetChats(ctx context.Context) ([]model.Chat, error)
	DeleteChat(ctx context.Context, id string) error
	DeleteAllChats(ctx context.Context) error
}

// =============================================================================
// MESSAGES
// =============================================================================

// ChatsMsg carries the refreshed chat list. Offline marks a cache fallback.
type ChatsMsg struct {
	Summaries []histcache.Summary
	Offline   bool
	Err       error
}

// DeletedMsg reports a single-chat delete finishing.
type DeletedMsg struct {
	ID  string
	Err error
}

// ClearedMsg reports a delete-all finishing.
type ClearedMsg struct {
	Err error
}

// OpenChatMsg asks the shell to open the selected conversation.
type OpenChatMsg struct {
	ID string
}

// BackMsg asks the shell to return to the conversation view.
type BackMsg struct{}

// =============================================================================
// KEY MAP
// =============================================================================

// KeyMap defines the panel's bindings. Printable keys go to the search box.
type KeyMap struct {
	Up        key.Binding
	Down      key.Binding
	Open      key.Binding
	Delete    key.Binding
	DeleteAll key.Binding
	Back      key.Binding
}

// DefaultKeyMap returns the default bindings for the history panel.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:        key.NewBinding(key.WithKeys("up"), key.WithHelp("up", "previous")),
		Down:      key.NewBinding(key.WithKeys("down"), key.WithHelp("down", "next")),
		Open:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("Enter", "open")),
		Delete:    key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("C-d", "delete")),
		DeleteAll: key.NewBinding(key.WithKeys("ctrl+x"), key.WithHelp("C-x", "delete all")),
		Back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("Esc", "back")),
	}
}

// =============================================================================
// MODEL
// =============================================================================

// row is one display line, either a plain summary or a search hit.
type row struct {
	id      string
	title   string
	meta    string
	preview string
}

// Model is the Bubble Tea model for the history panel.
type Model struct {
	theme  *styles.Theme
	keyMap KeyMap

	gw    Gateway
	cache *histcache.Cache
	ctrl  *histsearch.Controller

	input    textinput.Model
	rows     []row
	selected int
	offline  bool
	lastErr  error

	width  int
	height int
}

// New creates the history panel. cache may be nil when the local mirror is
// disabled in config.
func New(gw Gateway, cache *histcache.Cache, debounce time.Duration, theme *styles.Theme) *Model {
	input := textinput.New()
	input.Placeholder = "type to search history"
	input.Prompt = theme.InputPrompt.Render("/ ")
	input.Focus()

	return &Model{
		theme:  theme,
		keyMap: DefaultKeyMap(),
		gw:     gw,
		cache:  cache,
		ctrl:   histsearch.NewController(gw, debounce),
		input:  input,
		width:  80,
		height: 24,
	}
}

// Init fetches the chat list.
func (m *Model) Init() tea.Cmd {
	return m.loadChatsCmd()
}

// loadChatsCmd fetches from the backend, refreshing the mirror on success
// and falling back to it when the server is unreachable.
func (m *Model) loadChatsCmd() tea.Cmd {
	gw, cache := m.gw, m.cache
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		chats, err := gw.GetChats(ctx)
		if err == nil {
			if cache != nil {
				if cerr := cache.Refresh(chats); cerr != nil {
					// Mirror failures never block the live list
					_ = cerr
				}
			}
			return ChatsMsg{Summaries: summarize(chats)}
		}

		if cache != nil {
			if cached, cerr := cache.List(); cerr == nil {
				return ChatsMsg{Summaries: cached, Offline: true, Err: err}
			}
		}
		return ChatsMsg{Err: err}
	}
}

func summarize(chats []model.Chat) []histcache.Summary {
	out := make([]histcache.Summary, 0, len(chats))
	for _, c := range chats {
		out = append(out, histcache.Summary{
			ID:           c.ID,
			Title:        c.Title,
			MessageCount: len(c.Messages),
			LastUpdated:  c.LastUpdated,
		})
	}
	return out
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles all messages for the history panel.
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = msg.Width - 8
		return m, nil

	case ChatsMsg:
		m.offline = msg.Offline
		if msg.Err != nil && !msg.Offline {
			m.lastErr = msg.Err
			return m, nil
		}
		m.lastErr = nil
		m.setSummaryRows(msg.Summaries)
		return m, nil

	case histsearch.DebounceMsg:
		return m, m.ctrl.HandleDebounce(msg)

	case histsearch.ResultsMsg:
		if m.ctrl.HandleResults(msg) {
			m.setSearchRows()
		}
		return m, nil

	case DeletedMsg, ClearedMsg:
		// Reload after any delete so the list reflects the server
		return m, m.loadChatsCmd()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (*Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Back):
		return m, func() tea.Msg { return BackMsg{} }

	case key.Matches(msg, m.keyMap.Up):
		if m.selected > 0 {
			m.selected--
		}
		return m, nil

	case key.Matches(msg, m.keyMap.Down):
		if m.selected < len(m.rows)-1 {
			m.selected++
		}
		return m, nil

	case key.Matches(msg, m.keyMap.Open):
		if r, ok := m.current(); ok {
			return m, func() tea.Msg { return OpenChatMsg{ID: r.id} }
		}
		return m, nil

	case key.Matches(msg, m.keyMap.Delete):
		if r, ok := m.current(); ok {
			return m, m.deleteCmd(r.id)
		}
		return m, nil

	case key.Matches(msg, m.keyMap.DeleteAll):
		return m, m.clearCmd()
	}

	// Everything else edits the search box
	var cmd tea.Cmd
	before := m.input.Value()
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		searchCmd := m.ctrl.SetQuery(m.input.Value())
		if strings.TrimSpace(m.input.Value()) == "" {
			// Cleared query: back to the plain list
			return m, tea.Batch(cmd, m.loadChatsCmd())
		}
		return m, tea.Batch(cmd, searchCmd)
	}
	return m, cmd
}

func (m *Model) deleteCmd(id string) tea.Cmd {
	gw, cache := m.gw, m.cache
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		err := gw.DeleteChat(ctx, id)
		if err == nil && cache != nil {
			_ = cache.Remove(id)
		}
		return DeletedMsg{ID: id, Err: err}
	}
}

func (m *Model) clearCmd() tea.Cmd {
	gw, cache := m.gw, m.cache
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		err := gw.DeleteAllChats(ctx)
		if err == nil && cache != nil {
			_ = cache.Clear()
		}
		return ClearedMsg{Err: err}
	}
}

// =============================================================================
// ROW BUILDING
// =============================================================================

func (m *Model) setSummaryRows(summaries []histcache.Summary) {
	m.rows = m.rows[:0]
	for _, s := range summaries {
		title := s.Title
		if title == "" {
			title = "(untitled)"
		}
		m.rows = append(m.rows, row{
			id:    s.ID,
			title: title,
			meta:  util.TimeAgo(s.LastUpdated) + " - " + formatCount(s.MessageCount),
		})
	}
	m.clampSelection()
}

func (m *Model) setSearchRows() {
	query := m.ctrl.Query()
	mark := func(s string) string { return m.theme.HistoryMatch.Render(s) }
	m.rows = m.rows[:0]
	for _, r := range m.ctrl.Results() {
		preview := ""
		if len(r.PreviewMessages) > 0 {
			text := strings.ReplaceAll(r.PreviewMessages[0].Content, "\n", " ")
			preview = histsearch.HighlightMatch(
				util.TruncateRunes(text, 120),
				query,
				mark,
			)
		}
		m.rows = append(m.rows, row{
			id:      r.ID,
			title:   histsearch.HighlightMatch(r.Title, query, mark),
			meta:    util.TimeAgo(r.LastUpdated) + " - " + formatMatches(r.MatchCount),
			preview: preview,
		})
	}
	m.clampSelection()
}

func (m *Model) clampSelection() {
	if m.selected >= len(m.rows) {
		m.selected = len(m.rows) - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

func (m *Model) current() (row, bool) {
	if m.selected < 0 || m.selected >= len(m.rows) {
		return row{}, false
	}
	return m.rows[m.selected], true
}

func formatCount(n int) string {
	if n == 1 {
		return "1 message"
	}
	return strconv.Itoa(n) + " messages"
}

func formatMatches(n int) string {
	if n == 1 {
		return "1 match"
	}
	return strconv.Itoa(n) + " matches"
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the history panel.
func (m *Model) View() string {
	t := m.theme
	var b strings.Builder

	header := t.HeaderBrand.Render("localrag") + " " + t.HeaderTitle.Render("history")
	if m.offline {
		header += "  " + t.HistoryOffline.Render("offline - showing cached list")
	}
	b.WriteString(t.Header.Width(m.width).Render(header))
	b.WriteString("\n")

	b.WriteString(t.InputContainer.Width(m.width - 2).Render(m.input.View()))
	b.WriteString("\n")

	if m.ctrl.Searching() {
		b.WriteString(t.SearchingText.Render("searching..."))
		b.WriteString("\n")
	}
	if m.lastErr != nil {
		b.WriteString(t.ErrorMessage.Render("could not load history: " + m.lastErr.Error()))
		b.WriteString("\n")
	}
	if err := m.ctrl.Err(); err != nil {
		b.WriteString(t.ErrorMessage.Render("search failed: " + err.Error()))
		b.WriteString("\n")
	}

	if len(m.rows) == 0 {
		b.WriteString(t.HistoryMeta.Render("  no conversations"))
		return b.String()
	}

	visible := m.height - 6
	if visible < 1 {
		visible = 1
	}
	start := 0
	if m.selected >= visible {
		start = m.selected - visible + 1
	}

	for i := start; i < len(m.rows) && i < start+visible; i++ {
		r := m.rows[i]
		line := t.HistoryTitle.Render(r.title) + "  " + t.HistoryMeta.Render(r.meta)
		if i == m.selected {
			b.WriteString(t.HistoryItemSelected.Render("> " + line))
		} else {
			b.WriteString(t.HistoryItem.Render("  " + line))
		}
		b.WriteString("\n")
		if r.preview != "" {
			b.WriteString(t.HistoryMeta.Render("      " + r.preview))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(t.ShortcutKey.Render("Enter") + t.ShortcutDesc.Render(" open  ") +
		t.ShortcutKey.Render("C-d") + t.ShortcutDesc.Render(" delete  ") +
		t.ShortcutKey.Render("C-x") + t.ShortcutDesc.Render(" delete all  ") +
		t.ShortcutKey.Render("Esc") + t.ShortcutDesc.Render(" back"))

	return b.String()
}
