// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package settings provides the settings form: API keys, model selection,
// the web-search toggle, and the color theme.
//
// Edits live on a cloned Config until saved, so Esc always abandons cleanly.
// Save validates first and writes through config.Save, which persists the
// TOML file with owner-only permissions and installs the new snapshot as the
// process-wide configuration.
package settings

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/localrag-tui/internal/config"
	"github.com/jeranaias/localrag-tui/internal/ui/styles"
)

// field indexes into the form.
const (
	fieldOpenAIKey = iota
	fieldExaKey
	fieldModel
	fieldWebSearch
	fieldTheme
	fieldCount
)

var fieldLabels = [fieldCount]string{
	"OpenAI API key",
	"Exa API key",
	"Model",
	"Web search",
	"Theme",
}

var themeCycle = []string{"dark", "light", "auto"}

// =============================================================================
// MESSAGES
// =============================================================================

// SavedMsg reports a save attempt. On success the global config has already
// been replaced.
type SavedMsg struct {
	Cfg *config.Config
	Err error
}

// BackMsg asks the shell to return to the conversation view.
type BackMsg struct{}

// =============================================================================
// KEY MAP
// =============================================================================

// KeyMap defines the form's bindings.
type KeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Toggle key.Binding
	Save   key.Binding
	Back   key.Binding
}

// DefaultKeyMap returns the default bindings for the settings form.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:     key.NewBinding(key.WithKeys("up", "shift+tab"), key.WithHelp("up", "previous field")),
		Down:   key.NewBinding(key.WithKeys("down", "tab"), key.WithHelp("down", "next field")),
		Toggle: key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("Enter", "toggle / cycle")),
		Save:   key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("C-s", "save")),
		Back:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("Esc", "discard and close")),
	}
}

// =============================================================================
// MODEL
// =============================================================================

// Model is the Bubble Tea model for the settings form.
type Model struct {
	theme  *styles.Theme
	keyMap KeyMap

	// draft is the edited copy; the live config is untouched until save
	draft *config.Config

	inputs  [3]textinput.Model // key, key, model
	focused int

	status  string
	lastErr error

	width  int
	height int
}

// New creates the form seeded from the given configuration.
func New(cfg *config.Config, theme *styles.Theme) *Model {
	m := &Model{
		theme:  theme,
		keyMap: DefaultKeyMap(),
		draft:  cfg.Clone(),
		width:  80,
		height: 24,
	}

	for i := range m.inputs {
		in := textinput.New()
		in.Prompt = ""
		in.CharLimit = 256
		m.inputs[i] = in
	}

	m.inputs[fieldOpenAIKey].SetValue(cfg.Credentials.OpenAIKey)
	m.inputs[fieldOpenAIKey].EchoMode = textinput.EchoPassword
	m.inputs[fieldOpenAIKey].EchoCharacter = '*'
	m.inputs[fieldExaKey].SetValue(cfg.Credentials.ExaKey)
	m.inputs[fieldExaKey].EchoMode = textinput.EchoPassword
	m.inputs[fieldExaKey].EchoCharacter = '*'
	m.inputs[fieldModel].SetValue(cfg.Search.Model)

	m.setFocus(0)
	return m
}

// Init satisfies tea.Model conventions.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m *Model) setFocus(idx int) {
	m.focused = idx
	for i := range m.inputs {
		if i == idx {
			m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles all messages for the settings form.
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case SavedMsg:
		m.lastErr = msg.Err
		if msg.Err == nil {
			m.status = "saved"
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (*Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Back):
		return m, func() tea.Msg { return BackMsg{} }

	case key.Matches(msg, m.keyMap.Save):
		return m, m.saveCmd()

	case key.Matches(msg, m.keyMap.Up):
		m.setFocus((m.focused + fieldCount - 1) % fieldCount)
		return m, nil

	case key.Matches(msg, m.keyMap.Down):
		m.setFocus((m.focused + 1) % fieldCount)
		return m, nil

	case key.Matches(msg, m.keyMap.Toggle):
		switch m.focused {
		case fieldWebSearch:
			m.draft.Search.WebSearchEnabled = !m.draft.Search.WebSearchEnabled
			return m, nil
		case fieldTheme:
			m.draft.UI.Theme = nextTheme(m.draft.UI.Theme)
			return m, nil
		}
	}

	// Text fields take everything else
	if m.focused < len(m.inputs) {
		var cmd tea.Cmd
		m.inputs[m.focused], cmd = m.inputs[m.focused].Update(msg)
		return m, cmd
	}
	return m, nil
}

func nextTheme(current string) string {
	for i, t := range themeCycle {
		if t == current {
			return themeCycle[(i+1)%len(themeCycle)]
		}
	}
	return themeCycle[0]
}

// saveCmd folds the inputs into the draft, validates, and persists.
func (m *Model) saveCmd() tea.Cmd {
	m.draft.Credentials.OpenAIKey = strings.TrimSpace(m.inputs[fieldOpenAIKey].Value())
	m.draft.Credentials.ExaKey = strings.TrimSpace(m.inputs[fieldExaKey].Value())
	if v := strings.TrimSpace(m.inputs[fieldModel].Value()); v != "" {
		m.draft.Search.Model = v
	}

	draft := m.draft.Clone()
	return func() tea.Msg {
		if err := draft.Validate(); err != nil {
			return SavedMsg{Err: err}
		}
		if err := config.Save(draft); err != nil {
			return SavedMsg{Err: err}
		}
		return SavedMsg{Cfg: draft}
	}
}

// Draft exposes the edited configuration for tests and the shell.
func (m *Model) Draft() *config.Config { return m.draft }

// =============================================================================
// VIEW
// =============================================================================

// View renders the settings form.
func (m *Model) View() string {
	t := m.theme
	var b strings.Builder

	header := t.HeaderBrand.Render("localrag") + " " + t.HeaderTitle.Render("settings")
	b.WriteString(t.Header.Width(m.width).Render(header))
	b.WriteString("\n\n")

	for i := 0; i < fieldCount; i++ {
		label := t.FormLabel.Render(fieldLabels[i])

		var value string
		switch i {
		case fieldWebSearch:
			if m.draft.Search.WebSearchEnabled {
				value = t.StatusWebOn.Render("enabled")
			} else {
				value = t.StatusWebOff.Render("disabled")
			}
		case fieldTheme:
			value = m.draft.UI.Theme
		default:
			value = m.inputs[i].View()
		}

		marker := "  "
		if i == m.focused {
			marker = t.InputPrompt.Render("> ")
		}
		b.WriteString(marker + label + " " + value + "\n")
	}

	b.WriteString("\n")
	if m.lastErr != nil {
		b.WriteString(t.ErrorMessage.Render("error: "+m.lastErr.Error()) + "\n")
	} else if m.status != "" {
		b.WriteString(t.SuccessStyle.Render(m.status) + "\n")
	}

	if m.draft.Search.WebSearchEnabled && !m.draft.HasWebCredential() {
		b.WriteString(t.CredentialWarn.Render("web search is on but no Exa key is set") + "\n")
	}

	b.WriteString("\n")
	b.WriteString(t.ShortcutKey.Render("C-s") + t.ShortcutDesc.Render(" save  ") +
		t.ShortcutKey.Render("Enter") + t.ShortcutDesc.Render(" toggle  ") +
		t.ShortcutKey.Render("Esc") + t.ShortcutDesc.Render(" back"))

	return b.String()
}
