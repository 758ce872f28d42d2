// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package documents provides the document management panel: listing,
// uploading, deleting, and downloading the files that back retrieval.
package documents

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/localrag-tui/internal/model"
	"github.com/jeranaias/localrag-tui/internal/ui/styles"
	"github.com/jeranaias/localrag-tui/internal/util"
)

// Gateway is the slice of the API client the panel needs.
type Gateway interface {
	GetDocuments(ctx context.Context) ([]model.Document, error)
	UploadDocument(ctx context.Context, filename string, r io.Reader) (*model.Document, error)
	DeleteDocument(ctx context.Context, name string) error
	DownloadDocument(ctx context.Context, name string) ([]byte, error)
}

// =============================================================================
// MESSAGES
// =============================================================================

// ListMsg carries the refreshed document list.
type ListMsg struct {
	Docs []model.Document
	Err  error
}

// UploadedMsg reports an upload finishing.
type UploadedMsg struct {
	Doc *model.Document
	Err error
}

// DeletedMsg reports a delete finishing.
type DeletedMsg struct {
	Name string
	Err  error
}

// DownloadedMsg reports a download landing on disk.
type DownloadedMsg struct {
	Path string
	Err  error
}

// BackMsg asks the shell to return to the conversation view.
type BackMsg struct{}

// =============================================================================
// KEY MAP
// =============================================================================

// KeyMap defines the panel's bindings.
type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Upload   key.Binding
	Delete   key.Binding
	Download key.Binding
	Confirm  key.Binding
	Back     key.Binding
}

// DefaultKeyMap returns the default bindings for the documents panel.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("up/k", "previous")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("down/j", "next")),
		Upload:   key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "upload")),
		Delete:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Download: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save locally")),
		Confirm:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("Enter", "confirm")),
		Back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("Esc", "back")),
	}
}

// =============================================================================
// MODEL
// =============================================================================

// Model is the Bubble Tea model for the documents panel.
type Model struct {
	theme  *styles.Theme
	keyMap KeyMap
	gw     Gateway

	docs     []model.Document
	selected int

	// prompting is true while the upload path input is open
	prompting bool
	pathInput textinput.Model

	status  string
	lastErr error

	width  int
	height int
}

// New creates the documents panel.
func New(gw Gateway, theme *styles.Theme) *Model {
	input := textinput.New()
	input.Placeholder = "path to file"
	input.Prompt = theme.InputPrompt.Render("upload: ")

	return &Model{
		theme:     theme,
		keyMap:    DefaultKeyMap(),
		gw:        gw,
		pathInput: input,
		width:     80,
		height:    24,
	}
}

// Init fetches the document list.
func (m *Model) Init() tea.Cmd {
	return m.listCmd()
}

func (m *Model) listCmd() tea.Cmd {
	gw := m.gw
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		docs, err := gw.GetDocuments(ctx)
		return ListMsg{Docs: docs, Err: err}
	}
}

func (m *Model) uploadCmd(path string) tea.Cmd {
	gw := m.gw
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return UploadedMsg{Err: err}
		}
		defer f.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		doc, err := gw.UploadDocument(ctx, filepath.Base(path), f)
		return UploadedMsg{Doc: doc, Err: err}
	}
}

func (m *Model) deleteCmd(name string) tea.Cmd {
	gw := m.gw
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return DeletedMsg{Name: name, Err: gw.DeleteDocument(ctx, name)}
	}
}

func (m *Model) downloadCmd(name string) tea.Cmd {
	gw := m.gw
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		data, err := gw.DownloadDocument(ctx, name)
		if err != nil {
			return DownloadedMsg{Err: err}
		}

		path := filepath.Join(".", name)
		if err := util.AtomicWriteFile(path, data, 0o644); err != nil {
			return DownloadedMsg{Err: err}
		}
		return DownloadedMsg{Path: path}
	}
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles all messages for the documents panel.
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.pathInput.Width = msg.Width - 16
		return m, nil

	case ListMsg:
		m.lastErr = msg.Err
		if msg.Err == nil {
			m.docs = msg.Docs
			if m.selected >= len(m.docs) {
				m.selected = len(m.docs) - 1
			}
			if m.selected < 0 {
				m.selected = 0
			}
		}
		return m, nil

	case UploadedMsg:
		m.lastErr = msg.Err
		if msg.Err == nil && msg.Doc != nil {
			m.status = "uploaded " + msg.Doc.Name
			return m, m.listCmd()
		}
		return m, nil

	case DeletedMsg:
		m.lastErr = msg.Err
		if msg.Err == nil {
			m.status = "deleted " + msg.Name
			return m, m.listCmd()
		}
		return m, nil

	case DownloadedMsg:
		m.lastErr = msg.Err
		if msg.Err == nil {
			m.status = "saved to " + msg.Path
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (*Model, tea.Cmd) {
	if m.prompting {
		switch {
		case key.Matches(msg, m.keyMap.Back):
			m.prompting = false
			m.pathInput.Blur()
			return m, nil
		case key.Matches(msg, m.keyMap.Confirm):
			path := strings.TrimSpace(m.pathInput.Value())
			m.prompting = false
			m.pathInput.Blur()
			m.pathInput.SetValue("")
			if path == "" {
				return m, nil
			}
			m.status = "uploading " + filepath.Base(path) + "..."
			return m, m.uploadCmd(path)
		}
		var cmd tea.Cmd
		m.pathInput, cmd = m.pathInput.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keyMap.Back):
		return m, func() tea.Msg { return BackMsg{} }

	case key.Matches(msg, m.keyMap.Up):
		if m.selected > 0 {
			m.selected--
		}
	case key.Matches(msg, m.keyMap.Down):
		if m.selected < len(m.docs)-1 {
			m.selected++
		}

	case key.Matches(msg, m.keyMap.Upload):
		m.prompting = true
		m.pathInput.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keyMap.Delete):
		if doc, ok := m.current(); ok {
			m.status = "deleting " + doc.Name + "..."
			return m, m.deleteCmd(doc.Name)
		}

	case key.Matches(msg, m.keyMap.Download):
		if doc, ok := m.current(); ok {
			m.status = "downloading " + doc.Name + "..."
			return m, m.downloadCmd(doc.Name)
		}
	}

	return m, nil
}

func (m *Model) current() (model.Document, bool) {
	if m.selected < 0 || m.selected >= len(m.docs) {
		return model.Document{}, false
	}
	return m.docs[m.selected], true
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the documents panel.
func (m *Model) View() string {
	t := m.theme
	var b strings.Builder

	header := t.HeaderBrand.Render("localrag") + " " + t.HeaderTitle.Render("documents")
	b.WriteString(t.Header.Width(m.width).Render(header))
	b.WriteString("\n")

	if m.prompting {
		b.WriteString(t.InputContainer.Width(m.width - 2).Render(m.pathInput.View()))
		b.WriteString("\n")
	}

	if m.lastErr != nil {
		b.WriteString(t.ErrorMessage.Render("error: " + m.lastErr.Error()))
		b.WriteString("\n")
	} else if m.status != "" {
		b.WriteString(t.InfoStyle.Render(m.status))
		b.WriteString("\n")
	}

	if len(m.docs) == 0 {
		b.WriteString(t.HistoryMeta.Render("  no documents uploaded - press u to add one"))
		return b.String()
	}

	for i, doc := range m.docs {
		name := util.TruncateWidth(doc.Name, m.width-30)
		line := name + "  " + t.PickerMeta.Render(doc.Type+"  "+doc.Size+"  "+doc.UploadDate)
		if i == m.selected {
			b.WriteString(t.HistoryItemSelected.Render("> " + line))
		} else {
			b.WriteString(t.HistoryItem.Render("  " + line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(t.ShortcutKey.Render("u") + t.ShortcutDesc.Render(" upload  ") +
		t.ShortcutKey.Render("d") + t.ShortcutDesc.Render(" delete  ") +
		t.ShortcutKey.Render("s") + t.ShortcutDesc.Render(" save  ") +
		t.ShortcutKey.Render("Esc") + t.ShortcutDesc.Render(" back"))

	return b.String()
}
