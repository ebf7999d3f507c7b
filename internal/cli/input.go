/*
Package cli is an interactive terminal surface for trying the composer by
hand. It wraps a single-line text input, forwards every change to the
composer and renders the buffer with its entities and the open popup.
*/
package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/bastiangx/keymark/internal/utils"
	"github.com/bastiangx/keymark/pkg/composer"
	"github.com/bastiangx/keymark/pkg/entity"
)

// Options tunes the input surface.
type Options struct {
	Placeholder  string
	ShowEntities bool
}

type keyMap struct {
	Next    key.Binding
	Prev    key.Binding
	Accept  key.Binding
	Cancel  key.Binding
	Send    key.Binding
	Refresh key.Binding
	Quit    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Next:    key.NewBinding(key.WithKeys("down", "ctrl+n"), key.WithHelp("↓", "next")),
		Prev:    key.NewBinding(key.WithKeys("up", "ctrl+p"), key.WithHelp("↑", "prev")),
		Accept:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "insert key")),
		Cancel:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		Send:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "send")),
		Refresh: key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "reload keys")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

type sentMessage struct {
	Text     string
	Entities []entity.Entity
}

type catalogLoadedMsg struct{}

// Model is the bubbletea model of the input surface.
type Model struct {
	composer *composer.Composer
	input    textinput.Model
	keys     keyMap
	opts     Options

	sent   []sentMessage
	status string
	width  int
}

// NewModel wires c to a focused text input.
func NewModel(c *composer.Composer, opts Options) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = opts.Placeholder
	ti.Focus()

	return Model{
		composer: c,
		input:    ti,
		keys:     defaultKeyMap(),
		opts:     opts,
	}
}

// Run starts the program and blocks until the user quits.
func Run(c *composer.Composer, opts Options) error {
	if _, err := tea.NewProgram(NewModel(c, opts)).Run(); err != nil {
		return fmt.Errorf("run input: %w", err)
	}
	return nil
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.refreshCatalog())
}

func (m Model) refreshCatalog() tea.Cmd {
	c := m.composer
	return func() tea.Msg {
		<-c.RefreshAsync(context.Background())
		return catalogLoadedMsg{}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case catalogLoadedMsg:
		m.composer.Rematch()
		m.status = fmt.Sprintf("%d keys loaded", m.composer.CatalogSize())
		return m, nil

	case tea.KeyMsg:
		if m.composer.State().Session != nil {
			switch {
			case key.Matches(msg, m.keys.Next):
				m.composer.Next()
				return m, nil
			case key.Matches(msg, m.keys.Prev):
				m.composer.Prev()
				return m, nil
			case key.Matches(msg, m.keys.Accept):
				if m.composer.Accept() {
					m.syncInput()
				}
				return m, nil
			case key.Matches(msg, m.keys.Cancel):
				m.composer.Cancel()
				return m, nil
			}
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Refresh):
			m.status = "reloading keys..."
			return m, m.refreshCatalog()
		case key.Matches(msg, m.keys.Send):
			m.send()
			return m, nil
		}
	}

	prevText, prevCursor := m.input.Value(), m.byteCursor()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	text, cursor := m.input.Value(), m.byteCursor()

	switch {
	case text != prevText:
		m.composer.Edit(prevText, prevCursor, text, cursor)
	case cursor != prevCursor:
		m.composer.MoveCursor(cursor)
	}
	return m, cmd
}

// byteCursor converts the input's rune position to a byte offset.
func (m Model) byteCursor() int {
	return utils.RuneToByteOffset(m.input.Value(), m.input.Position())
}

// syncInput copies the composer buffer back into the text input after the
// composer rewrote it.
func (m *Model) syncInput() {
	st := m.composer.State()
	m.input.SetValue(st.Text)
	m.input.SetCursor(utils.ByteToRuneOffset(st.Text, st.Cursor))
}

func (m *Model) send() {
	st := m.composer.State()
	if strings.TrimSpace(st.Text) == "" {
		return
	}
	m.sent = append(m.sent, sentMessage{Text: st.Text, Entities: st.Entities})
	m.composer.Reset("")
	m.input.SetValue("")
	m.status = fmt.Sprintf("sent with %d keys", len(st.Entities))
}
