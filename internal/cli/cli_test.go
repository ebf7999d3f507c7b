package cli

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bastiangx/keymark/pkg/composer"
	"github.com/bastiangx/keymark/pkg/entity"
)

func init() {
	log.SetLevel(log.ErrorLevel)
}

func newTestModel(keys ...string) (Model, *composer.Composer) {
	c := composer.New(composer.Options{})
	c.SetCatalog(keys)
	return NewModel(c, Options{ShowEntities: true}), c
}

func typeText(m Model, s string) Model {
	for _, r := range s {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = next.(Model)
	}
	return m
}

func press(m Model, k tea.KeyType) Model {
	next, _ := m.Update(tea.KeyMsg{Type: k})
	return next.(Model)
}

func TestTypingOpensPopupAndTabInserts(t *testing.T) {
	m, c := newTestModel("alpha", "alpine", "beta")

	m = typeText(m, "al")
	require.NotNil(t, c.State().Session)
	assert.Contains(t, m.View(), "alpine")

	m = press(m, tea.KeyDown)
	assert.Equal(t, "alpine", c.State().Session.Current())

	m = press(m, tea.KeyTab)
	assert.Equal(t, "alpine", m.input.Value())
	assert.Equal(t, 6, m.input.Position())
	assert.Equal(t, []entity.Entity{entity.NewKey("alpine", 0)}, c.State().Entities)
	assert.Contains(t, m.View(), "Entities:")

	m = typeText(m, " b")
	require.NotNil(t, c.State().Session)
	m = press(m, tea.KeyTab)
	assert.Equal(t, "alpine beta", m.input.Value())
	assert.Len(t, c.State().Entities, 2)
}

func TestBackspaceDropsEntity(t *testing.T) {
	m, c := newTestModel("alpha")
	m = typeText(m, "al")
	m = press(m, tea.KeyTab)
	require.Len(t, c.State().Entities, 1)

	m = press(m, tea.KeyBackspace)
	assert.Equal(t, "alph", m.input.Value())
	assert.Empty(t, c.State().Entities)
}

func TestEscClosesPopup(t *testing.T) {
	m, c := newTestModel("alpha")
	m = typeText(m, "al")
	require.NotNil(t, c.State().Session)

	m = press(m, tea.KeyEsc)
	assert.Nil(t, c.State().Session)
	assert.Equal(t, "al", m.input.Value())
}

func TestCursorMovesAreForwarded(t *testing.T) {
	m, c := newTestModel("zeta")
	m = typeText(m, "ab")
	m = press(m, tea.KeyLeft)
	assert.Equal(t, 1, c.State().Cursor)
}

func TestSend(t *testing.T) {
	m, c := newTestModel("alpha")
	m = typeText(m, "al")
	m = press(m, tea.KeyTab)
	m = press(m, tea.KeyEnter)

	assert.Equal(t, "", m.input.Value())
	assert.Equal(t, "", c.State().Text)
	require.Len(t, m.sent, 1)
	assert.Equal(t, "alpha", m.sent[0].Text)
	assert.Len(t, m.sent[0].Entities, 1)

	m = press(m, tea.KeyEnter)
	assert.Len(t, m.sent, 1, "blank buffers are not sent")
}

func TestCatalogLoadedRematches(t *testing.T) {
	c := composer.New(composer.Options{})
	m := NewModel(c, Options{})
	m = typeText(m, "al")
	require.Nil(t, c.State().Session)

	c.SetCatalog([]string{"alpha"})
	c.Cancel()
	next, _ := m.Update(catalogLoadedMsg{})
	m = next.(Model)
	assert.NotNil(t, c.State().Session)
	assert.Equal(t, "1 keys loaded", m.status)
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel()
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
