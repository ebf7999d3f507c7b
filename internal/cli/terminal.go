package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/bastiangx/keymark/pkg/composer"
	"github.com/bastiangx/keymark/pkg/entity"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("75"))
	entityStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("75"))
	chipStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("75")).Border(lipgloss.RoundedBorder()).Padding(0, 1)
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	matchStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	popupStyle    = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("241")).Padding(0, 1)
)

// maxPopupRows caps how many candidates are drawn at once.
const maxPopupRows = 8

func (m Model) View() string {
	st := m.composer.State()

	var b strings.Builder
	b.WriteString(titleStyle.Render("keymark"))
	if m.status != "" {
		b.WriteString("  " + dimStyle.Render(m.status))
	}
	b.WriteString("\n\n")

	for _, msg := range m.sent {
		b.WriteString(dimStyle.Render("sent: ") + renderHighlighted(msg.Text, msg.Entities) + "\n")
	}
	if len(m.sent) > 0 {
		b.WriteString("\n")
	}

	b.WriteString(m.input.View() + "\n")
	if st.Text != "" {
		b.WriteString("  " + renderHighlighted(st.Text, st.Entities) + "\n")
	}
	if popup := renderSession(st.Session); popup != "" {
		b.WriteString(popup + "\n")
	}
	if m.opts.ShowEntities && len(st.Entities) > 0 {
		b.WriteString(renderChips(st.Entities) + "\n")
	}

	b.WriteString("\n" + dimStyle.Render(m.helpLine(st.Session != nil)))
	return b.String()
}

// renderHighlighted draws text with its entity spans marked.
func renderHighlighted(text string, entities []entity.Entity) string {
	var b strings.Builder
	for _, seg := range entity.Segments(text, entities) {
		if seg.IsEntity {
			b.WriteString(entityStyle.Render(seg.Text))
			continue
		}
		b.WriteString(seg.Text)
	}
	return b.String()
}

func renderSession(s *composer.Session) string {
	if s == nil || len(s.Matches) == 0 {
		return ""
	}

	first := 0
	if s.Selected >= maxPopupRows {
		first = s.Selected - maxPopupRows + 1
	}
	last := min(first+maxPopupRows, len(s.Matches))

	rows := make([]string, 0, last-first+1)
	for i := first; i < last; i++ {
		if i == s.Selected {
			rows = append(rows, selectedStyle.Render("› "+s.Matches[i]))
			continue
		}
		rows = append(rows, matchStyle.Render("  "+s.Matches[i]))
	}
	rows = append(rows, dimStyle.Render(fmt.Sprintf("%d/%d  %s %q", s.Selected+1, len(s.Matches), s.Tier, s.Prefix)))
	return popupStyle.Render(strings.Join(rows, "\n"))
}

func renderChips(entities []entity.Entity) string {
	chips := make([]string, 0, len(entities)+1)
	chips = append(chips, dimStyle.Render("Entities:"))
	for _, e := range entities {
		chips = append(chips, chipStyle.Render(e.ID))
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, chips...)
}

func (m Model) helpLine(sessionOpen bool) string {
	bindings := []string{}
	if sessionOpen {
		for _, k := range []key.Help{m.keys.Next.Help(), m.keys.Prev.Help(), m.keys.Accept.Help(), m.keys.Cancel.Help()} {
			bindings = append(bindings, k.Key+" "+k.Desc)
		}
	}
	for _, k := range []key.Help{m.keys.Send.Help(), m.keys.Refresh.Help(), m.keys.Quit.Help()} {
		bindings = append(bindings, k.Key+" "+k.Desc)
	}
	return strings.Join(bindings, " • ")
}
