package ui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Modal is the interface for dialogs drawn over the list. Update returns
// the updated modal, a command, and whether the modal should close.
type Modal interface {
	Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool)
	View(theme Theme, width, height int) string
}

type promptKind int

const (
	promptFilterFirst promptKind = iota
	promptFilterSecond
	promptFilterThird
	promptSilenceEntry
	promptSilenceReason
)

// promptModal asks for one line of text. Submitted is false when the user
// backed out with esc.
type promptModal struct {
	kind      promptKind
	title     string
	input     textinput.Model
	submitted bool

	// entry carries the silencing entry from the first silence prompt to
	// the reason prompt.
	entry string
}

func newPrompt(kind promptKind, title, value, placeholder string) *promptModal {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = placeholder
	ti.CharLimit = 256
	ti.SetValue(value)
	ti.CursorEnd()
	ti.Focus()
	return &promptModal{kind: kind, title: title, input: ti}
}

// Value is the text the user entered.
func (p *promptModal) Value() string {
	return p.input.Value()
}

func (p *promptModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(km, keys.Confirm):
			p.submitted = true
			return p, nil, true
		case key.Matches(km, keys.Escape), km.String() == "ctrl+c":
			return p, nil, true
		}
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd, false
}

func (p *promptModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	boxWidth := clamp(width-10, 20, 70)
	p.input.Width = boxWidth - 6

	body := lipgloss.JoinVertical(lipgloss.Left,
		styles.AccentText.Bold(true).Render(p.title),
		"",
		p.input.View(),
		"",
		styles.FaintText.Render("enter confirm  esc cancel"),
	)
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.BorderFocus)).
		Padding(1, 2).
		Width(boxWidth).
		Render(body)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(theme.Background)),
	)
}
