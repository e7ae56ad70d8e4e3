package ui

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestGetTheme_FallsBackToNightfox(t *testing.T) {
	assert.Equal(t, "Nightfox", GetTheme("missing").Name)
	assert.Equal(t, "Slate", GetTheme("Slate").Name)
}

func TestNextTheme_Cycles(t *testing.T) {
	names := ThemeNames()
	current := names[0]
	for i := 0; i < len(names); i++ {
		current = NextTheme(current)
	}
	assert.Equal(t, names[0], current)
	assert.Equal(t, names[0], NextTheme("unknown"))
}

func TestThemes_HaveStatusColors(t *testing.T) {
	for _, name := range ThemeNames() {
		theme := GetTheme(name)
		for _, status := range []string{"passing", "warning", "failing", "unknown", "silenced"} {
			assert.NotEmpty(t, theme.StatusColors[status], "%s: %s", name, status)
		}
	}
}

func TestStatusStyle_UnknownLabelUsesMuted(t *testing.T) {
	theme := GetTheme("Nightfox")
	style := theme.Styles().StatusStyle("bogus")
	assert.Equal(t, lipgloss.Color(theme.Muted), style.GetBackground())
}
