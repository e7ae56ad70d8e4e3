package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Escape     key.Binding
	ToggleLogs key.Binding

	// View switching
	ViewNotPassing key.Binding
	ViewAll        key.Binding
	ViewSilenced   key.Binding
	NextNamespace  key.Binding

	// Navigation
	Up       key.Binding
	Down     key.Binding
	Top      key.Binding
	Bottom   key.Binding
	PageUp   key.Binding
	PageDown key.Binding

	// Filters
	FilterFirst  key.Binding
	FilterSecond key.Binding
	FilterThird  key.Binding
	ClearFilters key.Binding

	// Item actions
	Detail        key.Binding
	Rerun         key.Binding
	Resolve       key.Binding
	Silence       key.Binding
	ClearSilences key.Binding
	DeleteSilence key.Binding
	Copy          key.Binding

	// Prompt
	Confirm key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q", "Q"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?", "h"),
			key.WithHelp("?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Close"),
		),
		ToggleLogs: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "Toggle log pane"),
		),

		ViewNotPassing: key.NewBinding(
			key.WithKeys("1", "alt+1"),
			key.WithHelp("1", "Not passing"),
		),
		ViewAll: key.NewBinding(
			key.WithKeys("2", "alt+2"),
			key.WithHelp("2", "All events"),
		),
		ViewSilenced: key.NewBinding(
			key.WithKeys("3", "alt+3"),
			key.WithHelp("3", "Silenced"),
		),
		NextNamespace: key.NewBinding(
			key.WithKeys("N"),
			key.WithHelp("N", "Next namespace"),
		),

		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Move down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Go to bottom"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("pgup", "Page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("pgdown", "Page down"),
		),

		FilterFirst: key.NewBinding(
			key.WithKeys("ctrl+f"),
			key.WithHelp("ctrl+f", "Filter host / name"),
		),
		FilterSecond: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("ctrl+n", "Filter check / creator"),
		),
		FilterThird: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("ctrl+o", "Filter output / reason"),
		),
		ClearFilters: key.NewBinding(
			key.WithKeys("ctrl+x"),
			key.WithHelp("ctrl+x", "Clear filters"),
		),

		Detail: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Show details"),
		),
		Rerun: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Re-run check"),
		),
		Resolve: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "Resolve event"),
		),
		Silence: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "Silence"),
		),
		ClearSilences: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "Clear silences"),
		),
		DeleteSilence: key.NewBinding(
			key.WithKeys("d", "delete"),
			key.WithHelp("d", "Delete silence"),
		),
		Copy: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "Copy name"),
		),

		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Confirm"),
		),
	}
}

// ShortHelp returns key bindings for the footer.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.ViewNotPassing, k.ViewAll, k.ViewSilenced, k.Detail, k.Help, k.Quit}
}

// FullHelp returns key bindings for the help overlay, one column per group.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.ViewNotPassing, k.ViewAll, k.ViewSilenced, k.NextNamespace},
		{k.Up, k.Down, k.Top, k.Bottom, k.PageUp, k.PageDown},
		{k.FilterFirst, k.FilterSecond, k.FilterThird, k.ClearFilters},
		{k.Detail, k.Rerun, k.Resolve, k.Silence, k.ClearSilences, k.DeleteSilence, k.Copy},
		{k.ToggleLogs, k.CycleTheme, k.Help, k.Quit},
	}
}
