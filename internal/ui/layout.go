package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which compact mode is used.
	LayoutCompactWidth = 100

	// LayoutWideWidth is the minimum width to show the age column.
	LayoutWideWidth = 120
)

// Rows taken by chrome around the list: header, view bar, column header
// and footer.
const chromeRows = 4

// logPaneRows is the height of the log pane when it is shown.
const logPaneRows = 8

// Timing constants.
const (
	// DefaultUIInterval is how often the UI pulls a snapshot from the store.
	DefaultUIInterval = 200 * time.Millisecond

	// ActionTimeout bounds each user-triggered API call.
	ActionTimeout = 10 * time.Second
)
