// Package ui provides the terminal dashboard for tensu.
//
// # Architecture Overview
//
// The UI is a Bubble Tea program. It never talks to the fetch engine
// directly: the app poller owns the engine and publishes into state.Store,
// and the UI pulls a snapshot on every tick. What the UI wants listed flows
// back the other way as a state.Request handed to the Poller interface.
//
//	tick ──> store.Snapshot() ──> ApplyFilters ──> rows
//	keys ──> Poller.Submit(state.Request{Namespace, View, Limit})
//	keys ──> Backend (re-run, resolve, silence, delete silence)
//
// # Package Structure
//
//   - app.go: Model, Update loop, key handling and Run
//   - render.go: status bar, view tabs, event and silence rows, footer
//   - modal.go: Modal interface and the one-line prompt
//   - detail.go: scrollable detail pane for one item
//   - actions.go: messages and commands that call the backend
//   - keys.go / help.go: key map and help overlay
//   - theme.go / style_helpers.go: palettes and background-safe rendering
//
// # Views
//
// Three lists are available, matching state.Views:
//
//   - 1 Not Passing: events whose check state is not passing
//   - 2 All: every event
//   - 3 Silenced: silencing entries
//
// Switching view or namespace submits a new request; the poller resets the
// engine so the list refills from the first page.
//
// # Page Size
//
// The page limit sent to the backend is the larger of max_fetch_events and
// the number of list rows, so the first page of a cold start fills the
// screen. Resizing the terminal resubmits the request when that changes.
//
// # Filters
//
// ctrl+f, ctrl+n and ctrl+o edit regular expressions on host, check and
// output (events) or name, creator and reason (silences). Filters are
// applied at render time and persisted with the rest of the UI state.
//
// # Key Bindings
//
//   - 1/2/3: Switch view
//   - N: Next namespace
//   - j/k, pgup/pgdown, g/G: Move selection
//   - enter: Show details
//   - r / R: Re-run check / resolve event
//   - s / c: Silence event / clear its silences
//   - d: Delete silence
//   - y: Copy name to clipboard
//   - L: Toggle log pane
//   - T: Cycle theme
//   - ?: Help
//   - q or Ctrl+C: Exit
package ui
