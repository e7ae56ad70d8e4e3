// Package state provides thread-safe state shared between the poller and the UI.
//
// # Overview
//
// The poller goroutine owns the fetch engine and is the only writer. The
// Store implements fetch.Observer, so the engine's Render and Status calls
// land here directly; the UI reads a copy on its own refresh tick.
//
//	Poller (owns fetch.Engine):      UI (bubbletea):
//	┌──────────────────────┐         ┌────────────────┐
//	│ GetResourceItems()   │         │                │
//	│   → store.Render()   │         │                │
//	│   → store.Status()   │────────→│ store.Snapshot()│
//	│ store.Update(t, err) │ (mutex) │      ↓         │
//	│   repeat...          │         │  render view   │
//	└──────────────────────┘         └────────────────┘
//
// # Update Semantics
//
// Update records the outcome of a sweep:
//
//	store.Update(lastUpdated, nil)  // clears LastError, resets failures
//	store.Update(time.Time{}, err)  // keeps items, records err, failures++
//
// Items are never cleared by an error, so the last good sweep stays on screen.
// SetQuery is the only call that drops items, used when the view or namespace
// changes.
//
// # Views and Filters
//
// A View names one of the three lists (not passing, all events, silences)
// and builds the fetch.Query for it. ApplyFilters narrows a snapshot with the
// user's regular expressions at render time; the engine never sees them.
//
// # Defensive Copying
//
// Render and Snapshot clone the item slice header. Items themselves are
// treated as read-only by every consumer.
package state
