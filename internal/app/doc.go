// Package app is the composition root for tensu.
//
// # Overview
//
// Run loads and validates the config, opens the log file, restores the
// saved UI state and builds the pieces that make up the dashboard:
//
//	config.Load ─> sensu.Client ─> Backend ─> fetch.Engine ─> state.Store
//	                                  │             ▲
//	                                  │          Poller <── ui.Model (Submit)
//	                                  └──────────────────> ui.Model (actions)
//
// Three goroutines run under one errgroup: the poller, the config watcher
// (only when a config file exists) and the Bubble Tea program. Quitting the
// UI cancels the others. The UI state is saved on the way out.
//
// # Poller
//
// The fetch engine is not safe for concurrent use, so the poller owns it
// and advances it from a single goroutine on a short ticker. The UI never
// touches the engine. It submits a state.Request describing the namespace,
// view and page size it wants. Only the newest pending request is kept.
// A namespace or view change resets the engine and the store's query
// before the next sweep starts. Every request forces a render.
//
// A failed sweep is logged, recorded in the store so the UI can show it,
// and abandoned. The last good list stays on screen and the next update
// retries.
//
// # Backend
//
// Backend holds the sensu.Client for the active namespace behind an atomic
// pointer. Fetch workers and UI actions call through it, so a namespace
// switch takes effect for both without either holding a stale client.
// Namespace-scoped clients share credentials, which the config watcher
// replaces when the file changes.
package app
