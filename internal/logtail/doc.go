// Package logtail reads and formats tensu's own log file.
//
// # Overview
//
// tensu owns the terminal while it runs, so it logs JSON records to
// <log_dir>/tensu.log instead of stderr. This package reads the tail of that
// file and turns records back into readable lines for `tensu logs` and the
// in-app log pane.
//
// # Reading Log Files
//
// Read uses a ring buffer of size maxLines, so only the last lines of a large
// file are held in memory:
//
//	lines, err := logtail.Read(cfg.LogPath(), 200)
//
// A missing file is not an error; Read returns nil, nil.
//
// # Formatting
//
// FormatLine decodes one slog JSON record and prints it as
//
//	2025-10-08 21:01:05 WARN  [poller] sweep failed error="bad gateway" status=502
//
// with time, level, and component colored via lipgloss when color is true.
// Attributes are sorted by key. Lines that are not JSON objects (a panic trace,
// for instance) pass through unchanged.
package logtail
