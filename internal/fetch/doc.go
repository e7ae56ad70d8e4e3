// Package fetch pulls paginated resource collections in the background and
// hands complete snapshots to a renderer.
//
// # Overview
//
// The UI redraws many times a second and must never wait on the network. The
// Engine is therefore driven by repeated, non-blocking calls to
// GetResourceItems from the goroutine that owns it. Each call does a small,
// bounded amount of work and returns.
//
// # Sweeps
//
// A sweep walks a collection from its first page to the page whose
// continuation token is empty. Pages are requested strictly in order: the
// worker for page N+1 is only started once page N has been drained and its
// token is known. Each page is fetched by its own worker goroutine, which
// performs exactly one request and publishes the outcome on a channel of
// capacity one.
//
//	GetResourceItems ─┬─ idle, update interval elapsed ─→ start page 1, drain
//	                  ├─ fetching ──────────────────────→ drain
//	                  └─ otherwise ─────────────────────→ "Waiting..."
//
// # Timers
//
// Two timers regulate cadence. nextUpdate gates how often a new sweep may
// start; nextFetch gates how often the channel is polled inside a sweep. A
// sweep can therefore drain page after page quickly while full sweeps stay
// rate limited.
//
// # Snapshots
//
// Pages accumulate in a private buffer. When a sweep completes the buffer
// replaces the stable snapshot in one assignment, so a renderer never sees a
// mix of two sweeps. The one exception is a cold start: while the stable
// snapshot is empty, drained pages are also appended to it so the first page
// is visible before the sweep finishes.
//
// # Errors
//
// Failed requests are returned verbatim from GetResourceItems. The engine does
// not retry; the caller decides whether to Abandon the sweep (keep the
// snapshot, retry after the update interval) or Reset (drop everything and
// start over immediately, used when the query changes).
package fetch
