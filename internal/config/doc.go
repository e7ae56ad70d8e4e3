// Package config loads tensu's configuration.
//
// # Overview
//
// Settings come from a TOML file and TENSU_* environment variables, read with
// a fresh viper instance per Load. A missing file is not an error: defaults
// plus environment are enough to run when TENSU_URL is exported.
//
// # Configuration Discovery
//
//  1. If a path is explicitly provided (--config), use it
//  2. Otherwise, use ~/.config/tensu/config.toml
//  3. If the file doesn't exist, fall back to defaults
//  4. Environment variables override file values
//
// # Default Values
//
//   - namespace: default
//   - verify_certs: true
//   - update_interval_ms: 10000
//   - fetch_interval_ms: 700
//   - max_fetch_events: 500
//   - request_timeout_ms: 10000
//   - log_dir: ~/.local/share/tensu (log file: <log_dir>/tensu.log)
//   - log_level: info
//
// api_key may also be supplied as SENSU_API_KEY, matching sensuctl.
//
// # Errors
//
// Load and Validate return *Error values carrying a code, a message, and a
// suggested fix, so the CLI can print something actionable.
//
// # Watching
//
// Watch follows the file with fsnotify and calls back with the reloaded
// Config after a short debounce. The app uses it to swap API credentials on
// the running client without a restart.
package config
