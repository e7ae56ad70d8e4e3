// Package prefs persists tensu's UI state between runs.
// State is stored in ~/.config/tensu/state.toml.
package prefs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	toml "github.com/pelletier/go-toml/v2"
)

// Filters holds the regular expressions applied to each list.
type Filters struct {
	Host    string `toml:"host"`
	Check   string `toml:"check"`
	Output  string `toml:"output"`
	Name    string `toml:"name"`
	Creator string `toml:"creator"`
	Reason  string `toml:"reason"`
}

// Prefs holds the UI state restored on startup.
type Prefs struct {
	Theme     string  `toml:"theme"`
	View      string  `toml:"view"`
	Namespace string  `toml:"namespace"`
	Filters   Filters `toml:"filters"`
}

const (
	defaultPrefsPath = "~/.config/tensu/state.toml"
	defaultTheme     = "Nightfox"
	defaultView      = "not_passing"
	lockTimeout      = 3 * time.Second
	lockRetry        = 50 * time.Millisecond
)

// DefaultPath returns the default state file path.
func DefaultPath() string {
	return defaultPrefsPath
}

func defaults() Prefs {
	return Prefs{Theme: defaultTheme, View: defaultView}
}

// Load reads state from the given path, falling back to defaults if missing
// or unreadable.
func Load(path string) (Prefs, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return defaults(), nil
	}

	prefs := defaults()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return prefs, nil
		}
		return prefs, nil // Graceful degradation
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return prefs, nil // Graceful degradation
	}

	if err := toml.Unmarshal(bytes, &prefs); err != nil {
		return defaults(), nil // Graceful degradation
	}

	if strings.TrimSpace(prefs.Theme) == "" {
		prefs.Theme = defaultTheme
	}
	if strings.TrimSpace(prefs.View) == "" {
		prefs.View = defaultView
	}
	prefs.Namespace = strings.TrimSpace(prefs.Namespace)

	return prefs, nil
}

// Save writes state to the given path, creating directories as needed. An
// exclusive lock on <path>.lock keeps two tensu instances exiting together
// from interleaving writes.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	dir := filepath.Dir(resolved)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	lock := flock.New(resolved + ".lock")
	ctx, cancel := context.WithTimeout(context.Background(), lockTimeout)
	defer cancel()
	locked, err := lock.TryLockContext(ctx, lockRetry)
	if err != nil {
		return fmt.Errorf("lock state file: %w", err)
	}
	if !locked {
		return fmt.Errorf("lock state file: timed out")
	}
	defer func() { _ = lock.Unlock() }()

	bytes, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	tmp := resolved + ".tmp"
	if err := os.WriteFile(tmp, bytes, 0o644); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	if err := os.Rename(tmp, resolved); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace state: %w", err)
	}

	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultPrefsPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
