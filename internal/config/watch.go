package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces the burst of events editors emit on save.
const DefaultDebounce = 250 * time.Millisecond

// WatchOptions configure Watch.
type WatchOptions struct {
	Debounce time.Duration
	OnChange func(Config)
	OnError  func(error)
}

// Watch reloads the config file whenever it changes and hands the result to
// OnChange. It blocks until ctx is canceled. The parent directory is watched
// so atomic rename-on-save is picked up.
func Watch(ctx context.Context, path string, opts WatchOptions) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve config path: %w", err)
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.OnChange == nil {
		opts.OnChange = func(Config) {}
	}
	if opts.OnError == nil {
		opts.OnError = func(error) {}
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = fsw.Close() }()

	if err := fsw.Add(filepath.Dir(resolved)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(resolved), err)
	}

	// The debounce timer only signals; reloads run on this goroutine so they
	// never overlap and never outlive ctx.
	var timer *time.Timer
	fire := make(chan struct{}, 1)
	signal := func() {
		select {
		case fire <- struct{}{}:
		default:
		}
	}
	reload := func() {
		cfg, err := Load(resolved)
		if err != nil {
			opts.OnError(err)
			return
		}
		opts.OnChange(cfg)
	}
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	target := filepath.Base(resolved)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(opts.Debounce, signal)
		case <-fire:
			reload()
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			opts.OnError(err)
		}
	}
}
