package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/five82/tensu/internal/config"
	"github.com/five82/tensu/internal/fetch"
	"github.com/five82/tensu/internal/logging"
	"github.com/five82/tensu/internal/prefs"
	"github.com/five82/tensu/internal/sensu"
	"github.com/five82/tensu/internal/state"
	"github.com/five82/tensu/internal/ui"
)

// Options configure the tensu application.
type Options struct {
	ConfigPath string
	StatePath  string // empty uses default ~/.config/tensu/state.toml
}

// LoadConfig reads and validates the config at path.
func LoadConfig(path string) (config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// NewClient builds the Sensu API client described by cfg.
func NewClient(cfg config.Config, logger *slog.Logger) (*sensu.Client, error) {
	client, err := sensu.NewClient(sensu.Options{
		URL:                cfg.URL,
		Namespace:          cfg.Namespace,
		Credentials:        cfg.Credentials(),
		InsecureSkipVerify: !cfg.VerifyCerts,
		Timeout:            cfg.RequestTimeout(),
		Logger:             logging.Component(logger, "sensu"),
	})
	if err != nil {
		return nil, fmt.Errorf("init sensu client: %w", err)
	}
	return client, nil
}

// Run boots the tensu TUI until the user quits or ctx is canceled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := LoadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}

	logger, closeLog, err := logging.Open(cfg.LogPath(), cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()
	logger.Info("tensu starting", "url", cfg.URL, "config", cfg.Path)

	saved, err := prefs.Load(opts.StatePath)
	if err != nil {
		logger.Warn("load state", "error", err)
	}
	view, err := state.ParseView(saved.View)
	if err != nil {
		logger.Warn("ignoring saved view", "error", err)
	}
	saved.View = view.String()
	namespace := saved.Namespace
	if namespace == "" {
		namespace = cfg.Namespace
	}

	client, err := NewClient(cfg, logger)
	if err != nil {
		return err
	}
	backend := NewBackend(client.WithNamespace(namespace))
	store := &state.Store{}

	engine, err := fetch.New(fetch.Options{
		UpdateInterval: cfg.UpdateInterval(),
		FetchInterval:  cfg.FetchInterval(),
		Fetcher:        backend,
		Observer:       store,
		Logger:         logging.Component(logger, "fetch"),
	})
	if err != nil {
		return fmt.Errorf("init fetch engine: %w", err)
	}
	poller, err := NewPoller(PollerOptions{
		Engine:  engine,
		Store:   store,
		Backend: backend,
		Logger:  logging.Component(logger, "poller"),
		Initial: state.Request{Namespace: backend.Namespace(), View: view, Limit: cfg.MaxFetchEvents},
	})
	if err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(runCtx)

	g.Go(func() error {
		return poller.Run(gctx)
	})

	if _, statErr := os.Stat(cfg.Path); statErr == nil {
		watchLogger := logging.Component(logger, "config")
		g.Go(func() error {
			err := config.Watch(gctx, cfg.Path, config.WatchOptions{
				OnChange: func(next config.Config) { applyConfig(cfg, next, backend, watchLogger) },
				OnError: func(err error) {
					watchLogger.Warn("config reload failed", "error", err)
				},
			})
			if err != nil {
				// Live reload is optional; the dashboard keeps running.
				watchLogger.Warn("config watch stopped", "error", err)
			}
			return nil
		})
	}

	final := saved
	g.Go(func() error {
		defer cancel()
		p, err := ui.Run(gctx, ui.Options{
			Store:          store,
			Backend:        backend,
			Poller:         poller,
			Prefs:          saved,
			Namespace:      backend.Namespace(),
			Username:       sensu.ResolveUsername(cfg.Username, cfg.Credentials()),
			MaxFetchEvents: cfg.MaxFetchEvents,
			LogPath:        cfg.LogPath(),
		})
		final = p
		return err
	})

	runErr := g.Wait()
	if err := prefs.Save(opts.StatePath, final); err != nil {
		logger.Warn("save state", "error", err)
	}
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		logger.Error("tensu stopped", "error", runErr)
		return runErr
	}
	logger.Info("tensu stopped")
	return nil
}

// applyConfig takes what can change without a restart from a reloaded
// config. Only credentials are swapped live.
func applyConfig(current, next config.Config, backend *Backend, logger *slog.Logger) {
	if err := next.Validate(); err != nil {
		logger.Warn("reloaded config is invalid", "error", err)
		return
	}
	backend.Client().SetCredentials(next.Credentials())
	logger.Info("credentials reloaded")
	if next.URL != current.URL || next.VerifyCerts != current.VerifyCerts {
		logger.Warn("backend url or TLS settings changed; restart tensu to apply")
	}
}
