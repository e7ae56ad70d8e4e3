package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/five82/tensu/internal/fetch"
	"github.com/five82/tensu/internal/sensu"
	"github.com/five82/tensu/internal/state"
)

const defaultTick = 100 * time.Millisecond

// PollerOptions configure a Poller.
type PollerOptions struct {
	Engine  *fetch.Engine
	Store   *state.Store
	Backend *Backend
	Logger  *slog.Logger
	Initial state.Request
	// Tick is how often the engine is advanced. Defaults to 100ms.
	Tick time.Duration
}

// Poller owns the fetch engine and drives it from a single goroutine. The UI
// steers it with Submit and reads the results from the store.
type Poller struct {
	engine  *fetch.Engine
	store   *state.Store
	backend *Backend
	logger  *slog.Logger
	tick    time.Duration

	requests    chan state.Request
	current     state.Request
	lastUpdated time.Time
}

// NewPoller validates opts and returns a Poller ready to Run.
func NewPoller(opts PollerOptions) (*Poller, error) {
	if opts.Engine == nil || opts.Store == nil || opts.Backend == nil {
		return nil, fmt.Errorf("engine, store and backend are required")
	}
	if opts.Tick <= 0 {
		opts.Tick = defaultTick
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	return &Poller{
		engine:      opts.Engine,
		store:       opts.Store,
		backend:     opts.Backend,
		logger:      opts.Logger,
		tick:        opts.Tick,
		requests:    make(chan state.Request, 1),
		current:     opts.Initial,
		lastUpdated: opts.Engine.LastUpdated(),
	}, nil
}

// Submit hands req to the poller. A request the poller has not picked up yet
// is replaced; only the latest one matters. Every request forces a render.
func (p *Poller) Submit(req state.Request) {
	for {
		select {
		case p.requests <- req:
			return
		default:
		}
		select {
		case <-p.requests:
		default:
		}
	}
}

// Run advances the engine until ctx is canceled, then stops any worker still
// in flight.
func (p *Poller) Run(ctx context.Context) error {
	defer p.engine.Kill()

	p.switchQuery(p.current)
	p.engine.ForceUpdate()

	ticker := time.NewTicker(p.tick)
	defer ticker.Stop()

	for {
		p.step()
		select {
		case <-ctx.Done():
			return nil
		case req := <-p.requests:
			p.apply(req)
		case <-ticker.C:
		}
	}
}

func (p *Poller) apply(req state.Request) {
	prev := p.current
	p.current = req
	if req.Namespace != prev.Namespace || req.View != prev.View {
		p.switchQuery(req)
	}
	p.engine.ForceUpdate()
}

func (p *Poller) switchQuery(req state.Request) {
	p.logger.Info("query changed", "namespace", req.Namespace, "view", req.View.String())
	p.store.SetQuery(req.Namespace, req.View)
	p.engine.Reset()
	p.backend.Use(req.Namespace)
}

func (p *Poller) step() {
	err := p.engine.GetResourceItems(p.current.Query())
	if err != nil {
		p.logger.Warn("sweep failed",
			"namespace", p.current.Namespace,
			"view", p.current.View.String(),
			"status", sensu.StatusCode(err),
			"error", err,
		)
		p.store.Update(time.Time{}, err)
		p.engine.Abandon()
		return
	}
	if !p.engine.FetchCompleted() {
		return
	}
	if updated := p.engine.LastUpdated(); !updated.Equal(p.lastUpdated) {
		p.lastUpdated = updated
		p.store.Update(updated, nil)
		p.logger.Debug("sweep recorded", "items", p.engine.ViewableCount())
	}
}
