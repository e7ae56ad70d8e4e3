package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/five82/tensu/internal/sensu"
)

const (
	// DefaultUpdateInterval is the minimum gap between the starts of two sweeps.
	DefaultUpdateInterval = 10 * time.Second
	// DefaultFetchInterval is the minimum gap between two channel polls.
	DefaultFetchInterval = 700 * time.Millisecond
	// DefaultJoinTimeout bounds each wait for a killed worker to exit.
	DefaultJoinTimeout = time.Second
)

var spinner = []rune("⣾⣽⣻⢿⡿⣟⣯⣷")

// Observer receives snapshots and progress text from the engine.
type Observer interface {
	Render(items []sensu.Item)
	Status(msg string)
}

// Query selects the collection a sweep walks. It is passed to the API client
// unchanged.
type Query struct {
	Resource      string
	FieldSelector string
	LabelSelector string
	Limit         int
}

func (q Query) page(cont string) sensu.PageQuery {
	return sensu.PageQuery{
		Resource:      q.Resource,
		FieldSelector: q.FieldSelector,
		LabelSelector: q.LabelSelector,
		Limit:         q.Limit,
		Continue:      cont,
	}
}

// Options configure an Engine.
type Options struct {
	UpdateInterval time.Duration
	FetchInterval  time.Duration
	Fetcher        sensu.PageFetcher
	Observer       Observer
	Logger         *slog.Logger
	// Clock defaults to time.Now.
	Clock func() time.Time
	// JoinTimeout defaults to DefaultJoinTimeout.
	JoinTimeout time.Duration
}

type phase int

const (
	phaseIdle phase = iota
	phaseFetching
)

func (p phase) String() string {
	if p == phaseFetching {
		return "fetching"
	}
	return "idle"
}

// Engine pulls paginated collections in the background and publishes complete
// snapshots. It must be driven from a single goroutine.
type Engine struct {
	updateInterval time.Duration
	fetchInterval  time.Duration
	joinTimeout    time.Duration
	fetcher        sensu.PageFetcher
	observer       Observer
	logger         *slog.Logger
	now            func() time.Time
	root           context.Context

	results chan result
	worker  *worker

	items    []sensu.Item
	newItems []sensu.Item
	cont     string
	phase    phase

	nextUpdate  time.Time
	nextFetch   time.Time
	forceUpdate bool

	viewableCount int
	lastUpdated   time.Time
	spin          int
}

// New creates an Engine. The first call to GetResourceItems starts a sweep.
func New(opts Options) (*Engine, error) {
	if opts.Fetcher == nil {
		return nil, fmt.Errorf("fetcher is required")
	}
	if opts.UpdateInterval <= 0 {
		opts.UpdateInterval = DefaultUpdateInterval
	}
	if opts.FetchInterval <= 0 {
		opts.FetchInterval = DefaultFetchInterval
	}
	if opts.JoinTimeout <= 0 {
		opts.JoinTimeout = DefaultJoinTimeout
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Observer == nil {
		opts.Observer = nopObserver{}
	}
	now := opts.Clock()
	return &Engine{
		updateInterval: opts.UpdateInterval,
		fetchInterval:  opts.FetchInterval,
		joinTimeout:    opts.JoinTimeout,
		fetcher:        opts.Fetcher,
		observer:       opts.Observer,
		logger:         opts.Logger,
		now:            opts.Clock,
		root:           context.Background(),
		results:        make(chan result, 1),
		phase:          phaseIdle,
		nextUpdate:     now,
		nextFetch:      now,
		forceUpdate:    true,
		lastUpdated:    now,
	}, nil
}

// GetResourceItems advances the engine by one tick. It starts a sweep when
// idle and the update interval has elapsed, drains a pending page while a
// sweep is in flight, and otherwise reports that it is waiting. A pending
// forced update renders the stable snapshot even when the drain failed.
//
// Errors from the API client are returned verbatim. The engine stays in the
// fetching phase; call Abandon or Reset to give up on the sweep.
func (e *Engine) GetResourceItems(q Query) error {
	var err error
	switch {
	case e.phase == phaseIdle && !e.now().Before(e.nextUpdate):
		e.newItems = nil
		e.phase = phaseFetching
		e.spawn(q, e.cont)
		err = e.drain(q)
	case e.phase == phaseFetching:
		err = e.drain(q)
	default:
		e.status("Waiting...")
	}

	if e.forceUpdate {
		e.forceUpdate = false
		e.observer.Render(e.items)
	}
	return err
}

// drain processes at most one worker result without blocking.
func (e *Engine) drain(q Query) error {
	if e.now().Before(e.nextFetch) {
		return nil
	}

	var res result
	select {
	case res = <-e.results:
	default:
		e.logger.Debug("drain skipped", "reason", "no result")
		e.status("Waiting...")
		return nil
	}
	if res.err != nil {
		return res.err
	}

	page := res.page.Items
	e.cont = res.page.Continue
	e.status(fmt.Sprintf("Received %d", len(page)))

	e.newItems = append(e.newItems, page...)
	if len(e.items) == 0 {
		e.items = append(e.items, page...)
	}

	now := e.now()
	if e.cont != "" {
		e.spawn(q, e.cont)
	} else {
		e.phase = phaseIdle
		e.items = e.newItems
		e.nextUpdate = now.Add(e.updateInterval)
		e.logger.Debug("sweep complete", "resource", q.Resource, "items", len(e.items))
	}
	e.nextFetch = now.Add(e.fetchInterval)

	e.viewableCount = len(e.items)
	e.lastUpdated = now
	e.observer.Render(e.items)
	return nil
}

func (e *Engine) spawn(q Query, cont string) {
	e.logger.Debug("fetch request", "resource", q.Resource, "field_selector", q.FieldSelector, "limit", q.Limit, "continue", cont)
	e.status("Fetching...")
	e.worker = startWorker(e.root, e.fetcher, e.results, q.page(cont), e.logger)
}

func (e *Engine) status(msg string) {
	e.spin = (e.spin + 1) % len(spinner)
	e.observer.Status(fmt.Sprintf("%c %s", spinner[e.spin], msg))
}

// Kill stops the in-flight worker and blocks until it has exited, waiting in
// JoinTimeout increments. Any result it managed to publish is discarded.
func (e *Engine) Kill() {
	w := e.worker
	if w == nil {
		return
	}
	w.cancel()

	timer := time.NewTimer(e.joinTimeout)
	defer timer.Stop()
	for {
		e.discardPending()
		select {
		case <-w.done:
			e.discardPending()
			e.worker = nil
			e.logger.Debug("fetch worker stopped")
			return
		case <-timer.C:
			e.logger.Debug("waiting for fetch worker to stop", "timeout", e.joinTimeout)
			timer.Reset(e.joinTimeout)
		}
	}
}

func (e *Engine) discardPending() {
	select {
	case <-e.results:
	default:
	}
}

// Reset discards all fetched state and in-flight work. The next call to
// GetResourceItems starts a fresh sweep immediately.
func (e *Engine) Reset() {
	e.logger.Debug("engine reset")
	e.Kill()
	e.results = make(chan result, 1)
	e.items = nil
	e.newItems = nil
	e.phase = phaseIdle
	e.cont = ""
	e.nextUpdate = e.now()
}

// Abandon gives up on the sweep in flight after a failed drain. The stable
// snapshot is kept and the next sweep starts after the update interval.
func (e *Engine) Abandon() {
	e.logger.Debug("sweep abandoned", "phase", e.phase.String())
	e.Kill()
	e.results = make(chan result, 1)
	e.newItems = nil
	e.phase = phaseIdle
	e.cont = ""
	e.nextUpdate = e.now().Add(e.updateInterval)
}

// ForceUpdate makes the next GetResourceItems call render the stable snapshot
// regardless of whether new data arrived.
func (e *Engine) ForceUpdate() {
	e.forceUpdate = true
}

// Items returns the stable snapshot. Callers must not modify it.
func (e *Engine) Items() []sensu.Item { return e.items }

// ViewableCount is the snapshot length as of the last render.
func (e *Engine) ViewableCount() int { return e.viewableCount }

// LastUpdated is when a page was last merged.
func (e *Engine) LastUpdated() time.Time { return e.lastUpdated }

// FetchCompleted reports whether no sweep is in flight.
func (e *Engine) FetchCompleted() bool { return e.phase == phaseIdle }

type nopObserver struct{}

func (nopObserver) Render([]sensu.Item) {}
func (nopObserver) Status(string) {}
