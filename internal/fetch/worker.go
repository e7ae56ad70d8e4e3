package fetch

import (
	"context"
	"log/slog"

	"github.com/five82/tensu/internal/sensu"
)

// result is the single value a worker publishes.
type result struct {
	page sensu.Page
	err  error
}

// worker is one in-flight page request.
type worker struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// startWorker performs exactly one FetchPage call in its own goroutine and
// publishes the outcome on out. A canceled worker drops its result instead of
// blocking.
func startWorker(parent context.Context, fetcher sensu.PageFetcher, out chan<- result, query sensu.PageQuery, logger *slog.Logger) *worker {
	ctx, cancel := context.WithCancel(parent)
	w := &worker{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(w.done)
		defer cancel()

		page, err := fetcher.FetchPage(ctx, query)
		if err != nil {
			logger.Debug("page fetch failed", "resource", query.Resource, "error", err)
		} else {
			logger.Debug("page fetched", "resource", query.Resource, "items", len(page.Items), "more", page.Continue != "")
		}

		select {
		case out <- result{page: page, err: err}:
		case <-ctx.Done():
		}
	}()

	return w
}
