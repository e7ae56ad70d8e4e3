package app

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/five82/tensu/internal/sensu"
)

// Backend routes API calls to the client for the active namespace. The
// poller switches namespaces with Use; the UI and fetch workers call through
// it without holding a client of their own.
type Backend struct {
	current atomic.Pointer[sensu.Client]
}

var _ sensu.PageFetcher = (*Backend)(nil)

// NewBackend wraps client, whose namespace becomes the active one.
func NewBackend(client *sensu.Client) *Backend {
	b := &Backend{}
	b.current.Store(client)
	return b
}

// Client returns the client for the active namespace.
func (b *Backend) Client() *sensu.Client {
	return b.current.Load()
}

// Namespace returns the active namespace.
func (b *Backend) Namespace() string {
	return b.Client().Namespace()
}

// Use makes namespace the active one. Credentials are shared with the
// previous client.
func (b *Backend) Use(namespace string) {
	cur := b.Client()
	if cur.Namespace() == namespace {
		return
	}
	b.current.Store(cur.WithNamespace(namespace))
}

func (b *Backend) FetchPage(ctx context.Context, query sensu.PageQuery) (sensu.Page, error) {
	return b.Client().FetchPage(ctx, query)
}

func (b *Backend) FetchEvent(ctx context.Context, entity, check string) (sensu.Item, error) {
	return b.Client().FetchEvent(ctx, entity, check)
}

func (b *Backend) FetchNamespaces(ctx context.Context) ([]string, error) {
	return b.Client().FetchNamespaces(ctx)
}

func (b *Backend) ExecuteCheck(ctx context.Context, entity, check string) error {
	return b.Client().ExecuteCheck(ctx, entity, check)
}

func (b *Backend) ResolveEvent(ctx context.Context, event sensu.Item, now time.Time) error {
	return b.Client().ResolveEvent(ctx, event, now)
}

func (b *Backend) CreateSilence(ctx context.Context, req sensu.SilenceRequest, now time.Time) error {
	return b.Client().CreateSilence(ctx, req, now)
}

func (b *Backend) DeleteSilence(ctx context.Context, name string) error {
	return b.Client().DeleteSilence(ctx, name)
}
