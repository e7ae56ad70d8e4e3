package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/tensu/internal/fetch"
	"github.com/five82/tensu/internal/sensu"
	"github.com/five82/tensu/internal/state"
)

// fakeSensu serves two-page event lists and a one-page silence list per
// namespace and records every request path.
type fakeSensu struct {
	failing atomic.Bool

	mu    sync.Mutex
	paths []string
}

func (f *fakeSensu) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.paths = append(f.paths, r.URL.Path)
	f.mu.Unlock()

	if f.failing.Load() {
		http.Error(w, "backend unavailable", http.StatusInternalServerError)
		return
	}

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	// api/core/v2/namespaces/{ns}/{resource}
	if len(parts) != 6 {
		http.NotFound(w, r)
		return
	}
	ns, resource := parts[4], parts[5]

	w.Header().Set("Content-Type", "application/json")
	switch resource {
	case "events":
		if r.URL.Query().Get("continue") == "" {
			w.Header().Set("Sensu-Continue", "page2")
			_, _ = w.Write([]byte(`[{"entity":{"metadata":{"name":"` + ns + `-web-1"}}}]`))
			return
		}
		_, _ = w.Write([]byte(`[{"entity":{"metadata":{"name":"` + ns + `-web-2"}}}]`))
	case "silenced":
		_, _ = w.Write([]byte(`[{"metadata":{"name":"` + ns + `:linux:*"}}]`))
	default:
		http.NotFound(w, r)
	}
}

func (f *fakeSensu) sawPath(want string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.paths {
		if p == want {
			return true
		}
	}
	return false
}

type pollerHarness struct {
	backend *fakeSensu
	store   *state.Store
	poller  *Poller
	cancel  context.CancelFunc
	done    chan error
}

func startPoller(t *testing.T, initial state.Request) *pollerHarness {
	t.Helper()

	fake := &fakeSensu{}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	client, err := sensu.NewClient(sensu.Options{URL: srv.URL, Namespace: initial.Namespace})
	require.NoError(t, err)
	backend := NewBackend(client)
	store := &state.Store{}

	engine, err := fetch.New(fetch.Options{
		UpdateInterval: 30 * time.Millisecond,
		FetchInterval:  time.Millisecond,
		JoinTimeout:    50 * time.Millisecond,
		Fetcher:        backend,
		Observer:       store,
	})
	require.NoError(t, err)

	poller, err := NewPoller(PollerOptions{
		Engine:  engine,
		Store:   store,
		Backend: backend,
		Initial: initial,
		Tick:    2 * time.Millisecond,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	h := &pollerHarness{backend: fake, store: store, poller: poller, cancel: cancel, done: make(chan error, 1)}
	go func() { h.done <- poller.Run(ctx) }()
	t.Cleanup(h.stop)
	return h
}

func (h *pollerHarness) stop() {
	h.cancel()
	<-h.done
}

func names(items []sensu.Item) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if name := item.EntityName(); name != "" {
			out = append(out, name)
			continue
		}
		out = append(out, item.Name())
	}
	return out
}

func TestNewPoller_RequiresDependencies(t *testing.T) {
	_, err := NewPoller(PollerOptions{})
	assert.Error(t, err)
}

func TestPoller_CompletesSweepIntoStore(t *testing.T) {
	h := startPoller(t, state.Request{Namespace: "default", View: state.ViewAll, Limit: 10})

	require.Eventually(t, func() bool {
		snap := h.store.Snapshot()
		return !snap.LastUpdated.IsZero() && len(snap.Items) == 2
	}, 2*time.Second, 5*time.Millisecond)

	snap := h.store.Snapshot()
	assert.Equal(t, []string{"default-web-1", "default-web-2"}, names(snap.Items))
	assert.Equal(t, "default", snap.Namespace)
	assert.Equal(t, state.ViewAll, snap.View)
	assert.NoError(t, snap.LastError)
}

func TestPoller_ViewSwitchResetsQuery(t *testing.T) {
	h := startPoller(t, state.Request{Namespace: "default", View: state.ViewNotPassing, Limit: 10})

	require.Eventually(t, func() bool {
		return len(h.store.Snapshot().Items) == 2
	}, 2*time.Second, 5*time.Millisecond)

	h.poller.Submit(state.Request{Namespace: "default", View: state.ViewSilenced, Limit: 10})

	require.Eventually(t, func() bool {
		snap := h.store.Snapshot()
		return snap.View == state.ViewSilenced && len(snap.Items) == 1
	}, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"default:linux:*"}, names(h.store.Snapshot().Items))
}

func TestPoller_NamespaceSwitchUsesNewPath(t *testing.T) {
	h := startPoller(t, state.Request{Namespace: "default", View: state.ViewAll, Limit: 10})

	h.poller.Submit(state.Request{Namespace: "prod", View: state.ViewAll, Limit: 10})

	require.Eventually(t, func() bool {
		snap := h.store.Snapshot()
		return snap.Namespace == "prod" && len(snap.Items) == 2 && strings.HasPrefix(snap.Items[0].EntityName(), "prod-")
	}, 2*time.Second, 5*time.Millisecond)
	assert.True(t, h.backend.sawPath("/api/core/v2/namespaces/prod/events"))
	assert.Equal(t, "prod", h.poller.backend.Namespace())
}

func TestPoller_FailureKeepsSnapshotAndRecovers(t *testing.T) {
	h := startPoller(t, state.Request{Namespace: "default", View: state.ViewAll, Limit: 10})

	require.Eventually(t, func() bool {
		return !h.store.Snapshot().LastUpdated.IsZero()
	}, 2*time.Second, 5*time.Millisecond)

	h.backend.failing.Store(true)
	require.Eventually(t, func() bool {
		return h.store.Snapshot().ConsecutiveFailures >= 2
	}, 2*time.Second, 5*time.Millisecond)

	snap := h.store.Snapshot()
	require.Error(t, snap.LastError)
	assert.Equal(t, http.StatusInternalServerError, sensu.StatusCode(snap.LastError))
	assert.True(t, snap.IsOffline())
	assert.Len(t, snap.Items, 2, "last good snapshot stays visible")

	h.backend.failing.Store(false)
	require.Eventually(t, func() bool {
		snap := h.store.Snapshot()
		return snap.LastError == nil && snap.ConsecutiveFailures == 0
	}, 2*time.Second, 5*time.Millisecond)
}

func TestPoller_SubmitKeepsLatest(t *testing.T) {
	p := &Poller{requests: make(chan state.Request, 1)}
	p.Submit(state.Request{Namespace: "a"})
	p.Submit(state.Request{Namespace: "b"})

	got := <-p.requests
	assert.Equal(t, "b", got.Namespace)
}
