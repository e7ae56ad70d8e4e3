package sensu

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	Method string
	Path   string
	Body   map[string]any
}

func recordingClient(t *testing.T) (*Client, chan recordedRequest) {
	t.Helper()
	requests := make(chan recordedRequest, 1)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		rec := recordedRequest{Method: r.Method, Path: r.URL.Path}
		raw, _ := io.ReadAll(r.Body)
		if len(raw) > 0 {
			_ = json.Unmarshal(raw, &rec.Body)
		}
		requests <- rec
		w.WriteHeader(http.StatusCreated)
	}, Credentials{APIKey: "k"})
	return c, requests
}

func TestClient_ExecuteCheck(t *testing.T) {
	c, requests := recordingClient(t)

	require.NoError(t, c.ExecuteCheck(context.Background(), "web-1", "check-disk"))

	got := <-requests
	assert.Equal(t, http.MethodPost, got.Method)
	assert.Equal(t, "/api/core/v2/namespaces/ops/checks/check-disk/execute", got.Path)
	assert.Equal(t, "check-disk", got.Body["check"])
	assert.Equal(t, []any{"entity:web-1"}, got.Body["subscriptions"])
}

func TestClient_ResolveEvent(t *testing.T) {
	c, requests := recordingClient(t)
	now := time.Unix(1700000000, 0)
	event := Item{
		"entity": map[string]any{"metadata": map[string]any{"name": "web-1"}},
		"check": map[string]any{
			"metadata": map[string]any{"name": "check-disk"},
			"status":   float64(2),
			"output":   "disk full",
		},
	}

	require.NoError(t, c.ResolveEvent(context.Background(), event, now))

	got := <-requests
	assert.Equal(t, http.MethodPut, got.Method)
	assert.Equal(t, "/api/core/v2/namespaces/ops/events/web-1/check-disk", got.Path)
	resolved := Item(got.Body)
	assert.Equal(t, int64(0), resolved.CheckStatus())
	assert.Equal(t, ResolvedOutput, resolved.CheckOutput())
	assert.Equal(t, now.Unix(), resolved.Int(0, "timestamp"))

	assert.Equal(t, int64(2), event.CheckStatus(), "original event must not be mutated")
}

func TestClient_ResolveEventRequiresNames(t *testing.T) {
	c, _ := recordingClient(t)
	assert.Error(t, c.ResolveEvent(context.Background(), Item{}, time.Now()))
}

func TestSilenceBody(t *testing.T) {
	now := time.Unix(1700000000, 0)

	body, err := SilenceBody("ops", SilenceRequest{Entry: "entity:web-1:check-disk", Creator: "alice", Reason: "maint"}, now)
	require.NoError(t, err)
	assert.Equal(t, "entity:web-1", body["subscription"])
	assert.Equal(t, "check-disk", body["check"])
	assert.Equal(t, "entity:web-1:check-disk", body.Name())
	assert.Equal(t, "ops", body.String("", "metadata", "namespace"))
	assert.Equal(t, -1, body["expire"])
	assert.Equal(t, false, body["expire_on_resolve"])
	assert.Equal(t, "alice", body["creator"])
	assert.Equal(t, now.Unix(), body["begin"])

	body, err = SilenceBody("ops", SilenceRequest{Entry: "linux:*"}, now)
	require.NoError(t, err)
	assert.Equal(t, "linux", body["subscription"])
	_, hasCheck := body["check"]
	assert.False(t, hasCheck, "wildcard check should be omitted")

	for _, entry := range []string{"", "nocolon", ":check", "sub:"} {
		_, err := SilenceBody("ops", SilenceRequest{Entry: entry}, now)
		assert.Error(t, err, "entry %q", entry)
	}
}

func TestClient_CreateAndDeleteSilence(t *testing.T) {
	c, requests := recordingClient(t)

	require.NoError(t, c.CreateSilence(context.Background(), SilenceRequest{Entry: "entity:web-1:*", Creator: "bob"}, time.Now()))
	got := <-requests
	assert.Equal(t, http.MethodPost, got.Method)
	assert.Equal(t, "/api/core/v2/namespaces/ops/silenced", got.Path)
	assert.Equal(t, "bob", got.Body["creator"])

	require.NoError(t, c.DeleteSilence(context.Background(), "entity:web-1:*"))
	got = <-requests
	assert.Equal(t, http.MethodDelete, got.Method)
	assert.Equal(t, "/api/core/v2/namespaces/ops/silenced/entity:web-1:*", got.Path)

	assert.Error(t, c.DeleteSilence(context.Background(), ""))
}
