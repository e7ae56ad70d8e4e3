package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/tensu/internal/prefs"
	"github.com/five82/tensu/internal/sensu"
)

func TestView_Query(t *testing.T) {
	q := ViewNotPassing.Query(500)
	assert.Equal(t, "events", q.Resource)
	assert.Equal(t, `event.check.state != "passing"`, q.FieldSelector)
	assert.Equal(t, 500, q.Limit)

	q = ViewAll.Query(40)
	assert.Equal(t, "events", q.Resource)
	assert.Empty(t, q.FieldSelector)

	q = ViewSilenced.Query(40)
	assert.Equal(t, "silenced", q.Resource)
	assert.Empty(t, q.FieldSelector)
}

func TestParseView_RoundTrip(t *testing.T) {
	for _, v := range Views {
		parsed, err := ParseView(v.String())
		require.NoError(t, err)
		assert.Equal(t, v, parsed)
	}

	v, err := ParseView("")
	require.NoError(t, err)
	assert.Equal(t, ViewNotPassing, v)

	_, err = ParseView("bogus")
	assert.Error(t, err)
}

func event(host, check, output string) sensu.Item {
	return sensu.Item{
		"entity": map[string]any{"metadata": map[string]any{"name": host}},
		"check": map[string]any{
			"metadata": map[string]any{"name": check},
			"output":   output,
		},
	}
}

func silence(name, creator string) sensu.Item {
	return sensu.Item{"metadata": map[string]any{"name": name, "created_by": creator}}
}

func TestApplyFilters_Events(t *testing.T) {
	items := []sensu.Item{
		event("web-1", "disk", "DISK OK"),
		event("web-2", "cpu", "CPU CRITICAL"),
		event("db-1", "disk", "DISK WARNING"),
	}

	got, err := ApplyFilters(ViewAll, items, prefs.Filters{Host: "^web"})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = ApplyFilters(ViewAll, items, prefs.Filters{Host: "^web", Check: "disk"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "web-1", got[0].EntityName())

	got, err = ApplyFilters(ViewNotPassing, items, prefs.Filters{Output: "WARN|CRIT", Name: "ignored"})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestApplyFilters_Silences(t *testing.T) {
	items := []sensu.Item{
		silence("entity:web-1:disk", "alice"),
		silence("linux:*", "bob"),
	}
	items[1]["reason"] = "patching"

	got, err := ApplyFilters(ViewSilenced, items, prefs.Filters{Creator: "bob", Host: "ignored"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "linux:*", got[0].Name())

	got, err = ApplyFilters(ViewSilenced, items, prefs.Filters{Reason: `No reason`})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "entity:web-1:disk", got[0].Name())
}

func TestApplyFilters_InvalidPatternSkipped(t *testing.T) {
	items := []sensu.Item{event("web-1", "disk", ""), event("db-1", "cpu", "")}

	got, err := ApplyFilters(ViewAll, items, prefs.Filters{Host: "(", Check: "cpu"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "host filter")
	require.Len(t, got, 1)
	assert.Equal(t, "db-1", got[0].EntityName())
}

func TestActiveFilters(t *testing.T) {
	assert.False(t, ActiveFilters(ViewAll, prefs.Filters{Name: "x"}))
	assert.True(t, ActiveFilters(ViewSilenced, prefs.Filters{Name: "x"}))
	assert.True(t, ActiveFilters(ViewNotPassing, prefs.Filters{Output: "x"}))
}

func TestRequest_Query(t *testing.T) {
	r := Request{Namespace: "prod", View: ViewSilenced, Limit: 25}
	q := r.Query()
	assert.Equal(t, "silenced", q.Resource)
	assert.Equal(t, 25, q.Limit)
}
