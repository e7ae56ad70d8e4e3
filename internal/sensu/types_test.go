package sensu

import (
	"encoding/base64"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeItem(t *testing.T, raw string) Item {
	t.Helper()
	var item Item
	require.NoError(t, json.Unmarshal([]byte(raw), &item))
	return item
}

func TestItem_EventAccessors(t *testing.T) {
	event := decodeItem(t, `{
		"timestamp": 1700000100,
		"entity": {"metadata": {"name": "web-1"}},
		"check": {
			"metadata": {"name": "check-disk"},
			"status": 1,
			"output": "disk 91%",
			"issued": 1700000000,
			"is_silenced": true,
			"silenced": ["entity:web-1:*", 7]
		}
	}`)

	assert.Equal(t, "web-1", event.EntityName())
	assert.Equal(t, "check-disk", event.CheckName())
	assert.Equal(t, "disk 91%", event.CheckOutput())
	assert.Equal(t, int64(1), event.CheckStatus())
	assert.Equal(t, "warning", event.CheckState())
	assert.True(t, event.IsSilenced())
	assert.Equal(t, []string{"entity:web-1:*"}, event.SilencedBy())
	assert.Equal(t, time.Unix(1700000100, 0), event.Timestamp())
	assert.Equal(t, time.Unix(1700000000, 0), event.Issued())
}

func TestItem_MissingFieldsUseFallbacks(t *testing.T) {
	var empty Item
	assert.Equal(t, "", empty.EntityName())
	assert.Equal(t, int64(-1), empty.CheckStatus())
	assert.Equal(t, "unknown", empty.CheckState())
	assert.True(t, empty.Timestamp().IsZero())
	assert.False(t, empty.IsSilenced())
	assert.Nil(t, empty.SilencedBy())

	wrongShape := Item{"check": "not a map"}
	assert.Equal(t, "", wrongShape.CheckName())
}

func TestStateLabel(t *testing.T) {
	cases := map[int64]string{0: "passing", 1: "warning", 2: "failing", 3: "unknown", -1: "unknown", 127: "unknown"}
	for status, want := range cases {
		if got := StateLabel(status); got != want {
			t.Fatalf("StateLabel(%d) = %q, want %q", status, got, want)
		}
	}
}

func TestItem_SilenceAccessors(t *testing.T) {
	silence := decodeItem(t, `{
		"metadata": {"name": "linux:check-cpu", "created_by": "alice"},
		"subscription": "linux",
		"begin": 1700000000,
		"expire": -1,
		"expire_on_resolve": true
	}`)

	assert.Equal(t, "linux:check-cpu", silence.Name())
	assert.Equal(t, "alice", silence.Creator())
	assert.Equal(t, "(No reason provided)", silence.Reason())
	assert.Equal(t, "linux", silence.SilenceSubscription())
	assert.Equal(t, time.Unix(1700000000, 0), silence.Begin())
	assert.Equal(t, int64(-1), silence.ExpireSeconds())
	assert.True(t, silence.ExpireOnResolve())
}

func TestItem_CloneIsDeep(t *testing.T) {
	orig := Item{"check": map[string]any{"status": 2, "silenced": []any{"a"}}}
	dup := orig.Clone()
	dup["check"].(map[string]any)["status"] = 0
	dup["check"].(map[string]any)["silenced"].([]any)[0] = "b"

	assert.Equal(t, int64(2), orig.CheckStatus())
	assert.Equal(t, []string{"a"}, orig.SilencedBy())
	assert.Nil(t, Item(nil).Clone())
}

func TestCredentials_Header(t *testing.T) {
	assert.Equal(t, "", Credentials{}.Header())
	assert.Equal(t, "Bearer tok", Credentials{AccessToken: "tok"}.Header())
	assert.Equal(t, "Key k", Credentials{APIKey: " k ", AccessToken: "tok"}.Header())
}

func TestResolveUsername(t *testing.T) {
	payload := base64.RawURLEncoding.EncodeToString([]byte(`{"sub":"carol","exp":1}`))
	token := "eyJhbGciOiJIUzI1NiJ9." + payload + ".sig"

	assert.Equal(t, "dave", ResolveUsername(" dave ", Credentials{AccessToken: token}))
	assert.Equal(t, "carol", ResolveUsername("", Credentials{AccessToken: token}))

	// Padded segments are tolerated.
	padded := "h." + base64.URLEncoding.EncodeToString([]byte(`{"sub":"erin"}`)) + ".s"
	assert.Equal(t, "erin", ResolveUsername("", Credentials{AccessToken: padded}))

	assert.NotEqual(t, "carol", ResolveUsername("", Credentials{AccessToken: "garbage"}))
}
