package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolateEnv(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, key := range []string{"TENSU_URL", "TENSU_API_KEY", "SENSU_API_KEY", "TENSU_NAMESPACE", "TENSU_VERIFY_CERTS", "TENSU_LOG_LEVEL"} {
		t.Setenv(key, "")
		_ = os.Unsetenv(key)
	}
	return home
}

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := isolateEnv(t)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Namespace != "default" {
		t.Fatalf("Namespace = %q, want default", cfg.Namespace)
	}
	if !cfg.VerifyCerts {
		t.Fatal("VerifyCerts = false, want true")
	}
	if cfg.UpdateIntervalMS != DefaultUpdateIntervalMS || cfg.FetchIntervalMS != DefaultFetchIntervalMS {
		t.Fatalf("intervals = %d/%d, want %d/%d", cfg.UpdateIntervalMS, cfg.FetchIntervalMS, DefaultUpdateIntervalMS, DefaultFetchIntervalMS)
	}
	if cfg.MaxFetchEvents != DefaultMaxFetchEvents {
		t.Fatalf("MaxFetchEvents = %d, want %d", cfg.MaxFetchEvents, DefaultMaxFetchEvents)
	}

	wantLogDir, err := expandPath(defaultLogDir)
	if err != nil {
		t.Fatalf("expandPath(defaultLogDir) returned error: %v", err)
	}
	if cfg.LogDir != wantLogDir {
		t.Fatalf("LogDir = %q, want %q", cfg.LogDir, wantLogDir)
	}
	if cfg.LogPath() != filepath.Join(wantLogDir, "tensu.log") {
		t.Fatalf("LogPath = %q", cfg.LogPath())
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := isolateEnv(t)

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
url = "  https://sensu.example.com:8080  "
namespace = " ops "
api_key = "abc"
verify_certs = false
update_interval_ms = 5000
fetch_interval_ms = 250
max_fetch_events = 100
log_dir = "  ~/.tensu/logs  "
log_level = "DEBUG"
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://sensu.example.com:8080", cfg.URL)
	assert.Equal(t, "ops", cfg.Namespace)
	assert.Equal(t, "Key abc", cfg.Credentials().Header())
	assert.False(t, cfg.VerifyCerts)
	assert.Equal(t, 5*time.Second, cfg.UpdateInterval())
	assert.Equal(t, 250*time.Millisecond, cfg.FetchInterval())
	assert.Equal(t, 100, cfg.MaxFetchEvents)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout())
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, strings.HasPrefix(cfg.LogDir, home), "LogDir = %q, want it under HOME %q", cfg.LogDir, home)
	assert.Equal(t, path, cfg.Path)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	home := isolateEnv(t)
	t.Setenv("TENSU_URL", "http://env-sensu:8080")
	t.Setenv("TENSU_NAMESPACE", "staging")
	t.Setenv("SENSU_API_KEY", "from-sensu-env")

	cfg, err := Load(filepath.Join(home, "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, "http://env-sensu:8080", cfg.URL)
	assert.Equal(t, "staging", cfg.Namespace)
	assert.Equal(t, "from-sensu-env", cfg.APIKey)

	t.Setenv("TENSU_API_KEY", "from-tensu-env")
	cfg, err = Load(filepath.Join(home, "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, "from-tensu-env", cfg.APIKey, "TENSU_API_KEY takes precedence")
}

func TestLoad_InvalidTOMLReturnsConfigError(t *testing.T) {
	isolateEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("url = [unterminated"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, IsCode(err, ErrConfig))
	assert.Contains(t, err.Error(), "valid TOML")
}

func TestValidate(t *testing.T) {
	valid := Config{
		URL:              "http://sensu:8080",
		UpdateIntervalMS: 1,
		FetchIntervalMS:  1,
		MaxFetchEvents:   1,
		RequestTimeoutMS: 1,
		LogLevel:         "info",
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"missing url", func(c *Config) { c.URL = "" }, "No Sensu backend url"},
		{"zero update interval", func(c *Config) { c.UpdateIntervalMS = 0 }, "update_interval_ms"},
		{"negative fetch interval", func(c *Config) { c.FetchIntervalMS = -5 }, "fetch_interval_ms"},
		{"zero page size", func(c *Config) { c.MaxFetchEvents = 0 }, "max_fetch_events"},
		{"bad log level", func(c *Config) { c.LogLevel = "trace" }, "log_level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, IsCode(err, ErrValidation))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestError_FormatAndUnwrap(t *testing.T) {
	cause := os.ErrPermission
	err := WrapWithCode(cause, ErrConfig, "Cannot read", "Fix permissions")
	assert.Equal(t, "✗ Cannot read\n\n  permission denied\n\n  Fix permissions\n", err.Error())
	assert.ErrorIs(t, err, os.ErrPermission)
	assert.False(t, IsCode(cause, ErrConfig))
}

func TestWatch_ReloadsOnWrite(t *testing.T) {
	isolateEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`url = "http://one"`), 0o600))

	ctx, cancel := context.WithCancel(context.Background())
	changes := make(chan Config, 4)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, WatchOptions{
			Debounce: 20 * time.Millisecond,
			OnChange: func(c Config) { changes <- c },
		})
	}()

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte(`url = "http://two"`), 0o600))

	select {
	case cfg := <-changes:
		assert.Equal(t, "http://two", cfg.URL)
	case <-time.After(3 * time.Second):
		t.Fatal("no reload after write")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}

func TestWatch_ReloadsRunOneAtATime(t *testing.T) {
	isolateEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`url = "http://v0"`), 0o600))

	var inflight, maxInflight atomic.Int32
	var mu sync.Mutex
	var last string

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, WatchOptions{
			Debounce: 5 * time.Millisecond,
			OnChange: func(c Config) {
				n := inflight.Add(1)
				for {
					m := maxInflight.Load()
					if n <= m || maxInflight.CompareAndSwap(m, n) {
						break
					}
				}
				// Slower than the gap between writes so overlapping reloads would show.
				time.Sleep(30 * time.Millisecond)
				mu.Lock()
				last = c.URL
				mu.Unlock()
				inflight.Add(-1)
			},
		})
	}()

	time.Sleep(100 * time.Millisecond)
	for i := 1; i <= 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte(fmt.Sprintf(`url = "http://v%d"`, i)), 0o600))
		time.Sleep(15 * time.Millisecond)
	}

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return last == "http://v5"
	}, 3*time.Second, 10*time.Millisecond, "the newest file wins")
	assert.Equal(t, int32(1), maxInflight.Load(), "reloads must not overlap")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}
