package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/five82/tensu/internal/sensu"
)

// Config holds everything tensu reads from its config file and environment.
type Config struct {
	URL              string `mapstructure:"url"`
	Namespace        string `mapstructure:"namespace"`
	APIKey           string `mapstructure:"api_key"`
	AccessToken      string `mapstructure:"access_token"`
	Username         string `mapstructure:"username"`
	VerifyCerts      bool   `mapstructure:"verify_certs"`
	UpdateIntervalMS int    `mapstructure:"update_interval_ms"`
	FetchIntervalMS  int    `mapstructure:"fetch_interval_ms"`
	MaxFetchEvents   int    `mapstructure:"max_fetch_events"`
	RequestTimeoutMS int    `mapstructure:"request_timeout_ms"`
	LogDir           string `mapstructure:"log_dir"`
	LogLevel         string `mapstructure:"log_level"`

	// Path is the file the config was read from, or the default location when
	// no file exists.
	Path string `mapstructure:"-"`
}

const (
	envPrefix         = "TENSU"
	defaultConfigPath = "~/.config/tensu/config.toml"
	defaultLogDir     = "~/.local/share/tensu"
	defaultNamespace  = "default"
	defaultLogLevel   = "info"
	logFileName       = "tensu.log"
)

// Defaults mirror the intervals the engine was tuned with.
const (
	DefaultUpdateIntervalMS = 10000
	DefaultFetchIntervalMS  = 700
	DefaultMaxFetchEvents   = 500
	DefaultRequestTimeoutMS = 10000
)

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return defaultConfigPath
}

// Load reads the config at path (or the default location), applies TENSU_*
// environment overrides, and falls back to defaults when the file is missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, WrapWithCode(err, ErrConfig, "Cannot resolve config path", "Pass an absolute path with --config")
	}

	v := viper.New()
	v.SetConfigType("toml")
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("api_key", envPrefix+"_API_KEY", "SENSU_API_KEY"); err != nil {
		return Config{}, fmt.Errorf("bind env: %w", err)
	}

	if _, err := os.Stat(resolved); err == nil {
		v.SetConfigFile(resolved)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, WrapWithCode(err, ErrConfig,
				"Failed to read config file "+resolved,
				"Check the file is valid TOML")
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return Config{}, WrapWithCode(err, ErrConfig,
			"Cannot access config file "+resolved,
			"Check file permissions")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, WrapWithCode(err, ErrConfig, "Failed to parse config", "Check field types in "+resolved)
	}
	cfg.Path = resolved
	cfg.normalize()
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("url", "")
	v.SetDefault("namespace", defaultNamespace)
	v.SetDefault("api_key", "")
	v.SetDefault("access_token", "")
	v.SetDefault("username", "")
	v.SetDefault("verify_certs", true)
	v.SetDefault("update_interval_ms", DefaultUpdateIntervalMS)
	v.SetDefault("fetch_interval_ms", DefaultFetchIntervalMS)
	v.SetDefault("max_fetch_events", DefaultMaxFetchEvents)
	v.SetDefault("request_timeout_ms", DefaultRequestTimeoutMS)
	v.SetDefault("log_dir", defaultLogDir)
	v.SetDefault("log_level", defaultLogLevel)
}

func (c *Config) normalize() {
	c.URL = strings.TrimSpace(c.URL)
	c.APIKey = strings.TrimSpace(c.APIKey)
	c.AccessToken = strings.TrimSpace(c.AccessToken)
	c.Username = strings.TrimSpace(c.Username)

	c.Namespace = strings.TrimSpace(c.Namespace)
	if c.Namespace == "" {
		c.Namespace = defaultNamespace
	}
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}
	c.LogDir = strings.TrimSpace(c.LogDir)
	if c.LogDir == "" {
		c.LogDir = defaultLogDir
	}
	c.LogDir = mustExpand(c.LogDir)
}

// Validate reports the first setting that would keep tensu from running.
func (c Config) Validate() error {
	if c.URL == "" {
		return New(ErrValidation,
			"No Sensu backend url configured",
			fmt.Sprintf("Set url in %s or export %s_URL", c.displayPath(), envPrefix))
	}
	checks := []struct {
		name  string
		value int
	}{
		{"update_interval_ms", c.UpdateIntervalMS},
		{"fetch_interval_ms", c.FetchIntervalMS},
		{"max_fetch_events", c.MaxFetchEvents},
		{"request_timeout_ms", c.RequestTimeoutMS},
	}
	for _, check := range checks {
		if check.value <= 0 {
			return New(ErrValidation,
				fmt.Sprintf("%s must be positive, got %d", check.name, check.value),
				"Remove the setting to use the default")
		}
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return New(ErrValidation,
			fmt.Sprintf("Unknown log_level %q", c.LogLevel),
			"Use one of debug, info, warn, error")
	}
	return nil
}

func (c Config) displayPath() string {
	if c.Path == "" {
		return defaultConfigPath
	}
	return c.Path
}

// UpdateInterval is the minimum gap between full sweeps.
func (c Config) UpdateInterval() time.Duration {
	return time.Duration(c.UpdateIntervalMS) * time.Millisecond
}

// FetchInterval is the minimum gap between page polls within a sweep.
func (c Config) FetchInterval() time.Duration {
	return time.Duration(c.FetchIntervalMS) * time.Millisecond
}

// RequestTimeout bounds a single API request.
func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMS) * time.Millisecond
}

// Credentials returns the API credentials to attach to requests.
func (c Config) Credentials() sensu.Credentials {
	return sensu.Credentials{APIKey: c.APIKey, AccessToken: c.AccessToken}
}

// LogPath returns the path to tensu's own log file.
func (c Config) LogPath() string {
	if strings.TrimSpace(c.LogDir) == "" {
		return mustExpand(defaultLogDir + "/" + logFileName)
	}
	return filepath.Join(c.LogDir, logFileName)
}

// ExpandPath resolves a leading ~ and returns an absolute path.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
