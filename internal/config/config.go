// Package config loads and merges memctl configuration.
//
// Configuration lives in ~/.memctl/config.yaml and may be overlaid by a
// named profile file (~/.memctl/profiles/<name>.yaml). Environment
// variables (MEMCTL_*) override file values, and CLI flags override both.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// Defaults applied when neither file nor environment provides a value.
const (
	DefaultBaseURL      = "http://localhost:8000"
	DefaultOutputFormat = "table"
	DefaultCacheTTL     = 300
	DefaultCacheSizeMB  = 50
	configDirName       = ".memctl"
	configFileName      = "config.yaml"
)

// Environment variable names recognized by memctl.
const (
	EnvBaseURL   = "MEMCTL_BASE_URL"
	EnvToken     = "MEMCTL_TOKEN"
	EnvOrg       = "MEMCTL_ORG"
	EnvLogLevel  = "MEMCTL_LOG_LEVEL"
	EnvLogFormat = "MEMCTL_LOG_FORMAT"
	EnvConfigDir = "MEMCTL_CONFIG_DIR"
)

// ServiceConfig holds connection settings for the memory service.
type ServiceConfig struct {
	// BaseURL is the root URL of the memory service API.
	BaseURL string `yaml:"base_url"`

	// Token is the bearer token used on every request.
	Token string `yaml:"token"`

	// Organization scopes requests to one organization when set.
	Organization string `yaml:"organization"`

	// TimeoutSeconds bounds each HTTP request (0 = 30s default).
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

// OutputConfig holds rendering preferences.
type OutputConfig struct {
	// DefaultFormat is "table", "json", or "ndjson".
	DefaultFormat string `yaml:"default_format"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// CacheConfig holds response-cache settings.
type CacheConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Directory  string `yaml:"directory"`
	TTLSeconds int    `yaml:"ttl_seconds"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
}

// BulkConfig holds defaults for bulk operations.
type BulkConfig struct {
	// BatchSize is the default items-per-batch for bulk applies.
	BatchSize int `yaml:"batch_size"`

	// MaxConcurrency bounds concurrent batch submissions (1 = sequential).
	MaxConcurrency int `yaml:"max_concurrency"`
}

// Config is the root configuration for memctl.
type Config struct {
	Service ServiceConfig `yaml:"service"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
	Cache   CacheConfig   `yaml:"cache"`
	Bulk    BulkConfig    `yaml:"bulk"`
}

var (
	globalConfig   *Config      //nolint:gochecknoglobals // Set once per invocation, read by command handlers.
	globalConfigMu sync.RWMutex //nolint:gochecknoglobals // Protects globalConfig.
)

// SetGlobalConfig stores the loaded configuration for command handlers.
func SetGlobalConfig(cfg *Config) {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// GetGlobalConfig returns the configuration stored by SetGlobalConfig,
// or a default-valued Config when none was stored.
func GetGlobalConfig() *Config {
	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	if globalConfig == nil {
		return Default()
	}
	return globalConfig
}

// Default returns a Config populated with built-in defaults.
func Default() *Config {
	return &Config{
		Service: ServiceConfig{
			BaseURL: DefaultBaseURL,
		},
		Output: OutputConfig{
			DefaultFormat: DefaultOutputFormat,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Cache: CacheConfig{
			Enabled:    true,
			TTLSeconds: DefaultCacheTTL,
			MaxSizeMB:  DefaultCacheSizeMB,
		},
		Bulk: BulkConfig{
			BatchSize:      100,
			MaxConcurrency: 1,
		},
	}
}

// Dir returns the memctl configuration directory, honoring
// MEMCTL_CONFIG_DIR and falling back to ~/.memctl.
func Dir() string {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return configDirName
	}
	return filepath.Join(home, configDirName)
}

// CacheDir returns the default cache directory under the config dir.
func CacheDir() string {
	return filepath.Join(Dir(), "cache")
}

// New loads the global config file, applies environment overrides, and
// fills remaining gaps with defaults. A missing config file is not an
// error; a malformed one is.
func New() (*Config, error) {
	cfg := Default()

	path := filepath.Join(Dir(), configFileName)
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// First run: defaults plus environment are enough.
	case err != nil:
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	default:
		if unmarshalErr := yaml.Unmarshal(data, cfg); unmarshalErr != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, unmarshalErr)
		}
	}

	cfg.applyEnv()
	cfg.fillDefaults()
	return cfg, nil
}

// NewWithProfile loads the global config and shallow-merges the named
// profile overlay on top. An empty profile name behaves like New().
func NewWithProfile(profile string) (*Config, error) {
	cfg, err := New()
	if err != nil {
		return nil, err
	}
	if profile == "" {
		return cfg, nil
	}

	overlayPath := filepath.Join(Dir(), "profiles", profile+".yaml")
	if _, statErr := os.Stat(overlayPath); statErr != nil {
		return nil, fmt.Errorf("profile %q not found at %s", profile, overlayPath)
	}

	if mergeErr := ShallowMergeYAML(cfg, overlayPath); mergeErr != nil {
		return nil, mergeErr
	}

	cfg.applyEnv()
	cfg.fillDefaults()
	return cfg, nil
}

// applyEnv overrides file values with MEMCTL_* environment variables.
func (c *Config) applyEnv() {
	if v := os.Getenv(EnvBaseURL); v != "" {
		c.Service.BaseURL = v
	}
	if v := os.Getenv(EnvToken); v != "" {
		c.Service.Token = v
	}
	if v := os.Getenv(EnvOrg); v != "" {
		c.Service.Organization = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		c.Logging.Format = v
	}
}

// fillDefaults replaces zero values with built-in defaults.
func (c *Config) fillDefaults() {
	if c.Service.BaseURL == "" {
		c.Service.BaseURL = DefaultBaseURL
	}
	if c.Output.DefaultFormat == "" {
		c.Output.DefaultFormat = DefaultOutputFormat
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Cache.Directory == "" {
		c.Cache.Directory = CacheDir()
	}
	if c.Cache.TTLSeconds == 0 {
		c.Cache.TTLSeconds = DefaultCacheTTL
	}
	if c.Cache.MaxSizeMB == 0 {
		c.Cache.MaxSizeMB = DefaultCacheSizeMB
	}
	if c.Bulk.BatchSize == 0 {
		c.Bulk.BatchSize = 100
	}
	if c.Bulk.MaxConcurrency == 0 {
		c.Bulk.MaxConcurrency = 1
	}
}

// GetDefaultOutputFormat returns the configured default output format.
func GetDefaultOutputFormat() string {
	return GetGlobalConfig().Output.DefaultFormat
}

// WriteDefault writes a commented default config file to the config dir.
// It refuses to overwrite an existing file.
func WriteDefault() (string, error) {
	dir := Dir()
	if err := os.MkdirAll(dir, 0750); err != nil {
		return "", fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(dir, configFileName)
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("config file already exists at %s", path)
	}

	data, err := yaml.Marshal(Default())
	if err != nil {
		return "", fmt.Errorf("marshalling default config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return "", fmt.Errorf("writing config file: %w", err)
	}

	return path, nil
}
