// Package config loads snipsync configuration from a TOML file.
//
// Configuration is optional: every field has a default, so running with no
// config file at all is the common case. When present, the file is looked
// up at an explicit path, then ./snipsync.toml, then
// ~/.config/snipsync/config.toml.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/portal-co/snipsync/pkg/errors"
)

// FileName is the config file basename probed in the working directory
// and under ~/.config/snipsync/.
const FileName = "snipsync.toml"

// Cache backend names accepted in the [cache] section.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Config holds all snipsync settings.
type Config struct {
	// Owner is the GitHub organization whose Rust repositories are harvested.
	Owner string `toml:"owner"`

	// OutputDir is the root of the snippet store.
	OutputDir string `toml:"output_dir"`

	// HTTPTimeout bounds each manifest fetch.
	HTTPTimeout duration `toml:"http_timeout"`

	// Cache configures the HTTP response cache.
	Cache CacheConfig `toml:"cache"`
}

// CacheConfig selects and configures the HTTP response cache backend.
type CacheConfig struct {
	Backend string   `toml:"backend"` // "file", "redis", or "none"
	Dir     string   `toml:"dir"`     // file backend: cache directory ("" = default)
	TTL     duration `toml:"ttl"`     // entry lifetime, 0 = never expire

	Redis RedisConfig `toml:"redis"`
}

// RedisConfig holds redis backend connection settings.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// Default returns the configuration used when no file is found.
func Default() *Config {
	return &Config{
		Owner:       "portal-co",
		OutputDir:   "snippets",
		HTTPTimeout: duration(10 * time.Second),
		Cache: CacheConfig{
			Backend: BackendFile,
			TTL:     duration(24 * time.Hour),
			Redis:   RedisConfig{Addr: "localhost:6379"},
		},
	}
}

// Load reads configuration from path, or probes the default locations when
// path is empty. A missing file yields the defaults; a file that exists
// but cannot be parsed is an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = probe()
		if path == "" {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Cache.Backend {
	case BackendFile, BackendRedis, BackendNone:
	default:
		return errors.New(errors.ErrCodeInvalidConfig,
			"unknown cache backend %q (must be file, redis, or none)", c.Cache.Backend)
	}
	if c.Owner == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "owner cannot be empty")
	}
	if c.OutputDir == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "output_dir cannot be empty")
	}
	return nil
}

// Timeout returns the HTTP timeout as a time.Duration.
func (c *Config) Timeout() time.Duration { return time.Duration(c.HTTPTimeout) }

// TTL returns the cache TTL as a time.Duration.
func (c *CacheConfig) CacheTTL() time.Duration { return time.Duration(c.TTL) }

// probe returns the first config file that exists among the default
// locations, or "" if none does.
func probe() string {
	if _, err := os.Stat(FileName); err == nil {
		return FileName
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	path := filepath.Join(home, ".config", "snipsync", FileName)
	if _, err := os.Stat(path); err == nil {
		return path
	}
	return ""
}

// duration wraps time.Duration so TOML values like "30s" parse naturally.
type duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler for TOML decoding.
func (d *duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	*d = duration(parsed)
	return nil
}
