// Package config loads the flexdock settings file.
//
// The file lives at $XDG_CONFIG_HOME/flexdock/config.toml (falling back to
// ~/.config/flexdock/config.toml) and is decoded on top of [Default], so
// every key is optional:
//
//	[frame]
//	width = 1280
//	height = 800
//
//	[cache]
//	backend = "redis"
//	redis.addr = "localhost:6379"
//
//	[store]
//	backend = "mongo"
//	mongo.uri = "mongodb://localhost:27017"
//
// Command-line flags override file values.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/flexdock/pkg/cache"
	errs "github.com/matzehuels/flexdock/pkg/errors"
	"github.com/matzehuels/flexdock/pkg/pipeline"
	"github.com/matzehuels/flexdock/pkg/render"
	"github.com/matzehuels/flexdock/pkg/store"
)

// AppName names the config, cache and data directories.
const AppName = "flexdock"

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// =============================================================================
// Config
// =============================================================================

// Config holds every setting read from the config file.
type Config struct {
	Frame  FrameConfig  `toml:"frame"`
	Cache  CacheConfig  `toml:"cache"`
	Store  store.Config `toml:"store"`
	Server ServerConfig `toml:"server"`
}

// FrameConfig holds the rendering defaults.
type FrameConfig struct {
	Width    int  `toml:"width"`
	Height   int  `toml:"height"`
	TabWidth int  `toml:"tab_width"`
	Labels   bool `toml:"labels"`
}

// CacheConfig selects where frames and artifacts are cached.
type CacheConfig struct {
	Backend string            `toml:"backend"`
	Dir     string            `toml:"dir"`
	Redis   cache.RedisConfig `toml:"redis"`
}

// ServerConfig configures `flexdock serve`.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Frame: FrameConfig{
			Width:    pipeline.DefaultWidth,
			Height:   pipeline.DefaultHeight,
			TabWidth: render.DefaultTabWidth,
			Labels:   true,
		},
		Cache: CacheConfig{
			Backend: CacheFile,
			Redis:   cache.RedisConfig{Addr: "localhost:6379"},
		},
		Store: store.Config{
			Backend: store.BackendFile,
			Redis:   store.RedisConfig{Addr: "localhost:6379", Prefix: AppName + ":"},
			Mongo:   store.MongoConfig{URI: "mongodb://localhost:27017"},
		},
		Server: ServerConfig{Addr: ":8080"},
	}
}

// Validate checks backend names and sizes.
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case CacheFile, CacheRedis, CacheNone:
	default:
		return errs.New(errs.ErrCodeInvalidInput, "cache.backend %q (must be file, redis or none)", c.Cache.Backend)
	}
	switch c.Store.Backend {
	case store.BackendMemory, store.BackendFile, store.BackendRedis, store.BackendMongo:
	default:
		return errs.New(errs.ErrCodeInvalidInput, "store.backend %q (must be memory, file, redis or mongo)", c.Store.Backend)
	}
	if c.Frame.Width < 0 || c.Frame.Height < 0 || c.Frame.TabWidth < 0 {
		return errs.New(errs.ErrCodeInvalidInput, "frame sizes must not be negative")
	}
	return nil
}

// =============================================================================
// Paths
// =============================================================================

// Dir returns the config directory.
func Dir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".config", AppName)
	}
	return filepath.Join(home, ".config", AppName)
}

// Path returns the default config file path.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// CacheDir returns the default file cache directory (~/.cache/flexdock).
func CacheDir() (string, error) {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", AppName), nil
}

// =============================================================================
// Load / Save
// =============================================================================

// Load reads path (the default path when empty) over Default. A missing
// file is not an error.
func Load(path string) (*Config, error) {
	if path == "" {
		path = Path()
	}
	cfg := Default()
	md, err := toml.DecodeFile(path, cfg)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "read config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errs.New(errs.ErrCodeInvalidInput, "unknown config key %q in %s", undecoded[0].String(), path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config to path (the default path when empty).
func (c *Config) Save(path string) error {
	if path == "" {
		path = Path()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// PipelineOptions returns pipeline options seeded with the frame defaults.
func (c *Config) PipelineOptions() pipeline.Options {
	return pipeline.Options{
		Width:    c.Frame.Width,
		Height:   c.Frame.Height,
		TabWidth: c.Frame.TabWidth,
		Labels:   c.Frame.Labels,
	}
}
