package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/flexdock/pkg/cache"
	"github.com/matzehuels/flexdock/pkg/config"
)

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")

	dir, err := cacheDir(config.CacheConfig{})
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	home, _ := os.UserHomeDir()
	expected := filepath.Join(home, ".cache", appName)
	if dir != expected {
		t.Errorf("cacheDir() = %q, want %q", dir, expected)
	}
}

func TestCacheDirXDG(t *testing.T) {
	customCache := "/tmp/custom-cache"
	t.Setenv("XDG_CACHE_HOME", customCache)

	dir, err := cacheDir(config.CacheConfig{})
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	expected := filepath.Join(customCache, appName)
	if dir != expected {
		t.Errorf("cacheDir() with XDG_CACHE_HOME = %q, want %q", dir, expected)
	}
}

func TestCacheDirConfigured(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/ignored")

	dir, err := cacheDir(config.CacheConfig{Dir: "/srv/flexdock-cache"})
	if err != nil {
		t.Fatal(err)
	}
	if dir != "/srv/flexdock-cache" {
		t.Errorf("cacheDir() = %q, want the configured dir", dir)
	}
}

func TestNewCache(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		cfg     config.CacheConfig
		noCache bool
		wantNil bool
	}{
		{"file", config.CacheConfig{Backend: config.CacheFile, Dir: dir}, false, false},
		{"none", config.CacheConfig{Backend: config.CacheNone}, false, true},
		{"no-cache flag wins", config.CacheConfig{Backend: config.CacheFile, Dir: dir}, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(io.Discard, LogInfo).newCache(context.Background(), tt.cfg, tt.noCache)
			if err != nil {
				t.Fatalf("newCache() error = %v", err)
			}
			_, isNull := c.(cache.NullCache)
			if isNull != tt.wantNil {
				t.Errorf("newCache() = %T, want NullCache %v", c, tt.wantNil)
			}
		})
	}
}

func TestNewCacheWithoutDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")
	t.Setenv("HOME", "")

	var buf bytes.Buffer
	c, err := New(&buf, LogDebug).newCache(context.Background(), config.CacheConfig{Backend: config.CacheFile}, false)
	if err != nil {
		t.Fatalf("newCache() error = %v", err)
	}
	if _, ok := c.(cache.NullCache); !ok {
		t.Errorf("newCache() = %T, want NullCache", c)
	}
	if !strings.Contains(buf.String(), "cache dir unavailable") {
		t.Errorf("debug log = %q, want the cache dir error", buf.String())
	}
}

func TestCacheCommands(t *testing.T) {
	dir := t.TempDir()
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	for _, k := range []string{"frames:a", "artifact:b"} {
		if err := fc.Set(ctx, k, []byte(`{"x":1}`), 0); err != nil {
			t.Fatal(err)
		}
	}

	cfgPath := writeConfig(t, "[cache]\ndir = "+quote(dir)+"\n")
	if err := runCLI(t, "--config", cfgPath, "cache", "stats"); err != nil {
		t.Fatalf("cache stats: %v", err)
	}
	if err := runCLI(t, "--config", cfgPath, "cache", "clear"); err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	entries, _, err := fc.Stats()
	if err != nil {
		t.Fatal(err)
	}
	if entries != 0 {
		t.Errorf("entries after clear = %d, want 0", entries)
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{5 << 20, "5.0 MiB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.n); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

// quote renders s as a TOML basic string.
func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `\`, `\\`) + `"`
}
