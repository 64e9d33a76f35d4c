package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Setenv(envRedisURL, "")
	path := writeConfig(t, `
[search]
acceptance = "full"
winner = "first"
parallelism = 4
timeout = "5s"

[input]
keep_going = true

[cache]
backend = "none"
ttl = "1h"

[server]
addr = ":9000"
max_rules = 50
`)

	cfg, err := loadConfig(path, true)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Search.Acceptance != "full" || cfg.Search.Winner != "first" || cfg.Search.Parallelism != 4 {
		t.Errorf("Search = %+v", cfg.Search)
	}
	if cfg.Search.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", cfg.Search.Timeout)
	}
	if !cfg.Input.KeepGoing || cfg.Input.SkipMalformed {
		t.Errorf("Input = %+v", cfg.Input)
	}
	if cfg.Cache.Backend != backendNone || cfg.Cache.TTL != time.Hour {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if cfg.Server.Addr != ":9000" || cfg.Server.MaxRules != 50 {
		t.Errorf("Server = %+v", cfg.Server)
	}
}

func TestLoadConfigMissing(t *testing.T) {
	t.Setenv(envRedisURL, "")
	path := filepath.Join(t.TempDir(), "nope.toml")

	cfg, err := loadConfig(path, false)
	if err != nil {
		t.Fatalf("loadConfig(default path) error = %v", err)
	}
	if cfg.Cache.Backend != backendFile {
		t.Errorf("Backend = %q, want %q", cfg.Cache.Backend, backendFile)
	}

	if _, err := loadConfig(path, true); err == nil {
		t.Error("loadConfig(explicit missing path) should fail")
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	t.Setenv(envRedisURL, "")
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"unknown key", "[search]\ncolour = \"red\"\n", "unknown keys: search.colour"},
		{"bad backend", "[cache]\nbackend = \"memcached\"\n", "invalid cache backend"},
		{"redis without url", "[cache]\nbackend = \"redis\"\n", "needs redis_url"},
		{"syntax", "[search\n", "load config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadConfig(writeConfig(t, tt.content), true)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("loadConfig() error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadConfigRedisEnv(t *testing.T) {
	t.Setenv(envRedisURL, "redis://localhost:6379/1")
	cfg, err := loadConfig(filepath.Join(t.TempDir(), "nope.toml"), false)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Cache.Backend != backendRedis || cfg.Cache.RedisURL != "redis://localhost:6379/1" {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
}

func TestConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	path, err := configPath()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join("/tmp/xdg", "precedence", "config.toml"); path != want {
		t.Errorf("configPath() = %q, want %q", path, want)
	}
}
