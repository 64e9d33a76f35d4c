package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// envRedisURL selects the Redis cache backend when set.
const envRedisURL = "PRECEDENCE_REDIS_URL"

// Config is the optional TOML configuration file. Command-line flags take
// precedence over every value in it.
//
//	[search]
//	acceptance = "full"
//	timeout = "10s"
//
//	[cache]
//	backend = "redis"
//	redis_url = "redis://localhost:6379/0"
type Config struct {
	Search SearchConfig `toml:"search"`
	Input  InputConfig  `toml:"input"`
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
}

// SearchConfig holds the default repair options.
type SearchConfig struct {
	Acceptance  string        `toml:"acceptance"`
	Winner      string        `toml:"winner"`
	Strategy    string        `toml:"strategy"`
	Parallelism int           `toml:"parallelism"`
	Timeout     time.Duration `toml:"timeout"`
}

// InputConfig holds the default error policies.
type InputConfig struct {
	SkipMalformed bool `toml:"skip_malformed"`
	KeepGoing     bool `toml:"keep_going"`
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	Backend  string        `toml:"backend"` // file (default), redis, none
	Dir      string        `toml:"dir"`
	RedisURL string        `toml:"redis_url"`
	TTL      time.Duration `toml:"ttl"`
}

// ServerConfig holds defaults for the serve command.
type ServerConfig struct {
	Addr         string `toml:"addr"`
	Root         string `toml:"root"`
	MaxRules     int    `toml:"max_rules"`
	MaxSequences int    `toml:"max_sequences"`
}

const (
	backendFile  = "file"
	backendRedis = "redis"
	backendNone  = "none"
)

// loadConfig reads the configuration file at path. A missing file is an
// error only when the path was given explicitly.
func loadConfig(path string, explicit bool) (*Config, error) {
	cfg := &Config{}
	md, err := toml.DecodeFile(path, cfg)
	switch {
	case errors.Is(err, os.ErrNotExist) && !explicit:
		cfg = &Config{}
	case err != nil:
		return nil, fmt.Errorf("load config %s: %w", path, err)
	default:
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return nil, fmt.Errorf("load config %s: unknown keys: %s", path, strings.Join(keys, ", "))
		}
	}

	if url := os.Getenv(envRedisURL); url != "" {
		cfg.Cache.RedisURL = url
		if cfg.Cache.Backend == "" {
			cfg.Cache.Backend = backendRedis
		}
	}
	if cfg.Cache.Backend == "" {
		cfg.Cache.Backend = backendFile
	}
	switch cfg.Cache.Backend {
	case backendFile, backendRedis, backendNone:
	default:
		return nil, fmt.Errorf("invalid cache backend: %q (must be one of: file, redis, none)", cfg.Cache.Backend)
	}
	if cfg.Cache.Backend == backendRedis && cfg.Cache.RedisURL == "" {
		return nil, fmt.Errorf("cache backend redis needs redis_url or %s", envRedisURL)
	}
	return cfg, nil
}

// configPath returns the default configuration file path using the XDG
// standard (~/.config/precedence/config.toml).
func configPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}
