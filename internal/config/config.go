// Package config loads listenbot settings from .listenbot.yaml, LISTENBOT_*
// environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"time"

	"github.com/aretw0/listenbot/internal/logging"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment overrides, e.g. LISTENBOT_ENGINE_URL.
const EnvPrefix = "LISTENBOT"

// Engine kinds.
const (
	EngineScript = "script"
	EngineRemote = "remote"
)

// Store backends.
const (
	StoreNone   = "none"
	StoreMemory = "memory"
	StoreRedis  = "redis"
	StoreFile   = "file"
)

// Config represents the full listenbot configuration.
type Config struct {
	// Script is a built-in industry name or the path of a script file.
	Script  string        `mapstructure:"script"`
	Engine  EngineConfig  `mapstructure:"engine"`
	Session SessionConfig `mapstructure:"session"`
	Store   StoreConfig   `mapstructure:"store"`
	HTTP    HTTPConfig    `mapstructure:"http"`
	Log     LogConfig     `mapstructure:"log"`
	UI      UIConfig      `mapstructure:"ui"`
}

// EngineConfig selects the response engine.
type EngineConfig struct {
	Kind    string        `mapstructure:"kind"`
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// SessionConfig names the session. An empty ID is generated.
type SessionConfig struct {
	ID string `mapstructure:"id"`
}

// StoreConfig selects where tracker snapshots are exported.
type StoreConfig struct {
	Backend string      `mapstructure:"backend"`
	Redis   RedisConfig `mapstructure:"redis"`
	File    FileConfig  `mapstructure:"file"`

	// Redact lists regular expressions masked in exported text history.
	Redact []string `mapstructure:"redact"`
}

// RedisConfig contains the Redis snapshot store settings.
type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Prefix   string        `mapstructure:"prefix"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// FileConfig contains the file snapshot store settings.
type FileConfig struct {
	Dir string `mapstructure:"dir"`
}

// HTTPConfig is the listen address of the inspection API (run) or engine server (serve).
// An empty address disables the inspection API.
type HTTPConfig struct {
	Addr string `mapstructure:"addr"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// UIConfig contains terminal settings.
type UIConfig struct {
	Banner   bool `mapstructure:"banner"`
	Markdown bool `mapstructure:"markdown"`
	JSON     bool `mapstructure:"json"`
	// MaxReply bounds a user reply in bytes.
	MaxReply int `mapstructure:"max_reply"`
}

// SetDefaults registers default values on v. Defaults must be registered for
// environment variables to reach keys that are absent from the file.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("script", "house")
	v.SetDefault("engine.kind", EngineScript)
	v.SetDefault("engine.url", "")
	v.SetDefault("engine.timeout", 5*time.Second)
	v.SetDefault("session.id", "")
	v.SetDefault("store.backend", StoreNone)
	v.SetDefault("store.redis.addr", "localhost:6379")
	v.SetDefault("store.redis.password", "")
	v.SetDefault("store.redis.db", 0)
	v.SetDefault("store.redis.prefix", "listenbot:")
	v.SetDefault("store.redis.ttl", 24*time.Hour)
	v.SetDefault("store.file.dir", ".listenbot/sessions")
	v.SetDefault("store.redact", []string{})
	v.SetDefault("http.addr", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("ui.banner", true)
	v.SetDefault("ui.markdown", false)
	v.SetDefault("ui.json", false)
	v.SetDefault("ui.max_reply", 512)
}

// Load decodes v into a Config and applies defaults for unset fields.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(cfg, hook); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	applyDefaults(cfg)
	return cfg, nil
}

// applyDefaults sets default values for fields left empty.
func applyDefaults(cfg *Config) {
	if cfg.Script == "" {
		cfg.Script = "house"
	}
	if cfg.Engine.Kind == "" {
		cfg.Engine.Kind = EngineScript
	}
	if cfg.Engine.Timeout == 0 {
		cfg.Engine.Timeout = 5 * time.Second
	}
	if cfg.Store.Backend == "" {
		cfg.Store.Backend = StoreNone
	}
	if cfg.Store.Redis.Addr == "" {
		cfg.Store.Redis.Addr = "localhost:6379"
	}
	if cfg.Store.File.Dir == "" {
		cfg.Store.File.Dir = ".listenbot/sessions"
	}
	if cfg.Store.Redis.Prefix == "" {
		cfg.Store.Redis.Prefix = "listenbot:"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}

// Validate checks enums and settings that only make sense together.
// All problems are reported at once.
func (c *Config) Validate() error {
	var errs []error

	switch c.Engine.Kind {
	case EngineScript:
	case EngineRemote:
		if c.Engine.URL == "" {
			errs = append(errs, errors.New("engine.url is required when engine.kind is remote"))
		} else if u, err := url.Parse(c.Engine.URL); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("invalid engine.url: %q", c.Engine.URL))
		}
	default:
		errs = append(errs, fmt.Errorf("invalid engine.kind: %s (must be script or remote)", c.Engine.Kind))
	}
	if c.Engine.Timeout < 0 {
		errs = append(errs, errors.New("engine.timeout must not be negative"))
	}

	switch c.Store.Backend {
	case StoreNone, StoreMemory, StoreFile:
	case StoreRedis:
		if c.Store.Redis.TTL < 0 {
			errs = append(errs, errors.New("store.redis.ttl must not be negative"))
		}
	default:
		errs = append(errs, fmt.Errorf("invalid store.backend: %s (must be none, memory, redis or file)", c.Store.Backend))
	}
	for _, p := range c.Store.Redact {
		if _, err := regexp.Compile(p); err != nil {
			errs = append(errs, fmt.Errorf("invalid store.redact pattern %q: %w", p, err))
		}
	}

	if c.UI.MaxReply < 0 {
		errs = append(errs, errors.New("ui.max_reply must not be negative"))
	}

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("invalid log.level: %w", err))
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		errs = append(errs, fmt.Errorf("invalid log.format: %s (must be text or json)", c.Log.Format))
	}

	return errors.Join(errs...)
}
