// Package config loads hexboard settings from a TOML file.
//
// The file lives at $XDG_CONFIG_HOME/hexboard/config.toml (or
// ~/.config/hexboard/config.toml). Every setting has a default, so the file
// is optional; command-line flags override what it sets.
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//	ttl = "24h"
//
//	[store]
//	backend = "mongo"
//	mongo_uri = "mongodb://localhost:27017"
//
//	[style]
//	color = "blue"
//	size = "medium"
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/hexboard/pkg/errors"
	"github.com/matzehuels/hexboard/pkg/shapes/style"
)

const (
	appName = "hexboard"

	// FileName is the config file name inside the config directory.
	FileName = "config.toml"
)

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Store backends.
const (
	StoreMemory = "memory"
	StoreMongo  = "mongo"
)

// Config is the full set of settings.
type Config struct {
	Cache  CacheConfig  `toml:"cache"`
	Store  StoreConfig  `toml:"store"`
	Server ServerConfig `toml:"server"`
	Render RenderConfig `toml:"render"`
	Style  StyleConfig  `toml:"style"`
}

// CacheConfig selects and configures the render cache.
type CacheConfig struct {
	Backend   string   `toml:"backend"`
	Dir       string   `toml:"dir,omitempty"`
	TTL       Duration `toml:"ttl"`
	RedisAddr string   `toml:"redis_addr,omitempty"`
	Prefix    string   `toml:"prefix,omitempty"`
}

// StoreConfig selects and configures the block store.
type StoreConfig struct {
	Backend  string `toml:"backend"`
	MongoURI string `toml:"mongo_uri,omitempty"`
	Database string `toml:"database,omitempty"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr         string   `toml:"addr"`
	ReadTimeout  Duration `toml:"read_timeout"`
	WriteTimeout Duration `toml:"write_timeout"`
}

// RenderConfig holds default render options.
type RenderConfig struct {
	Formats    []string `toml:"formats"`
	Indicators bool     `toml:"indicators"`
	Labels     bool     `toml:"labels"`
	Scale      float64  `toml:"scale"`
}

// StyleConfig is the style given to hexagons that have none.
type StyleConfig struct {
	Color  string `toml:"color"`
	Size   string `toml:"size"`
	Dash   string `toml:"dash"`
	Filled bool   `toml:"filled"`
}

// Style converts the settings to a shape style.
func (c StyleConfig) Style() style.Style {
	return style.Style{
		Color:    style.Color(c.Color),
		Size:     style.Size(c.Size),
		Dash:     style.Dash(c.Dash),
		IsFilled: c.Filled,
		Scale:    1,
	}
}

// Duration is a time.Duration written as a Go duration string ("90s",
// "24h").
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText formats the duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in settings.
func Default() Config {
	def := style.Default()
	return Config{
		Cache: CacheConfig{
			Backend: CacheFile,
			TTL:     Duration{24 * time.Hour},
		},
		Store: StoreConfig{
			Backend:  StoreMemory,
			Database: appName,
		},
		Server: ServerConfig{
			Addr:         "127.0.0.1:8080",
			ReadTimeout:  Duration{30 * time.Second},
			WriteTimeout: Duration{60 * time.Second},
		},
		Render: RenderConfig{
			Formats: []string{"svg"},
			Scale:   2,
		},
		Style: StyleConfig{
			Color: string(def.Color),
			Size:  string(def.Size),
			Dash:  string(def.Dash),
		},
	}
}

// Dir returns the hexboard config directory.
func Dir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// DefaultPath returns the path of the default config file.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName), nil
}

// Load reads settings from path on top of the defaults. An empty path means
// the default file, which may be absent; an explicit path must exist.
// Unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if os.IsNotExist(err) {
			if !explicit {
				return Default(), nil
			}
			return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return Config{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, errors.New(errors.ErrCodeInvalidInput, "config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks backend names, addresses and the default style.
func (c Config) Validate() error {
	switch c.Cache.Backend {
	case CacheFile, CacheNone:
	case CacheRedis:
		if err := errors.ValidateRedisAddr(c.Cache.RedisAddr); err != nil {
			return err
		}
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown cache backend %q (want file, redis or none)", c.Cache.Backend)
	}
	if c.Cache.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "cache ttl must not be negative")
	}

	switch c.Store.Backend {
	case StoreMemory:
	case StoreMongo:
		if err := errors.ValidateMongoURI(c.Store.MongoURI); err != nil {
			return err
		}
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown store backend %q (want memory or mongo)", c.Store.Backend)
	}

	if c.Render.Scale < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "render scale must not be negative")
	}
	return c.Style.Style().Validate()
}

// Encode writes c as TOML.
func (c Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}
