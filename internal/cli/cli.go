// Package cli implements the hexboard command-line interface.
//
// Commands compute hexagon geometry, render board pages, apply page changes
// to a block store, browse pages interactively, and serve the HTTP API.
// Settings come from the TOML config file (see package config); flags
// override them. All commands accept --verbose (-v) for debug logging.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/hexboard/pkg/board"
	"github.com/matzehuels/hexboard/pkg/board/mongostore"
	"github.com/matzehuels/hexboard/pkg/cache"
	"github.com/matzehuels/hexboard/pkg/config"
	"github.com/matzehuels/hexboard/pkg/pipeline"
)

const appName = "hexboard"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config config.Config

	configPath string
	out        io.Writer
}

// New creates a CLI that logs to w at level and prints results to stdout.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
		out:    os.Stdout,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// SetOutput redirects command output.
func (c *CLI) SetOutput(w io.Writer) {
	c.out = w
}

// loadConfig reads the config file named by --config, or the default one.
func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg
	return nil
}

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cc, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	var keyer cache.Keyer
	if c.Config.Cache.Prefix != "" {
		keyer = cache.NewScopedKeyer(cache.NewDefaultKeyer(), c.Config.Cache.Prefix)
	}
	r := pipeline.NewRunner(cc, keyer, c.Logger)
	r.TTL = c.Config.Cache.TTL.Duration
	return r, nil
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch c.Config.Cache.Backend {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheRedis:
		c.Logger.Debug("using redis cache", "addr", c.Config.Cache.RedisAddr)
		return cache.NewRedisCache(ctx, c.Config.Cache.RedisAddr)
	}
	dir, err := c.cacheDir()
	if err != nil {
		c.Logger.Warn("no cache directory, caching disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// newStore opens the configured block store.
func (c *CLI) newStore(ctx context.Context) (board.BlockStore, error) {
	if c.Config.Store.Backend == config.StoreMongo {
		c.Logger.Debug("connecting to mongo", "database", c.Config.Store.Database)
		return mongostore.New(ctx, c.Config.Store.MongoURI, c.Config.Store.Database)
	}
	c.Logger.Warn("using the in-memory block store; changes last only for this process")
	return board.NewMemoryStore(), nil
}

// cacheDir returns the configured cache directory, or the XDG default
// (~/.cache/hexboard/).
func (c *CLI) cacheDir() (string, error) {
	if c.Config.Cache.Dir != "" {
		return c.Config.Cache.Dir, nil
	}
	return cacheDir()
}

func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
