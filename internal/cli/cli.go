// Package cli implements the arnet command-line interface.
package cli

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/arnet/internal/config"
	"github.com/matzehuels/arnet/pkg/cache"
	"github.com/matzehuels/arnet/pkg/dispatch"
	"github.com/matzehuels/arnet/pkg/errors"
	"github.com/matzehuels/arnet/pkg/layout"
	"github.com/matzehuels/arnet/pkg/metrics"
	"github.com/matzehuels/arnet/pkg/observability"
	"github.com/matzehuels/arnet/pkg/synchronizer"
)

// =============================================================================
// Constants
// =============================================================================

const appName = "arnet"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config config.Config

	configPath string
}

// New creates a new CLI instance with a default logger and configuration.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// =============================================================================
// Engine Factory
// =============================================================================

// engine bundles the synchronizer with its dispatcher and instrumentation.
type engine struct {
	dispatcher *dispatch.Dispatcher
	sync       *synchronizer.Synchronizer
	metrics    *metrics.Registry
	cache      cache.Cache
	cacheStats *cacheStats
	wrap       func(layout.Strategy) layout.Strategy
}

// engineOptions override the loaded configuration for a single command.
type engineOptions struct {
	Strategy string
	Seed     uint64
	SeedSet  bool
	NoCache  bool
}

func (c *CLI) newEngine(opts engineOptions) (*engine, error) {
	reg := metrics.NewRegistry()
	hooks := reg.Hooks()
	stats := &cacheStats{next: hooks.Cache}
	hooks.Cache = stats

	base, err := c.baseStrategy(opts)
	if err != nil {
		return nil, err
	}
	store, wrap, err := c.newLayoutCache(opts, hooks)
	if err != nil {
		return nil, err
	}
	strategy := wrap(base)

	d := dispatch.New(hooks.Dispatch)
	s := synchronizer.New(d, synchronizer.Options{
		Strategy:             strategy,
		RelayoutOnEdgeChange: c.Config.Layout.RelayoutOnEdgeChange,
		Logger:               c.Logger,
		Hooks:                hooks,
	})
	return &engine{dispatcher: d, sync: s, metrics: reg, cache: store, cacheStats: stats, wrap: wrap}, nil
}

// strategy builds a replacement strategy that shares the engine's layout
// cache.
func (e *engine) strategy(name string, seed uint64) (layout.Strategy, error) {
	st, err := layout.New(name, seed)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidStrategy, err, "unknown strategy %q (available: %s)", name, strings.Join(layout.Names(), ", "))
	}
	return e.wrap(st), nil
}

// Close releases the layout cache.
func (e *engine) Close() error {
	return e.cache.Close()
}

// baseStrategy builds the configured strategy, with flags taking precedence.
func (c *CLI) baseStrategy(opts engineOptions) (layout.Strategy, error) {
	name := opts.Strategy
	if name == "" {
		name = c.Config.Layout.Strategy
	}
	seed := c.Config.Layout.Seed
	if opts.SeedSet {
		seed = opts.Seed
	}
	st, err := layout.New(name, seed)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidStrategy, err, "unknown strategy %q (available: %s)", name, strings.Join(layout.Names(), ", "))
	}
	return st, nil
}

// newLayoutCache opens the configured cache backend and returns a function
// that wraps strategies with it. With caching disabled the wrapper returns
// its argument unchanged.
func (c *CLI) newLayoutCache(opts engineOptions, hooks observability.Hooks) (cache.Cache, func(layout.Strategy) layout.Strategy, error) {
	backend := c.Config.Layout.Cache
	if opts.NoCache {
		backend = config.CacheNone
	}
	store, err := newCache(backend, c.Config.Cache)
	if err != nil {
		return nil, nil, err
	}
	if backend == config.CacheNone {
		return store, func(st layout.Strategy) layout.Strategy { return st }, nil
	}

	prefix := c.Config.Cache.Prefix
	if prefix != "" && !strings.HasSuffix(prefix, ":") {
		prefix += ":"
	}
	copts := layout.CacheOptions{
		TTL:    c.Config.Cache.TTL,
		Keyer:  cache.NewScopedKeyer(cache.NewDefaultKeyer(), prefix),
		Logger: c.Logger,
		Hooks:  hooks.Cache,
	}
	return store, func(st layout.Strategy) layout.Strategy {
		return layout.NewCached(st, store, copts)
	}, nil
}

func newCache(backend string, cfg config.Cache) (cache.Cache, error) {
	var c cache.Cache
	switch backend {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheFile:
		fc, err := cache.NewFileCache(cfg.Dir)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "open cache dir %s", cfg.Dir)
		}
		c = fc
	case config.CacheRedis:
		c = cache.NewRedisCache(cfg.RedisAddr)
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", backend)
	}
	if cfg.Compress {
		c = cache.NewCompressed(c)
	}
	return c, nil
}

// cacheStats counts layout cache hits for the summary line and forwards
// every event to the metrics hooks.
type cacheStats struct {
	next   observability.CacheHooks
	hits   int
	misses int
}

func (s *cacheStats) OnCacheHit(keyType string) {
	s.hits++
	s.next.OnCacheHit(keyType)
}

func (s *cacheStats) OnCacheMiss(keyType string) {
	s.misses++
	s.next.OnCacheMiss(keyType)
}

func (s *cacheStats) OnCacheSet(keyType string, size int) {
	s.next.OnCacheSet(keyType, size)
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseList splits a comma-separated flag value, dropping empty entries.
func parseList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// locationsOr returns the flag value if set, otherwise the configured
// locations.
func (c *CLI) locationsOr(flag string) []string {
	if flag != "" {
		return parseList(flag)
	}
	return c.Config.Feed.Locations
}

func openOutput(path string) (*os.File, error) {
	if path == "" || path == "-" {
		return os.Stdout, nil
	}
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", path)
	}
	return f, nil
}
