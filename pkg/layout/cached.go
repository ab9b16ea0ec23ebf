package layout

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/arnet/pkg/cache"
	"github.com/matzehuels/arnet/pkg/graph"
	"github.com/matzehuels/arnet/pkg/observability"
	"github.com/matzehuels/arnet/pkg/topology"
)

const cacheTimeout = 2 * time.Second

// CacheOptions configures a [Cached] strategy.
type CacheOptions struct {
	TTL    time.Duration // Entry lifetime (default cache.TTLLayout)
	Keyer  cache.Keyer   // Key derivation (default cache.NewDefaultKeyer)
	Logger *log.Logger
	Hooks  observability.CacheHooks
}

// Cached wraps a Strategy with a layout cache. The key covers the strategy
// name and seed, every vertex id with its prior position, the live edges and
// the alarm and situation keys. Cache failures are logged and fall through to
// the wrapped strategy.
type Cached struct {
	inner  Strategy
	cache  cache.Cache
	ttl    time.Duration
	keyer  cache.Keyer
	logger *log.Logger
	hooks  observability.CacheHooks
}

// NewCached wraps inner with c.
func NewCached(inner Strategy, c cache.Cache, opts CacheOptions) *Cached {
	if opts.TTL <= 0 {
		opts.TTL = cache.TTLLayout
	}
	if opts.Keyer == nil {
		opts.Keyer = cache.NewDefaultKeyer()
	}
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if opts.Hooks == nil {
		opts.Hooks = observability.NoopCacheHooks{}
	}
	return &Cached{
		inner:  inner,
		cache:  c,
		ttl:    opts.TTL,
		keyer:  opts.Keyer,
		logger: opts.Logger,
		hooks:  opts.Hooks,
	}
}

// Name returns the wrapped strategy's name.
func (c *Cached) Name() string { return c.inner.Name() }

// Seed returns the wrapped strategy's seed, or 0 if it is unseeded.
func (c *Cached) Seed() uint64 { return seedOf(c.inner) }

// Apply restores positions from the cache when possible and otherwise runs
// the wrapped strategy and stores its result.
func (c *Cached) Apply(g *topology.Graph, s *topology.Store) {
	ctx, cancel := context.WithTimeout(context.Background(), cacheTimeout)
	defer cancel()

	key := c.keyer.LayoutKey(fingerprint(g, s), cache.LayoutKeyOpts{
		Strategy: c.inner.Name(),
		Seed:     seedOf(c.inner),
	})

	data, ok, err := c.cache.Get(ctx, key)
	switch {
	case err != nil:
		c.logger.Warn("layout cache read failed", "error", err)
	case ok:
		l, err := graph.UnmarshalLayout(data)
		if err == nil && l.Restore(g, s) {
			c.hooks.OnCacheHit("layout")
			c.logger.Debug("layout cache hit", "strategy", c.inner.Name())
			return
		}
		c.logger.Debug("discarding stale layout cache entry", "error", err)
	}
	c.hooks.OnCacheMiss("layout")

	c.inner.Apply(g, s)

	out, err := graph.MarshalLayout(graph.FromTopology(g, s, c.inner.Name(), seedOf(c.inner)))
	if err != nil {
		c.logger.Warn("encode layout for cache", "error", err)
		return
	}
	if err := c.cache.Set(ctx, key, out, c.ttl); err != nil {
		c.logger.Warn("layout cache write failed", "error", err)
		return
	}
	c.hooks.OnCacheSet("layout", len(out))
}

func seedOf(s Strategy) uint64 {
	if sd, ok := s.(Seeded); ok {
		return sd.Seed()
	}
	return 0
}

type fpVertex struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// fingerprint hashes everything a layout result depends on.
func fingerprint(g *topology.Graph, s *topology.Store) string {
	var doc struct {
		Vertices   []fpVertex      `json:"v"`
		Edges      []topology.Edge `json:"e"`
		Alarms     []string        `json:"a"`
		Situations []string        `json:"s"`
	}
	for _, id := range g.VertexIDs() {
		p, _ := g.Position(id)
		doc.Vertices = append(doc.Vertices, fpVertex{ID: id, X: p.X, Y: p.Y})
	}
	for _, e := range g.LiveEdges() {
		doc.Edges = append(doc.Edges, topology.Edge{ID: e.ID, SourceID: e.SourceID, TargetID: e.TargetID})
	}
	if s != nil {
		for _, a := range s.Alarms() {
			doc.Alarms = append(doc.Alarms, a.ReductionKey)
		}
		for _, sit := range s.Situations() {
			doc.Situations = append(doc.Situations, sit.ReductionKey)
		}
	}
	data, _ := json.Marshal(doc)
	return cache.Hash(data)
}
