package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/arnet/pkg/observability"
)

const namespace = "arnet"

// Registry holds all metrics of a process.
type Registry struct {
	// Synchronizer
	ApplyTotal        *prometheus.CounterVec
	MergesTotal       prometheus.Counter
	MergeDuration     prometheus.Histogram
	MergeChanges      *prometheus.CounterVec
	EdgesDroppedTotal prometheus.Counter
	ModelSize         *prometheus.GaugeVec

	// Layout
	LayoutsTotal   *prometheus.CounterVec
	LayoutDuration *prometheus.HistogramVec
	LayoutVertices prometheus.Gauge

	// Cache
	CacheRequests *prometheus.CounterVec
	CacheBytes    *prometheus.CounterVec

	// Dispatch
	PublishedTotal *prometheus.CounterVec
	DrainBatch     prometheus.Histogram
	DrainDuration  prometheus.Histogram

	registry *prometheus.Registry
}

// NewRegistry returns a registry with every metric registered, plus the Go
// runtime and process collectors.
func NewRegistry() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}
	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	r.initSyncMetrics()
	r.initLayoutMetrics()
	r.initCacheMetrics()
	r.initDispatchMetrics()
	return r
}

// Gatherer exposes the underlying registry for scraping and tests.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Hooks returns observability hooks that record into r.
func (r *Registry) Hooks() observability.Hooks {
	return observability.Hooks{
		Sync:     syncHooks{r},
		Layout:   layoutHooks{r},
		Cache:    cacheHooks{r},
		Dispatch: dispatchHooks{r},
	}
}

func (r *Registry) initSyncMetrics() {
	f := promauto.With(r.registry)
	r.ApplyTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sync_apply_total",
			Help:      "Incremental feed operations by operation and outcome",
		},
		[]string{"op", "result"},
	)
	r.MergesTotal = f.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sync_merges_total",
		Help:      "Snapshot merges",
	})
	r.MergeDuration = f.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "sync_merge_duration_seconds",
		Help:      "Snapshot merge duration including relayout",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
	})
	r.MergeChanges = f.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sync_merge_changes_total",
			Help:      "Items added or removed by snapshot merges",
		},
		[]string{"change"},
	)
	r.EdgesDroppedTotal = f.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sync_edges_dropped_total",
		Help:      "Edges rejected because an endpoint was unknown",
	})
	r.ModelSize = f.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "model_items",
			Help:      "Current number of items in the model",
		},
		[]string{"kind"},
	)
}

func (r *Registry) initLayoutMetrics() {
	f := promauto.With(r.registry)
	r.LayoutsTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "layout_runs_total",
			Help:      "Layout recalculations by strategy",
		},
		[]string{"strategy"},
	)
	r.LayoutDuration = f.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "layout_duration_seconds",
			Help:      "Layout recalculation duration by strategy",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		},
		[]string{"strategy"},
	)
	r.LayoutVertices = f.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "layout_vertices",
		Help:      "Vertices in the most recent layout",
	})
}

func (r *Registry) initCacheMetrics() {
	f := promauto.With(r.registry)
	r.CacheRequests = f.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_requests_total",
			Help:      "Cache lookups by key type and result",
		},
		[]string{"key_type", "result"},
	)
	r.CacheBytes = f.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_written_bytes_total",
			Help:      "Bytes written to the cache by key type",
		},
		[]string{"key_type"},
	)
}

func (r *Registry) initDispatchMetrics() {
	f := promauto.With(r.registry)
	r.PublishedTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dispatch_published_total",
			Help:      "Changes buffered for delivery by kind",
		},
		[]string{"kind"},
	)
	r.DrainBatch = f.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "dispatch_drain_batch_size",
		Help:      "Changes delivered per drain",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
	})
	r.DrainDuration = f.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "dispatch_drain_duration_seconds",
		Help:      "Time spent delivering one drained batch",
		Buckets:   []float64{0.0001, 0.001, 0.01, 0.1, 1},
	})
}

// =============================================================================
// Hook adapters
// =============================================================================

type syncHooks struct{ r *Registry }

func (h syncHooks) OnApply(op string, changed bool) {
	result := "noop"
	if changed {
		result = "changed"
	}
	h.r.ApplyTotal.WithLabelValues(op, result).Inc()
}

func (h syncHooks) OnMerge(added, removed int, d time.Duration) {
	h.r.MergesTotal.Inc()
	h.r.MergeDuration.Observe(d.Seconds())
	h.r.MergeChanges.WithLabelValues("added").Add(float64(added))
	h.r.MergeChanges.WithLabelValues("removed").Add(float64(removed))
}

func (h syncHooks) OnEdgeDropped(string) {
	h.r.EdgesDroppedTotal.Inc()
}

func (h syncHooks) OnSize(vertices, edges, alarms, situations int) {
	h.r.ModelSize.WithLabelValues("vertex").Set(float64(vertices))
	h.r.ModelSize.WithLabelValues("edge").Set(float64(edges))
	h.r.ModelSize.WithLabelValues("alarm").Set(float64(alarms))
	h.r.ModelSize.WithLabelValues("situation").Set(float64(situations))
}

type layoutHooks struct{ r *Registry }

func (h layoutHooks) OnLayoutStart(_ string, vertexCount int) {
	h.r.LayoutVertices.Set(float64(vertexCount))
}

func (h layoutHooks) OnLayoutComplete(strategy string, d time.Duration) {
	h.r.LayoutsTotal.WithLabelValues(strategy).Inc()
	h.r.LayoutDuration.WithLabelValues(strategy).Observe(d.Seconds())
}

type cacheHooks struct{ r *Registry }

func (h cacheHooks) OnCacheHit(keyType string) {
	h.r.CacheRequests.WithLabelValues(keyType, "hit").Inc()
}

func (h cacheHooks) OnCacheMiss(keyType string) {
	h.r.CacheRequests.WithLabelValues(keyType, "miss").Inc()
}

func (h cacheHooks) OnCacheSet(keyType string, size int) {
	h.r.CacheBytes.WithLabelValues(keyType).Add(float64(size))
}

type dispatchHooks struct{ r *Registry }

func (h dispatchHooks) OnPublish(kind string) {
	h.r.PublishedTotal.WithLabelValues(kind).Inc()
}

func (h dispatchHooks) OnDrain(count int, d time.Duration) {
	h.r.DrainBatch.Observe(float64(count))
	h.r.DrainDuration.Observe(d.Seconds())
}

var (
	_ observability.SyncHooks     = syncHooks{}
	_ observability.LayoutHooks   = layoutHooks{}
	_ observability.CacheHooks    = cacheHooks{}
	_ observability.DispatchHooks = dispatchHooks{}
)
