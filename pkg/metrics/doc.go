// Package metrics exports synchronizer, layout, cache and dispatch activity
// as Prometheus metrics.
//
// A [Registry] owns its own prometheus.Registry so that several instances
// can coexist in tests. [Registry.Hooks] adapts it to observability.Hooks:
//
//	reg := metrics.NewRegistry()
//	s := synchronizer.New(d, synchronizer.Options{Hooks: reg.Hooks()})
//	http.Handle("/metrics", reg.Handler())
package metrics
