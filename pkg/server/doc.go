// Package server exposes a live synchronizer over HTTP.
//
// Routes:
//
//	GET  /healthz                 liveness
//	GET  /metrics                 Prometheus exposition
//	GET  /api/version             build information
//	GET  /api/topology            the positioned model as a graph.Layout
//	GET  /api/vertices/{id}       one vertex with its alarms and situations
//	GET  /api/alarms              alarms and situations
//	GET  /api/layout.svg          the model drawn with Graphviz
//	POST /api/layout/recalculate  switch strategy (?strategy=&seed=) and relayout
package server
