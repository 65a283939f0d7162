// Package metric provides a Prometheus metrics registry shared by all
// instrumented RattleCache components.
//
// # Overview
//
// MetricsRegistry wraps a private prometheus.Registry and tracks every
// registered collector by "instance.metric" key so that two cache instances
// using the same metric names under different instance labels never collide,
// and a duplicate registration surfaces as a classified error instead of a
// panic.
//
// # Quick Start
//
//	registry := metric.NewMetricsRegistry()
//
//	store, err := cache.New[string](cfg,
//	    cache.WithMetrics[string](registry, "session_cache"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	http.Handle("/metrics", registry.Handler())
//
// The registry includes Go runtime and process collectors by default.
package metric
