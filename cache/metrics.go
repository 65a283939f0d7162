package cache

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mkohl98/RattleCache/metric"
)

// storeMetrics holds Prometheus metrics for store operations.
type storeMetrics struct {
	registry *metric.MetricsRegistry
	name     string

	hits           prometheus.Counter
	misses         prometheus.Counter
	sets           prometheus.Counter
	deletes        prometheus.Counter
	evictions      prometheus.Counter
	serializations prometheus.Counter

	entries     prometheus.Gauge
	memoryBytes prometheus.Gauge
}

// metricKeys lists the registry keys used per instance, for unregistration.
var metricKeys = []string{
	"store_hits", "store_misses", "store_sets", "store_deletes",
	"store_evictions", "store_serializations", "store_entries", "store_memory_bytes",
}

func newCounter(name, help, instance string) prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Namespace:   "rattlecache",
		Subsystem:   "store",
		Name:        name,
		ConstLabels: prometheus.Labels{"instance": instance},
		Help:        help,
	})
}

func newGauge(name, help, instance string) prometheus.Gauge {
	return prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace:   "rattlecache",
		Subsystem:   "store",
		Name:        name,
		ConstLabels: prometheus.Labels{"instance": instance},
		Help:        help,
	})
}

// newStoreMetrics creates and registers store metrics with the provided registry.
func newStoreMetrics(registry *metric.MetricsRegistry, instance string) (*storeMetrics, error) {
	m := &storeMetrics{
		registry:       registry,
		name:           instance,
		hits:           newCounter("hits_total", "Total number of cache hits", instance),
		misses:         newCounter("misses_total", "Total number of cache misses", instance),
		sets:           newCounter("sets_total", "Total number of write operations", instance),
		deletes:        newCounter("deletes_total", "Total number of delete operations", instance),
		evictions:      newCounter("evictions_total", "Total number of evictions", instance),
		serializations: newCounter("serializations_total", "Total number of values stored encoded", instance),
		entries:        newGauge("entries", "Current number of entries in the store", instance),
		memoryBytes:    newGauge("memory_bytes", "Currently accounted entry bytes", instance),
	}

	registrations := []struct {
		key     string
		counter prometheus.Counter
		gauge   prometheus.Gauge
	}{
		{key: "store_hits", counter: m.hits},
		{key: "store_misses", counter: m.misses},
		{key: "store_sets", counter: m.sets},
		{key: "store_deletes", counter: m.deletes},
		{key: "store_evictions", counter: m.evictions},
		{key: "store_serializations", counter: m.serializations},
		{key: "store_entries", gauge: m.entries},
		{key: "store_memory_bytes", gauge: m.memoryBytes},
	}
	var registered []string
	for _, reg := range registrations {
		var err error
		if reg.counter != nil {
			err = registry.RegisterCounter(instance, reg.key, reg.counter)
		} else {
			err = registry.RegisterGauge(instance, reg.key, reg.gauge)
		}
		if err != nil {
			// Roll back only the keys this attempt added: a colliding
			// instance must not tear down the metrics of its namesake.
			for _, key := range registered {
				registry.Unregister(instance, key)
			}
			return nil, err
		}
		registered = append(registered, reg.key)
	}

	return m, nil
}

// unregister removes this instance's metrics from the registry.
func (m *storeMetrics) unregister() {
	for _, key := range metricKeys {
		m.registry.Unregister(m.name, key)
	}
}

func (m *storeMetrics) recordHit()           { m.hits.Inc() }
func (m *storeMetrics) recordMiss()          { m.misses.Inc() }
func (m *storeMetrics) recordSet()           { m.sets.Inc() }
func (m *storeMetrics) recordDelete()        { m.deletes.Inc() }
func (m *storeMetrics) recordEviction()      { m.evictions.Inc() }
func (m *storeMetrics) recordSerialization() { m.serializations.Inc() }

func (m *storeMetrics) updateUsage(entries int, memoryBytes uint64) {
	m.entries.Set(float64(entries))
	m.memoryBytes.Set(float64(memoryBytes))
}
