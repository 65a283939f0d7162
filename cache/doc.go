// Package cache provides a size-bounded, generic, thread-safe key/value store
// with selectable eviction policy, transparent serialization of large values,
// built-in statistics, and optional Prometheus metrics integration.
//
// # Overview
//
// A Store maps string identifiers to values of a single type V. Three
// eviction modes are available, selected once at construction:
//
//   - ModeLRU: evict the identifier least recently touched by Get
//   - ModeLRA: evict the identifier inserted earliest; Get does not reorder
//   - ModeLFU: evict the identifier with the lowest access count,
//     ties broken by oldest insertion
//
// When a memory limit is configured, every Add evicts entries under the
// store lock until the new entry fits or the store is empty. Values above
// the serialize threshold (or written with Serialized()) are kept in encoded
// form and decoded transparently on Get; the representation is tracked by an
// explicit per-entry flag, never inferred from the value.
//
// # Quick Start
//
//	store, err := cache.New[string](cache.Config{
//		Mode:        cache.ModeLRU,
//		MemoryLimit: 10 << 20, // 10 MiB
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer store.Close()
//
//	if err := store.Add("greeting", "hello"); err != nil {
//		log.Fatal(err)
//	}
//	value, ok, err := store.Get("greeting")
//
// Adding an existing identifier is a no-op; overwriting requires Update (or
// Add with Replace()), which resets the identifier's policy history.
//
// # Concurrency
//
// A single per-instance lock guards the entry mapping and all policy
// bookkeeping. Every operation is synchronous and runs to completion; there
// are no cancellation or timeout semantics. Computations wrapped by the
// memoize package run outside this lock — see that package for the
// consequences.
//
// # Observability
//
// Statistics (hits, misses, sets, deletes, evictions, serializations,
// accounted bytes) are always collected. WithMetrics additionally exports
// them through a metric.MetricsRegistry. Overview returns a human-readable
// per-entry report sorted by size.
package cache
