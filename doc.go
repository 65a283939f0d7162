// Package rattlecache is an in-process, size-bounded key/value cache with
// selectable eviction policy and function-level memoization.
//
// # Overview
//
// The module is organized as small, composable packages:
//
//   - cache: the generic store. Entries are capped by an aggregate byte
//     limit; when a write would exceed it, the configured policy (LRU, LRA
//     or LFU) evicts entries until the new one fits. Values above a
//     configurable threshold are stored in encoded form and decoded
//     transparently on read.
//   - memoize: wrappers that cache function results under fixed,
//     argument-derived or dependency-derived identifiers, with a forced
//     refresh escape hatch.
//   - budget: a shared registry that caps the sum of memory limits across
//     store instances in one process.
//   - codec: the pluggable encoders behind serialized entries (gob, JSON,
//     zstd-compressed).
//   - metric: Prometheus registration shared by all instrumented stores.
//   - errors: classified errors used across the module.
//
// # Quick Start
//
//	store, err := cache.New[[]byte](cache.Config{
//		MemoryLimit:    256 << 20,
//		Mode:           cache.ModeLRU,
//		SerializeLimit: 1 << 20,
//	})
//	if err != nil {
//		return err
//	}
//	defer store.Close()
//
//	if err := store.Add("frame:42", frame); err != nil {
//		return err
//	}
//	frame, ok, err := store.Get("frame:42")
//
// See each package's documentation for details.
package rattlecache
