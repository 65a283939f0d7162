// Package memoize provides function-level caching on top of a cache.Store.
//
// # Overview
//
// Three wrappers cover the common identifier strategies:
//
//   - Fixed: one identifier chosen at wrap time. Every call shares the same
//     cached result regardless of arguments.
//   - Args: the identifier is derived per call from the function name and the
//     primitive arguments of that call, so distinct argument sets cache
//     independently.
//   - Dependency: the identifier is derived by a caller-supplied pure
//     function of the arguments, for cases where only part of the input
//     determines the result.
//
// All wrappers honor the Refresh control argument, which forces the wrapped
// computation to run again and overwrite the stored value.
//
// # Quick Start
//
//	store, err := cache.New[[]byte](cache.Config{
//		MemoryLimit: 64 << 20,
//		Mode:        cache.ModeLRU,
//	})
//	if err != nil {
//		return err
//	}
//
//	fetch, err := memoize.Args(store, "fetch-report", func(args ...any) ([]byte, error) {
//		return loadReport(args[0].(string))
//	})
//	if err != nil {
//		return err
//	}
//
//	report, err := fetch.Call("q3")                  // computes and caches
//	report, err = fetch.Call("q3")                   // served from cache
//	report, err = fetch.Call("q3", memoize.Refresh)  // recomputes, overwrites
package memoize
