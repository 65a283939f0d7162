// Package budget provides a process-wide soft cap on the combined memory
// limits of cache instances.
//
// # Overview
//
// Applications that build many caches can hand every constructor the same
// Registry. Each store registers its configured memory limit; when a new
// registration would push the committed total over the soft cap, Register
// fails with a classified invalid error and the store's construction fails
// with it. The registry never deletes or disables an instance on its own.
//
// # Quick Start
//
//	reg, err := budget.NewRegistry(256 << 20) // 256 MiB across all caches
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	store, err := cache.New[string](cache.Config{
//	    Mode:        cache.ModeLRU,
//	    MemoryLimit: 64 << 20,
//	}, cache.WithBudget[string](reg))
//
// Closing the store releases its grant.
package budget
