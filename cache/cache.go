// Package cache provides a size-bounded, generic, thread-safe key/value store
// with selectable eviction policy and transparent serialization of large
// values.
package cache

import (
	"container/list"
	"log/slog"
	"sync"

	"github.com/mkohl98/RattleCache/budget"
	"github.com/mkohl98/RattleCache/codec"
	"github.com/mkohl98/RattleCache/errors"
)

// EvictCallback is called with the identifier of every entry removed by the
// eviction policy. It runs outside the store lock.
type EvictCallback func(identifier string)

// entry is the stored representation of one identifier. An entry is in
// exactly one of {raw, serialized} form at any time; the flag is explicit
// and never inferred from the value's runtime type.
type entry[V any] struct {
	id         string
	value      V      // raw representation
	encoded    []byte // serialized representation
	serialized bool
	size       uint64 // accounted bytes
	kind       string // logical type label, captured at write time
}

// Store is a mutex-guarded ordered mapping from identifier to entry.
// All operations are safe for concurrent use; eviction runs under the same
// lock as the write that triggered it, so the memory invariant holds
// atomically with respect to other store operations.
type Store[V any] struct {
	mu     sync.Mutex
	cfg    Config
	items  map[string]*list.Element // identifier -> order element
	order  *list.List               // Front = most-recently-used end
	policy victimPolicy[V]
	codec  codec.Codec
	logger *slog.Logger

	stats   *Statistics   // ALWAYS initialized
	metrics *storeMetrics // Optional, if metrics enabled
	evictFn EvictCallback // Optional callback

	budgetReg    *budget.Registry
	budgetHandle budget.Handle

	used   uint64 // aggregate accounted bytes
	closed bool
}

// New creates a store from the given configuration. Construction fails with
// a classified invalid error on an unknown mode, on invalid option wiring,
// or when a configured budget registry rejects the memory limit.
func New[V any](cfg Config, options ...Option[V]) (*Store[V], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	opts := applyOptions(options...)

	s := &Store[V]{
		cfg:     cfg,
		items:   make(map[string]*list.Element),
		order:   list.New(),
		codec:   opts.codec,
		logger:  opts.logger,
		stats:   NewStatistics(),
		evictFn: opts.evictCallback,
	}

	switch cfg.Mode {
	case ModeLRA:
		s.policy = &lraPolicy[V]{order: s.order}
	case ModeLRU:
		s.policy = &lruPolicy[V]{order: s.order}
	case ModeLFU:
		s.policy = newLFUPolicy[V](s.items)
	}

	// Budget first: a rejected grant must not leave collectors behind in
	// the metrics registry.
	if opts.budgetReg != nil {
		handle, err := opts.budgetReg.Register(cfg.MemoryLimit)
		if err != nil {
			return nil, errors.WrapInvalid(err, "cache", "New", "budget registration")
		}
		s.budgetReg = opts.budgetReg
		s.budgetHandle = handle
	}

	if opts.metricsReg != nil && opts.metricsName != "" {
		metrics, err := newStoreMetrics(opts.metricsReg, opts.metricsName)
		if err != nil {
			if s.budgetReg != nil {
				s.budgetReg.Unregister(s.budgetHandle)
			}
			return nil, errors.WrapTransient(err, "cache", "New", "metrics registration")
		}
		s.metrics = metrics
	}

	return s, nil
}

// Has reports whether an identifier exists in the store. It has no policy
// side effects: recency and frequency bookkeeping react to Get only.
func (s *Store[V]) Has(identifier string) bool {
	s.mu.Lock()
	_, ok := s.items[identifier]
	s.mu.Unlock()
	return ok
}

// Add inserts a value under an identifier. Adding an existing identifier is
// a no-op unless Replace() is passed. When a memory limit is configured the
// eviction policy runs until the new entry fits or the store is empty.
// Values above the serialize threshold, or written with Serialized(), are
// stored encoded. Only codec failures produce errors.
func (s *Store[V]) Add(identifier string, value V, options ...WriteOption) error {
	if err := validateIdentifier(identifier); err != nil {
		return err
	}
	opts := applyWriteOptions(options...)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return errors.WrapInvalid(errors.ErrStoreClosed, "Store", "Add", "write to closed store")
	}

	if _, exists := s.items[identifier]; exists && !opts.replace {
		s.mu.Unlock()
		return nil
	}

	kind := kindOf(value)
	size := approxSize(value)

	serialize := opts.serialize || (s.cfg.SerializeLimit > 0 && size > s.cfg.SerializeLimit)
	var encoded []byte
	if serialize {
		var err error
		encoded, err = s.codec.Marshal(value)
		if err != nil {
			s.mu.Unlock()
			return errors.WrapInvalid(err, "Store", "Add", "value encoding")
		}
		size = uint64(len(encoded))
	}

	// Replace semantics: the old entry leaves first, forgetting its
	// access-order and frequency history.
	if el, exists := s.items[identifier]; exists {
		s.removeLocked(el)
	}

	var evicted []string
	if s.cfg.MemoryLimit > 0 {
		for s.used+size > s.cfg.MemoryLimit && len(s.items) > 0 {
			victim := s.policy.victim()
			if victim == nil {
				break
			}
			evicted = append(evicted, victim.Value.(*entry[V]).id)
			s.removeLocked(victim)
			s.stats.Eviction()
			if s.metrics != nil {
				s.metrics.recordEviction()
			}
		}
	}

	ent := &entry[V]{
		id:         identifier,
		serialized: serialize,
		size:       size,
		kind:       kind,
	}
	if serialize {
		ent.encoded = encoded
	} else {
		ent.value = value
	}

	el := s.order.PushFront(ent)
	s.items[identifier] = el
	s.policy.recordAdd(el)
	s.used += size

	s.stats.Set()
	if serialize {
		s.stats.Serialization()
	}
	s.stats.UpdateUsage(int64(len(s.items)), s.used)
	if s.metrics != nil {
		s.metrics.recordSet()
		if serialize {
			s.metrics.recordSerialization()
		}
		s.metrics.updateUsage(len(s.items), s.used)
	}

	entries := len(s.items)
	usedBytes := s.used
	s.mu.Unlock()

	if len(evicted) > 0 {
		s.logger.Debug("evicted entries to satisfy memory limit",
			"evicted", len(evicted),
			"entries", entries,
			"used_bytes", usedBytes)
		if s.evictFn != nil {
			for _, id := range evicted {
				s.evictFn(id)
			}
		}
	}

	return nil
}

// Get returns the logical value stored under an identifier, decoding
// transparently when the entry is serialized. The boolean result is false
// when the identifier is absent; absence is not an error. A successful Get
// applies the access-order or frequency bump of the configured policy.
func (s *Store[V]) Get(identifier string) (V, bool, error) {
	var zero V

	s.mu.Lock()
	defer s.mu.Unlock()

	el, ok := s.items[identifier]
	if !ok {
		s.stats.Miss()
		if s.metrics != nil {
			s.metrics.recordMiss()
		}
		return zero, false, nil
	}

	ent := el.Value.(*entry[V])

	var value V
	if ent.serialized {
		if err := s.codec.Unmarshal(ent.encoded, &value); err != nil {
			return zero, false, errors.WrapInvalid(err, "Store", "Get", "value decoding")
		}
	} else {
		value = ent.value
	}

	s.policy.recordGet(el)
	s.stats.Hit()
	if s.metrics != nil {
		s.metrics.recordHit()
	}

	return value, true, nil
}

// Update replaces the value stored under an identifier. It is equivalent to
// Delete followed by Add: the identifier's access-order and frequency
// history is reset, not carried over.
func (s *Store[V]) Update(identifier string, value V, options ...WriteOption) error {
	return s.Add(identifier, value, append(options, Replace())...)
}

// Delete removes an entry if present and reports whether it existed.
func (s *Store[V]) Delete(identifier string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	el, ok := s.items[identifier]
	if !ok {
		return false
	}

	s.removeLocked(el)
	s.stats.Delete()
	s.stats.UpdateUsage(int64(len(s.items)), s.used)
	if s.metrics != nil {
		s.metrics.recordDelete()
		s.metrics.updateUsage(len(s.items), s.used)
	}

	return true
}

// Clear removes all entries and resets all policy bookkeeping.
func (s *Store[V]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = make(map[string]*list.Element)
	s.order.Init()
	s.policy.reset()
	s.used = 0

	// LFU bookkeeping holds a reference to the identifier map.
	if s.cfg.Mode == ModeLFU {
		s.policy = newLFUPolicy[V](s.items)
	}

	s.stats.UpdateUsage(0, 0)
	if s.metrics != nil {
		s.metrics.updateUsage(0, 0)
	}
}

// Identifiers returns the current membership in store-internal order:
// insertion order, with LRU accesses moving identifiers toward the end.
func (s *Store[V]) Identifiers() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.items))
	for el := s.order.Back(); el != nil; el = el.Prev() {
		ids = append(ids, el.Value.(*entry[V]).id)
	}
	return ids
}

// Len returns the number of currently stored entries.
func (s *Store[V]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// MemoryUsage returns the aggregate size of stored entries in bytes.
// Serialized entries count by their encoded size.
func (s *Store[V]) MemoryUsage() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return float64(s.used)
}

// MemoryUsagePercent returns used memory as a percentage of the limit,
// or 0 when no limit is configured.
func (s *Store[V]) MemoryUsagePercent() float64 {
	if s.cfg.MemoryLimit == 0 {
		return 0
	}

	s.mu.Lock()
	used := s.used
	s.mu.Unlock()

	return float64(used) / float64(s.cfg.MemoryLimit) * 100
}

// MemoryLimit returns the configured memory limit in bytes (0 = unbounded).
// External budget registries sum this value across instances.
func (s *Store[V]) MemoryLimit() uint64 {
	return s.cfg.MemoryLimit
}

// Mode returns the configured eviction mode.
func (s *Store[V]) Mode() Mode {
	return s.cfg.Mode
}

// EvictionPercentage returns the advisory eviction threshold.
func (s *Store[V]) EvictionPercentage() float64 {
	return s.cfg.EvictionPercentage
}

// SerializeLimit returns the auto-serialization threshold in bytes.
func (s *Store[V]) SerializeLimit() uint64 {
	return s.cfg.SerializeLimit
}

// Stats returns the store's statistics tracker.
func (s *Store[V]) Stats() *Statistics {
	return s.stats
}

// Close marks the store closed for writes, releases its budget grant and
// unregisters its metrics. Close is safe to call multiple times.
func (s *Store[V]) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	if s.budgetReg != nil {
		s.budgetReg.Unregister(s.budgetHandle)
	}
	if s.metrics != nil {
		s.metrics.unregister()
	}
	return nil
}

// removeLocked removes an element from the map, the order list, the policy
// bookkeeping and the memory accounting. Must be called with the lock held.
func (s *Store[V]) removeLocked(el *list.Element) {
	ent := el.Value.(*entry[V])
	delete(s.items, ent.id)
	s.order.Remove(el)
	s.policy.recordRemove(ent)
	s.used -= ent.size
}

// validateIdentifier rejects empty identifiers.
func validateIdentifier(identifier string) error {
	if identifier == "" {
		return errors.WrapInvalid(errors.ErrInvalidData, "Store", "validateIdentifier",
			"identifier cannot be empty")
	}
	return nil
}
