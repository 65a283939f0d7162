package cache

import (
	"sync"
	"sync/atomic"
	"time"
)

// Statistics tracks store performance counters. Statistics are always
// collected; Prometheus export is the optional layer on top.
type Statistics struct {
	// Atomic counters for thread-safe updates
	hits           int64
	misses         int64
	sets           int64
	deletes        int64
	evictions      int64
	serializations int64

	// Protected by mutex
	mu          sync.RWMutex
	startTime   time.Time
	entries     int64
	memoryBytes uint64
	peakBytes   uint64
}

// NewStatistics creates a new statistics tracker.
func NewStatistics() *Statistics {
	return &Statistics{
		startTime: time.Now(),
	}
}

// Hit records a cache hit.
func (s *Statistics) Hit() {
	atomic.AddInt64(&s.hits, 1)
}

// Miss records a cache miss.
func (s *Statistics) Miss() {
	atomic.AddInt64(&s.misses, 1)
}

// Set records a write operation.
func (s *Statistics) Set() {
	atomic.AddInt64(&s.sets, 1)
}

// Delete records a delete operation.
func (s *Statistics) Delete() {
	atomic.AddInt64(&s.deletes, 1)
}

// Eviction records an eviction.
func (s *Statistics) Eviction() {
	atomic.AddInt64(&s.evictions, 1)
}

// Serialization records a value stored in encoded form.
func (s *Statistics) Serialization() {
	atomic.AddInt64(&s.serializations, 1)
}

// UpdateUsage updates the current entry count and accounted memory.
func (s *Statistics) UpdateUsage(entries int64, memoryBytes uint64) {
	s.mu.Lock()
	s.entries = entries
	s.memoryBytes = memoryBytes
	if memoryBytes > s.peakBytes {
		s.peakBytes = memoryBytes
	}
	s.mu.Unlock()
}

// Hits returns the total number of cache hits.
func (s *Statistics) Hits() int64 {
	return atomic.LoadInt64(&s.hits)
}

// Misses returns the total number of cache misses.
func (s *Statistics) Misses() int64 {
	return atomic.LoadInt64(&s.misses)
}

// Sets returns the total number of write operations.
func (s *Statistics) Sets() int64 {
	return atomic.LoadInt64(&s.sets)
}

// Deletes returns the total number of delete operations.
func (s *Statistics) Deletes() int64 {
	return atomic.LoadInt64(&s.deletes)
}

// Evictions returns the total number of evictions.
func (s *Statistics) Evictions() int64 {
	return atomic.LoadInt64(&s.evictions)
}

// Serializations returns how many writes stored their value encoded.
func (s *Statistics) Serializations() int64 {
	return atomic.LoadInt64(&s.serializations)
}

// Entries returns the current number of entries in the store.
func (s *Statistics) Entries() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entries
}

// MemoryBytes returns the currently accounted memory in bytes.
func (s *Statistics) MemoryBytes() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.memoryBytes
}

// PeakBytes returns the highest accounted memory observed.
func (s *Statistics) PeakBytes() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.peakBytes
}

// HitRatio returns the cache hit ratio (0.0 to 1.0).
func (s *Statistics) HitRatio() float64 {
	hits := s.Hits()
	misses := s.Misses()
	total := hits + misses

	if total == 0 {
		return 0.0
	}

	return float64(hits) / float64(total)
}

// Uptime returns how long the store has been running.
func (s *Statistics) Uptime() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return time.Since(s.startTime)
}

// Reset resets all statistics to zero.
func (s *Statistics) Reset() {
	atomic.StoreInt64(&s.hits, 0)
	atomic.StoreInt64(&s.misses, 0)
	atomic.StoreInt64(&s.sets, 0)
	atomic.StoreInt64(&s.deletes, 0)
	atomic.StoreInt64(&s.evictions, 0)
	atomic.StoreInt64(&s.serializations, 0)

	s.mu.Lock()
	s.startTime = time.Now()
	s.entries = 0
	s.memoryBytes = 0
	s.peakBytes = 0
	s.mu.Unlock()
}

// StatsSummary is a snapshot of all statistics.
type StatsSummary struct {
	Hits           int64         `json:"hits"`
	Misses         int64         `json:"misses"`
	Sets           int64         `json:"sets"`
	Deletes        int64         `json:"deletes"`
	Evictions      int64         `json:"evictions"`
	Serializations int64         `json:"serializations"`
	Entries        int64         `json:"entries"`
	MemoryBytes    uint64        `json:"memory_bytes"`
	PeakBytes      uint64        `json:"peak_bytes"`
	HitRatio       float64       `json:"hit_ratio"`
	Uptime         time.Duration `json:"uptime"`
}

// Summary returns a snapshot of all statistics.
func (s *Statistics) Summary() StatsSummary {
	return StatsSummary{
		Hits:           s.Hits(),
		Misses:         s.Misses(),
		Sets:           s.Sets(),
		Deletes:        s.Deletes(),
		Evictions:      s.Evictions(),
		Serializations: s.Serializations(),
		Entries:        s.Entries(),
		MemoryBytes:    s.MemoryBytes(),
		PeakBytes:      s.PeakBytes(),
		HitRatio:       s.HitRatio(),
		Uptime:         s.Uptime(),
	}
}
