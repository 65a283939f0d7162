package cache

import (
	"log/slog"

	"github.com/mkohl98/RattleCache/budget"
	"github.com/mkohl98/RattleCache/codec"
	"github.com/mkohl98/RattleCache/metric"
)

// Option configures store behavior using the functional options pattern.
type Option[V any] func(*storeOptions[V])

// storeOptions holds internal configuration for store instances.
type storeOptions[V any] struct {
	// metricsReg is optional - if provided, store stats are also exposed as
	// Prometheus metrics under the given instance name
	metricsReg  *metric.MetricsRegistry
	metricsName string

	// codec encodes values stored in serialized form
	codec codec.Codec

	// logger receives debug-level eviction and serialization decisions
	logger *slog.Logger

	// evictCallback is called with the identifier of each evicted entry
	evictCallback EvictCallback

	// budgetReg, when set, must grant the store's memory limit at
	// construction time
	budgetReg *budget.Registry
}

// WithMetrics enables Prometheus metrics export for store statistics.
// If registry is nil or name is empty, this option is ignored.
func WithMetrics[V any](registry *metric.MetricsRegistry, name string) Option[V] {
	return func(opts *storeOptions[V]) {
		if registry != nil && name != "" {
			opts.metricsReg = registry
			opts.metricsName = name
		}
	}
}

// WithCodec sets the codec used for serialized entries. The default is the
// gob codec.
func WithCodec[V any](c codec.Codec) Option[V] {
	return func(opts *storeOptions[V]) {
		if c != nil {
			opts.codec = c
		}
	}
}

// WithLogger sets the structured logger for the store.
func WithLogger[V any](logger *slog.Logger) Option[V] {
	return func(opts *storeOptions[V]) {
		if logger != nil {
			opts.logger = logger
		}
	}
}

// WithEvictionCallback sets a callback invoked with the identifier of every
// entry removed by the eviction policy. The callback runs outside the store
// lock.
func WithEvictionCallback[V any](callback EvictCallback) Option[V] {
	return func(opts *storeOptions[V]) {
		opts.evictCallback = callback
	}
}

// WithBudget registers the store's memory limit with a shared budget
// registry at construction time. Construction fails when the registry
// reports the process-wide soft cap would be exceeded.
func WithBudget[V any](registry *budget.Registry) Option[V] {
	return func(opts *storeOptions[V]) {
		opts.budgetReg = registry
	}
}

// applyOptions applies functional options to create final store configuration.
func applyOptions[V any](options ...Option[V]) *storeOptions[V] {
	opts := &storeOptions[V]{
		// Default values
		codec:  codec.NewGob(),
		logger: slog.Default(),
	}

	for _, opt := range options {
		if opt != nil {
			opt(opts)
		}
	}

	return opts
}

// WriteOption adjusts a single Add or Update call.
type WriteOption func(*writeOptions)

type writeOptions struct {
	serialize bool
	replace   bool
}

// Serialized stores the value in encoded form regardless of its size.
func Serialized() WriteOption {
	return func(opts *writeOptions) {
		opts.serialize = true
	}
}

// Replace lets Add overwrite an existing identifier. Without it, adding an
// existing identifier is a no-op.
func Replace() WriteOption {
	return func(opts *writeOptions) {
		opts.replace = true
	}
}

func applyWriteOptions(options ...WriteOption) writeOptions {
	var opts writeOptions
	for _, opt := range options {
		if opt != nil {
			opt(&opts)
		}
	}
	return opts
}
