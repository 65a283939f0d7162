package memoize

import (
	"golang.org/x/sync/singleflight"

	"github.com/mkohl98/RattleCache/cache"
	"github.com/mkohl98/RattleCache/errors"
)

// refreshToken is the type of the reserved Refresh control argument.
type refreshToken struct{}

// Refresh is a reserved control argument. Passing it to Call forces the
// wrapped computation to run again and overwrite the stored value. It is
// stripped from the argument list before the computation sees it and is
// excluded from identifier derivation.
var Refresh refreshToken

// Fn is the shape of a wrapped computation.
type Fn[T any] func(args ...any) (T, error)

// Func is a memoized computation bound to a cache store. A cache hit never
// re-invokes the computation; a forced refresh always re-invokes it and
// always overwrites the stored value, even if unchanged.
type Func[T any] struct {
	store     *cache.Store[T]
	fn        Fn[T]
	key       func(args []any) string
	writeOpts []cache.WriteOption
	flight    *singleflight.Group
}

// Option configures a wrapper at wrap time.
type Option func(*wrapOptions)

type wrapOptions struct {
	writeOpts []cache.WriteOption
	coalesce  bool
}

// WithWriteOptions forwards the given write options to every Add or Update
// the wrapper performs, e.g. cache.Serialized() to always store results
// encoded.
func WithWriteOptions(opts ...cache.WriteOption) Option {
	return func(o *wrapOptions) {
		o.writeOpts = append(o.writeOpts, opts...)
	}
}

// WithSingleflight coalesces concurrent misses for the same identifier:
// callers racing on a cold identifier block on the first caller's
// computation instead of duplicating work. Forced refreshes never coalesce.
func WithSingleflight() Option {
	return func(o *wrapOptions) {
		o.coalesce = true
	}
}

// Fixed wraps fn under a single identifier bound at wrap time.
func Fixed[T any](store *cache.Store[T], identifier string, fn Fn[T], options ...Option) (*Func[T], error) {
	if identifier == "" {
		return nil, errors.WrapInvalid(errors.ErrInvalidData, "memoize", "Fixed",
			"identifier cannot be empty")
	}
	return wrap(store, "Fixed", fn, func([]any) string { return identifier }, options)
}

// Args wraps fn under identifiers derived per call from name plus the
// primitive (string, bool, integer, float) arguments of that call.
// Non-primitive arguments are excluded from derivation; callers must ensure
// this does not collide calls that differ only in non-primitive arguments.
func Args[T any](store *cache.Store[T], name string, fn Fn[T], options ...Option) (*Func[T], error) {
	if name == "" {
		return nil, errors.WrapInvalid(errors.ErrInvalidData, "memoize", "Args",
			"function name cannot be empty")
	}
	return wrap(store, "Args", fn, func(args []any) string { return argsKey(name, args) }, options)
}

// Dependency wraps fn under identifiers derived by applying a caller-supplied
// pure function to the call's arguments and combining its value with name.
func Dependency[T any](
	store *cache.Store[T], name string, dependency func(args ...any) any, fn Fn[T], options ...Option,
) (*Func[T], error) {
	if name == "" {
		return nil, errors.WrapInvalid(errors.ErrInvalidData, "memoize", "Dependency",
			"function name cannot be empty")
	}
	if dependency == nil {
		return nil, errors.WrapInvalid(errors.ErrInvalidData, "memoize", "Dependency",
			"dependency function cannot be nil")
	}
	return wrap(store, "Dependency", fn, func(args []any) string {
		return dependencyKey(name, dependency(args...))
	}, options)
}

// wrap performs the construction-time checks shared by all three wrappers.
func wrap[T any](store *cache.Store[T], op string, fn Fn[T], key func([]any) string, options []Option) (*Func[T], error) {
	if store == nil {
		return nil, errors.WrapInvalid(errors.ErrInvalidData, "memoize", op,
			"cache argument must be a valid store instance")
	}
	if fn == nil {
		return nil, errors.WrapInvalid(errors.ErrInvalidData, "memoize", op,
			"wrapped function cannot be nil")
	}

	var opts wrapOptions
	for _, option := range options {
		if option != nil {
			option(&opts)
		}
	}

	f := &Func[T]{
		store:     store,
		fn:        fn,
		key:       key,
		writeOpts: opts.writeOpts,
	}
	if opts.coalesce {
		f.flight = &singleflight.Group{}
	}
	return f, nil
}

// Call invokes the memoized computation. The presence check, the computation
// and the write-back are three separate store operations, not one atomic
// unit: two goroutines racing on the same cold identifier can both run the
// computation, and the last writer wins. WithSingleflight upgrades cold
// misses to at-most-once execution; the store itself is never corrupted
// either way.
func (f *Func[T]) Call(args ...any) (T, error) {
	var zero T

	callArgs, refresh := stripRefresh(args)
	identifier := f.key(callArgs)

	if refresh {
		result, err := f.fn(callArgs...)
		if err != nil {
			return zero, err
		}
		if err := f.store.Update(identifier, result, f.writeOpts...); err != nil {
			return zero, err
		}
		return result, nil
	}

	value, ok, err := f.store.Get(identifier)
	if err != nil {
		return zero, err
	}
	if ok {
		return value, nil
	}

	if f.flight != nil {
		shared, err, _ := f.flight.Do(identifier, func() (any, error) {
			// Re-check: another caller may have written while we queued.
			if value, ok, err := f.store.Get(identifier); err != nil {
				return nil, err
			} else if ok {
				return value, nil
			}
			return f.computeAndStore(identifier, callArgs)
		})
		if err != nil {
			return zero, err
		}
		return shared.(T), nil
	}

	result, err := f.computeAndStore(identifier, callArgs)
	if err != nil {
		return zero, err
	}
	return result.(T), nil
}

// computeAndStore runs the wrapped computation outside any store lock and
// writes the result back with Add, so a concurrent explicit write under the
// same identifier is not clobbered.
func (f *Func[T]) computeAndStore(identifier string, callArgs []any) (any, error) {
	result, err := f.fn(callArgs...)
	if err != nil {
		return nil, err
	}
	if err := f.store.Add(identifier, result, f.writeOpts...); err != nil {
		return nil, err
	}
	return result, nil
}

// stripRefresh removes Refresh tokens from the argument list and reports
// whether one was present.
func stripRefresh(args []any) ([]any, bool) {
	refresh := false
	filtered := make([]any, 0, len(args))
	for _, arg := range args {
		if _, ok := arg.(refreshToken); ok {
			refresh = true
			continue
		}
		filtered = append(filtered, arg)
	}
	return filtered, refresh
}
