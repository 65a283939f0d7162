package budget

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/mkohl98/RattleCache/errors"
)

// Handle identifies a registered grant. Callers keep it to release their
// share of the budget with Unregister.
type Handle struct {
	id uuid.UUID
}

// String returns the grant identifier for logging.
func (h Handle) String() string {
	return h.id.String()
}

// Registry tracks the memory limits of cache instances against a
// process-wide soft cap. It is an explicit collaborator passed at store
// construction, never ambient global state: a store registers its limit
// when built and unregisters it when closed.
type Registry struct {
	mu      sync.Mutex
	softCap uint64
	grants  map[uuid.UUID]uint64
	logger  *slog.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the structured logger used for budget pressure warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRegistry creates a registry enforcing the given soft cap in bytes.
func NewRegistry(softCap uint64, opts ...Option) (*Registry, error) {
	if softCap == 0 {
		return nil, errors.WrapInvalid(errors.ErrInvalidConfig, "budget", "NewRegistry",
			"soft cap must be positive")
	}

	r := &Registry{
		softCap: softCap,
		grants:  make(map[uuid.UUID]uint64),
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}

	return r, nil
}

// Register requests a grant of limit bytes. It fails with a classified
// invalid error when the grant would push the committed total above the
// soft cap, so the caller's construction fails explicitly instead of the
// instance being silently discarded.
func (r *Registry) Register(limit uint64) (Handle, error) {
	if limit == 0 {
		return Handle{}, errors.WrapInvalid(errors.ErrInvalidConfig, "budget", "Register",
			"unbounded instances cannot be budgeted")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	committed := r.committedLocked()
	if committed+limit > r.softCap {
		return Handle{}, errors.WrapInvalid(
			fmt.Errorf("%w: %d committed + %d requested > %d cap",
				errors.ErrBudgetExceeded, committed, limit, r.softCap),
			"budget", "Register", "grant request")
	}

	h := Handle{id: uuid.New()}
	r.grants[h.id] = limit

	total := committed + limit
	if total*10 >= r.softCap*9 {
		r.logger.Warn("shared cache budget nearly exhausted",
			"committed_bytes", total,
			"soft_cap_bytes", r.softCap,
			"grant", h.id.String())
	} else {
		r.logger.Debug("cache budget grant registered",
			"limit_bytes", limit,
			"committed_bytes", total,
			"grant", h.id.String())
	}

	return h, nil
}

// Unregister releases a grant. It reports whether the handle was known.
func (r *Registry) Unregister(h Handle) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.grants[h.id]; !ok {
		return false
	}
	delete(r.grants, h.id)
	return true
}

// Committed returns the total bytes currently granted.
func (r *Registry) Committed() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.committedLocked()
}

// SoftCap returns the configured soft cap in bytes.
func (r *Registry) SoftCap() uint64 {
	return r.softCap
}

func (r *Registry) committedLocked() uint64 {
	var total uint64
	for _, limit := range r.grants {
		total += limit
	}
	return total
}
