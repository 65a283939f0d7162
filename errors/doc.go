// Package errors provides standardized error handling patterns for RattleCache.
//
// # Overview
//
// The errors package implements a three-class error classification system:
// Transient (temporary), Invalid (bad input or configuration, non-retryable),
// and Fatal (unrecoverable, stop processing).
//
// Classification lets callers decide how to react to a failed cache operation
// without matching on error strings: an invalid eviction mode fails
// construction immediately, a codec failure surfaces to the caller of Add or
// Get, and resource exhaustion can be escalated. The system integrates with
// Go's standard error handling, supporting errors.Is(), errors.As(), and
// wrapping chains.
//
// # Quick Start
//
// Use standard error variables for known conditions:
//
//	if cfg.Mode != cache.ModeLRU {
//	    return errors.ErrUnknownMode
//	}
//
// Wrap errors with context for debugging:
//
//	if err := codec.Marshal(value); err != nil {
//	    return errors.WrapInvalid(err, "Store", "Add", "value encoding")
//	}
//
// Check classification at the call site:
//
//	if err := store.Add(id, value); err != nil {
//	    if errors.IsInvalid(err) {
//	        // caller bug: value is not encodable
//	    }
//	}
//
// # Error Wrapping Pattern
//
// All error wrapping follows the standardized format:
//
//	"component.method: action failed: <underlying error>"
//
// which keeps log lines greppable by component and operation.
package errors
