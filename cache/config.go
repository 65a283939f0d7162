package cache

import (
	"fmt"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/mkohl98/RattleCache/errors"
)

// Mode selects the eviction policy for a store.
type Mode string

const (
	// ModeLRU evicts the identifier least recently touched by Get.
	ModeLRU Mode = "lru"

	// ModeLRA evicts the identifier inserted earliest; Get does not reorder.
	ModeLRA Mode = "lra"

	// ModeLFU evicts the identifier with the lowest cumulative access count,
	// ties broken by oldest insertion.
	ModeLFU Mode = "lfu"
)

// Config contains configuration for store creation.
type Config struct {
	// MemoryLimit caps the aggregate size of stored entries in bytes.
	// Zero disables memory-based eviction.
	MemoryLimit uint64 `json:"memory_limit" schema:"editable,type:int,description:Aggregate entry size cap in bytes (0 = unbounded),min:0"`

	// Mode determines the eviction policy.
	Mode Mode `json:"mode" schema:"editable,type:enum,description:Eviction policy,enum:lru|lra|lfu"`

	// EvictionPercentage is an advisory fill threshold at which eviction
	// should begin. It is stored and exposed but not consulted by the
	// eviction algorithm itself; reserved for future hysteresis.
	EvictionPercentage float64 `json:"eviction_percentage" schema:"editable,type:float,description:Advisory fill threshold for eviction,min:0,max:1"`

	// SerializeLimit is the size in bytes above which values are
	// automatically stored in encoded form. Zero disables auto-serialization.
	SerializeLimit uint64 `json:"serialize_limit" schema:"editable,type:int,description:Size threshold for automatic value serialization in bytes (0 = disabled),min:0"`
}

// DefaultConfig returns a default store configuration.
func DefaultConfig() Config {
	return Config{
		MemoryLimit:        0,
		Mode:               ModeLRU,
		EvictionPercentage: 0.9,
		SerializeLimit:     0,
	}
}

// Validate checks if the configuration is valid.
func (c Config) Validate() error {
	switch c.Mode {
	case ModeLRU, ModeLRA, ModeLFU:
	default:
		return errors.WrapInvalid(errors.ErrUnknownMode, "cache", "Validate",
			fmt.Sprintf("%q is not a valid eviction mode", c.Mode))
	}

	if c.EvictionPercentage < 0 || c.EvictionPercentage > 1 {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "cache", "Validate",
			fmt.Sprintf("eviction_percentage must be within [0, 1], got %v", c.EvictionPercentage))
	}

	return nil
}

// UnmarshalJSON implements custom JSON unmarshaling for Config to support
// human-readable byte sizes (e.g., "10MB", "512KiB") in addition to plain
// byte counts.
func (c *Config) UnmarshalJSON(data []byte) error {
	// Use an alias to avoid infinite recursion
	type Alias Config

	aux := &struct {
		MemoryLimit    json.RawMessage `json:"memory_limit,omitempty"`
		SerializeLimit json.RawMessage `json:"serialize_limit,omitempty"`
		*Alias
	}{
		Alias: (*Alias)(c),
	}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	if len(aux.MemoryLimit) > 0 {
		limit, err := parseByteSizeField(aux.MemoryLimit, "memory_limit")
		if err != nil {
			return err
		}
		c.MemoryLimit = limit
	}

	if len(aux.SerializeLimit) > 0 {
		limit, err := parseByteSizeField(aux.SerializeLimit, "serialize_limit")
		if err != nil {
			return err
		}
		c.SerializeLimit = limit
	}

	return nil
}

// parseByteSizeField parses a JSON byte-size field that can be either:
// - An integer (bytes)
// - A string (size like "10MB", "512KiB", "1.5GiB")
func parseByteSizeField(data json.RawMessage, fieldName string) (uint64, error) {
	// Try parsing as string first
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		size, err := parseByteSize(str)
		if err != nil {
			return 0, fmt.Errorf("invalid size string for %s: %w", fieldName, err)
		}
		return size, nil
	}

	// Fall back to integer bytes
	var n uint64
	if err := json.Unmarshal(data, &n); err != nil {
		return 0, fmt.Errorf("field %s must be either a size string (e.g. '10MB') or integer bytes", fieldName)
	}
	return n, nil
}

// byteUnits maps size suffixes to their multiplier. Decimal and binary
// prefixes are both accepted.
var byteUnits = []struct {
	suffix     string
	multiplier float64
}{
	{"gib", 1 << 30},
	{"mib", 1 << 20},
	{"kib", 1 << 10},
	{"gb", 1e9},
	{"mb", 1e6},
	{"kb", 1e3},
	{"b", 1},
}

// parseByteSize converts strings like "10MB", "512 KiB" or "1.5GiB" to bytes.
func parseByteSize(s string) (uint64, error) {
	trimmed := strings.ToLower(strings.TrimSpace(s))
	if trimmed == "" {
		return 0, fmt.Errorf("empty size string")
	}

	for _, unit := range byteUnits {
		if !strings.HasSuffix(trimmed, unit.suffix) {
			continue
		}
		number := strings.TrimSpace(strings.TrimSuffix(trimmed, unit.suffix))
		if number == "" {
			return 0, fmt.Errorf("missing number in size %q", s)
		}
		value, err := strconv.ParseFloat(number, 64)
		if err != nil || value < 0 {
			return 0, fmt.Errorf("invalid number in size %q", s)
		}
		return uint64(value * unit.multiplier), nil
	}

	// Bare number: plain bytes
	value, err := strconv.ParseUint(trimmed, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("unrecognized size %q", s)
	}
	return value, nil
}
