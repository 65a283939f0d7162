package memoize

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// argsKey derives a stable identifier from the function name and the
// primitive arguments of a call. Argument order matters; a type tag per
// argument keeps int(1) and "1" distinct.
func argsKey(name string, args []any) string {
	digest := xxhash.New()
	_, _ = digest.WriteString(name)
	for _, arg := range args {
		if !isPrimitive(arg) {
			continue
		}
		_, _ = digest.WriteString(fmt.Sprintf("|%T=%v", arg, arg))
	}
	return fmt.Sprintf("%s@%016x", name, digest.Sum64())
}

// dependencyKey combines the function name with the dependency value so the
// same dependency under two different wrapped functions does not collide.
func dependencyKey(name string, dependency any) string {
	return fmt.Sprintf("%s:%v", name, dependency)
}

func isPrimitive(v any) bool {
	switch v.(type) {
	case string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return true
	default:
		return false
	}
}
