package cache

import (
	"reflect"
)

// maxSizeDepth bounds the recursion of the size estimator. Beyond this depth
// container contents are counted by their header size only.
const maxSizeDepth = 8

// sliceHeaderSize, stringHeaderSize and mapBaseSize approximate the fixed
// runtime overhead of the respective container headers.
const (
	stringHeaderSize = 16
	sliceHeaderSize  = 24
	mapBaseSize      = 48
	wordSize         = 8
)

// approxSize estimates the in-memory footprint of a value in bytes. The
// estimate is deterministic and intentionally simple: exact byte-for-byte
// accounting is not a goal, stable accounting for the eviction loop is.
// Serialized entries bypass this entirely and count by encoded length.
func approxSize(v any) uint64 {
	return sizeOfValue(reflect.ValueOf(v), 0)
}

func sizeOfValue(rv reflect.Value, depth int) uint64 {
	if !rv.IsValid() {
		return wordSize
	}

	switch rv.Kind() {
	case reflect.String:
		return stringHeaderSize + uint64(rv.Len())

	case reflect.Slice:
		if rv.IsNil() {
			return sliceHeaderSize
		}
		// Byte slices dominate cached payloads; count them directly.
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return sliceHeaderSize + uint64(rv.Len())
		}
		total := uint64(sliceHeaderSize)
		if depth < maxSizeDepth {
			for i := 0; i < rv.Len(); i++ {
				total += sizeOfValue(rv.Index(i), depth+1)
			}
		}
		return total

	case reflect.Array:
		var total uint64
		if depth < maxSizeDepth {
			for i := 0; i < rv.Len(); i++ {
				total += sizeOfValue(rv.Index(i), depth+1)
			}
			return total
		}
		return uint64(rv.Type().Size())

	case reflect.Map:
		total := uint64(mapBaseSize)
		if rv.IsNil() {
			return wordSize
		}
		if depth < maxSizeDepth {
			iter := rv.MapRange()
			for iter.Next() {
				total += sizeOfValue(iter.Key(), depth+1)
				total += sizeOfValue(iter.Value(), depth+1)
			}
		}
		return total

	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return wordSize
		}
		return wordSize + sizeOfValue(rv.Elem(), depth+1)

	case reflect.Struct:
		var total uint64
		for i := 0; i < rv.NumField(); i++ {
			total += sizeOfValue(rv.Field(i), depth+1)
		}
		return total

	case reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return wordSize

	default:
		// Fixed-size scalars: bool, ints, uints, floats, complex
		return uint64(rv.Type().Size())
	}
}

// kindOf returns the logical type label of a value for diagnostics.
func kindOf(v any) string {
	t := reflect.TypeOf(v)
	if t == nil {
		return "nil"
	}
	return t.String()
}
