// Package codec provides encode/decode adapters used by the cache store to
// keep large values in serialized form.
//
// # Overview
//
// A Codec turns a value into an opaque byte representation and back. The
// store consults the codec transparently: values written above the configured
// serialize threshold (or explicitly marked) are stored encoded and decoded
// again on read. Three implementations ship with the module:
//
//   - NewGob: self-describing binary encoding, the default
//   - NewJSON: JSON via goccy/go-json, for inspectable payloads
//   - NewCompressed: wraps another codec with zstd compression
//
// # Contract
//
// Unmarshal(Marshal(v)) must be observationally equal to v. Encoding
// failures (unencodable values) are returned, never swallowed; the store
// surfaces them to the caller of Add, decode failures to the caller of Get.
package codec
