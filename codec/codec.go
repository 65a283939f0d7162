package codec

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"github.com/mkohl98/RattleCache/errors"
)

// Codec encodes and decodes values for cache storage.
// Implementations must round-trip: Unmarshal(Marshal(v)) yields a value
// observationally equal to v for any value the cache is asked to store.
type Codec interface {
	// Marshal serializes v into bytes.
	Marshal(v any) ([]byte, error)
	// Unmarshal deserializes data into v (must be a pointer).
	Unmarshal(data []byte, v any) error
	// Name returns the codec identifier used for diagnostics.
	Name() string
}

// gobCodec encodes values with encoding/gob. It is the default codec:
// self-describing, handles nested structs, maps and slices without schema.
type gobCodec struct{}

// NewGob returns the default gob-based codec.
func NewGob() Codec {
	return gobCodec{}
}

func (gobCodec) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, fmt.Errorf("%w: gob: %v", errors.ErrEncodeFailed, err)
	}
	return buf.Bytes(), nil
}

func (gobCodec) Unmarshal(data []byte, v any) error {
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(v); err != nil {
		return fmt.Errorf("%w: gob: %v", errors.ErrDecodeFailed, err)
	}
	return nil
}

func (gobCodec) Name() string {
	return "gob"
}
