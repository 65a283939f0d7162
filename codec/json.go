package codec

import (
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/mkohl98/RattleCache/errors"
)

// jsonCodec encodes values as JSON. Useful when cached values must stay
// inspectable in memory dumps or when interoperating with JSON-typed data.
// Unlike gob it cannot distinguish integer widths inside interface values.
type jsonCodec struct{}

// NewJSON returns a JSON codec backed by goccy/go-json.
func NewJSON() Codec {
	return jsonCodec{}
}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: json: %v", errors.ErrEncodeFailed, err)
	}
	return data, nil
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: json: %v", errors.ErrDecodeFailed, err)
	}
	return nil
}

func (jsonCodec) Name() string {
	return "json"
}
