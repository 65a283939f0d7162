package codec

import (
	"fmt"

	"github.com/klauspost/compress/zstd"

	"github.com/mkohl98/RattleCache/errors"
)

// compressedCodec wraps an inner codec and zstd-compresses its output.
// Worth the CPU only for values well above the serialize threshold;
// small payloads can grow slightly.
type compressedCodec struct {
	inner   Codec
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// NewCompressed wraps inner so that encoded values are zstd-compressed.
// The returned codec is safe for concurrent use.
func NewCompressed(inner Codec) (Codec, error) {
	if inner == nil {
		return nil, errors.WrapInvalid(errors.ErrInvalidConfig, "codec", "NewCompressed",
			"inner codec must not be nil")
	}

	// EncodeAll/DecodeAll on a nil-writer encoder are concurrency-safe.
	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, errors.WrapInvalid(err, "codec", "NewCompressed", "zstd encoder setup")
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, errors.WrapInvalid(err, "codec", "NewCompressed", "zstd decoder setup")
	}

	return &compressedCodec{inner: inner, encoder: encoder, decoder: decoder}, nil
}

func (c *compressedCodec) Marshal(v any) ([]byte, error) {
	data, err := c.inner.Marshal(v)
	if err != nil {
		return nil, err
	}
	return c.encoder.EncodeAll(data, nil), nil
}

func (c *compressedCodec) Unmarshal(data []byte, v any) error {
	decompressed, err := c.decoder.DecodeAll(data, nil)
	if err != nil {
		return fmt.Errorf("%w: zstd: %v", errors.ErrDecodeFailed, err)
	}
	return c.inner.Unmarshal(decompressed, v)
}

func (c *compressedCodec) Name() string {
	return c.inner.Name() + "+zstd"
}
