package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorClassString(t *testing.T) {
	tests := []struct {
		class    ErrorClass
		expected string
	}{
		{ErrorTransient, "transient"},
		{ErrorInvalid, "invalid"},
		{ErrorFatal, "fatal"},
		{ErrorClass(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.class.String())
		})
	}
}

func TestWrap(t *testing.T) {
	base := stderrors.New("boom")
	err := Wrap(base, "Store", "Add", "value encoding")
	require.Error(t, err)
	assert.Equal(t, "Store.Add: value encoding failed: boom", err.Error())
	assert.ErrorIs(t, err, base)

	assert.Nil(t, Wrap(nil, "Store", "Add", "anything"))
}

func TestWrapClassified(t *testing.T) {
	base := stderrors.New("boom")

	tests := []struct {
		name  string
		wrap  func(error, string, string, string) error
		class ErrorClass
	}{
		{"transient", WrapTransient, ErrorTransient},
		{"invalid", WrapInvalid, ErrorInvalid},
		{"fatal", WrapFatal, ErrorFatal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.wrap(base, "Store", "Get", "lookup")
			require.Error(t, err)

			var ce *ClassifiedError
			require.True(t, stderrors.As(err, &ce))
			assert.Equal(t, tt.class, ce.Class)
			assert.Equal(t, "Store", ce.Component)
			assert.Equal(t, "Get", ce.Operation)
			assert.ErrorIs(t, err, base)

			assert.Nil(t, tt.wrap(nil, "Store", "Get", "lookup"))
		})
	}
}

func TestClassificationPredicates(t *testing.T) {
	assert.False(t, IsInvalid(nil))
	assert.False(t, IsTransient(nil))
	assert.False(t, IsFatal(nil))

	invalid := WrapInvalid(ErrUnknownMode, "Config", "Validate", "mode check")
	assert.True(t, IsInvalid(invalid))
	assert.False(t, IsTransient(invalid))
	assert.False(t, IsFatal(invalid))

	// Bare sentinels classify without wrapping
	assert.True(t, IsInvalid(ErrEncodeFailed))
	assert.True(t, IsInvalid(ErrBudgetExceeded))
	assert.True(t, IsFatal(ErrResourceExhausted))

	transient := WrapTransient(stderrors.New("hiccup"), "Store", "Add", "metrics registration")
	assert.True(t, IsTransient(transient))
}

func TestClassify(t *testing.T) {
	assert.Equal(t, ErrorTransient, Classify(nil))
	assert.Equal(t, ErrorInvalid, Classify(ErrInvalidConfig))
	assert.Equal(t, ErrorFatal, Classify(WrapFatal(stderrors.New("oom"), "Store", "Add", "alloc")))
	assert.Equal(t, ErrorTransient, Classify(stderrors.New("anything else")))
}

func TestClassifiedErrorUnwrap(t *testing.T) {
	err := WrapInvalid(ErrDecodeFailed, "Store", "Get", "value decoding")

	var ce *ClassifiedError
	require.True(t, stderrors.As(err, &ce))
	assert.ErrorIs(t, ce.Unwrap(), ErrDecodeFailed)
}
