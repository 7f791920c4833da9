package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodecErrorMessage(t *testing.T) {
	err := NewCodecError(ErrRequiredField, "Published", errors.New("element is missing"))
	assert.Equal(t, "[RequiredField] Published: element is missing", err.Error())

	err = NewCodecError(ErrFileOp, "", errors.New("boom"))
	assert.Equal(t, "[FileOp] boom", err.Error())
}

func TestCodecErrorMatchesByType(t *testing.T) {
	inner := errors.New("bad digit")
	wrapped := fmt.Errorf("decode: %w", NewCodecError(ErrMalformedScalar, "DownloadCount", inner))

	assert.True(t, errors.Is(wrapped, &CodecError{Type: ErrMalformedScalar}))
	assert.False(t, errors.Is(wrapped, &CodecError{Type: ErrRequiredField}))
	assert.True(t, errors.Is(wrapped, inner))

	var ce *CodecError
	if assert.True(t, errors.As(wrapped, &ce)) {
		assert.Equal(t, "DownloadCount", ce.Field)
	}
}

func TestErrorTypeString(t *testing.T) {
	assert.Equal(t, "Construction", ErrConstruction.String())
	assert.Equal(t, "Unknown", ErrorType(99).String())
}
