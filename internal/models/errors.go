package models

import "fmt"

// ErrorType represents different categories of errors
type ErrorType int

const (
	ErrRequiredField ErrorType = iota
	ErrMalformedScalar
	ErrConstruction
	ErrPackageParse
	ErrMetadataGen
	ErrSigning
	ErrFileOp
	ErrInvalidConfig
)

// String returns the string representation of ErrorType
func (e ErrorType) String() string {
	switch e {
	case ErrRequiredField:
		return "RequiredField"
	case ErrMalformedScalar:
		return "MalformedScalar"
	case ErrConstruction:
		return "Construction"
	case ErrPackageParse:
		return "PackageParse"
	case ErrMetadataGen:
		return "MetadataGen"
	case ErrSigning:
		return "Signing"
	case ErrFileOp:
		return "FileOp"
	case ErrInvalidConfig:
		return "InvalidConfig"
	default:
		return "Unknown"
	}
}

// CodecError represents an error raised while encoding, decoding or
// generating package properties. Field names the element or package the
// error relates to, if any.
type CodecError struct {
	Type  ErrorType
	Field string
	Err   error
}

// Error implements the error interface
func (e *CodecError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Field, e.Err)
	}
	return fmt.Sprintf("[%s] %v", e.Type, e.Err)
}

// Unwrap returns the wrapped error
func (e *CodecError) Unwrap() error {
	return e.Err
}

// Is reports whether target is a *CodecError of the same Type, so callers
// can match categories with errors.Is(err, &CodecError{Type: ErrRequiredField}).
func (e *CodecError) Is(target error) bool {
	t, ok := target.(*CodecError)
	if !ok {
		return false
	}
	return t.Type == e.Type
}

// NewCodecError is a shorthand for building a *CodecError.
func NewCodecError(typ ErrorType, field string, err error) *CodecError {
	return &CodecError{Type: typ, Field: field, Err: err}
}
