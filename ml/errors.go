package ml

import "errors"

var (
	// ErrInvalidInput is returned when a feature matrix or vector violates the schema.
	ErrInvalidInput = errors.New("ml: invalid input")
	// ErrUnknownClass is returned when a class index has no label.
	ErrUnknownClass = errors.New("ml: unknown class index")
	// ErrSchemaMismatch is returned when loaded artifacts disagree on the schema.
	ErrSchemaMismatch = errors.New("ml: artifact schema mismatch")
	// ErrMalformedArtifact is returned when an artifact cannot be decoded.
	ErrMalformedArtifact = errors.New("ml: malformed artifact")
	// ErrClosed is returned by classifiers used after Close.
	ErrClosed = errors.New("ml: classifier closed")
)
