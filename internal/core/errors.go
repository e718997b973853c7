package core

import "errors"

var (
	// ErrInvalidInput is returned for missing or malformed form values.
	ErrInvalidInput = errors.New("invalid input")

	// ErrWriteFailed is returned when no backend accepted a write.
	ErrWriteFailed = errors.New("write failed")

	// ErrAccessDenied is returned for a wrong access code.
	ErrAccessDenied = errors.New("access code rejected")

	// ErrStaleRow is returned when an edit addresses a row by position and
	// the stored row at that position is no longer the one that was shown.
	ErrStaleRow = errors.New("row changed since it was loaded")
)
