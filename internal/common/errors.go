// Package common defines shared constants and sentinel errors used across
// the client layers of movieclient. Callers should use errors.Is to match
// these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Local input validation failed before any network call was made.
	ErrValidation = errors.New("validation error")

	// Stored values that cannot be decoded or unsealed.
	ErrCorruptedValue = errors.New("corrupted stored value")
)
