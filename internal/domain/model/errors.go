package model

import "errors"

// Error taxonomy shared by the domain, stores and transport.
var (
	// ErrInvalidInput marks an empty or malformed code, name or rating payload.
	ErrInvalidInput = errors.New("invalid input")
	// ErrOutOfRange marks a rating field outside [0, 10] or not finite.
	ErrOutOfRange = errors.New("rating out of range")
	// ErrNotFound marks a lookup miss. Operations surface it as "absent".
	ErrNotFound = errors.New("not found")
	// ErrNoOpCode is returned when a caller validates its own current code.
	ErrNoOpCode = errors.New("code is already the current code")
	// ErrStoreUnavailable wraps any persistence failure.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrUnknownSpot marks a spot name missing from the catalog.
	ErrUnknownSpot = errors.New("unknown spot")
	// ErrCodeSpaceExhausted is returned when no unused code could be generated.
	ErrCodeSpaceExhausted = errors.New("code space exhausted")
)
