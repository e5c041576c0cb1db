package compile

import "errors"

// =============================================================================
// Error Types
// =============================================================================

var (
	// ErrMissingIdentity is returned when a project reaches the compiler
	// without a resolved identity.
	ErrMissingIdentity = errors.New("project identity is not resolved")

	// ErrInvalidDescriptor is returned when a generated descriptor fails
	// round-trip verification before being written.
	ErrInvalidDescriptor = errors.New("generated descriptor failed verification")
)
