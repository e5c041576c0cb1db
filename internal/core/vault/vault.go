// Package vault defines the credential key registry and the capability
// interface for the platform secure-credential store. The compiler core
// depends only on this package; the keychain shell implements it.
package vault

import (
	"errors"
	"fmt"
)

// =============================================================================
// Errors
// =============================================================================

var (
	// ErrUnsupportedPlatform is returned by store implementations when the
	// platform credential store is not available on this OS.
	ErrUnsupportedPlatform = errors.New("platform credential store is not supported on this OS")

	// ErrNotFound is returned by Get when no value is stored for a key.
	ErrNotFound = errors.New("credential not found")
)

// InvalidKeyError reports an operation against a key outside the registry.
type InvalidKeyError struct {
	Key string
}

func (e *InvalidKeyError) Error() string {
	return fmt.Sprintf("unknown credential key %q", e.Key)
}

// MissingCredentialError reports required credentials absent from both the
// local overlay and the vault. Keys preserves registry order.
type MissingCredentialError struct {
	Keys []string
}

func (e *MissingCredentialError) Error() string {
	return fmt.Sprintf("missing required credentials: %v (set them with 'devstack secrets set <key>' or add them to the local overlay file)", e.Keys)
}

// =============================================================================
// Store Interface
// =============================================================================

// Store is the injected capability for the platform credential store.
// Get, Set and Delete fail with ErrUnsupportedPlatform off the supported
// platform and with InvalidKeyError for keys outside the registry. Has and
// List degrade gracefully: unavailable entries read as absent, so status
// reporting keeps working with partial vault availability.
type Store interface {
	// Get returns the stored value for a registered key, transparently
	// decoding legacy hex-encoded multi-line values.
	Get(key string) (string, error)

	// Set stores a value for a registered key, replacing any previous value.
	Set(key, value string) error

	// Has reports whether a value is stored for the key. Never fatal.
	Has(key string) bool

	// Delete removes the stored value for a registered key.
	Delete(key string) error

	// List returns the registered keys that currently have stored values,
	// in registry order. Never fatal.
	List() []string

	// Clear deletes every stored registry key and returns how many were
	// removed.
	Clear() (int, error)
}
