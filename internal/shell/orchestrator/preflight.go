package orchestrator

import (
	"errors"
	"fmt"

	"github.com/artpar/devstack/internal/core/vault"
)

// =============================================================================
// Required-Credential Preflight
// =============================================================================

// ResolveCredentials gathers values for the required keys before any
// orchestrator invocation: the local overlay wins, the vault backs it up.
// When any key is resolvable from neither source, it fails with a
// MissingCredentialError naming exactly the missing keys, so no partially
// credentialed environment ever starts.
func ResolveCredentials(required []string, overlay map[string]string, store vault.Store) (map[string]string, error) {
	resolved := make(map[string]string, len(required))
	var missing []string

	for _, key := range required {
		if v, ok := overlay[key]; ok && v != "" {
			resolved[key] = v
			continue
		}
		v, err := store.Get(key)
		switch {
		case err == nil:
			resolved[key] = v
		case errors.Is(err, vault.ErrNotFound), errors.Is(err, vault.ErrUnsupportedPlatform):
			missing = append(missing, key)
		default:
			return nil, fmt.Errorf("reading credential %s: %w", key, err)
		}
	}

	if len(missing) > 0 {
		return nil, &vault.MissingCredentialError{Keys: missing}
	}
	return resolved, nil
}
