package vault

import "encoding/hex"

// =============================================================================
// Legacy Value Decoding
// =============================================================================

// An earlier release stored multi-line credentials hex-encoded to survive a
// single-line storage backend. Reads decode such values transparently so no
// migration step is needed.

// looksLegacyEncoded reports whether a stored value matches the strict legacy
// hex pattern: non-empty, even length, hex digits only.
func looksLegacyEncoded(value string) bool {
	if len(value) == 0 || len(value)%2 != 0 {
		return false
	}
	for _, r := range value {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		case r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}

// DecodeStored returns the usable form of a stored value for the given key.
// Multi-line-capable keys with a legacy hex value decode to the original
// text; everything else passes through unchanged.
func DecodeStored(key Key, value string) string {
	if !key.MultiLine || !looksLegacyEncoded(value) {
		return value
	}
	decoded, err := hex.DecodeString(value)
	if err != nil {
		return value
	}
	return string(decoded)
}
