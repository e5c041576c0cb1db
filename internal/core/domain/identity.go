package domain

import "strings"

// =============================================================================
// Project Identity
// =============================================================================

// SanitizeIdentity converts an arbitrary name into a valid project identity.
//
// The transformation rules are:
//   - Lowercase letters (a-z), digits (0-9), underscores and hyphens are kept
//   - Uppercase letters (A-Z) are converted to lowercase
//   - Every other character is replaced with a hyphen
//   - Leading and trailing hyphens are stripped
//
// The result matches [a-z0-9_-]+ with no leading or trailing hyphen, or is
// empty when the input contains nothing usable. The function is idempotent:
// sanitizing an already-sanitized identity returns it unchanged.
//
// This is a pure function with no side effects.
//
// Example:
//
//	SanitizeIdentity("My Custom Plugin")  // returns "my-custom-plugin"
//	SanitizeIdentity("@Company/Plugin")   // returns "company-plugin"
//	SanitizeIdentity("bu-analytics")      // returns "bu-analytics"
func SanitizeIdentity(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + 32) // convert to lowercase
		default:
			b.WriteByte('-')
		}
	}
	return strings.Trim(b.String(), "-")
}

// =============================================================================
// Resource Naming Functions
// =============================================================================

// The orchestrator is always invoked with an explicit project name and every
// derived resource carries an explicit name, so no further prefixing happens
// downstream. Each name therefore contains the identity exactly once.

// DatabaseVolumeName generates the persistent database volume name.
// Pattern: {identity}_db_data
//
// Example:
//
//	DatabaseVolumeName("my-site") // returns "my-site_db_data"
func DatabaseVolumeName(identity string) string {
	return identity + "_db_data"
}

// BuildVolumeName generates the persistent application-build volume name.
// Pattern: {identity}_build
//
// Example:
//
//	BuildVolumeName("my-site") // returns "my-site_build"
func BuildVolumeName(identity string) string {
	return identity + "_build"
}

// NetworkName generates the shared network name for a project.
// Pattern: {identity}_net
func NetworkName(identity string) string {
	return identity + "_net"
}
