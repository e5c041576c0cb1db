package compile

import (
	"regexp"

	"github.com/artpar/devstack/internal/core/vault"
)

// =============================================================================
// Required Credential Extraction
// =============================================================================

// placeholderRegex matches ${VAR_NAME} credential placeholders in service
// environment values.
var placeholderRegex = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// RequiredCredentials returns the registry keys referenced as placeholders
// anywhere in the topology, in registry order. These must be resolvable from
// the overlay or the vault before the orchestrator is invoked.
func RequiredCredentials(t *Topology) []string {
	referenced := make(map[string]bool)
	for _, svc := range t.Services {
		for _, val := range svc.Environment {
			for _, match := range placeholderRegex.FindAllStringSubmatch(val, -1) {
				if vault.IsRegistered(match[1]) {
					referenced[match[1]] = true
				}
			}
		}
	}

	var keys []string
	for _, name := range vault.KeyNames() {
		if referenced[name] {
			keys = append(keys, name)
		}
	}
	return keys
}
