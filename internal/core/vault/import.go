package vault

import (
	"encoding/json"
	"fmt"
	"sort"
)

// =============================================================================
// Bulk Credential Import
// =============================================================================

// ImportMetadata is the provenance block of a credentials export document.
type ImportMetadata struct {
	Version  string `json:"version"`
	Source   string `json:"source"`
	Exported string `json:"exported"`
}

// ImportEntry is one accepted credential from a bulk import.
type ImportEntry struct {
	Key   string
	Value string
}

// RejectedEntry is one import entry that was not accepted, with the reason.
type RejectedEntry struct {
	Key    string
	Reason string
}

// ImportResult partitions a bulk-import document into accepted and rejected
// entries. A partially invalid document is not an error; only unparseable
// input is.
type ImportResult struct {
	Accepted []ImportEntry
	Rejected []RejectedEntry
	Metadata ImportMetadata
}

// credentialsDocument is the wire shape of a bulk-import file.
type credentialsDocument struct {
	Version     string         `json:"version"`
	Source      string         `json:"source"`
	Exported    string         `json:"exported"`
	Credentials map[string]any `json:"credentials"`
}

// ParseCredentials parses a bulk-import document. Entries are accepted when
// the key is in the registry and the value is a non-empty string; everything
// else is rejected with a per-entry reason. Accepted and rejected entries are
// returned in registry order so results are stable across runs.
func ParseCredentials(data []byte) (*ImportResult, error) {
	var doc credentialsDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing credentials file: %w", err)
	}

	result := &ImportResult{
		Metadata: ImportMetadata{
			Version:  doc.Version,
			Source:   doc.Source,
			Exported: doc.Exported,
		},
	}

	seen := make(map[string]bool, len(doc.Credentials))

	// Registry keys first, in canonical order.
	for _, k := range Registry {
		raw, ok := doc.Credentials[k.Name]
		if !ok {
			continue
		}
		seen[k.Name] = true
		value, isString := raw.(string)
		switch {
		case !isString:
			result.Rejected = append(result.Rejected, RejectedEntry{
				Key:    k.Name,
				Reason: "value is not a string",
			})
		case value == "":
			result.Rejected = append(result.Rejected, RejectedEntry{
				Key:    k.Name,
				Reason: "value is empty",
			})
		default:
			result.Accepted = append(result.Accepted, ImportEntry{Key: k.Name, Value: value})
		}
	}

	// Unknown keys, in input-name order for stable output.
	for _, name := range sortedKeys(doc.Credentials) {
		if !seen[name] {
			result.Rejected = append(result.Rejected, RejectedEntry{
				Key:    name,
				Reason: "key is not in the credential registry",
			})
		}
	}

	return result, nil
}

func sortedKeys(m map[string]any) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
