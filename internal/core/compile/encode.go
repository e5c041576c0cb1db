package compile

import (
	"bytes"

	"gopkg.in/yaml.v3"
)

// =============================================================================
// Descriptor Encoding
// =============================================================================

// banner precedes every generated descriptor. Encoding is deterministic:
// yaml.v3 sorts map keys and all list ordering is fixed by the compiler, so
// identical topologies encode byte-identically.
const banner = "# Generated by devstack. Do not edit; changes are overwritten on the next run.\n"

// Encode serializes a topology to its on-disk descriptor form.
func Encode(t *Topology) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(banner)

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(t); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
