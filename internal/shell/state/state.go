// Package state owns the per-project state directory: the compiled topology
// descriptor and the transient credential channel live under it. This is part
// of the Imperative Shell.
package state

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/artpar/devstack/internal/core/compile"
)

// DescriptorFilename is the well-known descriptor name inside a project's
// state directory.
const DescriptorFilename = "docker-compose.yml"

// Dir locates state for one resolved project identity under a base directory.
type Dir struct {
	base     string
	identity string
}

// NewDir returns the state locator for a project identity.
func NewDir(base, identity string) Dir {
	return Dir{base: base, identity: identity}
}

// Path is the project's state directory.
func (d Dir) Path() string {
	return filepath.Join(d.base, d.identity)
}

// DescriptorPath is the well-known path of the compiled descriptor.
func (d Dir) DescriptorPath() string {
	return filepath.Join(d.Path(), DescriptorFilename)
}

// WriteDescriptor encodes, verifies and writes a topology descriptor,
// creating the state directory if absent. Nothing is written when encoding or
// verification fails, so a broken descriptor never replaces a good one.
//
// Concurrent invocations against the same identity are not coordinated; the
// last writer's descriptor wins. Shared sandboxes rely on exactly that.
func (d Dir) WriteDescriptor(t *compile.Topology) (string, error) {
	data, err := compile.Encode(t)
	if err != nil {
		return "", fmt.Errorf("encoding descriptor: %w", err)
	}
	if err := compile.Verify(data); err != nil {
		return "", err
	}

	if err := os.MkdirAll(d.Path(), 0o755); err != nil {
		return "", fmt.Errorf("creating state directory: %w", err)
	}

	path := d.DescriptorPath()
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing descriptor: %w", err)
	}
	return path, nil
}
