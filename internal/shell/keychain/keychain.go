// Package keychain implements the vault.Store capability against the macOS
// keychain, shelling out to the platform security tool. This is part of the
// Imperative Shell; the compiler core only ever sees the vault.Store
// interface.
package keychain

import (
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/artpar/devstack/internal/core/vault"
)

// serviceName is the keychain service every credential is filed under.
const serviceName = "devstack"

// notFoundExit is the security tool's exit status for a missing item.
const notFoundExit = 44

// errItemNotFound is returned by runners when the store holds no such item.
var errItemNotFound = errors.New("keychain item not found")

// runnerFunc executes the platform credential tool and returns its trimmed
// stdout, or errItemNotFound for a missing item. Tests substitute a fake;
// production uses the security binary.
type runnerFunc func(args ...string) (string, error)

// Keychain is the macOS implementation of vault.Store.
type Keychain struct {
	goos string
	run  runnerFunc
}

var _ vault.Store = (*Keychain)(nil)

// New returns a keychain-backed store for the current platform.
func New() *Keychain {
	return &Keychain{
		goos: runtime.GOOS,
		run:  runSecurity,
	}
}

func runSecurity(args ...string) (string, error) {
	out, err := exec.Command("security", args...).Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == notFoundExit {
			return "", errItemNotFound
		}
		return "", err
	}
	return strings.TrimRight(string(out), "\n"), nil
}

func (k *Keychain) supported() bool {
	return k.goos == "darwin"
}

func (k *Keychain) checkKey(key string) error {
	if !vault.IsRegistered(key) {
		return &vault.InvalidKeyError{Key: key}
	}
	if !k.supported() {
		return vault.ErrUnsupportedPlatform
	}
	return nil
}

// Get returns the stored value for a registered key. Values written by the
// legacy release of this tool were hex-encoded when multi-line; those decode
// transparently, so no migration step exists.
func (k *Keychain) Get(key string) (string, error) {
	if err := k.checkKey(key); err != nil {
		return "", err
	}

	raw, err := k.run("find-generic-password", "-s", serviceName, "-a", key, "-w")
	if err != nil {
		if errors.Is(err, errItemNotFound) {
			return "", vault.ErrNotFound
		}
		return "", fmt.Errorf("reading %s from keychain: %w", key, err)
	}

	entry, _ := vault.Lookup(key)
	return vault.DecodeStored(entry, raw), nil
}

// Set stores a value for a registered key, replacing any previous value.
func (k *Keychain) Set(key, value string) error {
	if err := k.checkKey(key); err != nil {
		return err
	}
	// -U updates in place when the item already exists.
	if _, err := k.run("add-generic-password", "-s", serviceName, "-a", key, "-w", value, "-U"); err != nil {
		return fmt.Errorf("writing %s to keychain: %w", key, err)
	}
	return nil
}

// Has reports whether a value is stored for the key. It degrades gracefully:
// off-platform, unknown keys and tool failures all read as absent, so status
// flows keep working with partial vault availability.
func (k *Keychain) Has(key string) bool {
	if !vault.IsRegistered(key) || !k.supported() {
		return false
	}
	_, err := k.run("find-generic-password", "-s", serviceName, "-a", key, "-w")
	return err == nil
}

// Delete removes the stored value for a registered key. Deleting an absent
// key is not an error.
func (k *Keychain) Delete(key string) error {
	if err := k.checkKey(key); err != nil {
		return err
	}
	if _, err := k.run("delete-generic-password", "-s", serviceName, "-a", key); err != nil {
		if errors.Is(err, errItemNotFound) {
			return nil
		}
		return fmt.Errorf("deleting %s from keychain: %w", key, err)
	}
	return nil
}

// List returns the registry keys with stored values, in registry order.
// Never fatal.
func (k *Keychain) List() []string {
	var keys []string
	for _, name := range vault.KeyNames() {
		if k.Has(name) {
			keys = append(keys, name)
		}
	}
	return keys
}

// Clear deletes every stored registry key and returns how many were removed.
func (k *Keychain) Clear() (int, error) {
	if !k.supported() {
		return 0, vault.ErrUnsupportedPlatform
	}
	count := 0
	for _, name := range vault.KeyNames() {
		if !k.Has(name) {
			continue
		}
		if err := k.Delete(name); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}
