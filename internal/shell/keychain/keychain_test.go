package keychain

import (
	"encoding/hex"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artpar/devstack/internal/core/vault"
)

// fakeRunner simulates the security tool against an in-memory item store.
type fakeRunner struct {
	items map[string]string
}

func (f *fakeRunner) run(args ...string) (string, error) {
	account := argValue(args, "-a")
	switch args[0] {
	case "find-generic-password":
		v, ok := f.items[account]
		if !ok {
			return "", errItemNotFound
		}
		return v, nil
	case "add-generic-password":
		f.items[account] = argValue(args, "-w")
		return "", nil
	case "delete-generic-password":
		if _, ok := f.items[account]; !ok {
			return "", errItemNotFound
		}
		delete(f.items, account)
		return "", nil
	}
	return "", errors.New("unexpected command")
}

func argValue(args []string, flag string) string {
	for i, a := range args {
		if a == flag && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

func newFakeKeychain(items map[string]string) (*Keychain, *fakeRunner) {
	if items == nil {
		items = map[string]string{}
	}
	f := &fakeRunner{items: items}
	return &Keychain{goos: "darwin", run: f.run}, f
}

// =============================================================================
// Get / Set / Delete Tests
// =============================================================================

func TestKeychain_SetGetRoundTrip(t *testing.T) {
	k, _ := newFakeKeychain(nil)

	require.NoError(t, k.Set("WORDPRESS_DB_PASSWORD", "pw"))
	got, err := k.Get("WORDPRESS_DB_PASSWORD")
	require.NoError(t, err)
	assert.Equal(t, "pw", got)
}

func TestKeychain_GetMissing(t *testing.T) {
	k, _ := newFakeKeychain(nil)

	_, err := k.Get("WORDPRESS_DB_PASSWORD")
	assert.ErrorIs(t, err, vault.ErrNotFound)
}

func TestKeychain_GetDecodesLegacyHex(t *testing.T) {
	original := "-----BEGIN CERTIFICATE-----\nabc\n-----END CERTIFICATE-----"
	k, _ := newFakeKeychain(map[string]string{
		"SAML_SP_CERT": hex.EncodeToString([]byte(original)),
	})

	got, err := k.Get("SAML_SP_CERT")
	require.NoError(t, err)
	assert.Equal(t, original, got)
}

func TestKeychain_GetSingleLineKeyNotDecoded(t *testing.T) {
	k, _ := newFakeKeychain(map[string]string{"WORDPRESS_DB_PASSWORD": "deadbeef"})

	got, err := k.Get("WORDPRESS_DB_PASSWORD")
	require.NoError(t, err)
	assert.Equal(t, "deadbeef", got)
}

func TestKeychain_InvalidKey(t *testing.T) {
	k, _ := newFakeKeychain(nil)

	var invalidErr *vault.InvalidKeyError
	_, err := k.Get("NOT_A_KEY")
	require.ErrorAs(t, err, &invalidErr)
	assert.Equal(t, "NOT_A_KEY", invalidErr.Key)

	assert.Error(t, k.Set("NOT_A_KEY", "v"))
	assert.Error(t, k.Delete("NOT_A_KEY"))
}

func TestKeychain_UnsupportedPlatform(t *testing.T) {
	f := &fakeRunner{items: map[string]string{}}
	k := &Keychain{goos: "linux", run: f.run}

	_, err := k.Get("WORDPRESS_DB_PASSWORD")
	assert.ErrorIs(t, err, vault.ErrUnsupportedPlatform)
	assert.ErrorIs(t, k.Set("WORDPRESS_DB_PASSWORD", "v"), vault.ErrUnsupportedPlatform)
	assert.ErrorIs(t, k.Delete("WORDPRESS_DB_PASSWORD"), vault.ErrUnsupportedPlatform)

	// Has and List degrade instead of failing.
	assert.False(t, k.Has("WORDPRESS_DB_PASSWORD"))
	assert.Empty(t, k.List())
	_, err = k.Clear()
	assert.ErrorIs(t, err, vault.ErrUnsupportedPlatform)
}

func TestKeychain_DeleteMissingIsNoError(t *testing.T) {
	k, _ := newFakeKeychain(nil)
	assert.NoError(t, k.Delete("WORDPRESS_DB_PASSWORD"))
}

// =============================================================================
// List / Clear Tests
// =============================================================================

func TestKeychain_ListRegistryOrder(t *testing.T) {
	k, _ := newFakeKeychain(map[string]string{
		"S3_BUCKET":             "b",
		"WORDPRESS_DB_PASSWORD": "pw",
		"stray-item":            "ignored",
	})

	assert.Equal(t, []string{"WORDPRESS_DB_PASSWORD", "S3_BUCKET"}, k.List())
}

func TestKeychain_Clear(t *testing.T) {
	k, f := newFakeKeychain(map[string]string{
		"WORDPRESS_DB_PASSWORD": "pw",
		"MYSQL_ROOT_PASSWORD":   "root",
	})

	count, err := k.Clear()
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Empty(t, f.items)
	assert.Empty(t, k.List())
}
