package vault

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Registry Tests
// =============================================================================

func TestRegistry_FifteenKeysFourCategories(t *testing.T) {
	assert.Len(t, Registry, 15)

	categories := map[Category]int{}
	for _, k := range Registry {
		categories[k.Category]++
	}
	assert.Len(t, categories, 4)
}

func TestRegistry_Lookup(t *testing.T) {
	k, ok := Lookup("SAML_SP_KEY")
	require.True(t, ok)
	assert.True(t, k.MultiLine)

	_, ok = Lookup("NOT_A_KEY")
	assert.False(t, ok)
}

func TestKeysInCategory(t *testing.T) {
	db := KeysInCategory(CategoryDatabase)
	assert.Equal(t, []string{"WORDPRESS_DB_USER", "WORDPRESS_DB_PASSWORD", "MYSQL_ROOT_PASSWORD"}, db)
}

// =============================================================================
// Legacy Decoding Tests
// =============================================================================

func TestDecodeStored_LegacyHexOnMultiLineKey(t *testing.T) {
	key, _ := Lookup("SAML_SP_CERT")
	original := "-----BEGIN CERTIFICATE-----\nabc\n-----END CERTIFICATE-----"
	stored := hex.EncodeToString([]byte(original))

	assert.Equal(t, original, DecodeStored(key, stored))
}

func TestDecodeStored_PlainValuePassesThrough(t *testing.T) {
	key, _ := Lookup("SAML_SP_CERT")
	value := "-----BEGIN CERTIFICATE-----\nabc"
	assert.Equal(t, value, DecodeStored(key, value))
}

func TestDecodeStored_SingleLineKeyNeverDecoded(t *testing.T) {
	// "deadbeef" is valid hex, but single-line keys were never hex-encoded,
	// so the value must pass through untouched.
	key, _ := Lookup("WORDPRESS_DB_PASSWORD")
	assert.Equal(t, "deadbeef", DecodeStored(key, "deadbeef"))
}

func TestDecodeStored_HexPattern(t *testing.T) {
	key, _ := Lookup("SAML_SP_KEY")
	tests := []struct {
		name   string
		value  string
		decode bool
	}{
		{"even-lowercase-hex", "6162", true},
		{"even-uppercase-hex", "6A6B", true},
		{"odd-length", "616", false},
		{"non-hex-chars", "61zz", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecodeStored(key, tt.value)
			if tt.decode {
				assert.NotEqual(t, tt.value, got)
			} else {
				assert.Equal(t, tt.value, got)
			}
		})
	}
}

// =============================================================================
// Bulk Import Tests
// =============================================================================

func TestParseCredentials_Partition(t *testing.T) {
	doc := `{
		"version": "2",
		"source": "prod-export",
		"exported": "2026-08-01T12:00:00Z",
		"credentials": {
			"WORDPRESS_DB_PASSWORD": "secret",
			"S3_BUCKET": "media-bucket",
			"UNKNOWN_KEY": "whatever",
			"SAML_ENTITY_ID": "",
			"ANALYTICS_API_KEY": 42
		}
	}`

	result, err := ParseCredentials([]byte(doc))
	require.NoError(t, err)

	assert.Equal(t, "prod-export", result.Metadata.Source)
	assert.Equal(t, "2", result.Metadata.Version)

	require.Len(t, result.Accepted, 2)
	assert.Equal(t, "WORDPRESS_DB_PASSWORD", result.Accepted[0].Key)
	assert.Equal(t, "S3_BUCKET", result.Accepted[1].Key)

	reasons := map[string]string{}
	for _, r := range result.Rejected {
		reasons[r.Key] = r.Reason
	}
	assert.Contains(t, reasons["SAML_ENTITY_ID"], "empty")
	assert.Contains(t, reasons["ANALYTICS_API_KEY"], "not a string")
	assert.Contains(t, reasons["UNKNOWN_KEY"], "not in the credential registry")
}

func TestParseCredentials_UnparseableInputFails(t *testing.T) {
	_, err := ParseCredentials([]byte("{not json"))
	assert.Error(t, err)
}

func TestParseCredentials_EmptyDocument(t *testing.T) {
	result, err := ParseCredentials([]byte(`{}`))
	require.NoError(t, err)
	assert.Empty(t, result.Accepted)
	assert.Empty(t, result.Rejected)
}
