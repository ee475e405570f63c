package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_UnknownKey_TopLevel(t *testing.T) {
	path := writeTestConfig(t, `
unknown_section = "value"
`)
	_, err := Load(path, testLogger(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown config key")
}

func TestLoad_UnknownKey_Typo(t *testing.T) {
	path := writeTestConfig(t, `client_secrt = "x"`)
	_, err := Load(path, testLogger(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown config key")
	assert.Contains(t, err.Error(), `did you mean "client_secret"`)
}

func TestLoad_UnknownKey_InSection(t *testing.T) {
	path := writeTestConfig(t, "[server]\nbase_ur = \"https://dracoon.example.com\"\n")
	_, err := Load(path, testLogger(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown config key")
	assert.Contains(t, err.Error(), "base_url")
}

func TestLoad_UnknownKey_NoSuggestion(t *testing.T) {
	path := writeTestConfig(t, `
completely_unrelated_key = true
`)
	_, err := Load(path, testLogger(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown config key")
	assert.NotContains(t, err.Error(), "did you mean")
}

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b     string
		expected int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"abc", "abc", 0},
		{"abc", "abd", 1},
		{"client_secrt", "client_secret", 1},
		{"conect_timout", "connect_timeout", 2},
		{"completely_different", "xyz", 19},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.expected, levenshtein(tt.a, tt.b))
		})
	}
}

func TestClosestMatch_Found(t *testing.T) {
	known := []string{"client_id", "client_secret", "connect_timeout"}
	assert.Equal(t, "client_id", closestMatch("clientid", known))
	assert.Equal(t, "client_secret", closestMatch("client_secrets", known))
}

func TestClosestMatch_NotFound(t *testing.T) {
	known := []string{"client_id", "base_url"}
	assert.Equal(t, "", closestMatch("completely_unrelated", known))
}

func TestKnownGlobalKeys_MatchDefaults(t *testing.T) {
	for _, k := range knownGlobalKeysList {
		assert.True(t, knownGlobalKeys[k])
	}

	assert.Len(t, knownGlobalKeysList, len(knownGlobalKeys))
}
