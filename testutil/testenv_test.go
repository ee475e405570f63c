package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "# comment\n\nDRACOON_TEST_DOTENV_A=\"quoted\"\nDRACOON_TEST_DOTENV_B = plain\nnot-a-pair\nDRACOON_TEST_DOTENV_C=from-file\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("DRACOON_TEST_DOTENV_A", "")
	t.Setenv("DRACOON_TEST_DOTENV_B", "")
	t.Setenv("DRACOON_TEST_DOTENV_C", "from-env")

	LoadDotEnv(path)

	assert.Equal(t, "quoted", os.Getenv("DRACOON_TEST_DOTENV_A"))
	assert.Equal(t, "plain", os.Getenv("DRACOON_TEST_DOTENV_B"))
	assert.Equal(t, "from-env", os.Getenv("DRACOON_TEST_DOTENV_C"))
}

func TestLoadDotEnv_MissingFile(t *testing.T) {
	assert.NotPanics(t, func() {
		LoadDotEnv(filepath.Join(t.TempDir(), "missing.env"))
	})
}

func TestHostAllowed(t *testing.T) {
	tests := []struct {
		name      string
		baseURL   string
		allowlist string
		want      bool
	}{
		{"exact", "https://test.example.com", "test.example.com", true},
		{"case and port", "https://Test.Example.com:8443/", "prod.example.com, test.example.com", true},
		{"not listed", "https://dracoon.team", "test.example.com", false},
		{"unparsable", "://bad", "test.example.com", false},
		{"no host", "/relative", "test.example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HostAllowed(tt.baseURL, tt.allowlist))
		})
	}
}

func TestFindModuleRoot(t *testing.T) {
	root := FindModuleRoot("fallback")

	_, err := os.Stat(filepath.Join(root, "go.mod"))
	assert.NoError(t, err)
}
