package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_AllFieldsPopulated(t *testing.T) {
	cfg := DefaultConfig()
	require.NotNil(t, cfg)

	// Server defaults (using promoted field access)
	assert.Empty(t, cfg.BaseURL)
	assert.Empty(t, cfg.ClientID)
	assert.Empty(t, cfg.ClientSecret)
	assert.Empty(t, cfg.RedirectURI)
	assert.Equal(t, "all", cfg.Scope)

	// Logging defaults
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "auto", cfg.LogFormat)

	// Network defaults
	assert.Equal(t, "10s", cfg.ConnectTimeout)
	assert.Equal(t, "60s", cfg.DataTimeout)
	assert.Empty(t, cfg.UserAgent)
}

func TestDefaultConfig_PassesValidation(t *testing.T) {
	assert.NoError(t, Validate(DefaultConfig()))
}

func TestNetworkConfig_Durations(t *testing.T) {
	connect, data := DefaultConfig().NetworkConfig.Durations()
	assert.Equal(t, "10s", connect.String())
	assert.Equal(t, "1m0s", data.String())
}
