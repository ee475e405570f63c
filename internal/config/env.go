package config

import (
	"log/slog"
	"os"
)

// Environment variable names for overrides.
const (
	EnvConfig       = "DRACOON_GO_CONFIG"
	EnvBaseURL      = "DRACOON_GO_BASE_URL"
	EnvClientID     = "DRACOON_GO_CLIENT_ID"
	EnvClientSecret = "DRACOON_GO_CLIENT_SECRET"
)

// EnvOverrides holds values derived from environment variables.
type EnvOverrides struct {
	ConfigPath   string // DRACOON_GO_CONFIG: override config file path
	BaseURL      string // DRACOON_GO_BASE_URL
	ClientID     string // DRACOON_GO_CLIENT_ID
	ClientSecret string // DRACOON_GO_CLIENT_SECRET; never logged
}

// ReadEnvOverrides reads environment variables and returns any overrides found.
// This does not modify the Config; Resolve applies the relevant fields.
func ReadEnvOverrides(logger *slog.Logger) EnvOverrides {
	env := EnvOverrides{
		ConfigPath:   os.Getenv(EnvConfig),
		BaseURL:      os.Getenv(EnvBaseURL),
		ClientID:     os.Getenv(EnvClientID),
		ClientSecret: os.Getenv(EnvClientSecret),
	}

	logger.Debug("environment overrides",
		slog.String("config_path", env.ConfigPath),
		slog.String("base_url", env.BaseURL),
		slog.String("client_id", env.ClientID),
		slog.Bool("client_secret_set", env.ClientSecret != ""),
	)

	return env
}
